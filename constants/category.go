package constants

import (
	"sort"
	"strings"
)

type Category string

const (
	Groceries     Category = "Groceries"
	Utilities     Category = "Utilities"
	Dining        Category = "Dining"
	Transport     Category = "Transport"
	Health        Category = "Health"
	Shopping      Category = "Shopping"
	Travel        Category = "Travel"
	Uncategorized Category = "Uncategorized"
)

var allCategories = []Category{
	Groceries,
	Utilities,
	Dining,
	Transport,
	Health,
	Shopping,
	Travel,
	Uncategorized,
}

func AllCategories() []Category {
	out := make([]Category, len(allCategories))
	copy(out, allCategories)
	return out
}

func AsStringSlice() []string {
	result := make([]string, len(allCategories))
	for i, cat := range allCategories {
		result[i] = string(cat)
	}
	return result
}

// CategoryKeywords maps document keywords to a category. Matched as lowercase
// substrings against normalized text and vendor names.
var CategoryKeywords = map[string]Category{
	"grocer":       Groceries,
	"supermart":    Groceries,
	"supermarket":  Groceries,
	"hypermarket":  Groceries,
	"electricity":  Utilities,
	"power bill":   Utilities,
	"light bill":   Utilities,
	"water bill":   Utilities,
	"internet":     Utilities,
	"broadband":    Utilities,
	"telecom":      Utilities,
	"restaurant":   Dining,
	"cafe":         Dining,
	"diner":        Dining,
	"petrol":       Transport,
	"gas station":  Transport,
	"fuel":         Transport,
	"pharmacy":     Health,
	"medicine":     Health,
	"clinic":       Health,
	"fashion":      Shopping,
	"clothing":     Shopping,
	"online store": Shopping,
	"airline":      Travel,
	"hotel":        Travel,
}

// KeywordList returns the category keywords in a fixed order (longest first,
// then lexicographic) so substring matching has a declared priority instead of
// relying on map iteration order.
func KeywordList() []string {
	keys := make([]string, 0, len(CategoryKeywords))
	for k := range CategoryKeywords {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) > len(keys[j])
		}
		return keys[i] < keys[j]
	})
	return keys
}

// Canonicalize maps free-form category labels onto the fixed taxonomy.
func Canonicalize(input string) (Category, bool) {
	if input == "" {
		return Uncategorized, false
	}
	normalized := strings.ToLower(strings.TrimSpace(input))
	for _, cat := range allCategories {
		if normalized == strings.ToLower(string(cat)) {
			return cat, true
		}
	}
	if cat, ok := CategoryKeywords[normalized]; ok {
		return cat, true
	}
	return Uncategorized, false
}
