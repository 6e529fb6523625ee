package extract

import (
	"strings"

	"spendscope/constants"
	"spendscope/internal/entity"
	"spendscope/internal/normalize"
)

const confCategoryKeyword = 0.70

// ExtractCategories proposes expense categories by scanning the document and
// the vendor guess for taxonomy keywords. One candidate per category, in
// keyword priority order.
func ExtractCategories(n normalize.NormalizedText, vendorGuess string) []entity.Field[constants.Category] {
	lower := strings.ToLower(n.Text)
	vendorLower := strings.ToLower(vendorGuess)
	if lower == "" && vendorLower == "" {
		return nil
	}

	var out []entity.Field[constants.Category]
	seen := map[constants.Category]bool{}
	for _, keyword := range constants.KeywordList() {
		cat := constants.CategoryKeywords[keyword]
		if seen[cat] {
			continue
		}
		idx := strings.Index(lower, keyword)
		if idx < 0 && vendorLower != "" && strings.Contains(vendorLower, keyword) {
			idx = 0
		}
		if idx < 0 {
			continue
		}
		seen[cat] = true
		out = append(out, entity.Field[constants.Category]{
			Value:       cat,
			Confidence:  confCategoryKeyword,
			Span:        entity.Span{Start: idx, End: idx + len(keyword)},
			ExtractorID: IDCategoryKeyword,
		})
	}
	return out
}
