package extract

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"spendscope/internal/entity"
	"spendscope/internal/normalize"
)

// Confidence banding: exact ISO dates are near-certain, spelled-out months
// are strong, day-first numeric dates are decent, and numeric dates where
// day and month are interchangeable stay at 0.50.
const (
	confDateISO       = 0.95
	confDateMonthName = 0.85
	confDateDMY       = 0.75
	confDateNumeric   = 0.50
)

var (
	reDateISO       = regexp.MustCompile(`\b(\d{4})[-/](\d{1,2})[-/](\d{1,2})\b`)
	reDateDMY       = regexp.MustCompile(`\b(\d{1,2})[-/](\d{1,2})[-/](\d{4})\b`)
	reDateMonthDay  = regexp.MustCompile(`(?i)\b(jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)[a-z]*\.?\s+(\d{1,2})(?:st|nd|rd|th)?[,\s]\s*(\d{4})\b`)
	reDateDayMonth  = regexp.MustCompile(`(?i)\b(\d{1,2})(?:st|nd|rd|th)?\s+(jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)[a-z]*\.?,?\s+(\d{4})\b`)
	monthsByPrefix  = map[string]time.Month{"jan": 1, "feb": 2, "mar": 3, "apr": 4, "may": 5, "jun": 6, "jul": 7, "aug": 8, "sep": 9, "oct": 10, "nov": 11, "dec": 12}
)

// ExtractDates proposes transaction-date candidates, ordered by descending
// confidence. Formats are tried in a fixed priority order; malformed matches
// (month 13, day 32) are dropped, never raised.
func ExtractDates(n normalize.NormalizedText) []entity.Field[time.Time] {
	if n.Empty() {
		return nil
	}
	var out []entity.Field[time.Time]

	for _, m := range reDateISO.FindAllStringSubmatchIndex(n.Text, -1) {
		year, month, day := atoi(n.Text[m[2]:m[3]]), atoi(n.Text[m[4]:m[5]]), atoi(n.Text[m[6]:m[7]])
		if d, ok := makeDate(year, month, day); ok {
			out = append(out, dateField(d, confDateISO, IDDateISO, m[0], m[1]))
		}
	}
	for _, m := range reDateMonthDay.FindAllStringSubmatchIndex(n.Text, -1) {
		month := monthsByPrefix[strings.ToLower(n.Text[m[2]:m[3]])]
		day, year := atoi(n.Text[m[4]:m[5]]), atoi(n.Text[m[6]:m[7]])
		if d, ok := makeDate(year, int(month), day); ok {
			out = append(out, dateField(d, confDateMonthName, IDDateMonthName, m[0], m[1]))
		}
	}
	for _, m := range reDateDayMonth.FindAllStringSubmatchIndex(n.Text, -1) {
		day := atoi(n.Text[m[2]:m[3]])
		month := monthsByPrefix[strings.ToLower(n.Text[m[4]:m[5]])]
		year := atoi(n.Text[m[6]:m[7]])
		if d, ok := makeDate(year, int(month), day); ok {
			out = append(out, dateField(d, confDateMonthName, IDDateMonthName, m[0], m[1]))
		}
	}
	for _, m := range reDateDMY.FindAllStringSubmatchIndex(n.Text, -1) {
		day, month, year := atoi(n.Text[m[2]:m[3]]), atoi(n.Text[m[4]:m[5]]), atoi(n.Text[m[6]:m[7]])
		conf, id := confDateDMY, IDDateDMY
		if day <= 12 {
			// could equally be MM/DD; day-first is assumed but scored low
			conf, id = confDateNumeric, IDDateNumeric
		}
		if d, ok := makeDate(year, month, day); ok {
			out = append(out, dateField(d, conf, id, m[0], m[1]))
		}
	}

	orderCandidates(out)
	return out
}

func dateField(d time.Time, conf float64, id string, start, end int) entity.Field[time.Time] {
	return entity.Field[time.Time]{
		Value:       d,
		Confidence:  conf,
		Span:        entity.Span{Start: start, End: end},
		ExtractorID: id,
	}
}

// makeDate validates the components by round-tripping through time.Date.
func makeDate(year, month, day int) (time.Time, bool) {
	if year < 1900 || year > 2200 || month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, false
	}
	d := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if d.Year() != year || int(d.Month()) != month || d.Day() != day {
		return time.Time{}, false
	}
	return d, true
}

func atoi(s string) int {
	v, _ := strconv.Atoi(s)
	return v
}
