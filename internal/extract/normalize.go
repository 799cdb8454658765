package extract

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/araddon/dateparse"
)

var (
	estimatedRx = regexp.MustCompile(`(?i)\best(imated)?\b`)
	digitRunRx  = regexp.MustCompile(`\d+`)

	isoDateRx      = regexp.MustCompile(`\b(\d{4})[-/](\d{2})[-/](\d{2})\b`)
	usDateRx       = regexp.MustCompile(`\b(\d{1,2})/(\d{1,2})/(\d{2,4})\b`)
	monthDateRx    = regexp.MustCompile(`(?i)\b(jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)[a-z]*\.?\s+(\d{1,2}),?\s*(\d{4})\b`)
	drawDateLineRx = regexp.MustCompile(`(?i)draw(?:ing)?\s*date[^0-9]{0,8}(\d{1,2}/\d{1,2}/\d{2,4})`)
)

// ParseMoney reduces a monetary string to its embedded digit sequence
// and parses it as an integer. "est"/"estimated" prefixes are ignored;
// an empty digit sequence yields nil, never zero.
func ParseMoney(s string) *int64 {
	s = estimatedRx.ReplaceAllString(s, "")
	digits := strings.Join(digitRunRx.FindAllString(s, -1), "")
	if digits == "" {
		return nil
	}
	v, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return nil
	}
	return &v
}

// MoneyFromValue normalizes a JSON value (number or string) to integer
// USD. Anything else yields nil.
func MoneyFromValue(v any) *int64 {
	switch val := v.(type) {
	case float64:
		if val < 0 {
			return nil
		}
		n := int64(val)
		return &n
	case string:
		return ParseMoney(val)
	default:
		return nil
	}
}

// NormalizeDate reduces a date string of any common shape to
// YYYY-MM-DD. Returns "" when no date can be read; callers must treat
// that as absent rather than substituting today.
func NormalizeDate(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}

	if m := isoDateRx.FindStringSubmatch(s); m != nil {
		return m[1] + "-" + m[2] + "-" + m[3]
	}

	if t, err := dateparse.ParseAny(s); err == nil {
		return t.Format("2006-01-02")
	}

	if m := usDateRx.FindStringSubmatch(s); m != nil {
		return usDateParts(m[1], m[2], m[3])
	}
	return ""
}

// SniffDate scans free text for the first date-like token and
// normalizes it. Used when a page has no labeled draw date field.
func SniffDate(text string) string {
	if m := drawDateLineRx.FindStringSubmatch(text); m != nil {
		return NormalizeDate(m[1])
	}
	if m := isoDateRx.FindString(text); m != "" {
		return NormalizeDate(m)
	}
	if m := monthDateRx.FindString(text); m != "" {
		return NormalizeDate(m)
	}
	if m := usDateRx.FindString(text); m != "" {
		return NormalizeDate(m)
	}
	return ""
}

func usDateParts(mm, dd, yy string) string {
	month, err1 := strconv.Atoi(mm)
	day, err2 := strconv.Atoi(dd)
	year, err3 := strconv.Atoi(yy)
	if err1 != nil || err2 != nil || err3 != nil {
		return ""
	}
	if year < 100 {
		year += 2000
	}
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return ""
	}
	return strconv.Itoa(year) + "-" + pad2(month) + "-" + pad2(day)
}

func pad2(n int) string {
	if n < 10 {
		return "0" + strconv.Itoa(n)
	}
	return strconv.Itoa(n)
}
