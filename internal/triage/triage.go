// Package triage classifies fetch results: given status, content type,
// and body, it decides how the response must be parsed downstream.
// Classification is a pure, total, deterministic function of the fetch
// result; calling it repeatedly on the same input is safe.
package triage

import (
	"bytes"
	"regexp"
	"strings"

	"github.com/jonesrussell/godraws/internal/domain"
	"github.com/jonesrussell/godraws/internal/htmltext"
)

// minUsableBytes is the smallest body we bother parsing. Anything
// shorter is an error page or an empty response.
const minUsableBytes = 100

// Audit status values recorded alongside the classification.
const (
	statusOK       = "ok"
	statusFallback = "fallback"
	statusFailed   = "failed"
)

// domainKeywords mark a page as lottery-results content. Game names
// plus the phrases result pages use for winning numbers.
var domainKeywords = []string{
	"powerball",
	"mega millions",
	"megamillions",
	"lucky for life",
	"cash4life",
	"cash 4 life",
	"lotto america",
	"winning numbers",
	"lottery results",
	"draw results",
	"drawing results",
	"jackpot",
}

// digitsRunRx matches a run of four or more delimited 1-2 digit tokens,
// the shape drawn numbers take once markup is flattened to text.
var digitsRunRx = regexp.MustCompile(`\b\d{1,2}\b(?:\s*[,\-•–—+]\s*|\s+)\b\d{1,2}\b(?:\s*[,\-•–—+]\s*|\s+)\b\d{1,2}\b(?:\s*[,\-•–—+]\s*|\s+)\b\d{1,2}\b`)

// Date-like token patterns. Presence only: the classifier does not
// verify that the date is recent.
var (
	monthDayRx = regexp.MustCompile(`(?i)\b(jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)[a-z]*\.?\s+\d{1,2}\b`)
	weekdayRx  = regexp.MustCompile(`(?i)\b(monday|tuesday|wednesday|thursday|friday|saturday|sunday)\b`)
	numericRx  = regexp.MustCompile(`\b\d{1,2}/\d{1,2}/\d{2,4}\b`)
)

// Classify runs the triage decision tree over a fetch result.
func Classify(res domain.FetchResult) domain.Classification {
	if res.Status != 200 || res.Bytes < minUsableBytes {
		return domain.ClassBadHTTP
	}

	if isJSONContentType(res.ContentType) || bodyStartsJSON(res.Body) {
		return domain.ClassJSONOK
	}

	if isTextContentType(res.ContentType, res.Body) {
		text := htmltext.Flatten(res.Body)
		if hasKeywordAndDigits(text) && hasRecencyToken(text) {
			return domain.ClassHTMLOK
		}
		return domain.ClassNeedsVision
	}

	return domain.ClassUnsupported
}

// Audit builds the append-only audit record for one classified target.
func Audit(res domain.FetchResult, class domain.Classification) domain.AuditRecord {
	return domain.AuditRecord{
		URL:         res.URL,
		FinalURL:    res.FinalURL,
		HTTPCode:    res.Status,
		ContentType: res.ContentType,
		Bytes:       res.Bytes,
		Status:      auditStatus(class),
		Class:       class,
		CheckedAt:   res.FetchedAt,
	}
}

func auditStatus(class domain.Classification) string {
	switch class {
	case domain.ClassJSONOK, domain.ClassHTMLOK:
		return statusOK
	case domain.ClassNeedsVision, domain.ClassUnsupported:
		return statusFallback
	default:
		return statusFailed
	}
}

// isJSONContentType reports whether the declared content type is a
// JSON variant, including +json suffixes.
func isJSONContentType(ct string) bool {
	ct = strings.ToLower(ct)
	return ct == "application/json" || ct == "text/json" || strings.HasSuffix(ct, "+json")
}

// bodyStartsJSON reports whether the first non-whitespace byte opens a
// JSON object or array.
func bodyStartsJSON(body []byte) bool {
	trimmed := bytes.TrimLeft(body, " \t\r\n\uFEFF")
	return len(trimmed) > 0 && (trimmed[0] == '{' || trimmed[0] == '[')
}

// isTextContentType covers the HTML/text variants the heuristics can
// decode. An empty content type falls back to sniffing for markup.
func isTextContentType(ct string, body []byte) bool {
	ct = strings.ToLower(ct)
	if strings.HasPrefix(ct, "text/") || ct == "application/xhtml+xml" {
		return true
	}
	if ct == "" {
		trimmed := bytes.TrimLeft(body, " \t\r\n")
		return len(trimmed) > 0 && trimmed[0] == '<'
	}
	return false
}

// hasKeywordAndDigits requires both a domain keyword and a run of
// delimited candidate numbers.
func hasKeywordAndDigits(text string) bool {
	lowered := strings.ToLower(text)
	found := false
	for _, kw := range domainKeywords {
		if strings.Contains(lowered, kw) {
			found = true
			break
		}
	}
	if !found {
		return false
	}
	return digitsRunRx.MatchString(htmltext.Collapse(text))
}

// hasRecencyToken checks for the presence of any date-like token. This
// is presence only, not a freshness check.
func hasRecencyToken(text string) bool {
	return monthDayRx.MatchString(text) ||
		weekdayRx.MatchString(text) ||
		numericRx.MatchString(text)
}
