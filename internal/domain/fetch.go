package domain

import "time"

// Target is one registry entry: a URL to fetch plus optional metadata
// carried on the registry line. Immutable for the duration of a run.
type Target struct {
	URL  string
	Game string
	Note string
}

// FetchResult captures everything the classifier needs about a single
// HTTP GET. A transport failure is represented as Status 0 with an
// empty body rather than an error.
type FetchResult struct {
	URL         string
	FinalURL    string
	Status      int
	ContentType string
	Bytes       int
	Body        []byte
	FetchedAt   time.Time
}

// Classification is the triage verdict for a fetch result: how (or
// whether) the body can be parsed downstream.
type Classification string

const (
	ClassJSONOK      Classification = "json_ok"
	ClassHTMLOK      Classification = "html_ok"
	ClassNeedsVision Classification = "needs_vision"
	ClassBadHTTP     Classification = "bad_http_or_empty"
	ClassUnsupported Classification = "unsupported_content_type"
)

// NeedsVision reports whether the classification routes to the vision
// fallback path. Unsupported content types go the same way.
func (c Classification) NeedsVision() bool {
	return c == ClassNeedsVision || c == ClassUnsupported
}

// AuditRecord is the append-only per-target audit entry written once
// per run, whatever the outcome.
type AuditRecord struct {
	RunID       string         `json:"run_id,omitempty"`
	URL         string         `json:"url"`
	FinalURL    string         `json:"final_url"`
	HTTPCode    int            `json:"http_code"`
	ContentType string         `json:"content_type"`
	Bytes       int            `json:"bytes"`
	Status      string         `json:"status"`
	Class       Classification `json:"class"`
	CheckedAt   time.Time      `json:"checked_at"`
}
