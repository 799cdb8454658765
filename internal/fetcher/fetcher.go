// Package fetcher performs the single bounded HTTP GET the pipeline
// issues per target. Transport failures never surface as errors: they
// degrade to a FetchResult with status 0 that the classifier routes to
// the failed bucket. Retry policy belongs to the surrounding scheduler.
package fetcher

import (
	"context"
	"io"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/jonesrussell/godraws/internal/domain"
	"github.com/jonesrussell/godraws/internal/logger"
)

// Config configures the fetcher.
type Config struct {
	Timeout      time.Duration
	UserAgent    string
	MaxBodyBytes int64
}

// Default bounds applied when the config leaves them zero.
const (
	defaultTimeout      = 25 * time.Second
	defaultMaxBodyBytes = 10 * 1024 * 1024 // 10 MB
)

// Fetcher issues one GET per target with a bounded timeout.
type Fetcher struct {
	client       *http.Client
	userAgent    string
	maxBodyBytes int64
	log          logger.Interface
}

// New creates a Fetcher. Redirects are followed by the underlying
// http.Client; the final URL after redirects is captured on the result.
func New(cfg Config, log logger.Interface) *Fetcher {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = defaultMaxBodyBytes
	}
	return &Fetcher{
		client:       &http.Client{Timeout: cfg.Timeout},
		userAgent:    cfg.UserAgent,
		maxBodyBytes: cfg.MaxBodyBytes,
		log:          log.WithComponent("fetcher"),
	}
}

// Fetch performs the GET for target and returns a FetchResult. The
// result always carries the original URL and fetch time; on any
// transport failure Status is 0 and Body is empty.
func (f *Fetcher) Fetch(ctx context.Context, target domain.Target) domain.FetchResult {
	result := domain.FetchResult{
		URL:       target.URL,
		FinalURL:  target.URL,
		FetchedAt: time.Now().UTC(),
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.URL, http.NoBody)
	if err != nil {
		f.log.Warn("invalid target URL", "url", target.URL, "error", err)
		return result
	}
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}
	req.Header.Set("Accept", acceptHeaderFor(target.URL))

	start := time.Now()
	resp, err := f.client.Do(req)
	if err != nil {
		f.log.Warn("fetch failed", "url", target.URL, "error", err)
		return result
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBodyBytes))
	if err != nil {
		f.log.Warn("read body failed", "url", target.URL, "error", err)
		return result
	}

	result.Status = resp.StatusCode
	result.Body = body
	result.Bytes = len(body)
	result.ContentType = mediaType(resp.Header.Get("Content-Type"))
	if resp.Request != nil && resp.Request.URL != nil {
		result.FinalURL = resp.Request.URL.String()
	}

	f.log.Debug("fetched",
		"url", target.URL,
		"status", result.Status,
		"bytes", result.Bytes,
		"content_type", result.ContentType,
		"elapsed", time.Since(start),
	)
	return result
}

// acceptHeaderFor prefers JSON for API-ish endpoints and HTML
// otherwise, matching what the upstream sources expect.
func acceptHeaderFor(url string) string {
	if looksLikeAPI(url) {
		return "application/json, text/plain, */*"
	}
	return "text/html,application/xhtml+xml,application/xml;q=0.9,application/json;q=0.9,*/*;q=0.8"
}

func looksLikeAPI(url string) bool {
	lowered := strings.ToLower(url)
	for _, marker := range []string{"_format=json", "/api/", ".json", ".asmx"} {
		if strings.Contains(lowered, marker) {
			return true
		}
	}
	return false
}

// mediaType strips parameters like charset from a Content-Type header.
func mediaType(header string) string {
	if header == "" {
		return ""
	}
	mt, _, err := mime.ParseMediaType(header)
	if err != nil {
		return header
	}
	return mt
}
