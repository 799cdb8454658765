// Package extract turns classified fetch results into normalized draw
// records. One extractor per parse strategy: JSON payloads, HTML pages
// (adapter rules first, generic patterns second), and the external
// vision fallback. Extractors tag every record with their method and
// the source URL, and leave unparseable fields absent.
package extract

import (
	"context"

	"github.com/jonesrussell/godraws/internal/adapters"
	"github.com/jonesrussell/godraws/internal/domain"
	"github.com/jonesrussell/godraws/internal/logger"
)

// Extractor converts one fetch result into zero or more draw records.
type Extractor interface {
	Method() domain.Method
	Extract(ctx context.Context, target domain.Target, res domain.FetchResult) ([]domain.DrawRecord, error)
}

// Set holds the per-classification extractors for a run.
type Set struct {
	json   Extractor
	html   Extractor
	vision Extractor
}

// NewSet builds the extractor set shared by all targets in a run.
func NewSet(table *adapters.Table, visionCfg VisionConfig, log logger.Interface) *Set {
	return &Set{
		json:   NewJSONExtractor(log),
		html:   NewHTMLExtractor(table, log),
		vision: NewVisionExtractor(visionCfg, log),
	}
}

// For returns the extractor for a classification, or nil when the
// classification yields nothing to parse.
func (s *Set) For(class domain.Classification) Extractor {
	switch {
	case class == domain.ClassJSONOK:
		return s.json
	case class == domain.ClassHTMLOK:
		return s.html
	case class.NeedsVision():
		return s.vision
	default:
		return nil
	}
}

// finishRecord stamps the provenance fields every extractor must set.
func finishRecord(rec *domain.DrawRecord, method domain.Method, res domain.FetchResult) {
	rec.Method = method
	if rec.SourceURL == "" {
		rec.SourceURL = res.FinalURL
		if rec.SourceURL == "" {
			rec.SourceURL = res.URL
		}
	}
	rec.FetchedAt = res.FetchedAt
	rec.Normalize()
}
