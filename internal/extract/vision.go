package extract

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/jonesrussell/godraws/internal/domain"
	"github.com/jonesrussell/godraws/internal/logger"
)

// VisionConfig points at the external vision extraction service. An
// empty URL disables the fallback entirely.
type VisionConfig struct {
	URL     string
	APIKey  string
	Timeout time.Duration
}

// Enabled reports whether a vision endpoint is configured.
func (c VisionConfig) Enabled() bool { return c.URL != "" }

// visionRequest is the payload sent to the vision service: the source
// URL plus the raw bytes it should render and read.
type visionRequest struct {
	URL         string `json:"url"`
	Game        string `json:"game,omitempty"`
	ContentType string `json:"content_type"`
	Body        []byte `json:"body"`
}

type visionResponse struct {
	Records []visionRecord `json:"records"`
}

type visionRecord struct {
	Game        string `json:"game"`
	Date        string `json:"date"`
	Numbers     []int  `json:"numbers"`
	Jackpot     string `json:"jackpot"`
	JackpotType string `json:"jackpot_type"`
	CashValue   string `json:"cash_value"`
}

// VisionExtractor delegates pages the local parsers cannot read to an
// external model-backed service, then re-validates whatever comes back.
// Service output is never trusted as-is.
type VisionExtractor struct {
	cfg    VisionConfig
	client *http.Client
	log    logger.Interface
}

// NewVisionExtractor creates the vision fallback extractor.
func NewVisionExtractor(cfg VisionConfig, log logger.Interface) *VisionExtractor {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &VisionExtractor{
		cfg:    cfg,
		client: &http.Client{Timeout: timeout},
		log:    log.WithComponent("extract.vision"),
	}
}

// Method identifies this extractor's records.
func (e *VisionExtractor) Method() domain.Method { return domain.MethodVision }

// Extract sends the body to the vision service and validates the
// returned records. With no service configured it returns no records
// and no error, leaving the target in the needs-vision queue.
func (e *VisionExtractor) Extract(
	ctx context.Context,
	target domain.Target,
	res domain.FetchResult,
) ([]domain.DrawRecord, error) {
	if !e.cfg.Enabled() {
		e.log.Debug("vision service not configured, skipping", "url", res.URL)
		return nil, nil
	}

	payload, err := json.Marshal(visionRequest{
		URL:         res.URL,
		Game:        target.Game,
		ContentType: res.ContentType,
		Body:        res.Body,
	})
	if err != nil {
		return nil, fmt.Errorf("encode vision request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.cfg.URL, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build vision request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if e.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+e.cfg.APIKey)
	}

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call vision service: %w", err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			e.log.Warn("failed to close vision response body", "error", closeErr)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("vision service returned status %d for %s", resp.StatusCode, res.URL)
	}

	var decoded visionResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decode vision response: %w", err)
	}

	out := make([]domain.DrawRecord, 0, len(decoded.Records))
	for _, vr := range decoded.Records {
		rec, ok := e.validate(vr, target, res)
		if !ok {
			e.log.Warn("dropping invalid vision record",
				"url", res.URL, "game", vr.Game, "date", vr.Date)
			continue
		}
		finishRecord(&rec, domain.MethodVision, res)
		out = append(out, rec)
	}
	return out, nil
}

// validate applies the same gates local extractors face: a known or
// detected game, a parseable date, and numbers within game bounds.
func (e *VisionExtractor) validate(
	vr visionRecord,
	target domain.Target,
	res domain.FetchResult,
) (domain.DrawRecord, bool) {
	game := vr.Game
	if game == "" {
		game = target.Game
	}
	if game == "" {
		game = DetectGame("", res.FinalURL)
	}
	if game == "" {
		return domain.DrawRecord{}, false
	}

	date := NormalizeDate(vr.Date)
	if date == "" {
		return domain.DrawRecord{}, false
	}

	if len(vr.Numbers) < mainCount+1 {
		return domain.DrawRecord{}, false
	}
	mains := append([]int(nil), vr.Numbers[:mainCount]...)
	bonus := vr.Numbers[mainCount]
	if !domain.ValidNumbers(game, mains, bonus) {
		return domain.DrawRecord{}, false
	}

	rec := domain.DrawRecord{
		Game:         game,
		Date:         date,
		Numbers:      append(mains, bonus),
		JackpotUSD:   ParseMoney(vr.Jackpot),
		CashValueUSD: ParseMoney(vr.CashValue),
	}
	if vr.JackpotType != "" {
		rec.JackpotType = domain.NormalizeJackpotType(vr.JackpotType)
	}
	return rec, true
}
