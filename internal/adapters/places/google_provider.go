package places

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"fuel-dispatch-dashboard/internal/domain"
	"fuel-dispatch-dashboard/internal/platform/obs"
	"fuel-dispatch-dashboard/internal/transform"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const (
	DefaultEndpoint = "https://places.googleapis.com/v1/places:autocomplete"
	DefaultRegion   = "ca"

	fieldMask = "suggestions.placePrediction.placeId,suggestions.placePrediction.text"
)

// GoogleProvider implements SuggestionProvider on Places Autocomplete (New).
//
// It coordinates:
//   - Input normalization
//   - Region restriction
//   - Retry of rate-limited and transient failures
//
// The provider is safe for concurrent use.
type GoogleProvider struct {
	session  *http.Client
	apiKey   string
	endpoint string
	region   string
	retry    Retry
	log      zerolog.Logger
}

type Options struct {
	APIKey string
	// Two-letter region code; empty means DefaultRegion.
	Region   string
	Endpoint string
	Timeout  time.Duration
	// Zero uses two attempts 100ms apart.
	Retry  Retry
	Logger zerolog.Logger
}

// NewGoogleProvider never fails: without an API key the provider simply
// never reports ready.
func NewGoogleProvider(opts Options) *GoogleProvider {
	if opts.Endpoint == "" {
		opts.Endpoint = DefaultEndpoint
	}
	if opts.Region == "" {
		opts.Region = DefaultRegion
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	if opts.Retry == (Retry{}) {
		opts.Retry = defaultRetry
	}

	return &GoogleProvider{
		session:  &http.Client{Timeout: opts.Timeout},
		apiKey:   strings.TrimSpace(opts.APIKey),
		endpoint: opts.Endpoint,
		region:   strings.ToLower(opts.Region),
		retry:    opts.Retry,
		log:      opts.Logger,
	}
}

func (p *GoogleProvider) Ready() bool {
	return p.apiKey != ""
}

type autocompleteRequest struct {
	Input               string   `json:"input"`
	IncludedRegionCodes []string `json:"includedRegionCodes,omitempty"`
}

func (p *GoogleProvider) Predict(ctx context.Context, input string) (_ []domain.Suggestion, err error) {
	defer obs.Time(ctx, p.log, "places.autocomplete")(&err)

	if !p.Ready() {
		return nil, fmt.Errorf("places: api key is not configured")
	}

	body, err := json.Marshal(autocompleteRequest{
		Input:               normalize(input),
		IncludedRegionCodes: []string{p.region},
	})
	if err != nil {
		return nil, fmt.Errorf("places: encode request: %w", err)
	}

	resp, err := p.send(ctx, func() (*http.Request, error) {
		return p.newRequest(ctx, body)
	})
	if err != nil {
		return nil, fmt.Errorf("places: autocomplete %q: %w", input, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("places: read response: %w", err)
	}
	return transform.Predictions(raw), nil
}

// normalize collapses whitespace so "Toro  nto " and "Toro nto" query alike.
func normalize(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func (p *GoogleProvider) newRequest(ctx context.Context, body []byte) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("X-Goog-Api-Key", p.apiKey)
	req.Header.Set("X-Goog-FieldMask", fieldMask)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")

	return req, nil
}
