package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"fuel-dispatch-dashboard/internal/platform/metrics"
	"fuel-dispatch-dashboard/internal/platform/obs"
	"fuel-dispatch-dashboard/internal/ports"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Responses larger than this are truncated; optimization payloads stay well below it.
const maxBodyBytes = 8 << 20

// Client is the single point of outbound traffic to the dispatch backend.
//
// It coordinates:
//   - Bearer token attachment from the TokenStore
//   - One timeout for every call
//   - Normalization of every failure into *Error
//   - Token clearing on 401 (never retried here)
//
// The client is safe for concurrent use.
type Client struct {
	session        *http.Client
	baseURL        string
	tokens         ports.TokenStore
	onUnauthorized func()
	log            zerolog.Logger
	metrics        *metrics.Metrics
}

type Options struct {
	BaseURL string
	Timeout time.Duration
	Tokens  ports.TokenStore
	// Called after a 401 cleared the stored credentials.
	OnUnauthorized func()
	Logger         zerolog.Logger
	Metrics        *metrics.Metrics
	// Optional; Timeout is applied to it when set.
	HTTPClient *http.Client
}

func New(opts Options) (*Client, error) {
	base, err := NormalizeBaseURL(opts.BaseURL)
	if err != nil {
		return nil, err
	}
	if opts.Timeout <= 0 {
		return nil, errors.New("transport: timeout must be positive")
	}

	session := opts.HTTPClient
	if session == nil {
		session = &http.Client{}
	}
	session.Timeout = opts.Timeout

	return &Client{
		session:        session,
		baseURL:        base,
		tokens:         opts.Tokens,
		onUnauthorized: opts.OnUnauthorized,
		log:            opts.Logger,
		metrics:        opts.Metrics,
	}, nil
}

// NormalizeBaseURL trims trailing slashes and makes sure the URL ends in /api.
func NormalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimRight(strings.TrimSpace(raw), "/")
	if raw == "" {
		return "", errors.New("transport: base url is empty")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("transport: parse base url %q: %w", raw, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("transport: base url %q must be absolute", raw)
	}
	if !strings.HasSuffix(raw, "/api") {
		raw += "/api"
	}
	return raw, nil
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) Get(ctx context.Context, path string, query url.Values) ([]byte, error) {
	return c.send(ctx, http.MethodGet, path, query, nil, "", true)
}

func (c *Client) PostJSON(ctx context.Context, path string, body any) ([]byte, error) {
	if body == nil {
		body = struct{}{}
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, &Error{Message: fmt.Sprintf("encode request body: %v", err), Err: err}
	}
	return c.send(ctx, http.MethodPost, path, nil, payload, "application/json", true)
}

func (c *Client) PostForm(ctx context.Context, path string, form url.Values) ([]byte, error) {
	return c.send(ctx, http.MethodPost, path, nil, []byte(form.Encode()), "application/x-www-form-urlencoded", false)
}

func (c *Client) newRequest(
	ctx context.Context,
	method string,
	path string,
	query url.Values,
	body []byte,
	contentType string,
) (*http.Request, error) {
	endpoint := c.baseURL + "/" + strings.TrimLeft(path, "/")
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var r io.Reader
	if body != nil {
		r = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, r)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("X-Request-ID", obs.RequestID(ctx))

	return req, nil
}

func (c *Client) send(
	ctx context.Context,
	method string,
	path string,
	query url.Values,
	body []byte,
	contentType string,
	withAuth bool,
) (_ []byte, err error) {
	ctx, _ = obs.WithRequestID(ctx)
	label := routeLabel(path)
	defer obs.Time(ctx, c.log, "transport "+method+" "+label)(&err)

	req, err := c.newRequest(ctx, method, path, query, body, contentType)
	if err != nil {
		return nil, &Error{Message: err.Error(), Err: err}
	}

	token := ""
	if withAuth && c.tokens != nil {
		token = c.tokens.Token()
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.session.Do(req)
	if err != nil {
		c.metrics.ObserveRequest(method, label, 0, time.Since(start))
		return nil, networkError(err)
	}
	defer resp.Body.Close()

	data, readErr := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	c.metrics.ObserveRequest(method, label, resp.StatusCode, time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := statusError(resp.StatusCode, data)
		if resp.StatusCode == http.StatusUnauthorized && token != "" {
			c.unauthorized()
		}
		return nil, apiErr
	}
	if readErr != nil {
		return nil, &Error{
			Message: fmt.Sprintf("read response body: %v", readErr),
			Status:  resp.StatusCode,
			Err:     readErr,
		}
	}

	return data, nil
}

// unauthorized drops the stored credentials and signals re-authentication.
func (c *Client) unauthorized() {
	if c.tokens != nil {
		if err := c.tokens.Clear(); err != nil {
			c.log.Error().Err(err).Msg("clear token after 401 failed")
		}
	}
	c.log.Warn().Msg("backend rejected credentials, re-authentication required")
	if c.onUnauthorized != nil {
		c.onUnauthorized()
	}
}

// routeLabel collapses resource ids so metric labels stay bounded.
func routeLabel(path string) string {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) == 2 {
		switch parts[0] {
		case "trucks", "stations", "trips":
			return "/" + parts[0] + "/{id}"
		}
	}
	return "/" + strings.Join(parts, "/")
}
