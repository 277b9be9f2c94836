package places

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/tidwall/gjson"
)

// Retry bounds how hard the provider tries before failing closed. Suggestions
// go stale within a keystroke, so the defaults are small.
type Retry struct {
	// Total attempts including the first; values below 1 mean 1.
	Attempts int
	Backoff  time.Duration
}

var defaultRetry = Retry{Attempts: 2, Backoff: 100 * time.Millisecond}

// apiError is a non-2xx answer from the Places API. Message comes from the
// Google error envelope {"error": {"message": ...}} when present.
type apiError struct {
	Status  int
	Message string
}

func (e *apiError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("status %d", e.Status)
	}
	return fmt.Sprintf("status %d: %s", e.Status, e.Message)
}

func (e *apiError) transient() bool {
	return e.Status == http.StatusTooManyRequests || e.Status >= 500
}

func readAPIError(resp *http.Response) *apiError {
	b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	return &apiError{
		Status:  resp.StatusCode,
		Message: gjson.GetBytes(b, "error.message").String(),
	}
}

// transient reports whether a failed attempt is worth repeating.
func transient(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var ae *apiError
	if errors.As(err, &ae) {
		return ae.transient()
	}
	var ne net.Error
	return errors.As(err, &ne)
}

// send issues the request built by build, repeating transient failures per
// the provider's Retry with doubling backoff. A 2xx response is returned open.
func (p *GoogleProvider) send(ctx context.Context, build func() (*http.Request, error)) (*http.Response, error) {
	attempts := max(p.retry.Attempts, 1)
	backoff := p.retry.Backoff

	for attempt := 1; ; attempt++ {
		req, err := build()
		if err != nil {
			return nil, err
		}

		resp, err := p.session.Do(req)
		if err == nil && resp.StatusCode >= 300 {
			err = readAPIError(resp)
			resp.Body.Close()
		}
		if err == nil {
			return resp, nil
		}

		if attempt >= attempts || !transient(err) {
			return nil, err
		}
		p.log.Debug().Int("attempt", attempt).Dur("backoff", backoff).Err(err).Msg("places request failed, retrying")

		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
		backoff *= 2
	}
}
