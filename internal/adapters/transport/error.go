package transport

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/tidwall/gjson"
)

// ErrUnauthenticated marks a 401 from the backend. The stored token has been
// cleared by the time a caller sees it and the caller must re-authenticate.
var ErrUnauthenticated = errors.New("authentication required")

const genericMessage = "Request failed"

// Error is the single normalized failure shape of the transport.
// Status is 0 when no response was received.
type Error struct {
	Message string
	Status  int
	Data    []byte
	Err     error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Retryable reports whether repeating the same request may succeed:
// network failures, timeouts, 408, 429 and 5xx.
func (e *Error) Retryable() bool {
	if errors.Is(e.Err, ErrUnauthenticated) {
		return false
	}
	switch {
	case e.Status == 0:
		return true
	case e.Status == http.StatusRequestTimeout, e.Status == http.StatusTooManyRequests:
		return true
	case e.Status >= 500:
		return true
	}
	return false
}

func statusError(status int, data []byte) *Error {
	msg := serverMessage(data)
	if msg == "" {
		msg = fmt.Sprintf("%s with status code %d", genericMessage, status)
	}

	e := &Error{Message: msg, Status: status}
	if len(data) > 0 {
		e.Data = data
	}
	if status == http.StatusUnauthorized {
		e.Err = ErrUnauthenticated
	}
	return e
}

// Timeout reports whether the request hit the transport timeout.
func (e *Error) Timeout() bool {
	if errors.Is(e.Err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(e.Err, &ne) && ne.Timeout()
}

func networkError(err error) *Error {
	var ne net.Error
	msg := genericMessage
	switch {
	case errors.Is(err, context.DeadlineExceeded), errors.As(err, &ne) && ne.Timeout():
		msg = "Request timed out"
	case errors.Is(err, context.Canceled):
		msg = "Request canceled"
	case err != nil:
		msg = fmt.Sprintf("Network error: %v", err)
	}
	return &Error{Message: msg, Err: err}
}

// serverMessage extracts the human-readable part of an error payload.
// FastAPI sends {"detail": "..."} or a validation list {"detail": [{"msg": "..."}]}.
func serverMessage(data []byte) string {
	if len(data) == 0 || !gjson.ValidBytes(data) {
		return ""
	}

	doc := gjson.ParseBytes(data)
	for _, path := range []string{"detail", "detail.0.msg", "detail.message", "error", "message"} {
		r := doc.Get(path)
		if r.Type == gjson.String && r.Str != "" {
			return r.Str
		}
	}
	return ""
}
