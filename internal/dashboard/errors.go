package dashboard

import (
	"errors"
	"fuel-dispatch-dashboard/internal/adapters/transport"
	"fuel-dispatch-dashboard/internal/query"
)

const optimizationFailed = "AI optimization failed"

// OptimizationError is a failed route or dispatch optimization. Its message is
// the normalized transport message; the UI offers a retry and manual planning.
type OptimizationError struct {
	Op      string
	Message string
	Err     error
}

func newOptimizationError(op string, err error) *OptimizationError {
	return &OptimizationError{Op: op, Message: message(err), Err: err}
}

func (e *OptimizationError) Error() string {
	return e.Message
}

func (e *OptimizationError) Unwrap() error {
	return e.Err
}

// Notice is what the UI shows for an error and which actions it offers.
type Notice struct {
	Title          string
	Message        string
	Retry          bool
	ManualFallback bool
	Reauthenticate bool
}

// Describe maps any error from this package onto a Notice.
func Describe(err error) Notice {
	if err == nil {
		return Notice{}
	}

	var oe *OptimizationError
	if errors.As(err, &oe) {
		n := Notice{Title: optimizationFailed, Message: oe.Message, Retry: true, ManualFallback: true}
		if errors.Is(err, transport.ErrUnauthenticated) {
			n.Retry = false
			n.Reauthenticate = true
		}
		return n
	}

	switch {
	case errors.Is(err, transport.ErrUnauthenticated):
		return Notice{Title: "Session expired", Message: "Please sign in again.", Reauthenticate: true}
	case errors.Is(err, query.ErrDisabled):
		return Notice{Title: "Sign in required", Message: "Please sign in to load this data.", Reauthenticate: true}
	}

	var te *transport.Error
	if errors.As(err, &te) {
		title := "Request failed"
		switch {
		case te.Status == 0:
			title = "Network error"
		case te.Status >= 500:
			title = "Server error"
		}
		return Notice{Title: title, Message: te.Message, Retry: te.Retryable()}
	}

	return Notice{Title: "Something went wrong", Message: err.Error(), Retry: true}
}

func message(err error) string {
	var te *transport.Error
	if errors.As(err, &te) {
		return te.Message
	}
	return err.Error()
}
