package query

import (
	"context"
	"sync"
)

type MutationState[R any] struct {
	Data      R
	Status    Status
	IsPending bool
	Err       error
}

// Callbacks run after dependent kinds have been invalidated.
type Callbacks[P, R any] struct {
	OnSuccess func(data R, params P)
	OnError   func(err error, params P)
	OnSettled func(data R, err error, params P)
}

// Mutation wraps a write. It is never cached and never retried; on success
// it invalidates every read of the kinds it declares.
type Mutation[P, R any] struct {
	c           *Client
	fn          func(ctx context.Context, params P) (R, error)
	invalidates []string

	mu    sync.Mutex
	state MutationState[R]
}

func NewMutation[P, R any](
	c *Client,
	fn func(ctx context.Context, params P) (R, error),
	invalidates ...string,
) *Mutation[P, R] {
	return &Mutation[P, R]{
		c:           c,
		fn:          fn,
		invalidates: invalidates,
		state:       MutationState[R]{Status: StatusIdle},
	}
}

func (m *Mutation[P, R]) Do(ctx context.Context, params P) (R, error) {
	return m.Mutate(ctx, params, Callbacks[P, R]{})
}

func (m *Mutation[P, R]) Mutate(ctx context.Context, params P, cb Callbacks[P, R]) (R, error) {
	m.mu.Lock()
	m.state.Status = StatusPending
	m.state.IsPending = true
	m.state.Err = nil
	m.mu.Unlock()

	data, err := m.fn(ctx, params)

	if err == nil {
		m.c.Invalidate(m.invalidates...)
	} else {
		m.c.log.Warn().Strs("invalidates", m.invalidates).Err(err).Msg("mutation failed")
	}

	m.mu.Lock()
	m.state.IsPending = false
	if err != nil {
		m.state.Status = StatusError
		m.state.Err = err
	} else {
		m.state.Status = StatusSuccess
		m.state.Data = data
	}
	m.mu.Unlock()

	if err == nil && cb.OnSuccess != nil {
		cb.OnSuccess(data, params)
	}
	if err != nil && cb.OnError != nil {
		cb.OnError(err, params)
	}
	if cb.OnSettled != nil {
		cb.OnSettled(data, err, params)
	}
	return data, err
}

func (m *Mutation[P, R]) State() MutationState[R] {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Reset returns the mutation to idle.
func (m *Mutation[P, R]) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = MutationState[R]{Status: StatusIdle}
}
