package query

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/singleflight"
)

type Status string

const (
	StatusIdle    Status = "idle"
	StatusPending Status = "pending"
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

type Options[T any] struct {
	Key   Key
	Fetch func(ctx context.Context) (T, error)
	// Evaluated on every read; nil means always enabled.
	Enabled func() bool
	// Zero uses the client policy.
	StaleTime time.Duration
}

func (o Options[T]) enabled() bool {
	return o.Enabled == nil || o.Enabled()
}

func (o Options[T]) staleTime(p Policy) time.Duration {
	if o.StaleTime > 0 {
		return o.StaleTime
	}
	return p.StaleTime
}

func (o Options[T]) fetch(ctx context.Context) (any, error) {
	v, err := o.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	return v, nil
}

// Fetch returns the cached value when fresh, the cached value plus a
// background refetch when stale, and otherwise waits for the shared fetch.
func Fetch[T any](ctx context.Context, c *Client, opts Options[T]) (T, error) {
	var zero T
	if !opts.enabled() {
		return zero, ErrDisabled
	}

	stale := opts.staleTime(c.policy)
	s := c.snapshot(opts.Key, stale)

	switch {
	case s.fresh:
		c.metrics.CacheLookup(opts.Key.Kind, "hit")
		return s.value.(T), nil
	case s.hasValue:
		c.metrics.CacheLookup(opts.Key.Kind, "stale")
		c.start(ctx, opts.Key, stale, opts.fetch)
		return s.value.(T), nil
	}

	c.metrics.CacheLookup(opts.Key.Kind, "miss")
	return await[T](ctx, c.start(ctx, opts.Key, stale, opts.fetch))
}

func await[T any](ctx context.Context, ch <-chan singleflight.Result) (T, error) {
	var zero T
	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	case r := <-ch:
		if r.Err != nil {
			return zero, r.Err
		}
		v, ok := r.Val.(T)
		if !ok {
			return zero, fmt.Errorf("query: unexpected result type %T", r.Val)
		}
		return v, nil
	}
}

// Result is the render-time view of a query.
type Result[T any] struct {
	Data T
	// Set when Data holds a servable value.
	HasData bool
	Status  Status
	// No data yet and a fetch is underway.
	IsPending bool
	// A fetch is underway, with or without data.
	IsFetching bool
	Err        error
	UpdatedAt  time.Time
}

// Query is a typed handle on one cache entry.
type Query[T any] struct {
	c    *Client
	opts Options[T]
}

func NewQuery[T any](c *Client, opts Options[T]) *Query[T] {
	return &Query[T]{c: c, opts: opts}
}

func (q *Query[T]) Key() Key {
	return q.opts.Key
}

func (q *Query[T]) Enabled() bool {
	return q.opts.enabled()
}

// Get waits for a value.
func (q *Query[T]) Get(ctx context.Context) (T, error) {
	return Fetch(ctx, q.c, q.opts)
}

// Refetch discards the cached value for this key and waits for a new one.
func (q *Query[T]) Refetch(ctx context.Context) (T, error) {
	q.c.InvalidateKey(q.opts.Key)
	return q.Get(ctx)
}

// Use never blocks. It reports the current state and starts a fetch when the
// entry is missing, stale or invalidated. A failed entry without data is not
// refetched automatically; call Refetch.
func (q *Query[T]) Use(ctx context.Context) Result[T] {
	var res Result[T]
	if !q.opts.enabled() {
		res.Status = StatusIdle
		return res
	}

	stale := q.opts.staleTime(q.c.policy)
	s := q.c.snapshot(q.opts.Key, stale)

	started := false
	switch {
	case s.fresh, s.fetching:
	case !s.hasValue && s.err != nil:
	default:
		q.c.start(ctx, q.opts.Key, stale, q.opts.fetch)
		started = true
	}

	if s.hasValue {
		res.Data = s.value.(T)
		res.HasData = true
		res.UpdatedAt = s.updatedAt
	}
	res.Err = s.err
	res.IsFetching = s.fetching || started

	switch {
	case s.hasValue:
		res.Status = StatusSuccess
	case res.IsFetching:
		res.Status = StatusPending
		res.IsPending = true
	default:
		res.Status = StatusError
	}
	return res
}

// Peek returns the cached value without fetching.
func (q *Query[T]) Peek() (T, bool) {
	var zero T
	s := q.c.snapshot(q.opts.Key, 0)
	if !s.hasValue {
		return zero, false
	}
	return s.value.(T), true
}
