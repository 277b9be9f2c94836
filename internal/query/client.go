package query

import (
	"context"
	"errors"
	"fuel-dispatch-dashboard/internal/platform/metrics"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
)

var ErrDisabled = errors.New("query disabled")

// A fetch invalidated while in flight is repeated at most this many times
// before its result is handed to waiters without being cached.
const maxInvalidatedRefetch = 3

// Policy holds the staleness, eviction and retry windows of the cache.
type Policy struct {
	StaleTime     time.Duration
	GCTime        time.Duration
	Retry         int
	RetryDelay    time.Duration
	MaxRetryDelay time.Duration
}

// Client is the read cache shared by every query of a session.
//
// At most one fetch per key is in flight at any time: the entry map is
// guarded by mu and fetches run inside a singleflight group keyed by
// Key.String().
type Client struct {
	policy  Policy
	log     zerolog.Logger
	metrics *metrics.Metrics
	now     func() time.Time

	group singleflight.Group

	mu      sync.Mutex
	entries map[string]*entry
	// Bumped by Clear so fetches started before it never write back.
	epoch uint64
}

type entry struct {
	key       Key
	value     any
	hasValue  bool
	updatedAt time.Time
	err       error
	errAt     time.Time
	fetching  bool
	// Bumped by every invalidation; a fetch only stores its result when the
	// generation it started with is still current.
	generation uint64
	invalid    bool
	// Stale time of the last read that fetched this entry. An entry is never
	// evicted while it would still be served fresh.
	staleTime time.Duration
}

// snapshot is a consistent copy of an entry taken under the lock.
type snapshot struct {
	value     any
	hasValue  bool
	fresh     bool
	fetching  bool
	err       error
	updatedAt time.Time
}

func NewClient(policy Policy, log zerolog.Logger, m *metrics.Metrics) *Client {
	return &Client{
		policy:  policy,
		log:     log,
		metrics: m,
		now:     time.Now,
		entries: make(map[string]*entry),
	}
}

func (c *Client) snapshot(k Key, staleTime time.Duration) snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[k.String()]
	if !ok {
		return snapshot{}
	}

	s := snapshot{fetching: e.fetching, err: e.err}
	// Invalidated values are never served.
	if e.hasValue && !e.invalid {
		s.value = e.value
		s.hasValue = true
		s.updatedAt = e.updatedAt
		s.fresh = c.now().Sub(e.updatedAt) < staleTime
	}
	return s
}

// start joins the in-flight fetch for the key or launches one. The fetch runs
// on a context detached from ctx, so one caller giving up does not cancel it
// for the others.
func (c *Client) start(
	ctx context.Context,
	k Key,
	staleTime time.Duration,
	fetch func(context.Context) (any, error),
) <-chan singleflight.Result {
	detached := context.WithoutCancel(ctx)
	return c.group.DoChan(k.String(), func() (any, error) {
		return c.run(detached, k, staleTime, fetch)
	})
}

func (c *Client) run(
	ctx context.Context,
	k Key,
	staleTime time.Duration,
	fetch func(context.Context) (any, error),
) (any, error) {
	// A flight that finished between the caller's lookup and this one may
	// already have stored a fresh value.
	if s := c.snapshot(k, staleTime); s.fresh {
		return s.value, nil
	}

	var (
		v   any
		err error
	)
	for attempt := 0; ; attempt++ {
		gen, epoch := c.begin(k, staleTime)
		v, err = c.withRetry(ctx, k, fetch)

		last := attempt >= maxInvalidatedRefetch
		if c.finish(k, gen, epoch, v, err, last) {
			return v, err
		}
		c.log.Debug().Str("key", k.String()).Msg("invalidated while in flight, refetching")
	}
}

func (c *Client) begin(k Key, staleTime time.Duration) (generation, epoch uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := k.String()
	e, ok := c.entries[key]
	if !ok {
		e = &entry{key: k}
		c.entries[key] = e
	}
	e.fetching = true
	e.staleTime = staleTime
	return e.generation, c.epoch
}

// finish records the outcome of a fetch. It reports false when the entry was
// invalidated meanwhile and the fetch must be repeated.
func (c *Client) finish(k Key, generation, epoch uint64, v any, err error, last bool) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if epoch != c.epoch {
		return true
	}
	e, ok := c.entries[k.String()]
	if !ok {
		return true
	}

	if e.generation != generation {
		if !last {
			return false
		}
		e.fetching = false
		return true
	}

	now := c.now()
	e.fetching = false
	if err != nil {
		e.err = err
		e.errAt = now
	} else {
		e.value = v
		e.hasValue = true
		e.updatedAt = now
		e.err = nil
		e.invalid = false
	}

	c.sweepLocked(now)
	return true
}

type retryable interface {
	Retryable() bool
}

func shouldRetry(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, ErrDisabled) {
		return false
	}
	var r retryable
	if errors.As(err, &r) {
		return r.Retryable()
	}
	return true
}

// withRetry repeats failed reads with exponential backoff capped at
// MaxRetryDelay while respecting context cancellation.
func (c *Client) withRetry(
	ctx context.Context,
	k Key,
	fetch func(context.Context) (any, error),
) (any, error) {
	backoff := c.policy.RetryDelay

	for attempt := 0; ; attempt++ {
		v, err := fetch(ctx)
		c.metrics.CacheFetch(k.Kind, err)
		if err == nil {
			return v, nil
		}

		if attempt >= c.policy.Retry || !shouldRetry(err) {
			c.log.Warn().Str("key", k.String()).Int("attempts", attempt+1).Err(err).Msg("query failed")
			return nil, err
		}

		c.log.Debug().
			Str("key", k.String()).
			Int("attempt", attempt+1).
			Dur("backoff", backoff).
			Err(err).
			Msg("query failed, retrying")

		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}

		backoff *= 2
		if c.policy.MaxRetryDelay > 0 && backoff > c.policy.MaxRetryDelay {
			backoff = c.policy.MaxRetryDelay
		}
	}
}

// Invalidate marks every entry of the given kinds as untrustworthy. The next
// read of such an entry waits for a refetch; an in-flight fetch for it is
// repeated before its result is cached.
func (c *Client) Invalidate(kinds ...string) {
	if len(kinds) == 0 {
		return
	}
	set := make(map[string]bool, len(kinds))
	for _, k := range kinds {
		set[k] = true
	}

	c.mu.Lock()
	n := 0
	for _, e := range c.entries {
		if set[e.key.Kind] {
			c.invalidateLocked(e)
			n++
		}
	}
	c.mu.Unlock()

	for _, k := range kinds {
		c.metrics.Invalidated(k)
	}
	c.log.Debug().Strs("kinds", kinds).Int("entries", n).Msg("cache invalidated")
}

// InvalidateKey marks a single entry as untrustworthy.
func (c *Client) InvalidateKey(k Key) {
	c.mu.Lock()
	if e, ok := c.entries[k.String()]; ok {
		c.invalidateLocked(e)
	}
	c.mu.Unlock()
	c.metrics.Invalidated(k.Kind)
}

func (c *Client) invalidateLocked(e *entry) {
	e.generation++
	e.invalid = true
	e.err = nil
}

// Clear drops every entry. In-flight fetches finish but are not cached.
func (c *Client) Clear() {
	c.mu.Lock()
	keys := make([]string, 0, len(c.entries))
	for k := range c.entries {
		keys = append(keys, k)
	}
	c.entries = make(map[string]*entry)
	c.epoch++
	c.mu.Unlock()

	for _, k := range keys {
		c.group.Forget(k)
	}
	c.log.Info().Int("entries", len(keys)).Msg("cache cleared")
}

// Sweep evicts entries not written within GCTime, or within their own stale
// time when that is longer, and returns how many it removed.
func (c *Client) Sweep() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sweepLocked(c.now())
}

func (c *Client) sweepLocked(now time.Time) int {
	if c.policy.GCTime <= 0 {
		return 0
	}
	n := 0
	for key, e := range c.entries {
		if e.fetching {
			continue
		}
		last := e.updatedAt
		if e.errAt.After(last) {
			last = e.errAt
		}
		if now.Sub(last) > max(c.policy.GCTime, e.staleTime) {
			delete(c.entries, key)
			n++
		}
	}
	return n
}

func (c *Client) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
