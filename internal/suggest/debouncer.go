package suggest

import (
	"context"
	"fuel-dispatch-dashboard/internal/domain"
	"fuel-dispatch-dashboard/internal/platform/metrics"
	"fuel-dispatch-dashboard/internal/ports"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"
)

const (
	DefaultDelay        = 200 * time.Millisecond
	DefaultMinLength    = 3
	DefaultReadyTimeout = 10 * time.Second
	DefaultPollInterval = 50 * time.Millisecond
)

type Options struct {
	Delay        time.Duration
	MinLength    int
	ReadyTimeout time.Duration
	PollInterval time.Duration
	// Called with the new list every time it is replaced.
	OnChange func([]domain.Suggestion)
	Logger   zerolog.Logger
	Metrics  *metrics.Metrics
}

// Debouncer turns keystrokes on one address field into at most one provider
// request per quiet period. Only the response for the latest input is ever
// applied, and the list is replaced wholesale.
//
// Use one Debouncer per field; they share nothing.
type Debouncer struct {
	provider ports.SuggestionProvider
	opts     Options

	// Cancelled by Close only. A newer keystroke never cancels a request in
	// flight; its late result is discarded by apply.
	ctx  context.Context
	stop context.CancelFunc

	mu          sync.Mutex
	seq         uint64
	timer       *time.Timer
	suggestions []domain.Suggestion
	closed      bool
}

func New(provider ports.SuggestionProvider, opts Options) *Debouncer {
	if opts.Delay <= 0 {
		opts.Delay = DefaultDelay
	}
	if opts.MinLength <= 0 {
		opts.MinLength = DefaultMinLength
	}
	if opts.ReadyTimeout <= 0 {
		opts.ReadyTimeout = DefaultReadyTimeout
	}
	if opts.PollInterval <= 0 {
		opts.PollInterval = DefaultPollInterval
	}

	ctx, stop := context.WithCancel(context.Background())
	return &Debouncer{
		provider:    provider,
		opts:        opts,
		ctx:         ctx,
		stop:        stop,
		suggestions: []domain.Suggestion{},
	}
}

// Input records a keystroke. Inputs shorter than MinLength clear the list
// without a request; anything else restarts the quiet period.
func (d *Debouncer) Input(text string) {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}

	d.seq++
	seq := d.seq
	d.stopLocked()

	input := strings.TrimSpace(text)
	if utf8.RuneCountInString(input) < d.opts.MinLength {
		d.suggestions = []domain.Suggestion{}
		d.mu.Unlock()
		d.notify([]domain.Suggestion{})
		return
	}

	d.timer = time.AfterFunc(d.opts.Delay, func() { d.resolve(seq, input) })
	d.mu.Unlock()
}

// Clear drops the list and any pending request, e.g. after a selection.
func (d *Debouncer) Clear() {
	d.mu.Lock()
	d.seq++
	d.stopLocked()
	d.suggestions = []domain.Suggestion{}
	d.mu.Unlock()
	d.notify([]domain.Suggestion{})
}

// Close stops pending work and cancels requests in flight. Later inputs are
// ignored.
func (d *Debouncer) Close() {
	d.mu.Lock()
	d.closed = true
	d.seq++
	d.stopLocked()
	d.mu.Unlock()
	d.stop()
}

func (d *Debouncer) Suggestions() []domain.Suggestion {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]domain.Suggestion, len(d.suggestions))
	copy(out, d.suggestions)
	return out
}

func (d *Debouncer) stopLocked() {
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

func (d *Debouncer) resolve(seq uint64, input string) {
	ctx := d.ctx

	d.mu.Lock()
	stale := seq != d.seq
	d.mu.Unlock()
	if stale {
		return
	}

	if !d.waitReady(ctx) {
		d.opts.Logger.Warn().Dur("timeout", d.opts.ReadyTimeout).Msg("suggestion provider not ready, giving up")
		d.apply(seq, nil, "failed")
		return
	}

	got, err := d.provider.Predict(ctx, input)
	if err != nil {
		if ctx.Err() == nil {
			d.opts.Logger.Warn().Str("input", input).Err(err).Msg("suggestion request failed")
		}
		d.apply(seq, nil, "failed")
		return
	}
	d.apply(seq, got, "applied")
}

// waitReady polls the provider until it reports ready, the timeout passes or
// ctx is done.
func (d *Debouncer) waitReady(ctx context.Context) bool {
	if d.provider.Ready() {
		return true
	}

	deadline := time.NewTimer(d.opts.ReadyTimeout)
	defer deadline.Stop()
	tick := time.NewTicker(d.opts.PollInterval)
	defer tick.Stop()

	for {
		select {
		case <-ctx.Done():
			return false
		case <-deadline.C:
			return false
		case <-tick.C:
			if d.provider.Ready() {
				return true
			}
		}
	}
}

// apply installs list if seq is still the latest input. A nil list fails
// closed to an empty one.
func (d *Debouncer) apply(seq uint64, list []domain.Suggestion, result string) {
	if list == nil {
		list = []domain.Suggestion{}
	}

	d.mu.Lock()
	if seq != d.seq {
		d.mu.Unlock()
		d.opts.Metrics.Suggestion("discarded")
		return
	}
	d.suggestions = list
	d.mu.Unlock()

	d.opts.Metrics.Suggestion(result)
	d.notify(list)
}

func (d *Debouncer) notify(list []domain.Suggestion) {
	if d.opts.OnChange == nil {
		return
	}
	out := make([]domain.Suggestion, len(list))
	copy(out, list)
	d.opts.OnChange(out)
}
