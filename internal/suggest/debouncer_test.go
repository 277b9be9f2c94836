package suggest

import (
	"context"
	"errors"
	"fuel-dispatch-dashboard/internal/domain"
	"fuel-dispatch-dashboard/internal/platform/logx"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeProvider records every input. Inputs listed in block wait for release.
type fakeProvider struct {
	ready   atomic.Bool
	mu      sync.Mutex
	inputs  []string
	block   map[string]chan struct{}
	err     error
	results map[string][]domain.Suggestion

	// Requests whose context was cancelled by the time they returned.
	canceled atomic.Int32
}

func newFakeProvider() *fakeProvider {
	p := &fakeProvider{
		block:   map[string]chan struct{}{},
		results: map[string][]domain.Suggestion{},
	}
	p.ready.Store(true)
	return p
}

func (p *fakeProvider) Ready() bool { return p.ready.Load() }

func (p *fakeProvider) Predict(ctx context.Context, input string) ([]domain.Suggestion, error) {
	p.mu.Lock()
	p.inputs = append(p.inputs, input)
	gate := p.block[input]
	err := p.err
	res := p.results[input]
	p.mu.Unlock()

	if gate != nil {
		<-gate
	}
	if ctx.Err() != nil {
		p.canceled.Add(1)
	}
	if err != nil {
		return nil, err
	}
	if res == nil {
		res = []domain.Suggestion{{Text: input + ", ON, Canada", PlaceID: "id-" + input}}
	}
	return res, nil
}

func (p *fakeProvider) Inputs() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.inputs...)
}

func testOptions() Options {
	return Options{
		Delay:        20 * time.Millisecond,
		MinLength:    3,
		ReadyTimeout: 50 * time.Millisecond,
		PollInterval: 5 * time.Millisecond,
		Logger:       logx.Nop(),
	}
}

func TestDebounceIssuesOneRequestForLatestInput(t *testing.T) {
	p := newFakeProvider()
	d := New(p, testOptions())
	defer d.Close()

	for _, s := range []string{"To", "Tor", "Toro"} {
		d.Input(s)
	}

	require.Eventually(t, func() bool { return len(d.Suggestions()) == 1 }, time.Second, time.Millisecond)
	time.Sleep(50 * time.Millisecond)

	assert.Equal(t, []string{"Toro"}, p.Inputs())
	assert.Equal(t, "Toro, ON, Canada", d.Suggestions()[0].Text)
}

func TestShortInputClearsWithoutRequest(t *testing.T) {
	p := newFakeProvider()

	var mu sync.Mutex
	var changes [][]domain.Suggestion
	opts := testOptions()
	opts.OnChange = func(s []domain.Suggestion) {
		mu.Lock()
		changes = append(changes, s)
		mu.Unlock()
	}
	d := New(p, opts)
	defer d.Close()

	d.Input("Ottawa")
	require.Eventually(t, func() bool { return len(d.Suggestions()) == 1 }, time.Second, time.Millisecond)

	d.Input(" Ot ")
	assert.Empty(t, d.Suggestions())
	assert.NotNil(t, d.Suggestions())
	assert.Equal(t, []string{"Ottawa"}, p.Inputs())

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, changes, 2)
	assert.Empty(t, changes[1])
}

func TestStaleResponseDiscarded(t *testing.T) {
	p := newFakeProvider()
	gate := make(chan struct{})
	p.block["Tor"] = gate

	d := New(p, testOptions())
	defer d.Close()

	d.Input("Tor")
	require.Eventually(t, func() bool { return len(p.Inputs()) == 1 }, time.Second, time.Millisecond)

	d.Input("Toronto")
	require.Eventually(t, func() bool { return len(d.Suggestions()) == 1 }, time.Second, time.Millisecond)
	assert.Equal(t, "Toronto, ON, Canada", d.Suggestions()[0].Text)

	close(gate)
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, "Toronto, ON, Canada", d.Suggestions()[0].Text, "late response for an old input must not win")
	assert.Equal(t, int32(0), p.canceled.Load(), "newer input must not cancel the older request")
}

func TestCloseCancelsInFlightRequest(t *testing.T) {
	p := newFakeProvider()
	gate := make(chan struct{})
	p.block["Ottawa"] = gate

	d := New(p, testOptions())
	d.Input("Ottawa")
	require.Eventually(t, func() bool { return len(p.Inputs()) == 1 }, time.Second, time.Millisecond)

	d.Close()
	close(gate)
	require.Eventually(t, func() bool { return p.canceled.Load() == 1 }, time.Second, time.Millisecond)
	assert.Empty(t, d.Suggestions())
}

func TestListIsReplacedNotAppended(t *testing.T) {
	p := newFakeProvider()
	p.results["Mont"] = []domain.Suggestion{{Text: "Montreal"}, {Text: "Montague"}}
	p.results["Montr"] = []domain.Suggestion{{Text: "Montreal"}}

	d := New(p, testOptions())
	defer d.Close()

	d.Input("Mont")
	require.Eventually(t, func() bool { return len(d.Suggestions()) == 2 }, time.Second, time.Millisecond)

	d.Input("Montr")
	require.Eventually(t, func() bool { return len(d.Suggestions()) == 1 }, time.Second, time.Millisecond)
	assert.Equal(t, "Montreal", d.Suggestions()[0].Text)
}

func TestProviderNeverReadyFailsClosed(t *testing.T) {
	p := newFakeProvider()
	p.ready.Store(false)

	changed := make(chan []domain.Suggestion, 1)
	opts := testOptions()
	opts.OnChange = func(s []domain.Suggestion) { changed <- s }
	d := New(p, opts)
	defer d.Close()

	d.Input("Toronto")

	select {
	case s := <-changed:
		assert.Empty(t, s)
		assert.NotNil(t, s)
	case <-time.After(time.Second):
		t.Fatal("debouncer did not give up on the provider")
	}
	assert.Empty(t, p.Inputs())
}

func TestProviderBecomesReady(t *testing.T) {
	p := newFakeProvider()
	p.ready.Store(false)
	time.AfterFunc(15*time.Millisecond, func() { p.ready.Store(true) })

	d := New(p, testOptions())
	defer d.Close()

	d.Input("Kingston")
	require.Eventually(t, func() bool { return len(d.Suggestions()) == 1 }, time.Second, time.Millisecond)
	assert.Equal(t, []string{"Kingston"}, p.Inputs())
}

func TestProviderErrorFailsClosed(t *testing.T) {
	p := newFakeProvider()
	d := New(p, testOptions())
	defer d.Close()

	d.Input("Barrie")
	require.Eventually(t, func() bool { return len(d.Suggestions()) == 1 }, time.Second, time.Millisecond)

	p.mu.Lock()
	p.err = errors.New("quota exceeded")
	p.mu.Unlock()

	d.Input("Barrie ON")
	require.Eventually(t, func() bool { return len(d.Suggestions()) == 0 }, time.Second, time.Millisecond)
	assert.Len(t, p.Inputs(), 2)
}

func TestIndependentFields(t *testing.T) {
	p := newFakeProvider()
	from := New(p, testOptions())
	to := New(p, testOptions())
	defer from.Close()
	defer to.Close()

	from.Input("Toronto")
	to.Input("Montreal")

	require.Eventually(t, func() bool {
		return len(from.Suggestions()) == 1 && len(to.Suggestions()) == 1
	}, time.Second, time.Millisecond)
	assert.Equal(t, "Toronto, ON, Canada", from.Suggestions()[0].Text)
	assert.Equal(t, "Montreal, ON, Canada", to.Suggestions()[0].Text)
}
