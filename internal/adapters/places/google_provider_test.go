package places

import (
	"context"
	"encoding/json"
	"fuel-dispatch-dashboard/internal/domain"
	"fuel-dispatch-dashboard/internal/platform/logx"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPredict(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "test-key", r.Header.Get("X-Goog-Api-Key"))
		assert.NotEmpty(t, r.Header.Get("X-Goog-FieldMask"))

		var body map[string]any
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "Toro nto", body["input"])
		assert.Equal(t, []any{"ca"}, body["includedRegionCodes"])

		w.Write([]byte(`{"suggestions": [
			{"placePrediction": {"placeId": "ChIJpTvG15DL1IkRd8S0KlBVNTI", "text": {"text": "Toronto, ON, Canada"}}}
		]}`))
	}))
	defer srv.Close()

	p := NewGoogleProvider(Options{APIKey: "test-key", Endpoint: srv.URL, Logger: logx.Nop()})
	require.True(t, p.Ready())

	got, err := p.Predict(context.Background(), "  Toro   nto ")
	require.NoError(t, err)
	assert.Equal(t, []domain.Suggestion{{Text: "Toronto, ON, Canada", PlaceID: "ChIJpTvG15DL1IkRd8S0KlBVNTI"}}, got)
}

func TestNotReadyWithoutKey(t *testing.T) {
	p := NewGoogleProvider(Options{Logger: logx.Nop()})
	assert.False(t, p.Ready())

	_, err := p.Predict(context.Background(), "Toronto")
	assert.Error(t, err)
}

func TestPredictRetriesRateLimit(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	p := NewGoogleProvider(Options{APIKey: "k", Endpoint: srv.URL, Timeout: time.Second, Logger: logx.Nop()})
	got, err := p.Predict(context.Background(), "Ottawa")
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestPredictDoesNotRetryClientErrors(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"error": {"message": "API key not valid"}}`))
	}))
	defer srv.Close()

	p := NewGoogleProvider(Options{APIKey: "bad", Endpoint: srv.URL, Logger: logx.Nop()})
	_, err := p.Predict(context.Background(), "Ottawa")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 403: API key not valid")
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestPredictRetryBudget(t *testing.T) {
	tests := []struct {
		name  string
		retry Retry
		want  int32
		ok    bool
	}{
		{"single attempt", Retry{Attempts: 1}, 1, false},
		{"three attempts", Retry{Attempts: 3, Backoff: time.Millisecond}, 3, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var calls int32
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if atomic.AddInt32(&calls, 1) < 3 {
					w.WriteHeader(http.StatusServiceUnavailable)
					return
				}
				w.Write([]byte(`{}`))
			}))
			defer srv.Close()

			p := NewGoogleProvider(Options{APIKey: "k", Endpoint: srv.URL, Retry: tc.retry, Logger: logx.Nop()})
			_, err := p.Predict(context.Background(), "Ottawa")
			assert.Equal(t, tc.ok, err == nil, err)
			assert.Equal(t, tc.want, atomic.LoadInt32(&calls))
		})
	}
}
