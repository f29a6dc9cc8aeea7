package mymemory

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/phrazzld/enlearn/internal/translate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc, retries int) (*Client, *int32) {
	t.Helper()
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	c := NewClient(Config{
		Endpoint:          srv.URL + "/get",
		Timeout:           time.Second,
		RequestsPerSecond: 1000,
		Retries:           retries,
		RetryBase:         time.Millisecond,
	})
	return c, &calls
}

func TestLookupParsesCandidates(t *testing.T) {
	t.Parallel()
	c, calls := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/get", r.URL.Path)
		assert.Equal(t, "apple", r.URL.Query().Get("q"))
		assert.Equal(t, "auto|zh-TW", r.URL.Query().Get("langpair"))
		assert.Equal(t, "enlearn-vocab-app/1.0", r.Header.Get("User-Agent"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"responseData": {"translatedText": " 蘋果 "},
			"responseStatus": 200,
			"matches": [
				{"translation": "蘋果"},
				{"translation": "APPLE"},
				"garbage",
				{"translation": 42},
				{"translation": "蘋果樹"}
			]
		}`))
	}, 0)

	got, err := c.Lookup(context.Background(), "  apple ")

	require.NoError(t, err)
	assert.Equal(t, []string{"蘋果", "蘋果樹"}, got)
	assert.Equal(t, int32(1), atomic.LoadInt32(calls))
}

func TestLookupEchoOnlyIsNotFound(t *testing.T) {
	t.Parallel()
	c, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"responseData": {"translatedText": "qwxz"}, "matches": []}`))
	}, 0)

	got, err := c.Lookup(context.Background(), "qwxz")

	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestLookupEmptyWordSkipsRequest(t *testing.T) {
	t.Parallel()
	c, calls := newTestClient(t, func(http.ResponseWriter, *http.Request) {}, 0)

	got, err := c.Lookup(context.Background(), "   ")

	require.NoError(t, err)
	assert.Nil(t, got)
	assert.Equal(t, int32(0), atomic.LoadInt32(calls))
}

func TestLookupRetriesTransientFailures(t *testing.T) {
	t.Parallel()
	var n int32
	c, calls := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		if atomic.AddInt32(&n, 1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{"responseData": {"translatedText": "蘋果"}}`))
	}, 2)

	got, err := c.Lookup(context.Background(), "apple")

	require.NoError(t, err)
	assert.Equal(t, []string{"蘋果"}, got)
	assert.Equal(t, int32(2), atomic.LoadInt32(calls))
}

func TestLookupFailures(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name      string
		handler   http.HandlerFunc
		retries   int
		wantCalls int32
	}{
		{
			name: "client error is not retried",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusBadRequest)
			},
			retries:   2,
			wantCalls: 1,
		},
		{
			name: "server error exhausts retries",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusBadGateway)
			},
			retries:   2,
			wantCalls: 3,
		},
		{
			name: "invalid json",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(`<html>oops</html>`))
			},
			retries:   2,
			wantCalls: 1,
		},
		{
			name: "provider reports error status",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(`{"responseData": {"translatedText": "INVALID LANGUAGE PAIR"},
					"responseStatus": "403", "responseDetails": "INVALID LANGUAGE PAIR"}`))
			},
			retries:   0,
			wantCalls: 1,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			c, calls := newTestClient(t, tc.handler, tc.retries)

			got, err := c.Lookup(context.Background(), "apple")

			require.Error(t, err)
			assert.Nil(t, got)
			assert.True(t, errors.Is(err, translate.ErrLookupFailed))
			assert.Equal(t, tc.wantCalls, atomic.LoadInt32(calls))
		})
	}
}

func TestLookupTimeout(t *testing.T) {
	t.Parallel()
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(func() {
		close(release)
		srv.Close()
	})

	c := NewClient(Config{Endpoint: srv.URL, Timeout: 20 * time.Millisecond})

	_, err := c.Lookup(context.Background(), "apple")

	assert.ErrorIs(t, err, translate.ErrLookupFailed)
}

func TestLookupCancelledContext(t *testing.T) {
	t.Parallel()
	c, calls := newTestClient(t, func(http.ResponseWriter, *http.Request) {}, 3)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.Lookup(ctx, "apple")

	require.Error(t, err)
	assert.Equal(t, int32(0), atomic.LoadInt32(calls))
}

func TestNewClientDefaults(t *testing.T) {
	t.Parallel()
	c := NewClient(Config{})

	assert.Equal(t, DefaultEndpoint, c.cfg.Endpoint)
	assert.Equal(t, DefaultLangPair, c.cfg.LangPair)
	assert.Equal(t, DefaultUserAgent, c.cfg.UserAgent)
	assert.Equal(t, DefaultTimeout, c.http.Timeout)
}
