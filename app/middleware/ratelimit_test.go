package appMiddleware

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func newTestLimiter(t *testing.T, burst int) *RateLimiter {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	return NewRateLimiter(ctx, 0.001, burst, time.Minute, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestRateLimiterLimit(t *testing.T) {
	rl := newTestLimiter(t, 2)
	handler := rl.Limit(KeyByIP)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	call := func(addr string) int {
		req := httptest.NewRequest(http.MethodGet, "/places", nil)
		req.RemoteAddr = addr
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		return w.Code
	}

	t.Run("burst then reject", func(t *testing.T) {
		assert.Equal(t, http.StatusOK, call("10.0.0.1:1111"))
		assert.Equal(t, http.StatusOK, call("10.0.0.1:2222"))
		assert.Equal(t, http.StatusTooManyRequests, call("10.0.0.1:3333"))
	})

	t.Run("other clients have their own bucket", func(t *testing.T) {
		assert.Equal(t, http.StatusOK, call("10.0.0.2:1111"))
	})
}

func TestRateLimiterEvictIdle(t *testing.T) {
	rl := newTestLimiter(t, 1)
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }

	rl.getLimiter("stale")
	now = now.Add(2 * time.Minute)
	rl.getLimiter("fresh")
	rl.evictIdle()

	rl.mu.Lock()
	defer rl.mu.Unlock()
	assert.NotContains(t, rl.visitors, "stale")
	assert.Contains(t, rl.visitors, "fresh")
}

func TestKeyByIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.168.1.9:5050"
	assert.Equal(t, "192.168.1.9", KeyByIP(req))

	req.RemoteAddr = "not-an-address"
	assert.Equal(t, "not-an-address", KeyByIP(req))
}
