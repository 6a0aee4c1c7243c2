package ratelimit

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAllowBurstPerClient(t *testing.T) {
	l := New(1, 2, time.Minute)
	frozen := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return frozen }

	assert.True(t, l.Allow("a"))
	assert.True(t, l.Allow("a"))
	assert.False(t, l.Allow("a"))
	assert.True(t, l.Allow("b"), "clients have independent buckets")

	frozen = frozen.Add(time.Second)
	assert.True(t, l.Allow("a"), "bucket refills over time")
}

func TestDisabledWhenRateNotPositive(t *testing.T) {
	l := New(0, 1, time.Minute)
	for i := 0; i < 100; i++ {
		assert.True(t, l.Allow("a"))
	}
}

func TestPrunesIdleClients(t *testing.T) {
	l := New(1, 1, time.Minute)
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }

	l.Allow("a")
	l.Allow("b")
	assert.Equal(t, 2, l.Len())

	now = now.Add(2 * time.Minute)
	l.Allow("c")
	assert.Equal(t, 1, l.Len())
}

func TestMiddleware(t *testing.T) {
	l := New(1, 1, time.Minute)
	frozen := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return frozen }

	handler := l.Middleware(nil)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodPost, "/intake/next", nil)
	req.RemoteAddr = "203.0.113.9:5000"

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "198.51.100.4:1234"
	assert.Equal(t, "198.51.100.4", ClientIP(req))

	req.RemoteAddr = "bare"
	assert.Equal(t, "bare", ClientIP(req))
}
