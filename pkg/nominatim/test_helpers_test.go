package nominatim

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"golang.org/x/time/rate"
)

// newTestLimiter creates a rate limiter that effectively does not limit for tests.
func newTestLimiter() *rate.Limiter {
	return rate.NewLimiter(rate.Inf, 1)
}

// newTestClient builds a client pointed at srv without request pacing.
func newTestClient(srv *httptest.Server, opts ...Option) *client {
	c := NewClient(append([]Option{WithBaseURL(srv.URL)}, opts...)...).(*client)
	c.limiter = newTestLimiter()
	return c
}

// jsonServer serves body with status for every request and counts calls.
func jsonServer(t *testing.T, status int, body string, calls *atomic.Int32) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls != nil {
			calls.Add(1)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

// stubClient is a Client returning canned results.
type stubClient struct {
	calls atomic.Int32
	place *Place
	err   error
}

func (s *stubClient) Reverse(_ context.Context, _, _ float64) (*Place, error) {
	s.calls.Add(1)
	if s.err != nil {
		return nil, s.err
	}
	p := *s.place
	return &p, nil
}
