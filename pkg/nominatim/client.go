// Package nominatim reverse-geocodes coordinates with the OpenStreetMap
// Nominatim API.
package nominatim

import (
	"context"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

// DefaultBaseURL is the public Nominatim endpoint.
const DefaultBaseURL = "https://nominatim.openstreetmap.org"

// DefaultUserAgent identifies the client. Nominatim rejects requests without one.
const DefaultUserAgent = "POI-Parking-Identifier/1.0"

// Client resolves coordinates to a place description.
type Client interface {
	// Reverse performs a single reverse lookup for (lat, lon).
	Reverse(ctx context.Context, lat, lon float64) (*Place, error)
}

// Option configures the client.
type Option func(*client)

// WithBaseURL points the client at another Nominatim instance.
func WithBaseURL(u string) Option {
	return func(c *client) {
		if u != "" {
			c.baseURL = u
		}
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *client) {
		c.httpClient = hc
	}
}

// WithTimeout sets the per-request timeout of the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *client) {
		if d > 0 {
			c.httpClient = &http.Client{Timeout: d}
		}
	}
}

// WithUserAgent sets the required identifying User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *client) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

// WithRateLimit caps requests per second, including retries.
func WithRateLimit(rps float64) Option {
	return func(c *client) {
		if rps > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(rps), 1)
		}
	}
}

// WithZoom sets the detail level of the lookup (18 = building).
func WithZoom(zoom int) Option {
	return func(c *client) {
		if zoom > 0 {
			c.zoom = zoom
		}
	}
}

// WithExtraTags also requests extratags and namedetails.
func WithExtraTags(enabled bool) Option {
	return func(c *client) {
		c.extraTags = enabled
	}
}

type client struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
	zoom       int
	extraTags  bool
	limiter    *rate.Limiter
}

// NewClient creates a new Nominatim Client with the given options.
func NewClient(opts ...Option) Client {
	c := &client{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		baseURL:    DefaultBaseURL,
		userAgent:  DefaultUserAgent,
		zoom:       18,
		limiter:    rate.NewLimiter(1, 1), // usage policy: at most 1 req/s
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}
