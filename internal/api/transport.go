package api

import (
	"fmt"
	"net/http"

	"golang.org/x/time/rate"

	"github.com/togethertools/together-upload/internal/version"
)

const (
	// maxRequestsPerSecond is the rate limit for outgoing requests.
	maxRequestsPerSecond = 10

	// maxBurst is the maximum number of requests allowed at once.
	maxBurst = 10
)

// authedTransport sets auth and identification headers on every request.
type authedTransport struct {
	key     string
	headers map[string]string
	wrapped http.RoundTripper
}

func (t *authedTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req.Header.Set("Authorization", "Bearer "+t.key)
	req.Header.Set("User-Agent", "together-upload/"+version.Version)
	for headerKey, headerValue := range t.headers {
		req.Header.Set(headerKey, headerValue)
	}
	return t.wrapped.RoundTrip(req)
}

// RateLimitedTransport rate-limits requests to the Together backend.
//
// Implements [http.RoundTripper] for use as a transport for an HTTP client.
type RateLimitedTransport struct {
	delegate http.RoundTripper

	// rateLimiter is the rate limit for all outgoing requests.
	rateLimiter *rate.Limiter
}

// NewRateLimitedTransport rate-limits an HTTP transport for the backend.
func NewRateLimitedTransport(
	delegate http.RoundTripper,
) *RateLimitedTransport {
	return &RateLimitedTransport{
		delegate:    delegate,
		rateLimiter: rate.NewLimiter(maxRequestsPerSecond, maxBurst),
	}
}

func (transport *RateLimitedTransport) RoundTrip(
	req *http.Request,
) (*http.Response, error) {
	if err := transport.rateLimiter.Wait(req.Context()); err != nil {
		return nil, fmt.Errorf("api: rate limit: %w", err)
	}

	return transport.delegate.RoundTrip(req)
}
