// Together backend API transport.
package api

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/togethertools/together-upload/internal/observability"
)

// The Together backend server.
//
// There is exactly one Backend and a small number of Clients in a process.
type Backend struct {
	// The URL prefix for all requests to the Together API.
	baseURL *url.URL

	// The logger for transport diagnostics, or nil.
	logger *observability.CoreLogger
}

// An HTTP request to the Together backend.
type Request struct {
	// The standard HTTP method.
	Method string

	// The request path, relative to the base URL.
	//
	// Example: "files".
	Path string

	// The request body or nil.
	//
	// Since requests may be retried, this is always a byte slice rather
	// than an [io.ReadCloser] as in Go's standard HTTP package.
	Body []byte

	// Additional HTTP headers to include in the request.
	//
	// These are sent in addition to any headers set automatically by the
	// client, such as for auth.
	Headers map[string]string
}

// Client is an HTTP client for the Together backend.
type Client interface {
	// Send sends the request, retrying per the client's policy.
	//
	// A non-nil response is returned for any completed request, including
	// those with error statuses; the caller owns the response body.
	Send(ctx context.Context, req *Request) (*http.Response, error)

	// Do sends a prepared retryable request.
	Do(req *retryablehttp.Request) (*http.Response, error)
}

// ClientOptions configures a [Client].
type ClientOptions struct {
	// APIKey is the bearer token sent on every request.
	APIKey string

	// RetryMax is the number of retries after the first attempt.
	RetryMax int

	// RetryWaitMin is the minimum wait between retries.
	RetryWaitMin time.Duration

	// RetryWaitMax is the maximum wait between retries.
	RetryWaitMax time.Duration

	// Timeout is the per-attempt HTTP timeout.
	Timeout time.Duration

	// ExtraHeaders are sent on every request.
	ExtraHeaders map[string]string
}

// New creates a [Backend].
//
// The baseURL is the URL prefix for contacting the server, not including a
// final slash. Example "https://api.together.xyz/v1".
func New(baseURL *url.URL, logger *observability.CoreLogger) *Backend {
	return &Backend{baseURL: baseURL, logger: logger}
}

// NewClient creates a new [Client] for making requests to the [Backend].
func (backend *Backend) NewClient(opts ClientOptions) Client {
	retryableHTTP := retryablehttp.NewClient()
	retryableHTTP.RetryMax = opts.RetryMax
	if opts.RetryWaitMin > 0 {
		retryableHTTP.RetryWaitMin = opts.RetryWaitMin
	}
	if opts.RetryWaitMax > 0 {
		retryableHTTP.RetryWaitMax = opts.RetryWaitMax
	}
	retryableHTTP.HTTPClient.Timeout = opts.Timeout

	if backend.logger != nil {
		retryableHTTP.Logger = slog.NewLogLogger(
			backend.logger.Handler(),
			slog.LevelDebug,
		)
		retryableHTTP.CheckRetry = withRetryLogging(
			retryablehttp.DefaultRetryPolicy,
			backend.logger.Logger,
		)
	}

	retryableHTTP.HTTPClient.Transport = NewRateLimitedTransport(
		&authedTransport{
			key:     opts.APIKey,
			headers: opts.ExtraHeaders,
			wrapped: retryableHTTP.HTTPClient.Transport,
		},
	)

	return &clientImpl{
		backend:       backend,
		retryableHTTP: retryableHTTP,
	}
}

type clientImpl struct {
	// A reference to the backend.
	backend *Backend

	// The underlying retryable HTTP client.
	retryableHTTP *retryablehttp.Client
}
