// Package apitest provides test fixtures for the api package and its
// consumers.
package apitest

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"slices"
	"sync"

	"github.com/togethertools/together-upload/internal/api"
	"github.com/togethertools/together-upload/internal/observability"
)

// RequestCopy is a snapshot of a request received by the server.
type RequestCopy struct {
	Method string
	URL    *url.URL
	Body   []byte
	Header http.Header
}

// RecordingServer is an HTTP server that records all requests made to it.
type RecordingServer struct {
	sync.Mutex
	*httptest.Server

	requests []RequestCopy
}

// Requests returns all requests recorded by the server.
func (s *RecordingServer) Requests() []RequestCopy {
	s.Lock()
	defer s.Unlock()
	return slices.Clone(s.requests)
}

type RecordingServerOption func(*recordingServerConfig)

type recordingServerConfig struct {
	handlerFunc http.HandlerFunc
}

// WithHandlerFunc sets the handler invoked after recording each request.
// The default handler responds 200 with body "OK".
func WithHandlerFunc(handler http.HandlerFunc) RecordingServerOption {
	return func(config *recordingServerConfig) {
		config.handlerFunc = handler
	}
}

// NewRecordingServer returns a server that records all requests made to it.
func NewRecordingServer(opts ...RecordingServerOption) *RecordingServer {
	rs := &RecordingServer{
		requests: make([]RequestCopy, 0),
	}

	config := &recordingServerConfig{}
	for _, opt := range opts {
		opt(config)
	}

	rs.Server = httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			body, _ := io.ReadAll(r.Body)
			r.Body = io.NopCloser(bytes.NewReader(body))

			rs.Lock()
			rs.requests = append(rs.requests,
				RequestCopy{
					Method: r.Method,
					URL:    r.URL,
					Body:   body,
					Header: r.Header.Clone(),
				})
			rs.Unlock()

			if config.handlerFunc != nil {
				config.handlerFunc(w, r)
			} else {
				_, _ = w.Write([]byte("OK"))
			}
		}),
	)

	return rs
}

// TestClient returns an [api.Client] pointed at the given base URL.
func TestClient(baseURLString string, opts api.ClientOptions) api.Client {
	baseURL, err := url.Parse(baseURLString)
	if err != nil {
		panic(err)
	}

	backend := api.New(baseURL, observability.NewNoOpLogger())
	return backend.NewClient(opts)
}
