// Package sentryext wraps the Sentry client used for error reporting.
//
// If no DSN is configured the client is effectively disabled and never sends
// anything.
package sentryext

import (
	"log/slog"
	"time"

	"github.com/getsentry/sentry-go"
)

type Params struct {
	// DSN is the Data Source Name for the Sentry client. Empty disables
	// reporting.
	DSN string

	// AttachStacktrace attaches stack traces to captured events.
	AttachStacktrace bool

	// Release is the version of the application.
	Release string

	// Environment is the environment the application is running in.
	Environment string

	// LRUSize is the size of the recent-error cache.
	LRUSize int
}

type Client struct {
	// recent caches errors sent to Sentry recently to avoid sending the
	// same error multiple times.
	recent *cache
}

// New initializes the Sentry client.
func New(params Params) *Client {
	if err := sentry.Init(
		sentry.ClientOptions{
			Dsn:              params.DSN,
			AttachStacktrace: params.AttachStacktrace,
			Release:          params.Release,
			Environment:      params.Environment,
		}); err != nil {
		slog.Error("sentryext: New: failed to initialize sentry", "err", err)
	}

	recent, err := newCache(params.LRUSize)
	if err != nil {
		slog.Error("sentryext: New: failed to create cache", "err", err)
		return nil
	}

	return &Client{recent: recent}
}

// CaptureException captures an error and sends it to Sentry as an error
// level event, enriched with the given tags.
func (s *Client) CaptureException(err error, tags map[string]string) {
	if !s.recent.shouldCapture(err) {
		return
	}

	localHub := sentry.CurrentHub().Clone()
	localHub.ConfigureScope(
		func(scope *sentry.Scope) {
			scope.SetTags(tags)
		},
	)
	localHub.CaptureException(err)
}

// CaptureMessage captures a message and sends it to Sentry as an info level
// event.
func (s *Client) CaptureMessage(msg string, tags map[string]string) {
	localHub := sentry.CurrentHub().Clone()
	localHub.ConfigureScope(
		func(scope *sentry.Scope) {
			scope.SetTags(tags)
		},
	)
	localHub.CaptureMessage(msg)
}

// Flush waits for buffered events to be sent, up to the given timeout.
func (s *Client) Flush(timeout time.Duration) bool {
	return sentry.Flush(timeout)
}
