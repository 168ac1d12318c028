package main

import (
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"time"

	"github.com/togethertools/together-upload/internal/api"
	"github.com/togethertools/together-upload/internal/filesapi"
	"github.com/togethertools/together-upload/internal/observability"
	"github.com/togethertools/together-upload/internal/sentryext"
	"github.com/togethertools/together-upload/internal/settings"
	"github.com/togethertools/together-upload/internal/version"
)

const sentryFlushTimeout = 2 * time.Second

// app wires the settings, logger and files client for one invocation.
type app struct {
	settings *settings.Settings
	logger   *observability.CoreLogger
	files    *filesapi.Client
	flush    func()
}

func newApp() (*app, error) {
	loaded, err := settings.Load()
	if err != nil {
		return nil, err
	}

	logger, flush := newLogger(loaded)

	if err := loaded.EnsureAPIKey(); err != nil {
		flush()
		return nil, err
	}

	baseURL, err := url.Parse(loaded.BaseURL)
	if err != nil {
		flush()
		return nil, fmt.Errorf("invalid TOGETHER_BASE_URL: %v", err)
	}

	backend := api.New(baseURL, logger)
	apiClient := backend.NewClient(api.ClientOptions{
		APIKey:       loaded.APIKey,
		RetryMax:     loaded.RetryMax,
		RetryWaitMin: loaded.RetryWaitMin,
		RetryWaitMax: loaded.RetryWaitMax,
		Timeout:      loaded.Timeout,
	})

	return &app{
		settings: loaded,
		logger:   logger,
		files:    filesapi.NewClient(apiClient, logger),
		flush:    flush,
	}, nil
}

// Close flushes buffered error reports.
func (a *app) Close() {
	a.flush()
}

func newLogger(s *settings.Settings) (*observability.CoreLogger, func()) {
	level := slog.LevelError
	if s.Debug {
		level = slog.LevelDebug
	}

	sentryClient := sentryext.New(sentryext.Params{
		DSN:              s.SentryDSN,
		AttachStacktrace: true,
		Release:          version.Version,
	})

	logger := observability.NewCoreLogger(
		slog.New(slog.NewTextHandler(
			os.Stderr,
			&slog.HandlerOptions{Level: level},
		)),
		&observability.CoreLoggerParams{Sentry: sentryClient},
	)

	flush := func() {
		if sentryClient != nil {
			sentryClient.Flush(sentryFlushTimeout)
		}
	}
	return logger, flush
}
