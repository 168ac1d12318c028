package sentryext

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShouldCapture_DeduplicatesRecentErrors(t *testing.T) {
	recent, err := newCache(0)
	require.NoError(t, err)

	first := errors.New("request failed (500): oops")

	assert.True(t, recent.shouldCapture(first))
	assert.False(t, recent.shouldCapture(first))
	assert.False(t, recent.shouldCapture(errors.New(first.Error())))

	assert.True(t, recent.shouldCapture(errors.New("a different error")))
}

func TestNew_DisabledWithoutDSN(t *testing.T) {
	client := New(Params{})
	require.NotNil(t, client)

	// Capturing with a disabled client is a no-op and must not panic.
	client.CaptureException(errors.New("boom"), map[string]string{"k": "v"})
	client.CaptureMessage("hello", nil)
	client.Flush(0)
}
