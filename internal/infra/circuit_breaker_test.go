package infra

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errSidecarDown = errors.New("sidecar down")

func newTestBreaker() *CircuitBreaker {
	return NewCircuitBreaker(CircuitBreakerConfig{
		FailureThreshold: 2,
		SuccessThreshold: 2,
		OpenTimeout:      time.Millisecond,
	})
}

func tripOpen(t *testing.T, cb *CircuitBreaker) {
	t.Helper()
	for i := 0; i < 2; i++ {
		require.Error(t, cb.Execute(func() error { return errSidecarDown }))
	}
	require.Equal(t, CBOpen, cb.State())
	time.Sleep(5 * time.Millisecond)
	require.Equal(t, CBHalfOpen, cb.State())
}

func TestCircuitBreakerFastFailsWhenOpen(t *testing.T) {
	cb := newTestBreaker()
	for i := 0; i < 2; i++ {
		assert.ErrorIs(t, cb.Execute(func() error { return errSidecarDown }), errSidecarDown)
	}
	assert.ErrorIs(t, cb.Execute(func() error { return nil }), ErrCircuitOpen)
}

func TestCircuitBreakerRecovers(t *testing.T) {
	cb := newTestBreaker()
	tripOpen(t, cb)

	require.NoError(t, cb.Execute(func() error { return nil }))
	assert.Equal(t, CBHalfOpen, cb.State())
	require.NoError(t, cb.Execute(func() error { return nil }))
	assert.Equal(t, CBClosed, cb.State())
}

func TestCircuitBreakerHalfOpenFailureReopens(t *testing.T) {
	cb := newTestBreaker()
	tripOpen(t, cb)

	assert.ErrorIs(t, cb.Execute(func() error { return errSidecarDown }), errSidecarDown)
	assert.Equal(t, CBOpen, cb.State())
}

func TestCircuitBreakerSuccessCountResetsAfterClose(t *testing.T) {
	cb := newTestBreaker()
	tripOpen(t, cb)

	require.NoError(t, cb.Execute(func() error { return nil }))
	require.NoError(t, cb.Execute(func() error { return nil }))
	require.Equal(t, CBClosed, cb.State())

	// Trip again: closing must take a full run of successes, not
	// inherit the count from the previous half-open phase.
	tripOpen(t, cb)
	require.NoError(t, cb.Execute(func() error { return nil }))
	assert.Equal(t, CBHalfOpen, cb.State())
	require.NoError(t, cb.Execute(func() error { return nil }))
	assert.Equal(t, CBClosed, cb.State())
}
