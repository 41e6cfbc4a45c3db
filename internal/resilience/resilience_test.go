package resilience

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errBoom = errors.New("boom")

func TestRetry_SucceedsOnSecondAttempt(t *testing.T) {
	calls := 0
	err := Retry(context.Background(), 2, time.Millisecond, nil, func() error {
		calls++
		if calls == 1 {
			return errBoom
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestRetry_ExhaustsAttempts(t *testing.T) {
	calls := 0
	err := Retry(context.Background(), 2, time.Millisecond, nil, func() error {
		calls++
		return errBoom
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, errBoom)
	assert.Equal(t, 2, calls)
}

func TestRetry_StopsOnNonRetryableError(t *testing.T) {
	calls := 0
	err := Retry(context.Background(), 3, time.Millisecond, func(error) bool { return false }, func() error {
		calls++
		return errBoom
	})

	assert.Equal(t, errBoom, err)
	assert.Equal(t, 1, calls)
}

func TestRetry_HonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	err := Retry(ctx, 3, time.Hour, nil, func() error {
		calls++
		cancel()
		return errBoom
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}

func TestCircuitBreaker_OpensAfterThreshold(t *testing.T) {
	cb := NewCircuitBreaker("test", 2, time.Minute)

	assert.ErrorIs(t, cb.Execute(func() error { return errBoom }), errBoom)
	assert.Equal(t, StateClosed, cb.State())
	assert.ErrorIs(t, cb.Execute(func() error { return errBoom }), errBoom)
	assert.Equal(t, StateOpen, cb.State())

	called := false
	err := cb.Execute(func() error { called = true; return nil })
	assert.ErrorIs(t, err, ErrCircuitOpen)
	assert.False(t, called)
}

func TestCircuitBreaker_HalfOpenRecovery(t *testing.T) {
	now := time.Now()
	cb := NewCircuitBreaker("test", 1, 10*time.Second)
	cb.now = func() time.Time { return now }

	_ = cb.Execute(func() error { return errBoom })
	require.Equal(t, StateOpen, cb.State())

	now = now.Add(11 * time.Second)
	require.NoError(t, cb.Execute(func() error { return nil }))
	assert.Equal(t, StateClosed, cb.State())
}

func TestCircuitBreaker_HalfOpenFailureReopens(t *testing.T) {
	now := time.Now()
	cb := NewCircuitBreaker("test", 3, 10*time.Second)
	cb.now = func() time.Time { return now }

	for i := 0; i < 3; i++ {
		_ = cb.Execute(func() error { return errBoom })
	}
	require.Equal(t, StateOpen, cb.State())

	now = now.Add(11 * time.Second)
	assert.ErrorIs(t, cb.Execute(func() error { return errBoom }), errBoom)
	assert.Equal(t, StateOpen, cb.State())
}

func TestCircuitBreaker_LateCallLeavesTrialAlone(t *testing.T) {
	now := time.Now()
	cb := NewCircuitBreaker("test", 1, 10*time.Second)
	cb.now = func() time.Time { return now }

	lateStarted, lateRelease := make(chan struct{}), make(chan struct{})
	lateDone := make(chan error, 1)
	go func() {
		lateDone <- cb.Execute(func() error {
			close(lateStarted)
			<-lateRelease
			return nil
		})
	}()
	<-lateStarted

	require.ErrorIs(t, cb.Execute(func() error { return errBoom }), errBoom)
	require.Equal(t, StateOpen, cb.State())

	now = now.Add(11 * time.Second)
	trialStarted, trialRelease := make(chan struct{}), make(chan struct{})
	trialDone := make(chan error, 1)
	go func() {
		trialDone <- cb.Execute(func() error {
			close(trialStarted)
			<-trialRelease
			return nil
		})
	}()
	<-trialStarted

	close(lateRelease)
	require.NoError(t, <-lateDone)
	assert.Equal(t, StateHalfOpen, cb.State())
	assert.ErrorIs(t, cb.Execute(func() error { return nil }), ErrCircuitOpen)

	close(trialRelease)
	require.NoError(t, <-trialDone)
	assert.Equal(t, StateClosed, cb.State())
}
