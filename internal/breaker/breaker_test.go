package breaker

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errBackend = errors.New("backend down")

func failing(calls *int32) func() error {
	return func() error {
		atomic.AddInt32(calls, 1)
		return errBackend
	}
}

func TestCircuitBreaker_OpensAfterFailMax(t *testing.T) {
	b := New(Settings{Name: "test", FailMax: 3, ResetTimeout: time.Hour})
	var calls int32

	for i := 0; i < 3; i++ {
		err := b.Call(failing(&calls))
		assert.ErrorIs(t, err, errBackend)
	}
	assert.Equal(t, StateOpen, b.State())

	for i := 0; i < 5; i++ {
		err := b.Call(failing(&calls))
		assert.ErrorIs(t, err, ErrCircuitOpen)
	}
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls), "wrapped function must not run while open")
}

func TestCircuitBreaker_SuccessResetsCounter(t *testing.T) {
	b := New(Settings{Name: "test", FailMax: 3, ResetTimeout: time.Hour})
	var calls int32

	_ = b.Call(failing(&calls))
	_ = b.Call(failing(&calls))
	assert.Equal(t, 2, b.FailCounter())

	require.NoError(t, b.Call(func() error { return nil }))
	assert.Equal(t, 0, b.FailCounter())

	_ = b.Call(failing(&calls))
	_ = b.Call(failing(&calls))
	assert.Equal(t, StateClosed, b.State())
}

func TestCircuitBreaker_HalfOpenSingleTrial(t *testing.T) {
	b := New(Settings{Name: "test", FailMax: 1, ResetTimeout: 20 * time.Millisecond})
	var calls int32

	_ = b.Call(failing(&calls))
	require.Equal(t, StateOpen, b.State())

	require.Eventually(t, func() bool {
		return b.State() == StateHalfOpen
	}, time.Second, 5*time.Millisecond)

	started := make(chan struct{})
	release := make(chan struct{})
	var trialCalls int32
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		err := b.Call(func() error {
			atomic.AddInt32(&trialCalls, 1)
			close(started)
			<-release
			return nil
		})
		assert.NoError(t, err)
	}()

	<-started
	err := b.Call(func() error {
		atomic.AddInt32(&trialCalls, 1)
		return nil
	})
	assert.ErrorIs(t, err, ErrCircuitOpen)

	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&trialCalls))
	assert.Equal(t, StateClosed, b.State())
	assert.Equal(t, 0, b.FailCounter())
}

func TestCircuitBreaker_HalfOpenFailureReopens(t *testing.T) {
	b := New(Settings{Name: "test", FailMax: 1, ResetTimeout: 20 * time.Millisecond})
	var calls int32

	_ = b.Call(failing(&calls))
	require.Eventually(t, func() bool {
		return b.State() == StateHalfOpen
	}, time.Second, 5*time.Millisecond)

	err := b.Call(failing(&calls))
	assert.ErrorIs(t, err, errBackend)
	assert.Equal(t, StateOpen, b.State())

	err = b.Call(failing(&calls))
	assert.ErrorIs(t, err, ErrCircuitOpen)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestNew_Defaults(t *testing.T) {
	b := New(Settings{Name: "defaults"})
	var calls int32
	for i := 0; i < defaultFailMax-1; i++ {
		_ = b.Call(failing(&calls))
	}
	assert.Equal(t, StateClosed, b.State())
	_ = b.Call(failing(&calls))
	assert.Equal(t, StateOpen, b.State())
	assert.Equal(t, "defaults", b.Name())
}

func TestCircuitBreaker_CancellationIsNotFailure(t *testing.T) {
	b := New(Settings{Name: "test", FailMax: 1, ResetTimeout: time.Hour})

	err := b.Call(func() error { return context.Canceled })
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, StateClosed, b.State())
	assert.Equal(t, 0, b.FailCounter())
}
