// Package breaker guards calls to remote targets (planner instances,
// provider APIs). Every target owns its own breaker and failure domain.
package breaker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

const (
	defaultFailMax      = 5
	defaultResetTimeout = 60 * time.Second
)

// ErrCircuitOpen is returned without invoking the guarded call while the
// target is presumed unhealthy, and for concurrent calls during the
// half-open trial.
var ErrCircuitOpen = errors.New("circuit breaker is open")

// State of a breaker.
type State string

const (
	StateClosed   State = "closed"
	StateOpen     State = "open"
	StateHalfOpen State = "half_open"
)

// Settings configures a breaker.
type Settings struct {
	Name         string
	FailMax      int
	ResetTimeout time.Duration
	Logger       *zap.Logger
}

// CircuitBreaker: CLOSED counts consecutive failures and opens at FailMax;
// OPEN rejects until ResetTimeout has elapsed since opening, then lets
// exactly one trial call through (HALF_OPEN); the trial's success closes the
// breaker and resets the counter, its failure reopens it.
type CircuitBreaker struct {
	name string
	cb   *gobreaker.CircuitBreaker
}

// New creates a breaker. Zero values fall back to fail max 5 and 60s reset.
func New(s Settings) *CircuitBreaker {
	failMax := s.FailMax
	if failMax <= 0 {
		failMax = defaultFailMax
	}
	resetTimeout := s.ResetTimeout
	if resetTimeout <= 0 {
		resetTimeout = defaultResetTimeout
	}
	logger := s.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        s.Name,
		MaxRequests: 1,
		Timeout:     resetTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= uint32(failMax)
		},
		// отмена вызывающей стороной не говорит о здоровье цели
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("Circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", string(mapState(from))),
				zap.String("to", string(mapState(to))))
		},
	})

	return &CircuitBreaker{name: s.Name, cb: cb}
}

// Name returns the breaker name.
func (b *CircuitBreaker) Name() string {
	return b.name
}

// Call runs fn unless the breaker rejects it. A non-nil error from fn counts
// as a failure; callers must return nil for functional outcomes that are
// not health signals.
func (b *CircuitBreaker) Call(fn func() error) error {
	_, err := b.cb.Execute(func() (interface{}, error) {
		return nil, fn()
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return fmt.Errorf("%w: %s", ErrCircuitOpen, b.name)
	}
	return err
}

// State returns the current state, moving OPEN to HALF_OPEN if the reset
// timeout has elapsed.
func (b *CircuitBreaker) State() State {
	return mapState(b.cb.State())
}

// FailCounter returns consecutive failures in the current generation.
func (b *CircuitBreaker) FailCounter() int {
	return int(b.cb.Counts().ConsecutiveFailures)
}

func mapState(s gobreaker.State) State {
	switch s {
	case gobreaker.StateOpen:
		return StateOpen
	case gobreaker.StateHalfOpen:
		return StateHalfOpen
	default:
		return StateClosed
	}
}
