// Package async provides the "schedule now, join later" primitive used to
// express the per-request dependency graph (fallback durations feeding
// transit computations) without an explicit scheduler.
package async

import (
	"sync"

	"github.com/sourcegraph/conc/panics"
)

// Task is a unit of work started at creation. The result is written once,
// before Done is closed, so readers never see partial state.
type Task[T any] struct {
	done  chan struct{}
	value T
	err   error
}

// Go schedules fn immediately on its own goroutine. A started task always
// runs to completion, even if nobody waits for it.
func Go[T any](fn func() (T, error)) *Task[T] {
	t := &Task[T]{done: make(chan struct{})}
	go t.run(fn)
	return t
}

// Resolved returns an already completed task.
func Resolved[T any](value T, err error) *Task[T] {
	t := &Task[T]{done: make(chan struct{}), value: value, err: err}
	close(t.done)
	return t
}

func (t *Task[T]) run(fn func() (T, error)) {
	defer close(t.done)

	var value T
	var err error
	if recovered := panics.Try(func() { value, err = fn() }); recovered != nil {
		err = recovered.AsError()
	}
	t.value, t.err = value, err
}

// Wait blocks until the task completes and returns its result or failure.
func (t *Task[T]) Wait() (T, error) {
	<-t.done
	return t.value, t.err
}

// Done is closed once the result is available.
func (t *Task[T]) Done() <-chan struct{} {
	return t.done
}

// Memo schedules at most one task per key.
type Memo[K comparable, T any] struct {
	mu    sync.Mutex
	tasks map[K]*Task[T]
}

// NewMemo returns an empty memo.
func NewMemo[K comparable, T any]() *Memo[K, T] {
	return &Memo[K, T]{tasks: make(map[K]*Task[T])}
}

// GetOrStart returns the task for key, starting fn if none exists yet.
// started reports whether this call scheduled fn.
func (m *Memo[K, T]) GetOrStart(key K, fn func() (T, error)) (task *Task[T], started bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if t, ok := m.tasks[key]; ok {
		return t, false
	}
	t := Go(fn)
	m.tasks[key] = t
	return t, true
}

// Get returns the task for key if one was started.
func (m *Memo[K, T]) Get(key K) (*Task[T], bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tasks[key]
	return t, ok
}

// Len returns the number of scheduled tasks.
func (m *Memo[K, T]) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.tasks)
}
