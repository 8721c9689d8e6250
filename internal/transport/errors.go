package transport

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownInstance - ключ инстанса не сконфигурирован
	ErrUnknownInstance = errors.New("unknown backend instance")

	// ErrPollTimeout - ответ не пришел до дедлайна
	ErrPollTimeout = errors.New("poll timeout")

	// ErrPoolExhausted - до дедлайна не освободилось ни одного соединения
	ErrPoolExhausted = errors.New("no free backend connection")

	// ErrCorrelationMismatch - пришел ответ на чужой запрос
	ErrCorrelationMismatch = errors.New("response correlation id mismatch")
)

// DeadBackendError - backend недоступен (сеть, таймаут, открытый breaker)
type DeadBackendError struct {
	Instance  string
	RequestID string
	Err       error
}

func (e *DeadBackendError) Error() string {
	return fmt.Sprintf("backend %s is dead: %v", e.Instance, e.Err)
}

func (e *DeadBackendError) Unwrap() error {
	return e.Err
}
