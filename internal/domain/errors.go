package domain

import (
	"errors"
	"fmt"
)

// NoSolutionReason уточняет, почему маршрут не найден
type NoSolutionReason string

const (
	ReasonNoOrigin               NoSolutionReason = "no_origin"
	ReasonNoDestination          NoSolutionReason = "no_destination"
	ReasonNoOriginNorDestination NoSolutionReason = "no_origin_nor_destination"
	ReasonNoSolution             NoSolutionReason = "no_solution"
)

// specificity: чем больше, тем конкретнее причина
var reasonSpecificity = map[NoSolutionReason]int{
	ReasonNoSolution:             1,
	ReasonNoDestination:          2,
	ReasonNoOrigin:               3,
	ReasonNoOriginNorDestination: 4,
}

// NoSolutionError - функциональная ошибка: маршрутов нет, backend здоров
type NoSolutionError struct {
	Reason  NoSolutionReason
	Message string
}

func (e *NoSolutionError) Error() string {
	if e.Message == "" {
		return string(e.Reason)
	}
	return fmt.Sprintf("%s: %s", e.Reason, e.Message)
}

// MoreSpecificThan сравнивает две функциональные ошибки
func (e *NoSolutionError) MoreSpecificThan(other *NoSolutionError) bool {
	if other == nil {
		return true
	}
	return reasonSpecificity[e.Reason] > reasonSpecificity[other.Reason]
}

// NewNoSolution - конструктор
func NewNoSolution(reason NoSolutionReason, message string) *NoSolutionError {
	return &NoSolutionError{Reason: reason, Message: message}
}

// ParseNoSolutionReason распознает id ошибки backend'а. ok=false для прочих ошибок.
func ParseNoSolutionReason(id string) (NoSolutionReason, bool) {
	r := NoSolutionReason(id)
	_, ok := reasonSpecificity[r]
	return r, ok
}

// ErrDatabaseUnavailable - хранилище динамических провайдеров недоступно
var ErrDatabaseUnavailable = errors.New("provider database unavailable")

// ErrPlaceNotFound - backend не знает такого места
var ErrPlaceNotFound = errors.New("place not found")

// ConfigError - провайдер нельзя собрать из конфигурации
type ConfigError struct {
	ProviderID string
	Class      string
	Err        error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("provider %s (%s): invalid configuration: %v", e.ProviderID, e.Class, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// BackendError - backend ответил ошибкой, не относящейся к отсутствию маршрута
type BackendError struct {
	ID      string
	Message string
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("backend error %s: %s", e.ID, e.Message)
}

// ErrUnknownRegion - регион не обслуживается ни одним инстансом backend'а
var ErrUnknownRegion = errors.New("unknown region")

// ErrInvalidRequest - параметры запроса невалидны
var ErrInvalidRequest = errors.New("invalid request")
