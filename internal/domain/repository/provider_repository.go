package repository

import (
	"context"

	"github.com/journey-planner/internal/domain"
)

// ProviderStore - хранилище динамических провайдеров.
// При недоступности возвращает ошибку, оборачивающую domain.ErrDatabaseUnavailable.
type ProviderStore interface {
	ListProviders(ctx context.Context, kind domain.ProviderKind) ([]domain.ProviderRecord, error)
}
