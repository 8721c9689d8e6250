package repository

import (
	"context"
	"time"

	"github.com/journey-planner/internal/domain"
)

// CacheRepository определяет методы для работы с кешем
type CacheRepository interface {
	// Get получает значение из кеша по ключу (nil, nil при промахе)
	Get(ctx context.Context, key string) ([]byte, error)

	// Set сохраняет значение в кеше с TTL
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete удаляет значение из кеша
	Delete(ctx context.Context, key string) error

	// Exists проверяет существование ключа
	Exists(ctx context.Context, key string) (bool, error)

	// GetDirectPath получает direct path по ключу (nil, nil при промахе)
	GetDirectPath(ctx context.Context, key domain.PathKey) (*domain.DirectPath, error)

	// SetDirectPath сохраняет direct path
	SetDirectPath(ctx context.Context, key domain.PathKey, path *domain.DirectPath, ttl time.Duration) error
}
