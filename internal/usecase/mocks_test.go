package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/journey-planner/internal/domain"
	"github.com/journey-planner/internal/domain/repository"
	"github.com/stretchr/testify/mock"
)

// MockPlaceRepository is a mock of PlaceRepository
type MockPlaceRepository struct {
	mock.Mock
}

func (m *MockPlaceRepository) Place(ctx context.Context, uri string) (*domain.Place, error) {
	args := m.Called(ctx, uri)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Place), args.Error(1)
}

func (m *MockPlaceRepository) PlacesNearby(ctx context.Context, place domain.Place, radius float64) ([]domain.Place, error) {
	args := m.Called(ctx, place, radius)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Place), args.Error(1)
}

// MockStreetNetwork is a mock of StreetNetworkRepository
type MockStreetNetwork struct {
	mock.Mock
}

func (m *MockStreetNetwork) RoutingMatrix(ctx context.Context, query repository.MatrixQuery) ([]domain.DurationElement, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.DurationElement), args.Error(1)
}

func (m *MockStreetNetwork) DirectPath(ctx context.Context, query domain.DirectPathQuery) (*domain.DirectPath, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DirectPath), args.Error(1)
}

// MockPlanner is a mock of PlannerRepository
type MockPlanner struct {
	mock.Mock
}

func (m *MockPlanner) PtJourneys(ctx context.Context, query repository.PtQuery) (*repository.PtResult, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.PtResult), args.Error(1)
}

// memoryCache - CacheRepository в памяти
type memoryCache struct {
	mu    sync.Mutex
	paths map[domain.PathKey]*domain.DirectPath
	sets  int
}

func newMemoryCache() *memoryCache {
	return &memoryCache{paths: make(map[domain.PathKey]*domain.DirectPath)}
}

func (c *memoryCache) Get(ctx context.Context, key string) ([]byte, error) { return nil, nil }

func (c *memoryCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return nil
}

func (c *memoryCache) Delete(ctx context.Context, key string) error { return nil }

func (c *memoryCache) Exists(ctx context.Context, key string) (bool, error) { return false, nil }

func (c *memoryCache) GetDirectPath(ctx context.Context, key domain.PathKey) (*domain.DirectPath, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.paths[key], nil
}

func (c *memoryCache) SetDirectPath(ctx context.Context, key domain.PathKey, path *domain.DirectPath, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.paths[key] = path
	c.sets++
	return nil
}

// staticSource - ProviderSource с фиксированным списком
type staticSource[T repository.Provider] []T

func (s staticSource[T]) Providers(ctx context.Context) []T { return s }

func modeIs(mode domain.FallbackMode) interface{} {
	return mock.MatchedBy(func(q repository.MatrixQuery) bool { return q.Mode == mode })
}
