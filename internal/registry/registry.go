// Package registry holds hot-reloadable provider sets: a static legacy set
// built at startup and a dynamic set rebuilt from the provider store.
package registry

import (
	"context"
	"errors"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/journey-planner/internal/domain"
	"github.com/journey-planner/internal/domain/repository"
	"go.uber.org/zap"
)

// Provider - минимальный контракт элемента реестра
type Provider interface {
	ID() string
}

// Config - настройки реестра
type Config struct {
	Kind           domain.ProviderKind
	UpdateInterval time.Duration
}

type entry[T Provider] struct {
	provider   T
	lastUpdate time.Time
}

// snapshot неизменяем после публикации
type snapshot[T Provider] struct {
	dynamic map[string]entry[T]
	merged  []T
}

// Registry - объединенное представление legacy и динамических провайдеров.
// При совпадении id побеждает динамический провайдер.
type Registry[T Provider] struct {
	cfg     Config
	legacy  []T
	store   repository.ProviderStore
	factory Factory[T]
	logger  *zap.Logger
	now     func() time.Time

	mu          sync.Mutex // сериализует UpdateConfig
	lastChecked time.Time
	current     atomic.Pointer[snapshot[T]]
}

// New создает реестр. store может быть nil - тогда только legacy.
func New[T Provider](cfg Config, legacy []T, store repository.ProviderStore, factory Factory[T], logger *zap.Logger) *Registry[T] {
	r := &Registry[T]{
		cfg:     cfg,
		store:   store,
		factory: factory,
		logger:  logger.With(zap.String("provider_kind", string(cfg.Kind))),
		now:     time.Now,
	}

	seen := make(map[string]struct{}, len(legacy))
	for _, p := range legacy {
		if _, ok := seen[p.ID()]; ok {
			r.logger.Warn("Duplicate legacy provider ignored", zap.String("provider_id", p.ID()))
			continue
		}
		seen[p.ID()] = struct{}{}
		r.legacy = append(r.legacy, p)
	}

	r.current.Store(r.buildSnapshot(nil))
	return r
}

// Kind - вид провайдеров реестра
func (r *Registry[T]) Kind() domain.ProviderKind {
	return r.cfg.Kind
}

// UpdateConfig перечитывает хранилище не чаще UpdateInterval. Никогда не
// возвращает ошибку: при недоступности хранилища остается последний
// удачный набор. Возвращает true, если снимок был перестроен.
func (r *Registry[T]) UpdateConfig(ctx context.Context) bool {
	if r.store == nil {
		return false
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	if !r.lastChecked.IsZero() && now.Sub(r.lastChecked) < r.cfg.UpdateInterval {
		return false
	}
	r.lastChecked = now

	records, err := r.store.ListProviders(ctx, r.cfg.Kind)
	if err != nil {
		if errors.Is(err, domain.ErrDatabaseUnavailable) {
			r.logger.Warn("Provider store unavailable, keeping last known providers", zap.Error(err))
		} else {
			r.logger.Error("Failed to list providers, keeping last known providers", zap.Error(err))
		}
		return false
	}

	previous := r.current.Load()
	dynamic := make(map[string]entry[T], len(records))
	rebuilt := 0
	for _, rec := range records {
		if prev, ok := previous.dynamic[rec.ID]; ok && !rec.LastUpdate.After(prev.lastUpdate) {
			dynamic[rec.ID] = prev
			continue
		}

		p, err := r.factory.Build(rec)
		if err != nil {
			r.logger.Error("Provider skipped: invalid configuration",
				zap.String("provider_id", rec.ID),
				zap.String("class", rec.Class),
				zap.Error(err))
			continue
		}
		dynamic[rec.ID] = entry[T]{provider: p, lastUpdate: rec.LastUpdate}
		rebuilt++
	}

	r.current.Store(r.buildSnapshot(dynamic))

	r.logger.Info("Providers refreshed",
		zap.Int("records", len(records)),
		zap.Int("rebuilt", rebuilt),
		zap.Int("dynamic", len(dynamic)))
	return true
}

// Providers обновляет конфигурацию (если пора) и возвращает dynamic ∪ legacy, по id
func (r *Registry[T]) Providers(ctx context.Context) []T {
	r.UpdateConfig(ctx)
	merged := r.current.Load().merged
	out := make([]T, len(merged))
	copy(out, merged)
	return out
}

// Get возвращает провайдера по id
func (r *Registry[T]) Get(ctx context.Context, id string) (T, bool) {
	for _, p := range r.Providers(ctx) {
		if p.ID() == id {
			return p, true
		}
	}
	var zero T
	return zero, false
}

func (r *Registry[T]) buildSnapshot(dynamic map[string]entry[T]) *snapshot[T] {
	if dynamic == nil {
		dynamic = make(map[string]entry[T])
	}
	merged := make([]T, 0, len(dynamic)+len(r.legacy))
	for _, e := range dynamic {
		merged = append(merged, e.provider)
	}
	for _, p := range r.legacy {
		if _, shadowed := dynamic[p.ID()]; shadowed {
			continue
		}
		merged = append(merged, p)
	}
	sort.Slice(merged, func(i, j int) bool {
		return merged[i].ID() < merged[j].ID()
	})
	return &snapshot[T]{dynamic: dynamic, merged: merged}
}
