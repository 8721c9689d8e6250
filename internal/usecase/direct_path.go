package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/journey-planner/internal/async"
	"github.com/journey-planner/internal/domain"
	"github.com/journey-planner/internal/domain/repository"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// DirectPathResolver - общий для всех запросов региона слой над street network:
// Redis-кеш по PathKey и склейка одновременных одинаковых вызовов.
// Результат по ключу не зависит от времени отправления, поэтому кешируется.
type DirectPathResolver struct {
	streets repository.StreetNetworkRepository
	cache   repository.CacheRepository
	ttl     time.Duration
	group   singleflight.Group
	logger  *zap.Logger
}

// NewDirectPathResolver создает resolver. cache может быть nil.
func NewDirectPathResolver(
	streets repository.StreetNetworkRepository,
	cache repository.CacheRepository,
	ttl time.Duration,
	logger *zap.Logger,
) *DirectPathResolver {
	return &DirectPathResolver{
		streets: streets,
		cache:   cache,
		ttl:     ttl,
		logger:  logger,
	}
}

// Resolve возвращает direct path для запроса. Возвращаемое значение
// разделяется между запросами и не должно изменяться.
func (r *DirectPathResolver) Resolve(ctx context.Context, query domain.DirectPathQuery) (*domain.DirectPath, error) {
	if r.cache != nil {
		cached, err := r.cache.GetDirectPath(ctx, query.Key)
		if err != nil {
			r.logger.Warn("Direct path cache read failed", zap.String("key", query.Key.String()), zap.Error(err))
		} else if cached != nil {
			return cached, nil
		}
	}

	// общий вызов не отменяется вместе с первым запросом, его время
	// ограничивает таймаут street network; каждый ждет со своим ctx
	shared := context.WithoutCancel(ctx)
	ch := r.group.DoChan(query.Key.String(), func() (interface{}, error) {
		path, err := r.streets.DirectPath(shared, query)
		if err != nil {
			return nil, err
		}
		if r.cache != nil {
			if err := r.cache.SetDirectPath(shared, query.Key, path, r.ttl); err != nil {
				r.logger.Warn("Direct path cache write failed", zap.String("key", query.Key.String()), zap.Error(err))
			}
		}
		return path, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		if res.Shared {
			r.logger.Debug("Direct path call shared", zap.String("key", query.Key.String()))
		}
		return res.Val.(*domain.DirectPath), nil
	}
}

// DirectPathPool - direct path'ы одного запроса, не более одного вычисления на PathKey
type DirectPathPool struct {
	ctx      context.Context
	resolver *DirectPathResolver
	params   domain.JourneyRequestParameters
	memo     *async.Memo[domain.PathKey, *domain.DirectPath]
}

// NewDirectPathPool создает пул для запроса
func NewDirectPathPool(ctx context.Context, resolver *DirectPathResolver, params domain.JourneyRequestParameters) *DirectPathPool {
	return &DirectPathPool{
		ctx:      ctx,
		resolver: resolver,
		params:   params,
		memo:     async.NewMemo[domain.PathKey, *domain.DirectPath](),
	}
}

// Add запускает вычисление, если ключ еще не встречался, и возвращает ключ
func (p *DirectPathPool) Add(mode domain.FallbackMode, origin, destination domain.Place, role domain.PathRole) domain.PathKey {
	key := domain.PathKey{
		Mode:           mode,
		OriginURI:      origin.URI,
		DestinationURI: destination.URI,
		Role:           role,
	}
	query := domain.DirectPathQuery{
		Key:         key,
		Origin:      origin,
		Destination: destination,
		Datetime:    p.params.Datetime,
		Clockwise:   p.params.Clockwise,
		Speed:       p.params.SpeedFor(mode),
	}
	p.memo.GetOrStart(key, func() (*domain.DirectPath, error) {
		return p.resolver.Resolve(p.ctx, query)
	})
	return key
}

// Wait ждет результат для ключа, добавленного через Add
func (p *DirectPathPool) Wait(key domain.PathKey) (*domain.DirectPath, error) {
	task, ok := p.memo.Get(key)
	if !ok {
		return nil, fmt.Errorf("direct path %s was not scheduled", key)
	}
	return task.Wait()
}

// Len - количество уникальных вычислений
func (p *DirectPathPool) Len() int {
	return p.memo.Len()
}
