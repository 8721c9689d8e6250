package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/journey-planner/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestDirectPathPool_OneCallPerKey(t *testing.T) {
	streets := new(MockStreetNetwork)
	a := domain.Place{URI: "a"}
	b := domain.Place{URI: "b"}

	streets.On("DirectPath", mock.Anything, mock.Anything).
		Return(&domain.DirectPath{Duration: 600, Distance: 700}, nil)

	pool := NewDirectPathPool(context.Background(), NewDirectPathResolver(streets, nil, time.Minute, zap.NewNop()), walkingParams(600))

	k1 := pool.Add(domain.ModeWalking, a, b, domain.RoleDirect)
	k2 := pool.Add(domain.ModeWalking, a, b, domain.RoleDirect)
	k3 := pool.Add(domain.ModeWalking, a, b, domain.RoleBeginningFallback)

	assert.Equal(t, k1, k2)
	assert.NotEqual(t, k1, k3)
	assert.Equal(t, 2, pool.Len())

	p1, err := pool.Wait(k1)
	require.NoError(t, err)
	_, err = pool.Wait(k3)
	require.NoError(t, err)

	assert.Equal(t, 600, p1.Duration)
	streets.AssertNumberOfCalls(t, "DirectPath", 2)

	_, err = pool.Wait(domain.PathKey{Mode: domain.ModeBike})
	assert.Error(t, err)
}

func TestDirectPathResolver_CacheIgnoresDatetime(t *testing.T) {
	streets := new(MockStreetNetwork)
	cache := newMemoryCache()
	resolver := NewDirectPathResolver(streets, cache, time.Hour, zap.NewNop())

	streets.On("DirectPath", mock.Anything, mock.Anything).
		Return(&domain.DirectPath{Duration: 900, Geometry: [][2]float64{{2.35, 48.85}, {2.36, 48.86}}}, nil).Once()

	a := domain.Place{URI: "a"}
	b := domain.Place{URI: "b"}

	morning := walkingParams(600)
	morning.Datetime = time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)
	evening := walkingParams(600)
	evening.Datetime = time.Date(2026, 3, 2, 19, 0, 0, 0, time.UTC)

	first := NewDirectPathPool(context.Background(), resolver, morning)
	p1, err := first.Wait(first.Add(domain.ModeWalking, a, b, domain.RoleDirect))
	require.NoError(t, err)

	second := NewDirectPathPool(context.Background(), resolver, evening)
	p2, err := second.Wait(second.Add(domain.ModeWalking, a, b, domain.RoleDirect))
	require.NoError(t, err)

	assert.Equal(t, p1, p2)
	assert.Equal(t, 1, cache.sets)
	streets.AssertNumberOfCalls(t, "DirectPath", 1)
}

func TestDirectPathResolver_ErrorsAreNotCached(t *testing.T) {
	streets := new(MockStreetNetwork)
	cache := newMemoryCache()
	resolver := NewDirectPathResolver(streets, cache, time.Hour, zap.NewNop())

	streets.On("DirectPath", mock.Anything, mock.Anything).
		Return(nil, domain.NewNoSolution(domain.ReasonNoSolution, "river"))

	q := domain.DirectPathQuery{Key: domain.PathKey{Mode: domain.ModeWalking, OriginURI: "a", DestinationURI: "b", Role: domain.RoleDirect}}
	_, err := resolver.Resolve(context.Background(), q)
	assert.Error(t, err)
	_, err = resolver.Resolve(context.Background(), q)
	assert.Error(t, err)

	assert.Zero(t, cache.sets)
	streets.AssertNumberOfCalls(t, "DirectPath", 2)
}

func TestDirectPathResolver_CancelledCallerDoesNotFailSharedCall(t *testing.T) {
	streets := new(MockStreetNetwork)
	resolver := NewDirectPathResolver(streets, nil, time.Hour, zap.NewNop())

	started := make(chan context.Context, 1)
	release := make(chan struct{})
	streets.On("DirectPath", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			started <- args.Get(0).(context.Context)
			<-release
		}).
		Return(&domain.DirectPath{Duration: 420}, nil)

	q := domain.DirectPathQuery{Key: domain.PathKey{Mode: domain.ModeWalking, OriginURI: "a", DestinationURI: "b", Role: domain.RoleDirect}}

	firstCtx, cancelFirst := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, err := resolver.Resolve(firstCtx, q)
		firstErr <- err
	}()
	callCtx := <-started

	type result struct {
		path *domain.DirectPath
		err  error
	}
	second := make(chan result, 1)
	go func() {
		path, err := resolver.Resolve(context.Background(), q)
		second <- result{path, err}
	}()

	cancelFirst()
	assert.ErrorIs(t, <-firstErr, context.Canceled)
	assert.NoError(t, callCtx.Err(), "shared backend call must outlive the cancelled caller")

	close(release)
	res := <-second
	require.NoError(t, res.err)
	assert.Equal(t, 420, res.path.Duration)
}
