package providers_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/journey-planner/internal/domain"
	"github.com/journey-planner/internal/worker/providers"
)

type fakeRegistry struct {
	kind    domain.ProviderKind
	calls   int32
	refresh bool
}

func (r *fakeRegistry) Kind() domain.ProviderKind { return r.kind }

func (r *fakeRegistry) UpdateConfig(ctx context.Context) bool {
	atomic.AddInt32(&r.calls, 1)
	return r.refresh
}

func TestRefreshWorker_RefreshAll(t *testing.T) {
	bss := &fakeRegistry{kind: domain.ProviderBikeShare, refresh: true}
	parks := &fakeRegistry{kind: domain.ProviderCarPark}
	rt := &fakeRegistry{kind: domain.ProviderRealtime, refresh: true}

	w := providers.NewRefreshWorker([]providers.Refresher{bss, parks, rt}, time.Minute, zap.NewNop())

	assert.Equal(t, 2, w.RefreshAll(context.Background()))
	for _, r := range []*fakeRegistry{bss, parks, rt} {
		assert.Equal(t, int32(1), atomic.LoadInt32(&r.calls))
	}
}

func TestRefreshWorker_StartStop(t *testing.T) {
	bss := &fakeRegistry{kind: domain.ProviderBikeShare}
	w := providers.NewRefreshWorker([]providers.Refresher{bss}, 10*time.Millisecond, zap.NewNop())

	done := make(chan error, 1)
	go func() { done <- w.Start(context.Background()) }()

	require.Eventually(t, func() bool { return atomic.LoadInt32(&bss.calls) >= 3 }, time.Second, 5*time.Millisecond)
	require.NoError(t, w.Stop())

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("worker did not stop")
	}
	assert.True(t, w.IsStopped())
	assert.Equal(t, "provider-refresh", w.Name())
}
