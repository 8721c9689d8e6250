package providers

import (
	"context"
	"time"

	"github.com/journey-planner/internal/domain"
	"github.com/journey-planner/internal/worker"
	"github.com/sourcegraph/conc/pool"
	"go.uber.org/zap"
)

// Refresher - реестр провайдеров, который умеет перечитывать конфигурацию
type Refresher interface {
	Kind() domain.ProviderKind
	UpdateConfig(ctx context.Context) bool
}

// RefreshWorker периодически обновляет все реестры, чтобы запросы
// не ждали чтения хранилища
type RefreshWorker struct {
	*worker.BaseWorker
	registries []Refresher
	interval   time.Duration
}

// NewRefreshWorker создает RefreshWorker
func NewRefreshWorker(registries []Refresher, interval time.Duration, logger *zap.Logger) *RefreshWorker {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &RefreshWorker{
		BaseWorker: worker.NewBaseWorker("provider-refresh", "", logger),
		registries: registries,
		interval:   interval,
	}
}

// Start запускает воркер
func (w *RefreshWorker) Start(ctx context.Context) error {
	logger := w.Logger()
	logger.Info("Starting RefreshWorker",
		zap.Int("registries", len(w.registries)),
		zap.Duration("interval", w.interval))

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.RefreshAll(ctx)
	for {
		select {
		case <-w.StopChan():
			logger.Info("Worker stopped")
			return nil
		case <-ctx.Done():
			logger.Info("Context cancelled")
			return ctx.Err()
		case <-ticker.C:
			w.RefreshAll(ctx)
		}
	}
}

// RefreshAll обновляет реестры параллельно, возвращает число перестроенных
func (w *RefreshWorker) RefreshAll(ctx context.Context) int {
	p := pool.NewWithResults[bool]().WithContext(ctx)
	for _, r := range w.registries {
		p.Go(func(ctx context.Context) (bool, error) {
			return r.UpdateConfig(ctx), nil
		})
	}

	results, _ := p.Wait()
	refreshed := 0
	for _, ok := range results {
		if ok {
			refreshed++
		}
	}

	if refreshed > 0 {
		w.Logger().Debug("Provider registries refreshed", zap.Int("refreshed", refreshed))
	}
	return refreshed
}
