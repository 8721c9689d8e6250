package providers

import (
	"context"
	"sort"
	"sync"

	"github.com/journey-planner/internal/domain"
	"github.com/journey-planner/internal/domain/repository"
	"go.uber.org/zap"
)

// StatusBoard хранит последнее событие каждого провайдера и пересылает
// события в Redis stream.
type StatusBoard struct {
	mu     sync.RWMutex
	latest map[string]domain.ProviderStatusEvent
	stream repository.StreamRepository
	logger *zap.Logger
}

// NewStatusBoard создает доску статусов. stream может быть nil.
func NewStatusBoard(stream repository.StreamRepository, logger *zap.Logger) *StatusBoard {
	return &StatusBoard{
		latest: make(map[string]domain.ProviderStatusEvent),
		stream: stream,
		logger: logger,
	}
}

var _ repository.StatusRecorder = (*StatusBoard)(nil)

// Record запоминает событие. Ошибка публикации только логируется.
func (b *StatusBoard) Record(ctx context.Context, event domain.ProviderStatusEvent) {
	b.mu.Lock()
	b.latest[event.ProviderID] = event
	b.mu.Unlock()

	if b.stream == nil {
		return
	}
	if err := b.stream.PublishToStream(context.WithoutCancel(ctx), domain.StreamProviderStatus, event); err != nil {
		b.logger.Debug("Failed to publish provider status",
			zap.String("provider_id", event.ProviderID),
			zap.Error(err))
	}
}

// Latest возвращает последнее событие провайдера
func (b *StatusBoard) Latest(providerID string) (domain.ProviderStatusEvent, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	ev, ok := b.latest[providerID]
	return ev, ok
}

// Snapshot - копия всех последних событий, по id провайдера
func (b *StatusBoard) Snapshot() []domain.ProviderStatusEvent {
	b.mu.RLock()
	out := make([]domain.ProviderStatusEvent, 0, len(b.latest))
	for _, ev := range b.latest {
		out = append(out, ev)
	}
	b.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].ProviderID < out[j].ProviderID })
	return out
}
