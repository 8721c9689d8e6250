package status

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/journey-planner/internal/domain"
	"github.com/journey-planner/internal/domain/repository"
	"github.com/journey-planner/internal/worker"
	"go.uber.org/zap"
)

const (
	defaultBatchSize = 50
	emptyQueueSleep  = 100 * time.Millisecond
	errorSleep       = time.Second
)

// AuditWorker читает stream:provider:status и логирует смену статуса провайдеров
type AuditWorker struct {
	*worker.BaseWorker
	streamRepo   repository.StreamRepository
	consumerName string
	batchSize    int

	mu   sync.RWMutex
	last map[string]domain.ProviderCallStatus
}

// NewAuditWorker создает AuditWorker
func NewAuditWorker(streamRepo repository.StreamRepository, consumerGroup string, batchSize int, logger *zap.Logger) *AuditWorker {
	hostname, _ := os.Hostname()
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}
	return &AuditWorker{
		BaseWorker:   worker.NewBaseWorker("provider-status-audit", consumerGroup, logger),
		streamRepo:   streamRepo,
		consumerName: fmt.Sprintf("%s-%d", hostname, os.Getpid()),
		batchSize:    batchSize,
		last:         make(map[string]domain.ProviderCallStatus),
	}
}

// Start запускает воркер
func (w *AuditWorker) Start(ctx context.Context) error {
	logger := w.Logger()
	logger.Info("Starting AuditWorker",
		zap.String("consumer_group", w.ConsumerGroup()),
		zap.String("consumer_name", w.consumerName),
		zap.Int("batch_size", w.batchSize))

	if err := w.streamRepo.CreateConsumerGroup(ctx, domain.StreamProviderStatus, w.ConsumerGroup()); err != nil {
		return fmt.Errorf("failed to create consumer group: %w", err)
	}

	for {
		select {
		case <-w.StopChan():
			logger.Info("Worker stopped")
			return nil
		case <-ctx.Done():
			logger.Info("Context cancelled")
			return ctx.Err()
		default:
		}

		pause := time.Duration(0)
		processed, err := w.ProcessBatch(ctx)
		switch {
		case err != nil:
			logger.Error("Failed to process batch", zap.Error(err))
			pause = errorSleep
		case processed == 0:
			pause = emptyQueueSleep
		}
		if pause > 0 {
			w.Pause(ctx, pause)
		}
	}
}

// ProcessBatch обрабатывает одну пачку событий, возвращает число прочитанных сообщений
func (w *AuditWorker) ProcessBatch(ctx context.Context) (int, error) {
	messages, err := w.streamRepo.ConsumeBatch(ctx, domain.StreamProviderStatus, w.ConsumerGroup(), w.consumerName, w.batchSize)
	if err != nil {
		return 0, fmt.Errorf("failed to consume batch: %w", err)
	}
	if len(messages) == 0 {
		return 0, nil
	}

	ids := make([]string, 0, len(messages))
	for _, msg := range messages {
		// битые сообщения тоже подтверждаются, чтобы не застревали
		ids = append(ids, msg.ID)

		var event domain.ProviderStatusEvent
		if err := json.Unmarshal([]byte(msg.Data), &event); err != nil || event.ProviderID == "" {
			w.Logger().Warn("Failed to parse status event, skipping", zap.String("message_id", msg.ID))
			continue
		}
		w.observe(event)
	}

	if err := w.streamRepo.AckMessages(ctx, domain.StreamProviderStatus, w.ConsumerGroup(), ids); err != nil {
		w.Logger().Error("Failed to ack messages", zap.Error(err))
	}
	return len(messages), nil
}

func (w *AuditWorker) observe(event domain.ProviderStatusEvent) {
	w.mu.Lock()
	prev, seen := w.last[event.ProviderID]
	w.last[event.ProviderID] = event.Status
	w.mu.Unlock()

	if seen && prev == event.Status {
		return
	}

	fields := []zap.Field{
		zap.String("provider_id", event.ProviderID),
		zap.String("kind", string(event.Kind)),
		zap.String("from", string(prev)),
		zap.String("to", string(event.Status)),
		zap.Time("at", event.At),
	}
	switch {
	case event.Status == domain.CallCircuitOpen:
		w.Logger().Warn("Provider circuit opened", fields...)
	case event.Status == domain.CallOK && seen:
		w.Logger().Info("Provider recovered", fields...)
	case event.Status != domain.CallOK:
		w.Logger().Warn("Provider degraded", append(fields, zap.String("message", event.Message))...)
	}
}

// Statuses - последний статус каждого провайдера
func (w *AuditWorker) Statuses() map[string]domain.ProviderCallStatus {
	w.mu.RLock()
	defer w.mu.RUnlock()
	out := make(map[string]domain.ProviderCallStatus, len(w.last))
	for id, s := range w.last {
		out[id] = s
	}
	return out
}
