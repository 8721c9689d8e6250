package worker

import (
	"context"
)

// Worker - фоновый процесс под управлением WorkerManager:
// обновление реестров провайдеров в API, аудит статусов в cmd/worker
type Worker interface {
	// Start блокируется до Stop или отмены ctx
	Start(ctx context.Context) error

	// Stop просит воркер завершиться, не ждет
	Stop() error

	// Name - имя для логов
	Name() string
}
