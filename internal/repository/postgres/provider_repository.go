package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/journey-planner/internal/domain"
	"github.com/journey-planner/internal/domain/repository"
	"go.uber.org/zap"
)

type providerRow struct {
	ID         string    `db:"id"`
	Class      string    `db:"klass"`
	Args       []byte    `db:"args"`
	LastUpdate time.Time `db:"last_update"`
}

type providerRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

// NewProviderRepository - хранилище динамических провайдеров (таблица providers)
func NewProviderRepository(db *DB) repository.ProviderStore {
	return &providerRepository{
		db:     db.DB,
		logger: db.logger,
	}
}

// ListProviders возвращает не удаленные провайдеры вида kind, по id.
// Любая ошибка БД оборачивает domain.ErrDatabaseUnavailable.
func (r *providerRepository) ListProviders(ctx context.Context, kind domain.ProviderKind) ([]domain.ProviderRecord, error) {
	query := `
		SELECT id, klass, args, last_update
		FROM providers
		WHERE kind = $1 AND NOT discarded
		ORDER BY id
	`

	var rows []providerRow
	if err := r.db.SelectContext(ctx, &rows, query, string(kind)); err != nil {
		r.logger.Error("Failed to list providers", zap.String("kind", string(kind)), zap.Error(err))
		return nil, fmt.Errorf("%w: %v", domain.ErrDatabaseUnavailable, err)
	}

	records := make([]domain.ProviderRecord, 0, len(rows))
	for _, row := range rows {
		args := map[string]any{}
		if len(row.Args) > 0 {
			if err := json.Unmarshal(row.Args, &args); err != nil {
				r.logger.Warn("Provider skipped: args is not a JSON object",
					zap.String("provider_id", row.ID),
					zap.Error(err))
				continue
			}
		}
		records = append(records, domain.ProviderRecord{
			ID:         row.ID,
			Class:      row.Class,
			Args:       args,
			LastUpdate: row.LastUpdate,
		})
	}

	return records, nil
}
