package testhelpers

import (
	"github.com/jmoiron/sqlx"
	"github.com/journey-planner/internal/domain/repository"
	"github.com/journey-planner/internal/repository/postgres"
	"go.uber.org/zap"
)

// NewDBForTest creates a postgres.DB with test database and logger
func NewDBForTest(db *sqlx.DB, logger *zap.Logger) *postgres.DB {
	return postgres.NewDBForTest(db, logger)
}

// NewProviderRepositoryForTest creates a provider store with test database and logger
func NewProviderRepositoryForTest(db *sqlx.DB, logger *zap.Logger) repository.ProviderStore {
	return postgres.NewProviderRepository(NewDBForTest(db, logger))
}
