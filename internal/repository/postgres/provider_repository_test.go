package postgres_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/suite"

	"github.com/journey-planner/internal/domain"
	"github.com/journey-planner/internal/domain/repository"
	"github.com/journey-planner/internal/repository/postgres/testhelpers"
)

// ProviderRepositoryTestSuite tests ProviderStore against a real database
type ProviderRepositoryTestSuite struct {
	suite.Suite
	testDB *testhelpers.TestDB
	repo   repository.ProviderStore
	ctx    context.Context
}

func (s *ProviderRepositoryTestSuite) SetupSuite() {
	s.testDB = testhelpers.SetupTestDB(s.T())
	s.ctx = context.Background()

	applied, err := testhelpers.ApplyMigrations(s.testDB.DB.DB, "../../../migrations")
	s.Require().NoError(err)
	s.T().Logf("applied migrations: %v", applied)

	s.repo = testhelpers.NewProviderRepositoryForTest(s.testDB.DB, s.testDB.Logger)
}

func (s *ProviderRepositoryTestSuite) SetupTest() {
	s.Require().NoError(s.testDB.Cleanup(s.ctx))
}

func (s *ProviderRepositoryTestSuite) TearDownSuite() {
	if s.testDB != nil {
		s.testDB.Close()
	}
}

func (s *ProviderRepositoryTestSuite) TestListProviders() {
	updated := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	fixtures := []testhelpers.ProviderFixture{
		{ID: "velib", Kind: "bss", Class: "gbfs", Args: map[string]any{"feed_url": "https://velib.example.com", "max_radius": 80}, LastUpdate: updated},
		{ID: "bicloo", Kind: "bss", Class: "jcdecaux", Args: map[string]any{"contract": "nantes"}, LastUpdate: updated},
		{ID: "old", Kind: "bss", Class: "gbfs", Args: map[string]any{}, LastUpdate: updated, Discarded: true},
		{ID: "parkings", Kind: "car_park", Class: "parking_http", Args: map[string]any{}, LastUpdate: updated},
	}
	for _, f := range fixtures {
		s.Require().NoError(testhelpers.InsertProvider(s.ctx, s.testDB.DB.DB, f))
	}

	records, err := s.repo.ListProviders(s.ctx, domain.ProviderBikeShare)
	s.Require().NoError(err)
	s.Require().Len(records, 2)

	s.Equal("bicloo", records[0].ID)
	s.Equal("jcdecaux", records[0].Class)
	s.Equal("velib", records[1].ID)
	s.Equal("https://velib.example.com", records[1].Args["feed_url"])
	s.Equal(float64(80), records[1].Args["max_radius"])
	s.True(updated.Equal(records[1].LastUpdate))
}

func (s *ProviderRepositoryTestSuite) TestListProviders_Empty() {
	records, err := s.repo.ListProviders(s.ctx, domain.ProviderRealtime)
	s.Require().NoError(err)
	s.Empty(records)
}

func (s *ProviderRepositoryTestSuite) TestListProviders_DatabaseUnavailable() {
	db, err := sqlx.Open("postgres", "host=127.0.0.1 port=1 user=x dbname=x sslmode=disable connect_timeout=1")
	s.Require().NoError(err)
	defer db.Close()

	repo := testhelpers.NewProviderRepositoryForTest(db, s.testDB.Logger)
	_, err = repo.ListProviders(s.ctx, domain.ProviderBikeShare)
	s.True(errors.Is(err, domain.ErrDatabaseUnavailable))
}

func TestProviderRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(ProviderRepositoryTestSuite))
}
