package testhelpers

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// LoadFixtures loads SQL fixture files into the database
func LoadFixtures(db *sql.DB, fixturesPath string, files []string) error {
	for _, file := range files {
		path := filepath.Join(fixturesPath, file)
		content, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read fixture %s: %w", file, err)
		}

		if _, err := db.Exec(string(content)); err != nil {
			return fmt.Errorf("load fixture %s: %w", file, err)
		}
	}

	return nil
}

// ProviderFixture - строка таблицы providers
type ProviderFixture struct {
	ID         string
	Kind       string
	Class      string
	Args       map[string]any
	LastUpdate time.Time
	Discarded  bool
}

// InsertProvider вставляет или обновляет провайдера
func InsertProvider(ctx context.Context, db *sql.DB, p ProviderFixture) error {
	args, err := json.Marshal(p.Args)
	if err != nil {
		return fmt.Errorf("marshal args of %s: %w", p.ID, err)
	}
	_, err = db.ExecContext(ctx, `
		INSERT INTO providers (id, kind, klass, args, last_update, discarded)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET
			kind = EXCLUDED.kind, klass = EXCLUDED.klass, args = EXCLUDED.args,
			last_update = EXCLUDED.last_update, discarded = EXCLUDED.discarded
	`, p.ID, p.Kind, p.Class, string(args), p.LastUpdate, p.Discarded)
	if err != nil {
		return fmt.Errorf("insert provider %s: %w", p.ID, err)
	}
	return nil
}
