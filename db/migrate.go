package db

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
)

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS posts (
		position INTEGER NOT NULL,
		id TEXT PRIMARY KEY,
		doc JSONB NOT NULL
	);`,

	`CREATE INDEX IF NOT EXISTS posts_position_idx ON posts (position);`,
}

func Migrate(ctx context.Context, db *sql.DB, log *slog.Logger) error {
	for i, q := range migrations {
		log.Debug("running migration", slog.Int("n", i+1))
		if _, err := db.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("migration #%d: %w", i+1, err)
		}
	}
	log.Info("migrations applied", slog.Int("count", len(migrations)))
	return nil
}
