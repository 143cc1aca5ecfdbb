package persistence

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"
)

const migrationsDir = "migrations"

// sqlMigrationFiles lists the .sql files in dir in lexical apply order.
// Anything else in the directory is ignored.
func sqlMigrationFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read migrations: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".sql") {
			continue
		}
		names = append(names, entry.Name())
	}

	sort.Strings(names)
	return names, nil
}

// ApplyMigrations executes the SQL files under /migrations against the pool.
func (p *Postgres) ApplyMigrations(ctx context.Context, logger *zap.Logger) error {
	if p == nil || p.Pool == nil {
		logger.Warn("no postgres pool available; skipping migrations")
		return nil
	}

	names, err := sqlMigrationFiles(migrationsDir)
	if err != nil {
		return err
	}

	for _, name := range names {
		content, err := os.ReadFile(filepath.Join(migrationsDir, name))
		if err != nil {
			return fmt.Errorf("read migration %s: %w", name, err)
		}

		logger.Info("applying migration", zap.String("file", name))
		if _, err := p.Pool.Exec(ctx, string(content)); err != nil {
			return fmt.Errorf("apply migration %s: %w", name, err)
		}
	}

	logger.Info("migrations applied", zap.Int("count", len(names)))
	return nil
}
