package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/yourname/sleepsense/internal"
	"github.com/yourname/sleepsense/internal/config"
)

// NewRepository opens the backend selected by cfg.StorageBackend. Parent
// directories of on-disk stores are created as needed.
func NewRepository(ctx context.Context, cfg *config.Config, logger internal.Logger) (DailyInputRepository, error) {
	switch cfg.StorageBackend {
	case config.BackendFile:
		if err := ensureDir(cfg.DailyInputFile); err != nil {
			return nil, err
		}
		return NewFileStorage(cfg.DailyInputFile, logger)
	case config.BackendPostgres:
		return NewPostgresStorage(ctx, cfg.PostgresDSN, logger)
	case config.BackendSQLite:
		if cfg.SQLitePath != ":memory:" {
			if err := ensureDir(cfg.SQLitePath); err != nil {
				return nil, err
			}
		}
		return NewSQLiteStorage(cfg.SQLitePath, logger)
	}
	return nil, fmt.Errorf("storage: unknown backend %q", cfg.StorageBackend)
}

func ensureDir(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("storage: create directory for %s: %w", path, err)
	}
	return nil
}
