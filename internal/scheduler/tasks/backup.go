package tasks

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/davidcollell/plataformes/internal/config"
	"github.com/davidcollell/plataformes/internal/scheduler"
	"github.com/davidcollell/plataformes/internal/watchlist"
)

// NewBackupTask returns the scheduled task that exports the watchlist
// collection to a dated JSON file. The export is the recovery story for
// the single-array persistence format.
func NewBackupTask(store *watchlist.Store, cfg config.BackupConfig) scheduler.TaskConfig {
	return scheduler.TaskConfig{
		ID:          "watchlist-backup",
		Name:        "Watchlist Backup",
		Description: "Exports the watchlist collection to a dated JSON file",
		Cron:        cfg.Cron,
		Func: func(ctx context.Context) error {
			return exportWatchlist(store, cfg.Dir)
		},
	}
}

func exportWatchlist(store *watchlist.Store, dir string) error {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("failed to create backup directory: %w", err)
	}

	name := fmt.Sprintf("watchlist-%s.json", time.Now().UTC().Format("2006-01-02"))
	path := filepath.Join(dir, name)

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create backup file: %w", err)
	}
	defer f.Close()

	if err := store.Export(f); err != nil {
		os.Remove(path) // Clean up partial file
		return fmt.Errorf("failed to write backup: %w", err)
	}

	return nil
}
