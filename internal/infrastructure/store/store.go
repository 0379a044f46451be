// Package store provides the key/value backends behind the project registry.
package store

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/Tomas-vilte/brainlift/internal/config"
	"github.com/Tomas-vilte/brainlift/internal/domain/ports"
	appErrors "github.com/Tomas-vilte/brainlift/internal/errors"
)

const (
	jsonFileName   = "settings.json"
	sqliteFileName = "settings.db"
)

// Store is a settings store that holds resources until closed.
type Store interface {
	ports.BatchStore
	Close() error
}

// New opens the backend selected in cfg under cfg.DataDir.
func New(ctx context.Context, cfg *config.Config) (Store, error) {
	switch cfg.StoreBackend {
	case config.StoreSQLite:
		return OpenSQLite(ctx, filepath.Join(cfg.DataDir, sqliteFileName))
	case config.StoreJSON, "":
		return OpenFile(filepath.Join(cfg.DataDir, jsonFileName))
	default:
		return nil, appErrors.ErrConfigInvalid.WithError(fmt.Errorf("unsupported store backend: %s", cfg.StoreBackend))
	}
}

func storeError(op, key string, err error) error {
	return appErrors.ErrStoreFailure.WithError(err).WithContext("op", op).WithContext("key", key)
}
