// Package bootstrap opens the resources shared by the server, the worker and
// lockerctl.
package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/doclocker/internal/config"
	"github.com/ahmetcoskunkizilkaya/doclocker/internal/database"
	"github.com/ahmetcoskunkizilkaya/doclocker/internal/signing"
	"github.com/ahmetcoskunkizilkaya/doclocker/internal/store"
	"github.com/ahmetcoskunkizilkaya/doclocker/internal/store/gormstore"
	"github.com/ahmetcoskunkizilkaya/doclocker/internal/store/memstore"
)

// OpenStore returns the store selected by STORE_DRIVER. For postgres it
// connects database.DB and, when migrate is set, applies pending migrations
// first.
func OpenStore(ctx context.Context, cfg *config.Config, migrate bool) (*store.Store, error) {
	if cfg.StoreDriver == config.StoreDriverMemory {
		slog.Warn("using in-memory store, data is lost on restart")
		return memstore.New(), nil
	}

	if migrate {
		if err := MigrateUp(ctx, cfg); err != nil {
			return nil, err
		}
	}
	if err := database.Connect(cfg); err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}
	return gormstore.New(database.DB), nil
}

// MigrateUp applies the embedded migrations through a short-lived pgx
// connection.
func MigrateUp(ctx context.Context, cfg *config.Config) error {
	sqlDB, err := database.OpenSQL(ctx, cfg.DSN())
	if err != nil {
		return err
	}
	defer sqlDB.Close()
	return database.Migrate(ctx, sqlDB)
}

// Signer loads the RSA key at SIGNING_KEY_PATH. Without one an ephemeral key
// is generated, so signatures do not survive a restart.
func Signer(cfg *config.Config) (*signing.RSASigner, error) {
	if cfg.SigningKeyPath != "" {
		return signing.LoadRSASigner(cfg.SigningKeyPath)
	}
	slog.Warn("SIGNING_KEY_PATH not set, generating an ephemeral signing key")
	return signing.GenerateRSASigner(signing.DefaultKeyBits)
}
