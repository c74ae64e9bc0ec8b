package providers

import (
	"context"
	"path/filepath"

	"github.com/samber/do/v2"

	"github.com/bookrackapp/bookrack-server/internal/api"
	"github.com/bookrackapp/bookrack-server/internal/config"
	"github.com/bookrackapp/bookrack-server/internal/domain"
	"github.com/bookrackapp/bookrack-server/internal/logger"
	"github.com/bookrackapp/bookrack-server/internal/store"
)

// StoreHandle wraps the store with shutdown capability.
type StoreHandle struct {
	*store.Store
}

// Shutdown implements do.Shutdownable.
func (h *StoreHandle) Shutdown() error {
	return h.Close()
}

// ProvideStore provides the database store.
func ProvideStore(i do.Injector) (*StoreHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	dbPath := filepath.Join(cfg.Data.BasePath, "db")
	db, err := store.New(dbPath, log.Logger)
	if err != nil {
		return nil, err
	}

	log.Info("Database initialized", "path", dbPath)

	return &StoreHandle{Store: db}, nil
}

// ProvideInstance ensures this installation has an instance record.
func ProvideInstance(i do.Injector) (*domain.Instance, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	instance, err := storeHandle.EnsureInstance(context.Background(), api.Version)
	if err != nil {
		return nil, err
	}

	log.Info("Instance ready", "instance_id", instance.ID, "version", instance.Version)

	return instance, nil
}
