package providers

import (
	"log/slog"

	"github.com/samber/do/v2"

	"github.com/bookreview/bookreview-server/internal/config"
	"github.com/bookreview/bookreview-server/internal/store/sqlite"
)

// StoreHandle wraps the store with shutdown capability.
type StoreHandle struct {
	*sqlite.Store
	log *slog.Logger
}

// Shutdown implements do.Shutdownable.
func (h *StoreHandle) Shutdown() error {
	h.log.Info("Closing database...")
	return h.Close()
}

// ProvideStore provides the database store.
func ProvideStore(i do.Injector) (*StoreHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*slog.Logger](i)

	dbPath := cfg.Storage.DatabasePath()
	st, err := sqlite.Open(dbPath, log)
	if err != nil {
		return nil, err
	}

	log.Info("Database initialized", "path", dbPath)

	return &StoreHandle{Store: st, log: log}, nil
}
