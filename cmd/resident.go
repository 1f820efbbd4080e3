package cmd

import (
	"context"
	"dropfix/internal/config"
	"dropfix/internal/daemon"
	"dropfix/internal/db"
	"dropfix/internal/logger"
	"dropfix/internal/repository"
	"sync"
	"time"

	"go.uber.org/zap"
)

const shutdownTimeout = 5 * time.Second

// resident is the service plus control server shared by gui, tui and watch.
type resident struct {
	service *daemon.Service
	server  *daemon.Server
	once    sync.Once
}

func newResident() *resident {
	histRepo := repository.NewHistoryRepository()
	store := config.NewPathStore(cfg.PathsFile)
	service := daemon.NewService(cfg, store, histRepo)

	// a failed start is reported through Status and stays editable in the shell
	_ = service.Start()

	logger.Log.Info("dropfix started",
		zap.String("state", string(service.Status().State)),
		zap.String("paths_file", store.File()))

	return &resident{
		service: service,
		server:  daemon.NewServer(service, histRepo, cfg.ControlPort),
	}
}

// shutdown stops watching, the control server and releases the process
// resources. Safe to call more than once.
func (r *resident) shutdown() {
	r.once.Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := r.server.Stop(ctx); err != nil {
			logger.Log.Warn("failed to stop control server", zap.Error(err))
		}

		logger.Log.Info("dropfix stopped")

		if err := db.Close(); err != nil {
			logger.Log.Warn("failed to close db", zap.Error(err))
		}
		_ = logger.Close()

		if guard != nil {
			_ = guard.Close()
		}
	})
}
