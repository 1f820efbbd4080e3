package daemon

import (
	"context"
	"dropfix/internal/config"
	"dropfix/internal/intake"
	"dropfix/internal/logger"
	"dropfix/internal/model"
	"dropfix/internal/pipeline"
	"dropfix/internal/repository"
	"dropfix/internal/watcher"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service owns the watcher and intake worker for the configured folder pair
// and reschedules them whenever the pair changes.
type Service struct {
	cfg       *config.Config
	store     *config.PathStore
	history   *repository.HistoryRepository
	intake    *intake.State
	runID     string
	startedAt time.Time

	// opMu serializes start/reload/stop; mu guards the fields below it.
	opMu    sync.Mutex
	mu      sync.Mutex
	paths   config.Paths
	state   model.State
	lastErr string
	watcher *watcher.Watcher
	cancel  context.CancelFunc
	doneCh  chan struct{}
}

// NewService wires a service; history may be nil to skip persistence.
func NewService(cfg *config.Config, store *config.PathStore, history *repository.HistoryRepository) *Service {
	return &Service{
		cfg:     cfg,
		store:   store,
		history: history,
		intake: intake.NewState(intake.StateOptions{
			DebounceWindow: cfg.DebounceWindow,
			ProcessedTTL:   cfg.ProcessedTTL,
			ProcessedLimit: cfg.ProcessedLimit,
		}),
		runID:     uuid.NewString(),
		startedAt: time.Now(),
		state:     model.StateNotConfigured,
	}
}

// Start loads the stored folder pair and starts watching if it is valid.
// An invalid pair is not an error: the service stays "not configured".
func (s *Service) Start() error {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	return s.start()
}

// start requires opMu.
func (s *Service) start() error {
	s.mu.Lock()
	running := s.watcher != nil
	s.mu.Unlock()
	if running {
		return nil
	}

	paths, ok := s.store.Load()
	if !ok {
		s.setState(paths, model.StateNotConfigured, "")
		logger.Log.Warn("source and target folders not configured, watching disabled")
		return nil
	}

	if err := s.schedule(paths); err != nil {
		s.setState(paths, model.StateFailed, err.Error())
		logger.Log.Error("failed to start watching",
			zap.String("source", paths.Source),
			zap.Error(err))
		return err
	}

	s.setState(paths, model.StateWatching, "")
	return nil
}

func (s *Service) setState(paths config.Paths, state model.State, lastErr string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.paths = paths
	s.state = state
	s.lastErr = lastErr
}

// Reload stops any running watcher and starts again from the stored pair.
func (s *Service) Reload() error {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	s.unschedule()
	return s.start()
}

// SaveSettings validates and persists p, then reloads.
func (s *Service) SaveSettings(p config.Paths) error {
	if err := s.store.Save(p); err != nil {
		return err
	}

	return s.Reload()
}

// Stop halts watching and waits for the worker to finish its current file.
func (s *Service) Stop() {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	if !s.unschedule() {
		return
	}

	s.mu.Lock()
	s.state = model.StateStopped
	s.mu.Unlock()

	logger.Log.Info("watching stopped")
}

func (s *Service) Status() model.Status {
	s.mu.Lock()
	state := s.state
	st := model.Status{
		Source:    s.paths.Source,
		Target:    s.paths.Target,
		RunID:     s.runID,
		StartedAt: s.startedAt,
		LastErr:   s.lastErr,
	}
	s.mu.Unlock()

	st.Intake = s.intake.Snapshot()
	if state == model.StateWatching && st.Intake.Counters.TotalProcessed > 0 {
		state = model.StateRunning
	}
	st.State = state

	return st
}

func (s *Service) Paths() config.Paths {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.paths
}

func (s *Service) schedule(p config.Paths) error {
	w, err := watcher.New(s.cfg.BufferSize)
	if err != nil {
		return err
	}

	if err := w.Watch(p.Source); err != nil {
		w.Stop()
		return err
	}

	proc, err := intake.NewProcessor(p.Target, s.intake, s.cfg.SettleDelay)
	if err != nil {
		w.Stop()
		return fmt.Errorf("failed to create processor: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	filteredCh := pipeline.Filter(w.Events(), pipeline.Rules{
		Extension:  s.cfg.Extension,
		TempSuffix: s.cfg.TempSuffix,
	})
	resultCh := proc.Run(ctx, filteredCh)

	doneCh := make(chan struct{})
	go s.record(resultCh, filteredCh, doneCh)

	s.mu.Lock()
	s.watcher = w
	s.cancel = cancel
	s.doneCh = doneCh
	s.mu.Unlock()

	logger.Log.Info("watching started",
		zap.String("source", p.Source),
		zap.String("target", p.Target),
		zap.String("extension", s.cfg.Extension))

	return nil
}

// unschedule detaches the running pipeline and joins it outside mu, so
// Status stays responsive while the worker finishes its current file.
// Requires opMu; reports whether anything was running.
func (s *Service) unschedule() bool {
	s.mu.Lock()
	w, cancel, doneCh := s.watcher, s.cancel, s.doneCh
	s.watcher = nil
	s.cancel = nil
	s.doneCh = nil
	s.mu.Unlock()

	if w == nil {
		return false
	}

	w.Stop()
	cancel()
	<-doneCh
	return true
}

func (s *Service) record(resultCh <-chan model.IntakeResult, filteredCh <-chan model.FileEvent, doneCh chan struct{}) {
	defer close(doneCh)

	for result := range resultCh {
		if s.history == nil {
			continue
		}

		if err := s.history.Save(s.runID, result); err != nil {
			logger.Log.Warn("failed to save history",
				zap.String("path", result.SrcPath),
				zap.Error(err))
		}
	}

	// the worker may exit on cancel while the filter still holds events
	for range filteredCh {
	}
}
