package daemon

import (
	"context"
	"dropfix/internal/config"
	"dropfix/internal/logger"
	"dropfix/internal/repository"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

// Server is the loopback control API used by the status/stop/history
// commands.
type Server struct {
	echo     *echo.Echo
	service  *Service
	histRepo *repository.HistoryRepository
	port     int
	stopCh   chan struct{}
}

func NewServer(service *Service, histRepo *repository.HistoryRepository, port int) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())

	s := &Server{
		echo:     e,
		service:  service,
		histRepo: histRepo,
		port:     port,
		stopCh:   make(chan struct{}, 1),
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.echo.GET("/status", s.handleStatus)
	s.echo.POST("/stop", s.handleStop)
	s.echo.POST("/reload", s.handleReload)
	s.echo.PUT("/settings", s.handleSettings)

	g := s.echo.Group("/history")
	g.GET("", s.handleHistory)
	g.GET("/stats", s.handleHistoryStats)
	g.GET("/failed", s.handleHistoryFailed)
}

func (s *Server) Handler() http.Handler {
	return s.echo
}

// ListenAndServe blocks serving the API until Stop; a clean shutdown
// returns nil.
func (s *Server) ListenAndServe() error {
	addr := fmt.Sprintf("127.0.0.1:%d", s.port)
	logger.Log.Info("control server started",
		zap.String("addr", addr))

	if err := s.echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("control server: %w", err)
	}
	return nil
}

// Start serves in the background; failures are logged only.
func (s *Server) Start() {
	go func() {
		if err := s.ListenAndServe(); err != nil {
			logger.Log.Error("control server error", zap.Error(err))
		}
	}()
}

// Stop halts watching and shuts the API down.
func (s *Server) Stop(ctx context.Context) error {
	s.service.Stop()
	return s.echo.Shutdown(ctx)
}

func (s *Server) StopCh() <-chan struct{} {
	return s.stopCh
}

func (s *Server) handleStatus(c echo.Context) error {
	return c.JSON(http.StatusOK, s.service.Status())
}

func (s *Server) handleStop(c echo.Context) error {
	select {
	case s.stopCh <- struct{}{}:
	default:
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "stopping"})
}

func (s *Server) handleReload(c echo.Context) error {
	if err := s.service.Reload(); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}

	return c.JSON(http.StatusOK, s.service.Status())
}

func (s *Server) handleSettings(c echo.Context) error {
	var req config.Paths
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}

	if err := s.service.SaveSettings(req); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, config.ErrPathsRequired) ||
			errors.Is(err, config.ErrSourceNotFound) ||
			errors.Is(err, config.ErrTargetNotFound) ||
			errors.Is(err, config.ErrSameFolder) {
			status = http.StatusBadRequest
		}
		return c.JSON(status, map[string]string{"error": err.Error()})
	}

	return c.JSON(http.StatusOK, s.service.Status())
}

func (s *Server) handleHistory(c echo.Context) error {
	if s.histRepo == nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{"error": "history disabled"})
	}

	n := 20
	if nStr := c.QueryParam("n"); nStr != "" {
		if parsed, err := strconv.Atoi(nStr); err == nil && parsed > 0 {
			n = parsed
		}
	}

	histories, err := s.histRepo.GetRecent(n)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}

	return c.JSON(http.StatusOK, histories)
}

func (s *Server) handleHistoryStats(c echo.Context) error {
	if s.histRepo == nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{"error": "history disabled"})
	}

	stats, err := s.histRepo.GetStats()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}

	return c.JSON(http.StatusOK, stats)
}

func (s *Server) handleHistoryFailed(c echo.Context) error {
	if s.histRepo == nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{"error": "history disabled"})
	}

	histories, err := s.histRepo.GetFailed()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}

	return c.JSON(http.StatusOK, histories)
}
