package cmd

import (
	"dropfix/internal/config"
	"dropfix/internal/model"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serveAPI(t *testing.T, e *echo.Echo) {
	t.Helper()

	srv := httptest.NewServer(e)
	t.Cleanup(srv.Close)

	port := srv.Listener.Addr().(*net.TCPAddr).Port
	cfg = &config.Config{ControlPort: port}
}

func TestCall_DecodesReply(t *testing.T) {
	e := echo.New()
	e.GET("/status", func(c echo.Context) error {
		return c.JSON(http.StatusOK, model.Status{State: model.StateWatching, Source: "/in"})
	})
	serveAPI(t, e)

	var st model.Status
	require.NoError(t, call(http.MethodGet, "/status", nil, &st))
	assert.Equal(t, model.StateWatching, st.State)
	assert.Equal(t, "/in", st.Source)
}

func TestCall_ReturnsAPIError(t *testing.T) {
	e := echo.New()
	e.PUT("/settings", func(c echo.Context) error {
		var p config.Paths
		if err := c.Bind(&p); err != nil {
			return err
		}
		if p.Source != "/in" {
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "unexpected body"})
		}
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "source folder does not exist: /in"})
	})
	serveAPI(t, e)

	err := call(http.MethodPut, "/settings", config.Paths{Source: "/in", Target: "/out"}, nil)
	require.Error(t, err)
	assert.Equal(t, "source folder does not exist: /in", err.Error())

	var notRunning *errNotRunning
	assert.False(t, errors.As(err, &notRunning))
}

func TestCall_NotRunning(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := ln.Addr().(*net.TCPAddr).Port
	require.NoError(t, ln.Close())

	cfg = &config.Config{ControlPort: port}

	err = call(http.MethodPost, "/stop", nil, nil)
	require.Error(t, err)

	var notRunning *errNotRunning
	assert.True(t, errors.As(err, &notRunning))
	assert.Contains(t, err.Error(), "dropfix not running")
}

func TestFormatHistory(t *testing.T) {
	at := time.Date(2026, 3, 1, 12, 30, 0, 0, time.Local)

	done := model.History{Outcome: model.OutcomeDone, SrcPath: "/in/a.utf8", Modified: true, ProcessedAt: at}
	assert.Equal(t, "✓ [2026-03-01 12:30:00] DONE    /in/a.utf8 (fixed)", formatHistory(done))

	failed := model.History{Outcome: model.OutcomeFailed, SrcPath: "/in/b.utf8", ErrMsg: "disk full", ProcessedAt: at}
	assert.Equal(t, "✗ [2026-03-01 12:30:00] FAILED  /in/b.utf8: disk full", formatHistory(failed))
}

func TestWaitStopped(t *testing.T) {
	e := echo.New()
	e.GET("/status", func(c echo.Context) error {
		return c.JSON(http.StatusOK, model.Status{State: model.StateWatching})
	})

	srv := httptest.NewServer(e)
	cfg = &config.Config{ControlPort: srv.Listener.Addr().(*net.TCPAddr).Port}

	err := waitStopped(50*time.Millisecond, 10*time.Millisecond)
	assert.ErrorContains(t, err, "still running")

	srv.Close()
	assert.NoError(t, waitStopped(time.Second, 10*time.Millisecond))
}
