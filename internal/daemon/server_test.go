package daemon

import (
	"context"
	"dropfix/internal/model"
	"dropfix/internal/repository"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func do(t *testing.T, srv *Server, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func TestServer_Status(t *testing.T) {
	svc, _ := newTestService(t, false)
	require.NoError(t, svc.Start())
	srv := NewServer(svc, nil, 0)

	rec := do(t, srv, http.MethodGet, "/status", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var st model.Status
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &st))
	assert.Equal(t, model.StateNotConfigured, st.State)
}

func TestServer_Settings(t *testing.T) {
	svc, _ := newTestService(t, false)
	srv := NewServer(svc, nil, 0)

	rec := do(t, srv, http.MethodPut, "/settings", `{"source":"/definitely/missing","target":"/tmp"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "source folder does not exist")

	same := t.TempDir()
	sameBody, err := json.Marshal(map[string]string{"source": same, "target": same})
	require.NoError(t, err)

	rec = do(t, srv, http.MethodPut, "/settings", string(sameBody))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "different folders")

	src, dst := t.TempDir(), t.TempDir()
	body, err := json.Marshal(map[string]string{"source": src, "target": dst})
	require.NoError(t, err)

	rec = do(t, srv, http.MethodPut, "/settings", string(body))
	require.Equal(t, http.StatusOK, rec.Code)

	var st model.Status
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &st))
	assert.Equal(t, model.StateWatching, st.State)
	assert.Equal(t, src, st.Source)
	assert.Equal(t, dst, st.Target)
}

func TestServer_Stop(t *testing.T) {
	svc, _ := newTestService(t, false)
	srv := NewServer(svc, nil, 0)

	rec := do(t, srv, http.MethodPost, "/stop", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	select {
	case <-srv.StopCh():
	default:
		t.Fatal("stop not signalled")
	}

	rec = do(t, srv, http.MethodPost, "/stop", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestServer_History(t *testing.T) {
	svc, _ := newTestService(t, true)
	repo := repository.NewHistoryRepository()
	srv := NewServer(svc, repo, 0)

	require.NoError(t, repo.Save("run", model.IntakeResult{SrcPath: "/in/a.utf8", Outcome: model.OutcomeDone}))
	require.NoError(t, repo.Save("run", model.IntakeResult{SrcPath: "/in/b.utf8", Outcome: model.OutcomeDone}))

	rec := do(t, srv, http.MethodGet, "/history?n=1", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var histories []model.History
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &histories))
	assert.Len(t, histories, 1)

	rec = do(t, srv, http.MethodGet, "/history/stats", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var stats repository.Stats
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	assert.Equal(t, int64(2), stats.Done)

	require.NoError(t, repo.Save("run", model.IntakeResult{SrcPath: "/in/c.utf8", Outcome: model.OutcomeFailed, Err: errors.New("disk full")}))

	rec = do(t, srv, http.MethodGet, "/history/failed", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &histories))
	require.Len(t, histories, 1)
	assert.Equal(t, "/in/c.utf8", histories[0].SrcPath)
	assert.Equal(t, "disk full", histories[0].ErrMsg)
}

func TestServer_HistoryDisabled(t *testing.T) {
	svc, _ := newTestService(t, false)
	srv := NewServer(svc, nil, 0)

	rec := do(t, srv, http.MethodGet, "/history", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestServer_ListenAndServeStops(t *testing.T) {
	svc, _ := newTestService(t, false)
	srv := NewServer(svc, nil, freePort(t))

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	require.Eventually(t, func() bool {
		resp, err := http.Get(fmt.Sprintf("http://127.0.0.1:%d/status", srv.port))
		if err != nil {
			return false
		}
		_ = resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 20*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, srv.Stop(ctx))

	select {
	case err := <-errCh:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("server did not stop")
	}
}

func freePort(t *testing.T) int {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := ln.Addr().(*net.TCPAddr).Port
	require.NoError(t, ln.Close())
	return port
}
