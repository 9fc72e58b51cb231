package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	config "github.com/Vincent-lau/schedbench/internal/configs"
	"github.com/Vincent-lau/schedbench/internal/store"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health/grpc_health_v1"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newServer(t *testing.T) *Server {
	dir := t.TempDir()

	cfg := config.Default()
	cfg.Dataset.Mode = config.DatasetSynthetic
	cfg.Topology.Datacenters = 1
	cfg.Topology.HostsPerDatacenter = 2
	cfg.Experiment.TaskCounts = []int{12}
	cfg.Experiment.Trials = 2
	cfg.Output.Dir = dir

	st, err := store.Open(filepath.Join(dir, "runs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	return New(cfg, st)
}

func do(t *testing.T, h http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestCreateAndFetchRun(t *testing.T) {
	s := newServer(t)
	r := s.Router()

	seed := uint64(99)
	w := do(t, r, http.MethodPost, "/api/runs", RunRequest{Seed: &seed, Policies: []string{"round-robin"}})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var run store.Run
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &run))
	assert.Equal(t, uint64(99), run.Seed)
	require.Len(t, run.Scenarios, 1)
	assert.Equal(t, "round-robin", run.Scenarios[0].Name)
	assert.FileExists(t, filepath.Join(run.OutputDir, "run.yaml"))

	w = do(t, r, http.MethodGet, "/api/runs/"+run.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = do(t, r, http.MethodGet, "/api/runs", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list struct {
		Runs  []store.Run `json:"runs"`
		Total int         `json:"total"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.Equal(t, 1, list.Total)
	assert.Equal(t, run.ID, list.Runs[0].ID)
}

func TestCreateRunRejectsBadRequest(t *testing.T) {
	r := newServer(t).Router()

	w := do(t, r, http.MethodPost, "/api/runs", RunRequest{Policies: []string{"fifo"}})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, r, http.MethodPost, "/api/runs", RunRequest{TaskCounts: []int{-1}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRequestDoesNotMutateBase(t *testing.T) {
	base := config.Default()
	cfg := RunRequest{Trials: 3, Policies: []string{"random"}}.apply(base)

	assert.Equal(t, 3, cfg.Experiment.Trials)
	assert.Equal(t, 10, base.Experiment.Trials)
	assert.Equal(t, []string{"mows", "round-robin"}, base.Experiment.Policies)
}

func TestGetMissingRun(t *testing.T) {
	w := do(t, newServer(t).Router(), http.MethodGet, "/api/runs/nope", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHealthAndMetrics(t *testing.T) {
	s := newServer(t)
	r := s.Router()

	w := do(t, r, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"running": false}`, w.Body.String())

	w = do(t, r, http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCheck(t *testing.T) {
	s := newServer(t)

	resp, err := s.Check(context.Background(), &grpc_health_v1.HealthCheckRequest{})
	require.NoError(t, err)
	assert.Equal(t, grpc_health_v1.HealthCheckResponse_SERVING, resp.Status)

	s.running.Store(true)
	resp, err = s.Check(context.Background(), &grpc_health_v1.HealthCheckRequest{})
	require.NoError(t, err)
	assert.Equal(t, grpc_health_v1.HealthCheckResponse_NOT_SERVING, resp.Status)
}

type watchStream struct {
	grpc.ServerStream

	ctx  context.Context
	sent chan grpc_health_v1.HealthCheckResponse_ServingStatus
}

func (w *watchStream) Context() context.Context {
	return w.ctx
}

func (w *watchStream) Send(resp *grpc_health_v1.HealthCheckResponse) error {
	w.sent <- resp.Status
	return nil
}

func TestWatch(t *testing.T) {
	watchInterval = 5 * time.Millisecond
	s := newServer(t)

	ctx, cancel := context.WithCancel(context.Background())
	stream := &watchStream{ctx: ctx, sent: make(chan grpc_health_v1.HealthCheckResponse_ServingStatus, 4)}

	done := make(chan error, 1)
	go func() {
		done <- s.Watch(&grpc_health_v1.HealthCheckRequest{}, stream)
	}()

	next := func() grpc_health_v1.HealthCheckResponse_ServingStatus {
		select {
		case st := <-stream.sent:
			return st
		case <-time.After(5 * time.Second):
			t.Fatal("no status sent")
		}
		return grpc_health_v1.HealthCheckResponse_UNKNOWN
	}

	assert.Equal(t, grpc_health_v1.HealthCheckResponse_SERVING, next())
	s.running.Store(true)
	assert.Equal(t, grpc_health_v1.HealthCheckResponse_NOT_SERVING, next())
	s.running.Store(false)
	assert.Equal(t, grpc_health_v1.HealthCheckResponse_SERVING, next())

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop")
	}
}

func TestExecuteWhileBusy(t *testing.T) {
	s := newServer(t)
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.Execute(context.Background(), s.cfg)
	assert.ErrorIs(t, err, ErrBusy)
}
