package server

import (
	"context"
	"net"
	"net/http"
	"path/filepath"
	"sync"
	"time"

	config "github.com/Vincent-lau/schedbench/internal/configs"
	"github.com/Vincent-lau/schedbench/internal/harness"
	"github.com/Vincent-lau/schedbench/internal/metrics"
	"github.com/Vincent-lau/schedbench/internal/report"
	"github.com/Vincent-lau/schedbench/internal/store"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"go.uber.org/atomic"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health/grpc_health_v1"
)

var SrvLogger = log.WithFields(log.Fields{"prefix": "server"})

var ErrBusy = errors.New("an experiment is already running")

// Server exposes stored runs over HTTP and lets clients start new ones.
// Only one experiment runs at a time.
type Server struct {
	grpc_health_v1.UnimplementedHealthServer

	cfg   *config.Config
	store *store.Store

	mu      sync.Mutex
	running atomic.Bool
}

func New(cfg *config.Config, st *store.Store) *Server {
	metrics.Register()
	return &Server{cfg: cfg, store: st}
}

// Execute runs one experiment with cfg, writes its reports under
// <output dir>/runs/<id> and stores it.
func (s *Server) Execute(ctx context.Context, cfg *config.Config) (store.Run, error) {
	if !s.mu.TryLock() {
		return store.Run{}, ErrBusy
	}
	defer s.mu.Unlock()

	s.running.Store(true)
	defer s.running.Store(false)

	h, err := harness.New(cfg)
	if err != nil {
		return store.Run{}, err
	}
	rep, err := h.Run(ctx)
	if err != nil {
		return store.Run{}, err
	}

	run := store.NewRun(rep, cfg)
	run.OutputDir = filepath.Join(cfg.Output.Dir, "runs", run.ID)
	if _, err := report.Publish(run.OutputDir, cfg, rep, run.ID); err != nil {
		return run, err
	}
	if err := s.store.Put(run); err != nil {
		return run, err
	}

	SrvLogger.WithFields(log.Fields{
		"id":        run.ID,
		"scenarios": len(run.Scenarios),
		"failures":  len(run.Failures),
	}).Info("experiment stored")
	return run, nil
}

// Serve runs the HTTP API and the gRPC health service until ctx is done.
func (s *Server) Serve(ctx context.Context) error {
	lis, err := net.Listen("tcp", ":"+s.cfg.Server.LivenessPort)
	if err != nil {
		return errors.Wrap(err, "health server listen")
	}

	gs := grpc.NewServer()
	grpc_health_v1.RegisterHealthServer(gs, s)

	hs := &http.Server{
		Addr:    ":" + s.cfg.Server.HTTPPort,
		Handler: s.Router(),
	}

	errc := make(chan error, 2)
	go func() {
		SrvLogger.WithFields(log.Fields{
			"at": lis.Addr(),
		}).Debug("health server listening")
		errc <- gs.Serve(lis)
	}()
	go func() {
		SrvLogger.WithFields(log.Fields{
			"at": hs.Addr,
		}).Info("http server listening")
		if err := hs.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errc <- err
		}
	}()

	select {
	case <-ctx.Done():
	case err = <-errc:
	}

	gs.GracefulStop()
	sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if serr := hs.Shutdown(sctx); serr != nil && err == nil {
		err = serr
	}
	return err
}
