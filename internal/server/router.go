package server

import (
	"net/http"

	config "github.com/Vincent-lau/schedbench/internal/configs"
	"github.com/Vincent-lau/schedbench/internal/policy"
	"github.com/Vincent-lau/schedbench/internal/store"
	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
)

func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/healthz", s.healthz)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	{
		runs := api.Group("/runs")
		{
			runs.GET("", s.listRuns)
			runs.GET("/:id", s.getRun)
			runs.POST("", s.createRun)
		}
	}
	return r
}

func (s *Server) healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"running": s.running.Load()})
}

func (s *Server) listRuns(c *gin.Context) {
	runs, err := s.store.List()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"runs":  runs,
		"total": len(runs),
	})
}

func (s *Server) getRun(c *gin.Context) {
	run, err := s.store.Get(c.Param("id"))
	if errors.Is(err, store.ErrRunNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, run)
}

// RunRequest overrides the server configuration for one experiment. Zero
// values keep the configured setting.
type RunRequest struct {
	Seed       *uint64  `json:"seed"`
	Trials     int      `json:"trials"`
	Policies   []string `json:"policies"`
	TaskCounts []int    `json:"task_counts"`
	Parallel   bool     `json:"parallel"`
}

func (req RunRequest) apply(base *config.Config) *config.Config {
	cfg := *base
	cfg.Experiment.Policies = append([]string(nil), base.Experiment.Policies...)
	cfg.Experiment.TaskCounts = append([]int(nil), base.Experiment.TaskCounts...)

	if req.Seed != nil {
		cfg.Experiment.Seed = *req.Seed
	}
	if req.Trials > 0 {
		cfg.Experiment.Trials = req.Trials
	}
	if len(req.Policies) > 0 {
		cfg.Experiment.Policies = req.Policies
	}
	if len(req.TaskCounts) > 0 {
		cfg.Experiment.TaskCounts = req.TaskCounts
	}
	if req.Parallel {
		cfg.Experiment.Parallel = true
	}
	return &cfg
}

func (s *Server) createRun(c *gin.Context) {
	var req RunRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	cfg := req.apply(s.cfg)
	if err := cfg.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	run, err := s.Execute(c.Request.Context(), cfg)
	switch {
	case errors.Is(err, ErrBusy):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	case errors.Is(err, policy.ErrUnknownPolicy), errors.Is(err, config.ErrInvalidConfig):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	case err != nil:
		SrvLogger.WithFields(log.Fields{
			"error": err,
		}).Error("experiment failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, run)
}
