// Package server exposes the billing pipeline over HTTP.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	cohortdomain "github.com/smallbiznis/megaline/internal/cohort/domain"
	"github.com/smallbiznis/megaline/internal/config"
	obsmetrics "github.com/smallbiznis/megaline/internal/observability/metrics"
	plandomain "github.com/smallbiznis/megaline/internal/plan/domain"
	ratingdomain "github.com/smallbiznis/megaline/internal/rating/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Server struct {
	engine    *gin.Engine
	cfg       config.Config
	log       *zap.Logger
	ratingSvc ratingdomain.Service
	cohortSvc cohortdomain.Service
	catalog   plandomain.Catalog
}

type ServerParams struct {
	fx.In

	Gin       *gin.Engine
	Cfg       config.Config
	Log       *zap.Logger
	RatingSvc ratingdomain.Service
	CohortSvc cohortdomain.Service
	Catalog   plandomain.Catalog
}

func NewEngine(metrics *obsmetrics.Metrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{})))

	return r
}

func NewServer(p ServerParams) *Server {
	s := &Server{
		engine:    p.Gin,
		cfg:       p.Cfg,
		log:       p.Log.Named("http.server"),
		ratingSvc: p.RatingSvc,
		cohortSvc: p.CohortSvc,
		catalog:   p.Catalog,
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	v1 := s.engine.Group("/v1")
	v1.POST("/billing/run", s.runBilling)
	v1.GET("/revenue", s.listRevenue)
	v1.GET("/plans", s.listPlans)
	v1.GET("/cohorts/plans", s.comparePlans)
	v1.GET("/cohorts/regions", s.compareRegions)
	v1.GET("/cohorts/trends", s.planTrends)
}

func run(lc fx.Lifecycle, cfg config.Config, r *gin.Engine) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					panic(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

// Module wires the HTTP surface.
var Module = fx.Module("http.server",
	fx.Provide(NewEngine),
	fx.Provide(NewServer),
	fx.Invoke(func(s *Server) {}),
	fx.Invoke(run),
)
