package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/smallbiznis/atlas/internal/chart"
	"github.com/smallbiznis/atlas/internal/config"
	countrydomain "github.com/smallbiznis/atlas/internal/country/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("http.server",
	fx.Provide(NewEngine),
	fx.Provide(NewServer),
	fx.Invoke(registerRoutes),
	fx.Invoke(run),
)

func NewEngine() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(ErrorHandlingMiddleware())

	// Liveness only; must not touch storage.
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

type Params struct {
	fx.In

	Engine     *gin.Engine
	Cfg        config.Config
	Log        *zap.Logger
	CountrySvc countrydomain.Service
	Charts     chart.Generator
}

type Server struct {
	engine     *gin.Engine
	cfg        config.Config
	log        *zap.Logger
	countrySvc countrydomain.Service
	charts     chart.Generator
}

func NewServer(p Params) *Server {
	return &Server{
		engine:     p.Engine,
		cfg:        p.Cfg,
		log:        p.Log.Named("http.server"),
		countrySvc: p.CountrySvc,
		charts:     p.Charts,
	}
}

func registerRoutes(s *Server) {
	s.RegisterRoutes()
}

func (s *Server) RegisterRoutes() {
	countries := s.engine.Group("/countries")
	countries.POST("/refresh", s.RefreshCountries)
	countries.GET("", s.ListCountries)
	// GET /countries/image is dispatched inside GetCountry: gin cannot
	// register a static sibling of the :name wildcard.
	countries.GET("/:name", s.GetCountry)
	countries.DELETE("/:name", s.DeleteCountry)

	s.engine.GET("/status", s.Status)
}

func run(lc fx.Lifecycle, cfg config.Config, r *gin.Engine, log *zap.Logger) {
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			_ = ctx
			log.Info("http server listening", zap.String("addr", srv.Addr))
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
