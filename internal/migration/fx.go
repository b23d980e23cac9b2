package migration

import (
	"context"
	"time"

	"github.com/smallbiznis/atlas/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	retryAttempts = 30
	retryInterval = 2 * time.Second
)

// Module applies schema migrations on startup. The retry runs off the serving
// path and a final failure is logged, not fatal: /health must keep answering
// while a slow or down database warms up.
var Module = fx.Module("migrations",
	fx.Invoke(register),
)

func register(lc fx.Lifecycle, conn *gorm.DB, cfg config.Config, log *zap.Logger) {
	log = log.Named("migration")
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			_ = ctx
			go applyWithRetry(conn, cfg, log)
			return nil
		},
	})
}

func applyWithRetry(conn *gorm.DB, cfg config.Config, log *zap.Logger) {
	var err error
	for attempt := 1; attempt <= retryAttempts; attempt++ {
		if err = Apply(conn, cfg); err == nil {
			log.Info("schema up to date", zap.Int("attempt", attempt))
			return
		}
		log.Warn("migration attempt failed",
			zap.Int("attempt", attempt),
			zap.Error(err),
		)
		time.Sleep(retryInterval)
	}
	log.Error("giving up on migrations", zap.Error(err))
}
