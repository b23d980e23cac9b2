package db

import (
	"context"

	"github.com/smallbiznis/atlas/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// New opens the gorm connection for the configured dialect and applies the
// pool settings from config.
func New(cfg config.Config, log *zap.Logger) (*gorm.DB, error) {
	dialector, err := Dialect(cfg.DB)
	if err != nil {
		return nil, err
	}

	// No ping at open: a down or warming database must not abort startup,
	// the migration retry loop waits for it instead.
	conn, err := gorm.Open(dialector, &gorm.Config{DisableAutomaticPing: true})
	if err != nil {
		return nil, err
	}

	sqlDB, err := conn.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxIdleConns(cfg.DB.MaxIdleConn)
	sqlDB.SetMaxOpenConns(cfg.DB.MaxOpenConn)
	sqlDB.SetConnMaxLifetime(cfg.DB.ConnMaxLifetime)

	log.Info("database opened",
		zap.String("dialect", cfg.DB.Dialect),
		zap.String("name", cfg.DB.Name),
	)
	return conn, nil
}

func registerHooks(lc fx.Lifecycle, conn *gorm.DB) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			_ = ctx
			sqlDB, err := conn.DB()
			if err != nil {
				return err
			}
			return sqlDB.Close()
		},
	})
}

// Module provides the gorm connection and closes it on shutdown.
var Module = fx.Module("db",
	fx.Provide(New),
	fx.Invoke(registerHooks),
)
