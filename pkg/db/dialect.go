package db

import (
	"fmt"

	"github.com/glebarez/sqlite"
	"github.com/smallbiznis/atlas/internal/config"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func Dialect(cfg config.DBConfig) (gorm.Dialector, error) {
	switch cfg.Dialect {
	case config.DialectMySQL:
		dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
			cfg.User,
			cfg.Password,
			cfg.Host,
			cfg.Port,
			cfg.Name,
		)
		// Connect lazily: startup must survive a slow or down database, the
		// migration retry loop waits for it to answer.
		return mysql.New(mysql.Config{
			DSN:                       dsn,
			SkipInitializeWithVersion: true,
		}), nil
	case config.DialectSQLite:
		return sqlite.Open(cfg.Name), nil
	default:
		return nil, fmt.Errorf("unsupported %s dialect", cfg.Dialect)
	}
}
