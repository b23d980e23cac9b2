package config

import (
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration, resolved once at startup.
type Config struct {
	AppName    string
	AppVersion string
	Port       string
	LogLevel   string

	DB DBConfig

	CountriesURL  string
	RatesURL      string
	SourceTimeout time.Duration

	SummaryImagePath string
}

// DBConfig describes the resolved storage connection. Dialect is either
// "mysql" (networked) or "sqlite" (local file fallback).
type DBConfig struct {
	Dialect string
	Host    string
	Port    string
	Name    string
	User    string
	Password string

	MaxIdleConn     int
	MaxOpenConn     int
	ConnMaxLifetime time.Duration
}

const (
	DialectMySQL  = "mysql"
	DialectSQLite = "sqlite"
)

// Load loads configuration from environment variables and .env file.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		AppName:          getenv("APP_SERVICE", "atlas"),
		AppVersion:       getenv("APP_VERSION", "0.1.0"),
		Port:             getenv("APP_PORT", "8080"),
		LogLevel:         getenv("LOG_LEVEL", "info"),
		DB:               loadDB(),
		CountriesURL:     getenv("COUNTRIES_URL", "https://restcountries.com/v2/all?fields=name,capital,region,population,flag,currencies"),
		RatesURL:         getenv("RATES_URL", "https://open.er-api.com/v6/latest/USD"),
		SourceTimeout:    getenvDuration("SOURCE_TIMEOUT", 20*time.Second),
		SummaryImagePath: getenv("SUMMARY_IMAGE_PATH", "data/summary.png"),
	}
}

// loadDB resolves the storage connection. Precedence: a full DATABASE_URL
// wins, then split DATABASE_* variables, then a local SQLite file so the
// service comes up with zero configuration.
func loadDB() DBConfig {
	cfg := DBConfig{
		MaxIdleConn:     getenvInt("DATABASE_MAX_IDLE_CONN", 2),
		MaxOpenConn:     getenvInt("DATABASE_MAX_OPEN_CONN", 10),
		ConnMaxLifetime: getenvDuration("DATABASE_CONN_MAX_LIFETIME", time.Hour),
	}

	if raw := strings.TrimSpace(os.Getenv("DATABASE_URL")); raw != "" {
		if parsed, ok := parseDatabaseURL(raw); ok {
			parsed.MaxIdleConn = cfg.MaxIdleConn
			parsed.MaxOpenConn = cfg.MaxOpenConn
			parsed.ConnMaxLifetime = cfg.ConnMaxLifetime
			return parsed
		}
	}

	if host := strings.TrimSpace(os.Getenv("DATABASE_HOST")); host != "" {
		cfg.Dialect = DialectMySQL
		cfg.Host = host
		cfg.Port = getenv("DATABASE_PORT", "3306")
		cfg.Name = getenv("DATABASE_NAME", "country_cache")
		cfg.User = getenv("DATABASE_USER", "root")
		cfg.Password = os.Getenv("DATABASE_PASSWORD")
		return cfg
	}

	cfg.Dialect = DialectSQLite
	cfg.Name = getenv("DATABASE_NAME", "atlas.db")
	return cfg
}

func parseDatabaseURL(raw string) (DBConfig, bool) {
	u, err := url.Parse(raw)
	if err != nil {
		return DBConfig{}, false
	}

	switch u.Scheme {
	case "mysql":
		cfg := DBConfig{
			Dialect: DialectMySQL,
			Host:    u.Hostname(),
			Port:    u.Port(),
			Name:    strings.TrimPrefix(u.Path, "/"),
		}
		if cfg.Port == "" {
			cfg.Port = "3306"
		}
		if u.User != nil {
			cfg.User = u.User.Username()
			cfg.Password, _ = u.User.Password()
		}
		return cfg, true
	case "sqlite":
		// sqlite:atlas.db, sqlite://atlas.db and sqlite:///abs/path.db all
		// resolve to a file path.
		name := u.Opaque
		if name == "" {
			name = u.Host + u.Path
		}
		if name == "" {
			name = "atlas.db"
		}
		return DBConfig{Dialect: DialectSQLite, Name: name}, true
	default:
		return DBConfig{}, false
	}
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return def
	}
	return parsed
}

func getenvDuration(key string, def time.Duration) time.Duration {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return def
	}
	return parsed
}
