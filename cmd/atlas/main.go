package main

import (
	"github.com/smallbiznis/atlas/internal/chart"
	"github.com/smallbiznis/atlas/internal/config"
	"github.com/smallbiznis/atlas/internal/country"
	"github.com/smallbiznis/atlas/internal/logger"
	"github.com/smallbiznis/atlas/internal/migration"
	"github.com/smallbiznis/atlas/internal/server"
	"github.com/smallbiznis/atlas/internal/sources"
	"github.com/smallbiznis/atlas/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		// Core infrastructure
		config.Module,
		logger.Module,
		db.Module,
		migration.Module,

		// Functional domains
		sources.Module,
		chart.Module,
		country.Module,

		server.Module,
	)
	app.Run()
}
