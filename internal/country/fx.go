package country

import (
	"github.com/smallbiznis/atlas/internal/country/repository"
	"github.com/smallbiznis/atlas/internal/country/service"
	"go.uber.org/fx"
)

var Module = fx.Module("country.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
