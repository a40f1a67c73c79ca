package fx

import (
	"go.uber.org/fx"

	"tracker-console/internal/app/health"
	"tracker-console/internal/router"
)

var Module = fx.Options(
	fx.Provide(router.AsRoute(health.NewHandler)),
)
