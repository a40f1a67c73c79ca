package main

import (
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	appfx "tracker-console/internal/app/fx"
	healthfx "tracker-console/internal/app/health/fx"
	searchfx "tracker-console/internal/app/search/fx"
	routerfx "tracker-console/internal/router/fx"
	serverfx "tracker-console/internal/server/fx"
	trackerfx "tracker-console/internal/tracker/fx"
)

func main() {
	app := fx.New(
		fx.WithLogger(func(logger *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: logger}
		}),
		appfx.CoreAppOptions,
		trackerfx.Module,
		routerfx.CoreRouterOptions,
		serverfx.Module,
		healthfx.Module,
		searchfx.Module,
	)

	app.Run()
}
