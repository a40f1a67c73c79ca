package fx

import (
	"go.uber.org/fx"

	"tracker-console/internal/app/search"
	"tracker-console/internal/router"
)

var Module = fx.Options(
	fx.Provide(
		router.AsRoute(search.NewStartHandler),
		router.AsRoute(search.NewStopHandler),
		router.AsRoute(search.NewTestConnectionHandler),
		router.AsRoute(search.NewEventsHandler),
	),
)
