package fx

import (
	"go.uber.org/fx"

	"tracker-console/config"
	"tracker-console/internal/logs"
)

var CoreAppOptions = fx.Options(
	fx.Provide(
		config.NewViper,
		config.NewConfig,
		logs.NewLogger,
		logs.NewSugaredLogger,
	),
	fx.Invoke(logs.RegisterLifecycle),
)
