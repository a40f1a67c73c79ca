package fx

import (
	"go.uber.org/fx"
	"go.uber.org/zap"

	"tracker-console/config"
	"tracker-console/internal/tracker"
)

var Module = fx.Options(
	fx.Provide(
		NewLauncher,
		tracker.NewProgressBus,
		NewSupervisor,
		NewProber,
	),
)

func NewLauncher(cfg config.Config) *tracker.Launcher {
	return tracker.NewLauncher(tracker.LauncherConfig{
		Packaged:     cfg.AppEnv == config.Packaged,
		WorkerFile:   cfg.WorkerFile,
		WorkerScript: cfg.WorkerScript,
		PythonCmd:    cfg.PythonCmd,
		ResourceDir:  cfg.ResourceDir,
	})
}

type NewSupervisorParams struct {
	fx.In

	Launcher *tracker.Launcher
	Bus      *tracker.ProgressBus
	Logger   *zap.SugaredLogger
}

func NewSupervisor(p NewSupervisorParams) *tracker.Supervisor {
	return tracker.NewSupervisor(tracker.SupervisorConfig{
		Launcher: p.Launcher,
		Bus:      p.Bus,
		Logger:   p.Logger,
	})
}

type NewProberParams struct {
	fx.In

	Launcher *tracker.Launcher
	Logger   *zap.SugaredLogger
}

func NewProber(p NewProberParams) *tracker.Prober {
	return tracker.NewProber(tracker.ProberConfig{
		Launcher: p.Launcher,
		Logger:   p.Logger,
	})
}
