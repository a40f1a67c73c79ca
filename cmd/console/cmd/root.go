package cmd

import (
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"tracker-console/internal/envutil"
	"tracker-console/internal/tracker"
)

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "console",
		Short:         "Run the tracker worker from a terminal",
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = cmd.Help()
			return errUsage
		},
	}

	rootCmd.AddCommand(
		newSearchCmd(),
		newTestConnectionCmd(),
	)

	return rootCmd
}

// workerFlags are the launcher settings shared by all subcommands.
type workerFlags struct {
	packaged    bool
	workerFile  string
	script      string
	pythonCmd   string
	resourceDir string
}

func (f *workerFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&f.packaged, "packaged", envutil.Bool(os.Getenv, "TRACKER_PACKAGED", false), "Resolve a bundled worker binary instead of the dev script")
	cmd.Flags().StringVar(&f.workerFile, "worker-file", envutil.String(os.Getenv, "WORKER_FILE", "tracker.exe"), "Worker binary filename (packaged mode)")
	cmd.Flags().StringVar(&f.script, "worker-script", envutil.String(os.Getenv, "WORKER_SCRIPT", "../python/tracker.py"), "Worker script path (dev mode)")
	cmd.Flags().StringVar(&f.pythonCmd, "python-cmd", envutil.String(os.Getenv, "WORKER_PYTHON_CMD", "python"), "Python interpreter for dev mode")
	cmd.Flags().StringVar(&f.resourceDir, "resource-dir", envutil.String(os.Getenv, "WORKER_RESOURCE_DIR", ""), "Packaged resource directory (optional)")
}

func (f *workerFlags) launcher() *tracker.Launcher {
	return tracker.NewLauncher(tracker.LauncherConfig{
		Packaged:     f.packaged,
		WorkerFile:   strings.TrimSpace(f.workerFile),
		WorkerScript: f.script,
		PythonCmd:    f.pythonCmd,
		ResourceDir:  f.resourceDir,
	})
}

func newConsoleLogger(verbose bool) *zap.SugaredLogger {
	if !verbose {
		return zap.NewNop().Sugar()
	}
	logger, err := zap.NewDevelopment()
	if err != nil {
		return zap.NewNop().Sugar()
	}
	return logger.Sugar()
}
