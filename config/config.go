package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Deployment modes. Development runs the worker through a Python
// interpreter; packaged executes the bundled worker binary directly.
const (
	Development = "development"
	Packaged    = "packaged"
)

type Config struct {
	AppName string
	AppEnv  string
	AppPort int

	LogLevel string

	// Worker process settings.
	WorkerFile   string
	WorkerScript string
	PythonCmd    string
	ResourceDir  string
}

func NewViper() *viper.Viper {
	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("APP_NAME", "tracker-console")
	v.SetDefault("APP_ENV", Development)
	v.SetDefault("APP_PORT", 8080)
	v.SetDefault("LOG_LEVEL", "info")

	v.SetDefault("WORKER_FILE", "tracker.exe")
	v.SetDefault("WORKER_SCRIPT", "../python/tracker.py")
	v.SetDefault("WORKER_PYTHON_CMD", "python")
	v.SetDefault("WORKER_RESOURCE_DIR", "")

	return v
}

func NewConfig(v *viper.Viper) (Config, error) {
	cfg := Config{
		AppName: v.GetString("APP_NAME"),
		AppEnv:  strings.ToLower(strings.TrimSpace(v.GetString("APP_ENV"))),
		AppPort: v.GetInt("APP_PORT"),

		LogLevel: v.GetString("LOG_LEVEL"),

		WorkerFile:   v.GetString("WORKER_FILE"),
		WorkerScript: v.GetString("WORKER_SCRIPT"),
		PythonCmd:    v.GetString("WORKER_PYTHON_CMD"),
		ResourceDir:  v.GetString("WORKER_RESOURCE_DIR"),
	}

	if cfg.AppPort <= 0 || cfg.AppPort > 65535 {
		return Config{}, fmt.Errorf("invalid APP_PORT %d", cfg.AppPort)
	}
	if cfg.AppEnv != Development && cfg.AppEnv != Packaged {
		return Config{}, fmt.Errorf("invalid APP_ENV %q (want %q or %q)", cfg.AppEnv, Development, Packaged)
	}
	if strings.TrimSpace(cfg.WorkerFile) == "" {
		return Config{}, fmt.Errorf("WORKER_FILE must not be empty")
	}

	return cfg, nil
}
