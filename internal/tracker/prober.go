package tracker

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"go.uber.org/zap"
)

// ConnectionError reports a probe that produced no CONNECTED: line. The
// message carries the worker's own diagnostics: stderr when present,
// otherwise the full captured stdout.
type ConnectionError struct {
	Detail string
}

func (e *ConnectionError) Error() string { return e.Detail }

type ProberConfig struct {
	Launcher *Launcher
	Logger   *zap.SugaredLogger
}

// Prober runs the worker in test-connection mode; a one-shot synchronous
// invocation independent of the search single-flight guard, so it may run
// alongside an active search.
type Prober struct {
	launcher *Launcher
	logger   *zap.SugaredLogger

	execCommandContext func(ctx context.Context, name string, args ...string) *exec.Cmd
}

func NewProber(cfg ProberConfig) *Prober {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Prober{
		launcher:           cfg.Launcher,
		logger:             logger,
		execCommandContext: exec.CommandContext,
	}
}

// TestConnection invokes the worker with --test-connection and waits for
// full process exit, then scans the captured stdout for the first
// CONNECTED: line and returns its trimmed remainder.
func (p *Prober) TestConnection(ctx context.Context, token string, proxyEnabled bool, proxyHost string, proxyPort int) (string, error) {
	workerPath, err := p.launcher.WorkerPath()
	if err != nil {
		return "", err
	}

	name, args := p.launcher.CommandLine(workerPath, "--test-connection", token)
	if proxyEnabled {
		args = append(args, "--proxy", fmt.Sprintf("%s:%d", proxyHost, proxyPort))
	}

	start := time.Now()
	cmd := p.execCommandContext(ctx, name, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		// A non-zero exit still carries the worker's verdict or
		// diagnostics in the captured streams; only a failure to run
		// the process at all is a spawn error.
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return "", &SpawnError{Err: err}
		}
	}

	p.logger.Debugw("connection_probe_finished",
		"duration", time.Since(start).Round(time.Millisecond).String(),
		"stdout_len", stdout.Len(),
		"stderr_len", stderr.Len(),
	)

	for _, line := range strings.Split(stdout.String(), "\n") {
		if msg, ok := DecodeConnectedLine(line); ok {
			return msg, nil
		}
	}

	if stderr.Len() > 0 {
		return "", &ConnectionError{Detail: stderr.String()}
	}
	return "", &ConnectionError{Detail: fmt.Sprintf("connection failed, stdout: %s", stdout.String())}
}
