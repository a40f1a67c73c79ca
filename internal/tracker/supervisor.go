package tracker

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"os/exec"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrAlreadyRunning rejects a Start while a search run is active.
var ErrAlreadyRunning = errors.New("a search is already running")

// SpawnError wraps the OS-level process-creation failure.
type SpawnError struct {
	Err error
}

func (e *SpawnError) Error() string {
	return "starting worker failed: " + e.Err.Error()
}

func (e *SpawnError) Unwrap() error { return e.Err }

type SupervisorConfig struct {
	Launcher *Launcher
	Bus      *ProgressBus
	Logger   *zap.SugaredLogger
}

// Supervisor owns the single-flight search run: it spawns the worker,
// streams its stdout through the line codec, publishes progress to the
// bus, and returns the final result. At most one run is active per
// Supervisor; independent instances are independent guards.
type Supervisor struct {
	launcher *Launcher
	bus      *ProgressBus
	logger   *zap.SugaredLogger

	running atomic.Bool

	execCommand func(name string, args ...string) *exec.Cmd
}

func NewSupervisor(cfg SupervisorConfig) *Supervisor {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	bus := cfg.Bus
	if bus == nil {
		bus = NewProgressBus()
	}
	return &Supervisor{
		launcher:    cfg.Launcher,
		bus:         bus,
		logger:      logger,
		execCommand: exec.Command,
	}
}

// Running reports whether a search run is currently active.
func (s *Supervisor) Running() bool { return s.running.Load() }

// Start runs one search to completion. It blocks until the worker's
// stdout is exhausted or Stop is observed, and returns the last decoded
// result record, or nil when the run ended without one. The single-flight
// flag is released on every exit path.
func (s *Supervisor) Start(cfg RunConfig) (*ResultRecord, error) {
	if !s.running.CompareAndSwap(false, true) {
		return nil, ErrAlreadyRunning
	}
	// Unconditional release: a failure mid-run must not leave the
	// guard permanently set.
	defer s.running.Store(false)

	cfg.NormalizeDefaults()
	payload, err := json.Marshal(cfg)
	if err != nil {
		return nil, err
	}

	workerPath, err := s.launcher.WorkerPath()
	if err != nil {
		return nil, err
	}

	runID := uuid.NewString()
	name, args := s.launcher.CommandLine(workerPath, "--config", string(payload))

	cmd := s.execCommand(name, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, &SpawnError{Err: err}
	}
	if err := cmd.Start(); err != nil {
		return nil, &SpawnError{Err: err}
	}

	start := time.Now()
	s.logger.Infow("search_started", "run_id", runID, "worker", workerPath)

	var result *ResultRecord
	cancelled := false

	scanner := bufio.NewScanner(stdout)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		// Re-check the guard between lines so Stop is observed promptly.
		if !s.running.Load() {
			cancelled = true
			break
		}

		line := scanner.Text()
		if ev, ok := DecodeProgressLine(line); ok {
			s.bus.Publish(ProgressUpdate{RunID: runID, Event: ev})
			continue
		}
		if rec, ok := DecodeResultLine(line); ok {
			// Last one wins; the protocol emits at most one.
			r := rec
			result = &r
		}
	}

	if cancelled {
		// Stop only halts forwarding; the worker is not signalled and
		// exits on its own. Close our end of the pipe and reap the
		// process in the background so its handles are released.
		_ = stdout.Close()
		go func() { _ = cmd.Wait() }()
		s.logger.Infow("search_cancelled",
			"run_id", runID,
			"duration", time.Since(start).Round(time.Millisecond).String(),
		)
		return nil, nil
	}

	_ = cmd.Wait()
	s.logger.Infow("search_finished",
		"run_id", runID,
		"duration", time.Since(start).Round(time.Millisecond).String(),
		"found", result != nil,
		"stderr_len", stderr.Len(),
	)
	return result, nil
}

// Stop clears the single-flight guard, signalling an active Start loop to
// return before forwarding its next line. Idempotent; a no-op when no run
// is active. Best-effort cooperative cancellation: the worker process is
// not killed.
func (s *Supervisor) Stop() {
	s.running.Store(false)
}
