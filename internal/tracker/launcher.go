package tracker

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// WorkerNotFoundError means no candidate location held the worker
// executable. The message is user-facing installation-repair guidance.
type WorkerNotFoundError struct {
	WorkerFile string
}

func (e *WorkerNotFoundError) Error() string {
	return fmt.Sprintf("%s not found; please reinstall the application", e.WorkerFile)
}

type LauncherConfig struct {
	// Packaged toggles the resolution strategy: false trusts the
	// development script path as-is, true walks the fallback chain.
	Packaged bool

	WorkerFile   string
	WorkerScript string
	PythonCmd    string
	ResourceDir  string

	// ResolveResource is the bundle-scoped resource-resolution hook
	// (first packaged candidate). Nil when the deployment has none.
	ResolveResource func(name string) (string, bool)
}

// Launcher resolves the worker's on-disk location and the command line
// used to invoke it. Resolution is deterministic and side-effect-free:
// existence checks only.
type Launcher struct {
	packaged     bool
	workerFile   string
	workerScript string
	pythonCmd    string
	resourceDir  string

	resolveResource func(name string) (string, bool)
	executablePath  func() (string, error)
	fileExists      func(path string) bool
}

func NewLauncher(cfg LauncherConfig) *Launcher {
	pythonCmd := strings.TrimSpace(cfg.PythonCmd)
	if pythonCmd == "" {
		pythonCmd = "python"
	}
	return &Launcher{
		packaged:        cfg.Packaged,
		workerFile:      cfg.WorkerFile,
		workerScript:    cfg.WorkerScript,
		pythonCmd:       pythonCmd,
		resourceDir:     cfg.ResourceDir,
		resolveResource: cfg.ResolveResource,
		executablePath:  os.Executable,
		fileExists:      fileExists,
	}
}

// WorkerPath returns a validated path to the worker. Development mode
// returns the script path unresolved (trust the dev environment).
// Packaged mode tries, in order: the resource-resolution hook, the
// configured resource directory, a resources/ directory beside the
// running executable, and the executable's own directory.
func (l *Launcher) WorkerPath() (string, error) {
	if !l.packaged {
		return l.workerScript, nil
	}

	if l.resolveResource != nil {
		if path, ok := l.resolveResource(l.workerFile); ok {
			clean := StripVerbatimPrefix(path)
			if l.fileExists(clean) {
				return clean, nil
			}
		}
	}

	if strings.TrimSpace(l.resourceDir) != "" {
		clean := StripVerbatimPrefix(filepath.Join(l.resourceDir, l.workerFile))
		if l.fileExists(clean) {
			return clean, nil
		}
	}

	if exePath, err := l.executablePath(); err == nil {
		exeDir := filepath.Dir(StripVerbatimPrefix(exePath))

		path := filepath.Join(exeDir, "resources", l.workerFile)
		if l.fileExists(path) {
			return path, nil
		}
		path = filepath.Join(exeDir, l.workerFile)
		if l.fileExists(path) {
			return path, nil
		}
	}

	return "", &WorkerNotFoundError{WorkerFile: l.workerFile}
}

// CommandLine builds the argv for a worker invocation. Development mode
// runs the script through the Python interpreter; packaged mode executes
// the worker binary directly.
func (l *Launcher) CommandLine(workerPath string, args ...string) (string, []string) {
	if !l.packaged {
		return l.pythonCmd, append([]string{workerPath}, args...)
	}
	return workerPath, args
}

// StripVerbatimPrefix removes the Windows extended-length path marker.
// Some process-spawn APIs mishandle verbatim paths, so the marker is
// normalized away before any stat or argv use.
func StripVerbatimPrefix(path string) string {
	return strings.TrimPrefix(path, `\\?\`)
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
