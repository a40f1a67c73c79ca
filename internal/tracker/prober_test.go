package tracker

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"testing"
)

func proberHelperCommand(stdout, stderr string, exit int) func(ctx context.Context, name string, args ...string) *exec.Cmd {
	return func(ctx context.Context, _ string, _ ...string) *exec.Cmd {
		cmd := exec.CommandContext(ctx, os.Args[0], "-test.run=TestProberHelperProcess", "--")
		cmd.Env = append(os.Environ(),
			"GO_WANT_HELPER_PROCESS=1",
			"HELPER_STDOUT="+stdout,
			"HELPER_STDERR="+stderr,
			"HELPER_EXIT="+strconv.Itoa(exit),
		)
		return cmd
	}
}

func newTestProber(stdout, stderr string, exit int) *Prober {
	p := NewProber(ProberConfig{
		Launcher: NewLauncher(LauncherConfig{
			Packaged:     false,
			WorkerScript: "tracker.py",
		}),
	})
	p.execCommandContext = proberHelperCommand(stdout, stderr, exit)
	return p
}

func TestProber_TestConnection_TrimsVerdict(t *testing.T) {
	t.Parallel()

	p := newTestProber("CONNECTED:  ok  \n", "", 0)

	msg, err := p.TestConnection(context.Background(), "tok", false, "", 0)
	if err != nil {
		t.Fatalf("TestConnection error: %v", err)
	}
	if msg != "ok" {
		t.Fatalf("unexpected message: %q", msg)
	}
}

func TestProber_TestConnection_FirstVerdictAmongNoise(t *testing.T) {
	t.Parallel()

	p := newTestProber("warming up\nCONNECTED: logged in as bot\nCONNECTED: duplicate\n", "", 0)

	msg, err := p.TestConnection(context.Background(), "tok", false, "", 0)
	if err != nil {
		t.Fatalf("TestConnection error: %v", err)
	}
	if msg != "logged in as bot" {
		t.Fatalf("unexpected message: %q", msg)
	}
}

func TestProber_TestConnection_StderrWinsOnFailure(t *testing.T) {
	t.Parallel()

	p := newTestProber("", "boom", 1)

	_, err := p.TestConnection(context.Background(), "tok", false, "", 0)
	var connErr *ConnectionError
	if !errors.As(err, &connErr) {
		t.Fatalf("expected ConnectionError, got %v", err)
	}
	if connErr.Error() != "boom" {
		t.Fatalf("unexpected error text: %q", connErr.Error())
	}
}

func TestProber_TestConnection_StdoutFallbackOnFailure(t *testing.T) {
	t.Parallel()

	p := newTestProber("401 unauthorized\n", "", 0)

	_, err := p.TestConnection(context.Background(), "tok", false, "", 0)
	var connErr *ConnectionError
	if !errors.As(err, &connErr) {
		t.Fatalf("expected ConnectionError, got %v", err)
	}
	if !strings.Contains(connErr.Error(), "401 unauthorized") {
		t.Fatalf("diagnostic stdout missing from error: %q", connErr.Error())
	}
}

func TestProber_TestConnection_ProxyArgumentOnlyWhenEnabled(t *testing.T) {
	t.Parallel()

	var calls [][]string
	p := newTestProber("CONNECTED: ok\n", "", 0)
	inner := p.execCommandContext
	p.execCommandContext = func(ctx context.Context, name string, args ...string) *exec.Cmd {
		calls = append(calls, append([]string(nil), args...))
		return inner(ctx, name, args...)
	}

	if _, err := p.TestConnection(context.Background(), "tok", true, "127.0.0.1", 7897); err != nil {
		t.Fatalf("TestConnection error: %v", err)
	}
	if _, err := p.TestConnection(context.Background(), "tok", false, "127.0.0.1", 7897); err != nil {
		t.Fatalf("TestConnection error: %v", err)
	}

	if len(calls) != 2 {
		t.Fatalf("expected 2 invocations, got %d", len(calls))
	}
	joined := strings.Join(calls[0], " ")
	if !strings.Contains(joined, "--test-connection tok") || !strings.Contains(joined, "--proxy 127.0.0.1:7897") {
		t.Fatalf("unexpected args with proxy: %#v", calls[0])
	}
	if strings.Contains(strings.Join(calls[1], " "), "--proxy") {
		t.Fatalf("proxy argument passed while disabled: %#v", calls[1])
	}
}

func TestProber_TestConnection_WorkerNotFound(t *testing.T) {
	t.Parallel()

	launcher := NewLauncher(LauncherConfig{
		Packaged:   true,
		WorkerFile: "tracker.exe",
	})
	launcher.executablePath = func() (string, error) { return "/opt/app/console", nil }
	launcher.fileExists = func(string) bool { return false }

	p := NewProber(ProberConfig{Launcher: launcher})

	_, err := p.TestConnection(context.Background(), "tok", false, "", 0)
	var notFound *WorkerNotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected WorkerNotFoundError, got %v", err)
	}
}

func TestProberHelperProcess(t *testing.T) {
	if os.Getenv("GO_WANT_HELPER_PROCESS") != "1" {
		return
	}

	_, _ = os.Stdout.WriteString(os.Getenv("HELPER_STDOUT"))
	_, _ = os.Stderr.WriteString(os.Getenv("HELPER_STDERR"))

	code, _ := strconv.Atoi(os.Getenv("HELPER_EXIT"))
	os.Exit(code)
}
