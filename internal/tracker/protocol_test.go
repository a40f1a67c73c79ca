package tracker

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestDecodeProgressLine_ValidPayload(t *testing.T) {
	t.Parallel()

	ev, ok := DecodeProgressLine(`PROGRESS:{"step":1,"total":4,"remaining":8,"message":"m","names":["a","b"]}`)
	if !ok {
		t.Fatalf("expected progress event")
	}
	if ev.Step != 1 || ev.Total != 4 || ev.Remaining != 8 || ev.Message != "m" {
		t.Fatalf("unexpected event: %+v", ev)
	}
	if len(ev.Names) != 2 || ev.Names[0] != "a" {
		t.Fatalf("unexpected names: %#v", ev.Names)
	}
}

func TestDecodeProgressLine_NamesOptional(t *testing.T) {
	t.Parallel()

	ev, ok := DecodeProgressLine(`PROGRESS:{"step":2,"total":4,"remaining":3,"message":"half"}`)
	if !ok {
		t.Fatalf("expected progress event")
	}
	if ev.Names != nil {
		t.Fatalf("expected nil names, got %#v", ev.Names)
	}
}

func TestDecodeLines_UnknownPrefixYieldsNothing(t *testing.T) {
	t.Parallel()

	lines := []string{
		"",
		"log: connecting",
		"progress:{}",
		" PROGRESS:{}",
		"RESULTS:{}",
		"DEBUG CONNECTED: x",
	}
	for _, line := range lines {
		if _, ok := DecodeProgressLine(line); ok {
			t.Fatalf("line %q decoded as progress", line)
		}
		if _, ok := DecodeResultLine(line); ok {
			t.Fatalf("line %q decoded as result", line)
		}
		if _, ok := DecodeConnectedLine(line); ok {
			t.Fatalf("line %q decoded as connected", line)
		}
	}
}

func TestDecodeLines_MalformedPayloadSilentlyDropped(t *testing.T) {
	t.Parallel()

	if _, ok := DecodeProgressLine(`PROGRESS:{"step":`); ok {
		t.Fatalf("malformed progress payload decoded")
	}
	if _, ok := DecodeProgressLine(`PROGRESS:not json at all`); ok {
		t.Fatalf("malformed progress payload decoded")
	}
	if _, ok := DecodeResultLine(`RESULT:[1,2,3`); ok {
		t.Fatalf("malformed result payload decoded")
	}
}

func TestDecodeResultLine_ConfirmedDefaultsFalse(t *testing.T) {
	t.Parallel()

	rec, ok := DecodeResultLine(`RESULT:{"id":"x","username":"u","displayName":"d","avatar":"a","roles":["r1"]}`)
	if !ok {
		t.Fatalf("expected result record")
	}
	if rec.ID != "x" || rec.Username != "u" || rec.DisplayName != "d" || rec.Avatar != "a" {
		t.Fatalf("unexpected record: %+v", rec)
	}
	if len(rec.Roles) != 1 || rec.Roles[0] != "r1" {
		t.Fatalf("unexpected roles: %#v", rec.Roles)
	}
	if rec.Confirmed {
		t.Fatalf("confirmed should default to false")
	}
}

func TestDecodeResultLine_ConfirmedCarriedWhenPresent(t *testing.T) {
	t.Parallel()

	rec, ok := DecodeResultLine(`RESULT:{"id":"x","username":"u","displayName":"d","avatar":"","roles":[],"confirmed":true}`)
	if !ok {
		t.Fatalf("expected result record")
	}
	if !rec.Confirmed {
		t.Fatalf("confirmed flag lost")
	}
}

func TestDecodeConnectedLine_TrimsWhitespace(t *testing.T) {
	t.Parallel()

	msg, ok := DecodeConnectedLine("CONNECTED:  ok  ")
	if !ok {
		t.Fatalf("expected connected message")
	}
	if msg != "ok" {
		t.Fatalf("unexpected message: %q", msg)
	}

	// Carriage returns from Windows workers are whitespace too.
	msg, ok = DecodeConnectedLine("CONNECTED: logged in as bot\r")
	if !ok || msg != "logged in as bot" {
		t.Fatalf("unexpected message: %q ok=%v", msg, ok)
	}
}

func TestRunConfig_NormalizeDefaults(t *testing.T) {
	t.Parallel()

	cfg := RunConfig{Token: "t"}
	cfg.NormalizeDefaults()
	if cfg.ProxyHost != "127.0.0.1" || cfg.ProxyPort != 7897 {
		t.Fatalf("unexpected proxy defaults: %s:%d", cfg.ProxyHost, cfg.ProxyPort)
	}

	cfg = RunConfig{ProxyHost: "10.0.0.1", ProxyPort: 8080}
	cfg.NormalizeDefaults()
	if cfg.ProxyHost != "10.0.0.1" || cfg.ProxyPort != 8080 {
		t.Fatalf("explicit proxy settings overwritten: %s:%d", cfg.ProxyHost, cfg.ProxyPort)
	}
}

func TestRunConfig_WireKeysAreCamelCase(t *testing.T) {
	t.Parallel()

	b, err := json.Marshal(RunConfig{ServerID: "s", RoleIDs: []string{"r"}})
	if err != nil {
		t.Fatalf("marshal error: %v", err)
	}
	for _, key := range []string{`"serverId"`, `"roleIds"`, `"targetChannelId"`, `"testMessage"`, `"webhookUrl"`, `"sendChannelId"`, `"proxyEnabled"`, `"listenerToken"`} {
		if !strings.Contains(string(b), key) {
			t.Fatalf("wire payload missing key %s: %s", key, b)
		}
	}
}
