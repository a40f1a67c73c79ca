package tracker

import (
	"encoding/json"
	"strings"
)

// Line prefixes emitted by the worker on stdout. The worker prints one
// event per line; anything without a known prefix is diagnostic noise.
const (
	progressPrefix  = "PROGRESS:"
	resultPrefix    = "RESULT:"
	connectedPrefix = "CONNECTED:"
)

// RunConfig is the search configuration handed to the worker as a single
// JSON --config argument. Identifier fields are opaque strings; the worker
// validates them. Keys beyond this set are ignored by the worker.
type RunConfig struct {
	Token           string   `json:"token"`
	ListenerToken   string   `json:"listenerToken"`
	ServerID        string   `json:"serverId"`
	RoleIDs         []string `json:"roleIds"`
	TargetChannelID string   `json:"targetChannelId"`
	TestMessage     string   `json:"testMessage"`
	Timeout         int      `json:"timeout"`
	WebhookURL      string   `json:"webhookUrl"`
	SendChannelID   string   `json:"sendChannelId"`
	ProxyEnabled    bool     `json:"proxyEnabled"`
	ProxyHost       string   `json:"proxyHost"`
	ProxyPort       int      `json:"proxyPort"`
}

const (
	DefaultProxyHost = "127.0.0.1"
	DefaultProxyPort = 7897
)

// NormalizeDefaults fills proxy defaults left empty by the caller.
func (c *RunConfig) NormalizeDefaults() {
	if strings.TrimSpace(c.ProxyHost) == "" {
		c.ProxyHost = DefaultProxyHost
	}
	if c.ProxyPort == 0 {
		c.ProxyPort = DefaultProxyPort
	}
}

// ProgressEvent is one PROGRESS: payload. Counters are advisory; the
// worker owns their meaning and this side never enforces monotonicity.
type ProgressEvent struct {
	Step      int      `json:"step"`
	Total     int      `json:"total"`
	Remaining int      `json:"remaining"`
	Message   string   `json:"message"`
	Names     []string `json:"names,omitempty"`
}

// ResultRecord is the RESULT: payload identifying the matched member.
// Confirmed defaults to false when absent from the wire payload.
type ResultRecord struct {
	ID          string   `json:"id"`
	Username    string   `json:"username"`
	DisplayName string   `json:"displayName"`
	Avatar      string   `json:"avatar"`
	Roles       []string `json:"roles"`
	Confirmed   bool     `json:"confirmed"`
}

// DecodeProgressLine decodes a PROGRESS: line. A malformed payload yields
// no event: progress loss must never abort a run, so decode failures are
// swallowed here rather than surfaced.
func DecodeProgressLine(line string) (ProgressEvent, bool) {
	rest, ok := strings.CutPrefix(line, progressPrefix)
	if !ok {
		return ProgressEvent{}, false
	}
	var ev ProgressEvent
	if err := json.Unmarshal([]byte(rest), &ev); err != nil {
		return ProgressEvent{}, false
	}
	return ev, true
}

// DecodeResultLine decodes a RESULT: line, with the same silent-drop
// policy as DecodeProgressLine.
func DecodeResultLine(line string) (ResultRecord, bool) {
	rest, ok := strings.CutPrefix(line, resultPrefix)
	if !ok {
		return ResultRecord{}, false
	}
	var rec ResultRecord
	if err := json.Unmarshal([]byte(rest), &rec); err != nil {
		return ResultRecord{}, false
	}
	return rec, true
}

// DecodeConnectedLine returns the trimmed remainder of a CONNECTED: line
// printed by the worker in test-connection mode.
func DecodeConnectedLine(line string) (string, bool) {
	rest, ok := strings.CutPrefix(line, connectedPrefix)
	if !ok {
		return "", false
	}
	return strings.TrimSpace(rest), true
}
