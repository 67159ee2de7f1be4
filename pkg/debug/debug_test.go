package debug

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestParseCategories(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  map[string]bool
	}{
		{"empty", "", map[string]bool{}},
		{"single", "providers", map[string]bool{"providers": true}},
		{"multiple", "providers,engine", map[string]bool{"providers": true, "engine": true}},
		{"with spaces", " tools , mcp ", map[string]bool{"tools": true, "mcp": true}},
		{"uppercase normalized", "PROVIDERS,Engine", map[string]bool{"providers": true, "engine": true}},
		{"empty segments", "providers,,engine", map[string]bool{"providers": true, "engine": true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseCategories(tt.input)
			if len(got) != len(tt.want) {
				t.Fatalf("len(got) = %d, want %d", len(got), len(tt.want))
			}
			for k := range tt.want {
				if !got[k] {
					t.Errorf("category %q missing", k)
				}
			}
		})
	}
}

func TestEnabled(t *testing.T) {
	orig := categories
	defer func() { categories = orig }()

	categories = parseCategories("providers,engine")
	if !Enabled("providers") || !Enabled("engine") {
		t.Error("providers and engine should be enabled")
	}
	if Enabled("mcp") {
		t.Error("mcp should not be enabled")
	}

	categories = parseCategories("all")
	if !Enabled("anything") {
		t.Error("anything should be enabled via 'all'")
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
	}{
		{"trace", LevelTrace},
		{"DEBUG", slog.LevelDebug},
		{"", slog.LevelInfo},
		{"WARNING", slog.LevelWarn},
		{"ERROR", slog.LevelError},
		{"unknown", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ParseLevel(tt.input); got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestTruncate(t *testing.T) {
	if got := Truncate("short", 10); got != "short" {
		t.Errorf("Truncate short = %q", got)
	}
	if got := Truncate("this is a long string", 10); got != "this is a ..." {
		t.Errorf("Truncate long = %q", got)
	}
	if got := Truncate("unbounded", 0); got != "unbounded" {
		t.Errorf("Truncate with zero limit = %q", got)
	}
}

func TestInit_JSONOutputAndCategories(t *testing.T) {
	origCats := categories
	origLogger := slog.Default()
	defer func() {
		categories = origCats
		slog.SetDefault(origLogger)
	}()

	t.Setenv("COURSEBOT_DEBUG", "")
	t.Setenv("COURSEBOT_LOG_LEVEL", "")

	var buf bytes.Buffer
	Init(Settings{Categories: "engine", Level: "debug", Format: "json", Output: &buf})

	Log("engine", "round finished", "iteration", 1)
	Log("providers", "suppressed")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected 1 log line, got %d: %q", len(lines), buf.String())
	}
	var rec map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &rec); err != nil {
		t.Fatalf("log line is not JSON: %v", err)
	}
	if rec["msg"] != "round finished" || rec["debug"] != "engine" {
		t.Errorf("unexpected record: %v", rec)
	}
	if TraceEnabled("engine") {
		t.Error("trace should be disabled at DEBUG level")
	}
}

func TestInit_EnvOverridesSettings(t *testing.T) {
	origCats := categories
	origLogger := slog.Default()
	defer func() {
		categories = origCats
		slog.SetDefault(origLogger)
	}()

	t.Setenv("COURSEBOT_DEBUG", "mcp")
	t.Setenv("COURSEBOT_LOG_LEVEL", "TRACE")

	var buf bytes.Buffer
	Init(Settings{Categories: "engine", Level: "error", Output: &buf})

	if Enabled("engine") {
		t.Error("engine should be replaced by the env categories")
	}
	if !TraceEnabled("mcp") {
		t.Error("mcp trace should be enabled")
	}
}
