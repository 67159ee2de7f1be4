// Package debug provides category-based debug logging for coursebot.
//
// Categories select WHAT is logged (COURSEBOT_DEBUG or log.debug in the
// config file), the level selects HOW MUCH (COURSEBOT_LOG_LEVEL or
// log.level):
//
//	debug.Log("providers", "generate", "provider", "claude", "tools", 2)
//	if debug.TraceEnabled("engine") { /* format full prompts */ }
//
// Categories: providers, engine, tools, mcp, config, transport, all.
// Levels: ERROR, WARN, INFO, DEBUG, TRACE.
package debug

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
)

// LevelTrace is below slog.LevelDebug. At TRACE, prompts and tool outputs
// are logged in full.
const LevelTrace = slog.LevelDebug - 4

// categories is read-only after Init.
var categories map[string]bool

func init() {
	categories = parseCategories(os.Getenv("COURSEBOT_DEBUG"))
}

// Settings configures Init.
type Settings struct {
	Categories string
	Level      string
	// Format is "text" (default) or "json".
	Format string
	Output io.Writer
}

// Init installs the default slog logger and the enabled categories.
// Environment variables take precedence over s.
func Init(s Settings) {
	cats := os.Getenv("COURSEBOT_DEBUG")
	if cats == "" {
		cats = s.Categories
	}
	categories = parseCategories(cats)

	level := os.Getenv("COURSEBOT_LOG_LEVEL")
	if level == "" {
		level = s.Level
	}

	out := s.Output
	if out == nil {
		out = os.Stderr
	}
	opts := &slog.HandlerOptions{Level: ParseLevel(level)}

	var h slog.Handler
	if strings.EqualFold(s.Format, "json") {
		h = slog.NewJSONHandler(out, opts)
	} else {
		h = slog.NewTextHandler(out, opts)
	}
	slog.SetDefault(slog.New(h))
}

// Enabled reports whether debug output is active for the given category.
func Enabled(category string) bool {
	return categories["all"] || categories[category]
}

// Log emits a debug message for the given category. No-op when the
// category is disabled.
func Log(category string, msg string, args ...any) {
	if !Enabled(category) {
		return
	}
	slog.Debug(msg, append([]any{"debug", category}, args...)...)
}

// Trace emits a trace-level message for the given category.
func Trace(category string, msg string, args ...any) {
	if !Enabled(category) {
		return
	}
	slog.Log(context.Background(), LevelTrace, msg, append([]any{"debug", category}, args...)...)
}

// TraceEnabled reports whether TRACE output would be emitted for category.
func TraceEnabled(category string) bool {
	return Enabled(category) && slog.Default().Enabled(context.Background(), LevelTrace)
}

// ParseLevel converts a level string to a slog.Level. Unknown values map
// to INFO.
func ParseLevel(s string) slog.Level {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "TRACE":
		return LevelTrace
	case "DEBUG":
		return slog.LevelDebug
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Truncate shortens s to maxLen bytes and marks the cut with "...".
func Truncate(s string, maxLen int) string {
	if maxLen <= 0 || len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}

func parseCategories(s string) map[string]bool {
	m := make(map[string]bool)
	for _, cat := range strings.Split(s, ",") {
		cat = strings.TrimSpace(strings.ToLower(cat))
		if cat != "" {
			m[cat] = true
		}
	}
	return m
}
