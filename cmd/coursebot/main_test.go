package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/rhuss/coursebot/pkg/api"
	"github.com/rhuss/coursebot/pkg/provider/factory"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{
		"COURSEBOT_CONFIG", "COURSEBOT_PROVIDER", "COURSEBOT_PROVIDER_TIMEOUT",
		"ANTHROPIC_API_KEY", "ANTHROPIC_MODEL", "GOOGLE_API_KEY", "GEMINI_MODEL",
		"COURSEBOT_MAX_ITERATIONS", "COURSEBOT_ENABLE_ITERATION", "COURSEBOT_DEBUG_LOOP",
		"COURSEBOT_PORT", "COURSEBOT_MCP_SERVERS", "COURSEBOT_LOG_LEVEL", "COURSEBOT_DEBUG",
		"COURSEBOT_ALLOWED_TOOLS", "COURSEBOT_CATALOG",
	} {
		t.Setenv(name, "")
	}
}

// execute runs the root command with args and returns its output.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return path
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if !strings.HasPrefix(out, "coursebot version ") {
		t.Errorf("output = %q", out)
	}
}

func TestProvidersListsConfiguredVendors(t *testing.T) {
	clearEnv(t)
	t.Setenv("ANTHROPIC_API_KEY", "sk-test")
	t.Setenv("GOOGLE_API_KEY", "g-test")
	t.Setenv("GEMINI_MODEL", "gemini-custom")

	out, err := execute(t, "providers", "--config", writeConfig(t, "{}\n"))
	if err != nil {
		t.Fatalf("providers: %v", err)
	}
	for _, want := range []string{
		"claude\tclaude-sonnet-4-20250514",
		"gemini\tgemini-custom",
		"random\n",
		"selected: random",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestProvidersWithoutKeys(t *testing.T) {
	clearEnv(t)

	_, err := execute(t, "providers", "--config", writeConfig(t, "{}\n"))
	if !errors.Is(err, factory.ErrNoProviders) {
		t.Fatalf("err = %v, want ErrNoProviders", err)
	}
}

func TestUnknownProviderFlag(t *testing.T) {
	clearEnv(t)

	_, err := execute(t, "providers", "--provider", "openai", "--config", writeConfig(t, "{}\n"))
	if !errors.Is(err, factory.ErrUnsupportedProvider) {
		t.Fatalf("err = %v, want ErrUnsupportedProvider", err)
	}
}

func TestAskRequiresQuestion(t *testing.T) {
	if _, err := execute(t, "ask"); err == nil {
		t.Fatal("expected error without a question")
	}
}

func TestAskMissingKeyForExplicitProvider(t *testing.T) {
	clearEnv(t)

	_, err := execute(t, "ask", "--provider", "gemini", "--config", writeConfig(t, "{}\n"), "hi")
	if !errors.Is(err, factory.ErrMissingAPIKey) {
		t.Fatalf("err = %v, want ErrMissingAPIKey", err)
	}
}

// fakeAnthropic asks for search_course_content on the first turn and
// answers once a tool result is present.
func fakeAnthropic(t *testing.T) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		body, _ := io.ReadAll(r.Body)
		w.Header().Set("Content-Type", "application/json")

		if !strings.Contains(string(body), "tool_result") {
			_, _ = w.Write([]byte(`{
  "id": "msg_1", "type": "message", "role": "assistant", "model": "claude-test",
  "content": [{"type": "tool_use", "id": "toolu_1", "name": "search_course_content", "input": {"query": "MCP"}}],
  "stop_reason": "tool_use", "stop_sequence": null,
  "usage": {"input_tokens": 10, "output_tokens": 5}
}`))
			return
		}
		var payload struct {
			Messages []struct {
				Content json.RawMessage `json:"content"`
			} `json:"messages"`
		}
		_ = json.Unmarshal(body, &payload)
		last := string(payload.Messages[len(payload.Messages)-1].Content)
		if !strings.Contains(last, "MCP lesson 2") {
			t.Errorf("tool output not sent back: %s", last)
		}
		_, _ = w.Write([]byte(`{
  "id": "msg_2", "type": "message", "role": "assistant", "model": "claude-test",
  "content": [{"type": "text", "text": "Lesson 2 introduces MCP."}],
  "stop_reason": "end_turn", "stop_sequence": null,
  "usage": {"input_tokens": 20, "output_tokens": 6}
}`))
	}))
	t.Cleanup(srv.Close)
	return srv, &calls
}

// courseToolServer serves one MCP tool over streamable HTTP.
func courseToolServer(t *testing.T) *httptest.Server {
	t.Helper()
	server := mcp.NewServer(&mcp.Implementation{Name: "courses", Version: "1.0.0"}, nil)
	server.AddTool(&mcp.Tool{
		Name:        "search_course_content",
		Description: "Search course materials",
		InputSchema: map[string]any{
			"type":       "object",
			"properties": map[string]any{"query": map[string]any{"type": "string"}},
			"required":   []any{"query"},
		},
	}, func(_ context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return &mcp.CallToolResult{Content: []mcp.Content{&mcp.TextContent{Text: "MCP lesson 2"}}}, nil
	})

	srv := httptest.NewServer(mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server { return server }, nil))
	t.Cleanup(srv.Close)
	return srv
}

func TestAskEndToEnd(t *testing.T) {
	clearEnv(t)
	anthropicSrv, calls := fakeAnthropic(t)
	toolSrv := courseToolServer(t)

	cfg := writeConfig(t, `
provider:
  type: claude
  anthropic:
    api_key: sk-test
    base_url: `+anthropicSrv.URL+`
loop:
  debug: true
mcp:
  servers:
    - name: courses
      url: `+toolSrv.URL+`
`)

	out, err := execute(t, "ask", "--config", cfg, "--json", "What", "is", "MCP?")
	if err != nil {
		t.Fatalf("ask: %v", err)
	}

	var resp api.AskResponse
	if err := json.Unmarshal([]byte(out), &resp); err != nil {
		t.Fatalf("decoding output %q: %v", out, err)
	}
	if resp.Answer != "Lesson 2 introduces MCP." {
		t.Errorf("answer = %q", resp.Answer)
	}
	if resp.Provider != "claude" || resp.Rounds != 1 || resp.StopReason != "end_turn" {
		t.Errorf("resp = %+v", resp)
	}
	if len(resp.Executions) != 1 || resp.Executions[0].Tool != "search_course_content" {
		t.Errorf("executions = %+v", resp.Executions)
	}
	if !api.ValidateAskID(resp.ID) {
		t.Errorf("id = %q", resp.ID)
	}
	if n := calls.Load(); n != 2 {
		t.Errorf("anthropic calls = %d, want 2", n)
	}
}

func TestAskUsesCatalogWithoutMCPServers(t *testing.T) {
	clearEnv(t)
	var calls atomic.Int32
	anthropicSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		body, _ := io.ReadAll(r.Body)
		w.Header().Set("Content-Type", "application/json")

		if !strings.Contains(string(body), "tool_result") {
			if !strings.Contains(string(body), `"get_course_outline"`) {
				t.Errorf("catalog tools not offered: %s", body)
			}
			_, _ = w.Write([]byte(`{
  "id": "msg_1", "type": "message", "role": "assistant", "model": "claude-test",
  "content": [{"type": "tool_use", "id": "toolu_1", "name": "get_course_outline", "input": {"course_name": "MCP"}}],
  "stop_reason": "tool_use", "stop_sequence": null,
  "usage": {"input_tokens": 10, "output_tokens": 5}
}`))
			return
		}
		if !strings.Contains(string(body), "Setting up MCP") {
			t.Errorf("outline not sent back: %s", body)
		}
		_, _ = w.Write([]byte(`{
  "id": "msg_2", "type": "message", "role": "assistant", "model": "claude-test",
  "content": [{"type": "text", "text": "The MCP course has two lessons."}],
  "stop_reason": "end_turn", "stop_sequence": null,
  "usage": {"input_tokens": 20, "output_tokens": 6}
}`))
	}))
	t.Cleanup(anthropicSrv.Close)

	cfg := writeConfig(t, `
provider:
  type: claude
  anthropic:
    api_key: sk-test
    base_url: `+anthropicSrv.URL+`
`)

	out, err := execute(t, "ask", "--config", cfg, "Outline the MCP course")
	if err != nil {
		t.Fatalf("ask: %v", err)
	}
	if strings.TrimSpace(out) != "The MCP course has two lessons." {
		t.Errorf("output = %q", out)
	}
	if n := calls.Load(); n != 2 {
		t.Errorf("anthropic calls = %d, want 2", n)
	}
}

func TestAskPlainOutputAndProviderFailure(t *testing.T) {
	clearEnv(t)
	failing := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"type":"error","error":{"type":"api_error","message":"overloaded"}}`))
	}))
	t.Cleanup(failing.Close)

	cfg := writeConfig(t, `
provider:
  type: anthropic
  anthropic:
    api_key: sk-test
    base_url: `+failing.URL+`
`)

	out, err := execute(t, "ask", "--config", cfg, "hi")
	if err == nil {
		t.Fatal("expected error for failed provider call")
	}
	if strings.TrimSpace(out) == "" {
		t.Error("the error answer should still be printed")
	}

	out, err = execute(t, "ask", "--config", cfg, "--json", "hi")
	if err == nil {
		t.Fatal("expected error for failed provider call with --json")
	}
	var resp api.AskResponse
	if jerr := json.Unmarshal([]byte(out), &resp); jerr != nil {
		t.Fatalf("decoding output %q: %v", out, jerr)
	}
	if resp.StopReason != "error" || resp.Answer == "" {
		t.Errorf("resp = %+v", resp)
	}
}
