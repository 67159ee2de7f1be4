package tools

import (
	"context"
	"errors"
	"testing"
)

func TestFilter(t *testing.T) {
	reg, err := NewRegistry(echoTool("search"), echoTool("outline"), echoTool("delete_course"))
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}

	tests := []struct {
		name      string
		allowed   []string
		wantNames []string
	}{
		{name: "nil list keeps everything", allowed: nil, wantNames: []string{"search", "outline", "delete_course"}},
		{name: "empty list keeps everything", allowed: []string{}, wantNames: []string{"search", "outline", "delete_course"}},
		{name: "subset keeps wrapped order", allowed: []string{"outline", "search"}, wantNames: []string{"search", "outline"}},
		{name: "unknown names are ignored", allowed: []string{"nope"}, wantNames: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defs := Filter(reg, tt.allowed).Definitions()
			if len(defs) != len(tt.wantNames) {
				t.Fatalf("got %d definitions, want %d", len(defs), len(tt.wantNames))
			}
			for i, d := range defs {
				if d.Name != tt.wantNames[i] {
					t.Errorf("defs[%d] = %q, want %q", i, d.Name, tt.wantNames[i])
				}
			}
		})
	}
}

func TestFilter_Execute(t *testing.T) {
	reg, _ := NewRegistry(echoTool("search"), echoTool("delete_course"))
	m := Filter(reg, []string{"search"})

	out, err := m.Execute(context.Background(), "search", map[string]any{"query": "mcp"})
	if err != nil {
		t.Fatalf("Execute(search): %v", err)
	}
	if out != "search:mcp" {
		t.Errorf("output = %q, want %q", out, "search:mcp")
	}

	_, err = m.Execute(context.Background(), "delete_course", nil)
	if !errors.Is(err, ErrToolNotAllowed) {
		t.Errorf("Execute(delete_course) error = %v, want ErrToolNotAllowed", err)
	}
}

func TestFilter_NoListReturnsSameManager(t *testing.T) {
	reg, _ := NewRegistry(echoTool("search"))
	if got := Filter(reg, nil); got != Manager(reg) {
		t.Error("Filter with no allowed list should return the wrapped Manager")
	}
}
