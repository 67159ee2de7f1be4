package catalog

import (
	"context"
	"strings"
	"testing"

	"github.com/rhuss/coursebot/pkg/tools"
)

func TestRegistryMatchesServerTools(t *testing.T) {
	r, err := NewRegistry(Sample())
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}

	defs := r.Definitions()
	want := []string{ToolListCourses, ToolCourseOutline, ToolLessonLink}
	if len(defs) != len(want) {
		t.Fatalf("definitions = %d, want %d", len(defs), len(want))
	}
	for i, d := range defs {
		if d.Name != want[i] {
			t.Errorf("defs[%d] = %q, want %q", i, d.Name, want[i])
		}
		if d.InputSchema.Type != "object" {
			t.Errorf("%s schema type = %q", d.Name, d.InputSchema.Type)
		}
	}
	if got := defs[2].InputSchema.Properties["lesson_number"].Type; got != "integer" {
		t.Errorf("lesson_number type = %q, want integer", got)
	}
}

func TestRegistryExecute(t *testing.T) {
	r, err := NewRegistry(Sample())
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}
	ctx := context.Background()

	tests := []struct {
		name   string
		tool   string
		params map[string]any
		want   string
	}{
		{"list", ToolListCourses, nil, "3 courses:\n- Introduction to Machine Learning"},
		{"outline", ToolCourseOutline, map[string]any{"course_name": "MCP"}, "Lesson 2: Setting up MCP"},
		{"unknown course", ToolCourseOutline, map[string]any{"course_name": "Quantum Basics"}, "No course found matching 'Quantum Basics'"},
		{"lesson as float", ToolLessonLink, map[string]any{"course_name": "python", "lesson_number": 3.0}, "https://example.com/python-lesson3"},
		{"lesson as int", ToolLessonLink, map[string]any{"course_name": "python", "lesson_number": 3}, "https://example.com/python-lesson3"},
		{"lesson as string", ToolLessonLink, map[string]any{"course_name": "python", "lesson_number": " 3"}, "https://example.com/python-lesson3"},
		{"missing lesson", ToolLessonLink, map[string]any{"course_name": "python", "lesson_number": 7.0}, "has no lesson 7"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := r.Execute(ctx, tt.tool, tt.params)
			if err != nil {
				t.Fatalf("Execute(%s) error: %v", tt.tool, err)
			}
			if !strings.Contains(out, tt.want) {
				t.Errorf("Execute(%s) = %q, want it to contain %q", tt.tool, out, tt.want)
			}
		})
	}
}

func TestRegistryExecuteBadParams(t *testing.T) {
	r, err := NewRegistry(Sample())
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}

	tests := []struct {
		name   string
		tool   string
		params map[string]any
	}{
		{"missing course", ToolCourseOutline, map[string]any{}},
		{"course not a string", ToolCourseOutline, map[string]any{"course_name": 4}},
		{"missing lesson", ToolLessonLink, map[string]any{"course_name": "python"}},
		{"fractional lesson", ToolLessonLink, map[string]any{"course_name": "python", "lesson_number": 1.5}},
		{"lesson not a number", ToolLessonLink, map[string]any{"course_name": "python", "lesson_number": "three"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := r.Execute(context.Background(), tt.tool, tt.params); err == nil {
				t.Errorf("Execute(%s, %v) succeeded", tt.tool, tt.params)
			}
		})
	}
}

func TestToolsFilterable(t *testing.T) {
	r, err := NewRegistry(Sample())
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}
	m := tools.Filter(r, []string{ToolCourseOutline})
	if defs := m.Definitions(); len(defs) != 1 || defs[0].Name != ToolCourseOutline {
		t.Errorf("filtered definitions = %+v", defs)
	}
}
