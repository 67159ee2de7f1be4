package catalog

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/rhuss/coursebot/pkg/debug"
	"github.com/rhuss/coursebot/pkg/provider"
	"github.com/rhuss/coursebot/pkg/tools"
)

// Tools returns the catalog lookups as in-process tools, with the same
// names, schemas and answers as the MCP server.
func Tools(c *Catalog) []tools.Tool {
	courseName := provider.PropertySchema{Type: "string", Description: descCourseName}

	return []tools.Tool{
		tools.Func{
			Def: provider.ToolDefinition{
				Name:        ToolListCourses,
				Description: descListCourses,
				InputSchema: provider.InputSchema{Type: "object"},
			},
			Fn: func(context.Context, map[string]any) (string, error) {
				return c.listing(), nil
			},
		},
		tools.Func{
			Def: provider.ToolDefinition{
				Name:        ToolCourseOutline,
				Description: descCourseOutline,
				InputSchema: provider.InputSchema{
					Type:       "object",
					Properties: map[string]provider.PropertySchema{"course_name": courseName},
					Required:   []string{"course_name"},
				},
			},
			Fn: func(_ context.Context, params map[string]any) (string, error) {
				name, err := stringParam(params, "course_name")
				if err != nil {
					return "", err
				}
				return c.outline(name), nil
			},
		},
		tools.Func{
			Def: provider.ToolDefinition{
				Name:        ToolLessonLink,
				Description: descLessonLink,
				InputSchema: provider.InputSchema{
					Type: "object",
					Properties: map[string]provider.PropertySchema{
						"course_name":   courseName,
						"lesson_number": {Type: "integer", Description: descLessonNumber},
					},
					Required: []string{"course_name", "lesson_number"},
				},
			},
			Fn: func(_ context.Context, params map[string]any) (string, error) {
				name, err := stringParam(params, "course_name")
				if err != nil {
					return "", err
				}
				n, err := intParam(params, "lesson_number")
				if err != nil {
					return "", err
				}
				return c.lessonLink(name, n), nil
			},
		},
	}
}

// NewRegistry returns a tools.Registry holding the catalog tools.
func NewRegistry(c *Catalog) (*tools.Registry, error) {
	return tools.NewRegistry(Tools(c)...)
}

func (c *Catalog) listing() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d courses:", len(c.courses))
	for _, course := range c.courses {
		fmt.Fprintf(&b, "\n- %s", course.Title)
	}
	return b.String()
}

// outline and lessonLink report unknown courses and lessons as text so
// the model can recover; they are not tool errors.
func (c *Catalog) outline(name string) string {
	debug.Log("tools", "course outline requested", "course_name", name)
	course, err := c.Resolve(name)
	if err != nil {
		return notFound(err, name)
	}
	return course.Outline()
}

func (c *Catalog) lessonLink(name string, n int) string {
	course, err := c.Resolve(name)
	if err != nil {
		return notFound(err, name)
	}
	l, ok := course.Lesson(n)
	if !ok {
		return fmt.Sprintf("%s has no lesson %d", course.Title, n)
	}
	return fmt.Sprintf("%s, Lesson %d: %s\n%s", course.Title, l.Number, l.Title, l.Link)
}

func notFound(err error, name string) string {
	if errors.Is(err, ErrCourseNotFound) {
		return fmt.Sprintf("No course found matching '%s'", name)
	}
	return err.Error()
}

func stringParam(params map[string]any, key string) (string, error) {
	v, ok := params[key]
	if !ok {
		return "", fmt.Errorf("missing parameter %q", key)
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("parameter %q must be a string, got %T", key, v)
	}
	return s, nil
}

// intParam accepts the numeric shapes decoded JSON and vendor SDKs produce.
func intParam(params map[string]any, key string) (int, error) {
	v, ok := params[key]
	if !ok {
		return 0, fmt.Errorf("missing parameter %q", key)
	}
	switch n := v.(type) {
	case int:
		return n, nil
	case int64:
		return int(n), nil
	case float64:
		if n != math.Trunc(n) {
			return 0, fmt.Errorf("parameter %q must be an integer, got %v", key, n)
		}
		return int(n), nil
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(n))
		if err != nil {
			return 0, fmt.Errorf("parameter %q must be an integer: %w", key, err)
		}
		return i, nil
	}
	return 0, fmt.Errorf("parameter %q must be an integer, got %T", key, v)
}
