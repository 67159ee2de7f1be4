package catalog

import (
	"context"
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Tool names served by NewServer.
const (
	ToolListCourses   = "list_courses"
	ToolCourseOutline = "get_course_outline"
	ToolLessonLink    = "get_lesson_link"
)

const (
	descListCourses   = "List the titles of all available courses"
	descCourseOutline = "Get the outline of a course: title, link, instructor and the numbered lesson list"
	descLessonLink    = "Get the title and link of one lesson of a course"
	descCourseName    = "Course title or part of it"
	descLessonNumber  = "Lesson number within the course"
)

type outlineInput struct {
	CourseName string `json:"course_name" jsonschema:"Course title or part of it"`
}

type lessonInput struct {
	CourseName   string `json:"course_name" jsonschema:"Course title or part of it"`
	LessonNumber int    `json:"lesson_number" jsonschema:"Lesson number within the course"`
}

// NewServer returns an MCP server exposing the catalog tools.
func NewServer(c *Catalog, version string) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{Name: "coursebot-catalog", Version: version}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        ToolListCourses,
		Description: descListCourses,
	}, func(_ context.Context, _ *mcp.CallToolRequest, _ struct{}) (*mcp.CallToolResult, struct{}, error) {
		return textResult(c.listing()), struct{}{}, nil
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        ToolCourseOutline,
		Description: descCourseOutline,
	}, func(_ context.Context, _ *mcp.CallToolRequest, in outlineInput) (*mcp.CallToolResult, struct{}, error) {
		return textResult(c.outline(in.CourseName)), struct{}{}, nil
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        ToolLessonLink,
		Description: descLessonLink,
	}, func(_ context.Context, _ *mcp.CallToolRequest, in lessonInput) (*mcp.CallToolResult, struct{}, error) {
		return textResult(c.lessonLink(in.CourseName, in.LessonNumber)), struct{}{}, nil
	})

	return server
}

// Handler serves the catalog over streamable HTTP at /mcp with a
// /healthz probe.
func Handler(c *Catalog, version string) http.Handler {
	server := NewServer(c, version)
	mux := http.NewServeMux()
	mux.Handle("/mcp", mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return server
	}, nil))
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("ok\n"))
	})
	return mux
}

func textResult(s string) *mcp.CallToolResult {
	return &mcp.CallToolResult{Content: []mcp.Content{&mcp.TextContent{Text: s}}}
}

