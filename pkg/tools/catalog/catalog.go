// Package catalog holds course metadata and serves it to the tool loop,
// either in-process through a tools.Registry or as MCP tools.
//
// A Catalog resolves loosely typed course names the way students write
// them: an exact title first, then a title containing the name (or the
// reverse), then the title sharing the most words with the name.
package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed sample.yaml
var sampleYAML []byte

// ErrCourseNotFound is returned by Resolve when no title matches.
var ErrCourseNotFound = errors.New("course not found")

// Course is one course and its lessons.
type Course struct {
	Title      string   `yaml:"title"`
	Link       string   `yaml:"link"`
	Instructor string   `yaml:"instructor"`
	Lessons    []Lesson `yaml:"lessons"`
}

// Lesson is a numbered lesson of a course.
type Lesson struct {
	Number int    `yaml:"number"`
	Title  string `yaml:"title"`
	Link   string `yaml:"link"`
}

// Catalog is an immutable, ordered set of courses.
type Catalog struct {
	courses []Course
}

type file struct {
	Courses []Course `yaml:"courses"`
}

// New validates courses and builds a Catalog. Titles must be non-empty and
// unique ignoring case.
func New(courses []Course) (*Catalog, error) {
	seen := make(map[string]bool, len(courses))
	for i, c := range courses {
		key := normalize(c.Title)
		if key == "" {
			return nil, fmt.Errorf("courses[%d]: title is required", i)
		}
		if seen[key] {
			return nil, fmt.Errorf("courses[%d]: duplicate title %q", i, c.Title)
		}
		seen[key] = true
	}
	return &Catalog{courses: courses}, nil
}

// Parse reads a catalog from YAML.
func Parse(data []byte) (*Catalog, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing catalog: %w", err)
	}
	return New(f.Courses)
}

// Load reads a catalog file. An empty path loads the built-in sample
// catalog.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Sample(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Sample returns the built-in sample catalog.
func Sample() *Catalog {
	c, err := Parse(sampleYAML)
	if err != nil {
		panic(err)
	}
	return c
}

// Courses returns the courses in catalog order.
func (c *Catalog) Courses() []Course {
	return append([]Course(nil), c.courses...)
}

// Resolve finds the course a name refers to.
func (c *Catalog) Resolve(name string) (Course, error) {
	want := normalize(name)
	if want == "" {
		return Course{}, fmt.Errorf("%w: empty name", ErrCourseNotFound)
	}

	for _, course := range c.courses {
		if normalize(course.Title) == want {
			return course, nil
		}
	}
	for _, course := range c.courses {
		title := normalize(course.Title)
		if strings.Contains(title, want) || strings.Contains(want, title) {
			return course, nil
		}
	}

	best, bestHits := -1, 0
	words := significantWords(want)
	for i, course := range c.courses {
		titleWords := significantWords(normalize(course.Title))
		hits := 0
		for w := range words {
			if titleWords[w] {
				hits++
			}
		}
		if hits > bestHits {
			best, bestHits = i, hits
		}
	}
	if best < 0 {
		return Course{}, fmt.Errorf("%w: no course found matching %q", ErrCourseNotFound, name)
	}
	return c.courses[best], nil
}

// Lesson returns lesson n of course.
func (course Course) Lesson(n int) (Lesson, bool) {
	for _, l := range course.Lessons {
		if l.Number == n {
			return l, true
		}
	}
	return Lesson{}, false
}

// Outline renders the course title, link, instructor and lesson list.
func (course Course) Outline() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Course Title: %s\n", course.Title)
	if course.Link != "" {
		fmt.Fprintf(&b, "Course Link: %s\n", course.Link)
	}
	if course.Instructor != "" {
		fmt.Fprintf(&b, "Instructor: %s\n", course.Instructor)
	}
	fmt.Fprintf(&b, "Lessons (%d total):", len(course.Lessons))
	for _, l := range course.Lessons {
		fmt.Fprintf(&b, "\nLesson %d: %s", l.Number, l.Title)
	}
	return b.String()
}

func normalize(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

// significantWords drops words shorter than three letters so that "to"
// and "of" do not match every title.
func significantWords(s string) map[string]bool {
	out := make(map[string]bool)
	for _, w := range strings.Fields(s) {
		w = strings.Trim(w, ".,:;!?\"'()")
		if len(w) >= 3 {
			out[w] = true
		}
	}
	return out
}
