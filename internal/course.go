package internal

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const dateLayout = "2006-01-02"

// Course is one configured course: when it runs, for which groups, how long a session
// lasts and what is taught in each session
type Course struct {
	Slug      string
	SubjectID int
	From      time.Time
	To        time.Time
	Groups    GroupSet
	Duration  time.Duration
	Contents  Grouping
}

// courseEntry mirrors one course in the course file
type courseEntry struct {
	Subject  int      `yaml:"subject"`
	From     string   `yaml:"from"`
	To       string   `yaml:"to"`
	Groups   []string `yaml:"groups"`
	Hours    float64  `yaml:"hours"`
	Duration string   `yaml:"duration"`
	Contents Grouping `yaml:"contents"`
}

type courseFile struct {
	Courses yaml.Node `yaml:"courses"`
}

// Catalog holds the configured courses in file order
type Catalog struct {
	slugs   []string
	courses map[string]*Course
}

// NewCatalog creates a catalog from courses, keeping their order
func NewCatalog(courses ...*Course) (*Catalog, error) {
	c := &Catalog{courses: make(map[string]*Course, len(courses))}
	for _, course := range courses {
		if err := c.Add(course); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Add appends a course; slugs must be unique
func (c *Catalog) Add(course *Course) error {
	if _, exists := c.courses[course.Slug]; exists {
		return &CourseFileError{Course: course.Slug, Err: fmt.Errorf("duplicate course")}
	}
	c.slugs = append(c.slugs, course.Slug)
	c.courses[course.Slug] = course
	return nil
}

// Slugs returns the course slugs in file order
func (c *Catalog) Slugs() []string {
	return append([]string(nil), c.slugs...)
}

// Get returns the course with the given slug
func (c *Catalog) Get(slug string) (*Course, bool) {
	course, ok := c.courses[slug]
	return course, ok
}

// Len returns the number of courses
func (c *Catalog) Len() int {
	return len(c.slugs)
}

// LoadCatalog reads a course file from disk
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &CourseFileError{Path: path, Err: err}
	}
	catalog, err := ParseCatalog(bytes.NewReader(data))
	if err != nil {
		if cfe, ok := err.(*CourseFileError); ok {
			cfe.Path = path
			return nil, cfe
		}
		return nil, &CourseFileError{Path: path, Err: err}
	}
	return catalog, nil
}

// ParseCatalog decodes a course file
func ParseCatalog(r io.Reader) (*Catalog, error) {
	var file courseFile
	if err := yaml.NewDecoder(r).Decode(&file); err != nil {
		if err == io.EOF {
			return nil, &CourseFileError{Err: fmt.Errorf("empty course file")}
		}
		return nil, &CourseFileError{Err: err}
	}
	if file.Courses.Kind != yaml.MappingNode {
		return nil, &CourseFileError{Err: fmt.Errorf("missing courses mapping")}
	}

	catalog := &Catalog{courses: make(map[string]*Course)}
	for i := 0; i+1 < len(file.Courses.Content); i += 2 {
		slug := file.Courses.Content[i].Value

		var entry courseEntry
		if err := file.Courses.Content[i+1].Decode(&entry); err != nil {
			return nil, &CourseFileError{Course: slug, Err: err}
		}
		course, err := entry.toCourse(slug)
		if err != nil {
			return nil, &CourseFileError{Course: slug, Err: err}
		}
		if err := catalog.Add(course); err != nil {
			return nil, err
		}
	}

	return catalog, nil
}

func (e *courseEntry) toCourse(slug string) (*Course, error) {
	if e.Subject <= 0 {
		return nil, fmt.Errorf("missing subject id")
	}
	from, err := time.Parse(dateLayout, e.From)
	if err != nil {
		return nil, fmt.Errorf("invalid from date %q: %w", e.From, err)
	}
	to, err := time.Parse(dateLayout, e.To)
	if err != nil {
		return nil, fmt.Errorf("invalid to date %q: %w", e.To, err)
	}
	if to.Before(from) {
		return nil, fmt.Errorf("to date %s is before from date %s", e.To, e.From)
	}
	groups := NewGroupSet(e.Groups...)
	if groups.Len() == 0 {
		return nil, fmt.Errorf("no groups configured")
	}
	duration, err := e.duration()
	if err != nil {
		return nil, err
	}

	return &Course{
		Slug:      slug,
		SubjectID: e.Subject,
		From:      from,
		To:        to,
		Groups:    groups,
		Duration:  duration,
		Contents:  e.Contents,
	}, nil
}

func (e *courseEntry) duration() (time.Duration, error) {
	var d time.Duration
	if e.Duration != "" {
		parsed, err := time.ParseDuration(e.Duration)
		if err != nil {
			return 0, fmt.Errorf("invalid duration %q: %w", e.Duration, err)
		}
		d = parsed
	} else {
		d = time.Duration(e.Hours * float64(time.Hour))
	}
	if d <= 0 {
		return 0, fmt.Errorf("session duration must be positive, got %s", d)
	}
	return d, nil
}
