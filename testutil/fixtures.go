package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// SampleCourseFile is a course file with two courses, the second one planning more
// contents than it will get sessions in most fixtures
const SampleCourseFile = `courses:
  prog1:
    subject: 101
    from: 2024-02-12
    to: 2024-06-30
    groups: [1ITa, 1ITb]
    hours: 2
    contents:
      - Introduction
      - [Variables, Types]
      - Loops: [for, while]
  db:
    subject: 102
    from: 2024-02-12
    to: 2024-06-30
    groups: [2ITa]
    duration: 1h30m
    contents:
      - SQL basics
      - Joins
      - Indexes
`

// WriteCourseFile writes content as courses.yaml in a temp dir and returns its path
func WriteCourseFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "courses.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write course file: %v", err)
	}
	return path
}
