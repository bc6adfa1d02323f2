package internal

import "fmt"

// CourseFileError represents errors reading or validating the course file
type CourseFileError struct {
	Path   string
	Course string // empty when the error concerns the whole file
	Err    error
}

func (e *CourseFileError) Error() string {
	switch {
	case e.Course != "" && e.Path != "":
		return fmt.Sprintf("course file error: %s [%s]: %v", e.Path, e.Course, e.Err)
	case e.Course != "":
		return fmt.Sprintf("course file error [%s]: %v", e.Course, e.Err)
	case e.Path != "":
		return fmt.Sprintf("course file error: %s: %v", e.Path, e.Err)
	default:
		return fmt.Sprintf("course file error: %v", e.Err)
	}
}

func (e *CourseFileError) Unwrap() error {
	return e.Err
}

// AmbiguousSubjectError is returned when a configured subject id does not resolve to
// exactly one timetable subject
type AmbiguousSubjectError struct {
	Course    string
	SubjectID int
	Matches   int
}

func (e *AmbiguousSubjectError) Error() string {
	return fmt.Sprintf("course %s: subject %d matched %d subjects, want exactly 1", e.Course, e.SubjectID, e.Matches)
}

// ProviderError represents errors fetching data from the timetable provider
type ProviderError struct {
	Course string
	Op     string // "subjects", "timetable"
	Err    error
}

func (e *ProviderError) Error() string {
	if e.Course == "" {
		return fmt.Sprintf("provider error: %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("provider error [%s] %s: %v", e.Course, e.Op, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// SnapshotMissError is returned in offline mode when no snapshot covers a request
type SnapshotMissError struct {
	What string
}

func (e *SnapshotMissError) Error() string {
	return fmt.Sprintf("no snapshot for %s (run once without --offline)", e.What)
}
