package internal

import (
	"fmt"
	"sync"
	"time"
)

// Diagnostics receives the data-shape mismatches found while aligning content
type Diagnostics interface {
	// ContentShortfall is reported for each session that has no content entry
	ContentShortfall(course string, moment time.Time)
	// ContentSurplus is reported once per course with fewer sessions than content entries
	ContentSurplus(course string, sessions, contents int)
}

// LogDiagnostics writes diagnostics to the warning log
type LogDiagnostics struct{}

func (LogDiagnostics) ContentShortfall(course string, moment time.Time) {
	LogWarn("no content recorded for %s on %s", course, moment.Format(MomentLayout))
}

func (LogDiagnostics) ContentSurplus(course string, sessions, contents int) {
	LogWarn("fewer sessions than content entries for %s (%d sessions, %d entries)", course, sessions, contents)
}

// DiagnosticKind identifies a recorded diagnostic
type DiagnosticKind string

const (
	KindContentShortfall DiagnosticKind = "shortfall"
	KindContentSurplus   DiagnosticKind = "surplus"
)

// Diagnostic is one recorded event
type Diagnostic struct {
	Kind     DiagnosticKind
	Course   string
	Moment   time.Time
	Sessions int
	Contents int
}

func (d Diagnostic) String() string {
	if d.Kind == KindContentShortfall {
		return fmt.Sprintf("%s: no content for session on %s", d.Course, d.Moment.Format(MomentLayout))
	}
	return fmt.Sprintf("%s: %d sessions for %d content entries", d.Course, d.Sessions, d.Contents)
}

// DiagnosticsRecorder keeps diagnostics in memory and optionally forwards them
type DiagnosticsRecorder struct {
	mu     sync.Mutex
	events []Diagnostic
	next   Diagnostics
}

// NewDiagnosticsRecorder creates a recorder forwarding to next (which may be nil)
func NewDiagnosticsRecorder(next Diagnostics) *DiagnosticsRecorder {
	return &DiagnosticsRecorder{next: next}
}

func (r *DiagnosticsRecorder) ContentShortfall(course string, moment time.Time) {
	r.mu.Lock()
	r.events = append(r.events, Diagnostic{Kind: KindContentShortfall, Course: course, Moment: moment})
	r.mu.Unlock()
	if r.next != nil {
		r.next.ContentShortfall(course, moment)
	}
}

func (r *DiagnosticsRecorder) ContentSurplus(course string, sessions, contents int) {
	r.mu.Lock()
	r.events = append(r.events, Diagnostic{Kind: KindContentSurplus, Course: course, Sessions: sessions, Contents: contents})
	r.mu.Unlock()
	if r.next != nil {
		r.next.ContentSurplus(course, sessions, contents)
	}
}

// Events returns a copy of the recorded diagnostics
func (r *DiagnosticsRecorder) Events() []Diagnostic {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Diagnostic(nil), r.events...)
}

// ForCourse returns the recorded diagnostics of one course
func (r *DiagnosticsRecorder) ForCourse(course string) []Diagnostic {
	var out []Diagnostic
	for _, d := range r.Events() {
		if d.Course == course {
			out = append(out, d)
		}
	}
	return out
}
