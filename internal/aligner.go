package internal

import "time"

// MissingContentText is the content shown for a session without a content entry
const MissingContentText = "no content recorded for this session"

// MomentLayout is how session start times are printed
const MomentLayout = "2006-01-02 15:04:05"

// Schedule maps course slugs to their confirmed session starts, keeping insertion order
type Schedule struct {
	slugs    []string
	sessions map[string][]time.Time
}

// NewSchedule creates an empty schedule
func NewSchedule() *Schedule {
	return &Schedule{sessions: make(map[string][]time.Time)}
}

// Set stores the sessions of a course
func (s *Schedule) Set(slug string, starts []time.Time) {
	if _, exists := s.sessions[slug]; !exists {
		s.slugs = append(s.slugs, slug)
	}
	s.sessions[slug] = starts
}

// Sessions returns the session starts of a course
func (s *Schedule) Sessions(slug string) []time.Time {
	return s.sessions[slug]
}

// Slugs returns the course slugs in insertion order
func (s *Schedule) Slugs() []string {
	return append([]string(nil), s.slugs...)
}

// SessionRecord pairs a confirmed session with its planned content
type SessionRecord struct {
	Moment  time.Time
	End     time.Time
	Course  string
	Content ContentNode
	Missing bool
}

// Align pairs the n-th session of every course with the n-th top-level content entry of
// that course. Sessions beyond the content list get placeholder content.
func Align(schedule *Schedule, catalog *Catalog, diag Diagnostics) []SessionRecord {
	var records []SessionRecord

	for _, slug := range schedule.Slugs() {
		course, ok := catalog.Get(slug)
		if !ok {
			LogDebug("Skipping schedule for unknown course %s", slug)
			continue
		}
		sessions := schedule.Sessions(slug)
		contents := course.Contents.Children

		for i, moment := range sessions {
			record := SessionRecord{
				Moment: moment,
				End:    moment.Add(course.Duration),
				Course: slug,
			}
			if i < len(contents) {
				record.Content = contents[i]
			} else {
				record.Content = Leaf{Text: MissingContentText}
				record.Missing = true
				diag.ContentShortfall(slug, moment)
			}
			records = append(records, record)
		}

		if len(sessions) < len(contents) {
			diag.ContentSurplus(slug, len(sessions), len(contents))
		}
	}

	return records
}
