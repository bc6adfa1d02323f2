package internal

import "time"

// Match returns the start of every period that confirms a session of the course: the
// period's groups equal the course groups and its duration equals the course duration.
// Periods are expected to be bounded to the semester by the provider already.
func Match(course *Course, periods []Period) []time.Time {
	var starts []time.Time
	for _, p := range periods {
		if !p.Groups.Equal(course.Groups) {
			continue
		}
		if p.Duration() != course.Duration {
			continue
		}
		starts = append(starts, p.Start)
	}
	return starts
}
