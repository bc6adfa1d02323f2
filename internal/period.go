package internal

import (
	"sort"
	"strings"
	"time"
)

// GroupSet is a deduplicated, sorted set of class group names
type GroupSet []string

// NewGroupSet builds a GroupSet from names in any order, dropping duplicates and blanks
func NewGroupSet(names ...string) GroupSet {
	seen := make(map[string]bool, len(names))
	set := make(GroupSet, 0, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		set = append(set, name)
	}
	sort.Strings(set)
	return set
}

// Equal reports whether both sets hold exactly the same groups
func (g GroupSet) Equal(other GroupSet) bool {
	if len(g) != len(other) {
		return false
	}
	for i := range g {
		if g[i] != other[i] {
			return false
		}
	}
	return true
}

// Key returns the sort key of the set: the group names joined by "+"
func (g GroupSet) Key() string {
	return strings.Join(g, "+")
}

// Len returns the number of groups in the set
func (g GroupSet) Len() int {
	return len(g)
}

// Period is a contiguous block of scheduled time tied to one or more class groups
type Period struct {
	Start  time.Time `json:"start" yaml:"start"`
	End    time.Time `json:"end" yaml:"end"`
	Groups GroupSet  `json:"groups" yaml:"groups"`
}

// Duration returns the length of the period
func (p Period) Duration() time.Duration {
	return p.End.Sub(p.Start)
}

// Subject is a timetable subject as known by the timetable provider
type Subject struct {
	ID       int    `json:"id" yaml:"id"`
	Name     string `json:"name" yaml:"name"`
	LongName string `json:"long_name,omitempty" yaml:"long_name,omitempty"`
}
