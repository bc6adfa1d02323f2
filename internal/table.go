package internal

import (
	"fmt"
	"sort"
)

// Order selects the row order of a rendered table
type Order int

const (
	// OrderChronological sorts all sessions by start time
	OrderChronological Order = iota
	// OrderByCourse keeps the sessions of each course together, in course file order
	OrderByCourse
)

// ParseOrder parses "chronological" or "course"
func ParseOrder(s string) (Order, error) {
	switch s {
	case "", "chronological":
		return OrderChronological, nil
	case "course", "by-course":
		return OrderByCourse, nil
	default:
		return OrderChronological, fmt.Errorf("unknown order: %s (supported: chronological, course)", s)
	}
}

// Row is a session record with its per-course session number
type Row struct {
	SessionRecord
	Number int
}

// Table is the ordered set of rows handed to an exporter
type Table struct {
	Rows    []Row
	courses []string
}

// NewTable orders the records and numbers the sessions of each course from 1
func NewTable(records []SessionRecord, order Order) *Table {
	ordered := append([]SessionRecord(nil), records...)
	if order == OrderChronological {
		sort.SliceStable(ordered, func(i, j int) bool {
			return ordered[i].Moment.Before(ordered[j].Moment)
		})
	}

	t := &Table{Rows: make([]Row, 0, len(ordered))}
	counters := make(map[string]int)
	for _, record := range ordered {
		if _, seen := counters[record.Course]; !seen {
			t.courses = append(t.courses, record.Course)
		}
		counters[record.Course]++
		t.Rows = append(t.Rows, Row{SessionRecord: record, Number: counters[record.Course]})
	}
	return t
}

// Courses returns the course slugs in the order they first appear
func (t *Table) Courses() []string {
	return append([]string(nil), t.courses...)
}
