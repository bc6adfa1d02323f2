package internal

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// testLayout is the layout accepted by CreateTestTime
const testLayout = "2006-01-02 15:04"

// CreateTestTime parses "2006-01-02 15:04" in UTC and panics on bad input
func CreateTestTime(value string) time.Time {
	t, err := time.Parse(testLayout, value)
	if err != nil {
		panic(fmt.Sprintf("bad test time %q: %v", value, err))
	}
	return t
}

// CreateTestPeriod creates a period between two "2006-01-02 15:04" times
func CreateTestPeriod(start, end string, groups ...string) Period {
	return Period{
		Start:  CreateTestTime(start),
		End:    CreateTestTime(end),
		Groups: NewGroupSet(groups...),
	}
}

// CreateTestCourse creates a course for subject 1 running through spring 2024
func CreateTestCourse(slug string, duration time.Duration, groups []string, contents ...string) *Course {
	return &Course{
		Slug:      slug,
		SubjectID: 1,
		From:      CreateTestTime("2024-02-12 00:00"),
		To:        CreateTestTime("2024-06-30 00:00"),
		Groups:    NewGroupSet(groups...),
		Duration:  duration,
		Contents:  NewGrouping(contents...),
	}
}

// CreateTestRecord creates an aligned session record with leaf content
func CreateTestRecord(course, moment, content string) SessionRecord {
	start := CreateTestTime(moment)
	return SessionRecord{
		Moment:  start,
		End:     start.Add(time.Hour),
		Course:  course,
		Content: Leaf{Text: content},
	}
}

// FakeProvider is an in-memory TimetableProvider
type FakeProvider struct {
	SubjectList []Subject
	Periods     map[int][]Period
	Err         error

	mu    sync.Mutex
	calls map[string]int
}

func (f *FakeProvider) record(method string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.calls == nil {
		f.calls = make(map[string]int)
	}
	f.calls[method]++
}

// Calls returns how often method was called
func (f *FakeProvider) Calls(method string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[method]
}

func (f *FakeProvider) Subjects(ctx context.Context) ([]Subject, error) {
	f.record("Subjects")
	if f.Err != nil {
		return nil, f.Err
	}
	return f.SubjectList, nil
}

func (f *FakeProvider) Timetable(ctx context.Context, subject Subject, from, to time.Time) ([]Period, error) {
	f.record("Timetable")
	if f.Err != nil {
		return nil, f.Err
	}
	return f.Periods[subject.ID], nil
}
