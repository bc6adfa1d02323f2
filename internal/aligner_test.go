package internal

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestAlign(t *testing.T) {
	prog := CreateTestCourse("prog1", time.Hour, []string{"G1"}, "intro", "loops")
	db := CreateTestCourse("db", 2*time.Hour, []string{"G2"}, "sql", "joins", "indexes")
	catalog, err := NewCatalog(prog, db)
	if err != nil {
		t.Fatalf("NewCatalog() error = %v", err)
	}

	schedule := NewSchedule()
	schedule.Set("prog1", []time.Time{
		CreateTestTime("2024-02-12 08:30"),
		CreateTestTime("2024-02-19 08:30"),
		CreateTestTime("2024-02-26 08:30"),
	})
	schedule.Set("db", []time.Time{
		CreateTestTime("2024-02-13 13:00"),
	})

	recorder := NewDiagnosticsRecorder(nil)
	records := Align(schedule, catalog, recorder)

	want := []SessionRecord{
		{Moment: CreateTestTime("2024-02-12 08:30"), End: CreateTestTime("2024-02-12 09:30"), Course: "prog1", Content: Leaf{Text: "intro"}},
		{Moment: CreateTestTime("2024-02-19 08:30"), End: CreateTestTime("2024-02-19 09:30"), Course: "prog1", Content: Leaf{Text: "loops"}},
		{Moment: CreateTestTime("2024-02-26 08:30"), End: CreateTestTime("2024-02-26 09:30"), Course: "prog1", Content: Leaf{Text: MissingContentText}, Missing: true},
		{Moment: CreateTestTime("2024-02-13 13:00"), End: CreateTestTime("2024-02-13 15:00"), Course: "db", Content: Leaf{Text: "sql"}},
	}
	if diff := cmp.Diff(want, records); diff != "" {
		t.Errorf("Align() mismatch (-want +got):\n%s", diff)
	}

	wantEvents := []Diagnostic{
		{Kind: KindContentShortfall, Course: "prog1", Moment: CreateTestTime("2024-02-26 08:30")},
		{Kind: KindContentSurplus, Course: "db", Sessions: 1, Contents: 3},
	}
	if diff := cmp.Diff(wantEvents, recorder.Events()); diff != "" {
		t.Errorf("diagnostics mismatch (-want +got):\n%s", diff)
	}
}

func TestAlignRecordCount(t *testing.T) {
	tests := []struct {
		name        string
		sessions    int
		contents    []string
		wantMissing int
		wantSurplus bool
	}{
		{name: "equal", sessions: 2, contents: []string{"a", "b"}},
		{name: "more sessions", sessions: 3, contents: []string{"a"}, wantMissing: 2},
		{name: "more contents", sessions: 1, contents: []string{"a", "b"}, wantSurplus: true},
		{name: "no sessions", sessions: 0, contents: []string{"a"}, wantSurplus: true},
		{name: "no contents", sessions: 2, wantMissing: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			course := CreateTestCourse("c", time.Hour, []string{"G1"}, tt.contents...)
			catalog, _ := NewCatalog(course)
			starts := make([]time.Time, tt.sessions)
			for i := range starts {
				starts[i] = CreateTestTime("2024-02-12 08:30").AddDate(0, 0, 7*i)
			}
			schedule := NewSchedule()
			schedule.Set("c", starts)

			recorder := NewDiagnosticsRecorder(nil)
			records := Align(schedule, catalog, recorder)

			if len(records) != tt.sessions {
				t.Errorf("Align() returned %d records, want %d", len(records), tt.sessions)
			}
			missing, surplus := 0, false
			for _, d := range recorder.Events() {
				switch d.Kind {
				case KindContentShortfall:
					missing++
				case KindContentSurplus:
					surplus = true
				}
			}
			if missing != tt.wantMissing {
				t.Errorf("shortfalls = %d, want %d", missing, tt.wantMissing)
			}
			if surplus != tt.wantSurplus {
				t.Errorf("surplus = %v, want %v", surplus, tt.wantSurplus)
			}
		})
	}
}

func TestAlignSkipsUnknownCourse(t *testing.T) {
	catalog, _ := NewCatalog()
	schedule := NewSchedule()
	schedule.Set("ghost", []time.Time{CreateTestTime("2024-02-12 08:30")})

	if records := Align(schedule, catalog, NewDiagnosticsRecorder(nil)); len(records) != 0 {
		t.Errorf("Align() returned %d records for an unknown course, want 0", len(records))
	}
}

func TestScheduleOrder(t *testing.T) {
	s := NewSchedule()
	s.Set("b", nil)
	s.Set("a", nil)
	s.Set("b", []time.Time{CreateTestTime("2024-02-12 08:30")})

	if diff := cmp.Diff([]string{"b", "a"}, s.Slugs()); diff != "" {
		t.Errorf("Slugs() mismatch (-want +got):\n%s", diff)
	}
	if len(s.Sessions("b")) != 1 {
		t.Errorf("Sessions(b) = %v, want one session", s.Sessions("b"))
	}
}
