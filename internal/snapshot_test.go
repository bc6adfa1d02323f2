package internal

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/lesplan/untis-tabulator/testutil"
)

func newTestStore(t *testing.T) *SnapshotStore {
	t.Helper()
	store, err := NewSnapshotStore(testutil.CreateInMemoryDB(t))
	if err != nil {
		t.Fatalf("NewSnapshotStore() error = %v", err)
	}
	return store
}

func TestSnapshotStoreSubjects(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	if _, _, ok, err := store.LoadSubjects(ctx); err != nil || ok {
		t.Fatalf("LoadSubjects() on empty store = ok %v, err %v", ok, err)
	}

	fetchedAt := time.Unix(1707724800, 0)
	subjects := []Subject{{ID: 2, Name: "DB", LongName: "Databases"}, {ID: 1, Name: "PROG"}}
	if err := store.SaveSubjects(ctx, subjects, fetchedAt); err != nil {
		t.Fatalf("SaveSubjects() error = %v", err)
	}

	got, gotAt, ok, err := store.LoadSubjects(ctx)
	if err != nil || !ok {
		t.Fatalf("LoadSubjects() = ok %v, err %v", ok, err)
	}
	want := []Subject{{ID: 1, Name: "PROG"}, {ID: 2, Name: "DB", LongName: "Databases"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("LoadSubjects() mismatch (-want +got):\n%s", diff)
	}
	if !gotAt.Equal(fetchedAt) {
		t.Errorf("fetchedAt = %v, want %v", gotAt, fetchedAt)
	}
}

func TestSnapshotStoreTimetable(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	from, to := CreateTestTime("2024-02-12 00:00"), CreateTestTime("2024-06-30 00:00")

	periods := []Period{
		CreateTestPeriod("2024-02-19 08:30", "2024-02-19 09:30", "G2", "G1"),
		CreateTestPeriod("2024-02-12 08:30", "2024-02-12 09:30", "G1"),
	}
	if err := store.SaveTimetable(ctx, 1, from, to, periods, time.Now()); err != nil {
		t.Fatalf("SaveTimetable() error = %v", err)
	}
	// saving again replaces the snapshot
	if err := store.SaveTimetable(ctx, 1, from, to, periods, time.Now()); err != nil {
		t.Fatalf("SaveTimetable() second time error = %v", err)
	}

	got, _, ok, err := store.LoadTimetable(ctx, 1, from, to)
	if err != nil || !ok {
		t.Fatalf("LoadTimetable() = ok %v, err %v", ok, err)
	}
	if diff := cmp.Diff(periods, got); diff != "" {
		t.Errorf("LoadTimetable() mismatch (-want +got):\n%s", diff)
	}

	if _, _, ok, _ := store.LoadTimetable(ctx, 1, from, CreateTestTime("2024-05-31 00:00")); ok {
		t.Error("LoadTimetable() for another range should miss")
	}

	if err := store.Clear(ctx); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}
	if _, _, ok, _ := store.LoadTimetable(ctx, 1, from, to); ok {
		t.Error("LoadTimetable() after Clear() should miss")
	}
}

func TestSnapshotStoreEmptyTimetable(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	from, to := CreateTestTime("2024-02-12 00:00"), CreateTestTime("2024-06-30 00:00")

	if err := store.SaveTimetable(ctx, 3, from, to, nil, time.Now()); err != nil {
		t.Fatalf("SaveTimetable() error = %v", err)
	}
	got, _, ok, err := store.LoadTimetable(ctx, 3, from, to)
	if err != nil || !ok {
		t.Fatalf("LoadTimetable() = ok %v, err %v, want a hit for an empty timetable", ok, err)
	}
	if len(got) != 0 {
		t.Errorf("LoadTimetable() = %v, want no periods", got)
	}
}

func TestCachingProvider(t *testing.T) {
	ctx := context.Background()
	subject := Subject{ID: 1, Name: "PROG"}
	from, to := CreateTestTime("2024-02-12 00:00"), CreateTestTime("2024-06-30 00:00")

	upstream := &FakeProvider{
		SubjectList: []Subject{subject},
		Periods: map[int][]Period{
			1: {CreateTestPeriod("2024-02-12 08:30", "2024-02-12 09:30", "G1")},
		},
	}
	store := newTestStore(t)
	now := CreateTestTime("2024-02-10 12:00")
	cp := NewCachingProvider(store, upstream, time.Hour)
	cp.now = func() time.Time { return now }

	for i := 0; i < 2; i++ {
		if _, err := cp.Subjects(ctx); err != nil {
			t.Fatalf("Subjects() error = %v", err)
		}
		if _, err := cp.Timetable(ctx, subject, from, to); err != nil {
			t.Fatalf("Timetable() error = %v", err)
		}
	}
	if got := upstream.Calls("Subjects"); got != 1 {
		t.Errorf("upstream Subjects called %d times, want 1", got)
	}
	if got := upstream.Calls("Timetable"); got != 1 {
		t.Errorf("upstream Timetable called %d times, want 1", got)
	}

	now = now.Add(2 * time.Hour)
	if _, err := cp.Timetable(ctx, subject, from, to); err != nil {
		t.Fatalf("Timetable() error = %v", err)
	}
	if got := upstream.Calls("Timetable"); got != 2 {
		t.Errorf("upstream Timetable called %d times after expiry, want 2", got)
	}
}

func TestCachingProviderOffline(t *testing.T) {
	ctx := context.Background()
	subject := Subject{ID: 1, Name: "PROG"}
	from, to := CreateTestTime("2024-02-12 00:00"), CreateTestTime("2024-06-30 00:00")
	store := newTestStore(t)
	offline := NewCachingProvider(store, nil, time.Hour)

	var miss *SnapshotMissError
	if _, err := offline.Subjects(ctx); !errors.As(err, &miss) {
		t.Errorf("Subjects() error = %v, want *SnapshotMissError", err)
	}
	if _, err := offline.Timetable(ctx, subject, from, to); !errors.As(err, &miss) {
		t.Errorf("Timetable() error = %v, want *SnapshotMissError", err)
	}

	// stale snapshots are still served offline
	periods := []Period{CreateTestPeriod("2024-02-12 08:30", "2024-02-12 09:30", "G1")}
	if err := store.SaveTimetable(ctx, 1, from, to, periods, time.Unix(0, 0)); err != nil {
		t.Fatalf("SaveTimetable() error = %v", err)
	}
	got, err := offline.Timetable(ctx, subject, from, to)
	if err != nil {
		t.Fatalf("Timetable() error = %v", err)
	}
	if len(got) != 1 {
		t.Errorf("Timetable() = %v, want the stored period", got)
	}
}

func TestCachingProviderCovers(t *testing.T) {
	ctx := context.Background()
	course := CreateTestCourse("prog1", time.Hour, []string{"G1"}, "a")
	catalog, err := NewCatalog(course)
	if err != nil {
		t.Fatalf("NewCatalog() error = %v", err)
	}

	store := newTestStore(t)
	now := CreateTestTime("2024-02-10 12:00")
	cp := NewCachingProvider(store, &FakeProvider{}, time.Hour)
	cp.now = func() time.Time { return now }

	if cp.Covers(ctx, catalog) {
		t.Error("Covers() = true on an empty store")
	}
	if err := store.SaveSubjects(ctx, []Subject{{ID: 1, Name: "PROG"}}, now); err != nil {
		t.Fatalf("SaveSubjects() error = %v", err)
	}
	if cp.Covers(ctx, catalog) {
		t.Error("Covers() = true without a timetable snapshot")
	}
	periods := []Period{CreateTestPeriod("2024-02-12 08:30", "2024-02-12 09:30", "G1")}
	if err := store.SaveTimetable(ctx, 1, course.From, course.To, periods, now); err != nil {
		t.Fatalf("SaveTimetable() error = %v", err)
	}
	if !cp.Covers(ctx, catalog) {
		t.Error("Covers() = false with fresh snapshots")
	}

	now = now.Add(2 * time.Hour)
	if cp.Covers(ctx, catalog) {
		t.Error("Covers() = true with expired snapshots")
	}
	if offline := NewCachingProvider(store, nil, time.Hour); !offline.Covers(ctx, catalog) {
		t.Error("Covers() = false offline with stored snapshots")
	}
}

func TestCachingProviderUpstreamError(t *testing.T) {
	upstreamErr := errors.New("unauthorized")
	cp := NewCachingProvider(newTestStore(t), &FakeProvider{Err: upstreamErr}, time.Hour)
	if _, err := cp.Subjects(context.Background()); !errors.Is(err, upstreamErr) {
		t.Errorf("Subjects() error = %v, want %v", err, upstreamErr)
	}
}

func TestOpenDatabase(t *testing.T) {
	path := filepath.Join(testutil.CreateTempDir(t), "nested", "snapshots.db")
	db, err := OpenDatabase(path)
	if err != nil {
		t.Fatalf("OpenDatabase() error = %v", err)
	}
	defer db.Close()

	store, err := NewSnapshotStore(db)
	if err != nil {
		t.Fatalf("NewSnapshotStore() error = %v", err)
	}
	if err := store.SaveSubjects(context.Background(), []Subject{{ID: 1, Name: "PROG"}}, time.Now()); err != nil {
		t.Errorf("SaveSubjects() error = %v", err)
	}
}
