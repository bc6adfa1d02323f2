package internal

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

// SnapshotStore keeps fetched subjects and timetables in SQLite
type SnapshotStore struct {
	db *sql.DB
}

// NewSnapshotStore creates a store on db, creating the schema if needed
func NewSnapshotStore(db *sql.DB) (*SnapshotStore, error) {
	if err := migrate(db); err != nil {
		return nil, err
	}
	return &SnapshotStore{db: db}, nil
}

// SaveSubjects replaces the stored subject list
func (s *SnapshotStore) SaveSubjects(ctx context.Context, subjects []Subject, fetchedAt time.Time) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin failed: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "DELETE FROM subjects"); err != nil {
		return fmt.Errorf("clear subjects failed: %w", err)
	}
	for _, subject := range subjects {
		_, err := tx.ExecContext(ctx,
			"INSERT OR REPLACE INTO subjects (id, name, long_name, fetched_at) VALUES (?, ?, ?, ?)",
			subject.ID, subject.Name, subject.LongName, fetchedAt.Unix())
		if err != nil {
			return fmt.Errorf("insert subject failed: %w", err)
		}
	}
	return tx.Commit()
}

// LoadSubjects returns the stored subjects and when they were fetched. ok is false when
// nothing is stored.
func (s *SnapshotStore) LoadSubjects(ctx context.Context) (subjects []Subject, fetchedAt time.Time, ok bool, err error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id, name, long_name, fetched_at FROM subjects ORDER BY id")
	if err != nil {
		return nil, time.Time{}, false, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	var oldest int64
	for rows.Next() {
		var subject Subject
		var longName sql.NullString
		var fetched int64
		if err := rows.Scan(&subject.ID, &subject.Name, &longName, &fetched); err != nil {
			return nil, time.Time{}, false, fmt.Errorf("scan failed: %w", err)
		}
		subject.LongName = longName.String
		if oldest == 0 || fetched < oldest {
			oldest = fetched
		}
		subjects = append(subjects, subject)
	}
	if err := rows.Err(); err != nil {
		return nil, time.Time{}, false, fmt.Errorf("rows iteration error: %w", err)
	}
	if len(subjects) == 0 {
		return nil, time.Time{}, false, nil
	}
	return subjects, time.Unix(oldest, 0), true, nil
}

// SaveTimetable replaces the stored periods of a subject for a date range
func (s *SnapshotStore) SaveTimetable(ctx context.Context, subjectID int, from, to time.Time, periods []Period, fetchedAt time.Time) error {
	rangeFrom, rangeTo := from.Format(dateLayout), to.Format(dateLayout)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin failed: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	key := []interface{}{subjectID, rangeFrom, rangeTo}
	if _, err := tx.ExecContext(ctx, "DELETE FROM periods WHERE subject_id = ? AND range_from = ? AND range_to = ?", key...); err != nil {
		return fmt.Errorf("clear periods failed: %w", err)
	}
	_, err = tx.ExecContext(ctx,
		"INSERT OR REPLACE INTO timetable_fetches (subject_id, range_from, range_to, fetched_at) VALUES (?, ?, ?, ?)",
		subjectID, rangeFrom, rangeTo, fetchedAt.Unix())
	if err != nil {
		return fmt.Errorf("insert fetch failed: %w", err)
	}

	for seq, p := range periods {
		groups, err := json.Marshal(p.Groups)
		if err != nil {
			return fmt.Errorf("failed to encode groups: %w", err)
		}
		_, err = tx.ExecContext(ctx,
			"INSERT INTO periods (subject_id, range_from, range_to, seq, start_at, end_at, groups) VALUES (?, ?, ?, ?, ?, ?, ?)",
			subjectID, rangeFrom, rangeTo, seq, p.Start.Format(time.RFC3339), p.End.Format(time.RFC3339), string(groups))
		if err != nil {
			return fmt.Errorf("insert period failed: %w", err)
		}
	}
	return tx.Commit()
}

// LoadTimetable returns the stored periods of a subject for a date range
func (s *SnapshotStore) LoadTimetable(ctx context.Context, subjectID int, from, to time.Time) (periods []Period, fetchedAt time.Time, ok bool, err error) {
	rangeFrom, rangeTo := from.Format(dateLayout), to.Format(dateLayout)

	var fetched int64
	err = s.db.QueryRowContext(ctx,
		"SELECT fetched_at FROM timetable_fetches WHERE subject_id = ? AND range_from = ? AND range_to = ?",
		subjectID, rangeFrom, rangeTo).Scan(&fetched)
	if err == sql.ErrNoRows {
		return nil, time.Time{}, false, nil
	}
	if err != nil {
		return nil, time.Time{}, false, fmt.Errorf("query failed: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT start_at, end_at, groups FROM periods WHERE subject_id = ? AND range_from = ? AND range_to = ? ORDER BY seq",
		subjectID, rangeFrom, rangeTo)
	if err != nil {
		return nil, time.Time{}, false, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var startAt, endAt, groupsJSON string
		if err := rows.Scan(&startAt, &endAt, &groupsJSON); err != nil {
			return nil, time.Time{}, false, fmt.Errorf("scan failed: %w", err)
		}
		p, err := decodePeriodRow(startAt, endAt, groupsJSON)
		if err != nil {
			return nil, time.Time{}, false, err
		}
		periods = append(periods, p)
	}
	if err := rows.Err(); err != nil {
		return nil, time.Time{}, false, fmt.Errorf("rows iteration error: %w", err)
	}
	return periods, time.Unix(fetched, 0), true, nil
}

// Clear removes every snapshot
func (s *SnapshotStore) Clear(ctx context.Context) error {
	for _, table := range []string{"periods", "timetable_fetches", "subjects"} {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("clear %s failed: %w", table, err)
		}
	}
	return nil
}

func decodePeriodRow(startAt, endAt, groupsJSON string) (Period, error) {
	start, err := time.Parse(time.RFC3339, startAt)
	if err != nil {
		return Period{}, fmt.Errorf("invalid period start %q: %w", startAt, err)
	}
	end, err := time.Parse(time.RFC3339, endAt)
	if err != nil {
		return Period{}, fmt.Errorf("invalid period end %q: %w", endAt, err)
	}
	var groups []string
	if err := json.Unmarshal([]byte(groupsJSON), &groups); err != nil {
		return Period{}, fmt.Errorf("invalid period groups: %w", err)
	}
	return Period{Start: start, End: end, Groups: NewGroupSet(groups...)}, nil
}

// CachingProvider serves timetables from a SnapshotStore, refreshing them from upstream
// once they are older than the TTL. Without an upstream it only serves snapshots.
type CachingProvider struct {
	store    *SnapshotStore
	upstream TimetableProvider
	ttl      time.Duration
	now      func() time.Time
}

// NewCachingProvider creates a CachingProvider; upstream may be nil for offline use
func NewCachingProvider(store *SnapshotStore, upstream TimetableProvider, ttl time.Duration) *CachingProvider {
	return &CachingProvider{store: store, upstream: upstream, ttl: ttl, now: time.Now}
}

func (c *CachingProvider) fresh(fetchedAt time.Time) bool {
	return c.upstream == nil || c.now().Sub(fetchedAt) <= c.ttl
}

// Subjects implements TimetableProvider
func (c *CachingProvider) Subjects(ctx context.Context) ([]Subject, error) {
	subjects, fetchedAt, ok, err := c.store.LoadSubjects(ctx)
	if err != nil {
		LogWarn("Failed to read subject snapshot: %v", err)
	} else if ok && c.fresh(fetchedAt) {
		LogDebug("Using subject snapshot from %s", fetchedAt.Format(MomentLayout))
		return subjects, nil
	}
	if c.upstream == nil {
		return nil, &SnapshotMissError{What: "subject list"}
	}

	subjects, err = c.upstream.Subjects(ctx)
	if err != nil {
		return nil, err
	}
	if err := c.store.SaveSubjects(ctx, subjects, c.now()); err != nil {
		LogWarn("Failed to save subject snapshot: %v", err)
	}
	return subjects, nil
}

// Timetable implements TimetableProvider
func (c *CachingProvider) Timetable(ctx context.Context, subject Subject, from, to time.Time) ([]Period, error) {
	periods, fetchedAt, ok, err := c.store.LoadTimetable(ctx, subject.ID, from, to)
	if err != nil {
		LogWarn("Failed to read timetable snapshot for %s: %v", subject.Name, err)
	} else if ok && c.fresh(fetchedAt) {
		LogDebug("Using timetable snapshot for %s from %s", subject.Name, fetchedAt.Format(MomentLayout))
		return periods, nil
	}
	if c.upstream == nil {
		return nil, &SnapshotMissError{What: fmt.Sprintf("subject %s between %s and %s", subject.Name, from.Format(dateLayout), to.Format(dateLayout))}
	}

	periods, err = c.upstream.Timetable(ctx, subject, from, to)
	if err != nil {
		return nil, err
	}
	if err := c.store.SaveTimetable(ctx, subject.ID, from, to, periods, c.now()); err != nil {
		LogWarn("Failed to save timetable snapshot for %s: %v", subject.Name, err)
	}
	return periods, nil
}

// Covers reports whether every request the catalog needs can be served from fresh
// snapshots, so that upstream is never contacted
func (c *CachingProvider) Covers(ctx context.Context, catalog *Catalog) bool {
	subjects, fetchedAt, ok, err := c.store.LoadSubjects(ctx)
	if err != nil || !ok || !c.fresh(fetchedAt) {
		return false
	}
	for _, slug := range catalog.Slugs() {
		course, _ := catalog.Get(slug)
		subject, err := ResolveSubject(slug, subjects, course.SubjectID)
		if err != nil {
			return false
		}
		_, fetchedAt, ok, err := c.store.LoadTimetable(ctx, subject.ID, course.From, course.To)
		if err != nil || !ok || !c.fresh(fetchedAt) {
			return false
		}
	}
	return true
}
