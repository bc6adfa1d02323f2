package internal

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"
)

// TimetableProvider supplies subjects and the raw periods of a subject
type TimetableProvider interface {
	Subjects(ctx context.Context) ([]Subject, error)
	// Timetable returns the periods of subject between from and to (inclusive dates)
	Timetable(ctx context.Context, subject Subject, from, to time.Time) ([]Period, error)
}

// ResolveSubject returns the single subject with the given id
func ResolveSubject(course string, subjects []Subject, id int) (Subject, error) {
	var matches []Subject
	for _, s := range subjects {
		if s.ID == id {
			matches = append(matches, s)
		}
	}
	if len(matches) != 1 {
		return Subject{}, &AmbiguousSubjectError{Course: course, SubjectID: id, Matches: len(matches)}
	}
	return matches[0], nil
}

// Reconciler turns a catalog into session records using a timetable provider
type Reconciler struct {
	provider    TimetableProvider
	coalescer   *Coalescer
	diagnostics Diagnostics
	concurrency int
}

// ReconcilerOption configures a Reconciler
type ReconcilerOption func(*Reconciler)

// WithMergePolicy sets the coalescing policy
func WithMergePolicy(policy MergePolicy) ReconcilerOption {
	return func(r *Reconciler) { r.coalescer = NewCoalescer(policy) }
}

// WithDiagnostics sets the diagnostics sink
func WithDiagnostics(d Diagnostics) ReconcilerOption {
	return func(r *Reconciler) { r.diagnostics = d }
}

// WithConcurrency limits the number of timetables fetched at once
func WithConcurrency(n int) ReconcilerOption {
	return func(r *Reconciler) {
		if n > 0 {
			r.concurrency = n
		}
	}
}

// NewReconciler creates a new Reconciler
func NewReconciler(provider TimetableProvider, opts ...ReconcilerOption) *Reconciler {
	r := &Reconciler{
		provider:    provider,
		coalescer:   NewCoalescer(MergeAnyGroupCount),
		diagnostics: LogDiagnostics{},
		concurrency: 4,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// CollectSchedule fetches, coalesces and matches the periods of every course
func (r *Reconciler) CollectSchedule(ctx context.Context, catalog *Catalog) (*Schedule, error) {
	subjects, err := r.provider.Subjects(ctx)
	if err != nil {
		return nil, &ProviderError{Op: "subjects", Err: err}
	}

	slugs := catalog.Slugs()
	resolved := make([]Subject, len(slugs))
	for i, slug := range slugs {
		course, _ := catalog.Get(slug)
		subject, err := ResolveSubject(slug, subjects, course.SubjectID)
		if err != nil {
			return nil, err
		}
		resolved[i] = subject
	}

	starts := make([][]time.Time, len(slugs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.concurrency)
	for i, slug := range slugs {
		i, slug := i, slug
		course, _ := catalog.Get(slug)
		subject := resolved[i]
		g.Go(func() error {
			periods, err := r.provider.Timetable(gctx, subject, course.From, course.To)
			if err != nil {
				return &ProviderError{Course: slug, Op: "timetable", Err: err}
			}
			coalesced := r.coalescer.Coalesce(periods)
			starts[i] = Match(course, coalesced)
			LogDebug("%s: %d periods, %d coalesced, %d sessions", slug, len(periods), len(coalesced), len(starts[i]))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	schedule := NewSchedule()
	for i, slug := range slugs {
		schedule.Set(slug, starts[i])
	}
	return schedule, nil
}

// Reconcile collects the schedule and aligns it with the course contents
func (r *Reconciler) Reconcile(ctx context.Context, catalog *Catalog) ([]SessionRecord, error) {
	schedule, err := r.CollectSchedule(ctx, catalog)
	if err != nil {
		return nil, err
	}
	return Align(schedule, catalog, r.diagnostics), nil
}
