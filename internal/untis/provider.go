package untis

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/lesplan/untis-tabulator/internal"
)

// Provider exposes a logged-in Client as an internal.TimetableProvider
type Provider struct {
	client *Client
	loc    *time.Location

	mu      sync.Mutex
	klassen map[int]string
}

// NewProvider creates a provider interpreting timetable times in loc
func NewProvider(client *Client, loc *time.Location) *Provider {
	return &Provider{client: client, loc: loc}
}

// Subjects implements internal.TimetableProvider
func (p *Provider) Subjects(ctx context.Context) ([]internal.Subject, error) {
	subjects, err := p.client.Subjects(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]internal.Subject, 0, len(subjects))
	for _, s := range subjects {
		out = append(out, internal.Subject{ID: s.ID, Name: s.Name, LongName: s.LongName})
	}
	return out, nil
}

// Timetable implements internal.TimetableProvider
func (p *Provider) Timetable(ctx context.Context, subject internal.Subject, from, to time.Time) ([]internal.Period, error) {
	names, err := p.klasseNames(ctx)
	if err != nil {
		return nil, err
	}

	raw, err := p.client.Timetable(ctx, subject.ID, from, to)
	if err != nil {
		return nil, err
	}

	periods := make([]internal.Period, 0, len(raw))
	for _, r := range raw {
		groups := make([]string, 0, len(r.Klassen))
		for _, kl := range r.Klassen {
			name, ok := names[kl.ID]
			if !ok {
				internal.LogWarn("Unknown class group id %d in period %d of %s", kl.ID, r.ID, subject.Name)
				name = fmt.Sprintf("#%d", kl.ID)
			}
			groups = append(groups, name)
		}

		period := internal.Period{
			Start:  clockTime(r.Date, r.StartTime, p.loc),
			End:    clockTime(r.Date, r.EndTime, p.loc),
			Groups: internal.NewGroupSet(groups...),
		}
		if period.Groups.Len() == 0 || !period.Start.Before(period.End) {
			internal.LogDebug("Skipping period %d of %s: no groups or empty time range", r.ID, subject.Name)
			continue
		}
		periods = append(periods, period)
	}
	return periods, nil
}

// klasseNames loads the class group names once
func (p *Provider) klasseNames(ctx context.Context) (map[int]string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.klassen != nil {
		return p.klassen, nil
	}
	klassen, err := p.client.Klassen(ctx)
	if err != nil {
		return nil, err
	}
	p.klassen = make(map[int]string, len(klassen))
	for _, k := range klassen {
		p.klassen[k.ID] = k.Name
	}
	return p.klassen, nil
}

// clockTime combines a yyyymmdd date and an hhmm time
func clockTime(date, hhmm int, loc *time.Location) time.Time {
	return time.Date(date/10000, time.Month(date/100%100), date%100, hhmm/100, hhmm%100, 0, 0, loc)
}
