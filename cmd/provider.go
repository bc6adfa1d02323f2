package cmd

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/lesplan/untis-tabulator/internal"
	"github.com/lesplan/untis-tabulator/internal/untis"
)

// passwordEnv lets scripts pass the WebUntis password without a prompt
const passwordEnv = "UNTIS_PASSWORD"

// promptCredentials asks for whatever part of the credentials is still missing
func promptCredentials(username string) (string, string, error) {
	password := os.Getenv(passwordEnv)
	if username != "" && password != "" {
		return username, password, nil
	}

	var fields []huh.Field
	if username == "" {
		fields = append(fields, huh.NewInput().
			Title("WebUntis username").
			Description("The account you log in to WebUntis with.").
			Value(&username).
			Validate(func(s string) error {
				if s == "" {
					return fmt.Errorf("username is required")
				}
				return nil
			}))
	}
	if password == "" {
		fields = append(fields, huh.NewInput().
			Title("WebUntis password").
			Description("Only used to log in; it is not shown or stored.").
			EchoMode(huh.EchoModePassword).
			Value(&password))
	}

	if err := huh.NewForm(huh.NewGroup(fields...)).Run(); err != nil {
		return "", "", err
	}
	return username, password, nil
}

// lazyUpstream logs in to WebUntis on first use, so runs served entirely from fresh
// snapshots never touch the network
type lazyUpstream struct {
	cfg      *internal.Config
	loc      *time.Location
	username string

	once     sync.Once
	client   *untis.Client
	provider *untis.Provider
	err      error
}

func (l *lazyUpstream) connect(ctx context.Context) error {
	l.once.Do(func() {
		username, password, err := promptCredentials(l.username)
		if err != nil {
			l.err = err
			return
		}
		client := untis.NewClient(l.cfg.Server, l.cfg.School, l.cfg.Client)
		internal.LogInfo("Logging in to %s as %s", l.cfg.Server, username)
		if err := client.Login(ctx, username, password); err != nil {
			l.err = err
			return
		}
		l.client = client
		l.provider = untis.NewProvider(client, l.loc)
	})
	return l.err
}

func (l *lazyUpstream) Subjects(ctx context.Context) ([]internal.Subject, error) {
	if err := l.connect(ctx); err != nil {
		return nil, err
	}
	return l.provider.Subjects(ctx)
}

func (l *lazyUpstream) Timetable(ctx context.Context, subject internal.Subject, from, to time.Time) ([]internal.Period, error) {
	if err := l.connect(ctx); err != nil {
		return nil, err
	}
	return l.provider.Timetable(ctx, subject, from, to)
}

func (l *lazyUpstream) close(ctx context.Context) {
	if l.client == nil {
		return
	}
	if err := l.client.Logout(ctx); err != nil {
		internal.LogWarn("Failed to log out: %v", err)
	}
}

// providerOptions are the flags shared by commands that read timetables
type providerOptions struct {
	offline    bool
	clearCache bool
	username   string
}

// timetableSource is the snapshot-backed timetable provider of a command run
type timetableSource struct {
	caching  *internal.CachingProvider
	upstream *lazyUpstream
	db       *sql.DB
}

// Provider returns the provider reconciliation reads from
func (s *timetableSource) Provider() internal.TimetableProvider {
	return s.caching
}

// SignIn logs in to WebUntis up front unless the run is offline or fresh snapshots cover
// the whole catalog. It may prompt for credentials.
func (s *timetableSource) SignIn(ctx context.Context, catalog *internal.Catalog) error {
	if s.upstream == nil {
		return nil
	}
	if s.caching.Covers(ctx, catalog) {
		internal.LogDebug("Snapshots cover all %d course(s), not logging in", catalog.Len())
		return nil
	}
	return s.upstream.connect(ctx)
}

// Close logs out and closes the snapshot database
func (s *timetableSource) Close() {
	if s.upstream != nil {
		s.upstream.close(context.Background())
	}
	s.db.Close()
}

// openProvider opens the snapshot database and builds the timetable source for cfg
func openProvider(ctx context.Context, cfg *internal.Config, opts providerOptions) (*timetableSource, error) {
	path := snapshotPath
	if path == "" {
		var err error
		path, err = internal.DefaultSnapshotPath()
		if err != nil {
			return nil, err
		}
	}

	db, err := internal.OpenDatabase(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open snapshot database: %w", err)
	}
	store, err := internal.NewSnapshotStore(db)
	if err != nil {
		db.Close()
		return nil, err
	}

	if opts.clearCache {
		if err := store.Clear(ctx); err != nil {
			internal.LogWarn("Failed to clear snapshots: %v", err)
		} else {
			internal.LogInfo("Snapshots cleared")
		}
	}

	if opts.offline {
		return &timetableSource{caching: internal.NewCachingProvider(store, nil, cfg.TTL()), db: db}, nil
	}

	loc, err := cfg.Location()
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("invalid timezone %q: %w", cfg.Timezone, err)
	}
	username := opts.username
	if username == "" {
		username = cfg.Username
	}
	upstream := &lazyUpstream{cfg: cfg, loc: loc, username: username}
	return &timetableSource{
		caching:  internal.NewCachingProvider(store, upstream, cfg.TTL()),
		upstream: upstream,
		db:       db,
	}, nil
}
