package cli

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/becoming/internal/backup"
	apperrors "github.com/julianstephens/becoming/internal/errors"
	"github.com/julianstephens/becoming/internal/keyring"
	"github.com/julianstephens/becoming/internal/lockfile"
	"github.com/julianstephens/becoming/internal/logger"
	"github.com/julianstephens/becoming/internal/storage"
	"github.com/julianstephens/becoming/internal/storage/sqlite"
	"github.com/julianstephens/becoming/internal/tracker"
)

type Context struct {
	Store   storage.Provider
	Tracker *tracker.Tracker

	// Connection is the resolved database path or connection string; Source says where it came from.
	Connection string
	Source     keyring.Source

	Location *time.Location
	// Yes skips confirmation prompts.
	Yes bool

	loaded bool
}

func NewContext(store storage.Provider, loc *time.Location, yes bool) *Context {
	return &Context{
		Store:    store,
		Tracker:  tracker.New(store, tracker.WithLocation(loc)),
		Location: loc,
		Yes:      yes,
	}
}

// Ctx is the context passed to storage calls.
func (c *Context) Ctx() context.Context {
	return context.Background()
}

// Open loads the store and the tracker once per process.
func (c *Context) Open() (*tracker.Tracker, error) {
	if !c.loaded {
		if err := c.Store.Load(); err != nil {
			return nil, err
		}
		if err := c.Tracker.Load(c.Ctx()); err != nil {
			return nil, err
		}
		c.loaded = true
	}
	return c.Tracker, nil
}

// OpenForWrite takes the lockfile and then loads the tracker. Callers defer release.
func (c *Context) OpenForWrite() (*tracker.Tracker, func(), error) {
	release, err := c.Lock()
	if err != nil {
		return nil, nil, err
	}
	tr, err := c.Open()
	if err != nil {
		release()
		return nil, nil, err
	}
	return tr, release, nil
}

// SQLite returns the underlying SQLite store, or nil for PostgreSQL.
func (c *Context) SQLite() *sqlite.Store {
	s, _ := c.Store.(*sqlite.Store)
	return s
}

// PerformAutomaticBackup creates an automatic backup and silently handles errors
func (c *Context) PerformAutomaticBackup() {
	if c.SQLite() == nil {
		return
	}
	mgr := backup.NewManager(c.Store.GetConfigPath())
	if _, err := mgr.Create(); err != nil {
		// Log warning but don't interrupt user workflow
		logger.Warn("Automatic backup failed", "error", err)
	}
}

// Lock takes the database lockfile for the duration of a write command.
// PostgreSQL handles its own concurrency, so the returned release is a no-op there.
func (c *Context) Lock() (release func(), err error) {
	if c.SQLite() == nil {
		return func() {}, nil
	}
	lock, err := lockfile.Acquire(c.Store.GetConfigPath())
	if err != nil {
		return nil, err
	}
	return func() {
		if err := lock.Release(); err != nil {
			logger.Warn("Failed to release lockfile", "error", err)
		}
	}, nil
}

// Confirm asks a yes/no question unless --yes was given.
// A "no" answer returns apperrors.ErrCancelled.
func (c *Context) Confirm(title, description string) error {
	if c.Yes {
		return nil
	}
	var ok bool
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Description(description).
				Affirmative("Yes").
				Negative("No").
				Value(&ok),
		),
	).WithTheme(huh.ThemeBase()).Run()
	if err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return apperrors.ErrCancelled
		}
		return err
	}
	if !ok {
		return apperrors.ErrCancelled
	}
	return nil
}
