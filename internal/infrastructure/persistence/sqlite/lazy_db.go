package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	"github.com/bnema/spaced/internal/logging"
)

// LazyDB defers opening the database until the first query, so the
// browser window is not held up by SQLite start-up.
// A failed open is remembered and returned to every later caller.
type LazyDB struct {
	path string

	mu     sync.Mutex
	opened bool
	db     *sql.DB
	err    error
}

// NewLazyDB returns a provider for the database at path. Nothing is opened yet.
func NewLazyDB(path string) *LazyDB {
	return &LazyDB{path: path}
}

// DB opens the database on first use and returns the shared handle.
func (l *LazyDB) DB(ctx context.Context) (*sql.DB, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.opened {
		l.opened = true
		log := logging.FromContext(ctx)
		log.Debug().Str("path", l.path).Msg("opening history database")
		l.db, l.err = NewConnection(ctx, l.path)
		if l.err != nil {
			log.Error().Err(l.err).Msg("history database unavailable")
		}
	}
	if l.err != nil {
		return nil, fmt.Errorf("history database: %w", l.err)
	}
	return l.db, nil
}

// Close releases the handle when one was opened.
func (l *LazyDB) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.db == nil {
		return nil
	}
	err := l.db.Close()
	l.db = nil
	return err
}

// IsInitialized reports whether a handle is open.
func (l *LazyDB) IsInitialized() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.db != nil
}

// Path returns the database location.
func (l *LazyDB) Path() string {
	return l.path
}
