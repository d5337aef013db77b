package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/bnema/spaced/internal/domain/entity"
	"github.com/bnema/spaced/internal/domain/repository"
	"github.com/bnema/spaced/internal/logging"
)

// aboutBlankURL is kept at a single visit so it never dominates suggestions.
const aboutBlankURL = "about:blank"

const (
	upsertHistorySQL = `
INSERT INTO history (url, title, visit_count, last_visited, created_at)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT (url) DO UPDATE SET
    title        = excluded.title,
    visit_count  = excluded.visit_count,
    last_visited = excluded.last_visited`

	selectHistoryColumns = `SELECT id, url, title, visit_count, last_visited, created_at FROM history`

	incrementVisitSQL = `
UPDATE history
SET visit_count = visit_count + 1, last_visited = ?
WHERE url = ?`
)

type historyRepo struct {
	db  *sql.DB
	now func() time.Time
}

// NewHistoryRepository creates a new SQLite-backed history repository.
func NewHistoryRepository(db *sql.DB) repository.HistoryRepository {
	return &historyRepo{db: db, now: time.Now}
}

func (r *historyRepo) Save(ctx context.Context, entry *entity.HistoryEntry) error {
	log := logging.FromContext(ctx)
	log.Debug().Str("url", entry.URL).Msg("saving history entry")

	visits := entry.VisitCount
	if visits < 1 || entry.URL == aboutBlankURL {
		visits = 1
	}
	now := r.now()
	lastVisited := entry.LastVisited
	if lastVisited.IsZero() {
		lastVisited = now
	}
	createdAt := entry.CreatedAt
	if createdAt.IsZero() {
		createdAt = now
	}

	_, err := r.db.ExecContext(ctx, upsertHistorySQL,
		entry.URL, entry.Title, visits, lastVisited.UnixMilli(), createdAt.UnixMilli())
	return err
}

func (r *historyRepo) FindByURL(ctx context.Context, url string) (*entity.HistoryEntry, error) {
	row := r.db.QueryRowContext(ctx, selectHistoryColumns+` WHERE url = ?`, url)
	entry, err := scanHistory(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return entry, nil
}

func (r *historyRepo) GetRecent(ctx context.Context, limit, offset int) ([]*entity.HistoryEntry, error) {
	rows, err := r.db.QueryContext(ctx,
		selectHistoryColumns+` ORDER BY last_visited DESC, id DESC LIMIT ? OFFSET ?`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	entries := make([]*entity.HistoryEntry, 0, limit)
	for rows.Next() {
		entry, err := scanHistory(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

func (r *historyRepo) IncrementVisitCount(ctx context.Context, url string) error {
	if url == aboutBlankURL {
		return nil
	}
	_, err := r.db.ExecContext(ctx, incrementVisitSQL, r.now().UnixMilli(), url)
	return err
}

func (r *historyRepo) DeleteAll(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM history`)
	return err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanHistory(s scanner) (*entity.HistoryEntry, error) {
	var (
		entry                  entity.HistoryEntry
		lastVisited, createdAt int64
	)
	if err := s.Scan(&entry.ID, &entry.URL, &entry.Title, &entry.VisitCount, &lastVisited, &createdAt); err != nil {
		return nil, err
	}
	entry.LastVisited = time.UnixMilli(lastVisited)
	entry.CreatedAt = time.UnixMilli(createdAt)
	return &entry, nil
}
