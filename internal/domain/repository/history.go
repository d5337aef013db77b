// Package repository defines persistence interfaces for domain entities.
package repository

import (
	"context"

	"github.com/bnema/spaced/internal/domain/entity"
)

//go:generate mockgen -source=history.go -destination=mocks/mock_history.go -package=mocks

// HistoryRepository defines operations for browsing history persistence.
type HistoryRepository interface {
	// Save creates or updates a history entry (upsert by URL).
	Save(ctx context.Context, entry *entity.HistoryEntry) error

	// FindByURL retrieves a history entry by its URL.
	// Returns nil without error when the URL was never visited.
	FindByURL(ctx context.Context, url string) (*entity.HistoryEntry, error)

	// GetRecent retrieves recent history entries, most recent first.
	GetRecent(ctx context.Context, limit, offset int) ([]*entity.HistoryEntry, error)

	// IncrementVisitCount increments the visit count for a URL.
	IncrementVisitCount(ctx context.Context, url string) error

	// DeleteAll removes all history entries.
	DeleteAll(ctx context.Context) error
}
