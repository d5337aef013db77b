package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/bnema/spaced/internal/domain/entity"
	"github.com/bnema/spaced/internal/domain/repository"
	"github.com/bnema/spaced/internal/logging"
)

const (
	defaultSuggestionLimit = 8
	defaultRecentLimit     = 50

	// suggestionCandidatePool is how many recent entries are fuzzy-ranked per query.
	suggestionCandidatePool = 500
)

// SearchHistoryUseCase handles history retrieval and address-bar suggestions.
type SearchHistoryUseCase struct {
	historyRepo repository.HistoryRepository
}

// NewSearchHistoryUseCase creates a new history search use case.
func NewSearchHistoryUseCase(historyRepo repository.HistoryRepository) *SearchHistoryUseCase {
	return &SearchHistoryUseCase{
		historyRepo: historyRepo,
	}
}

// historyIndex adapts history entries to fuzzy.Source.
// Each entry is matched on "title url", lower-cased.
type historyIndex struct {
	entries []*entity.HistoryEntry
	keys    []string
}

func newHistoryIndex(entries []*entity.HistoryEntry) *historyIndex {
	idx := &historyIndex{entries: entries, keys: make([]string, len(entries))}
	for i, e := range entries {
		idx.keys[i] = strings.ToLower(strings.TrimSpace(e.Title + " " + e.URL))
	}
	return idx
}

func (idx *historyIndex) String(i int) string { return idx.keys[i] }

func (idx *historyIndex) Len() int { return len(idx.keys) }

// Suggest ranks recent history against an address-bar query.
// An empty query returns the most recent entries unranked.
func (uc *SearchHistoryUseCase) Suggest(ctx context.Context, query string, limit int) ([]entity.HistoryMatch, error) {
	log := logging.FromContext(ctx)

	if limit <= 0 {
		limit = defaultSuggestionLimit
	}
	query = strings.ToLower(strings.TrimSpace(query))

	pool := suggestionCandidatePool
	if query == "" {
		pool = limit
	}
	entries, err := uc.historyRepo.GetRecent(ctx, pool, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to load history candidates: %w", err)
	}

	if query == "" {
		matches := make([]entity.HistoryMatch, 0, len(entries))
		for _, e := range entries {
			matches = append(matches, entity.HistoryMatch{Entry: e})
		}
		return matches, nil
	}

	idx := newHistoryIndex(entries)
	found := fuzzy.FindFrom(query, idx)
	if len(found) > limit {
		found = found[:limit]
	}

	matches := make([]entity.HistoryMatch, 0, len(found))
	for _, m := range found {
		matches = append(matches, entity.HistoryMatch{
			Entry: idx.entries[m.Index],
			Score: m.Score,
		})
	}

	log.Debug().
		Str("query", query).
		Int("candidates", len(entries)).
		Int("matches", len(matches)).
		Msg("history suggestions ranked")

	return matches, nil
}

// GetRecent retrieves recent history entries with pagination.
func (uc *SearchHistoryUseCase) GetRecent(ctx context.Context, limit, offset int) ([]*entity.HistoryEntry, error) {
	if limit <= 0 {
		limit = defaultRecentLimit
	}
	if offset < 0 {
		offset = 0
	}

	entries, err := uc.historyRepo.GetRecent(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to get recent history: %w", err)
	}

	return entries, nil
}

// ClearAll deletes all history entries.
func (uc *SearchHistoryUseCase) ClearAll(ctx context.Context) error {
	log := logging.FromContext(ctx)
	log.Debug().Msg("clearing all history")

	if err := uc.historyRepo.DeleteAll(ctx); err != nil {
		return fmt.Errorf("failed to clear all history: %w", err)
	}

	log.Info().Msg("all history cleared")
	return nil
}
