package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/bnema/spaced/internal/domain/entity"
	repomocks "github.com/bnema/spaced/internal/domain/repository/mocks"
)

func historyFixture() []*entity.HistoryEntry {
	return []*entity.HistoryEntry{
		entity.NewHistoryEntry("https://go.dev/doc", "Documentation - The Go Programming Language"),
		entity.NewHistoryEntry("https://news.ycombinator.com", "Hacker News"),
		entity.NewHistoryEntry("https://github.com/golang/go", "golang/go"),
	}
}

func TestSuggest_RanksFuzzyMatches(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	repo := repomocks.NewMockHistoryRepository(ctrl)
	repo.EXPECT().GetRecent(gomock.Any(), suggestionCandidatePool, 0).Return(historyFixture(), nil)

	uc := NewSearchHistoryUseCase(repo)
	matches, err := uc.Suggest(ctx, "Hacker", 5)
	require.NoError(t, err)
	require.NotEmpty(t, matches)
	assert.Equal(t, "https://news.ycombinator.com", matches[0].Entry.URL)
	for _, m := range matches {
		assert.NotEqual(t, "https://go.dev/doc", m.Entry.URL)
	}
}

func TestSuggest_RespectsLimit(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	repo := repomocks.NewMockHistoryRepository(ctrl)
	repo.EXPECT().GetRecent(gomock.Any(), suggestionCandidatePool, 0).Return(historyFixture(), nil)

	uc := NewSearchHistoryUseCase(repo)
	matches, err := uc.Suggest(ctx, "go", 1)
	require.NoError(t, err)
	assert.Len(t, matches, 1)
}

func TestSuggest_EmptyQueryReturnsRecent(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	repo := repomocks.NewMockHistoryRepository(ctrl)
	repo.EXPECT().GetRecent(gomock.Any(), 3, 0).Return(historyFixture(), nil)

	uc := NewSearchHistoryUseCase(repo)
	matches, err := uc.Suggest(ctx, "  ", 3)
	require.NoError(t, err)
	require.Len(t, matches, 3)
	assert.Equal(t, "https://go.dev/doc", matches[0].Entry.URL)
}

func TestSuggest_WrapsRepositoryError(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	repo := repomocks.NewMockHistoryRepository(ctrl)
	boom := errors.New("boom")
	repo.EXPECT().GetRecent(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, boom)

	uc := NewSearchHistoryUseCase(repo)
	_, err := uc.Suggest(ctx, "x", 0)
	require.ErrorIs(t, err, boom)
}

func TestGetRecent_DefaultsLimitAndOffset(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	repo := repomocks.NewMockHistoryRepository(ctrl)
	repo.EXPECT().GetRecent(gomock.Any(), defaultRecentLimit, 0).Return(nil, nil)

	uc := NewSearchHistoryUseCase(repo)
	_, err := uc.GetRecent(ctx, 0, -4)
	require.NoError(t, err)
}

func TestClearAll(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	repo := repomocks.NewMockHistoryRepository(ctrl)
	repo.EXPECT().DeleteAll(gomock.Any()).Return(nil)

	uc := NewSearchHistoryUseCase(repo)
	require.NoError(t, uc.ClearAll(ctx))
}
