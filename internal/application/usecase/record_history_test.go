package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/bnema/spaced/internal/domain/entity"
	repomocks "github.com/bnema/spaced/internal/domain/repository/mocks"
)

// manualFlushOptions keeps the ticker out of the way so Close does the only flush.
func manualFlushOptions() HistoryOptions {
	opts := DefaultHistoryOptions()
	opts.FlushInterval = time.Hour
	return opts
}

func entryMatching(check func(*entity.HistoryEntry) bool) gomock.Matcher {
	return gomock.Cond(func(x any) bool {
		e, ok := x.(*entity.HistoryEntry)
		return ok && check(e)
	})
}

func TestCanonicalizeURLForHistory(t *testing.T) {
	tests := []struct {
		name  string
		raw   string
		strip bool
		want  string
	}{
		{
			name:  "strips hash tracking and trailing slash",
			raw:   "https://Example.com/path/?utm_source=newsletter&utm_campaign=launch&a=2&b=1#section-1",
			strip: true,
			want:  "https://example.com/path?a=2&b=1",
		},
		{
			name: "optionally keeps tracking params",
			raw:  "https://example.com/path/?utm_source=newsletter&b=1#section-1",
			want: "https://example.com/path?b=1&utm_source=newsletter",
		},
		{name: "root path collapses", raw: "https://example.com/", strip: true, want: "https://example.com"},
		{name: "about pages are not history", raw: "about:blank", strip: true, want: ""},
		{name: "file pages are not history", raw: "file:///tmp/a.html", strip: true, want: ""},
		{name: "empty", raw: "  ", strip: true, want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, canonicalizeURLForHistory(tt.raw, tt.strip))
		})
	}
}

func TestIsHashOnlyTransition(t *testing.T) {
	assert.True(t, isHashOnlyTransition("https://a.com/docs#intro", "https://a.com/docs#api"))
	assert.True(t, isHashOnlyTransition("https://a.com/docs", "https://a.com/docs#api"))
	assert.False(t, isHashOnlyTransition("https://a.com/docs#x", "https://a.com/other#x"))
	assert.False(t, isHashOnlyTransition("", "https://a.com/docs"))
	assert.False(t, isHashOnlyTransition("https://a.com/docs", "https://a.com/docs"))
}

func TestRecordHistory_IgnoresHashOnlyTransitions(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	repo := repomocks.NewMockHistoryRepository(ctrl)

	repo.EXPECT().FindByURL(gomock.Any(), "https://example.com/docs").Return(nil, nil).Times(1)
	repo.EXPECT().Save(gomock.Any(), entryMatching(func(e *entity.HistoryEntry) bool {
		return e.URL == "https://example.com/docs" && e.VisitCount == 1
	})).Return(nil).Times(1)

	uc := NewRecordHistoryUseCase(ctx, repo, manualFlushOptions())
	uc.Record(ctx, "tab-1", "https://example.com/docs#intro")
	uc.Record(ctx, "tab-1", "https://example.com/docs#api")
	uc.Close()
}

func TestRecordHistory_DedupIsPerTabAndCoalescesVisits(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	repo := repomocks.NewMockHistoryRepository(ctrl)

	repo.EXPECT().FindByURL(gomock.Any(), "https://example.com/article").Return(nil, nil).Times(1)
	repo.EXPECT().Save(gomock.Any(), entryMatching(func(e *entity.HistoryEntry) bool {
		return e.URL == "https://example.com/article" && e.VisitCount == 2
	})).Return(nil).Times(1)

	uc := NewRecordHistoryUseCase(ctx, repo, manualFlushOptions())
	uc.Record(ctx, "tab-1", "https://example.com/article?utm_source=feed")
	uc.Record(ctx, "tab-1", "https://example.com/article?utm_source=feed")
	uc.Record(ctx, "tab-2", "https://example.com/article")
	uc.Close()
}

func TestRecordHistory_RecordsAgainAfterDedupWindow(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	repo := repomocks.NewMockHistoryRepository(ctrl)

	repo.EXPECT().FindByURL(gomock.Any(), "https://example.com").Return(nil, nil).Times(1)
	repo.EXPECT().Save(gomock.Any(), entryMatching(func(e *entity.HistoryEntry) bool {
		return e.VisitCount == 2
	})).Return(nil).Times(1)

	uc := NewRecordHistoryUseCase(ctx, repo, manualFlushOptions())
	clock := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	uc.now = func() time.Time { return clock }

	uc.Record(ctx, "tab-1", "https://example.com/")
	clock = clock.Add(3 * time.Second)
	uc.Record(ctx, "tab-1", "https://example.com/")
	uc.Close()
}

func TestRecordHistory_ExistingEntryIncrementsAndUpdatesTitle(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	repo := repomocks.NewMockHistoryRepository(ctrl)

	existing := entity.NewHistoryEntry("https://example.com/a", "Old")
	repo.EXPECT().FindByURL(gomock.Any(), "https://example.com/a").Return(existing, nil).Times(1)
	repo.EXPECT().IncrementVisitCount(gomock.Any(), "https://example.com/a").Return(nil).Times(1)
	repo.EXPECT().Save(gomock.Any(), entryMatching(func(e *entity.HistoryEntry) bool {
		return e.Title == "New" && e.VisitCount == 2
	})).Return(nil).Times(1)

	uc := NewRecordHistoryUseCase(ctx, repo, manualFlushOptions())
	uc.Record(ctx, "tab-1", "https://example.com/a")
	uc.UpdateTitle(ctx, "https://example.com/a#frag", "New")
	uc.Close()
}

func TestRecordHistory_TitleForUnknownURLIsDropped(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	repo := repomocks.NewMockHistoryRepository(ctrl)

	repo.EXPECT().FindByURL(gomock.Any(), "https://example.com/spa").Return(nil, nil).Times(1)

	uc := NewRecordHistoryUseCase(ctx, repo, manualFlushOptions())
	uc.UpdateTitle(ctx, "https://example.com/spa", "SPA")
	uc.Close()
}

func TestRecordHistory_RepositoryErrorIsNotFatal(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	repo := repomocks.NewMockHistoryRepository(ctrl)

	repo.EXPECT().FindByURL(gomock.Any(), "https://broken.example").Return(nil, errors.New("disk full")).Times(1)
	repo.EXPECT().FindByURL(gomock.Any(), "https://ok.example").Return(nil, nil).Times(1)
	repo.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil).Times(1)

	uc := NewRecordHistoryUseCase(ctx, repo, manualFlushOptions())
	uc.Record(ctx, "tab-1", "https://broken.example")
	uc.Record(ctx, "tab-1", "https://ok.example")
	uc.Close()
}

func TestRecordHistory_IgnoresNonWebURLsAndCloseIsIdempotent(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	repo := repomocks.NewMockHistoryRepository(ctrl)

	uc := NewRecordHistoryUseCase(ctx, repo, manualFlushOptions())
	uc.Record(ctx, "tab-1", "about:blank")
	uc.Record(ctx, "tab-1", "")
	uc.Close()
	uc.Close()

	// After close, records are dropped without touching the repository.
	uc.Record(ctx, "tab-1", "https://late.example")
}

func TestRecordHistory_ForgetResetsDedup(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	repo := repomocks.NewMockHistoryRepository(ctrl)

	repo.EXPECT().FindByURL(gomock.Any(), "https://example.com").Return(nil, nil).Times(1)
	repo.EXPECT().Save(gomock.Any(), entryMatching(func(e *entity.HistoryEntry) bool {
		return e.VisitCount == 2
	})).Return(nil).Times(1)

	uc := NewRecordHistoryUseCase(ctx, repo, manualFlushOptions())
	uc.Record(ctx, "tab-1", "https://example.com")
	uc.Forget("tab-1")
	uc.Record(ctx, "tab-1", "https://example.com")
	uc.Close()

	uc.recentMu.Lock()
	defer uc.recentMu.Unlock()
	require.Len(t, uc.recentVisits, 1)
}
