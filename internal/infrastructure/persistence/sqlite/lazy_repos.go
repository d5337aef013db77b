package sqlite

import (
	"context"
	"sync"

	"github.com/bnema/spaced/internal/domain/entity"
	"github.com/bnema/spaced/internal/domain/repository"
)

// LazyHistoryRepository is a HistoryRepository that opens its LazyDB on
// the first call.
type LazyHistoryRepository struct {
	provider *LazyDB

	once sync.Once
	repo repository.HistoryRepository
	err  error
}

var _ repository.HistoryRepository = (*LazyHistoryRepository)(nil)

// NewLazyHistoryRepository wraps provider.
func NewLazyHistoryRepository(provider *LazyDB) *LazyHistoryRepository {
	return &LazyHistoryRepository{provider: provider}
}

func (r *LazyHistoryRepository) resolve(ctx context.Context) (repository.HistoryRepository, error) {
	r.once.Do(func() {
		db, err := r.provider.DB(ctx)
		if err != nil {
			r.err = err
			return
		}
		r.repo = NewHistoryRepository(db)
	})
	return r.repo, r.err
}

func (r *LazyHistoryRepository) Save(ctx context.Context, entry *entity.HistoryEntry) error {
	repo, err := r.resolve(ctx)
	if err != nil {
		return err
	}
	return repo.Save(ctx, entry)
}

func (r *LazyHistoryRepository) FindByURL(ctx context.Context, url string) (*entity.HistoryEntry, error) {
	repo, err := r.resolve(ctx)
	if err != nil {
		return nil, err
	}
	return repo.FindByURL(ctx, url)
}

func (r *LazyHistoryRepository) GetRecent(ctx context.Context, limit, offset int) ([]*entity.HistoryEntry, error) {
	repo, err := r.resolve(ctx)
	if err != nil {
		return nil, err
	}
	return repo.GetRecent(ctx, limit, offset)
}

func (r *LazyHistoryRepository) IncrementVisitCount(ctx context.Context, url string) error {
	repo, err := r.resolve(ctx)
	if err != nil {
		return err
	}
	return repo.IncrementVisitCount(ctx, url)
}

func (r *LazyHistoryRepository) DeleteAll(ctx context.Context) error {
	repo, err := r.resolve(ctx)
	if err != nil {
		return err
	}
	return repo.DeleteAll(ctx)
}
