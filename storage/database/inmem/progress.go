package inmemdb

import (
	"context"

	"github.com/samber/lo"

	"github.com/edumentor/edumentor/core"
	"github.com/edumentor/edumentor/core/progress"
)

type progressRepository struct {
	db *progressTable
}

var _ progress.Repository = (*progressRepository)(nil)

func NewProgressRepository(db *DB) progress.Repository {
	return &progressRepository{db: db.progress}
}

func (repo *progressRepository) UpsertProgress(_ context.Context, p progress.Progress) (progress.Progress, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	for _, stored := range repo.db.table {
		if stored.UserID == p.UserID && stored.CourseID == p.CourseID {
			stored.CompletionPercentage = p.CompletionPercentage
			stored.LastAccessed = p.LastAccessed
			stored.CompletedLessons = lo.Union(stored.CompletedLessons, p.CompletedLessons)
			return *stored, nil
		}
	}
	if p.CompletedLessons == nil {
		p.CompletedLessons = []string{}
	}
	repo.db.table[p.ID] = &p
	return p, nil
}

func (repo *progressRepository) QueryUserProgress(_ context.Context, userID string) ([]progress.Progress, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	records := lo.FilterMap(lo.Values(repo.db.table), func(p *progress.Progress, _ int) (progress.Progress, bool) {
		return *p, p.UserID == userID
	})
	sortByOrdering(records, []core.DBOrdering{{Field: "last_accessed"}}, func(p progress.Progress, _ string) interface{} {
		return p.LastAccessed
	})
	return records, nil
}
