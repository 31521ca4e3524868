package inmemdb

import (
	"context"

	"github.com/edumentor/edumentor/core"
	"github.com/edumentor/edumentor/core/mentorship"
)

type sessionRepository struct {
	db *sessionTable
}

var _ mentorship.Repository = (*sessionRepository)(nil)

func NewSessionRepository(db *DB) mentorship.Repository {
	return &sessionRepository{db: db.session}
}

func (repo *sessionRepository) CreateSession(_ context.Context, s mentorship.Session) (mentorship.Session, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	repo.db.table[s.ID] = &s
	return s, nil
}

func (repo *sessionRepository) GetSessionByID(_ context.Context, id string) (mentorship.Session, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if s, ok := repo.db.table[id]; ok {
		return *s, nil
	}
	return mentorship.Session{}, mentorship.ErrNotFound
}

func (repo *sessionRepository) FilterSessions(_ context.Context, filter mentorship.QueryFilter, ordering []core.DBOrdering) ([]mentorship.Session, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	sessions := make([]mentorship.Session, 0)
	for _, s := range repo.db.table {
		if filter.MentorID != "" && s.MentorID != filter.MentorID {
			continue
		}
		if filter.StudentID != "" && s.StudentID != filter.StudentID {
			continue
		}
		sessions = append(sessions, *s)
	}

	sortByOrdering(sessions, ordering, func(s mentorship.Session, field string) interface{} {
		switch field {
		case "scheduled_at":
			return s.ScheduledAt
		case "created_at":
			return s.CreatedAt
		case "status":
			return s.Status
		}
		return nil
	})
	return sessions, nil
}

func (repo *sessionRepository) UpdateSession(_ context.Context, s mentorship.Session) (mentorship.Session, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.table[s.ID]; !ok {
		return mentorship.Session{}, mentorship.ErrNotFound
	}
	repo.db.table[s.ID] = &s
	return s, nil
}
