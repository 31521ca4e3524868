package progress

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/edumentor/edumentor/core"
	"github.com/edumentor/edumentor/core/course"
	"github.com/edumentor/edumentor/core/user"
)

// ErrPercentageRequired is returned when an update carries no completion percentage.
var ErrPercentageRequired = errors.New("this field is required")

type (
	Repository interface {
		// UpsertProgress creates or updates the Progress of (p.UserID, p.CourseID).
		// p.ID is only used on creation; CompletedLessons are merged with the stored ones.
		UpsertProgress(ctx context.Context, p Progress) (Progress, error)
		QueryUserProgress(ctx context.Context, userID string) ([]Progress, error)
	}

	Service interface {
		Update(ctx context.Context, usr user.User, courseID string, up UpdateProgress) (Progress, error)
		QueryFor(ctx context.Context, usr user.User) ([]Progress, error)
	}

	service struct {
		repo      Repository
		courseSvc course.Service
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository, courseSvc course.Service) Service {
	return &service{repo: repo, courseSvc: courseSvc}
}

func (svc *service) Update(ctx context.Context, usr user.User, courseID string, up UpdateProgress) (Progress, error) {
	if up.CompletionPercentage == nil {
		return Progress{}, core.NewFieldError("completion_percentage", ErrPercentageRequired)
	}
	if _, err := svc.courseSvc.GetByID(ctx, courseID); err != nil {
		return Progress{}, errors.Wrap(err, "finding course")
	}

	p := Progress{
		ID:                   uuid.NewString(),
		UserID:               usr.ID,
		CourseID:             courseID,
		CompletionPercentage: *up.CompletionPercentage,
		LastAccessed:         time.Now().UTC(),
		CompletedLessons:     []string{},
	}
	if up.CompletedLesson != "" {
		p.CompletedLessons = append(p.CompletedLessons, up.CompletedLesson)
	}
	return svc.repo.UpsertProgress(ctx, p)
}

func (svc *service) QueryFor(ctx context.Context, usr user.User) ([]Progress, error) {
	return svc.repo.QueryUserProgress(ctx, usr.ID)
}
