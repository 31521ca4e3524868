package course

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/edumentor/edumentor/core"
	"github.com/edumentor/edumentor/core/user"
)

var (
	// errors
	ErrNotFound      = errors.New("course not found")
	ErrNotInstructor = errors.New("only the course instructor can do this")
)

type (
	Repository interface {
		CreateCourse(ctx context.Context, c Course) (Course, error)
		GetCourseByID(ctx context.Context, id string) (Course, error)
		// FilterCourses applies AND operation on available QueryFilter fields.
		// QueryFilter.Search does a case-insensitive substring match on Course.Title or Course.Description.
		FilterCourses(ctx context.Context, filter QueryFilter, ordering []core.DBOrdering) ([]Course, error)
		UpdateCourse(ctx context.Context, c Course) (Course, error)
	}

	Service interface {
		Create(ctx context.Context, instructor user.User, nc NewCourse) (Course, error)
		GetByID(ctx context.Context, id string) (Course, error)
		QueryPublished(ctx context.Context, filter QueryFilter) ([]Course, error)
		SetPublished(ctx context.Context, actor user.User, id string, published bool) (Course, error)
	}

	service struct {
		repo Repository
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (svc *service) Create(ctx context.Context, instructor user.User, nc NewCourse) (Course, error) {
	c := Course{
		ID:            uuid.NewString(),
		Title:         nc.Title,
		Description:   nc.Description,
		InstructorID:  instructor.ID,
		Category:      nc.Category,
		Level:         nc.Level,
		DurationHours: nc.DurationHours,
		Price:         nc.Price,
		Thumbnail:     nc.Thumbnail,
		VideoURL:      nc.VideoURL,
		Tags:          nc.Tags,
		CreatedAt:     time.Now().UTC(),
	}
	if c.Tags == nil {
		c.Tags = []string{}
	}
	return svc.repo.CreateCourse(ctx, c)
}

func (svc *service) GetByID(ctx context.Context, id string) (Course, error) {
	if id == "" {
		return Course{}, ErrNotFound
	}
	return svc.repo.GetCourseByID(ctx, id)
}

func (svc *service) QueryPublished(ctx context.Context, filter QueryFilter) ([]Course, error) {
	filter.Clean()
	filter.PublishedOnly = true
	filter.InstructorID = ""
	return svc.repo.FilterCourses(ctx, filter, []core.DBOrdering{{Field: "created_at", Ascending: true}})
}

func (svc *service) SetPublished(ctx context.Context, actor user.User, id string, published bool) (Course, error) {
	c, err := svc.GetByID(ctx, id)
	if err != nil {
		return Course{}, err
	}
	if c.InstructorID != actor.ID && !actor.IsAdmin() {
		return Course{}, ErrNotInstructor
	}
	c.IsPublished = published
	return svc.repo.UpdateCourse(ctx, c)
}
