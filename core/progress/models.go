package progress

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/edumentor/edumentor/core"
)

type Progress struct {
	ID                   string    `json:"id" bson:"id"`
	UserID               string    `json:"user_id" bson:"user_id"`
	CourseID             string    `json:"course_id" bson:"course_id"`
	CompletionPercentage float64   `json:"completion_percentage" bson:"completion_percentage"`
	LastAccessed         time.Time `json:"last_accessed" bson:"last_accessed"` // UTC
	CompletedLessons     []string  `json:"completed_lessons" bson:"completed_lessons"`
}

// UpdateProgress contains information needed to upsert a user's Progress on a course.
type UpdateProgress struct {
	CompletionPercentage *float64 `json:"completion_percentage" query:"-" validate:"required,gte=0,lte=100"`
	CompletedLesson      string   `json:"completed_lesson" query:"-"`
}

func (up *UpdateProgress) Validate(validate *validator.Validate) error {
	up.CompletedLesson = core.CleanString(up.CompletedLesson)
	return validate.Struct(up)
}
