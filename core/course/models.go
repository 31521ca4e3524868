package course

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/edumentor/edumentor/core"
)

// Levels
const (
	LevelBeginner     = "beginner"
	LevelIntermediate = "intermediate"
	LevelAdvanced     = "advanced"
)

var AllLevels = []string{LevelBeginner, LevelIntermediate, LevelAdvanced}

type Course struct {
	ID            string    `json:"id" bson:"id"`
	Title         string    `json:"title" bson:"title"`
	Description   string    `json:"description" bson:"description"`
	InstructorID  string    `json:"instructor_id" bson:"instructor_id"`
	Category      string    `json:"category" bson:"category"`
	Level         string    `json:"level" bson:"level"`
	DurationHours int       `json:"duration_hours" bson:"duration_hours"`
	Price         float64   `json:"price" bson:"price"`
	Thumbnail     *string   `json:"thumbnail" bson:"thumbnail"`
	VideoURL      *string   `json:"video_url" bson:"video_url"`
	Tags          []string  `json:"tags" bson:"tags"`
	IsPublished   bool      `json:"is_published" bson:"is_published"`
	CreatedAt     time.Time `json:"created_at" bson:"created_at"` // UTC
}

// NewCourse contains information needed to create a new Course.
type NewCourse struct {
	Title         string   `json:"title" validate:"required,max=200"`
	Description   string   `json:"description" validate:"required"`
	Category      string   `json:"category" validate:"required"`
	Level         string   `json:"level" validate:"required,courselevel"`
	DurationHours int      `json:"duration_hours" validate:"gte=0"`
	Price         float64  `json:"price" validate:"gte=0"`
	Thumbnail     *string  `json:"thumbnail" validate:"omitempty,url"`
	VideoURL      *string  `json:"video_url" validate:"omitempty,url"`
	Tags          []string `json:"tags"`
}

func (nc *NewCourse) Validate(validate *validator.Validate) error {
	nc.Title = core.CleanString(nc.Title)
	nc.Description = core.CleanString(nc.Description)
	nc.Category = core.CleanString(nc.Category, true /* lower */)
	nc.Level = core.CleanString(nc.Level, true /* lower */)
	nc.Tags = core.CleanStrings(nc.Tags)
	return validate.Struct(nc)
}

type PublishCourse struct {
	IsPublished *bool `json:"is_published" validate:"required"`
}

func (pc PublishCourse) Validate(validate *validator.Validate) error { return validate.Struct(pc) }

type QueryFilter struct {
	Category string `query:"category"`
	Level    string `query:"level"`
	Search   string `query:"search"`

	// not bindable: the public listing only ever shows published courses
	InstructorID  string `query:"-"`
	PublishedOnly bool   `query:"-"`
}

func (qf *QueryFilter) Clean() {
	qf.Category = core.CleanString(qf.Category, true /* lower */)
	qf.Level = core.CleanString(qf.Level, true /* lower */)
	qf.Search = core.CleanString(qf.Search)
}
