package mentorship

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/edumentor/edumentor/core"
)

// Statuses
const (
	StatusScheduled = "scheduled"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

const defaultDurationMinutes = 60

type Session struct {
	ID              string    `json:"id" bson:"id"`
	MentorID        string    `json:"mentor_id" bson:"mentor_id"`
	StudentID       string    `json:"student_id" bson:"student_id"`
	Title           string    `json:"title" bson:"title"`
	Description     *string   `json:"description" bson:"description"`
	ScheduledAt     time.Time `json:"scheduled_at" bson:"scheduled_at"`
	DurationMinutes int       `json:"duration_minutes" bson:"duration_minutes"`
	Status          string    `json:"status" bson:"status"`
	MeetingLink     *string   `json:"meeting_link" bson:"meeting_link"`
	Notes           *string   `json:"notes" bson:"notes"`
	CreatedAt       time.Time `json:"created_at" bson:"created_at"` // UTC
}

// IsParticipant reports whether the given user ID is the mentor or the student of the Session.
func (s Session) IsParticipant(userID string) bool {
	return s.MentorID == userID || s.StudentID == userID
}

// NewSession contains information needed to book a new Session.
type NewSession struct {
	MentorID        string    `json:"mentor_id" validate:"required"`
	Title           string    `json:"title" validate:"required,max=200"`
	Description     *string   `json:"description"`
	ScheduledAt     time.Time `json:"scheduled_at" validate:"required"`
	DurationMinutes int       `json:"duration_minutes" validate:"gte=0,lte=480"`
}

func (ns *NewSession) Validate(validate *validator.Validate) error {
	ns.MentorID = core.CleanString(ns.MentorID)
	ns.Title = core.CleanString(ns.Title)
	if ns.DurationMinutes == 0 {
		ns.DurationMinutes = defaultDurationMinutes
	}
	return validate.Struct(ns)
}

// UpdateSession defines what information a participant may change on a Session.
type UpdateSession struct {
	Status      string  `json:"status" validate:"omitempty,oneof=completed cancelled"`
	MeetingLink *string `json:"meeting_link" validate:"omitempty,url"`
	Notes       *string `json:"notes" validate:"omitempty,notblank,max=5000"`
}

func (us *UpdateSession) Validate(validate *validator.Validate) error {
	us.Status = core.CleanString(us.Status, true /* lower */)
	return validate.Struct(us)
}

// QueryFilter applies AND operation on its non-empty fields; an empty filter matches all Sessions.
type QueryFilter struct {
	MentorID  string
	StudentID string
}
