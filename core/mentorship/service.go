package mentorship

import (
	"context"
	"net/mail"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/edumentor/edumentor/core"
	"github.com/edumentor/edumentor/core/user"
)

var (
	// errors
	ErrNotFound         = errors.New("session not found")
	ErrMentorNotFound   = errors.New("mentor not found")
	ErrNotParticipant   = errors.New("not a participant of this session")
	ErrStatusTransition = errors.New("only scheduled sessions can be completed or cancelled")
)

type (
	Repository interface {
		CreateSession(ctx context.Context, s Session) (Session, error)
		GetSessionByID(ctx context.Context, id string) (Session, error)
		FilterSessions(ctx context.Context, filter QueryFilter, ordering []core.DBOrdering) ([]Session, error)
		UpdateSession(ctx context.Context, s Session) (Session, error)
	}

	// Notifier pushes best-effort real-time notifications to a user.
	Notifier interface {
		SendTo(identity string, payload interface{}) bool
	}

	Service interface {
		Book(ctx context.Context, student user.User, ns NewSession) (Session, error)
		QueryFor(ctx context.Context, usr user.User) ([]Session, error)
		Update(ctx context.Context, actor user.User, id string, us UpdateSession) (Session, error)
	}

	service struct {
		repo     Repository
		usrSvc   user.Service
		mailSvc  core.EmailService
		notifier Notifier
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository, usrSvc user.Service, mailSvc core.EmailService, notifier Notifier) Service {
	return &service{
		repo:     repo,
		usrSvc:   usrSvc,
		mailSvc:  mailSvc,
		notifier: notifier,
	}
}

func (svc *service) Book(ctx context.Context, student user.User, ns NewSession) (Session, error) {
	mentor, err := svc.usrSvc.GetByID(ctx, ns.MentorID)
	if err != nil {
		if errors.Cause(err) == user.ErrNotFound {
			return Session{}, ErrMentorNotFound
		}
		return Session{}, errors.Wrap(err, "finding mentor")
	}
	if !mentor.IsMentor() {
		return Session{}, ErrMentorNotFound
	}

	s, err := svc.repo.CreateSession(ctx, Session{
		ID:              uuid.NewString(),
		MentorID:        mentor.ID,
		StudentID:       student.ID,
		Title:           ns.Title,
		Description:     ns.Description,
		ScheduledAt:     ns.ScheduledAt.UTC(),
		DurationMinutes: ns.DurationMinutes,
		Status:          StatusScheduled,
		CreatedAt:       time.Now().UTC(),
	})
	if err != nil {
		return Session{}, errors.Wrap(err, "creating session")
	}

	// the session is stored: notifications are best-effort from here on
	svc.notifier.SendTo(mentor.ID, map[string]interface{}{
		"type":         "session_booked",
		"data":         s,
		"student_name": student.FullName,
	})
	svc.sendBookedMail(mentor, student, s)
	return s, nil
}

func (svc *service) QueryFor(ctx context.Context, usr user.User) ([]Session, error) {
	var filter QueryFilter
	switch usr.Role {
	case user.RoleStudent:
		filter.StudentID = usr.ID
	case user.RoleMentor:
		filter.MentorID = usr.ID
	case user.RoleAdmin: // all
	default:
		return []Session{}, nil
	}
	return svc.repo.FilterSessions(ctx, filter, []core.DBOrdering{{Field: "scheduled_at", Ascending: true}})
}

func (svc *service) Update(ctx context.Context, actor user.User, id string, us UpdateSession) (Session, error) {
	s, err := svc.repo.GetSessionByID(ctx, id)
	if err != nil {
		return Session{}, err
	}
	if !s.IsParticipant(actor.ID) && !actor.IsAdmin() {
		return Session{}, ErrNotParticipant
	}
	if us.Status != "" && us.Status != s.Status {
		if s.Status != StatusScheduled {
			return Session{}, ErrStatusTransition
		}
		s.Status = us.Status
	}
	if us.MeetingLink != nil {
		s.MeetingLink = us.MeetingLink
	}
	if us.Notes != nil {
		s.Notes = us.Notes
	}
	return svc.repo.UpdateSession(ctx, s)
}

func (svc *service) sendBookedMail(mentor, student user.User, s Session) {
	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:           []mail.Address{{Name: mentor.FullName, Address: mentor.Email}},
		Subject:      "New mentorship session: " + s.Title,
		TemplateName: "session_booked",
		TemplateData: map[string]interface{}{
			"MentorName":      mentor.FullName,
			"StudentName":     student.FullName,
			"Title":           s.Title,
			"ScheduledAt":     s.ScheduledAt.Format(time.RFC1123),
			"DurationMinutes": s.DurationMinutes,
		},
	})
}
