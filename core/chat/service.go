package chat

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/edumentor/edumentor/core/user"
)

var (
	// errors
	ErrNotFound         = errors.New("message not found")
	ErrReceiverNotFound = errors.New("receiver not found")
	ErrNotReceiver      = errors.New("only the receiver can mark a message as read")
)

type (
	Repository interface {
		CreateMessage(ctx context.Context, m Message) (Message, error)
		GetMessageByID(ctx context.Context, id string) (Message, error)
		// QueryConversation returns the messages exchanged between both users, oldest first.
		QueryConversation(ctx context.Context, userID, otherID string) ([]Message, error)
		MarkMessageRead(ctx context.Context, id string) (Message, error)
	}

	// Notifier pushes best-effort real-time notifications to a user.
	Notifier interface {
		SendTo(identity string, payload interface{}) bool
	}

	Service interface {
		Send(ctx context.Context, sender user.User, nm NewMessage) (Message, error)
		Conversation(ctx context.Context, usr user.User, otherID string) ([]Message, error)
		MarkRead(ctx context.Context, usr user.User, id string) (Message, error)
	}

	service struct {
		repo     Repository
		usrSvc   user.Service
		notifier Notifier
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository, usrSvc user.Service, notifier Notifier) Service {
	return &service{
		repo:     repo,
		usrSvc:   usrSvc,
		notifier: notifier,
	}
}

// Send stores the Message first, then notifies the receiver if they are online.
// Notification failures never fail Send: the stored Message is the source of truth.
func (svc *service) Send(ctx context.Context, sender user.User, nm NewMessage) (Message, error) {
	if _, err := svc.usrSvc.GetByID(ctx, nm.ReceiverID); err != nil {
		if errors.Cause(err) == user.ErrNotFound {
			return Message{}, ErrReceiverNotFound
		}
		return Message{}, errors.Wrap(err, "finding receiver")
	}

	msg, err := svc.repo.CreateMessage(ctx, Message{
		ID:         uuid.NewString(),
		SenderID:   sender.ID,
		ReceiverID: nm.ReceiverID,
		Message:    nm.Message,
		Timestamp:  time.Now().UTC(),
	})
	if err != nil {
		return Message{}, errors.Wrap(err, "creating message")
	}

	svc.notifier.SendTo(msg.ReceiverID, Notification{
		Type:       NotificationNewMessage,
		Data:       msg,
		SenderName: sender.FullName,
	})
	return msg, nil
}

func (svc *service) Conversation(ctx context.Context, usr user.User, otherID string) ([]Message, error) {
	return svc.repo.QueryConversation(ctx, usr.ID, otherID)
}

func (svc *service) MarkRead(ctx context.Context, usr user.User, id string) (Message, error) {
	msg, err := svc.repo.GetMessageByID(ctx, id)
	if err != nil {
		return Message{}, err
	}
	if msg.ReceiverID != usr.ID {
		return Message{}, ErrNotReceiver
	}
	if msg.IsRead {
		return msg, nil
	}
	return svc.repo.MarkMessageRead(ctx, id)
}
