package chat

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/edumentor/edumentor/core"
)

type Message struct {
	ID         string    `json:"id" bson:"id"`
	SenderID   string    `json:"sender_id" bson:"sender_id"`
	ReceiverID string    `json:"receiver_id" bson:"receiver_id"`
	Message    string    `json:"message" bson:"message"`
	Timestamp  time.Time `json:"timestamp" bson:"timestamp"` // UTC
	IsRead     bool      `json:"is_read" bson:"is_read"`
}

// NewMessage contains information needed to send a Message.
type NewMessage struct {
	ReceiverID string `json:"receiver_id" validate:"required"`
	Message    string `json:"message" validate:"required,max=5000"`
}

func (nm *NewMessage) Validate(validate *validator.Validate) error {
	nm.ReceiverID = core.CleanString(nm.ReceiverID)
	nm.Message = core.CleanString(nm.Message)
	return validate.Struct(nm)
}

// Notification is the real-time frame pushed to a message receiver.
type Notification struct {
	Type       string  `json:"type"`
	Data       Message `json:"data"`
	SenderName string  `json:"sender_name"`
}

const NotificationNewMessage = "new_message"
