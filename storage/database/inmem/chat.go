package inmemdb

import (
	"context"

	"github.com/edumentor/edumentor/core"
	"github.com/edumentor/edumentor/core/chat"
)

type messageRepository struct {
	db *messageTable
}

var _ chat.Repository = (*messageRepository)(nil)

func NewMessageRepository(db *DB) chat.Repository {
	return &messageRepository{db: db.message}
}

func (repo *messageRepository) CreateMessage(_ context.Context, m chat.Message) (chat.Message, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	repo.db.table[m.ID] = &m
	return m, nil
}

func (repo *messageRepository) GetMessageByID(_ context.Context, id string) (chat.Message, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if m, ok := repo.db.table[id]; ok {
		return *m, nil
	}
	return chat.Message{}, chat.ErrNotFound
}

func (repo *messageRepository) QueryConversation(_ context.Context, userID, otherID string) ([]chat.Message, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	messages := make([]chat.Message, 0)
	for _, m := range repo.db.table {
		if (m.SenderID == userID && m.ReceiverID == otherID) || (m.SenderID == otherID && m.ReceiverID == userID) {
			messages = append(messages, *m)
		}
	}
	sortByOrdering(messages, []core.DBOrdering{{Field: "timestamp", Ascending: true}}, func(m chat.Message, field string) interface{} {
		return m.Timestamp
	})
	return messages, nil
}

func (repo *messageRepository) MarkMessageRead(_ context.Context, id string) (chat.Message, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	m, ok := repo.db.table[id]
	if !ok {
		return chat.Message{}, chat.ErrNotFound
	}
	m.IsRead = true
	return *m, nil
}
