package mongorepos

import (
	"context"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/edumentor/edumentor/core/chat"
)

type messageRepository struct {
	coll *mongo.Collection
}

var _ chat.Repository = (*messageRepository)(nil)

func NewMessageRepository(db *mongo.Database) chat.Repository {
	return &messageRepository{coll: db.Collection(messagesCollection)}
}

func (repo *messageRepository) CreateMessage(ctx context.Context, m chat.Message) (chat.Message, error) {
	if _, err := repo.coll.InsertOne(ctx, m); err != nil {
		return chat.Message{}, errors.Wrap(err, "inserting message")
	}
	return m, nil
}

func (repo *messageRepository) GetMessageByID(ctx context.Context, id string) (chat.Message, error) {
	var m chat.Message
	if err := repo.coll.FindOne(ctx, bson.M{"id": id}).Decode(&m); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return chat.Message{}, chat.ErrNotFound
		}
		return chat.Message{}, errors.Wrap(err, "finding message")
	}
	return m, nil
}

func (repo *messageRepository) QueryConversation(ctx context.Context, userID, otherID string) ([]chat.Message, error) {
	query := bson.M{"$or": bson.A{
		bson.M{"sender_id": userID, "receiver_id": otherID},
		bson.M{"sender_id": otherID, "receiver_id": userID},
	}}
	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: 1}})
	messages, err := findAll[chat.Message](ctx, repo.coll, query, opts)
	return messages, errors.Wrap(err, "querying conversation")
}

func (repo *messageRepository) MarkMessageRead(ctx context.Context, id string) (chat.Message, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var m chat.Message
	err := repo.coll.FindOneAndUpdate(ctx, bson.M{"id": id}, bson.M{"$set": bson.M{"is_read": true}}, opts).Decode(&m)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return chat.Message{}, chat.ErrNotFound
		}
		return chat.Message{}, errors.Wrap(err, "marking message read")
	}
	return m, nil
}
