package mongorepos

import (
	"context"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/edumentor/edumentor/core/progress"
)

type progressRepository struct {
	coll *mongo.Collection
}

var _ progress.Repository = (*progressRepository)(nil)

func NewProgressRepository(db *mongo.Database) progress.Repository {
	return &progressRepository{coll: db.Collection(progressCollection)}
}

func (repo *progressRepository) UpsertProgress(ctx context.Context, p progress.Progress) (progress.Progress, error) {
	lessons := p.CompletedLessons
	if lessons == nil {
		lessons = []string{}
	}
	update := bson.M{
		"$set": bson.M{
			"completion_percentage": p.CompletionPercentage,
			"last_accessed":         p.LastAccessed,
		},
		"$setOnInsert": bson.M{"id": p.ID},
		"$addToSet":    bson.M{"completed_lessons": bson.M{"$each": lessons}},
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var stored progress.Progress
	err := repo.coll.FindOneAndUpdate(ctx, bson.M{"user_id": p.UserID, "course_id": p.CourseID}, update, opts).Decode(&stored)
	if err != nil {
		return progress.Progress{}, errors.Wrap(err, "upserting progress")
	}
	return stored, nil
}

func (repo *progressRepository) QueryUserProgress(ctx context.Context, userID string) ([]progress.Progress, error) {
	opts := options.Find().SetSort(bson.D{{Key: "last_accessed", Value: -1}})
	records, err := findAll[progress.Progress](ctx, repo.coll, bson.M{"user_id": userID}, opts)
	return records, errors.Wrap(err, "querying progress")
}
