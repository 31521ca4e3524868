package mongorepos

import (
	"context"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/edumentor/edumentor/core"
	"github.com/edumentor/edumentor/core/mentorship"
)

type sessionRepository struct {
	coll *mongo.Collection
}

var _ mentorship.Repository = (*sessionRepository)(nil)

func NewSessionRepository(db *mongo.Database) mentorship.Repository {
	return &sessionRepository{coll: db.Collection(sessionsCollection)}
}

func (repo *sessionRepository) CreateSession(ctx context.Context, s mentorship.Session) (mentorship.Session, error) {
	if _, err := repo.coll.InsertOne(ctx, s); err != nil {
		return mentorship.Session{}, errors.Wrap(err, "inserting session")
	}
	return s, nil
}

func (repo *sessionRepository) GetSessionByID(ctx context.Context, id string) (mentorship.Session, error) {
	var s mentorship.Session
	if err := repo.coll.FindOne(ctx, bson.M{"id": id}).Decode(&s); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return mentorship.Session{}, mentorship.ErrNotFound
		}
		return mentorship.Session{}, errors.Wrap(err, "finding session")
	}
	return s, nil
}

func (repo *sessionRepository) FilterSessions(ctx context.Context, filter mentorship.QueryFilter, ordering []core.DBOrdering) ([]mentorship.Session, error) {
	query := bson.M{}
	if filter.MentorID != "" {
		query["mentor_id"] = filter.MentorID
	}
	if filter.StudentID != "" {
		query["student_id"] = filter.StudentID
	}
	sessions, err := findAll[mentorship.Session](ctx, repo.coll, query, options.Find().SetSort(sortDoc(ordering)))
	return sessions, errors.Wrap(err, "filtering sessions")
}

func (repo *sessionRepository) UpdateSession(ctx context.Context, s mentorship.Session) (mentorship.Session, error) {
	res, err := repo.coll.ReplaceOne(ctx, bson.M{"id": s.ID}, s)
	if err != nil {
		return mentorship.Session{}, errors.Wrap(err, "updating session")
	}
	if res.MatchedCount == 0 {
		return mentorship.Session{}, mentorship.ErrNotFound
	}
	return s, nil
}
