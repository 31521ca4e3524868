package mongorepos

import (
	"context"
	"regexp"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/edumentor/edumentor/core"
	"github.com/edumentor/edumentor/core/user"
)

type userRepository struct {
	coll *mongo.Collection
}

var _ user.Repository = (*userRepository)(nil)

func NewUserRepository(db *mongo.Database) user.Repository {
	return &userRepository{coll: db.Collection(usersCollection)}
}

func (repo *userRepository) CreateUser(ctx context.Context, usr user.User) (user.User, error) {
	if _, err := repo.coll.InsertOne(ctx, usr); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return user.User{}, user.ErrEmailExists
		}
		return user.User{}, errors.Wrap(err, "inserting user")
	}
	return usr, nil
}

func (repo *userRepository) GetUser(ctx context.Context, filter user.GetFilter) (user.User, error) {
	var query bson.M
	switch {
	case filter.ID != "":
		query = bson.M{"id": filter.ID}
	case filter.Email != "":
		query = bson.M{"email": filter.Email}
	default:
		return user.User{}, user.ErrNotFound
	}

	var usr user.User
	if err := repo.coll.FindOne(ctx, query).Decode(&usr); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return user.User{}, user.ErrNotFound
		}
		return user.User{}, errors.Wrap(err, "finding user")
	}
	return usr, nil
}

func (repo *userRepository) FilterUsers(ctx context.Context, filter user.QueryFilter, ordering []core.DBOrdering) ([]user.User, error) {
	query := bson.M{}
	if filter.Search != "" {
		rx := primitive.Regex{Pattern: regexp.QuoteMeta(filter.Search), Options: "i"}
		query["$or"] = bson.A{bson.M{"full_name": rx}, bson.M{"email": rx}}
	}
	if len(filter.Roles) > 0 {
		query["role"] = bson.M{"$in": filter.Roles}
	}
	if len(filter.Skills) > 0 {
		query["skills"] = bson.M{"$in": filter.Skills}
	}
	if filter.IsActive != nil {
		query["is_active"] = *filter.IsActive
	}

	users, err := findAll[user.User](ctx, repo.coll, query, options.Find().SetSort(sortDoc(ordering)))
	return users, errors.Wrap(err, "filtering users")
}

func (repo *userRepository) UpdateUser(ctx context.Context, usr user.User) (user.User, error) {
	set := bson.M{
		"email":         usr.Email,
		"full_name":     usr.FullName,
		"role":          usr.Role,
		"skills":        usr.Skills,
		"interests":     usr.Interests,
		"bio":           usr.Bio,
		"profile_image": usr.ProfileImage,
		"is_active":     usr.IsActive,
		"updated_at":    usr.UpdatedAt,
		"last_login":    usr.LastLogin,
	}
	// only overwrite the hash when a new one is set
	if usr.PasswordHash != nil {
		set["hashed_password"] = usr.PasswordHash
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var updated user.User
	err := repo.coll.FindOneAndUpdate(ctx, bson.M{"id": usr.ID}, bson.M{"$set": set}, opts).Decode(&updated)
	switch {
	case err == nil:
		return updated, nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return user.User{}, user.ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return user.User{}, user.ErrEmailExists
	default:
		return user.User{}, errors.Wrap(err, "updating user")
	}
}

func (repo *userRepository) DeleteUsersByID(ctx context.Context, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := repo.coll.DeleteMany(ctx, bson.M{"id": bson.M{"$in": ids}})
	return errors.Wrap(err, "deleting users")
}
