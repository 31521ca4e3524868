package mongorepos

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/edumentor/edumentor/core"
	"github.com/edumentor/edumentor/core/course"
	"github.com/edumentor/edumentor/core/progress"
	"github.com/edumentor/edumentor/core/user"
)

func TestSortDoc(t *testing.T) {
	doc := sortDoc([]core.DBOrdering{{Field: "scheduled_at", Ascending: true}, {Field: "created_at"}})
	assert.Equal(t, bson.D{{Key: "scheduled_at", Value: 1}, {Key: "created_at", Value: -1}}, doc)
	assert.Empty(t, sortDoc(nil))
}

// prepareDB connects to the server named by EDUMENTOR_TEST_MONGO_URI, using a throwaway database.
func prepareDB(t *testing.T) *mongo.Database {
	uri := os.Getenv("EDUMENTOR_TEST_MONGO_URI")
	if uri == "" {
		t.Skip("EDUMENTOR_TEST_MONGO_URI not set")
	}
	conf := core.NewTestConfig()
	conf.Database.URI = uri
	conf.Database.Name = "edumentor_test_" + uuid.NewString()[:8]
	conf.Database.ConnectTimeout = 5 * time.Second

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	db, err := Open(ctx, conf)
	require.NoError(t, err)
	require.NoError(t, EnsureIndexes(ctx, db))

	t.Cleanup(func() {
		_ = db.Drop(context.Background())
		_ = Close(context.Background(), db)
	})
	return db
}

func TestUserRepository(t *testing.T) {
	db := prepareDB(t)
	ctx := context.Background()
	repo := NewUserRepository(db)

	usr := user.User{ID: uuid.NewString(), Email: "alice@example.com", FullName: "Alice Johnson", Role: user.RoleStudent, Skills: []string{}, IsActive: true, PasswordHash: []byte("hash"), CreatedAt: time.Now().UTC()}
	_, err := repo.CreateUser(ctx, usr)
	require.NoError(t, err)

	_, err = repo.CreateUser(ctx, user.User{ID: uuid.NewString(), Email: "alice@example.com"})
	assert.Equal(t, user.ErrEmailExists, err)

	got, err := repo.GetUser(ctx, user.GetFilter{Email: "alice@example.com"})
	require.NoError(t, err)
	assert.Equal(t, usr.ID, got.ID)
	assert.Equal(t, []byte("hash"), got.PasswordHash)

	got.FullName = "Alice J."
	got.PasswordHash = nil
	updated, err := repo.UpdateUser(ctx, got)
	require.NoError(t, err)
	assert.Equal(t, "Alice J.", updated.FullName)
	assert.Equal(t, []byte("hash"), updated.PasswordHash)

	users, err := repo.FilterUsers(ctx, user.QueryFilter{Search: "j."}, nil)
	require.NoError(t, err)
	assert.Len(t, users, 1)

	_, err = repo.GetUser(ctx, user.GetFilter{ID: "missing"})
	assert.Equal(t, user.ErrNotFound, err)
}

func TestCourseRepository_FilterCourses(t *testing.T) {
	db := prepareDB(t)
	ctx := context.Background()
	repo := NewCourseRepository(db)

	now := time.Now().UTC().Truncate(time.Millisecond)
	for i, c := range []course.Course{
		{ID: "c1", Title: "Intro to Go", Category: "programming", Level: course.LevelBeginner, IsPublished: true},
		{ID: "c2", Title: "Go (advanced)", Category: "programming", Level: course.LevelAdvanced, IsPublished: true},
		{ID: "c3", Title: "Draft", Category: "programming", Level: course.LevelBeginner},
	} {
		c.CreatedAt = now.Add(time.Duration(i) * time.Second)
		_, err := repo.CreateCourse(ctx, c)
		require.NoError(t, err)
	}

	ordering := []core.DBOrdering{{Field: "created_at", Ascending: true}}
	courses, err := repo.FilterCourses(ctx, course.QueryFilter{PublishedOnly: true}, ordering)
	require.NoError(t, err)
	require.Len(t, courses, 2)
	assert.Equal(t, "c1", courses[0].ID)

	// regex metacharacters are matched literally
	courses, err = repo.FilterCourses(ctx, course.QueryFilter{Search: "(ADVANCED)"}, ordering)
	require.NoError(t, err)
	require.Len(t, courses, 1)
	assert.Equal(t, "c2", courses[0].ID)
}

func TestProgressRepository_Upsert(t *testing.T) {
	db := prepareDB(t)
	ctx := context.Background()
	repo := NewProgressRepository(db)

	first, err := repo.UpsertProgress(ctx, progress.Progress{ID: "p1", UserID: "u", CourseID: "c", CompletionPercentage: 10, CompletedLessons: []string{"l1"}, LastAccessed: time.Now().UTC()})
	require.NoError(t, err)
	assert.Equal(t, "p1", first.ID)

	second, err := repo.UpsertProgress(ctx, progress.Progress{ID: "p2", UserID: "u", CourseID: "c", CompletionPercentage: 40, CompletedLessons: []string{"l1", "l2"}, LastAccessed: time.Now().UTC()})
	require.NoError(t, err)
	assert.Equal(t, "p1", second.ID)
	assert.Equal(t, 40.0, second.CompletionPercentage)
	assert.ElementsMatch(t, []string{"l1", "l2"}, second.CompletedLessons)
}
