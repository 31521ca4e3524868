package database

import (
	"context"

	"github.com/pkg/errors"

	"github.com/edumentor/edumentor/core"
	"github.com/edumentor/edumentor/core/chat"
	"github.com/edumentor/edumentor/core/course"
	"github.com/edumentor/edumentor/core/mentorship"
	"github.com/edumentor/edumentor/core/progress"
	"github.com/edumentor/edumentor/core/user"
	inmemdb "github.com/edumentor/edumentor/storage/database/inmem"
	mongorepos "github.com/edumentor/edumentor/storage/database/mongo"
)

// engines
const (
	EngineInMem = "inmem"
	EngineMongo = "mongo"
)

// Repositories groups the repositories of every core package, backed by a single store.
type Repositories struct {
	User      user.Repository
	Course    course.Repository
	Session   mentorship.Repository
	Message   chat.Repository
	Progress  progress.Repository
	closeFunc func(context.Context) error
}

// Close releases the underlying store.
func (r *Repositories) Close(ctx context.Context) error {
	if r.closeFunc == nil {
		return nil
	}
	return r.closeFunc(ctx)
}

// Open sets up the store selected by conf.Database.Engine and returns its repositories.
func Open(ctx context.Context, conf *core.Config) (*Repositories, error) {
	switch conf.Database.Engine {
	case EngineInMem, "":
		db := inmemdb.Open()
		return &Repositories{
			User:     inmemdb.NewUserRepository(db),
			Course:   inmemdb.NewCourseRepository(db),
			Session:  inmemdb.NewSessionRepository(db),
			Message:  inmemdb.NewMessageRepository(db),
			Progress: inmemdb.NewProgressRepository(db),
		}, nil

	case EngineMongo:
		db, err := mongorepos.Open(ctx, conf)
		if err != nil {
			return nil, errors.Wrap(err, "opening database")
		}
		if err = mongorepos.EnsureIndexes(ctx, db); err != nil {
			_ = mongorepos.Close(ctx, db)
			return nil, errors.Wrap(err, "ensuring indexes")
		}
		return &Repositories{
			User:      mongorepos.NewUserRepository(db),
			Course:    mongorepos.NewCourseRepository(db),
			Session:   mongorepos.NewSessionRepository(db),
			Message:   mongorepos.NewMessageRepository(db),
			Progress:  mongorepos.NewProgressRepository(db),
			closeFunc: func(ctx context.Context) error { return mongorepos.Close(ctx, db) },
		}, nil

	default:
		return nil, errors.Errorf("unknown database engine %q", conf.Database.Engine)
	}
}
