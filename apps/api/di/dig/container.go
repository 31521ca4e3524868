package dig_container

import (
	"context"
	"fmt"
	"log"
	"os"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"go.uber.org/dig"

	echoapi "github.com/edumentor/edumentor/apps/api/echo"
	"github.com/edumentor/edumentor/core"
	"github.com/edumentor/edumentor/core/chat"
	"github.com/edumentor/edumentor/core/course"
	"github.com/edumentor/edumentor/core/mentorship"
	"github.com/edumentor/edumentor/core/progress"
	"github.com/edumentor/edumentor/core/user"
	emailsvc "github.com/edumentor/edumentor/services/email"
	logsvc "github.com/edumentor/edumentor/services/logger"
	"github.com/edumentor/edumentor/services/realtime"
	"github.com/edumentor/edumentor/storage/database"
)

type DBLoggerParam struct {
	dig.In
	Logger core.Logger `name:"dbLogger"`
}

func newLogger(conf *core.Config) core.Logger {
	std := logsvc.NewStdLogger(conf, os.Stdout).With().Str("component", "api").Logger()
	logger := logsvc.NewRollbarLogger(std, conf)
	logger.Enable(!conf.Debug)
	return logger
}

func newDBLogger(conf *core.Config) core.Logger {
	std := logsvc.NewStdLogger(conf, os.Stdout).With().Str("component", "db").Caller().Logger()
	logger := logsvc.NewRollbarLogger(std, conf)
	logger.Enable(!conf.Debug)
	return logger
}

func newDB(conf *core.Config, loggerParam DBLoggerParam) *database.Repositories {
	ctx, cancel := context.WithTimeout(context.Background(), conf.Database.ConnectTimeout)
	defer cancel()

	repos, err := database.Open(ctx, conf)
	if err != nil {
		loggerParam.Logger.Fatal(fmt.Sprintf("setting up database: %v", err), err)
	}
	loggerParam.Logger.Info(fmt.Sprintf("database ready: engine %q", conf.Database.Engine))
	return repos
}

type repositories struct {
	dig.Out

	User     user.Repository
	Course   course.Repository
	Session  mentorship.Repository
	Message  chat.Repository
	Progress progress.Repository
}

func splitRepositories(repos *database.Repositories) repositories {
	return repositories{
		User:     repos.User,
		Course:   repos.Course,
		Session:  repos.Session,
		Message:  repos.Message,
		Progress: repos.Progress,
	}
}

func newEmailService(conf *core.Config, logger core.Logger) core.EmailService {
	if conf.Debug || conf.SendgridApiKey == "" {
		return emailsvc.NewConsoleService(conf, logger)
	}
	return emailsvc.NewSendgridService(conf, logger)
}

func newValidator(translator ut.Translator) *validator.Validate {
	validate := validator.New()
	core.InitValidators(validate, translator)
	user.InitValidators(validate, translator)
	course.InitValidators(validate, translator)
	return validate
}

// notifiers exposes the Registry under the Notifier interface of each core package.
type notifiers struct {
	dig.Out

	Mentorship mentorship.Notifier
	Chat       chat.Notifier
}

func newNotifiers(registry *realtime.Registry) notifiers {
	return notifiers{Mentorship: registry, Chat: registry}
}

type serverParams struct {
	dig.In

	Conf          *core.Config
	Logger        core.Logger
	Validate      *validator.Validate
	Translator    ut.Translator
	UserSvc       user.Service
	CourseSvc     course.Service
	MentorshipSvc mentorship.Service
	ChatSvc       chat.Service
	ProgressSvc   progress.Service
	Registry      *realtime.Registry
}

func newServer(p serverParams) *echoapi.Server {
	return echoapi.NewServer(&echoapi.Options{
		Conf:          p.Conf,
		Logger:        p.Logger,
		Validate:      p.Validate,
		Translator:    p.Translator,
		UserSvc:       p.UserSvc,
		CourseSvc:     p.CourseSvc,
		MentorshipSvc: p.MentorshipSvc,
		ChatSvc:       p.ChatSvc,
		ProgressSvc:   p.ProgressSvc,
		Registry:      p.Registry,
	})
}

// New returns a new dependency injection dig.Container
func New() *dig.Container {
	c := dig.New()

	must(c.Provide(core.NewConfig))
	must(c.Provide(newLogger))
	must(c.Provide(newDBLogger, dig.Name("dbLogger")))
	must(c.Provide(newDB))
	must(c.Provide(splitRepositories))
	must(c.Provide(newEmailService))
	must(c.Provide(core.NewTranslator))
	must(c.Provide(newValidator))
	must(c.Provide(realtime.NewRegistry))
	must(c.Provide(newNotifiers))
	must(c.Provide(user.NewService))
	must(c.Provide(course.NewService))
	must(c.Provide(mentorship.NewService))
	must(c.Provide(chat.NewService))
	must(c.Provide(progress.NewService))
	must(c.Provide(newServer))

	return c
}

// must exits program if err happened
func must(err error) {
	if err != nil {
		log.Fatal(errors.Wrap(err, "failed to provide dependency").Error())
	}
}
