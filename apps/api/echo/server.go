package echoapi

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	"github.com/pkg/errors"

	"github.com/edumentor/edumentor/core"
	"github.com/edumentor/edumentor/core/chat"
	"github.com/edumentor/edumentor/core/course"
	"github.com/edumentor/edumentor/core/mentorship"
	"github.com/edumentor/edumentor/core/progress"
	"github.com/edumentor/edumentor/core/user"
	"github.com/edumentor/edumentor/services/realtime"
)

type (
	Options struct {
		Conf           *core.Config
		Logger         core.Logger
		Validate       *validator.Validate
		Translator     ut.Translator
		DisableReqLogs bool

		UserSvc       user.Service
		CourseSvc     course.Service
		MentorshipSvc mentorship.Service
		ChatSvc       chat.Service
		ProgressSvc   progress.Service
		Registry      *realtime.Registry
	}

	Server struct {
		opts     *Options
		app      *echo.Echo
		auth     *authenticator
		errors   chan error
		shutdown chan os.Signal
	}
)

func NewServer(opts *Options) *Server {
	s := &Server{
		opts:     opts,
		app:      echo.New(),
		auth:     newAuthenticator(opts.Conf, opts.UserSvc),
		errors:   make(chan error, 1),
		shutdown: make(chan os.Signal, 1),
	}
	if !opts.Conf.TestMode {
		signal.Notify(s.shutdown, os.Interrupt, syscall.SIGTERM)
	}
	s.setup()
	return s
}

func (s *Server) setup() {
	conf := s.opts.Conf

	s.app.HideBanner = true
	s.app.Pre(middleware.RemoveTrailingSlash())
	if !s.opts.DisableReqLogs {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(conf.Debug || conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}
	s.app.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     conf.Server.CORSOrigins,
		AllowCredentials: true,
	}))

	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.opts.Logger, s.opts.Translator, s.SignalShutdown)
	s.app.Debug = conf.Debug

	s.app.GET("/", s.home)

	api := s.app.Group("/api")
	jwt := middleware.JWTWithConfig(s.auth.jwtConfig())
	authed := []echo.MiddlewareFunc{jwt, s.auth.contextUserMiddleware()}

	registerUserAPI(api, authed, s.auth, s.opts.UserSvc, s.opts.Validate)
	registerCourseAPI(api, authed, s.opts.CourseSvc, s.opts.Validate)
	registerMentorshipAPI(api, authed, s.opts.MentorshipSvc, s.opts.Validate)
	registerChatAPI(api, authed, s.opts.ChatSvc, s.opts.Validate)
	registerProgressAPI(api, authed, s.opts.ProgressSvc, s.opts.Validate)
	registerAnnouncementAPI(api, authed, s.opts.Registry, s.opts.Validate)

	wsJWT := middleware.JWTWithConfig(s.auth.jwtConfig("query:token"))
	registerRealtimeAPI(s.app, wsJWT, s.auth, s.opts.Registry, conf.Server.CORSOrigins)
}

// Start listens on the configured address until the Server is shut down; failures are sent to Errors.
func (s *Server) Start() {
	if err := s.app.Start(s.opts.Conf.Server.Address); err != nil && err != http.ErrServerClosed {
		s.errors <- errors.Wrap(err, "starting server")
	}
}

func (s *Server) Errors() <-chan error {
	return s.errors
}

func (s *Server) ShutdownSignal() <-chan os.Signal {
	return s.shutdown
}

// SignalShutdown asks the process to shut down gracefully.
func (s *Server) SignalShutdown() {
	select {
	case s.shutdown <- syscall.SIGTERM:
	default: // already signalled
	}
}

// Shutdown stops accepting requests, waits for in-flight ones and then closes every live connection.
func (s *Server) Shutdown(ctx context.Context) error {
	defer s.opts.Registry.Close()
	return s.app.Shutdown(ctx)
}

func (s *Server) Close() error {
	defer s.opts.Registry.Close()
	return s.app.Close()
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

func (s *Server) home(ctx echo.Context) error {
	return ctx.String(http.StatusOK, fmt.Sprintf(
		"Welcome to %s API! %d live connection(s).", s.opts.Conf.AppName, s.opts.Registry.Len(),
	))
}
