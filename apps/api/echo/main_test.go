package echoapi_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	. "github.com/edumentor/edumentor/apps/api/echo"
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

var (
	errMissingToken = httpErr{Error: "missing or malformed jwt"}
	errInvalidToken = httpErr{Error: "invalid or expired jwt"}
	errForbidden    = httpErr{Error: "Insufficient permissions"}
	errNoUser       = httpErr{Error: "User not found"}
)

type testApp struct {
	conf     *core.Config
	server   *Server
	repos    *database.Repositories
	mailSvc  *emailsvc.ConsoleServiceMock
	registry *realtime.Registry
}

func setup(t *testing.T) *testApp {
	conf := core.NewTestConfig()
	logger := logsvc.NewRollbarLogger(logsvc.NewStdLogger(conf, io.Discard), conf)
	logger.Enable(false)

	// set up DB & repos
	repos, err := database.Open(context.Background(), conf)
	require.NoError(t, err)

	// set up services
	translator := core.NewTranslator()
	validate := validator.New()
	core.InitValidators(validate, translator)
	user.InitValidators(validate, translator)
	course.InitValidators(validate, translator)

	mailSvc := emailsvc.NewConsoleServiceMock(conf)
	registry := realtime.NewRegistry(logger)
	usrSvc := user.NewService(conf, repos.User, mailSvc)
	courseSvc := course.NewService(repos.Course)

	// set up server
	server := NewServer(&Options{
		Conf:           conf,
		Logger:         logger,
		Validate:       validate,
		Translator:     translator,
		DisableReqLogs: true,
		UserSvc:        usrSvc,
		CourseSvc:      courseSvc,
		MentorshipSvc:  mentorship.NewService(repos.Session, usrSvc, mailSvc, registry),
		ChatSvc:        chat.NewService(repos.Message, usrSvc, registry),
		ProgressSvc:    progress.NewService(repos.Progress, courseSvc),
		Registry:       registry,
	})
	t.Cleanup(func() { _ = server.Close() })

	return &testApp{
		conf:     conf,
		server:   server,
		repos:    repos,
		mailSvc:  mailSvc,
		registry: registry,
	}
}

type httpErr struct {
	Error string `json:"error"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	token    string
	wantCode int
	wantData []byte
	extra    interface{}
}

func (app *testApp) do(tt httpTest) *httptest.ResponseRecorder {
	method := tt.method
	if method == "" {
		method = http.MethodGet
	}
	req, rec := newAuthRequest(method, tt.path, tt.token, tt.body)
	app.server.ServeHTTP(rec, req)
	return rec
}

func newAuthRequest(method, path, token string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	return req, rec
}

func getToken(t *testing.T, conf *core.Config, usr user.User) string {
	claims := GetUserClaims(conf, usr)
	token, err := GenerateToken(conf, claims)
	if err != nil {
		t.Fatalf("getToken(): %v", err)
	}
	return token
}

func marshalObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marshalObj(): %v", err)
	}
	return data
}

func marshalList(t *testing.T, objs ...interface{}) []byte {
	if objs == nil {
		objs = []interface{}{}
	}
	data, err := json.Marshal(objs)
	if err != nil {
		t.Fatalf("marshalList(): %v", err)
	}
	return data
}

func unmarshal(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("unmarshal(): %v; body %s", err, rec.Body.String())
	}
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	wantCode := tt.wantCode
	if wantCode == 0 {
		wantCode = http.StatusOK
	}
	assert.Equal(t, wantCode, rec.Code, "body: %s", rec.Body.String())
	if tt.wantData != nil {
		assert.JSONEq(t, string(tt.wantData), rec.Body.String())
	}
}

func runHTTPTests(t *testing.T, app *testApp, tests []httpTest) {
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checkCodeAndData(t, tt, app.do(tt))
		})
	}
}
