package main

import (
	"bytes"
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edumentor/edumentor/core"
	"github.com/edumentor/edumentor/core/course"
	"github.com/edumentor/edumentor/core/mentorship"
	"github.com/edumentor/edumentor/core/user"
	"github.com/edumentor/edumentor/storage/database"
	"github.com/edumentor/edumentor/testutil"
)

var usrRepo user.Repository

func setup(t *testing.T) *commandLine {
	logger = zerolog.Nop()

	// set up DB & repos
	repos, err := database.Open(context.Background(), core.NewTestConfig())
	require.NoError(t, err)
	usrRepo = repos.User

	// start CLI
	return &commandLine{repos: repos}
}

type cliTest struct {
	name    string
	args    []string // without program name
	wantErr error
	extra   interface{}
}

type extra struct {
	pwd string
}

func mockPassword(tt cliTest) {
	readPasswordFunc = func(fd int) ([]byte, error) {
		if extra, ok := tt.extra.(extra); ok {
			return []byte(extra.pwd), nil
		}
		return nil, nil
	}
}

func Test_commandLine_addUser(t *testing.T) {
	cli := setup(t)

	existing := testutil.CreateUser(t, usrRepo, "Old Name", "old@test.cd", "pwd", user.RoleStudent, false)

	tests := []cliTest{
		{name: "no args", args: []string{"adduser"}, wantErr: errHelp},
		{name: "email but no name", args: []string{"adduser", "-email", "a@test.cd"}, wantErr: errHelp},
		{name: "no password", args: []string{"adduser", "-email", "a@test.cd", "-name", "A"}, wantErr: errHelp},
		{name: "bad flag", args: []string{"adduser", "-lol"}, wantErr: errHelp},
		{
			name:    "invalid role",
			args:    []string{"adduser", "-email", "a@test.cd", "-name", "A", "-role", "king"},
			extra:   extra{pwd: "lol"},
			wantErr: errInvalidRole,
		},
		{name: "create admin", args: []string{"adduser", "-email", "Admin@Test.cd", "-name", " Admin "}, extra: extra{pwd: "lol"}},
		{
			name:  "update existing",
			args:  []string{"adduser", "-email", existing.Email, "-name", "New Name", "-role", "mentor"},
			extra: extra{pwd: "lmao"},
		},
	}
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)
		mockPassword(tt)

		t.Run(tt.name, func(t *testing.T) {
			err := cli.run(args)
			assert.Equal(t, tt.wantErr, err)
		})
	}

	ctx := context.Background()
	admin, err := usrRepo.GetUser(ctx, user.GetFilter{Email: "admin@test.cd"})
	if assert.NoError(t, err) {
		assert.Equal(t, "Admin", admin.FullName)
		assert.Equal(t, user.RoleAdmin, admin.Role)
		assert.True(t, admin.IsActive)
		assert.NoError(t, admin.CheckPassword("lol"))
	}

	updated, err := usrRepo.GetUser(ctx, user.GetFilter{ID: existing.ID})
	if assert.NoError(t, err) {
		assert.Equal(t, "New Name", updated.FullName)
		assert.Equal(t, user.RoleMentor, updated.Role)
		assert.True(t, updated.IsActive)
		assert.NoError(t, updated.CheckPassword("lmao"))
	}

	_, err = usrRepo.GetUser(ctx, user.GetFilter{Email: "a@test.cd"})
	assert.Equal(t, user.ErrNotFound, errors.Cause(err))
}

func Test_commandLine_resetPassword(t *testing.T) {
	cli := setup(t)

	usr := testutil.CreateUser(t, usrRepo, "Awe", "awe@test.cd", "mdr", user.RoleStudent, true)

	tests := []cliTest{
		{name: "no command", wantErr: errHelp},
		{name: "unknown command", args: []string{"lol"}, wantErr: errHelp},
		{name: "no args", args: []string{"resetpassword"}, wantErr: errHelp},
		{name: "email but no password", args: []string{"resetpassword", "-email", "lol"}, wantErr: errHelp},
		{name: "user not found", args: []string{"resetpassword", "-email", "lol"}, extra: extra{pwd: "lol"}, wantErr: user.ErrNotFound},
		{name: "reset", args: []string{"resetpassword", "-email", usr.Email}, extra: extra{pwd: "lol"}},
		{name: "reset with uppercase email", args: []string{"resetpassword", "-email", "AWE@test.cd"}, extra: extra{pwd: "lmao"}},
	}
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)
		mockPassword(tt)

		t.Run(tt.name, func(t *testing.T) {
			err := cli.run(args)
			if err == nil {
				refreshedUsr, err := usrRepo.GetUser(context.Background(), user.GetFilter{ID: usr.ID})
				require.NoError(t, err)
				if bytes.Equal(refreshedUsr.PasswordHash, usr.PasswordHash) {
					t.Error("failed to update new password")
				}
				assert.NoError(t, refreshedUsr.CheckPassword(tt.extra.(extra).pwd))
			} else {
				assert.Equal(t, tt.wantErr, errors.Cause(err))
			}
		})
	}
}

func Test_commandLine_seed(t *testing.T) {
	cli := setup(t)
	ctx := context.Background()

	// pre-existing sample user is kept as is
	alice := testutil.CreateUser(t, usrRepo, "Alice", "alice.student@example.com", "secret", user.RoleStudent, true)

	require.NoError(t, cli.run([]string{"admin", "seed"}))

	users, err := usrRepo.FilterUsers(ctx, user.QueryFilter{}, nil)
	require.NoError(t, err)
	assert.Len(t, users, len(sampleUsers))

	admin, err := usrRepo.GetUser(ctx, user.GetFilter{Email: "admin@edumentor.com"})
	require.NoError(t, err)
	assert.Equal(t, user.RoleAdmin, admin.Role)
	assert.NoError(t, admin.CheckPassword(sampleAdminPassword))

	mentor, err := usrRepo.GetUser(ctx, user.GetFilter{Email: "emma.expert@example.com"})
	require.NoError(t, err)
	assert.NoError(t, mentor.CheckPassword(samplePassword))
	assert.Contains(t, mentor.Skills, "Machine Learning")

	refreshedAlice, err := usrRepo.GetUser(ctx, user.GetFilter{ID: alice.ID})
	require.NoError(t, err)
	assert.Equal(t, "Alice", refreshedAlice.FullName)

	courses, err := cli.repos.Course.FilterCourses(ctx, course.QueryFilter{PublishedOnly: true}, nil)
	require.NoError(t, err)
	assert.Len(t, courses, len(sampleCourses))

	// alice existed, so her session was skipped
	sessions, err := cli.repos.Session.FilterSessions(ctx, mentorship.QueryFilter{}, nil)
	require.NoError(t, err)
	assert.Len(t, sessions, len(sampleSessions)-1)

	// running it again is a no-op
	require.NoError(t, cli.run([]string{"admin", "seed"}))
	courses, err = cli.repos.Course.FilterCourses(ctx, course.QueryFilter{}, nil)
	require.NoError(t, err)
	assert.Len(t, courses, len(sampleCourses))
}
