package mentorship_test

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edumentor/edumentor/core"
	"github.com/edumentor/edumentor/core/mentorship"
	"github.com/edumentor/edumentor/core/user"
	emailsvc "github.com/edumentor/edumentor/services/email"
	inmemdb "github.com/edumentor/edumentor/storage/database/inmem"
	"github.com/edumentor/edumentor/testutil"
)

type fakeNotifier struct {
	identities []string
}

func (n *fakeNotifier) SendTo(identity string, _ interface{}) bool {
	n.identities = append(n.identities, identity)
	return false
}

func TestService_Book(t *testing.T) {
	conf := core.NewTestConfig()
	db := inmemdb.Open()
	usrRepo := inmemdb.NewUserRepository(db)
	mailSvc := emailsvc.NewConsoleServiceMock(conf)
	notifier := new(fakeNotifier)
	svc := mentorship.NewService(
		inmemdb.NewSessionRepository(db), user.NewService(conf, usrRepo, mailSvc), mailSvc, notifier,
	)
	ctx := context.Background()

	alice := testutil.CreateUser(t, usrRepo, "Alice", "alice@test.cd", "", user.RoleStudent, true)
	bob := testutil.CreateUser(t, usrRepo, "Bob", "bob@test.cd", "", user.RoleStudent, true)
	david := testutil.CreateMentor(t, usrRepo, "David", "david@test.cd")
	when := time.Date(2030, 1, 2, 15, 4, 0, 0, time.FixedZone("WAT", 3600))

	_, err := svc.Book(ctx, alice, mentorship.NewSession{MentorID: "lol", Title: "T", ScheduledAt: when})
	assert.Equal(t, mentorship.ErrMentorNotFound, err)
	_, err = svc.Book(ctx, alice, mentorship.NewSession{MentorID: bob.ID, Title: "T", ScheduledAt: when})
	assert.Equal(t, mentorship.ErrMentorNotFound, err)
	assert.Empty(t, notifier.identities)
	assert.Empty(t, mailSvc.SentMessages())

	s, err := svc.Book(ctx, alice, mentorship.NewSession{MentorID: david.ID, Title: "T", ScheduledAt: when, DurationMinutes: 30})
	require.NoError(t, err)
	assert.Equal(t, mentorship.StatusScheduled, s.Status)
	assert.Equal(t, time.UTC, s.ScheduledAt.Location())
	assert.True(t, when.Equal(s.ScheduledAt))
	assert.Equal(t, []string{david.ID}, notifier.identities)
	assert.Len(t, mailSvc.SentMessages(), 1)
}

func TestService_Update(t *testing.T) {
	conf := core.NewTestConfig()
	db := inmemdb.Open()
	usrRepo := inmemdb.NewUserRepository(db)
	repo := inmemdb.NewSessionRepository(db)
	svc := mentorship.NewService(repo, user.NewService(conf, usrRepo, nil), nil, new(fakeNotifier))
	ctx := context.Background()

	alice := testutil.CreateUser(t, usrRepo, "Alice", "alice@test.cd", "", user.RoleStudent, true)
	admin := testutil.CreateUser(t, usrRepo, "Admin", "admin@test.cd", "", user.RoleAdmin, true)
	david := testutil.CreateMentor(t, usrRepo, "David", "david@test.cd")
	s, err := repo.CreateSession(ctx, mentorship.Session{
		ID: "s1", MentorID: david.ID, StudentID: alice.ID, Status: mentorship.StatusScheduled,
	})
	require.NoError(t, err)

	notes := "bring questions"
	tests := []struct {
		name       string
		actor      user.User
		id         string
		data       mentorship.UpdateSession
		wantErr    error
		wantStatus string
	}{
		{name: "not found", actor: alice, id: "lol", wantErr: mentorship.ErrNotFound},
		{name: "outsider", actor: testutil.CreateUser(t, usrRepo, "Eve", "eve@test.cd", "", user.RoleStudent, true), id: s.ID, wantErr: mentorship.ErrNotParticipant},
		{name: "notes only", actor: david, id: s.ID, data: mentorship.UpdateSession{Notes: &notes}, wantStatus: mentorship.StatusScheduled},
		{name: "same status is a no-op", actor: david, id: s.ID, data: mentorship.UpdateSession{Status: mentorship.StatusScheduled}, wantStatus: mentorship.StatusScheduled},
		{name: "admin cancels", actor: admin, id: s.ID, data: mentorship.UpdateSession{Status: mentorship.StatusCancelled}, wantStatus: mentorship.StatusCancelled},
		{name: "terminal", actor: alice, id: s.ID, data: mentorship.UpdateSession{Status: mentorship.StatusCompleted}, wantErr: mentorship.ErrStatusTransition},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.Update(ctx, tt.actor, tt.id, tt.data)
			if tt.wantErr != nil {
				assert.Equal(t, tt.wantErr, errors.Cause(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, got.Status)
			if assert.NotNil(t, got.Notes) {
				assert.Equal(t, notes, *got.Notes)
			}
		})
	}
}
