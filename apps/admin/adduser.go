package main

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/samber/lo"

	"github.com/edumentor/edumentor/core"
	"github.com/edumentor/edumentor/core/user"
)

var errInvalidRole = errors.New("invalid role")

// addUser updates or creates a user.User; it is the only way to create admins.
func (cli *commandLine) addUser(email, name, role, pwd string) error {
	ctx := context.Background()
	email = core.CleanString(email, true /* lower */)
	name = core.CleanString(name)
	role = core.CleanString(role, true /* lower */)
	if !lo.Contains(user.AllRoles, role) {
		return errInvalidRole
	}

	now := time.Now().UTC()
	usr, err := cli.repos.User.GetUser(ctx, user.GetFilter{Email: email})
	exists := err == nil
	if err != nil && errors.Cause(err) != user.ErrNotFound {
		return err
	}
	if !exists {
		usr = user.User{
			ID:        uuid.NewString(),
			Email:     email,
			Skills:    []string{},
			Interests: []string{},
			CreatedAt: now,
		}
	}
	usr.FullName = name
	usr.Role = role
	usr.IsActive = true
	usr.UpdatedAt = now
	if err = usr.SetPassword(pwd); err != nil {
		return err
	}

	if exists {
		_, err = cli.repos.User.UpdateUser(ctx, usr)
	} else {
		_, err = cli.repos.User.CreateUser(ctx, usr)
	}
	if err != nil {
		return err
	}
	logger.Info().Str("email", usr.Email).Str("role", usr.Role).Bool("created", !exists).Msg("user saved")
	return nil
}
