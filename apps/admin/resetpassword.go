package main

import (
	"context"
	"time"

	"github.com/edumentor/edumentor/core"
	"github.com/edumentor/edumentor/core/user"
)

func (cli *commandLine) resetPassword(email, pwd string) error {
	ctx := context.Background()
	usr, err := cli.repos.User.GetUser(ctx, user.GetFilter{Email: core.CleanString(email, true /* lower */)})
	if err != nil {
		return err
	}
	if err := usr.SetPassword(pwd); err != nil {
		return err
	}
	usr.UpdatedAt = time.Now().UTC()
	if _, err := cli.repos.User.UpdateUser(ctx, usr); err != nil {
		return err
	}
	return nil
}
