package main

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/JOSEPHMATHEO/Fine-Tune-English/core"
	"github.com/JOSEPHMATHEO/Fine-Tune-English/core/user"
)

// addUser updates or creates a user.User without a role profile; it exists
// for bootstrapping administrative accounts.
func (cli *commandLine) addUser(email, name, pwd string, isAdmin bool) error {
	ctx := context.Background()
	email = core.CleanString(email, true /* lower */)
	name = core.CleanString(name)
	now := time.Now().UTC()

	usr, err := cli.usrRepo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Cause(err) != user.ErrNotFound {
			return err
		}
		usr = user.User{
			Email:     email,
			CreatedAt: now,
		}
	}
	usr.FullName = name
	usr.IsActive = true
	usr.UpdatedAt = now
	if isAdmin {
		usr.Role = user.RoleAdmin
	}
	if err := usr.SetPassword(pwd); err != nil {
		return err
	}

	if usr.ID == 0 {
		_, err = cli.usrRepo.CreateUser(ctx, usr, nil, nil)
	} else {
		_, err = cli.usrRepo.UpdateUser(ctx, usr, nil)
	}
	return err
}
