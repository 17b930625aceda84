package main

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"testing"

	"github.com/jmoiron/sqlx"

	"github.com/JOSEPHMATHEO/Fine-Tune-English/core/user"
)

// fakeUserRepo holds users in memory, keyed by lowercased email.
type fakeUserRepo struct {
	user.Repository // unimplemented methods panic

	users  map[string]user.User
	nextID int
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]user.User)}
}

func (r *fakeUserRepo) GetUserByEmail(_ context.Context, email string) (user.User, error) {
	usr, ok := r.users[email]
	if !ok {
		return user.User{}, user.ErrNotFound
	}
	return usr, nil
}

func (r *fakeUserRepo) CreateUser(_ context.Context, usr user.User, _ *user.StudentProfile, _ *user.TeacherProfile) (user.User, error) {
	r.nextID++
	usr.ID = r.nextID
	r.users[usr.Email] = usr
	return usr, nil
}

func (r *fakeUserRepo) UpdateUser(_ context.Context, usr user.User, _ *bool) (user.User, error) {
	r.users[usr.Email] = usr
	return usr, nil
}

func setup() *commandLine {
	return &commandLine{
		db:      &sqlx.DB{},
		usrRepo: newFakeUserRepo(),
	}
}

type cliTest struct {
	name       string
	args       []string // without program name
	wantErr    error
	wantErrStr string
	pwd        string
}

func Test_commandLine_migrate(t *testing.T) {
	cli := setup()

	gooseRunFunc = func(command string, db *sql.DB, dir string, args ...string) error {
		switch command {
		case "up", "up-by-one", "down", "redo", "reset", "status", "version", "fix": // pass
		case "create":
			if len(args) == 0 {
				return fmt.Errorf("create must be of form: goose [OPTIONS] DRIVER DBSTRING create NAME [go|sql]")
			}
		default:
			return fmt.Errorf("%q: no such command", command)
		}
		return nil
	}

	tests := []cliTest{
		{name: "no subcommand", args: []string{"migrate"}},
		{name: "unknown subcommand", args: []string{"migrate", "lol"}, wantErrStr: "\"lol\": no such command"},
		{name: "create: no args", args: []string{"migrate", "create"}, wantErrStr: "create must be of form: goose [OPTIONS] DRIVER DBSTRING create NAME [go|sql]"},
		{name: "up", args: []string{"migrate", "up"}},
		{name: "down", args: []string{"migrate", "down"}},
		{name: "status", args: []string{"migrate", "status"}},
		{name: "create", args: []string{"migrate", "create", "attendance", "sql"}},
	}
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)

		t.Run(tt.name, func(t *testing.T) {
			if err := cli.run(args); err != nil {
				if tt.wantErrStr != "" {
					if err.Error() != tt.wantErrStr {
						t.Errorf("cli.run() error = %s, wantErrStr %s", err.Error(), tt.wantErrStr)
					}
				} else {
					t.Errorf("cli.run() unexpected error = %v", err)
				}
			}
		})
	}
}

func Test_commandLine_addUser(t *testing.T) {
	cli := setup()
	repo := cli.usrRepo.(*fakeUserRepo)

	tests := []cliTest{
		{name: "no command", wantErr: errHelp},
		{name: "unknown command", args: []string{"lol"}, wantErr: errHelp},
		{name: "no args", args: []string{"adduser"}, wantErr: errHelp},
		{name: "email but no name", args: []string{"adduser", "-email", "jefe@test.ec"}, wantErr: errHelp},
		{name: "no password entered", args: []string{"adduser", "-email", "jefe@test.ec", "-name", "Jefe"}, wantErr: errHelp},
		{name: "create admin", args: []string{"adduser", "-email", "Jefe@Test.EC", "-name", "Jefe", "-admin"}, pwd: "s3cret!"},
		{name: "update existing", args: []string{"adduser", "-email", "jefe@test.ec", "-name", "Jefe Dos"}, pwd: "0therPwd!"},
	}
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)

		readPasswordFunc = func(fd int) ([]byte, error) {
			return []byte(tt.pwd), nil
		}

		t.Run(tt.name, func(t *testing.T) {
			if err := cli.run(args); err != tt.wantErr {
				t.Errorf("cli.run() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}

	usr, err := repo.GetUserByEmail(context.Background(), "jefe@test.ec")
	if err != nil {
		t.Fatalf("GetUserByEmail() failed, %v", err)
	}
	if usr.FullName != "Jefe Dos" {
		t.Errorf("FullName = %s, want Jefe Dos", usr.FullName)
	}
	if usr.Role != user.RoleAdmin {
		t.Errorf("Role = %s, want %s", usr.Role, user.RoleAdmin)
	}
	if err := usr.CheckPassword("0therPwd!"); err != nil {
		t.Errorf("CheckPassword() failed, %v", err)
	}
}

func Test_commandLine_resetPassword(t *testing.T) {
	cli := setup()
	repo := cli.usrRepo.(*fakeUserRepo)

	usr := user.User{Email: "awe@test.ec", FullName: "Awe", IsActive: true}
	if err := usr.SetPassword("original"); err != nil {
		t.Fatalf("SetPassword() failed, %v", err)
	}
	usr, _ = repo.CreateUser(context.Background(), usr, nil, nil)

	tests := []cliTest{
		{name: "no args", args: []string{"resetpassword"}, wantErr: errHelp},
		{name: "email but no password", args: []string{"resetpassword", "-email", "awe@test.ec"}, wantErr: errHelp},
		{name: "user not found", args: []string{"resetpassword", "-email", "lol@test.ec"}, pwd: "lol", wantErr: user.ErrNotFound},
		{name: "reset", args: []string{"resetpassword", "-email", "Awe@Test.EC"}, pwd: "newPwd!"},
	}
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)

		readPasswordFunc = func(fd int) ([]byte, error) {
			return []byte(tt.pwd), nil
		}

		t.Run(tt.name, func(t *testing.T) {
			err := cli.run(args)
			if err == nil {
				refreshed, err := repo.GetUserByEmail(context.Background(), usr.Email)
				if err != nil {
					t.Fatalf("GetUserByEmail() failed, %v", err)
				}
				if bytes.Equal(refreshed.PasswordHash, usr.PasswordHash) {
					t.Error("failed to update new password")
				}
			} else if err != tt.wantErr {
				t.Errorf("cli.run() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
