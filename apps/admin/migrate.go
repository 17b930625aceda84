package main

import (
	"github.com/pressly/goose/v3"

	appfs "github.com/JOSEPHMATHEO/Fine-Tune-English/fs"
)

var gooseRunFunc = goose.Run // mockable

func (cli *commandLine) migrate(args []string) error {
	goose.SetBaseFS(appfs.FS)
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}

	command := "up"
	var arguments []string
	if len(args) > 0 {
		command = args[0]
		arguments = args[1:]
	}
	return gooseRunFunc(command, cli.db.DB, "migrations", arguments...)
}
