package main

import (
	"fmt"
	"os"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/17dpatra/studentassignmenttracker/core"
)

func main() {
	os.Exit(start(os.Args))
}

func start(args []string) int {
	code := 0
	err := newContainer().Invoke(func(cli *commandLine, db *sqlx.DB, logger core.Logger) {
		defer func() {
			if err := db.Close(); err != nil {
				logger.Error("closing session database", err)
			}
		}()
		code = exitCode(cli, cli.run(args))
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	return code
}

// exitCode reports err to the user, unless it has been already.
func exitCode(cli *commandLine, err error) int {
	var reported reportedError
	switch {
	case err == nil:
		return 0
	case err == errHelp, errors.As(err, &reported):
	case errors.Is(err, errAborted):
		fmt.Fprintln(cli.out, "Aborted.")
	default:
		fmt.Fprintf(cli.out, "error: %s\n", describe(err))
	}
	return 1
}
