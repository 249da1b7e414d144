package main

import (
	"log"
	"os"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"go.uber.org/dig"

	"github.com/17dpatra/studentassignmenttracker/core"
	"github.com/17dpatra/studentassignmenttracker/core/assignment"
	"github.com/17dpatra/studentassignmenttracker/core/auth"
	"github.com/17dpatra/studentassignmenttracker/core/course"
	"github.com/17dpatra/studentassignmenttracker/core/session"
	apisvc "github.com/17dpatra/studentassignmenttracker/services/api"
	logsvc "github.com/17dpatra/studentassignmenttracker/services/logger"
	sessionstore "github.com/17dpatra/studentassignmenttracker/storage/session"
)

func newLogger(conf *core.Config) core.Logger {
	console := logsvc.NewConsoleLogger(os.Stderr, conf.Log.Level, conf.Log.Pretty)
	if conf.RollbarToken == "" {
		return console
	}
	logger := logsvc.NewRollbarLogger(console, conf)
	logger.Enable(!conf.Debug)
	return logger
}

func newSessionDB(conf *core.Config) (*sqlx.DB, error) {
	return sessionstore.Open(conf.Session.Path)
}

func newAPIClient(conf *core.Config, store session.Store, logger core.Logger) *apisvc.Client {
	return apisvc.NewClient(conf.API.BaseURL, store, logger)
}

func newCommandLine(
	conf *core.Config,
	logger core.Logger,
	authSvc *auth.Service,
	courses *course.Client,
	assignments *assignment.Client,
) *commandLine {
	return &commandLine{
		conf:        conf,
		logger:      logger,
		auth:        authSvc,
		courses:     courses,
		assignments: assignments,
		in:          os.Stdin,
		out:         os.Stdout,
	}
}

// newContainer returns the dependency injection dig.Container of the CLI.
func newContainer() *dig.Container {
	c := dig.New()

	must(c.Provide(core.NewConfig))
	must(c.Provide(newLogger))
	must(c.Provide(newSessionDB))
	must(c.Provide(sessionstore.NewSQLiteStore))
	must(c.Provide(newAPIClient, dig.As(new(core.Requester))))
	must(c.Provide(auth.NewService))
	must(c.Provide(course.NewClient))
	must(c.Provide(assignment.NewClient))
	must(c.Provide(newCommandLine))

	return c
}

// must exits program if err happened
func must(err error) {
	if err != nil {
		log.Fatal(errors.Wrap(err, "failed to provide dependency").Error())
	}
}
