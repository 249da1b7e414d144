package main

import (
	"github.com/17dpatra/studentassignmenttracker/core/calendar"
)

func (cli *commandLine) calendar(args []string) error {
	fs := cli.flagSet("calendar")
	month := fs.String("month", "", "Month to show (YYYY-MM), the current one by default.")
	if err := cli.parse(fs, args); err != nil {
		return err
	}
	year, mon, err := calendar.ParseMonth(*month)
	if err != nil {
		return err
	}

	ctx, cancel := cli.newContext()
	defer cancel()
	if err = cli.requireSession(ctx); err != nil {
		return err
	}

	assignments, err := cli.assignments.List(ctx)
	if err != nil {
		return err
	}
	if _, err = cli.courses.List(ctx); err != nil {
		cli.logger.Warn("fetching courses for calendar", err)
	}
	days := calendar.Month(calendar.Events(assignments), year, mon)
	return renderMonth(cli.out, year, mon, days, cli.courses.Courses())
}
