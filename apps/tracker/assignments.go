package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/pkg/errors"

	"github.com/17dpatra/studentassignmenttracker/core"
	"github.com/17dpatra/studentassignmenttracker/core/assignment"
)

func (cli *commandLine) listAssignments(args []string) error {
	fs := cli.flagSet("assignments")
	sortKey := fs.String("sort", "", "Sort by title, description, due_date, priority or course_id.")
	order := fs.String("order", "asc", "Sort order: asc or desc.")
	if err := cli.parse(fs, args); err != nil {
		return err
	}
	ord, err := core.ParseOrder(*order)
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
	if *sortKey != "" {
		if assignments, err = cli.assignments.Sorted(*sortKey, ord); err != nil {
			return err
		}
	}
	// course names are cosmetic; unknown ones render as "—"
	if _, err = cli.courses.List(ctx); err != nil {
		cli.logger.Warn("fetching courses for assignment list", err)
	}
	return renderAssignments(cli.out, assignments, cli.courses.Courses())
}

type assignmentFlags struct {
	title, description, due, priority, course *string
}

func (cli *commandLine) assignmentFlagSet(name string) (*flag.FlagSet, assignmentFlags) {
	fs := cli.flagSet(name)
	return fs, assignmentFlags{
		title:       fs.String("title", "", "Assignment title."),
		description: fs.String("description", "", "Assignment description."),
		due:         fs.String("due", "", "Due date (YYYY-MM-DD), within the course dates."),
		priority:    fs.String("priority", "", "Priority: low, medium or high (or 1..3)."),
		course:      fs.String("course", "", "Course ID."),
	}
}

// apply copies every flag set on the command line into the draft.
func (f assignmentFlags) apply(set map[string]bool, in *assignment.Input) error {
	if set["title"] {
		in.Title = *f.title
	}
	if set["description"] {
		in.Description = *f.description
	}
	if set["due"] {
		in.DueDate = *f.due
	}
	if set["priority"] {
		p, err := assignment.ParsePriority(*f.priority)
		if err != nil {
			return err
		}
		in.Priority = p
	}
	if set["course"] {
		id, err := core.ParseID(*f.course)
		if err != nil {
			return core.NewValidationError(err, core.FieldError{Field: "course_id", Error: err.Error()})
		}
		in.CourseID = id
	}
	return nil
}

func (cli *commandLine) addAssignment(args []string) error {
	fs, flags := cli.assignmentFlagSet("assignment-add")
	if err := cli.parse(fs, args); err != nil {
		return err
	}

	ctx, cancel := cli.newContext()
	defer cancel()
	if err := cli.requireSession(ctx); err != nil {
		return err
	}

	frm := assignment.NewForm(cli.assignments, cli.courses, cli, cli.logger)
	if err := frm.OpenForCreate(ctx); err != nil {
		return err
	}
	return cli.submitAssignment(ctx, frm, fs, flags)
}

func (cli *commandLine) editAssignment(args []string) error {
	fs, flags := cli.assignmentFlagSet("assignment-edit")
	rawID := fs.String("id", "", "Assignment ID.")
	if err := cli.parse(fs, args); err != nil {
		return err
	}
	id, err := core.ParseID(*rawID)
	if err != nil {
		fs.Usage()
		return errHelp
	}

	ctx, cancel := cli.newContext()
	defer cancel()
	if err = cli.requireSession(ctx); err != nil {
		return err
	}
	if _, err = cli.assignments.List(ctx); err != nil {
		return err
	}
	a, ok := cli.assignments.Lookup(id)
	if !ok {
		return errors.Wrapf(assignment.ErrNotFound, "assignment %s", id)
	}

	frm := assignment.NewForm(cli.assignments, cli.courses, cli, cli.logger)
	if err = frm.OpenForEdit(ctx, a); err != nil {
		return err
	}
	return cli.submitAssignment(ctx, frm, fs, flags)
}

func (cli *commandLine) submitAssignment(ctx context.Context, frm *assignment.Form, fs *flag.FlagSet, flags assignmentFlags) error {
	var applyErr error
	if err := frm.Edit(func(in *assignment.Input) {
		applyErr = flags.apply(setFlags(fs), in)
	}); err != nil {
		return err
	}
	if applyErr != nil {
		_ = frm.Cancel()
		return applyErr
	}
	if err := frm.Submit(ctx); err != nil {
		return reportedError{err}
	}
	return nil
}

func (cli *commandLine) deleteAssignment(args []string) error {
	fs := cli.flagSet("assignment-delete")
	rawID := fs.String("id", "", "Assignment ID.")
	yes := fs.Bool("yes", false, "Do not ask for confirmation.")
	if err := cli.parse(fs, args); err != nil {
		return err
	}
	id, err := core.ParseID(*rawID)
	if err != nil {
		fs.Usage()
		return errHelp
	}

	ctx, cancel := cli.newContext()
	defer cancel()
	if err = cli.requireSession(ctx); err != nil {
		return err
	}

	if _, err = cli.assignments.List(ctx); err != nil {
		return err
	}
	question := fmt.Sprintf("Delete assignment %s?", id)
	if a, ok := cli.assignments.Lookup(id); ok {
		question = fmt.Sprintf("Delete assignment %q?", a.Title)
	}
	if !*yes && !cli.confirm(question) {
		return errAborted
	}

	if err = cli.assignments.Delete(ctx, id); err != nil {
		return err
	}
	fmt.Fprintln(cli.out, "Assignment deleted.")
	if _, err = cli.assignments.List(ctx); err != nil {
		cli.logger.Warn("refreshing assignment list", err)
	}
	return nil
}
