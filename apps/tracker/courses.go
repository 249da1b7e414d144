package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/pkg/errors"

	"github.com/17dpatra/studentassignmenttracker/core"
	"github.com/17dpatra/studentassignmenttracker/core/course"
)

func setFlags(fs *flag.FlagSet) map[string]bool {
	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	return set
}

func (cli *commandLine) listCourses(args []string) error {
	fs := cli.flagSet("courses")
	sortKey := fs.String("sort", "", "Sort by name, start_date or end_date.")
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

	courses, err := cli.courses.List(ctx)
	if err != nil {
		return err
	}
	if *sortKey != "" {
		if courses, err = cli.courses.Sorted(*sortKey, ord); err != nil {
			return err
		}
	}
	return renderCourses(cli.out, courses)
}

func (cli *commandLine) addCourse(args []string) error {
	fs := cli.flagSet("course-add")
	name := fs.String("name", "", "Course name.")
	start := fs.String("start", "", "Start date (YYYY-MM-DD).")
	end := fs.String("end", "", "End date (YYYY-MM-DD).")
	if err := cli.parse(fs, args); err != nil {
		return err
	}

	ctx, cancel := cli.newContext()
	defer cancel()
	if err := cli.requireSession(ctx); err != nil {
		return err
	}

	frm := course.NewForm(cli.courses, cli, cli.logger)
	if err := frm.OpenForCreate(ctx); err != nil {
		return err
	}
	if err := frm.Edit(func(in *course.Input) {
		in.Name, in.StartDate, in.EndDate = *name, *start, *end
	}); err != nil {
		return err
	}
	if err := frm.Submit(ctx); err != nil {
		return reportedError{err}
	}
	return nil
}

func (cli *commandLine) editCourse(args []string) error {
	fs := cli.flagSet("course-edit")
	rawID := fs.String("id", "", "Course ID.")
	name := fs.String("name", "", "New course name.")
	start := fs.String("start", "", "New start date (YYYY-MM-DD).")
	end := fs.String("end", "", "New end date (YYYY-MM-DD).")
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
	crs, err := cli.findCourse(ctx, id)
	if err != nil {
		return err
	}

	frm := course.NewForm(cli.courses, cli, cli.logger)
	if err = frm.OpenForEdit(ctx, crs); err != nil {
		return err
	}
	set := setFlags(fs)
	if err = frm.Edit(func(in *course.Input) {
		if set["name"] {
			in.Name = *name
		}
		if set["start"] {
			in.StartDate = *start
		}
		if set["end"] {
			in.EndDate = *end
		}
	}); err != nil {
		return err
	}
	if err = frm.Submit(ctx); err != nil {
		return reportedError{err}
	}
	return nil
}

func (cli *commandLine) deleteCourse(args []string) error {
	fs := cli.flagSet("course-delete")
	rawID := fs.String("id", "", "Course ID.")
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

	if _, err = cli.courses.List(ctx); err != nil {
		return err
	}
	question := fmt.Sprintf("Delete course %s and all its assignments?", id)
	if crs, ok := cli.courses.Lookup(id); ok {
		question = fmt.Sprintf("Delete course %q and all its assignments?", crs.Name)
	}
	if !*yes && !cli.confirm(question) {
		return errAborted
	}

	if err = cli.courses.Delete(ctx, id); err != nil {
		return err
	}
	fmt.Fprintln(cli.out, "Course deleted.")
	if _, err = cli.courses.List(ctx); err != nil {
		cli.logger.Warn("refreshing course list", err)
	}
	return nil
}

// findCourse refreshes the course list and looks id up in it.
func (cli *commandLine) findCourse(ctx context.Context, id core.ID) (course.Course, error) {
	if _, err := cli.courses.List(ctx); err != nil {
		return course.Course{}, err
	}
	crs, ok := cli.courses.Lookup(id)
	if !ok {
		return course.Course{}, errors.Wrapf(course.ErrNotFound, "course %s", id)
	}
	return crs, nil
}
