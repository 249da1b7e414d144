package main

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/17dpatra/studentassignmenttracker/core/assignment"
	"github.com/17dpatra/studentassignmenttracker/core/calendar"
	"github.com/17dpatra/studentassignmenttracker/core/course"
)

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

func renderCourses(w io.Writer, courses []course.Course) error {
	if len(courses) == 0 {
		_, err := fmt.Fprintln(w, "No courses yet.")
		return err
	}
	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tNAME\tSTART\tEND")
	for _, c := range courses {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", c.ID, c.Name, c.StartDate, c.EndDate)
	}
	return tw.Flush()
}

func renderAssignments(w io.Writer, assignments []assignment.Assignment, courses []course.Course) error {
	if len(assignments) == 0 {
		_, err := fmt.Fprintln(w, "No assignments yet.")
		return err
	}
	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tTITLE\tDUE\tPRIORITY\tCOURSE\tDESCRIPTION")
	for _, a := range assignments {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			a.ID, a.Title, a.DueDate, a.Priority, assignment.CourseName(a, courses), a.Description)
	}
	return tw.Flush()
}

// renderMonth lists the days of the month that have events.
func renderMonth(w io.Writer, year int, month time.Month, days []calendar.Day, courses []course.Course) error {
	fmt.Fprintf(w, "%s %d\n", month, year)
	tw := newTable(w)
	var n int
	for _, day := range days {
		for _, ev := range day.Events {
			n++
			status := ""
			if ev.Past {
				status = "past"
			}
			crs := "—"
			if c, ok := course.Find(courses, ev.CourseID); ok {
				crs = c.Name
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", day.Date.Format("Mon 02"), ev.Title, ev.Priority, crs, status)
		}
	}
	if n == 0 {
		_, err := fmt.Fprintln(w, "Nothing due.")
		return err
	}
	return tw.Flush()
}
