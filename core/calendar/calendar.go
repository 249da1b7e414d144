// Package calendar projects assignments onto calendar days.
package calendar

import (
	"time"

	"github.com/17dpatra/studentassignmenttracker/core"
	"github.com/17dpatra/studentassignmenttracker/core/assignment"
)

var NowFunc = time.Now // mockable

// Event is one assignment placed on its due date.
type Event struct {
	ID       core.ID
	Title    string
	Start    string // YYYY-MM-DD
	Priority assignment.Priority
	CourseID core.ID
	// Past is set once the due date is before today.
	Past bool
}

type Day struct {
	Date   time.Time
	Events []Event
}

// Events converts assignments into events, skipping those without a readable due date.
func Events(assignments []assignment.Assignment) []Event {
	now := NowFunc()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	events := make([]Event, 0, len(assignments))
	for _, a := range assignments {
		due, err := core.ParseDate(a.DueDate)
		if err != nil {
			continue
		}
		events = append(events, Event{
			ID:       a.ID,
			Title:    a.Title,
			Start:    core.FormatDate(due),
			Priority: a.Priority,
			CourseID: a.CourseID,
			Past:     due.Before(today),
		})
	}
	return events
}

// Month lays events out over every day of the given month, in input order within a day.
func Month(events []Event, year int, month time.Month) []Day {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	n := first.AddDate(0, 1, -1).Day()

	days := make([]Day, n)
	for i := range days {
		days[i].Date = first.AddDate(0, 0, i)
	}
	for _, ev := range events {
		start, err := core.ParseDate(ev.Start)
		if err != nil || start.Year() != year || start.Month() != month {
			continue
		}
		days[start.Day()-1].Events = append(days[start.Day()-1].Events, ev)
	}
	return days
}

// ParseMonth reads "YYYY-MM"; an empty string means the current month.
func ParseMonth(s string) (int, time.Month, error) {
	if s == "" {
		now := NowFunc()
		return now.Year(), now.Month(), nil
	}
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return 0, 0, core.NewValidationError(nil, core.FieldError{Field: "month", Error: "must look like YYYY-MM"})
	}
	return t.Year(), t.Month(), nil
}
