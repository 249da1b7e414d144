package course

import (
	"github.com/pkg/errors"

	"github.com/17dpatra/studentassignmenttracker/core"
)

var (
	// errors
	ErrNotFound       = errors.New("course not found")
	ErrEndBeforeStart = errors.New("end date must be after start date")
)

type Course struct {
	ID        core.ID `json:"id"`
	Name      string  `json:"name"`
	StartDate string  `json:"start_date"`
	EndDate   string  `json:"end_date"`
}

// Input is what may be provided to create a Course or to replace an existing one.
type Input struct {
	Name      string `json:"name" validate:"notblank"`
	StartDate string `json:"start_date" validate:"notblank,caldate"`
	EndDate   string `json:"end_date" validate:"notblank,caldate"`
}

func (c Course) Input() Input {
	return Input{Name: c.Name, StartDate: c.StartDate, EndDate: c.EndDate}
}

// Contains reports whether date falls within [StartDate, EndDate], both ends included.
func (c Course) Contains(date string) (bool, error) {
	d, err := core.ParseDate(date)
	if err != nil {
		return false, err
	}
	start, err := core.ParseDate(c.StartDate)
	if err != nil {
		return false, errors.Wrap(err, "course start date")
	}
	end, err := core.ParseDate(c.EndDate)
	if err != nil {
		return false, errors.Wrap(err, "course end date")
	}
	return !d.Before(start) && !d.After(end), nil
}

// Validate cleans the fields, checks they are all present and that the course ends after it starts.
func (in *Input) Validate() error {
	in.Name = core.CleanString(in.Name)
	in.StartDate = core.CleanString(in.StartDate)
	in.EndDate = core.CleanString(in.EndDate)

	if err := core.ValidateStruct(in); err != nil {
		return err
	}

	start, _ := core.ParseDate(in.StartDate)
	end, _ := core.ParseDate(in.EndDate)
	if !start.Before(end) {
		return core.NewValidationError(ErrEndBeforeStart, core.FieldError{Field: "end_date", Error: ErrEndBeforeStart.Error()})
	}
	return nil
}

// Find looks id up in courses.
func Find(courses []Course, id core.ID) (Course, bool) {
	for _, c := range courses {
		if c.ID == id {
			return c, true
		}
	}
	return Course{}, false
}
