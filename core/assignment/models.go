package assignment

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/17dpatra/studentassignmenttracker/core"
	"github.com/17dpatra/studentassignmenttracker/core/course"
)

var (
	// errors
	ErrNotFound       = errors.New("assignment not found")
	ErrCourseNotFound = errors.New("course not found, fetch the course list and pick one of its courses")

	priorityTag  = "priority"
	priorityText = "priority must be 1 (Low), 2 (Medium) or 3 (High)"
)

func init() {
	_ = core.Validate.RegisterValidation(priorityTag, priorityValidation)
	core.RegisterCustomTranslation(priorityTag, priorityText)
}

type Priority int

const (
	PriorityLow    Priority = 1
	PriorityMedium Priority = 2
	PriorityHigh   Priority = 3
)

var priorityNames = []string{"low", "medium", "high"}

func (p Priority) Valid() bool {
	return p >= PriorityLow && p <= PriorityHigh
}

func (p Priority) String() string {
	switch p {
	case PriorityLow:
		return "Low"
	case PriorityMedium:
		return "Medium"
	case PriorityHigh:
		return "High"
	default:
		return "—"
	}
}

// UnmarshalJSON accepts 2 as well as "2": the web form posts priorities as strings.
func (p *Priority) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		*p = 0
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return errors.Wrapf(err, "decoding priority %s", data)
	}
	*p = Priority(n)
	return nil
}

// ParsePriority reads "1".."3" or a label ("low", "Medium", "HIGH").
func ParsePriority(s string) (Priority, error) {
	s = core.CleanString(s, true /* lower */)
	if n, err := strconv.Atoi(s); err == nil && Priority(n).Valid() {
		return Priority(n), nil
	}
	for i, name := range priorityNames {
		if s == name {
			return Priority(i + 1), nil
		}
	}
	return 0, core.UnknownChoiceError("priority", s, priorityNames)
}

type Assignment struct {
	ID          core.ID  `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	DueDate     string   `json:"due_date"`
	Priority    Priority `json:"priority"`
	CourseID    core.ID  `json:"course_id"`
}

// Input is what may be provided to create an Assignment or to replace an existing one.
type Input struct {
	Title       string   `json:"title" validate:"notblank"`
	Description string   `json:"description"`
	DueDate     string   `json:"due_date" validate:"notblank,caldate"`
	// Only 1..3 is sent: the server stores any integer, the client refuses the rest.
	Priority    Priority `json:"priority" validate:"priority"`
	CourseID    core.ID  `json:"course_id" validate:"required"`
}

func (a Assignment) Input() Input {
	return Input{
		Title:       a.Title,
		Description: a.Description,
		DueDate:     a.DueDate,
		Priority:    a.Priority,
		CourseID:    a.CourseID,
	}
}

// Validate cleans the fields and checks them, including that the due date falls
// within the dates of the selected course, looked up in courses.
// A course missing from courses is an error: the list must be fetched first.
func (in *Input) Validate(courses []course.Course) error {
	in.Title = core.CleanString(in.Title)
	in.Description = core.CleanString(in.Description)
	in.DueDate = core.CleanString(in.DueDate)

	if err := core.ValidateStruct(in); err != nil {
		return err
	}

	crs, ok := course.Find(courses, in.CourseID)
	if !ok {
		return core.NewValidationError(ErrCourseNotFound, core.FieldError{Field: "course_id", Error: ErrCourseNotFound.Error()})
	}
	within, err := crs.Contains(in.DueDate)
	if err != nil {
		// the server owns course dates; a course we cannot read does not block the assignment
		return nil
	}
	if !within {
		msg := fmt.Sprintf("Due date must be within the course dates: %s - %s", crs.StartDate, crs.EndDate)
		return core.NewValidationError(errors.New(msg), core.FieldError{Field: "due_date", Error: msg})
	}
	return nil
}

// CourseName resolves the display name of a's course, "—" when it is not in courses.
func CourseName(a Assignment, courses []course.Course) string {
	if crs, ok := course.Find(courses, a.CourseID); ok {
		return crs.Name
	}
	return "—"
}

func priorityValidation(fl validator.FieldLevel) bool {
	return Priority(fl.Field().Int()).Valid()
}
