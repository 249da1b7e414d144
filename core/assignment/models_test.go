package assignment

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/17dpatra/studentassignmenttracker/core"
	"github.com/17dpatra/studentassignmenttracker/core/course"
)

var cs101 = course.Course{ID: "1", Name: "CS101", StartDate: "2024-01-01", EndDate: "2024-05-01"}

func TestInput_Validate(t *testing.T) {
	valid := func() Input {
		return Input{Title: "Essay", DueDate: "2024-03-01", Priority: PriorityMedium, CourseID: "1"}
	}

	tests := []struct {
		name       string
		in         func() Input
		courses    []course.Course
		wantFields map[string]string
	}{
		{name: "valid", in: valid, courses: []course.Course{cs101}},
		{
			name:    "first course day",
			in:      func() Input { in := valid(); in.DueDate = "2024-1-1"; return in },
			courses: []course.Course{cs101},
		},
		{
			name:       "before course start",
			in:         func() Input { in := valid(); in.DueDate = "2023-12-31"; return in },
			courses:    []course.Course{cs101},
			wantFields: map[string]string{"due_date": "Due date must be within the course dates: 2024-01-01 - 2024-05-01"},
		},
		{
			name:       "after course end",
			in:         func() Input { in := valid(); in.DueDate = "2024-05-02"; return in },
			courses:    []course.Course{cs101},
			wantFields: map[string]string{"due_date": "Due date must be within the course dates: 2024-01-01 - 2024-05-01"},
		},
		{
			name:       "course not fetched",
			in:         valid,
			wantFields: map[string]string{"course_id": ErrCourseNotFound.Error()},
		},
		{
			name:       "missing fields",
			in:         func() Input { return Input{Title: " ", Priority: PriorityLow} },
			courses:    []course.Course{cs101},
			wantFields: map[string]string{"title": "this field is required", "due_date": "this field is required", "course_id": "this field is required"},
		},
		{
			name:       "bad priority",
			in:         func() Input { in := valid(); in.Priority = 4; return in },
			courses:    []course.Course{cs101},
			wantFields: map[string]string{"priority": priorityText},
		},
		{
			name:    "unreadable course dates",
			in:      valid,
			courses: []course.Course{{ID: "1", Name: "CS101", StartDate: "soon", EndDate: "later"}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := tt.in()
			err := in.Validate(tt.courses)
			if tt.wantFields == nil {
				assert.NoError(t, err)
				return
			}
			assert.Equal(t, tt.wantFields, core.FieldMessages(err))
		})
	}
}

func TestPriority(t *testing.T) {
	var a Assignment
	require.NoError(t, json.Unmarshal([]byte(`{"id": 1, "priority": "3", "course_id": "2"}`), &a))
	assert.Equal(t, PriorityHigh, a.Priority)
	assert.Equal(t, core.ID("2"), a.CourseID)

	require.NoError(t, json.Unmarshal([]byte(`{"priority": 2}`), &a))
	assert.Equal(t, PriorityMedium, a.Priority)
	assert.Equal(t, "Medium", a.Priority.String())
	assert.Equal(t, "—", Priority(0).String())

	data, err := json.Marshal(Input{Title: "x", Priority: PriorityLow, CourseID: "2"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"title":"x","description":"","due_date":"","priority":1,"course_id":2}`, string(data))

	tests := []struct {
		in      string
		want    Priority
		wantErr bool
	}{
		{in: "low", want: PriorityLow},
		{in: " Medium ", want: PriorityMedium},
		{in: "3", want: PriorityHigh},
		{in: "0", wantErr: true},
		{in: "urgent", wantErr: true},
	}
	for _, tt := range tests {
		got, err := ParsePriority(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParsePriority(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParsePriority(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestCourseName(t *testing.T) {
	assert.Equal(t, "CS101", CourseName(Assignment{CourseID: "1"}, []course.Course{cs101}))
	assert.Equal(t, "—", CourseName(Assignment{CourseID: "2"}, []course.Course{cs101}))
}
