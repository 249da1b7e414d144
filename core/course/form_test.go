package course

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/17dpatra/studentassignmenttracker/core"
	"github.com/17dpatra/studentassignmenttracker/core/form"
	"github.com/17dpatra/studentassignmenttracker/tests"
)

func TestForm(t *testing.T) {
	ctx := context.Background()
	client, api := setup(t)
	api.SeedCourse("awe", "CS101", "2024-01-01", "2024-05-01")
	courses, err := client.List(ctx)
	require.NoError(t, err)
	cs101 := courses[0]

	var msgs []string
	frm := NewForm(client, form.NotifierFunc(func(msg string) { msgs = append(msgs, msg) }), testutil.NopLogger())

	// open for edit, then cancel: nothing changes
	api.ResetRequests()
	require.NoError(t, frm.OpenForEdit(ctx, cs101))
	assert.Equal(t, cs101.Input(), frm.Draft())
	require.NoError(t, frm.Edit(func(in *Input) { in.Name = "Changed" }))
	require.NoError(t, frm.Cancel())
	assert.Equal(t, form.Idle, frm.State())
	assert.Equal(t, []Course{cs101}, client.Courses())
	assert.Empty(t, api.Requests())

	// submit with a target: PUT to the target, never POST
	require.NoError(t, frm.OpenForEdit(ctx, cs101))
	require.NoError(t, frm.Edit(func(in *Input) { in.EndDate = "2024-06-01" }))
	require.NoError(t, frm.Submit(ctx))

	reqs := api.Requests()
	require.Len(t, reqs, 2)
	assert.Equal(t, http.MethodPut, reqs[0].Method)
	assert.Equal(t, "/editcourse/"+cs101.ID.String(), reqs[0].Path)
	assert.Equal(t, http.MethodGet, reqs[1].Method, "the list is refreshed after a save")
	assert.Equal(t, "2024-06-01", client.Courses()[0].EndDate)
	assert.Equal(t, "Course updated!", msgs[len(msgs)-1])

	// create: invalid drafts are never sent
	api.ResetRequests()
	require.NoError(t, frm.OpenForCreate(ctx))
	assert.Equal(t, Input{}, frm.Draft())
	require.NoError(t, frm.Edit(func(in *Input) {
		*in = Input{Name: "CS102", StartDate: "2024-06-01", EndDate: "2024-01-01"}
	}))
	err = frm.Submit(ctx)
	assert.True(t, core.IsValidation(err))
	assert.Equal(t, ErrEndBeforeStart.Error(), msgs[len(msgs)-1])
	assert.Empty(t, api.Requests())

	require.NoError(t, frm.Edit(func(in *Input) { in.StartDate, in.EndDate = "2024-01-01", "2024-06-01" }))
	require.NoError(t, frm.Submit(ctx))
	assert.Equal(t, "Course added successfully!", msgs[len(msgs)-1])
	assert.Len(t, client.Courses(), 2)

	// server rejection keeps the draft
	api.Fail(http.MethodPost, "/addcourse", http.StatusConflict, "course already exists")
	require.NoError(t, frm.OpenForCreate(ctx))
	require.NoError(t, frm.Edit(func(in *Input) {
		*in = Input{Name: "CS102", StartDate: "2024-01-01", EndDate: "2024-06-01"}
	}))
	assert.Error(t, frm.Submit(ctx))
	assert.Equal(t, "Failed to save course: course already exists", msgs[len(msgs)-1])
	assert.Equal(t, form.Composing, frm.State())
	assert.Equal(t, "CS102", frm.Draft().Name)
	assert.Len(t, client.Courses(), 2)
}

func TestForm_messageBody(t *testing.T) {
	ctx := context.Background()
	client, api := setup(t)
	api.Reply(http.MethodPost, "/addcourse", `"Course added successfully"`)

	var msgs []string
	frm := NewForm(client, form.NotifierFunc(func(msg string) { msgs = append(msgs, msg) }), testutil.NopLogger())
	require.NoError(t, frm.OpenForCreate(ctx))
	require.NoError(t, frm.Edit(func(in *Input) {
		*in = Input{Name: "CS101", StartDate: "2024-01-01", EndDate: "2024-05-01"}
	}))
	require.NoError(t, frm.Submit(ctx))

	assert.Equal(t, form.Idle, frm.State())
	assert.Equal(t, []string{"Course added successfully!"}, msgs)
	assert.Equal(t, 1, api.CourseCount())
	require.Len(t, client.Courses(), 1)
	assert.Equal(t, "CS101", client.Courses()[0].Name)
}
