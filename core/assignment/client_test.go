package assignment

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/17dpatra/studentassignmenttracker/core"
	"github.com/17dpatra/studentassignmenttracker/core/course"
	"github.com/17dpatra/studentassignmenttracker/core/form"
	"github.com/17dpatra/studentassignmenttracker/tests"
)

func setup(t *testing.T) (*Client, *course.Client, *testutil.FakeAPI, course.Course) {
	api := testutil.NewFakeAPI(t)
	requester, _ := testutil.LoggedIn(t, api, "awe")
	seeded := api.SeedCourse("awe", "CS101", "2024-01-01", "2024-05-01")

	logger := testutil.NopLogger()
	courses := course.NewClient(requester, logger)
	return NewClient(requester, logger), courses, api, course.Course{
		ID:        testutil.ID(seeded.ID),
		Name:      seeded.Name,
		StartDate: seeded.StartDate,
		EndDate:   seeded.EndDate,
	}
}

func TestClient_Create(t *testing.T) {
	ctx := context.Background()
	client, _, api, crs := setup(t)
	courses := []course.Course{crs}

	_, err := client.Create(ctx, Input{Title: "Essay", DueDate: "2023-12-31", Priority: PriorityLow, CourseID: crs.ID}, courses)
	require.True(t, core.IsValidation(err), "got %v", err)
	assert.Empty(t, api.Requests(), "invalid assignments must not be sent")

	a, err := client.Create(ctx, Input{Title: "Essay", Description: "5 pages", DueDate: "2024-03-01", Priority: PriorityHigh, CourseID: crs.ID}, courses)
	require.NoError(t, err)
	assert.NotZero(t, a.ID)
	assert.Equal(t, PriorityHigh, a.Priority)

	req, _ := api.LastRequest()
	assert.Equal(t, "/addassignment", req.Path)
	assert.JSONEq(t, `{"title":"Essay","description":"5 pages","due_date":"2024-03-01","priority":3,"course_id":`+crs.ID.String()+`}`, string(req.Body))

	assignments, err := client.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []Assignment{a}, assignments)
}

func TestClient_Update(t *testing.T) {
	ctx := context.Background()
	client, _, api, crs := setup(t)
	seeded := api.SeedAssignment("awe", testutil.Assignment{Title: "Essay", DueDate: "2024-03-01", Priority: 1, CourseID: testutil.PK(crs.ID)})
	id := testutil.ID(seeded.ID)

	_, err := client.Update(ctx, id, Input{Title: "Essay", DueDate: "2024-06-01", Priority: PriorityLow, CourseID: crs.ID}, []course.Course{crs})
	assert.True(t, core.IsValidation(err))

	a, err := client.Update(ctx, id, Input{Title: "Essay v2", DueDate: "2024-04-01", Priority: PriorityMedium, CourseID: crs.ID}, []course.Course{crs})
	require.NoError(t, err)
	assert.Equal(t, Assignment{ID: id, Title: "Essay v2", DueDate: "2024-04-01", Priority: PriorityMedium, CourseID: crs.ID}, a)

	req, _ := api.LastRequest()
	assert.Equal(t, http.MethodPut, req.Method)
	assert.Equal(t, "/editassignment/"+id.String(), req.Path)
}

func TestClient_writeBodies(t *testing.T) {
	ctx := context.Background()
	client, _, api, crs := setup(t)
	courses := []course.Course{crs}
	in := Input{Title: "Essay", DueDate: "2024-03-01", Priority: PriorityMedium, CourseID: crs.ID}

	api.Reply(http.MethodPost, "/addassignment", `"Assignment added successfully"`)
	a, err := client.Create(ctx, in, courses)
	require.NoError(t, err)
	assert.Equal(t, Assignment{Title: "Essay", DueDate: "2024-03-01", Priority: PriorityMedium, CourseID: crs.ID}, a)
	assert.Equal(t, 1, api.AssignmentCount())

	all, err := client.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	id := all[0].ID

	api.Reply(http.MethodPut, "/editassignment/"+id.String(), `{"message": "updated", "id": {"nested": true}}`)
	in.Title = "Essay v2"
	a, err = client.Update(ctx, id, in, courses)
	require.NoError(t, err)
	assert.Equal(t, id, a.ID)
	assert.Equal(t, "Essay v2", a.Title)
}

func TestClient_Delete(t *testing.T) {
	ctx := context.Background()
	client, _, api, crs := setup(t)
	seeded := api.SeedAssignment("awe", testutil.Assignment{Title: "Essay", DueDate: "2024-03-01", Priority: 1, CourseID: testutil.PK(crs.ID)})
	_, err := client.List(ctx)
	require.NoError(t, err)

	err = client.Delete(ctx, "999")
	assert.True(t, core.IsNotFound(err), "got %v", err)
	assert.Len(t, client.Assignments(), 1, "a failed delete leaves the list alone")

	require.NoError(t, client.Delete(ctx, testutil.ID(seeded.ID)))
	assignments, err := client.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, assignments)
}

func TestClient_Sorted(t *testing.T) {
	ctx := context.Background()
	client, _, api, crs := setup(t)
	cid := testutil.PK(crs.ID)
	api.SeedAssignment("awe", testutil.Assignment{Title: "B", DueDate: "2024-10-1", Priority: 1, CourseID: cid})
	api.SeedAssignment("awe", testutil.Assignment{Title: "A", DueDate: "2024-2-1", Priority: 2, CourseID: cid})
	api.SeedAssignment("awe", testutil.Assignment{Title: "A", DueDate: "2024-03-01", Priority: 3, CourseID: cid})
	all, err := client.List(ctx)
	require.NoError(t, err)

	idsOf := func(as []Assignment) []core.ID {
		out := make([]core.ID, 0, len(as))
		for _, a := range as {
			out = append(out, a.ID)
		}
		return out
	}
	b, a2, a3 := all[0].ID, all[1].ID, all[2].ID

	sorted, err := client.Sorted("title", core.Ascending)
	require.NoError(t, err)
	assert.Equal(t, []core.ID{a2, a3, b}, idsOf(sorted))

	sorted, err = client.Sorted("due_date", core.Ascending)
	require.NoError(t, err)
	assert.Equal(t, []core.ID{a2, a3, b}, idsOf(sorted))

	sorted, err = client.Sorted("priority", core.Descending)
	require.NoError(t, err)
	assert.Equal(t, []core.ID{a3, a2, b}, idsOf(sorted))
}

func TestForm(t *testing.T) {
	ctx := context.Background()
	client, courses, api, crs := setup(t)

	var msgs []string
	frm := NewForm(client, courses, form.NotifierFunc(func(msg string) { msgs = append(msgs, msg) }), testutil.NopLogger())

	// opening fetches the courses the due date is checked against
	require.NoError(t, frm.OpenForCreate(ctx))
	assert.Equal(t, PriorityLow, frm.Draft().Priority)
	assert.Equal(t, []course.Course{crs}, courses.Courses())

	api.ResetRequests()
	require.NoError(t, frm.Edit(func(in *Input) {
		in.Title, in.DueDate, in.CourseID = "Essay", "2023-12-31", crs.ID
	}))
	assert.True(t, core.IsValidation(frm.Submit(ctx)))
	assert.Equal(t, "Due date must be within the course dates: 2024-01-01 - 2024-05-01", msgs[len(msgs)-1])
	assert.Empty(t, api.Requests())

	require.NoError(t, frm.Edit(func(in *Input) { in.DueDate = "2024-04-30" }))
	require.NoError(t, frm.Submit(ctx))
	assert.Equal(t, "Assignment added successfully!", msgs[len(msgs)-1])
	require.Len(t, client.Assignments(), 1)

	// edit goes to the target's id
	created := client.Assignments()[0]
	require.NoError(t, frm.OpenForEdit(ctx, created))
	require.NoError(t, frm.Edit(func(in *Input) { in.Priority = PriorityHigh }))
	require.NoError(t, frm.Submit(ctx))
	assert.Equal(t, "Assignment updated!", msgs[len(msgs)-1])
	assert.Equal(t, PriorityHigh, client.Assignments()[0].Priority)

	for _, req := range api.Requests() {
		if req.Method == http.MethodPut {
			assert.Equal(t, "/editassignment/"+created.ID.String(), req.Path)
		}
	}
}
