package assignment

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"github.com/pkg/errors"

	"github.com/17dpatra/studentassignmenttracker/core"
	"github.com/17dpatra/studentassignmenttracker/core/course"
)

const (
	listPath   = "/assignments"
	createPath = "/addassignment"
	updatePath = "/editassignment/%s"
	deletePath = "/deleteassignment/%s"
)

// SortKeys are the columns an assignment list can be sorted by.
var SortKeys = map[string]core.Compare[Assignment]{
	"title":       core.ByString(func(a Assignment) string { return a.Title }),
	"description": core.ByString(func(a Assignment) string { return a.Description }),
	"due_date":    core.ByDate(func(a Assignment) string { return a.DueDate }),
	"priority":    core.ByInt(func(a Assignment) int { return int(a.Priority) }),
	"course_id":   core.ByID(func(a Assignment) core.ID { return a.CourseID }),
}

// Client owns the in-memory assignment list, unfiltered by course.
type Client struct {
	api    core.Requester
	logger core.Logger

	mu          sync.RWMutex
	assignments []Assignment
}

func NewClient(api core.Requester, logger core.Logger) *Client {
	return &Client{api: api, logger: logger}
}

// List fetches every assignment of the current session. On failure the cached list is left as it was.
func (c *Client) List(ctx context.Context) ([]Assignment, error) {
	var assignments []Assignment
	if err := c.api.Do(ctx, http.MethodGet, listPath, nil, &assignments); err != nil {
		c.logger.Error("Failed to get assignments", err)
		return nil, errors.Wrap(err, "listing assignments")
	}
	if assignments == nil {
		assignments = []Assignment{}
	}

	c.mu.Lock()
	c.assignments = assignments
	c.mu.Unlock()
	return c.Assignments(), nil
}

// Create validates in against courses (see Input.Validate) before sending anything.
// Any 2xx is a success: a body that does not describe an assignment falls back to in.
func (c *Client) Create(ctx context.Context, in Input, courses []course.Course) (Assignment, error) {
	if err := in.Validate(courses); err != nil {
		return Assignment{}, err
	}
	var raw json.RawMessage
	if err := c.api.Do(ctx, http.MethodPost, createPath, in, &raw); err != nil {
		return Assignment{}, errors.Wrap(err, "creating assignment")
	}
	return c.saved(raw, "", in), nil
}

func (c *Client) Update(ctx context.Context, id core.ID, in Input, courses []course.Course) (Assignment, error) {
	if err := in.Validate(courses); err != nil {
		return Assignment{}, err
	}
	var raw json.RawMessage
	if err := c.api.Do(ctx, http.MethodPut, fmt.Sprintf(updatePath, id.PathSegment()), in, &raw); err != nil {
		return Assignment{}, errors.Wrap(err, "updating assignment")
	}
	return c.saved(raw, id, in), nil
}

func (c *Client) saved(raw json.RawMessage, id core.ID, in Input) Assignment {
	var a Assignment
	if err := json.Unmarshal(raw, &a); err != nil {
		c.logger.Debug("assignment response not decoded", err, map[string]interface{}{"body": string(raw)})
		a = Assignment{}
	}
	if a.Title == "" {
		a = fromInput(a.ID, in)
	}
	if id != "" {
		a.ID = id
	}
	return a
}

// Delete removes the assignment. Callers must get the user's confirmation first.
func (c *Client) Delete(ctx context.Context, id core.ID) error {
	if err := c.api.Do(ctx, http.MethodDelete, fmt.Sprintf(deletePath, id.PathSegment()), nil, nil); err != nil {
		c.logger.Error("Failed to delete assignment", err, map[string]interface{}{"assignment_id": id})
		return errors.Wrap(err, "deleting assignment")
	}
	return nil
}

// Assignments returns a copy of the cached list.
func (c *Client) Assignments() []Assignment {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Assignment, len(c.assignments))
	copy(out, c.assignments)
	return out
}

func (c *Client) Lookup(id core.ID) (Assignment, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, a := range c.assignments {
		if a.ID == id {
			return a, true
		}
	}
	return Assignment{}, false
}

func (c *Client) Sorted(key string, order core.Order) ([]Assignment, error) {
	return core.Sort(c.Assignments(), SortKeys, key, order)
}

func fromInput(id core.ID, in Input) Assignment {
	return Assignment{
		ID:          id,
		Title:       in.Title,
		Description: in.Description,
		DueDate:     in.DueDate,
		Priority:    in.Priority,
		CourseID:    in.CourseID,
	}
}
