package course

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"github.com/pkg/errors"

	"github.com/17dpatra/studentassignmenttracker/core"
)

const (
	listPath   = "/courses"
	createPath = "/addcourse"
	updatePath = "/editcourse/%s"
	deletePath = "/deletecourse/%s"
)

// SortKeys are the columns a course list can be sorted by.
var SortKeys = map[string]core.Compare[Course]{
	"name":       core.ByString(func(c Course) string { return c.Name }),
	"start_date": core.ByDate(func(c Course) string { return c.StartDate }),
	"end_date":   core.ByDate(func(c Course) string { return c.EndDate }),
}

// Client owns the in-memory course list. The list only changes through List:
// writes never insert or remove entries optimistically.
type Client struct {
	api    core.Requester
	logger core.Logger

	mu      sync.RWMutex
	courses []Course
	fetched bool
}

func NewClient(api core.Requester, logger core.Logger) *Client {
	return &Client{api: api, logger: logger}
}

// List fetches every course of the current session. On failure the cached list is left as it was.
func (c *Client) List(ctx context.Context) ([]Course, error) {
	var courses []Course
	if err := c.api.Do(ctx, http.MethodGet, listPath, nil, &courses); err != nil {
		c.logger.Error("Failed to get courses", err)
		return nil, errors.Wrap(err, "listing courses")
	}
	if courses == nil {
		courses = []Course{}
	}

	c.mu.Lock()
	c.courses = courses
	c.fetched = true
	c.mu.Unlock()
	return c.Courses(), nil
}

// Create sends in and returns the course the server answered with. Any 2xx is
// a success: a body that does not describe a course falls back to in.
func (c *Client) Create(ctx context.Context, in Input) (Course, error) {
	if err := in.Validate(); err != nil {
		return Course{}, err
	}
	var raw json.RawMessage
	if err := c.api.Do(ctx, http.MethodPost, createPath, in, &raw); err != nil {
		return Course{}, errors.Wrap(err, "creating course")
	}
	return c.saved(raw, "", in), nil
}

// Update replaces name, start and end date of the course wholesale.
func (c *Client) Update(ctx context.Context, id core.ID, in Input) (Course, error) {
	if err := in.Validate(); err != nil {
		return Course{}, err
	}
	var raw json.RawMessage
	if err := c.api.Do(ctx, http.MethodPut, fmt.Sprintf(updatePath, id.PathSegment()), in, &raw); err != nil {
		return Course{}, errors.Wrap(err, "updating course")
	}
	return c.saved(raw, id, in), nil
}

// saved reads the course out of a write response. id, when set, wins over the body's.
func (c *Client) saved(raw json.RawMessage, id core.ID, in Input) Course {
	var crs Course
	if err := json.Unmarshal(raw, &crs); err != nil {
		c.logger.Debug("course response not decoded", err, map[string]interface{}{"body": string(raw)})
		crs = Course{}
	}
	if crs.Name == "" {
		crs = Course{ID: crs.ID, Name: in.Name, StartDate: in.StartDate, EndDate: in.EndDate}
	}
	if id != "" {
		crs.ID = id
	}
	return crs
}

// Delete removes the course and, server-side, all its assignments.
// Callers must get the user's confirmation first.
func (c *Client) Delete(ctx context.Context, id core.ID) error {
	if err := c.api.Do(ctx, http.MethodDelete, fmt.Sprintf(deletePath, id.PathSegment()), nil, nil); err != nil {
		c.logger.Error("Failed to delete course", err, map[string]interface{}{"course_id": id})
		return errors.Wrap(err, "deleting course")
	}
	return nil
}

// Courses returns a copy of the cached list.
func (c *Client) Courses() []Course {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Course, len(c.courses))
	copy(out, c.courses)
	return out
}

// Fetched reports whether List succeeded at least once.
func (c *Client) Fetched() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.fetched
}

func (c *Client) Lookup(id core.ID) (Course, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return Find(c.courses, id)
}

func (c *Client) Sorted(key string, order core.Order) ([]Course, error) {
	return core.Sort(c.Courses(), SortKeys, key, order)
}
