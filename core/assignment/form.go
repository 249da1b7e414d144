package assignment

import (
	"context"

	"github.com/17dpatra/studentassignmenttracker/core"
	"github.com/17dpatra/studentassignmenttracker/core/course"
	"github.com/17dpatra/studentassignmenttracker/core/form"
)

type Form = form.Controller[Assignment, Input]

type formBinding struct {
	client  *Client
	courses *course.Client
}

// NewForm returns the add/edit assignment form. Opening it fetches the course list,
// which every submission then validates the due date against.
func NewForm(client *Client, courses *course.Client, notifier form.Notifier, logger core.Logger) *Form {
	return form.New[Assignment, Input]("assignment", formBinding{client: client, courses: courses}, notifier, logger)
}

func (b formBinding) Blank() Input { return Input{Priority: PriorityLow} }

func (b formBinding) FromEntity(a Assignment) Input { return a.Input() }

func (b formBinding) Prepare(ctx context.Context) error {
	_, err := b.courses.List(ctx)
	return err
}

func (b formBinding) Validate(in Input) error { return in.Validate(b.courses.Courses()) }

func (b formBinding) Create(ctx context.Context, in Input) error {
	_, err := b.client.Create(ctx, in, b.courses.Courses())
	return err
}

func (b formBinding) Update(ctx context.Context, target Assignment, in Input) error {
	_, err := b.client.Update(ctx, target.ID, in, b.courses.Courses())
	return err
}

func (b formBinding) Refresh(ctx context.Context) error {
	_, err := b.client.List(ctx)
	return err
}
