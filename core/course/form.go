package course

import (
	"context"

	"github.com/17dpatra/studentassignmenttracker/core"
	"github.com/17dpatra/studentassignmenttracker/core/form"
)

type Form = form.Controller[Course, Input]

type formBinding struct {
	client *Client
}

// NewForm returns the add/edit course form driving client.
func NewForm(client *Client, notifier form.Notifier, logger core.Logger) *Form {
	return form.New[Course, Input]("course", formBinding{client: client}, notifier, logger)
}

func (b formBinding) Blank() Input { return Input{} }

func (b formBinding) FromEntity(c Course) Input { return c.Input() }

func (b formBinding) Prepare(_ context.Context) error { return nil }

func (b formBinding) Validate(in Input) error { return in.Validate() }

func (b formBinding) Refresh(ctx context.Context) error {
	_, err := b.client.List(ctx)
	return err
}

func (b formBinding) Create(ctx context.Context, in Input) error {
	_, err := b.client.Create(ctx, in)
	return err
}

func (b formBinding) Update(ctx context.Context, target Course, in Input) error {
	_, err := b.client.Update(ctx, target.ID, in)
	return err
}
