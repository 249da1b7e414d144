// Package form implements the add/edit form state machine shared by courses and assignments.
package form

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/pkg/errors"

	"github.com/17dpatra/studentassignmenttracker/core"
)

type State int

const (
	Idle       State = iota // form hidden
	Composing               // fields bound to a blank draft or a copy of an entity
	Submitting              // request in flight
)

func (s State) String() string {
	switch s {
	case Composing:
		return "composing"
	case Submitting:
		return "submitting"
	default:
		return "idle"
	}
}

var (
	ErrSubmitting   = errors.New("a submission is already in progress")
	ErrNotComposing = errors.New("the form is not open")
)

// Binding connects a Controller to one entity type E edited through a draft D.
type Binding[E, D any] interface {
	Blank() D
	FromEntity(E) D
	// Prepare runs whenever the form opens (e.g. fetching reference data).
	Prepare(ctx context.Context) error
	Validate(D) error
	Create(ctx context.Context, draft D) error
	Update(ctx context.Context, target E, draft D) error
	// Refresh reloads the list after a successful write.
	Refresh(ctx context.Context) error
}

// Notifier surfaces user-visible messages.
type Notifier interface {
	Notify(msg string)
}

type NotifierFunc func(msg string)

func (f NotifierFunc) Notify(msg string) { f(msg) }

// Controller mediates between add and edit modes. The editing target is the
// only thing deciding between create and update.
type Controller[E, D any] struct {
	noun     string
	binding  Binding[E, D]
	notifier Notifier
	logger   core.Logger

	mu     sync.Mutex
	state  State
	draft  D
	target *E
}

// New returns an Idle controller; noun names the entity in messages ("course").
func New[E, D any](noun string, binding Binding[E, D], notifier Notifier, logger core.Logger) *Controller[E, D] {
	return &Controller[E, D]{
		noun:     noun,
		binding:  binding,
		notifier: notifier,
		logger:   logger,
		draft:    binding.Blank(),
	}
}

func (c *Controller[E, D]) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Controller[E, D]) Draft() D {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.draft
}

func (c *Controller[E, D]) Target() (E, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.target == nil {
		var zero E
		return zero, false
	}
	return *c.target, true
}

// OpenForCreate resets every field and drops any editing target.
func (c *Controller[E, D]) OpenForCreate(ctx context.Context) error {
	c.mu.Lock()
	if c.state == Submitting {
		c.mu.Unlock()
		return ErrSubmitting
	}
	c.state = Composing
	c.draft = c.binding.Blank()
	c.target = nil
	c.mu.Unlock()
	return c.prepare(ctx)
}

// OpenForEdit binds the fields to a copy of e and makes e the editing target.
func (c *Controller[E, D]) OpenForEdit(ctx context.Context, e E) error {
	c.mu.Lock()
	if c.state == Submitting {
		c.mu.Unlock()
		return ErrSubmitting
	}
	target := e
	c.state = Composing
	c.draft = c.binding.FromEntity(e)
	c.target = &target
	c.mu.Unlock()
	return c.prepare(ctx)
}

// prepare failures keep the form open; validation reports what is missing.
func (c *Controller[E, D]) prepare(ctx context.Context) error {
	if err := c.binding.Prepare(ctx); err != nil {
		c.logger.Error(fmt.Sprintf("preparing %s form", c.noun), err)
		return errors.Wrapf(err, "preparing %s form", c.noun)
	}
	return nil
}

// Edit changes the draft in place.
func (c *Controller[E, D]) Edit(fn func(draft *D)) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != Composing {
		if c.state == Submitting {
			return ErrSubmitting
		}
		return ErrNotComposing
	}
	fn(&c.draft)
	return nil
}

// Submit validates the draft, then creates or updates depending on the editing target.
// Success closes the form and refreshes the list; failure keeps the draft for correction.
func (c *Controller[E, D]) Submit(ctx context.Context) error {
	c.mu.Lock()
	switch c.state {
	case Submitting:
		c.mu.Unlock()
		return ErrSubmitting
	case Idle:
		c.mu.Unlock()
		return ErrNotComposing
	}
	draft := c.draft
	target := c.target

	if err := c.binding.Validate(draft); err != nil {
		c.mu.Unlock()
		c.notifier.Notify(err.Error())
		return err
	}
	c.state = Submitting
	c.mu.Unlock()

	var err error
	if target != nil {
		err = c.binding.Update(ctx, *target, draft)
	} else {
		err = c.binding.Create(ctx, draft)
	}

	c.mu.Lock()
	if err != nil {
		c.state = Composing
		c.mu.Unlock()
		c.logger.Error(fmt.Sprintf("Failed to save %s", c.noun), err)
		c.notifier.Notify(c.failureMessage(err))
		return err
	}
	c.state = Idle
	c.draft = c.binding.Blank()
	c.target = nil
	c.mu.Unlock()

	if target != nil {
		c.notifier.Notify(fmt.Sprintf("%s updated!", capitalize(c.noun)))
	} else {
		c.notifier.Notify(fmt.Sprintf("%s added successfully!", capitalize(c.noun)))
	}
	if rErr := c.binding.Refresh(ctx); rErr != nil {
		c.logger.Warn(fmt.Sprintf("refreshing %s list", c.noun), rErr)
	}
	return nil
}

// Cancel discards every field edit and the editing target.
func (c *Controller[E, D]) Cancel() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == Submitting {
		return ErrSubmitting
	}
	c.state = Idle
	c.draft = c.binding.Blank()
	c.target = nil
	return nil
}

func (c *Controller[E, D]) failureMessage(err error) string {
	var rErr *core.RequestError
	switch {
	case core.IsValidation(err):
		return err.Error()
	case errors.As(err, &rErr):
		return fmt.Sprintf("Failed to save %s: %s", c.noun, rErr.Message)
	default:
		return fmt.Sprintf("An error occurred while saving the %s.", c.noun)
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
