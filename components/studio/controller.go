package studio

import (
	"context"
	"errors"
	"io"
)

var errMissingPageSource = errors.New("studio: controller service not configured")

// PageSource is the subset of Service the controller depends on.
type PageSource interface {
	RenderEditor(ctx context.Context, key SessionKey) (string, error)
	RenderPreview(ctx context.Context, key SessionKey) (string, error)
	RenderStorefront(ctx context.Context, key SessionKey, step CheckoutStep) (string, error)
	State(ctx context.Context, key SessionKey) (SessionState, error)
}

// ControllerOptions configures the controller.
type ControllerOptions struct {
	Service PageSource
}

// Controller orchestrates HTML and JSON responses for the studio routes.
type Controller struct {
	service PageSource
}

// NewController wires the service into a controller.
func NewController(opts ControllerOptions) *Controller {
	return &Controller{service: opts.Service}
}

// RenderEditor writes the editor document of a session.
func (c *Controller) RenderEditor(ctx context.Context, key SessionKey, out io.Writer) error {
	if c.service == nil {
		return errMissingPageSource
	}
	doc, err := c.service.RenderEditor(ctx, key)
	if err != nil {
		return err
	}
	_, err = io.WriteString(out, doc)
	return err
}

// RenderPreview writes the storefront view of a live editor session.
func (c *Controller) RenderPreview(ctx context.Context, key SessionKey, out io.Writer) error {
	if c.service == nil {
		return errMissingPageSource
	}
	doc, err := c.service.RenderPreview(ctx, key)
	if err != nil {
		return err
	}
	_, err = io.WriteString(out, doc)
	return err
}

// RenderStorefront writes the published document of a page at a checkout step.
func (c *Controller) RenderStorefront(ctx context.Context, key SessionKey, step CheckoutStep, out io.Writer) error {
	if c.service == nil {
		return errMissingPageSource
	}
	doc, err := c.service.RenderStorefront(ctx, key, step)
	if err != nil {
		return err
	}
	_, err = io.WriteString(out, doc)
	return err
}

// StatePayload returns the JSON payload describing a session.
func (c *Controller) StatePayload(ctx context.Context, key SessionKey) (SessionState, error) {
	if c.service == nil {
		return SessionState{}, errMissingPageSource
	}
	return c.service.State(ctx, key)
}
