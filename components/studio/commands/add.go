package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"

	"github.com/bayup/go-studio/components/studio"
)

// AddComponentInput wraps the service request. Result, when set, receives the new node.
type AddComponentInput struct {
	Request studio.AddComponentRequest
	Result  *studio.Node
}

type addService interface {
	AddComponent(ctx context.Context, req studio.AddComponentRequest) (studio.Node, error)
}

// AddComponentCommand inserts a default component into a page.
type AddComponentCommand struct {
	service   addService
	telemetry Telemetry
}

// NewAddComponentCommand creates a command instance.
func NewAddComponentCommand(service addService, telemetry Telemetry) *AddComponentCommand {
	return &AddComponentCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[AddComponentInput] = (*AddComponentCommand)(nil)

// Execute delegates to the studio service.
func (c *AddComponentCommand) Execute(ctx context.Context, msg AddComponentInput) error {
	if c.service == nil {
		return errors.New("add component command requires service")
	}
	node, err := c.service.AddComponent(ctx, msg.Request)
	if err != nil {
		return err
	}
	if msg.Result != nil {
		*msg.Result = node
	}
	c.telemetry.Record(ctx, "studio.command.add", map[string]any{
		"tenant_id": msg.Request.Key.TenantID,
		"page":      msg.Request.Key.Page,
		"type":      msg.Request.Type,
		"node_id":   node.ID,
	})
	return nil
}
