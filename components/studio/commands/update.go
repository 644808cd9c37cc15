package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"

	"github.com/bayup/go-studio/components/studio"
)

// UpdateComponentInput wraps the service request. Result, when set, receives the patched node.
type UpdateComponentInput struct {
	Request studio.UpdateComponentRequest
	Result  *studio.Node
}

type updateService interface {
	UpdateComponent(ctx context.Context, req studio.UpdateComponentRequest) (studio.Node, error)
}

// UpdateComponentCommand applies a prop/style patch to one node.
type UpdateComponentCommand struct {
	service   updateService
	telemetry Telemetry
}

// NewUpdateComponentCommand creates a command instance.
func NewUpdateComponentCommand(service updateService, telemetry Telemetry) *UpdateComponentCommand {
	return &UpdateComponentCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[UpdateComponentInput] = (*UpdateComponentCommand)(nil)

// Execute delegates to the studio service.
func (c *UpdateComponentCommand) Execute(ctx context.Context, msg UpdateComponentInput) error {
	if c.service == nil {
		return errors.New("update component command requires service")
	}
	if msg.Request.NodeID == "" {
		return studio.ErrMissingNodeID
	}
	node, err := c.service.UpdateComponent(ctx, msg.Request)
	if err != nil {
		return err
	}
	if msg.Result != nil {
		*msg.Result = node
	}
	c.telemetry.Record(ctx, "studio.command.update", map[string]any{
		"tenant_id": msg.Request.Key.TenantID,
		"node_id":   msg.Request.NodeID,
	})
	return nil
}
