package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"

	"github.com/bayup/go-studio/components/studio"
)

type moveService interface {
	MoveComponent(ctx context.Context, req studio.MoveComponentRequest) error
}

// MoveComponentCommand relocates a node within its page.
type MoveComponentCommand struct {
	service   moveService
	telemetry Telemetry
}

// NewMoveComponentCommand creates a command instance.
func NewMoveComponentCommand(service moveService, telemetry Telemetry) *MoveComponentCommand {
	return &MoveComponentCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[studio.MoveComponentRequest] = (*MoveComponentCommand)(nil)

// Execute delegates to the studio service.
func (c *MoveComponentCommand) Execute(ctx context.Context, msg studio.MoveComponentRequest) error {
	if c.service == nil {
		return errors.New("move component command requires service")
	}
	if msg.NodeID == "" {
		return studio.ErrMissingNodeID
	}
	if err := c.service.MoveComponent(ctx, msg); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "studio.command.move", map[string]any{
		"tenant_id": msg.Key.TenantID,
		"node_id":   msg.NodeID,
		"section":   msg.To.Section,
	})
	return nil
}
