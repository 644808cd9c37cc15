package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"

	"github.com/bayup/go-studio/components/studio"
)

// RemoveComponentInput identifies the node to delete.
type RemoveComponentInput struct {
	Key    studio.SessionKey
	NodeID string
}

type removeService interface {
	RemoveComponent(ctx context.Context, key studio.SessionKey, nodeID string) error
}

// RemoveComponentCommand deletes a node and its subtree.
type RemoveComponentCommand struct {
	service   removeService
	telemetry Telemetry
}

// NewRemoveComponentCommand creates a command instance.
func NewRemoveComponentCommand(service removeService, telemetry Telemetry) *RemoveComponentCommand {
	return &RemoveComponentCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[RemoveComponentInput] = (*RemoveComponentCommand)(nil)

// Execute delegates to the studio service.
func (c *RemoveComponentCommand) Execute(ctx context.Context, msg RemoveComponentInput) error {
	if c.service == nil {
		return errors.New("remove component command requires service")
	}
	if msg.NodeID == "" {
		return studio.ErrMissingNodeID
	}
	if err := c.service.RemoveComponent(ctx, msg.Key, msg.NodeID); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "studio.command.remove", map[string]any{
		"tenant_id": msg.Key.TenantID,
		"node_id":   msg.NodeID,
	})
	return nil
}
