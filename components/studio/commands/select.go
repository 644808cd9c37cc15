package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"

	"github.com/bayup/go-studio/components/studio"
)

// SelectComponentInput marks a node as selected in the editor.
type SelectComponentInput struct {
	Key    studio.SessionKey
	NodeID string
}

type selectService interface {
	Select(ctx context.Context, key studio.SessionKey, nodeID string) error
}

// SelectComponentCommand changes the editor selection.
type SelectComponentCommand struct {
	service selectService
}

// NewSelectComponentCommand creates a command instance.
func NewSelectComponentCommand(service selectService) *SelectComponentCommand {
	return &SelectComponentCommand{service: service}
}

var _ gocommand.Commander[SelectComponentInput] = (*SelectComponentCommand)(nil)

// Execute delegates to the studio service.
func (c *SelectComponentCommand) Execute(ctx context.Context, msg SelectComponentInput) error {
	if c.service == nil {
		return errors.New("select command requires service")
	}
	return c.service.Select(ctx, msg.Key, msg.NodeID)
}
