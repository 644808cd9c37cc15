package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"

	"github.com/bayup/go-studio/components/studio"
)

// ConfigureEditorInput changes viewport, edit mode or active section.
type ConfigureEditorInput struct {
	Key      studio.SessionKey
	Settings studio.EditorSettings
}

type configureService interface {
	Configure(ctx context.Context, key studio.SessionKey, settings studio.EditorSettings) error
}

// ConfigureEditorCommand applies editor settings.
type ConfigureEditorCommand struct {
	service configureService
}

// NewConfigureEditorCommand creates a command instance.
func NewConfigureEditorCommand(service configureService) *ConfigureEditorCommand {
	return &ConfigureEditorCommand{service: service}
}

var _ gocommand.Commander[ConfigureEditorInput] = (*ConfigureEditorCommand)(nil)

// Execute delegates to the studio service.
func (c *ConfigureEditorCommand) Execute(ctx context.Context, msg ConfigureEditorInput) error {
	if c.service == nil {
		return errors.New("configure command requires service")
	}
	return c.service.Configure(ctx, msg.Key, msg.Settings)
}
