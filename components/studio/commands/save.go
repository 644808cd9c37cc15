package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"

	"github.com/bayup/go-studio/components/studio"
)

// SavePageInput persists a page. Draft stores the preview copy instead of publishing.
type SavePageInput struct {
	Key   studio.SessionKey
	Draft bool
}

type saveService interface {
	Save(ctx context.Context, key studio.SessionKey) error
	SaveDraft(ctx context.Context, key studio.SessionKey) (studio.Draft, error)
}

// SavePageCommand publishes a page or stores its preview draft.
type SavePageCommand struct {
	service   saveService
	telemetry Telemetry
}

// NewSavePageCommand creates a command instance.
func NewSavePageCommand(service saveService, telemetry Telemetry) *SavePageCommand {
	return &SavePageCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[SavePageInput] = (*SavePageCommand)(nil)

// Execute delegates to the studio service.
func (c *SavePageCommand) Execute(ctx context.Context, msg SavePageInput) error {
	if c.service == nil {
		return errors.New("save command requires service")
	}
	var err error
	if msg.Draft {
		_, err = c.service.SaveDraft(ctx, msg.Key)
	} else {
		err = c.service.Save(ctx, msg.Key)
	}
	if err != nil {
		return err
	}
	c.telemetry.Record(ctx, "studio.command.save", map[string]any{
		"tenant_id": msg.Key.TenantID,
		"page":      msg.Key.Page,
		"draft":     msg.Draft,
	})
	return nil
}
