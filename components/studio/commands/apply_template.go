package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"

	"github.com/bayup/go-studio/components/studio"
)

type templateService interface {
	ApplyTemplate(ctx context.Context, req studio.ApplyTemplateRequest) (studio.SiteSchema, error)
}

// ApplyTemplateCommand regenerates every page of a tenant from a template.
type ApplyTemplateCommand struct {
	service   templateService
	telemetry Telemetry
}

// NewApplyTemplateCommand creates a command instance.
func NewApplyTemplateCommand(service templateService, telemetry Telemetry) *ApplyTemplateCommand {
	return &ApplyTemplateCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[studio.ApplyTemplateRequest] = (*ApplyTemplateCommand)(nil)

// Execute delegates to the studio service.
func (c *ApplyTemplateCommand) Execute(ctx context.Context, msg studio.ApplyTemplateRequest) error {
	if c.service == nil {
		return errors.New("apply template command requires service")
	}
	if _, err := c.service.ApplyTemplate(ctx, msg); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "studio.command.template", map[string]any{
		"tenant_id":   msg.TenantID,
		"template_id": msg.TemplateID,
	})
	return nil
}
