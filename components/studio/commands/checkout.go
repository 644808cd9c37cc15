package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"

	"github.com/bayup/go-studio/components/studio"
)

// ContinueCheckoutInput advances one checkout block. Result, when set, receives the new step.
type ContinueCheckoutInput struct {
	Key    studio.SessionKey
	NodeID string
	Result *studio.CheckoutStep
}

type checkoutService interface {
	AdvanceCheckout(ctx context.Context, key studio.SessionKey, nodeID string) (studio.CheckoutStep, error)
}

// ContinueCheckoutCommand moves a checkout block to its next step.
type ContinueCheckoutCommand struct {
	service   checkoutService
	telemetry Telemetry
}

// NewContinueCheckoutCommand creates a command instance.
func NewContinueCheckoutCommand(service checkoutService, telemetry Telemetry) *ContinueCheckoutCommand {
	return &ContinueCheckoutCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[ContinueCheckoutInput] = (*ContinueCheckoutCommand)(nil)

// Execute delegates to the studio service.
func (c *ContinueCheckoutCommand) Execute(ctx context.Context, msg ContinueCheckoutInput) error {
	if c.service == nil {
		return errors.New("checkout command requires service")
	}
	step, err := c.service.AdvanceCheckout(ctx, msg.Key, msg.NodeID)
	if err != nil {
		return err
	}
	if msg.Result != nil {
		*msg.Result = step
	}
	c.telemetry.Record(ctx, "studio.command.checkout", map[string]any{
		"tenant_id": msg.Key.TenantID,
		"node_id":   msg.NodeID,
		"step":      step.String(),
	})
	return nil
}
