package studio

import (
	"context"

	"go.uber.org/zap"
)

type noopTelemetry struct{}

func (noopTelemetry) Record(context.Context, string, map[string]any) {}

func normalizeTelemetry(t Telemetry) Telemetry {
	if t == nil {
		return noopTelemetry{}
	}
	return t
}

// ZapTelemetry writes telemetry events as structured debug logs.
type ZapTelemetry struct {
	logger *zap.Logger
}

// NewZapTelemetry wraps logger. A nil logger discards events.
func NewZapTelemetry(logger *zap.Logger) *ZapTelemetry {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ZapTelemetry{logger: logger.Named("telemetry")}
}

// Record implements Telemetry.
func (t *ZapTelemetry) Record(ctx context.Context, event string, payload map[string]any) {
	fields := make([]zap.Field, 0, len(payload)+2)
	fields = append(fields, zap.String("event", event))
	if meta := activityContextFrom(ctx); meta.ActorID != "" {
		fields = append(fields, zap.String("actor_id", meta.ActorID))
	}
	for key, value := range payload {
		fields = append(fields, zap.Any(key, value))
	}
	t.logger.Debug("studio event", fields...)
}
