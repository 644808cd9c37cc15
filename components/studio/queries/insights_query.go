package queries

import (
	"context"

	gocommand "github.com/goliatone/go-command"
)

// InsightsInput identifies the tenant whose composition chart is requested.
type InsightsInput struct {
	TenantID string
}

type insightsService interface {
	CompositionChart(ctx context.Context, tenantID string) (string, error)
}

// InsightsQuery renders the component composition chart.
type InsightsQuery struct {
	service insightsService
}

// NewInsightsQuery builds the query.
func NewInsightsQuery(service insightsService) *InsightsQuery {
	return &InsightsQuery{service: service}
}

var _ gocommand.Querier[InsightsInput, string] = (*InsightsQuery)(nil)

// Query returns chart HTML.
func (q *InsightsQuery) Query(ctx context.Context, input InsightsInput) (string, error) {
	return q.service.CompositionChart(ctx, input.TenantID)
}
