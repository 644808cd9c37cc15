package queries

import (
	"context"

	gocommand "github.com/goliatone/go-command"

	"github.com/bayup/go-studio/components/studio"
)

// ToolboxInput selects the locale of toolbox names.
type ToolboxInput struct {
	Locale string
}

// Toolbox lists components and templates for the editor sidebar.
type Toolbox struct {
	Components []studio.ComponentSummary `json:"components"`
	Templates  []studio.TemplateInfo     `json:"templates"`
}

type toolboxService interface {
	Components(locale string) []studio.ComponentSummary
	Templates() []studio.TemplateInfo
}

// ToolboxQuery resolves the toolbox for a locale.
type ToolboxQuery struct {
	service toolboxService
}

// NewToolboxQuery builds the query.
func NewToolboxQuery(service toolboxService) *ToolboxQuery {
	return &ToolboxQuery{service: service}
}

var _ gocommand.Querier[ToolboxInput, Toolbox] = (*ToolboxQuery)(nil)

// Query returns the localized toolbox.
func (q *ToolboxQuery) Query(_ context.Context, input ToolboxInput) (Toolbox, error) {
	return Toolbox{
		Components: q.service.Components(input.Locale),
		Templates:  q.service.Templates(),
	}, nil
}
