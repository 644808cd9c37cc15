package queries

import (
	"context"

	gocommand "github.com/goliatone/go-command"

	"github.com/bayup/go-studio/components/studio"
)

type stateService interface {
	State(ctx context.Context, key studio.SessionKey) (studio.SessionState, error)
}

// SessionStateQuery executes read-only session resolution.
type SessionStateQuery struct {
	service stateService
}

// NewSessionStateQuery builds the query.
func NewSessionStateQuery(service stateService) *SessionStateQuery {
	return &SessionStateQuery{service: service}
}

var _ gocommand.Querier[studio.SessionKey, studio.SessionState] = (*SessionStateQuery)(nil)

// Query returns the page schema and editor settings of a session.
func (q *SessionStateQuery) Query(ctx context.Context, key studio.SessionKey) (studio.SessionState, error) {
	return q.service.State(ctx, key)
}
