package studio

import "errors"

var (
	ErrMissingNodeID        = errors.New("studio: node id is required")
	ErrDuplicateNodeID      = errors.New("studio: duplicate node id")
	ErrUnknownComponentType = errors.New("studio: unknown component type")
	ErrUnknownSection       = errors.New("studio: unknown section")
	ErrUnknownPage          = errors.New("studio: unknown page")
	ErrNodeNotFound         = errors.New("studio: node not found")
	ErrNotContainer         = errors.New("studio: parent does not accept children")
	ErrInvalidMove          = errors.New("studio: cannot move a node into its own subtree")
	ErrPageNotFound         = errors.New("studio: page not found")
	ErrMissingTenant        = errors.New("studio: tenant id is required")
	ErrNotCheckout          = errors.New("studio: node is not a checkout block")
	ErrInvalidSettings      = errors.New("studio: invalid editor settings")
	errMissingPageStore     = errors.New("studio: page store not configured")
	errMissingTemplates     = errors.New("studio: template renderer not configured")
)
