package studio

import (
	core "github.com/bayup/go-studio/components/studio"
)

// Service exposes the underlying components/studio.Service type.
type Service = core.Service

// Options re-export for convenience.
type Options = core.Options

// SiteSchema, PageSchema and Node are the schema types callers persist.
type (
	SiteSchema = core.SiteSchema
	PageSchema = core.PageSchema
	Node       = core.Node
	SessionKey = core.SessionKey
)

// NewService proxies to the internal constructor.
func NewService(opts Options) *Service {
	return core.NewService(opts)
}

// GenerateSite builds all six pages of a template with fresh ids.
func GenerateSite(templateID string) SiteSchema {
	return core.Generate(templateID)
}
