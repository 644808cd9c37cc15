package studio

import (
	"context"
	"encoding/json"
	"fmt"
)

// ComponentType tags a descriptor with the rendering branch and property schema it uses.
type ComponentType string

const (
	TypeSection           ComponentType = "section"
	TypeGrid              ComponentType = "grid"
	TypeText              ComponentType = "text"
	TypeButton            ComponentType = "button"
	TypeImage             ComponentType = "image"
	TypeNavbar            ComponentType = "navbar"
	TypeHeroBanner        ComponentType = "hero-banner"
	TypeProductGrid       ComponentType = "product-grid"
	TypeCategoriesGrid    ComponentType = "categories-grid"
	TypeProductMasterView ComponentType = "product-master-view"
	TypeCards             ComponentType = "cards"
	TypeVideo             ComponentType = "video"
	TypeAnnouncementBar   ComponentType = "announcement-bar"
	TypeFooter            ComponentType = "footer-premium"
	TypeCheckout          ComponentType = "custom-block"
	TypeWhatsApp          ComponentType = "whatsapp"
	TypeCountdown         ComponentType = "countdown"
)

// SectionType addresses one of the three zones of a page.
type SectionType string

const (
	SectionHeader SectionType = "header"
	SectionBody   SectionType = "body"
	SectionFooter SectionType = "footer"
)

// Sections lists zones in document order.
var Sections = []SectionType{SectionHeader, SectionBody, SectionFooter}

// Valid reports whether the section names a known zone.
func (s SectionType) Valid() bool {
	switch s {
	case SectionHeader, SectionBody, SectionFooter:
		return true
	}
	return false
}

// PageName identifies one page of a generated site.
type PageName string

const (
	PageHome        PageName = "home"
	PageCollections PageName = "collections"
	PageProducts    PageName = "products"
	PageAbout       PageName = "about"
	PageLegal       PageName = "legal"
	PageCheckout    PageName = "checkout"
)

// Pages lists every page a template produces.
var Pages = []PageName{PageHome, PageCollections, PageProducts, PageAbout, PageLegal, PageCheckout}

// Valid reports whether the page is one of the generated pages.
func (p PageName) Valid() bool {
	for _, page := range Pages {
		if page == p {
			return true
		}
	}
	return false
}

// Viewport selects responsive overrides.
type Viewport string

const (
	ViewportDesktop Viewport = "desktop"
	ViewportTablet  Viewport = "tablet"
	ViewportMobile  Viewport = "mobile"
)

// Valid reports whether v is a known viewport.
func (v Viewport) Valid() bool {
	switch v {
	case ViewportDesktop, ViewportTablet, ViewportMobile:
		return true
	}
	return false
}

// EditMode decides where prop patches land: the base props or the active viewport overrides.
type EditMode string

const (
	EditModeAll        EditMode = "all"
	EditModeIndividual EditMode = "individual"
)

// Valid reports whether m is a known edit mode.
func (m EditMode) Valid() bool {
	return m == EditModeAll || m == EditModeIndividual
}

// Styles holds inline presentational properties keyed in camelCase.
type Styles map[string]string

// Clone returns an independent copy.
func (s Styles) Clone() Styles {
	if s == nil {
		return nil
	}
	out := make(Styles, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// ViewportOverrides stores per-viewport prop patches.
type ViewportOverrides map[Viewport]map[string]any

func (o ViewportOverrides) clone() ViewportOverrides {
	if len(o) == 0 {
		return nil
	}
	out := make(ViewportOverrides, len(o))
	for vp, patch := range o {
		out[vp] = cloneMap(patch)
	}
	return out
}

// Node is a component descriptor: a typed, serializable UI node.
type Node struct {
	ID        string
	Type      ComponentType
	Props     Props
	Styles    Styles
	Overrides ViewportOverrides
	Children  []Node
}

type nodeWire struct {
	ID        string            `json:"id"`
	Type      ComponentType     `json:"type"`
	Props     json.RawMessage   `json:"props,omitempty"`
	Styles    Styles            `json:"styles,omitempty"`
	Overrides ViewportOverrides `json:"overrides,omitempty"`
	Children  []Node            `json:"children,omitempty"`
}

// MarshalJSON encodes the node using the frontend wire layout.
func (n Node) MarshalJSON() ([]byte, error) {
	wire := nodeWire{
		ID:        n.ID,
		Type:      n.Type,
		Styles:    n.Styles,
		Overrides: n.Overrides,
		Children:  n.Children,
	}
	if n.Props != nil {
		raw, err := json.Marshal(n.Props)
		if err != nil {
			return nil, fmt.Errorf("studio: encode props for %s: %w", n.ID, err)
		}
		wire.Props = raw
	}
	return json.Marshal(wire)
}

// UnmarshalJSON decodes a node. Unrecognized types keep their raw props.
func (n *Node) UnmarshalJSON(data []byte) error {
	var wire nodeWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	props, err := DecodeProps(wire.Type, wire.Props)
	if err != nil {
		return fmt.Errorf("studio: decode props for %s: %w", wire.ID, err)
	}
	*n = Node{
		ID:        wire.ID,
		Type:      wire.Type,
		Props:     props,
		Styles:    wire.Styles,
		Overrides: wire.Overrides,
		Children:  wire.Children,
	}
	return nil
}

// Clone returns a deep copy of the node and its children.
func (n Node) Clone() Node {
	out := n
	out.Styles = n.Styles.Clone()
	out.Overrides = n.Overrides.clone()
	out.Props = cloneProps(n.Props)
	if len(n.Children) > 0 {
		out.Children = make([]Node, len(n.Children))
		for i, child := range n.Children {
			out.Children[i] = child.Clone()
		}
	} else {
		out.Children = nil
	}
	return out
}

// Walk visits the node and its descendants depth first. Returning false stops the walk.
func (n Node) Walk(fn func(Node) bool) bool {
	if !fn(n) {
		return false
	}
	for _, child := range n.Children {
		if !child.Walk(fn) {
			return false
		}
	}
	return true
}

// Zone groups the elements of one page section.
type Zone struct {
	Elements []Node `json:"elements"`
	Styles   Styles `json:"styles"`
}

// PageSchema is the header/body/footer grouping for one page.
type PageSchema struct {
	Header Zone `json:"header"`
	Body   Zone `json:"body"`
	Footer Zone `json:"footer"`
}

// Zone returns the zone for a section.
func (p *PageSchema) Zone(section SectionType) *Zone {
	switch section {
	case SectionHeader:
		return &p.Header
	case SectionBody:
		return &p.Body
	case SectionFooter:
		return &p.Footer
	}
	return nil
}

// Walk visits every node of the page in section order.
func (p PageSchema) Walk(fn func(SectionType, Node) bool) {
	for _, section := range Sections {
		zone := p.Zone(section)
		for _, node := range zone.Elements {
			cont := node.Walk(func(n Node) bool { return fn(section, n) })
			if !cont {
				return
			}
		}
	}
}

// Validate enforces id presence and uniqueness within the page.
func (p PageSchema) Validate() error {
	seen := map[string]struct{}{}
	var err error
	p.Walk(func(_ SectionType, n Node) bool {
		if n.ID == "" {
			err = fmt.Errorf("%w: node of type %s", ErrMissingNodeID, n.Type)
			return false
		}
		if _, dup := seen[n.ID]; dup {
			err = fmt.Errorf("%w: %s", ErrDuplicateNodeID, n.ID)
			return false
		}
		seen[n.ID] = struct{}{}
		return true
	})
	return err
}

// SiteSchema maps page names to page schemas.
type SiteSchema map[PageName]PageSchema

// Telemetry records studio events for observability.
type Telemetry interface {
	Record(ctx context.Context, event string, payload map[string]any)
}

// RefreshHook notifies transports (REST/WebSocket) about editor changes.
type RefreshHook interface {
	PageUpdated(ctx context.Context, event StudioEvent) error
}

// StudioEvent describes changes that transports might care about.
type StudioEvent struct {
	TenantID string        `json:"tenant_id"`
	Page     PageName      `json:"page"`
	Section  SectionType   `json:"section,omitempty"`
	NodeID   string        `json:"node_id,omitempty"`
	Type     ComponentType `json:"type,omitempty"`
	ActorID  string        `json:"actor_id,omitempty"`
	Reason   string        `json:"reason"`
}

// PageStore persists page schemas per tenant.
type PageStore interface {
	SavePage(ctx context.Context, tenantID string, page PageName, schema PageSchema) error
	LoadPage(ctx context.Context, tenantID string, page PageName) (PageSchema, error)
}

// SessionKey identifies one editor session.
type SessionKey struct {
	TenantID string   `json:"tenant_id"`
	Page     PageName `json:"page"`
}

func (k SessionKey) String() string {
	return k.TenantID + "::" + string(k.Page)
}
