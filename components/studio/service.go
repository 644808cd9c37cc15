package studio

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/bayup/go-studio/pkg/kvstore"
)

const defaultRenderTTL = 5 * time.Minute

// Options configures the studio Service. Every collaborator is provided via interface so
// applications can swap implementations (sqlite, remote backend, broadcast transports).
type Options struct {
	PageStore      PageStore
	Registry       *Registry
	PatchValidator PatchValidator
	RefreshHook    RefreshHook
	Telemetry      Telemetry
	Generator      *Generator
	IDs            IDGenerator
	Drafts         kvstore.Store
	Renderer       *PageRenderer
	Templates      TemplateRenderer
	Cache          RenderCache
	Logger         *zap.Logger
	// SocketURL and APIBase are passed to editor page shells.
	SocketURL string
	APIBase   string
}

// schemaForgetter is implemented by validators that cache compiled schemas.
type schemaForgetter interface {
	Forget(t ComponentType)
}

type session struct {
	editor   *Editor
	checkout *CheckoutRegistry
	template string
}

// Service orchestrates editor sessions, templates, persistence and rendering.
type Service struct {
	opts Options

	mu       sync.RWMutex
	sessions map[SessionKey]*session
	loads    singleflight.Group

	shellOnce sync.Once
	shell     *PageShell
	shellErr  error
}

// NewService builds a Service instance with safe defaults.
func NewService(opts Options) *Service {
	opts.IDs = normalizeIDs(opts.IDs)
	if opts.Registry == nil {
		opts.Registry = NewRegistry()
	}
	if opts.PatchValidator == nil {
		opts.PatchValidator = NewJSONSchemaValidator()
	}
	if forgetter, ok := opts.PatchValidator.(schemaForgetter); ok {
		opts.Registry.OnChange(forgetter.Forget)
	}
	if opts.RefreshHook == nil {
		opts.RefreshHook = noopRefreshHook{}
	}
	opts.Telemetry = normalizeTelemetry(opts.Telemetry)
	if opts.Generator == nil {
		opts.Generator = NewGenerator(opts.IDs)
	}
	if opts.Drafts == nil {
		opts.Drafts = kvstore.NewMemory()
	}
	if opts.Renderer == nil {
		opts.Renderer = NewPageRenderer()
	}
	if opts.Cache == nil {
		opts.Cache = NewTTLCache(defaultRenderTTL)
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Service{
		opts:     opts,
		sessions: map[SessionKey]*session{},
	}
}

// Registry exposes the component registry.
func (s *Service) Registry() *Registry {
	return s.opts.Registry
}

// Editor returns the live editor of a session, opening it when needed.
func (s *Service) Editor(ctx context.Context, key SessionKey) (*Editor, error) {
	sess, err := s.session(ctx, key)
	if err != nil {
		return nil, err
	}
	return sess.editor, nil
}

// Snapshot returns the current page of a session.
func (s *Service) Snapshot(ctx context.Context, key SessionKey) (PageSchema, error) {
	sess, err := s.session(ctx, key)
	if err != nil {
		return PageSchema{}, err
	}
	return sess.editor.Snapshot(), nil
}

// SessionState summarizes editor state for transports.
type SessionState struct {
	Key        SessionKey  `json:"key"`
	TemplateID string      `json:"template_id"`
	SelectedID string      `json:"selected_id,omitempty"`
	Viewport   Viewport    `json:"viewport"`
	EditMode   EditMode    `json:"edit_mode"`
	Section    SectionType `json:"active_section"`
	Schema     PageSchema  `json:"schema"`
}

// State returns the session snapshot together with the editor settings.
func (s *Service) State(ctx context.Context, key SessionKey) (SessionState, error) {
	sess, err := s.session(ctx, key)
	if err != nil {
		return SessionState{}, err
	}
	return SessionState{
		Key:        key,
		TemplateID: s.templateOf(sess),
		SelectedID: sess.editor.SelectedID(),
		Viewport:   sess.editor.Viewport(),
		EditMode:   sess.editor.EditMode(),
		Section:    sess.editor.ActiveSection(),
		Schema:     sess.editor.Snapshot(),
	}, nil
}

// session returns the session for key, loading the saved page on first access. The page
// store is read outside s.mu so a slow backend only stalls callers of the same key.
func (s *Service) session(ctx context.Context, key SessionKey) (*session, error) {
	if err := validateKey(key); err != nil {
		return nil, err
	}
	if sess, ok := s.lookupSession(key); ok {
		return sess, nil
	}
	v, err, _ := s.loads.Do(key.String(), func() (any, error) {
		if sess, ok := s.lookupSession(key); ok {
			return sess, nil
		}
		sess := &session{
			editor:   NewEditor(s.opts.IDs),
			checkout: NewCheckoutRegistry(),
		}
		if s.opts.PageStore != nil {
			schema, err := s.opts.PageStore.LoadPage(ctx, key.TenantID, key.Page)
			switch {
			case err == nil:
				if err := sess.editor.Load(schema); err != nil {
					return nil, err
				}
			case errors.Is(err, ErrPageNotFound):
			default:
				return nil, err
			}
		}
		s.mu.Lock()
		defer s.mu.Unlock()
		if existing, ok := s.sessions[key]; ok {
			return existing, nil
		}
		s.sessions[key] = sess
		return sess, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*session), nil
}

func (s *Service) lookupSession(key SessionKey) (*session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[key]
	return sess, ok
}

func validateKey(key SessionKey) error {
	if strings.TrimSpace(key.TenantID) == "" {
		return ErrMissingTenant
	}
	if !key.Page.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownPage, key.Page)
	}
	return nil
}

func (s *Service) templateOf(sess *session) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if sess.template == "" {
		return DefaultTemplateID
	}
	return sess.template
}

// ApplyTemplateRequest selects a template for every page of a tenant.
type ApplyTemplateRequest struct {
	TenantID   string `json:"tenant_id"`
	TemplateID string `json:"template_id"`
	ActorID    string `json:"actor_id,omitempty"`
}

// ApplyTemplate generates the six-page site for the template and loads each page into its
// session, replacing unsaved edits.
func (s *Service) ApplyTemplate(ctx context.Context, req ApplyTemplateRequest) (SiteSchema, error) {
	if strings.TrimSpace(req.TenantID) == "" {
		return nil, ErrMissingTenant
	}
	theme := ThemeFor(req.TemplateID)
	site := s.opts.Generator.Generate(theme.ID)
	for _, page := range Pages {
		key := SessionKey{TenantID: req.TenantID, Page: page}
		sess, err := s.session(ctx, key)
		if err != nil {
			return nil, err
		}
		if err := sess.editor.Load(site[page]); err != nil {
			return nil, err
		}
		sess.checkout.Reset()
		s.mu.Lock()
		sess.template = theme.ID
		s.mu.Unlock()
	}
	event := StudioEvent{TenantID: req.TenantID, Page: PageHome, Reason: "template"}
	if err := s.emit(ctx, event, req.ActorID); err != nil {
		return nil, err
	}
	s.recordTelemetry(ctx, "studio.template.apply", map[string]any{
		"tenant_id":   req.TenantID,
		"template_id": theme.ID,
		"requested":   req.TemplateID,
	})
	return site, nil
}

// AddComponentRequest inserts a default component. Without Section and ParentID the node is
// appended to the active section; a nil Index appends.
type AddComponentRequest struct {
	Key      SessionKey    `json:"key"`
	Type     ComponentType `json:"type"`
	Section  SectionType   `json:"section,omitempty"`
	ParentID string        `json:"parent_id,omitempty"`
	Index    *int          `json:"index,omitempty"`
	ActorID  string        `json:"actor_id,omitempty"`
}

// AddComponent creates a node with type defaults and selects it.
func (s *Service) AddComponent(ctx context.Context, req AddComponentRequest) (Node, error) {
	sess, err := s.session(ctx, req.Key)
	if err != nil {
		return Node{}, err
	}
	if _, ok := s.opts.Registry.Definition(req.Type); !ok {
		return Node{}, fmt.Errorf("%w: %s", ErrUnknownComponentType, req.Type)
	}
	pos := Position{Section: req.Section, ParentID: req.ParentID, Index: -1}
	if req.Index != nil {
		pos.Index = *req.Index
	}
	node, section, err := sess.editor.AddComponentAt(req.Type, pos)
	if err != nil {
		return Node{}, err
	}
	event := StudioEvent{TenantID: req.Key.TenantID, Page: req.Key.Page, Section: section, NodeID: node.ID, Type: node.Type, Reason: "add"}
	if err := s.emit(ctx, event, req.ActorID); err != nil {
		return Node{}, err
	}
	s.recordTelemetry(ctx, "studio.component.add", map[string]any{
		"tenant_id": req.Key.TenantID,
		"page":      req.Key.Page,
		"type":      req.Type,
		"section":   section,
	})
	return node, nil
}

// UpdateComponentRequest patches one node.
type UpdateComponentRequest struct {
	Key     SessionKey `json:"key"`
	NodeID  string     `json:"node_id"`
	Patch   Patch      `json:"patch"`
	ActorID string     `json:"actor_id,omitempty"`
}

// UpdateComponent validates the prop patch against the component schema and applies it.
func (s *Service) UpdateComponent(ctx context.Context, req UpdateComponentRequest) (Node, error) {
	sess, err := s.session(ctx, req.Key)
	if err != nil {
		return Node{}, err
	}
	editor := sess.editor
	current, ok := editor.Component(req.NodeID)
	if !ok {
		return Node{}, fmt.Errorf("%w: %s", ErrNodeNotFound, req.NodeID)
	}
	if len(req.Patch.Props) > 0 {
		if def, ok := s.opts.Registry.Definition(current.Type); ok {
			if err := s.opts.PatchValidator.Validate(def, req.Patch.Props); err != nil {
				return Node{}, err
			}
		}
	}
	if _, err := editor.UpdateComponent(req.NodeID, req.Patch); err != nil {
		return Node{}, err
	}
	updated, _ := editor.Component(req.NodeID)
	section, _ := editor.Locate(req.NodeID)
	event := StudioEvent{TenantID: req.Key.TenantID, Page: req.Key.Page, Section: section, NodeID: req.NodeID, Type: updated.Type, Reason: "update"}
	if err := s.emit(ctx, event, req.ActorID); err != nil {
		return Node{}, err
	}
	s.recordTelemetry(ctx, "studio.component.update", map[string]any{
		"tenant_id": req.Key.TenantID,
		"page":      req.Key.Page,
		"node_id":   req.NodeID,
		"props":     len(req.Patch.Props),
		"styles":    len(req.Patch.Styles),
		"edit_mode": editor.EditMode(),
	})
	return updated, nil
}

// RemoveComponent deletes a node and its subtree.
func (s *Service) RemoveComponent(ctx context.Context, key SessionKey, nodeID string) error {
	sess, err := s.session(ctx, key)
	if err != nil {
		return err
	}
	section, _ := sess.editor.Locate(nodeID)
	if !sess.editor.RemoveComponent(nodeID) {
		return fmt.Errorf("%w: %s", ErrNodeNotFound, nodeID)
	}
	event := StudioEvent{TenantID: key.TenantID, Page: key.Page, Section: section, NodeID: nodeID, Reason: "remove"}
	if err := s.emit(ctx, event, ""); err != nil {
		return err
	}
	s.recordTelemetry(ctx, "studio.component.remove", map[string]any{
		"tenant_id": key.TenantID,
		"page":      key.Page,
		"node_id":   nodeID,
	})
	return nil
}

// MoveComponentRequest relocates a node.
type MoveComponentRequest struct {
	Key     SessionKey `json:"key"`
	NodeID  string     `json:"node_id"`
	To      Position   `json:"to"`
	ActorID string     `json:"actor_id,omitempty"`
}

// MoveComponent moves a node keeping its id and subtree.
func (s *Service) MoveComponent(ctx context.Context, req MoveComponentRequest) error {
	sess, err := s.session(ctx, req.Key)
	if err != nil {
		return err
	}
	to := req.To
	if to.Section == "" && to.ParentID != "" {
		section, ok := sess.editor.Locate(to.ParentID)
		if !ok {
			return fmt.Errorf("%w: %s", ErrNodeNotFound, to.ParentID)
		}
		to.Section = section
	}
	if err := sess.editor.MoveComponent(req.NodeID, to); err != nil {
		return err
	}
	event := StudioEvent{TenantID: req.Key.TenantID, Page: req.Key.Page, Section: to.Section, NodeID: req.NodeID, Reason: "move"}
	if err := s.emit(ctx, event, req.ActorID); err != nil {
		return err
	}
	s.recordTelemetry(ctx, "studio.component.move", map[string]any{
		"tenant_id": req.Key.TenantID,
		"page":      req.Key.Page,
		"node_id":   req.NodeID,
		"section":   to.Section,
		"index":     to.Index,
	})
	return nil
}

// Select marks a node as selected. Unknown ids are kept as a dangling selection.
func (s *Service) Select(ctx context.Context, key SessionKey, nodeID string) error {
	sess, err := s.session(ctx, key)
	if err != nil {
		return err
	}
	sess.editor.Select(nodeID)
	return s.emit(ctx, StudioEvent{TenantID: key.TenantID, Page: key.Page, NodeID: nodeID, Reason: "select"}, "")
}

// EditorSettings changes viewport, edit mode or active section. Zero fields are left alone.
type EditorSettings struct {
	Viewport Viewport    `json:"viewport,omitempty"`
	EditMode EditMode    `json:"edit_mode,omitempty"`
	Section  SectionType `json:"active_section,omitempty"`
}

// Configure applies editor settings to a session. Unknown viewports or edit modes are
// rejected with ErrInvalidSettings before anything changes.
func (s *Service) Configure(ctx context.Context, key SessionKey, settings EditorSettings) error {
	if settings.Viewport != "" && !settings.Viewport.Valid() {
		return fmt.Errorf("%w: viewport %q", ErrInvalidSettings, settings.Viewport)
	}
	if settings.EditMode != "" && !settings.EditMode.Valid() {
		return fmt.Errorf("%w: edit mode %q", ErrInvalidSettings, settings.EditMode)
	}
	sess, err := s.session(ctx, key)
	if err != nil {
		return err
	}
	if settings.Section != "" {
		if err := sess.editor.SetActiveSection(settings.Section); err != nil {
			return err
		}
	}
	if settings.Viewport != "" {
		sess.editor.SetViewport(settings.Viewport)
	}
	if settings.EditMode != "" {
		sess.editor.SetEditMode(settings.EditMode)
	}
	event := StudioEvent{TenantID: key.TenantID, Page: key.Page, Section: settings.Section, Reason: "configure"}
	if err := s.emit(ctx, event, ""); err != nil {
		return err
	}
	s.recordTelemetry(ctx, "studio.editor.configure", map[string]any{
		"tenant_id": key.TenantID,
		"page":      key.Page,
		"viewport":  sess.editor.Viewport(),
		"edit_mode": sess.editor.EditMode(),
		"section":   sess.editor.ActiveSection(),
	})
	return nil
}

// AdvanceCheckout moves the checkout block with nodeID to its next step.
func (s *Service) AdvanceCheckout(ctx context.Context, key SessionKey, nodeID string) (CheckoutStep, error) {
	sess, err := s.session(ctx, key)
	if err != nil {
		return 0, err
	}
	node, ok := sess.editor.Component(nodeID)
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrNodeNotFound, nodeID)
	}
	if node.Type != TypeCheckout {
		return 0, fmt.Errorf("%w: %s", ErrNotCheckout, nodeID)
	}
	step := sess.checkout.Flow(nodeID).Continue()
	section, _ := sess.editor.Locate(nodeID)
	event := StudioEvent{TenantID: key.TenantID, Page: key.Page, Section: section, NodeID: nodeID, Type: TypeCheckout, Reason: "checkout"}
	if err := s.emit(ctx, event, ""); err != nil {
		return 0, err
	}
	s.recordTelemetry(ctx, "studio.checkout.continue", map[string]any{
		"tenant_id": key.TenantID,
		"page":      key.Page,
		"node_id":   nodeID,
		"step":      int(step),
	})
	return step, nil
}

// Save persists the session page through the page store.
func (s *Service) Save(ctx context.Context, key SessionKey) error {
	if s.opts.PageStore == nil {
		return errMissingPageStore
	}
	sess, err := s.session(ctx, key)
	if err != nil {
		return err
	}
	schema := sess.editor.Snapshot()
	if err := s.opts.PageStore.SavePage(ctx, key.TenantID, key.Page, schema); err != nil {
		return err
	}
	if err := s.publishedTemplate(key.TenantID).Save(ctx, s.templateOf(sess)); err != nil {
		return err
	}
	s.opts.Cache.Invalidate(storefrontCacheKey(key))
	if err := s.emit(ctx, StudioEvent{TenantID: key.TenantID, Page: key.Page, Reason: "save"}, ""); err != nil {
		return err
	}
	s.recordTelemetry(ctx, "studio.page.save", map[string]any{
		"tenant_id": key.TenantID,
		"page":      key.Page,
		"nodes":     sess.editor.Len(),
	})
	return nil
}

// LoadPublished reloads the session from the page store, discarding unsaved edits.
func (s *Service) LoadPublished(ctx context.Context, key SessionKey) (PageSchema, error) {
	if s.opts.PageStore == nil {
		return PageSchema{}, errMissingPageStore
	}
	if err := validateKey(key); err != nil {
		return PageSchema{}, err
	}
	schema, err := s.opts.PageStore.LoadPage(ctx, key.TenantID, key.Page)
	if err != nil {
		return PageSchema{}, err
	}
	sess, err := s.session(ctx, key)
	if err != nil {
		return PageSchema{}, err
	}
	if err := sess.editor.Load(schema); err != nil {
		return PageSchema{}, err
	}
	sess.checkout.Reset()
	return sess.editor.Snapshot(), nil
}

// Draft is the preview copy of a page kept in the key/value store.
type Draft struct {
	TemplateID string     `json:"template_id"`
	Page       PageName   `json:"page"`
	Schema     PageSchema `json:"schema"`
	SavedAt    time.Time  `json:"saved_at"`
}

func (s *Service) draftValue(key SessionKey) *kvstore.Value[Draft] {
	return kvstore.NewValue[Draft](s.opts.Drafts, kvstore.KeyStudioPreview+":"+key.String(), nil, s.opts.Logger)
}

// SaveDraft stores the session page as the preview draft.
func (s *Service) SaveDraft(ctx context.Context, key SessionKey) (Draft, error) {
	sess, err := s.session(ctx, key)
	if err != nil {
		return Draft{}, err
	}
	draft := Draft{
		TemplateID: s.templateOf(sess),
		Page:       key.Page,
		Schema:     sess.editor.Snapshot(),
		SavedAt:    time.Now().UTC(),
	}
	if err := s.draftValue(key).Save(ctx, draft); err != nil {
		return Draft{}, err
	}
	s.recordTelemetry(ctx, "studio.draft.save", map[string]any{
		"tenant_id": key.TenantID,
		"page":      key.Page,
	})
	return draft, nil
}

// LoadDraft returns the preview draft, reporting false when none is stored or it is unreadable.
func (s *Service) LoadDraft(ctx context.Context, key SessionKey) (Draft, bool, error) {
	if err := validateKey(key); err != nil {
		return Draft{}, false, err
	}
	draft, ok := s.draftValue(key).Lookup(ctx)
	return draft, ok, nil
}

// RestoreDraft loads the preview draft into the session.
func (s *Service) RestoreDraft(ctx context.Context, key SessionKey) (bool, error) {
	draft, ok, err := s.LoadDraft(ctx, key)
	if err != nil || !ok {
		return false, err
	}
	sess, err := s.session(ctx, key)
	if err != nil {
		return false, err
	}
	if err := sess.editor.Load(draft.Schema); err != nil {
		return false, err
	}
	s.mu.Lock()
	sess.template = draft.TemplateID
	s.mu.Unlock()
	return true, s.emit(ctx, StudioEvent{TenantID: key.TenantID, Page: key.Page, Reason: "draft"}, "")
}

// RenderEditor renders the editor document for a session.
func (s *Service) RenderEditor(ctx context.Context, key SessionKey) (string, error) {
	sess, err := s.session(ctx, key)
	if err != nil {
		return "", err
	}
	opts := RenderOptions{
		Mode:       ModeEditor,
		SelectedID: sess.editor.SelectedID(),
		Viewport:   sess.editor.Viewport(),
		Checkout:   sess.checkout,
	}
	return s.renderDocument(key, s.templateOf(sess), sess.editor.Snapshot(), opts, true)
}

// RenderPreview renders the live session in storefront mode, unsaved edits and editor
// checkout state included. It backs the editor preview and is never cached.
func (s *Service) RenderPreview(ctx context.Context, key SessionKey) (string, error) {
	sess, err := s.session(ctx, key)
	if err != nil {
		return "", err
	}
	opts := RenderOptions{Mode: ModeStorefront, Checkout: sess.checkout}
	return s.renderDocument(key, s.templateOf(sess), sess.editor.Snapshot(), opts, true)
}

// RenderStorefront renders the published page of key for shoppers. The page is read from the
// page store, never from an editor session, and step selects the checkout stage of every
// checkout block. Output is cached per page and step until the page is saved again.
func (s *Service) RenderStorefront(ctx context.Context, key SessionKey, step CheckoutStep) (string, error) {
	if err := validateKey(key); err != nil {
		return "", err
	}
	if s.opts.PageStore == nil {
		return "", errMissingPageStore
	}
	step = ClampCheckoutStep(step)
	return s.opts.Cache.GetOrRender(storefrontCacheKey(key)+step.String(), func() (string, error) {
		schema, err := s.opts.PageStore.LoadPage(ctx, key.TenantID, key.Page)
		if err != nil {
			return "", err
		}
		templateID := s.publishedTemplate(key.TenantID).Load(ctx)
		opts := RenderOptions{Mode: ModeStorefront, Checkout: CheckoutAt(step)}
		return s.renderDocument(key, templateID, schema, opts, false)
	})
}

func storefrontCacheKey(key SessionKey) string {
	return "storefront:" + key.String() + ":"
}

// publishedTemplate holds the template id of a tenant's saved pages.
func (s *Service) publishedTemplate(tenantID string) *kvstore.Value[string] {
	return kvstore.NewValue[string](s.opts.Drafts, kvstore.KeyStudioTemplate+":"+tenantID, func() string {
		return DefaultTemplateID
	}, s.opts.Logger)
}

func (s *Service) renderDocument(key SessionKey, templateID string, schema PageSchema, opts RenderOptions, live bool) (string, error) {
	shell, err := s.pageShell()
	if err != nil {
		return "", err
	}
	theme := ThemeFor(templateID)
	data := PageShellData{
		Title:     theme.Name,
		TenantID:  key.TenantID,
		Page:      key.Page,
		Theme:     theme,
		SocketURL: s.opts.SocketURL,
		APIBase:   strings.TrimSuffix(s.opts.APIBase, "/") + "/" + string(key.Page),
		Live:      live,
	}
	var buf bytes.Buffer
	if err := shell.Render(&buf, schema, data, opts); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func (s *Service) pageShell() (*PageShell, error) {
	s.shellOnce.Do(func() {
		templates := s.opts.Templates
		if templates == nil {
			templates, s.shellErr = NewTemplateRenderer()
			if s.shellErr != nil {
				s.opts.Logger.Error("studio: template renderer unavailable", zap.Error(s.shellErr))
				return
			}
		}
		s.shell = NewPageShell(templates, s.opts.Renderer)
	})
	return s.shell, s.shellErr
}

// CompositionChart renders the component mix of a tenant's open pages. Charts are cached by
// content hash.
func (s *Service) CompositionChart(ctx context.Context, tenantID string) (string, error) {
	if strings.TrimSpace(tenantID) == "" {
		return "", ErrMissingTenant
	}
	site := SiteSchema{}
	templateID := DefaultTemplateID
	for _, page := range Pages {
		s.mu.RLock()
		sess, ok := s.sessions[SessionKey{TenantID: tenantID, Page: page}]
		s.mu.RUnlock()
		if !ok {
			continue
		}
		site[page] = sess.editor.Snapshot()
		templateID = s.templateOf(sess)
	}
	composition := CompositionOf(site)
	chartOpts := CompositionChartOptions{
		Subtitle: tenantID,
		Theme:    chartTheme(ThemeFor(templateID)),
	}
	cacheKey := "composition:" + tenantID + ":" + chartOpts.Theme + ":" + contentHash(composition)
	return s.opts.Cache.GetOrRender(cacheKey, func() (string, error) {
		return CompositionChartHTML(composition, chartOpts)
	})
}

// ComponentSummary is a toolbox entry resolved for one locale.
type ComponentSummary struct {
	Type        ComponentType `json:"type"`
	Name        string        `json:"name"`
	Description string        `json:"description,omitempty"`
	Category    string        `json:"category,omitempty"`
	Icon        string        `json:"icon,omitempty"`
	Container   bool          `json:"container"`
}

// Components lists the toolbox in registry order with names resolved for locale.
func (s *Service) Components(locale string) []ComponentSummary {
	defs := s.opts.Registry.Definitions()
	out := make([]ComponentSummary, 0, len(defs))
	for _, def := range defs {
		out = append(out, ComponentSummary{
			Type:        def.Type,
			Name:        def.NameForLocale(locale),
			Description: def.DescriptionForLocale(locale),
			Category:    def.Category,
			Icon:        def.Icon,
			Container:   def.Container,
		})
	}
	return out
}

// Templates lists the available templates.
func (s *Service) Templates() []TemplateInfo {
	return Templates()
}

func (s *Service) emit(ctx context.Context, event StudioEvent, actorID string) error {
	if actorID == "" {
		actorID = activityContextFrom(ctx).ActorID
	}
	event.ActorID = actorID
	return s.opts.RefreshHook.PageUpdated(ctx, event)
}

func (s *Service) recordTelemetry(ctx context.Context, event string, payload map[string]any) {
	s.opts.Telemetry.Record(ctx, event, payload)
}
