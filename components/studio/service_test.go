package studio

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/bayup/go-studio/pkg/kvstore"
)

type stubTemplates struct {
	lastTemplate string
	lastPayload  map[string]any
	calls        int
	err          error
}

func (r *stubTemplates) Render(name string, data any, out ...io.Writer) (string, error) {
	r.calls++
	r.lastTemplate = name
	if payload, ok := data.(map[string]any); ok {
		r.lastPayload = payload
	}
	doc := "<html>" + zoneHTML(r.lastPayload, "header") + zoneHTML(r.lastPayload, "body") + zoneHTML(r.lastPayload, "footer") + "</html>"
	if len(out) > 0 && out[0] != nil {
		io.WriteString(out[0], doc)
	}
	return doc, r.err
}

func zoneHTML(payload map[string]any, zone string) string {
	if z, ok := payload[zone].(map[string]any); ok {
		html, _ := z["html"].(string)
		return html
	}
	return ""
}

type failingStore struct{ err error }

func (s failingStore) SavePage(context.Context, string, PageName, PageSchema) error { return s.err }
func (s failingStore) LoadPage(context.Context, string, PageName) (PageSchema, error) {
	return PageSchema{}, s.err
}

type serviceFixture struct {
	svc       *Service
	hook      *recordingHook
	telemetry *recordingTelemetry
	templates *stubTemplates
	store     *InMemoryPageStore
	drafts    kvstore.Store
}

func newServiceFixture(t *testing.T) serviceFixture {
	t.Helper()
	f := serviceFixture{
		hook:      &recordingHook{},
		telemetry: &recordingTelemetry{},
		templates: &stubTemplates{},
		store:     NewInMemoryPageStore(),
		drafts:    kvstore.NewMemory(),
	}
	f.svc = NewService(Options{
		PageStore:   f.store,
		RefreshHook: f.hook,
		Telemetry:   f.telemetry,
		IDs:         sequenceIDs("svc"),
		Drafts:      f.drafts,
		Templates:   f.templates,
		APIBase:     "/studio",
	})
	return f
}

var shopHome = SessionKey{TenantID: "shop", Page: PageHome}

func TestServiceSessionRequiresTenantAndPage(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	_, err := f.svc.Snapshot(ctx, SessionKey{Page: PageHome})
	assert.True(t, errors.Is(err, ErrMissingTenant))

	_, err = f.svc.Snapshot(ctx, SessionKey{TenantID: "shop", Page: "blog"})
	assert.True(t, errors.Is(err, ErrUnknownPage))

	page, err := f.svc.Snapshot(ctx, shopHome)
	require.NoError(t, err)
	assert.Empty(t, page.Body.Elements)
}

func TestServiceSessionLoadsSavedPage(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()
	saved := NewGenerator(sequenceIDs("saved")).Generate("t3")[PageAbout]
	require.NoError(t, f.store.SavePage(ctx, "shop", PageAbout, saved))

	page, err := f.svc.Snapshot(ctx, SessionKey{TenantID: "shop", Page: PageAbout})
	require.NoError(t, err)
	assert.Equal(t, saved, page)
}

func TestServiceSessionSurfacesStoreErrors(t *testing.T) {
	boom := errors.New("disk on fire")
	svc := NewService(Options{PageStore: failingStore{err: boom}})
	_, err := svc.Snapshot(context.Background(), shopHome)
	assert.True(t, errors.Is(err, boom))
}

func TestServiceApplyTemplateLoadsEveryPage(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	site, err := f.svc.ApplyTemplate(ctx, ApplyTemplateRequest{TenantID: "shop", TemplateID: "t2", ActorID: "owner"})
	require.NoError(t, err)
	require.Len(t, site, len(Pages))

	for _, page := range Pages {
		snapshot, err := f.svc.Snapshot(ctx, SessionKey{TenantID: "shop", Page: page})
		require.NoError(t, err)
		assert.Equal(t, site[page], snapshot, "page %s", page)
	}

	state, err := f.svc.State(ctx, shopHome)
	require.NoError(t, err)
	assert.Equal(t, "t2", state.TemplateID)

	events := f.hook.Events()
	require.Len(t, events, 1)
	assert.Equal(t, "template", events[0].Reason)
	assert.Equal(t, "owner", events[0].ActorID)
	assert.Contains(t, f.telemetry.Events(), "studio.template.apply")
}

func TestServiceApplyUnknownTemplateFallsBack(t *testing.T) {
	f := newServiceFixture(t)
	_, err := f.svc.ApplyTemplate(context.Background(), ApplyTemplateRequest{TenantID: "shop", TemplateID: "t99"})
	require.NoError(t, err)
	state, err := f.svc.State(context.Background(), shopHome)
	require.NoError(t, err)
	assert.Equal(t, DefaultTemplateID, state.TemplateID)
}

func TestServiceAddComponent(t *testing.T) {
	f := newServiceFixture(t)
	ctx := ContextWithActivity(context.Background(), ActivityContext{ActorID: "editor-1"})

	node, err := f.svc.AddComponent(ctx, AddComponentRequest{Key: shopHome, Type: TypeButton})
	require.NoError(t, err)
	assert.Equal(t, TypeButton, node.Type)

	state, err := f.svc.State(ctx, shopHome)
	require.NoError(t, err)
	require.Len(t, state.Schema.Body.Elements, 1)
	assert.Equal(t, node.ID, state.SelectedID)

	events := f.hook.Events()
	require.Len(t, events, 1)
	assert.Equal(t, "add", events[0].Reason)
	assert.Equal(t, SectionBody, events[0].Section)
	assert.Equal(t, "editor-1", events[0].ActorID)
}

func TestServiceAddComponentIntoParentResolvesSection(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()
	section, err := f.svc.AddComponent(ctx, AddComponentRequest{Key: shopHome, Type: TypeSection, Section: SectionFooter})
	require.NoError(t, err)

	zero := 0
	child, err := f.svc.AddComponent(ctx, AddComponentRequest{Key: shopHome, Type: TypeText, ParentID: section.ID, Index: &zero})
	require.NoError(t, err)

	page, err := f.svc.Snapshot(ctx, shopHome)
	require.NoError(t, err)
	require.Len(t, page.Footer.Elements, 1)
	require.Len(t, page.Footer.Elements[0].Children, 1)
	assert.Equal(t, child.ID, page.Footer.Elements[0].Children[0].ID)
}

func TestServiceAddUnknownType(t *testing.T) {
	f := newServiceFixture(t)
	_, err := f.svc.AddComponent(context.Background(), AddComponentRequest{Key: shopHome, Type: "carousel"})
	assert.True(t, errors.Is(err, ErrUnknownComponentType))
	assert.Empty(t, f.hook.Events())
}

func TestServiceUpdateComponentValidatesPatch(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()
	node, err := f.svc.AddComponent(ctx, AddComponentRequest{Key: shopHome, Type: TypeText})
	require.NoError(t, err)

	_, err = f.svc.UpdateComponent(ctx, UpdateComponentRequest{Key: shopHome, NodeID: node.ID, Patch: Patch{Props: map[string]any{"fontSize": "huge"}}})
	require.Error(t, err)

	_, err = f.svc.UpdateComponent(ctx, UpdateComponentRequest{Key: shopHome, NodeID: node.ID, Patch: Patch{Props: map[string]any{"bogus": true}}})
	require.Error(t, err)

	updated, err := f.svc.UpdateComponent(ctx, UpdateComponentRequest{Key: shopHome, NodeID: node.ID, Patch: Patch{
		Props:  map[string]any{"content": "Nueva colección", "fontSize": 40},
		Styles: map[string]string{"padding": "8px"},
	}})
	require.NoError(t, err)
	props := updated.Props.(TextProps)
	assert.Equal(t, "Nueva colección", props.Content)
	assert.Equal(t, 40, props.FontSize)
	assert.Equal(t, "8px", updated.Styles["padding"])

	_, err = f.svc.UpdateComponent(ctx, UpdateComponentRequest{Key: shopHome, NodeID: "ghost", Patch: Patch{Styles: map[string]string{"color": "red"}}})
	assert.True(t, errors.Is(err, ErrNodeNotFound))
}

func TestServiceRemoveAndMove(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()
	first, err := f.svc.AddComponent(ctx, AddComponentRequest{Key: shopHome, Type: TypeText})
	require.NoError(t, err)
	second, err := f.svc.AddComponent(ctx, AddComponentRequest{Key: shopHome, Type: TypeButton})
	require.NoError(t, err)

	require.NoError(t, f.svc.MoveComponent(ctx, MoveComponentRequest{Key: shopHome, NodeID: second.ID, To: Position{Section: SectionHeader, Index: 0}}))
	page, err := f.svc.Snapshot(ctx, shopHome)
	require.NoError(t, err)
	require.Len(t, page.Header.Elements, 1)
	assert.Equal(t, second.ID, page.Header.Elements[0].ID)

	require.NoError(t, f.svc.RemoveComponent(ctx, shopHome, first.ID))
	err = f.svc.RemoveComponent(ctx, shopHome, first.ID)
	assert.True(t, errors.Is(err, ErrNodeNotFound))

	page, err = f.svc.Snapshot(ctx, shopHome)
	require.NoError(t, err)
	assert.Empty(t, page.Body.Elements)
}

func TestServiceConfigureIndividualMode(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()
	node, err := f.svc.AddComponent(ctx, AddComponentRequest{Key: shopHome, Type: TypeText})
	require.NoError(t, err)

	require.NoError(t, f.svc.Configure(ctx, shopHome, EditorSettings{Viewport: ViewportMobile, EditMode: EditModeIndividual}))
	updated, err := f.svc.UpdateComponent(ctx, UpdateComponentRequest{Key: shopHome, NodeID: node.ID, Patch: Patch{Props: map[string]any{"fontSize": 12}}})
	require.NoError(t, err)
	assert.Equal(t, NewTextProps().FontSize, updated.Props.(TextProps).FontSize)
	assert.EqualValues(t, 12, updated.Overrides[ViewportMobile]["fontSize"])

	err = f.svc.Configure(ctx, shopHome, EditorSettings{Section: "sidebar"})
	assert.True(t, errors.Is(err, ErrUnknownSection))
}

func TestServiceConfigureRejectsUnknownSettings(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	err := f.svc.Configure(ctx, shopHome, EditorSettings{Viewport: "banana"})
	assert.True(t, errors.Is(err, ErrInvalidSettings))
	err = f.svc.Configure(ctx, shopHome, EditorSettings{Viewport: ViewportTablet, EditMode: "some"})
	assert.True(t, errors.Is(err, ErrInvalidSettings))
	assert.Empty(t, f.hook.Events())

	state, err := f.svc.State(ctx, shopHome)
	require.NoError(t, err)
	assert.Equal(t, ViewportDesktop, state.Viewport)
	assert.Equal(t, EditModeAll, state.EditMode)

	require.NoError(t, f.svc.Configure(ctx, shopHome, EditorSettings{Viewport: ViewportTablet, Section: SectionFooter}))
	events := f.hook.Events()
	require.Len(t, events, 1)
	assert.Equal(t, "configure", events[0].Reason)
	assert.Equal(t, SectionFooter, events[0].Section)
	assert.Contains(t, f.telemetry.Events(), "studio.editor.configure")
}

func TestServiceAdvanceCheckoutClamps(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()
	_, err := f.svc.ApplyTemplate(ctx, ApplyTemplateRequest{TenantID: "shop", TemplateID: "t1"})
	require.NoError(t, err)
	key := SessionKey{TenantID: "shop", Page: PageCheckout}
	page, err := f.svc.Snapshot(ctx, key)
	require.NoError(t, err)
	checkout, ok := findType(page.Body.Elements, TypeCheckout)
	require.True(t, ok)

	var steps []CheckoutStep
	for i := 0; i < 4; i++ {
		step, err := f.svc.AdvanceCheckout(ctx, key, checkout.ID)
		require.NoError(t, err)
		steps = append(steps, step)
	}
	assert.Equal(t, []CheckoutStep{StepShipping, StepPayment, StepPayment, StepPayment}, steps)

	var checkoutEvents []StudioEvent
	for _, event := range f.hook.Events() {
		if event.Reason == "checkout" {
			checkoutEvents = append(checkoutEvents, event)
		}
	}
	require.Len(t, checkoutEvents, 4)
	assert.Equal(t, checkout.ID, checkoutEvents[0].NodeID)
	assert.Equal(t, PageCheckout, checkoutEvents[0].Page)
	assert.Contains(t, f.telemetry.Events(), "studio.checkout.continue")

	home, err := f.svc.Snapshot(ctx, shopHome)
	require.NoError(t, err)
	_, err = f.svc.AdvanceCheckout(ctx, shopHome, home.Header.Elements[0].ID)
	assert.True(t, errors.Is(err, ErrNotCheckout))
	_, err = f.svc.AdvanceCheckout(ctx, key, "ghost")
	assert.True(t, errors.Is(err, ErrNodeNotFound))
}

func TestServiceSaveAndLoadPublished(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()
	node, err := f.svc.AddComponent(ctx, AddComponentRequest{Key: shopHome, Type: TypeHeroBanner})
	require.NoError(t, err)
	require.NoError(t, f.svc.Save(ctx, shopHome))

	stored, err := f.store.LoadPage(ctx, "shop", PageHome)
	require.NoError(t, err)
	require.Len(t, stored.Body.Elements, 1)
	assert.Equal(t, node.ID, stored.Body.Elements[0].ID)

	require.NoError(t, f.svc.RemoveComponent(ctx, shopHome, node.ID))
	page, err := f.svc.LoadPublished(ctx, shopHome)
	require.NoError(t, err)
	require.Len(t, page.Body.Elements, 1)
	assert.Equal(t, node.ID, page.Body.Elements[0].ID)
}

func TestServiceSaveWithoutStore(t *testing.T) {
	svc := NewService(Options{})
	err := svc.Save(context.Background(), shopHome)
	assert.True(t, errors.Is(err, errMissingPageStore))
}

func TestServiceDraftRoundTrip(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()
	_, err := f.svc.ApplyTemplate(ctx, ApplyTemplateRequest{TenantID: "shop", TemplateID: "t5"})
	require.NoError(t, err)

	_, ok, err := f.svc.LoadDraft(ctx, shopHome)
	require.NoError(t, err)
	assert.False(t, ok)

	draft, err := f.svc.SaveDraft(ctx, shopHome)
	require.NoError(t, err)
	assert.Equal(t, "t5", draft.TemplateID)

	keys, err := f.drafts.Keys(ctx, kvstore.KeyStudioPreview)
	require.NoError(t, err)
	assert.Equal(t, []string{kvstore.KeyStudioPreview + ":shop::home"}, keys)

	_, err = f.svc.ApplyTemplate(ctx, ApplyTemplateRequest{TenantID: "shop", TemplateID: "t1"})
	require.NoError(t, err)
	restored, err := f.svc.RestoreDraft(ctx, shopHome)
	require.NoError(t, err)
	assert.True(t, restored)

	state, err := f.svc.State(ctx, shopHome)
	require.NoError(t, err)
	assert.Equal(t, "t5", state.TemplateID)
	assert.Equal(t, draft.Schema, state.Schema)
}

func TestServiceMalformedDraftIsLoggedAndIgnored(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	drafts := kvstore.NewMemory()
	svc := NewService(Options{Drafts: drafts, Logger: zap.New(core)})
	ctx := context.Background()
	require.NoError(t, drafts.Set(ctx, kvstore.KeyStudioPreview+":shop::home", []byte("{not json")))

	_, ok, err := svc.LoadDraft(ctx, shopHome)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 1, logs.Len())
}

func TestServiceRenderEditorUsesEditorShell(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()
	node, err := f.svc.AddComponent(ctx, AddComponentRequest{Key: shopHome, Type: TypeButton})
	require.NoError(t, err)

	doc, err := f.svc.RenderEditor(ctx, shopHome)
	require.NoError(t, err)
	assert.Equal(t, editorTemplate, f.templates.lastTemplate)
	assert.Contains(t, doc, `data-node-id="`+node.ID+`"`)
	assert.Contains(t, doc, "is-selected")
	assert.Equal(t, "editor", f.templates.lastPayload["mode"])
	assert.Equal(t, "/studio/home", f.templates.lastPayload["api_base"])
}

func TestServiceRenderStorefrontServesSavedPage(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()
	_, err := f.svc.ApplyTemplate(ctx, ApplyTemplateRequest{TenantID: "shop", TemplateID: "t2"})
	require.NoError(t, err)
	require.NoError(t, f.svc.Save(ctx, shopHome))

	node, err := f.svc.AddComponent(ctx, AddComponentRequest{Key: shopHome, Type: TypeText})
	require.NoError(t, err)
	_, err = f.svc.UpdateComponent(ctx, UpdateComponentRequest{Key: shopHome, NodeID: node.ID, Patch: Patch{Props: map[string]any{"content": "UNSAVED-DRAFT"}}})
	require.NoError(t, err)

	doc, err := f.svc.RenderStorefront(ctx, shopHome, StepIdentification)
	require.NoError(t, err)
	assert.NotContains(t, doc, "UNSAVED-DRAFT")
	assert.NotContains(t, doc, "data-node-id")
	assert.Equal(t, pageTemplate, f.templates.lastTemplate)
	assert.Equal(t, "t2", f.templates.lastPayload["theme_id"])
	assert.Equal(t, false, f.templates.lastPayload["live"])

	preview, err := f.svc.RenderPreview(ctx, shopHome)
	require.NoError(t, err)
	assert.Contains(t, preview, "UNSAVED-DRAFT")
	assert.Equal(t, true, f.templates.lastPayload["live"])

	require.NoError(t, f.svc.Save(ctx, shopHome))
	doc, err = f.svc.RenderStorefront(ctx, shopHome, StepIdentification)
	require.NoError(t, err)
	assert.Contains(t, doc, "UNSAVED-DRAFT")
}

func TestServiceRenderStorefrontCachesUntilSave(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()
	_, err := f.svc.ApplyTemplate(ctx, ApplyTemplateRequest{TenantID: "shop", TemplateID: "t4"})
	require.NoError(t, err)
	require.NoError(t, f.svc.Save(ctx, shopHome))

	first, err := f.svc.RenderStorefront(ctx, shopHome, StepIdentification)
	require.NoError(t, err)
	second, err := f.svc.RenderStorefront(ctx, shopHome, StepIdentification)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, f.templates.calls)

	require.NoError(t, f.svc.Save(ctx, shopHome))
	_, err = f.svc.RenderStorefront(ctx, shopHome, StepIdentification)
	require.NoError(t, err)
	assert.Equal(t, 2, f.templates.calls)
}

func TestServiceRenderStorefrontCreatesNoSessions(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()
	for i := 0; i < 100; i++ {
		key := SessionKey{TenantID: fmt.Sprintf("visitor-%d", i), Page: PageHome}
		_, err := f.svc.RenderStorefront(ctx, key, StepIdentification)
		assert.True(t, errors.Is(err, ErrPageNotFound))
	}
	f.svc.mu.RLock()
	assert.Empty(t, f.svc.sessions)
	f.svc.mu.RUnlock()

	_, err := f.svc.RenderStorefront(ctx, SessionKey{Page: PageHome}, StepIdentification)
	assert.True(t, errors.Is(err, ErrMissingTenant))
	_, err = NewService(Options{}).RenderStorefront(ctx, shopHome, StepIdentification)
	assert.True(t, errors.Is(err, errMissingPageStore))
}

func TestServiceStorefrontCheckoutStepComesFromRequest(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()
	_, err := f.svc.ApplyTemplate(ctx, ApplyTemplateRequest{TenantID: "shop", TemplateID: "t1"})
	require.NoError(t, err)
	key := SessionKey{TenantID: "shop", Page: PageCheckout}
	require.NoError(t, f.svc.Save(ctx, key))

	page, err := f.svc.Snapshot(ctx, key)
	require.NoError(t, err)
	checkout, ok := findType(page.Body.Elements, TypeCheckout)
	require.True(t, ok)
	_, err = f.svc.AdvanceCheckout(ctx, key, checkout.ID)
	require.NoError(t, err)

	first, err := f.svc.RenderStorefront(ctx, key, 0)
	require.NoError(t, err)
	assert.Contains(t, first, `data-slot="checkout-identification"`)
	shipping, err := f.svc.RenderStorefront(ctx, key, StepShipping)
	require.NoError(t, err)
	assert.Contains(t, shipping, `data-slot="checkout-shipping"`)
	last, err := f.svc.RenderStorefront(ctx, key, 9)
	require.NoError(t, err)
	assert.Contains(t, last, `data-slot="checkout-payment"`)

	preview, err := f.svc.RenderPreview(ctx, key)
	require.NoError(t, err)
	assert.Contains(t, preview, `data-slot="checkout-shipping"`)
}

func TestServiceSlowLoadDoesNotBlockOtherSessions(t *testing.T) {
	store := &blockingStore{
		PageStore: NewInMemoryPageStore(),
		tenant:    "slow",
		entered:   make(chan struct{}),
		release:   make(chan struct{}),
	}
	svc := NewService(Options{PageStore: store})
	ctx := context.Background()
	slow := SessionKey{TenantID: "slow", Page: PageHome}

	loaded := make(chan error, 2)
	go func() {
		_, err := svc.Snapshot(ctx, slow)
		loaded <- err
	}()
	<-store.entered
	go func() {
		_, err := svc.Snapshot(ctx, slow)
		loaded <- err
	}()

	done := make(chan error, 1)
	go func() {
		_, err := svc.State(ctx, shopHome)
		done <- err
	}()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("State blocked behind another tenant's page load")
	}

	close(store.release)
	require.NoError(t, <-loaded)
	require.NoError(t, <-loaded)
	assert.Equal(t, int32(1), store.slowLoads.Load())
}

type blockingStore struct {
	PageStore
	tenant    string
	entered   chan struct{}
	release   chan struct{}
	slowLoads atomic.Int32
}

func (s *blockingStore) LoadPage(ctx context.Context, tenantID string, page PageName) (PageSchema, error) {
	if tenantID == s.tenant {
		if s.slowLoads.Add(1) == 1 {
			close(s.entered)
		}
		<-s.release
	}
	return s.PageStore.LoadPage(ctx, tenantID, page)
}

func TestServiceCompositionChart(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()
	_, err := f.svc.CompositionChart(ctx, "")
	assert.True(t, errors.Is(err, ErrMissingTenant))

	_, err = f.svc.ApplyTemplate(ctx, ApplyTemplateRequest{TenantID: "shop", TemplateID: "t4"})
	require.NoError(t, err)
	chart, err := f.svc.CompositionChart(ctx, "shop")
	require.NoError(t, err)
	assert.Contains(t, chart, "echarts")
	assert.Contains(t, chart, string(TypeHeroBanner))
	again, err := f.svc.CompositionChart(ctx, "shop")
	require.NoError(t, err)
	assert.Equal(t, chart, again)
}

func TestServiceComponentsLocalized(t *testing.T) {
	svc := NewService(Options{})
	es := svc.Components("es")
	en := svc.Components("en-US")
	require.Len(t, es, len(ComponentTypes()))
	require.Len(t, en, len(es))
	assert.Equal(t, TypeSection, es[0].Type)
	assert.True(t, es[0].Container)
	for i := range es {
		assert.NotEmpty(t, es[i].Name)
		assert.NotEmpty(t, en[i].Name)
	}
	assert.Len(t, svc.Templates(), 6)
}

func TestServiceRegistryChangeRecompilesSchema(t *testing.T) {
	svc := NewService(Options{})
	ctx := context.Background()
	node, err := svc.AddComponent(ctx, AddComponentRequest{Key: shopHome, Type: TypeText})
	require.NoError(t, err)
	patch := Patch{Props: map[string]any{"content": "hola"}}
	_, err = svc.UpdateComponent(ctx, UpdateComponentRequest{Key: shopHome, NodeID: node.ID, Patch: patch})
	require.NoError(t, err)

	require.NoError(t, svc.Registry().RegisterDefinition(ComponentDefinition{
		Type: TypeText,
		Name: "Texto",
		Schema: map[string]any{
			"type":       "object",
			"properties": map[string]any{"content": map[string]any{"type": "string", "maxLength": 3}},
		},
	}))
	_, err = svc.UpdateComponent(ctx, UpdateComponentRequest{Key: shopHome, NodeID: node.ID, Patch: patch})
	require.Error(t, err)
}

func TestServiceHookErrorIsReturned(t *testing.T) {
	f := newServiceFixture(t)
	f.hook.err = errors.New("socket closed")
	_, err := f.svc.AddComponent(context.Background(), AddComponentRequest{Key: shopHome, Type: TypeText})
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "socket closed"))
}
