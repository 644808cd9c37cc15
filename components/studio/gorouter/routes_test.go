package gorouter

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	router "github.com/goliatone/go-router"

	"github.com/bayup/go-studio/components/studio"
	"github.com/bayup/go-studio/components/studio/commands"
	"github.com/bayup/go-studio/components/studio/queries"
)

func TestRegisterValidatesConfig(t *testing.T) {
	if err := Register(Config{}); err == nil {
		t.Fatalf("expected error when router/controller missing")
	}
	if err := Register(Config{Router: newMockRouter()}); err == nil {
		t.Fatalf("expected error when controller missing")
	}
}

func TestRegisterMountsStudioRoutes(t *testing.T) {
	mock := newMockRouter()
	cfg := Config{
		Router:     mock,
		Controller: studio.NewController(studio.ControllerOptions{Service: &stubPageSource{}}),
		API:        &stubExecutor{},
		Toolbox:    stubToolbox{},
		Insights:   stubInsights{},
		Broadcast:  studio.NewBroadcastHook(),
	}
	if err := Register(cfg); err != nil {
		t.Fatalf("register returned error: %v", err)
	}
	expected := []string{
		"GET:/studio/:page",
		"GET:/studio/:page/_preview",
		"GET:/studio/:page/_schema",
		"GET:/studio/_insights",
		"GET:/studio/_toolbox",
		"GET:/store/:tenant/:page",
		"POST:/studio/:page/template",
		"POST:/studio/:page/components",
		"POST:/studio/:page/components/:id",
		"DELETE:/studio/:page/components/:id",
		"POST:/studio/:page/components/:id/move",
		"POST:/studio/:page/select",
		"POST:/studio/:page/settings",
		"POST:/studio/:page/save",
		"POST:/studio/:page/checkout/:id/continue",
	}
	for _, key := range expected {
		if _, ok := mock.routes[key]; !ok {
			t.Fatalf("expected route %s to be registered", key)
		}
	}
	if _, ok := mock.ws["/studio/ws"]; !ok {
		t.Fatalf("expected websocket route")
	}
}

func TestRegisterCustomBasePath(t *testing.T) {
	mock := newMockRouter()
	cfg := Config{
		Router:     mock,
		Controller: studio.NewController(studio.ControllerOptions{Service: &stubPageSource{}}),
		BasePath:   "/admin/studio/",
		Routes:     RouteConfig{Storefront: "/tienda/:tenant/:page"},
	}
	if err := Register(cfg); err != nil {
		t.Fatalf("register returned error: %v", err)
	}
	if _, ok := mock.routes["GET:/admin/studio/:page"]; !ok {
		t.Fatalf("expected editor route under custom base path")
	}
	if _, ok := mock.routes["GET:/tienda/:tenant/:page"]; !ok {
		t.Fatalf("expected custom storefront route")
	}
	if _, ok := mock.routes["POST:/admin/studio/:page/components"]; ok {
		t.Fatalf("api routes require an executor")
	}
}

func TestEditorRouteRendersHTML(t *testing.T) {
	mock := newMockRouter()
	source := &stubPageSource{editorHTML: "<main>editor</main>"}
	register(t, mock, source, &stubExecutor{})

	ctx := newMockContext()
	ctx.locals["tenant_id"] = "shop"
	ctx.params["page"] = "home"
	if err := mock.routes["GET:/studio/:page"](ctx); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if string(ctx.sent) != "<main>editor</main>" {
		t.Fatalf("unexpected body %q", ctx.sent)
	}
	if ctx.headers["Content-Type"] != "text/html; charset=utf-8" {
		t.Fatalf("unexpected content type %q", ctx.headers["Content-Type"])
	}
	if source.lastKey != (studio.SessionKey{TenantID: "shop", Page: studio.PageHome}) {
		t.Fatalf("unexpected session key %+v", source.lastKey)
	}
}

func TestEditorRouteMapsErrors(t *testing.T) {
	mock := newMockRouter()
	register(t, mock, &stubPageSource{err: studio.ErrUnknownPage}, &stubExecutor{})

	ctx := newMockContext()
	ctx.locals["tenant_id"] = "shop"
	ctx.params["page"] = "blog"
	if err := mock.routes["GET:/studio/:page"](ctx); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if ctx.status != 400 {
		t.Fatalf("expected 400, got %d", ctx.status)
	}
}

func TestStorefrontRouteUsesTenantParam(t *testing.T) {
	mock := newMockRouter()
	source := &stubPageSource{storeHTML: "<main>store</main>"}
	register(t, mock, source, &stubExecutor{})

	ctx := newMockContext()
	ctx.params["tenant"] = "acme"
	ctx.params["page"] = "products"
	if err := mock.routes["GET:/store/:tenant/:page"](ctx); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if string(ctx.sent) != "<main>store</main>" {
		t.Fatalf("unexpected body %q", ctx.sent)
	}
	if source.lastKey.TenantID != "acme" || source.lastKey.Page != studio.PageProducts {
		t.Fatalf("unexpected session key %+v", source.lastKey)
	}
	if source.lastStep != studio.StepIdentification {
		t.Fatalf("expected first checkout step without a query, got %d", source.lastStep)
	}
}

func TestStorefrontRouteReadsCheckoutStep(t *testing.T) {
	mock := newMockRouter()
	source := &stubPageSource{storeHTML: "<main>store</main>"}
	register(t, mock, source, &stubExecutor{})

	cases := map[string]studio.CheckoutStep{
		"2":    studio.StepShipping,
		"3":    studio.StepPayment,
		"12":   studio.StepPayment,
		"-1":   studio.StepIdentification,
		"next": studio.StepIdentification,
	}
	for query, want := range cases {
		ctx := newMockContext()
		ctx.params["tenant"] = "acme"
		ctx.params["page"] = "checkout"
		ctx.query["step"] = query
		if err := mock.routes["GET:/store/:tenant/:page"](ctx); err != nil {
			t.Fatalf("handler returned error: %v", err)
		}
		if source.lastStep != want {
			t.Fatalf("step=%s: expected %d, got %d", query, want, source.lastStep)
		}
	}
}

func TestStorefrontRouteMapsMissingPage(t *testing.T) {
	mock := newMockRouter()
	register(t, mock, &stubPageSource{err: studio.ErrPageNotFound}, &stubExecutor{})

	ctx := newMockContext()
	ctx.params["tenant"] = "acme"
	ctx.params["page"] = "home"
	if err := mock.routes["GET:/store/:tenant/:page"](ctx); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if ctx.status != 404 {
		t.Fatalf("expected 404, got %d", ctx.status)
	}
}

func TestPreviewRouteRendersLiveSession(t *testing.T) {
	mock := newMockRouter()
	source := &stubPageSource{previewHTML: "<main>preview</main>"}
	register(t, mock, source, &stubExecutor{})

	ctx := newMockContext()
	ctx.locals["tenant_id"] = "shop"
	ctx.params["page"] = "home"
	if err := mock.routes["GET:/studio/:page/_preview"](ctx); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if string(ctx.sent) != "<main>preview</main>" {
		t.Fatalf("unexpected body %q", ctx.sent)
	}
	if source.lastKey != (studio.SessionKey{TenantID: "shop", Page: studio.PageHome}) {
		t.Fatalf("unexpected session key %+v", source.lastKey)
	}
}

func TestWebSocketRouteStreamsOnlyOwnTenant(t *testing.T) {
	mock := newMockRouter()
	hook := studio.NewBroadcastHook()
	cfg := Config{
		Router:     mock,
		Controller: studio.NewController(studio.ControllerOptions{Service: &stubPageSource{}}),
		Broadcast:  hook,
	}
	if err := Register(cfg); err != nil {
		t.Fatalf("register returned error: %v", err)
	}
	handler, ok := mock.ws["/studio/ws"]
	if !ok {
		t.Fatalf("expected websocket route")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ws := newMockWebSocket(ctx)
	ws.query["tenant"] = "shop-a"
	done := make(chan error, 1)
	go func() { done <- handler(ws) }()
	waitFor(t, func() bool { return hook.Subscribers() == 1 })

	for _, event := range []studio.StudioEvent{
		{TenantID: "shop-a", Page: studio.PageHome, NodeID: "n1", Reason: "add"},
		{TenantID: "shop-b", Page: studio.PageHome, NodeID: "n2", ActorID: "intruder", Reason: "add"},
		{TenantID: "shop-a", Page: studio.PageHome, Reason: "save"},
	} {
		if err := hook.PageUpdated(ctx, event); err != nil {
			t.Fatalf("publish: %v", err)
		}
	}
	waitFor(t, func() bool { return len(ws.Events()) == 2 })
	cancel()
	if err := <-done; err != nil {
		t.Fatalf("handler returned error: %v", err)
	}

	for _, event := range ws.Events() {
		if event.TenantID != "shop-a" {
			t.Fatalf("received event of tenant %q", event.TenantID)
		}
	}
	if !ws.Closed() {
		t.Fatalf("expected connection to be closed")
	}
	if hook.Subscribers() != 0 {
		t.Fatalf("expected subscription to be released")
	}
}

func TestWebSocketRouteRequiresTenant(t *testing.T) {
	mock := newMockRouter()
	hook := studio.NewBroadcastHook()
	cfg := Config{
		Router:     mock,
		Controller: studio.NewController(studio.ControllerOptions{Service: &stubPageSource{}}),
		Broadcast:  hook,
	}
	if err := Register(cfg); err != nil {
		t.Fatalf("register returned error: %v", err)
	}
	ws := newMockWebSocket(context.Background())
	err := mock.ws["/studio/ws"](ws)
	if !errors.Is(err, studio.ErrMissingTenant) {
		t.Fatalf("expected missing tenant error, got %v", err)
	}
	if !ws.Closed() || hook.Subscribers() != 0 {
		t.Fatalf("expected refused connection without subscription")
	}
}

func TestAddComponentRoute(t *testing.T) {
	mock := newMockRouter()
	exec := &stubExecutor{node: studio.Node{ID: "n9", Type: studio.TypeText}}
	register(t, mock, &stubPageSource{}, exec)

	ctx := newMockContext()
	ctx.locals["tenant_id"] = "shop"
	ctx.params["page"] = "home"
	ctx.request = []byte(`{"type":"text","section":"body"}`)
	if err := mock.routes["POST:/studio/:page/components"](ctx); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if ctx.status != 201 {
		t.Fatalf("expected 201, got %d", ctx.status)
	}
	if exec.add.Type != studio.TypeText || exec.add.Section != studio.SectionBody {
		t.Fatalf("unexpected add request %+v", exec.add)
	}
	if exec.add.Key.TenantID != "shop" {
		t.Fatalf("expected tenant from locals, got %q", exec.add.Key.TenantID)
	}
	var node studio.Node
	if err := json.Unmarshal(ctx.sent, &node); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if node.ID != "n9" {
		t.Fatalf("unexpected node %+v", node)
	}
}

func TestAddComponentRouteRejectsBadJSON(t *testing.T) {
	mock := newMockRouter()
	exec := &stubExecutor{}
	register(t, mock, &stubPageSource{}, exec)

	ctx := newMockContext()
	ctx.locals["tenant_id"] = "shop"
	ctx.params["page"] = "home"
	ctx.request = []byte(`{`)
	if err := mock.routes["POST:/studio/:page/components"](ctx); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if ctx.status != 400 {
		t.Fatalf("expected 400, got %d", ctx.status)
	}
	if exec.calls != 0 {
		t.Fatalf("executor should not run on malformed input")
	}
}

func TestUpdateComponentRouteMapsNotFound(t *testing.T) {
	mock := newMockRouter()
	exec := &stubExecutor{err: studio.ErrNodeNotFound}
	register(t, mock, &stubPageSource{}, exec)

	ctx := newMockContext()
	ctx.locals["tenant_id"] = "shop"
	ctx.params["page"] = "home"
	ctx.params["id"] = "ghost"
	ctx.request = []byte(`{"props":{"content":"Hola"}}`)
	if err := mock.routes["POST:/studio/:page/components/:id"](ctx); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if ctx.status != 404 {
		t.Fatalf("expected 404, got %d", ctx.status)
	}
	if exec.update.NodeID != "ghost" {
		t.Fatalf("unexpected update request %+v", exec.update)
	}
}

func TestCheckoutRouteReturnsStep(t *testing.T) {
	mock := newMockRouter()
	exec := &stubExecutor{step: studio.StepPayment}
	register(t, mock, &stubPageSource{}, exec)

	ctx := newMockContext()
	ctx.locals["tenant_id"] = "shop"
	ctx.params["page"] = "checkout"
	ctx.params["id"] = "co1"
	if err := mock.routes["POST:/studio/:page/checkout/:id/continue"](ctx); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	var payload map[string]any
	if err := json.Unmarshal(ctx.sent, &payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if payload["step"] != float64(3) || payload["name"] != studio.StepPayment.String() {
		t.Fatalf("unexpected payload %+v", payload)
	}
	if exec.checkoutID != "co1" {
		t.Fatalf("unexpected checkout node %q", exec.checkoutID)
	}
}

func TestSaveRouteAcceptsEmptyBody(t *testing.T) {
	mock := newMockRouter()
	exec := &stubExecutor{}
	register(t, mock, &stubPageSource{}, exec)

	ctx := newMockContext()
	ctx.locals["tenant_id"] = "shop"
	ctx.params["page"] = "home"
	if err := mock.routes["POST:/studio/:page/save"](ctx); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if ctx.status != 200 || exec.save.Draft {
		t.Fatalf("expected published save, got status %d input %+v", ctx.status, exec.save)
	}

	ctx = newMockContext()
	ctx.locals["tenant_id"] = "shop"
	ctx.params["page"] = "home"
	ctx.request = []byte(`{"draft":true}`)
	if err := mock.routes["POST:/studio/:page/save"](ctx); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if !exec.save.Draft {
		t.Fatalf("expected draft save")
	}
}

func TestToolboxRouteUsesLocale(t *testing.T) {
	mock := newMockRouter()
	toolbox := &recordingToolbox{}
	cfg := Config{
		Router:     mock,
		Controller: studio.NewController(studio.ControllerOptions{Service: &stubPageSource{}}),
		Toolbox:    toolbox,
	}
	if err := Register(cfg); err != nil {
		t.Fatalf("register returned error: %v", err)
	}
	ctx := newMockContext()
	ctx.locals["locale"] = "en"
	if err := mock.routes["GET:/studio/_toolbox"](ctx); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if toolbox.locale != "en" {
		t.Fatalf("expected locale en, got %q", toolbox.locale)
	}
}

func TestParseAcceptLanguage(t *testing.T) {
	if got := parseAcceptLanguage("es-CO,es;q=0.9,en;q=0.8"); got != "es-co" {
		t.Fatalf("unexpected locale %q", got)
	}
	if got := parseAcceptLanguage(" , "); got != "" {
		t.Fatalf("expected empty locale, got %q", got)
	}
}

// --- Test helpers ---

func register(t *testing.T, mock *mockRouter, source studio.PageSource, exec *stubExecutor) {
	t.Helper()
	cfg := Config{
		Router:     mock,
		Controller: studio.NewController(studio.ControllerOptions{Service: source}),
		API:        exec,
	}
	if err := Register(cfg); err != nil {
		t.Fatalf("register returned error: %v", err)
	}
}

type mockRouter struct {
	routes map[string]router.HandlerFunc
	ws     map[string]func(router.WebSocketContext) error
}

func newMockRouter() *mockRouter {
	return &mockRouter{
		routes: map[string]router.HandlerFunc{},
		ws:     map[string]func(router.WebSocketContext) error{},
	}
}

func (m *mockRouter) Get(path string, handler router.HandlerFunc, mw ...router.MiddlewareFunc) router.RouteInfo {
	m.routes[string(router.GET)+":"+path] = handler
	return mockRouteInfo{}
}

func (m *mockRouter) Post(path string, handler router.HandlerFunc, mw ...router.MiddlewareFunc) router.RouteInfo {
	m.routes[string(router.POST)+":"+path] = handler
	return mockRouteInfo{}
}

func (m *mockRouter) Delete(path string, handler router.HandlerFunc, mw ...router.MiddlewareFunc) router.RouteInfo {
	m.routes[string(router.DELETE)+":"+path] = handler
	return mockRouteInfo{}
}

func (m *mockRouter) WebSocket(path string, cfg router.WebSocketConfig, handler func(router.WebSocketContext) error) router.RouteInfo {
	m.ws[path] = handler
	return mockRouteInfo{}
}

type routeInfo = router.RouteInfo

// mockRouteInfo satisfies router.RouteInfo; only SetName is exercised.
type mockRouteInfo struct {
	routeInfo
}

func (mockRouteInfo) SetName(string) router.RouteInfo { return mockRouteInfo{} }

type baseContext = router.Context

// mockContext implements the router.Context methods the handlers touch. Any other call hits
// the nil embedded interface and panics.
type mockContext struct {
	baseContext
	ctx     context.Context
	headers map[string]string
	request []byte
	sent    []byte
	locals  map[any]any
	params  map[string]string
	query   map[string]string
	status  int
}

func newMockContext() *mockContext {
	return &mockContext{
		ctx:     context.Background(),
		headers: map[string]string{},
		locals:  map[any]any{},
		params:  map[string]string{},
		query:   map[string]string{},
		status:  200,
	}
}

func (m *mockContext) Context() context.Context {
	return m.ctx
}

func (m *mockContext) SetHeader(k, v string) router.Context {
	m.headers[k] = v
	return m
}

func (m *mockContext) Send(b []byte) error {
	m.sent = append([]byte{}, b...)
	return nil
}

func (m *mockContext) JSON(code int, v any) error {
	m.status = code
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	m.sent = data
	return nil
}

func (m *mockContext) Body() []byte { return m.request }

func (m *mockContext) Param(name string, defaultValue ...string) string {
	if v, ok := m.params[name]; ok {
		return v
	}
	if len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return ""
}

func (m *mockContext) Query(name string, defaultValue ...string) string {
	if v, ok := m.query[name]; ok {
		return v
	}
	if len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return ""
}

func (m *mockContext) Header(string) string { return "" }

func (m *mockContext) Locals(key any, value ...any) any {
	if len(value) == 0 {
		return m.locals[key]
	}
	m.locals[key] = value[0]
	return value[0]
}

type baseWebSocket = router.WebSocketContext

// mockWebSocket records the JSON frames a WebSocket handler writes.
type mockWebSocket struct {
	baseWebSocket
	ctx    context.Context
	query  map[string]string
	mu     sync.Mutex
	events []studio.StudioEvent
	closed bool
}

func newMockWebSocket(ctx context.Context) *mockWebSocket {
	return &mockWebSocket{ctx: ctx, query: map[string]string{}}
}

func (m *mockWebSocket) Context() context.Context { return m.ctx }

func (m *mockWebSocket) Locals(any, ...any) any { return nil }

func (m *mockWebSocket) Param(string, ...string) string { return "" }

func (m *mockWebSocket) Query(name string, defaultValue ...string) string {
	if v, ok := m.query[name]; ok {
		return v
	}
	if len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return ""
}

func (m *mockWebSocket) WriteJSON(v any) error {
	event, ok := v.(studio.StudioEvent)
	if !ok {
		return errors.New("unexpected frame")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
	return nil
}

func (m *mockWebSocket) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

func (m *mockWebSocket) Events() []studio.StudioEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]studio.StudioEvent(nil), m.events...)
}

func (m *mockWebSocket) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("condition not met before deadline")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

type stubPageSource struct {
	editorHTML  string
	previewHTML string
	storeHTML   string
	err         error
	lastKey     studio.SessionKey
	lastStep    studio.CheckoutStep
}

func (s *stubPageSource) RenderEditor(_ context.Context, key studio.SessionKey) (string, error) {
	s.lastKey = key
	return s.editorHTML, s.err
}

func (s *stubPageSource) RenderPreview(_ context.Context, key studio.SessionKey) (string, error) {
	s.lastKey = key
	return s.previewHTML, s.err
}

func (s *stubPageSource) RenderStorefront(_ context.Context, key studio.SessionKey, step studio.CheckoutStep) (string, error) {
	s.lastKey = key
	s.lastStep = step
	return s.storeHTML, s.err
}

func (s *stubPageSource) State(_ context.Context, key studio.SessionKey) (studio.SessionState, error) {
	s.lastKey = key
	return studio.SessionState{Key: key}, s.err
}

type stubExecutor struct {
	calls      int
	err        error
	node       studio.Node
	step       studio.CheckoutStep
	add        studio.AddComponentRequest
	update     studio.UpdateComponentRequest
	save       commands.SavePageInput
	checkoutID string
}

func (s *stubExecutor) ApplyTemplate(context.Context, studio.ApplyTemplateRequest) error {
	s.calls++
	return s.err
}

func (s *stubExecutor) AddComponent(_ context.Context, req studio.AddComponentRequest) (studio.Node, error) {
	s.calls++
	s.add = req
	return s.node, s.err
}

func (s *stubExecutor) UpdateComponent(_ context.Context, req studio.UpdateComponentRequest) (studio.Node, error) {
	s.calls++
	s.update = req
	return s.node, s.err
}

func (s *stubExecutor) RemoveComponent(context.Context, commands.RemoveComponentInput) error {
	s.calls++
	return s.err
}

func (s *stubExecutor) MoveComponent(context.Context, studio.MoveComponentRequest) error {
	s.calls++
	return s.err
}

func (s *stubExecutor) SelectComponent(context.Context, commands.SelectComponentInput) error {
	s.calls++
	return s.err
}

func (s *stubExecutor) ConfigureEditor(context.Context, commands.ConfigureEditorInput) error {
	s.calls++
	return s.err
}

func (s *stubExecutor) ContinueCheckout(_ context.Context, _ studio.SessionKey, nodeID string) (studio.CheckoutStep, error) {
	s.calls++
	s.checkoutID = nodeID
	return s.step, s.err
}

func (s *stubExecutor) SavePage(_ context.Context, input commands.SavePageInput) error {
	s.calls++
	s.save = input
	return s.err
}

type stubToolbox struct{}

func (stubToolbox) Query(context.Context, queries.ToolboxInput) (queries.Toolbox, error) {
	return queries.Toolbox{}, nil
}

type recordingToolbox struct {
	locale string
}

func (r *recordingToolbox) Query(_ context.Context, input queries.ToolboxInput) (queries.Toolbox, error) {
	r.locale = input.Locale
	return queries.Toolbox{}, nil
}

type stubInsights struct{}

func (stubInsights) Query(context.Context, queries.InsightsInput) (string, error) {
	return "<div>chart</div>", nil
}
