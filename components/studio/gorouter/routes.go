package gorouter

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	gocommand "github.com/goliatone/go-command"
	router "github.com/goliatone/go-router"

	"github.com/bayup/go-studio/components/studio"
	"github.com/bayup/go-studio/components/studio/commands"
	"github.com/bayup/go-studio/components/studio/httpapi"
	"github.com/bayup/go-studio/components/studio/queries"
)

// Registrar is the subset of router.Router the studio routes mount on.
type Registrar interface {
	Get(path string, handler router.HandlerFunc, mw ...router.MiddlewareFunc) router.RouteInfo
	Post(path string, handler router.HandlerFunc, mw ...router.MiddlewareFunc) router.RouteInfo
	Delete(path string, handler router.HandlerFunc, mw ...router.MiddlewareFunc) router.RouteInfo
	WebSocket(path string, config router.WebSocketConfig, handler func(router.WebSocketContext) error) router.RouteInfo
}

// TenantResolver extracts the tenant of a request.
type TenantResolver func(router.Context) string

// Config wires go-router with the studio controller, APIs, and hooks.
type Config struct {
	Router         Registrar
	Controller     *studio.Controller
	API            httpapi.Executor
	Toolbox        gocommand.Querier[queries.ToolboxInput, queries.Toolbox]
	Insights       gocommand.Querier[queries.InsightsInput, string]
	Broadcast      *studio.BroadcastHook
	TenantResolver TenantResolver
	BasePath       string
	Routes         RouteConfig
}

// RouteConfig customizes the relative paths used for studio endpoints.
type RouteConfig struct {
	Editor     string
	Preview    string
	Schema     string
	Components string
	Component  string
	Move       string
	Select     string
	Settings   string
	Template   string
	Save       string
	Checkout   string
	Insights   string
	Toolbox    string
	WebSocket  string
	Storefront string
}

// Register mounts studio routes (HTML, JSON, REST, WebSocket) on a go-router router.
func Register(cfg Config) error {
	if cfg.Router == nil {
		return errors.New("gorouter: router is required")
	}
	if cfg.Controller == nil {
		return errors.New("gorouter: controller is required")
	}
	routes := defaultRouteConfig(cfg.Routes)
	base := strings.TrimSuffix(cfg.BasePath, "/")
	if base == "" {
		base = "/studio"
	}
	resolver := cfg.TenantResolver
	if resolver == nil {
		resolver = defaultTenantResolver
	}
	r := prefixed{Registrar: cfg.Router, base: base}

	if cfg.Insights != nil {
		r.Get(routes.Insights, router.WrapHandler(func(ctx router.Context) error {
			html, err := cfg.Insights.Query(ctx.Context(), queries.InsightsInput{TenantID: resolver(ctx)})
			if err != nil {
				return respondError(ctx, httpapi.StatusFor(err), err)
			}
			ctx.SetHeader("Content-Type", "text/html; charset=utf-8")
			return ctx.Send([]byte(html))
		}))
	}
	if cfg.Toolbox != nil {
		r.Get(routes.Toolbox, router.WrapHandler(func(ctx router.Context) error {
			toolbox, err := cfg.Toolbox.Query(ctx.Context(), queries.ToolboxInput{Locale: inferLocale(ctx)})
			if err != nil {
				return respondError(ctx, http.StatusInternalServerError, err)
			}
			return ctx.JSON(http.StatusOK, toolbox)
		}))
	}
	if cfg.Broadcast != nil {
		registerWebSocket(r, cfg.Broadcast, resolver, routes.WebSocket)
	}

	r.Get(routes.Editor, router.WrapHandler(func(ctx router.Context) error {
		var buf bytes.Buffer
		if err := cfg.Controller.RenderEditor(ctx.Context(), sessionKey(ctx, resolver), &buf); err != nil {
			return respondError(ctx, httpapi.StatusFor(err), err)
		}
		ctx.SetHeader("Content-Type", "text/html; charset=utf-8")
		return ctx.Send(buf.Bytes())
	}))

	r.Get(routes.Preview, router.WrapHandler(func(ctx router.Context) error {
		var buf bytes.Buffer
		if err := cfg.Controller.RenderPreview(ctx.Context(), sessionKey(ctx, resolver), &buf); err != nil {
			return respondError(ctx, httpapi.StatusFor(err), err)
		}
		ctx.SetHeader("Content-Type", "text/html; charset=utf-8")
		return ctx.Send(buf.Bytes())
	}))

	r.Get(routes.Schema, router.WrapHandler(func(ctx router.Context) error {
		state, err := cfg.Controller.StatePayload(ctx.Context(), sessionKey(ctx, resolver))
		if err != nil {
			return respondError(ctx, httpapi.StatusFor(err), err)
		}
		return ctx.JSON(http.StatusOK, state)
	}))

	cfg.Router.Get(routes.Storefront, router.WrapHandler(func(ctx router.Context) error {
		key := studio.SessionKey{TenantID: ctx.Param("tenant"), Page: studio.PageName(ctx.Param("page"))}
		var buf bytes.Buffer
		if err := cfg.Controller.RenderStorefront(ctx.Context(), key, checkoutStep(ctx), &buf); err != nil {
			return respondError(ctx, httpapi.StatusFor(err), err)
		}
		ctx.SetHeader("Content-Type", "text/html; charset=utf-8")
		return ctx.Send(buf.Bytes())
	}))

	if cfg.API != nil {
		registerAPI(r, cfg.API, resolver, routes)
	}
	return nil
}

func registerAPI(r Registrar, api httpapi.Executor, resolver TenantResolver, routes RouteConfig) {
	r.Post(routes.Template, router.WrapHandler(func(ctx router.Context) error {
		var payload httpapi.TemplateBody
		if err := json.Unmarshal(ctx.Body(), &payload); err != nil {
			return respondError(ctx, http.StatusBadRequest, err)
		}
		req := studio.ApplyTemplateRequest{TenantID: resolver(ctx), TemplateID: payload.TemplateID}
		if err := api.ApplyTemplate(ctx.Context(), req); err != nil {
			return respondError(ctx, httpapi.StatusFor(err), err)
		}
		return ctx.JSON(http.StatusOK, map[string]string{"status": "applied"})
	}))

	r.Post(routes.Components, router.WrapHandler(func(ctx router.Context) error {
		var payload httpapi.AddComponentBody
		if err := json.Unmarshal(ctx.Body(), &payload); err != nil {
			return respondError(ctx, http.StatusBadRequest, err)
		}
		node, err := api.AddComponent(ctx.Context(), payload.Request(sessionKey(ctx, resolver)))
		if err != nil {
			return respondError(ctx, httpapi.StatusFor(err), err)
		}
		return ctx.JSON(http.StatusCreated, node)
	}))

	r.Post(routes.Component, router.WrapHandler(func(ctx router.Context) error {
		var patch studio.Patch
		if err := json.Unmarshal(ctx.Body(), &patch); err != nil {
			return respondError(ctx, http.StatusBadRequest, err)
		}
		req := studio.UpdateComponentRequest{Key: sessionKey(ctx, resolver), NodeID: ctx.Param("id"), Patch: patch}
		node, err := api.UpdateComponent(ctx.Context(), req)
		if err != nil {
			return respondError(ctx, httpapi.StatusFor(err), err)
		}
		return ctx.JSON(http.StatusOK, node)
	}))

	r.Delete(routes.Component, router.WrapHandler(func(ctx router.Context) error {
		id := ctx.Param("id")
		if id == "" {
			return respondError(ctx, http.StatusBadRequest, studio.ErrMissingNodeID)
		}
		if err := api.RemoveComponent(ctx.Context(), commands.RemoveComponentInput{Key: sessionKey(ctx, resolver), NodeID: id}); err != nil {
			return respondError(ctx, httpapi.StatusFor(err), err)
		}
		return ctx.JSON(http.StatusOK, map[string]string{"status": "removed"})
	}))

	r.Post(routes.Move, router.WrapHandler(func(ctx router.Context) error {
		var to studio.Position
		if err := json.Unmarshal(ctx.Body(), &to); err != nil {
			return respondError(ctx, http.StatusBadRequest, err)
		}
		req := studio.MoveComponentRequest{Key: sessionKey(ctx, resolver), NodeID: ctx.Param("id"), To: to}
		if err := api.MoveComponent(ctx.Context(), req); err != nil {
			return respondError(ctx, httpapi.StatusFor(err), err)
		}
		return ctx.JSON(http.StatusOK, map[string]string{"status": "moved"})
	}))

	r.Post(routes.Select, router.WrapHandler(func(ctx router.Context) error {
		var payload httpapi.SelectBody
		if err := json.Unmarshal(ctx.Body(), &payload); err != nil {
			return respondError(ctx, http.StatusBadRequest, err)
		}
		input := commands.SelectComponentInput{Key: sessionKey(ctx, resolver), NodeID: payload.NodeID}
		if err := api.SelectComponent(ctx.Context(), input); err != nil {
			return respondError(ctx, httpapi.StatusFor(err), err)
		}
		return ctx.JSON(http.StatusOK, map[string]string{"status": "selected"})
	}))

	r.Post(routes.Settings, router.WrapHandler(func(ctx router.Context) error {
		var settings studio.EditorSettings
		if err := json.Unmarshal(ctx.Body(), &settings); err != nil {
			return respondError(ctx, http.StatusBadRequest, err)
		}
		input := commands.ConfigureEditorInput{Key: sessionKey(ctx, resolver), Settings: settings}
		if err := api.ConfigureEditor(ctx.Context(), input); err != nil {
			return respondError(ctx, httpapi.StatusFor(err), err)
		}
		return ctx.JSON(http.StatusOK, map[string]string{"status": "configured"})
	}))

	r.Post(routes.Save, router.WrapHandler(func(ctx router.Context) error {
		var payload httpapi.SaveBody
		if body := ctx.Body(); len(bytes.TrimSpace(body)) > 0 {
			if err := json.Unmarshal(body, &payload); err != nil {
				return respondError(ctx, http.StatusBadRequest, err)
			}
		}
		input := commands.SavePageInput{Key: sessionKey(ctx, resolver), Draft: payload.Draft}
		if err := api.SavePage(ctx.Context(), input); err != nil {
			return respondError(ctx, httpapi.StatusFor(err), err)
		}
		return ctx.JSON(http.StatusOK, map[string]any{"status": "saved", "draft": payload.Draft})
	}))

	r.Post(routes.Checkout, router.WrapHandler(func(ctx router.Context) error {
		step, err := api.ContinueCheckout(ctx.Context(), sessionKey(ctx, resolver), ctx.Param("id"))
		if err != nil {
			return respondError(ctx, httpapi.StatusFor(err), err)
		}
		return ctx.JSON(http.StatusOK, map[string]any{"step": int(step), "name": step.String(), "label": step.Label()})
	}))
}

// registerWebSocket streams studio events of the connecting tenant. Connections without a
// tenant are refused.
func registerWebSocket(r Registrar, hook *studio.BroadcastHook, resolver TenantResolver, path string) {
	cfg := router.DefaultWebSocketConfig()
	r.WebSocket(path, cfg, func(ws router.WebSocketContext) error {
		tenant := resolver(ws)
		if tenant == "" {
			_ = ws.Close()
			return studio.ErrMissingTenant
		}
		events, cancel := hook.Subscribe()
		defer cancel()
		for {
			select {
			case event, ok := <-events:
				if !ok {
					return nil
				}
				if event.TenantID != tenant {
					continue
				}
				if err := ws.WriteJSON(event); err != nil {
					return err
				}
			case <-ws.Context().Done():
				return ws.Close()
			}
		}
	})
}

// prefixed mounts every route under base.
type prefixed struct {
	Registrar
	base string
}

func (p prefixed) Get(path string, handler router.HandlerFunc, mw ...router.MiddlewareFunc) router.RouteInfo {
	return p.Registrar.Get(p.base+path, handler, mw...)
}

func (p prefixed) Post(path string, handler router.HandlerFunc, mw ...router.MiddlewareFunc) router.RouteInfo {
	return p.Registrar.Post(p.base+path, handler, mw...)
}

func (p prefixed) Delete(path string, handler router.HandlerFunc, mw ...router.MiddlewareFunc) router.RouteInfo {
	return p.Registrar.Delete(p.base+path, handler, mw...)
}

func (p prefixed) WebSocket(path string, config router.WebSocketConfig, handler func(router.WebSocketContext) error) router.RouteInfo {
	return p.Registrar.WebSocket(p.base+path, config, handler)
}

// checkoutStep reads the storefront checkout stage from the step query parameter.
func checkoutStep(ctx router.Context) studio.CheckoutStep {
	step, err := strconv.Atoi(strings.TrimSpace(ctx.Query("step")))
	if err != nil {
		return studio.FirstCheckoutStep
	}
	return studio.ClampCheckoutStep(studio.CheckoutStep(step))
}

func sessionKey(ctx router.Context, resolver TenantResolver) studio.SessionKey {
	return studio.SessionKey{TenantID: resolver(ctx), Page: studio.PageName(ctx.Param("page"))}
}

// defaultTenantResolver reads the tenant from request locals (set by auth middleware), then
// from a :tenant route param, then from the tenant query parameter.
func defaultTenantResolver(ctx router.Context) string {
	if tenant, ok := ctx.Locals("tenant_id").(string); ok && tenant != "" {
		return tenant
	}
	if tenant := strings.TrimSpace(ctx.Param("tenant")); tenant != "" {
		return tenant
	}
	return strings.TrimSpace(ctx.Query("tenant"))
}

func inferLocale(ctx router.Context) string {
	if locale, ok := ctx.Locals("locale").(string); ok && locale != "" {
		return locale
	}
	if locale := strings.TrimSpace(ctx.Query("locale")); locale != "" {
		return strings.ToLower(locale)
	}
	if header := ctx.Header("Accept-Language"); header != "" {
		if lang := parseAcceptLanguage(header); lang != "" {
			return lang
		}
	}
	return ""
}

func parseAcceptLanguage(header string) string {
	for _, token := range strings.Split(header, ",") {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}
		if idx := strings.Index(token, ";"); idx >= 0 {
			token = token[:idx]
		}
		if token != "" {
			return strings.ToLower(token)
		}
	}
	return ""
}

func respondError(ctx router.Context, status int, err error) error {
	return ctx.JSON(status, map[string]string{"error": err.Error()})
}

func defaultRouteConfig(routes RouteConfig) RouteConfig {
	if routes.Editor == "" {
		routes.Editor = "/:page"
	}
	if routes.Preview == "" {
		routes.Preview = "/:page/_preview"
	}
	if routes.Schema == "" {
		routes.Schema = "/:page/_schema"
	}
	if routes.Components == "" {
		routes.Components = "/:page/components"
	}
	if routes.Component == "" {
		routes.Component = "/:page/components/:id"
	}
	if routes.Move == "" {
		routes.Move = "/:page/components/:id/move"
	}
	if routes.Select == "" {
		routes.Select = "/:page/select"
	}
	if routes.Settings == "" {
		routes.Settings = "/:page/settings"
	}
	if routes.Template == "" {
		routes.Template = "/:page/template"
	}
	if routes.Save == "" {
		routes.Save = "/:page/save"
	}
	if routes.Checkout == "" {
		routes.Checkout = "/:page/checkout/:id/continue"
	}
	if routes.Insights == "" {
		routes.Insights = "/_insights"
	}
	if routes.Toolbox == "" {
		routes.Toolbox = "/_toolbox"
	}
	if routes.WebSocket == "" {
		routes.WebSocket = "/ws"
	}
	if routes.Storefront == "" {
		routes.Storefront = "/store/:tenant/:page"
	}
	return routes
}
