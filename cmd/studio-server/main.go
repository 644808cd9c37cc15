package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/gofiber/fiber/v2"
	router "github.com/goliatone/go-router"
	"go.uber.org/zap"

	"github.com/bayup/go-studio/components/studio"
	"github.com/bayup/go-studio/components/studio/gorouter"
	"github.com/bayup/go-studio/components/studio/httpapi"
	"github.com/bayup/go-studio/components/studio/queries"
	"github.com/bayup/go-studio/pkg/backend"
	"github.com/bayup/go-studio/pkg/kvstore"
)

func main() {
	var flags serverCLI
	ctx := kong.Parse(&flags,
		kong.Name("studio-server"),
		kong.Description("Storefront studio server: editor canvas, storefront preview and REST/WebSocket API."),
		kong.UsageOnError(),
	)
	ctx.FatalIfErrorf(run(context.Background(), flags))
}

func run(ctx context.Context, flags serverCLI) error {
	file, err := loadFileConfig(flags.Config)
	if err != nil {
		return err
	}
	cfg, err := resolveSettings(flags, file)
	if err != nil {
		return err
	}
	logger, err := buildLogger(cfg.Verbose)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	store, closeStore, err := openStore(cfg.DB)
	if err != nil {
		return err
	}
	defer closeStore()

	pages, err := pageStore(cfg, store)
	if err != nil {
		return err
	}

	registry := studio.NewRegistry()
	if cfg.Manifest != "" {
		doc, err := registry.LoadManifestFile(cfg.Manifest)
		if err != nil {
			return err
		}
		logger.Info("component manifest loaded", zap.String("path", doc.Source), zap.Int("components", len(doc.Components)))
	}

	hook := studio.NewBroadcastHook()
	telemetry := studio.NewZapTelemetry(logger)
	service := studio.NewService(studio.Options{
		PageStore:   pages,
		Registry:    registry,
		RefreshHook: hook,
		Telemetry:   telemetry,
		Drafts:      store,
		Logger:      logger,
		SocketURL:   cfg.BasePath + "/ws",
		APIBase:     cfg.BasePath,
	})

	for _, seed := range cfg.Seed {
		if _, err := service.ApplyTemplate(ctx, studio.ApplyTemplateRequest{TenantID: seed.Tenant, TemplateID: seed.Template}); err != nil {
			return fmt.Errorf("studio-server: seed %s: %w", seed.Tenant, err)
		}
		logger.Info("template applied", zap.String("tenant", seed.Tenant), zap.String("template", seed.Template))
	}

	server := router.NewFiberAdapter(func(app *fiber.App) *fiber.App {
		app.Get("/healthz", func(c *fiber.Ctx) error {
			return c.JSON(fiber.Map{"status": "ok", "subscribers": hook.Subscribers()})
		})
		return app
	})
	if err := gorouter.Register(gorouter.Config{
		Router:         server.Router(),
		Controller:     studio.NewController(studio.ControllerOptions{Service: service}),
		API:            httpapi.NewHandlers(service, telemetry),
		Toolbox:        queries.NewToolboxQuery(service),
		Insights:       queries.NewInsightsQuery(service),
		Broadcast:      hook,
		BasePath:       cfg.BasePath,
		TenantResolver: tenantResolver(cfg.DefaultTenant),
	}); err != nil {
		return fmt.Errorf("studio-server: register routes: %w", err)
	}

	logger.Info("studio routes ready",
		zap.String("addr", cfg.Addr),
		zap.String("editor", cfg.BasePath+"/:page"),
		zap.String("storefront", "/store/:tenant/:page"),
		zap.String("websocket", cfg.BasePath+"/ws"),
	)
	return server.Serve(cfg.Addr)
}

func openStore(path string) (kvstore.Store, func(), error) {
	if path == "" || path == ":memory:" {
		return kvstore.NewMemory(), func() {}, nil
	}
	db, err := kvstore.OpenSQLite(path)
	if err != nil {
		return nil, nil, err
	}
	return db, func() { _ = db.Close() }, nil
}

func pageStore(cfg settings, store kvstore.Store) (studio.PageStore, error) {
	if cfg.BackendURL == "" {
		return studio.NewKVPageStore(store), nil
	}
	return backend.NewClient(backend.Config{BaseURL: cfg.BackendURL, Token: cfg.BackendToken})
}

// tenantResolver reads the tenant from locals, the route, or the tenant query parameter and
// falls back to fallback.
func tenantResolver(fallback string) gorouter.TenantResolver {
	return func(ctx router.Context) string {
		if tenant, ok := ctx.Locals("tenant_id").(string); ok && tenant != "" {
			return tenant
		}
		if tenant := strings.TrimSpace(ctx.Param("tenant")); tenant != "" {
			return tenant
		}
		if tenant := strings.TrimSpace(ctx.Query("tenant")); tenant != "" {
			return tenant
		}
		return fallback
	}
}
