package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

const (
	defaultAddr     = ":9876"
	defaultBasePath = "/studio"
	defaultDB       = "studio.db"
	defaultTemplate = "t1"
)

// serverCLI holds command line flags. Empty values fall back to the config file, then to
// built-in defaults.
type serverCLI struct {
	Config        string   `type:"path" env:"STUDIO_CONFIG" help:"YAML config file."`
	Addr          string   `env:"STUDIO_ADDR" help:"Listen address (default :9876)."`
	BasePath      string   `env:"STUDIO_BASE_PATH" help:"Mount path for the editor routes (default /studio)."`
	DB            string   `env:"STUDIO_DB" help:"SQLite file for pages and drafts, or :memory: (default studio.db)."`
	Manifest      string   `type:"path" env:"STUDIO_MANIFEST" help:"Component manifest YAML overriding toolbox metadata."`
	BackendURL    string   `name:"backend-url" env:"STUDIO_BACKEND_URL" help:"Store backend base URL. When set, published pages go through the backend."`
	BackendToken  string   `name:"backend-token" env:"STUDIO_BACKEND_TOKEN" help:"Bearer token for the store backend."`
	DefaultTenant string   `name:"default-tenant" env:"STUDIO_DEFAULT_TENANT" help:"Tenant used when a request names none."`
	Seed          []string `help:"Apply a template on start, as tenant=template (repeatable)."`
	Verbose       bool     `short:"v" env:"STUDIO_VERBOSE" help:"Enable debug logging."`
}

// fileConfig mirrors the YAML config file.
type fileConfig struct {
	Addr          string `yaml:"addr"`
	BasePath      string `yaml:"base_path"`
	DB            string `yaml:"db"`
	Manifest      string `yaml:"manifest"`
	DefaultTenant string `yaml:"default_tenant"`
	Verbose       bool   `yaml:"verbose"`
	Backend       struct {
		URL   string `yaml:"url"`
		Token string `yaml:"token"`
	} `yaml:"backend"`
	Seed []seedEntry `yaml:"seed"`
}

type seedEntry struct {
	Tenant   string `yaml:"tenant"`
	Template string `yaml:"template"`
}

// settings is the resolved server configuration.
type settings struct {
	Addr          string
	BasePath      string
	DB            string
	Manifest      string
	BackendURL    string
	BackendToken  string
	DefaultTenant string
	Seed          []seedEntry
	Verbose       bool
}

func decodeFileConfig(r io.Reader) (fileConfig, error) {
	var cfg fileConfig
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		if errors.Is(err, io.EOF) {
			return fileConfig{}, nil
		}
		return fileConfig{}, fmt.Errorf("studio-server: decode config: %w", err)
	}
	return cfg, nil
}

func loadFileConfig(path string) (fileConfig, error) {
	if path == "" {
		return fileConfig{}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fileConfig{}, fmt.Errorf("studio-server: read config: %w", err)
	}
	return decodeFileConfig(bytes.NewReader(data))
}

func resolveSettings(flags serverCLI, file fileConfig) (settings, error) {
	out := settings{
		Addr:          firstNonEmpty(flags.Addr, file.Addr, defaultAddr),
		BasePath:      "/" + strings.Trim(firstNonEmpty(flags.BasePath, file.BasePath, defaultBasePath), "/"),
		DB:            firstNonEmpty(flags.DB, file.DB, defaultDB),
		Manifest:      firstNonEmpty(flags.Manifest, file.Manifest),
		BackendURL:    firstNonEmpty(flags.BackendURL, file.Backend.URL),
		BackendToken:  firstNonEmpty(flags.BackendToken, file.Backend.Token),
		DefaultTenant: firstNonEmpty(flags.DefaultTenant, file.DefaultTenant),
		Verbose:       flags.Verbose || file.Verbose,
		Seed:          append([]seedEntry(nil), file.Seed...),
	}
	for _, raw := range flags.Seed {
		tenant, template, _ := strings.Cut(raw, "=")
		if strings.TrimSpace(tenant) == "" {
			return settings{}, fmt.Errorf("studio-server: invalid seed %q, expected tenant=template", raw)
		}
		out.Seed = append(out.Seed, seedEntry{Tenant: strings.TrimSpace(tenant), Template: strings.TrimSpace(template)})
	}
	for i := range out.Seed {
		if out.Seed[i].Template == "" {
			out.Seed[i].Template = defaultTemplate
		}
	}
	return out, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

func buildLogger(verbose bool) (*zap.Logger, error) {
	config := zap.NewProductionConfig()
	if verbose {
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	logger, err := config.Build()
	if err != nil {
		return nil, fmt.Errorf("studio-server: init logger: %w", err)
	}
	return logger, nil
}
