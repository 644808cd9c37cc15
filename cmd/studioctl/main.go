package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/ettle/strcase"
	"gopkg.in/yaml.v3"

	"github.com/bayup/go-studio/components/studio"
)

type cli struct {
	Generate   generateCmd   `cmd:"" help:"Generate the six-page site of a template as JSON."`
	Render     renderCmd     `cmd:"" help:"Render a page schema to an HTML document."`
	Templates  templatesCmd  `cmd:"" help:"List the available templates."`
	Components componentsCmd `cmd:"" help:"List the component toolbox."`
	Manifest   manifestCmd   `cmd:"" help:"Add or replace a component entry in a manifest file."`
	Shell      shellCmd      `cmd:"" help:"Start an interactive editor session."`
}

type generateCmd struct {
	Template string   `default:"t1" help:"Template id (t1..t6). Unknown ids fall back to t1."`
	Page     []string `help:"Only emit these pages (use multiple --page flags)."`
	Out      string   `type:"path" help:"Directory to write <page>.json files into. Defaults to stdout."`
}

type renderCmd struct {
	Template string `default:"t1" help:"Template id used for the theme and, without --in, the page content."`
	Page     string `default:"home" help:"Page to render."`
	In       string `type:"path" help:"Read the page schema from this JSON file instead of generating it."`
	Editor   bool   `help:"Render the editor canvas instead of the storefront."`
	Viewport string `default:"desktop" enum:"desktop,tablet,mobile" help:"Editor viewport."`
	Out      string `type:"path" help:"Write the document to this file. Defaults to stdout."`
}

type templatesCmd struct {
	JSON bool `help:"Print JSON instead of a table."`
}

type componentsCmd struct {
	Locale string `default:"es" help:"Locale for component names."`
	JSON   bool   `help:"Print JSON instead of a table."`
}

type manifestCmd struct {
	Type         string   `required:"" help:"Component type (e.g. hero-banner)."`
	Name         string   `required:"" help:"Display name for the component."`
	Description  string   `help:"One-line description."`
	Category     string   `default:"custom" help:"Toolbox category."`
	Icon         string   `help:"Icon name (defaults to the PascalCase type)."`
	ManifestPath string   `required:"" type:"path" help:"Path to the component manifest YAML file to update."`
	Tag          []string `help:"Tags to include in the manifest (use multiple --tag flags)."`
	Maintainer   []string `help:"Maintainers to record in the manifest."`
	Overwrite    bool     `help:"Replace an existing entry for the type."`
}

func main() {
	ctx := kong.Parse(&cli{},
		kong.Name("studioctl"),
		kong.Description("Storefront studio utility: templates, rendering and manifests."),
		kong.UsageOnError(),
	)
	err := ctx.Run(context.Background())
	ctx.FatalIfErrorf(err)
}

func (cmd *generateCmd) Run(_ context.Context) error {
	site := studio.Generate(cmd.Template)
	pages, err := selectPages(cmd.Page)
	if err != nil {
		return err
	}
	if cmd.Out == "" {
		subset := studio.SiteSchema{}
		for _, page := range pages {
			subset[page] = site[page]
		}
		return writeJSON(os.Stdout, subset)
	}
	if err := os.MkdirAll(cmd.Out, 0o755); err != nil {
		return fmt.Errorf("studioctl: mkdir %s: %w", cmd.Out, err)
	}
	for _, page := range pages {
		path := filepath.Join(cmd.Out, string(page)+".json")
		if err := writeJSONFile(path, site[page]); err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "✓ Wrote %s\n", path)
	}
	return nil
}

func (cmd *renderCmd) Run(_ context.Context) error {
	page := studio.PageName(cmd.Page)
	schema, err := cmd.loadSchema(page)
	if err != nil {
		return err
	}
	templates, err := studio.NewTemplateRenderer()
	if err != nil {
		return fmt.Errorf("studioctl: load templates: %w", err)
	}
	opts := studio.RenderOptions{Mode: studio.ModeStorefront}
	if cmd.Editor {
		opts = studio.RenderOptions{Mode: studio.ModeEditor, Viewport: studio.Viewport(cmd.Viewport)}
	}
	theme := studio.ThemeFor(cmd.Template)
	data := studio.PageShellData{Title: theme.Name, Page: page, Theme: theme}

	var out io.Writer = os.Stdout
	if cmd.Out != "" {
		file, err := os.Create(cmd.Out) //nolint:gosec
		if err != nil {
			return fmt.Errorf("studioctl: create %s: %w", cmd.Out, err)
		}
		defer file.Close()
		out = file
	}
	return studio.NewPageShell(templates, nil).Render(out, schema, data, opts)
}

func (cmd *renderCmd) loadSchema(page studio.PageName) (studio.PageSchema, error) {
	if cmd.In == "" {
		if !validPage(page) {
			return studio.PageSchema{}, fmt.Errorf("studioctl: unknown page %q", page)
		}
		return studio.Generate(cmd.Template)[page], nil
	}
	data, err := os.ReadFile(cmd.In)
	if err != nil {
		return studio.PageSchema{}, fmt.Errorf("studioctl: read schema file: %w", err)
	}
	var schema studio.PageSchema
	if err := json.Unmarshal(data, &schema); err != nil {
		return studio.PageSchema{}, fmt.Errorf("studioctl: parse schema JSON: %w", err)
	}
	return schema, nil
}

func (cmd *templatesCmd) Run(_ context.Context) error {
	templates := studio.Templates()
	if cmd.JSON {
		return writeJSON(os.Stdout, templates)
	}
	for _, t := range templates {
		mode := "light"
		if t.Dark {
			mode = "dark"
		}
		fmt.Fprintf(os.Stdout, "%-3s %-22s %-12s %-5s %s\n", t.ID, t.Name, t.Category, mode, t.Accent)
	}
	return nil
}

func (cmd *componentsCmd) Run(_ context.Context) error {
	service := studio.NewService(studio.Options{})
	components := service.Components(cmd.Locale)
	if cmd.JSON {
		return writeJSON(os.Stdout, components)
	}
	for _, c := range components {
		kind := "leaf"
		if c.Container {
			kind = "container"
		}
		fmt.Fprintf(os.Stdout, "%-22s %-28s %-10s %s\n", c.Type, c.Name, c.Category, kind)
	}
	return nil
}

func (cmd *manifestCmd) Run(_ context.Context) error {
	componentType := studio.ComponentType(cmd.Type)
	if !studio.KnownType(componentType) {
		return fmt.Errorf("studioctl: unknown component type %q", cmd.Type)
	}
	manifestPath, err := filepath.Abs(cmd.ManifestPath)
	if err != nil {
		return fmt.Errorf("studioctl: resolve manifest path: %w", err)
	}
	doc, err := loadOrInitManifest(manifestPath)
	if err != nil {
		return err
	}
	icon := cmd.Icon
	if icon == "" {
		icon = strcase.ToPascal(cmd.Type)
	}
	entry := studio.ManifestComponent{
		Definition: studio.ComponentDefinition{
			Type:        componentType,
			Name:        cmd.Name,
			Description: cmd.Description,
			Category:    cmd.Category,
			Icon:        icon,
		},
		Maintainers: cmd.Maintainer,
		Tags:        cmd.Tag,
	}
	replaced := false
	for idx := range doc.Components {
		if doc.Components[idx].Definition.Type != componentType {
			continue
		}
		if !cmd.Overwrite {
			return fmt.Errorf("studioctl: manifest already defines %s (use --overwrite to replace)", cmd.Type)
		}
		doc.Components[idx] = entry
		replaced = true
	}
	if !replaced {
		doc.Components = append(doc.Components, entry)
	}
	sort.Slice(doc.Components, func(i, j int) bool {
		return doc.Components[i].Definition.Type < doc.Components[j].Definition.Type
	})
	if err := writeManifest(manifestPath, doc); err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "✓ Added %s to %s\n", cmd.Type, manifestPath)
	return nil
}

func loadOrInitManifest(path string) (*studio.ComponentManifestDocument, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &studio.ComponentManifestDocument{
				Version:    studio.ManifestVersion,
				Components: []studio.ManifestComponent{},
				Source:     path,
			}, nil
		}
		return nil, fmt.Errorf("studioctl: stat manifest: %w", err)
	}
	return studio.ReadManifest(path)
}

func writeManifest(path string, doc *studio.ComponentManifestDocument) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("studioctl: mkdir %s: %w", filepath.Dir(path), err)
	}
	file, err := os.Create(path) //nolint:gosec
	if err != nil {
		return fmt.Errorf("studioctl: create manifest %s: %w", path, err)
	}
	defer file.Close()

	encoder := yaml.NewEncoder(file)
	encoder.SetIndent(2)
	defer encoder.Close()
	if err := encoder.Encode(doc); err != nil {
		return fmt.Errorf("studioctl: write manifest: %w", err)
	}
	return nil
}

func selectPages(names []string) ([]studio.PageName, error) {
	if len(names) == 0 {
		return studio.Pages, nil
	}
	pages := make([]studio.PageName, 0, len(names))
	for _, name := range names {
		page := studio.PageName(strings.ToLower(strings.TrimSpace(name)))
		if !validPage(page) {
			return nil, fmt.Errorf("studioctl: unknown page %q", name)
		}
		pages = append(pages, page)
	}
	return pages, nil
}

func validPage(page studio.PageName) bool {
	for _, known := range studio.Pages {
		if known == page {
			return true
		}
	}
	return false
}

func writeJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

func writeJSONFile(path string, v any) error {
	file, err := os.Create(path) //nolint:gosec
	if err != nil {
		return fmt.Errorf("studioctl: create %s: %w", path, err)
	}
	defer file.Close()
	if err := writeJSON(file, v); err != nil {
		return fmt.Errorf("studioctl: write %s: %w", path, err)
	}
	return nil
}
