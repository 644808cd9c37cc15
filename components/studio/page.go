package studio

import (
	"fmt"
	"io"
	"sort"
	"strings"
)

const (
	pageTemplate   = "page"
	editorTemplate = "editor"
)

// TemplateRenderer describes the go-template contract used for page shells.
type TemplateRenderer interface {
	Render(name string, data any, out ...io.Writer) (string, error)
}

// PageShellData carries document level values for a page render.
type PageShellData struct {
	Title     string
	Lang      string
	TenantID  string
	Page      PageName
	Theme     Theme
	SocketURL string
	APIBase   string
	// Live marks documents rendered from an editor session; checkout buttons then call the
	// studio API instead of moving the visitor to the next step URL.
	Live bool
}

// PageShell renders full HTML documents: zones go through the PageRenderer, the document
// chrome through go-template.
type PageShell struct {
	templates TemplateRenderer
	renderer  *PageRenderer
}

// NewPageShell wires a template renderer with a page renderer. A nil renderer uses the default.
func NewPageShell(templates TemplateRenderer, renderer *PageRenderer) *PageShell {
	if renderer == nil {
		renderer = NewPageRenderer()
	}
	return &PageShell{templates: templates, renderer: renderer}
}

// Render writes the document for page to w.
func (s *PageShell) Render(w io.Writer, page PageSchema, data PageShellData, opts RenderOptions) error {
	if s.templates == nil {
		return errMissingTemplates
	}
	payload, err := s.payload(page, data, opts)
	if err != nil {
		return err
	}
	name := pageTemplate
	if opts.editor() {
		name = editorTemplate
	}
	if _, err := s.templates.Render(name, payload, w); err != nil {
		return fmt.Errorf("studio: render %s template: %w", name, err)
	}
	return nil
}

func (s *PageShell) payload(page PageSchema, data PageShellData, opts RenderOptions) (map[string]any, error) {
	if data.Theme.ID == "" {
		data.Theme = ThemeFor(DefaultTemplateID)
	}
	if data.Lang == "" {
		data.Lang = DefaultLocale
	}
	if data.Title == "" {
		data.Title = data.Theme.Name
	}
	zones := map[string]any{}
	for _, section := range Sections {
		zone := page.Zone(section)
		markup, err := s.renderer.RenderString(zone.Elements, opts)
		if err != nil {
			return nil, err
		}
		zones[string(section)] = map[string]any{
			"html":  markup,
			"style": inlineStyle(zone.Styles),
			"empty": len(zone.Elements) == 0,
		}
	}
	return map[string]any{
		"title":       data.Title,
		"lang":        data.Lang,
		"tenant":      data.TenantID,
		"page":        string(data.Page),
		"mode":        opts.Mode.String(),
		"viewport":    string(opts.Viewport),
		"selected_id": opts.SelectedID,
		"socket_url":  data.SocketURL,
		"api_base":    data.APIBase,
		"live":        data.Live,
		"theme_id":    data.Theme.ID,
		"theme_css":   data.Theme.CSSVariablesInline(),
		"theme_font":  data.Theme.Font,
		"dark":        data.Theme.Dark,
		"header":      zones[string(SectionHeader)],
		"body":        zones[string(SectionBody)],
		"footer":      zones[string(SectionFooter)],
	}, nil
}

// inlineStyle renders zone styles as a style attribute value.
func inlineStyle(styles Styles) string {
	keys := make([]string, 0, len(styles))
	for key, value := range styles {
		if safeDeclaration(key, value) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	decls := make([]string, 0, len(keys))
	for _, key := range keys {
		decls = append(decls, cssProperty(key)+": "+styles[key])
	}
	return strings.Join(decls, "; ")
}
