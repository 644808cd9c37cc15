package studio

import (
	"sort"
	"strconv"
	"strings"
)

// DefaultTemplateID is used when a template id does not resolve.
const DefaultTemplateID = "t1"

// Theme carries the visual constants a template threads into generated descriptors.
// Values are never mutated after lookup.
type Theme struct {
	ID          string
	Name        string
	Category    string
	Background  string
	Text        string
	Accent      string
	Font        string
	Radius      int
	Dark        bool
	CardStyle   string
	NavAlign    string
	NavVariant  string
	HeroVariant string
}

var themes = map[string]Theme{
	"t1": {
		ID: "t1", Name: "Aura Minimal", Category: "Moda",
		Background: "#ffffff", Text: "#111827", Accent: "#059669", Font: "font-sans", Radius: 0,
		CardStyle: "minimal", NavAlign: "center", NavVariant: "minimal", HeroVariant: "clean",
	},
	"t2": {
		ID: "t2", Name: "Pixel Tech", Category: "Tecnología",
		Background: "#0f172a", Text: "#f8fafc", Accent: "#00f2ff", Font: "font-mono", Radius: 12, Dark: true,
		CardStyle: "glass", NavAlign: "center", NavVariant: "glass", HeroVariant: "glow",
	},
	"t3": {
		ID: "t3", Name: "Vogue Pro", Category: "Editorial",
		Background: "#fff1f2", Text: "#881337", Accent: "#be123c", Font: "font-serif", Radius: 0,
		CardStyle: "editorial", NavAlign: "left", NavVariant: "solid", HeroVariant: "split",
	},
	"t4": {
		ID: "t4", Name: "Mechanic Pro", Category: "Industrial",
		Background: "#1c1917", Text: "#e7e5e4", Accent: "#f59e0b", Font: "font-black", Radius: 4, Dark: true,
		CardStyle: "solid", NavAlign: "left", NavVariant: "solid", HeroVariant: "bold",
	},
	"t5": {
		ID: "t5", Name: "Hyper Speed", Category: "Deportivo",
		Background: "#ffffff", Text: "#000000", Accent: "#ef4444", Font: "font-black", Radius: 32,
		CardStyle: "premium", NavAlign: "center", NavVariant: "floating", HeroVariant: "slant",
	},
	"t6": {
		ID: "t6", Name: "Collector Edition", Category: "Juguetes",
		Background: "#4c1d95", Text: "#ffffff", Accent: "#22d3ee", Font: "font-sans", Radius: 24, Dark: true,
		CardStyle: "pop", NavAlign: "center", NavVariant: "glass", HeroVariant: "pop",
	},
}

// ThemeFor resolves a template id, falling back to the default theme.
func ThemeFor(templateID string) Theme {
	if theme, ok := themes[strings.TrimSpace(templateID)]; ok {
		return theme
	}
	return themes[DefaultTemplateID]
}

// Themes lists every theme ordered by id.
func Themes() []Theme {
	out := make([]Theme, 0, len(themes))
	for _, theme := range themes {
		out = append(out, theme)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Surface is the footer/checkout backdrop color.
func (t Theme) Surface() string {
	if t.Dark {
		return "#000000"
	}
	return "#f3f4f6"
}

// Tokens exposes the theme as design tokens.
func (t Theme) Tokens() map[string]string {
	return map[string]string{
		"bg":      t.Background,
		"text":    t.Text,
		"accent":  t.Accent,
		"surface": t.Surface(),
		"radius":  strconv.Itoa(t.Radius) + "px",
	}
}

// CSSVariables normalizes token keys into CSS variable names.
func (t Theme) CSSVariables() map[string]string {
	tokens := t.Tokens()
	vars := make(map[string]string, len(tokens))
	for key, value := range tokens {
		name := normalizeCSSVariable(key)
		if name == "" {
			continue
		}
		vars[name] = value
	}
	return vars
}

// CSSVariablesInline renders the CSS variable map as a style string with stable ordering.
func (t Theme) CSSVariablesInline() string {
	vars := t.CSSVariables()
	keys := make([]string, 0, len(vars))
	for key := range vars {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	var builder strings.Builder
	for _, key := range keys {
		value := vars[key]
		if value == "" {
			continue
		}
		builder.WriteString(key)
		builder.WriteString(": ")
		builder.WriteString(value)
		builder.WriteString("; ")
	}
	return strings.TrimSpace(builder.String())
}

func normalizeCSSVariable(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}
	if strings.HasPrefix(name, "--") {
		return name
	}
	return "--studio-" + name
}
