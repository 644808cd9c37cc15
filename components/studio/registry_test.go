package studio

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryHasEveryComponentType(t *testing.T) {
	reg := NewRegistry()
	defs := reg.Definitions()
	require.Len(t, defs, len(ComponentTypes()))
	for i, def := range defs {
		assert.Equal(t, ComponentTypes()[i], def.Type)
		assert.NotEmpty(t, def.Schema, "schema for %s", def.Type)
		assert.Equal(t, IsContainer(def.Type), def.Container)
	}
}

func TestRegistryRejectsUnknownType(t *testing.T) {
	reg := NewRegistry()
	err := reg.RegisterDefinition(ComponentDefinition{Type: "carousel", Name: "Carousel"})
	assert.True(t, errors.Is(err, ErrUnknownComponentType))
	_, ok := reg.Definition("carousel")
	assert.False(t, ok)
}

func TestRegisterComponentHookRunsOnNewRegistries(t *testing.T) {
	RegisterComponentHook(func(reg *Registry) error {
		def, _ := reg.Definition(TypeWhatsApp)
		def.Icon = "hooked"
		return reg.RegisterDefinition(def)
	})
	t.Cleanup(func() {
		globalHookMu.Lock()
		globalHooks = globalHooks[:len(globalHooks)-1]
		globalHookMu.Unlock()
	})

	def, ok := NewRegistry().Definition(TypeWhatsApp)
	require.True(t, ok)
	assert.Equal(t, "hooked", def.Icon)
}

func TestPropsSchemaRejectsUnknownKeys(t *testing.T) {
	schema := PropsSchema(TypeButton)
	assert.Equal(t, false, schema["additionalProperties"])
	properties := schema["properties"].(map[string]any)
	assert.Contains(t, properties, "text")
	assert.Contains(t, properties, "borderRadius")
	assert.Nil(t, PropsSchema("carousel"))
}

func TestJSONSchemaValidator(t *testing.T) {
	reg := NewRegistry()
	validator := NewJSONSchemaValidator()
	hero, _ := reg.Definition(TypeHeroBanner)

	require.NoError(t, validator.Validate(hero, map[string]any{"title": "Rebajas", "overlayOpacity": 40}))
	require.NoError(t, validator.Validate(hero, nil))
	assert.Error(t, validator.Validate(hero, map[string]any{"title": 7}))
	assert.Error(t, validator.Validate(hero, map[string]any{"unknown": "x"}))

	cards, _ := reg.Definition(TypeCards)
	require.NoError(t, validator.Validate(cards, map[string]any{
		"cards": []map[string]any{{"id": "c1", "title": "Envíos", "description": "24h"}},
	}))
	assert.Error(t, validator.Validate(cards, map[string]any{"cards": "nope"}))
}

func TestJSONSchemaValidatorForgetRecompiles(t *testing.T) {
	validator := NewJSONSchemaValidator()
	def := ComponentDefinition{Type: TypeText, Schema: map[string]any{
		"type":       "object",
		"properties": map[string]any{"content": map[string]any{"type": "string"}},
	}}
	assert.Error(t, validator.Validate(def, map[string]any{"content": 3}))

	def.Schema = map[string]any{"type": "object"}
	assert.Error(t, validator.Validate(def, map[string]any{"content": 3}), "schema is cached")
	validator.Forget(TypeText)
	assert.NoError(t, validator.Validate(def, map[string]any{"content": 3}))
}

func TestDecodeManifest(t *testing.T) {
	const payload = `
version: 1
name: bayup-es-co
components:
  - definition:
      type: hero-banner
      name: Portada
      name_localized:
        es-CO: Portada de tienda
        en: Storefront hero
      category: marketing
      icon: Sparkles
    maintainers: ["studio@bayup.co"]
    tags: ["hero", "landing"]
`
	doc, err := DecodeManifest(strings.NewReader(payload))
	require.NoError(t, err)
	require.Len(t, doc.Components, 1)
	assert.Equal(t, "1", doc.Version)
	assert.Equal(t, TypeHeroBanner, doc.Components[0].Definition.Type)

	reg := NewRegistry()
	require.NoError(t, reg.LoadManifestDocument(doc))
	def, ok := reg.Definition(TypeHeroBanner)
	require.True(t, ok)
	assert.Equal(t, "marketing", def.Category)
	assert.Equal(t, "Portada de tienda", def.NameForLocale("es-co"))
	assert.Equal(t, "Storefront hero", def.NameForLocale("en-GB"))
	assert.Equal(t, "Portada", def.NameForLocale("fr"))
	assert.NotEmpty(t, def.Schema)

	meta, ok := reg.ManifestMetadata(TypeHeroBanner)
	require.True(t, ok)
	assert.Equal(t, []string{"hero", "landing"}, meta.Tags)
}

func TestDecodeManifestRejections(t *testing.T) {
	cases := map[string]string{
		"unknown type":  "components:\n  - definition:\n      type: carousel\n      name: Carousel\n",
		"duplicate":     "components:\n  - definition:\n      type: text\n      name: A\n  - definition:\n      type: text\n      name: B\n",
		"missing name":  "components:\n  - definition:\n      type: text\n",
		"unknown field": "components:\n  - definition:\n      type: text\n      name: A\n      colour: red\n",
		"bad version":   "version: 2\ncomponents: []\n",
		"empty":         "",
	}
	for name, payload := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := DecodeManifest(strings.NewReader(payload))
			assert.Error(t, err)
		})
	}
}

func TestLoadManifestFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "components.yaml")
	require.NoError(t, os.WriteFile(path, []byte("version: 1\ncomponents:\n  - definition:\n      type: countdown\n      name: Oferta relámpago\n"), 0o600))

	reg := NewRegistry()
	doc, err := reg.LoadManifestFile(path)
	require.NoError(t, err)
	assert.Equal(t, path, doc.Source)
	def, _ := reg.Definition(TypeCountdown)
	assert.Equal(t, "Oferta relámpago", def.Name)

	_, err = reg.LoadManifestFile(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

func TestResolveLocalizedValue(t *testing.T) {
	values := map[string]string{"es": "Hola", "en": "Hello", "default": "Hi"}
	assert.Equal(t, "Hola", ResolveLocalizedValue(values, "", "x"))
	assert.Equal(t, "Hello", ResolveLocalizedValue(values, "EN_us", "x"))
	assert.Equal(t, "Hi", ResolveLocalizedValue(values, "pt", "x"))
	assert.Equal(t, "x", ResolveLocalizedValue(nil, "es", "x"))
}
