package studio

import (
	"fmt"
	"reflect"
	"strings"
	"sync"
)

// ComponentDefinition is the toolbox metadata for one component type.
type ComponentDefinition struct {
	Type                 ComponentType     `json:"type" yaml:"type"`
	Name                 string            `json:"name" yaml:"name"`
	NameLocalized        map[string]string `json:"name_localized,omitempty" yaml:"name_localized,omitempty"`
	Description          string            `json:"description,omitempty" yaml:"description,omitempty"`
	DescriptionLocalized map[string]string `json:"description_localized,omitempty" yaml:"description_localized,omitempty"`
	Category             string            `json:"category,omitempty" yaml:"category,omitempty"`
	Icon                 string            `json:"icon,omitempty" yaml:"icon,omitempty"`
	Container            bool              `json:"container" yaml:"container"`
	Schema               map[string]any    `json:"schema,omitempty" yaml:"schema,omitempty"`
}

// ComponentHook lets packages adjust registries during init().
type ComponentHook func(reg *Registry) error

var (
	globalHookMu sync.Mutex
	globalHooks  []ComponentHook
)

// RegisterComponentHook registers a hook executed against new registries.
func RegisterComponentHook(h ComponentHook) {
	globalHookMu.Lock()
	defer globalHookMu.Unlock()
	globalHooks = append(globalHooks, h)
}

// Registry stores component definitions with hook and manifest support.
type Registry struct {
	mu          sync.RWMutex
	definitions map[ComponentType]ComponentDefinition
	manifest    map[ComponentType]ManifestComponent
	listeners   []func(ComponentType)
}

// OnChange registers fn to run after a definition is registered or replaced.
func (r *Registry) OnChange(fn func(ComponentType)) {
	if fn == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listeners = append(r.listeners, fn)
}

// NewRegistry builds a registry holding the default definitions and applies global hooks.
func NewRegistry() *Registry {
	reg := &Registry{
		definitions: map[ComponentType]ComponentDefinition{},
		manifest:    map[ComponentType]ManifestComponent{},
	}
	for _, def := range DefaultComponentDefinitions() {
		_ = reg.RegisterDefinition(def)
	}
	_ = reg.ApplyHooks()
	return reg
}

// ApplyHooks executes registered component hooks.
func (r *Registry) ApplyHooks() error {
	globalHookMu.Lock()
	defer globalHookMu.Unlock()
	for _, hook := range globalHooks {
		if err := hook(r); err != nil {
			return err
		}
	}
	return nil
}

// RegisterDefinition stores definition metadata. Only types the renderer knows are accepted;
// a missing schema is derived from the props record.
func (r *Registry) RegisterDefinition(def ComponentDefinition) error {
	if def.Type == "" {
		return fmt.Errorf("studio: component definition type is required")
	}
	if !KnownType(def.Type) {
		return fmt.Errorf("%w: %s", ErrUnknownComponentType, def.Type)
	}
	def.normalizeLocalizedFields()
	def.Container = IsContainer(def.Type)
	if len(def.Schema) == 0 {
		def.Schema = PropsSchema(def.Type)
	}
	r.mu.Lock()
	r.definitions[def.Type] = def
	listeners := append(([]func(ComponentType))(nil), r.listeners...)
	r.mu.Unlock()
	for _, fn := range listeners {
		fn(def.Type)
	}
	return nil
}

// Definition fetches a definition by type.
func (r *Registry) Definition(t ComponentType) (ComponentDefinition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	def, ok := r.definitions[t]
	return def, ok
}

// ManifestMetadata returns manifest details recorded for a type.
func (r *Registry) ManifestMetadata(t ComponentType) (ManifestComponent, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	meta, ok := r.manifest[t]
	return meta, ok
}

// Definitions returns every definition in toolbox order.
func (r *Registry) Definitions() []ComponentDefinition {
	r.mu.RLock()
	defer r.mu.RUnlock()
	defs := make([]ComponentDefinition, 0, len(r.definitions))
	for _, t := range ComponentTypes() {
		if def, ok := r.definitions[t]; ok {
			defs = append(defs, def)
		}
	}
	return defs
}

func (r *Registry) recordManifest(item ManifestComponent) {
	if len(item.Maintainers) == 0 && len(item.Tags) == 0 {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.manifest[item.Definition.Type] = item
}

// DefaultComponentDefinitions lists the built-in toolbox entries.
func DefaultComponentDefinitions() []ComponentDefinition {
	type entry struct {
		t        ComponentType
		es, en   string
		category string
		icon     string
	}
	entries := []entry{
		{TypeSection, "Sección", "Section", "layout", "LayoutTemplate"},
		{TypeGrid, "Cuadrícula", "Grid", "layout", "Grid3x3"},
		{TypeText, "Texto", "Text", "content", "Type"},
		{TypeButton, "Botón", "Button", "content", "MousePointerClick"},
		{TypeImage, "Imagen", "Image", "content", "Image"},
		{TypeNavbar, "Menú de navegación", "Navigation bar", "navigation", "Menu"},
		{TypeAnnouncementBar, "Barra de anuncios", "Announcement bar", "navigation", "Megaphone"},
		{TypeHeroBanner, "Banner principal", "Hero banner", "content", "Sparkles"},
		{TypeCategoriesGrid, "Categorías", "Categories", "commerce", "LayoutGrid"},
		{TypeProductGrid, "Productos", "Product grid", "commerce", "ShoppingBag"},
		{TypeProductMasterView, "Detalle de producto", "Product detail", "commerce", "Package"},
		{TypeCards, "Tarjetas", "Cards", "content", "Layers"},
		{TypeVideo, "Video", "Video", "content", "Video"},
		{TypeCountdown, "Cuenta regresiva", "Countdown", "marketing", "Timer"},
		{TypeWhatsApp, "Botón de WhatsApp", "WhatsApp button", "marketing", "MessageCircle"},
		{TypeCheckout, "Checkout", "Checkout", "commerce", "CreditCard"},
		{TypeFooter, "Pie de página", "Footer", "navigation", "PanelBottom"},
	}
	defs := make([]ComponentDefinition, 0, len(entries))
	for _, e := range entries {
		defs = append(defs, ComponentDefinition{
			Type:          e.t,
			Name:          e.es,
			NameLocalized: map[string]string{"es": e.es, "en": e.en},
			Category:      e.category,
			Icon:          e.icon,
			Container:     IsContainer(e.t),
		})
	}
	return defs
}

// PropsSchema derives a JSON schema for the props record of t. Unknown keys are rejected.
func PropsSchema(t ComponentType) map[string]any {
	props, ok := DefaultProps(t)
	if !ok {
		return nil
	}
	schema := structSchema(reflect.TypeOf(props))
	schema["additionalProperties"] = false
	return schema
}

func structSchema(typ reflect.Type) map[string]any {
	properties := map[string]any{}
	for i := 0; i < typ.NumField(); i++ {
		field := typ.Field(i)
		if !field.IsExported() {
			continue
		}
		name := strings.Split(field.Tag.Get("json"), ",")[0]
		if name == "" || name == "-" {
			continue
		}
		properties[name] = typeSchema(field.Type)
	}
	return map[string]any{"type": "object", "properties": properties}
}

func typeSchema(typ reflect.Type) map[string]any {
	switch typ.Kind() {
	case reflect.String:
		return map[string]any{"type": "string"}
	case reflect.Bool:
		return map[string]any{"type": "boolean"}
	case reflect.Int, reflect.Int32, reflect.Int64:
		return map[string]any{"type": "integer"}
	case reflect.Float32, reflect.Float64:
		return map[string]any{"type": "number"}
	case reflect.Slice:
		return map[string]any{"type": []any{"array", "null"}, "items": typeSchema(typ.Elem())}
	case reflect.Struct:
		return structSchema(typ)
	}
	return map[string]any{}
}
