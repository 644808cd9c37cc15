package studio

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// PatchValidator validates prop patches against a component schema.
type PatchValidator interface {
	Validate(def ComponentDefinition, props map[string]any) error
}

// JSONSchemaValidator validates prop patches, compiling each component type's schema once.
type JSONSchemaValidator struct {
	mu       sync.RWMutex
	compiled map[ComponentType]*jsonschema.Schema
}

// NewJSONSchemaValidator builds a validator backed by jsonschema v5.
func NewJSONSchemaValidator() *JSONSchemaValidator {
	return &JSONSchemaValidator{
		compiled: make(map[ComponentType]*jsonschema.Schema),
	}
}

// Validate ensures the patch satisfies the component schema.
func (v *JSONSchemaValidator) Validate(def ComponentDefinition, props map[string]any) error {
	if len(def.Schema) == 0 {
		return nil
	}
	schema, err := v.schemaFor(def)
	if err != nil {
		return err
	}
	var payload map[string]any
	if props == nil {
		payload = map[string]any{}
	} else {
		data, err := json.Marshal(props)
		if err != nil {
			return fmt.Errorf("studio: marshal props for %s: %w", def.Type, err)
		}
		if err := json.Unmarshal(data, &payload); err != nil {
			return fmt.Errorf("studio: normalize props for %s: %w", def.Type, err)
		}
	}
	if err := schema.Validate(payload); err != nil {
		return fmt.Errorf("studio: props for %s failed validation: %w", def.Type, err)
	}
	return nil
}

func (v *JSONSchemaValidator) schemaFor(def ComponentDefinition) (*jsonschema.Schema, error) {
	v.mu.RLock()
	schema, ok := v.compiled[def.Type]
	v.mu.RUnlock()
	if ok {
		return schema, nil
	}
	data, err := json.Marshal(def.Schema)
	if err != nil {
		return nil, fmt.Errorf("studio: marshal schema %s: %w", def.Type, err)
	}
	compiler := jsonschema.NewCompiler()
	name := string(def.Type) + ".json"
	if err := compiler.AddResource(name, bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("studio: load schema %s: %w", def.Type, err)
	}
	compiled, err := compiler.Compile(name)
	if err != nil {
		return nil, fmt.Errorf("studio: compile schema %s: %w", def.Type, err)
	}
	v.mu.Lock()
	v.compiled[def.Type] = compiled
	v.mu.Unlock()
	return compiled, nil
}

// Forget drops the compiled schema of t. Services subscribe it to Registry.OnChange so a
// replaced definition is recompiled on the next patch.
func (v *JSONSchemaValidator) Forget(t ComponentType) {
	v.mu.Lock()
	defer v.mu.Unlock()
	delete(v.compiled, t)
}
