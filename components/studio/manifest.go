package studio

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	manifestVersionV1 = "1"
	// ManifestVersion exposes the current manifest format version for tooling.
	ManifestVersion = manifestVersionV1
)

// ComponentManifestDocument models a YAML/JSON manifest overriding toolbox metadata.
type ComponentManifestDocument struct {
	Version    string              `json:"version" yaml:"version"`
	Name       string              `json:"name,omitempty" yaml:"name,omitempty"`
	Components []ManifestComponent `json:"components" yaml:"components"`
	Source     string              `json:"-" yaml:"-"`
}

// ManifestComponent describes a single component entry within a manifest.
type ManifestComponent struct {
	Definition  ComponentDefinition `json:"definition" yaml:"definition"`
	Maintainers []string            `json:"maintainers,omitempty" yaml:"maintainers,omitempty"`
	Tags        []string            `json:"tags,omitempty" yaml:"tags,omitempty"`
}

// LoadManifestFile reads a manifest from disk, registers it and returns the document.
func (r *Registry) LoadManifestFile(path string) (*ComponentManifestDocument, error) {
	doc, err := ReadManifest(path)
	if err != nil {
		return nil, err
	}
	if err := r.LoadManifestDocument(doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// LoadManifestDocument registers definitions from a decoded manifest.
func (r *Registry) LoadManifestDocument(doc *ComponentManifestDocument) error {
	if doc == nil {
		return fmt.Errorf("studio: manifest document is nil")
	}
	for _, item := range doc.Components {
		if err := r.RegisterDefinition(item.Definition); err != nil {
			return fmt.Errorf("studio: register component %s from %s: %w", item.Definition.Type, doc.Source, err)
		}
		r.recordManifest(item)
	}
	return nil
}

// ReadManifest loads a manifest file from disk without registering it.
func ReadManifest(path string) (*ComponentManifestDocument, error) {
	f, err := os.Open(path) //nolint:gosec
	if err != nil {
		return nil, fmt.Errorf("studio: open manifest %s: %w", path, err)
	}
	defer f.Close()
	doc, err := DecodeManifest(f)
	if err != nil {
		return nil, fmt.Errorf("studio: decode manifest %s: %w", path, err)
	}
	doc.Source = path
	return doc, nil
}

// DecodeManifest reads a manifest from any reader.
func DecodeManifest(r io.Reader) (*ComponentManifestDocument, error) {
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	var doc ComponentManifestDocument
	if err := decoder.Decode(&doc); err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("studio: manifest is empty")
		}
		return nil, fmt.Errorf("studio: parse manifest: %w", err)
	}
	doc.applyDefaults()
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Validate ensures the manifest satisfies required fields.
func (doc *ComponentManifestDocument) Validate() error {
	if doc.Version != manifestVersionV1 {
		return fmt.Errorf("studio: unsupported manifest version %q", doc.Version)
	}
	seen := make(map[ComponentType]struct{}, len(doc.Components))
	for idx, item := range doc.Components {
		if item.Definition.Type == "" {
			return fmt.Errorf("studio: manifest component at index %d is missing definition.type", idx)
		}
		if !KnownType(item.Definition.Type) {
			return fmt.Errorf("%w: manifest component %s", ErrUnknownComponentType, item.Definition.Type)
		}
		if item.Definition.Name == "" {
			return fmt.Errorf("studio: manifest component %s missing definition.name", item.Definition.Type)
		}
		if _, exists := seen[item.Definition.Type]; exists {
			return fmt.Errorf("studio: manifest duplicates component type %s", item.Definition.Type)
		}
		seen[item.Definition.Type] = struct{}{}
	}
	return nil
}

func (doc *ComponentManifestDocument) applyDefaults() {
	if doc.Version == "" {
		doc.Version = manifestVersionV1
	}
}
