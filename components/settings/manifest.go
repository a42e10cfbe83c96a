package settings

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

// SchemaManifest is a YAML/JSON document declaring settings domains.
type SchemaManifest struct {
	Version string         `json:"version" yaml:"version"`
	Name    string         `json:"name,omitempty" yaml:"name,omitempty"`
	Domains []DomainSchema `json:"domains" yaml:"domains"`
	Source  string         `json:"-" yaml:"-"`
}

// DefaultManifest wraps the built-in schemas.
func DefaultManifest() *SchemaManifest {
	return &SchemaManifest{
		Version: manifestVersionV1,
		Name:    "ishop",
		Domains: DefaultSchemas(),
	}
}

// ReadManifest loads a manifest file from disk.
func ReadManifest(path string) (*SchemaManifest, error) {
	f, err := os.Open(path) //nolint:gosec
	if err != nil {
		return nil, fmt.Errorf("settings: open manifest %s: %w", path, err)
	}
	defer f.Close()
	doc, err := DecodeManifest(f)
	if err != nil {
		return nil, fmt.Errorf("settings: decode manifest %s: %w", path, err)
	}
	doc.Source = path
	return doc, nil
}

// DecodeManifest reads a manifest from any reader.
func DecodeManifest(r io.Reader) (*SchemaManifest, error) {
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	var doc SchemaManifest
	if err := decoder.Decode(&doc); err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("settings: manifest is empty")
		}
		return nil, fmt.Errorf("settings: parse manifest: %w", err)
	}
	doc.applyDefaults()
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

// EncodeManifest writes doc as YAML.
func EncodeManifest(w io.Writer, doc *SchemaManifest) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(doc); err != nil {
		return fmt.Errorf("settings: encode manifest: %w", err)
	}
	return encoder.Close()
}

// Validate checks the version, domain uniqueness and every domain schema.
func (doc *SchemaManifest) Validate() error {
	if doc.Version != manifestVersionV1 {
		return fmt.Errorf("settings: unsupported manifest version %q", doc.Version)
	}
	if len(doc.Domains) == 0 {
		return fmt.Errorf("settings: manifest declares no domains")
	}
	seen := make(map[string]struct{}, len(doc.Domains))
	for idx, domain := range doc.Domains {
		if domain.ID == "" {
			return fmt.Errorf("settings: manifest domain at index %d is missing an id", idx)
		}
		if _, exists := seen[domain.ID]; exists {
			return fmt.Errorf("settings: manifest duplicates domain %s", domain.ID)
		}
		seen[domain.ID] = struct{}{}
		if err := domain.Validate(); err != nil {
			return err
		}
	}
	return nil
}

func (doc *SchemaManifest) applyDefaults() {
	if doc.Version == "" {
		doc.Version = manifestVersionV1
	}
	for idx := range doc.Domains {
		if doc.Domains[idx].Version == 0 {
			doc.Domains[idx].Version = 1
		}
	}
}
