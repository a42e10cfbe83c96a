package settings

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Kind enumerates the value shapes a settings field may hold.
type Kind string

const (
	KindBool       Kind = "bool"
	KindNumber     Kind = "number"
	KindString     Kind = "string"
	KindStringList Kind = "string_list"
	KindRecord     Kind = "record"
	KindRecordList Kind = "record_list"
)

// Valid reports whether the kind is one of the supported shapes.
func (k Kind) Valid() bool {
	switch k {
	case KindBool, KindNumber, KindString, KindStringList, KindRecord, KindRecordList:
		return true
	}
	return false
}

// Domain identifiers for the admin settings tabs.
const (
	DomainGeneral       = "general"
	DomainEcommerce     = "ecommerce"
	DomainUsers         = "users"
	DomainNotifications = "notifications"
	DomainPayments      = "payments"
	DomainShipping      = "shipping"
	DomainSEO           = "seo"
	DomainSystem        = "system"
	DomainLocalization  = "localization"
)

// DomainOrder lists the domains in tab order.
var DomainOrder = []string{
	DomainGeneral,
	DomainEcommerce,
	DomainUsers,
	DomainNotifications,
	DomainPayments,
	DomainShipping,
	DomainSEO,
	DomainSystem,
	DomainLocalization,
}

// FieldPath addresses one configuration value.
type FieldPath struct {
	Domain  string `json:"domain" yaml:"domain"`
	Section string `json:"section" yaml:"section"`
	Field   string `json:"field" yaml:"field"`
}

// Path builds a FieldPath.
func Path(domain, section, field string) FieldPath {
	return FieldPath{Domain: domain, Section: section, Field: field}
}

// ParsePath parses the dotted form "domain.section.field".
func ParsePath(raw string) (FieldPath, error) {
	parts := strings.Split(strings.TrimSpace(raw), ".")
	if len(parts) != 3 {
		return FieldPath{}, fmt.Errorf("%w %q: want domain.section.field", ErrInvalidPath, raw)
	}
	for _, part := range parts {
		if part == "" {
			return FieldPath{}, fmt.Errorf("%w %q: empty segment", ErrInvalidPath, raw)
		}
	}
	return Path(parts[0], parts[1], parts[2]), nil
}

func (p FieldPath) String() string {
	return p.Domain + "." + p.Section + "." + p.Field
}

// MarshalText encodes the dotted form so paths can be used as JSON keys.
func (p FieldPath) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText accepts the dotted form.
func (p *FieldPath) UnmarshalText(data []byte) error {
	parsed, err := ParsePath(string(data))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// Update pairs a path with the value to write.
type Update struct {
	Path  FieldPath `json:"path" yaml:"path"`
	Value any       `json:"value" yaml:"value"`
}

// FieldSpec declares a single field and its default value.
type FieldSpec struct {
	Name    string         `json:"name" yaml:"name"`
	Kind    Kind           `json:"kind" yaml:"kind"`
	Default any            `json:"default" yaml:"default"`
	Schema  map[string]any `json:"schema,omitempty" yaml:"schema,omitempty"`
}

// SectionSpec groups fields. Toggle names a bool field that gates the
// visibility of Gated (or every other field when Gated is empty).
type SectionSpec struct {
	Name   string      `json:"name" yaml:"name"`
	Toggle string      `json:"toggle,omitempty" yaml:"toggle,omitempty"`
	Gated  []string    `json:"gated,omitempty" yaml:"gated,omitempty"`
	Fields []FieldSpec `json:"fields" yaml:"fields"`
}

// DomainSchema describes every section and field of one domain.
type DomainSchema struct {
	ID       string        `json:"id" yaml:"id"`
	Version  int           `json:"version" yaml:"version"`
	Sections []SectionSpec `json:"sections" yaml:"sections"`
}

// Section returns the named section spec.
func (s DomainSchema) Section(name string) (SectionSpec, bool) {
	for _, section := range s.Sections {
		if section.Name == name {
			return section, true
		}
	}
	return SectionSpec{}, false
}

// Field resolves the spec of a field addressed by path.
func (s DomainSchema) Field(path FieldPath) (FieldSpec, bool) {
	if path.Domain != s.ID {
		return FieldSpec{}, false
	}
	section, ok := s.Section(path.Section)
	if !ok {
		return FieldSpec{}, false
	}
	return section.Field(path.Field)
}

// Field returns the named field spec.
func (s SectionSpec) Field(name string) (FieldSpec, bool) {
	for _, field := range s.Fields {
		if field.Name == name {
			return field, true
		}
	}
	return FieldSpec{}, false
}

// Gates reports whether the section toggle controls the named field.
func (s SectionSpec) Gates(field string) bool {
	if s.Toggle == "" || field == s.Toggle {
		return false
	}
	if len(s.Gated) == 0 {
		return true
	}
	for _, name := range s.Gated {
		if name == field {
			return true
		}
	}
	return false
}

// Section maps field names to values.
type Section map[string]any

// Domain is one settings tab's full value tree.
type Domain struct {
	ID            string             `json:"id" yaml:"id"`
	SchemaVersion int                `json:"schema_version" yaml:"schema_version"`
	Sections      map[string]Section `json:"sections" yaml:"sections"`
}

// Value returns the stored value for section/field.
func (d Domain) Value(section, field string) (any, bool) {
	values, ok := d.Sections[section]
	if !ok {
		return nil, false
	}
	value, ok := values[field]
	return value, ok
}

// Clone returns a deep copy of the domain.
func (d Domain) Clone() Domain {
	out := Domain{ID: d.ID, SchemaVersion: d.SchemaVersion, Sections: make(map[string]Section, len(d.Sections))}
	for name, section := range d.Sections {
		cloned := make(Section, len(section))
		for field, value := range section {
			cloned[field] = cloneValue(value)
		}
		out.Sections[name] = cloned
	}
	return out
}

// Equal compares two domains by their JSON representation.
func (d Domain) Equal(other Domain) bool {
	left, err := json.Marshal(d)
	if err != nil {
		return false
	}
	right, err := json.Marshal(other)
	if err != nil {
		return false
	}
	return string(left) == string(right)
}
