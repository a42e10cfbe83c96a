package settings

import (
	"errors"
	"fmt"
)

// Validate checks that the schema is internally consistent: unique names,
// known kinds, defaults matching their kinds and toggles naming bool fields.
func (s DomainSchema) Validate() error {
	if s.ID == "" {
		return errors.New("settings: domain schema id is required")
	}
	if len(s.Sections) == 0 {
		return fmt.Errorf("settings: domain %s declares no sections", s.ID)
	}
	sections := make(map[string]struct{}, len(s.Sections))
	for idx, section := range s.Sections {
		if section.Name == "" {
			return fmt.Errorf("settings: domain %s section at index %d is missing a name", s.ID, idx)
		}
		if _, exists := sections[section.Name]; exists {
			return fmt.Errorf("settings: domain %s duplicates section %s", s.ID, section.Name)
		}
		sections[section.Name] = struct{}{}
		if err := section.validate(s.ID); err != nil {
			return err
		}
	}
	return nil
}

func (s SectionSpec) validate(domain string) error {
	fields := make(map[string]Kind, len(s.Fields))
	for idx, field := range s.Fields {
		path := Path(domain, s.Name, field.Name)
		if field.Name == "" {
			return fmt.Errorf("settings: %s.%s field at index %d is missing a name", domain, s.Name, idx)
		}
		if _, exists := fields[field.Name]; exists {
			return fmt.Errorf("settings: %s duplicates field", path)
		}
		if !field.Kind.Valid() {
			return fmt.Errorf("settings: %s declares unsupported kind %q", path, field.Kind)
		}
		if _, err := normalizeValue(field.Kind, field.Default); err != nil {
			return fmt.Errorf("settings: %s default is not a %s: %w", path, field.Kind, err)
		}
		fields[field.Name] = field.Kind
	}
	if s.Toggle != "" {
		kind, ok := fields[s.Toggle]
		if !ok {
			return fmt.Errorf("settings: %s.%s toggle %s is not a field", domain, s.Name, s.Toggle)
		}
		if kind != KindBool {
			return fmt.Errorf("settings: %s.%s toggle %s must be a bool field", domain, s.Name, s.Toggle)
		}
	}
	for _, gated := range s.Gated {
		if s.Toggle == "" {
			return fmt.Errorf("settings: %s.%s gates fields without a toggle", domain, s.Name)
		}
		if _, ok := fields[gated]; !ok {
			return fmt.Errorf("settings: %s.%s gates unknown field %s", domain, s.Name, gated)
		}
	}
	return nil
}

// normalized returns a deep copy of the schema with canonical default values.
func (s DomainSchema) normalized() (DomainSchema, error) {
	if err := s.Validate(); err != nil {
		return DomainSchema{}, err
	}
	out := DomainSchema{ID: s.ID, Version: s.Version, Sections: make([]SectionSpec, len(s.Sections))}
	if out.Version == 0 {
		out.Version = 1
	}
	for i, section := range s.Sections {
		copied := SectionSpec{
			Name:   section.Name,
			Toggle: section.Toggle,
			Gated:  append([]string(nil), section.Gated...),
			Fields: make([]FieldSpec, len(section.Fields)),
		}
		for j, field := range section.Fields {
			value, err := normalizeValue(field.Kind, field.Default)
			if err != nil {
				return DomainSchema{}, fmt.Errorf("settings: %s default: %w", Path(s.ID, section.Name, field.Name), err)
			}
			copied.Fields[j] = FieldSpec{
				Name:    field.Name,
				Kind:    field.Kind,
				Default: value,
				Schema:  field.Schema,
			}
		}
		out.Sections[i] = copied
	}
	return out, nil
}

// Defaults builds the domain holding every declared default value.
func (s DomainSchema) Defaults() Domain {
	domain := Domain{ID: s.ID, SchemaVersion: s.Version, Sections: make(map[string]Section, len(s.Sections))}
	for _, section := range s.Sections {
		values := make(Section, len(section.Fields))
		for _, field := range section.Fields {
			value, err := normalizeValue(field.Kind, field.Default)
			if err != nil {
				value = field.Default
			}
			values[field.Name] = cloneValue(value)
		}
		domain.Sections[section.Name] = values
	}
	return domain
}

// Paths lists every field path in declaration order.
func (s DomainSchema) Paths() []FieldPath {
	var out []FieldPath
	for _, section := range s.Sections {
		for _, field := range section.Fields {
			out = append(out, Path(s.ID, section.Name, field.Name))
		}
	}
	return out
}
