package settings

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/spf13/cast"
)

// FieldView is what a panel control needs to render one field.
type FieldView struct {
	Path    FieldPath `json:"path"`
	Name    string    `json:"name"`
	Kind    Kind      `json:"kind"`
	Value   any       `json:"value"`
	Visible bool      `json:"visible"`
	Toggle  bool      `json:"toggle,omitempty"`
}

// Panel binds the controls of one settings tab to its store. Panels never
// perform I/O and never validate beyond the field kind.
type Panel struct {
	store    *Store
	onChange func()
}

// NewPanel creates a panel. onChange runs after every successful write.
func NewPanel(store *Store, onChange func()) *Panel {
	if onChange == nil {
		onChange = func() {}
	}
	return &Panel{store: store, onChange: onChange}
}

// ID returns the panel domain.
func (p *Panel) ID() string { return p.store.ID() }

// Store exposes the bound store.
func (p *Panel) Store() *Store { return p.store }

// Sections lists section names in declaration order.
func (p *Panel) Sections() []string {
	schema := p.store.Schema()
	out := make([]string, 0, len(schema.Sections))
	for _, section := range schema.Sections {
		out = append(out, section.Name)
	}
	return out
}

// Read returns the current value of a field.
func (p *Panel) Read(section, field string) (any, error) {
	return p.store.Get(p.path(section, field))
}

// Write replaces a field value.
func (p *Panel) Write(section, field string, value any) error {
	if err := p.store.Set(p.path(section, field), value); err != nil {
		return err
	}
	p.onChange()
	return nil
}

// WriteMany writes several fields of this panel atomically.
func (p *Panel) WriteMany(values map[string]map[string]any) error {
	var updates []Update
	for section, fields := range values {
		for field, value := range fields {
			updates = append(updates, Update{Path: p.path(section, field), Value: value})
		}
	}
	if err := p.store.SetMany(updates); err != nil {
		return err
	}
	p.onChange()
	return nil
}

// WriteText parses raw control input for the field kind and writes it.
// List inputs are comma separated.
func (p *Panel) WriteText(section, field, raw string) error {
	if err := p.store.ParseAndSet(p.path(section, field), raw); err != nil {
		return err
	}
	p.onChange()
	return nil
}

// UpdateItem edits one leaf of a record or list entity.
func (p *Panel) UpdateItem(section, field string, keys []string, value any) error {
	if err := p.store.UpdateListItem(p.path(section, field), keys, value); err != nil {
		return err
	}
	p.onChange()
	return nil
}

// Visible reports whether the field is shown. Gated fields hide while their
// section toggle is off; their values stay untouched.
func (p *Panel) Visible(section, field string) (bool, error) {
	path := p.path(section, field)
	if _, err := p.store.resolve(path); err != nil {
		return false, err
	}
	spec, _ := p.store.Schema().Section(section)
	if !spec.Gates(field) {
		return true, nil
	}
	enabled, err := p.store.Get(p.path(section, spec.Toggle))
	if err != nil {
		return false, err
	}
	on, _ := enabled.(bool)
	return on, nil
}

// Fields returns the views for every field of a section.
func (p *Panel) Fields(section string) ([]FieldView, error) {
	spec, ok := p.store.Schema().Section(section)
	if !ok {
		return nil, &UnknownPathError{Path: p.path(section, "")}
	}
	snapshot := p.store.Snapshot()
	values := snapshot.Sections[section]
	toggleOn := true
	if spec.Toggle != "" {
		toggleOn, _ = values[spec.Toggle].(bool)
	}
	out := make([]FieldView, 0, len(spec.Fields))
	for _, field := range spec.Fields {
		out = append(out, FieldView{
			Path:    p.path(section, field.Name),
			Name:    field.Name,
			Kind:    field.Kind,
			Value:   values[field.Name],
			Visible: !spec.Gates(field.Name) || toggleOn,
			Toggle:  field.Name == spec.Toggle,
		})
	}
	return out, nil
}

// EnabledItems lists the enabled entities of a record_list field.
func (p *Panel) EnabledItems(section, field string) ([]map[string]any, error) {
	value, err := p.Read(section, field)
	if err != nil {
		return nil, err
	}
	return EnabledItems(value), nil
}

// IsDirty reports whether the panel domain holds unsaved edits.
func (p *Panel) IsDirty() bool { return p.store.IsDirty() }

func (p *Panel) path(section, field string) FieldPath {
	return Path(p.store.ID(), section, field)
}

// ParseText converts control input into a value of kind.
func ParseText(kind Kind, raw string) (any, error) {
	switch kind {
	case KindBool:
		return cast.ToBoolE(strings.TrimSpace(raw))
	case KindNumber:
		v, err := cast.ToFloat64E(strings.TrimSpace(LatinDigits(raw)))
		if err != nil {
			return nil, err
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, errNonFinite
		}
		return v, nil
	case KindString:
		return raw, nil
	case KindStringList:
		return SplitList(raw), nil
	case KindRecord:
		var out map[string]any
		if err := json.Unmarshal([]byte(raw), &out); err != nil {
			return nil, err
		}
		return out, nil
	case KindRecordList:
		var out []map[string]any
		if err := json.Unmarshal([]byte(raw), &out); err != nil {
			return nil, err
		}
		return out, nil
	}
	return nil, fmt.Errorf("unsupported kind %q", kind)
}

// SplitList splits comma separated input, trimming entries and dropping empty ones.
func SplitList(raw string) []string {
	out := []string{}
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// JoinList renders a list for a comma separated text control.
func JoinList(items []string) string {
	return strings.Join(items, ", ")
}
