package settings

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

// StoreOptions configures a Store. Every collaborator is optional.
type StoreOptions struct {
	Tracker   *DirtyTracker
	Validator ShapeValidator
	Rules     []DerivedRule
	Telemetry Telemetry
	// OnChange observes applied writes. Resets are not reported.
	OnChange func(domain string, updates []Update)
}

// Store is the path-addressed value tree of one domain.
type Store struct {
	mu        sync.RWMutex
	schema    DomainSchema
	values    map[string]Section
	baseline  Domain
	revision  uint64
	tracker   *DirtyTracker
	validator ShapeValidator
	rules     []DerivedRule
	telemetry Telemetry
	onChange  func(string, []Update)
}

// NewStore builds a store seeded with the schema defaults.
func NewStore(schema DomainSchema, opts StoreOptions) (*Store, error) {
	normalized, err := schema.normalized()
	if err != nil {
		return nil, err
	}
	if opts.Tracker == nil {
		opts.Tracker = NewDirtyTracker()
	}
	if opts.Validator == nil {
		opts.Validator = NewJSONSchemaValidator()
	}
	if opts.Rules == nil {
		opts.Rules = DefaultDerivedRules()
	}
	s := &Store{
		schema:    normalized,
		tracker:   opts.Tracker,
		validator: opts.Validator,
		rules:     opts.Rules,
		telemetry: normalizeTelemetry(opts.Telemetry),
		onChange:  opts.OnChange,
	}
	defaults := normalized.Defaults()
	for _, path := range normalized.Paths() {
		spec, _ := normalized.Field(path)
		value, _ := defaults.Value(path.Section, path.Field)
		if err := s.validator.Validate(path, spec, value); err != nil {
			return nil, fmt.Errorf("settings: default for %s: %w", path, err)
		}
	}
	s.values = defaults.Clone().Sections
	s.baseline = defaults
	return s, nil
}

// ID returns the domain identifier.
func (s *Store) ID() string { return s.schema.ID }

// Schema returns the normalized domain schema.
func (s *Store) Schema() DomainSchema { return s.schema }

// Tracker exposes the dirty tracker the store reports to.
func (s *Store) Tracker() *DirtyTracker { return s.tracker }

// Get returns a copy of the current value at path.
func (s *Store) Get(path FieldPath) (any, error) {
	if _, err := s.resolve(path); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneValue(s.values[path.Section][path.Field]), nil
}

// Set replaces one value. Derived rules expand the write into an atomic batch.
func (s *Store) Set(path FieldPath, value any) error {
	return s.SetMany([]Update{{Path: path, Value: value}})
}

// SetMany applies every update or none of them.
func (s *Store) SetMany(updates []Update) error {
	if len(updates) == 0 {
		return nil
	}
	prepared, err := s.prepare(s.expand(updates))
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.applyLocked(prepared)
	s.mu.Unlock()
	s.notify(prepared)
	return nil
}

// ParseAndSet converts text control input for the field kind and writes it.
func (s *Store) ParseAndSet(path FieldPath, raw string) error {
	spec, err := s.resolve(path)
	if err != nil {
		return err
	}
	value, err := ParseText(spec.Kind, raw)
	if err != nil {
		return &TypeMismatchError{Path: path, Expected: spec.Kind, Got: "text", Err: err}
	}
	return s.Set(path, value)
}

// UpdateListItem replaces one leaf nested inside a record or record_list field.
// keys address map entries by name and list items by their id.
func (s *Store) UpdateListItem(path FieldPath, keys []string, value any) error {
	spec, err := s.resolve(path)
	if err != nil {
		return err
	}
	if spec.Kind != KindRecord && spec.Kind != KindRecordList {
		return &TypeMismatchError{Path: path, Expected: spec.Kind, Got: "nested update"}
	}
	if len(keys) == 0 {
		return s.Set(path, value)
	}
	s.mu.Lock()
	current := cloneValue(s.values[path.Section][path.Field])
	updated, err := setNested(current, keys, value)
	if err != nil {
		s.mu.Unlock()
		s.recordUnknown(path)
		return &UnknownPathError{Path: path, Keys: append([]string(nil), keys...)}
	}
	prepared, err := s.prepare([]Update{{Path: path, Value: updated}})
	if err != nil {
		s.mu.Unlock()
		return err
	}
	s.applyLocked(prepared)
	s.mu.Unlock()
	s.notify(prepared)
	return nil
}

// Snapshot returns a deep copy of the current values.
func (s *Store) Snapshot() Domain {
	snapshot, _ := s.Capture()
	return snapshot
}

// Capture returns a snapshot together with the revision it reflects.
func (s *Store) Capture() (Domain, uint64) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked(), s.revision
}

// Revision increases on every applied mutation.
func (s *Store) Revision() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.revision
}

// Baseline returns the last loaded, reset or saved snapshot.
func (s *Store) Baseline() Domain {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.baseline.Clone()
}

// IsDirty reports whether the domain holds unsaved edits.
func (s *Store) IsDirty() bool { return s.tracker.IsDirty(s.schema.ID) }

// Reset replaces every value with baseline and clears the dirty flag.
// Fields missing from baseline fall back to their defaults. An invalid
// baseline leaves the store untouched.
func (s *Store) Reset(baseline Domain) error {
	if baseline.ID != "" && baseline.ID != s.schema.ID {
		return fmt.Errorf("settings: cannot reset %s from a %s baseline", s.schema.ID, baseline.ID)
	}
	sections := s.schema.Defaults().Sections
	for name, section := range baseline.Sections {
		for field, value := range section {
			path := Path(s.schema.ID, name, field)
			normalized, err := s.check(path, value)
			if err != nil {
				return err
			}
			sections[name][field] = normalized
		}
	}
	next := Domain{ID: s.schema.ID, SchemaVersion: s.schema.Version, Sections: sections}
	s.mu.Lock()
	s.values = next.Clone().Sections
	s.baseline = next
	s.revision++
	s.tracker.Clear(s.schema.ID)
	s.mu.Unlock()
	return nil
}

// Discard resets the store to its current baseline.
func (s *Store) Discard() error {
	return s.Reset(s.Baseline())
}

// MarkSaved moves the baseline to a persisted snapshot. The dirty flag is only
// cleared when no mutation happened since the snapshot was captured.
func (s *Store) MarkSaved(revision uint64, snapshot Domain, at time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.baseline = snapshot.Clone()
	if s.revision == revision {
		s.tracker.MarkSaved(s.schema.ID, at)
		return true
	}
	s.tracker.TouchSaved(s.schema.ID, at)
	return false
}

// Validate checks a value against the field at path without writing it.
func (s *Store) Validate(path FieldPath, value any) error {
	_, err := s.check(path, value)
	return err
}

// ValidateDomain checks every value of a domain without writing it.
func (s *Store) ValidateDomain(domain Domain) error {
	if domain.ID != "" && domain.ID != s.schema.ID {
		return fmt.Errorf("settings: domain %s does not match %s", domain.ID, s.schema.ID)
	}
	for name, section := range domain.Sections {
		for field, value := range section {
			if _, err := s.check(Path(s.schema.ID, name, field), value); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *Store) expand(updates []Update) []Update {
	explicit := make(map[FieldPath]struct{}, len(updates))
	for _, update := range updates {
		explicit[update.Path] = struct{}{}
	}
	out := append([]Update{}, updates...)
	for _, update := range updates {
		for _, rule := range s.rules {
			for _, derived := range rule.Derive(update) {
				if _, ok := explicit[derived.Path]; ok {
					continue
				}
				out = append(out, derived)
			}
		}
	}
	return out
}

func (s *Store) prepare(updates []Update) ([]Update, error) {
	out := make([]Update, 0, len(updates))
	for _, update := range updates {
		value, err := s.check(update.Path, update.Value)
		if err != nil {
			return nil, err
		}
		out = append(out, Update{Path: update.Path, Value: value})
	}
	return out, nil
}

func (s *Store) check(path FieldPath, value any) (any, error) {
	spec, err := s.resolve(path)
	if err != nil {
		return nil, err
	}
	normalized, err := normalizeValue(spec.Kind, value)
	if err != nil {
		mismatch := &TypeMismatchError{Path: path, Expected: spec.Kind, Got: describe(value)}
		if !errors.Is(err, errShape) {
			mismatch.Err = err
		}
		return nil, mismatch
	}
	if err := s.validator.Validate(path, spec, normalized); err != nil {
		return nil, &TypeMismatchError{Path: path, Expected: spec.Kind, Got: describe(value), Err: err}
	}
	return normalized, nil
}

func (s *Store) resolve(path FieldPath) (FieldSpec, error) {
	spec, ok := s.schema.Field(path)
	if !ok {
		s.recordUnknown(path)
		return FieldSpec{}, &UnknownPathError{Path: path}
	}
	return spec, nil
}

func (s *Store) recordUnknown(path FieldPath) {
	s.telemetry.Record(context.Background(), "settings.path.unknown", map[string]any{
		"path": path.String(),
	})
}

func (s *Store) applyLocked(updates []Update) {
	for _, update := range updates {
		s.values[update.Path.Section][update.Path.Field] = update.Value
	}
	s.revision++
	s.tracker.MarkDirty(s.schema.ID)
}

func (s *Store) snapshotLocked() Domain {
	return Domain{ID: s.schema.ID, SchemaVersion: s.schema.Version, Sections: s.values}.Clone()
}

func (s *Store) notify(updates []Update) {
	if s.onChange == nil {
		return
	}
	copied := make([]Update, len(updates))
	for idx, update := range updates {
		copied[idx] = Update{Path: update.Path, Value: cloneValue(update.Value)}
	}
	s.onChange(s.schema.ID, copied)
}
