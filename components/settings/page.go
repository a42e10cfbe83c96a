package settings

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// Confirmer asks the user a blocking yes/no question.
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) (bool, error)
}

// ConfirmFunc adapts a function into a Confirmer.
type ConfirmFunc func(ctx context.Context, prompt string) (bool, error)

// Confirm calls f.
func (f ConfirmFunc) Confirm(ctx context.Context, prompt string) (bool, error) { return f(ctx, prompt) }

// StaticConfirmer always gives the same answer.
func StaticConfirmer(answer bool) Confirmer {
	return ConfirmFunc(func(context.Context, string) (bool, error) { return answer, nil })
}

// Options configures a Page. Every collaborator is provided via interface so
// applications can swap implementations.
type Options struct {
	Schemas     []DomainSchema
	Persister   Persister
	Validator   ShapeValidator
	Rules       []DerivedRule
	Telemetry   Telemetry
	ChangeHook  ChangeHook
	SaveTimeout time.Duration
	Locale      string
	Now         func() time.Time
}

// Page aggregates the stores of every settings domain and owns the single
// save and reset actions.
type Page struct {
	opts    Options
	tracker *DirtyTracker
	order   []string
	stores  map[string]*Store
	panels  map[string]*Panel
	busy    atomic.Bool

	mu          sync.RWMutex
	lastSavedAt *time.Time
}

// SaveFailure is the serializable form of one domain's SaveError.
type SaveFailure struct {
	Domain    string `json:"domain"`
	Error     string `json:"error"`
	Retryable bool   `json:"retryable"`
}

// SaveResult summarizes one SaveAll run.
type SaveResult struct {
	ID         string        `json:"id"`
	Saved      []string      `json:"saved"`
	StillDirty []string      `json:"still_dirty,omitempty"`
	Failed     []SaveFailure `json:"failed,omitempty"`
	SavedAt    time.Time     `json:"saved_at"`
}

// OK reports whether every domain was persisted.
func (r SaveResult) OK() bool { return len(r.Failed) == 0 }

// Status is the aggregate state shown by the save reminder banner.
type Status struct {
	Dirty        bool                  `json:"dirty"`
	Saving       bool                  `json:"saving"`
	DirtyDomains []string              `json:"dirty_domains"`
	Domains      map[string]DirtyState `json:"domains"`
	LastSavedAt  *time.Time            `json:"last_saved_at,omitempty"`
}

// NewPage builds a page with one store per schema.
func NewPage(opts Options) (*Page, error) {
	if len(opts.Schemas) == 0 {
		opts.Schemas = DefaultSchemas()
	}
	if opts.Persister == nil {
		opts.Persister = NewInMemoryPersister()
	}
	if opts.Validator == nil {
		opts.Validator = NewJSONSchemaValidator()
	}
	if opts.Rules == nil {
		opts.Rules = DefaultDerivedRules()
	}
	if opts.ChangeHook == nil {
		opts.ChangeHook = noopChangeHook{}
	}
	if opts.Locale == "" {
		opts.Locale = DefaultLocale
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	opts.Telemetry = normalizeTelemetry(opts.Telemetry)

	p := &Page{
		opts:    opts,
		tracker: NewDirtyTracker(),
		stores:  make(map[string]*Store, len(opts.Schemas)),
		panels:  make(map[string]*Panel, len(opts.Schemas)),
	}
	for _, schema := range opts.Schemas {
		if _, exists := p.stores[schema.ID]; exists {
			return nil, fmt.Errorf("settings: duplicate domain %s", schema.ID)
		}
		store, err := NewStore(schema, StoreOptions{
			Tracker:   p.tracker,
			Validator: opts.Validator,
			Rules:     opts.Rules,
			Telemetry: opts.Telemetry,
			OnChange:  p.storeChanged,
		})
		if err != nil {
			return nil, err
		}
		p.order = append(p.order, schema.ID)
		p.stores[schema.ID] = store
		p.panels[schema.ID] = NewPanel(store, nil)
	}
	return p, nil
}

// Domains lists domain ids in tab order.
func (p *Page) Domains() []string { return append([]string(nil), p.order...) }

// Store returns the store of a domain.
func (p *Page) Store(domain string) (*Store, bool) {
	store, ok := p.stores[domain]
	return store, ok
}

// Panel returns the panel of a domain.
func (p *Page) Panel(domain string) (*Panel, bool) {
	panel, ok := p.panels[domain]
	return panel, ok
}

// Tracker exposes the shared dirty tracker.
func (p *Page) Tracker() *DirtyTracker { return p.tracker }

// Tabs returns the tab bar for locale, in domain order.
func (p *Page) Tabs(locale string) []Tab {
	if locale == "" {
		locale = p.opts.Locale
	}
	tabs := make([]Tab, 0, len(p.order))
	for _, id := range p.order {
		tabs = append(tabs, Tab{
			ID:          id,
			Label:       TabLabel(id, locale),
			Description: TabDescription(id, locale),
			Dirty:       p.tracker.IsDirty(id),
		})
	}
	return tabs
}

// Get reads a value from the owning domain store.
func (p *Page) Get(path FieldPath) (any, error) {
	store, err := p.storeFor(path)
	if err != nil {
		return nil, err
	}
	return store.Get(path)
}

// Set writes a value through the owning domain store.
func (p *Page) Set(path FieldPath, value any) error {
	store, err := p.storeFor(path)
	if err != nil {
		return err
	}
	return store.Set(path, value)
}

// ParseAndSet writes text control input through the owning domain store.
func (p *Page) ParseAndSet(path FieldPath, raw string) error {
	store, err := p.storeFor(path)
	if err != nil {
		return err
	}
	return store.ParseAndSet(path, raw)
}

// SetMany validates every update before applying any, then applies them per domain.
func (p *Page) SetMany(updates []Update) error {
	byDomain := make(map[string][]Update)
	for _, update := range updates {
		store, err := p.storeFor(update.Path)
		if err != nil {
			return err
		}
		if err := store.Validate(update.Path, update.Value); err != nil {
			return err
		}
		byDomain[store.ID()] = append(byDomain[store.ID()], update)
	}
	for _, id := range p.order {
		batch, ok := byDomain[id]
		if !ok {
			continue
		}
		if err := p.stores[id].SetMany(batch); err != nil {
			return err
		}
	}
	return nil
}

// UpdateItem edits one leaf of a record or list entity.
func (p *Page) UpdateItem(path FieldPath, keys []string, value any) error {
	store, err := p.storeFor(path)
	if err != nil {
		return err
	}
	return store.UpdateListItem(path, keys, value)
}

// Snapshot returns a deep copy of one domain.
func (p *Page) Snapshot(domain string) (Domain, error) {
	store, ok := p.stores[domain]
	if !ok {
		return Domain{}, &UnknownPathError{Path: FieldPath{Domain: domain}}
	}
	return store.Snapshot(), nil
}

// Load seeds every store from the persister. Missing documents keep the
// defaults; failures are reported per domain and never abort the others.
func (p *Page) Load(ctx context.Context) error {
	var errs []error
	for _, id := range p.order {
		doc, err := p.opts.Persister.Load(ctx, id)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			errs = append(errs, &LoadError{Domain: id, Err: err})
			continue
		}
		if err := p.stores[id].Reset(doc); err != nil {
			errs = append(errs, &LoadError{Domain: id, Err: err})
			continue
		}
		p.emit(ctx, id, "load", nil)
	}
	p.opts.Telemetry.Record(ctx, "settings.load", map[string]any{
		"domains": len(p.order),
		"errors":  len(errs),
	})
	return errors.Join(errs...)
}

// SaveAll persists a snapshot of every domain. Only one save runs at a time;
// a second call returns ErrSaveInProgress without writing. A domain edited
// while its save was in flight stays dirty. Failed domains keep their dirty
// state and are returned as SaveErrors.
func (p *Page) SaveAll(ctx context.Context) (SaveResult, error) {
	if !p.busy.CompareAndSwap(false, true) {
		p.opts.Telemetry.Record(ctx, "settings.save.rejected", nil)
		return SaveResult{}, ErrSaveInProgress
	}
	defer p.busy.Store(false)

	type captured struct {
		store    *Store
		snapshot Domain
		revision uint64
	}
	pending := make([]captured, 0, len(p.order))
	for _, id := range p.order {
		snapshot, revision := p.stores[id].Capture()
		pending = append(pending, captured{store: p.stores[id], snapshot: snapshot, revision: revision})
	}

	result := SaveResult{ID: uuid.NewString()}
	var errs []error
	for _, item := range pending {
		id := item.store.ID()
		if err := p.persist(ctx, id, item.snapshot); err != nil {
			saveErr := newSaveError(id, err)
			errs = append(errs, saveErr)
			result.Failed = append(result.Failed, SaveFailure{
				Domain:    id,
				Error:     err.Error(),
				Retryable: saveErr.Retryable,
			})
			continue
		}
		at := p.opts.Now()
		if !item.store.MarkSaved(item.revision, item.snapshot, at) {
			result.StillDirty = append(result.StillDirty, id)
		}
		result.Saved = append(result.Saved, id)
		result.SavedAt = at
		p.emit(ctx, id, "save", nil)
	}
	if len(result.Saved) > 0 {
		p.mu.Lock()
		at := result.SavedAt
		p.lastSavedAt = &at
		p.mu.Unlock()
	}
	p.opts.Telemetry.Record(ctx, "settings.save", map[string]any{
		"save_id": result.ID,
		"saved":   len(result.Saved),
		"failed":  len(result.Failed),
	})
	return result, errors.Join(errs...)
}

func (p *Page) persist(ctx context.Context, id string, snapshot Domain) error {
	if p.opts.SaveTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.opts.SaveTimeout)
		defer cancel()
	}
	return p.opts.Persister.Save(ctx, id, snapshot)
}

// ResetAll discards every unsaved edit after the confirmer agrees. With nothing
// dirty it returns without asking. A declined prompt returns
// ErrConfirmationDeclined and changes nothing.
func (p *Page) ResetAll(ctx context.Context, confirmer Confirmer) error {
	return p.reset(ctx, confirmer, p.tracker.DirtyDomains())
}

// ResetDomain discards the unsaved edits of one domain after confirmation.
func (p *Page) ResetDomain(ctx context.Context, domain string, confirmer Confirmer) error {
	if _, ok := p.stores[domain]; !ok {
		return &UnknownPathError{Path: FieldPath{Domain: domain}}
	}
	if !p.tracker.IsDirty(domain) {
		return nil
	}
	return p.reset(ctx, confirmer, []string{domain})
}

func (p *Page) reset(ctx context.Context, confirmer Confirmer, domains []string) error {
	if p.busy.Load() {
		return ErrSaveInProgress
	}
	if len(domains) == 0 {
		return nil
	}
	if confirmer == nil {
		return errMissingConfirmer
	}
	ok, err := confirmer.Confirm(ctx, Message(MessageResetPrompt, p.opts.Locale))
	if err != nil {
		return fmt.Errorf("settings: confirm reset: %w", err)
	}
	if !ok {
		p.opts.Telemetry.Record(ctx, "settings.reset.declined", map[string]any{"domains": domains})
		return ErrConfirmationDeclined
	}
	if !p.busy.CompareAndSwap(false, true) {
		return ErrSaveInProgress
	}
	defer p.busy.Store(false)
	var errs []error
	for _, id := range domains {
		if err := p.stores[id].Discard(); err != nil {
			errs = append(errs, err)
			continue
		}
		p.emit(ctx, id, "reset", nil)
	}
	p.opts.Telemetry.Record(ctx, "settings.reset", map[string]any{"domains": domains})
	return errors.Join(errs...)
}

// Status reports the aggregate dirty state.
func (p *Page) Status() Status {
	p.mu.RLock()
	var last *time.Time
	if p.lastSavedAt != nil {
		at := *p.lastSavedAt
		last = &at
	}
	p.mu.RUnlock()
	states := p.tracker.States()
	for _, id := range p.order {
		if _, ok := states[id]; !ok {
			states[id] = DirtyState{}
		}
	}
	dirty := p.tracker.DirtyDomains()
	if dirty == nil {
		dirty = []string{}
	}
	return Status{
		Dirty:        len(dirty) > 0,
		Saving:       p.busy.Load(),
		DirtyDomains: dirty,
		Domains:      states,
		LastSavedAt:  last,
	}
}

// CurrencyFormat returns the price format configured for the shop.
func (p *Page) CurrencyFormat() CurrencyFormat {
	format := CurrencyFormat{Symbol: CurrencySymbols["IRR"], DecimalSep: "."}
	if store, ok := p.stores[DomainEcommerce]; ok {
		format = CurrencyFormatFrom(store.Snapshot())
	}
	if store, ok := p.stores[DomainLocalization]; ok {
		system, _ := store.Snapshot().Value("numbers", "number_system")
		format.UsePersianNumbers = system == "persian"
	}
	return format
}

// CheckTemplates reports notification templates whose variables disagree with their text.
func (p *Page) CheckTemplates() []TemplateIssue {
	store, ok := p.stores[DomainNotifications]
	if !ok {
		return nil
	}
	return CheckTemplates(store.Snapshot())
}

func (p *Page) storeFor(path FieldPath) (*Store, error) {
	store, ok := p.stores[path.Domain]
	if !ok {
		p.opts.Telemetry.Record(context.Background(), "settings.path.unknown", map[string]any{
			"path": path.String(),
		})
		return nil, &UnknownPathError{Path: path}
	}
	return store, nil
}

func (p *Page) storeChanged(domain string, updates []Update) {
	p.emit(context.Background(), domain, "set", updates)
}

func (p *Page) emit(ctx context.Context, domain, reason string, updates []Update) {
	meta := ActivityFromContext(ctx)
	event := ChangeEvent{
		Domain:     domain,
		Reason:     reason,
		Dirty:      p.tracker.IsDirty(domain),
		ActorID:    meta.ActorID,
		UserID:     meta.UserID,
		TenantID:   meta.TenantID,
		OccurredAt: p.opts.Now(),
	}
	for _, update := range updates {
		event.Paths = append(event.Paths, update.Path)
	}
	if err := p.opts.ChangeHook.SettingsChanged(ctx, event); err != nil {
		p.opts.Telemetry.Record(ctx, "settings.hook.error", map[string]any{
			"domain": domain,
			"reason": reason,
			"error":  err.Error(),
		})
	}
}
