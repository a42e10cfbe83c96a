package settings

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type blockingPersister struct {
	*InMemoryPersister
	started chan string
	release chan struct{}
	once    sync.Once
}

func newBlockingPersister() *blockingPersister {
	return &blockingPersister{
		InMemoryPersister: NewInMemoryPersister(),
		started:           make(chan string, 16),
		release:           make(chan struct{}),
	}
}

func (p *blockingPersister) Save(ctx context.Context, domainID string, snapshot Domain) error {
	p.started <- domainID
	<-p.release
	return p.InMemoryPersister.Save(ctx, domainID, snapshot)
}

func (p *blockingPersister) unblock() { p.once.Do(func() { close(p.release) }) }

type countingConfirmer struct {
	answer  bool
	prompts []string
}

func (c *countingConfirmer) Confirm(_ context.Context, prompt string) (bool, error) {
	c.prompts = append(c.prompts, prompt)
	return c.answer, nil
}

type recordingHook struct {
	mu     sync.Mutex
	events []ChangeEvent
}

func (h *recordingHook) SettingsChanged(_ context.Context, event ChangeEvent) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, event)
	return nil
}

func (h *recordingHook) reasons() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]string, 0, len(h.events))
	for _, e := range h.events {
		out = append(out, e.Reason)
	}
	return out
}

func newTestPage(t *testing.T, opts Options) *Page {
	t.Helper()
	page, err := NewPage(opts)
	require.NoError(t, err)
	return page
}

func TestPageDefaultsCoverEveryDomain(t *testing.T) {
	page := newTestPage(t, Options{})

	assert.Equal(t, DomainOrder, page.Domains())
	tabs := page.Tabs("fa")
	require.Len(t, tabs, len(DomainOrder))
	assert.Equal(t, "تنظیمات کلی", tabs[0].Label)
	assert.False(t, page.Status().Dirty)
}

func TestPageRejectsDuplicateDomains(t *testing.T) {
	_, err := NewPage(Options{Schemas: []DomainSchema{generalSchema(), generalSchema()}})
	require.Error(t, err)
}

func TestPageCurrencySwitchMarksEcommerceDirty(t *testing.T) {
	page := newTestPage(t, Options{})

	require.NoError(t, page.Set(CurrencyCodePath, "IRT"))

	symbol, err := page.Get(CurrencySymbolPath)
	require.NoError(t, err)
	assert.Equal(t, "تومان", symbol)
	status := page.Status()
	assert.True(t, status.Dirty)
	assert.Equal(t, []string{DomainEcommerce}, status.DirtyDomains)
	assert.Equal(t, "۱,۲۵۰,۰۰۰ تومان", page.CurrencyFormat().FormatPrice(1250000))
}

func TestPageUnknownDomainPath(t *testing.T) {
	telemetry := &recordingTelemetry{}
	page := newTestPage(t, Options{Telemetry: telemetry})

	err := page.Set(Path("billing", "x", "y"), 1)
	var unknown *UnknownPathError
	require.ErrorAs(t, err, &unknown)
	assert.True(t, telemetry.has("settings.path.unknown"))

	_, err = page.Snapshot("billing")
	require.ErrorAs(t, err, &unknown)
}

func TestPageSetManyValidatesAcrossDomains(t *testing.T) {
	page := newTestPage(t, Options{})

	err := page.SetMany([]Update{
		{Path: Path(DomainGeneral, "site", "title"), Value: "new"},
		{Path: Path(DomainSystem, "security", "max_requests_per_minute"), Value: "many"},
	})
	require.Error(t, err)
	assert.False(t, page.Status().Dirty)
}

func TestPageSaveAllPersistsAndClears(t *testing.T) {
	persister := NewInMemoryPersister()
	hook := &recordingHook{}
	now := time.Date(2024, 3, 20, 12, 0, 0, 0, time.UTC)
	page := newTestPage(t, Options{Persister: persister, ChangeHook: hook, Now: func() time.Time { return now }})
	require.NoError(t, page.Set(Path(DomainGeneral, "site", "title"), "فروشگاه"))

	result, err := page.SaveAll(context.Background())
	require.NoError(t, err)
	assert.True(t, result.OK())
	assert.NotEmpty(t, result.ID)
	assert.Len(t, result.Saved, len(DomainOrder))

	status := page.Status()
	assert.False(t, status.Dirty)
	require.NotNil(t, status.LastSavedAt)
	assert.Equal(t, now, *status.LastSavedAt)

	stored, err := persister.Load(context.Background(), DomainGeneral)
	require.NoError(t, err)
	assert.Equal(t, "فروشگاه", stored.Sections["site"]["title"])
	assert.Contains(t, hook.reasons(), "save")
}

func TestPageConcurrentSaveAllWritesOnce(t *testing.T) {
	persister := newBlockingPersister()
	page := newTestPage(t, Options{Persister: persister})
	require.NoError(t, page.Set(CurrencyCodePath, "IRT"))

	done := make(chan error, 1)
	go func() {
		_, err := page.SaveAll(context.Background())
		done <- err
	}()
	<-persister.started

	_, err := page.SaveAll(context.Background())
	require.ErrorIs(t, err, ErrSaveInProgress)
	assert.True(t, page.Status().Saving)

	persister.unblock()
	require.NoError(t, <-done)

	for _, domain := range DomainOrder {
		assert.Equal(t, 1, persister.SaveCount(domain), domain)
	}
	assert.False(t, page.Status().Saving)
}

func TestPageEditDuringSaveStaysDirty(t *testing.T) {
	persister := newBlockingPersister()
	page := newTestPage(t, Options{Persister: persister})
	path := Path(DomainGeneral, "site", "title")
	require.NoError(t, page.Set(path, "before"))

	done := make(chan SaveResult, 1)
	go func() {
		result, _ := page.SaveAll(context.Background())
		done <- result
	}()
	<-persister.started
	require.NoError(t, page.Set(path, "during"))
	persister.unblock()
	result := <-done

	assert.Contains(t, result.StillDirty, DomainGeneral)
	assert.True(t, page.Tracker().IsDirty(DomainGeneral))
	stored, err := persister.Load(context.Background(), DomainGeneral)
	require.NoError(t, err)
	assert.Equal(t, "before", stored.Sections["site"]["title"])
	value, _ := page.Get(path)
	assert.Equal(t, "during", value)
}

func TestPageSaveFailureKeepsDomainDirty(t *testing.T) {
	persister := NewInMemoryPersister()
	persister.FailWith(DomainPayments, errors.New("connection reset"))
	persister.FailWith(DomainSEO, ErrRejected)
	page := newTestPage(t, Options{Persister: persister})
	require.NoError(t, page.Set(Path(DomainPayments, "processing", "default_gateway"), "mellat"))
	require.NoError(t, page.Set(Path(DomainGeneral, "site", "title"), "ok"))

	result, err := page.SaveAll(context.Background())
	require.Error(t, err)
	assert.False(t, result.OK())

	var saveErr *SaveError
	require.ErrorAs(t, err, &saveErr)
	failures := map[string]SaveFailure{}
	for _, failure := range result.Failed {
		failures[failure.Domain] = failure
	}
	assert.True(t, failures[DomainPayments].Retryable)
	assert.False(t, failures[DomainSEO].Retryable)
	assert.True(t, page.Tracker().IsDirty(DomainPayments))
	assert.False(t, page.Tracker().IsDirty(DomainGeneral))
}

type stallingPersister struct {
	*InMemoryPersister
}

func (p stallingPersister) Save(ctx context.Context, _ string, _ Domain) error {
	<-ctx.Done()
	return ctx.Err()
}

func TestPageSaveTimeout(t *testing.T) {
	page := newTestPage(t, Options{
		Persister:   stallingPersister{NewInMemoryPersister()},
		SaveTimeout: 5 * time.Millisecond,
	})
	require.NoError(t, page.Set(Path(DomainGeneral, "site", "title"), "x"))

	result, err := page.SaveAll(context.Background())
	require.ErrorIs(t, err, context.DeadlineExceeded)
	require.Len(t, result.Failed, len(DomainOrder))
	assert.True(t, result.Failed[0].Retryable)
	assert.True(t, page.Status().Dirty)
}

func TestPageResetAllDeclinedChangesNothing(t *testing.T) {
	telemetry := &recordingTelemetry{}
	page := newTestPage(t, Options{Telemetry: telemetry})
	path := Path(DomainGeneral, "site", "title")
	require.NoError(t, page.Set(path, "edited"))
	confirmer := &countingConfirmer{answer: false}

	err := page.ResetAll(context.Background(), confirmer)
	require.ErrorIs(t, err, ErrConfirmationDeclined)

	require.Len(t, confirmer.prompts, 1)
	assert.Equal(t, "آیا مطمئن هستید که می‌خواهید تغییرات را لغو کنید؟", confirmer.prompts[0])
	value, _ := page.Get(path)
	assert.Equal(t, "edited", value)
	assert.True(t, page.Status().Dirty)
	assert.True(t, telemetry.has("settings.reset.declined"))
}

func TestPageResetAllConfirmedDiscards(t *testing.T) {
	hook := &recordingHook{}
	page := newTestPage(t, Options{ChangeHook: hook})
	require.NoError(t, page.Set(CurrencyCodePath, "IRT"))
	require.NoError(t, page.Set(Path(DomainUsers, "registration", "enabled"), false))

	require.NoError(t, page.ResetAll(context.Background(), StaticConfirmer(true)))

	code, _ := page.Get(CurrencyCodePath)
	assert.Equal(t, "IRR", code)
	symbol, _ := page.Get(CurrencySymbolPath)
	assert.Equal(t, "ریال", symbol)
	assert.False(t, page.Status().Dirty)
	assert.Contains(t, hook.reasons(), "reset")
}

func TestPageResetAllCleanSkipsPrompt(t *testing.T) {
	page := newTestPage(t, Options{})
	confirmer := &countingConfirmer{answer: true}

	require.NoError(t, page.ResetAll(context.Background(), confirmer))
	assert.Empty(t, confirmer.prompts)
}

func TestPageResetRequiresConfirmer(t *testing.T) {
	page := newTestPage(t, Options{})
	require.NoError(t, page.Set(Path(DomainGeneral, "site", "title"), "x"))

	require.Error(t, page.ResetAll(context.Background(), nil))
	assert.True(t, page.Status().Dirty)
}

func TestPageResetDomainOnlyTouchesOne(t *testing.T) {
	page := newTestPage(t, Options{})
	require.NoError(t, page.Set(Path(DomainGeneral, "site", "title"), "x"))
	require.NoError(t, page.Set(Path(DomainSEO, "meta", "sitemap_enabled"), false))

	require.NoError(t, page.ResetDomain(context.Background(), DomainSEO, StaticConfirmer(true)))

	assert.Equal(t, []string{DomainGeneral}, page.Status().DirtyDomains)
}

func TestPageResetDuringSaveIsRefused(t *testing.T) {
	persister := newBlockingPersister()
	page := newTestPage(t, Options{Persister: persister})
	require.NoError(t, page.Set(Path(DomainGeneral, "site", "title"), "x"))

	done := make(chan struct{})
	go func() {
		_, _ = page.SaveAll(context.Background())
		close(done)
	}()
	<-persister.started
	err := page.ResetAll(context.Background(), StaticConfirmer(true))
	persister.unblock()
	<-done

	require.ErrorIs(t, err, ErrSaveInProgress)
}

func TestPageLoadSeedsFromPersister(t *testing.T) {
	persister := NewInMemoryPersister()
	require.NoError(t, persister.Save(context.Background(), DomainEcommerce, Domain{
		ID:       DomainEcommerce,
		Sections: map[string]Section{"currency": {"code": "IRT", "symbol": "تومان"}},
	}))
	page := newTestPage(t, Options{Persister: persister})

	require.NoError(t, page.Load(context.Background()))

	code, _ := page.Get(CurrencyCodePath)
	assert.Equal(t, "IRT", code)
	assert.False(t, page.Status().Dirty)

	require.NoError(t, page.Set(CurrencyCodePath, "IRR"))
	require.NoError(t, page.ResetAll(context.Background(), StaticConfirmer(true)))
	code, _ = page.Get(CurrencyCodePath)
	assert.Equal(t, "IRT", code)
}

func TestPageLoadReportsDomainErrors(t *testing.T) {
	persister := NewInMemoryPersister()
	require.NoError(t, persister.Save(context.Background(), DomainSystem, Domain{
		ID:       DomainSystem,
		Sections: map[string]Section{"database": {"auto_backup": "yes"}},
	}))
	page := newTestPage(t, Options{Persister: persister})

	err := page.Load(context.Background())
	var loadErr *LoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Equal(t, DomainSystem, loadErr.Domain)
}

func TestPageEventsCarryActivity(t *testing.T) {
	hook := &recordingHook{}
	page := newTestPage(t, Options{ChangeHook: hook})
	require.NoError(t, page.Set(Path(DomainGeneral, "site", "title"), "x"))
	ctx := ContextWithActivity(context.Background(), ActivityContext{ActorID: "admin-1"})

	_, err := page.SaveAll(ctx)
	require.NoError(t, err)

	hook.mu.Lock()
	defer hook.mu.Unlock()
	require.NotEmpty(t, hook.events)
	first := hook.events[0]
	assert.Equal(t, "set", first.Reason)
	assert.Equal(t, []FieldPath{Path(DomainGeneral, "site", "title")}, first.Paths)
	last := hook.events[len(hook.events)-1]
	assert.Equal(t, "save", last.Reason)
	assert.Equal(t, "admin-1", last.ActorID)
	assert.False(t, last.Dirty)
}

func TestPageCheckTemplatesDefaultsAreConsistent(t *testing.T) {
	page := newTestPage(t, Options{})

	assert.Empty(t, page.CheckTemplates())
}
