package queries

import (
	"context"
	"testing"

	settings "github.com/rza1914/ishop-settings/components/settings"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPage(t *testing.T) *settings.Page {
	t.Helper()
	page, err := settings.NewPage(settings.Options{})
	require.NoError(t, err)
	return page
}

func TestFieldQuery(t *testing.T) {
	page := newPage(t)
	query := NewFieldQuery(page)

	value, err := query.Query(context.Background(), FieldInput{Path: "ecommerce.currency.symbol"})
	require.NoError(t, err)
	assert.Equal(t, "ریال", value.Value)
	assert.Equal(t, settings.CurrencySymbolPath, value.Path)

	_, err = query.Query(context.Background(), FieldInput{Path: "ecommerce.currency"})
	require.Error(t, err)
	_, err = query.Query(context.Background(), FieldInput{Path: "ecommerce.currency.rate"})
	var unknown *settings.UnknownPathError
	require.ErrorAs(t, err, &unknown)
}

func TestSnapshotQuery(t *testing.T) {
	page := newPage(t)
	query := NewSnapshotQuery(page)

	domain, err := query.Query(context.Background(), SnapshotInput{Domain: settings.DomainShipping})
	require.NoError(t, err)
	assert.Equal(t, settings.DomainShipping, domain.ID)
	assert.Contains(t, domain.Sections, "zones")
}

type stubStatusService struct {
	calls int
}

func (s *stubStatusService) Status() settings.Status {
	s.calls++
	return settings.Status{Dirty: true, DirtyDomains: []string{"seo"}}
}

func TestStatusQuery(t *testing.T) {
	service := &stubStatusService{}
	query := NewStatusQuery(service)

	status, err := query.Query(context.Background(), StatusInput{})
	require.NoError(t, err)
	assert.True(t, status.Dirty)
	assert.Equal(t, 1, service.calls)
}

func TestTabsQueryNegotiatesLocale(t *testing.T) {
	page := newPage(t)
	require.NoError(t, page.Set(settings.CurrencyCodePath, "IRT"))
	query := NewTabsQuery(page)

	tabs, err := query.Query(context.Background(), TabsInput{Locale: "en-US,en;q=0.8"})
	require.NoError(t, err)
	require.Len(t, tabs, len(settings.DomainOrder))
	assert.Equal(t, "Store", tabs[1].Label)
	assert.True(t, tabs[1].Dirty)
	assert.False(t, tabs[0].Dirty)
}

func TestTemplateCheckQuery(t *testing.T) {
	page := newPage(t)
	query := NewTemplateCheckQuery(page)

	issues, err := query.Query(context.Background(), TemplateCheckInput{})
	require.NoError(t, err)
	assert.Empty(t, issues)

	require.NoError(t, page.UpdateItem(settings.EmailTemplatesPath, []string{"welcome_email", "body"}, "سلام {name}"))
	issues, err = query.Query(context.Background(), TemplateCheckInput{})
	require.NoError(t, err)
	require.Len(t, issues, 1)
	assert.Equal(t, "welcome_email", issues[0].TemplateID)
}

func TestBackupQuery(t *testing.T) {
	page := newPage(t)
	query := NewBackupQuery(page)

	doc, err := query.Query(context.Background(), BackupInput{})
	require.NoError(t, err)
	assert.Equal(t, settings.BackupVersion, doc.Version)
	assert.Len(t, doc.Domains, len(settings.DomainOrder))
	assert.NotEmpty(t, doc.ID)
}
