package storage

import (
	"testing"

	settings "github.com/rza1914/ishop-settings/components/settings"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCodecRestoresIntoStore(t *testing.T) {
	page, err := settings.NewPage(settings.Options{})
	require.NoError(t, err)
	require.NoError(t, page.Set(settings.CurrencyCodePath, "IRT"))
	snapshot, err := page.Snapshot(settings.DomainEcommerce)
	require.NoError(t, err)

	payload, err := EncodeSections(snapshot)
	require.NoError(t, err)
	decoded, err := DecodeDomain(snapshot.ID, snapshot.SchemaVersion, payload)
	require.NoError(t, err)

	store, _ := page.Store(settings.DomainEcommerce)
	require.NoError(t, store.Reset(decoded))
	symbol, _ := store.Get(settings.CurrencySymbolPath)
	assert.Equal(t, "تومان", symbol)
}

func TestDecodeDomainErrors(t *testing.T) {
	_, err := DecodeDomain("seo", 1, []byte("{"))
	require.Error(t, err)

	empty, err := DecodeDomain("seo", 1, nil)
	require.NoError(t, err)
	assert.NotNil(t, empty.Sections)
}
