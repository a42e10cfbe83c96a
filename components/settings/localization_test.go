package settings

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNegotiateLocale(t *testing.T) {
	assert.Equal(t, "fa", NegotiateLocale())
	assert.Equal(t, "en", NegotiateLocale("en-US,en;q=0.9"))
	assert.Equal(t, "fa", NegotiateLocale("fa-IR"))
	assert.Equal(t, "fa", NegotiateLocale("de-DE"))
	assert.Equal(t, "en", NegotiateLocale("", "en"))
}

func TestResolveLocalizedValueFallsBack(t *testing.T) {
	values := map[string]string{"default": "پیش‌فرض", "en": "Default"}

	assert.Equal(t, "Default", ResolveLocalizedValue(values, "en-GB", "x"))
	assert.Equal(t, "پیش‌فرض", ResolveLocalizedValue(values, "fr", "x"))
	assert.Equal(t, "x", ResolveLocalizedValue(nil, "en", "x"))
}

func TestTabTextsCoverEveryDomain(t *testing.T) {
	for _, domain := range DomainOrder {
		assert.NotEqual(t, domain, TabLabel(domain, "fa"), domain)
		assert.NotEmpty(t, TabDescription(domain, "en"), domain)
	}
	assert.Equal(t, "Save all", Message(MessageSaveAll, "en"))
	assert.Equal(t, "unknown_key", Message("unknown_key", "fa"))
	assert.Len(t, Messages("fa"), 10)
}
