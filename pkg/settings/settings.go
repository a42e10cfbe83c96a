package settings

import (
	core "github.com/rza1914/ishop-settings/components/settings"
)

// Page exposes the underlying components/settings.Page type.
type Page = core.Page

// Options re-export for convenience.
type Options = core.Options

// Persister re-export for storage adapters.
type Persister = core.Persister

// NewPage proxies to the internal constructor.
func NewPage(opts Options) (*Page, error) {
	return core.NewPage(opts)
}
