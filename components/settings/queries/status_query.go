package queries

import (
	"context"

	gocommand "github.com/goliatone/go-command"
	settings "github.com/rza1914/ishop-settings/components/settings"
)

// StatusInput is empty; status is page wide.
type StatusInput struct{}

type statusReader interface {
	Status() settings.Status
}

// StatusQuery reports the aggregate dirty state.
type StatusQuery struct {
	service statusReader
}

// NewStatusQuery builds the query.
func NewStatusQuery(service statusReader) *StatusQuery {
	return &StatusQuery{service: service}
}

var _ gocommand.Querier[StatusInput, settings.Status] = (*StatusQuery)(nil)

// Query returns the current status.
func (q *StatusQuery) Query(context.Context, StatusInput) (settings.Status, error) {
	return q.service.Status(), nil
}

// TabsInput selects the label locale.
type TabsInput struct {
	Locale string `json:"locale"`
}

type tabsReader interface {
	Tabs(locale string) []settings.Tab
}

// TabsQuery lists the settings tabs with their dirty flags.
type TabsQuery struct {
	service tabsReader
}

// NewTabsQuery builds the query.
func NewTabsQuery(service tabsReader) *TabsQuery {
	return &TabsQuery{service: service}
}

var _ gocommand.Querier[TabsInput, []settings.Tab] = (*TabsQuery)(nil)

// Query returns the tab bar for the requested locale.
func (q *TabsQuery) Query(_ context.Context, input TabsInput) ([]settings.Tab, error) {
	return q.service.Tabs(settings.NegotiateLocale(input.Locale)), nil
}
