package queries

import (
	"context"

	gocommand "github.com/goliatone/go-command"
	settings "github.com/rza1914/ishop-settings/components/settings"
)

// SnapshotInput names the domain to read.
type SnapshotInput struct {
	Domain string `json:"domain"`
}

type snapshotReader interface {
	Snapshot(domain string) (settings.Domain, error)
}

// SnapshotQuery returns a deep copy of one domain.
type SnapshotQuery struct {
	service snapshotReader
}

// NewSnapshotQuery builds the query.
func NewSnapshotQuery(service snapshotReader) *SnapshotQuery {
	return &SnapshotQuery{service: service}
}

var _ gocommand.Querier[SnapshotInput, settings.Domain] = (*SnapshotQuery)(nil)

// Query returns the domain snapshot.
func (q *SnapshotQuery) Query(_ context.Context, input SnapshotInput) (settings.Domain, error) {
	return q.service.Snapshot(input.Domain)
}
