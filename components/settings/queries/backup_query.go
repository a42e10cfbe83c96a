package queries

import (
	"context"

	gocommand "github.com/goliatone/go-command"
	settings "github.com/rza1914/ishop-settings/components/settings"
)

// BackupInput is empty; a backup always covers every domain.
type BackupInput struct{}

type backupService interface {
	Backup(ctx context.Context) *settings.BackupDocument
}

// BackupQuery captures a backup document.
type BackupQuery struct {
	service backupService
}

// NewBackupQuery builds the query.
func NewBackupQuery(service backupService) *BackupQuery {
	return &BackupQuery{service: service}
}

var _ gocommand.Querier[BackupInput, *settings.BackupDocument] = (*BackupQuery)(nil)

// Query returns a fresh backup of the current values.
func (q *BackupQuery) Query(ctx context.Context, _ BackupInput) (*settings.BackupDocument, error) {
	return q.service.Backup(ctx), nil
}
