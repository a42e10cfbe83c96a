package queries

import (
	"context"

	gocommand "github.com/goliatone/go-command"
	settings "github.com/rza1914/ishop-settings/components/settings"
)

// TemplateCheckInput is empty; every notification template is checked.
type TemplateCheckInput struct{}

type templateChecker interface {
	CheckTemplates() []settings.TemplateIssue
}

// TemplateCheckQuery lists templates whose variables disagree with their text.
type TemplateCheckQuery struct {
	service templateChecker
}

// NewTemplateCheckQuery builds the query.
func NewTemplateCheckQuery(service templateChecker) *TemplateCheckQuery {
	return &TemplateCheckQuery{service: service}
}

var _ gocommand.Querier[TemplateCheckInput, []settings.TemplateIssue] = (*TemplateCheckQuery)(nil)

// Query runs the check.
func (q *TemplateCheckQuery) Query(context.Context, TemplateCheckInput) ([]settings.TemplateIssue, error) {
	return q.service.CheckTemplates(), nil
}
