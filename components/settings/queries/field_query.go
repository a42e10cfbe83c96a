package queries

import (
	"context"

	gocommand "github.com/goliatone/go-command"
	settings "github.com/rza1914/ishop-settings/components/settings"
)

// FieldInput addresses one value by its dotted path.
type FieldInput struct {
	Path string `json:"path"`
}

// FieldValue is the answer to a FieldQuery.
type FieldValue struct {
	Path  settings.FieldPath `json:"path"`
	Value any                `json:"value"`
}

type fieldReader interface {
	Get(path settings.FieldPath) (any, error)
}

// FieldQuery reads a single value.
type FieldQuery struct {
	service fieldReader
}

// NewFieldQuery builds the query.
func NewFieldQuery(service fieldReader) *FieldQuery {
	return &FieldQuery{service: service}
}

var _ gocommand.Querier[FieldInput, FieldValue] = (*FieldQuery)(nil)

// Query resolves the path and returns a copy of its value.
func (q *FieldQuery) Query(_ context.Context, input FieldInput) (FieldValue, error) {
	path, err := settings.ParsePath(input.Path)
	if err != nil {
		return FieldValue{}, err
	}
	value, err := q.service.Get(path)
	if err != nil {
		return FieldValue{}, err
	}
	return FieldValue{Path: path, Value: value}, nil
}
