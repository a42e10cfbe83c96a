// Package storage holds the persistence backends for settings domains.
// Every backend stores one JSON payload per domain so values decode into the
// same shapes the settings store normalizes.
package storage

import (
	"encoding/json"
	"fmt"

	settings "github.com/rza1914/ishop-settings/components/settings"
)

// EncodeSections marshals the domain sections into the stored payload.
func EncodeSections(domain settings.Domain) ([]byte, error) {
	sections := domain.Sections
	if sections == nil {
		sections = map[string]settings.Section{}
	}
	data, err := json.Marshal(sections)
	if err != nil {
		return nil, fmt.Errorf("storage: encode %s: %w", domain.ID, err)
	}
	return data, nil
}

// DecodeDomain rebuilds a domain snapshot from a stored payload.
func DecodeDomain(id string, version int, payload []byte) (settings.Domain, error) {
	domain := settings.Domain{ID: id, SchemaVersion: version}
	if len(payload) == 0 {
		domain.Sections = map[string]settings.Section{}
		return domain, nil
	}
	if err := json.Unmarshal(payload, &domain.Sections); err != nil {
		return settings.Domain{}, fmt.Errorf("storage: decode %s: %w", id, err)
	}
	return domain, nil
}
