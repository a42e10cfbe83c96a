package settings

import "fmt"

// setNested returns a copy of container with the leaf addressed by keys
// replaced. Maps are addressed by key and record lists by item id.
func setNested(container any, keys []string, value any) (any, error) {
	if len(keys) == 0 {
		return value, nil
	}
	key := keys[0]
	switch c := container.(type) {
	case map[string]any:
		child, ok := c[key]
		if !ok && len(keys) > 1 {
			return nil, fmt.Errorf("missing key %q", key)
		}
		updated, err := setNested(child, keys[1:], value)
		if err != nil {
			return nil, err
		}
		out := make(map[string]any, len(c))
		for k, v := range c {
			out[k] = v
		}
		out[key] = updated
		return out, nil
	case []map[string]any:
		idx := indexOfItem(len(c), func(i int) map[string]any { return c[i] }, key)
		if idx < 0 {
			return nil, fmt.Errorf("missing item %q", key)
		}
		updated, err := setNested(c[idx], keys[1:], value)
		if err != nil {
			return nil, err
		}
		record, ok := updated.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("item %q must stay a record", key)
		}
		out := append([]map[string]any{}, c...)
		out[idx] = record
		return out, nil
	case []any:
		idx := indexOfItem(len(c), func(i int) map[string]any {
			record, _ := c[i].(map[string]any)
			return record
		}, key)
		if idx < 0 {
			return nil, fmt.Errorf("missing item %q", key)
		}
		updated, err := setNested(c[idx], keys[1:], value)
		if err != nil {
			return nil, err
		}
		out := append([]any{}, c...)
		out[idx] = updated
		return out, nil
	}
	return nil, fmt.Errorf("cannot descend into %s at %q", describe(container), key)
}

func indexOfItem(n int, at func(int) map[string]any, id string) int {
	for i := 0; i < n; i++ {
		if item := at(i); item != nil && itemID(item) == id {
			return i
		}
	}
	return -1
}

func itemID(item map[string]any) string {
	id, _ := item["id"].(string)
	return id
}

// ListItems returns the records of a record_list value (or of a nested list
// stored inside a record) as independent copies.
func ListItems(value any) []map[string]any {
	switch v := value.(type) {
	case []map[string]any:
		return cloneValue(v).([]map[string]any)
	case []any:
		out := make([]map[string]any, 0, len(v))
		for _, item := range v {
			if record, ok := item.(map[string]any); ok {
				out = append(out, cloneValue(record).(map[string]any))
			}
		}
		return out
	}
	return nil
}

// ItemEnabled reports the enabled flag of a list entity. Missing flags count as enabled.
func ItemEnabled(item map[string]any) bool {
	enabled, ok := item["enabled"].(bool)
	return !ok || enabled
}

// EnabledItems filters a list value to its enabled entities. Disabled entities
// keep their credentials in the store and are only skipped here.
func EnabledItems(value any) []map[string]any {
	items := ListItems(value)
	out := items[:0]
	for _, item := range items {
		if ItemEnabled(item) {
			out = append(out, item)
		}
	}
	return out
}

// FindItem returns the list entity with the given id.
func FindItem(value any, id string) (map[string]any, bool) {
	for _, item := range ListItems(value) {
		if itemID(item) == id {
			return item, true
		}
	}
	return nil, false
}
