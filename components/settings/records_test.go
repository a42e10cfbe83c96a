package settings

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetNestedCopiesOnWrite(t *testing.T) {
	original := []map[string]any{
		{"id": "a", "enabled": true, "limits": map[string]any{"max": float64(1)}},
		{"id": "b", "enabled": false},
	}

	updated, err := setNested(original, []string{"a", "limits", "max"}, float64(5))
	require.NoError(t, err)

	item, ok := FindItem(updated, "a")
	require.True(t, ok)
	assert.Equal(t, float64(5), item["limits"].(map[string]any)["max"])
	assert.Equal(t, float64(1), original[0]["limits"].(map[string]any)["max"])
}

func TestSetNestedErrors(t *testing.T) {
	_, err := setNested([]map[string]any{{"id": "a"}}, []string{"z", "enabled"}, true)
	require.Error(t, err)

	_, err = setNested(map[string]any{"x": "y"}, []string{"missing", "deep"}, 1)
	require.Error(t, err)

	_, err = setNested("scalar", []string{"k"}, 1)
	require.Error(t, err)
}

func TestEnabledItemsTreatsMissingFlagAsEnabled(t *testing.T) {
	items := []any{
		map[string]any{"id": "a"},
		map[string]any{"id": "b", "enabled": false},
		map[string]any{"id": "c", "enabled": true},
	}

	enabled := EnabledItems(items)
	require.Len(t, enabled, 2)
	assert.Equal(t, "a", enabled[0]["id"])
	assert.Equal(t, "c", enabled[1]["id"])
	assert.Len(t, ListItems(items), 3)
}
