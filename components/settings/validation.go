package settings

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// ShapeValidator checks structured values beyond their kind.
type ShapeValidator interface {
	Validate(path FieldPath, spec FieldSpec, value any) error
}

// JSONSchemaValidator validates record and record_list values against the
// field schema, or against a schema inferred from the field default.
type JSONSchemaValidator struct {
	mu       sync.RWMutex
	compiled map[string]*jsonschema.Schema
}

// NewJSONSchemaValidator builds a validator backed by jsonschema v5.
func NewJSONSchemaValidator() *JSONSchemaValidator {
	return &JSONSchemaValidator{
		compiled: make(map[string]*jsonschema.Schema),
	}
}

// Validate ensures value satisfies the field schema.
func (v *JSONSchemaValidator) Validate(path FieldPath, spec FieldSpec, value any) error {
	raw := spec.Schema
	if len(raw) == 0 {
		raw = inferSchema(spec)
	}
	if len(raw) == 0 {
		return nil
	}
	schema, err := v.schemaFor(path, raw)
	if err != nil {
		return err
	}
	var payload any
	if err := roundTrip(value, &payload); err != nil {
		return fmt.Errorf("settings: normalize %s: %w", path, err)
	}
	if err := schema.Validate(payload); err != nil {
		return fmt.Errorf("settings: %s failed validation: %w", path, err)
	}
	return nil
}

func (v *JSONSchemaValidator) schemaFor(path FieldPath, raw map[string]any) (*jsonschema.Schema, error) {
	data, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("settings: marshal schema %s: %w", path, err)
	}
	sum := sha256.Sum256(data)
	key := path.String() + "-" + hex.EncodeToString(sum[:8])
	v.mu.RLock()
	schema, ok := v.compiled[key]
	v.mu.RUnlock()
	if ok {
		return schema, nil
	}
	compiler := jsonschema.NewCompiler()
	name := key + ".json"
	if err := compiler.AddResource(name, bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("settings: load schema %s: %w", path, err)
	}
	compiled, err := compiler.Compile(name)
	if err != nil {
		return nil, fmt.Errorf("settings: compile schema %s: %w", path, err)
	}
	v.mu.Lock()
	v.compiled[key] = compiled
	v.mu.Unlock()
	return compiled, nil
}

// inferSchema derives a permissive object schema from a record default:
// every key present in the default keeps its JSON type, extra keys are allowed.
// List items must carry a string id.
func inferSchema(spec FieldSpec) map[string]any {
	switch spec.Kind {
	case KindRecord:
		record, _ := spec.Default.(map[string]any)
		return objectSchema(record)
	case KindRecordList:
		items, _ := spec.Default.([]map[string]any)
		sample := map[string]any{}
		if len(items) > 0 {
			sample = items[0]
		}
		item := objectSchema(sample)
		props := item["properties"].(map[string]any)
		props["id"] = map[string]any{"type": "string", "minLength": 1}
		item["required"] = []any{"id"}
		return map[string]any{"type": "array", "items": item}
	}
	return nil
}

func objectSchema(sample map[string]any) map[string]any {
	props := make(map[string]any, len(sample))
	keys := make([]string, 0, len(sample))
	for key := range sample {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		props[key] = valueSchema(sample[key])
	}
	return map[string]any{"type": "object", "properties": props}
}

func valueSchema(value any) map[string]any {
	switch v := value.(type) {
	case bool:
		return map[string]any{"type": "boolean"}
	case float64:
		return map[string]any{"type": "number"}
	case string:
		return map[string]any{"type": "string"}
	case map[string]any:
		return objectSchema(v)
	case []map[string]any:
		sample := map[string]any{}
		if len(v) > 0 {
			sample = v[0]
		}
		return map[string]any{"type": "array", "items": objectSchema(sample)}
	case []any:
		if len(v) > 0 {
			return map[string]any{"type": "array", "items": valueSchema(v[0])}
		}
		return map[string]any{"type": "array"}
	case []string:
		return map[string]any{"type": "array", "items": map[string]any{"type": "string"}}
	}
	return map[string]any{}
}
