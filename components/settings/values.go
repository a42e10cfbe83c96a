package settings

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"reflect"
)

// normalizeValue coerces a caller supplied value into the canonical in-memory
// form for kind. Numbers become float64 and records take their JSON shape.
func normalizeValue(kind Kind, value any) (any, error) {
	switch kind {
	case KindBool:
		if v, ok := value.(bool); ok {
			return v, nil
		}
	case KindNumber:
		if v, ok := toFloat(value); ok {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, errNonFinite
			}
			return v, nil
		}
	case KindString:
		if v, ok := value.(string); ok {
			return v, nil
		}
	case KindStringList:
		switch v := value.(type) {
		case nil:
			return []string{}, nil
		case []string:
			return append([]string{}, v...), nil
		case []any:
			out := make([]string, 0, len(v))
			for idx, item := range v {
				s, ok := item.(string)
				if !ok {
					return nil, fmt.Errorf("item %d is %s", idx, describe(item))
				}
				out = append(out, s)
			}
			return out, nil
		}
	case KindRecord:
		if !isMapLike(value) {
			break
		}
		var out map[string]any
		if err := roundTrip(value, &out); err != nil {
			return nil, err
		}
		if out == nil {
			out = map[string]any{}
		}
		return out, nil
	case KindRecordList:
		if value != nil && !isSliceLike(value) {
			break
		}
		var out []map[string]any
		if err := roundTrip(value, &out); err != nil {
			return nil, err
		}
		if out == nil {
			out = []map[string]any{}
		}
		for idx, item := range out {
			if item == nil {
				return nil, fmt.Errorf("item %d is null", idx)
			}
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unsupported kind %q", kind)
	}
	return nil, errShape
}

var (
	errShape     = errors.New("shape mismatch")
	errNonFinite = errors.New("number must be finite")
)

func roundTrip(value any, out any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	return nil
}

func isMapLike(value any) bool {
	if value == nil {
		return false
	}
	kind := reflect.TypeOf(value).Kind()
	return kind == reflect.Map || kind == reflect.Struct
}

func isSliceLike(value any) bool {
	kind := reflect.TypeOf(value).Kind()
	return kind == reflect.Slice || kind == reflect.Array
}

func toFloat(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int8:
		return float64(v), true
	case int16:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint:
		return float64(v), true
	case uint8:
		return float64(v), true
	case uint16:
		return float64(v), true
	case uint32:
		return float64(v), true
	case uint64:
		return float64(v), true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	}
	return 0, false
}

func describe(value any) string {
	if value == nil {
		return "null"
	}
	return reflect.TypeOf(value).String()
}

// cloneValue deep copies canonical values so callers never share state with the store.
func cloneValue(value any) any {
	switch v := value.(type) {
	case []string:
		return append([]string{}, v...)
	case map[string]any:
		out := make(map[string]any, len(v))
		for key, item := range v {
			out[key] = cloneValue(item)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for idx, item := range v {
			out[idx] = cloneValue(item)
		}
		return out
	case []map[string]any:
		out := make([]map[string]any, len(v))
		for idx, item := range v {
			out[idx] = cloneValue(item).(map[string]any)
		}
		return out
	default:
		return v
	}
}
