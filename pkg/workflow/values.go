package workflow

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// floatValue keeps a decimal point on integral floats so they decode back as
// float64 instead of int in text formats.
type floatValue float64

func (f floatValue) text() (string, error) {
	v := float64(f)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "", fmt.Errorf("unsupported float value %v", v)
	}
	s := strconv.FormatFloat(v, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s, nil
}

func (f floatValue) MarshalJSON() ([]byte, error) {
	s, err := f.text()
	if err != nil {
		return nil, err
	}
	return []byte(s), nil
}

func (f floatValue) MarshalYAML() (interface{}, error) {
	s, err := f.text()
	if err != nil {
		return nil, err
	}
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!float", Value: s}, nil
}

// wrapFloats returns a copy of v where every float is a floatValue.
func wrapFloats(v any) any {
	switch t := v.(type) {
	case float64:
		return floatValue(t)
	case float32:
		return floatValue(t)
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = wrapFloats(val)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = wrapFloats(val)
		}
		return out
	}
	return v
}

// normalize maps decoded numbers onto int and float64 so that every format
// yields the same Go types for the same document.
func normalize(v any) any {
	switch t := v.(type) {
	case json.Number:
		if !strings.ContainsAny(t.String(), ".eE") {
			if i, err := t.Int64(); err == nil {
				return int(i)
			}
		}
		f, _ := t.Float64()
		return f
	case int8:
		return int(t)
	case int16:
		return int(t)
	case int32:
		return int(t)
	case int64:
		return int(t)
	case uint8:
		return int(t)
	case uint16:
		return int(t)
	case uint32:
		return int(t)
	case uint64:
		return int(t)
	case uint:
		return int(t)
	case float32:
		return float64(t)
	case map[string]any:
		for k, val := range t {
			t[k] = normalize(val)
		}
		return t
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[fmt.Sprint(k)] = normalize(val)
		}
		return out
	case []any:
		for i, val := range t {
			t[i] = normalize(val)
		}
		return t
	}
	return v
}

func normalizeParams(params map[string]any) map[string]any {
	if params == nil {
		return map[string]any{}
	}
	return normalize(params).(map[string]any)
}
