package store

import (
	"encoding/json"
	"fmt"
)

// marshalColumn encodes a map-valued attempt field as JSON TEXT.
// Nil maps are stored as "{}" so the column is never NULL.
func marshalColumn[M ~map[string]V, V any](name string, m M) (string, error) {
	if m == nil {
		return "{}", nil
	}
	data, err := json.Marshal(m)
	if err != nil {
		return "", fmt.Errorf("marshal %s: %w", name, err)
	}
	return string(data), nil
}

// unmarshalColumn decodes JSON TEXT into a non-nil map.
func unmarshalColumn[V any](name, data string) (map[string]V, error) {
	m := map[string]V{}
	if data == "" {
		return m, nil
	}
	if err := json.Unmarshal([]byte(data), &m); err != nil {
		return nil, fmt.Errorf("unmarshal %s: %w", name, err)
	}
	return m, nil
}
