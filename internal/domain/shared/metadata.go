package shared

import (
	"encoding/json"
	"fmt"
)

// Metadata is an open key-value bag persisted as a JSON object
type Metadata map[string]json.RawMessage

// NewMetadata builds Metadata from plain Go values
func NewMetadata(values map[string]any) (Metadata, error) {
	m := make(Metadata, len(values))
	for k, v := range values {
		if err := m.Set(k, v); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Set encodes v as JSON under key
func (m Metadata) Set(key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode metadata key %s: %w", key, err)
	}
	m[key] = raw
	return nil
}

// Decode unmarshals the value under key into dst and reports whether the key exists
func (m Metadata) Decode(key string, dst any) (bool, error) {
	raw, ok := m[key]
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return true, fmt.Errorf("failed to decode metadata key %s: %w", key, err)
	}
	return true, nil
}

// Merge returns a new map holding m's keys overridden by patch's keys.
// The merge is shallow: nested objects are replaced, not combined.
func (m Metadata) Merge(patch Metadata) Metadata {
	merged := make(Metadata, len(m)+len(patch))
	for k, v := range m {
		merged[k] = v
	}
	for k, v := range patch {
		merged[k] = v
	}
	return merged
}

// Validate checks that every value is well-formed JSON
func (m Metadata) Validate() error {
	for k, v := range m {
		if !json.Valid(v) {
			return fmt.Errorf("%w: key %s", ErrInvalidMetadataValue, k)
		}
	}
	return nil
}

// Bytes encodes the map for a jsonb column; a nil map is stored as an empty object
func (m Metadata) Bytes() ([]byte, error) {
	if m == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(map[string]json.RawMessage(m))
}

// ParseMetadata decodes a jsonb column value
func ParseMetadata(data []byte) (Metadata, error) {
	if len(data) == 0 {
		return Metadata{}, nil
	}
	var m Metadata
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse metadata: %w", err)
	}
	if m == nil {
		m = Metadata{}
	}
	return m, nil
}
