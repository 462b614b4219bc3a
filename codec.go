package facet

import (
	"encoding/json"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

// ErrNotObject is returned when a payload does not decode into an object.
var ErrNotObject = errors.New("facet: payload is not an object")

// Codec defines the deserialization contract for source records.
// Implement this interface to use alternative formats like TOML, HCL, or custom binary formats.
type Codec interface {
	// Unmarshal deserializes bytes into a value.
	Unmarshal(data []byte, v any) error

	// ContentType returns the MIME type for observability and debugging.
	ContentType() string
}

// JSONCodec implements Codec using encoding/json. Numbers decode as
// float64, which is what the mappers expect for epoch timestamps.
type JSONCodec struct{}

// Unmarshal deserializes JSON bytes into v.
func (JSONCodec) Unmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

// ContentType returns the JSON MIME type.
func (JSONCodec) ContentType() string {
	return "application/json"
}

// Ensure JSONCodec implements Codec.
var _ Codec = JSONCodec{}

// YAMLCodec implements Codec using gopkg.in/yaml.v3.
type YAMLCodec struct{}

// Unmarshal deserializes YAML bytes into v.
func (YAMLCodec) Unmarshal(data []byte, v any) error {
	return yaml.Unmarshal(data, v)
}

// ContentType returns the YAML MIME type.
func (YAMLCodec) ContentType() string {
	return "application/x-yaml"
}

// Ensure YAMLCodec implements Codec.
var _ Codec = YAMLCodec{}

// DecodeRecord decodes a single object payload into a Record.
func DecodeRecord(codec Codec, data []byte) (Record, error) {
	var raw map[string]any
	if err := codec.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode %s: %w", codec.ContentType(), err)
	}
	if raw == nil {
		return nil, ErrNotObject
	}
	return Record(raw), nil
}

// DecodeRecords decodes an array payload into Records.
func DecodeRecords(codec Codec, data []byte) ([]Record, error) {
	var raw []map[string]any
	if err := codec.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode %s: %w", codec.ContentType(), err)
	}
	out := make([]Record, 0, len(raw))
	for i, item := range raw {
		if item == nil {
			return nil, fmt.Errorf("record %d: %w", i, ErrNotObject)
		}
		out = append(out, Record(item))
	}
	return out, nil
}
