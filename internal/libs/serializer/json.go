// Package serializer provides serialization interfaces and implementations for converting
// session snapshots and render events to and from byte slices. Clients of the demo HTTP
// surface pick an encoding by name.
//
// The package includes a default JSON serializer implementation that uses the goccy/go-json
// library for efficient JSON marshaling and unmarshaling operations.
package serializer

import (
	"github.com/goccy/go-json"

	"github.com/hyp3rd/ewrap"
)

// DefaultJSONSerializer leverages goccy/go-json to serialize snapshots and events.
type DefaultJSONSerializer struct{}

// Marshal serializes the given value into a byte slice.
func (*DefaultJSONSerializer) Marshal(v any) ([]byte, error) { // receiver omitted (unused)
	data, err := json.Marshal(v)
	if err != nil {
		return nil, ewrap.Wrap(err, "failed to marshal json")
	}

	return data, nil
}

// Unmarshal deserializes the given byte slice into the given value.
func (*DefaultJSONSerializer) Unmarshal(data []byte, v any) error { // receiver omitted (unused)
	err := json.Unmarshal(data, v)
	if err != nil {
		return ewrap.Wrap(err, "failed to unmarshal json")
	}

	return nil
}

// ContentType returns the MIME type of the encoding.
func (*DefaultJSONSerializer) ContentType() string { return "application/json" }
