package serializer

import (
	"github.com/hyp3rd/ewrap"
	"github.com/ugorji/go/codec"
)

var cborHandle = &codec.CborHandle{}

// CBORSerializer leverages ugorji's codec to serialize snapshots and events as CBOR.
type CBORSerializer struct{}

// Marshal serializes the given value into a byte slice.
func (*CBORSerializer) Marshal(v any) ([]byte, error) { // receiver omitted (unused)
	var buf []byte

	err := codec.NewEncoderBytes(&buf, cborHandle).Encode(v)
	if err != nil {
		return nil, ewrap.Wrap(err, "failed to marshal cbor")
	}

	return buf, nil
}

// Unmarshal deserializes the given byte slice into the given value.
func (*CBORSerializer) Unmarshal(data []byte, v any) error { // receiver omitted (unused)
	err := codec.NewDecoderBytes(data, cborHandle).Decode(v)
	if err != nil {
		return ewrap.Wrap(err, "failed to unmarshal cbor")
	}

	return nil
}

// ContentType returns the MIME type of the encoding.
func (*CBORSerializer) ContentType() string { return "application/cbor" }
