package codec

import gojson "github.com/goccy/go-json"

// GoJSON encodes exported rows with goccy/go-json. It is the Default codec.
//
// Append writes '<', '>' and '&' verbatim so that string cells survive
// a JSON-lines export byte for byte; Marshal keeps go-json's HTML-safe
// escaping for callers that embed the output elsewhere.
type GoJSON struct{}

func (GoJSON) Name() string { return "go-json" }

func (GoJSON) Marshal(v any) ([]byte, error) { return gojson.Marshal(v) }

// Unmarshal accepts numbers as float64 inside untyped maps, like encoding/json.
func (GoJSON) Unmarshal(data []byte, v any) error { return gojson.Unmarshal(data, v) }

// Append implements Appender. On error dst is returned unchanged.
func (GoJSON) Append(dst []byte, v any) ([]byte, error) {
	cell, err := gojson.MarshalNoEscape(v)
	if err != nil {
		return dst, err
	}
	return append(dst, cell...), nil
}
