package codec

import (
	"encoding/json"
)

// JSON is the standard-library JSON codec.
//
// Output matches GoJSON for the values tables produce; it exists for
// callers that must avoid the extra dependency at runtime or need
// encoding/json's exact escaping.
type JSON struct{}

// Marshal encodes the value to JSON.
func (JSON) Marshal(v any) ([]byte, error) { return json.Marshal(v) }

// Unmarshal decodes the JSON data into v.
func (JSON) Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }

// Name returns the unique name of the codec ("json").
func (JSON) Name() string { return "json" }

// Default is the codec used when none is configured.
var Default Codec = GoJSON{}
