package types

import (
	"encoding/base64"
	"encoding/json"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// Base64PngPrefix is the data URL header every Base64Png starts with.
const Base64PngPrefix = "data:image/png;base64,"

// base64PayloadRegexp requires a non-empty payload with padding only at
// the end.
var base64PayloadRegexp = regexp.MustCompile(`^[A-Za-z0-9+/]+={0,2}$`)

// Base64Png is a PNG image encoded as a data URL. It is the shape screen
// frames and templates travel in between the UI and the backend.
type Base64Png struct {
	s string
}

// IsValidBase64Png reports whether s is a PNG data URL with a well-formed
// base64 payload.
func IsValidBase64Png(s string) bool {
	payload, ok := strings.CutPrefix(s, Base64PngPrefix)
	return ok && base64PayloadRegexp.MatchString(payload)
}

// NewBase64Png validates s and returns it as a Base64Png.
func NewBase64Png(s string) (Base64Png, error) {
	if !IsValidBase64Png(s) {
		return Base64Png{}, invalid("base64 png", truncate(s, 48))
	}
	return Base64Png{s: s}, nil
}

// MustBase64Png is like NewBase64Png but panics on invalid input.
func MustBase64Png(s string) Base64Png {
	b, err := NewBase64Png(s)
	if err != nil {
		panic(err)
	}
	return b
}

// Base64PngFromBytes wraps encoded PNG bytes in a data URL. Empty input has
// no valid encoding and is rejected.
func Base64PngFromBytes(png []byte) (Base64Png, error) {
	return NewBase64Png(Base64PngPrefix + base64.StdEncoding.EncodeToString(png))
}

func (b Base64Png) String() string {
	return b.s
}

func (b Base64Png) IsZero() bool {
	return b.s == ""
}

// Payload returns the base64 text after the prefix.
func (b Base64Png) Payload() string {
	return strings.TrimPrefix(b.s, Base64PngPrefix)
}

// Decode returns the raw PNG bytes. The payload alphabet was checked at
// construction, but the length may still be inconsistent with its padding.
func (b Base64Png) Decode() ([]byte, error) {
	payload := b.Payload()
	if strings.HasSuffix(payload, "=") {
		return base64.StdEncoding.DecodeString(payload)
	}
	return base64.RawStdEncoding.DecodeString(payload)
}

func (b Base64Png) MarshalJSON() ([]byte, error) {
	return json.Marshal(b.s)
}

func (b *Base64Png) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return invalid("base64 png", truncate(string(data), 48))
	}
	v, err := NewBase64Png(raw)
	if err != nil {
		return err
	}
	*b = v
	return nil
}

func (b Base64Png) MarshalYAML() (interface{}, error) {
	return b.s, nil
}

func (b *Base64Png) UnmarshalYAML(node *yaml.Node) error {
	v, err := NewBase64Png(node.Value)
	if err != nil {
		return err
	}
	*b = v
	return nil
}

// truncate keeps error messages readable when the offending value is a
// whole encoded frame.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
