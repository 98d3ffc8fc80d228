package bind

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/ianaindex"
	"gopkg.in/yaml.v3"

	"metabind/internal/match"
	"metabind/primitive"
)

// SparseField is data found in an instance with no place in the model.
type SparseField struct {
	Path string
	// Key is the map key the data was found under, if any.
	Key string
	// Suggestion is the nearest model path, or empty.
	Suggestion string

	raw      []byte
	value    any
	hasValue bool
}

// Bytes returns the raw data.
func (s SparseField) Bytes() []byte { return s.raw }

// Value returns the original value when the data came from an instance
// rather than a stream.
func (s SparseField) Value() (any, bool) { return s.value, s.hasValue }

// String decodes the raw data using an IANA charset name. An empty name
// means UTF-8.
func (s SparseField) String(charset string) (string, error) {
	switch strings.ToLower(charset) {
	case "", "utf-8", "utf8":
		if !utf8.Valid(s.raw) {
			return "", fmt.Errorf("sparse %s: invalid UTF-8", s.Path)
		}
		return string(s.raw), nil
	}

	enc, err := ianaindex.IANA.Encoding(charset)
	if err != nil {
		return "", fmt.Errorf("sparse %s: %w", s.Path, err)
	}

	if enc == nil {
		return "", fmt.Errorf("sparse %s: charset %q is not supported", s.Path, charset)
	}

	out, err := enc.NewDecoder().Bytes(s.raw)
	if err != nil {
		return "", fmt.Errorf("sparse %s: %w", s.Path, err)
	}

	return string(out), nil
}

// Coerce converts the data to kind, best effort. The original value is used
// when present, otherwise the raw bytes are read as text.
func (s SparseField) Coerce(kind primitive.KindEnum) (any, error) {
	if s.hasValue && primitive.FromValue(s.value).IsValid() {
		return primitive.Convert(s.value, kind, primitive.CategoryLenient)
	}

	if kind == primitive.KindBytes {
		return s.raw, nil
	}

	return primitive.Convert(string(s.raw), kind, primitive.CategoryLenient)
}

func rawSparse(path, key string, raw []byte) SparseField {
	return SparseField{Path: path, Key: key, raw: raw}
}

func valueSparse(path, key string, v any) SparseField {
	return SparseField{Path: path, Key: key, raw: rawOf(v), value: v, hasValue: true}
}

// rawOf renders an instance value as bytes: text for scalars, YAML otherwise.
func rawOf(v any) []byte {
	switch x := v.(type) {
	case nil:
		return nil
	case []byte:
		return x
	case string:
		return []byte(x)
	}

	if primitive.FromValue(v).IsValid() {
		if s, err := primitive.Convert(v, primitive.KindString, primitive.CategoryAll); err == nil {
			return []byte(s.(string))
		}
	}

	out, err := yaml.Marshal(v)
	if err != nil {
		return []byte(fmt.Sprint(v))
	}

	return out
}

func suggest(path string, known []string, minScore float64) string {
	if s := match.Suggest(path, known, minScore, 1); len(s) > 0 {
		return s[0].Path
	}

	return ""
}
