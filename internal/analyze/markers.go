package analyze

import (
	"strings"
)

// TagKey is the struct tag key carrying markers.
const TagKey = "meta"

// Well-known marker keys understood by the descriptor layer itself. Every
// other key is interpreted by the provider registry.
const (
	MarkerName      = "name"
	MarkerOperation = "op"
	MarkerAlias     = "alias"
	MarkerCodec     = "codec"
	MarkerDomain    = "domain"
)

// Marker is one declarative item: a bare key ("id") or key=value ("min=1").
type Marker struct {
	Key   string
	Value string
}

// String renders the marker in tag syntax.
func (m Marker) String() string {
	if m.Value == "" {
		return m.Key
	}

	if strings.ContainsAny(m.Value, ", ") {
		return m.Key + "='" + m.Value + "'"
	}

	return m.Key + "=" + m.Value
}

// Markers is an ordered marker list.
type Markers []Marker

// Get returns the value of the first marker with key.
func (m Markers) Get(key string) (string, bool) {
	for _, mk := range m {
		if mk.Key == key {
			return mk.Value, true
		}
	}

	return "", false
}

// Has reports whether a marker with key is present.
func (m Markers) Has(key string) bool {
	_, ok := m.Get(key)
	return ok
}

// Values returns the "|"-separated values of every marker with key.
func (m Markers) Values(key string) []string {
	var out []string

	for _, mk := range m {
		if mk.Key != key || mk.Value == "" {
			continue
		}

		for _, v := range strings.Split(mk.Value, "|") {
			if v = strings.TrimSpace(v); v != "" {
				out = append(out, v)
			}
		}
	}

	return out
}

// String renders the markers in tag syntax.
func (m Markers) String() string {
	parts := make([]string, len(m))
	for i, mk := range m {
		parts[i] = mk.String()
	}

	return strings.Join(parts, ",")
}

// ParseMarker parses one "key" or "key=value" item. Values may be wrapped in
// single quotes.
func ParseMarker(item string) Marker {
	key, value, _ := strings.Cut(strings.TrimSpace(item), "=")
	value = strings.TrimSpace(value)

	if len(value) >= 2 && value[0] == '\'' && value[len(value)-1] == '\'' {
		value = value[1 : len(value)-1]
	}

	return Marker{Key: strings.TrimSpace(key), Value: value}
}

// ParseMarkers parses a list of items, skipping empty ones.
func ParseMarkers(items []string) Markers {
	var out Markers

	for _, item := range items {
		if strings.TrimSpace(item) == "" {
			continue
		}

		out = append(out, ParseMarker(item))
	}

	return out
}

// ParseTag parses a `meta` tag value into the name override, markers and
// the operation flag.
func ParseTag(tag string) (rename string, markers Markers, operation bool) {
	if tag == "-" {
		return "", nil, true
	}

	items := splitItems(tag)
	if len(items) == 0 {
		return "", nil, false
	}

	rename = strings.TrimSpace(items[0])
	markers = ParseMarkers(items[1:])

	return rename, markers, markers.Has(MarkerOperation)
}

// splitItems splits on commas outside single quotes.
func splitItems(tag string) []string {
	var (
		items  []string
		quoted bool
		start  int
	)

	for i := 0; i < len(tag); i++ {
		switch tag[i] {
		case '\'':
			quoted = !quoted
		case ',':
			if !quoted {
				items = append(items, tag[start:i])
				start = i + 1
			}
		}
	}

	return append(items, tag[start:])
}
