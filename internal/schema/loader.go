package schema

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultNamespace is the package path given to types of a file declaring
// none.
const DefaultNamespace = "schema"

// LoadFile reads and parses a schema file.
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema file %s: %w", path, err)
	}

	return Parse(data)
}

// Parse parses a schema document.
func Parse(data []byte) (*File, error) {
	var f File

	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse schema YAML: %w", err)
	}

	applyDefaults(&f)

	return &f, nil
}

func applyDefaults(f *File) {
	if f.Version == "" {
		f.Version = "1"
	}

	if f.Namespace == "" {
		f.Namespace = DefaultNamespace
	}
}

// Marshal serializes a schema document.
func Marshal(f *File) ([]byte, error) {
	return yaml.Marshal(f)
}
