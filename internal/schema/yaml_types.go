package schema

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// UnmarshalYAML accepts a single string or a sequence of strings.
func (s *StringOrArray) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var str string
		if err := node.Decode(&str); err != nil {
			return err
		}

		*s = StringOrArray{}
		if str != "" {
			*s = StringOrArray{str}
		}

		return nil

	case yaml.SequenceNode:
		var arr []string
		if err := node.Decode(&arr); err != nil {
			return err
		}

		*s = arr

		return nil

	default:
		return fmt.Errorf("line %d: expected string or list of strings", node.Line)
	}
}

// MarshalYAML writes a single element as a plain string.
func (s StringOrArray) MarshalYAML() (any, error) {
	if len(s) == 1 {
		return s[0], nil
	}

	return []string(s), nil
}
