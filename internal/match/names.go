package match

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// NameStyle selects how component names are derived from Go member names.
type NameStyle string

const (
	// NameStyleCamel derives lowerCamel names: CustomerID -> customerId.
	NameStyleCamel NameStyle = "camel"
	// NameStyleSnake derives snake_case names: CustomerID -> customer_id.
	NameStyleSnake NameStyle = "snake"
	// NameStyleGo keeps the Go member name unchanged.
	NameStyleGo NameStyle = "go"
)

// ParseNameStyle validates a configured style; the empty string means camel.
func ParseNameStyle(s string) (NameStyle, error) {
	switch NameStyle(s) {
	case "", NameStyleCamel:
		return NameStyleCamel, nil
	case NameStyleSnake, NameStyleGo:
		return NameStyle(s), nil
	default:
		return "", fmt.Errorf("unknown name style %q (expected camel, snake or go)", s)
	}
}

// DeriveName converts a Go member name into a component name.
func DeriveName(goName string, style NameStyle) string {
	tokens := TokenizeIdent(goName)
	if len(tokens) == 0 {
		return goName
	}

	switch style {
	case NameStyleGo:
		return goName
	case NameStyleSnake:
		return strings.Join(tokens, "_")
	default:
		var b strings.Builder
		b.WriteString(tokens[0])
		for _, t := range tokens[1:] {
			r, size := utf8.DecodeRuneInString(t)
			b.WriteRune(unicode.ToUpper(r))
			b.WriteString(t[size:])
		}
		return b.String()
	}
}
