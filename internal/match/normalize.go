package match

import (
	"strings"
	"unicode"
)

// NormalizeIdent normalizes an identifier for fuzzy matching.
// The normalization pipeline:
// 1. Tokenize CamelCase and separators.
// 2. Case-fold to lower.
// 3. Join without separators.
func NormalizeIdent(s string) string {
	return strings.Join(TokenizeIdent(s), "")
}

// NormalizeIdentWithSuffixStrip normalizes and strips one common suffix
// token: timestamp, ids, utc, id, at.
func NormalizeIdentWithSuffixStrip(s string) string {
	normalized := NormalizeIdent(s)

	for _, suffix := range []string{"timestamp", "ids", "utc", "id", "at"} {
		if strings.HasSuffix(normalized, suffix) && len(normalized) > len(suffix) {
			return strings.TrimSuffix(normalized, suffix)
		}
	}

	return normalized
}

// TokenizeIdent splits an identifier into lower-case tokens.
// Examples:
//   - "OrderID" -> ["order", "id"]
//   - "customer_name" -> ["customer", "name"]
//   - "XMLParser" -> ["xml", "parser"]
//   - "getHTTPResponse" -> ["get", "http", "response"]
func TokenizeIdent(s string) []string {
	tokens := tokenizeCamelCase(s)
	for i, t := range tokens {
		tokens[i] = strings.ToLower(t)
	}

	return tokens
}

func tokenizeCamelCase(s string) []string {
	if s == "" {
		return nil
	}

	var (
		tokens  []string
		current strings.Builder
	)

	flush := func() {
		if current.Len() > 0 {
			tokens = append(tokens, current.String())
			current.Reset()
		}
	}

	runes := []rune(s)
	for i, r := range runes {
		if isSeparator(r) {
			flush()
			continue
		}

		if i > 0 && startsToken(runes, i) {
			flush()
		}

		current.WriteRune(r)
	}

	flush()

	return tokens
}

func isSeparator(r rune) bool {
	return r == '_' || r == '-' || r == ' ' || r == '.'
}

// startsToken reports whether a new token begins at position i: on a
// lower-to-upper transition ("orderID" before 'I') and at the last upper-case
// rune of an acronym followed by lower case ("XMLParser" before 'P').
func startsToken(runes []rune, i int) bool {
	r, prev := runes[i], runes[i-1]
	if !unicode.IsUpper(r) || isSeparator(prev) {
		return false
	}

	if !unicode.IsUpper(prev) {
		return true
	}

	return i+1 < len(runes) && unicode.IsLower(runes[i+1])
}
