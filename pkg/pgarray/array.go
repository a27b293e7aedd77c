// Package pgarray converts between the textual Postgres array literal
// representation and in-memory ordered sequences, with per-element type
// coercion. Sequences are []any whose elements are int64, float64, string,
// nil, or a nested []any for multi-dimensional arrays.
package pgarray

import (
	"fmt"
	"strconv"
	"strings"
)

// Parse converts a textual array representation into an ordered sequence.
// Input is a comma-separated list of tokens, optionally wrapped in braces
// or brackets as a whole. Tokens wrapped in braces/brackets parse
// recursively as nested arrays; double-quoted tokens carry literal commas,
// braces and backslash-escaped quotes; everything else stays text.
// Empty or blank input yields nil without error. Malformed input fails
// with a *ParseError.
func Parse(s string) ([]any, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}

	if inner, ok, err := stripOuter(s); err != nil {
		return nil, err
	} else if ok {
		inner = strings.TrimSpace(inner)
		if inner == "" {
			return []any{}, nil
		}
		return parseList(inner)
	}

	return parseList(s)
}

// ParseAny parses textual input and echoes already-structured input back
// unchanged, so repeated parsing is idempotent. nil yields nil.
func ParseAny(v any) ([]any, error) {
	switch t := v.(type) {
	case nil:
		return nil, nil
	case []any:
		return t, nil
	case string:
		return Parse(t)
	case []byte:
		return Parse(string(t))
	}
	return nil, &ParseError{Input: fmt.Sprint(v), Reason: fmt.Sprintf("unsupported input type %T", v)}
}

// Serialize renders a sequence as comma-separated text, wrapping nested
// sequences in braces. nil elements render as empty tokens; string
// elements that would be ambiguous are double-quoted so that
// Parse(Serialize(v)) restores v.
func Serialize(v []any) string {
	if len(v) == 0 {
		return ""
	}
	parts := make([]string, len(v))
	for i, el := range v {
		parts[i] = renderElement(el)
	}
	return strings.Join(parts, ",")
}

// Literal renders the full array literal, outer braces included, as sent
// to and returned by the database.
func Literal(v []any) string {
	return "{" + Serialize(v) + "}"
}

func parseList(s string) ([]any, error) {
	tokens, err := splitTop(s)
	if err != nil {
		return nil, err
	}
	out := make([]any, 0, len(tokens))
	for _, tok := range tokens {
		el, err := parseToken(tok)
		if err != nil {
			return nil, err
		}
		out = append(out, el)
	}
	return out, nil
}

func parseToken(tok string) (any, error) {
	tok = strings.TrimSpace(tok)
	if tok == "" {
		return nil, nil
	}
	switch tok[0] {
	case '{', '[':
		end, err := matchClose(tok, 0)
		if err != nil {
			return nil, err
		}
		if end != len(tok)-1 {
			return nil, &ParseError{Input: tok, Pos: end + 1, Reason: "trailing data after nested array"}
		}
		inner := strings.TrimSpace(tok[1:end])
		if inner == "" {
			return []any{}, nil
		}
		return parseList(inner)
	case '"':
		return unquote(tok)
	}
	return tok, nil
}

// stripOuter removes a brace/bracket wrapper only when it encloses the
// whole input, so "{1,2},{3,4}" keeps its two nested tokens intact.
func stripOuter(s string) (string, bool, error) {
	if len(s) < 2 || (s[0] != '{' && s[0] != '[') {
		return "", false, nil
	}
	end, err := matchClose(s, 0)
	if err != nil {
		return "", false, err
	}
	if end != len(s)-1 {
		return "", false, nil
	}
	return s[1:end], true, nil
}

// matchClose returns the index of the bracket closing the opener at start.
func matchClose(s string, start int) (int, error) {
	var stack []byte
	inQuote := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inQuote {
			switch c {
			case '\\':
				i++
			case '"':
				inQuote = false
			}
			continue
		}
		switch c {
		case '"':
			inQuote = true
		case '{', '[':
			stack = append(stack, c)
		case '}', ']':
			if len(stack) == 0 {
				return 0, &ParseError{Input: s, Pos: i, Reason: "unexpected closing bracket"}
			}
			open := stack[len(stack)-1]
			if (c == '}') != (open == '{') {
				return 0, &ParseError{Input: s, Pos: i, Reason: "mismatched bracket"}
			}
			stack = stack[:len(stack)-1]
			if len(stack) == 0 {
				return i, nil
			}
		}
	}
	if inQuote {
		return 0, &ParseError{Input: s, Pos: len(s), Reason: "unterminated quoted element"}
	}
	return 0, &ParseError{Input: s, Pos: len(s), Reason: "unbalanced array nesting"}
}

// splitTop splits on commas at nesting depth zero, leaving quoted and
// nested content intact.
func splitTop(s string) ([]string, error) {
	var tokens []string
	var stack []byte
	inQuote := false
	start := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		if inQuote {
			switch c {
			case '\\':
				i++
				if i >= len(s) {
					return nil, &ParseError{Input: s, Pos: i, Reason: "trailing escape"}
				}
			case '"':
				inQuote = false
			}
			continue
		}
		switch c {
		case '"':
			inQuote = true
		case '{', '[':
			stack = append(stack, c)
		case '}', ']':
			if len(stack) == 0 {
				return nil, &ParseError{Input: s, Pos: i, Reason: "unexpected closing bracket"}
			}
			open := stack[len(stack)-1]
			if (c == '}') != (open == '{') {
				return nil, &ParseError{Input: s, Pos: i, Reason: "mismatched bracket"}
			}
			stack = stack[:len(stack)-1]
		case ',':
			if len(stack) == 0 {
				tokens = append(tokens, s[start:i])
				start = i + 1
			}
		}
	}
	if inQuote {
		return nil, &ParseError{Input: s, Pos: len(s), Reason: "unterminated quoted element"}
	}
	if len(stack) > 0 {
		return nil, &ParseError{Input: s, Pos: len(s), Reason: "unbalanced array nesting"}
	}
	return append(tokens, s[start:]), nil
}

func unquote(tok string) (string, error) {
	if len(tok) < 2 || tok[len(tok)-1] != '"' {
		return "", &ParseError{Input: tok, Pos: len(tok), Reason: "unterminated quoted element"}
	}
	var b strings.Builder
	for i := 1; i < len(tok)-1; i++ {
		c := tok[i]
		switch c {
		case '\\':
			i++
			if i >= len(tok)-1 {
				return "", &ParseError{Input: tok, Pos: i, Reason: "trailing escape"}
			}
			b.WriteByte(tok[i])
		case '"':
			return "", &ParseError{Input: tok, Pos: i, Reason: "unescaped quote in element"}
		default:
			b.WriteByte(c)
		}
	}
	return b.String(), nil
}

func renderElement(el any) string {
	switch e := el.(type) {
	case nil:
		return ""
	case []any:
		return "{" + Serialize(e) + "}"
	case string:
		return quoteIfNeeded(e)
	case []byte:
		return quoteIfNeeded(string(e))
	case int:
		return strconv.Itoa(e)
	case int32:
		return strconv.FormatInt(int64(e), 10)
	case int64:
		return strconv.FormatInt(e, 10)
	case float32:
		return strconv.FormatFloat(float64(e), 'g', -1, 32)
	case float64:
		return strconv.FormatFloat(e, 'g', -1, 64)
	case bool:
		return strconv.FormatBool(e)
	}
	return quoteIfNeeded(fmt.Sprint(el))
}

// quoteIfNeeded double-quotes a string element whose raw form would be
// ambiguous: empty, surrounded by whitespace, or containing delimiter,
// bracket, quote or escape characters.
func quoteIfNeeded(s string) string {
	if s != "" && s == strings.TrimSpace(s) && !strings.ContainsAny(s, `,{}[]"\`) {
		return s
	}
	var b strings.Builder
	b.WriteByte('"')
	for i := 0; i < len(s); i++ {
		if s[i] == '"' || s[i] == '\\' {
			b.WriteByte('\\')
		}
		b.WriteByte(s[i])
	}
	b.WriteByte('"')
	return b.String()
}
