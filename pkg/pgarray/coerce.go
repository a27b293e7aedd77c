package pgarray

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Kind is the closed set of element coercion strategies. The strategy is
// selected once when a Descriptor is built, never per element at runtime.
type Kind int

const (
	Identity Kind = iota
	Int
	Float
	Text
)

func (k Kind) String() string {
	switch k {
	case Int:
		return "int"
	case Float:
		return "float"
	case Text:
		return "text"
	}
	return "identity"
}

// baseTypeKinds maps declared base type names to coercion strategies.
var baseTypeKinds = map[string]Kind{
	"int":              Int,
	"smallint":         Int,
	"bigint":           Int,
	"text":             Text,
	"varchar":          Text,
	"double precision": Float,
}

// KindForBaseType resolves the coercion strategy for a declared base type
// name. A parenthesized length suffix such as "varchar(32)" is ignored;
// unrecognized names resolve to Identity.
func KindForBaseType(base string) Kind {
	key := base
	if i := strings.IndexByte(key, '('); i >= 0 {
		key = key[:i]
	}
	key = strings.ToLower(strings.TrimSpace(key))
	if k, ok := baseTypeKinds[key]; ok {
		return k
	}
	return Identity
}

// Coerce applies the strategy element-wise, recursing into nested
// sequences. nil input and nil elements pass through untouched; a failed
// element conversion returns a *CoercionError.
func (k Kind) Coerce(v []any) ([]any, error) {
	if v == nil {
		return nil, nil
	}
	out := make([]any, len(v))
	for i, el := range v {
		cv, err := k.coerceElement(el)
		if err != nil {
			return nil, err
		}
		out[i] = cv
	}
	return out, nil
}

func (k Kind) coerceElement(el any) (any, error) {
	switch e := el.(type) {
	case nil:
		return nil, nil
	case []any:
		return k.Coerce(e)
	}

	switch k {
	case Int:
		n, err := coerceInt(el)
		if err != nil {
			return nil, &CoercionError{Element: el, Kind: k, Err: err}
		}
		return n, nil
	case Float:
		f, err := coerceFloat(el)
		if err != nil {
			return nil, &CoercionError{Element: el, Kind: k, Err: err}
		}
		return f, nil
	case Text:
		return textOf(el), nil
	}
	return el, nil
}

func coerceInt(el any) (int64, error) {
	switch e := el.(type) {
	case int64:
		return e, nil
	case int:
		return int64(e), nil
	case int32:
		return int64(e), nil
	case float64:
		if e != math.Trunc(e) {
			return 0, fmt.Errorf("fractional value %v", e)
		}
		return int64(e), nil
	case string:
		return parseIntToken(e)
	case []byte:
		return parseIntToken(string(e))
	}
	return 0, fmt.Errorf("unsupported type %T", el)
}

func parseIntToken(s string) (int64, error) {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("not an integer: %q", s)
	}
	return n, nil
}

func coerceFloat(el any) (float64, error) {
	switch e := el.(type) {
	case float64:
		return e, nil
	case float32:
		return float64(e), nil
	case int64:
		return float64(e), nil
	case int:
		return float64(e), nil
	case int32:
		return float64(e), nil
	case string:
		return parseFloatToken(e)
	case []byte:
		return parseFloatToken(string(e))
	}
	return 0, fmt.Errorf("unsupported type %T", el)
}

func parseFloatToken(s string) (float64, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("not a number: %q", s)
	}
	return f, nil
}

// textOf normalizes any scalar to its single text representation; []byte
// and string collapse to the same form.
func textOf(el any) string {
	switch e := el.(type) {
	case string:
		return e
	case []byte:
		return string(e)
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
	}
	return fmt.Sprint(el)
}
