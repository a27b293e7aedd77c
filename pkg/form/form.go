// Package form adapts array columns to text-input editing: rendering a
// stored value into an editable string and turning submitted text back
// into a coerced, validated sequence.
package form

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/nrjais/pgarray/pkg/pgarray"
)

// ErrInvalidList is the fixed user-facing message for submitted text that
// is not a well-formed array.
var ErrInvalidList = errors.New("please provide a comma-separated list of values")

var validate = validator.New()

// Field accepts user-submitted text for an array column and renders
// stored values back into an editable text input.
type Field struct {
	Desc pgarray.Descriptor

	// ItemRule is an optional validator rule applied to every coerced
	// element, e.g. "min=0" or "max=100".
	ItemRule string
}

// PrepareValue renders a stored value for a text input. Strings are user
// input already and pass through untouched; nil renders empty.
func (f Field) PrepareValue(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case []any:
		return pgarray.Serialize(t)
	}
	return fmt.Sprint(v)
}

// Clean parses, coerces and validates submitted input. Malformed text
// surfaces as ErrInvalidList; coercion and rule failures propagate with
// their own errors.
func (f Field) Clean(input any) ([]any, error) {
	parsed, err := pgarray.ParseAny(input)
	if err != nil {
		if errors.Is(err, pgarray.ErrMalformedArray) {
			return nil, ErrInvalidList
		}
		return nil, err
	}

	coerced, err := f.Desc.Coerce(parsed)
	if err != nil {
		return nil, err
	}

	if f.ItemRule != "" {
		if err := validateItems(coerced, f.ItemRule); err != nil {
			return nil, err
		}
	}
	return coerced, nil
}

func validateItems(v []any, rule string) error {
	for _, el := range v {
		if nested, ok := el.([]any); ok {
			if err := validateItems(nested, rule); err != nil {
				return err
			}
			continue
		}
		if el == nil {
			continue
		}
		if err := validate.Var(el, rule); err != nil {
			return fmt.Errorf("element %v failed rule %q: %w", el, rule, err)
		}
	}
	return nil
}

// SetField is Field with set semantics: duplicates removed and elements
// returned in ascending order. Only homogeneous orderable element types
// are supported; see pgarray.DedupSort.
type SetField struct {
	Field
}

// Clean parses and coerces like Field.Clean, then dedups and sorts.
func (f SetField) Clean(input any) ([]any, error) {
	vals, err := f.Field.Clean(input)
	if err != nil {
		return nil, err
	}
	if vals == nil {
		return nil, nil
	}
	return pgarray.DedupSort(vals)
}
