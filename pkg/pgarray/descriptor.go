package pgarray

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Descriptor pairs a declared element base type with the array's nesting
// depth. The coercion strategy is resolved once at construction from the
// base type name.
type Descriptor struct {
	BaseType  string `validate:"required"`
	Dimension int    `validate:"min=1"`

	kind Kind
}

// NewDescriptor builds and validates a Descriptor.
func NewDescriptor(baseType string, dimension int) (Descriptor, error) {
	d := Descriptor{BaseType: baseType, Dimension: dimension}
	if err := validate.Struct(d); err != nil {
		return Descriptor{}, fmt.Errorf("invalid array descriptor (%q, %d): %w", baseType, dimension, err)
	}
	d.kind = KindForBaseType(baseType)
	return d, nil
}

// MustDescriptor is NewDescriptor for statically known descriptors.
func MustDescriptor(baseType string, dimension int) Descriptor {
	d, err := NewDescriptor(baseType, dimension)
	if err != nil {
		panic(err)
	}
	return d
}

// Kind returns the coercion strategy resolved at construction. The zero
// Descriptor coerces with Identity.
func (d Descriptor) Kind() Kind { return d.kind }

// DBType renders the column DDL type, e.g. "double precision[]" or
// "int[][]" for a two-dimensional array.
func (d Descriptor) DBType() string {
	return d.BaseType + strings.Repeat("[]", d.Dimension)
}

// Coerce applies the descriptor's strategy to a parsed sequence.
func (d Descriptor) Coerce(v []any) ([]any, error) {
	return d.kind.Coerce(v)
}
