// Package field provides database column values for Postgres array types.
// Array carries a declared type descriptor and plugs into any database/sql
// driver through sql.Scanner and driver.Valuer; the typed variants cover
// the common one-dimensional cases with native slices.
package field

import (
	"database/sql/driver"
	"fmt"

	"github.com/samber/lo"

	"github.com/nrjais/pgarray/pkg/pgarray"
)

// Array is a column value for a declared array type. On the way to the
// driver the elements are coerced and rendered as the array's text
// literal; on the way back the literal is parsed and coerced.
type Array struct {
	Desc  pgarray.Descriptor
	Elems []any

	// staged holds a literal handed over verbatim; it is written to the
	// driver untouched and never re-coerced.
	staged string
}

// New builds an Array from in-memory elements.
func New(desc pgarray.Descriptor, elems []any) Array {
	return Array{Desc: desc, Elems: elems}
}

// NewStaged builds an Array around a pre-rendered literal that should
// reach the driver verbatim.
func NewStaged(desc pgarray.Descriptor, literal string) Array {
	return Array{Desc: desc, staged: literal}
}

// DBType returns the column DDL type, e.g. "int[]".
func (a Array) DBType() string { return a.Desc.DBType() }

// ColumnSpec describes the field for schema introspection tooling.
type ColumnSpec struct {
	DBType    string
	BaseType  string
	Dimension int
}

func (a Array) ColumnSpec() ColumnSpec {
	return ColumnSpec{
		DBType:    a.Desc.DBType(),
		BaseType:  a.Desc.BaseType,
		Dimension: a.Desc.Dimension,
	}
}

// Value implements driver.Valuer.
func (a Array) Value() (driver.Value, error) {
	if a.staged != "" {
		return a.staged, nil
	}
	if a.Elems == nil {
		return nil, nil
	}
	coerced, err := a.Desc.Coerce(a.Elems)
	if err != nil {
		return nil, err
	}
	return pgarray.Literal(coerced), nil
}

// Scan implements sql.Scanner.
func (a *Array) Scan(src any) error {
	if src == nil {
		a.Elems = nil
		a.staged = ""
		return nil
	}
	parsed, err := pgarray.ParseAny(src)
	if err != nil {
		return err
	}
	coerced, err := a.Desc.Coerce(parsed)
	if err != nil {
		return err
	}
	a.Elems = coerced
	a.staged = ""
	return nil
}

// Int64Array is a one-dimensional integer array column value.
type Int64Array []int64

func (a Int64Array) Value() (driver.Value, error) {
	if a == nil {
		return nil, nil
	}
	return pgarray.Literal(lo.ToAnySlice(a)), nil
}

func (a *Int64Array) Scan(src any) error {
	if src == nil {
		*a = nil
		return nil
	}
	coerced, err := scanWith(src, pgarray.Int)
	if err != nil {
		return err
	}
	out := make(Int64Array, len(coerced))
	for i, el := range coerced {
		n, ok := el.(int64)
		if !ok {
			return fmt.Errorf("array element %d is not an integer: %v", i, el)
		}
		out[i] = n
	}
	*a = out
	return nil
}

// Float64Array is a one-dimensional double precision array column value.
type Float64Array []float64

func (a Float64Array) Value() (driver.Value, error) {
	if a == nil {
		return nil, nil
	}
	return pgarray.Literal(lo.ToAnySlice(a)), nil
}

func (a *Float64Array) Scan(src any) error {
	if src == nil {
		*a = nil
		return nil
	}
	coerced, err := scanWith(src, pgarray.Float)
	if err != nil {
		return err
	}
	out := make(Float64Array, len(coerced))
	for i, el := range coerced {
		f, ok := el.(float64)
		if !ok {
			return fmt.Errorf("array element %d is not a number: %v", i, el)
		}
		out[i] = f
	}
	*a = out
	return nil
}

// TextArray is a one-dimensional text array column value.
type TextArray []string

func (a TextArray) Value() (driver.Value, error) {
	if a == nil {
		return nil, nil
	}
	return pgarray.Literal(lo.ToAnySlice(a)), nil
}

func (a *TextArray) Scan(src any) error {
	if src == nil {
		*a = nil
		return nil
	}
	coerced, err := scanWith(src, pgarray.Text)
	if err != nil {
		return err
	}
	out := make(TextArray, len(coerced))
	for i, el := range coerced {
		s, ok := el.(string)
		if !ok {
			return fmt.Errorf("array element %d is not text: %v", i, el)
		}
		out[i] = s
	}
	*a = out
	return nil
}

func scanWith(src any, kind pgarray.Kind) ([]any, error) {
	parsed, err := pgarray.ParseAny(src)
	if err != nil {
		return nil, err
	}
	return kind.Coerce(parsed)
}
