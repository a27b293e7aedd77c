package pgarray

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindForBaseType(t *testing.T) {
	tests := []struct {
		base     string
		expected Kind
	}{
		{"int", Int},
		{"smallint", Int},
		{"bigint", Int},
		{"text", Text},
		{"varchar", Text},
		{"varchar(32)", Text},
		{"double precision", Float},
		{"DOUBLE PRECISION", Float},
		{"  bigint  ", Int},
		{"uuid", Identity},
		{"", Identity},
	}

	for _, tt := range tests {
		t.Run(tt.base, func(t *testing.T) {
			assert.Equal(t, tt.expected, KindForBaseType(tt.base))
		})
	}
}

func TestCoerce_Int(t *testing.T) {
	got, err := Int.Coerce([]any{"1", "2", "3"})
	require.NoError(t, err)
	assert.Equal(t, []any{int64(1), int64(2), int64(3)}, got)

	got, err = Int.Coerce([]any{int64(4), 5, float64(6)})
	require.NoError(t, err)
	assert.Equal(t, []any{int64(4), int64(5), int64(6)}, got)

	got, err = Int.Coerce([]any{" 7 ", nil})
	require.NoError(t, err)
	assert.Equal(t, []any{int64(7), nil}, got)
}

func TestCoerce_IntFailure(t *testing.T) {
	tests := []struct {
		name    string
		element any
	}{
		{name: "non numeric text", element: "abc"},
		{name: "fractional float", element: 1.5},
		{name: "fractional text", element: "1.5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Int.Coerce([]any{tt.element})
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrCoercion)

			var cerr *CoercionError
			require.True(t, errors.As(err, &cerr))
			assert.Equal(t, tt.element, cerr.Element)
			assert.Equal(t, Int, cerr.Kind)
		})
	}
}

func TestCoerce_Float(t *testing.T) {
	got, err := Float.Coerce([]any{"1.5", "2.5"})
	require.NoError(t, err)
	assert.Equal(t, []any{1.5, 2.5}, got)

	got, err = Float.Coerce([]any{int64(1), 2, "3e2"})
	require.NoError(t, err)
	assert.Equal(t, []any{1.0, 2.0, 300.0}, got)

	_, err = Float.Coerce([]any{"abc"})
	assert.ErrorIs(t, err, ErrCoercion)
}

func TestCoerce_Text(t *testing.T) {
	got, err := Text.Coerce([]any{"a", "b"})
	require.NoError(t, err)
	assert.Equal(t, []any{"a", "b"}, got)

	// Bytes and numbers normalize to their single text representation.
	got, err = Text.Coerce([]any{[]byte("raw"), int64(7), 1.5})
	require.NoError(t, err)
	assert.Equal(t, []any{"raw", "7", "1.5"}, got)
}

func TestCoerce_Identity(t *testing.T) {
	in := []any{"a", int64(1), 2.5, nil}
	got, err := Identity.Coerce(in)
	require.NoError(t, err)
	assert.Equal(t, in, got)
}

func TestCoerce_Nested(t *testing.T) {
	got, err := Int.Coerce([]any{[]any{"1", "2"}, []any{"3", "4"}})
	require.NoError(t, err)
	assert.Equal(t, []any{[]any{int64(1), int64(2)}, []any{int64(3), int64(4)}}, got)

	_, err = Int.Coerce([]any{[]any{"1", "x"}})
	assert.ErrorIs(t, err, ErrCoercion)
}

func TestCoerce_NilInput(t *testing.T) {
	got, err := Int.Coerce(nil)
	require.NoError(t, err)
	assert.Nil(t, got)
}
