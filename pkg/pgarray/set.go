package pgarray

import (
	"cmp"
	"slices"
)

// DedupSort removes duplicate elements and returns the remainder in
// ascending order. It is defined only for flat sequences whose elements
// share one orderable scalar type (all int64, all float64, or all string,
// typically after coercion); mixed, nested or nil elements fail with
// ErrUnorderable.
func DedupSort(v []any) ([]any, error) {
	if len(v) == 0 {
		return v, nil
	}
	switch v[0].(type) {
	case int64:
		if out, ok := dedupSortAs[int64](v); ok {
			return out, nil
		}
	case float64:
		if out, ok := dedupSortAs[float64](v); ok {
			return out, nil
		}
	case string:
		if out, ok := dedupSortAs[string](v); ok {
			return out, nil
		}
	}
	return nil, ErrUnorderable
}

func dedupSortAs[T cmp.Ordered](v []any) ([]any, bool) {
	xs := make([]T, 0, len(v))
	for _, el := range v {
		x, ok := el.(T)
		if !ok {
			return nil, false
		}
		xs = append(xs, x)
	}
	slices.Sort(xs)
	xs = slices.Compact(xs)
	out := make([]any, len(xs))
	for i, x := range xs {
		out[i] = x
	}
	return out, true
}
