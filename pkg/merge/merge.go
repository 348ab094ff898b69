// Package merge provides recursive merging of layered configuration maps:
// built-in defaults, model settings, and per-call options.
//
// Only plain map[string]any values merge key-by-key. Slices and every
// other value type are atomic and replace wholesale. Inputs are never
// mutated; the result is a deep copy.
package merge

import (
	"errors"
	"reflect"
)

// ErrCircularReference is returned when an input contains a reference cycle.
var ErrCircularReference = errors.New("merge: circular reference detected")

// unsafeKeys are dropped from every layer. They carry no meaning for
// backend parameters and guard against injection into consumers that
// treat the merged map as a property bag.
var unsafeKeys = map[string]struct{}{
	"__proto__":   {},
	"constructor": {},
	"prototype":   {},
}

// Maps merges layers left to right: keys in later layers take precedence.
// Nested map[string]any values merge recursively; slices and scalar values
// replace wholesale. Nil layers are skipped.
func Maps(layers ...map[string]any) (map[string]any, error) {
	out := make(map[string]any)
	for _, layer := range layers {
		if layer == nil {
			continue
		}
		seen := make(map[uintptr]struct{})
		if err := mergeInto(out, layer, seen); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Merge merges overlay onto base and returns a new map. Neither input is
// modified.
func Merge(base, overlay map[string]any) (map[string]any, error) {
	return Maps(base, overlay)
}

func mergeInto(dst, src map[string]any, seen map[uintptr]struct{}) error {
	ptr := reflect.ValueOf(src).Pointer()
	if _, ok := seen[ptr]; ok {
		return ErrCircularReference
	}
	seen[ptr] = struct{}{}
	defer delete(seen, ptr)

	for key, val := range src {
		if _, unsafe := unsafeKeys[key]; unsafe {
			continue
		}

		srcMap, srcIsMap := val.(map[string]any)
		dstMap, dstIsMap := dst[key].(map[string]any)
		if srcIsMap && dstIsMap {
			if err := mergeInto(dstMap, srcMap, seen); err != nil {
				return err
			}
			continue
		}

		copied, err := copyValue(val, seen)
		if err != nil {
			return err
		}
		dst[key] = copied
	}
	return nil
}

// copyValue deep-copies maps and slices so later merges cannot alias into
// an input layer. All other types, including special object types such as
// time values or functions, are treated as atomic and shared.
func copyValue(val any, seen map[uintptr]struct{}) (any, error) {
	switch v := val.(type) {
	case map[string]any:
		ptr := reflect.ValueOf(v).Pointer()
		if _, ok := seen[ptr]; ok {
			return nil, ErrCircularReference
		}
		seen[ptr] = struct{}{}
		defer delete(seen, ptr)

		out := make(map[string]any, len(v))
		for key, elem := range v {
			if _, unsafe := unsafeKeys[key]; unsafe {
				continue
			}
			copied, err := copyValue(elem, seen)
			if err != nil {
				return nil, err
			}
			out[key] = copied
		}
		return out, nil

	case []any:
		ptr := reflect.ValueOf(v).Pointer()
		if _, ok := seen[ptr]; ok {
			return nil, ErrCircularReference
		}
		seen[ptr] = struct{}{}
		defer delete(seen, ptr)

		out := make([]any, len(v))
		for i, elem := range v {
			copied, err := copyValue(elem, seen)
			if err != nil {
				return nil, err
			}
			out[i] = copied
		}
		return out, nil

	default:
		return val, nil
	}
}
