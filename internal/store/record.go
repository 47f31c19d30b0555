// Package store implements a generic record store over a pluggable keyed
// backend. Bulk operations are split into bounded partitions and every
// committed mutation is fanned out to the registered listeners in commit order.
package store

import "reflect"

// Record is any entity with a unique, immutable, non-empty identifier.
type Record interface {
	GetID() string
}

// isNil reports whether v is nil or a typed nil pointer hiding in an interface.
func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface, reflect.Func, reflect.Chan:
		return rv.IsNil()
	}
	return false
}

// idOf returns the identifier of value, or "" when value is nil.
func idOf[T Record](value T) string {
	if isNil(value) {
		return ""
	}
	return value.GetID()
}
