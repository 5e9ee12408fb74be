package ntrack

import (
	"reflect"
)

// DuplicateDetector decides if a newly registered instance duplicates
// one of the already registered instances of the same type.  It is
// only consulted when there is at least one registered instance and
// the candidate is neither the same value nor Equal to any of them.
//
// FindDuplicate must return a member of registered (or false).
type DuplicateDetector interface {
	FindDuplicate(registered []any, candidate any) (any, bool)
}

// DetectorFunc adapts a function to DuplicateDetector
type DetectorFunc func(registered []any, candidate any) (any, bool)

func (f DetectorFunc) FindDuplicate(registered []any, candidate any) (any, bool) {
	return f(registered, candidate)
}

// Equaler can be implemented by instance items to provide value
// equality.  Two instances that are Equal are duplicates.
type Equaler interface {
	Equal(other any) bool
}

// EqualsDetector is the default policy.  Equality is checked before any
// detector runs so this never reports anything extra: several distinct
// instances of the same type are accepted.
var EqualsDetector DuplicateDetector = DetectorFunc(func([]any, any) (any, bool) {
	return nil, false
})

// LegacySingletonDetector allows at most one instance of each type: any
// second instance duplicates the first one.
var LegacySingletonDetector DuplicateDetector = DetectorFunc(func(registered []any, _ any) (any, bool) {
	if len(registered) == 0 {
		return nil, false
	}
	return registered[0], true
})

// UniqueItemsDetector allows only one instance of each listed type.
// Other types are accepted as with EqualsDetector.
func UniqueItemsDetector(types ...reflect.Type) DuplicateDetector {
	unique := make(map[reflect.Type]struct{}, len(types))
	for _, t := range types {
		unique[t] = struct{}{}
	}
	return DetectorFunc(func(registered []any, candidate any) (any, bool) {
		if _, ok := unique[reflect.TypeOf(candidate)]; !ok {
			return nil, false
		}
		return LegacySingletonDetector.FindDuplicate(registered, candidate)
	})
}

// sameInstance compares instance ids: pointer identity for pointer-like
// values, ItemIdentity() for Identified and the formatted value for
// everything else.
func sameInstance(a, b any) bool {
	if a == nil || b == nil {
		return a == b
	}
	return ItemIDOf(a) == ItemIDOf(b)
}

// equalInstance checks Equal in both directions: a registered instance
// may be an alias type of the candidate.
func equalInstance(registered, candidate any) bool {
	if e, ok := registered.(Equaler); ok && e.Equal(candidate) {
		return true
	}
	if e, ok := candidate.(Equaler); ok && e.Equal(registered) {
		return true
	}
	return false
}

func isMember(registered []any, v any) bool {
	for _, r := range registered {
		if sameInstance(r, v) {
			return true
		}
	}
	return false
}
