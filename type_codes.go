package ntrack

// Types are unified by their fully qualified name.  Two distinct
// reflect.Types can share a name (types declared locally in different
// functions, copies loaded from different plugins).  The first type
// seen for a name wins.

import (
	"reflect"
	"sort"
	"strings"
	"sync"
)

var (
	lock       sync.Mutex
	typeByName = make(map[string]reflect.Type)
	aliasOf    = make(map[reflect.Type]reflect.Type)
	aliasNames = make(map[string]struct{})
)

// qualifiedName is like reflect.Type.String() but uses the full
// package path for named types.
func qualifiedName(t reflect.Type) string {
	switch t.Kind() {
	case reflect.Ptr:
		return "*" + qualifiedName(t.Elem())
	case reflect.Slice:
		return "[]" + qualifiedName(t.Elem())
	}
	if t.Name() != "" && t.PkgPath() != "" {
		return t.PkgPath() + "." + t.Name()
	}
	return t.String()
}

// unifyType returns the first type registered under the qualified name
// of t.  The second return value is true if t is an alias of a
// different type.
func unifyType(t reflect.Type) (reflect.Type, bool) {
	if t == nil {
		return nil, false
	}
	lock.Lock()
	defer lock.Unlock()
	if orig, ok := aliasOf[t]; ok {
		return orig, orig != t
	}
	n := qualifiedName(t)
	orig, ok := typeByName[n]
	if !ok {
		typeByName[n] = t
		aliasOf[t] = t
		return t, false
	}
	aliasOf[t] = orig
	if orig != t {
		aliasNames[n] = struct{}{}
		return orig, true
	}
	return t, false
}

// aliasedTypes lists type names that refer to more than one type
func aliasedTypes() []string {
	lock.Lock()
	defer lock.Unlock()
	names := make([]string, 0, len(aliasNames))
	for n := range aliasNames {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func aliasedTypesString() string {
	names := aliasedTypes()
	if len(names) == 0 {
		return ""
	}
	return " " + strings.Join(names, " ")
}
