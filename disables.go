package ntrack

import (
	"reflect"
	"strings"
)

// Disable predicates.  Combine them with And, Or and Not and pass them
// to Context.RegisterDisablePredicates.

// RegisteredBy matches items whose (first) registration scope matches
// one of scopes.  A class id scope matches every instance of that type.
func RegisteredBy(scopes ...ItemID) Matcher {
	names := make([]string, len(scopes))
	for i, s := range scopes {
		names[i] = s.String()
	}
	return MatcherFunc("registered-by("+strings.Join(names, ",")+")", func(info *ItemInfo) bool {
		return containsMatch(scopes, info.scope)
	})
}

// RegisteredByKind matches items whose registration scope is one
// of kinds.
func RegisteredByKind(kinds ...ScopeKind) Matcher {
	names := make([]string, len(kinds))
	for i, k := range kinds {
		names[i] = k.String()
	}
	return MatcherFunc("registered-by-kind("+strings.Join(names, ",")+")", func(info *ItemInfo) bool {
		if info.scope.IsZero() {
			return false
		}
		for _, k := range kinds {
			if info.scopeKind == k {
				return true
			}
		}
		return false
	})
}

// ItemKinds matches items of any of the given kinds
func ItemKinds(kinds ...ItemKind) Matcher {
	names := make([]string, len(kinds))
	for i, k := range kinds {
		names[i] = k.String()
	}
	return MatcherFunc("kind("+strings.Join(names, ",")+")", func(info *ItemInfo) bool {
		for _, k := range kinds {
			if info.kind == k {
				return true
			}
		}
		return false
	})
}

// Extension matches extensions that also match all of the given matchers
func Extension(also ...Matcher) Matcher { return kindAnd(KindExtension, also) }

// Module matches modules that also match all of the given matchers
func Module(also ...Matcher) Matcher { return kindAnd(KindModule, also) }

// Bundle matches bundles that also match all of the given matchers
func Bundle(also ...Matcher) Matcher { return kindAnd(KindBundle, also) }

// ExternalBundle matches external bundles that also match all of the
// given matchers.
func ExternalBundle(also ...Matcher) Matcher { return kindAnd(KindExternalBundle, also) }

// Installer matches installers that also match all of the given matchers
func Installer(also ...Matcher) Matcher { return kindAnd(KindInstaller, also) }

func kindAnd(kind ItemKind, also []Matcher) Matcher {
	return And(append([]Matcher{ItemKinds(kind)}, also...)...)
}

// Types matches items whose type is one of types
func Types(types ...reflect.Type) Matcher {
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = TypeID(t).String()
	}
	return MatcherFunc("type("+strings.Join(names, ",")+")", func(info *ItemInfo) bool {
		for _, t := range types {
			if info.Type() == t {
				return true
			}
		}
		return false
	})
}

// InPackage matches items whose type (or pointed to type) is declared
// in one of the packages or in a sub-package of one of them.
func InPackage(pkgs ...string) Matcher {
	return MatcherFunc("package("+strings.Join(pkgs, ",")+")", func(info *ItemInfo) bool {
		t := info.Type()
		for t != nil && t.Kind() == reflect.Ptr {
			t = t.Elem()
		}
		if t == nil {
			return false
		}
		p := t.PkgPath()
		for _, pkg := range pkgs {
			if p == pkg || strings.HasPrefix(p, pkg+"/") {
				return true
			}
		}
		return false
	})
}

// WebExtension matches extensions installed as web (servlet or filter)
// extensions.
var WebExtension = Extension(MatcherFunc("web", func(info *ItemInfo) bool { return info.web }))

// JerseyExtension matches extensions managed by jersey
var JerseyExtension = Extension(MatcherFunc("jersey", func(info *ItemInfo) bool { return info.jersey }))
