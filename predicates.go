package ntrack

import (
	"fmt"
	"reflect"
	"strings"
)

// Matcher is a condition on an ItemInfo.  Matchers are used both as
// disable predicates and as filters for ConfigurationInfo queries.
type Matcher interface {
	Matches(*ItemInfo) bool
}

// MatcherFunc adapts a function to Matcher.  The name is only used by
// String().
func MatcherFunc(name string, f func(*ItemInfo) bool) Matcher {
	return funcMatcher{name: name, f: f}
}

type funcMatcher struct {
	name string
	f    func(*ItemInfo) bool
}

func (m funcMatcher) Matches(info *ItemInfo) bool { return m.f(info) }
func (m funcMatcher) String() string               { return m.name }

type andMatcher []Matcher

type orMatcher []Matcher

type notMatcher struct {
	m Matcher
}

// And matches when all of the matchers match.  And() matches everything.
func And(matchers ...Matcher) Matcher {
	if len(matchers) == 1 {
		return matchers[0]
	}
	return andMatcher(matchers)
}

// Or matches when any of the matchers match.  Or() matches nothing.
func Or(matchers ...Matcher) Matcher {
	if len(matchers) == 1 {
		return matchers[0]
	}
	return orMatcher(matchers)
}

// Not inverts a matcher
func Not(m Matcher) Matcher {
	if n, ok := m.(notMatcher); ok {
		return n.m
	}
	return notMatcher{m: m}
}

func (a andMatcher) Matches(info *ItemInfo) bool {
	for _, m := range a {
		if !m.Matches(info) {
			return false
		}
	}
	return true
}

func (o orMatcher) Matches(info *ItemInfo) bool {
	for _, m := range o {
		if m.Matches(info) {
			return true
		}
	}
	return false
}

func (n notMatcher) Matches(info *ItemInfo) bool { return !n.m.Matches(info) }

func (a andMatcher) String() string { return "(" + joinMatchers(a, " and ") + ")" }
func (o orMatcher) String() string  { return "(" + joinMatchers(o, " or ") + ")" }
func (n notMatcher) String() string { return "not " + matcherString(n.m) }

func joinMatchers(ms []Matcher, sep string) string {
	s := make([]string, len(ms))
	for i, m := range ms {
		s[i] = matcherString(m)
	}
	return strings.Join(s, sep)
}

func matcherString(m Matcher) string {
	if s, ok := m.(fmt.Stringer); ok {
		return s.String()
	}
	return fmt.Sprintf("%T", m)
}

//
// Read view filters
//

// Enabled matches items that have not been disabled
var Enabled = MatcherFunc("enabled", func(info *ItemInfo) bool { return info.IsEnabled() })

// Disabled matches items that have been disabled
var Disabled = Not(Enabled)

// FromScan matches items found by the classpath scan
var FromScan = MatcherFunc("from-scan", func(info *ItemInfo) bool { return info.IsFromScan() })

// LookupBundles matches bundles registered by the bundle lookup
var LookupBundles = MatcherFunc("lookup-bundle", func(info *ItemInfo) bool {
	return info.kind == KindBundle && info.fromLookup
})

// TransitiveBundles matches bundles registered by other bundles
var TransitiveBundles = MatcherFunc("transitive-bundle", func(info *ItemInfo) bool {
	return info.kind == KindBundle && info.transitive
})

// RegisteredByScope matches items where any of the registrations
// came from scope, including ignored registrations.
func RegisteredByScope(scope ItemID) Matcher {
	return MatcherFunc("registered-by "+scope.String(), func(info *ItemInfo) bool {
		return containsMatch(info.registeredBy, scope)
	})
}

// DisabledByScope matches items that were disabled by scope
func DisabledByScope(scope ItemID) Matcher {
	return MatcherFunc("disabled-by "+scope.String(), func(info *ItemInfo) bool {
		return containsMatch(info.disabledBy, scope)
	})
}

// InstalledBy matches extensions recognized by the installer type
func InstalledBy(installer reflect.Type) Matcher {
	return MatcherFunc("installed-by "+TypeID(installer).String(), func(info *ItemInfo) bool {
		return info.kind == KindExtension && info.installedBy == installer
	})
}
