package ntrack

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func registeredInfo(kind ItemKind, item any, scope ItemID, scopeKind ScopeKind) *ItemInfo {
	info := newItemInfo(kind, item)
	info.countRegistrationAttempt(scope, scopeKind)
	return info
}

func TestMatcherCombinators(t *testing.T) {
	t.Parallel()
	yes := MatcherFunc("yes", func(*ItemInfo) bool { return true })
	no := MatcherFunc("no", func(*ItemInfo) bool { return false })
	info := registeredInfo(KindModule, &dbModule{}, ApplicationScope, ScopeApplication)

	cases := []struct {
		m    Matcher
		want bool
		str  string
	}{
		{m: And(yes, no), want: false, str: "(yes and no)"},
		{m: Or(yes, no), want: true, str: "(yes or no)"},
		{m: Not(no), want: true, str: "not no"},
		{m: Not(Not(no)), want: false, str: "no"},
		{m: And(), want: true, str: "()"},
		{m: Or(), want: false, str: "()"},
		{m: And(yes), want: true, str: "yes"},
		{m: Or(And(yes, Not(no)), no), want: true, str: "((yes and not no) or no)"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, tc.m.Matches(info), tc.str)
		assert.Equal(t, tc.str, matcherString(tc.m))
	}
}

func TestDisableMatchers(t *testing.T) {
	t.Parallel()
	bundle := &serverBundle{port: 1}
	fromApp := registeredInfo(KindModule, &dbModule{dsn: "a"}, ApplicationScope, ScopeApplication)
	fromBundle := registeredInfo(KindModule, &cacheModule{size: 1}, ItemIDOf(bundle), ScopeBundle)
	ext := registeredInfo(KindExtension, usersResourceT, ClasspathScanScope, ScopeClasspathScan)
	ext.installedBy = resourceInstallerT
	ext.jersey = true
	web := registeredInfo(KindExtension, pingHealthCheckT, ApplicationScope, ScopeApplication)
	web.web = true
	installer := registeredInfo(KindInstaller, resourceInstallerT, ClasspathScanScope, ScopeClasspathScan)
	synthetic := newItemInfo(KindBundle, plainBundleT)

	cases := []struct {
		name string
		m    Matcher
		in   []*ItemInfo
		out  []*ItemInfo
	}{
		{
			name: "registered by bundle instance",
			m:    RegisteredBy(ItemIDOf(bundle)),
			in:   []*ItemInfo{fromBundle},
			out:  []*ItemInfo{fromApp, ext, synthetic},
		},
		{
			name: "registered by bundle type",
			m:    RegisteredBy(TypeID(serverBundleT)),
			in:   []*ItemInfo{fromBundle},
			out:  []*ItemInfo{fromApp},
		},
		{
			name: "registered by kind",
			m:    RegisteredByKind(ScopeClasspathScan, ScopeBundle),
			in:   []*ItemInfo{fromBundle, ext, installer},
			out:  []*ItemInfo{fromApp, web, synthetic},
		},
		{
			name: "item kinds",
			m:    ItemKinds(KindExtension, KindInstaller),
			in:   []*ItemInfo{ext, web, installer},
			out:  []*ItemInfo{fromApp, synthetic},
		},
		{
			name: "module of type",
			m:    Module(Types(cacheModuleT)),
			in:   []*ItemInfo{fromBundle},
			out:  []*ItemInfo{fromApp, ext},
		},
		{
			name: "bundle",
			m:    Bundle(),
			in:   []*ItemInfo{synthetic},
			out:  []*ItemInfo{fromApp, ext},
		},
		{
			name: "installer",
			m:    Installer(),
			in:   []*ItemInfo{installer},
			out:  []*ItemInfo{ext},
		},
		{
			name: "external bundle",
			m:    ExternalBundle(),
			out:  []*ItemInfo{synthetic, fromApp},
		},
		{
			name: "in package",
			m:    InPackage("github.com/muir/ntrack"),
			in:   []*ItemInfo{fromApp, ext, synthetic},
		},
		{
			name: "in parent package",
			m:    InPackage("github.com/muir"),
			in:   []*ItemInfo{fromApp},
		},
		{
			name: "not a package prefix",
			m:    InPackage("github.com/muir/ntr"),
			out:  []*ItemInfo{fromApp},
		},
		{
			name: "web",
			m:    WebExtension,
			in:   []*ItemInfo{web},
			out:  []*ItemInfo{ext, fromApp},
		},
		{
			name: "jersey",
			m:    JerseyExtension,
			in:   []*ItemInfo{ext},
			out:  []*ItemInfo{web},
		},
		{
			name: "installed by",
			m:    InstalledBy(resourceInstallerT),
			in:   []*ItemInfo{ext},
			out:  []*ItemInfo{web, installer},
		},
		{
			name: "from scan",
			m:    FromScan,
			in:   []*ItemInfo{ext, installer},
			out:  []*ItemInfo{web, fromBundle},
		},
		{
			name: "enabled",
			m:    Enabled,
			in:   []*ItemInfo{fromApp, synthetic},
		},
	}
	for _, tc := range cases {
		for _, info := range tc.in {
			assert.Truef(t, tc.m.Matches(info), "%s: %s should match %s", tc.name, matcherString(tc.m), info)
		}
		for _, info := range tc.out {
			assert.Falsef(t, tc.m.Matches(info), "%s: %s should not match %s", tc.name, matcherString(tc.m), info)
		}
	}
}

func TestViewFilters(t *testing.T) {
	t.Parallel()
	bundle := &serverBundle{port: 1}
	info := registeredInfo(KindModule, &dbModule{}, ItemIDOf(bundle), ScopeBundle)
	info.countRegistrationAttempt(ApplicationScope, ScopeApplication)
	info.addDisabledBy(HookScope)

	assert.True(t, RegisteredByScope(ApplicationScope).Matches(info), "later registrations count")
	assert.True(t, RegisteredByScope(TypeID(serverBundleT)).Matches(info))
	assert.False(t, RegisteredBy(ApplicationScope).Matches(info), "only the first registration")
	assert.True(t, DisabledByScope(HookScope).Matches(info))
	assert.False(t, DisabledByScope(ApplicationScope).Matches(info))
	assert.True(t, Disabled.Matches(info))
	assert.False(t, Enabled.Matches(info))

	lookup := registeredInfo(KindBundle, bundle, BundleLookupScope, ScopeBundleLookup)
	lookup.fromLookup = true
	assert.True(t, LookupBundles.Matches(lookup))
	assert.False(t, TransitiveBundles.Matches(lookup))
	lookup.transitive = true
	assert.True(t, TransitiveBundles.Matches(lookup))
	assert.Equal(t, "not enabled", matcherString(Disabled))
}
