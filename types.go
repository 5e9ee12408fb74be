package ntrack

// ItemKind is the closed set of configuration item categories.
type ItemKind int

const (
	KindInstaller      ItemKind = iota // installer
	KindExtension                      // extension
	KindBundle                         // bundle
	KindExternalBundle                 // external-bundle
	KindModule                         // module
	KindCommand                        // command
	lastItemKind                       // UNUSED
)

var kindNames = [...]string{
	KindInstaller:      "installer",
	KindExtension:      "extension",
	KindBundle:         "bundle",
	KindExternalBundle: "external-bundle",
	KindModule:         "module",
	KindCommand:        "command",
}

func (k ItemKind) String() string {
	if k < 0 || k >= lastItemKind {
		return "UNUSED"
	}
	return kindNames[k]
}

// InstanceConfig is true for kinds where more than one live instance
// of the same type may be registered.
func (k ItemKind) InstanceConfig() bool {
	switch k {
	case KindBundle, KindExternalBundle, KindModule:
		return true
	}
	return false
}

// Disableable reports if items of this kind can be disabled.  Commands
// cannot.
func (k ItemKind) Disableable() bool {
	return k != KindCommand
}

// AllKinds lists every ItemKind in declaration order
func AllKinds() []ItemKind {
	kinds := make([]ItemKind, 0, lastItemKind)
	for k := ItemKind(0); k < lastItemKind; k++ {
		kinds = append(kinds, k)
	}
	return kinds
}

// ScopeKind classifies a registration scope.
type ScopeKind int

const (
	ScopeApplication    ScopeKind = iota // application
	ScopeClasspathScan                   // classpath-scan
	ScopeBundleLookup                    // bundle-lookup
	ScopeHook                            // hook
	ScopeBundle                          // bundle
	ScopeExternalBundle                  // external-bundle
	ScopeModule                          // module
	lastScopeKind                        // UNUSED
)

var scopeKindNames = [...]string{
	ScopeApplication:    "application",
	ScopeClasspathScan:  "classpath-scan",
	ScopeBundleLookup:   "bundle-lookup",
	ScopeHook:           "hook",
	ScopeBundle:         "bundle",
	ScopeExternalBundle: "external-bundle",
	ScopeModule:         "module",
}

func (s ScopeKind) String() string {
	if s < 0 || s >= lastScopeKind {
		return "UNUSED"
	}
	return scopeKindNames[s]
}

// scopeKindOf maps the item kind of a registering item onto the
// scope kind that its registrations are attributed to.
func scopeKindOf(k ItemKind) ScopeKind {
	switch k {
	case KindBundle:
		return ScopeBundle
	case KindExternalBundle:
		return ScopeExternalBundle
	case KindModule:
		return ScopeModule
	}
	return ScopeApplication
}

// Marker types for the special scopes.  They are never instantiated
// as configuration items.
type (
	applicationScope   struct{}
	classpathScanScope struct{}
	bundleLookupScope  struct{}
	hookScope          struct{}
)

var (
	// ApplicationScope is the default scope: items registered directly by
	// the application.
	ApplicationScope = TypeOf[applicationScope]()
	// ClasspathScanScope is used for everything the classpath scanner finds
	ClasspathScanScope = TypeOf[classpathScanScope]()
	// BundleLookupScope is used while registering bundles found by lookup
	BundleLookupScope = TypeOf[bundleLookupScope]()
	// HookScope is used while configuration hooks run
	HookScope = TypeOf[hookScope]()
)

// specialScopeKind returns the ScopeKind of one of the predefined scopes
func specialScopeKind(id ItemID) (ScopeKind, bool) {
	switch id.Type {
	case ApplicationScope.Type:
		return ScopeApplication, true
	case ClasspathScanScope.Type:
		return ScopeClasspathScan, true
	case BundleLookupScope.Type:
		return ScopeBundleLookup, true
	case HookScope.Type:
		return ScopeHook, true
	}
	return 0, false
}
