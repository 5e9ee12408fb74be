package ntrack

import (
	"fmt"
	"reflect"
	"strings"
)

// ItemInfo is the record that is kept for every configuration item.
// It is created by the first registration (or at finalization for
// items that were disabled but never registered) and then updated by
// later registrations of the same item.
//
// Fields are read through accessors.  Only the Context changes them.
type ItemInfo struct {
	id        ItemID
	kind      ItemKind
	item      any
	scope     ItemID
	scopeKind ScopeKind

	registeredBy  []ItemID
	attempts      int
	ignores       map[ItemID]int
	disabledBy    []ItemID
	duplicates    []ItemID
	instanceCount int

	// extensions
	installedBy reflect.Type
	optional    bool
	web         bool
	jersey      bool
	lazy        bool
	binding     bool

	// modules
	overriding bool

	// bundles
	fromLookup bool
	transitive bool
	initOrder  int
}

func newItemInfo(kind ItemKind, item any) *ItemInfo {
	return &ItemInfo{
		id:      ItemIDOf(item),
		kind:    kind,
		item:    item,
		ignores: make(map[ItemID]int),
	}
}

func (info *ItemInfo) ID() ItemID     { return info.id }
func (info *ItemInfo) Kind() ItemKind { return info.kind }

// Type is the type of the item.  For synthetic records of never
// registered instance kinds it is the disabled type.
func (info *ItemInfo) Type() reflect.Type { return info.id.Type }

// Item is the live item: the instance for instance kinds, the
// reflect.Type for class kinds and for synthetic records.
func (info *ItemInfo) Item() any { return info.item }

// RegistrationScope is the scope of the first registration.  It is
// zero for synthetic records.
func (info *ItemInfo) RegistrationScope() ItemID { return info.scope }

func (info *ItemInfo) RegistrationScopeKind() ScopeKind { return info.scopeKind }

// RegisteredBy lists all scopes that registered the item, in the
// order of their first registration.
func (info *ItemInfo) RegisteredBy() []ItemID { return copyIDs(info.registeredBy) }

// RegistrationAttempts counts every registration, including the ones
// that were recognized as duplicates.
func (info *ItemInfo) RegistrationAttempts() int { return info.attempts }

// IsRegistered is false for synthetic records of disabled items
func (info *ItemInfo) IsRegistered() bool { return info.attempts > 0 }

// IgnoredBy lists the scopes whose registrations were ignored because
// the item was already registered.
func (info *ItemInfo) IgnoredBy() []ItemID {
	var ids []ItemID
	for _, s := range info.registeredBy {
		if info.ignores[s] > 0 {
			ids = append(ids, s)
		}
	}
	return ids
}

// IgnoresByScope counts ignored registrations made by scope
func (info *ItemInfo) IgnoresByScope(scope ItemID) int { return info.ignores[scope] }

// DisabledBy lists the scopes that disabled the item.  It is populated
// by FinalizeConfiguration.
func (info *ItemInfo) DisabledBy() []ItemID { return copyIDs(info.disabledBy) }

func (info *ItemInfo) IsEnabled() bool { return len(info.disabledBy) == 0 }

// Duplicates lists the instances that were recognized as duplicates of
// this one.  Only instance kinds have duplicates.
func (info *ItemInfo) Duplicates() []ItemID { return copyIDs(info.duplicates) }

// InstanceCount is the position of this instance among the registered
// instances of its type, starting from 1.  Zero for class kinds.
func (info *ItemInfo) InstanceCount() int { return info.instanceCount }

// IsAllDataCollected is false for extensions until the installer that
// recognized the extension is known.  Disable predicates are not
// applied until it is true.
func (info *ItemInfo) IsAllDataCollected() bool {
	if info.kind == KindExtension {
		return info.installedBy != nil
	}
	return true
}

// IsFromScan is true if the classpath scan registered the item
func (info *ItemInfo) IsFromScan() bool { return containsMatch(info.registeredBy, ClasspathScanScope) }

func (info *ItemInfo) InstalledBy() reflect.Type { return info.installedBy }
func (info *ItemInfo) IsOptional() bool          { return info.optional }
func (info *ItemInfo) IsWeb() bool               { return info.web }
func (info *ItemInfo) IsJersey() bool            { return info.jersey }
func (info *ItemInfo) IsLazy() bool              { return info.lazy }

// IsBinding is true for extensions that were found in module bindings
func (info *ItemInfo) IsBinding() bool { return info.binding }

// IsOverriding is true for modules registered with RegisterOverridingModules
func (info *ItemInfo) IsOverriding() bool { return info.overriding }

// IsFromLookup is true for bundles registered by RegisterLookupBundles
func (info *ItemInfo) IsFromLookup() bool { return info.fromLookup }

// IsTransitive is true for bundles registered by another bundle
func (info *ItemInfo) IsTransitive() bool { return info.transitive }

// InitOrder is the position (starting at 1) of the bundle in the
// initialization order, zero when unknown.
func (info *ItemInfo) InitOrder() int { return info.initOrder }

func (info *ItemInfo) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s", info.kind, info.id)
	if !info.scope.IsZero() {
		fmt.Fprintf(&b, " from %s", info.scope)
	}
	if info.attempts != 1 {
		fmt.Fprintf(&b, " (%d registrations)", info.attempts)
	}
	if len(info.disabledBy) > 0 {
		b.WriteString(" DISABLED")
	}
	return b.String()
}

func (info *ItemInfo) countRegistrationAttempt(scope ItemID, kind ScopeKind) {
	info.attempts++
	if info.scope.IsZero() {
		info.scope = scope
		info.scopeKind = kind
	} else {
		info.ignores[scope]++
	}
	if !containsExact(info.registeredBy, scope) {
		info.registeredBy = append(info.registeredBy, scope)
	}
}

func (info *ItemInfo) addDuplicate(id ItemID) {
	if !containsExact(info.duplicates, id) {
		info.duplicates = append(info.duplicates, id)
	}
}

func (info *ItemInfo) addDisabledBy(scopes ...ItemID) {
	for _, s := range scopes {
		if !containsExact(info.disabledBy, s) {
			info.disabledBy = append(info.disabledBy, s)
		}
	}
}

// ExtensionTraits are set by the installer that recognizes an extension
type ExtensionTraits struct {
	Web    bool
	Jersey bool
	Lazy   bool
}

func containsExact(ids []ItemID, id ItemID) bool {
	for _, x := range ids {
		if x == id {
			return true
		}
	}
	return false
}

func copyIDs(ids []ItemID) []ItemID {
	if ids == nil {
		return nil
	}
	c := make([]ItemID, len(ids))
	copy(c, ids)
	return c
}
