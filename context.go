package ntrack

import (
	"context"
	"fmt"
	"reflect"
	"strings"

	"github.com/muir/ntrack/nserve"
	"github.com/muir/ntrack/nshare"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Context records every configuration item as it is registered, who
// registered it, who disabled it and which instances were ignored as
// duplicates.
//
// A Context is used by one goroutine during startup.  It does no
// locking.
type Context struct {
	log   *zap.Logger
	sugar *zap.SugaredLogger

	scope      ItemID
	overriding bool
	finalized  bool

	order      []ItemID
	items      map[ItemKind][]any
	instances  map[reflect.Type][]any
	infos      map[ItemID]*ItemInfo
	scopeTypes map[reflect.Type]ScopeKind
	disabled   map[ItemKind][]ItemID
	disabledBy []disableRecord
	duplicates map[ItemKind][]any
	predicates []predicateHandler
	detector   DuplicateDetector

	autoScanFilters []func(reflect.Type) bool
	delayed         []delayedConfig
	hookTypes       []reflect.Type
	initOrder       []any

	owner       any
	configTimer *Timer
	registry    *nshare.Registry
	state       *nshare.State
	lifecycle   *nserve.App
	stats       *Stats
	options     *Options
}

type disableRecord struct {
	id     ItemID
	scopes []ItemID
}

type predicateHandler struct {
	m     Matcher
	scope ItemID
}

// ContextOption configures NewContext
type ContextOption func(*Context)

// WithLogger sets the logger.  The default is zap.L().Named("ntrack").
func WithLogger(log *zap.Logger) ContextOption {
	return func(c *Context) { c.log = log }
}

// WithRegistry sets the registry that the shared state is assigned to
// by InitPhaseStarted.  The default is nshare.Default.
func WithRegistry(r *nshare.Registry) ContextOption {
	return func(c *Context) { c.registry = r }
}

// WithDetector sets the duplicate detector
func WithDetector(d DuplicateDetector) ContextOption {
	return func(c *Context) { c.detector = d }
}

// NewContext creates an empty Context with its own shared state,
// lifecycle broadcaster, options and stats.
func NewContext(opts ...ContextOption) *Context {
	c := &Context{
		items:      make(map[ItemKind][]any),
		instances:  make(map[reflect.Type][]any),
		infos:      make(map[ItemID]*ItemInfo),
		scopeTypes: make(map[reflect.Type]ScopeKind),
		disabled:   make(map[ItemKind][]ItemID),
		duplicates: make(map[ItemKind][]any),
		registry:   nshare.Default,
		state:      nshare.New(),
		lifecycle:  nserve.NewApp(),
		stats:      newStats(),
		options:    newOptions(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.log == nil {
		c.log = defaultLogger()
	}
	c.sugar = c.log.Sugar()
	// always available
	_ = nshare.Put(c.state, c.options)
	return c
}

func (c *Context) Logger() *zap.Logger {
	return c.log
}

// SharedState is the state shared by everything that configures the
// application.  It holds *Options from the start.
func (c *Context) SharedState() *nshare.State {
	return c.state
}

// Lifecycle is the broadcaster for the Event* hooks
func (c *Context) Lifecycle() *nserve.App {
	return c.lifecycle
}

func (c *Context) Stats() *Stats {
	return c.stats
}

func (c *Context) Options() *Options {
	return c.options
}

func (c *Context) IsFinalized() bool {
	return c.finalized
}

// StartupContext returns ctx carrying the shared state for
// nshare.Startup.
func (c *Context) StartupContext(ctx context.Context) context.Context {
	return nshare.WithStartup(ctx, c.state)
}

// SetDuplicatesDetector replaces the duplicate detector
func (c *Context) SetDuplicatesDetector(d DuplicateDetector) {
	if c.detector != nil {
		c.log.Warn("configured duplicates detector is overridden",
			zap.String("old", fmt.Sprintf("%T", c.detector)),
			zap.String("new", fmt.Sprintf("%T", d)))
	}
	c.detector = d
}

// Detector returns the duplicate detector in use: the one that was set,
// or the one selected by the DuplicatePolicy option.
func (c *Context) Detector() DuplicateDetector {
	if c.detector != nil {
		return c.detector
	}
	if GetOption(c.options, DuplicatePolicy) == "legacy" {
		return LegacySingletonDetector
	}
	return EqualsDetector
}

// AddAutoScanFilter adds a filter for types found by the classpath scan
func (c *Context) AddAutoScanFilter(f func(reflect.Type) bool) {
	c.autoScanFilters = append(c.autoScanFilters, f)
}

// IsAcceptableAutoScanType is true if all auto scan filters accept t
func (c *Context) IsAcceptableAutoScanType(t reflect.Type) bool {
	for _, f := range c.autoScanFilters {
		if !f(t) {
			return false
		}
	}
	return true
}

// RegisterDisablePredicates adds predicates that disable every item
// they match.  The disable is attributed to the current scope.  The
// predicates are applied immediately to all enabled modules, bundles,
// extensions and installers and then to each item as it is registered.
func (c *Context) RegisterDisablePredicates(matchers ...Matcher) {
	handlers := make([]predicateHandler, len(matchers))
	scope := c.Scope()
	for i, m := range matchers {
		handlers[i] = predicateHandler{m: m, scope: scope}
		c.debugf("disable predicate %s registered by %s", matcherString(m), scope)
	}
	c.predicates = append(c.predicates, handlers...)
	c.applyPredicatesForRegisteredItems(handlers)
}

func (c *Context) applyPredicatesForRegisteredItems(handlers []predicateHandler) {
	var items []any
	items = append(items, c.EnabledModules()...)
	items = append(items, c.EnabledBundles()...)
	for _, t := range c.EnabledExtensions() {
		items = append(items, t)
	}
	for _, t := range c.EnabledInstallers() {
		items = append(items, t)
	}
	for _, item := range items {
		info := c.infos[ItemIDOf(item)]
		if info == nil || !info.IsAllDataCollected() {
			continue
		}
		c.applyDisablePredicates(handlers, info)
	}
}

// applyDisablePredicates stops at the first predicate that matches
func (c *Context) applyDisablePredicates(handlers []predicateHandler, info *ItemInfo) {
	for _, h := range handlers {
		if !h.m.Matches(info) {
			continue
		}
		c.debugf("%s disabled by predicate %s from %s", info.id, matcherString(h.m), h.scope)
		prev := c.ReplaceScope(h.scope)
		c.registerDisable(info.kind, info.id)
		c.ReplaceScope(prev)
		return
	}
}

func (c *Context) fireRegistration(info *ItemInfo, afterCompleteInitialization bool) {
	if info.kind.Disableable() && info.IsAllDataCollected() &&
		(info.attempts == 1 || afterCompleteInitialization) {
		c.applyDisablePredicates(c.predicates, info)
	}
}

func (c *Context) register(kind ItemKind, src any) (*ItemInfo, error) {
	if src == nil {
		return nil, c.fail(errors.Wrapf(ErrNilItem, "register %s", kind))
	}
	item, err := c.detectDuplicate(kind, src)
	if err != nil {
		return nil, err
	}
	info, err := c.getOrCreateInfo(kind, item)
	if err != nil {
		return nil, err
	}
	scope := c.Scope()
	if info.attempts == 0 {
		if kind.InstanceConfig() {
			info.instanceCount = len(c.instances[info.Type()])
			c.scopeTypes[info.Type()] = scopeKindOf(kind)
		}
		switch kind {
		case KindModule:
			info.overriding = c.overriding
		case KindBundle:
			info.fromLookup = scope == BundleLookupScope
			info.transitive = c.scopeKind(scope) == ScopeBundle
		case KindExternalBundle:
			info.transitive = c.scopeKind(scope) == ScopeExternalBundle
		}
	}
	info.countRegistrationAttempt(scope, c.scopeKind(scope))
	c.stats.countKind(kind)
	c.fireRegistration(info, false)
	return info, nil
}

// detectDuplicate returns the item that should be recorded for src:
// src itself, the registered instance it duplicates, or for class
// kinds the first seen type with the same name.
func (c *Context) detectDuplicate(kind ItemKind, src any) (any, error) {
	if !kind.InstanceConfig() {
		t, ok := src.(reflect.Type)
		if !ok {
			return nil, c.fail(errors.Errorf("%s must be registered by type, got %T", kind, src))
		}
		unified, _ := unifyType(t)
		return unified, nil
	}
	own := reflect.TypeOf(src)
	unified, aliased := unifyType(own)
	registered := c.instances[unified]
	if len(registered) > 0 {
		original, found, err := c.findDuplicateInstance(kind, registered, src)
		if err != nil {
			return nil, err
		}
		if found {
			return original, nil
		}
		if aliased {
			c.log.Warn("registered instances of the same type name are distinct types and may not be properly checked for duplicates",
				zap.String("type", qualifiedName(own)))
		}
	}
	c.instances[own] = append(c.instances[own], src)
	return src, nil
}

func (c *Context) findDuplicateInstance(kind ItemKind, registered []any, item any) (any, bool, error) {
	var original any
	var found bool
	for _, reg := range registered {
		if sameInstance(reg, item) || equalInstance(reg, item) {
			original, found = reg, true
			break
		}
	}
	if !found {
		candidates := make([]any, len(registered))
		copy(candidates, registered)
		original, found = c.Detector().FindDuplicate(candidates, item)
		if found && !isMember(registered, original) {
			return nil, false, c.fail(errors.Wrapf(ErrForeignDuplicate, "%s detector returned %T for %s",
				kind, original, ItemIDOf(item)))
		}
	}
	if found && !sameInstance(original, item) {
		originalID := ItemIDOf(original)
		originalInfo := c.infos[originalID]
		originalInfo.addDuplicate(ItemIDOf(item))
		c.log.Info("IGNORE duplicate",
			zap.Stringer("kind", kind),
			idField("scope", c.Scope()),
			idField("item", ItemIDOf(item)),
			idField("original", originalID),
			idField("originalScope", originalInfo.scope),
			zap.Int("instance", originalInfo.instanceCount))
		c.duplicates[kind] = append(c.duplicates[kind], item)
		c.stats.count(StatDuplicatesCount, 1)
	}
	return original, found, nil
}

// getOrCreateInfo finds the record for item or creates it, adding item
// to the registration order.
func (c *Context) getOrCreateInfo(kind ItemKind, item any) (*ItemInfo, error) {
	id := ItemIDOf(item)
	if info, ok := c.infos[id]; ok {
		if info.kind != kind {
			return nil, c.fail(errors.Wrapf(ErrKindConflict, "%s is a %s, not a %s", id, info.kind, kind))
		}
		return info, nil
	}
	c.items[kind] = append(c.items[kind], item)
	c.order = append(c.order, id)
	info := newItemInfo(kind, item)
	c.infos[id] = info
	return info, nil
}

// registerDisable records a disable of id attributed to the current
// scope.  A class level disable of an instance kind replaces all
// disables of individual instances of that type.
func (c *Context) registerDisable(kind ItemKind, id ItemID) {
	if kind.InstanceConfig() && id.IsClass() && c.hasDisableRecord(id) {
		kept := c.disabled[kind][:0]
		for _, d := range c.disabled[kind] {
			if d.IsClass() || !d.Matches(id) {
				kept = append(kept, d)
			}
		}
		c.disabled[kind] = kept
		records := c.disabledBy[:0]
		for _, r := range c.disabledBy {
			if r.id.IsClass() || !r.id.Matches(id) {
				records = append(records, r)
			}
		}
		c.disabledBy = records
	}
	if !containsMatch(c.disabled[kind], id) {
		c.disabled[kind] = append(c.disabled[kind], id)
	}
	scope := c.Scope()
	for i := range c.disabledBy {
		if c.disabledBy[i].id.Matches(id) {
			if !containsExact(c.disabledBy[i].scopes, scope) {
				c.disabledBy[i].scopes = append(c.disabledBy[i].scopes, scope)
			}
			c.stats.count(StatDisablesCount, 1)
			return
		}
	}
	c.disabledBy = append(c.disabledBy, disableRecord{id: id, scopes: []ItemID{scope}})
	c.stats.count(StatDisablesCount, 1)
}

func (c *Context) hasDisableRecord(id ItemID) bool {
	for _, r := range c.disabledBy {
		if r.id.Matches(id) {
			return true
		}
	}
	return false
}

// disableScopes collects the scopes that disabled id
func (c *Context) disableScopes(id ItemID) []ItemID {
	var scopes []ItemID
	for _, r := range c.disabledBy {
		if r.id.Matches(id) {
			scopes = append(scopes, r.scopes...)
		}
	}
	return scopes
}

func (c *Context) disable(kind ItemKind, types []reflect.Type) {
	for _, t := range types {
		c.registerDisable(kind, TypeID(t))
	}
}

// DisableItems disables items by id: a class id disables every item of
// the type, an instance id disables only that instance.
func (c *Context) DisableItems(kind ItemKind, ids ...ItemID) error {
	if !kind.Disableable() {
		return c.fail(errors.Errorf("%s items cannot be disabled", kind))
	}
	for _, id := range ids {
		c.registerDisable(kind, id)
	}
	return nil
}

func (c *Context) enabledItems(kind ItemKind) []any {
	disabled := c.disabled[kind]
	r := make([]any, 0, len(c.items[kind]))
	for _, item := range c.items[kind] {
		if !containsMatch(disabled, ItemIDOf(item)) {
			r = append(r, item)
		}
	}
	return r
}

func (c *Context) disabledItems(kind ItemKind) []any {
	disabled := c.disabled[kind]
	if len(disabled) == 0 {
		return []any{}
	}
	r := make([]any, 0, len(disabled))
	for _, item := range c.items[kind] {
		if containsMatch(disabled, ItemIDOf(item)) {
			r = append(r, item)
		}
	}
	return r
}

func (c *Context) isEnabled(kind ItemKind, id ItemID) bool {
	return !containsMatch(c.disabled[kind], id)
}

// Items returns every item of kind in registration order, including
// disabled ones.  After finalization it includes the types of disabled
// items that were never registered.
func (c *Context) Items(kind ItemKind) []any {
	r := make([]any, len(c.items[kind]))
	copy(r, c.items[kind])
	return r
}

// InstancesOf lists the registered instances of t.  Duplicates are not
// included.
func (c *Context) InstancesOf(t reflect.Type) []any {
	r := make([]any, len(c.instances[t]))
	copy(r, c.instances[t])
	return r
}

// DisabledInstancesOf lists the registered instances of t that are
// disabled, either individually or by type.
func (c *Context) DisabledInstancesOf(t reflect.Type) []any {
	var r []any
	for _, inst := range c.instances[t] {
		info := c.infos[ItemIDOf(inst)]
		if info != nil && containsMatch(c.disabled[info.kind], info.id) {
			r = append(r, inst)
		}
	}
	return r
}

// IgnoredItems returns the instances that were ignored as duplicates
func (c *Context) IgnoredItems(kind ItemKind) []any {
	r := make([]any, len(c.duplicates[kind]))
	copy(r, c.duplicates[kind])
	return r
}

// Info returns the record of an item (an instance, a reflect.Type or an
// ItemID).  Nil if there is none.
func (c *Context) Info(item any) *ItemInfo {
	return c.infos[ItemIDOf(item)]
}

// FinalizeConfiguration merges the disables into the item records.
// Disabled types that were never registered get a record of their own
// with zero registration attempts.  Calling it again recomputes the
// records.
func (c *Context) FinalizeConfiguration() error {
	for _, info := range c.infos {
		info.disabledBy = nil
	}
	for _, kind := range AllKinds() {
		for _, id := range c.disabled[kind] {
			scopes := c.disableScopes(id)
			if kind.InstanceConfig() {
				var matched bool
				for _, inst := range c.instances[id.Type] {
					iid := ItemIDOf(inst)
					if !id.Matches(iid) {
						continue
					}
					if info := c.infos[iid]; info != nil {
						info.addDisabledBy(scopes...)
						matched = true
					}
				}
				if matched {
					continue
				}
			}
			info := c.infos[id.Class()]
			if info == nil {
				var err error
				info, err = c.getOrCreateInfo(kind, id.Type)
				if err != nil {
					return err
				}
			}
			info.addDisabledBy(scopes...)
		}
	}
	c.finalized = true
	if c.configTimer != nil {
		c.configTimer.Stop()
	}
	return c.fire(EventExtensionsResolved, ExtensionsResolvedEvent{
		Extensions: c.EnabledExtensions(),
		Disabled:   c.DisabledExtensions(),
	})
}

// fail adds the registration state to err for DetailedError
func (c *Context) fail(err error) error {
	var b strings.Builder
	fmt.Fprintf(&b, "current scope: %s\n", c.Scope())
	for _, kind := range AllKinds() {
		fmt.Fprintf(&b, "%s: %d registered, %d disabled, %d ignored\n",
			kind, len(c.items[kind]), len(c.disabled[kind]), len(c.duplicates[kind]))
	}
	return detailed(err, b.String())
}
