package ntrack

import (
	"reflect"

	"github.com/pkg/errors"
)

//
// Commands
//

// RegisterCommands registers commands found by the classpath scan
func (c *Context) RegisterCommands(commands ...reflect.Type) error {
	return c.withOpenScope(ClasspathScanScope, func() error {
		for _, cmd := range commands {
			if _, err := c.register(KindCommand, cmd); err != nil {
				return err
			}
			c.stats.count(StatCommandsCount, 1)
		}
		return nil
	})
}

// Commands returns the registered command types
func (c *Context) Commands() []reflect.Type {
	return asTypes(c.items[KindCommand])
}

//
// Bundles
//

// RegisterLookupBundles registers the bundles found by the bundle
// lookup in BundleLookupScope and fires EventBundlesFromLookupResolved
// and EventBundlesResolved.
func (c *Context) RegisterLookupBundles(bundles ...any) error {
	if !GetOption(c.options, UseBundleLookup) {
		c.debugf("bundle lookup disabled, ignoring %d bundles", len(bundles))
		return nil
	}
	timer := c.stats.Timer(StatBundleResolutionTime)
	err := c.withOpenScope(BundleLookupScope, func() error {
		for _, b := range bundles {
			if _, err := c.register(KindBundle, b); err != nil {
				return err
			}
		}
		return nil
	})
	timer.Stop()
	if err != nil {
		return err
	}
	c.stats.count(StatBundlesFromLookupCount, len(bundles))
	if err := c.fire(EventBundlesFromLookupResolved, LookupBundlesEvent{Bundles: bundles}); err != nil {
		return err
	}
	return c.fire(EventBundlesResolved, BundlesResolvedEvent{
		Enabled:  c.EnabledBundles(),
		Disabled: c.DisabledBundles(),
		Ignored:  c.IgnoredItems(KindBundle),
	})
}

// RegisterBundles registers bundles in the current scope.  It returns
// the bundles that were registered for the first time: duplicates and
// repeated registrations are left out.
func (c *Context) RegisterBundles(bundles ...any) ([]any, error) {
	return c.registerInstances(KindBundle, bundles)
}

func (c *Context) registerInstances(kind ItemKind, items []any) ([]any, error) {
	res := make([]any, 0, len(items))
	for _, item := range items {
		info, err := c.register(kind, item)
		if err != nil {
			return res, err
		}
		if info.attempts == 1 {
			res = append(res, item)
		}
	}
	return res, nil
}

// DisableBundles disables bundle types.  A bundle must be disabled
// before it is processed to have any effect on what it registers.
func (c *Context) DisableBundles(types ...reflect.Type) {
	c.disable(KindBundle, types)
}

func (c *Context) EnabledBundles() []any {
	return c.enabledItems(KindBundle)
}

// DisabledBundles returns the disabled bundles.  After finalization
// this includes the types of disabled bundles that were never
// registered.
func (c *Context) DisabledBundles() []any {
	return c.disabledItems(KindBundle)
}

// IsBundleEnabled accepts a class or an instance id
func (c *Context) IsBundleEnabled(id ItemID) bool {
	return c.isEnabled(KindBundle, id)
}

// StoreBundlesInitOrder records the order bundles were initialized in.
// It differs from registration order when bundles register bundles.
func (c *Context) StoreBundlesInitOrder(ordered ...any) error {
	for i, b := range ordered {
		info := c.Info(b)
		if info == nil || info.kind != KindBundle {
			return c.fail(errors.Wrapf(ErrUnknownItem, "bundle %s", ItemIDOf(b)))
		}
		info.initOrder = i + 1
	}
	c.initOrder = ordered
	return nil
}

// BundlesOrdered returns the bundles in initialization order
func (c *Context) BundlesOrdered() []any {
	r := make([]any, len(c.initOrder))
	copy(r, c.initOrder)
	return r
}

//
// External bundles
//

// RegisterExternalBundles registers bundles of the host framework.  It
// returns the bundles that should be installed: the ones registered for
// the first time.  When TrackExternalBundles is off, bundles registered
// by other external bundles are returned without being recorded.
func (c *Context) RegisterExternalBundles(bundles ...any) ([]any, error) {
	if !GetOption(c.options, TrackExternalBundles) && c.scopeKind(c.Scope()) == ScopeExternalBundle {
		return bundles, nil
	}
	return c.registerInstances(KindExternalBundle, bundles)
}

func (c *Context) DisableExternalBundles(types ...reflect.Type) {
	c.disable(KindExternalBundle, types)
}

func (c *Context) EnabledExternalBundles() []any {
	return c.enabledItems(KindExternalBundle)
}

func (c *Context) DisabledExternalBundles() []any {
	return c.disabledItems(KindExternalBundle)
}

//
// Modules
//

// RegisterModules registers modules in the current scope
func (c *Context) RegisterModules(modules ...any) error {
	for _, m := range modules {
		if _, err := c.register(KindModule, m); err != nil {
			return err
		}
	}
	return nil
}

// RegisterOverridingModules registers modules whose bindings override
// the bindings of normal modules.
func (c *Context) RegisterOverridingModules(modules ...any) error {
	c.overriding = true
	defer func() {
		c.overriding = false
	}()
	return c.RegisterModules(modules...)
}

func (c *Context) DisableModules(types ...reflect.Type) {
	c.disable(KindModule, types)
}

func (c *Context) EnabledModules() []any {
	return c.enabledItems(KindModule)
}

// NormalModules returns the enabled modules that are not overriding
func (c *Context) NormalModules() []any {
	return c.filterModules(false)
}

// OverridingModules returns the enabled overriding modules
func (c *Context) OverridingModules() []any {
	return c.filterModules(true)
}

func (c *Context) filterModules(overriding bool) []any {
	var r []any
	for _, m := range c.EnabledModules() {
		if c.Info(m).overriding == overriding {
			r = append(r, m)
		}
	}
	return r
}

func (c *Context) DisabledModules() []any {
	return c.disabledItems(KindModule)
}

// DisabledModuleTypes returns the types of all module disables
func (c *Context) DisabledModuleTypes() []reflect.Type {
	return typesOf(c.disabled[KindModule])
}

//
// Installers
//

// RegisterInstallers registers installer types in the current scope
func (c *Context) RegisterInstallers(installers ...reflect.Type) error {
	for _, t := range installers {
		if _, err := c.register(KindInstaller, t); err != nil {
			return err
		}
	}
	return nil
}

// RegisterInstallersFromScan registers installers found by the
// classpath scan.
func (c *Context) RegisterInstallersFromScan(installers ...reflect.Type) error {
	return c.withOpenScope(ClasspathScanScope, func() error {
		return c.RegisterInstallers(installers...)
	})
}

func (c *Context) DisableInstallers(types ...reflect.Type) {
	c.disable(KindInstaller, types)
}

func (c *Context) EnabledInstallers() []reflect.Type {
	return asTypes(c.enabledItems(KindInstaller))
}

func (c *Context) DisabledInstallers() []reflect.Type {
	return asTypes(c.disabledItems(KindInstaller))
}

// InstallersResolved fires EventInstallersResolved with the installer
// instances that will be used.
func (c *Context) InstallersResolved(installers ...any) error {
	return c.fire(EventInstallersResolved, InstallersResolvedEvent{
		Installers: installers,
		Disabled:   c.DisabledInstallers(),
	})
}

//
// Extensions
//

// RegisterExtensions registers extension types in the current scope
func (c *Context) RegisterExtensions(extensions ...reflect.Type) error {
	for _, t := range extensions {
		if _, err := c.register(KindExtension, t); err != nil {
			return err
		}
	}
	return nil
}

// RegisterOptionalExtensions registers extensions that are not an error
// when no installer recognizes them.
func (c *Context) RegisterOptionalExtensions(extensions ...reflect.Type) error {
	for _, t := range extensions {
		info, err := c.register(KindExtension, t)
		if err != nil {
			return err
		}
		info.optional = true
	}
	return nil
}

// GetOrRegisterExtension registers an extension found by the classpath
// scan.  Otherwise the extension must have been registered already and
// its record is returned.
func (c *Context) GetOrRegisterExtension(extension reflect.Type, fromScan bool) (*ItemInfo, error) {
	if fromScan {
		var info *ItemInfo
		err := c.withOpenScope(ClasspathScanScope, func() error {
			var err error
			info, err = c.register(KindExtension, extension)
			return err
		})
		return info, err
	}
	unified, _ := unifyType(extension)
	info := c.infos[TypeID(unified)]
	if info == nil {
		return nil, c.fail(errors.Wrapf(ErrUnknownItem, "extension %s", TypeID(extension)))
	}
	return info, nil
}

// GetOrRegisterBindingExtension registers an extension found in the
// bindings of module.  The registration is attributed to the module.
// An extension that is already registered gets another registration
// attempt.
func (c *Context) GetOrRegisterBindingExtension(extension reflect.Type, module reflect.Type) (*ItemInfo, error) {
	var info *ItemInfo
	err := c.withOpenScope(TypeID(module), func() error {
		var err error
		info, err = c.register(KindExtension, extension)
		return err
	})
	if err != nil {
		return nil, err
	}
	info.binding = true
	return info, nil
}

// NotifyExtensionRecognized records the installer of an extension.  This
// completes the extension record, so disable predicates are applied to
// it now.
func (c *Context) NotifyExtensionRecognized(extension reflect.Type, installer reflect.Type, traits ExtensionTraits) error {
	timer := c.stats.Timer(StatExtensionsRecognitionTime)
	defer timer.Stop()
	info, err := c.GetOrRegisterExtension(extension, false)
	if err != nil {
		return err
	}
	if installer == nil {
		return c.fail(errors.Wrapf(ErrNilItem, "installer for extension %s", info.id))
	}
	info.installedBy = installer
	info.web = traits.Web
	info.jersey = traits.Jersey
	info.lazy = traits.Lazy
	c.fireRegistration(info, true)
	return nil
}

func (c *Context) DisableExtensions(types ...reflect.Type) {
	c.disable(KindExtension, types)
}

func (c *Context) IsExtensionEnabled(extension reflect.Type) bool {
	return c.isEnabled(KindExtension, TypeID(extension))
}

func (c *Context) EnabledExtensions() []reflect.Type {
	return asTypes(c.enabledItems(KindExtension))
}

func (c *Context) DisabledExtensions() []reflect.Type {
	return asTypes(c.disabledItems(KindExtension))
}

func asTypes(items []any) []reflect.Type {
	r := make([]reflect.Type, 0, len(items))
	for _, item := range items {
		r = append(r, item.(reflect.Type))
	}
	return r
}
