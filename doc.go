/*
Package ntrack records the configuration of an application as it is
assembled: the modules, bundles, installers, extensions, commands and
external bundles that are registered, which part of the configuration
registered each of them, which ones were disabled and by whom, and which
instances were dropped as duplicates.

# Items and identity

Every configuration item has an ItemID.  Installers, extensions and
commands are registered by type and are unique by type.  Bundles,
external bundles and modules are registered as live instances and more
than one instance of a type may be registered.  Their ItemID carries an
identity that tells the instances apart.

	ctx := ntrack.NewContext(ntrack.WithLogger(log))
	err := ctx.RegisterModules(&DBModule{}, &CacheModule{})
	ctx.DisableModules(reflect.TypeOf(&CacheModule{}))
	enabled := ctx.EnabledModules() // [&DBModule{}]

# Scopes

Registrations are attributed to the current scope.  ApplicationScope is
current when nothing else is.  The classpath scan, the bundle lookup and
configuration hooks have scopes of their own.  While a bundle is
processed, the bundle is the scope.

# Duplicates

Registering the same instance again is counted as another registration
attempt.  Registering an instance that is Equal to a registered instance
(or that a DuplicateDetector says duplicates one) records the new
instance as a duplicate of the registered one and otherwise ignores it.

# Disables

Items are disabled by type with the Disable* methods or by matching
predicates, see RegisterDisablePredicates.  Predicates apply to items
registered before and after the predicate.  Disables of types that are
never registered still show up after FinalizeConfiguration.

# Reports

NewConfigurationInfo gives a read-only view of the result.  The nreport
package renders it.
*/
package ntrack
