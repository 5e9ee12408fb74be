package ntrack

import (
	"reflect"

	"github.com/muir/ntrack/nserve"
)

// Lifecycle events fired by the Context.  Subscribe with
// Context.Lifecycle().On or nserve.Listen.  Payloads are the *Event
// types below.
var (
	EventHooksProcessed            = nserve.NewHook("configuration-hooks-processed", nserve.ForwardOrder)
	EventBeforeInit                = nserve.NewHook("before-init", nserve.ForwardOrder)
	EventBundlesFromLookupResolved = nserve.NewHook("bundles-from-lookup-resolved", nserve.ForwardOrder)
	EventBundlesResolved           = nserve.NewHook("bundles-resolved", nserve.ForwardOrder)
	EventInstallersResolved        = nserve.NewHook("installers-resolved", nserve.ForwardOrder)
	EventExtensionsResolved        = nserve.NewHook("extensions-resolved", nserve.ForwardOrder)
	EventBeforeRun                 = nserve.NewHook("before-run", nserve.ForwardOrder)
	EventApplicationRun            = nserve.NewHook("application-run", nserve.ForwardOrder)
)

type HooksProcessedEvent struct {
	Hooks []ConfigurationHook
}

type InitEvent struct {
	Application any
}

type LookupBundlesEvent struct {
	Bundles []any
}

type BundlesResolvedEvent struct {
	Enabled  []any
	Disabled []any
	Ignored  []any
}

type InstallersResolvedEvent struct {
	Installers []any
	Disabled   []reflect.Type
}

type ExtensionsResolvedEvent struct {
	Extensions []reflect.Type
	Disabled   []reflect.Type
}

type RunEvent struct {
	Environment any
}

type ApplicationRunEvent struct {
	Context *Context
}

func (c *Context) fire(h *nserve.Hook, payload any) error {
	c.debugf("fire %s", h)
	return c.lifecycle.Do(h, payload)
}
