package ntrack

import (
	"reflect"

	"github.com/pkg/errors"
)

// ConfigurationHook gets a chance to change the configuration after
// the application configured itself.  Registrations made by hooks are
// attributed to HookScope.
type ConfigurationHook interface {
	Configure(*Context) error
}

// HookFunc adapts a function to ConfigurationHook
type HookFunc func(*Context) error

func (f HookFunc) Configure(c *Context) error { return f(c) }

// RunHooks runs hooks in HookScope and then fires EventHooksProcessed
func (c *Context) RunHooks(hooks ...ConfigurationHook) error {
	timer := c.stats.Timer(StatHooksTime)
	err := c.withOpenScope(HookScope, func() error {
		for _, h := range hooks {
			if err := h.Configure(c); err != nil {
				return errors.Wrapf(err, "configuration hook %T", h)
			}
			c.hookTypes = append(c.hookTypes, reflect.TypeOf(h))
		}
		return nil
	})
	timer.Stop()
	if err != nil {
		return err
	}
	return c.fire(EventHooksProcessed, HooksProcessedEvent{Hooks: hooks})
}

// ExecutedHookTypes lists the types of hooks run by RunHooks
func (c *Context) ExecutedHookTypes() []reflect.Type {
	t := make([]reflect.Type, len(c.hookTypes))
	copy(t, c.hookTypes)
	return t
}

type delayedConfig struct {
	scope ItemID
	f     func(*Context) error
}

// AddDelayedConfiguration remembers f to be run by
// ProcessDelayedConfigurations.  f runs in the scope that was current
// when it was added.
func (c *Context) AddDelayedConfiguration(f func(*Context) error) {
	c.delayed = append(c.delayed, delayedConfig{scope: c.scope, f: f})
}

// ProcessDelayedConfigurations runs the delayed configurations in the
// order they were added.
func (c *Context) ProcessDelayedConfigurations() error {
	for _, d := range c.delayed {
		if err := c.WithScope(d.scope, func() error { return d.f(c) }); err != nil {
			return err
		}
	}
	return nil
}
