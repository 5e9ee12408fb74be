package ntrack

import (
	"reflect"

	"github.com/muir/ntrack/nserve"
	"github.com/muir/ntrack/nshare"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// InitPhaseStarted assigns the shared state to the application object
// in the registry and fires EventBeforeInit.  The configuration timer
// runs until FinalizeConfiguration.
func (c *Context) InitPhaseStarted(application any) error {
	if application == nil {
		return c.fail(errors.Wrap(ErrNilItem, "application"))
	}
	if err := c.registry.Assign(application, c.state); err != nil {
		return c.fail(err)
	}
	c.configTimer = c.stats.Timer(StatConfigurationTime)
	c.owner = application
	if err := c.state.Put(nshare.TypeKey(reflect.TypeOf(application)), application); err != nil {
		return c.fail(err)
	}
	return c.fire(EventBeforeInit, InitEvent{Application: application})
}

// WithBundleScope runs fn with bundle as the current scope.  The time
// spent is added to StatBundleTime.
func (c *Context) WithBundleScope(bundle any, fn func() error) error {
	timer := c.stats.Timer(StatBundleTime)
	defer timer.Stop()
	return c.WithScope(ItemIDOf(bundle), fn)
}

// RunPhaseStarted makes the shared state reachable through the
// environment, arranges for it to be released on shutdown and fires
// EventBeforeRun.
func (c *Context) RunPhaseStarted(environment any) error {
	if environment == nil {
		return c.fail(errors.Wrap(ErrNilItem, "environment"))
	}
	if c.owner != nil {
		c.registry.Attach(environment, c.owner)
	}
	if err := c.state.Put(nshare.TypeKey(reflect.TypeOf(environment)), environment); err != nil {
		return c.fail(err)
	}
	c.lifecycle.Manage(c.state)
	return c.fire(EventBeforeRun, RunEvent{Environment: environment})
}

// ApplicationRun ends startup: the shared state is no longer reachable
// through a startup context.
func (c *Context) ApplicationRun() error {
	c.state.ForgetStartup()
	if running := c.stats.RunningTimers(); len(running) > 0 {
		names := make([]string, len(running))
		for i, s := range running {
			names[i] = s.String()
		}
		c.log.Warn("timers still running at application start", zap.Strings("stats", names))
	}
	return c.fire(EventApplicationRun, ApplicationRunEvent{Context: c})
}

// Shutdown runs the lifecycle shutdown hook and releases the shared
// state.
func (c *Context) Shutdown() error {
	err := c.lifecycle.Do(nserve.Shutdown, nil)
	if c.owner != nil {
		c.registry.Destroy(c.owner)
	}
	return err
}
