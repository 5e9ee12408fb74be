package ntrack

import (
	"errors"
	"reflect"
	"testing"

	"github.com/muir/ntrack/nserve"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type tracingHook struct {
	module *dbModule
}

func (h *tracingHook) Configure(c *Context) error {
	return c.RegisterModules(h.module)
}

func TestRunHooks(t *testing.T) {
	t.Parallel()
	wrapTest(t, func(t *testing.T, log *zap.Logger) {
		c := newTestContext(log)
		var processed HooksProcessedEvent
		nserve.Listen(c.Lifecycle(), EventHooksProcessed, func(e HooksProcessedEvent) error {
			processed = e
			return nil
		})
		h := &tracingHook{module: &dbModule{dsn: "hooked"}}
		disabler := HookFunc(func(c *Context) error {
			c.DisableModules(cacheModuleT)
			return nil
		})
		require.NoError(t, c.RunHooks(h, disabler))

		assert.Equal(t, HookScope, c.Info(h.module).RegistrationScope())
		assert.Equal(t, ScopeHook, c.Info(h.module).RegistrationScopeKind())
		assert.Equal(t, ApplicationScope, c.Scope())
		assert.Equal(t, []reflect.Type{reflect.TypeOf(h), reflect.TypeOf(disabler)}, c.ExecutedHookTypes())
		assert.Len(t, processed.Hooks, 2)
		assert.Empty(t, c.Stats().RunningTimers())
	})
}

func TestFailingHook(t *testing.T) {
	t.Parallel()
	c := newTestContext(zap.NewNop())
	var processed bool
	c.Lifecycle().On(EventHooksProcessed, func(nserve.Event) error {
		processed = true
		return nil
	})
	boom := errors.New("boom")
	err := c.RunHooks(HookFunc(func(*Context) error { return boom }))
	require.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "configuration hook ntrack.HookFunc")
	assert.False(t, processed)
	assert.Equal(t, ApplicationScope, c.Scope())
	assert.Empty(t, c.ExecutedHookTypes())
}

func TestDelayedConfigurationKeepsScope(t *testing.T) {
	t.Parallel()
	c := newTestContext(zap.NewNop())
	b := &serverBundle{port: 1}
	_, err := c.RegisterBundles(b)
	require.NoError(t, err)
	late := &dbModule{dsn: "late"}
	var order []string
	c.AddDelayedConfiguration(func(c *Context) error {
		order = append(order, "application")
		return nil
	})
	require.NoError(t, c.WithBundleScope(b, func() error {
		c.AddDelayedConfiguration(func(c *Context) error {
			order = append(order, "bundle")
			return c.RegisterModules(late)
		})
		return nil
	}))
	assert.Nil(t, c.Info(late))

	require.NoError(t, c.ProcessDelayedConfigurations())
	assert.Equal(t, []string{"application", "bundle"}, order)
	assert.Equal(t, ItemIDOf(b), c.Info(late).RegistrationScope())
	assert.Equal(t, ApplicationScope, c.Scope())
}
