package ntrack

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// configured builds a small but complete configuration
func configured(t *testing.T, log *zap.Logger) (*Context, map[string]any) {
	c := newTestContext(log)
	items := map[string]any{
		"lookup": &serverBundle{port: 1},
		"app":    &plainBundle{n: 1},
		"inner":  &plainBundle{n: 2},
		"db":     &dbModule{dsn: "db"},
		"cache":  &cacheModule{size: 3},
	}
	require.NoError(t, c.RegisterLookupBundles(items["lookup"]))
	require.NoError(t, c.RegisterInstallersFromScan(resourceInstallerT, healthInstallerT))
	_, err := c.GetOrRegisterExtension(usersResourceT, true)
	require.NoError(t, err)
	_, err = c.RegisterBundles(items["app"])
	require.NoError(t, err)
	require.NoError(t, c.WithBundleScope(items["app"], func() error {
		if _, err := c.RegisterBundles(items["inner"]); err != nil {
			return err
		}
		if err := c.RegisterExtensions(pingHealthCheckT); err != nil {
			return err
		}
		c.DisableModules(cacheModuleT)
		return c.RegisterModules(items["db"], items["cache"])
	}))
	require.NoError(t, c.RunHooks(HookFunc(func(c *Context) error {
		c.DisableExtensions(unusedExtensionT)
		return c.RegisterExtensions(usersResourceT)
	})))
	require.NoError(t, c.NotifyExtensionRecognized(usersResourceT, resourceInstallerT, ExtensionTraits{}))
	require.NoError(t, c.NotifyExtensionRecognized(pingHealthCheckT, healthInstallerT, ExtensionTraits{Web: true}))
	require.NoError(t, c.FinalizeConfiguration())
	return c, items
}

func TestConfigurationInfo(t *testing.T) {
	t.Parallel()
	wrapTest(t, func(t *testing.T, log *zap.Logger) {
		c, items := configured(t, log)
		ci := NewConfigurationInfo(c)

		assert.Equal(t, []ItemID{ItemIDOf(items["lookup"]), ItemIDOf(items["app"]), ItemIDOf(items["inner"])}, ci.Items(KindBundle))
		assert.Equal(t, []ItemID{TypeID(usersResourceT), TypeID(pingHealthCheckT), TypeID(unusedExtensionT)}, ci.Items(KindExtension))
		assert.Equal(t, []ItemID{TypeID(unusedExtensionT)}, ci.ItemsWhere(KindExtension, Disabled))
		assert.Equal(t, []ItemID{ItemIDOf(items["cache"]), TypeID(unusedExtensionT)}, ci.AllItemsWhere(Disabled))
		assert.Equal(t, []ItemID{ItemIDOf(items["lookup"])}, ci.ItemsWhere(KindBundle, LookupBundles))
		assert.Equal(t, []ItemID{ItemIDOf(items["inner"])}, ci.ItemsWhere(KindBundle, TransitiveBundles))
		assert.Equal(t, []ItemID{TypeID(pingHealthCheckT)}, ci.ItemsWhere(KindExtension, InstalledBy(healthInstallerT)))
		assert.Equal(t,
			[]ItemID{ItemIDOf(items["inner"]), TypeID(pingHealthCheckT), ItemIDOf(items["db"]), ItemIDOf(items["cache"])},
			ci.AllItemsWhere(RegisteredByScope(ItemIDOf(items["app"]))))
		assert.Equal(t,
			[]ItemID{TypeID(resourceInstallerT), TypeID(healthInstallerT), TypeID(usersResourceT)},
			ci.AllItemsWhere(FromScan))
		assert.Equal(t,
			[]ItemID{ItemIDOf(items["app"]), ItemIDOf(items["inner"])},
			ci.ItemsOfType(plainBundleT))

		users, err := ci.Info(TypeID(usersResourceT))
		require.NoError(t, err)
		assert.Equal(t, []ItemID{ClasspathScanScope, HookScope}, users.RegisteredBy())
		assert.Equal(t, 1, users.IgnoresByScope(HookScope))

		_, err = ci.Info(TypeID(plainBundleT))
		require.ErrorIs(t, err, ErrAmbiguousInfo)
		assert.Len(t, ci.Infos(plainBundleT), 2)
		assert.Len(t, ci.Infos(usersResourceT), 1)
		assert.Empty(t, ci.Infos(migrateCommandT))
		missing, err := ci.Info(TypeID(migrateCommandT))
		require.NoError(t, err)
		assert.Nil(t, missing)

		disabled := ci.InfosWhere(KindModule, Disabled)
		require.Len(t, disabled, 1)
		assert.Equal(t, []ItemID{ItemIDOf(items["app"])}, disabled[0].DisabledBy())

		unused, err := ci.Info(TypeID(unusedExtensionT))
		require.NoError(t, err)
		assert.Equal(t, []ItemID{HookScope}, unused.DisabledBy())
		assert.Equal(t, []reflect.Type{reflect.TypeOf(HookFunc(nil))}, ci.Hooks())
	})
}
