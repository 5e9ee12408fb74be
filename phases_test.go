package ntrack

import (
	"context"
	"testing"

	"github.com/muir/ntrack/nserve"
	"github.com/muir/ntrack/nshare"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type testApplication struct{ name string }

type testEnvironment struct{ name string }

func TestStartupPhases(t *testing.T) {
	t.Parallel()
	wrapTest(t, func(t *testing.T, log *zap.Logger) {
		registry := nshare.NewRegistry()
		c := newTestContext(log, WithRegistry(registry))
		app := &testApplication{name: "app"}
		env := &testEnvironment{name: "env"}

		var fired []string
		for _, h := range []*nserve.Hook{EventBeforeInit, EventExtensionsResolved, EventBeforeRun, EventApplicationRun} {
			c.Lifecycle().On(h, func(e nserve.Event) error {
				fired = append(fired, e.Hook.Name)
				return nil
			})
		}

		ctx := c.StartupContext(context.Background())
		startup, err := nshare.Startup(ctx)
		require.NoError(t, err)
		assert.Same(t, c.SharedState(), startup)

		require.NoError(t, c.InitPhaseStarted(app))
		s, ok := registry.Lookup(app)
		require.True(t, ok)
		assert.Same(t, c.SharedState(), s)
		gotApp, ok := nshare.Get[*testApplication](s)
		require.True(t, ok)
		assert.Same(t, app, gotApp)
		options, ok := nshare.Get[*Options](s)
		require.True(t, ok)
		assert.Same(t, c.Options(), options)

		require.ErrorIs(t, c.InitPhaseStarted(app), nshare.ErrAlreadyAssigned)

		require.NoError(t, c.FinalizeConfiguration())
		assert.Empty(t, c.Stats().RunningTimers())
		require.NoError(t, c.RunPhaseStarted(env))
		viaEnv, ok := registry.Lookup(env)
		require.True(t, ok)
		assert.Same(t, s, viaEnv)

		require.NoError(t, c.ApplicationRun())
		_, err = nshare.Startup(ctx)
		require.ErrorIs(t, err, nshare.ErrStartupComplete)

		require.NoError(t, c.Shutdown())
		assert.Equal(t, 0, registry.Count())
		_, ok = registry.Lookup(env)
		assert.False(t, ok)

		assert.Equal(t, []string{"before-init", "extensions-resolved", "before-run", "application-run"}, fired)
	})
}

func TestRunningTimersWarn(t *testing.T) {
	t.Parallel()
	c, logs := observedContext(t)
	require.NoError(t, c.InitPhaseStarted(&testApplication{name: "unfinished"}))
	require.NoError(t, c.ApplicationRun())
	warnings := logs.FilterMessage("timers still running at application start").All()
	require.Len(t, warnings, 1)
	assert.Equal(t, []any{"configuration-time"}, warnings[0].ContextMap()["stats"])
}

func TestNilPhaseArguments(t *testing.T) {
	t.Parallel()
	c := newTestContext(zap.NewNop())
	require.ErrorIs(t, c.InitPhaseStarted(nil), ErrNilItem)
	require.ErrorIs(t, c.RunPhaseStarted(nil), ErrNilItem)
}
