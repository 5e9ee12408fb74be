package ntrack

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestStatNames(t *testing.T) {
	t.Parallel()
	all := AllStats()
	require.Len(t, all, int(lastStat))
	for _, s := range all {
		assert.NotEqual(t, "UNUSED", s.String())
	}
	assert.Equal(t, "UNUSED", lastStat.String())
	assert.True(t, StatHooksTime.IsTimer())
	assert.False(t, StatCommandsCount.IsTimer())
}

func TestTimers(t *testing.T) {
	t.Parallel()
	s := newStats()
	outer := s.Timer(StatBundleTime)
	inner := s.Timer(StatBundleTime)
	assert.Equal(t, []Stat{StatBundleTime}, s.RunningTimers())
	time.Sleep(time.Millisecond)
	d := inner.Stop()
	assert.Positive(t, d)
	assert.Equal(t, []Stat{StatBundleTime}, s.RunningTimers(), "outer still runs")
	outer.Stop()
	assert.Empty(t, s.RunningTimers())
	assert.Zero(t, outer.Stop(), "stopping twice")
	assert.GreaterOrEqual(t, s.Duration(StatBundleTime), 2*time.Millisecond)
}

func TestStatsExport(t *testing.T) {
	t.Parallel()
	c := newTestContext(zap.NewNop())
	reg := prometheus.NewPedanticRegistry()
	require.NoError(t, c.Stats().Register(reg))

	require.NoError(t, c.RegisterModules(&dbModule{dsn: "a"}, &dbModule{dsn: "b"}))
	require.NoError(t, c.RegisterCommands(migrateCommandT))
	_, err := c.RegisterBundles(&namedBundle{name: "x"}, &namedBundle{name: "x"})
	require.NoError(t, err)

	assert.Equal(t, 5, c.Stats().Count(StatRegistrationsCount))
	assert.InDelta(t, 2, testutil.ToFloat64(c.Stats().byKind.WithLabelValues("module")), 0)
	assert.InDelta(t, 2, testutil.ToFloat64(c.Stats().byKind.WithLabelValues("bundle")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(c.Stats().totals.WithLabelValues("duplicates-count")), 0)
	assert.InDelta(t, 5, testutil.ToFloat64(c.Stats().totals.WithLabelValues("registrations-count")), 0)

	n, err := testutil.GatherAndCount(reg, "ntrack_registrations_total")
	require.NoError(t, err)
	assert.Equal(t, 3, n, "module, command and bundle")

	require.Error(t, c.Stats().Register(reg), "already registered")
}
