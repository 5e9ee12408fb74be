package ntrack

import (
	"errors"
	"testing"

	"github.com/muir/ntrack/nshare"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"
)

// wrapTest runs inner quietly.  If that fails, inner is run again with
// debug logging sent to the test log.
func wrapTest(t *testing.T, inner func(*testing.T, *zap.Logger)) {
	namedWrapTest(t, "", inner)
}

func namedWrapTest(t *testing.T, name string, inner func(*testing.T, *zap.Logger)) {
	if !t.Run("1st attempt"+name, func(t *testing.T) { inner(t, zap.NewNop()) }) {
		t.Run("2nd attempt"+name, func(t *testing.T) {
			inner(t, zaptest.NewLogger(t, zaptest.Level(zapcore.DebugLevel)))
		})
	}
}

func newTestContext(log *zap.Logger, opts ...ContextOption) *Context {
	return NewContext(append([]ContextOption{WithLogger(log), WithRegistry(nshare.NewRegistry())}, opts...)...)
}

// observedContext returns a Context whose log output at Info and above
// is captured.
func observedContext(t *testing.T, opts ...ContextOption) (*Context, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.InfoLevel)
	c := newTestContext(zap.New(core), opts...)
	require.NotNil(t, c)
	return c, logs
}

func TestDetailedError(t *testing.T) {
	t.Parallel()
	wrapTest(t, func(t *testing.T, log *zap.Logger) {
		c := newTestContext(log)
		require.NoError(t, c.RegisterModules(&dbModule{}))
		require.NoError(t, c.OpenScope(ClasspathScanScope))
		err := c.OpenScope(HookScope)
		require.Error(t, err)
		require.ErrorIs(t, err, ErrScopeAlreadyOpen)

		detailed := DetailedError(err)
		require.NotEqual(t, err.Error(), detailed, "detailed should have more")
		t.Log("detailed error", detailed)
		require.Contains(t, detailed, "current scope: ")
		require.Contains(t, detailed, "module: 1 registered, 0 disabled, 0 ignored")

		plain := errors.New("plain")
		require.Equal(t, "plain", DetailedError(plain))
	})
}
