package ntrack

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testRetries = NewOption("test-retries", 3)

func init() {
	RegisterOptions(testRetries)
}

func TestOptions(t *testing.T) {
	t.Parallel()
	o := newOptions()

	assert.Equal(t, "equals", GetOption(o, DuplicatePolicy))
	assert.True(t, o.IsUsed(DuplicatePolicy.Name()))
	assert.False(t, o.IsSet(DuplicatePolicy.Name()))
	assert.Nil(t, GetOption(o, ScanPackages))

	require.NoError(t, o.Set("scan-packages", []string{"github.com/acme/app"}))
	assert.Equal(t, []string{"github.com/acme/app"}, GetOption(o, ScanPackages))
	require.NoError(t, o.Set("test-retries", 5))
	assert.Equal(t, 5, GetOption(o, testRetries))
	SetOption(o, SearchCommands, true)
	assert.True(t, o.IsSet(SearchCommands.Name()))
	assert.False(t, o.IsUsed(SearchCommands.Name()))

	v, ok := o.Value("use-bundle-lookup")
	assert.True(t, ok)
	assert.Equal(t, true, v)
	_, ok = o.Value("no-such-option")
	assert.False(t, ok)

	require.ErrorIs(t, o.Set("no-such-option", 1), ErrInvalidOption)
	require.ErrorIs(t, o.Set("test-retries", "five"), ErrInvalidOption)
	require.ErrorIs(t, o.Set("test-retries", nil), ErrInvalidOption)
	assert.Equal(t, 5, GetOption(o, testRetries), "failed sets change nothing")
}

func TestKnownOptions(t *testing.T) {
	t.Parallel()
	var names []string
	for _, def := range KnownOptions() {
		names = append(names, def.Name())
	}
	assert.IsIncreasing(t, names)
	assert.Subset(t, names, []string{
		"duplicate-policy", "scan-packages", "search-commands",
		"test-retries", "track-external-bundles", "use-bundle-lookup",
	})
}
