package globtrail

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGlobOptionsDefaults(t *testing.T) {
	t.Parallel()

	o, err := NewGlobOptions()
	require.NoError(t, err)

	assert.True(t, o.CaseSensitive)
	assert.False(t, o.FollowSymlinks)
	assert.Nil(t, o.MaxDepth)
	assert.Equal(t, uint32(runtime.NumCPU()), o.MaxInflight)
	assert.True(t, o.RejectPathTraversal)
	assert.NotNil(t, o.Logger)
}

func TestNewGlobOptionsAppliesOverrides(t *testing.T) {
	t.Parallel()

	o, err := NewGlobOptions(
		WithCaseSensitive(false),
		WithFollowSymlinks(true),
		WithMaxDepth(3),
		WithMaxInflight(8),
	)
	require.NoError(t, err)

	assert.False(t, o.CaseSensitive)
	assert.True(t, o.FollowSymlinks)
	require.NotNil(t, o.MaxDepth)
	assert.Equal(t, uint32(3), *o.MaxDepth)
	assert.Equal(t, uint32(8), o.MaxInflight)
}

func TestNewGlobOptionsRejectsZeroMaxInflight(t *testing.T) {
	t.Parallel()

	_, err := NewGlobOptions(WithMaxInflight(0))
	require.Error(t, err)

	ge, ok := AsGlobError(err)
	require.True(t, ok)
	assert.Equal(t, KindInvalidPattern, ge.Kind)
}

func TestWithUnlimitedDepthClearsMaxDepth(t *testing.T) {
	t.Parallel()

	o, err := NewGlobOptions(WithMaxDepth(2), WithUnlimitedDepth())
	require.NoError(t, err)
	assert.Nil(t, o.MaxDepth)
}
