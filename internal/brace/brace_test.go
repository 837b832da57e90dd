package brace

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/globtrail/globtrail/internal/xerrors"
)

func TestExpandAlternatives(t *testing.T) {
	t.Parallel()

	out, err := Expand("file.{go,md,txt}", Limits{})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"file.go", "file.md", "file.txt"}, out)
}

func TestExpandNestedGroups(t *testing.T) {
	t.Parallel()

	out, err := Expand("{a,b{1,2}}", Limits{})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a", "b1", "b2"}, out)
}

func TestExpandNumericRange(t *testing.T) {
	t.Parallel()

	out, err := Expand("img{1..3}.png", Limits{})
	require.NoError(t, err)
	assert.Equal(t, []string{"img1.png", "img2.png", "img3.png"}, out)
}

func TestExpandNumericRangeWithStep(t *testing.T) {
	t.Parallel()

	out, err := Expand("{0..10..5}", Limits{})
	require.NoError(t, err)
	assert.Equal(t, []string{"0", "5", "10"}, out)
}

func TestExpandNumericRangePreservesZeroPadding(t *testing.T) {
	t.Parallel()

	out, err := Expand("{01..10..2}", Limits{})
	require.NoError(t, err)
	assert.Equal(t, []string{"01", "03", "05", "07", "09"}, out)
}

func TestExpandDescendingRange(t *testing.T) {
	t.Parallel()

	out, err := Expand("{3..1}", Limits{})
	require.NoError(t, err)
	assert.Equal(t, []string{"3", "2", "1"}, out)
}

func TestExpandMalformedBraceLeftLiteral(t *testing.T) {
	t.Parallel()

	out, err := Expand("weird{thing", Limits{})
	require.NoError(t, err)
	assert.Equal(t, []string{"weird{thing"}, out)
}

func TestExpandSingleAlternativeIsLiteral(t *testing.T) {
	t.Parallel()

	out, err := Expand("{onlyone}", Limits{})
	require.NoError(t, err)
	assert.Equal(t, []string{"{onlyone}"}, out)
}

func TestExpandEscapedBraceIsLiteral(t *testing.T) {
	t.Parallel()

	out, err := Expand(`\{a,b\}`, Limits{})
	require.NoError(t, err)
	assert.Equal(t, []string{"{a,b}"}, out)
}

func TestExpandDepthCapExceeded(t *testing.T) {
	t.Parallel()

	pattern := "{a,{a,{a,{a,{a,{a,{a,{a,{a,x}}}}}}}}}"

	_, err := Expand(pattern, Limits{MaxDepth: 2})
	require.Error(t, err)

	ge, ok := xerrors.As(err)
	require.True(t, ok)
	assert.Equal(t, xerrors.KindBraceExpansionDepth, ge.Kind)
}

func TestExpandCountCapExceeded(t *testing.T) {
	t.Parallel()

	_, err := Expand("{1..1000}", Limits{MaxCount: 10})
	require.Error(t, err)

	ge, ok := xerrors.As(err)
	require.True(t, ok)
	assert.Equal(t, xerrors.KindBraceExpansionCount, ge.Kind)
}

func TestExpandTotalityAcrossCartesianProduct(t *testing.T) {
	t.Parallel()

	out, err := Expand("{a,b}-{1,2}-{x,y}", Limits{})
	require.NoError(t, err)
	assert.Len(t, out, 8)
	assert.ElementsMatch(t, []string{
		"a-1-x", "a-1-y", "a-2-x", "a-2-y",
		"b-1-x", "b-1-y", "b-2-x", "b-2-y",
	}, out)
}
