package names

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestKeyIsLowercaseJoin(t *testing.T) {
	q := NewQ("Proj", "Dataset", "Table")
	require.Equal(t, "proj.dataset.table", q.Key())
	require.Equal(t, "Proj.Dataset.Table", q.String())
}

func TestParseSplitsOnDot(t *testing.T) {
	q := Parse("a.b.c")
	require.Equal(t, Q{"a", "b", "c"}, q)
}

func TestEqualIsCaseInsensitive(t *testing.T) {
	a := NewQ("Foo", "Bar")
	b := NewQ("foo", "bar")
	require.True(t, a.Equal(b))
}

func TestNotEqualDifferentPaths(t *testing.T) {
	a := NewQ("foo")
	b := NewQ("foo", "bar")
	require.False(t, a.Equal(b))
}
