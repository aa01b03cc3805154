package pathtable

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLookupQualifiedWalksNestedOwners(t *testing.T) {
	table := New()
	table.Add(1, "Bool", 2)
	table.Add(2, "true_", 3)
	table.Add(2, "false_", 4)

	id, err := table.LookupQualified(1, []string{"Bool", "true_"})
	require.NoError(t, err)
	require.Equal(t, DefID(3), id)
}

func TestLookupQualifiedMissingComponent(t *testing.T) {
	table := New()
	table.Add(1, "Bool", 2)

	_, err := table.LookupQualified(1, []string{"Bool", "unknown"})
	require.ErrorIs(t, err, ErrNotFound)

	_, err = table.LookupQualified(1, []string{"Missing"})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestChildrenReturnsOwnerExports(t *testing.T) {
	table := New()
	table.Add(1, "a", 10)
	table.Add(1, "b", 11)

	children := table.Children(1)
	require.Len(t, children, 2)
	require.Equal(t, DefID(10), children["a"])
	require.Equal(t, DefID(11), children["b"])

	require.Nil(t, table.Children(99))
}
