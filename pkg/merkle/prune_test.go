package merkle

import (
	"sort"
	"testing"

	"github.com/rileylyman/newton/pkg/hash"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPruneEmptyKeep(t *testing.T) {
	tr, _ := randomTree(t, 8)
	root := tr.Root()

	require.False(t, tr.Prune(nil))
	require.False(t, tr.Prune([]StringItem{}))
	require.Equal(t, root, tr.Root())
	require.Equal(t, Valid, tr.Validate().Kind)
}

func TestPruneRequiresValidTree(t *testing.T) {
	tr, items := randomTree(t, 8)
	leftmostFringe(tr).left.(*Leaf[StringItem]).hash = hash.Sha256([]byte("tampered"))

	require.False(t, tr.Prune(toItems(items[:1])))
}

func TestPruneTwice(t *testing.T) {
	tr, items := randomTree(t, 8)
	require.True(t, tr.Prune(toItems(items[:1])))

	// A pruned tree no longer passes strict validation, so a second
	// prune is rejected.
	require.False(t, tr.Prune(toItems(items[:1])))
}

func TestPrunePreservesRoot(t *testing.T) {
	for _, n := range []int{2, 3, 5, 8, 16, 33} {
		tr, items := randomTree(t, n)
		rootBefore, heightBefore := tr.Root(), tr.Height()

		require.True(t, tr.Prune(toItems(items[:1])), "n = %d", n)

		assert.Equal(t, rootBefore, tr.Root(), "n = %d", n)
		assert.Equal(t, heightBefore, tr.Height(), "n = %d", n)
		res := tr.ValidatePruned()
		assert.Equal(t, Valid, res.Kind, "n = %d: %s", n, res.Reason)
		assert.Equal(t, InvalidTree, tr.Validate().Kind, "n = %d", n)
	}
}

func TestPruneKeepsSubset(t *testing.T) {
	tr, items := randomTree(t, 16)
	keep := toItems(items[:4])
	require.True(t, tr.Prune(keep))

	require.Equal(t, Valid, tr.ValidatePruned().Kind)
	for _, k := range keep {
		ok, err := tr.Contains(k)
		require.NoError(t, err)
		assert.True(t, ok, "kept item %q", k)
	}
}

func TestPruneKeepEverything(t *testing.T) {
	tr, items := randomTree(t, 9)
	root := tr.Root()

	require.True(t, tr.Prune(toItems(items)))

	// Nothing was prunable, so the tree still passes strict validation.
	require.Equal(t, root, tr.Root())
	require.Equal(t, Valid, tr.Validate().Kind)
}

func TestPrunedSearchSafety(t *testing.T) {
	tr, items := randomTree(t, 16)
	sorted := append([]string(nil), items...)
	sort.Strings(sorted)
	min, max := StringItem(sorted[0]), StringItem(sorted[len(sorted)-1])

	require.True(t, tr.Prune([]StringItem{max}))

	// The kept item is still found; the pruned region errors instead of
	// answering a false "not found".
	ok, err := tr.Contains(max)
	require.NoError(t, err)
	require.True(t, ok)

	_, err = tr.Contains(min)
	require.ErrorIs(t, err, ErrPruned)
}

func TestPrunePlaceholderDigests(t *testing.T) {
	tr := newStringTree(t, "a", "b", "c", "d")
	leftDigest := tr.left.(*Subtree[StringItem]).tree.Root()

	// Keep only the right half: the left subtree collapses to a
	// placeholder carrying exactly the digest it used to carry.
	require.True(t, tr.Prune([]StringItem{"c", "d"}))

	p, ok := tr.left.(*Partial[StringItem])
	require.True(t, ok)
	require.Equal(t, leftDigest, p.Hash())
	require.Equal(t, PartialT, p.Type())
}
