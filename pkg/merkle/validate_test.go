package merkle

import (
	"testing"

	"github.com/rileylyman/newton/pkg/hash"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateRoundTrip(t *testing.T) {
	for n := 1; n <= 17; n++ {
		tr, _ := randomTree(t, n)
		res := tr.Validate()
		assert.Equal(t, Valid, res.Kind, "n = %d: %s", n, res.Reason)
		res = tr.ValidatePruned()
		assert.Equal(t, Valid, res.Kind, "n = %d (pruned mode): %s", n, res.Reason)
	}
}

func TestValidateTamperedLeaf(t *testing.T) {
	for _, n := range []int{1, 2, 5, 8, 13} {
		tr, _ := randomTree(t, n)
		fringe := leftmostFringe(tr)
		fringe.left.(*Leaf[StringItem]).hash = hash.Sha256([]byte("tampered"))

		res := tr.Validate()
		require.Equal(t, InvalidHash, res.Kind, "n = %d", n)
		require.NotEmpty(t, res.Reason)
	}
}

func TestValidateTamperedNodeDigest(t *testing.T) {
	tr, _ := randomTree(t, 8)
	tr.left.(*Subtree[StringItem]).tree.root = hash.Sha256([]byte("tampered"))

	res := tr.Validate()
	require.Equal(t, InvalidHash, res.Kind)
}

func TestValidateSwappedLeafItem(t *testing.T) {
	// Replacing a leaf's item without recomputing its digest must
	// surface as a hash mismatch, not a structural one.
	tr, _ := randomTree(t, 6)
	fringe := leftmostFringe(tr)
	fringe.left.(*Leaf[StringItem]).item = "substitute"

	res := tr.Validate()
	require.Equal(t, InvalidHash, res.Kind)
}

func TestValidateHeightMismatch(t *testing.T) {
	tr, _ := randomTree(t, 4)
	tr.height = 5

	res := tr.Validate()
	require.Equal(t, InvalidTree, res.Kind)

	tr, _ = randomTree(t, 2)
	tr.height = 1
	res = tr.Validate()
	require.Equal(t, InvalidTree, res.Kind)
	require.Equal(t, "fringe node has nonzero height", res.Reason)
}

func TestValidateTamperedBound(t *testing.T) {
	tr, _ := randomTree(t, 8)
	tr.leftBound = "zzzz-not-the-real-bound"

	res := tr.Validate()
	require.Equal(t, InvalidTree, res.Kind)
}

func TestValidateOutOfOrderLeaves(t *testing.T) {
	tr := newStringTree(t, "a", "b")
	fringe := leftmostFringe(tr)
	left := fringe.left.(*Leaf[StringItem])
	right := fringe.right.(*Leaf[StringItem])
	fringe.left, fringe.right = right, left
	fringe.leftBound, fringe.rightBound = right.item, left.item
	fringe.root = hash.Concat(right.hash, left.hash)

	res := tr.Validate()
	require.Equal(t, InvalidTree, res.Kind)
	require.Equal(t, "fringe items out of order", res.Reason)
}

func TestValidateMalformedChildKinds(t *testing.T) {
	inner := newStringTree(t, "a", "b")
	malformed := &Tree[StringItem]{
		left:      &Leaf[StringItem]{item: "c", hash: StringItem("c").Hash()},
		right:     &Subtree[StringItem]{tree: inner},
		root:      hash.Sha256([]byte("whatever")),
		height:    1,
		leftBound: "c",
	}

	res := malformed.Validate()
	require.Equal(t, InvalidTree, res.Kind)
	require.Equal(t, "malformed tree: mismatched child kinds", res.Reason)
}

func TestValidateStrictRejectsPartial(t *testing.T) {
	tr, _ := randomTree(t, 8)
	left := tr.left.(*Subtree[StringItem]).tree
	tr.left = &Partial[StringItem]{hash: left.root}

	res := tr.Validate()
	require.Equal(t, InvalidTree, res.Kind)
	require.Equal(t, "unexpected pruned content", res.Reason)

	// The same tree re-derives fine in pruned mode: the placeholder
	// carries the exact digest the branch used to carry.
	res = tr.ValidatePruned()
	require.Equal(t, Valid, res.Kind, res.Reason)
}

func TestValidateStrictRejectsDeepPartial(t *testing.T) {
	tr, items := randomTree(t, 16)
	require.True(t, tr.Prune(toItems(items[:1])))

	res := tr.Validate()
	require.Equal(t, InvalidTree, res.Kind)
	require.Equal(t, Valid, tr.ValidatePruned().Kind)
}

func TestValidateBothChildrenPartial(t *testing.T) {
	tr, _ := randomTree(t, 4)
	left := tr.left.(*Subtree[StringItem]).tree
	right := tr.right.(*Subtree[StringItem]).tree
	tr.left = &Partial[StringItem]{hash: left.root}
	tr.right = &Partial[StringItem]{hash: right.root}

	res := tr.ValidatePruned()
	require.Equal(t, InvalidTree, res.Kind)
	require.NotEmpty(t, res.Reason)
}

func TestValidatePrunedWrongPlaceholder(t *testing.T) {
	// A placeholder carrying anything but the pruned branch's original
	// digest breaks the re-derivation of the parent.
	tr, _ := randomTree(t, 8)
	tr.left = &Partial[StringItem]{hash: hash.Sha256([]byte("forged"))}

	res := tr.ValidatePruned()
	require.Equal(t, InvalidHash, res.Kind)
}

func TestValidateHashPrecedence(t *testing.T) {
	// With a tampered leaf on one side and pruned content on the other,
	// the hash mismatch wins: it is the tampering evidence.
	tr, _ := randomTree(t, 8)
	right := tr.right.(*Subtree[StringItem]).tree
	tr.right = &Partial[StringItem]{hash: right.root}
	leftmostFringe(tr).left.(*Leaf[StringItem]).hash = hash.Sha256([]byte("tampered"))

	res := tr.ValidatePruned()
	require.Equal(t, InvalidHash, res.Kind)
}
