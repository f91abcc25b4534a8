package merkle

// Prune destructively collapses every branch that cannot contain any of
// keep's items into a Partial placeholder carrying the exact digest the
// branch used to carry. Digests and heights of the surviving nodes are
// untouched, so the overall root digest is unchanged and ValidatePruned
// can still re-derive every remaining node. Pruning is irreversible and
// a pruned tree can never again pass strict Validate.
//
// Prune returns false without touching the tree when keep is empty
// (pruning everything is disallowed) or when the tree does not
// currently pass strict validation: pruning an invalid or
// already-pruned tree is undefined and rejected.
//
// The caller is responsible for keep being a subset of the original
// item set. Pruning against out-of-set items is not detected here; it
// leaves a tree that fails ValidatePruned or errors on search, never
// one with forged digests.
func (t *Tree[T]) Prune(keep []T) bool {
	if len(keep) == 0 {
		return false
	}
	if res := t.Validate(); res.Kind != Valid {
		return false
	}
	t.prune(keep)
	return true
}

func (t *Tree[T]) prune(keep []T) {
	// The left child covers everything up to leftBound.
	if noneAtMost(keep, t.leftBound) {
		if d, ok := branchDigest(t.left); ok {
			t.left = &Partial[T]{hash: d}
		}
	} else if sub, ok := t.left.(*Subtree[T]); ok {
		sub.tree.prune(keep)
	}

	if t.right.Type() == EmptyT {
		return
	}
	// The right child covers [leftmost leaf of the right subtree,
	// rightBound]. If that minimum cannot be found the branch is
	// conservatively kept rather than guessed about.
	if min, ok := t.rightMin(); ok && noneInRange(keep, min, t.rightBound) {
		if d, ok := branchDigest(t.right); ok {
			t.right = &Partial[T]{hash: d}
		}
	} else if sub, ok := t.right.(*Subtree[T]); ok {
		sub.tree.prune(keep)
	}
}

// rightMin returns the minimum item reachable under the right child.
// It fails on pruned and empty subtrees.
func (t *Tree[T]) rightMin() (T, bool) {
	switch b := t.right.(type) {
	case *Leaf[T]:
		return b.item, true
	case *Subtree[T]:
		return b.tree.leftmost()
	default:
		var zero T
		return zero, false
	}
}

// leftmost descends left to the first leaf item under this node.
func (t *Tree[T]) leftmost() (T, bool) {
	switch b := t.left.(type) {
	case *Leaf[T]:
		return b.item, true
	case *Subtree[T]:
		return b.tree.leftmost()
	default:
		var zero T
		return zero, false
	}
}

// noneAtMost reports whether no item of keep is <= bound.
func noneAtMost[T Item[T]](keep []T, bound T) bool {
	for _, k := range keep {
		if !bound.Less(k) {
			return false
		}
	}
	return true
}

// noneInRange reports whether no item of keep falls within [lo, hi].
func noneInRange[T Item[T]](keep []T, lo, hi T) bool {
	for _, k := range keep {
		if !k.Less(lo) && !hi.Less(k) {
			return false
		}
	}
	return true
}
