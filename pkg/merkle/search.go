package merkle

// Contains reports whether item is one of the leaves of the tree.
// Leaves are laid out in sorted order, so the lookup routes on per-node
// bounds and runs in O(log n): at every node the query goes left iff it
// is not greater than the left child's bound.
//
// Searching a pruned tree only works while the route stays clear of
// pruned regions. A route hitting a Partial branch returns ErrPruned,
// since "not found" cannot be distinguished from "was pruned away".
func (t *Tree[T]) Contains(item T) (bool, error) {
	branch := t.right
	if !t.leftBound.Less(item) {
		branch = t.left
	}
	switch b := branch.(type) {
	case *Subtree[T]:
		return b.tree.Contains(item)
	case *Leaf[T]:
		return equal(b.item, item), nil
	case *Partial[T]:
		return false, ErrPruned
	default:
		// Empty: the query is greater than everything in the tree.
		return false, nil
	}
}
