package merkle

import (
	"fmt"

	"github.com/rileylyman/newton/pkg/hash"
)

// ResultKind represents validation outcome kind.
type ResultKind byte

// Validation outcome kinds.
const (
	// Valid means no inconsistency was found.
	Valid ResultKind = iota
	// InvalidHash means some node's digest does not match the digest
	// re-derived from its children. A hash mismatch is evidence of
	// tampering or a construction bug and is never silently ignored.
	InvalidHash
	// InvalidTree means the tree's shape is wrong: bad heights, child
	// kinds that cannot appear together, or pruned content where none
	// is allowed.
	InvalidTree
)

// String implements fmt.Stringer.
func (k ResultKind) String() string {
	switch k {
	case Valid:
		return "Valid"
	case InvalidHash:
		return "InvalidHash"
	case InvalidTree:
		return "InvalidTree"
	default:
		return fmt.Sprintf("ResultKind(%d)", k)
	}
}

// ValidationResult is the outcome of Validate or ValidatePruned,
// carrying a human-readable reason for anything other than Valid.
type ValidationResult struct {
	Kind   ResultKind
	Reason string
}

func valid() ValidationResult {
	return ValidationResult{Kind: Valid}
}

func invalidHash(format string, args ...any) ValidationResult {
	return ValidationResult{Kind: InvalidHash, Reason: fmt.Sprintf(format, args...)}
}

func invalidTree(format string, args ...any) ValidationResult {
	return ValidationResult{Kind: InvalidTree, Reason: fmt.Sprintf(format, args...)}
}

// Validate checks that every node's digest and height are correctly
// derived from its children. It never accepts pruned content: a tree
// containing any Partial branch is only meaningful under
// ValidatePruned.
func (t *Tree[T]) Validate() ValidationResult {
	return t.validate(false)
}

// ValidatePruned is Validate for trees that went through Prune. A node
// may have at most one Partial side, whose stored digest substitutes
// for the missing subtree when re-deriving the parent digest; two
// Partial children leave nothing to re-derive from and are rejected.
func (t *Tree[T]) ValidatePruned() ValidationResult {
	return t.validate(true)
}

func (t *Tree[T]) validate(pruned bool) ValidationResult {
	leftKind, rightKind := t.left.Type(), t.right.Type()
	switch {
	case leftKind == SubtreeT && rightKind == SubtreeT:
		left := t.left.(*Subtree[T]).tree
		right := t.right.(*Subtree[T]).tree
		leftRes, rightRes := left.validate(pruned), right.validate(pruned)
		switch {
		case leftRes.Kind == Valid && rightRes.Kind == Valid:
			return t.validateInternal(left, right)
		// An InvalidHash found below outranks anything else: it is
		// evidence of tampering, not of code merely walking past
		// pruned or reshaped data.
		case leftRes.Kind == InvalidHash:
			return leftRes
		case rightRes.Kind == InvalidHash:
			return rightRes
		case leftRes.Kind != Valid:
			return leftRes
		default:
			return rightRes
		}

	case leftKind == SubtreeT && rightKind == EmptyT:
		left := t.left.(*Subtree[T]).tree
		if res := left.validate(pruned); res.Kind != Valid {
			return res
		}
		return t.validateInternal(left, nil)

	case leftKind == LeafT && rightKind == LeafT:
		return t.validateFringe(t.left.(*Leaf[T]), t.right.(*Leaf[T]))

	case leftKind == LeafT && rightKind == EmptyT:
		return t.validateFringe(t.left.(*Leaf[T]), nil)

	case leftKind == PartialT || rightKind == PartialT:
		if !pruned {
			return invalidTree("unexpected pruned content")
		}
		if leftKind == PartialT && rightKind == PartialT {
			return invalidTree("both children pruned, nothing left to re-derive the digest from")
		}
		if p, ok := t.left.(*Partial[T]); ok {
			return t.validatePrunedSide(p.hash, t.right, true)
		}
		return t.validatePrunedSide(t.right.(*Partial[T]).hash, t.left, false)

	default:
		return invalidTree("malformed tree: mismatched child kinds")
	}
}

// validateInternal checks this node's own digest and height derivation
// against already-validated children. A nil right stands for an Empty
// right branch.
func (t *Tree[T]) validateInternal(left, right *Tree[T]) ValidationResult {
	var want hash.Digest
	if right != nil {
		want = hash.Concat(left.root, right.root)
	} else {
		want = hash.Sha256([]byte(left.root))
	}
	if want != t.root {
		return invalidHash("internal node has an unexpected root digest")
	}
	if t.height != left.height+1 {
		return invalidTree("internal node height %d differs from 1 + left child height %d", t.height, left.height)
	}
	if right != nil && t.height != right.height+1 {
		return invalidTree("internal node height %d differs from 1 + right child height %d", t.height, right.height)
	}
	if !equal(t.leftBound, left.maxItem()) {
		return invalidTree("stored left bound differs from the left child's maximum item")
	}
	if right != nil && !equal(t.rightBound, right.maxItem()) {
		return invalidTree("stored right bound differs from the right child's maximum item")
	}
	return valid()
}

// validateFringe checks a height-0 node: leaf digests against the items
// themselves, the node digest against the concatenated leaf digests,
// the leaf order and the stored bounds. A nil right stands for an Empty
// right branch.
func (t *Tree[T]) validateFringe(left, right *Leaf[T]) ValidationResult {
	if left.item.Hash() != left.hash {
		return invalidHash("leaf digest differs from the item's content hash")
	}
	var want hash.Digest
	if right != nil {
		if right.item.Hash() != right.hash {
			return invalidHash("leaf digest differs from the item's content hash")
		}
		want = hash.Concat(left.hash, right.hash)
	} else {
		want = hash.Sha256([]byte(left.hash))
	}
	if want != t.root {
		return invalidHash("fringe node has an unexpected root digest")
	}
	if t.height != 0 {
		return invalidTree("fringe node has nonzero height")
	}
	if right != nil && right.item.Less(left.item) {
		return invalidTree("fringe items out of order")
	}
	if !equal(t.leftBound, left.item) {
		return invalidTree("stored left bound differs from the left leaf item")
	}
	if right != nil && !equal(t.rightBound, right.item) {
		return invalidTree("stored right bound differs from the right leaf item")
	}
	return valid()
}

// validatePrunedSide re-derives a node digest around one pruned child:
// the surviving side is revalidated in full and its digest concatenated
// with the opaque placeholder in the original left/right order.
func (t *Tree[T]) validatePrunedSide(partial hash.Digest, other Branch[T], partialOnLeft bool) ValidationResult {
	var otherDigest hash.Digest
	switch b := other.(type) {
	case *Subtree[T]:
		if res := b.tree.validate(true); res.Kind != Valid {
			return res
		}
		if t.height != b.tree.height+1 {
			return invalidTree("internal node height %d differs from 1 + child height %d", t.height, b.tree.height)
		}
		otherDigest = b.tree.root
	case *Leaf[T]:
		if b.item.Hash() != b.hash {
			return invalidHash("leaf digest differs from the item's content hash")
		}
		if t.height != 0 {
			return invalidTree("fringe node has nonzero height")
		}
		otherDigest = b.hash
	case Empty[T]:
		if !partialOnLeft {
			return invalidTree("malformed tree: mismatched child kinds")
		}
		// Lone pruned child: the digest is still re-derivable from the
		// placeholder alone.
		if hash.Sha256([]byte(partial)) != t.root {
			return invalidHash("node digest differs from its pruned child's placeholder")
		}
		return valid()
	default:
		return invalidTree("malformed tree: mismatched child kinds")
	}

	want := hash.Concat(otherDigest, partial)
	if partialOnLeft {
		want = hash.Concat(partial, otherDigest)
	}
	if want != t.root {
		return invalidHash("node digest differs from its pruned re-derivation")
	}
	return valid()
}
