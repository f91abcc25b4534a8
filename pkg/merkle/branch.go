package merkle

import "github.com/rileylyman/newton/pkg/hash"

// BranchType represents branch kind.
type BranchType byte

// Branch kinds definitions.
const (
	SubtreeT BranchType = 0x00
	LeafT    BranchType = 0x01
	PartialT BranchType = 0x02
	EmptyT   BranchType = 0x03
)

// Branch represents common interface of all tree branches. The set of
// kinds is closed: the validator matches exhaustively on (left, right)
// pairs and any combination outside these four kinds is a malformed
// tree.
type Branch[T Item[T]] interface {
	Type() BranchType
}

// Subtree is a branch owning a child node. Ownership is exclusive:
// nodes are never shared between parents and hold no back references.
type Subtree[T Item[T]] struct {
	tree *Tree[T]
}

// Type implements Branch interface.
func (b *Subtree[T]) Type() BranchType { return SubtreeT }

// Tree returns the owned child node.
func (b *Subtree[T]) Tree() *Tree[T] { return b.tree }

// Leaf is a fringe branch holding an original item together with its
// precomputed content digest.
type Leaf[T Item[T]] struct {
	item T
	hash hash.Digest
}

// Type implements Branch interface.
func (l *Leaf[T]) Type() BranchType { return LeafT }

// Item returns the item stored in the leaf.
func (l *Leaf[T]) Item() T { return l.item }

// Hash returns the digest the leaf was built with. It is not
// recomputed; the validator rechecks it against the item.
func (l *Leaf[T]) Hash() hash.Digest { return l.hash }

// Partial is what remains of a pruned branch: the digest the branch
// used to carry. The item or subtree behind it is gone and
// unrecoverable.
type Partial[T Item[T]] struct {
	hash hash.Digest
}

// Type implements Branch interface.
func (p *Partial[T]) Type() BranchType { return PartialT }

// Hash returns the placeholder digest.
func (p *Partial[T]) Hash() hash.Digest { return p.hash }

// Empty marks a missing right child on nodes left unpaired by an
// odd-length row.
type Empty[T Item[T]] struct{}

// Type implements Branch interface.
func (Empty[T]) Type() BranchType { return EmptyT }

// branchDigest returns the digest a branch contributes to its parent,
// or false for Empty which contributes nothing.
func branchDigest[T Item[T]](b Branch[T]) (hash.Digest, bool) {
	switch b := b.(type) {
	case *Subtree[T]:
		return b.tree.root, true
	case *Leaf[T]:
		return b.hash, true
	case *Partial[T]:
		return b.hash, true
	default:
		return "", false
	}
}
