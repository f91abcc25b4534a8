// Package merkle implements an authenticated binary aggregation tree: a
// holder of the compact root digest can verify that a set of items is
// exactly what the root commits to, check membership of single items,
// and keep verifying a pruned tree that retains only a subset of the
// original data.
//
// A tree is built once from a complete item set and is read-only
// afterwards, except for the one-shot destructive Prune. Concurrent
// pruning and reading of the same tree is not safe and must be excluded
// by the caller.
package merkle

import (
	"errors"
	"sort"

	"github.com/rileylyman/newton/pkg/hash"
)

// ErrNoItems is returned when constructing a tree from an empty item
// sequence.
var ErrNoItems = errors.New("not enough items to construct a merkle tree")

// ErrPruned is returned when an operation would have to descend into a
// pruned region: whatever was there can no longer be distinguished from
// "never was there".
var ErrPruned = errors.New("cannot descend into pruned region")

// ErrNotFound is returned when a proof is requested for an item the
// tree does not contain.
var ErrNotFound = errors.New("item not found")

// Item is anything a tree can be built from: it hashes itself and has a
// total order. Items are copied freely for bound tracking, so they
// should be cheap values.
type Item[T any] interface {
	hash.Hashable
	Less(other T) bool
}

// Tree is a node of an authenticated binary aggregation tree. Every
// node holds two child branches, the aggregate digest summarizing
// everything beneath it and its height (fringe nodes have height 0),
// plus the maximum item reachable through each child. The bounds route
// search and pruning without descending the whole tree.
type Tree[T Item[T]] struct {
	left  Branch[T]
	right Branch[T]

	root   hash.Digest
	height int

	leftBound  T
	rightBound T
}

// NewTree constructs a tree from items. The items are sorted ascending
// first: the sorted leaf layout is what bound-routed search and pruning
// rely on. The input slice is not modified.
//
// Construction is level-synchronous: items are paired into height-0
// fringe nodes, then each row of nodes is paired into the row above
// until one node remains. An odd row leaves its last node unpaired
// under an Empty right branch.
func NewTree[T Item[T]](items []T) (*Tree[T], error) {
	if len(items) == 0 {
		return nil, ErrNoItems
	}

	sorted := make([]T, len(items))
	copy(sorted, items)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Less(sorted[j]) })

	row := make([]*Tree[T], 0, (len(sorted)+1)/2)
	for i := 0; i < len(sorted); i += 2 {
		if i+1 < len(sorted) {
			row = append(row, newFringeNode(sorted[i], &sorted[i+1]))
		} else {
			row = append(row, newFringeNode(sorted[i], nil))
		}
	}

	for height := 1; len(row) > 1; height++ {
		next := make([]*Tree[T], 0, (len(row)+1)/2)
		for i := 0; i < len(row); i += 2 {
			if i+1 < len(row) {
				next = append(next, newInternalNode(row[i], row[i+1], height))
			} else {
				next = append(next, newInternalNode(row[i], nil, height))
			}
		}
		row = next
	}
	return row[0], nil
}

// Root returns the aggregate digest summarizing everything beneath this
// node.
func (t *Tree[T]) Root() hash.Digest { return t.root }

// Height returns the distance from this node down to its deepest leaf.
// Fringe nodes have height 0.
func (t *Tree[T]) Height() int { return t.height }

func newFringeNode[T Item[T]](left T, right *T) *Tree[T] {
	node := &Tree[T]{height: 0}
	leftHash := left.Hash()
	node.left = &Leaf[T]{item: left, hash: leftHash}
	node.leftBound = left
	if right == nil {
		node.right = Empty[T]{}
		node.root = hash.Sha256([]byte(leftHash))
		return node
	}
	rightHash := (*right).Hash()
	node.right = &Leaf[T]{item: *right, hash: rightHash}
	node.rightBound = *right
	node.root = hash.Concat(leftHash, rightHash)
	return node
}

func newInternalNode[T Item[T]](left, right *Tree[T], height int) *Tree[T] {
	node := &Tree[T]{height: height}
	node.left = &Subtree[T]{tree: left}
	node.leftBound = left.maxItem()
	if right == nil {
		node.right = Empty[T]{}
		node.root = hash.Sha256([]byte(left.root))
		return node
	}
	node.right = &Subtree[T]{tree: right}
	node.rightBound = right.maxItem()
	node.root = hash.Concat(left.root, right.root)
	return node
}

// maxItem returns the maximum item reachable under this node. Bounds
// are assigned at construction and survive pruning.
func (t *Tree[T]) maxItem() T {
	if t.right.Type() != EmptyT {
		return t.rightBound
	}
	return t.leftBound
}

func equal[T Item[T]](a, b T) bool {
	return !a.Less(b) && !b.Less(a)
}

// StringItem is the ready-made item type for trees over plain strings,
// ordered lexicographically.
type StringItem string

// Hash implements hash.Hashable.
func (s StringItem) Hash() hash.Digest { return hash.Sha256([]byte(s)) }

// Less implements Item.
func (s StringItem) Less(other StringItem) bool { return s < other }
