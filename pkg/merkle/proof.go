package merkle

import "github.com/rileylyman/newton/pkg/hash"

// ProofDirection tells which side of the running digest a proof step's
// sibling was on.
type ProofDirection byte

// Proof step directions.
const (
	// SiblingLeft means the sibling digest is concatenated to the left
	// of the running digest.
	SiblingLeft ProofDirection = iota
	// SiblingRight means the sibling digest is concatenated to the
	// right of the running digest.
	SiblingRight
	// SiblingNone marks a level with no sibling, the single-child node
	// an odd row produces; the running digest is rehashed on its own.
	SiblingNone
)

// ProofStep is one level of a proof path.
type ProofStep struct {
	Dir  ProofDirection `json:"dir"`
	Hash hash.Digest    `json:"hash,omitempty"`
}

// Proof is a non-interactive membership proof: the sibling digests
// along the path from one leaf to the root, ordered leaf-to-root, plus
// the root digest the path is claimed to end at. A proof is verifiable
// without any access to the tree it came from.
type Proof struct {
	Steps []ProofStep `json:"steps"`
	Root  hash.Digest `json:"root"`
}

// GenerateProof builds a membership proof for item. It returns
// ErrNotFound when the item is not a leaf of the tree and ErrPruned
// when the item's route descends into a pruned region. A Partial
// sibling along the route is fine: its placeholder digest serves in the
// proof exactly as the original subtree digest would.
func (t *Tree[T]) GenerateProof(item T) (*Proof, error) {
	steps, err := t.proofSteps(item, nil)
	if err != nil {
		return nil, err
	}
	return &Proof{Steps: steps, Root: t.root}, nil
}

func (t *Tree[T]) proofSteps(item T, steps []ProofStep) ([]ProofStep, error) {
	goingLeft := !t.leftBound.Less(item)
	taken, sibling := t.right, t.left
	if goingLeft {
		taken, sibling = t.left, t.right
	}

	switch b := taken.(type) {
	case *Subtree[T]:
		var err error
		steps, err = b.tree.proofSteps(item, steps)
		if err != nil {
			return nil, err
		}
	case *Leaf[T]:
		if !equal(b.item, item) {
			return nil, ErrNotFound
		}
	case *Partial[T]:
		return nil, ErrPruned
	default:
		// Empty: the item is greater than everything in the tree.
		return nil, ErrNotFound
	}
	return append(steps, siblingStep(sibling, goingLeft)), nil
}

// siblingStep turns the branch the route did not take into the proof
// step for its level.
func siblingStep[T Item[T]](sibling Branch[T], goingLeft bool) ProofStep {
	d, ok := branchDigest(sibling)
	if !ok {
		return ProofStep{Dir: SiblingNone}
	}
	if goingLeft {
		return ProofStep{Dir: SiblingRight, Hash: d}
	}
	return ProofStep{Dir: SiblingLeft, Hash: d}
}

// Verify replays the construction hashing from H(item) through every
// step and reports whether the final digest equals the proof's root
// digest.
func (p *Proof) Verify(item hash.Hashable) bool {
	running := item.Hash()
	for _, step := range p.Steps {
		switch step.Dir {
		case SiblingLeft:
			running = hash.Concat(step.Hash, running)
		case SiblingRight:
			running = hash.Concat(running, step.Hash)
		case SiblingNone:
			running = hash.Sha256([]byte(running))
		default:
			return false
		}
	}
	return running == p.Root
}

// MatchesShape checks a proof against a tree's root digest and height
// without recomputing any digests: the claimed root must match and the
// path must carry one step per hashing level, the leaf level included.
// This is the cheap way to spot a proof generated against a different
// or stale tree before attempting Verify.
func (p *Proof) MatchesShape(root hash.Digest, height int) bool {
	return p.Root == root && len(p.Steps) == height+1
}
