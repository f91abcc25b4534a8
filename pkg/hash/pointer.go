package hash

// Pointer couples an owned value with the digest it had when the
// pointer was created. Holders of the pointer can later detect whether
// the value changed underneath them.
type Pointer[T Hashable] struct {
	Hash Digest
	Item T
}

// NewPointer returns a hash pointer to item.
func NewPointer[T Hashable](item T) *Pointer[T] {
	return &Pointer[T]{
		Hash: item.Hash(),
		Item: item,
	}
}

// Verify recomputes the item's digest and checks it against the stored
// one.
func (p *Pointer[T]) Verify() bool {
	return p.Item.Hash() == p.Hash
}
