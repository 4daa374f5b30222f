package sorbus

import "sort"

// ChildAtOffset returns a borrowed ElementRef to the child covering byte
// offset p within n, along with that child's own offset within n. If p
// lands exactly on the boundary between two children, the child that
// starts at p wins: a zero-width child can only be selected this way if
// it is the unique child whose span contains p.
//
// ChildAtOffset fails with ErrPositionOutOfRange if p >= n.Width().
func (n *Node) ChildAtOffset(p uint32) (ElementRef, uint32, error) {
	if p >= n.width {
		return ElementRef{}, 0, ErrPositionOutOfRange
	}

	// sort.Search finds the first index whose offset is > p; the child we
	// want is the one just before it. Child offsets are non-decreasing
	// (a zero-width child shares its offset with the next child), so this
	// picks the last child starting at or before p, which always has a
	// nonzero width covering p.
	i := sort.Search(len(n.children), func(i int) bool {
		return n.children[i].offset > p
	})
	i--
	if i < 0 {
		return ElementRef{}, 0, ErrPositionOutOfRange
	}

	slot := n.children[i]
	return ElementRef{elem: slot.ref, owning: false}, slot.offset, nil
}

// Descend walks from root to the token covering absolute offset p,
// repeatedly calling ChildAtOffset and subtracting each child's offset
// from the running position. It returns a borrowed reference to that
// token together with p's offset within it.
//
// Descend fails with ErrPositionOutOfRange if p >= root.Width().
func Descend(root ElementRef, p uint32) (ElementRef, uint32, error) {
	if p >= root.Width() {
		return ElementRef{}, 0, ErrPositionOutOfRange
	}

	cur := root
	pos := p
	for {
		node, ok := cur.AsNode()
		if !ok {
			return ElementRef{elem: cur.elem, owning: false}, pos, nil
		}
		child, offset, err := node.ChildAtOffset(pos)
		if err != nil {
			return ElementRef{}, 0, err
		}
		cur = child
		pos -= offset
	}
}
