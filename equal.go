package sorbus

// Equal reports whether a and b describe structurally identical trees: same
// kind at every position, same token text at every leaf, regardless of
// whether they were interned by the same Builder. The fast path is
// reference identity (the common case when a and b both came from one
// Builder); the slow path walks both trees in lockstep with an explicit
// work queue rather than recursion, so comparing two very deep,
// non-identical trees cannot overflow a goroutine's stack.
func Equal(a, b ElementRef) bool {
	if a.elem == b.elem {
		return true
	}
	if a.elem == nil || b.elem == nil {
		return false
	}

	type pair struct{ a, b Element }
	queue := []pair{{a.elem, b.elem}}

	for len(queue) > 0 {
		n := len(queue) - 1
		p := queue[n]
		queue = queue[:n]

		if p.a == p.b {
			continue
		}
		if p.a.Kind() != p.b.Kind() {
			return false
		}

		switch av := p.a.(type) {
		case *Token:
			bv, ok := p.b.(*Token)
			if !ok || av.text != bv.text {
				return false
			}
		case *Node:
			bv, ok := p.b.(*Node)
			if !ok || len(av.children) != len(bv.children) {
				return false
			}
			for i := range av.children {
				queue = append(queue, pair{av.children[i].ref, bv.children[i].ref})
			}
		default:
			return false
		}
	}

	return true
}
