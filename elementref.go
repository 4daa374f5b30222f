package sorbus

// ElementRef is a reference to a shared Token or Node. References returned
// directly from a Builder are owning: the caller is responsible for calling
// Drop exactly once when finished with it. References obtained from
// Node.Children are borrows and Drop is a no-op on them.
type ElementRef struct {
	elem   Element
	owning bool
}

// Variant reports whether r refers to a Token or a Node.
func (r ElementRef) Variant() Variant {
	if r.elem == nil {
		return VariantToken
	}
	return r.elem.variant()
}

// Kind returns the kind of the referenced element.
func (r ElementRef) Kind() Kind { return r.elem.Kind() }

// Width returns the width of the referenced element.
func (r ElementRef) Width() uint32 { return r.elem.Width() }

// IsValid reports whether r refers to an element at all. The zero
// ElementRef is invalid: Kind, Width, Clone and ReplaceChild panic on it,
// Variant reports VariantToken, AsToken and AsNode report false, and Drop
// is a no-op.
func (r ElementRef) IsValid() bool { return r.elem != nil }

// AsToken returns the underlying *Token and true if r is a token-variant
// reference, or (nil, false) otherwise.
func (r ElementRef) AsToken() (*Token, bool) {
	t, ok := r.elem.(*Token)
	return t, ok
}

// AsNode returns the underlying *Node and true if r is a node-variant
// reference, or (nil, false) otherwise.
func (r ElementRef) AsNode() (*Node, bool) {
	n, ok := r.elem.(*Node)
	return n, ok
}

// Clone returns a new owning ElementRef to the same underlying element,
// incrementing its refcount. Safe to call concurrently with Clone/Drop on
// other references to the same element from any goroutine.
func (r ElementRef) Clone() ElementRef {
	return ElementRef{elem: retain(r.elem), owning: true}
}

// Drop releases r's ownership stake in the underlying element. It is a
// no-op if r is a borrow (not owning) or invalid. Drop must be called
// exactly once per owning reference; calling it twice on the same owning
// reference is a use-after-free that releases another owner's stake, and
// Drop panics if that takes the refcount below zero.
func (r ElementRef) Drop() {
	if !r.owning || r.elem == nil {
		return
	}
	dropElement(r.elem)
}

// ReplaceChild returns a new owning ElementRef to a node identical to the
// one underlying r except that its i-th child is newChild, re-interned
// through b. All children other than i are shared by identity with the
// original node's children. r itself is left unmodified; callers that no
// longer need the original still must Drop it themselves.
//
// ReplaceChild takes ownership of newChild on success: it is moved into the
// replacement node exactly as Builder.Node takes ownership of its children,
// and callers must not use or Drop it again. On failure with ErrNotANode
// or ErrChildIndexOutOfRange newChild is left untouched and still owned by
// the caller; if the re-interning Builder.Node call itself fails, newChild
// has been consumed along with the other children, as Builder.Node
// documents.
func (r ElementRef) ReplaceChild(b *Builder, i int, newChild ElementRef) (ElementRef, error) {
	node, ok := r.AsNode()
	if !ok {
		return ElementRef{}, ErrNotANode
	}
	if i < 0 || i >= len(node.children) {
		return ElementRef{}, ErrChildIndexOutOfRange
	}

	replacement := make([]ElementRef, len(node.children))
	for j, c := range node.children {
		if j == i {
			replacement[j] = newChild
			continue
		}
		replacement[j] = ElementRef{elem: retain(c.ref), owning: true}
	}

	return b.Node(node.kind, replacement)
}
