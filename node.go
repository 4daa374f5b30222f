package sorbus

import "sync/atomic"

// childSlot is one entry in a Node's child array: the child's cumulative
// starting offset from the node's own start, plus the child itself. Unlike
// the base design's hand-packed, alignment-alternating child layout (a
// workaround for C/Rust struct padding, see SPEC_FULL.md §4.A), this is a
// plain two-field struct — Go gives us no control over, and no benefit from,
// manually interleaving word order within a slice element.
type childSlot struct {
	offset uint32
	ref    Element
}

// Node is an immutable interior element: a kind plus an ordered sequence of
// children, each at a known cumulative byte offset. Nodes are created
// exclusively by Builder.Node.
type Node struct {
	refcount atomic.Int32
	kind     Kind
	width    uint32
	children []childSlot
}

// newNode allocates a fresh Node with a refcount of 1, taking ownership of
// children (which must already carry correctly-computed offsets). It is
// package-private for the same reason newToken is.
func newNode(kind Kind, width uint32, children []childSlot) *Node {
	n := &Node{kind: kind, width: width, children: children}
	n.refcount.Store(1)
	return n
}

// Kind returns the node's kind.
func (n *Node) Kind() Kind { return n.kind }

// Width returns the total byte width covered by the node's children.
func (n *Node) Width() uint32 { return n.width }

// ChildView is a read-only view of one of a Node's children: its offset
// from the start of the parent, and a borrowed (non-owning) reference to the
// child itself. Call Clone on Ref if you need to keep it beyond the
// lifetime of the parent Node reference you obtained it from.
type ChildView struct {
	Offset uint32
	Ref    ElementRef
}

// Children returns a view of every direct child of n, in order. The
// returned slice is freshly allocated but the ElementRefs inside it are
// borrows: they do not need to be dropped, and must not outlive n's own
// reference.
func (n *Node) Children() []ChildView {
	out := make([]ChildView, len(n.children))
	for i, c := range n.children {
		out[i] = ChildView{Offset: c.offset, Ref: ElementRef{elem: c.ref, owning: false}}
	}
	return out
}

// ChildCount returns the number of direct children of n.
func (n *Node) ChildCount() int { return len(n.children) }

func (n *Node) variant() Variant    { return VariantNode }
func (n *Node) refs() *atomic.Int32 { return &n.refcount }
