package sorbus

// walkFrame is one entry on Walk's explicit work stack: an element
// together with its absolute offset from the root.
type walkFrame struct {
	offset uint32
	ref    Element
}

// Walk visits root and every element reachable from it in pre-order,
// calling visit with each element's absolute byte offset from root. If
// visit returns false for a node, that node's children are not visited.
// Walk never recurses: it maintains its own work stack, so traversing an
// arbitrarily deep tree uses O(1) goroutine stack regardless of depth.
func Walk(root ElementRef, visit func(offset uint32, ref ElementRef) bool) {
	if !root.IsValid() {
		return
	}

	stack := []walkFrame{{offset: 0, ref: root.elem}}
	for len(stack) > 0 {
		n := len(stack) - 1
		frame := stack[n]
		stack = stack[:n]

		ref := ElementRef{elem: frame.ref, owning: false}
		if !visit(frame.offset, ref) {
			continue
		}

		node, ok := frame.ref.(*Node)
		if !ok {
			continue
		}
		// Push children in reverse so they pop off in forward order.
		for i := len(node.children) - 1; i >= 0; i-- {
			c := node.children[i]
			stack = append(stack, walkFrame{offset: frame.offset + c.offset, ref: c.ref})
		}
	}
}
