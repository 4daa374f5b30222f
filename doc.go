// Package sorbus implements an immutable, structurally-deduplicated "green"
// syntax tree: a uniformly-typed, lossless tree of Tokens (leaves) and Nodes
// (interior elements) suitable as the backbone of a compiler, language
// server, or other source-aware tool.
//
// # Overview
//
// Kinds are opaque 16-bit tags assigned by the caller; sorbus attaches no
// meaning to them. Every Token and Node is created through a Builder, which
// hash-conses (interns) elements by structural value: two tokens built from
// the same (kind, text) pair, or two nodes built from the same (kind,
// children-by-identity) sequence, are the same physical object. This makes
// structural equality of already-interned elements an O(1) pointer
// comparison, and lets deeply repetitive source (the thousands of identical
// "," or ";" tokens in a real file) share memory.
//
// The tree is immutable and has no parent pointers: a Node only knows its
// children and their cumulative byte offsets. Consumers that need absolute
// positions or parent links build a "red tree" on top of this package; that
// layer, along with parsers and the top-down convenience builder pattern, is
// intentionally outside sorbus's scope.
//
// # Basic usage
//
//	b := sorbus.NewBuilder(sorbus.BuilderOptions{})
//	plus, _ := b.Token(opKind, "+")
//	one, _ := b.Token(numKind, "1")
//	expr, _ := b.Node(addExprKind, []sorbus.ElementRef{one, plus, one.Clone()})
//	defer expr.Drop()
//
//	fmt.Println(expr.Width()) // 3
//
// # Reference counting
//
// ElementRef is an owning or borrowed handle. Owning references returned by
// a Builder must eventually have Drop called; Clone produces another owning
// reference sharing the same underlying element. Dropping the last owning
// reference to a tree never recurses on children — see the sorbus-bench
// command and the drop-safety test for the explicit-stack algorithm that
// guarantees this regardless of tree depth.
package sorbus
