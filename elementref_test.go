package sorbus

import (
	"runtime/debug"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestElementRefCloneIncrementsRefcount(t *testing.T) {
	b := NewBuilder(BuilderOptions{})
	a := mustToken(t, b, 1, "x")
	defer a.Drop()

	tok, _ := a.AsToken()
	require.EqualValues(t, 1, tok.refcount.Load())

	c := a.Clone()
	require.EqualValues(t, 2, tok.refcount.Load())

	c.Drop()
	require.EqualValues(t, 1, tok.refcount.Load())
}

func TestElementRefDropOnBorrowIsNoOp(t *testing.T) {
	b := NewBuilder(BuilderOptions{})
	x := mustToken(t, b, 1, "a")
	n, err := b.Node(10, []ElementRef{x})
	require.NoError(t, err)
	defer n.Drop()

	node, _ := n.AsNode()
	borrowed := node.Children()[0].Ref
	tok, _ := borrowed.AsToken()
	before := tok.refcount.Load()

	borrowed.Drop()

	assert.Equal(t, before, tok.refcount.Load(), "dropping a borrow must not change the refcount")
}

func TestElementRefReplaceChild(t *testing.T) {
	b := NewBuilder(BuilderOptions{})
	x := mustToken(t, b, 1, "a")
	y := mustToken(t, b, 2, "b")
	n, err := b.Node(10, []ElementRef{x, y})
	require.NoError(t, err)
	defer n.Drop()

	z := mustToken(t, b, 3, "c")
	replaced, err := n.ReplaceChild(b, 1, z)
	require.NoError(t, err)
	defer replaced.Drop()

	rnode, ok := replaced.AsNode()
	require.True(t, ok)
	views := rnode.Children()
	require.Len(t, views, 2)
	assert.EqualValues(t, Kind(1), views[0].Ref.Kind())
	assert.EqualValues(t, Kind(3), views[1].Ref.Kind())
}

func TestElementRefReplaceChildNotANode(t *testing.T) {
	b := NewBuilder(BuilderOptions{})
	x := mustToken(t, b, 1, "a")
	defer x.Drop()

	y := mustToken(t, b, 2, "b")
	_, err := x.ReplaceChild(b, 0, y)
	y.Drop()
	assert.ErrorIs(t, err, ErrNotANode)
}

func TestElementRefReplaceChildIndexOutOfRange(t *testing.T) {
	b := NewBuilder(BuilderOptions{})
	x := mustToken(t, b, 1, "a")
	n, err := b.Node(10, []ElementRef{x})
	require.NoError(t, err)
	defer n.Drop()

	y := mustToken(t, b, 2, "b")
	_, err = n.ReplaceChild(b, 5, y)
	y.Drop()
	assert.ErrorIs(t, err, ErrChildIndexOutOfRange)
}

// TestDropDoesNotOverflowStackOnDeepTree builds a deeply right-nested chain
// of single-child nodes, then artificially lowers the goroutine stack
// ceiling before dropping the root. dropElement's explicit work stack must
// keep frame usage at each step O(1), independent of tree depth; if it
// ever recursed into a child instead of pushing it, the goroutine would
// exceed the lowered ceiling and the test binary would die with Go's fatal
// "stack overflow" error.
func TestDropDoesNotOverflowStackOnDeepTree(t *testing.T) {
	const depth = 1_000_000

	b := NewBuilder(BuilderOptions{})
	cur := mustToken(t, b, 1, "leaf")
	for i := 0; i < depth; i++ {
		next, err := b.Node(Kind(i%1000+2), []ElementRef{cur})
		require.NoError(t, err)
		cur = next
	}

	old := debug.SetMaxStack(64 * 1024)
	defer debug.SetMaxStack(old)

	assert.NotPanics(t, func() {
		cur.Drop()
	})
}
