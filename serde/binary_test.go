package serde

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CAD97/sorbus"
)

func TestBinaryRoundTrip(t *testing.T) {
	b := sorbus.NewBuilder(sorbus.BuilderOptions{})

	x, err := b.Token(1, "abc")
	require.NoError(t, err)
	y, err := b.Token(2, "de")
	require.NoError(t, err)
	root, err := b.Node(10, []sorbus.ElementRef{x, y})
	require.NoError(t, err)
	defer root.Drop()

	var buf bytes.Buffer
	require.NoError(t, EncodeBinary(&buf, root))

	b2 := sorbus.NewBuilder(sorbus.BuilderOptions{})
	decoded, err := DecodeBinary(&buf, b2)
	require.NoError(t, err)
	defer decoded.Drop()

	assert.True(t, sorbus.Equal(root, decoded))
	assert.EqualValues(t, root.Width(), decoded.Width())
}

func TestBinaryDecodeMalformedTruncated(t *testing.T) {
	b := sorbus.NewBuilder(sorbus.BuilderOptions{})
	x, err := b.Token(1, "abc")
	require.NoError(t, err)
	defer x.Drop()

	var buf bytes.Buffer
	require.NoError(t, EncodeBinary(&buf, x))

	truncated := bytes.NewReader(buf.Bytes()[:buf.Len()-2])
	b2 := sorbus.NewBuilder(sorbus.BuilderOptions{})
	_, err = DecodeBinary(truncated, b2)
	assert.ErrorIs(t, err, sorbus.ErrDeserializeMalformed)
}

// TestBinaryRoundTripDuplicateLeavesCollapseOnDecode covers a three-level
// tree with 10 duplicated leaves: the wire format carries no dedup
// markers, so all 10 occurrences are written out in full, but decoding
// through a fresh Builder must re-collapse them to a single interned
// token record.
func TestBinaryRoundTripDuplicateLeavesCollapseOnDecode(t *testing.T) {
	b := sorbus.NewBuilder(sorbus.BuilderOptions{})

	leaves := make([]sorbus.ElementRef, 10)
	for i := range leaves {
		leaf, err := b.Token(1, "x")
		require.NoError(t, err)
		leaves[i] = leaf
	}

	left, err := b.Node(20, leaves[:5])
	require.NoError(t, err)
	right, err := b.Node(21, leaves[5:])
	require.NoError(t, err)
	root, err := b.Node(30, []sorbus.ElementRef{left, right})
	require.NoError(t, err)
	defer root.Drop()

	var buf bytes.Buffer
	require.NoError(t, EncodeBinary(&buf, root))

	b2 := sorbus.NewBuilder(sorbus.BuilderOptions{})
	decoded, err := DecodeBinary(&buf, b2)
	require.NoError(t, err)
	defer decoded.Drop()

	assert.True(t, sorbus.Equal(root, decoded))
	assert.EqualValues(t, 1, b2.Stats().TokensLive, "all 10 duplicated leaves must collapse to one interned token on decode")
}

func TestBinaryDecodeMalformedWidthMismatch(t *testing.T) {
	b := sorbus.NewBuilder(sorbus.BuilderOptions{})
	x, err := b.Token(1, "abc")
	require.NoError(t, err)
	defer x.Drop()

	var buf bytes.Buffer
	require.NoError(t, EncodeBinary(&buf, x))

	// A node tag wrapping that single token but declaring a width that
	// disagrees with the 3-byte token it actually covers.
	buf.WriteByte(tagNode)
	buf.Write([]byte{0, 9})        // kind
	buf.Write([]byte{0, 0, 0, 1})  // child count
	buf.Write([]byte{0, 0, 0, 99}) // declared width, wrong

	b2 := sorbus.NewBuilder(sorbus.BuilderOptions{})
	_, err = DecodeBinary(&buf, b2)
	assert.ErrorIs(t, err, sorbus.ErrDeserializeMalformed)
}

func TestBinaryDecodeMalformedBadChildCount(t *testing.T) {
	var buf bytes.Buffer
	// A node tag claiming 5 children with nothing on the stack.
	buf.WriteByte(tagNode)
	buf.Write([]byte{0, 1})       // kind
	buf.Write([]byte{0, 0, 0, 5}) // child count
	buf.Write([]byte{0, 0, 0, 0}) // declared width

	b := sorbus.NewBuilder(sorbus.BuilderOptions{})
	_, err := DecodeBinary(&buf, b)
	assert.ErrorIs(t, err, sorbus.ErrDeserializeMalformed)
}
