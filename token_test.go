package sorbus

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilderTokenInterning(t *testing.T) {
	b := NewBuilder(BuilderOptions{})

	a, err := b.Token(Kind(1), "hello")
	require.NoError(t, err)
	defer a.Drop()

	c, err := b.Token(Kind(1), "hello")
	require.NoError(t, err)
	defer c.Drop()

	at, ok := a.AsToken()
	require.True(t, ok)
	ct, ok := c.AsToken()
	require.True(t, ok)

	assert.Same(t, at, ct, "identical (kind, text) tokens must be interned to the same record")

	stats := b.Stats()
	assert.EqualValues(t, 1, stats.Created)
	assert.EqualValues(t, 1, stats.Reused)
}

func TestBuilderTokenDistinctKindsNotShared(t *testing.T) {
	b := NewBuilder(BuilderOptions{})

	a, err := b.Token(Kind(1), "hello")
	require.NoError(t, err)
	defer a.Drop()

	c, err := b.Token(Kind(2), "hello")
	require.NoError(t, err)
	defer c.Drop()

	at, _ := a.AsToken()
	ct, _ := c.AsToken()
	assert.NotSame(t, at, ct, "same text but different kind must not be shared")
}

func TestTokenWidthIsByteLength(t *testing.T) {
	b := NewBuilder(BuilderOptions{})
	ref, err := b.Token(Kind(1), "Hello, 世界!")
	require.NoError(t, err)
	defer ref.Drop()

	assert.EqualValues(t, len("Hello, 世界!"), ref.Width())
}

func TestBuilderLargeTokenThresholdSkipsInterning(t *testing.T) {
	b := NewBuilder(BuilderOptions{LargeTokenThreshold: 4})

	a, err := b.Token(Kind(1), "abcdef")
	require.NoError(t, err)
	defer a.Drop()

	c, err := b.Token(Kind(1), "abcdef")
	require.NoError(t, err)
	defer c.Drop()

	at, _ := a.AsToken()
	ct, _ := c.AsToken()
	assert.NotSame(t, at, ct, "tokens at or above the threshold are never interned")

	stats := b.Stats()
	assert.EqualValues(t, 0, stats.TokensLive)
}
