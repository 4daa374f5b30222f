package sorbus

import "sync/atomic"

// Token is an immutable leaf element: a kind plus the literal bytes of
// source text it covers. Tokens are created exclusively by Builder.Token.
type Token struct {
	refcount atomic.Int32
	kind     Kind
	text     string
}

// newToken allocates a fresh Token with a refcount of 1. It is
// package-private: the only supported way to obtain a Token is through a
// Builder, which records it in its token map unless the token's text is
// at or above the Builder's LargeTokenThreshold.
func newToken(kind Kind, text string) *Token {
	t := &Token{kind: kind, text: text}
	t.refcount.Store(1)
	return t
}

// Kind returns the token's kind.
func (t *Token) Kind() Kind { return t.kind }

// Text returns the token's literal text.
func (t *Token) Text() string { return t.text }

// Width returns the byte length of the token's text.
func (t *Token) Width() uint32 { return uint32(len(t.text)) }

func (t *Token) variant() Variant    { return VariantToken }
func (t *Token) refs() *atomic.Int32 { return &t.refcount }
