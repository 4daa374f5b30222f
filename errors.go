package sorbus

import "errors"

// Construction errors.
var (
	// ErrWidthOverflow indicates a token's text, or a node's computed width,
	// would exceed the platform's uint32 width type.
	ErrWidthOverflow = errors.New("sorbus: width overflow")

	// ErrChildCountOverflow indicates a node was constructed with more than
	// math.MaxUint32 children.
	ErrChildCountOverflow = errors.New("sorbus: child count overflow")
)

// Query errors.
var (
	// ErrPositionOutOfRange indicates a positional lookup was called with an
	// offset p >= the element's width.
	ErrPositionOutOfRange = errors.New("sorbus: position out of range")
)

// Serialization errors.
var (
	// ErrDeserializeMalformed indicates a serialized stream ended early,
	// contained an unrecognized tag, or produced an element whose declared
	// width disagreed with its reconstructed children.
	ErrDeserializeMalformed = errors.New("sorbus: malformed serialized stream")
)

// Element shape errors.
var (
	// ErrNotANode indicates an operation that requires a node-variant
	// ElementRef (such as ReplaceChild) was given a token-variant one.
	ErrNotANode = errors.New("sorbus: expected node, got token")

	// ErrChildIndexOutOfRange indicates ReplaceChild was called with an
	// index outside [0, len(children)).
	ErrChildIndexOutOfRange = errors.New("sorbus: child index out of range")
)
