package sorbus

import (
	"math"
	"sync"

	"go.uber.org/zap"
)

// BuilderOptions configures a Builder.
type BuilderOptions struct {
	// LargeTokenThreshold, if nonzero, excludes tokens whose text is at
	// least this many bytes from interning: Token still allocates and
	// returns a usable element, but it is never stored in or looked up
	// from the token map. Large source texts (embedded data blobs,
	// generated code) rarely recur byte-for-byte, so hashing and storing
	// them in the intern table buys nothing but memory and comparison
	// cost. Nodes are always interned regardless of width, since their
	// identity check is a cheap pointer-slice comparison rather than a
	// byte-for-byte one.
	LargeTokenThreshold int

	// Logger receives diagnostic messages about interning and collection.
	// A nil Logger means zap.NewNop(): logging is always attempted, it is
	// just a no-op sink by default.
	Logger *zap.Logger
}

type tokenKey struct {
	kind Kind
	text string
}

// Builder interns Tokens and Nodes so that structurally identical elements
// constructed through the same Builder share a single backing allocation.
// A Builder is safe for concurrent use by multiple goroutines.
type Builder struct {
	mu      sync.Mutex
	opts    BuilderOptions
	log     *zap.Logger
	tokens  map[tokenKey]*Token
	nodes   map[uint64][]*Node
	created int64
	reused  int64
}

// NewBuilder returns a Builder ready to intern tokens and nodes.
func NewBuilder(opts BuilderOptions) *Builder {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Builder{
		opts:   opts,
		log:    log,
		tokens: make(map[tokenKey]*Token),
		nodes:  make(map[uint64][]*Node),
	}
}

// Token returns an owning ElementRef to the interned Token with the given
// kind and text, allocating one if this exact (kind, text) pair has not
// been seen before by this Builder.
func (b *Builder) Token(kind Kind, text string) (ElementRef, error) {
	if len(text) > math.MaxUint32 {
		return ElementRef{}, ErrWidthOverflow
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.opts.LargeTokenThreshold > 0 && len(text) >= b.opts.LargeTokenThreshold {
		b.created++
		t := newToken(kind, text)
		b.log.Debug("bypassed interning for large token", zap.String("kind", kind.String()), zap.Int("len", len(text)))
		return ElementRef{elem: t, owning: true}, nil
	}

	key := tokenKey{kind: kind, text: text}
	if existing, ok := b.tokens[key]; ok {
		if tryRetain(existing) {
			b.reused++
			return ElementRef{elem: existing, owning: true}, nil
		}
		// existing's refcount reached zero before GC swept it; it is dead
		// and must not be reused. Evict the stale entry and fall through
		// to allocate a fresh token in its place.
		delete(b.tokens, key)
	}

	b.created++
	t := newToken(kind, text)
	b.tokens[key] = t
	b.log.Debug("interned new token", zap.String("kind", kind.String()), zap.Int("len", len(text)))
	return ElementRef{elem: t, owning: true}, nil
}

// Node returns an owning ElementRef to the interned Node of the given kind
// over the given children, allocating one if no structurally identical
// node (same kind, same children by identity and order) has been seen
// before by this Builder. Node takes ownership of every ElementRef in
// children: callers must not use or Drop them again after the call
// returns, whether it succeeds or fails.
func (b *Builder) Node(kind Kind, children []ElementRef) (ElementRef, error) {
	if len(children) > math.MaxUint32 {
		for _, c := range children {
			c.Drop()
		}
		return ElementRef{}, ErrChildCountOverflow
	}

	slots := make([]childSlot, len(children))
	var width uint64
	for i, c := range children {
		slots[i] = childSlot{offset: uint32(width), ref: c.elem}
		width += uint64(c.Width())
		if width > math.MaxUint32 {
			for _, c := range children {
				c.Drop()
			}
			return ElementRef{}, ErrWidthOverflow
		}
	}

	hash := hashChildren(kind, slots)

	b.mu.Lock()
	defer b.mu.Unlock()

	bucket := b.nodes[hash]
	for i := 0; i < len(bucket); i++ {
		candidate := bucket[i]
		if !nodeEqualShallow(candidate, kind, slots) {
			continue
		}
		if !tryRetain(candidate) {
			// candidate's refcount reached zero before GC swept it; evict
			// the stale entry and keep scanning the rest of the bucket
			// instead of reusing a dead node.
			bucket = append(bucket[:i], bucket[i+1:]...)
			b.nodes[hash] = bucket
			i--
			continue
		}
		b.reused++
		// The new node is structurally identical to candidate: drop our
		// stake in each child (candidate already owns an equivalent
		// reference to the same elements) and return a reference to the
		// existing node instead.
		for _, c := range children {
			c.Drop()
		}
		return ElementRef{elem: candidate, owning: true}, nil
	}

	b.created++
	n := newNode(kind, uint32(width), slots)
	b.nodes[hash] = append(bucket, n)
	b.log.Debug("interned new node", zap.String("kind", kind.String()), zap.Int("children", len(slots)))
	return ElementRef{elem: n, owning: true}, nil
}

// hashChildren computes a bucket hash for a candidate node from its kind
// and the identities of its children. Two structurally identical nodes
// always hash equal; collisions between different nodes are resolved by
// nodeEqualShallow.
func hashChildren(kind Kind, slots []childSlot) uint64 {
	const prime = 1099511628211
	h := uint64(14695981039346656037) ^ uint64(kind)
	h *= prime
	for _, s := range slots {
		h ^= elementIdentity(s.ref)
		h *= prime
	}
	return h
}

// elementIdentity returns a hashable value identifying an element by
// pointer identity.
func elementIdentity(e Element) uint64 {
	return uintptrOf(e)
}

// nodeEqualShallow reports whether candidate has the given kind and the
// same children, by identity, as slots. This is a shallow check: since
// every child is itself already an interned, deduplicated element,
// identity equality between children implies structural equality of the
// subtrees they root.
func nodeEqualShallow(candidate *Node, kind Kind, slots []childSlot) bool {
	if candidate.kind != kind || len(candidate.children) != len(slots) {
		return false
	}
	for i, s := range slots {
		if candidate.children[i].ref != s.ref {
			return false
		}
	}
	return true
}

// Stats reports cumulative interning activity for this Builder.
type Stats struct {
	TokensLive int
	NodesLive  int
	Created    int64
	Reused     int64
}

// Stats returns a snapshot of this Builder's interning activity.
func (b *Builder) Stats() Stats {
	b.mu.Lock()
	defer b.mu.Unlock()
	nodeCount := 0
	for _, bucket := range b.nodes {
		nodeCount += len(bucket)
	}
	return Stats{
		TokensLive: len(b.tokens),
		NodesLive:  nodeCount,
		Created:    b.created,
		Reused:     b.reused,
	}
}

// GC removes map entries for tokens and nodes whose refcount has fallen to
// zero. Since the intern tables hold non-owning pointers, a dead element
// is never handed out again through them once its last owning ElementRef
// has been dropped; GC simply reaps the stale entries so the maps do not
// grow without bound, and lets Go's own garbage collector reclaim the
// element itself. Safe to call periodically, or never: correctness never
// depends on calling GC, only eventual memory usage does.
func (b *Builder) GC() int {
	b.mu.Lock()
	defer b.mu.Unlock()

	swept := 0
	for k, t := range b.tokens {
		if t.refcount.Load() <= 0 {
			delete(b.tokens, k)
			swept++
		}
	}
	for h, bucket := range b.nodes {
		kept := bucket[:0]
		for _, n := range bucket {
			if n.refcount.Load() <= 0 {
				swept++
				continue
			}
			kept = append(kept, n)
		}
		if len(kept) == 0 {
			delete(b.nodes, h)
		} else {
			b.nodes[h] = kept
		}
	}
	b.log.Debug("builder gc swept entries", zap.Int("swept", swept))
	return swept
}

// Reset discards all of this Builder's bookkeeping: every entry in its
// token and node maps is forgotten, and subsequent calls to Token/Node
// will allocate fresh elements even for previously-seen shapes. Reset
// does not touch the refcount of any element; ElementRefs already handed
// out remain valid and must still be Dropped by their owners. Reset is
// for reclaiming a Builder's own map memory between unrelated uses, not
// for releasing trees.
func (b *Builder) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.tokens = make(map[tokenKey]*Token)
	b.nodes = make(map[uint64][]*Node)
}
