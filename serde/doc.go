// Package serde serializes sorbus element trees to and from two wire
// formats: a compact post-order binary form with no offsets and no
// dedup markers, and a self-describing YAML form suitable for diffing
// and hand-editing. Both formats reconstruct trees through a fresh
// sorbus.Builder, so a round trip re-establishes structural
// deduplication on the receiving side even if the sender's interning
// differed.
package serde
