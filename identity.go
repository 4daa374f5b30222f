package sorbus

import "unsafe"

// uintptrOf returns a pointer's address as a uint64, for use as a hash
// ingredient when bucketing nodes by child identity. This never escapes
// the package and is never used to reconstruct a pointer, only to mix its
// bits into a bucket hash.
func uintptrOf(p any) uint64 {
	switch v := p.(type) {
	case *Token:
		return uint64(uintptr(unsafe.Pointer(v)))
	case *Node:
		return uint64(uintptr(unsafe.Pointer(v)))
	default:
		return 0
	}
}
