package variant

// FNV-1a parameters, 64-bit.
const (
	fnvOffset64 = 14695981039346656037
	fnvPrime64  = 1099511628211
)

// StructuralHash deterministically mixes a positional coordinate triple
// (slot, bay, floor) into a 64-bit value. Build-time key derivation and
// lookup-time derivation both reduce this hash modulo the library's
// variant count; sharing the one routine is what keeps the two paths
// from diverging.
func StructuralHash(slot, bay, floor int) uint64 {
	h := uint64(fnvOffset64)
	for _, coord := range [3]int{slot, bay, floor} {
		v := uint64(int64(coord))
		for i := 0; i < 8; i++ {
			h ^= v & 0xff
			h *= fnvPrime64
			v >>= 8
		}
	}
	return h
}
