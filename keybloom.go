package lazyjson

// KeyBloom is a fixed-size Bloom filter over an object's top-level key
// set, letting Object reject "definitely absent" lookups against a
// large, many-membered object without a linear scan. It trades a small,
// bounded false-positive rate (which only costs a normal scan, never a
// wrong answer) for O(1) true-negative rejection.
//
// It is opt-in: building one costs one pass over the object's members,
// so it only pays for itself across repeated lookups against the same
// wide object.
type KeyBloom struct {
	bits [bloomWords]uint64
}

const (
	bloomWords = 16 // 1024 bits
	bloomBits  = bloomWords * 64
	bloomHashes = 3
)

// BuildKeyBloom scans o's top-level members once and returns a filter
// that can cheaply reject keys not present in o.
func BuildKeyBloom(o *Object) *KeyBloom {
	b := &KeyBloom{}
	for _, k := range o.Keys() {
		b.add(k)
	}
	return b
}

func (b *KeyBloom) add(key string) {
	h1 := digestString(key, AlgXXH3)
	h2 := digestString(key, AlgFNV1a)
	for i := 0; i < bloomHashes; i++ {
		idx := (h1 + uint64(i)*h2) % bloomBits
		b.bits[idx/64] |= 1 << (idx % 64)
	}
}

// MightContain reports whether key could be a member. false is a
// definitive answer ("definitely not present"); true means "maybe",
// and the caller still needs Object.Has/Get to be sure.
func (b *KeyBloom) MightContain(key string) bool {
	h1 := digestString(key, AlgXXH3)
	h2 := digestString(key, AlgFNV1a)
	for i := 0; i < bloomHashes; i++ {
		idx := (h1 + uint64(i)*h2) % bloomBits
		if b.bits[idx/64]&(1<<(idx%64)) == 0 {
			return false
		}
	}
	return true
}

// HasWithBloom is a convenience wrapper combining the bloom check with the real
// lookup, avoiding the scan entirely when the filter can already answer
// no.
func (o *Object) HasWithBloom(b *KeyBloom, key string) bool {
	if b != nil && !b.MightContain(key) {
		return false
	}
	return o.Has(key)
}
