// Digest algorithms shared by the parse cache (content-addressed lookup
// of previously built Descriptions) and the decoder's member-offset
// cache (keyed by struct type and field name).
package lazyjson

import (
	"hash/fnv"

	"github.com/zeebo/xxh3"
	"golang.org/x/crypto/blake2b"
)

// Digest algorithm selectors for ParseCache and DecoderSettings.
const (
	AlgXXH3    = 1 // default: fastest, used unless configured otherwise
	AlgFNV1a   = 2 // no external dependency, used when blake2b/xxh3 are unavailable
	AlgBlake2b = 3 // best distribution, used for adversarial-input cache keys
)

// digest returns a 64-bit content hash of buf using alg. An unrecognized
// alg falls back to AlgXXH3.
func digest(buf []byte, alg int) uint64 {
	switch alg {
	case AlgFNV1a:
		h := fnv.New64a()
		h.Write(buf)
		return h.Sum64()
	case AlgBlake2b:
		h, _ := blake2b.New(8, nil)
		h.Write(buf)
		sum := h.Sum(nil)
		var v uint64
		for _, b := range sum {
			v = v<<8 | uint64(b)
		}
		return v
	default:
		return xxh3.Hash(buf)
	}
}

// digestString is digest for a string key, used by the member-offset
// cache to hash struct field names without a []byte conversion.
func digestString(s string, alg int) uint64 {
	switch alg {
	case AlgFNV1a:
		h := fnv.New64a()
		h.Write([]byte(s))
		return h.Sum64()
	case AlgBlake2b:
		h, _ := blake2b.New(8, nil)
		h.Write([]byte(s))
		sum := h.Sum(nil)
		var v uint64
		for _, b := range sum {
			v = v<<8 | uint64(b)
		}
		return v
	default:
		return xxh3.HashString(s)
	}
}
