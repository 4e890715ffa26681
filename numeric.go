package lazyjson

import (
	"math"
	"strconv"
)

// parseInteger runs a tight digit loop over a number token's span,
// accepting an optional leading '-'. It does not allocate. Overflow of
// the int64 accumulator is reported via ok=false rather than wrapping,
// so callers can fall back to parseFloat for values outside int64 range.
func parseInteger(b []byte) (v int64, ok bool) {
	if len(b) == 0 {
		return 0, false
	}
	neg := false
	i := 0
	if b[0] == '-' {
		neg = true
		i++
	}
	if i >= len(b) {
		return 0, false
	}
	var acc uint64
	for ; i < len(b); i++ {
		c := b[i]
		if !isDigit(c) {
			return 0, false
		}
		d := uint64(c - '0')
		if acc > (math.MaxUint64-d)/10 {
			return 0, false // overflow
		}
		acc = acc*10 + d
	}
	if neg {
		if acc > uint64(-(math.MinInt64 + 1))+1 {
			return 0, false
		}
		return -int64(acc), true
	}
	if acc > math.MaxInt64 {
		return 0, false
	}
	return int64(acc), true
}

// parseFloat delegates directly to strconv.ParseFloat for correct
// rounding; it runs no grammar pass of its own, because the tokenizer
// already guarantees the span is syntactically a JSON number before this
// is ever called.
func parseFloat(b []byte) (float64, error) {
	return strconv.ParseFloat(string(b), 64)
}

// narrowInt converts v into the range of a fixed-width signed integer
// type identified by bits (8, 16, 32, 64) and returns a TypeConversionError
// tagged with "to" if v falls outside that range.
func narrowInt(v int64, bits int, to string) (int64, error) {
	var lo, hi int64
	switch bits {
	case 8:
		lo, hi = math.MinInt8, math.MaxInt8
	case 16:
		lo, hi = math.MinInt16, math.MaxInt16
	case 32:
		lo, hi = math.MinInt32, math.MaxInt32
	default:
		return v, nil
	}
	if v < lo || v > hi {
		return 0, &TypeConversionError{From: "integer", To: to}
	}
	return v, nil
}

// narrowUint converts v (already known non-negative) into the range of a
// fixed-width unsigned integer type identified by bits.
func narrowUint(v uint64, bits int, to string) (uint64, error) {
	var hi uint64
	switch bits {
	case 8:
		hi = math.MaxUint8
	case 16:
		hi = math.MaxUint16
	case 32:
		hi = math.MaxUint32
	default:
		return v, nil
	}
	if v > hi {
		return 0, &TypeConversionError{From: "integer", To: to}
	}
	return v, nil
}

// formatNumber renders v using Go's shortest round-trip textual form,
// matching the host's canonical float formatting for `float64`.
func formatNumber(v float64) []byte {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		// JSON has no representation for these; emit null per the
		// common convention used by encoding/json-compatible encoders.
		return []byte("null")
	}
	return strconv.AppendFloat(nil, v, 'g', -1, 64)
}

func formatInteger(v int64) []byte {
	return strconv.AppendInt(nil, v, 10)
}
