package codec

import "math"

// nibbles recombines n bytes starting at off. Each byte contributes its low
// nibble first and its high nibble next, and bytes are consumed lowest first.
func nibbles(b []byte, off, n int) uint64 {
	var v uint64
	shift := 0
	for i := 0; i < n; i++ {
		c := b[off+i]
		v |= uint64(c&0x0F) << shift
		v |= uint64(c>>4) << (shift + 4)
		shift += 8
	}
	return v
}

func Uint8(b []byte, off int) uint8 {
	return uint8(nibbles(b, off, 1))
}

func Uint16(b []byte, off int) uint16 {
	return uint16(nibbles(b, off, 2))
}

func Int16(b []byte, off int) int16 {
	return int16(nibbles(b, off, 2))
}

func Uint32(b []byte, off int) uint32 {
	return uint32(nibbles(b, off, 4))
}

func Int32(b []byte, off int) int32 {
	return int32(nibbles(b, off, 4))
}

// Int48 decodes the 6-byte unsigned integers used by currency and work
// fields in the oldest generation.
func Int48(b []byte, off int) int64 {
	return int64(nibbles(b, off, 6))
}

func Int64(b []byte, off int) int64 {
	return int64(nibbles(b, off, 8))
}

// Double decodes an IEEE-754 value from its recombined bit pattern. NaN is
// reported as zero. Scaling (currency is stored multiplied by 100) is left to
// the caller.
func Double(b []byte, off int) float64 {
	v := math.Float64frombits(uint64(Int64(b, off)))
	if math.IsNaN(v) {
		return 0
	}
	return v
}

// Within returns whether n bytes starting at off are available in b.
func Within(b []byte, off, n int) bool {
	return off >= 0 && n >= 0 && off <= len(b)-n
}

// BiasedOffset converts a negatively biased pointer (stored as -1 - offset)
// into the offset it designates.
func BiasedOffset(raw int32) int {
	return int(-1 - int64(raw))
}
