package internal

type Numbers interface {
	uint | int | int8 | int16 | int32 | int64 | uint8 | uint16 | uint32 | uint64
}

// NearestMultiple rounds j down to a multiple of k.
func NearestMultiple[T Numbers](j, k T) T {
	if j >= 0 {
		return (j / k) * k
	}
	return ((j - k + T(1)) / k) * k
}

// NextMultiple rounds j up to a multiple of k. Used for the 4-byte alignment
// of variable-length items in property and exception blocks.
func NextMultiple[T Numbers](j, k T) T {
	n := NearestMultiple(j, k)
	if n == j {
		return n
	}
	return n + k
}
