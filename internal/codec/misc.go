package codec

import "github.com/google/uuid"

// GUID decodes a 16-byte GUID stored with its first three groups in
// little-endian order.
func GUID(b []byte, off int) uuid.UUID {
	var u uuid.UUID
	order := [...]int{3, 2, 1, 0, 5, 4, 7, 6}
	for i, src := range order {
		u[i] = b[off+src]
	}
	copy(u[8:], b[off+8:off+16])
	return u
}

// Percentage decodes a 16-bit percentage. Values outside 0..100 are reported
// as zero.
func Percentage(b []byte, off int) int {
	v := int(Uint16(b, off))
	if v > 100 {
		return 0
	}
	return v
}
