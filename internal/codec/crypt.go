package codec

// XOR applies the single-byte obfuscation used by encrypted regions, in
// place. Applying it twice restores the original data.
func XOR(buf []byte, code byte) {
	for i := range buf {
		buf[i] ^= code
	}
}

const minimumPasswordDataLength = 64

var passwordMask = [...]int{60, 30, 48, 2, 6, 14, 8, 22, 44, 12, 38, 10, 62, 16, 34, 24}

// DecodePassword recovers the protection password from its stored block.
// Returns false when the block is too short to hold one. The input buffer is
// left untouched.
func DecodePassword(data []byte, code byte) (string, bool) {
	if len(data) < minimumPasswordDataLength {
		return "", false
	}
	buf := make([]byte, len(data))
	copy(buf, data)
	XOR(buf, code)

	out := make([]byte, 0, len(passwordMask))
	for _, idx := range passwordMask {
		c := buf[idx]
		if c == 0 {
			break
		}
		out = append(out, c)
	}
	return string(out), true
}
