package codec

import (
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

var utf16le = unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)

// textLimit returns the exclusive end bound for a text run starting at off,
// honouring maxBytes when it is not negative.
func textLimit(b []byte, off, maxBytes int) int {
	limit := len(b)
	if maxBytes >= 0 && off+maxBytes < limit {
		limit = off + maxBytes
	}
	return limit
}

// UnicodeString decodes UTF-16LE text starting at off, stopping at the first
// NUL code unit or after maxBytes bytes. A negative maxBytes reads up to the
// end of the buffer.
func UnicodeString(b []byte, off, maxBytes int) string {
	if off < 0 || off >= len(b) {
		return ""
	}
	limit := textLimit(b, off, maxBytes)
	end := off
	for end+1 < limit {
		if b[end] == 0 && b[end+1] == 0 {
			break
		}
		end += 2
	}
	out, err := utf16le.NewDecoder().Bytes(b[off:end])
	if err != nil {
		return ""
	}
	return string(out)
}

// String decodes single-byte Windows-1252 text starting at off, stopping at
// the first NUL or after maxBytes bytes. A negative maxBytes reads up to the
// end of the buffer.
func String(b []byte, off, maxBytes int) string {
	if off < 0 || off >= len(b) {
		return ""
	}
	limit := textLimit(b, off, maxBytes)
	end := off
	for end < limit && b[end] != 0 {
		end++
	}
	out, err := charmap.Windows1252.NewDecoder().Bytes(b[off:end])
	if err != nil {
		return ""
	}
	return string(out)
}
