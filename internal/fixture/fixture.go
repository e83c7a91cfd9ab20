// Package fixture builds synthetic regions (fixed tables, var stores,
// property blocks, heaps, compound object headers) for tests across the
// decoder packages.
package fixture

import (
	"encoding/binary"
	"math"
	"time"
	"unicode/utf16"
)

var le = binary.LittleEndian

// Buf is a fixed-size record under construction.
type Buf struct {
	b []byte
}

func NewBuf(size int) *Buf {
	return &Buf{b: make([]byte, size)}
}

func (b *Buf) Byte(off int, v byte) *Buf {
	b.b[off] = v
	return b
}

func (b *Buf) Uint16(off int, v uint16) *Buf {
	le.PutUint16(b.b[off:], v)
	return b
}

func (b *Buf) Int32(off int, v int32) *Buf {
	le.PutUint32(b.b[off:], uint32(v))
	return b
}

func (b *Buf) Int64(off int, v int64) *Buf {
	le.PutUint64(b.b[off:], uint64(v))
	return b
}

func (b *Buf) Double(off int, v float64) *Buf {
	le.PutUint64(b.b[off:], math.Float64bits(v))
	return b
}

// Timestamp stores t as a day count at off+2 and tenths of a minute at off.
func (b *Buf) Timestamp(off int, t time.Time) *Buf {
	days, ticks := Ticks(t)
	return b.Uint16(off, ticks).Uint16(off+2, days)
}

func (b *Buf) Raw(off int, data []byte) *Buf {
	copy(b.b[off:], data)
	return b
}

func (b *Buf) Bytes() []byte {
	return b.b
}

// Ticks splits t into the day count and tenth-of-minute components of the
// timestamp encoding.
func Ticks(t time.Time) (days uint16, ticks uint16) {
	y, m, d := t.Date()
	midnight := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	epoch := time.Date(1983, time.December, 31, 0, 0, 0, 0, time.UTC)
	days = uint16(midnight.Sub(epoch).Hours() / 24)
	minutes := t.Hour()*60 + t.Minute()
	ticks = uint16(minutes * 10)
	return
}

func Int32(v int32) []byte {
	out := make([]byte, 4)
	le.PutUint32(out, uint32(v))
	return out
}

func Uint16(v uint16) []byte {
	out := make([]byte, 2)
	le.PutUint16(out, v)
	return out
}

func Int64(v int64) []byte {
	out := make([]byte, 8)
	le.PutUint64(out, uint64(v))
	return out
}

func Double(v float64) []byte {
	return Int64(int64(math.Float64bits(v)))
}

// UTF16 encodes s as NUL-terminated UTF-16LE.
func UTF16(s string) []byte {
	units := utf16.Encode([]rune(s))
	out := make([]byte, 0, len(units)*2+2)
	for _, u := range units {
		out = le.AppendUint16(out, u)
	}
	return append(out, 0, 0)
}

// ANSI encodes s as NUL-terminated single-byte text.
func ANSI(s string) []byte {
	return append([]byte(s), 0)
}
