package store

import (
	"time"

	"github.com/heyvito/mpp/internal"
	"github.com/heyvito/mpp/internal/codec"
)

// Props is a keyed property block, used for project level settings.
type Props struct {
	items *internal.SortedMap[int, []byte]
}

// NewProps parses a property block. Items are laid out as a 12-byte header
// (size, key, attributes) followed by the payload, padded to four bytes. The
// scan stops at the first truncated item.
func NewProps(data []byte) (*Props, error) {
	header := int(propsOffsets.HeaderSize)
	if len(data) < header {
		return nil, ErrTruncated
	}
	p := &Props{items: internal.NewSortedMap[int, []byte]()}
	count := int(codec.Uint16(data, int(propsOffsets.ItemCount)))
	itemHeader := int(propsOffsets.ItemHeader)

	off := header
	for found := 0; found < count; found++ {
		if !codec.Within(data, off, itemHeader) {
			break
		}
		size := int(codec.Int32(data, off))
		key := int(codec.Int32(data, off+4))
		off += itemHeader
		if size < 1 || !codec.Within(data, off, size) {
			break
		}
		p.items.Store(key, data[off:off+size])
		off += internal.NextMultiple(size, 4)
	}
	return p, nil
}

// Keys returns the property keys present in the block, ascending.
func (p *Props) Keys() []int {
	return p.items.Keys()
}

func (p *Props) Bytes(key int) ([]byte, bool) {
	return p.items.Load(key)
}

func (p *Props) sized(key, n int) ([]byte, bool) {
	b, ok := p.items.Load(key)
	if !ok || len(b) < n {
		return nil, false
	}
	return b, true
}

func (p *Props) Byte(key int) byte {
	if b, ok := p.sized(key, 1); ok {
		return b[0]
	}
	return 0
}

func (p *Props) Int16(key int) int {
	if b, ok := p.sized(key, 2); ok {
		return int(codec.Uint16(b, 0))
	}
	return 0
}

func (p *Props) Int32(key int) int {
	if b, ok := p.sized(key, 4); ok {
		return int(codec.Int32(b, 0))
	}
	return 0
}

func (p *Props) Double(key int) float64 {
	if b, ok := p.sized(key, 8); ok {
		return codec.Double(b, 0)
	}
	return 0
}

func (p *Props) Bool(key int) bool {
	return p.Int16(key) != 0
}

func (p *Props) Timestamp(key int, loc *time.Location) *time.Time {
	if b, ok := p.sized(key, 4); ok {
		return codec.Timestamp(b, 0, loc)
	}
	return nil
}

func (p *Props) Date(key int, loc *time.Location) *time.Time {
	if b, ok := p.sized(key, 2); ok {
		return codec.Date(b, 0, loc)
	}
	return nil
}

func (p *Props) UnicodeString(key int) string {
	if b, ok := p.items.Load(key); ok {
		return codec.UnicodeString(b, 0, -1)
	}
	return ""
}
