package store

import (
	"github.com/heyvito/mpp/internal/codec"
)

// FixedMeta is the metadata table paired with a FixedData region. Each item
// carries the flags of a fixed record and the offset of its data; the
// meaning of the flags is left to the caller.
type FixedMeta struct {
	data      []byte
	itemSize  int
	itemCount int
}

// NewFixedMeta parses a meta region whose items are itemSize bytes long.
func NewFixedMeta(data []byte, itemSize int) (*FixedMeta, error) {
	if len(data) < int(fixedMetaOffsets.HeaderSize) {
		return nil, ErrTruncated
	}
	if codec.Uint32(data, int(fixedMetaOffsets.Magic)) != Magic {
		return nil, ErrBadMagic
	}
	m := &FixedMeta{data: data, itemSize: itemSize}
	if itemSize <= 0 {
		return m, nil
	}
	available := (len(data) - int(fixedMetaOffsets.HeaderSize)) / itemSize
	count := int(codec.Int32(data, int(fixedMetaOffsets.ItemCount)))
	if count < 0 || count > available {
		count = available
	}
	m.itemCount = count
	return m, nil
}

// NewFixedMetaDetected parses a meta region whose item size is not known in
// advance, choosing one of the candidates with DetectMetaItemSize. otherCount
// is the item count of the paired table, or -1 when none is available.
func NewFixedMetaDetected(data []byte, otherCount int, candidates ...int) (*FixedMeta, SizeDecision, error) {
	decision := DetectMetaItemSize(len(data), otherCount, candidates...)
	m, err := NewFixedMeta(data, decision.Size)
	return m, decision, err
}

func (m *FixedMeta) ItemCount() int {
	return m.itemCount
}

func (m *FixedMeta) ItemSize() int {
	return m.itemSize
}

// Record returns the raw bytes of the meta item at index i.
func (m *FixedMeta) Record(i int) ([]byte, bool) {
	if i < 0 || i >= m.itemCount {
		return nil, false
	}
	start := int(fixedMetaOffsets.HeaderSize) + i*m.itemSize
	return m.data[start : start+m.itemSize], true
}

// Flags returns the leading flag word of item i, or zero when absent.
func (m *FixedMeta) Flags(i int) int {
	r, ok := m.Record(i)
	if !ok || len(r) < 4 {
		return 0
	}
	return int(codec.Int32(r, int(fixedMetaItemOffsets.Flags)))
}

// DataOffset returns the FixedData byte offset stored by item i.
func (m *FixedMeta) DataOffset(i int) (int, bool) {
	r, ok := m.Record(i)
	if !ok || len(r) < 8 {
		return 0, false
	}
	return int(codec.Int32(r, int(fixedMetaItemOffsets.DataOffset))), true
}
