package store

import (
	"time"

	"github.com/heyvito/mpp/internal/codec"
)

// Heap stores the variable length blocks of the oldest generation, addressed
// by their byte offset. Each block is laid out as a link to the next block,
// a 32-bit payload size, and the payload itself.
type Heap struct {
	data []byte
}

func NewHeap(data []byte) *Heap {
	return &Heap{data: data}
}

// Bytes returns the payload of the block at off.
func (h *Heap) Bytes(off int) ([]byte, bool) {
	header := int(heapBlockOffsets.Header)
	if !codec.Within(h.data, off, header) {
		return nil, false
	}
	size := int(codec.Int32(h.data, off+int(heapBlockOffsets.Size)))
	start := off + header
	if size < 0 || !codec.Within(h.data, start, size) {
		return nil, false
	}
	return h.data[start : start+size], true
}

func (h *Heap) UnicodeString(off int) string {
	if b, ok := h.Bytes(off); ok {
		return codec.UnicodeString(b, 0, -1)
	}
	return ""
}

// ExtendedData is a tag directory stored in a heap block: 6-byte entries made
// of a 16-bit tag and the offset of the heap block holding its value.
type ExtendedData struct {
	items map[int][]byte
}

// NewExtendedData reads the directory at off. A missing block yields an empty
// directory.
func NewExtendedData(h *Heap, off int) *ExtendedData {
	e := &ExtendedData{items: map[int][]byte{}}
	dir, ok := h.Bytes(off)
	if !ok {
		return e
	}
	for p := 0; p+extendedDataEntrySize <= len(dir); p += extendedDataEntrySize {
		tag := int(codec.Uint16(dir, p))
		itemOffset := int(codec.Int32(dir, p+2))
		if item, ok := h.Bytes(itemOffset); ok {
			e.items[tag] = item
		}
	}
	return e
}

func (e *ExtendedData) Bytes(tag int) ([]byte, bool) {
	b, ok := e.items[tag]
	return b, ok
}

func (e *ExtendedData) Int16(tag int) int {
	if b, ok := e.items[tag]; ok && len(b) >= 2 {
		return int(codec.Uint16(b, 0))
	}
	return 0
}

func (e *ExtendedData) Int32(tag int) (int, bool) {
	if b, ok := e.items[tag]; ok && len(b) >= 4 {
		return int(codec.Int32(b, 0)), true
	}
	return 0, false
}

func (e *ExtendedData) UnicodeString(tag int) string {
	if b, ok := e.items[tag]; ok {
		return codec.UnicodeString(b, 0, -1)
	}
	return ""
}

func (e *ExtendedData) Timestamp(tag int, loc *time.Location) *time.Time {
	if b, ok := e.items[tag]; ok && len(b) >= 4 {
		return codec.Timestamp(b, 0, loc)
	}
	return nil
}
