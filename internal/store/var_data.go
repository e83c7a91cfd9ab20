package store

import (
	"time"

	"github.com/heyvito/mpp/internal/codec"
)

// VarData resolves (entity, tag) pairs to byte spans of a variable region.
type VarData struct {
	meta  *VarMeta
	items map[int][]byte
}

// NewVarData reads every blob referenced by meta. Each blob is a 32-bit size
// followed by its payload; blobs pointing outside of buf, or declaring a size
// larger than what is left, are ignored.
func NewVarData(meta *VarMeta, buf []byte) *VarData {
	v := &VarData{meta: meta, items: map[int][]byte{}}
	for offset := range meta.blobOffsets() {
		if _, seen := v.items[offset]; seen {
			continue
		}
		if offset < 0 || !codec.Within(buf, offset, 4) {
			continue
		}
		size := int(codec.Int32(buf, offset))
		start := offset + 4
		if size < 0 || size > len(buf)-start {
			continue
		}
		v.items[offset] = buf[start : start+size]
	}
	return v
}

func (v *VarData) Meta() *VarMeta {
	return v.meta
}

// UniqueIdentifiers returns every entity ID present in the region.
func (v *VarData) UniqueIdentifiers() []int {
	return v.meta.UniqueIdentifiers()
}

// Bytes returns the span stored for tag on the given entity. It never yields
// data belonging to another entity.
func (v *VarData) Bytes(uid, tag int) ([]byte, bool) {
	off, ok := v.meta.Offset(uid, tag)
	if !ok {
		return nil, false
	}
	b, ok := v.items[off]
	return b, ok
}

func (v *VarData) sized(uid, tag, n int) ([]byte, bool) {
	b, ok := v.Bytes(uid, tag)
	if !ok || len(b) < n {
		return nil, false
	}
	return b, true
}

func (v *VarData) Byte(uid, tag int) int {
	if b, ok := v.sized(uid, tag, 1); ok {
		return int(b[0])
	}
	return 0
}

func (v *VarData) Int16(uid, tag int) int {
	if b, ok := v.sized(uid, tag, 2); ok {
		return int(codec.Uint16(b, 0))
	}
	return 0
}

func (v *VarData) Int32(uid, tag int) int {
	if b, ok := v.sized(uid, tag, 4); ok {
		return int(codec.Int32(b, 0))
	}
	return 0
}

func (v *VarData) Int64(uid, tag int) int64 {
	if b, ok := v.sized(uid, tag, 8); ok {
		return codec.Int64(b, 0)
	}
	return 0
}

func (v *VarData) Double(uid, tag int) float64 {
	if b, ok := v.sized(uid, tag, 8); ok {
		return codec.Double(b, 0)
	}
	return 0
}

func (v *VarData) Timestamp(uid, tag int, loc *time.Location) *time.Time {
	if b, ok := v.sized(uid, tag, 4); ok {
		return codec.Timestamp(b, 0, loc)
	}
	return nil
}

func (v *VarData) UnicodeString(uid, tag int) string {
	if b, ok := v.Bytes(uid, tag); ok {
		return codec.UnicodeString(b, 0, -1)
	}
	return ""
}

func (v *VarData) String(uid, tag int) string {
	if b, ok := v.Bytes(uid, tag); ok {
		return codec.String(b, 0, -1)
	}
	return ""
}
