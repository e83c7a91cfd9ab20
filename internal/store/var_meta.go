package store

import (
	"slices"

	"github.com/heyvito/mpp/internal"
	"github.com/heyvito/mpp/internal/codec"
)

// VarMetaLayout captures how a generation stores the tag of each var meta
// entry.
type VarMetaLayout struct {
	TagWidth int
}

var (
	VarMetaLayout9  = VarMetaLayout{TagWidth: 1}
	VarMetaLayout12 = VarMetaLayout{TagWidth: 2}
)

// VarMeta is the index of a variable region: for each entity unique ID, the
// blob offset of each of its property tags.
type VarMeta struct {
	entries   *internal.SortedMap[int, map[int]int]
	itemCount int
	dataSize  int
}

func NewVarMeta(data []byte, layout VarMetaLayout) (*VarMeta, error) {
	header := int(varMetaOffsets.HeaderSize)
	if len(data) < header {
		return nil, ErrTruncated
	}
	if codec.Uint32(data, int(varMetaOffsets.Magic)) != Magic {
		return nil, ErrBadMagic
	}

	v := &VarMeta{
		entries:  internal.NewSortedMap[int, map[int]int](),
		dataSize: int(codec.Int32(data, int(varMetaOffsets.DataSize))),
	}

	count := int(codec.Int32(data, int(varMetaOffsets.ItemCount)))
	itemSize := int(varMetaOffsets.ItemSize)
	for i := 0; i < count; i++ {
		off := header + i*itemSize
		if !codec.Within(data, off, itemSize) {
			break
		}
		uid := int(codec.Int32(data, off+int(varMetaItemOffsets.UniqueID)))
		offset := int(codec.Int32(data, off+int(varMetaItemOffsets.Offset)))
		var tag int
		if layout.TagWidth == 1 {
			tag = int(codec.Uint8(data, off+int(varMetaItemOffsets.Tag)))
		} else {
			tag = int(codec.Uint16(data, off+int(varMetaItemOffsets.Tag)))
		}

		tags, _ := v.entries.LoadOrStore(uid, map[int]int{})
		tags[tag] = offset
		v.itemCount++
	}
	return v, nil
}

// Offset returns the blob offset holding tag for the given entity.
func (v *VarMeta) Offset(uid, tag int) (int, bool) {
	tags, ok := v.entries.Load(uid)
	if !ok {
		return 0, false
	}
	off, ok := tags[tag]
	return off, ok
}

// Tags returns the sorted property tags stored for an entity.
func (v *VarMeta) Tags(uid int) []int {
	tags, ok := v.entries.Load(uid)
	if !ok {
		return nil
	}
	out := make([]int, 0, len(tags))
	for t := range tags {
		out = append(out, t)
	}
	slices.Sort(out)
	return out
}

func (v *VarMeta) Contains(uid int) bool {
	_, ok := v.entries.Load(uid)
	return ok
}

// UniqueIdentifiers returns every entity ID present in the index, ascending.
func (v *VarMeta) UniqueIdentifiers() []int {
	return v.entries.Keys()
}

func (v *VarMeta) ItemCount() int {
	return v.itemCount
}

func (v *VarMeta) DataSize() int {
	return v.dataSize
}

// blobOffsets yields every blob offset referenced by the index.
func (v *VarMeta) blobOffsets() func(func(offset int) bool) {
	return func(yield func(offset int) bool) {
		for _, tags := range v.entries.Range() {
			for _, off := range tags {
				if !yield(off) {
					return
				}
			}
		}
	}
}
