package fixture

import "slices"

const magic = 0xFADFADBA

// MetaItem describes one item of a fixed meta region.
type MetaItem struct {
	Flags  int32
	Offset int32
	// Extra is copied after the flags and offset fields.
	Extra []byte
}

// FixedMeta builds a fixed meta region holding items of itemSize bytes.
func FixedMeta(itemSize int, items ...MetaItem) []byte {
	out := make([]byte, 16+itemSize*len(items))
	le.PutUint32(out[0:], magic)
	le.PutUint32(out[8:], uint32(len(items)))
	for i, it := range items {
		base := 16 + i*itemSize
		if itemSize >= 4 {
			le.PutUint32(out[base:], uint32(it.Flags))
		}
		if itemSize >= 8 {
			le.PutUint32(out[base+4:], uint32(it.Offset))
		}
		if itemSize > 8 {
			copy(out[base+8:base+itemSize], it.Extra)
		}
	}
	return out
}

// FixedTable concatenates records into a data region and builds the
// matching meta region. flags may be shorter than records; missing entries
// are zero.
func FixedTable(metaItemSize int, flags []int32, records ...[]byte) (meta, data []byte) {
	items := make([]MetaItem, len(records))
	for i, r := range records {
		items[i].Offset = int32(len(data))
		if i < len(flags) {
			items[i].Flags = flags[i]
		}
		data = append(data, r...)
	}
	return FixedMeta(metaItemSize, items...), data
}

// VarEntry is one (entity, tag) value of a variable region.
type VarEntry struct {
	UID  int32
	Tag  int
	Data []byte
}

// VarRegion builds a var meta index and its data blob. tagWidth selects the
// one-byte or two-byte tag layout.
func VarRegion(tagWidth int, entries ...VarEntry) (meta, data []byte) {
	meta = make([]byte, 24+12*len(entries))
	le.PutUint32(meta[0:], magic)
	le.PutUint32(meta[8:], uint32(len(entries)))
	for i, e := range entries {
		base := 24 + i*12
		le.PutUint32(meta[base:], uint32(e.UID))
		le.PutUint32(meta[base+4:], uint32(len(data)))
		if tagWidth == 1 {
			meta[base+8] = byte(e.Tag)
		} else {
			le.PutUint16(meta[base+8:], uint16(e.Tag))
		}
		data = append(data, Int32(int32(len(e.Data)))...)
		data = append(data, e.Data...)
	}
	le.PutUint32(meta[20:], uint32(len(data)))
	return meta, data
}

type PropEntry struct {
	Key  int32
	Data []byte
}

// Props builds a property block.
func Props(entries ...PropEntry) []byte {
	out := make([]byte, 16)
	le.PutUint16(out[12:], uint16(len(entries)))
	for _, e := range entries {
		out = append(out, Int32(int32(len(e.Data)))...)
		out = append(out, Int32(e.Key)...)
		out = append(out, Int32(0)...)
		out = append(out, e.Data...)
		for len(out)%4 != 0 {
			out = append(out, 0)
		}
	}
	return out
}

// Heap builds the block heap of the oldest generation.
type Heap struct {
	data []byte
}

func NewHeap() *Heap {
	// Offset zero is never handed out, so that zero can mean "no block".
	return &Heap{data: make([]byte, 8)}
}

// Add appends a block and returns its offset.
func (h *Heap) Add(payload []byte) int32 {
	off := int32(len(h.data))
	h.data = append(h.data, Int32(0)...)
	h.data = append(h.data, Int32(int32(len(payload)))...)
	h.data = append(h.data, payload...)
	return off
}

// AddExtended appends one block per tag plus a directory block pointing at
// them, returning the directory offset.
func (h *Heap) AddExtended(items map[int][]byte) int32 {
	tags := make([]int, 0, len(items))
	for t := range items {
		tags = append(tags, t)
	}
	slices.Sort(tags)
	var dir []byte
	for _, t := range tags {
		off := h.Add(items[t])
		dir = append(dir, Uint16(uint16(t))...)
		dir = append(dir, Int32(off)...)
	}
	return h.Add(dir)
}

func (h *Heap) Bytes() []byte {
	return h.data
}

// Biased returns the negatively biased form of a heap offset.
func Biased(off int32) int32 {
	return -1 - off
}

// CompObj builds a compound object stream announcing the given clipboard
// format.
func CompObj(format string) []byte {
	out := make([]byte, 28)
	for _, s := range []string{"Microsoft Project", format, "MSProject.Project"} {
		out = append(out, Int32(int32(len(s)+1))...)
		out = append(out, ANSI(s)...)
	}
	return out
}
