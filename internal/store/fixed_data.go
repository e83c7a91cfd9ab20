package store

type fixedItem struct {
	data   []byte
	offset int
	ok     bool
}

// FixedData gives indexed access to the records of a fixed region. Records
// are sub-slices of the region buffer and must not be modified.
type FixedData struct {
	items     []fixedItem
	remainder int
}

// FixedDataLimits bounds the record sizes derived from meta offsets. Zero
// values disable the corresponding bound.
type FixedDataLimits struct {
	MaxSize int
	MinSize int
}

// NewFixedData slices buf using the offsets held by meta. A record spans up
// to the offset of the next meta item; the last one runs to the end of the
// buffer. Items pointing outside the buffer are left as holes.
func NewFixedData(meta *FixedMeta, buf []byte, limits FixedDataLimits) *FixedData {
	count := meta.ItemCount()
	f := &FixedData{items: make([]fixedItem, count)}

	for i := 0; i < count; i++ {
		offset, ok := meta.DataOffset(i)
		if !ok || offset < 0 || offset > len(buf) {
			continue
		}

		var size int
		if i+1 == count {
			size = len(buf) - offset
		} else if next, ok := meta.DataOffset(i + 1); ok {
			size = next - offset
		} else {
			size = len(buf) - offset
		}

		if size == 0 {
			size = limits.MinSize
		}

		available := len(buf) - offset
		if size < 0 || size > available {
			size = available
			if limits.MaxSize != 0 && limits.MaxSize < available {
				size = limits.MaxSize
			}
		}

		if limits.MaxSize != 0 && size > limits.MaxSize {
			size = limits.MaxSize
		}

		if size > 0 {
			f.items[i] = fixedItem{data: buf[offset : offset+size], offset: offset, ok: true}
		}
	}
	return f
}

// NewFixedDataSized reads one itemSize record at each offset held by meta.
// Records that would overrun the buffer are truncated.
func NewFixedDataSized(meta *FixedMeta, buf []byte, itemSize int) *FixedData {
	count := meta.ItemCount()
	f := &FixedData{items: make([]fixedItem, count)}
	for i := 0; i < count; i++ {
		offset, ok := meta.DataOffset(i)
		if !ok || offset < 0 || offset >= len(buf) {
			continue
		}
		size := min(itemSize, len(buf)-offset)
		f.items[i] = fixedItem{data: buf[offset : offset+size], offset: offset, ok: true}
	}
	return f
}

// NewFixedDataUniform slices buf into consecutive itemSize records. When
// readRemainder is set, a trailing short block is kept as a last record;
// otherwise its length is reported by Remainder.
func NewFixedDataUniform(buf []byte, itemSize int, readRemainder bool) *FixedData {
	if itemSize <= 0 {
		return &FixedData{remainder: len(buf)}
	}
	count := len(buf) / itemSize
	remainder := len(buf) % itemSize
	if readRemainder && remainder != 0 {
		count++
	}
	f := &FixedData{items: make([]fixedItem, count)}
	if !readRemainder {
		f.remainder = remainder
	}
	for i := 0; i < count; i++ {
		offset := i * itemSize
		size := min(itemSize, len(buf)-offset)
		f.items[i] = fixedItem{data: buf[offset : offset+size], offset: offset, ok: true}
	}
	return f
}

// NewFixFix reads the uniform record tables of the oldest generation.
func NewFixFix(buf []byte, itemSize int) *FixedData {
	return NewFixedDataUniform(buf, itemSize, false)
}

func (f *FixedData) ItemCount() int {
	return len(f.items)
}

// Record returns the record at index i. Out-of-range indexes and holes are
// reported as absent.
func (f *FixedData) Record(i int) ([]byte, bool) {
	if !f.IsValidIndex(i) {
		return nil, false
	}
	return f.items[i].data, true
}

// IsValidIndex returns whether i designates a present record.
func (f *FixedData) IsValidIndex(i int) bool {
	return i >= 0 && i < len(f.items) && f.items[i].ok
}

// IndexFromOffset returns the index of the record starting at the given
// region offset, or -1.
func (f *FixedData) IndexFromOffset(offset int) int {
	for i, it := range f.items {
		if it.ok && it.offset == offset {
			return i
		}
	}
	return -1
}

// Remainder returns how many trailing bytes did not fit a uniform record.
func (f *FixedData) Remainder() int {
	return f.remainder
}
