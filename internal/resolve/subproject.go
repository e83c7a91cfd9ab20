package resolve

import (
	"bytes"
	"maps"
	"slices"

	"github.com/heyvito/mpp/internal/codec"
	"github.com/heyvito/mpp/schedule"
)

// subProjectField is one 4-byte slot of a sub-project table item.
type subProjectField uint8

const (
	fieldSkip subProjectField = iota
	fieldUniqueIDs
	fieldPath
	fieldName
)

type subProjectItem struct {
	fields []subProjectField
	// fromHeader items keep their unique ID list at the item header offset.
	fromHeader bool
	// masked items store 32-bit offsets, masked to 17 bits.
	masked       bool
	resourcePool bool
	placeholder  bool
}

var (
	skip8  = subProjectItem{fields: []subProjectField{fieldSkip, fieldSkip}, placeholder: true}
	skip12 = subProjectItem{fields: []subProjectField{fieldSkip, fieldSkip, fieldSkip}, placeholder: true}
)

var subProjectItems9 = map[byte]subProjectItem{
	0x00: skip8,
	0x99: {fields: []subProjectField{fieldUniqueIDs, fieldSkip, fieldPath, fieldName}},
	0x09: {fields: []subProjectField{fieldUniqueIDs, fieldSkip, fieldPath, fieldName}},
	0x0D: {fields: []subProjectField{fieldUniqueIDs, fieldSkip, fieldPath, fieldName}},
	0x91: {fields: []subProjectField{fieldUniqueIDs, fieldPath, fieldName, fieldSkip}},
	0x11: {fields: []subProjectField{fieldUniqueIDs, fieldPath, fieldName}},
	0x03: {fields: []subProjectField{fieldUniqueIDs, fieldPath, fieldName}},
	0x81: {fields: []subProjectField{fieldUniqueIDs, fieldPath, fieldSkip, fieldName}},
	0x41: {fields: []subProjectField{fieldUniqueIDs, fieldPath, fieldSkip, fieldName}},
	0x01: {fields: []subProjectField{fieldUniqueIDs, fieldPath, fieldName}},
	0x08: {fields: []subProjectField{fieldUniqueIDs, fieldPath, fieldName}},
	0xC0: {fields: []subProjectField{fieldPath, fieldName, fieldSkip}, fromHeader: true},
	0x05: {fields: []subProjectField{fieldUniqueIDs, fieldPath, fieldName}, resourcePool: true},
	0x45: {fields: []subProjectField{fieldUniqueIDs, fieldPath, fieldName, fieldSkip}, masked: true, resourcePool: true},
	0x02: {fields: []subProjectField{fieldPath, fieldName}},
	0x04: {fields: []subProjectField{fieldPath, fieldName}, resourcePool: true},
	0x8D: {fields: []subProjectField{fieldUniqueIDs, fieldSkip, fieldPath, fieldSkip, fieldName}},
	0x0A: {fields: []subProjectField{fieldUniqueIDs, fieldPath, fieldName}},
	0x80: skip12,
	0x10: skip8,
	0x44: {fields: []subProjectField{fieldPath, fieldSkip, fieldName}, resourcePool: true},
}

func subProjectItems12() map[byte]subProjectItem {
	items := maps.Clone(subProjectItems9)
	items[0x11] = items[0x91]
	items[0x03] = items[0x91]
	items[0x83] = items[0x81]
	return items
}

// SubProjectLayout holds the generation specific parts of the sub-project
// table: the values closing the task unique ID of an inserted project, and
// whether all offsets are stored as masked 32-bit values.
type SubProjectLayout struct {
	Markers []int
	Masked  bool
	items   map[byte]subProjectItem
}

var (
	SubProjectLayout9 = SubProjectLayout{
		Markers: []int{0, 0x0B340000, 0x0ABB0000, 0x05A10000, 0x02F70000},
		items:   subProjectItems9,
	}
	SubProjectLayout12 = SubProjectLayout{
		Markers: []int{0, 0x0B340000, 0x0ABB0000, 0x05A10000, 0x02F70000, 0x0BD50000, 0x03D60000},
		Masked:  true,
		items:   subProjectItems12(),
	}
	SubProjectLayout14 = SubProjectLayout{
		Markers: []int{
			0, 0x0B340000, 0x0ABB0000, 0x05A10000, 0x02F70000, 0x0BD50000, 0x03D60000,
			0x067F0000, 0x067D0000, 0x00540000,
		},
		Masked: true,
		items:  subProjectItems12(),
	}
)

var subProjectOffsets = struct {
	ItemsEnd     uint8
	FirstItem    uint8
	ItemHeader   uint8
	ItemType     uint8
	ListEnd      uint16
	PathHeader   uint8
	PathBlock    uint8
	ItemSlotSize uint8
}{
	ItemsEnd:     8,
	FirstItem:    12,
	ItemHeader:   20,
	ItemType:     16,
	ListEnd:      0x0303,
	PathHeader:   18,
	PathBlock:    24,
	ItemSlotSize: 4,
}

const (
	uniqueIDOffsetBase = 0x00800000
	uniqueIDOffsetStep = 0x00400000
)

// SubProjectTable is the decoded sub-project table of a project.
type SubProjectTable struct {
	SubProjects []*schedule.SubProject
	// ByTask associates the unique ID of the task hosting a sub-project, and
	// of every external task, with its sub-project.
	ByTask map[int]*schedule.SubProject
}

// SubProjects decodes the sub-project table stored in the project
// properties. Items that cannot be decoded are skipped, as decoding the
// remaining ones does not depend on them.
func SubProjects(data []byte, layout SubProjectLayout) *SubProjectTable {
	t := &SubProjectTable{ByTask: map[int]*schedule.SubProject{}}
	if !codec.Within(data, 0, int(subProjectOffsets.FirstItem)) {
		return t
	}

	end := int(codec.Int32(data, int(subProjectOffsets.ItemsEnd)))
	offset := int(subProjectOffsets.FirstItem)
	slot := int(subProjectOffsets.ItemSlotSize)
	index := 0
	for offset < end && codec.Within(data, offset, slot) {
		index++
		headerOffset := layout.offset(data, offset, false)
		offset += slot
		if !codec.Within(data, headerOffset, int(subProjectOffsets.ItemHeader)) {
			break
		}

		kind := data[headerOffset+int(subProjectOffsets.ItemType)]
		item, ok := layout.items[kind]
		if !ok {
			item = skip12
		}
		if item.placeholder {
			offset += len(item.fields) * slot
			continue
		}

		uniqueIDs, path, name := -1, -1, -1
		if item.fromHeader {
			uniqueIDs = headerOffset
		}
		for _, f := range item.fields {
			if !codec.Within(data, offset, slot) {
				return t
			}
			v := layout.offset(data, offset, item.masked)
			switch f {
			case fieldUniqueIDs:
				uniqueIDs = v
			case fieldPath:
				path = v
			case fieldName:
				name = v
			}
			offset += slot
		}

		sp, ok := readSubProject(data, layout, uniqueIDs, path, name, index)
		if !ok {
			continue
		}
		sp.ResourcePool = item.resourcePool
		t.SubProjects = append(t.SubProjects, sp)
		if sp.TaskUniqueID != 0 {
			t.ByTask[sp.TaskUniqueID] = sp
		}
		for _, uid := range sp.ExternalTaskUniqueIDs {
			t.ByTask[uid] = sp
		}
	}
	return t
}

func (l SubProjectLayout) offset(data []byte, off int, masked bool) int {
	if l.Masked || masked {
		return int(codec.Int32(data, off) & 0x1FFFF)
	}
	return int(codec.Uint16(data, off))
}

func readSubProject(data []byte, layout SubProjectLayout, uniqueIDs, path, name, index int) (*schedule.SubProject, bool) {
	sp := &schedule.SubProject{}

	if uniqueIDs != -1 {
		prev := 0
		for off := uniqueIDs; ; off += 4 {
			if !codec.Within(data, off, 4) {
				return nil, false
			}
			v := int(codec.Int32(data, off))
			if v == int(subProjectOffsets.ListEnd) {
				break
			}
			if slices.Contains(layout.Markers, v) {
				sp.TaskUniqueID = prev
				prev = 0
				continue
			}
			if prev != 0 {
				sp.ExternalTaskUniqueIDs = append(sp.ExternalTaskUniqueIDs, prev)
			}
			prev = v
		}
		if prev != 0 {
			sp.ExternalTaskUniqueIDs = append(sp.ExternalTaskUniqueIDs, prev)
		}
		sp.UniqueIDOffset = uniqueIDOffsetBase + (index-1)*uniqueIDOffsetStep
	}

	var ok bool
	if sp.DOSFullPath, sp.FullPath, ok = readSubProjectPath(data, path); !ok {
		return nil, false
	}
	if sp.DOSFileName, sp.FileName, ok = readSubProjectPath(data, name); !ok {
		return nil, false
	}
	return sp, true
}

// readSubProjectPath reads a path block: a header, the DOS form of the path,
// and an optional unicode form. Without the latter, both values are the DOS
// path.
func readSubProjectPath(data []byte, off int) (dos, full string, ok bool) {
	off += int(subProjectOffsets.PathHeader) + 4
	if off < 0 || off >= len(data) {
		return "", "", false
	}
	dos = codec.String(data, off, -1)
	n := bytes.IndexByte(data[off:], 0)
	if n < 0 {
		return "", "", false
	}
	off += n + 1 + int(subProjectOffsets.PathBlock)

	if !codec.Within(data, off, 4) {
		return "", "", false
	}
	size := int(codec.Int32(data, off))
	off += 4
	if size == 0 {
		return dos, dos, true
	}

	if !codec.Within(data, off, 4) {
		return "", "", false
	}
	size = int(codec.Int32(data, off))
	off += 4 + 2
	if !codec.Within(data, off, size) {
		return "", "", false
	}
	return dos, codec.UnicodeString(data, off, size), true
}
