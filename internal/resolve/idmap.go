package resolve

import (
	"github.com/heyvito/mpp/internal"
	"github.com/heyvito/mpp/internal/codec"
	"github.com/heyvito/mpp/internal/store"
)

// hole marks a unique ID that belongs to a deleted record.
const hole = -1

// deletedFlag is set on the meta item of deleted task and resource records.
const deletedFlag = 0x02

// IDMap associates entity unique IDs with the index of their fixed record.
// The first record seen for a unique ID wins; unique IDs of deleted records
// are kept as holes so that a later duplicate cannot resurrect them.
type IDMap struct {
	m *internal.SortedMap[int, int]
}

func NewIDMap() *IDMap {
	return &IDMap{m: internal.NewSortedMap[int, int]()}
}

// Register associates uid with index unless uid is already known, returning
// whether the association was made.
func (i *IDMap) Register(uid, index int) bool {
	_, loaded := i.m.LoadOrStore(uid, index)
	return !loaded
}

// MarkDeleted registers uid as a hole.
func (i *IDMap) MarkDeleted(uid int) {
	i.m.LoadOrStore(uid, hole)
}

// Index returns the fixed record index of uid. Holes are reported as absent.
func (i *IDMap) Index(uid int) (int, bool) {
	idx, ok := i.m.Load(uid)
	if !ok || idx == hole {
		return 0, false
	}
	return idx, true
}

func (i *IDMap) Deleted(uid int) bool {
	idx, ok := i.m.Load(uid)
	return ok && idx == hole
}

// UniqueIDs returns the unique IDs of present records, ascending.
func (i *IDMap) UniqueIDs() []int {
	out := make([]int, 0, i.m.Len())
	for uid, idx := range i.m.Range() {
		if idx != hole {
			out = append(out, uid)
		}
	}
	return out
}

// Len returns how many unique IDs point to a present record.
func (i *IDMap) Len() int {
	n := 0
	for _, idx := range i.m.Range() {
		if idx != hole {
			n++
		}
	}
	return n
}

// TaskMapLayout describes how task records are told apart in a fixed table.
type TaskMapLayout struct {
	// Skip is the number of leading items that do not hold tasks.
	Skip int
	// NullBlockSize is the exact length of a null task record.
	NullBlockSize int
	// MinSize rejects shorter records when not zero.
	MinSize int
	// MaxSize is the largest record length accepted by the table. Records
	// holding 75% of it or less are considered stale.
	MaxSize int
}

// TaskMap scans a task fixed table and maps every task unique ID to the index
// of its record.
func TaskMap(meta *store.FixedMeta, data *store.FixedData, layout TaskMapLayout) *IDMap {
	ids := NewIDMap()
	for i := layout.Skip; i < meta.ItemCount(); i++ {
		rec, ok := data.Record(i)
		if !ok {
			continue
		}

		if meta.Flags(i)&deletedFlag != 0 {
			// Only a short is stored as the unique ID of deleted tasks
			if len(rec) >= 2 {
				ids.MarkDeleted(int(codec.Uint16(rec, 0)))
			}
			continue
		}

		if len(rec) < 4 {
			continue
		}

		if len(rec) == layout.NullBlockSize {
			ids.Register(int(codec.Int32(rec, 0)), i)
			continue
		}

		if layout.MinSize != 0 && len(rec) < layout.MinSize {
			continue
		}
		if layout.MaxSize != 0 && (len(rec)*100)/layout.MaxSize <= 75 {
			continue
		}
		ids.Register(int(codec.Int32(rec, 0)), i)
	}
	return ids
}

// ResourceMap scans a resource fixed table. Records shorter than minSize and
// deleted records are ignored; resource unique IDs are stored as a short.
func ResourceMap(meta *store.FixedMeta, data *store.FixedData, minSize int) *IDMap {
	ids := NewIDMap()
	for i := 0; i < meta.ItemCount(); i++ {
		rec, ok := data.Record(i)
		if !ok || len(rec) < max(minSize, 2) {
			continue
		}
		if meta.Flags(i)&deletedFlag != 0 {
			continue
		}
		ids.Register(int(codec.Uint16(rec, 0)), i)
	}
	return ids
}
