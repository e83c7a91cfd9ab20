package reader

import (
	"github.com/heyvito/mpp/internal/codec"
	"github.com/heyvito/mpp/internal/metrics"
	"github.com/heyvito/mpp/internal/resolve"
	"github.com/heyvito/mpp/internal/store"
	"github.com/heyvito/mpp/schedule"
)

// The oldest generation stores every table as uniform records ("FixFix")
// paired with a block heap ("FixDeferFix") addressed through negatively
// biased offsets.
const (
	projectDir8 = "   1"
	viewDir8    = "   2"
	fixFix8     = "FixFix   0"
	heap8       = "FixDeferFix   0"
)

var calendarOffsets8 = struct {
	RecordSize   int
	UniqueID     int
	BaseUniqueID int
	Name         int
	Extended     int
	DataTag      int
}{
	RecordSize:   36,
	UniqueID:     0,
	BaseUniqueID: 4,
	Name:         20,
	Extended:     32,
	DataTag:      8,
}

var taskOffsets8 = struct {
	RecordSizes     []int
	UniqueID        int
	ID              int
	BlankRow        int
	Finish          int
	OutlineLevel    int
	Duration        int
	DurationUnits   int
	ConstraintType  int
	Start           int
	ConstraintDate  int
	Milestone       int
	Priority        int
	PercentComplete int
	Type            int
	Work            int
	Cost            int
	Name            int
	Deleted         int
	Extended        int
	WBSTag          int
	NotesTag        int
}{
	RecordSizes:     []int{316, 366},
	UniqueID:        0,
	ID:              4,
	BlankRow:        8,
	Finish:          20,
	OutlineLevel:    48,
	Duration:        68,
	DurationUnits:   72,
	ConstraintType:  88,
	Start:           96,
	ConstraintDate:  120,
	Milestone:       12,
	Priority:        128,
	PercentComplete: 130,
	Type:            134,
	Work:            168,
	Cost:            222,
	Name:            264,
	Deleted:         272,
	Extended:        312,
	WBSTag:          104,
	NotesTag:        247,
}

var resourceOffsets8 = struct {
	RecordSize   int
	UniqueID     int
	ID           int
	BlankRow     int
	Calendar     int
	StandardRate int
	MaxUnits     int
	Name         int
	Initials     int
	Deleted      int
	Extended     int
	EmailTag     int
	NotesTag     int
}{
	RecordSize:   196,
	UniqueID:     0,
	ID:           4,
	BlankRow:     8,
	Calendar:     24,
	StandardRate: 36,
	MaxUnits:     52,
	Name:         156,
	Initials:     160,
	Deleted:      164,
	Extended:     192,
	EmailTag:     63,
	NotesTag:     169,
}

var relationOffsets8 = struct {
	RecordSize  int
	UniqueID    int
	Predecessor int
	Successor   int
	Type        int
	LagUnits    int
	Lag         int
	Deleted     int
}{
	RecordSize:  36,
	UniqueID:    0,
	Predecessor: 12,
	Successor:   16,
	Type:        20,
	LagUnits:    22,
	Lag:         24,
	Deleted:     28,
}

var assignmentOffsets8 = struct {
	RecordSizes []int
	UniqueID    int
	Task        int
	Resource    int
	Start       int
	Finish      int
	Units       int
	Work        int
}{
	RecordSizes: []int{204, 238},
	UniqueID:    0,
	Task:        16,
	Resource:    20,
	Start:       24,
	Finish:      28,
	Units:       80,
	Work:        84,
}

var tableOffsets8 = struct {
	RecordSize int
	Name       int
}{
	RecordSize: 126,
	Name:       4,
}

// table8 is a FixFix table along with its heap.
type table8 struct {
	dir  region
	data []byte
	heap *store.Heap
}

func (s *session) loadTable8(parent region, name string, withHeap bool) (*table8, error) {
	dir, err := parent.sub(name)
	if err != nil {
		return nil, err
	}
	data, err := dir.stream(fixFix8)
	if err != nil {
		return nil, err
	}
	t := &table8{dir: dir, data: data, heap: store.NewHeap(nil)}
	if withHeap {
		buf, err := dir.stream(heap8)
		if err != nil {
			return nil, err
		}
		t.heap = store.NewHeap(buf)
	}
	return t, nil
}

func (t *table8) records(size int) *store.FixedData {
	return store.NewFixFix(t.data, size)
}

// at resolves the biased heap pointer stored at off.
func at(rec []byte, off int) int {
	return codec.BiasedOffset(codec.Int32(rec, off))
}

func heapString(ext *store.ExtendedData, tag int) string {
	if b, ok := ext.Bytes(tag); ok {
		return codec.String(b, 0, -1)
	}
	return ""
}

func (s *session) readMPP8() error {
	var err error
	if s.projectDir, err = s.root.sub(projectDir8); err != nil {
		return err
	}
	if viewDir, err := s.root.sub(viewDir8); err == nil {
		s.viewDir = viewDir
	}

	err = s.stage("Properties", metrics.StagePropertiesLatency, func() error {
		buf, err := s.projectDir.stream("Props")
		if err != nil {
			return err
		}
		return s.readProperties(buf, s.projectDir.join("Props"))
	})
	if err != nil {
		return err
	}
	return s.pipeline(s.readCalendars8, s.readResources8, s.readTasks8, s.readRelations8, s.readAssignments8)
}

func (s *session) readCalendars8() error {
	t, err := s.loadTable8(s.projectDir, "TBkndCal", true)
	if err != nil {
		return err
	}
	o := calendarOffsets8
	data := s.countFixed(t.records(o.RecordSize))
	linker := resolve.NewCalendarLinker(s.project)

	for i := 0; i < data.ItemCount(); i++ {
		rec, _ := data.Record(i)
		uid := int(codec.Int32(rec, o.UniqueID))
		if uid < 0 {
			continue
		}
		baseID := int(codec.Int32(rec, o.BaseUniqueID))
		base := baseID <= 0

		cal := &schedule.Calendar{UniqueID: uid}
		var blob []byte
		ext := store.NewExtendedData(t.heap, at(rec, o.Extended))
		if raw, ok := ext.Int32(o.DataTag); ok {
			blob, _ = t.heap.Bytes(codec.BiasedOffset(int32(raw)))
		}
		if base {
			cal.Name = t.heap.UnicodeString(at(rec, o.Name))
			if blob == nil {
				cal.Days = resolve.DefaultWeek()
			}
			baseID = noBaseCalendar
		}

		if !s.decodeCalendarBlob(cal, blob, base) {
			s.absorb("calendar", uid, "truncated working week")
			continue
		}
		if !linker.Add(cal, baseID) {
			s.absorb("calendar", uid, "duplicate unique id")
		}
	}

	s.linkCalendars(linker)
	return nil
}

func (s *session) readResources8() error {
	t, err := s.loadTable8(s.projectDir, "TBkndRsc", true)
	if err != nil {
		return err
	}
	o := resourceOffsets8
	data := s.countFixed(t.records(o.RecordSize))

	for i := 0; i < data.ItemCount(); i++ {
		rec, _ := data.Record(i)
		uid := int(codec.Int32(rec, o.UniqueID))
		if uid < 1 || rec[o.BlankRow]&0x01 != 0 || codec.Uint16(rec, o.Deleted) != 0 {
			continue
		}
		ext := store.NewExtendedData(t.heap, at(rec, o.Extended))
		r := &schedule.Resource{
			UniqueID:     uid,
			ID:           int(codec.Int32(rec, o.ID)),
			Name:         t.heap.UnicodeString(at(rec, o.Name)),
			Initials:     t.heap.UnicodeString(at(rec, o.Initials)),
			Email:        ext.UnicodeString(o.EmailTag),
			Notes:        s.notes(heapString(ext, o.NotesTag)),
			MaxUnits:     float64(codec.Int32(rec, o.MaxUnits)) / 100,
			StandardRate: codec.Double(rec, o.StandardRate),
		}
		if cal := s.project.CalendarByUniqueID(int(codec.Int32(rec, o.Calendar))); cal != nil && !cal.IsBase() {
			cal.ResourceUniqueID = uid
			r.Calendar = cal
		}
		s.project.AddResource(r)
	}
	return nil
}

// taskDeleted8 tells deleted task records apart from live ones, whose flag
// word is not a simple boolean.
func taskDeleted8(flags uint16) bool {
	return flags&0xC0 == 0 && flags&0x03 != 0 && flags != 0x0031 && flags != 0x203D
}

func (s *session) readTasks8() error {
	t, err := s.loadTable8(s.projectDir, "TBkndTask", true)
	if err != nil {
		return err
	}
	o := taskOffsets8
	decision := store.DetectRecordSize(len(t.data), nil, o.RecordSizes...)
	s.log.Debug("Task record size selected", "size", decision.Size, "confidence", decision.Confidence.String())
	data := s.countFixed(t.records(decision.Size))

	for i := 0; i < data.ItemCount(); i++ {
		rec, _ := data.Record(i)
		uid := int(codec.Int32(rec, o.UniqueID))
		if uid < 1 || taskDeleted8(codec.Uint16(rec, o.Deleted)) || rec[o.BlankRow]&0x01 != 0 {
			continue
		}

		if s.project.TaskByUniqueID(uid) != nil {
			s.absorb("task", uid, "duplicate unique id")
			continue
		}

		ext := store.NewExtendedData(t.heap, at(rec, o.Extended))
		unitsCode := int(codec.Uint16(rec, o.DurationUnits))
		units := codec.DurationUnits(unitsCode, schedule.Days)
		task := &schedule.Task{
			UniqueID:        uid,
			ID:              int(codec.Int32(rec, o.ID)),
			Name:            t.heap.UnicodeString(at(rec, o.Name)),
			WBS:             ext.UnicodeString(o.WBSTag),
			Notes:           s.notes(heapString(ext, o.NotesTag)),
			OutlineLevel:    int(codec.Uint16(rec, o.OutlineLevel)),
			Start:           codec.Timestamp(rec, o.Start, s.loc),
			Finish:          codec.Timestamp(rec, o.Finish, s.loc),
			Duration:        codec.AdjustedDuration(int(codec.Int32(rec, o.Duration)), units, s.durations),
			Work:            &schedule.Duration{Value: float64(codec.Int48(rec, o.Work)) / 100, Units: schedule.Hours},
			Cost:            float64(codec.Int48(rec, o.Cost)) / 100,
			PercentComplete: codec.Percentage(rec, o.PercentComplete),
			Priority:        (int(codec.Uint16(rec, o.Priority)) + 1) * 100,
			Type:            schedule.TaskTypeFromCode(int(codec.Uint16(rec, o.Type))),
			Milestone:       rec[o.Milestone]&0x01 != 0,
			Estimated:       codec.DurationEstimated(unitsCode),
			ConstraintType:  schedule.ConstraintTypeFromCode(int(codec.Uint16(rec, o.ConstraintType))),
			ConstraintDate:  codec.Timestamp(rec, o.ConstraintDate, s.loc),
		}
		s.project.AddTask(task)
	}
	s.project.SortTasks()
	return nil
}

func (s *session) readRelations8() error {
	t, err := s.loadTable8(s.projectDir, "TBkndCons", false)
	if err != nil {
		s.log.Debug("No relations found", "path", s.projectDir.join("TBkndCons"))
		return nil
	}
	o := relationOffsets8
	data := s.countFixed(t.records(o.RecordSize))
	for i := 0; i < data.ItemCount(); i++ {
		rec, _ := data.Record(i)
		if codec.Int32(rec, o.Deleted) != 0 {
			continue
		}
		units := codec.DurationUnits(int(codec.Uint16(rec, o.LagUnits)), schedule.Days)
		s.addRelation(&schedule.Relation{
			UniqueID:            int(codec.Int32(rec, o.UniqueID)),
			PredecessorUniqueID: int(codec.Int32(rec, o.Predecessor)),
			SuccessorUniqueID:   int(codec.Int32(rec, o.Successor)),
			Type:                schedule.RelationTypeFromCode(int(codec.Uint16(rec, o.Type))),
			Lag:                 schedule.Duration{Value: codec.Duration(float64(codec.Int32(rec, o.Lag)), units), Units: units},
		})
	}
	return nil
}

func (s *session) readAssignments8() error {
	t, err := s.loadTable8(s.projectDir, "TBkndAssn", false)
	if err != nil {
		return err
	}
	o := assignmentOffsets8

	// Both record sizes may divide the table; the right one yields records
	// pointing to known tasks or resources.
	referencesKnown := func(size int) bool {
		data := t.records(size)
		for i := 0; i < data.ItemCount(); i++ {
			rec, _ := data.Record(i)
			task := s.project.TaskByUniqueID(int(codec.Int32(rec, o.Task)))
			resource := s.project.ResourceByUniqueID(int(codec.Int32(rec, o.Resource)))
			if task == nil && resource == nil {
				return false
			}
		}
		return true
	}
	decision := store.DetectRecordSize(len(t.data), referencesKnown, o.RecordSizes...)
	s.log.Debug("Assignment record size selected", "size", decision.Size, "confidence", decision.Confidence.String())
	data := s.countFixed(t.records(decision.Size))

	for i := 0; i < data.ItemCount(); i++ {
		rec, _ := data.Record(i)
		s.addAssignment(&schedule.Assignment{
			UniqueID:         int(codec.Int32(rec, o.UniqueID)),
			TaskUniqueID:     int(codec.Int32(rec, o.Task)),
			ResourceUniqueID: int(codec.Int32(rec, o.Resource)),
			Start:            codec.Timestamp(rec, o.Start, s.loc),
			Finish:           codec.Timestamp(rec, o.Finish, s.loc),
			Units:            float64(codec.Uint16(rec, o.Units)) / 100,
			Work:             &schedule.Duration{Value: float64(codec.Int48(rec, o.Work)) / 100, Units: schedule.Hours},
		})
	}
	return nil
}

// readPresentation8 only recovers table names, the other presentation items
// of the generation carry no name of their own.
func (s *session) readPresentation8() error {
	if s.viewDir.Directory == nil {
		return nil
	}
	t, err := s.loadTable8(s.viewDir, "CTable", false)
	if err != nil {
		s.log.Debug("Presentation directory not found", "path", s.viewDir.join("CTable"))
		return nil
	}
	data := t.records(tableOffsets8.RecordSize)
	for i := 0; i < data.ItemCount(); i++ {
		rec, _ := data.Record(i)
		if name := codec.UnicodeString(rec, tableOffsets8.Name, -1); name != "" {
			s.project.Tables = append(s.project.Tables, name)
		}
	}
	return nil
}
