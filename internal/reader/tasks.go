package reader

import (
	"math"
	"slices"

	"github.com/heyvito/mpp/internal/codec"
	"github.com/heyvito/mpp/internal/resolve"
	"github.com/heyvito/mpp/internal/store"
	"github.com/heyvito/mpp/schedule"
)

// noTaskCalendar is stored by tasks using the project calendar.
const noTaskCalendar = -1

// taskTable is the decoded TBkndTask directory.
type taskTable struct {
	dir     region
	meta    *store.FixedMeta
	data    *store.FixedData
	varData *store.VarData
	ids     *resolve.IDMap
}

func (s *session) loadTaskTable() (*taskTable, error) {
	dir, err := s.projectDir.sub("TBkndTask")
	if err != nil {
		return nil, err
	}
	varData, err := s.varStore(dir)
	if err != nil {
		return nil, err
	}
	f := s.gen.Tasks
	meta, err := s.fixedMeta(dir, "FixedMeta", f.MetaItemSize)
	if err != nil {
		return nil, err
	}
	buf, err := s.encryptable(dir, "FixedData")
	if err != nil {
		return nil, err
	}
	data := s.countFixed(store.NewFixedData(meta, buf, store.FixedDataLimits{MaxSize: f.MaxSize, MinSize: f.MinSize}))

	layout := f.Map
	if f.DerivedMaxSize {
		layout.MaxSize = largestRecord(data)
	}
	return &taskTable{
		dir:     dir,
		meta:    meta,
		data:    data,
		varData: varData,
		ids:     resolve.TaskMap(meta, data, layout),
	}, nil
}

func largestRecord(data *store.FixedData) int {
	size := 0
	for i := 0; i < data.ItemCount(); i++ {
		if rec, ok := data.Record(i); ok {
			size = max(size, len(rec))
		}
	}
	return size
}

func (s *session) readTasks() error {
	t, err := s.loadTaskTable()
	if err != nil {
		return err
	}
	f := s.gen.Tasks

	byID := map[int]*schedule.Task{}
	// index keeps the fixed record index of each task, read again when
	// rebuilding display IDs.
	index := map[*schedule.Task]int{}

	for _, uid := range t.ids.UniqueIDs() {
		idx, _ := t.ids.Index(uid)
		rec, ok := t.data.Record(idx)
		if !ok {
			continue
		}

		if len(rec) == f.Map.NullBlockSize {
			task := &schedule.Task{UniqueID: uid, Null: true, ID: s.nullTaskID(rec)}
			s.highestNullTaskID = max(s.highestNullTaskID, task.ID)
			s.project.AddTask(task)
			byID[task.ID] = task
			index[task] = idx
			continue
		}
		if len(rec) < f.MinSize {
			s.absorb("task", uid, "record too short")
			continue
		}
		rec = pad(rec, f.span())

		id := int(codec.Int32(rec, f.ID))
		if existing := byID[id]; existing != nil {
			if !t.varData.Meta().Contains(uid) {
				s.absorb("task", uid, "phantom task sharing a display id")
				continue
			}
			if existing.Name == "" {
				s.project.RemoveTask(existing)
				delete(index, existing)
			}
		}

		metaRec, _ := t.meta.Record(idx)
		task := s.decodeTask(uid, rec, pad(metaRec, f.MetaItemSize), t.varData)
		s.project.AddTask(task)
		byID[id] = task
		index[task] = idx
	}

	if f.SortKeys {
		return s.renumberTasks(t, index)
	}
	s.validateTaskIDs()
	s.project.SortTasks()
	return nil
}

// span returns the record length covering every fixed field.
func (f taskFields) span() int {
	return max(f.MinSize, f.Cost+8)
}

func (s *session) nullTaskID(rec []byte) int {
	f := s.gen.Tasks
	if f.NullTaskIDIsShort {
		return int(codec.Uint16(rec, f.NullTaskIDOffset))
	}
	return int(codec.Int32(rec, f.NullTaskIDOffset))
}

func (s *session) decodeTask(uid int, rec, metaRec []byte, varData *store.VarData) *schedule.Task {
	f := s.gen.Tasks
	unitsCode := int(codec.Uint16(rec, f.DurationUnits))
	units := codec.DurationUnits(unitsCode, schedule.Days)

	task := &schedule.Task{
		UniqueID:        uid,
		ID:              int(codec.Int32(rec, f.ID)),
		Name:            varData.UnicodeString(uid, f.NameTag),
		WBS:             varData.UnicodeString(uid, f.WBSTag),
		Notes:           s.notes(varData.String(uid, f.NotesTag)),
		OutlineLevel:    int(codec.Uint16(rec, f.OutlineLevel)),
		Start:           codec.Timestamp(rec, f.Start, s.loc),
		Finish:          codec.Timestamp(rec, f.Finish, s.loc),
		Duration:        codec.AdjustedDuration(int(codec.Int32(rec, f.Duration)), units, s.durations),
		Work:            &schedule.Duration{Value: codec.Double(rec, f.Work) / 60000, Units: schedule.Hours},
		Cost:            codec.Double(rec, f.Cost) / 100,
		PercentComplete: codec.Percentage(rec, f.PercentComplete),
		Priority:        int(codec.Int16(rec, f.Priority)),
		Type:            schedule.TaskTypeFromCode(int(codec.Uint16(rec, f.Type))),
		Milestone:       metaRec[f.MilestoneMetaOffset]&f.MilestoneMetaMask != 0,
		Estimated:       codec.DurationEstimated(unitsCode),
		ConstraintType:  schedule.ConstraintTypeFromCode(int(codec.Uint16(rec, f.ConstraintType))),
		ConstraintDate:  codec.Timestamp(rec, f.ConstraintDate, s.loc),
	}

	if metaRec[f.SplitMetaOffset]&f.SplitMetaMask == 0 {
		task.Splits = []schedule.SplitSegment{}
	}

	if calID := int(codec.Int32(rec, f.Calendar)); calID != noTaskCalendar {
		task.Calendar = s.project.CalendarByUniqueID(calID)
	}

	if sp := s.subProjects.ByTask[uid]; sp != nil {
		task.SubProject = sp
		if sp.IsExternalTask(uid) {
			task.External = true
			task.ExternalProject = sp.FullPath
			task.SubProjectTaskUniqueID = varData.Int32(uid, f.SubProjectTaskUniqueIDTag)
		}
	}

	// Rows without a name nor dates are blank rows stored as full records.
	if task.Name == "" && (task.Start == nil || task.Finish == nil) {
		task.Null = true
	}
	return task
}

// validateTaskIDs marks as blank rows the tasks whose display ID leaves a gap
// that no blank row accounts for, as display IDs are contiguous.
func (s *session) validateTaskIDs() {
	if len(s.project.Tasks) < 2 {
		return
	}
	s.project.SortTasks()
	last := -1
	for _, task := range s.project.Tasks {
		if task.Null {
			continue
		}
		if last != -1 && task.ID > last+1 && task.ID > s.highestNullTaskID+1 {
			s.absorb("task", task.UniqueID, "display id out of sequence")
			task.Null = true
			continue
		}
		last = task.ID
	}
}

// renumberTasks rebuilds display IDs from the sort keys held by the
// Fixed2Data table.
func (s *session) renumberTasks(t *taskTable, index map[*schedule.Task]int) error {
	f := s.gen.Tasks
	buf, err := s.encryptable(t.dir, "Fixed2Data")
	if err != nil {
		return err
	}
	metaBuf, err := t.dir.stream("Fixed2Meta")
	if err != nil {
		return err
	}
	meta, decision, err := store.NewFixedMetaDetected(metaBuf, t.meta.ItemCount(), f.Fixed2MetaSizes...)
	if err != nil {
		return corrupt(t.dir.join("Fixed2Meta"), err)
	}
	s.log.Debug("Fixed2Meta item size selected", "size", decision.Size, "confidence", decision.Confidence.String())
	data := s.countFixed(store.NewFixedData(meta, buf, store.FixedDataLimits{}))

	type keyed struct {
		uid int
		key int64
	}
	var ordered []keyed
	// unkeyed holds one task per display ID among those without a sort key.
	unkeyed := map[int]*schedule.Task{}
	duplicates := map[int]bool{}
	displace := func(task *schedule.Task) {
		if task.Null {
			duplicates[task.UniqueID] = true
			return
		}
		ordered = append(ordered, keyed{uid: task.UniqueID, key: math.MaxInt64})
	}
	hasZero := false
	for _, task := range s.project.Tasks {
		if task.UniqueID == 0 {
			hasZero = true
		}
		rec, ok := data.Record(index[task])
		if task.Null || !ok || len(rec) < f.SortKeyMinimumSize {
			prev, dup := unkeyed[task.ID]
			switch {
			case !dup:
				unkeyed[task.ID] = task
			case prev.Null || !task.Null:
				// The last row listed under a display ID wins, unless it is
				// blank and the earlier one is not.
				unkeyed[task.ID] = task
				displace(prev)
			default:
				displace(task)
			}
			continue
		}
		ordered = append(ordered, keyed{uid: task.UniqueID, key: codec.Int64(rec, f.SortKeyOffset)})
	}
	nulls := make([]resolve.NullTask, 0, len(unkeyed))
	for id, task := range unkeyed {
		nulls = append(nulls, resolve.NullTask{ID: id, UniqueID: task.UniqueID})
	}
	slices.SortStableFunc(ordered, func(a, b keyed) int {
		switch {
		case a.key < b.key:
			return -1
		case a.key > b.key:
			return 1
		}
		return 0
	})

	uids := make([]int, len(ordered))
	for i, k := range ordered {
		uids[i] = k.uid
	}
	ids := resolve.Renumber(uids, nulls, hasZero)
	for _, task := range slices.Clone(s.project.Tasks) {
		id, ok := ids[task.UniqueID]
		if !ok {
			reason := "blank row cannot be placed"
			if duplicates[task.UniqueID] {
				reason = "duplicate blank row"
			}
			s.absorb("task", task.UniqueID, reason)
			s.project.RemoveTask(task)
			continue
		}
		task.ID = id
	}
	s.project.SortTasks()
	return nil
}
