package reader

import (
	"github.com/heyvito/mpp/internal/codec"
	"github.com/heyvito/mpp/internal/resolve"
	"github.com/heyvito/mpp/internal/store"
	"github.com/heyvito/mpp/schedule"
)

// assignmentDeletedFlag is set on the meta item of deleted assignments.
const assignmentDeletedFlag = 0x02

func (s *session) readAssignments() error {
	dir, err := s.projectDir.sub("TBkndAssn")
	if err != nil {
		return err
	}
	varData, err := s.varStore(dir)
	if err != nil {
		return err
	}
	f := s.gen.Assignments
	meta, err := s.fixedMeta(dir, "FixedMeta", f.MetaItemSize)
	if err != nil {
		return err
	}
	buf, err := s.encryptable(dir, "FixedData")
	if err != nil {
		return err
	}
	data := s.countFixed(store.NewFixedDataUniform(buf, f.RecordSize, false))

	count := min(meta.ItemCount(), data.ItemCount())
	for i := 0; i < count; i++ {
		if meta.Flags(i)&assignmentDeletedFlag != 0 {
			continue
		}
		rec, ok := data.Record(i)
		if !ok {
			continue
		}

		a := &schedule.Assignment{
			UniqueID:         int(codec.Int32(rec, f.UniqueID)),
			TaskUniqueID:     int(codec.Int32(rec, f.Task)),
			ResourceUniqueID: int(codec.Int32(rec, f.Resource)),
			Start:            codec.Timestamp(rec, f.Start, s.loc),
			Finish:           codec.Timestamp(rec, f.Finish, s.loc),
			Units:            codec.Double(rec, f.Units) / 100,
			Work:             &schedule.Duration{Value: codec.Double(rec, f.Work) / 60000, Units: schedule.Hours},
		}
		if !s.addAssignment(a) {
			continue
		}

		if a.Task.Splits != nil && len(a.Task.Splits) == 0 {
			completed, _ := varData.Bytes(a.UniqueID, f.CompletedWorkTag)
			incomplete, _ := varData.Bytes(a.UniqueID, f.IncompleteWorkTag)
			if splits := resolve.Splits(completed, incomplete); splits != nil {
				a.Task.Splits = splits
			}
		}
	}
	return nil
}

// addAssignment links a to its task and resource, keeping it only when both
// are known.
func (s *session) addAssignment(a *schedule.Assignment) bool {
	a.Task = s.project.TaskByUniqueID(a.TaskUniqueID)
	a.Resource = s.project.ResourceByUniqueID(a.ResourceUniqueID)
	switch {
	case a.Task == nil:
		s.absorb("assignment", a.UniqueID, "unknown task")
		return false
	case a.Resource == nil:
		s.absorb("assignment", a.UniqueID, "unknown resource")
		return false
	}
	s.project.AddAssignment(a)
	return true
}
