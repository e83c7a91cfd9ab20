package reader

import (
	"github.com/heyvito/mpp/internal/codec"
	"github.com/heyvito/mpp/internal/store"
	"github.com/heyvito/mpp/schedule"
)

// readRelations decodes the task dependencies. The directory is optional:
// files without any dependency do not carry it.
func (s *session) readRelations() error {
	dir, err := s.projectDir.sub("TBkndCons")
	if err != nil {
		s.log.Debug("No relations found", "path", s.projectDir.join("TBkndCons"))
		return nil
	}
	f := s.gen.Relations
	meta, err := s.fixedMeta(dir, "FixedMeta", f.MetaItemSize)
	if err != nil {
		return err
	}
	buf, err := s.encryptable(dir, "FixedData")
	if err != nil {
		return err
	}
	data := s.countFixed(store.NewFixedDataSized(meta, buf, f.RecordSize))

	last := -1
	for i := 0; i < meta.ItemCount(); i++ {
		metaRec, _ := meta.Record(i)
		if len(metaRec) < 8 || codec.Uint16(metaRec, 0) != 0 {
			continue
		}
		idx := data.IndexFromOffset(int(codec.Int32(metaRec, 4)))
		rec, ok := data.Record(idx)
		if !ok || len(rec) < f.RecordSize {
			continue
		}

		uid := int(codec.Int32(rec, f.UniqueID))
		if uid <= last {
			continue
		}
		last = uid

		rel := &schedule.Relation{
			UniqueID:            uid,
			PredecessorUniqueID: int(codec.Int32(rec, f.Predecessor)),
			SuccessorUniqueID:   int(codec.Int32(rec, f.Successor)),
			Type:                schedule.RelationTypeFromCode(int(codec.Uint16(rec, f.Type))),
		}
		units := codec.DurationUnits(int(codec.Uint16(rec, f.LagUnits)), schedule.Days)
		if lag := codec.AdjustedDuration(int(codec.Int32(rec, f.Lag)), units, s.durations); lag != nil {
			rel.Lag = *lag
		} else {
			rel.Lag = schedule.Duration{Units: units}
		}
		s.addRelation(rel)
	}
	return nil
}

// addRelation keeps relations linking two distinct, known tasks.
func (s *session) addRelation(rel *schedule.Relation) {
	switch {
	case rel.PredecessorUniqueID == rel.SuccessorUniqueID:
		s.absorb("relation", rel.UniqueID, "task depends on itself")
	case s.project.TaskByUniqueID(rel.PredecessorUniqueID) == nil:
		s.absorb("relation", rel.UniqueID, "unknown predecessor")
	case s.project.TaskByUniqueID(rel.SuccessorUniqueID) == nil:
		s.absorb("relation", rel.UniqueID, "unknown successor")
	default:
		s.project.AddRelation(rel)
	}
}
