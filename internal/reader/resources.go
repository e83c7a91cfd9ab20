package reader

import (
	"github.com/heyvito/mpp/internal/codec"
	"github.com/heyvito/mpp/internal/resolve"
	"github.com/heyvito/mpp/internal/store"
	"github.com/heyvito/mpp/schedule"
)

func (s *session) readResources() error {
	dir, err := s.projectDir.sub("TBkndRsc")
	if err != nil {
		return err
	}
	varData, err := s.varStore(dir)
	if err != nil {
		return err
	}
	f := s.gen.Resources
	meta, err := s.fixedMeta(dir, "FixedMeta", f.MetaItemSize)
	if err != nil {
		return err
	}
	buf, err := s.encryptable(dir, "FixedData")
	if err != nil {
		return err
	}
	data := s.countFixed(store.NewFixedData(meta, buf, store.FixedDataLimits{}))

	ids := resolve.ResourceMap(meta, data, f.MinSize)
	for _, uid := range ids.UniqueIDs() {
		idx, _ := ids.Index(uid)
		rec, ok := data.Record(idx)
		if !ok {
			continue
		}
		rec = pad(rec, f.MinSize)

		r := &schedule.Resource{
			UniqueID:     uid,
			ID:           int(codec.Int32(rec, f.ID)),
			Name:         varData.UnicodeString(uid, f.NameTag),
			Initials:     varData.UnicodeString(uid, f.InitialsTag),
			Email:        varData.UnicodeString(uid, f.EmailTag),
			Notes:        s.notes(varData.String(uid, f.NotesTag)),
			MaxUnits:     codec.Double(rec, f.MaxUnits) / 100,
			StandardRate: codec.Double(rec, f.StandardRate),
		}
		s.attachResourceCalendar(r)
		s.project.AddResource(r)
	}
	return nil
}

func (s *session) attachResourceCalendar(r *schedule.Resource) {
	if cal := s.resourceCalendars[r.UniqueID]; cal != nil && s.project.CalendarByUniqueID(cal.UniqueID) == cal {
		r.Calendar = cal
	}
}
