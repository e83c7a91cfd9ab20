package reader

import (
	"github.com/heyvito/mpp/internal/codec"
	"github.com/heyvito/mpp/internal/resolve"
	"github.com/heyvito/mpp/internal/store"
	"github.com/heyvito/mpp/schedule"
)

// noBaseCalendar is the base unique ID stored by base calendars.
const noBaseCalendar = -1

func (s *session) readCalendars() error {
	dir, err := s.projectDir.sub("TBkndCal")
	if err != nil {
		return err
	}
	varData, err := s.varStore(dir)
	if err != nil {
		return err
	}
	f := s.gen.Calendars
	meta, err := s.fixedMeta(dir, "FixedMeta", f.MetaItemSize)
	if err != nil {
		return err
	}
	buf, err := s.encryptable(dir, "FixedData")
	if err != nil {
		return err
	}
	data := s.countFixed(store.NewFixedData(meta, buf, store.FixedDataLimits{MaxSize: f.EntrySize}))

	defaultHours, _ := s.projectProps.Bytes(propDefaultCalendarHours)
	linker := resolve.NewCalendarLinker(s.project)

	for i := 0; i < data.ItemCount(); i++ {
		rec, ok := data.Record(i)
		if !ok || len(rec) < 8 {
			continue
		}
		for off := 0; off+f.EntrySize <= len(rec); off += f.EntrySize {
			entry := rec[off : off+f.EntrySize]
			uid := int(codec.Int32(entry, f.UniqueID))
			baseID := int(codec.Int32(entry, f.BaseUniqueID))
			if uid <= 0 {
				continue
			}
			if s.project.CalendarByUniqueID(uid) != nil {
				s.absorb("calendar", uid, "duplicate unique id")
				continue
			}

			blob, hasBlob := varData.Bytes(uid, f.DataTag)
			cal := &schedule.Calendar{UniqueID: uid}
			base := resolve.IsBaseID(uid, baseID)
			if base {
				cal.Name = varData.UnicodeString(uid, f.NameTag)
				if !hasBlob && defaultHours != nil {
					blob, hasBlob = defaultHours, true
				}
				if !hasBlob {
					cal.Days = resolve.DefaultWeek()
				}
			} else {
				cal.ResourceUniqueID = int(codec.Int32(entry, f.ResourceUniqueID))
			}

			if !s.decodeCalendarBlob(cal, blob, base) {
				s.absorb("calendar", uid, "truncated working week")
				continue
			}
			linker.Add(cal, baseID)
			if cal.ResourceUniqueID != 0 {
				s.resourceCalendars[cal.ResourceUniqueID] = cal
			}
		}
	}

	s.linkCalendars(linker)
	return nil
}

// decodeCalendarBlob fills the week and exceptions of cal. Base calendars
// fill unspecified days from the default week, derived ones defer them to
// their base. A nil blob only sets derived calendars to defer every day.
func (s *session) decodeCalendarBlob(cal *schedule.Calendar, blob []byte, base bool) bool {
	if blob == nil && base {
		return true
	}
	var inherit *[7]schedule.CalendarDay
	if base {
		week := resolve.DefaultWeek()
		inherit = &week
	}
	week, ok := resolve.DecodeWeek(blob, s.weekLayout(), inherit)
	if !ok {
		return false
	}
	cal.Days = week
	if blob != nil {
		var skipped []int
		cal.Exceptions, skipped = resolve.DecodeExceptions(blob, s.exceptionLayout(), s.loc)
		for _, i := range skipped {
			s.log.Debug("Ignoring calendar exception without a date range", "calendar_unique_id", cal.UniqueID, "exception", i)
		}
	}
	return true
}

func (s *session) weekLayout() resolve.WeekLayout {
	if s.gen == nil {
		return resolve.WeekLayout8
	}
	return s.gen.Week
}

func (s *session) exceptionLayout() resolve.ExceptionLayout {
	if s.gen == nil {
		return resolve.ExceptionLayout8
	}
	return s.gen.Exceptions
}

// linkCalendars runs the second calendar pass and selects the project
// default calendar.
func (s *session) linkCalendars(linker *resolve.CalendarLinker) {
	for _, cal := range linker.Resolve() {
		s.absorb("calendar", cal.UniqueID, "base calendar not found")
		if s.resourceCalendars[cal.ResourceUniqueID] == cal {
			delete(s.resourceCalendars, cal.ResourceUniqueID)
		}
	}

	name := s.cfg.GetCalendarName()
	if name == "" {
		name = s.project.Properties.DefaultCalendarName
	}
	s.project.DefaultCalendar = s.project.CalendarByName(name)
	if s.project.DefaultCalendar != nil {
		return
	}
	for _, cal := range s.project.Calendars {
		if cal.IsBase() {
			s.project.DefaultCalendar = cal
			return
		}
	}
}
