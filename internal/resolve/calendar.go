package resolve

import (
	"time"

	"github.com/heyvito/mpp/internal"
	"github.com/heyvito/mpp/internal/codec"
	"github.com/heyvito/mpp/schedule"
)

// CalendarLinker defers the resolution of base calendar links until every
// calendar of a file has been seen, as a derived calendar may be stored
// before its base.
type CalendarLinker struct {
	project *schedule.Project
	pending []*schedule.Calendar
}

func NewCalendarLinker(project *schedule.Project) *CalendarLinker {
	return &CalendarLinker{project: project}
}

// IsBaseID returns whether the stored base ID of a calendar designates no
// base at all.
func IsBaseID(uid, baseID int) bool {
	return baseID == 0 || baseID == -1 || baseID == uid
}

// Add registers cal with the project. Unless baseID designates no base, the
// link is recorded and resolved by Resolve. Add returns false and leaves the
// project untouched when a calendar with the same unique ID was already
// added.
func (l *CalendarLinker) Add(cal *schedule.Calendar, baseID int) bool {
	if l.project.CalendarByUniqueID(cal.UniqueID) != nil {
		return false
	}
	l.project.AddCalendar(cal)
	if !IsBaseID(cal.UniqueID, baseID) {
		cal.BaseUniqueID = baseID
		l.pending = append(l.pending, cal)
	}
	return true
}

// Resolve links every pending calendar to its base. Calendars whose base chain
// does not end at a base calendar of the project (a missing base or a cycle)
// are removed from the project and returned.
func (l *CalendarLinker) Resolve() []*schedule.Calendar {
	derived := make(map[*schedule.Calendar]bool, len(l.pending))
	for _, cal := range l.pending {
		derived[cal] = true
		cal.Base = l.project.CalendarByUniqueID(cal.BaseUniqueID)
	}

	const (
		unknown = iota
		visiting
		valid
		invalid
	)
	state := map[*schedule.Calendar]int{}
	var check func(c *schedule.Calendar) bool
	check = func(c *schedule.Calendar) bool {
		switch state[c] {
		case visiting, invalid:
			return false
		case valid:
			return true
		}
		if !derived[c] {
			state[c] = valid
			return true
		}
		state[c] = visiting
		ok := c.Base != nil && check(c.Base)
		if ok {
			state[c] = valid
		} else {
			state[c] = invalid
		}
		return ok
	}

	var removed []*schedule.Calendar
	for _, cal := range l.pending {
		if !check(cal) {
			removed = append(removed, cal)
		}
	}
	for _, cal := range removed {
		cal.Base = nil
		l.project.RemoveCalendar(cal)
	}
	l.pending = nil
	return removed
}

// WeekLayout locates the seven day blocks of a calendar blob.
type WeekLayout struct {
	FirstBlock      int
	BlockSize       int
	StartsOffset    int
	DurationsOffset int
	MaxPeriods      int
}

var (
	WeekLayout8 = WeekLayout{FirstBlock: 4, BlockSize: 40, StartsOffset: 8, DurationsOffset: 16, MaxPeriods: 4}
	WeekLayout9 = WeekLayout{FirstBlock: 4, BlockSize: 60, StartsOffset: 8, DurationsOffset: 20, MaxPeriods: 5}
)

// defaultDayFlag marks a day block that carries no pattern of its own.
const defaultDayFlag = 1

// DefaultWeek returns the application's standard week: Monday to Friday,
// 08:00 to 12:00 and 13:00 to 17:00.
func DefaultWeek() [7]schedule.CalendarDay {
	var week [7]schedule.CalendarDay
	for d := range week {
		if d == int(time.Sunday) || d == int(time.Saturday) {
			week[d] = schedule.CalendarDay{Working: schedule.DayNonWorking}
			continue
		}
		week[d] = schedule.CalendarDay{
			Working: schedule.DayWorkingTime,
			Ranges: []schedule.TimeRange{
				{Start: 8 * time.Hour, End: 12 * time.Hour},
				{Start: 13 * time.Hour, End: 17 * time.Hour},
			},
		}
	}
	return week
}

// DecodeWeek reads the seven day blocks of a calendar blob, Sunday first.
// Days flagged as default take their pattern from inherit; when inherit is
// nil they are marked DayDefault, deferring to the base calendar. A nil blob
// yields a week of default days. The second return value is false when the
// blob is too short to hold the week.
func DecodeWeek(blob []byte, layout WeekLayout, inherit *[7]schedule.CalendarDay) ([7]schedule.CalendarDay, bool) {
	var week [7]schedule.CalendarDay
	if blob != nil && !codec.Within(blob, layout.FirstBlock, layout.BlockSize*7) {
		return week, false
	}

	for d := range week {
		off := layout.FirstBlock + d*layout.BlockSize
		if blob == nil || codec.Uint16(blob, off) == defaultDayFlag {
			if inherit == nil {
				week[d] = schedule.CalendarDay{Working: schedule.DayDefault}
			} else {
				week[d] = cloneDay(inherit[d])
			}
			continue
		}

		count := min(int(codec.Uint16(blob, off+2)), layout.MaxPeriods)
		if count == 0 {
			week[d] = schedule.CalendarDay{Working: schedule.DayNonWorking}
			continue
		}

		day := schedule.CalendarDay{Working: schedule.DayWorkingTime}
		for p := 0; p < count; p++ {
			start := codec.Time(blob, off+layout.StartsOffset+p*2)
			length := codec.CalendarDuration(blob, off+layout.DurationsOffset+p*4)
			day.Ranges = append(day.Ranges, schedule.TimeRange{Start: start, End: start + length})
		}
		week[d] = day
	}
	return week, true
}

func cloneDay(d schedule.CalendarDay) schedule.CalendarDay {
	if d.Ranges != nil {
		d.Ranges = append([]schedule.TimeRange(nil), d.Ranges...)
	}
	return d
}

// ExceptionLayout locates the exception blocks following the week of a
// calendar blob.
type ExceptionLayout struct {
	CountOffset     int
	FirstBlock      int
	BlockSize       int
	PeriodCount     int
	StartsOffset    int
	DurationsOffset int
	MaxPeriods      int
	// OccurrencesOffset is zero when the generation stores no occurrence
	// count.
	OccurrencesOffset int
	// Named generations follow each block with a length at NameLengthOffset
	// and a name of that many bytes, padded to four bytes.
	Named            bool
	NameLengthOffset int
}

var (
	ExceptionLayout8 = ExceptionLayout{
		CountOffset: 0, FirstBlock: 284, BlockSize: 44,
		PeriodCount: 6, StartsOffset: 12, DurationsOffset: 20, MaxPeriods: 4,
	}
	ExceptionLayout9 = ExceptionLayout{
		CountOffset: 0, FirstBlock: 424, BlockSize: 64,
		PeriodCount: 6, StartsOffset: 12, DurationsOffset: 24, MaxPeriods: 5,
	}
	ExceptionLayout12 = ExceptionLayout{
		CountOffset: 420, FirstBlock: 424, BlockSize: 92,
		PeriodCount: 14, StartsOffset: 20, DurationsOffset: 32, MaxPeriods: 5,
		OccurrencesOffset: 4, Named: true, NameLengthOffset: 88,
	}
)

// DecodeExceptions reads the exceptions of a calendar blob. Decoding stops at
// the first block that does not fit the blob. Exceptions without a valid date
// range are left out, and their block positions returned in skipped.
func DecodeExceptions(blob []byte, layout ExceptionLayout, loc *time.Location) (out []schedule.CalendarException, skipped []int) {
	if !codec.Within(blob, layout.CountOffset, 2) {
		return nil, nil
	}
	count := int(codec.Uint16(blob, layout.CountOffset))

	off := layout.FirstBlock
	for i := 0; i < count; i++ {
		if !codec.Within(blob, off, layout.BlockSize) {
			break
		}
		from := codec.Date(blob, off, loc)
		to := codec.Date(blob, off+2, loc)

		exc := schedule.CalendarException{}
		periods := min(int(codec.Uint16(blob, off+layout.PeriodCount)), layout.MaxPeriods)
		for p := 0; p < periods; p++ {
			start := codec.Time(blob, off+layout.StartsOffset+p*2)
			length := codec.CalendarDuration(blob, off+layout.DurationsOffset+p*4)
			exc.Ranges = append(exc.Ranges, schedule.TimeRange{Start: start, End: start + length})
		}
		if layout.OccurrencesOffset != 0 {
			exc.Occurrences = int(codec.Uint16(blob, off+layout.OccurrencesOffset))
		}

		next := off + layout.BlockSize
		if layout.Named {
			nameLength := int(codec.Int32(blob, off+layout.NameLengthOffset))
			if nameLength < 0 {
				break
			}
			nameLength = internal.NextMultiple(nameLength, 4)
			if nameLength != 0 {
				exc.Name = codec.UnicodeString(blob, next, nameLength)
			}
			next += nameLength
		}
		off = next

		if from == nil || to == nil {
			skipped = append(skipped, i)
			continue
		}
		exc.From, exc.To = *from, *to
		out = append(out, exc)
	}
	return out, skipped
}
