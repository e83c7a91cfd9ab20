package resolve

import (
	"time"

	"github.com/heyvito/mpp/internal/codec"
	"github.com/heyvito/mpp/schedule"
)

// splitLayout locates the work entries of a timephased work region.
type splitLayout struct {
	firstEntry int
	entrySize  int
}

var (
	completedSplits  = splitLayout{firstEntry: 32, entrySize: 20}
	incompleteSplits = splitLayout{firstEntry: 44, entrySize: 28}
)

var splitOffsets = struct {
	Count          uint8
	Finish         uint8
	EntryStart     uint8
	EntryWorkDay   uint8
	TicksPerMinute uint8
}{
	Count:          0,
	Finish:         24,
	EntryStart:     0,
	EntryWorkDay:   12,
	TicksPerMinute: 80,
}

// minSplitSegments is the shortest segment list describing a split task: a
// work range, a gap and another work range.
const minSplitSegments = 3

func splitTicks(b []byte, off int) time.Duration {
	ticks := int64(codec.Int32(b, off))
	return time.Duration(ticks) * time.Minute / time.Duration(splitOffsets.TicksPerMinute)
}

// readSplitRegion appends the segments of one region, whose entry offsets
// are relative to base, and returns the region finish.
func readSplitRegion(out []schedule.SplitSegment, data []byte, layout splitLayout, base time.Duration) ([]schedule.SplitSegment, time.Duration, bool) {
	if !codec.Within(data, 0, int(splitOffsets.Finish)+4) {
		return out, base, false
	}
	count := int(codec.Uint16(data, int(splitOffsets.Count)))
	finish := base + splitTicks(data, int(splitOffsets.Finish))

	var entries []schedule.SplitSegment
	for i := 0; i < count; i++ {
		off := layout.firstEntry + i*layout.entrySize
		if !codec.Within(data, off, layout.entrySize) {
			break
		}
		entries = append(entries, schedule.SplitSegment{
			Start: base + splitTicks(data, off+int(splitOffsets.EntryStart)),
			Gap:   codec.Double(data, off+int(splitOffsets.EntryWorkDay)) == 0,
		})
	}
	if len(entries) == 0 {
		return out, finish, true
	}
	for i := range entries {
		if i+1 < len(entries) {
			entries[i].End = entries[i+1].Start
		} else {
			entries[i].End = finish
		}
	}
	return append(out, entries...), finish, true
}

// Splits rebuilds the segments of a split task from its completed and
// incomplete timephased work regions. Either region may be nil. The
// incomplete region continues from the finish of the completed one. Adjacent
// segments of the same kind are merged, and empty ones dropped. A result that
// does not describe an actual split (fewer than three segments) is reported
// as nil.
func Splits(completed, incomplete []byte) []schedule.SplitSegment {
	var raw []schedule.SplitSegment
	var offset time.Duration
	var ok bool

	if completed != nil {
		if raw, offset, ok = readSplitRegion(raw, completed, completedSplits, 0); !ok {
			return nil
		}
	}
	if incomplete != nil {
		if raw, _, ok = readSplitRegion(raw, incomplete, incompleteSplits, offset); !ok {
			return nil
		}
	}

	var merged []schedule.SplitSegment
	for _, s := range raw {
		if s.End <= s.Start {
			continue
		}
		if n := len(merged); n > 0 && merged[n-1].Gap == s.Gap {
			merged[n-1].End = max(merged[n-1].End, s.End)
			continue
		}
		merged = append(merged, s)
	}

	if len(merged) < minSplitSegments {
		return nil
	}
	return merged
}
