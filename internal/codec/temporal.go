package codec

import "time"

// NoValue is the 16-bit sentinel used for absent dates and times.
const NoValue = 65535

var Epoch = time.Date(1983, time.December, 31, 0, 0, 0, 0, time.UTC)

// Date decodes a 16-bit day count relative to the epoch, at midnight in loc.
// Returns nil for the absent sentinel.
func Date(b []byte, off int, loc *time.Location) *time.Time {
	days := Uint16(b, off)
	if days == NoValue {
		return nil
	}
	t := time.Date(1983, time.December, 31+int(days), 0, 0, 0, 0, locationOrUTC(loc))
	return &t
}

// Time decodes a 16-bit count of tenths of a minute since midnight. Precision
// is one minute, and values past midnight wrap around.
func Time(b []byte, off int) time.Duration {
	minutes := int(Uint16(b, off)) / 10
	return time.Duration((minutes*60)%86400) * time.Second
}

// CalendarDuration decodes the 16-bit length of a calendar working period,
// stored in tenths of a minute.
func CalendarDuration(b []byte, off int) time.Duration {
	return time.Duration(Uint16(b, off)) * 6 * time.Second
}

// Timestamp decodes a combined date (day count at off+2) and time (tenths of
// a minute at off). A zero day count and the absent sentinel both mean no
// date. The time sentinel is read as midnight regardless of the date. The result is built from its wall-clock components in loc, so a
// timestamp falling within daylight saving time carries the DST offset of
// that zone instead of being shifted by it.
func Timestamp(b []byte, off int, loc *time.Location) *time.Time {
	days := Uint16(b, off+2)
	if days == 0 || days == NoValue {
		return nil
	}
	ticks := Uint16(b, off)
	if ticks == NoValue {
		ticks = 0
	}
	t := time.Date(1983, time.December, 31+int(days), 0, 0, int(ticks)*6, 0, locationOrUTC(loc))
	return &t
}

func locationOrUTC(loc *time.Location) *time.Location {
	if loc == nil {
		return time.UTC
	}
	return loc
}
