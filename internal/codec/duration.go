package codec

import "github.com/heyvito/mpp/schedule"

// DurationSettings carries the project values that scale working-time
// durations expressed in days, weeks and months.
type DurationSettings struct {
	MinutesPerDay  float64
	MinutesPerWeek float64
	DaysPerMonth   float64
}

// DefaultDurationSettings returns the application defaults: 8 hours per day,
// 40 hours per week, and 20 days per month.
func DefaultDurationSettings() DurationSettings {
	return DurationSettings{MinutesPerDay: 480, MinutesPerWeek: 2400, DaysPerMonth: 20}
}

// Duration scales a raw tick count into the given unit using the fixed
// divisors of the format.
func Duration(ticks float64, unit schedule.TimeUnit) float64 {
	switch unit {
	case schedule.Minutes, schedule.ElapsedMinutes:
		return ticks / 10
	case schedule.Hours, schedule.ElapsedHours:
		return ticks / 600
	case schedule.Days:
		return ticks / 4800
	case schedule.ElapsedDays:
		return ticks / 14400
	case schedule.Weeks:
		return ticks / 24000
	case schedule.ElapsedWeeks:
		return ticks / 100800
	case schedule.Months:
		return ticks / 96000
	case schedule.ElapsedMonths:
		return ticks / 432000
	}
	return ticks
}

// AdjustedDuration scales a raw tick count like Duration, except working
// days, weeks and months are derived from the project settings. Returns nil
// for the -1 "no duration" marker.
func AdjustedDuration(ticks int, unit schedule.TimeUnit, s DurationSettings) *schedule.Duration {
	if ticks == -1 {
		return nil
	}
	var divisor float64
	switch unit {
	case schedule.Days:
		divisor = s.MinutesPerDay * 10
	case schedule.Weeks:
		divisor = s.MinutesPerWeek * 10
	case schedule.Months:
		divisor = s.MinutesPerDay * s.DaysPerMonth * 10
	default:
		return &schedule.Duration{Value: Duration(float64(ticks), unit), Units: unit}
	}
	if divisor == 0 {
		return &schedule.Duration{Value: 0, Units: unit}
	}
	return &schedule.Duration{Value: float64(ticks) / divisor, Units: unit}
}

// DurationUnits maps a stored unit code to a TimeUnit. Code 21 selects the
// project default, and unknown codes fall back to days.
func DurationUnits(code int, projectDefault schedule.TimeUnit) schedule.TimeUnit {
	switch code & 0x1F {
	case 3:
		return schedule.Minutes
	case 4:
		return schedule.ElapsedMinutes
	case 5:
		return schedule.Hours
	case 6:
		return schedule.ElapsedHours
	case 7:
		return schedule.Days
	case 8:
		return schedule.ElapsedDays
	case 9:
		return schedule.Weeks
	case 10:
		return schedule.ElapsedWeeks
	case 11:
		return schedule.Months
	case 12:
		return schedule.ElapsedMonths
	case 19:
		return schedule.Percent
	case 20:
		return schedule.ElapsedPercent
	case 21:
		return projectDefault
	}
	return schedule.Days
}

// DurationEstimated reports the "estimated" bit stored alongside duration
// unit codes.
func DurationEstimated(code int) bool {
	return code&0x20 != 0
}
