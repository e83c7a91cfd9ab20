package schedule

import (
	"time"
)

// DayWorking is the working state of a calendar week day.
type DayWorking uint8

const (
	DayNonWorking DayWorking = iota
	DayWorkingTime
	// DayDefault means the day inherits its state from the base calendar.
	DayDefault
)

func (d DayWorking) String() string {
	switch d {
	case DayNonWorking:
		return "non_working"
	case DayWorkingTime:
		return "working"
	case DayDefault:
		return "default"
	}
	return "unknown"
}

func (d DayWorking) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// TimeRange is a working period within a day, expressed as offsets from
// midnight.
type TimeRange struct {
	Start time.Duration `json:"start" yaml:"start"`
	End   time.Duration `json:"end" yaml:"end"`
}

// Length returns the amount of time covered by the range.
func (t TimeRange) Length() time.Duration {
	return t.End - t.Start
}

type CalendarDay struct {
	Working DayWorking  `json:"working" yaml:"working"`
	Ranges  []TimeRange `json:"ranges,omitempty" yaml:"ranges,omitempty"`
}

// WorkingTime returns the sum of all ranges of the day.
func (c CalendarDay) WorkingTime() time.Duration {
	var total time.Duration
	for _, r := range c.Ranges {
		total += r.Length()
	}
	return total
}

// CalendarException overrides the working pattern between From and To,
// inclusive. An exception without ranges is non-working time.
type CalendarException struct {
	From        time.Time   `json:"from" yaml:"from"`
	To          time.Time   `json:"to" yaml:"to"`
	Name        string      `json:"name,omitempty" yaml:"name,omitempty"`
	Occurrences int         `json:"occurrences,omitempty" yaml:"occurrences,omitempty"`
	Ranges      []TimeRange `json:"ranges,omitempty" yaml:"ranges,omitempty"`
}

func (c CalendarException) Working() bool {
	return len(c.Ranges) > 0
}

type Calendar struct {
	UniqueID int    `json:"unique_id" yaml:"unique_id"`
	Name     string `json:"name" yaml:"name"`

	// Days is indexed by time.Weekday, Sunday first.
	Days       [7]CalendarDay      `json:"days" yaml:"days"`
	Exceptions []CalendarException `json:"exceptions,omitempty" yaml:"exceptions,omitempty"`

	// BaseUniqueID is the unique ID of the base calendar as stored in the
	// file; Base is only set once that calendar has been resolved.
	BaseUniqueID     int       `json:"base_unique_id,omitempty" yaml:"base_unique_id,omitempty"`
	Base             *Calendar `json:"-" yaml:"-"`
	ResourceUniqueID int       `json:"resource_unique_id,omitempty" yaml:"resource_unique_id,omitempty"`
}

// IsBase returns whether the calendar defines its own working pattern rather
// than deriving from another calendar.
func (c *Calendar) IsBase() bool {
	return c.Base == nil && c.ResourceUniqueID == 0
}

// WorkingDays returns how many week days are explicitly marked as working.
func (c *Calendar) WorkingDays() int {
	n := 0
	for _, d := range c.Days {
		if d.Working == DayWorkingTime {
			n++
		}
	}
	return n
}

// Day returns the effective pattern of a week day, following the base
// calendar chain for days marked as DayDefault.
func (c *Calendar) Day(day time.Weekday) CalendarDay {
	seen := map[*Calendar]bool{}
	for cal := c; cal != nil && !seen[cal]; cal = cal.Base {
		seen[cal] = true
		if d := cal.Days[day]; d.Working != DayDefault {
			return d
		}
	}
	return CalendarDay{Working: DayNonWorking}
}
