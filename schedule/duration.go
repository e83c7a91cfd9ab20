package schedule

import "fmt"

// TimeUnit identifies the unit a Duration value is expressed in. Elapsed units
// ignore calendar working time.
type TimeUnit uint8

const (
	Minutes TimeUnit = iota
	ElapsedMinutes
	Hours
	ElapsedHours
	Days
	ElapsedDays
	Weeks
	ElapsedWeeks
	Months
	ElapsedMonths
	Percent
	ElapsedPercent
)

var timeUnitNames = [...]string{
	Minutes:        "m",
	ElapsedMinutes: "em",
	Hours:          "h",
	ElapsedHours:   "eh",
	Days:           "d",
	ElapsedDays:    "ed",
	Weeks:          "w",
	ElapsedWeeks:   "ew",
	Months:         "mo",
	ElapsedMonths:  "emo",
	Percent:        "%",
	ElapsedPercent: "e%",
}

func (t TimeUnit) String() string {
	if int(t) < len(timeUnitNames) {
		return timeUnitNames[t]
	}
	return fmt.Sprintf("TimeUnit(%d)", t)
}

// Elapsed returns whether the unit ignores working time.
func (t TimeUnit) Elapsed() bool {
	switch t {
	case ElapsedMinutes, ElapsedHours, ElapsedDays, ElapsedWeeks, ElapsedMonths, ElapsedPercent:
		return true
	}
	return false
}

func (t TimeUnit) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// Duration is an amount of time expressed in a given unit.
type Duration struct {
	Value float64  `json:"value" yaml:"value"`
	Units TimeUnit `json:"units" yaml:"units"`
}

func (d Duration) String() string {
	return fmt.Sprintf("%g%s", d.Value, d.Units)
}
