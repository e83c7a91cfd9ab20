package internal

import (
	"time"

	"github.com/go-stdlog/stdlog"
)

// Config is the set of reader settings consumed by the decoding engine. Zero
// values for the duration settings mean "use the value stored in the file".
type Config interface {
	GetLogger() stdlog.Logger
	GetHoursPerDay() float64
	GetHoursPerWeek() float64
	GetDaysPerMonth() float64
	GetCalendarName() string
	GetPreserveNoteFormatting() bool
	GetReadPresentationData() bool
	GetReadPassword() string
	GetLocation() *time.Location
}
