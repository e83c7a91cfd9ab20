package mpp

import (
	"fmt"
	"os"
	"time"

	"github.com/go-stdlog/stdlog"
	"gopkg.in/yaml.v3"
)

type Config struct {
	// HoursPerDay overrides the number of working hours in a day used to
	// scale durations expressed in days and months. When zero, the value
	// stored in the file is used, or 8 when the file holds none.
	HoursPerDay float64 `yaml:"hours_per_day"`

	// HoursPerWeek overrides the number of working hours in a week used to
	// scale durations expressed in weeks. When zero, the value stored in the
	// file is used, or 40 when the file holds none.
	HoursPerWeek float64 `yaml:"hours_per_week"`

	// DaysPerMonth overrides the number of working days in a month. When
	// zero, the value stored in the file is used, or 20 when the file holds
	// none.
	DaysPerMonth float64 `yaml:"days_per_month"`

	// CalendarName selects the project default calendar by name. When empty,
	// the name stored in the file is used.
	CalendarName string `yaml:"calendar_name"`

	// PreserveNoteFormatting keeps task and resource notes as stored. By
	// default rich text notes are reduced to plain text.
	PreserveNoteFormatting bool `yaml:"preserve_note_formatting"`

	// ReadPresentationData also collects the names of the views, tables,
	// filters and groups defined in the file.
	ReadPresentationData bool `yaml:"read_presentation_data"`

	// ReadPassword is compared with the protection password of the file.
	// Only files written by the oldest supported releases can be opened this
	// way; newer protected files are always refused.
	ReadPassword string `yaml:"read_password"`

	// TimeZone names the zone dates are decoded in, as understood by
	// time.LoadLocation. Location takes precedence when set. Dates are
	// decoded in UTC when both are empty.
	TimeZone string         `yaml:"time_zone"`
	Location *time.Location `yaml:"-"`

	// Logger allows a given stdlog.Logger instance to be set as the system
	// logger. If unset, no logs will be generated.
	Logger stdlog.Logger `yaml:"-"`
}

// DefaultConfig returns a Config reading every setting from the file itself.
func DefaultConfig() Config {
	return Config{Location: time.UTC}
}

// LoadConfig reads a YAML configuration file. Keys missing from the file
// keep their DefaultConfig value.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading configuration: %w", err)
	}
	if err = yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing configuration %s: %w", path, err)
	}
	if err = cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid configuration %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the settings that cannot be interpreted, such as negative
// durations or unknown time zones.
func (c *Config) Validate() error {
	switch {
	case c.HoursPerDay < 0:
		return fmt.Errorf("hours_per_day cannot be negative")
	case c.HoursPerWeek < 0:
		return fmt.Errorf("hours_per_week cannot be negative")
	case c.DaysPerMonth < 0:
		return fmt.Errorf("days_per_month cannot be negative")
	}
	if c.TimeZone != "" {
		loc, err := time.LoadLocation(c.TimeZone)
		if err != nil {
			return fmt.Errorf("time_zone: %w", err)
		}
		c.Location = loc
	}
	return nil
}

func (c Config) GetHoursPerDay() float64 {
	return c.HoursPerDay
}

func (c Config) GetHoursPerWeek() float64 {
	return c.HoursPerWeek
}

func (c Config) GetDaysPerMonth() float64 {
	return c.DaysPerMonth
}

func (c Config) GetCalendarName() string {
	return c.CalendarName
}

func (c Config) GetPreserveNoteFormatting() bool {
	return c.PreserveNoteFormatting
}

func (c Config) GetReadPresentationData() bool {
	return c.ReadPresentationData
}

func (c Config) GetReadPassword() string {
	return c.ReadPassword
}

func (c Config) GetLocation() *time.Location {
	if c.Location != nil {
		return c.Location
	}
	if c.TimeZone != "" {
		if loc, err := time.LoadLocation(c.TimeZone); err == nil {
			return loc
		}
	}
	return time.UTC
}

func (c Config) GetLogger() stdlog.Logger {
	if c.Logger != nil {
		return c.Logger.Named("mpp")
	}
	return stdlog.Discard
}
