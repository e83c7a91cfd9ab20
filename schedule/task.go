package schedule

import (
	"time"
)

type ConstraintType uint8

const (
	AsSoonAsPossible ConstraintType = iota
	AsLateAsPossible
	MustStartOn
	MustFinishOn
	StartNoEarlierThan
	StartNoLaterThan
	FinishNoEarlierThan
	FinishNoLaterThan
)

var constraintNames = [...]string{"ASAP", "ALAP", "MSO", "MFO", "SNET", "SNLT", "FNET", "FNLT"}

func (c ConstraintType) String() string {
	if int(c) < len(constraintNames) {
		return constraintNames[c]
	}
	return "ASAP"
}

func (c ConstraintType) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// ConstraintTypeFromCode maps the value stored in task records to a
// ConstraintType. Unknown values map to AsSoonAsPossible.
func ConstraintTypeFromCode(v int) ConstraintType {
	if v < 0 || v >= len(constraintNames) {
		return AsSoonAsPossible
	}
	return ConstraintType(v)
}

type TaskType uint8

const (
	FixedUnits TaskType = iota
	FixedDuration
	FixedWork
)

func TaskTypeFromCode(v int) TaskType {
	switch v {
	case 1:
		return FixedDuration
	case 2:
		return FixedWork
	}
	return FixedUnits
}

// SplitSegment is one piece of a split task, expressed as offsets from the
// task start. Gap segments carry no work.
type SplitSegment struct {
	Start time.Duration `json:"start" yaml:"start"`
	End   time.Duration `json:"end" yaml:"end"`
	Gap   bool          `json:"gap,omitempty" yaml:"gap,omitempty"`
}

type Task struct {
	UniqueID int    `json:"unique_id" yaml:"unique_id"`
	ID       int    `json:"id" yaml:"id"`
	Name     string `json:"name,omitempty" yaml:"name,omitempty"`
	WBS      string `json:"wbs,omitempty" yaml:"wbs,omitempty"`
	Notes    string `json:"notes,omitempty" yaml:"notes,omitempty"`

	// Null tasks are blank rows kept in the file to preserve display order.
	Null bool `json:"null,omitempty" yaml:"null,omitempty"`

	OutlineLevel    int        `json:"outline_level" yaml:"outline_level"`
	Start           *time.Time `json:"start,omitempty" yaml:"start,omitempty"`
	Finish          *time.Time `json:"finish,omitempty" yaml:"finish,omitempty"`
	Duration        *Duration  `json:"duration,omitempty" yaml:"duration,omitempty"`
	Work            *Duration  `json:"work,omitempty" yaml:"work,omitempty"`
	Cost            float64    `json:"cost,omitempty" yaml:"cost,omitempty"`
	PercentComplete int        `json:"percent_complete,omitempty" yaml:"percent_complete,omitempty"`
	Priority        int        `json:"priority,omitempty" yaml:"priority,omitempty"`
	Type            TaskType   `json:"type" yaml:"type"`
	Milestone       bool       `json:"milestone,omitempty" yaml:"milestone,omitempty"`
	Estimated       bool       `json:"estimated,omitempty" yaml:"estimated,omitempty"`

	ConstraintType ConstraintType `json:"constraint_type" yaml:"constraint_type"`
	ConstraintDate *time.Time     `json:"constraint_date,omitempty" yaml:"constraint_date,omitempty"`

	Calendar *Calendar `json:"-" yaml:"-"`

	SubProject             *SubProject `json:"-" yaml:"-"`
	External               bool        `json:"external,omitempty" yaml:"external,omitempty"`
	ExternalProject        string      `json:"external_project,omitempty" yaml:"external_project,omitempty"`
	SubProjectTaskUniqueID int         `json:"subproject_task_unique_id,omitempty" yaml:"subproject_task_unique_id,omitempty"`

	// Splits is nil when the task is not split, and holds either zero or at
	// least three segments otherwise.
	Splits []SplitSegment `json:"splits,omitempty" yaml:"splits,omitempty"`

	Predecessors []*Relation `json:"-" yaml:"-"`
}

// CalendarUniqueID returns the unique ID of the task calendar, or zero.
func (t *Task) CalendarUniqueID() int {
	if t.Calendar == nil {
		return 0
	}
	return t.Calendar.UniqueID
}
