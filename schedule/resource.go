package schedule

import "time"

type Resource struct {
	UniqueID     int       `json:"unique_id" yaml:"unique_id"`
	ID           int       `json:"id" yaml:"id"`
	Name         string    `json:"name,omitempty" yaml:"name,omitempty"`
	Initials     string    `json:"initials,omitempty" yaml:"initials,omitempty"`
	Email        string    `json:"email,omitempty" yaml:"email,omitempty"`
	Notes        string    `json:"notes,omitempty" yaml:"notes,omitempty"`
	MaxUnits     float64   `json:"max_units,omitempty" yaml:"max_units,omitempty"`
	StandardRate float64   `json:"standard_rate,omitempty" yaml:"standard_rate,omitempty"`
	Calendar     *Calendar `json:"-" yaml:"-"`
}

type Assignment struct {
	UniqueID         int        `json:"unique_id" yaml:"unique_id"`
	TaskUniqueID     int        `json:"task_unique_id" yaml:"task_unique_id"`
	ResourceUniqueID int        `json:"resource_unique_id" yaml:"resource_unique_id"`
	Start            *time.Time `json:"start,omitempty" yaml:"start,omitempty"`
	Finish           *time.Time `json:"finish,omitempty" yaml:"finish,omitempty"`
	Units            float64    `json:"units" yaml:"units"`
	Work             *Duration  `json:"work,omitempty" yaml:"work,omitempty"`

	Task     *Task     `json:"-" yaml:"-"`
	Resource *Resource `json:"-" yaml:"-"`
}

type RelationType uint8

const (
	FinishFinish RelationType = iota
	FinishStart
	StartFinish
	StartStart
)

var relationNames = [...]string{"FF", "FS", "SF", "SS"}

func (r RelationType) String() string {
	if int(r) < len(relationNames) {
		return relationNames[r]
	}
	return "FS"
}

func (r RelationType) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// RelationTypeFromCode maps the stored relation code to a RelationType.
// Unknown values map to FinishStart.
func RelationTypeFromCode(v int) RelationType {
	if v < 0 || v >= len(relationNames) {
		return FinishStart
	}
	return RelationType(v)
}

type Relation struct {
	UniqueID            int          `json:"unique_id" yaml:"unique_id"`
	PredecessorUniqueID int          `json:"predecessor_unique_id" yaml:"predecessor_unique_id"`
	SuccessorUniqueID   int          `json:"successor_unique_id" yaml:"successor_unique_id"`
	Type                RelationType `json:"type" yaml:"type"`
	Lag                 Duration     `json:"lag" yaml:"lag"`
}

// SubProject describes an inserted project referenced from a task of the
// current file.
type SubProject struct {
	TaskUniqueID          int    `json:"task_unique_id,omitempty" yaml:"task_unique_id,omitempty"`
	UniqueIDOffset        int    `json:"unique_id_offset,omitempty" yaml:"unique_id_offset,omitempty"`
	ExternalTaskUniqueIDs []int  `json:"external_task_unique_ids,omitempty" yaml:"external_task_unique_ids,omitempty"`
	DOSFullPath           string `json:"dos_full_path,omitempty" yaml:"dos_full_path,omitempty"`
	FullPath              string `json:"full_path,omitempty" yaml:"full_path,omitempty"`
	DOSFileName           string `json:"dos_file_name,omitempty" yaml:"dos_file_name,omitempty"`
	FileName              string `json:"file_name,omitempty" yaml:"file_name,omitempty"`
	ResourcePool          bool   `json:"resource_pool,omitempty" yaml:"resource_pool,omitempty"`
}

// IsExternalTask returns whether the given unique ID refers to a task that
// lives in the sub-project file.
func (s *SubProject) IsExternalTask(uniqueID int) bool {
	for _, id := range s.ExternalTaskUniqueIDs {
		if id == uniqueID {
			return true
		}
	}
	return false
}
