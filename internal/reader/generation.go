package reader

import (
	"github.com/heyvito/mpp/internal/resolve"
	"github.com/heyvito/mpp/internal/store"
)

// Generation holds everything that differs between the schema generations
// sharing the meta/var-data storage model (9, 12 and 14): region names,
// record sizes, fixed offsets and var-data tags.
type Generation struct {
	Name    string
	Version int

	RootProps  string
	ProjectDir string
	ViewDir    string

	VarMeta     store.VarMetaLayout
	Week        resolve.WeekLayout
	Exceptions  resolve.ExceptionLayout
	SubProjects resolve.SubProjectLayout

	// RefusesPassword generations cannot be read once a protection
	// password is set, regardless of the configured password.
	RefusesPassword bool

	Calendars   calendarFields
	Tasks       taskFields
	Resources   resourceFields
	Relations   relationFields
	Assignments assignmentFields
}

type calendarFields struct {
	MetaItemSize int
	EntrySize    int

	UniqueID         int
	BaseUniqueID     int
	ResourceUniqueID int

	NameTag int
	DataTag int
}

type taskFields struct {
	MetaItemSize int
	MaxSize      int
	MinSize      int
	Map          resolve.TaskMapLayout

	// DerivedMaxSize generations take the stale record threshold of the
	// task map from the largest record of the table.
	DerivedMaxSize bool

	// SortKeys generations order tasks by a key stored in Fixed2Data and
	// rebuild display IDs from it.
	SortKeys            bool
	Fixed2MetaSizes     []int
	SortKeyOffset       int
	SortKeyMinimumSize  int
	NullTaskIDOffset    int
	NullTaskIDIsShort   bool
	MilestoneMetaOffset int
	MilestoneMetaMask   byte
	SplitMetaOffset     int
	SplitMetaMask       byte

	ID              int
	Finish          int
	OutlineLevel    int
	Duration        int
	DurationUnits   int
	ConstraintType  int
	Start           int
	ConstraintDate  int
	Priority        int
	PercentComplete int
	Type            int
	Calendar        int
	Work            int
	Cost            int

	NameTag                   int
	WBSTag                    int
	NotesTag                  int
	SubProjectTaskUniqueIDTag int
}

type resourceFields struct {
	MetaItemSize int
	MinSize      int

	ID           int
	StandardRate int
	MaxUnits     int

	NameTag     int
	InitialsTag int
	EmailTag    int
	NotesTag    int
}

type relationFields struct {
	MetaItemSize int
	RecordSize   int

	UniqueID    int
	Predecessor int
	Successor   int
	Type        int
	LagUnits    int
	Lag         int
}

type assignmentFields struct {
	MetaItemSize int
	RecordSize   int

	UniqueID int
	Task     int
	Resource int
	Start    int
	Finish   int
	Units    int
	Work     int

	CompletedWorkTag  int
	IncompleteWorkTag int
}

// Property keys shared by every generation.
const (
	propProjectStartDate       = 37748738
	propProjectFinishDate      = 37748739
	propDefaultCalendarName    = 37748750
	propCurrencySymbol         = 37748752
	propMinutesPerDay          = 37748765
	propMinutesPerWeek         = 37748766
	propProjectGUID            = 37748777
	propStatusDate             = 37748805
	propSubProjectData         = 37748898
	propDefaultCalendarHours   = 37753736
	propDaysPerMonth           = 37753743
	propPasswordFlag           = 893386752
	propProtectionPasswordHash = 893386756
	propEncryptionCode         = 893386759
)

var (
	calendarFields9 = calendarFields{
		MetaItemSize:     10,
		EntrySize:        12,
		UniqueID:         0,
		BaseUniqueID:     4,
		ResourceUniqueID: 8,
		NameTag:          1,
		DataTag:          3,
	}

	taskFields9 = taskFields{
		MetaItemSize:        47,
		MaxSize:             768,
		MinSize:             240,
		Map:                 resolve.TaskMapLayout{Skip: 3, NullBlockSize: 8, MinSize: 240},
		NullTaskIDOffset:    4,
		MilestoneMetaOffset: 8,
		MilestoneMetaMask:   0x20,
		SplitMetaOffset:     9,
		SplitMetaMask:       0x80,

		ID:              4,
		Finish:          8,
		OutlineLevel:    40,
		Duration:        60,
		DurationUnits:   64,
		ConstraintType:  80,
		Start:           88,
		ConstraintDate:  112,
		Priority:        120,
		PercentComplete: 122,
		Type:            126,
		Calendar:        160,
		Work:            168,
		Cost:            200,

		NameTag:                   11,
		WBSTag:                    10,
		NotesTag:                  144,
		SubProjectTaskUniqueIDTag: 9,
	}

	resourceFields9 = resourceFields{
		MetaItemSize: 37,
		MinSize:      188,
		ID:           4,
		StandardRate: 28,
		MaxUnits:     44,
		NameTag:      1,
		InitialsTag:  3,
		EmailTag:     6,
		NotesTag:     124,
	}

	relationFields9 = relationFields{
		MetaItemSize: 10,
		RecordSize:   20,
		UniqueID:     0,
		Predecessor:  4,
		Successor:    8,
		Type:         12,
		LagUnits:     14,
		Lag:          16,
	}

	assignmentFields9 = assignmentFields{
		MetaItemSize:      34,
		RecordSize:        142,
		UniqueID:          0,
		Task:              4,
		Resource:          8,
		Start:             12,
		Finish:            16,
		Units:             54,
		Work:              62,
		CompletedWorkTag:  49,
		IncompleteWorkTag: 50,
	}
)

var MPP9 = &Generation{
	Name:    "MPP9",
	Version: 9,

	RootProps:  "Props9",
	ProjectDir: "   19",
	ViewDir:    "   29",

	VarMeta:     store.VarMetaLayout9,
	Week:        resolve.WeekLayout9,
	Exceptions:  resolve.ExceptionLayout9,
	SubProjects: resolve.SubProjectLayout9,

	Calendars:   calendarFields9,
	Tasks:       taskFields9,
	Resources:   resourceFields9,
	Relations:   relationFields9,
	Assignments: assignmentFields9,
}

var MPP12 = &Generation{
	Name:    "MPP12",
	Version: 12,

	RootProps:  "Props12",
	ProjectDir: "   112",
	ViewDir:    "   212",

	VarMeta:     store.VarMetaLayout12,
	Week:        resolve.WeekLayout9,
	Exceptions:  resolve.ExceptionLayout12,
	SubProjects: resolve.SubProjectLayout12,

	RefusesPassword: true,

	Calendars: func() calendarFields {
		c := calendarFields9
		c.DataTag = 8
		return c
	}(),
	Tasks: func() taskFields {
		t := taskFields9
		t.MinSize = 206
		t.Map = resolve.TaskMapLayout{Skip: 3, NullBlockSize: 16, MinSize: 206}
		t.NameTag, t.WBSTag, t.NotesTag = 14, 16, 15
		t.SubProjectTaskUniqueIDTag = 242
		return t
	}(),
	Resources: func() resourceFields {
		r := resourceFields9
		r.InitialsTag, r.EmailTag, r.NotesTag = 2, 35, 20
		return r
	}(),
	Relations:   relationFields9,
	Assignments: assignmentFields9,
}

var MPP14 = &Generation{
	Name:    "MPP14",
	Version: 14,

	RootProps:  "Props14",
	ProjectDir: "   114",
	ViewDir:    "   214",

	VarMeta:     store.VarMetaLayout12,
	Week:        resolve.WeekLayout9,
	Exceptions:  resolve.ExceptionLayout12,
	SubProjects: resolve.SubProjectLayout14,

	RefusesPassword: true,

	Calendars: MPP12.Calendars,
	Tasks: func() taskFields {
		t := MPP12.Tasks
		t.Map = resolve.TaskMapLayout{Skip: 3, NullBlockSize: 16}
		t.DerivedMaxSize = true
		t.SortKeys = true
		t.Fixed2MetaSizes = []int{92, 93}
		t.SortKeyOffset = 16
		t.SortKeyMinimumSize = 24
		t.NullTaskIDIsShort = true
		return t
	}(),
	Resources:   MPP12.Resources,
	Relations:   relationFields9,
	Assignments: func() assignmentFields {
		a := assignmentFields9
		a.RecordSize = 110
		a.Units, a.Work = 46, 70
		return a
	}(),
}

// generations lists the readers by the clipboard format version found in
// the compound object stream.
var generations = map[int]*Generation{
	9:  MPP9,
	12: MPP12,
	14: MPP14,
}
