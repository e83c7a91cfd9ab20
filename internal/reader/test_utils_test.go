package reader

import (
	"encoding/hex"
	"io"
	"os"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/go-stdlog/stdlog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heyvito/mpp/internal/codec"
	"github.com/heyvito/mpp/internal/container"
	"github.com/heyvito/mpp/internal/fixture"
	"github.com/heyvito/mpp/internal/resolve"
)

func mustBytesFromHex(s string) []byte {
	s = strings.ReplaceAll(s, " ", "")
	v, err := hex.DecodeString(s)
	if err != nil {
		panic(err)
	}
	return v
}

type DummyConfig struct {
	HoursPerDay            float64
	HoursPerWeek           float64
	DaysPerMonth           float64
	CalendarName           string
	PreserveNoteFormatting bool
	ReadPresentationData   bool
	ReadPassword           string
	Location               *time.Location
	Logger                 stdlog.Logger
}

func (d DummyConfig) GetLogger() stdlog.Logger {
	return d.Logger
}

func (d DummyConfig) GetHoursPerDay() float64 {
	return d.HoursPerDay
}

func (d DummyConfig) GetHoursPerWeek() float64 {
	return d.HoursPerWeek
}

func (d DummyConfig) GetDaysPerMonth() float64 {
	return d.DaysPerMonth
}

func (d DummyConfig) GetCalendarName() string {
	return d.CalendarName
}

func (d DummyConfig) GetPreserveNoteFormatting() bool {
	return d.PreserveNoteFormatting
}

func (d DummyConfig) GetReadPresentationData() bool {
	return d.ReadPresentationData
}

func (d DummyConfig) GetReadPassword() string {
	return d.ReadPassword
}

func (d DummyConfig) GetLocation() *time.Location {
	return d.Location
}

func WithLogger() DummyOpt {
	return func(d *DummyConfig) { d.Logger = stdlog.NewStd(os.Stdout) }
}

func WithLogOutput(w io.Writer) DummyOpt {
	return func(d *DummyConfig) { d.Logger = stdlog.NewStd(w) }
}

func WithPassword(password string) DummyOpt {
	return func(d *DummyConfig) { d.ReadPassword = password }
}

func WithPresentation() DummyOpt {
	return func(d *DummyConfig) { d.ReadPresentationData = true }
}

func WithNoteFormatting() DummyOpt {
	return func(d *DummyConfig) { d.PreserveNoteFormatting = true }
}

func WithHoursPerDay(hours float64) DummyOpt {
	return func(d *DummyConfig) { d.HoursPerDay = hours }
}

func WithCalendarName(name string) DummyOpt {
	return func(d *DummyConfig) { d.CalendarName = name }
}

type DummyOpt func(*DummyConfig)

func NewDummyConfig(t *testing.T, dummyOpts ...DummyOpt) *DummyConfig {
	t.Helper()
	d := &DummyConfig{
		Location: time.UTC,
		Logger:   stdlog.Discard,
	}

	for _, opt := range dummyOpts {
		opt(d)
	}

	return d
}

var (
	kickoff = time.Date(2024, time.March, 4, 8, 0, 0, 0, time.UTC)
	handoff = time.Date(2024, time.March, 8, 17, 0, 0, 0, time.UTC)
	holiday = time.Date(2024, time.March, 6, 0, 0, 0, 0, time.UTC)

	projectGUID = "00112233-4455-6677-8899-aabbccddeeff"

	taskNotes     = `{\rtf1\ansi\pard Kickoff\par Agenda}`
	resourceNotes = `{\rtf1\ansi\pard Lead\par Backend}`
)

func assertTime(t *testing.T, want time.Time, got *time.Time) {
	t.Helper()
	require.NotNil(t, got)
	assert.True(t, want.Equal(*got), "want %s, got %s", want, *got)
}

// calendarBlob holds a Monday to Friday, 08:00 to 17:00 week, followed by a
// single non-working exception on the holiday.
func calendarBlob(week resolve.WeekLayout, exc resolve.ExceptionLayout) []byte {
	b := fixture.NewBuf(exc.FirstBlock + exc.BlockSize)
	for d := time.Monday; d <= time.Friday; d++ {
		off := week.FirstBlock + int(d)*week.BlockSize
		b.Uint16(off+2, 1).
			Uint16(off+week.StartsOffset, 8*60*10).
			Uint16(off+week.DurationsOffset, 9*60*10)
	}
	days, _ := fixture.Ticks(holiday)
	b.Uint16(exc.CountOffset, 1).
		Uint16(exc.FirstBlock, days).
		Uint16(exc.FirstBlock+2, days)
	return b.Bytes()
}

func timestamp(t time.Time) []byte {
	return fixture.NewBuf(4).Timestamp(0, t).Bytes()
}

// noTimestamp marks a timestamp field as absent.
func noTimestamp(b *fixture.Buf, off int) *fixture.Buf {
	return b.Uint16(off, codec.NoValue).Uint16(off+2, codec.NoValue)
}

func projectProps() []byte {
	return fixture.Props(
		fixture.PropEntry{Key: propProjectStartDate, Data: timestamp(kickoff)},
		fixture.PropEntry{Key: propProjectFinishDate, Data: timestamp(handoff)},
		fixture.PropEntry{Key: propDefaultCalendarName, Data: fixture.UTF16("Standard")},
		fixture.PropEntry{Key: propCurrencySymbol, Data: fixture.UTF16("€")},
		fixture.PropEntry{Key: propMinutesPerDay, Data: fixture.Int32(480)},
		fixture.PropEntry{Key: propMinutesPerWeek, Data: fixture.Int32(2400)},
		fixture.PropEntry{Key: propDaysPerMonth, Data: fixture.Uint16(20)},
		fixture.PropEntry{Key: propProjectGUID, Data: mustBytesFromHex("33221100 5544 7766 8899 aabbccddeeff")},
	)
}

// passwordPositions lists where each character of the protection password
// is stored within its block.
var passwordPositions = []int{60, 30, 48, 2, 6, 14, 8, 22, 44, 12, 38, 10, 62, 16, 34, 24}

func passwordBlock(password string, code byte) []byte {
	block := make([]byte, 64)
	for i, c := range []byte(password) {
		block[passwordPositions[i]] = c
	}
	codec.XOR(block, code)
	return block
}

// taskRow describes one record of a synthetic task table.
type taskRow struct {
	uid       int32
	id        int32
	name      string
	wbs       string
	notes     string
	null      bool
	milestone bool
	split     bool
	calendar  int32
	key       int64
}

var standardTasks = []taskRow{
	{uid: 1, id: 1, name: "Design", wbs: "1.1", notes: taskNotes, calendar: 1, key: 200},
	{uid: 2, id: 2, name: "Release", milestone: true, split: true, calendar: noTaskCalendar, key: 100},
	{uid: 3, id: 3, null: true},
}

// projectFile assembles a schedule of one of the meta and var-data
// generations in memory. Streams the generation obfuscates are XORed with
// code once protect enables it.
type projectFile struct {
	gen  *Generation
	mem  *container.Memory
	code byte
}

func newProjectFile(gen *Generation) *projectFile {
	f := &projectFile{gen: gen, mem: container.NewMemory()}
	f.mem.Add(compObjStream, fixture.CompObj("MSProject."+gen.Name))
	f.mem.Add(gen.RootProps, fixture.Props())
	return f
}

// protect stores the password flag and encryption code in the root property
// block, along with a protection password when not empty.
func (f *projectFile) protect(flag, code byte, password string) *projectFile {
	entries := []fixture.PropEntry{
		{Key: propPasswordFlag, Data: []byte{flag}},
		{Key: propEncryptionCode, Data: []byte{code}},
	}
	if password != "" {
		entries = append(entries, fixture.PropEntry{Key: propProtectionPasswordHash, Data: passwordBlock(password, code)})
	}
	f.mem.Add(f.gen.RootProps, fixture.Props(entries...))
	if flag != 0 {
		f.code = code
	}
	return f
}

func (f *projectFile) stream(path string, data []byte) {
	f.mem.Add(f.gen.ProjectDir+"/"+path, data)
}

func (f *projectFile) secret(path string, data []byte) {
	if f.code != 0 {
		data = slices.Clone(data)
		codec.XOR(data, f.code)
	}
	f.stream(path, data)
}

func (f *projectFile) vars(dir string, entries ...fixture.VarEntry) {
	meta, data := fixture.VarRegion(f.gen.VarMeta.TagWidth, entries...)
	f.stream(dir+"/VarMeta", meta)
	f.stream(dir+"/Var2Data", data)
}

func (f *projectFile) fixed(dir string, metaItemSize int, flags []int32, records ...[]byte) {
	meta, data := fixture.FixedTable(metaItemSize, flags, records...)
	f.stream(dir+"/FixedMeta", meta)
	f.secret(dir+"/FixedData", data)
}

// populate writes every table of the standard project, except the ones
// listed in skip.
func (f *projectFile) populate(skip ...string) *projectFile {
	f.secret("Props", projectProps())
	tables := []struct {
		dir   string
		write func()
	}{
		{"TBkndCal", func() { f.calendars(nil) }},
		{"TBkndRsc", f.resources},
		{"TBkndTask", func() { f.tasks(standardTasks...) }},
		{"TBkndCons", f.relations},
		{"TBkndAssn", f.assignments},
	}
	for _, t := range tables {
		if !slices.Contains(skip, t.dir) {
			t.write()
		}
	}
	f.views()
	return f
}

func (f *projectFile) calendarEntry(uid, base, resource int32) []byte {
	c := f.gen.Calendars
	b := fixture.NewBuf(c.EntrySize)
	return b.Int32(c.UniqueID, uid).Int32(c.BaseUniqueID, base).Int32(c.ResourceUniqueID, resource).Bytes()
}

// calendars writes the standard calendars, followed by extra fixed entries
// and var data.
func (f *projectFile) calendars(extra []fixture.VarEntry, entries ...[]byte) {
	c := f.gen.Calendars
	f.vars("TBkndCal", append([]fixture.VarEntry{
		{UID: 1, Tag: c.NameTag, Data: fixture.UTF16("Standard")},
		{UID: 1, Tag: c.DataTag, Data: calendarBlob(f.gen.Week, f.gen.Exceptions)},
	}, extra...)...)
	f.fixed("TBkndCal", c.MetaItemSize, nil, append([][]byte{
		f.calendarEntry(1, noBaseCalendar, 0),
		f.calendarEntry(2, 1, 42),
		// Derived from a calendar the file does not hold.
		f.calendarEntry(3, 77, 0),
	}, entries...)...)
}

func (f *projectFile) resources() {
	r := f.gen.Resources
	record := func(uid int32) []byte {
		b := fixture.NewBuf(r.MinSize)
		return b.Int32(0, uid).Int32(r.ID, uid-41).Double(r.StandardRate, 85).Double(r.MaxUnits, 100).Bytes()
	}
	f.vars("TBkndRsc",
		fixture.VarEntry{UID: 42, Tag: r.NameTag, Data: fixture.UTF16("Alice")},
		fixture.VarEntry{UID: 42, Tag: r.InitialsTag, Data: fixture.UTF16("A")},
		fixture.VarEntry{UID: 42, Tag: r.EmailTag, Data: fixture.UTF16("alice@example.com")},
		fixture.VarEntry{UID: 42, Tag: r.NotesTag, Data: fixture.ANSI(resourceNotes)},
		fixture.VarEntry{UID: 43, Tag: r.NameTag, Data: fixture.UTF16("Bob")},
	)
	f.fixed("TBkndRsc", r.MetaItemSize, []int32{0, 0x02}, record(42), record(43))
}

func (f *projectFile) taskRecord(row taskRow) []byte {
	t := f.gen.Tasks
	if row.null {
		b := fixture.NewBuf(t.Map.NullBlockSize).Int32(0, row.uid)
		if t.NullTaskIDIsShort {
			return b.Uint16(t.NullTaskIDOffset, uint16(row.id)).Bytes()
		}
		return b.Int32(t.NullTaskIDOffset, row.id).Bytes()
	}
	b := fixture.NewBuf(t.span())
	b.Int32(0, row.uid).
		Int32(t.ID, row.id).
		Timestamp(t.Start, kickoff).
		Timestamp(t.Finish, handoff).
		Uint16(t.OutlineLevel, 1).
		Int32(t.Duration, 5*4800).
		Uint16(t.DurationUnits, 7).
		Uint16(t.ConstraintType, 4).
		Timestamp(t.ConstraintDate, kickoff).
		Uint16(t.Priority, 500).
		Uint16(t.PercentComplete, 25).
		Uint16(t.Type, 1).
		Int32(t.Calendar, row.calendar).
		Double(t.Work, 40*60000).
		Double(t.Cost, 150000)
	if row.milestone {
		noTimestamp(b, t.ConstraintDate)
	}
	return b.Bytes()
}

// tasks writes the task table. The three leading items hold no task and the
// generations ordering tasks by sort key get a matching Fixed2 table.
func (f *projectFile) tasks(rows ...taskRow) {
	t := f.gen.Tasks
	var entries []fixture.VarEntry
	for _, row := range rows {
		if row.name != "" {
			entries = append(entries, fixture.VarEntry{UID: row.uid, Tag: t.NameTag, Data: fixture.UTF16(row.name)})
		}
		if row.wbs != "" {
			entries = append(entries, fixture.VarEntry{UID: row.uid, Tag: t.WBSTag, Data: fixture.UTF16(row.wbs)})
		}
		if row.notes != "" {
			entries = append(entries, fixture.VarEntry{UID: row.uid, Tag: t.NotesTag, Data: fixture.ANSI(row.notes)})
		}
	}
	f.vars("TBkndTask", entries...)

	var items, items2 []fixture.MetaItem
	var data, data2 []byte
	add := func(meta fixture.MetaItem, rec, rec2 []byte) {
		meta.Offset = int32(len(data))
		items = append(items, meta)
		data = append(data, rec...)
		items2 = append(items2, fixture.MetaItem{Offset: int32(len(data2))})
		data2 = append(data2, rec2...)
	}
	for i := 0; i < t.Map.Skip; i++ {
		add(fixture.MetaItem{}, fixture.Int32(0), fixture.Int32(0))
	}
	for _, row := range rows {
		extra := make([]byte, 2)
		if row.milestone {
			extra[0] = t.MilestoneMetaMask
		}
		if row.split {
			extra[1] = t.SplitMetaMask
		}
		rec2 := fixture.NewBuf(t.SortKeyMinimumSize + 8).Int64(t.SortKeyOffset, row.key).Bytes()
		add(fixture.MetaItem{Extra: extra}, f.taskRecord(row), rec2)
	}

	f.stream("TBkndTask/FixedMeta", fixture.FixedMeta(t.MetaItemSize, items...))
	f.secret("TBkndTask/FixedData", data)
	if t.SortKeys {
		f.stream("TBkndTask/Fixed2Meta", fixture.FixedMeta(t.Fixed2MetaSizes[0], items2...))
		f.secret("TBkndTask/Fixed2Data", data2)
	}
}

func (f *projectFile) relations() {
	r := f.gen.Relations
	record := func(uid, pred, succ int32) []byte {
		b := fixture.NewBuf(r.RecordSize)
		return b.Int32(r.UniqueID, uid).
			Int32(r.Predecessor, pred).
			Int32(r.Successor, succ).
			Uint16(r.Type, 1).
			Uint16(r.LagUnits, 7).
			Int32(r.Lag, 4800).
			Bytes()
	}
	f.fixed("TBkndCons", r.MetaItemSize, nil,
		record(1, 1, 2),
		record(2, 2, 2),
		record(3, 1, 99),
	)
}

func (f *projectFile) assignments() {
	a := f.gen.Assignments
	record := func(uid, task, resource int32) []byte {
		b := fixture.NewBuf(a.RecordSize)
		return b.Int32(a.UniqueID, uid).
			Int32(a.Task, task).
			Int32(a.Resource, resource).
			Timestamp(a.Start, kickoff).
			Timestamp(a.Finish, handoff).
			Double(a.Units, 100).
			Double(a.Work, 40*60000).
			Bytes()
	}
	f.vars("TBkndAssn")
	f.fixed("TBkndAssn", a.MetaItemSize, []int32{0, 0, assignmentDeletedFlag},
		record(1, 1, 42),
		record(2, 99, 42),
		record(3, 2, 42),
	)
}

func (f *projectFile) views() {
	names := map[string][]string{
		"CV_iew":    {"Gantt Chart"},
		"CTable":    {"Entry", "Cost"},
		"CGrouping": {"Resource"},
	}
	for dir, values := range names {
		var entries []fixture.VarEntry
		for i, v := range values {
			entries = append(entries, fixture.VarEntry{UID: int32(i + 1), Tag: presentationNameTag, Data: fixture.UTF16(v)})
		}
		meta, data := fixture.VarRegion(f.gen.VarMeta.TagWidth, entries...)
		f.mem.Add(f.gen.ViewDir+"/"+dir+"/VarMeta", meta)
		f.mem.Add(f.gen.ViewDir+"/"+dir+"/Var2Data", data)
	}
}

// table8Builder assembles a FixFix table and its heap.
type table8Builder struct {
	heap    *fixture.Heap
	records [][]byte
}

func newTable8() *table8Builder {
	return &table8Builder{heap: fixture.NewHeap()}
}

// ptr stores payload in the heap, returning its biased pointer.
func (b *table8Builder) ptr(payload []byte) int32 {
	return fixture.Biased(b.heap.Add(payload))
}

func (b *table8Builder) extended(items map[int][]byte) int32 {
	return fixture.Biased(b.heap.AddExtended(items))
}

func (b *table8Builder) add(rec []byte) {
	b.records = append(b.records, rec)
}

func (b *table8Builder) write(mem *container.Memory, dir string) {
	mem.Add(dir+"/"+fixFix8, slices.Concat(b.records...))
	mem.Add(dir+"/"+heap8, b.heap.Bytes())
}

// mpp8File builds the standard project in the oldest generation layout.
func mpp8File() *container.Memory {
	mem := container.NewMemory()
	mem.Add(compObjStream, fixture.CompObj("MSProject.MPP8"))
	mem.Add(projectDir8+"/Props", projectProps())

	cal := newTable8()
	co := calendarOffsets8
	blob := cal.ptr(calendarBlob(resolve.WeekLayout8, resolve.ExceptionLayout8))
	cal.add(fixture.NewBuf(co.RecordSize).
		Int32(co.UniqueID, 1).
		Int32(co.BaseUniqueID, noBaseCalendar).
		Int32(co.Name, cal.ptr(fixture.UTF16("Standard"))).
		Int32(co.Extended, cal.extended(map[int][]byte{co.DataTag: fixture.Int32(blob)})).
		Bytes())
	cal.add(fixture.NewBuf(co.RecordSize).Int32(co.UniqueID, 2).Int32(co.BaseUniqueID, 1).Bytes())
	cal.write(mem, projectDir8+"/TBkndCal")

	rsc := newTable8()
	ro := resourceOffsets8
	rsc.add(fixture.NewBuf(ro.RecordSize).
		Int32(ro.UniqueID, 42).
		Int32(ro.ID, 1).
		Int32(ro.Calendar, 2).
		Double(ro.StandardRate, 85).
		Int32(ro.MaxUnits, 100).
		Int32(ro.Name, rsc.ptr(fixture.UTF16("Alice"))).
		Int32(ro.Initials, rsc.ptr(fixture.UTF16("A"))).
		Int32(ro.Extended, rsc.extended(map[int][]byte{
			ro.EmailTag: fixture.UTF16("alice@example.com"),
			ro.NotesTag: fixture.ANSI(resourceNotes),
		})).
		Bytes())
	rsc.add(fixture.NewBuf(ro.RecordSize).Int32(ro.UniqueID, 43).Uint16(ro.Deleted, 1).Bytes())
	rsc.write(mem, projectDir8+"/TBkndRsc")

	tsk := newTable8()
	to := taskOffsets8
	task := func(uid int32, name string) *fixture.Buf {
		return fixture.NewBuf(to.RecordSizes[0]).
			Int32(to.UniqueID, uid).
			Int32(to.ID, uid).
			Timestamp(to.Start, kickoff).
			Timestamp(to.Finish, handoff).
			Uint16(to.OutlineLevel, 1).
			Int32(to.Duration, 5*4800).
			Uint16(to.DurationUnits, 7).
			Timestamp(to.ConstraintDate, kickoff).
			Uint16(to.Priority, 4).
			Uint16(to.PercentComplete, 25).
			Raw(to.Work, fixture.Int64(4000)[:6]).
			Raw(to.Cost, fixture.Int64(150000)[:6]).
			Int32(to.Name, tsk.ptr(fixture.UTF16(name)))
	}
	tsk.add(task(1, "Design").
		Int32(to.Extended, tsk.extended(map[int][]byte{
			to.WBSTag:   fixture.UTF16("1.1"),
			to.NotesTag: fixture.ANSI(taskNotes),
		})).
		Bytes())
	tsk.add(task(2, "Release").Byte(to.Milestone, 0x01).Bytes())
	tsk.add(task(3, "Deleted").Uint16(to.Deleted, 0x01).Bytes())
	tsk.add(task(4, "").Byte(to.BlankRow, 0x01).Bytes())
	tsk.write(mem, projectDir8+"/TBkndTask")

	cons := newTable8()
	rel := relationOffsets8
	relation := func(uid, pred, succ int32) *fixture.Buf {
		return fixture.NewBuf(rel.RecordSize).
			Int32(rel.UniqueID, uid).
			Int32(rel.Predecessor, pred).
			Int32(rel.Successor, succ).
			Uint16(rel.Type, 1).
			Uint16(rel.LagUnits, 7).
			Int32(rel.Lag, 4800)
	}
	cons.add(relation(1, 1, 2).Bytes())
	cons.add(relation(2, 2, 1).Int32(rel.Deleted, 1).Bytes())
	cons.write(mem, projectDir8+"/TBkndCons")

	assn := newTable8()
	ao := assignmentOffsets8
	assn.add(fixture.NewBuf(ao.RecordSizes[0]).
		Int32(ao.UniqueID, 1).
		Int32(ao.Task, 1).
		Int32(ao.Resource, 42).
		Timestamp(ao.Start, kickoff).
		Timestamp(ao.Finish, handoff).
		Uint16(ao.Units, 100).
		Raw(ao.Work, fixture.Int64(4000)[:6]).
		Bytes())
	assn.write(mem, projectDir8+"/TBkndAssn")

	tables := newTable8()
	tables.add(fixture.NewBuf(tableOffsets8.RecordSize).Raw(tableOffsets8.Name, fixture.UTF16("Entry")).Bytes())
	tables.write(mem, viewDir8+"/CTable")
	return mem
}
