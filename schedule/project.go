// Package schedule holds the object graph produced by decoding a project
// file: calendars, tasks, resources, assignments, relations and sub-projects,
// already linked to each other by their unique IDs.
package schedule

import (
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Properties is the subset of the project header consumed by the decoder.
type Properties struct {
	Format              string     `json:"format" yaml:"format"`
	GUID                *uuid.UUID `json:"guid,omitempty" yaml:"guid,omitempty"`
	StartDate           *time.Time `json:"start_date,omitempty" yaml:"start_date,omitempty"`
	FinishDate          *time.Time `json:"finish_date,omitempty" yaml:"finish_date,omitempty"`
	StatusDate          *time.Time `json:"status_date,omitempty" yaml:"status_date,omitempty"`
	DefaultCalendarName string     `json:"default_calendar_name,omitempty" yaml:"default_calendar_name,omitempty"`
	CurrencySymbol      string     `json:"currency_symbol,omitempty" yaml:"currency_symbol,omitempty"`
	MinutesPerDay       int        `json:"minutes_per_day" yaml:"minutes_per_day"`
	MinutesPerWeek      int        `json:"minutes_per_week" yaml:"minutes_per_week"`
	DaysPerMonth        int        `json:"days_per_month" yaml:"days_per_month"`
	Encrypted           bool       `json:"encrypted,omitempty" yaml:"encrypted,omitempty"`
}

type Project struct {
	Properties  Properties    `json:"properties" yaml:"properties"`
	Calendars   []*Calendar   `json:"calendars" yaml:"calendars"`
	Tasks       []*Task       `json:"tasks" yaml:"tasks"`
	Resources   []*Resource   `json:"resources" yaml:"resources"`
	Assignments []*Assignment `json:"assignments" yaml:"assignments"`
	Relations   []*Relation   `json:"relations" yaml:"relations"`
	SubProjects []*SubProject `json:"subprojects,omitempty" yaml:"subprojects,omitempty"`

	// Presentation names, only populated when requested by the reader
	// configuration.
	Views   []string `json:"views,omitempty" yaml:"views,omitempty"`
	Tables  []string `json:"tables,omitempty" yaml:"tables,omitempty"`
	Filters []string `json:"filters,omitempty" yaml:"filters,omitempty"`
	Groups  []string `json:"groups,omitempty" yaml:"groups,omitempty"`

	DefaultCalendar *Calendar `json:"-" yaml:"-"`

	calendars map[int]*Calendar
	tasks     map[int]*Task
	resources map[int]*Resource
}

func NewProject() *Project {
	return &Project{
		calendars: map[int]*Calendar{},
		tasks:     map[int]*Task{},
		resources: map[int]*Resource{},
	}
}

func (p *Project) AddCalendar(c *Calendar) {
	p.Calendars = append(p.Calendars, c)
	p.calendars[c.UniqueID] = c
}

func (p *Project) RemoveCalendar(c *Calendar) {
	p.Calendars = slices.DeleteFunc(p.Calendars, func(v *Calendar) bool { return v == c })
	if p.calendars[c.UniqueID] == c {
		delete(p.calendars, c.UniqueID)
	}
}

func (p *Project) CalendarByUniqueID(id int) *Calendar {
	return p.calendars[id]
}

// CalendarByName performs a case-insensitive lookup of a calendar by name.
func (p *Project) CalendarByName(name string) *Calendar {
	if name == "" {
		return nil
	}
	for _, c := range p.Calendars {
		if strings.EqualFold(c.Name, name) {
			return c
		}
	}
	return nil
}

func (p *Project) AddTask(t *Task) {
	p.Tasks = append(p.Tasks, t)
	p.tasks[t.UniqueID] = t
}

func (p *Project) RemoveTask(t *Task) {
	p.Tasks = slices.DeleteFunc(p.Tasks, func(v *Task) bool { return v == t })
	if p.tasks[t.UniqueID] == t {
		delete(p.tasks, t.UniqueID)
	}
}

func (p *Project) TaskByUniqueID(id int) *Task {
	return p.tasks[id]
}

// SortTasks orders tasks by their display ID.
func (p *Project) SortTasks() {
	slices.SortStableFunc(p.Tasks, func(a, b *Task) int { return a.ID - b.ID })
}

func (p *Project) AddResource(r *Resource) {
	p.Resources = append(p.Resources, r)
	p.resources[r.UniqueID] = r
}

func (p *Project) ResourceByUniqueID(id int) *Resource {
	return p.resources[id]
}

func (p *Project) AddAssignment(a *Assignment) {
	p.Assignments = append(p.Assignments, a)
}

// AddRelation records a relation and attaches it to the successor task, when
// present.
func (p *Project) AddRelation(r *Relation) {
	p.Relations = append(p.Relations, r)
	if t := p.tasks[r.SuccessorUniqueID]; t != nil {
		t.Predecessors = append(t.Predecessors, r)
	}
}

func (p *Project) AddSubProject(s *SubProject) {
	p.SubProjects = append(p.SubProjects, s)
}
