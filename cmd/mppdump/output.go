package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/heyvito/mpp/internal/procutils"
	"github.com/heyvito/mpp/schedule"
)

var writers = map[string]func(io.Writer, *schedule.Project) error{
	"json":    writeJSON,
	"yaml":    writeYAML,
	"summary": writeSummary,
}

func writeJSON(w io.Writer, p *schedule.Project) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(p)
}

func writeYAML(w io.Writer, p *schedule.Project) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(p); err != nil {
		return err
	}
	return enc.Close()
}

func formatDate(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Format("2006-01-02 15:04")
}

func formatDuration(d *schedule.Duration) string {
	if d == nil {
		return "-"
	}
	return d.String()
}

// writeSummary prints the project header followed by one table per entity
// kind.
func writeSummary(out io.Writer, p *schedule.Project) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	props := p.Properties

	fmt.Fprintf(w, "Format:\t%s\n", props.Format)
	if props.GUID != nil {
		fmt.Fprintf(w, "GUID:\t%s\n", props.GUID)
	}
	fmt.Fprintf(w, "Start:\t%s\n", formatDate(props.StartDate))
	fmt.Fprintf(w, "Finish:\t%s\n", formatDate(props.FinishDate))
	if props.DefaultCalendarName != "" {
		fmt.Fprintf(w, "Calendar:\t%s\n", props.DefaultCalendarName)
	}
	fmt.Fprintf(w, "Counts:\t%d calendars, %d resources, %d tasks, %d assignments, %d relations\n",
		len(p.Calendars), len(p.Resources), len(p.Tasks), len(p.Assignments), len(p.Relations))

	if len(p.Tasks) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "ID\tUID\tNAME\tSTART\tFINISH\tDURATION")
		for _, t := range p.Tasks {
			name := t.Name
			if t.Null {
				name = "(blank)"
			}
			name = strings.Repeat("  ", max(t.OutlineLevel-1, 0)) + name
			fmt.Fprintf(w, "%d\t%d\t%s\t%s\t%s\t%s\n",
				t.ID, t.UniqueID, name, formatDate(t.Start), formatDate(t.Finish), formatDuration(t.Duration))
		}
	}

	if len(p.Resources) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "ID\tUID\tRESOURCE\tMAX UNITS\tRATE")
		for _, r := range p.Resources {
			fmt.Fprintf(w, "%d\t%d\t%s\t%.0f%%\t%.2f\n", r.ID, r.UniqueID, r.Name, r.MaxUnits*100, r.StandardRate)
		}
	}

	if len(p.Relations) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "PREDECESSOR\tSUCCESSOR\tTYPE\tLAG")
		for _, r := range p.Relations {
			fmt.Fprintf(w, "%d\t%d\t%s\t%s\n", r.PredecessorUniqueID, r.SuccessorUniqueID, r.Type, r.Lag)
		}
	}

	for _, group := range []struct {
		title string
		names []string
	}{
		{"Views", p.Views},
		{"Tables", p.Tables},
		{"Filters", p.Filters},
		{"Groups", p.Groups},
	} {
		if len(group.names) > 0 {
			fmt.Fprintf(w, "\n%s:\t%s\n", group.title, strings.Join(group.names, ", "))
		}
	}

	return w.Flush()
}

func writeStats(out io.Writer, s *procutils.Snapshot) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "PID:\t%d\n", s.PID)
	fmt.Fprintf(w, "RSS:\t%d KiB\n", s.RSS/1024)
	fmt.Fprintf(w, "VMS:\t%d KiB\n", s.VMS/1024)
	fmt.Fprintf(w, "Threads:\t%d\n", s.Threads)
	fmt.Fprintf(w, "CPU:\t%s user, %s system\n", s.UserTime, s.SystemTime)
	fmt.Fprintf(w, "State:\t%s\n", s.State)
	return w.Flush()
}
