package autoconfigure

import (
	"fmt"
	"strings"
	"time"
)

// ReportEntry is the outcome of one auto-configuration.
type ReportEntry struct {
	Name     string
	Matched  bool
	Message  string
	Err      error
	Duration time.Duration
}

// Report is the condition evaluation report of a run, in run order.
type Report struct {
	Entries []ReportEntry
}

func (r *Report) add(e ReportEntry) {
	r.Entries = append(r.Entries, e)
}

// Entry returns the entry for name.
func (r *Report) Entry(name string) (ReportEntry, bool) {
	for _, e := range r.Entries {
		if e.Name == name {
			return e, true
		}
	}
	return ReportEntry{}, false
}

// Matched lists the names whose condition held.
func (r *Report) Matched() []string {
	var names []string
	for _, e := range r.Entries {
		if e.Matched {
			names = append(names, e.Name)
		}
	}
	return names
}

// Skipped lists the names whose condition did not hold.
func (r *Report) Skipped() []string {
	var names []string
	for _, e := range r.Entries {
		if !e.Matched {
			names = append(names, e.Name)
		}
	}
	return names
}

// String renders one line per entry.
func (r *Report) String() string {
	var b strings.Builder
	for _, e := range r.Entries {
		status := "matched"
		if !e.Matched {
			status = "skipped"
		}
		if e.Err != nil {
			status = "failed"
		}
		fmt.Fprintf(&b, "%-16s %-8s %s", e.Name, status, e.Message)
		if e.Err != nil {
			fmt.Fprintf(&b, " (%v)", e.Err)
		}
		b.WriteString("\n")
	}
	return b.String()
}
