// internal/report/debug.go
package report

import (
	"fmt"
	"slices"
	"sort"

	"github.com/mwiater/perfreport/internal/capture"
	"github.com/mwiater/perfreport/internal/logging"
)

// DebugList is the referenced-metric list of one category for one table.
type DebugList struct {
	Title    string
	BodyID   string
	Names    []string
	Expected []string
}

// Mismatch reports whether the table looked up a different set of metrics
// than it declares as required.
func (l DebugList) Mismatch() bool { return !slices.Equal(l.Names, l.Expected) }

// Rows renders the names the way a required list is written in source.
func (l DebugList) Rows() []string {
	rows := make([]string, len(l.Names))
	for i, n := range l.Names {
		rows[i] = fmt.Sprintf("'%s',", n)
	}
	return rows
}

// DebugSection holds the three referenced-metric lists of one table.
type DebugSection struct {
	Table string
	Lists []DebugList
}

// Mismatch reports whether any list differs from its declaration.
func (s DebugSection) Mismatch() bool {
	for _, l := range s.Lists {
		if l.Mismatch() {
			return true
		}
	}
	return false
}

var debugCategories = []struct {
	kind  capture.Kind
	title string
	id    string
}{
	{capture.Counter, "Required Counters", "counters"},
	{capture.Ratio, "Required Ratios", "ratios"},
	{capture.Throughput, "Required Throughputs", "throughputs"},
}

func sortedUnique(names []string) []string {
	out := make([]string, 0, len(names))
	seen := make(map[string]bool, len(names))
	for _, n := range names {
		if !seen[n] {
			seen[n] = true
			out = append(out, n)
		}
	}
	sort.Strings(out)
	return out
}

// checkRequired compares what g looked up since the last reset with what it
// declares, logging every category that differs.
func checkRequired(page string, g Generator, m *Metrics) DebugSection {
	section := DebugSection{Table: g.Name}
	for _, c := range debugCategories {
		l := DebugList{
			Title:    fmt.Sprintf("%s: %s", g.Name, c.title),
			BodyID:   fmt.Sprintf("tbody_required_%s_%s", c.id, g.Name),
			Names:    m.Referenced(c.kind),
			Expected: sortedUnique(g.Required.Names(c.kind)),
		}
		if l.Mismatch() {
			logging.LogReport("mismatch", page, g.Name, map[string]any{
				"category": c.kind.String(),
				"actual":   l.Names,
				"declared": l.Expected,
			})
		}
		section.Lists = append(section.Lists, l)
	}
	return section
}
