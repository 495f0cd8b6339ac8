// internal/capture/columns.go
package capture

import (
	"math"
	"sort"
)

// Column is one flattened metric value: kind, base metric and submetric.
type Column struct {
	Kind      Kind
	Base      string
	Submetric string
}

// Name returns the "base.submetric" label used in CSV headers.
func (c Column) Name() string {
	return c.Base + "." + c.Submetric
}

// Columns flattens every metric of every range into an ordered column list:
// counters, then ratios, then throughputs; base names and submetrics sorted.
// A nil selection keeps every metric.
func (c Capture) Columns(sel *Selection) []Column {
	var cols []Column
	for _, kind := range Kinds {
		subs := make(map[string]map[string]struct{})
		for _, r := range c.Ranges {
			set := r.Set(kind)
			if sel != nil {
				set = set.Select(sel.Names(kind))
			}
			for base, sm := range set {
				if subs[base] == nil {
					subs[base] = make(map[string]struct{})
				}
				for name := range sm.Values {
					subs[base][name] = struct{}{}
				}
			}
		}
		bases := make([]string, 0, len(subs))
		for base := range subs {
			bases = append(bases, base)
		}
		sort.Strings(bases)
		for _, base := range bases {
			names := make([]string, 0, len(subs[base]))
			for name := range subs[base] {
				names = append(names, name)
			}
			sort.Strings(names)
			for _, name := range names {
				cols = append(cols, Column{Kind: kind, Base: base, Submetric: name})
			}
		}
	}
	return cols
}

// Value returns the range's value for col, or NaN when it was not recorded.
func (r Range) Value(col Column) float64 {
	sm, ok := r.Set(col.Kind)[col.Base]
	if !ok {
		return math.NaN()
	}
	v, ok := sm.Values[col.Submetric]
	if !ok {
		return math.NaN()
	}
	return v.Float()
}
