// internal/report/metrics.go
package report

import (
	"math"
	"math/rand"
	"sort"

	"github.com/mwiater/perfreport/internal/capture"
)

const (
	pctOfPeakSubmetric = "avg.pct_of_peak_sustained_elapsed"
	ratioPctSubmetric  = "pct"
)

// Metrics answers value lookups for one range. Lookups of values that were
// not recorded are memoized, so every table of a page sees the same value
// and the All-* tables list every metric any table asked for.
type Metrics struct {
	sets     [3]map[string]map[string]float64
	dimUnits map[string]string

	debug      bool
	dummy      bool
	rng        *rand.Rand
	referenced [3]map[string]struct{}
}

// MetricsOptions controls missing-value and debug behavior.
type MetricsOptions struct {
	// Debug records every looked-up base name.
	Debug bool
	// PopulateDummyValues replaces missing values with random numbers in [0,100).
	PopulateDummyValues bool
	// Rand drives dummy values. A nil Rand uses a time-seeded source.
	Rand *rand.Rand
}

// NewMetrics returns a lookup store over copies of the given sets.
func NewMetrics(counters, ratios, throughputs capture.MetricSet, opts MetricsOptions) *Metrics {
	m := &Metrics{
		debug: opts.Debug,
		dummy: opts.PopulateDummyValues,
		rng:   opts.Rand,
	}
	if m.rng == nil {
		m.rng = rand.New(rand.NewSource(rand.Int63()))
	}
	m.ResetReferenced()
	m.Use(counters, ratios, throughputs)
	return m
}

// Use replaces the metric sets the store answers from. Referenced names are
// kept.
func (m *Metrics) Use(counters, ratios, throughputs capture.MetricSet) {
	m.dimUnits = make(map[string]string)
	for i, set := range []capture.MetricSet{counters, ratios, throughputs} {
		m.sets[i] = make(map[string]map[string]float64, len(set))
		for base, sub := range set {
			values := make(map[string]float64, len(sub.Values))
			for name, v := range sub.Values {
				values[name] = v.Float()
			}
			m.sets[i][base] = values
			if capture.Kind(i) == capture.Counter && sub.DimUnits != nil {
				m.dimUnits[base] = *sub.DimUnits
			}
		}
	}
}

func (m *Metrics) lookup(kind capture.Kind, base Ref, sub string) Value {
	if mark := base.Mark(); mark != NoMark {
		return Marked(mark)
	}
	name := string(base)
	if kind != capture.Counter && name == "" {
		return NaN()
	}
	if m.debug {
		m.referenced[kind][name] = struct{}{}
	}
	values, ok := m.sets[kind][name]
	if !ok {
		values = make(map[string]float64)
		m.sets[kind][name] = values
	}
	v, ok := values[sub]
	if !ok {
		v = math.NaN()
		if m.dummy {
			v = m.rng.Float64() * 100
		}
		values[sub] = v
	}
	return Num(v)
}

// Counter returns a counter submetric.
func (m *Metrics) Counter(base Ref, sub string) Value { return m.lookup(capture.Counter, base, sub) }

// CounterPct returns a counter's percent of peak sustained rate.
func (m *Metrics) CounterPct(base Ref) Value { return m.Counter(base, pctOfPeakSubmetric) }

// CounterDimUnits returns a counter's dimensional units, or "" when unknown.
func (m *Metrics) CounterDimUnits(base Ref) string {
	if !base.Valid() {
		return ""
	}
	name := string(base)
	if m.debug {
		m.referenced[capture.Counter][name] = struct{}{}
	}
	if _, ok := m.sets[capture.Counter][name]; !ok {
		m.sets[capture.Counter][name] = make(map[string]float64)
	}
	return m.dimUnits[name]
}

// Ratio returns a ratio submetric. An empty name yields NaN.
func (m *Metrics) Ratio(base Ref, sub string) Value { return m.lookup(capture.Ratio, base, sub) }

// RatioPct returns a ratio as a percentage.
func (m *Metrics) RatioPct(base Ref) Value { return m.Ratio(base, ratioPctSubmetric) }

// Throughput returns a throughput submetric. An empty name yields NaN.
func (m *Metrics) Throughput(base Ref, sub string) Value {
	return m.lookup(capture.Throughput, base, sub)
}

// ThroughputPct returns a throughput's percent of peak sustained rate.
func (m *Metrics) ThroughputPct(base Ref) Value { return m.Throughput(base, pctOfPeakSubmetric) }

// Names returns every known base name of kind, sorted, including names that
// were only looked up.
func (m *Metrics) Names(kind capture.Kind) []string {
	names := make([]string, 0, len(m.sets[kind]))
	for name := range m.sets[kind] {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ResetReferenced clears the referenced-name sets.
func (m *Metrics) ResetReferenced() {
	for i := range m.referenced {
		m.referenced[i] = make(map[string]struct{})
	}
}

// Referenced returns the sorted base names of kind looked up since the last
// reset. It is empty unless debug is enabled.
func (m *Metrics) Referenced(kind capture.Kind) []string {
	names := make([]string, 0, len(m.referenced[kind]))
	for name := range m.referenced[kind] {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Debug reports whether referenced names are recorded.
func (m *Metrics) Debug() bool { return m.debug }
