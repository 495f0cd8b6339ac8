package report

import (
	"math"
	"math/rand"
	"reflect"
	"testing"

	"github.com/mwiater/perfreport/internal/capture"
)

func sub(values map[string]float64) capture.Submetrics {
	s := capture.Submetrics{Values: make(map[string]capture.Number, len(values))}
	for k, v := range values {
		s.Values[k] = capture.Number(v)
	}
	return s
}

func TestMetricsLookup(t *testing.T) {
	units := "cycle"
	active := sub(map[string]float64{"sum": 10, "avg.pct_of_peak_sustained_elapsed": 42})
	active.DimUnits = &units
	m := NewMetrics(
		capture.MetricSet{"gr__cycles_active": active},
		capture.MetricSet{"lts__t_sector_hit_rate": sub(map[string]float64{"pct": 80})},
		capture.MetricSet{"dram__throughput": sub(map[string]float64{"avg.pct_of_peak_sustained_elapsed": 12.5})},
		MetricsOptions{},
	)

	if got := m.Counter("gr__cycles_active", "sum").Float(); got != 10 {
		t.Fatalf("Counter sum = %v", got)
	}
	if got := m.CounterPct("gr__cycles_active").Float(); got != 42 {
		t.Fatalf("CounterPct = %v", got)
	}
	if got := m.RatioPct("lts__t_sector_hit_rate").Float(); got != 80 {
		t.Fatalf("RatioPct = %v", got)
	}
	if got := m.ThroughputPct("dram__throughput").Float(); got != 12.5 {
		t.Fatalf("ThroughputPct = %v", got)
	}
	if got := m.CounterDimUnits("gr__cycles_active"); got != "cycle" {
		t.Fatalf("CounterDimUnits = %q", got)
	}
	if got := m.CounterDimUnits("unknown__counter"); got != "" {
		t.Fatalf("unknown dim units = %q", got)
	}
	if got := m.Counter("missing", "sum").Float(); !math.IsNaN(got) {
		t.Fatalf("missing value = %v, want NaN", got)
	}
	if got := m.Ratio("", "pct").Float(); !math.IsNaN(got) {
		t.Fatalf("empty ratio name = %v, want NaN", got)
	}
	if got := m.Throughput("", "avg").Float(); !math.IsNaN(got) {
		t.Fatalf("empty throughput name = %v, want NaN", got)
	}
	if got := m.CounterPct(RefNotAvailable); got.Mark() != NotAvailable {
		t.Fatalf("marker name should return the marker, got %v", got)
	}
	if got := m.Ratio(RefNotApplicable, "pct"); got.Mark() != NotApplicable {
		t.Fatalf("marker name should return the marker, got %v", got)
	}
}

func TestMetricsDummyValuesAreMemoized(t *testing.T) {
	m := NewMetrics(nil, nil, nil, MetricsOptions{PopulateDummyValues: true, Rand: rand.New(rand.NewSource(1))})
	first := m.CounterPct("sm__cycles_active").Float()
	if first < 0 || first >= 100 {
		t.Fatalf("dummy value out of range: %v", first)
	}
	if again := m.CounterPct("sm__cycles_active").Float(); again != first {
		t.Fatalf("dummy value changed between lookups: %v then %v", first, again)
	}
	if names := m.Names(capture.Counter); !reflect.DeepEqual(names, []string{"sm__cycles_active"}) {
		t.Fatalf("looked-up names should be listed, got %v", names)
	}
}

func TestMetricsReferenced(t *testing.T) {
	m := NewMetrics(nil, nil, nil, MetricsOptions{Debug: true})
	m.Counter("b__counter", "sum")
	m.CounterPct("a__counter")
	m.CounterPct(RefNotApplicable)
	m.RatioPct("r__ratio")
	m.CounterDimUnits("c__counter")

	if got := m.Referenced(capture.Counter); !reflect.DeepEqual(got, []string{"a__counter", "b__counter", "c__counter"}) {
		t.Fatalf("referenced counters = %v", got)
	}
	if got := m.Referenced(capture.Ratio); !reflect.DeepEqual(got, []string{"r__ratio"}) {
		t.Fatalf("referenced ratios = %v", got)
	}
	m.ResetReferenced()
	if got := m.Referenced(capture.Counter); len(got) != 0 {
		t.Fatalf("expected empty set after reset, got %v", got)
	}
}

func TestMetricsReferencedRequiresDebug(t *testing.T) {
	m := NewMetrics(nil, nil, nil, MetricsOptions{})
	m.Counter("a__counter", "sum")
	if got := m.Referenced(capture.Counter); len(got) != 0 {
		t.Fatalf("references recorded without debug: %v", got)
	}
}

func TestMetricsUseKeepsInputUntouched(t *testing.T) {
	counters := capture.MetricSet{"a": sub(map[string]float64{"sum": 1})}
	m := NewMetrics(counters, nil, nil, MetricsOptions{})
	m.Counter("a", "avg")
	if _, ok := counters["a"].Values["avg"]; ok {
		t.Fatalf("memoized lookups must not write into the caller's metric set")
	}
	m.Use(capture.MetricSet{"b": sub(map[string]float64{"sum": 2})}, nil, nil)
	if got := m.Counter("b", "sum").Float(); got != 2 {
		t.Fatalf("Use did not switch sets, got %v", got)
	}
	if got := m.Counter("a", "sum").Float(); !math.IsNaN(got) {
		t.Fatalf("old set still visible after Use, got %v", got)
	}
}
