package report

import (
	"math/rand"
	"testing"
	"time"

	"golang.org/x/text/language"

	"github.com/mwiater/perfreport/internal/capture"
)

func testEnv(t *testing.T, counters, ratios, throughputs capture.MetricSet, opts MetricsOptions) *Env {
	t.Helper()
	return &Env{
		Metrics:           NewMetrics(counters, ratios, throughputs, opts),
		Format:            NewFormatter(language.AmericanEnglish),
		Device:            capture.Device{GPUName: "Test GPU"},
		SecondsSinceEpoch: 1700000000,
		Location:          time.UTC,
	}
}

func testCatalog(t *testing.T) *Catalog {
	t.Helper()
	cat, err := DefaultCatalog()
	if err != nil {
		t.Fatalf("DefaultCatalog error: %v", err)
	}
	return cat
}

// Every table must look up exactly the metrics it declares. Dummy values keep
// every breakdown node expanded.
func TestRangeTablesReferenceDeclaredMetrics(t *testing.T) {
	cat := testCatalog(t)
	env := testEnv(t, nil, nil, nil, MetricsOptions{Debug: true, PopulateDummyValues: true, Rand: rand.New(rand.NewSource(7))})
	_, debug := buildSections("test", RangeSections(cat), env)
	if len(debug) == 0 {
		t.Fatalf("expected debug sections")
	}
	for _, s := range debug {
		for _, l := range s.Lists {
			if l.Mismatch() {
				t.Errorf("%s: referenced %v, declared %v", l.Title, l.Names, l.Expected)
			}
		}
	}
}

func TestAllMetricsTablesHaveNoDebugSection(t *testing.T) {
	cat := testCatalog(t)
	env := testEnv(t, nil, nil, nil, MetricsOptions{Debug: true})
	_, debug := buildSections("test", RangeSections(cat), env)
	for _, s := range debug {
		if allMetricsTable(s.Table) {
			t.Fatalf("unexpected debug section for %s", s.Table)
		}
	}
}

func TestTopThroughputsSortedDescending(t *testing.T) {
	cat := &Catalog{TopThroughputs: []TopThroughput{
		{Category: "A", Name: "low", Throughput: "low__throughput"},
		{Category: "B", Name: "missing", Throughput: "missing__throughput"},
		{Category: "C", Name: "high", Throughput: "high__throughput"},
		{Category: "D", Name: "mid", Throughput: "mid__throughput"},
	}}
	throughputs := capture.MetricSet{
		"low__throughput":  sub(map[string]float64{"avg.pct_of_peak_sustained_elapsed": 5}),
		"high__throughput": sub(map[string]float64{"avg.pct_of_peak_sustained_elapsed": 90}),
		"mid__throughput":  sub(map[string]float64{"avg.pct_of_peak_sustained_elapsed": 40}),
	}
	env := testEnv(t, nil, nil, throughputs, MetricsOptions{})
	table := topThroughputsGenerator(cat).Build(env)
	var order []string
	for _, row := range table.Body {
		order = append(order, row[1].Display.Text)
	}
	want := []string{"high", "mid", "low", "missing"}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("row order = %v, want %v", order, want)
		}
	}
}

func TestWarpIssueStallsSortedDescending(t *testing.T) {
	counters := capture.MetricSet{
		"smsp__warps_active":                        sub(map[string]float64{"avg": 100}),
		"smsp__warps_issue_stalled_long_scoreboard": sub(map[string]float64{"avg": 60}),
		"smsp__warps_issue_stalled_barrier":         sub(map[string]float64{"avg": 30}),
	}
	env := testEnv(t, counters, nil, nil, MetricsOptions{})
	table := warpIssueStallsGenerator().Build(env)
	if got := table.Body[0][1].Display.Text; got != "Total" {
		t.Fatalf("first row = %q, want Total", got)
	}
	if got := table.Body[1][1].Display.Text; got != "Long Scoreboard" {
		t.Fatalf("second row = %q, want Long Scoreboard", got)
	}
	if got := table.Body[2][1].Display.Text; got != "Barrier" {
		t.Fatalf("third row = %q, want Barrier", got)
	}
	if got := table.Body[1][2].Display.Text; got != "60.0" {
		t.Fatalf("long scoreboard pct = %q, want 60.0", got)
	}
}

func TestTopLevelStatsCategoryRowSpans(t *testing.T) {
	env := testEnv(t, nil, nil, nil, MetricsOptions{})
	table := topLevelStatsGenerator().Build(env)
	first := table.Body[5][0]
	if first.Display.Text != "Shader" || first.RowSpan != 5 {
		t.Fatalf("Shader category cell = %+v, want rowspan 5", first)
	}
	if got := table.Body[6][0].Display.Text; got != "SM Active Cycles - 3D" {
		t.Fatalf("continuation row should start with the name, got %q", got)
	}
}

func TestDevicePropertiesUnitCounts(t *testing.T) {
	counters := capture.MetricSet{
		"sm__cycles_elapsed":  sub(map[string]float64{"sum": 8400, "avg": 100}),
		"lts__cycles_elapsed": sub(map[string]float64{"sum": 4850, "avg": 100}),
	}
	env := testEnv(t, counters, nil, nil, MetricsOptions{})
	table := devicePropertiesGenerator(testCatalog(t)).Build(env)
	values := map[string]string{}
	for _, row := range table.Body {
		values[row[0].Display.Text] = row[1].Display.Text
	}
	if values["# SMs"] != "84" {
		t.Fatalf("# SMs = %q", values["# SMs"])
	}
	// 48.5 units round half up to 49.
	if values["L2 Cache Size (KiB)"] != "6272" {
		t.Fatalf("L2 size = %q", values["L2 Cache Size (KiB)"])
	}
	if values["GPU Name"] != "Test GPU" || values["Chip Name"] != capture.DefaultChipName {
		t.Fatalf("device defaults not applied: %v", values)
	}
	if values["Date & Time"] != "Nov 14, 2023 22:13:20" {
		t.Fatalf("date = %q", values["Date & Time"])
	}
}

func TestSmResourceUsageLayouts(t *testing.T) {
	env := testEnv(t, nil, nil, nil, MetricsOptions{})
	table := smResourceUsageGenerator(testCatalog(t)).Build(env)
	width := func(r Row) int {
		n := 0
		for _, c := range r {
			if c.ColSpan > 0 {
				n += c.ColSpan
			} else {
				n++
			}
		}
		return n
	}
	for i, row := range table.Body {
		if got := width(row); got != 13 {
			t.Fatalf("row %d (%s) spans %d columns, want 13", i, row[0].Display.Text, got)
		}
	}
	registers := table.Body[1]
	if !registers[4].Trusted || registers[4].ColSpan != 3 {
		t.Fatalf("combined VTG+PS cell expected, got %+v", registers[4])
	}
	ctas := table.Body[3]
	if ctas[1].Display.Mark != NotAvailable || ctas[1].ColSpan != 3 {
		t.Fatalf("CTAs total should be NotAvailable over 3 columns, got %+v", ctas[1])
	}
}

func TestSmWarpLaunchStallsComputeAnyIsMax(t *testing.T) {
	counters := capture.MetricSet{
		"tpc__warp_launch_cycles_stalled_shader_cs_reason_warp_allocation":     sub(map[string]float64{"avg.pct_of_peak_sustained_elapsed": 10}),
		"tpc__warp_launch_cycles_stalled_shader_cs_reason_register_allocation": sub(map[string]float64{"avg.pct_of_peak_sustained_elapsed": 35}),
		"tpc__warp_launch_cycles_stalled_shader_cs_reason_shmem_allocation":    sub(map[string]float64{"avg.pct_of_peak_sustained_elapsed": 20}),
		"tpc__warp_launch_cycles_stalled_shader_cs_reason_cta_allocation":      sub(map[string]float64{"avg.pct_of_peak_sustained_elapsed": 5}),
	}
	env := testEnv(t, counters, nil, nil, MetricsOptions{})
	table := smWarpLaunchStallsGenerator().Build(env)
	cs := table.Body[len(table.Body)-1]
	if cs[0].Display.Text != "Compute Shader" {
		t.Fatalf("last row = %q", cs[0].Display.Text)
	}
	if got := cs[1].Display.Text; got != "35.0" {
		t.Fatalf("compute any-reason pct = %q, want max 35.0", got)
	}
	vs := table.Body[0]
	if vs[3].Display.Mark != NotApplicable {
		t.Fatalf("VS warp alloc should be NotApplicable, got %+v", vs[3])
	}
}

func TestAllCountersListsLookedUpMetrics(t *testing.T) {
	counters := capture.MetricSet{"z__counter": sub(map[string]float64{"sum": 1})}
	env := testEnv(t, counters, nil, nil, MetricsOptions{})
	env.Metrics.CounterPct("a__counter")
	table := allCountersGenerator().Build(env)
	if len(table.Body) != 2 {
		t.Fatalf("expected 2 counters, got %d", len(table.Body))
	}
	if table.Body[0][0].Display.Text != "a__counter" || table.Body[1][0].Display.Text != "z__counter" {
		t.Fatalf("counters not sorted by name: %q, %q", table.Body[0][0].Display.Text, table.Body[1][0].Display.Text)
	}
}

func TestAdditionalMetricsHasNoTable(t *testing.T) {
	env := testEnv(t, nil, nil, nil, MetricsOptions{})
	if table := additionalMetricsGenerator().Build(env); table != nil {
		t.Fatalf("expected no table, got %+v", table)
	}
	if names := env.Metrics.Names(capture.Throughput); len(names) != 2 {
		t.Fatalf("expected looked-up throughputs to be registered, got %v", names)
	}
}

func TestRangesSummaryDummyRanges(t *testing.T) {
	cat := testCatalog(t)
	enabled := true
	p := &capture.SummaryPayload{
		PopulateDummyValues: &enabled,
		Ranges:              []string{"Frame"},
		RangeFileNames:      []string{"00000_Frame.html"},
	}
	env := testEnv(t, nil, nil, nil, MetricsOptions{PopulateDummyValues: true, Rand: rand.New(rand.NewSource(3))})
	table := rangesSummaryGenerator(cat, p).Build(env)
	if len(table.Body) != 1+len(dummyRanges) {
		t.Fatalf("expected %d rows, got %d", 1+len(dummyRanges), len(table.Body))
	}
	first := table.Body[0]
	if first[0].SortKey != "0" || first[1].SortKey != "Frame" {
		t.Fatalf("unexpected sort keys %q %q", first[0].SortKey, first[1].SortKey)
	}
	if got := string(first[1].Content()); got != `<a href="00000_Frame.html">Frame</a>` {
		t.Fatalf("full name link = %s", got)
	}
	if len(first) != 2+len(cat.SummaryColumns) {
		t.Fatalf("row has %d cells", len(first))
	}
}

func TestCollectionInfo(t *testing.T) {
	disabled := false
	p := &capture.SummaryPayload{PopulateDummyValues: &disabled, Ranges: []string{"a", "b"}}
	env := testEnv(t, nil, nil, nil, MetricsOptions{})
	table := collectionInfoGenerator(p).Build(env)
	if got := table.Body[3][1].Display.Text; got != "2" {
		t.Fatalf("#Ranges = %q", got)
	}
}
