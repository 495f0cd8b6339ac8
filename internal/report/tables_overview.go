// internal/report/tables_overview.go
package report

import (
	"math"
	"sort"
	"strconv"

	"github.com/mwiater/perfreport/internal/capture"
)

// jsNumber renders a raw number the way a browser prints it.
func jsNumber(x float64) string {
	switch {
	case math.IsNaN(x):
		return "NaN"
	case math.IsInf(x, 1):
		return "Infinity"
	case math.IsInf(x, -1):
		return "-Infinity"
	}
	return strconv.FormatFloat(x, 'f', -1, 64)
}

// roundHalfUp rounds halves toward positive infinity.
func roundHalfUp(x float64) float64 { return math.Floor(x + 0.5) }

func unitCount(m *Metrics, counter Ref) float64 {
	return roundHalfUp(SafeDiv(m.Counter(counter, "sum").Float(), m.Counter(counter, "avg").Float()))
}

func devicePropertiesGenerator(cat *Catalog) Generator {
	return Generator{
		Name:     "DeviceProperties",
		Required: capture.Selection{Counters: []string{"lts__cycles_elapsed", "sm__cycles_elapsed"}},
		Build: func(env *Env) *Table {
			smCount := unitCount(env.Metrics, "sm__cycles_elapsed")
			ltsCount := unitCount(env.Metrics, "lts__cycles_elapsed")
			device := env.Device.WithDefaults()
			t := newTable("Device-Properties", "tbody_device_properties",
				[]HeaderCell{thSpan("ca tablename", 2, "Device Properties")},
				[]HeaderCell{th("la", "Name"), th("la", "Value")},
			)
			rows := []struct{ name, value string }{
				{"Date & Time", TimeToStr(env.SecondsSinceEpoch, env.Location)},
				{"GPU Name", device.GPUName},
				{"Chip Name", device.ChipName},
				{"Clock Locking Status", device.ClockLockingStatus},
				{"# SMs", jsNumber(smCount)},
				{"L2 Cache Size (KiB)", jsNumber(ltsCount * cat.L2CacheSizePerLTS)},
			}
			for _, r := range rows {
				t.add(textCell("la subhdr", r.name), textCell("ra", r.value))
			}
			return t
		},
	}
}

func clocksGenerator() Generator {
	type clockRow struct {
		name      string
		counter   Ref
		timeSub   string
		timeUnits string
		freqScale float64
		freqUnits string
	}
	rows := []clockRow{
		{"Time Duration", "gpu__time_duration", "sum", "ns", 0, ""},
		{"SYS Clock", "sys__cycles_elapsed", "avg", "sys_clks", 1e-6, "MHz"},
		{"GPC Clock", "gpc__cycles_elapsed", "avg", "gpc_clks", 1e-6, "MHz"},
		{"L2 Clock", "lts__cycles_elapsed", "avg", "lts_clks", 1e-6, "MHz"},
		{"Memory Clock", "dram__cycles_elapsed", "avg", "dram_clks", 2e-6, "MT/s"},
	}
	return Generator{
		Name: "Clocks",
		Required: capture.Selection{Counters: []string{
			"dram__cycles_elapsed",
			"gpc__cycles_elapsed",
			"gpu__time_duration",
			"lts__cycles_elapsed",
			"sys__cycles_elapsed",
		}},
		Build: func(env *Env) *Table {
			t := newTable("Device-Clocks", "tbody_device_clocks",
				[]HeaderCell{thSpan("ca tablename", 5, "Device Clocks Measured")},
				[]HeaderCell{th("la", "Name"), th("ra", "Elapsed Time"), th("ra", "Time Units"), th("ra", "Avg. Frequency"), th("ra", "Freq Units")},
			)
			for _, r := range rows {
				elapsed := env.Metrics.Counter(r.counter, r.timeSub)
				freq := Marked(NotApplicable)
				if r.freqScale != 0 {
					scale := r.freqScale
					freq = env.Metrics.Counter(r.counter, "avg.per_second").Map(func(x float64) float64 { return x * scale })
				}
				t.add(
					textCell("la subhdr", r.name),
					cell("ra", env.Format.Sum(elapsed, defaultDigit)),
					textCell("ra", r.timeUnits),
					cell("ra", env.Format.Sum(freq, defaultDigit)),
					textCell("ra", r.freqUnits),
				)
			}
			return t
		},
	}
}

func mainMemoryGenerator() Generator {
	type memoryRow struct {
		name       string
		bytes      Ref
		throughput Ref
	}
	rows := []memoryRow{
		{"DRAM Total", RefNotAvailable, "dram__throughput"},
		{"DRAM Reads", RefNotAvailable, "dram__read_throughput"},
		{"DRAM Writes", RefNotAvailable, "dram__write_throughput"},
		{"PCIe Reads", "pcie__read_bytes", ""},
		{"PCIe Writes", "pcie__write_bytes", ""},
	}
	return Generator{
		Name: "MainMemory",
		Workflow: `Main Memory Throughput:
Observe the bandwidth utilization per main memory region.
`,
		Required: capture.Selection{
			Counters:    []string{"pcie__read_bytes", "pcie__write_bytes"},
			Throughputs: []string{"dram__read_throughput", "dram__throughput", "dram__write_throughput"},
		},
		Build: func(env *Env) *Table {
			t := newTable("Main-Memory-Throughput", "tbody_main_memory",
				[]HeaderCell{thSpan("la tablename", 3, "Main Memory Throughput"), thSpan("ca", 2, "%-of-peak")},
				[]HeaderCell{th("la", "Name"), th("ra", "Bytes"), th("ra", "GB/s"), th("ra", "%"), thBar()},
			)
			for _, r := range rows {
				bytes := env.Metrics.Counter(r.bytes, "sum")
				perSecond := env.Metrics.Counter(r.bytes, "sum.per_second").Map(func(x float64) float64 { return x * 1e-9 })
				var pct Value
				if r.throughput != "" {
					pct = env.Metrics.ThroughputPct(r.throughput)
				} else {
					pct = env.Metrics.CounterPct(r.bytes)
				}
				t.add(append([]Cell{
					textCell("la subhdr", r.name),
					cell("ra", env.Format.Sum(bytes, defaultDigit)),
					cell("ra", env.Format.Avg(perSecond, defaultDigit)),
				}, env.pctCells(pct)...)...)
			}
			return t
		},
	}
}

func topLevelStatsGenerator() Generator {
	type statRow struct {
		category    string
		name        string
		counter     Ref
		sub         string
		pct         bool
		description string
	}
	rows := []statRow{
		{"3D+Compute", "GR Engine Active", "gr__cycles_active", "avg", true, "The GR Engine executes all 3D and Compute workloads."},
		{"3D", "Hardware Draw Calls", "fe__draw_count", "sum", false, "HW draw count may exceed API draw calls, and may include clears."},
		{"Compute", "Hardware Compute Dispatches", "gr__dispatch_count", "sum", false, "HW dispatch count may exceed API dispatches."},
		{"Stalls", "Wait For Idle Commands", "fe__output_ops_type_bundle_cmd_go_idle", "sum", false, "Wait-for-idle commands stall the GPU Front End between commands."},
		{"Stalls", "Pixel Shader Barriers", "fe__pixel_shader_barriers", "sum", false, "Pixel shader barriers stall the PROP unit between draw calls."},
		{"Shader", "SM Active Cycles", "sm__cycles_active", "avg", true, "Indicates when shaders were running."},
		{"Shader", "SM Active Cycles - 3D", "tpc__cycles_active_shader_3d", "avg", true, "Indicates when 3D shaders were running.  May overlap with compute."},
		{"Shader", "SM Active Cycles - Compute", "sm__cycles_active_shader_cs", "avg", true, "Indicates when compute shaders were running.  May overlap with 3D."},
		{"Shader", "SM Instruction Issue Cycles", "sm__issue_active", "avg", true, "Indicates how often an SM issued instructions, on average."},
		{"Shader", "Warp Occupancy (per SM)", "sm__warps_active", "avg.per_cycle_elapsed", true, "Resident warps per SM, on average.  Low occupancy is only a problem when Issue Active% is low."},
	}
	return Generator{
		Name: "TopLevelStats",
		Workflow: `Top-Level Stats:
This table and Top Throughputs provide an overview of the type of workload executed.
If GR Engine Active% is not close to 100%, the range is likely starved by the CPU; use a trace tool to improve that, before returning to low-level GPU profiling.
`,
		Required: capture.Selection{Counters: []string{
			"fe__draw_count",
			"fe__output_ops_type_bundle_cmd_go_idle",
			"fe__pixel_shader_barriers",
			"gr__cycles_active",
			"gr__dispatch_count",
			"sm__cycles_active",
			"sm__cycles_active_shader_cs",
			"sm__issue_active",
			"sm__warps_active",
			"tpc__cycles_active_shader_3d",
		}},
		Build: func(env *Env) *Table {
			t := newTable("Top-Level-Stats", "tbody_top_level_stats",
				[]HeaderCell{thSpan("ca tablename", 3, "Top-Level Stats"), thSpan("ca", 2, "%-of-Peak"), thSpan("ca", 1, "")},
				[]HeaderCell{th("la", "Category"), th("la", "Name"), th("ra", "Value"), th("ra", "%"), thBar(), th("la", "Description")},
			)
			for i, r := range rows {
				value := env.Metrics.Counter(r.counter, r.sub)
				pct := Marked(NotApplicable)
				if r.pct {
					pct = env.Metrics.CounterPct(r.counter)
				}
				var cells []Cell
				if span := CalcRowSpan(len(rows), i, func(j int) string { return rows[j].category }); span > 0 {
					cells = append(cells, textCell("la subhdr", r.category).spans(span, 0))
				}
				cells = append(cells, textCell("la subhdr", r.name), cell("ra", env.Format.Avg(value, defaultDigit)))
				cells = append(cells, env.pctCells(pct)...)
				cells = append(cells, rawCell("la subhdr", r.description))
				t.add(cells...)
			}
			return t
		},
	}
}

func topThroughputsGenerator(cat *Catalog) Generator {
	required := make([]string, 0, len(cat.TopThroughputs))
	for _, r := range cat.TopThroughputs {
		required = append(required, r.Throughput)
	}
	return Generator{
		Name: "TopThroughputs",
		Workflow: `Top Throughputs:
Observe the most utilized hardware units, and navigate to their corresponding sections for more details.  The rows are sorted; the first row always has the highest utilization.
If all unit throughputs are less than 60%, check whether the range is starvation-limited (low <a href="#Top-Level-Stats">GR Engine Active%</a>).
If not starvation-limited, conclude that the workload is latency-limited.  Investigate <a href="#L2-Sector-Traffic">L2 Sector Traffic</a> and <a href="#SM-Warp-Issue-Stall-Reasons">SM Warp Issue Stall Reasons</a> for additional clues.
`,
		Required: capture.Selection{Throughputs: required},
		Build: func(env *Env) *Table {
			type row struct {
				TopThroughput
				pct Value
			}
			rows := make([]row, 0, len(cat.TopThroughputs))
			for _, r := range cat.TopThroughputs {
				rows = append(rows, row{r, env.Metrics.ThroughputPct(Ref(r.Throughput))})
			}
			sort.SliceStable(rows, func(i, j int) bool {
				return CompareNumbers(rows[j].pct.Float(), rows[i].pct.Float()) < 0
			})
			t := newTable("Top-Throughputs", "tbody_top_throughputs",
				[]HeaderCell{thSpan("la tablename", 2, "Top Throughputs"), thSpan("ca", 2, "%-of-Peak")},
				[]HeaderCell{th("la", "Category"), th("la", "Throughput Name"), th("ra", "%"), thBar()},
			)
			for _, r := range rows {
				t.add(append([]Cell{textCell("la subhdr", r.Category), rawCell("la subhdr", r.Name)}, env.pctCells(r.pct)...)...)
			}
			return t
		},
	}
}

func cacheHitRatesGenerator() Generator {
	rows := []struct {
		category string
		name     string
		ratio    Ref
	}{
		{"Indexed Constants", "IDC Cache Hit-Rate %", "idc__request_hit_rate"},
		{"Local, Global, Texture, Surface", "L1TEX Cache Hit-Rate %", "l1tex__t_sector_hit_rate"},
		{"All Cached Memory", "L2 Cache Hit-Rate %", "lts__t_sector_hit_rate"},
	}
	return Generator{
		Name: "CacheHitRates",
		Workflow: `Cache Hit-Rates:
Before considering cache hit-rates to be a problem, first determine if the corresponding unit throughput is high, or if the cache is a source of <a href="#SM-Warp-Issue-Stall-Reasons">warp stall cycles</a>.
`,
		Required: capture.Selection{Ratios: []string{"idc__request_hit_rate", "l1tex__t_sector_hit_rate", "lts__t_sector_hit_rate"}},
		Build: func(env *Env) *Table {
			t := newTable("Cache-Hit-Rates", "tbody_cache_hit_rates",
				[]HeaderCell{thSpan("ca tablename", 2, "Cache Hit-Rates"), thSpan("ca", 2, "Hit-Rates%")},
				[]HeaderCell{th("la", "Memory Spaces"), th("la", "Name"), th("ra", "All Ops%"), thBar()},
			)
			for _, r := range rows {
				pct := env.Metrics.RatioPct(r.ratio)
				t.add(append([]Cell{textCell("la subhdr", r.category), textCell("la subhdr", r.name)}, env.pctCells(pct)...)...)
			}
			return t
		},
	}
}
