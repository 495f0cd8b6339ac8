// internal/report/tables_all.go
package report

import (
	"github.com/mwiater/perfreport/internal/capture"
)

var additionalMetrics = capture.Selection{
	Counters: []string{
		"idc__requests",
		"idc__requests_lookup_hit",
		"idc__requests_lookup_miss",
		"l1tex__data_pipe_lsu_wavefronts_mem_lg",
		"l1tex__data_pipe_lsu_wavefronts_mem_shared",
		"l1tex__data_pipe_lsu_wavefronts_mem_surface",
		"l1tex__data_pipe_tex_wavefronts_mem_surface",
		"l1tex__data_pipe_tex_wavefronts_mem_texture",
		"l1tex__lsu_writeback_active",
		"l1tex__lsuin_requests",
		"l1tex__tex_writeback_active",
		"l1tex__texin_cycles_stalled_on_tsl1_miss",
		"l1tex__texin_requests",
		"l1tex__texin_sm2tex_req_cycles_active",
		"sm__mio_pq_read_cycles_active",
		"sm__mio_pq_write_cycles_active",
		"sm__mio2rf_writeback_active",
		"sm__ps_quads_launched",
		"smsp__thread_inst_executed",
		"smsp__thread_inst_executed_pred_off",
		"smsp__thread_inst_executed_pred_on",
		"smsp__warps_eligible",
	},
	Ratios:      []string{"smsp__amortized_warp_latency"},
	Throughputs: []string{"l1tex__m_l1tex2xbar_throughput", "l1tex__m_xbar2l1tex_throughput"},
}

// additionalMetricsGenerator draws nothing. It only looks metrics up so they
// show in the All-* tables.
func additionalMetricsGenerator() Generator {
	return Generator{
		Name:     "AdditionalMetrics",
		Required: additionalMetrics,
		Build: func(env *Env) *Table {
			m := env.Metrics
			for _, name := range additionalMetrics.Counters {
				m.CounterPct(Ref(name))
			}
			for _, name := range additionalMetrics.Ratios {
				m.RatioPct(Ref(name))
			}
			for _, name := range additionalMetrics.Throughputs {
				m.ThroughputPct(Ref(name))
			}
			return nil
		},
	}
}

func allCountersGenerator() Generator {
	return Generator{
		Name: "AllCounters",
		Build: func(env *Env) *Table {
			t := newTable("All-Counters", "tbody_all_counters",
				[]HeaderCell{
					thSpan("la tablename", 3, "All Counters"),
					thSpan("ca", 3, "Per Unit Instance (avg)"),
					thSpan("ca", 2, "Total (sum)"),
					{Class: "ca", RowSpan: 2, Text: `<a href="https://en.wikipedia.org/wiki/Dimensional_analysis" target="_blank">Dimensional Units</a>`},
				},
				[]HeaderCell{th("la", "Counter Name"), th("ra", "%"), thBar(), th("ra", "value"), th("ra", "per-cycle"), th("ra", "peak per-cycle"), th("ra", "value"), th("ra", "per-second")},
			)
			m := env.Metrics
			for _, name := range m.Names(capture.Counter) {
				ref := Ref(name)
				sum := m.Counter(ref, "sum")
				perSecond := m.Counter(ref, "sum.per_second")
				avg := m.Counter(ref, "avg")
				pct := m.CounterPct(ref)
				perCycle := m.Counter(ref, "avg.per_cycle_elapsed")
				peak := m.Counter(ref, "avg.peak_sustained")
				cells := []Cell{textCell("la subhdr", name)}
				cells = append(cells, env.pctCells(pct)...)
				cells = append(cells,
					cell("ra", env.Format.Avg(avg, defaultDigit)),
					cell("ra", env.Format.Avg(perCycle, 2)),
					cell("ra", env.Format.Avg(peak, 2)),
					cell("ra", env.Format.Sum(sum, defaultDigit)),
					cell("ra", env.Format.Sum(perSecond, defaultDigit)),
					textCell("ra", m.CounterDimUnits(ref)),
				)
				t.add(cells...)
			}
			return t
		},
	}
}

func allRatiosGenerator() Generator {
	return Generator{
		Name: "AllRatios",
		Build: func(env *Env) *Table {
			t := newTable("All-Ratios", "tbody_all_ratios",
				[]HeaderCell{thSpan("la tablename", 3, "All Ratio Metrics"), thSpan("ca", 2, "Data")},
				[]HeaderCell{th("la", "Ratio Name"), th("ra", "%"), thBar(), th("ra", "ratio"), th("ra", "Max Rate")},
			)
			m := env.Metrics
			for _, name := range m.Names(capture.Ratio) {
				ref := Ref(name)
				pct := m.RatioPct(ref)
				t.add(
					textCell("la subhdr", name),
					cell("ra", env.Format.Pct(pct, 2)),
					textCell("la comp", ToBarChart(pct, BarChar)),
					cell("ra", env.Format.Avg(m.Ratio(ref, "ratio"), defaultDigit)),
					cell("ra", env.Format.Avg(m.Ratio(ref, "max_rate"), 4)),
				)
			}
			return t
		},
	}
}

func allThroughputsGenerator() Generator {
	return Generator{
		Name: "AllThroughputs",
		Build: func(env *Env) *Table {
			t := newTable("All-Throughputs", "tbody_all_throughputs",
				[]HeaderCell{thSpan("la tablename", 3, "All Throughput Metrics")},
				[]HeaderCell{th("la", "Throughput Name"), th("ra", "%"), thBar()},
			)
			m := env.Metrics
			for _, name := range m.Names(capture.Throughput) {
				cells := []Cell{textCell("la subhdr", name)}
				t.add(append(cells, env.pctCells(m.ThroughputPct(Ref(name)))...)...)
			}
			return t
		},
	}
}
