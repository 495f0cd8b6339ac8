// internal/report/tables_shader.go
package report

import (
	"math"
	"sort"
	"strings"

	"github.com/mwiater/perfreport/internal/capture"
)

func smThroughputsGenerator(cat *Catalog) Generator {
	var required []string
	for _, p := range cat.SmPipes {
		required = append(required, p.counterNames()...)
	}
	return Generator{
		Name: "SmThroughputs",
		Workflow: `SM Instruction Throughput:
Determine which shader pipelines are limiting performance, and their corresponding shader instructions.
Since all pipelines execute in parallel, it is possible for multiple pipelines to reach 100% simultaneously.
`,
		Required: capture.Selection{Counters: required},
		Build: func(env *Env) *Table {
			t := newTable("SM-Instruction-Throughput", "tbody_sm_throughput",
				[]HeaderCell{thSpan("la tablename", 2, "SM Instruction Throughput"), thSpan("ca", 1, "GPU Total"), thSpan("ca", 2, "per-SM"), thSpan("ca", 2, "%-of-Peak")},
				[]HeaderCell{th("la", "Description"), th("la", "Pipeline"), th("la", "Warp Inst"), th("ra", "IPC"), th("ra", "&#x25C2;Peak"), th("ra", "%"), thBar()},
			)
			m := env.Metrics
			for _, p := range cat.SmPipes {
				inst := Ref(p.InstExecuted())
				sum, ipc, peak := Marked(NotAvailable), Marked(NotAvailable), Marked(NotAvailable)
				if inst != "" {
					sum = m.Counter(inst, "sum")
					ipc = m.Counter(inst, "avg.per_cycle_elapsed")
					peak = m.Counter(inst, "avg.peak_sustained")
				}
				var pct Value
				if p.Activity != "" {
					pct = m.CounterPct(Ref(p.Activity))
				} else {
					pct = m.CounterPct(inst)
				}
				t.add(append([]Cell{
					textCell("la subhdr", p.Description),
					textCell("la subhdr", p.Name),
					cell("ra", env.Format.Sum(sum, defaultDigit)),
					cell("ra", env.Format.Avg(ipc, 2)),
					cell("ra", env.Format.Avg(peak, 2)),
				}, env.pctCells(pct)...)...)
			}
			return t
		},
	}
}

func smInstExecutedGenerator(cat *Catalog) Generator {
	required := []string{"sm__warps_launched"}
	for _, p := range cat.InstPipes {
		warp, thread := p.Counters()
		required = append(required, warp)
		if thread != "" {
			required = append(required, thread)
		}
	}
	return Generator{
		Name: "SmInstExecuted",
		Workflow: `SM Instruction Execution:
This table displays shader instruction counts (total and per-pipeline).  Low Active Thread% implies either heavy branch divergence (threads taking separate if/else code paths), or low numbers of launched threads per warp.
Cross-check thread launch statistics in the <a href="#SM-Shader-Execution">SM Shader Execution</a> table.
`,
		Required: capture.Selection{Counters: required},
		Build: func(env *Env) *Table {
			t := newTable("SM-Instruction-Execution", "tbody_sm_inst_executed",
				[]HeaderCell{thSpan("la tablename", 2, "SM Instruction Execution"), thSpan("ca", 2, "GPU Total"), thSpan("ca", 2, "Threads Per Warp (Max 32)"), thSpan("ca", 2, "Avg Executed Per Warp")},
				[]HeaderCell{th("la", "Description"), th("la", "Pipeline"), th("la", "Warp Inst"), th("la", "Thread Inst"), th("la", "Avg Active Threads"), th("la", "Active Thread%"), th("la", "Warp Inst"), th("la", "Thread Inst")},
			)
			m := env.Metrics
			warpsLaunched := m.Counter("sm__warps_launched", "sum").Float()
			for _, p := range cat.InstPipes {
				warpCounter, threadCounter := p.Counters()
				warpInst := m.Counter(Ref(warpCounter), "sum").Float()
				warpInstPerWarp := Num(SafeDiv(warpInst, warpsLaunched))
				threadInst, threadsPerWarp := Marked(NotAvailable), Marked(NotAvailable)
				threadsPerWarpPct, threadInstPerWarp := Marked(NotAvailable), Marked(NotAvailable)
				if threadCounter != "" {
					threads := m.Counter(Ref(threadCounter), "sum").Float()
					perWarp := SafeDiv(threads, warpInst)
					threadInst = Num(threads)
					threadsPerWarp = Num(perWarp)
					threadsPerWarpPct = Num(100 * perWarp / 32)
					threadInstPerWarp = Num(SafeDiv(threads, warpsLaunched))
				}
				t.add(
					textCell("la subhdr", p.Description),
					textCell("la subhdr", p.Name),
					cell("ra", env.Format.Sum(Num(warpInst), defaultDigit)),
					cell("ra", env.Format.Sum(threadInst, defaultDigit)),
					cell("ra", env.Format.Avg(threadsPerWarp, defaultDigit)),
					cell("ra", env.Format.Pct(threadsPerWarpPct, defaultDigit)),
					cell("ra", env.Format.Avg(warpInstPerWarp, defaultDigit)),
					cell("ra", env.Format.Avg(threadInstPerWarp, defaultDigit)),
				)
			}
			return t
		},
	}
}

type issueStall struct {
	desc    string
	name    string
	counter Ref
}

var issueStalls = []issueStall{
	{"All; sum of all other reasons (waiting + issuing)", "Total", "smsp__warps_active"},
	{"Waiting for a synchronization barrier", "Barrier", "smsp__warps_issue_stalled_barrier"},
	{"Waiting for dynamic branch target computation and warp PC update", "Branch Resolving", "smsp__warps_issue_stalled_branch_resolving"},
	{"Waiting for a busy pipeline at the dispatch stage; wasted scheduler cycle", "Dispatch Stall", "smsp__warps_issue_stalled_dispatch_stall"},
	{"Waiting for memory instructions or pixout to complete after warp EXIT", "Drain after Exit", "smsp__warps_issue_stalled_drain"},
	{"Waiting for IMC (immediate constant cache) - for static constant addresses", "IMC Miss", "smsp__warps_issue_stalled_imc_miss"},
	{"Waiting for free space in the LG Input FIFO: local/global instruction issue to LSU", "LG Throttle", "smsp__warps_issue_stalled_lg_throttle"},
	{"Waiting on variable latency dependency: LSU (local/global), TEX (texture, surface)", "Long Scoreboard", "smsp__warps_issue_stalled_long_scoreboard"},
	{"Waiting for a math pipe to become available", "Math Pipe Throttle", "smsp__warps_issue_stalled_math_pipe_throttle"},
	{"Waiting for a memory barrier", "Memory Barrier", "smsp__warps_issue_stalled_membar"},
	{"Waiting for free space in the MIO Input FIFO: ADU, CBU, FP64, LSU (not local/global), IPA", "MIO Throttle", "smsp__warps_issue_stalled_mio_throttle"},
	{"Waiting for a miscellaneous reason (should be rare)", "Misc", "smsp__warps_issue_stalled_misc"},
	{"Waiting for instruction fetch, or instruction cache miss", "No Instruction", "smsp__warps_issue_stalled_no_instruction"},
	{"Waiting for a scheduler cycle, from an otherwise ready-to-issue warp", "Not Selected", "smsp__warps_issue_stalled_not_selected"},
	{"Issuing an instruction", "Selected", "smsp__warps_issue_stalled_selected"},
	{"Waiting on variable latency dependency: XU, FP64, LSU (not local/global), ADU, CBU, LDC/IDC", "Short Scoreboard", "smsp__warps_issue_stalled_short_scoreboard"},
	{"Waiting for a nanosleep timer to expire", "Sleeping", "smsp__warps_issue_stalled_sleeping"},
	{"Waiting for free space in the TEX Input FIFO: TEX pipe texture or surface instructions", "TEX Throttle", "smsp__warps_issue_stalled_tex_throttle"},
	{"Waiting on a fixed latency dependency", "Shadow Pipe Throttle", "smsp__warps_issue_stalled_wait"},
}

func warpIssueStallsGenerator() Generator {
	required := []string{"smsp__inst_executed", "smsp__warps_launched"}
	for _, s := range issueStalls {
		required = append(required, string(s.counter))
	}
	return Generator{
		Name: "WarpIssueStalls",
		Workflow: `SM Warp Issue Stall Reasons:
This table shows which types of instructions contribute most to shader warp execution time.
For large workloads where the <a href="#SM-Shader-Execution">total number of warps launched</a> can fill every SM's warp slots, reducing the average warp latency will usually improve wall clock time.
The table is sorted; the first row always has the highest contribution.
`,
		Required: capture.Selection{Counters: required},
		Build: func(env *Env) *Table {
			m := env.Metrics
			activeWarps := m.Counter("smsp__warps_active", "avg").Float()
			warpsLaunched := m.Counter("smsp__warps_launched", "avg").Float()
			instExecuted := m.Counter("smsp__inst_executed", "avg").Float()
			type row struct {
				issueStall
				pct, warpLatency, instLatency float64
			}
			rows := make([]row, 0, len(issueStalls))
			for _, s := range issueStalls {
				v := m.Counter(s.counter, "avg").Float()
				rows = append(rows, row{
					issueStall:  s,
					pct:         100 * SafeDiv(v, activeWarps),
					warpLatency: SafeDiv(v, warpsLaunched),
					instLatency: SafeDiv(v, instExecuted),
				})
			}
			sort.SliceStable(rows, func(i, j int) bool { return CompareNumbers(rows[j].pct, rows[i].pct) < 0 })
			t := newTable("SM-Warp-Issue-Stall-Reasons", "tbody_warp_issue_stalls",
				[]HeaderCell{thSpan("la tablename", 2, "SM Warp Issue Stall Reasons"), thSpan("ca", 3, "Avg Warp Latency"), thSpan("ca", 1, "Avg Inst Latency")},
				[]HeaderCell{th("la", "Latency Reason"), th("la", "Name"), th("ra", "%"), thBar(), th("ra", "Cycles"), th("ra", "Cycles")},
			)
			for _, r := range rows {
				cells := []Cell{rawCell("la subhdr", r.desc), rawCell("la subhdr", r.name)}
				cells = append(cells, env.pctCells(Num(r.pct))...)
				cells = append(cells,
					cell("ra", env.Format.Avg(Num(r.warpLatency), defaultDigit)),
					cell("ra", env.Format.Avg(Num(r.instLatency), defaultDigit)),
				)
				t.add(cells...)
			}
			return t
		},
	}
}

var shaderStages = []struct {
	name   string
	suffix string
}{
	{"Total", ""},
	{"Vertex Shader", "_shader_vs"},
	{"Tess Control Shader", "_shader_tcs"},
	{"Tess Eval Shader", "_shader_tes"},
	{"Geometry Shader", "_shader_gs"},
	{"Pixel Shader", "_shader_ps"},
	{"Compute Shader", "_shader_cs"},
}

func smShaderExecutionGenerator() Generator {
	var required []string
	for _, s := range shaderStages {
		required = append(required,
			"smsp__inst_executed"+s.suffix,
			"sm__threads_launched"+s.suffix,
			"sm__warps_launched"+s.suffix,
		)
	}
	required = append(required, "sm__inst_executed")
	return Generator{
		Name: "SmShaderExecution",
		Workflow: `SM Shader Execution:
Determine which shader stages executed the most instructions, and the launched thread efficiency (Threads/Warp).
Threads Launched values are equivalent to "shader invocations" in the D3D/GL/Vulkan specifications, except for Pixel Shaders where helper threads are also counted.
All values are presented as GPU totals.
`,
		Required: capture.Selection{Counters: required},
		Build: func(env *Env) *Table {
			m := env.Metrics
			warpInstExecuted := m.Counter("sm__inst_executed", "sum").Float()
			t := newTable("SM-Shader-Execution", "tbody_sm_shader_execution",
				[]HeaderCell{thSpan("la tablename", 1, "SM Shader Execution"), thSpan("ca", 3, "Shader Launch (GPU Total)"), thSpan("ca", 2, "Warp Instructions (GPU Total)"), thSpan("ca", 2, "%-of-Total-Warp-Inst")},
				[]HeaderCell{th("la", "Shader Stage"), th("la", "Warps Launched"), th("la", "Threads Launched"), th("la", "Threads/Warp"), th("ra", "Warp Inst Executed"), th("ra", "Inst/Warp"), th("ra", "%"), thBar()},
			)
			for _, s := range shaderStages {
				warps := m.Counter(Ref("sm__warps_launched"+s.suffix), "sum").Float()
				threads := m.Counter(Ref("sm__threads_launched"+s.suffix), "sum").Float()
				inst := m.Counter(Ref("smsp__inst_executed"+s.suffix), "sum").Float()
				pct := Num(SafeDiv(inst, warpInstExecuted) * 100)
				cells := []Cell{
					textCell("la subhdr", s.name),
					cell("ra", env.Format.Sum(Num(warps), defaultDigit)),
					cell("ra", env.Format.Sum(Num(threads), defaultDigit)),
					cell("ra", env.Format.Avg(Num(SafeDiv(threads, warps)), defaultDigit)),
					cell("ra", env.Format.Sum(Num(inst), defaultDigit)),
					cell("ra", env.Format.Avg(Num(SafeDiv(inst, warps)), defaultDigit)),
				}
				t.add(append(cells, env.pctCells(pct)...)...)
			}
			return t
		},
	}
}

type launchStall struct {
	stage       string
	any         Ref
	warp        Ref
	reg         Ref
	shm         Ref
	otherName   string
	otherMetric Ref
}

var launchStalls = []launchStall{
	{"Vertex Shader", "tpc__warp_launch_cycles_stalled_shader_vs", RefNotApplicable, RefNotApplicable, RefNotApplicable, string(RefNotApplicable), RefNotApplicable},
	{"Tess Control Shader", "tpc__warp_launch_cycles_stalled_shader_tcs", RefNotApplicable, RefNotApplicable, RefNotApplicable, string(RefNotApplicable), RefNotApplicable},
	{"Tess Eval Shader", "tpc__warp_launch_cycles_stalled_shader_tes", RefNotApplicable, RefNotApplicable, RefNotApplicable, string(RefNotApplicable), RefNotApplicable},
	{"Geometry Shader", "tpc__warp_launch_cycles_stalled_shader_gs", RefNotApplicable, RefNotApplicable, RefNotApplicable, string(RefNotApplicable), RefNotApplicable},
	{"VTG Shader", "tpc__warp_launch_cycles_stalled_shader_vtg", RefNotApplicable, RefNotApplicable, "tpc__pe2sm_vtg_isbe_allocation_cycles_stalled", string(RefNotApplicable), RefNotApplicable},
	{"Pixel Shader", "tpc__warp_launch_cycles_stalled_shader_ps", "tpc__warp_launch_cycles_stalled_shader_ps_reason_warp_allocation", "tpc__warp_launch_cycles_stalled_shader_ps_reason_register_allocation", "tpc__pe2sm_ps_tram_allocation_cycles_stalled", "Out-of-Order Exit", "tpc__warp_launch_cycles_stalled_shader_ps_reason_ooo_warp_completion"},
	{"Compute Shader", "", "tpc__warp_launch_cycles_stalled_shader_cs_reason_warp_allocation", "tpc__warp_launch_cycles_stalled_shader_cs_reason_register_allocation", "tpc__warp_launch_cycles_stalled_shader_cs_reason_shmem_allocation", "CTA Alloc", "tpc__warp_launch_cycles_stalled_shader_cs_reason_cta_allocation"},
}

// maxPct is the largest of the values. Marks and NaN make the result NaN.
func maxPct(values ...Value) Value {
	out := math.Inf(-1)
	for _, v := range values {
		f := v.Float()
		if math.IsNaN(f) {
			return NaN()
		}
		out = math.Max(out, f)
	}
	return Num(out)
}

func smWarpLaunchStallsGenerator() Generator {
	var required []string
	for _, s := range launchStalls {
		for _, ref := range []Ref{s.any, s.warp, s.reg, s.shm, s.otherMetric} {
			if ref.Valid() && ref != "" {
				required = append(required, string(ref))
			}
		}
	}
	return Generator{
		Name: "SmWarpLaunchStalls",
		Workflow: `SM Warp Can't Launch Reasons:
This table reveals the most heavily used shader resource, and can help to explain low warp occupancy.
If all values are zero, the workload is too small to fill every hardware warp slot, which is a form of starvation.
`,
		Required: capture.Selection{Counters: required},
		Build: func(env *Env) *Table {
			m := env.Metrics
			t := newTable("SM-Warp-Cant-Launch", "tbody_warp_launch_stalls",
				[]HeaderCell{thSpan("la tablename", 1, "SM Warp Can't Launch Reasons"), thSpan("ca", 2, "Any Reason"), thSpan("ca", 2, "Warp Alloc"), thSpan("ca", 2, "Register Alloc"), thSpan("ca", 2, "Attr/ShMem Alloc"), thSpan("ca", 3, "Other")},
				[]HeaderCell{th("la", "Stage"), th("ra", "%"), thBar(), th("ra", "%"), thBar(), th("ra", "%"), thBar(), th("ra", "%"), thBar(), th("ra", "Reason"), th("ra", "%"), thBar()},
			)
			for _, s := range launchStalls {
				warp := m.CounterPct(s.warp)
				reg := m.CounterPct(s.reg)
				shm := m.CounterPct(s.shm)
				other := m.CounterPct(s.otherMetric)
				var anyPct Value
				if s.any != "" {
					anyPct = m.CounterPct(s.any)
				} else {
					anyPct = maxPct(warp, reg, shm, other)
				}
				otherName := Text(s.otherName)
				if mark := Ref(s.otherName).Mark(); mark != NoMark {
					otherName = Display{Mark: mark}
				}
				cells := []Cell{textCell("la subhdr", s.stage)}
				for _, pct := range []Value{anyPct, warp, reg, shm} {
					cells = append(cells, env.pctCells(pct)...)
				}
				cells = append(cells, cell("la", otherName))
				cells = append(cells, env.pctCells(other)...)
				t.add(cells...)
			}
			return t
		},
	}
}

// smFactor converts per-TPC counters to per-SM values.
func smFactor(name Ref) float64 {
	if strings.Contains(string(name), "tpc__") {
		return 0.5
	}
	return 1
}

func smResourceUsageGenerator(cat *Catalog) Generator {
	var required []string
	for _, r := range cat.ResourceRows {
		for _, ref := range []Ref{r.Tot, r.Gfx, r.Vtg, r.Ps, r.Cs} {
			if ref.Valid() && ref != "" {
				required = append(required, string(ref))
			}
		}
	}
	return Generator{
		Name: "SmResourceUsage",
		Workflow: `SM Resource Usage:
This table reveals the quantity of each shader resource used on average, and can help to explain low warp occupancy.  All values are presented per-SM.
`,
		Required: capture.Selection{Counters: required},
		Build: func(env *Env) *Table {
			m := env.Metrics
			usage := func(name Ref) []Cell {
				value := m.Counter(name, "avg.per_cycle_elapsed").Map(func(x float64) float64 { return x * smFactor(name) })
				return append([]Cell{cell("ra", env.Format.Avg(value, defaultDigit))}, env.pctCells(m.CounterPct(name))...)
			}
			t := newTable("SM-Resource-Usage", "tbody_sm_resource_usage",
				[]HeaderCell{thSpan("la tablename", 1, "SM Resource Usage"), thSpan("ca", 3, "SM Total"), thSpan("ca", 3, "VTG Shader"), thSpan("ca", 3, "Pixel Shader"), thSpan("ca", 3, "Compute Shader")},
				[]HeaderCell{th("la", "Stage"),
					th("ra", "per-cycle"), th("ra", "%"), thBar(),
					th("ra", "per-cycle"), th("ra", "%"), thBar(),
					th("ra", "per-cycle"), th("ra", "%"), thBar(),
					th("ra", "per-cycle"), th("ra", "%"), thBar()},
			)
			for _, r := range cat.ResourceRows {
				cells := []Cell{textCell("la", r.Resource)}
				if r.Tot.Valid() {
					cells = append(cells, usage(r.Tot)...)
				} else {
					cells = append(cells, markCell("ra", r.Tot.Mark()).spans(0, 3))
				}
				switch {
				case r.Gfx.Valid():
					cells = append(cells, rawCell("ra", "<em>VTG+PS Combined</em> ⮕").spans(0, 3))
					cells = append(cells, usage(r.Gfx)...)
				case r.Vtg.Valid() && r.Ps.Valid():
					cells = append(cells, usage(r.Vtg)...)
					cells = append(cells, usage(r.Ps)...)
				case r.Gfx.Mark() == NotAvailable:
					cells = append(cells, markCell("ra", NotAvailable).spans(0, 6))
				case r.Vtg.Mark() == NotAvailable && r.Ps.Mark() == NotAvailable:
					cells = append(cells, markCell("ra", NotAvailable).spans(0, 3), markCell("ra", NotAvailable).spans(0, 3))
				default:
					cells = append(cells, markCell("ra", NotApplicable).spans(0, 6))
				}
				if r.Cs.Valid() {
					cells = append(cells, usage(r.Cs)...)
				} else {
					cells = append(cells, markCell("ra", r.Cs.Mark()).spans(0, 3))
				}
				t.add(cells...)
			}
			return t
		},
	}
}
