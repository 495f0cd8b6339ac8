// internal/report/tables_memory.go
package report

import (
	"fmt"
	"html/template"
	"strings"

	"github.com/mwiater/perfreport/internal/capture"
)

func l1TexThroughputsGenerator() Generator {
	type stage struct {
		name     string
		lsuAlign string
		lsu      func(m *Metrics) Value
		tex      func(m *Metrics) Value
	}
	counterPct := func(name Ref) func(m *Metrics) Value {
		return func(m *Metrics) Value { return m.CounterPct(name) }
	}
	throughputPct := func(name Ref) func(m *Metrics) Value {
		return func(m *Metrics) Value { return m.ThroughputPct(name) }
	}
	stages := []stage{
		{"SM Instructions", "la", counterPct("sm__inst_executed_pipe_lsu"), counterPct("sm__inst_executed_pipe_tex")},
		{"MIO Parameter Queue", "ra", counterPct("sm__mio_pq_read_cycles_active_pipe_lsu"), counterPct("sm__mio_pq_read_cycles_active_pipe_tex")},
		{"Input Cycles", "la", counterPct("l1tex__lsuin_requests"), counterPct("l1tex__texin_sm2tex_req_cycles_active")},
		{"M-Stage to XBAR", "ra", throughputPct("l1tex__m_l1tex2xbar_throughput_pipe_lsu"), throughputPct("l1tex__m_l1tex2xbar_throughput_pipe_tex")},
		{"XBAR to M-Stage", "ra", throughputPct("l1tex__m_xbar2l1tex_throughput_pipe_lsu"), throughputPct("l1tex__m_xbar2l1tex_throughput_pipe_tex")},
		{"Data Cycles", "la", counterPct("l1tex__data_pipe_lsu_wavefronts"), counterPct("l1tex__data_pipe_tex_wavefronts")},
		{"TEX Filter Cycles", "la", counterPct(RefNotApplicable), counterPct("l1tex__data_pipe_tex_wavefronts")},
		{"Writeback Cycles", "la", counterPct("l1tex__lsu_writeback_active"), counterPct("l1tex__tex_writeback_active")},
	}
	return Generator{
		Name: "L1TexThroughputs",
		Workflow: `L1TEX Throughput:
Determine which stage of the L1TEX Cache's pipeline is limiting performance.
The LSU and TEX pipes execute in parallel.  LSU handles local, global, surface stores, and shared memory; and miscellaneous instructions.  TEX handles texture and surface reads.
`,
		Required: capture.Selection{
			Counters: []string{
				"l1tex__data_pipe_lsu_wavefronts",
				"l1tex__data_pipe_tex_wavefronts",
				"l1tex__lsu_writeback_active",
				"l1tex__lsuin_requests",
				"l1tex__tex_writeback_active",
				"l1tex__texin_sm2tex_req_cycles_active",
				"sm__inst_executed_pipe_lsu",
				"sm__inst_executed_pipe_tex",
				"sm__mio_pq_read_cycles_active_pipe_lsu",
				"sm__mio_pq_read_cycles_active_pipe_tex",
			},
			Throughputs: []string{
				"l1tex__m_l1tex2xbar_throughput_pipe_lsu",
				"l1tex__m_l1tex2xbar_throughput_pipe_tex",
				"l1tex__m_xbar2l1tex_throughput_pipe_lsu",
				"l1tex__m_xbar2l1tex_throughput_pipe_tex",
			},
		},
		Build: func(env *Env) *Table {
			t := newTable("L1TEX-Throughput", "tbody_l1tex_throughput",
				[]HeaderCell{thSpan("la tablename", 1, "L1TEX Throughput"), thSpan("ca", 2, "LSU %-of-Peak"), thSpan("ca", 2, "TEX %-of-Peak")},
				[]HeaderCell{th("la", "Pipe Stage"), th("ra", "%"), thBar(), thBar(), th("ra", "%")},
			)
			for _, s := range stages {
				lsu, tex := s.lsu(env.Metrics), s.tex(env.Metrics)
				t.add(
					textCell("la subhdr", s.name),
					cell("ra", env.Format.Pct(lsu, defaultDigit)),
					textCell(s.lsuAlign+" comp", ToBarChart(lsu, BarChar)),
					textCell("la comp", ToBarChart(tex, BarChar)),
					cell("ra", env.Format.Pct(tex, defaultDigit)),
				)
			}
			return t
		},
	}
}

// L1TexTrafficNodes is the L1TEX sector-traffic breakdown tree.
func L1TexTrafficNodes() []Node {
	leaf := func(label, addend string) Node { return NewNode(label, []string{addend}) }
	return []Node{
		NewNode("LSU by Mem", []string{"l1tex__average_t_sector_pipe_lsu"},
			NewNode("Global", nil,
				leaf("Global Load", "l1tex__average_t_sector_pipe_lsu_mem_global_op_ld"),
				leaf("Global Store", "l1tex__average_t_sector_pipe_lsu_mem_global_op_st"),
				leaf("Global Atom", "l1tex__average_t_sector_pipe_lsu_mem_global_op_atom"),
				leaf("Global Red", "l1tex__average_t_sector_pipe_lsu_mem_global_op_red"),
			),
			NewNode("Local", nil,
				leaf("Local Load", "l1tex__average_t_sector_pipe_lsu_mem_local_op_ld"),
				leaf("Local Store", "l1tex__average_t_sector_pipe_lsu_mem_local_op_st"),
			),
		),
		NewNode("TEX by Mem", []string{"l1tex__average_t_sector_pipe_tex"},
			NewNode("Texture", []string{"l1tex__average_t_sector_pipe_tex_mem_texture"},
				leaf("Texture Fetch", "l1tex__average_t_sector_pipe_tex_mem_texture_op_tex"),
				leaf("Texture Load", "l1tex__average_t_sector_pipe_tex_mem_texture_op_ld"),
			),
			NewNode("Surface", []string{"l1tex__average_t_sector_pipe_tex_mem_surface"},
				leaf("Surface Load", "l1tex__average_t_sector_pipe_tex_mem_surface_op_ld"),
				leaf("Surface Store", "l1tex__average_t_sector_pipe_tex_mem_surface_op_st"),
				leaf("Surface Atom", "l1tex__average_t_sector_pipe_tex_mem_surface_op_atom"),
				leaf("Surface Red", "l1tex__average_t_sector_pipe_tex_mem_surface_op_red"),
			),
		),
		NewNode("TEX by Format", []string{"l1tex__average_t_sector_pipe_tex"},
			leaf("1D Buffer", "l1tex__average_t_sector_pipe_tex_format_1d_buffer"),
			leaf("1D or 2D Tex/Surf", "l1tex__average_t_sector_pipe_tex_format_1d_2d"),
			leaf("2D Tex/Surf, no Mipmaps", "l1tex__average_t_sector_pipe_tex_format_2d_nomipmap"),
			leaf("3D Tex/Surf", "l1tex__average_t_sector_pipe_tex_format_3d"),
			leaf("Cubemap", "l1tex__average_t_sector_pipe_tex_format_cubemap"),
		),
	}
}

func breakdownHeader(label string) []HeaderCell {
	return []HeaderCell{th("la", template.HTML(label)), th("ra", "Hit-Rate%"), th("la", "%-of-Sectors"), thBar()}
}

func l1TexTrafficBreakdownGenerator() Generator {
	nodes := L1TexTrafficNodes()
	return Generator{
		Name: "L1TexTrafficBreakdown",
		Workflow: `L1TEX Sector Traffic:
Determine which shader memory spaces and operations are incurring the most L1TEX sector bandwidth.
Hit-rates are calculated per pipe/memory/op combination (both numerator and denominator are specific to the pipe/memory/op).  Low hit-rates are only a problem if the corresponding %-of-Sectors is high.
Texture traffic is decomposed in two ways: by memory, and by surface format.
All %-of-Sectors values are relative to the total sectors processed by the L1TEX cache.  The sum of "LSU by Mem" and "TEX by Mem" will add up to 100% in each column.
`,
		Required: capture.Selection{Ratios: RequiredRatios(nodes)},
		Build: func(env *Env) *Table {
			var columns []HeaderCell
			for _, label := range []string{"Pipe Breakdown", "Memory Space", "Op"} {
				columns = append(columns, breakdownHeader(label)...)
			}
			t := newTable("L1TEX-Sector-Traffic", "tbody_l1tex_traffic",
				[]HeaderCell{thSpan("la tablename", 4, "L1TEX Sector Traffic"), thSpan("ca", 4, "Per-Memory Space %-of-Total"), thSpan("ca", 4, "Per-Op %-of-total")},
				columns,
			)
			t.Body = BreakdownRows(env, nodes, false)
			return t
		},
	}
}

const l2Workflow = `L2 Sector Traffic:
Determine which units and operations are incurring the most L2 bandwidth, and which destinations are being addressed.
All %-of-Sectors values are relative to the total sectors processed by the L2 cache.
The term "sector" refers to a 32 byte portion of a cacheline.
`

// l2BodyID derives the tbody id from a table id, "L2-Sector-Traffic" becoming
// "tbody_l2_sector_traffic".
func l2BodyID(id string) string {
	return "tbody_" + strings.ToLower(strings.ReplaceAll(id, "-", "_"))
}

func l2TrafficBreakdownGenerator(table L2Table, first bool) Generator {
	g := Generator{
		Name:     table.Name,
		Required: capture.Selection{Ratios: RequiredRatios(table.Nodes)},
		Build: func(env *Env) *Table {
			var groups, labels []HeaderCell
			for i, col := range table.Columns {
				if i == 0 {
					groups = append(groups, thSpan("la tablename", 2, template.HTML(fmt.Sprintf("L2 Sector Traffic by %s", template.HTMLEscapeString(col.Group)))))
				} else {
					groups = append(groups, thSpan("ca", 2, template.HTML(template.HTMLEscapeString(col.Group))))
				}
				groups = append(groups, thSpan("ca", 2, "%-of-Sectors"))
				labels = append(labels,
					th("la", template.HTML(template.HTMLEscapeString(col.Label))),
					th("ra", "Hit-Rate%"),
					th("ca", "%"),
					thBar(),
				)
			}
			t := newTable(table.ID, l2BodyID(table.ID), groups, labels)
			t.Body = BreakdownRows(env, table.Nodes, true)
			return t
		},
	}
	if first {
		g.Workflow = l2Workflow
	}
	return g
}
