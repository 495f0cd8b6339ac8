// internal/report/tables_pipeline.go
package report

import "github.com/mwiater/perfreport/internal/capture"

// dataflowRow is one stage of a data-flow table. Every column is a counter
// whose sum is shown, or a mark.
type dataflowRow struct {
	stage   string
	columns []Ref
}

func dataflowCounters(rows []dataflowRow) []string {
	seen := make(map[Ref]bool)
	var names []string
	for _, r := range rows {
		for _, ref := range r.columns {
			if ref.Valid() && !seen[ref] {
				seen[ref] = true
				names = append(names, string(ref))
			}
		}
	}
	return names
}

func (r dataflowRow) cells(env *Env) []Cell {
	cells := []Cell{textCell("la subhdr", r.stage)}
	for _, ref := range r.columns {
		cells = append(cells, cell("ra", env.Format.Sum(env.Metrics.Counter(ref, "sum"), defaultDigit)))
	}
	return cells
}

const (
	na  = RefNotApplicable
	nav = RefNotAvailable
)

var primitiveDataflowRows = []dataflowRow{
	{"Primitive Distributor", []Ref{"pda__input_prims", "pda__input_verts", nav, na, na, na, na}},
	{"Vertex Shader", []Ref{na, "sm__threads_launched_shader_vs", nav, na, na, na, na}},
	{"Tess. Control Shader", []Ref{na, "sm__threads_launched_shader_tcs", nav, na, nav, nav, nav}},
	{"Tess. Eval Shader", []Ref{nav, "sm__threads_launched_shader_tes", nav, na, nav, nav, nav}},
	{"Geometry Shader", []Ref{nav, "sm__threads_launched_shader_gs", nav, na, nav, nav, nav}},
	{"Stream (Transform Feedback)", []Ref{na, na, na, na, "pes__stream_output_prims", "pes__stream_output_verts", "pes__stream_output_attrs"}},
	{"Primitive Assembly Clip", []Ref{"vpc__clip_input_prims", nav, nav, "vpc__clip_input_prims_op_clipped", "vpc__clip_output_prims", na, na}},
	{"Primitive Assembly Cull", []Ref{"vpc__cull_input_prims", nav, nav, "vpc__cull_input_prims_op_culled", "vpc__cull_input_prims_op_passed", na, na}},
	{"Primitive Assembly (All Stages)", []Ref{"vpc__input_prims", na, na, na, "vpc__output_prims", na, "vpc__output_attrs"}},
}

func primitiveDataflowGenerator() Generator {
	return Generator{
		Name: "PrimitiveDataflow",
		Workflow: `Primitive Data Flow:
This table shows the creation, destruction, and processing of geometry data through the 3D graphics pipeline, before reaching the rasterizer.
`,
		Required: capture.Selection{Counters: dataflowCounters(primitiveDataflowRows)},
		Build: func(env *Env) *Table {
			t := newTable("Primitive-Data-Flow", "tbody_primitive_data_flow",
				[]HeaderCell{thSpan("ca tablename", 10, "Primitive Data Flow")},
				[]HeaderCell{th("la", "Pipeline Stage"), th("ra", "Input Primitives"), th("ra", "Input Vertices"), th("ra", "Input Attributes"), th("ra", "Culled Primitives"), th("ra", "Output Primitives"), th("ra", "Output Vertices"), th("ra", "Output Attributes")},
			)
			for _, r := range primitiveDataflowRows {
				t.add(r.cells(env)...)
			}
			return t
		},
	}
}

var rasterDataflowRows = []dataflowRow{
	{"ZCULL", []Ref{"raster__zcull_input_samples", "raster__zcull_input_samples_op_rejected", "raster__zcull_input_samples_op_accepted", na, na, na}},
	{"PROP Input", []Ref{"prop__input_pixels_type_3d_realtime", na, na, nav, na, na}},
	{"PROP EarlyZ", []Ref{nav, "prop__earlyz_killed_pixels_realtime", nav, "prop__earlyz_input_samples", "prop__earlyz_killed_samples", "prop__earlyz_output_samples"}},
	{"Pixel Shader(EarlyZ + LateZ)", []Ref{"sm__threads_launched_shader_ps_killmask_off", nav, nav, na, na, na}},
	{"PROP LateZ", []Ref{nav, nav, nav, nav, "prop__latez_killed_samples", "prop__latez_output_samples"}},
	{"ZROP", []Ref{nav, na, na, nav, nav, nav}},
	{"PROP Color", []Ref{nav, nav, nav, nav, nav, nav}},
	{"CROP", []Ref{nav, nav, nav, nav, nav, nav}},
}

func rasterDataflowGenerator() Generator {
	return Generator{
		Name: "RasterDataflow",
		Workflow: `Raster Data Flow:
This table shows the creation, destruction, and processing of pixels and samples (MSAA) through the 3D graphics pipeline.
`,
		Required: capture.Selection{Counters: dataflowCounters(rasterDataflowRows)},
		Build: func(env *Env) *Table {
			t := newTable("Raster-Data-Flow", "tbody_raster_data_flow",
				[]HeaderCell{thSpan("ca tablename", 1, "Raster Data Flow"), thSpan("ca", 3, "Pixels"), thSpan("ca", 3, "Samples")},
				[]HeaderCell{th("la", "Pipeline Stage"), th("ra", "Pixels In"), th("ra", "Pixels Killed"), th("ra", "Pixels Out"), th("ra", "Samples In"), th("ra", "Samples Killed"), th("ra", "Samples Out")},
			)
			for _, r := range rasterDataflowRows {
				t.add(r.cells(env)...)
			}
			return t
		},
	}
}
