// internal/report/tables_summary.go
package report

import (
	"fmt"
	"html/template"
	"strconv"
	"strings"

	"github.com/mwiater/perfreport/internal/capture"
)

// Sort modes of summary columns.
const (
	SortIndex  = "index"
	SortName   = "name"
	SortNumber = "number"
)

const summaryWorkflow = `
To find the biggest time consumers, sort by duration by clicking on the column header.<br>
To find cold spots, sort by GR Active%.<br>
To find regions with excessive synchronization, sort by #WFI (the number of Wait-for-Idle commands).<br>
Then follow the links to per-range reports in the Full Name column for more detail.
`

// dummyRanges are appended to the summary when dummy values are enabled.
var dummyRanges = []struct{ name, file string }{
	{"Q0 / FRAME", "00000_FRAME.html"},
	{"Q0 / LEFT_EYE", "00001_LEFT_EYE.html"},
	{"Q0 / LEFT_EYE / SCENE", "00002_SCENE.html"},
	{"Q0 / LEFT_EYE / SCENE / GPU_PARTICLES", "00003_GPU_PARTICLES.html"},
	{"Q0 / LEFT_EYE / SCENE / VOLUMETRIC_CLOUDS_SHADOWGEN", "00004_VOLUMETRIC_CLOUDS_SHADOWGEN.html"},
	{"Q0 / LEFT_EYE / SCENE / I_AM_A_LONG" + strings.Repeat("G", 50) + "_STRING", "00005_I_AM_A_LONG_STRING.html"},
}

// summaryRanges returns the range names and file names the summary lists.
func summaryRanges(p *capture.SummaryPayload) (names, files []string) {
	names = append(names, p.Ranges...)
	files = append(files, p.RangeFileNames...)
	for len(files) < len(names) {
		files = append(files, "")
	}
	if p.DummyValuesEnabled() {
		for _, r := range dummyRanges {
			names = append(names, r.name)
			files = append(files, r.file)
		}
	}
	return names, files
}

func collectionInfoGenerator(p *capture.SummaryPayload) Generator {
	return Generator{
		Name: "CollectionInfo",
		Build: func(env *Env) *Table {
			names, _ := summaryRanges(p)
			device := env.Device.WithDefaults()
			t := newTable("", "tbody_collection_info",
				[]HeaderCell{thSpan("ca tablename", 2, "Collection Information")},
				[]HeaderCell{th("la", "Name"), th("la", "Value")},
			)
			t.add(textCell("la subhdr", "Collection Time"), textCell("ra", TimeToStr(env.SecondsSinceEpoch, env.Location)))
			t.add(textCell("la subhdr", "GPU Name"), textCell("ra", device.GPUName))
			t.add(textCell("la subhdr", "Chip Name"), textCell("ra", device.ChipName))
			t.add(textCell("la subhdr", "#Ranges"), textCell("ra", strconv.Itoa(len(names))))
			return t
		},
	}
}

func summaryValue(m *Metrics, col SummaryColumn) Value {
	kind, err := col.MetricKind()
	if err != nil {
		return NaN()
	}
	ref := Ref(col.Metric)
	switch kind {
	case capture.Ratio:
		return m.Ratio(ref, col.Submetric)
	case capture.Throughput:
		return m.Throughput(ref, col.Submetric)
	}
	return m.Counter(ref, col.Submetric)
}

func summaryDisplay(f *Formatter, col SummaryColumn, v Value) Display {
	switch col.Format {
	case FormatPct:
		return f.Pct(v, col.precision())
	case FormatAvg:
		return f.Avg(v, col.precision())
	}
	return f.Sum(v, col.precision())
}

func rangesSummaryGenerator(cat *Catalog, p *capture.SummaryPayload) Generator {
	return Generator{
		Name:     "RangesSummary",
		Workflow: summaryWorkflow,
		Required: cat.SummarySelection(),
		Build: func(env *Env) *Table {
			header := []HeaderCell{
				{Class: "ra", Text: "#", Sort: SortIndex, Title: "Click to sort by range index"},
				{Class: "la", Text: "Full Name", Sort: SortName, Title: "Click to sort by full name"},
			}
			for _, col := range cat.SummaryColumns {
				header = append(header, HeaderCell{
					Class: col.align() + " ww",
					Text:  template.HTML(template.HTMLEscapeString(col.Description)),
					Sort:  SortNumber,
					Title: "Click to sort by " + col.Description,
				})
			}
			t := newTable("table_summary", "tbody_summary", header)
			t.Style = "border: 1px solid; table-layout: fixed;"

			names, files := summaryRanges(p)
			m := env.Metrics
			for i, name := range names {
				counters, ratios, throughputs := p.RangeSets(name)
				m.Use(counters, ratios, throughputs)
				link := fmt.Sprintf(`<a href="%s">%s</a>`, template.HTMLEscapeString(files[i]), EscapeHTML(name))
				index := rawCell("ra", strconv.Itoa(i))
				index.SortKey = strconv.Itoa(i)
				full := rawCell("la ww full_name", link)
				full.SortKey = name
				cells := []Cell{index, full}
				for _, col := range cat.SummaryColumns {
					v := summaryValue(m, col)
					c := cell(col.align(), summaryDisplay(env.Format, col, v))
					c.SortKey = jsNumber(v.Float())
					cells = append(cells, c)
				}
				t.add(cells...)
			}
			return t
		},
	}
}
