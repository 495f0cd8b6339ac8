// internal/report/page.go
package report

import (
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"math/rand"
	"time"

	"golang.org/x/text/language"

	"github.com/mwiater/perfreport/internal/capture"
)

// RenderOptions configures page rendering.
type RenderOptions struct {
	// Catalog defaults to the embedded desktop catalog.
	Catalog *Catalog
	// Locale selects number formatting; the zero value means en-US.
	Locale language.Tag
	// Location is used for collection times; nil means time.Local.
	Location *time.Location
	// Seed makes dummy values reproducible; 0 picks a random seed.
	Seed int64
}

func (o RenderOptions) withDefaults() (RenderOptions, error) {
	if o.Catalog == nil {
		cat, err := DefaultCatalog()
		if err != nil {
			return o, err
		}
		o.Catalog = cat
	}
	if o.Locale == language.Und {
		o.Locale = language.AmericanEnglish
	}
	if o.Location == nil {
		o.Location = time.Local
	}
	return o, nil
}

func (o RenderOptions) rand() *rand.Rand {
	seed := o.Seed
	if seed == 0 {
		seed = rand.Int63()
	}
	return rand.New(rand.NewSource(seed))
}

type pageTable struct {
	Workflow template.HTML
	Table    *Table
	Spacing  bool
}

type pageSection struct {
	Title  string
	Tables []pageTable
}

type pageData struct {
	Title    string
	Heading  string
	Summary  bool
	Sections []pageSection
	Debug    []DebugSection
	Payload  template.JS
}

// buildSections runs every generator in order against env. Debug sections
// are produced only when the metrics record references.
func buildSections(page string, sections []Section, env *Env) ([]pageSection, []DebugSection) {
	var out []pageSection
	var debug []DebugSection
	m := env.Metrics
	for _, s := range sections {
		ps := pageSection{Title: s.Title}
		for _, g := range s.Generators {
			if m.Debug() {
				m.ResetReferenced()
			}
			t := g.Build(env)
			if m.Debug() && !allMetricsTable(g.Name) {
				debug = append(debug, checkRequired(page, g, m))
			}
			if t == nil {
				continue
			}
			ps.Tables = append(ps.Tables, pageTable{
				Workflow: template.HTML(g.Workflow),
				Table:    t,
				Spacing:  s.Spacing,
			})
		}
		out = append(out, ps)
	}
	return out, debug
}

func marshalPayload(v any) (template.JS, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("unable to marshal payload: %w", err)
	}
	return template.JS(data), nil
}

// RenderRange writes the page of one range.
func RenderRange(w io.Writer, p capture.RangePayload, opts RenderOptions) error {
	opts, err := opts.withDefaults()
	if err != nil {
		return err
	}
	m := NewMetrics(p.Counters, p.Ratios, p.Throughputs, MetricsOptions{
		Debug:               p.DebugEnabled(),
		PopulateDummyValues: p.DummyValuesEnabled(),
		Rand:                opts.rand(),
	})
	env := &Env{
		Metrics:           m,
		Format:            NewFormatter(opts.Locale),
		Device:            p.Device,
		SecondsSinceEpoch: p.SecondsSinceEpoch,
		Location:          opts.Location,
	}
	payload, err := marshalPayload(p)
	if err != nil {
		return err
	}
	sections, debug := buildSections(p.Name(), RangeSections(opts.Catalog), env)
	data := pageData{
		Title:    p.Name(),
		Heading:  p.Name(),
		Sections: sections,
		Debug:    debug,
		Payload:  payload,
	}
	if err := rangeTemplate.Execute(w, data); err != nil {
		return fmt.Errorf("unable to render range %q: %w", p.Name(), err)
	}
	return nil
}

// RenderSummary writes summary.html.
func RenderSummary(w io.Writer, p capture.SummaryPayload, opts RenderOptions) error {
	opts, err := opts.withDefaults()
	if err != nil {
		return err
	}
	m := NewMetrics(nil, nil, nil, MetricsOptions{
		Debug:               p.DebugEnabled(),
		PopulateDummyValues: p.DummyValuesEnabled(),
		Rand:                opts.rand(),
	})
	env := &Env{
		Metrics:           m,
		Format:            NewFormatter(opts.Locale),
		Device:            p.Device,
		SecondsSinceEpoch: p.SecondsSinceEpoch,
		Location:          opts.Location,
	}
	payload, err := marshalPayload(p)
	if err != nil {
		return err
	}
	sections, debug := buildSections(SummaryFileName, SummarySections(opts.Catalog, &p), env)
	data := pageData{
		Title:    "Summary",
		Heading:  "Range Summary",
		Summary:  true,
		Sections: sections,
		Debug:    debug,
		Payload:  payload,
	}
	if err := rangeTemplate.Execute(w, data); err != nil {
		return fmt.Errorf("unable to render summary: %w", err)
	}
	return nil
}

// RenderReadme writes readme.html.
func RenderReadme(w io.Writer) error {
	if err := readmeTemplate.Execute(w, nil); err != nil {
		return fmt.Errorf("unable to render readme: %w", err)
	}
	return nil
}

var (
	rangeTemplate  = template.Must(template.New("page").Parse(pageTemplateHTML + commonTemplateHTML))
	readmeTemplate = template.Must(template.New("readme").Parse(readmeTemplateHTML + commonTemplateHTML))
)

const commonTemplateHTML = `{{define "titlebar"}}
      <div class="titlearea">
        <div class="titlebar">
          <span class="title" id="titlebar_text">{{.}}</span>
        </div>
{{- end}}
{{define "table"}}
        <table style="{{.Style}}"{{with .ID}} id="{{.}}"{{end}}>
          <thead>
{{- range .Header}}
            <tr>
{{- range .}}
              <th class="{{.Class}}"{{if .ColSpan}} colspan="{{.ColSpan}}"{{end}}{{if .RowSpan}} rowspan="{{.RowSpan}}"{{end}}{{with .Sort}} data-sort="{{.}}" style="cursor:pointer;"{{end}}{{with .Title}} title="{{.}}"{{end}}>{{.Text}}</th>
{{- end}}
            </tr>
{{- end}}
          </thead>
          <tbody{{with .BodyID}} id="{{.}}"{{end}}>
{{- range .Body}}
            <tr>
{{- range .}}
              <td class="{{.Class}}"{{if .RowSpan}} rowspan="{{.RowSpan}}"{{end}}{{if .ColSpan}} colspan="{{.ColSpan}}"{{end}}{{with .SortKey}} data-sort-value="{{.}}"{{end}}>{{.Content}}</td>
{{- end}}
            </tr>
{{- end}}
          </tbody>
        </table>
{{- end}}
`

const pageTemplateHTML = `<!DOCTYPE html>
<html>
  <meta charset="utf-8"/>
  <meta name="viewport" content="width=device-width, initial-scale=1"/>

  <head>
    <title>{{.Title}}</title>
    <style id="ReportStyle">` + reportCSS + `
    </style>
  </head>

  <body style="background-color:#202020;">
    <div>
{{- template "titlebar" .Heading}}
{{- if not .Summary}}
        <div class="global_settings">
          <span style="background-color: #555555;">
            <label for="show-workflow">Show Workflow:</label>
            <input id="show-workflow" type="checkbox" checked/>
          </span>
          <span style="background-color: #333333;">
            <label for="mobile-layout">Mobile Layout:</label>
            <input id="mobile-layout" type="checkbox" checked/>
          </span>
        </div>
{{- end}}
      </div>
{{- range .Sections}}
      <div class="section">
{{- with .Title}}
        <div class="section_title">{{.}}</div>
{{- end}}
{{- range .Tables}}
{{- with .Workflow}}
        <div class="workflow">{{.}}</div>
{{- end}}
{{- template "table" .Table}}
{{- if .Spacing}}
        <br name="table_spacing">
{{- end}}
{{- end}}
      </div>
{{- end}}
{{- range .Debug}}
      <div class="debug_section"{{if .Mismatch}} data-mismatch="true"{{end}}>
{{- range .Lists}}
        <table style="display: inline-block; border: 1px solid;">
          <thead>
            <tr>
              <th class="la{{if .Mismatch}} mismatch{{end}}">{{.Title}}</th>
            </tr>
          </thead>
          <tbody id="{{.BodyID}}">
{{- range .Rows}}
            <tr><td class="la">{{.}}</td></tr>
{{- end}}
          </tbody>
        </table>
{{- end}}
      </div>
{{- end}}
    </div>

    <div id="footer">
      <span>This report is not licensed for benchmarking, nor comparison between GPU parts(<a href="readme.html#unintended_use">learn more</a>).</span>
    </div>

    <script>
      var g_json = {{.Payload}};
    </script>
    <script>` + pageScript + `
    </script>
  </body>
</html>
`

const reportCSS = `
      table {
        font-size: 14px;
        margin: 2 auto;
        border-collapse: collapse;
        border: 1px solid ;
      }
      table th {
        margin: 0 auto;
        border-collapse: collapse;
        border: 1px solid ;
        background: #F8F8F8;
      }
      table td {
        margin: 0 auto;
        border-collapse: collapse;
        border: 1px solid ;
      }
      .tablename {
        color: DarkGreen;
        border-color: Black;
        background: #F8F8F8;
        font-weight: bold;
      }
      .subhdr { background: #F8F8F8; }
      .ca { text-align: center; }
      .la { text-align: left; }
      .ra { text-align: right; }
      .ww { word-wrap: break-word; }
      .full_name {
        min-width: 150px;
        width: 33vw;
        max-width: calc(92vw - 920px);
      }
      .base {
        font-size: 8px;
        color: #606060;
        border-color: Black;
      }
      .comp {
        font-size: 8px;
        color: steelblue;
        border-color: Black;
      }
      .not_applicable { color: #CCCCCC; }
      .not_available { color: #888888; }
      .mismatch { color: darkred; }
      .titlearea {
        display: flex;
        align-items: center;
        color: white;
        font-family: verdana;
      }
      .titlebar {
        margin-left: 0;
        margin-right: auto;
      }
      .global_settings {
        margin-left: auto;
        margin-right: 0;
      }
      .title {
        font-size: 28px;
        margin-left: 10px;
      }
      .section {
        border-radius: 15px;
        padding: 10px;
        background: #FFFFFF;
        margin: 10px;
        min-width: calc(100% - 40px);
        width: max-content;
      }
      .section_title {
        font-family: verdana;
        font-weight: bold;
        color: black;
      }
      .workflow {
        width: 960px;
        max-width: 90vw;
      }
      .debug_section {
        border-radius: 15px;
        padding: 10px;
        background: #DDDDDD;
        margin: 10px;
        min-width: calc(100% - 40px);
        width: max-content;
      }
      #footer {
        position: fixed;
        left: 0;
        bottom: 0;
        width: 100%;
        background: rgba(225, 225, 225, 0.5);
        color: darkred;
        text-align: center;
        height: 20px;
        line-height: 20px;
        font-weight: 700;
      }`

// pageScript wires the layout toggles and summary column sorting. Tables are
// already filled in, so the page works without it apart from those controls.
const pageScript = `
      function toggleHidden(elements, visible) {
        for (var i = 0; i < elements.length; i++) {
          elements[i].hidden = !visible;
        }
      }

      function bindToggle(id, elements) {
        var box = document.getElementById(id);
        if (!box) {
          return;
        }
        var apply = function() { toggleHidden(elements(), box.checked); };
        box.addEventListener('click', apply);
        apply();
      }

      function compareNumbers(lhs, rhs) {
        if (isFinite(lhs) && isFinite(rhs)) {
          return lhs - rhs;
        } else if (isFinite(lhs)) {
          return 1;
        } else if (isFinite(rhs)) {
          return -1;
        } else if (isNaN(lhs) && isNaN(rhs)) {
          return 0;
        } else if (isNaN(lhs)) {
          return -1;
        } else if (isNaN(rhs)) {
          return 1;
        }
        return (lhs == rhs) ? 0 : ((lhs > rhs) ? 1 : -1);
      }

      var sortModes = {
        index: { extract: function(s) { return parseInt(s, 10); }, compare: function(l, r) { return l - r; }, ascending: true },
        name: { extract: function(s) { return s; }, compare: function(l, r) { return l.localeCompare(r); }, ascending: true },
        number: { extract: parseFloat, compare: compareNumbers, ascending: false }
      };

      function bindSummarySort() {
        var table = document.getElementById('table_summary');
        if (!table) {
          return;
        }
        var headers = table.tHead.rows[0].cells;
        var ascending = [];
        var sortedColumn = 0;
        ascending[0] = true;
        for (var c = 0; c < headers.length; c++) {
          (function(column, mode) {
            if (!mode) {
              return;
            }
            headers[column].addEventListener('click', function() {
              if (ascending[column] === undefined) {
                ascending[column] = mode.ascending;
              } else if (column == sortedColumn) {
                ascending[column] = !ascending[column];
              }
              sortedColumn = column;
              var body = table.tBodies[0];
              var store = [];
              for (var r = 0; r < body.rows.length; r++) {
                var row = body.rows[r];
                store.push([mode.extract(row.cells[column].getAttribute('data-sort-value')), row]);
              }
              store.sort(function(lhs, rhs) {
                var ret = mode.compare(lhs[0], rhs[0]);
                return ascending[column] ? ret : -ret;
              });
              for (var i = 0; i < store.length; i++) {
                body.appendChild(store[i][1]);
              }
            });
          })(c, sortModes[headers[c].getAttribute('data-sort')]);
        }
      }

      bindToggle('show-workflow', function() { return document.getElementsByClassName('workflow'); });
      bindToggle('mobile-layout', function() { return document.getElementsByName('table_spacing'); });
      bindSummarySort();`

const readmeTemplateHTML = `<!DOCTYPE html>
<html>
  <meta charset="utf-8"/>
  <meta name="viewport" content="width=device-width, initial-scale=1"/>

  <head>
    <title>GPU Performance Report</title>
    <style id="ReportStyle">
      .titlearea {
        display: flex;
        align-items: center;
        color: white;
        font-family: verdana;
      }
      .titlebar {
        margin-left: 0;
        margin-right: auto;
      }
      .title {
        font-size: 28px;
        margin-left: 10px;
      }
      .section {
        border-radius: 15px;
        padding: 10px;
        background: #FFFFFF;
        margin: 10px;
      }
      li {
        white-space: normal;
      }
    </style>
  </head>

  <body style="background-color:#202020;">
    <div>
{{- template "titlebar" "GPU Performance Report"}}
      </div>
    </div>

    <div class="section" id="intro">
      <h2>GPU Performance HTML Report</h2>
      <p>Navigate to the <a href="summary.html">summary.html</a> to begin.</p>
    </div>

    <div class="section" id="unintended_use">
      <h2>Unintended Use of Product</h2>
      <p>These reports should not be used for benchmarking absolute performance, nor for comparing results between GPUs, due to the following factors:</p>
      <ul>
        <li>To ensure stable measurements, profiling encourages locking the GPU to its <a href="https://en.wikipedia.org/wiki/Thermal_design_power" target="_blank">rated TDP (thermal design power)</a>. This forces thermally stable clock rates and disables boost clocks, ensuring consistent performance, but preventing the GPU from reaching its absolute peak performance.</li>
        <li>Certain GPU power management settings are disabled during profiling, to meet hardware requirements.</li>
        <li>Not all metrics are comparable between GPUs or architectures. For example, a more powerful GPU may complete a workload in less time while showing lower %-of-peak throughput values, when compared against a less powerful GPU.</li>
      </ul>
      <p>The reports are intended for performance profiling, to assist developers and artists in improving the performance of their code, art assets, and GPU shaders.</p>
    </div>
  </body>
</html>
`
