// internal/report/catalog.go
package report

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/mwiater/perfreport/internal/capture"
)

//go:embed catalog_desktop.yaml
var desktopCatalog []byte

// Catalog holds the architecture-specific parts of the report: which
// pipelines, resources, breakdown trees and summary columns exist.
type Catalog struct {
	Name              string          `yaml:"name"`
	L2CacheSizePerLTS float64         `yaml:"l2_cache_size_per_lts_kib"`
	TopThroughputs    []TopThroughput `yaml:"top_throughputs"`
	SmPipes           []SmPipe        `yaml:"sm_pipes"`
	InstPipes         []InstPipe      `yaml:"inst_pipes"`
	ResourceRows      []ResourceRow   `yaml:"resource_rows"`
	L2Tables          []L2Table       `yaml:"l2_tables"`
	SummaryColumns    []SummaryColumn `yaml:"summary_columns"`
}

// TopThroughput is one row of the Top Throughputs table.
type TopThroughput struct {
	Category string `yaml:"category"`
	// Name is trusted markup, usually a link to the detailing table.
	Name       string `yaml:"name"`
	Throughput string `yaml:"throughput"`
}

// SmPipe is one row of the SM Instruction Throughput table.
type SmPipe struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	// Activity, when set, is the counter whose percent of peak is shown
	// instead of the instruction counter's.
	Activity       string `yaml:"activity"`
	NoInstExecuted bool   `yaml:"no_inst_executed"`
}

// InstExecuted returns the pipe's instruction counter, or "".
func (p SmPipe) InstExecuted() string {
	if p.NoInstExecuted {
		return ""
	}
	return "sm__inst_executed_pipe_" + p.Name
}

func (p SmPipe) counterNames() []string {
	var names []string
	if c := p.InstExecuted(); c != "" {
		names = append(names, c)
	}
	if p.Activity != "" {
		names = append(names, p.Activity)
	}
	return names
}

// InstPipe is one row of the SM Instruction Execution table. The pipe named
// "total" reads the all-pipe counters.
type InstPipe struct {
	Name               string `yaml:"name"`
	Description        string `yaml:"description"`
	ThreadInstExecuted bool   `yaml:"thread_inst_executed"`
}

const totalPipe = "total"

// Counters returns the warp and thread instruction counters of the pipe.
// The thread counter is "" when the pipe has none.
func (p InstPipe) Counters() (warp, thread string) {
	if p.Name == totalPipe {
		return "sm__inst_executed", "smsp__thread_inst_executed_pred_on"
	}
	warp = "sm__inst_executed_pipe_" + p.Name
	if p.ThreadInstExecuted {
		thread = "sm__thread_inst_executed_pipe_" + p.Name + "_pred_on"
	}
	return warp, thread
}

// ResourceRow is one row of the SM Resource Usage table. Each entry is a
// counter name or one of "NotApplicable" and "NotAvailable".
type ResourceRow struct {
	Resource string `yaml:"resource"`
	Tot      Ref    `yaml:"tot"`
	Gfx      Ref    `yaml:"gfx"`
	Vtg      Ref    `yaml:"vtg"`
	Ps       Ref    `yaml:"ps"`
	Cs       Ref    `yaml:"cs"`
}

// L2Column labels one level of an L2 breakdown table.
type L2Column struct {
	Group string `yaml:"group"`
	Label string `yaml:"label"`
}

// L2Table is one L2 sector-traffic breakdown table.
type L2Table struct {
	Name    string     `yaml:"name"`
	ID      string     `yaml:"id"`
	Columns []L2Column `yaml:"columns"`
	Nodes   []Node     `yaml:"nodes"`
}

// Summary column formats.
const (
	FormatPct = "pct"
	FormatAvg = "avg"
	FormatSum = "sum"
)

// SummaryColumn is one metric column of the ranges summary.
type SummaryColumn struct {
	Description string `yaml:"description"`
	Kind        string `yaml:"kind"`
	Metric      string `yaml:"metric"`
	Submetric   string `yaml:"submetric"`
	Format      string `yaml:"format"`
	Precision   *int   `yaml:"precision"`
	Align       string `yaml:"align"`
}

// MetricKind parses the column's metric category.
func (c SummaryColumn) MetricKind() (capture.Kind, error) {
	switch c.Kind {
	case "counter":
		return capture.Counter, nil
	case "ratio":
		return capture.Ratio, nil
	case "throughput":
		return capture.Throughput, nil
	}
	return 0, fmt.Errorf("summary column %q: unknown metric kind %q", c.Description, c.Kind)
}

func (c SummaryColumn) precision() int {
	if c.Precision == nil {
		return defaultDigit
	}
	return *c.Precision
}

func (c SummaryColumn) align() string {
	if c.Align == "" {
		return "ra"
	}
	return c.Align
}

// ErrEmptyCatalog is returned for a catalog without any content.
var ErrEmptyCatalog = errors.New("catalog defines no tables")

// DefaultCatalog returns the embedded desktop catalog.
func DefaultCatalog() (*Catalog, error) {
	return ParseCatalog(desktopCatalog)
}

// LoadCatalog reads a catalog file. An empty path selects the embedded
// desktop catalog.
func LoadCatalog(path string) (*Catalog, error) {
	if path == "" {
		return DefaultCatalog()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("unable to read catalog %s: %w", path, err)
	}
	cat, err := ParseCatalog(data)
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}
	return cat, nil
}

// ParseCatalog decodes and checks a YAML catalog.
func ParseCatalog(data []byte) (*Catalog, error) {
	var cat Catalog
	if err := yaml.Unmarshal(data, &cat); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	if err := cat.validate(); err != nil {
		return nil, err
	}
	for i := range cat.L2Tables {
		resolveNodes(cat.L2Tables[i].Nodes)
	}
	return &cat, nil
}

func (c *Catalog) validate() error {
	if len(c.TopThroughputs) == 0 && len(c.SmPipes) == 0 && len(c.L2Tables) == 0 && len(c.SummaryColumns) == 0 {
		return ErrEmptyCatalog
	}
	ids := make(map[string]bool)
	for _, t := range c.L2Tables {
		if t.Name == "" || t.ID == "" {
			return fmt.Errorf("l2 table needs a name and an id")
		}
		if ids[t.ID] {
			return fmt.Errorf("duplicate l2 table id %q", t.ID)
		}
		ids[t.ID] = true
		if len(t.Columns) == 0 {
			return fmt.Errorf("l2 table %q has no columns", t.ID)
		}
	}
	for _, col := range c.SummaryColumns {
		if _, err := col.MetricKind(); err != nil {
			return err
		}
		switch col.Format {
		case FormatPct, FormatAvg, FormatSum:
		default:
			return fmt.Errorf("summary column %q: unknown format %q", col.Description, col.Format)
		}
	}
	return nil
}

// SummarySelection returns the metrics the summary columns read.
func (c *Catalog) SummarySelection() capture.Selection {
	var sel capture.Selection
	seen := make(map[capture.Kind]map[string]bool)
	for _, col := range c.SummaryColumns {
		kind, err := col.MetricKind()
		if err != nil {
			continue
		}
		if seen[kind] == nil {
			seen[kind] = make(map[string]bool)
		}
		if seen[kind][col.Metric] {
			continue
		}
		seen[kind][col.Metric] = true
		switch kind {
		case capture.Counter:
			sel.Counters = append(sel.Counters, col.Metric)
		case capture.Ratio:
			sel.Ratios = append(sel.Ratios, col.Metric)
		case capture.Throughput:
			sel.Throughputs = append(sel.Throughputs, col.Metric)
		}
	}
	return sel
}
