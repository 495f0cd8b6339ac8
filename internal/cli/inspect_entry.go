package perfreport

import (
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/mwiater/perfreport/internal/appconfig"
	"github.com/mwiater/perfreport/internal/capture"
	"github.com/mwiater/perfreport/internal/report"
)

var (
	inspectTitleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
	inspectHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")).Padding(0, 1)
	inspectCellStyle   = lipgloss.NewStyle().Padding(0, 1)
	inspectNumberStyle = inspectCellStyle.Align(lipgloss.Right)
	inspectBorderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

var (
	durationColumn = capture.Column{Kind: capture.Counter, Base: "gpu__time_duration", Submetric: "sum"}
	grActiveColumn = capture.Column{Kind: capture.Counter, Base: "gr__cycles_active", Submetric: "avg.pct_of_peak_sustained_elapsed"}
)

// rangeOverview is one row of the inspect table.
type rangeOverview struct {
	index    int
	name     string
	duration float64
	grActive float64
	topUnit  string
	topPct   float64
}

// topThroughput returns the catalog unit with the highest %-of-peak in r.
func topThroughput(cat *report.Catalog, r capture.Range) (string, float64) {
	best, bestPct := "", math.NaN()
	for _, t := range cat.TopThroughputs {
		pct := r.Value(capture.Column{Kind: capture.Throughput, Base: t.Throughput, Submetric: "avg.pct_of_peak_sustained_elapsed"})
		if math.IsNaN(pct) {
			continue
		}
		if best == "" || pct > bestPct {
			best, bestPct = fmt.Sprintf("%s (%s)", t.Category, t.Throughput), pct
		}
	}
	return best, bestPct
}

func overview(cat *report.Catalog, c capture.Capture) []rangeOverview {
	rows := make([]rangeOverview, 0, len(c.Ranges))
	for i, r := range c.Ranges {
		unit, pct := topThroughput(cat, r)
		rows = append(rows, rangeOverview{
			index:    i,
			name:     r.FullName,
			duration: r.Value(durationColumn),
			grActive: r.Value(grActiveColumn),
			topUnit:  unit,
			topPct:   pct,
		})
	}
	return rows
}

func runInspect(cfg *appconfig.Config, inputPath string, out io.Writer) error {
	if inputPath == "" {
		return fmt.Errorf("input capture file is required (pass --input)")
	}
	c, err := capture.Load(inputPath)
	if err != nil {
		return err
	}
	opts, err := renderOptions(cfg)
	if err != nil {
		return err
	}
	f := report.NewFormatter(opts.Locale)
	device := c.Device.WithDefaults()

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(inspectBorderStyle).
		Headers("#", "Range", "Duration (ns)", "GR Active %", "Top Throughput", "%").
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return inspectHeaderStyle
			case col == 0 || col == 2 || col == 3 || col == 5:
				return inspectNumberStyle
			}
			return inspectCellStyle
		})
	for _, r := range overview(opts.Catalog, c) {
		unit := r.topUnit
		if unit == "" {
			unit = "-"
		}
		t.Row(
			strconv.Itoa(r.index),
			r.name,
			f.Sum(report.Num(r.duration), 0).Text,
			f.Pct(report.Num(r.grActive), 1).Text,
			unit,
			f.Pct(report.Num(r.topPct), 1).Text,
		)
	}

	title := fmt.Sprintf("%s (%s), collected %s, %d ranges",
		device.GPUName, device.ChipName, report.TimeToStr(c.SecondsSinceEpoch, opts.Location), len(c.Ranges))
	fmt.Fprintln(out, inspectTitleStyle.Render(title))
	fmt.Fprintln(out, t.Render())
	return nil
}
