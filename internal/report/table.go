// internal/report/table.go
package report

import (
	"html/template"
	"time"

	"github.com/mwiater/perfreport/internal/capture"
)

const (
	defaultTableStyle = "display: inline-block; border: 1px solid;"
	barHeaderGlyphs   = "││││▌││││▌││││▌││││▌"
)

// Cell is one body cell of a generated table.
type Cell struct {
	Class   string
	RowSpan int
	ColSpan int
	Display Display
	// Trusted marks Display.Text as markup that is written unescaped.
	Trusted bool
	// SortKey is the value sortable columns compare instead of the text.
	SortKey string
}

// Content renders the cell body.
func (c Cell) Content() template.HTML {
	switch c.Display.Mark {
	case NotApplicable:
		return `<span class="not_applicable">-</span>`
	case NotAvailable:
		return `<span class="not_available">-</span>`
	}
	if c.Trusted {
		return template.HTML(c.Display.Text)
	}
	return template.HTML(EscapeHTML(c.Display.Text))
}

func cell(class string, d Display) Cell { return Cell{Class: class, Display: d} }

func textCell(class, text string) Cell { return cell(class, Text(text)) }

func rawCell(class, markup string) Cell {
	return Cell{Class: class, Display: Text(markup), Trusted: true}
}

func markCell(class string, m Mark) Cell { return cell(class, Display{Mark: m}) }

func (c Cell) spans(rows, cols int) Cell {
	c.RowSpan, c.ColSpan = rows, cols
	return c
}

// Row is one table row.
type Row []Cell

// HeaderCell is one <th> of a table head.
type HeaderCell struct {
	Class   string
	ColSpan int
	RowSpan int
	Text    template.HTML
	// Sort, when set, makes the column sortable on click with the named
	// comparison ("index", "name" or "number").
	Sort  string
	Title string
}

func th(class string, text template.HTML) HeaderCell {
	return HeaderCell{Class: class, Text: text}
}

func thSpan(class string, cols int, text template.HTML) HeaderCell {
	return HeaderCell{Class: class, ColSpan: cols, Text: text}
}

func thBar() HeaderCell { return th("base", barHeaderGlyphs) }

// Table is a fully computed table ready for rendering.
type Table struct {
	ID     string
	Style  template.CSS
	Header [][]HeaderCell
	Body   []Row
	// BodyID names the tbody element.
	BodyID string
}

func newTable(id, bodyID string, header ...[]HeaderCell) *Table {
	return &Table{ID: id, BodyID: bodyID, Style: defaultTableStyle, Header: header}
}

func (t *Table) add(cells ...Cell) {
	t.Body = append(t.Body, Row(cells))
}

// Env is what a generator may read while building its table.
type Env struct {
	Metrics           *Metrics
	Format            *Formatter
	Device            capture.Device
	SecondsSinceEpoch int64
	Location          *time.Location
}

// pctCells renders a percentage and its bar chart.
func (e *Env) pctCells(pct Value) []Cell {
	return []Cell{
		cell("ra", e.Format.Pct(pct, defaultDigit)),
		textCell("la comp", ToBarChart(pct, BarChar)),
	}
}

// Generator describes one table: its identity, the workflow blurb shown
// above it, the metrics it must reference, and how to build it.
type Generator struct {
	Name string
	// Workflow is trusted markup shown above the table.
	Workflow string
	Required capture.Selection
	// Build returns the table, or nil for tables that only reference metrics.
	Build func(env *Env) *Table
}

// Section groups tables under an optional title.
type Section struct {
	Title string
	// Spacing inserts a line break after each table that the mobile layout
	// toggle can hide.
	Spacing    bool
	Generators []Generator
}

func allMetricsTable(name string) bool {
	switch name {
	case "AllCounters", "AllRatios", "AllThroughputs":
		return true
	}
	return false
}
