// internal/report/format.go
package report

import (
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

const (
	glyphNaN     = "⚠"
	glyphInf     = "∞"
	glyphNegInf  = "-∞"
	defaultDigit = 1
)

// Display is the rendered form of a value: text, or a mark.
type Display struct {
	Text string
	Mark Mark
}

// Formatter renders numbers with the grouping and decimal separators of a
// locale.
type Formatter struct {
	printer *message.Printer
}

// NewFormatter returns a Formatter for tag.
func NewFormatter(tag language.Tag) *Formatter {
	return &Formatter{printer: message.NewPrinter(tag)}
}

// Pct formats a percentage, rounded up to precision decimals.
func (f *Formatter) Pct(v Value, precision int) Display {
	return f.format(v, precision, true)
}

// Avg formats an average with precision decimals.
func (f *Formatter) Avg(v Value, precision int) Display {
	return f.format(v, precision, false)
}

// Sum formats a sum with precision decimals.
func (f *Formatter) Sum(v Value, precision int) Display {
	return f.format(v, precision, false)
}

// Decimal formats a finite number with exactly precision decimals.
func (f *Formatter) Decimal(x float64, precision int) string {
	return f.printer.Sprint(number.Decimal(x,
		number.MinFractionDigits(precision),
		number.MaxFractionDigits(precision)))
}

func (f *Formatter) format(v Value, precision int, roundUp bool) Display {
	if v.IsMarked() {
		return Display{Mark: v.Mark()}
	}
	x := v.Float()
	switch {
	case math.IsNaN(x):
		return Display{Text: glyphNaN}
	case math.IsInf(x, 1):
		return Display{Text: glyphInf}
	case math.IsInf(x, -1):
		return Display{Text: glyphNegInf}
	}
	if roundUp {
		x = RoundUp(x, precision)
	}
	return Display{Text: f.Decimal(x, precision)}
}

// Text wraps plain text in a Display.
func Text(s string) Display { return Display{Text: s} }
