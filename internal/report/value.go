// internal/report/value.go
package report

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// Mark tags a value that is not a number: either the metric makes no sense
// for the row, or the hardware cannot measure it.
type Mark uint8

const (
	NoMark Mark = iota
	NotApplicable
	NotAvailable
)

func (m Mark) String() string {
	switch m {
	case NotApplicable:
		return "NotApplicable"
	case NotAvailable:
		return "NotAvailable"
	}
	return ""
}

// Value is a metric value or a Mark.
type Value struct {
	num  float64
	mark Mark
}

// Num wraps a number.
func Num(f float64) Value { return Value{num: f} }

// Marked returns a value carrying m.
func Marked(m Mark) Value { return Value{mark: m} }

// NaN is the value of a metric that was not recorded.
func NaN() Value { return Num(math.NaN()) }

// Mark returns the value's mark, NoMark for numbers.
func (v Value) Mark() Mark { return v.mark }

// IsMarked reports whether v carries a Mark.
func (v Value) IsMarked() bool { return v.mark != NoMark }

// Float returns the number, or NaN for marked values.
func (v Value) Float() float64 {
	if v.mark != NoMark {
		return math.NaN()
	}
	return v.num
}

// Map applies fn to the number. Marked values pass through.
func (v Value) Map(fn func(float64) float64) Value {
	if v.mark != NoMark {
		return v
	}
	return Num(fn(v.num))
}

// Ref names a metric. The names "NotApplicable" and "NotAvailable" stand for
// the corresponding marks.
type Ref string

const (
	RefNotApplicable Ref = "NotApplicable"
	RefNotAvailable  Ref = "NotAvailable"
)

// Mark returns the mark a Ref stands for.
func (r Ref) Mark() Mark {
	switch r {
	case RefNotApplicable:
		return NotApplicable
	case RefNotAvailable:
		return NotAvailable
	}
	return NoMark
}

// Valid reports whether r names a real metric.
func (r Ref) Valid() bool { return r.Mark() == NoMark }

// SafeDiv divides, returning 0 for 0/0.
func SafeDiv(dividend, divisor float64) float64 {
	if dividend == 0 && divisor == 0 {
		return 0
	}
	return dividend / divisor
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// CompareNumbers orders NaN < -Inf < +Inf < finite numbers. Finite values
// compare by difference.
func CompareNumbers(lhs, rhs float64) float64 {
	switch {
	case isFinite(lhs) && isFinite(rhs):
		return lhs - rhs
	case isFinite(lhs):
		return 1
	case isFinite(rhs):
		return -1
	case math.IsNaN(lhs) && math.IsNaN(rhs):
		return 0
	case math.IsNaN(lhs):
		return -1
	case math.IsNaN(rhs):
		return 1
	case lhs == rhs:
		return 0
	case lhs > rhs:
		return 1
	}
	return -1
}

// RoundUp rounds num up to precision decimal places.
func RoundUp(num float64, precision int) float64 {
	p := math.Pow(10, float64(precision))
	return math.Ceil(num*p) / p
}

// BarWidth is the number of characters of a full bar chart.
const BarWidth = 20

// BarChar is the glyph used for bar charts.
const BarChar = "█"

// ToBarChart draws pct as up to BarWidth copies of ch.
func ToBarChart(pct Value, ch string) string {
	if pct.IsMarked() || math.IsNaN(pct.num) {
		return ""
	}
	clamped := math.Min(math.Max(pct.num, 0), 100)
	width := int(math.Ceil(clamped / 100 * BarWidth))
	return strings.Repeat(ch, width)
}

var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	" ", "&nbsp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&apos;",
)

// EscapeHTML escapes markup characters and turns spaces into &nbsp; so cell
// text never wraps.
func EscapeHTML(s string) string {
	return htmlEscaper.Replace(s)
}

var monthNames = [...]string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}

// TimeToStr formats a collection time as "Mon D, YYYY H:MM:SS".
func TimeToStr(secondsSinceEpoch int64, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	t := time.Unix(secondsSinceEpoch, 0).In(loc)
	return fmt.Sprintf("%s %d, %d %d:%02d:%02d",
		monthNames[t.Month()-1], t.Day(), t.Year(), t.Hour(), t.Minute(), t.Second())
}

// CalcRowSpan returns how many rows starting at idx share the attribute of
// row idx, or 0 when row idx continues the group of the previous row.
func CalcRowSpan(n, idx int, attr func(int) string) int {
	if idx > 0 && attr(idx) == attr(idx-1) {
		return 0
	}
	span := 0
	for i := idx; i < n; i++ {
		if attr(i) != attr(idx) {
			break
		}
		span++
	}
	return span
}
