package report

import (
	"math"
	"testing"

	"golang.org/x/text/language"
)

func TestFormatterGlyphsAndMarks(t *testing.T) {
	f := NewFormatter(language.AmericanEnglish)
	tests := []struct {
		name string
		got  Display
		want Display
	}{
		{"nan", f.Pct(NaN(), 1), Display{Text: "⚠"}},
		{"inf", f.Avg(Num(math.Inf(1)), 1), Display{Text: "∞"}},
		{"negative inf", f.Sum(Num(math.Inf(-1)), 1), Display{Text: "-∞"}},
		{"not applicable", f.Pct(Marked(NotApplicable), 1), Display{Mark: NotApplicable}},
		{"not available", f.Sum(Marked(NotAvailable), 0), Display{Mark: NotAvailable}},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Fatalf("%s: got %+v, want %+v", tt.name, tt.got, tt.want)
		}
	}
}

func TestFormatterPctRoundsUp(t *testing.T) {
	f := NewFormatter(language.AmericanEnglish)
	tests := []struct {
		v         float64
		precision int
		want      string
	}{
		{12.31, 1, "12.4"},
		{12.3, 1, "12.3"},
		{0.001, 2, "0.01"},
		{99.999, 1, "100.0"},
	}
	for _, tt := range tests {
		if got := f.Pct(Num(tt.v), tt.precision).Text; got != tt.want {
			t.Fatalf("Pct(%v, %d) = %q, want %q", tt.v, tt.precision, got, tt.want)
		}
	}
}

func TestFormatterGroupsThousands(t *testing.T) {
	f := NewFormatter(language.AmericanEnglish)
	if got := f.Sum(Num(1234567.25), 1).Text; got != "1,234,567.3" && got != "1,234,567.2" {
		t.Fatalf("Sum = %q, want thousands separators and one decimal", got)
	}
	if got := f.Sum(Num(1500), 0).Text; got != "1,500" {
		t.Fatalf("Sum precision 0 = %q, want 1,500", got)
	}
	if got := f.Avg(Num(2), 2).Text; got != "2.00" {
		t.Fatalf("Avg = %q, want 2.00", got)
	}
}

func TestFormatterLocale(t *testing.T) {
	f := NewFormatter(language.German)
	if got := f.Sum(Num(1234.5), 1).Text; got != "1.234,5" {
		t.Fatalf("German Sum = %q, want 1.234,5", got)
	}
}
