package report

import (
	"bytes"
	"math"
	"testing"

	"github.com/mwiater/perfreport/internal/capture"
)

func TestFormatG(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{1.5, "1.5"},
		{1234567, "1.23457e+06"},
		{100000, "100000"},
		{0.0001, "0.0001"},
		{0.00001, "1e-05"},
		{0, "0"},
		{math.NaN(), "nan"},
		{math.Inf(1), "inf"},
		{math.Inf(-1), "-inf"},
	}
	for _, tt := range tests {
		if got := formatG(tt.in); got != tt.want {
			t.Errorf("formatG(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestWriteCSV(t *testing.T) {
	c := capture.Capture{Ranges: []capture.Range{
		{FullName: "F1", Counters: capture.MetricSet{"a": sub(map[string]float64{"sum": 1.5, "avg": 1234567})}},
		{FullName: "F2", Ratios: capture.MetricSet{"r": sub(map[string]float64{"pct": 50})}},
	}}
	var buf bytes.Buffer
	if err := WriteCSV(&buf, c, c.Columns(nil), ", "); err != nil {
		t.Fatalf("WriteCSV error: %v", err)
	}
	want := `"Range Name","a.avg","a.sum","r.pct",` + "\n" +
		`"F1",1.23457e+06, 1.5, nan, ` + "\n" +
		`"F2",nan, nan, 50, ` + "\n"
	if got := buf.String(); got != want {
		t.Fatalf("csv mismatch:\n got %q\nwant %q", got, want)
	}
}

func TestWriteCSVSummarySeparator(t *testing.T) {
	c := capture.Capture{Ranges: []capture.Range{
		{FullName: "F1", Counters: capture.MetricSet{"a": sub(map[string]float64{"sum": 2})}},
	}}
	var buf bytes.Buffer
	if err := WriteCSV(&buf, c, c.Columns(nil), ","); err != nil {
		t.Fatalf("WriteCSV error: %v", err)
	}
	want := `"Range Name","a.sum",` + "\n" + `"F1",2,` + "\n"
	if got := buf.String(); got != want {
		t.Fatalf("csv mismatch:\n got %q\nwant %q", got, want)
	}
}
