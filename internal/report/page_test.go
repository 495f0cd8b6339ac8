package report

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/mwiater/perfreport/internal/capture"
)

func flag(v bool) *bool { return &v }

func TestRenderRange(t *testing.T) {
	p := capture.RangePayload{
		RangeName:           "Q0 / <FRAME>",
		Debug:               flag(false),
		PopulateDummyValues: flag(false),
		SecondsSinceEpoch:   1700000000,
		Device:              capture.Device{GPUName: "Test GPU"},
		Counters:            capture.MetricSet{"gr__cycles_active": sub(map[string]float64{"avg": 5})},
		Ratios:              capture.MetricSet{},
		Throughputs:         capture.MetricSet{},
	}
	var buf bytes.Buffer
	if err := RenderRange(&buf, p, RenderOptions{Location: time.UTC, Seed: 1}); err != nil {
		t.Fatalf("RenderRange error: %v", err)
	}
	html := buf.String()
	for _, want := range []string{
		`<title>Q0 / &lt;FRAME&gt;</title>`,
		`id="Device-Properties"`,
		`id="Top-Throughputs"`,
		`id="SM-Warp-Issue-Stall-Reasons"`,
		`id="Primitive-Data-Flow"`,
		`id="All-Counters"`,
		`id="show-workflow"`,
		`Nov 14, 2023 22:13:20`,
		`var g_json = {"rangeName":"Q0 / \u003cFRAME\u003e"`,
		`href="readme.html#unintended_use"`,
	} {
		if !strings.Contains(html, want) {
			t.Errorf("range page missing %q", want)
		}
	}
	if strings.Contains(html, `<div class="debug_section"`) {
		t.Errorf("debug sections rendered with debug disabled")
	}
}

func TestRenderRangeDebugConsistent(t *testing.T) {
	p := capture.RangePayload{RangeName: "Frame"}
	var buf bytes.Buffer
	if err := RenderRange(&buf, p, RenderOptions{Location: time.UTC, Seed: 42}); err != nil {
		t.Fatalf("RenderRange error: %v", err)
	}
	html := buf.String()
	if !strings.Contains(html, `<div class="debug_section"`) {
		t.Fatalf("expected debug sections when debug defaults on")
	}
	if strings.Contains(html, `data-mismatch="true"`) {
		t.Fatalf("a table referenced metrics it does not declare")
	}
	if !strings.Contains(html, `id="tbody_required_counters_TopLevelStats"`) {
		t.Fatalf("missing required counters list for TopLevelStats")
	}
}

func TestRenderRangeSeedIsReproducible(t *testing.T) {
	p := capture.RangePayload{RangeName: "Frame", Debug: flag(false)}
	render := func() string {
		var buf bytes.Buffer
		if err := RenderRange(&buf, p, RenderOptions{Location: time.UTC, Seed: 9}); err != nil {
			t.Fatalf("RenderRange error: %v", err)
		}
		return buf.String()
	}
	if render() != render() {
		t.Fatalf("pages rendered with the same seed differ")
	}
}

func TestRenderSummary(t *testing.T) {
	p := capture.SummaryPayload{
		Debug:               flag(false),
		PopulateDummyValues: flag(true),
		SecondsSinceEpoch:   1700000000,
		Ranges:              []string{"Frame"},
		RangeFileNames:      []string{"00000_Frame.html"},
		RangesCounters:      map[string]capture.MetricSet{"Frame": {"gpu__time_duration": sub(map[string]float64{"sum": 1000})}},
	}
	var buf bytes.Buffer
	if err := RenderSummary(&buf, p, RenderOptions{Location: time.UTC, Seed: 3}); err != nil {
		t.Fatalf("RenderSummary error: %v", err)
	}
	html := buf.String()
	for _, want := range []string{
		`<title>Summary</title>`,
		`id="table_summary"`,
		`style="border: 1px solid; table-layout: fixed;"`,
		`data-sort="number"`,
		`<a href="00000_Frame.html">Frame</a>`,
		`00000_FRAME.html`,
		`Collection Information`,
	} {
		if !strings.Contains(html, want) {
			t.Errorf("summary page missing %q", want)
		}
	}
	if strings.Contains(html, `id="show-workflow"`) {
		t.Errorf("summary page should not carry layout toggles")
	}
}

func TestRenderReadme(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderReadme(&buf); err != nil {
		t.Fatalf("RenderReadme error: %v", err)
	}
	html := buf.String()
	if !strings.Contains(html, `id="unintended_use"`) || !strings.Contains(html, `href="summary.html"`) {
		t.Fatalf("readme incomplete:\n%s", html)
	}
}
