package report

import (
	"math"
	"reflect"
	"testing"

	"golang.org/x/text/language"

	"github.com/mwiater/perfreport/internal/capture"
)

func ratioEnv(pcts map[string]float64) *Env {
	ratios := capture.MetricSet{}
	for name, pct := range pcts {
		ratios[name] = sub(map[string]float64{"pct": pct})
	}
	return &Env{
		Metrics: NewMetrics(nil, ratios, nil, MetricsOptions{}),
		Format:  NewFormatter(language.AmericanEnglish),
	}
}

func TestNewNodeEmptyAddendsSumChildren(t *testing.T) {
	n := NewNode("ROP", nil,
		NewNode("ZROP", []string{"zrop"}),
		NewNode("CROP", []string{"crop"}),
	)
	if !reflect.DeepEqual(n.Addends, []string{"zrop", "crop"}) {
		t.Fatalf("addends = %v", n.Addends)
	}

	env := ratioEnv(map[string]float64{
		"zrop": 10, "zrop_lookup_hit": 5,
		"crop": 30, "crop_lookup_hit": 15,
	})
	pct, hit := sectorStats(env.Metrics, n.Addends)
	if pct != 40 {
		t.Fatalf("parent pct = %v, want sum of children 40", pct)
	}
	if hit != 50 {
		t.Fatalf("hit rate = %v, want 50", hit)
	}
}

func TestNewNodeKeepsExplicitAddends(t *testing.T) {
	n := NewNode("L1TEX", []string{"tex"}, NewNode("Loads", []string{"tex_ld"}))
	if !reflect.DeepEqual(n.Addends, []string{"tex"}) {
		t.Fatalf("explicit addends replaced: %v", n.Addends)
	}
}

func TestSectorStatsZeroTraffic(t *testing.T) {
	env := ratioEnv(map[string]float64{"a": 0, "a_lookup_hit": 0})
	pct, hit := sectorStats(env.Metrics, []string{"a"})
	if pct != 0 || hit != 0 {
		t.Fatalf("zero traffic: pct=%v hit=%v, want 0 and 0", pct, hit)
	}
}

func TestRequiredRatios(t *testing.T) {
	nodes := []Node{NewNode("A", []string{"a"}, NewNode("B", []string{"b"}))}
	want := []string{"a", "a_lookup_hit", "b", "b_lookup_hit"}
	if got := RequiredRatios(nodes); !reflect.DeepEqual(got, want) {
		t.Fatalf("RequiredRatios = %v, want %v", got, want)
	}
}

func TestRowSpanAndDepth(t *testing.T) {
	n := NewNode("root", nil,
		NewNode("x", nil, NewNode("x1", []string{"x1"}), NewNode("x2", []string{"x2"})),
		NewNode("y", []string{"y"}),
	)
	if got := L1RowSpan(n); got != 3 {
		t.Fatalf("L1RowSpan = %d, want 3", got)
	}
	if got := Depth(n); got != 3 {
		t.Fatalf("Depth = %d, want 3", got)
	}
}

func TestBreakdownRowsExpanded(t *testing.T) {
	nodes := []Node{
		NewNode("A", []string{"a"}, NewNode("A1", []string{"a1"}), NewNode("A2", []string{"a2"})),
		NewNode("B", []string{"b"}),
	}
	env := ratioEnv(map[string]float64{"a": 0})
	rows := BreakdownRows(env, nodes, false)
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}
	if len(rows[0]) != 8 || rows[0][0].RowSpan != 2 || rows[0][0].Display.Text != "A" {
		t.Fatalf("first row should hold A (rowspan 2) and A1, got %+v", rows[0])
	}
	if len(rows[1]) != 4 || rows[1][0].Display.Text != "A2" {
		t.Fatalf("second row should hold A2, got %+v", rows[1])
	}
	if rows[2][0].Display.Text != "B" || rows[2][0].RowSpan != 1 {
		t.Fatalf("third row should hold B, got %+v", rows[2])
	}
}

func TestBreakdownRowsCollapsed(t *testing.T) {
	nodes := []Node{
		NewNode("Idle", []string{"idle"}, NewNode("Reads", []string{"idle_rd"}), NewNode("Writes", []string{"idle_wr"})),
		NewNode("Busy", []string{"busy"}, NewNode("Reads", []string{"busy_rd"}), NewNode("Writes", []string{"busy_wr"})),
	}
	env := ratioEnv(map[string]float64{
		"idle": 0,
		"busy": 60, "busy_lookup_hit": 30,
		"busy_rd": 40, "busy_wr": 20,
	})
	rows := BreakdownRows(env, nodes, true)
	if len(rows) != 3 {
		t.Fatalf("expected collapsed Idle plus two Busy rows, got %d", len(rows))
	}
	idle := rows[0]
	if len(idle) != 8 {
		t.Fatalf("collapsed row should pad one empty level, got %d cells", len(idle))
	}
	if idle[0].RowSpan != 1 {
		t.Fatalf("collapsed node rowspan = %d, want 1", idle[0].RowSpan)
	}
	for _, c := range idle[4:] {
		if c.Display.Text != "" {
			t.Fatalf("padding cells must be empty, got %+v", c)
		}
	}
	if rows[1][0].Display.Text != "Busy" || rows[1][0].RowSpan != 2 {
		t.Fatalf("expanded node should span its children, got %+v", rows[1][0])
	}
	if rows[1][2].Display.Text != "60.0" || rows[1][1].Display.Text != "50.0" {
		t.Fatalf("unexpected Busy stats: pct=%q hit=%q", rows[1][2].Display.Text, rows[1][1].Display.Text)
	}
}

func TestBreakdownRowsNaNCollapses(t *testing.T) {
	nodes := []Node{NewNode("Unknown", []string{"missing"}, NewNode("Child", []string{"child"}))}
	env := ratioEnv(nil)
	rows := BreakdownRows(env, nodes, true)
	if len(rows) != 1 || len(rows[0]) != 8 {
		t.Fatalf("NaN traffic should collapse to a single padded row, got %+v", rows)
	}
	if !math.IsNaN(env.Metrics.RatioPct("missing").Float()) {
		t.Fatalf("expected NaN for unrecorded ratio")
	}
}
