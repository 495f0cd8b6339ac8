package report

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestDefaultCatalog(t *testing.T) {
	cat, err := DefaultCatalog()
	if err != nil {
		t.Fatalf("DefaultCatalog error: %v", err)
	}
	if cat.Name != "desktop" {
		t.Fatalf("catalog name = %q", cat.Name)
	}
	if len(cat.L2Tables) != 2 {
		t.Fatalf("expected 2 L2 tables, got %d", len(cat.L2Tables))
	}
	// "PE" has no addends of its own and sums its children.
	var pe *Node
	for i := range cat.L2Tables[0].Nodes {
		if cat.L2Tables[0].Nodes[i].Label == "PE" {
			pe = &cat.L2Tables[0].Nodes[i]
		}
	}
	if pe == nil {
		t.Fatalf("PE node missing")
	}
	want := []string{"lts__average_t_sector_srcunit_pe_op_read", "lts__average_t_sector_srcunit_pe_op_write"}
	if !reflect.DeepEqual(pe.Addends, want) {
		t.Fatalf("PE addends = %v, want %v", pe.Addends, want)
	}
}

func TestSummarySelection(t *testing.T) {
	cat, err := DefaultCatalog()
	if err != nil {
		t.Fatalf("DefaultCatalog error: %v", err)
	}
	sel := cat.SummarySelection()
	if len(sel.Counters) != 7 {
		t.Fatalf("expected 7 summary counters, got %v", sel.Counters)
	}
	if !reflect.DeepEqual(sel.Ratios, []string{"lts__t_sector_hit_rate"}) {
		t.Fatalf("summary ratios = %v", sel.Ratios)
	}
	if !reflect.DeepEqual(sel.Throughputs, []string{"dram__throughput"}) {
		t.Fatalf("summary throughputs = %v", sel.Throughputs)
	}
}

func TestParseCatalogErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"empty", "name: nothing\n", ErrEmptyCatalog.Error()},
		{"bad yaml", "top_throughputs: [", "parse catalog"},
		{"unknown kind", "summary_columns:\n  - description: X\n    kind: gauge\n    metric: x\n    format: pct\n", "unknown metric kind"},
		{"unknown format", "summary_columns:\n  - description: X\n    kind: counter\n    metric: x\n    format: fancy\n", "unknown format"},
		{"duplicate id", "l2_tables:\n  - {name: A, id: T, columns: [{group: g, label: l}]}\n  - {name: B, id: T, columns: [{group: g, label: l}]}\n", "duplicate l2 table id"},
		{"no columns", "l2_tables:\n  - {name: A, id: T}\n", "has no columns"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := ParseCatalog([]byte(tt.content))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected error containing %q, got %v", tt.want, err)
			}
		})
	}
}

func TestLoadCatalog(t *testing.T) {
	cat, err := LoadCatalog("")
	if err != nil || cat.Name != "desktop" {
		t.Fatalf("empty path should select the embedded catalog, got %v, %v", cat, err)
	}

	path := filepath.Join(t.TempDir(), "mobile.yaml")
	content := "name: mobile\ntop_throughputs:\n  - {category: Memory, name: DRAM, throughput: dram__throughput}\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write catalog: %v", err)
	}
	cat, err = LoadCatalog(path)
	if err != nil {
		t.Fatalf("LoadCatalog error: %v", err)
	}
	if cat.Name != "mobile" || len(cat.TopThroughputs) != 1 {
		t.Fatalf("unexpected catalog: %+v", cat)
	}

	_, err = LoadCatalog(filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil || !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
}

func TestInstPipeCounters(t *testing.T) {
	warp, thread := InstPipe{Name: "total"}.Counters()
	if warp != "sm__inst_executed" || thread != "smsp__thread_inst_executed_pred_on" {
		t.Fatalf("total pipe counters = %q, %q", warp, thread)
	}
	warp, thread = InstPipe{Name: "fp64"}.Counters()
	if warp != "sm__inst_executed_pipe_fp64" || thread != "" {
		t.Fatalf("fp64 pipe counters = %q, %q", warp, thread)
	}
	warp, thread = InstPipe{Name: "alu", ThreadInstExecuted: true}.Counters()
	if thread != "sm__thread_inst_executed_pipe_alu_pred_on" {
		t.Fatalf("alu thread counter = %q (warp %q)", thread, warp)
	}
}
