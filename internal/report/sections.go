// internal/report/sections.go
package report

import "github.com/mwiater/perfreport/internal/capture"

// RangeSections lays out the tables of a per-range page. The All-* tables
// come last so they list every metric the other tables looked up.
func RangeSections(cat *Catalog) []Section {
	memory := []Generator{mainMemoryGenerator()}
	for i, t := range cat.L2Tables {
		memory = append(memory, l2TrafficBreakdownGenerator(t, i == 0))
	}
	memory = append(memory, l1TexThroughputsGenerator(), l1TexTrafficBreakdownGenerator())

	return []Section{
		{Spacing: true, Generators: []Generator{devicePropertiesGenerator(cat), clocksGenerator()}},
		{Title: "Top-Level", Spacing: true, Generators: []Generator{
			topLevelStatsGenerator(),
			topThroughputsGenerator(cat),
			cacheHitRatesGenerator(),
		}},
		{Title: "Memory", Spacing: true, Generators: memory},
		{Title: "Shader", Spacing: true, Generators: []Generator{
			smThroughputsGenerator(cat),
			smInstExecutedGenerator(cat),
			warpIssueStallsGenerator(),
			smShaderExecutionGenerator(),
			smWarpLaunchStallsGenerator(),
			smResourceUsageGenerator(cat),
		}},
		{Title: "3D Pipeline", Spacing: true, Generators: []Generator{
			primitiveDataflowGenerator(),
			rasterDataflowGenerator(),
		}},
		{Title: "All Metrics", Spacing: true, Generators: []Generator{
			additionalMetricsGenerator(),
			allCountersGenerator(),
			allRatiosGenerator(),
			allThroughputsGenerator(),
		}},
	}
}

// SummarySections lays out summary.html.
func SummarySections(cat *Catalog, p *capture.SummaryPayload) []Section {
	return []Section{
		{Generators: []Generator{collectionInfoGenerator(p)}},
		{Generators: []Generator{rangesSummaryGenerator(cat, p)}},
	}
}

// RangeSelection returns every metric the range tables require, duplicates
// removed, in first-use order.
func RangeSelection(cat *Catalog) capture.Selection {
	var sel capture.Selection
	seen := [3]map[string]bool{{}, {}, {}}
	add := func(kind capture.Kind, dst *[]string, names []string) {
		for _, n := range names {
			if !seen[kind][n] {
				seen[kind][n] = true
				*dst = append(*dst, n)
			}
		}
	}
	for _, s := range RangeSections(cat) {
		for _, g := range s.Generators {
			add(capture.Counter, &sel.Counters, g.Required.Counters)
			add(capture.Ratio, &sel.Ratios, g.Required.Ratios)
			add(capture.Throughput, &sel.Throughputs, g.Required.Throughputs)
		}
	}
	return sel
}
