// internal/capture/payload.go
package capture

// PayloadOptions controls the debug flags written into generated payloads.
type PayloadOptions struct {
	Debug               bool
	PopulateDummyValues bool
}

// RangePayload is the JSON document embedded into a per-range page.
// Debug and PopulateDummyValues default to true when absent.
type RangePayload struct {
	RangeName           string    `json:"rangeName,omitempty"`
	Debug               *bool     `json:"debug,omitempty"`
	PopulateDummyValues *bool     `json:"populateDummyValues,omitempty"`
	SecondsSinceEpoch   int64     `json:"secondsSinceEpoch"`
	Device              Device    `json:"device"`
	Counters            MetricSet `json:"counters"`
	Ratios              MetricSet `json:"ratios"`
	Throughputs         MetricSet `json:"throughputs"`
}

// Name returns the range name or its default.
func (p RangePayload) Name() string {
	if p.RangeName == "" {
		return DefaultRangeName
	}
	return p.RangeName
}

// DebugEnabled reports whether debug sections should be produced.
func (p RangePayload) DebugEnabled() bool { return flagOrTrue(p.Debug) }

// DummyValuesEnabled reports whether missing values are replaced by random ones.
func (p RangePayload) DummyValuesEnabled() bool { return flagOrTrue(p.PopulateDummyValues) }

// Set returns the metric set of the given kind.
func (p RangePayload) Set(kind Kind) MetricSet {
	return Range{Counters: p.Counters, Ratios: p.Ratios, Throughputs: p.Throughputs}.Set(kind)
}

// SummaryPayload is the JSON document embedded into summary.html.
type SummaryPayload struct {
	Debug               *bool                `json:"debug,omitempty"`
	PopulateDummyValues *bool                `json:"populateDummyValues,omitempty"`
	SecondsSinceEpoch   int64                `json:"secondsSinceEpoch"`
	Device              Device               `json:"device"`
	Ranges              []string             `json:"ranges"`
	RangeFileNames      []string             `json:"range_file_names"`
	RangesCounters      map[string]MetricSet `json:"rangesCounters"`
	RangesRatios        map[string]MetricSet `json:"rangesRatios"`
	RangesThroughputs   map[string]MetricSet `json:"rangesThroughputs"`
}

// DebugEnabled reports whether debug sections should be produced.
func (p SummaryPayload) DebugEnabled() bool { return flagOrTrue(p.Debug) }

// DummyValuesEnabled reports whether missing values are replaced by random ones.
func (p SummaryPayload) DummyValuesEnabled() bool { return flagOrTrue(p.PopulateDummyValues) }

// RangeSets returns the metrics recorded for one range in the summary.
func (p SummaryPayload) RangeSets(name string) (counters, ratios, throughputs MetricSet) {
	return p.RangesCounters[name], p.RangesRatios[name], p.RangesThroughputs[name]
}

// Selection names the base metrics of each kind that a consumer needs.
type Selection struct {
	Counters    []string
	Ratios      []string
	Throughputs []string
}

// Names returns the selected names of one kind.
func (s Selection) Names(kind Kind) []string {
	switch kind {
	case Counter:
		return s.Counters
	case Ratio:
		return s.Ratios
	case Throughput:
		return s.Throughputs
	}
	return nil
}

// RangePayload builds the payload for range index i.
func (c Capture) RangePayload(i int, opts PayloadOptions) RangePayload {
	r := c.Ranges[i]
	return RangePayload{
		RangeName:           r.FullName,
		Debug:               boolPtr(opts.Debug),
		PopulateDummyValues: boolPtr(opts.PopulateDummyValues),
		SecondsSinceEpoch:   c.SecondsSinceEpoch,
		Device:              c.Device,
		Counters:            nonNil(r.Counters),
		Ratios:              nonNil(r.Ratios),
		Throughputs:         nonNil(r.Throughputs),
	}
}

// SummaryPayload builds the summary payload, keeping only the selected
// metrics of every range.
func (c Capture) SummaryPayload(sel Selection, opts PayloadOptions) SummaryPayload {
	p := SummaryPayload{
		Debug:               boolPtr(opts.Debug),
		PopulateDummyValues: boolPtr(opts.PopulateDummyValues),
		SecondsSinceEpoch:   c.SecondsSinceEpoch,
		Device:              Device{GPUName: c.Device.GPUName, ChipName: c.Device.ChipName},
		Ranges:              make([]string, 0, len(c.Ranges)),
		RangeFileNames:      c.RangeFileNames(),
		RangesCounters:      make(map[string]MetricSet, len(c.Ranges)),
		RangesRatios:        make(map[string]MetricSet, len(c.Ranges)),
		RangesThroughputs:   make(map[string]MetricSet, len(c.Ranges)),
	}
	for _, r := range c.Ranges {
		p.Ranges = append(p.Ranges, r.FullName)
		p.RangesCounters[r.FullName] = r.Counters.Select(sel.Counters)
		p.RangesRatios[r.FullName] = r.Ratios.Select(sel.Ratios)
		p.RangesThroughputs[r.FullName] = r.Throughputs.Select(sel.Throughputs)
	}
	return p
}

func flagOrTrue(v *bool) bool {
	return v == nil || *v
}

func boolPtr(v bool) *bool { return &v }

func nonNil(m MetricSet) MetricSet {
	if m == nil {
		return MetricSet{}
	}
	return m
}
