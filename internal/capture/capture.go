// internal/capture/capture.go
// Package capture models the performance-counter data a report is generated
// from: the capture bundle read from disk and the JSON payloads embedded into
// the generated pages.
package capture

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

const (
	// DefaultGPUName is used when the capture does not name the GPU.
	DefaultGPUName = "Unknown GPU"
	// DefaultChipName is used when the capture does not name the chip.
	DefaultChipName = "Unknown Chip"
	// DefaultClockLockingStatus is used when the clock status was not recorded.
	DefaultClockLockingStatus = "Unknown"
	// DefaultRangeName is the page title for payloads without a range name.
	DefaultRangeName = "Perf Marker Name"

	dimUnitsKey = "dim_units"
)

// Kind identifies one of the three metric categories.
type Kind int

const (
	Counter Kind = iota
	Ratio
	Throughput
)

// Kinds lists the categories in payload order.
var Kinds = []Kind{Counter, Ratio, Throughput}

func (k Kind) String() string {
	switch k {
	case Counter:
		return "counters"
	case Ratio:
		return "ratios"
	case Throughput:
		return "throughputs"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Submetrics holds the values recorded for one base metric, keyed by
// submetric name (for example "avg.pct_of_peak_sustained_elapsed").
type Submetrics struct {
	Values   map[string]Number
	DimUnits *string
}

// Names returns the submetric names in sorted order.
func (s Submetrics) Names() []string {
	names := make([]string, 0, len(s.Values))
	for name := range s.Values {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// MarshalJSON writes submetrics in sorted order, followed by dim_units.
func (s Submetrics) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, name := range s.Names() {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(name)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.WriteString(FormatJSDouble(s.Values[name].Float()))
	}
	if s.DimUnits != nil {
		if len(s.Values) > 0 {
			buf.WriteByte(',')
		}
		units, err := json.Marshal(*s.DimUnits)
		if err != nil {
			return nil, err
		}
		buf.WriteString(`"` + dimUnitsKey + `":`)
		buf.Write(units)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads submetric values and the optional dim_units string.
func (s *Submetrics) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	s.Values = make(map[string]Number, len(raw))
	s.DimUnits = nil
	for name, value := range raw {
		if name == dimUnitsKey {
			var units string
			if err := json.Unmarshal(value, &units); err != nil {
				return fmt.Errorf("dim_units: %w", err)
			}
			s.DimUnits = &units
			continue
		}
		var n Number
		if err := json.Unmarshal(value, &n); err != nil {
			return fmt.Errorf("submetric %s: %w", name, err)
		}
		s.Values[name] = n
	}
	return nil
}

// MetricSet maps base metric names to their submetrics.
type MetricSet map[string]Submetrics

// Names returns the base metric names in sorted order.
func (m MetricSet) Names() []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Select returns the subset of m named by names. Unknown names are skipped.
func (m MetricSet) Select(names []string) MetricSet {
	out := make(MetricSet, len(names))
	for _, name := range names {
		if sub, ok := m[name]; ok {
			out[name] = sub
		}
	}
	return out
}

// Device identifies the GPU the capture was taken on.
type Device struct {
	GPUName            string `json:"gpuName,omitempty"`
	ChipName           string `json:"chipName,omitempty"`
	ClockLockingStatus string `json:"clockLockingStatus,omitempty"`
}

// WithDefaults fills empty fields with their display defaults.
func (d Device) WithDefaults() Device {
	if d.GPUName == "" {
		d.GPUName = DefaultGPUName
	}
	if d.ChipName == "" {
		d.ChipName = DefaultChipName
	}
	if d.ClockLockingStatus == "" {
		d.ClockLockingStatus = DefaultClockLockingStatus
	}
	return d
}

// Range is one named interval of GPU work and the metrics measured over it.
type Range struct {
	FullName    string    `json:"fullName"`
	Counters    MetricSet `json:"counters,omitempty"`
	Ratios      MetricSet `json:"ratios,omitempty"`
	Throughputs MetricSet `json:"throughputs,omitempty"`
}

// LeafName returns the last "/" separated segment of the full name.
func (r Range) LeafName() string {
	parts := strings.Split(r.FullName, "/")
	return strings.TrimSpace(parts[len(parts)-1])
}

// Set returns the metric set of the given kind.
func (r Range) Set(kind Kind) MetricSet {
	switch kind {
	case Counter:
		return r.Counters
	case Ratio:
		return r.Ratios
	case Throughput:
		return r.Throughputs
	}
	return nil
}

// Capture is the input bundle: device information plus every profiled range.
type Capture struct {
	SecondsSinceEpoch int64   `json:"secondsSinceEpoch"`
	Device            Device  `json:"device"`
	Ranges            []Range `json:"ranges"`
}

// RangeFileNames returns the per-range page file names in range order.
func (c Capture) RangeFileNames() []string {
	names := make([]string, len(c.Ranges))
	for i, r := range c.Ranges {
		names[i] = RangeFileName(i, r.LeafName())
	}
	return names
}
