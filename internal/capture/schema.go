// internal/capture/schema.go
package capture

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// Document selects which JSON schema a file is validated against.
type Document int

const (
	CaptureDocument Document = iota
	RangePayloadDocument
	SummaryPayloadDocument
)

func (d Document) String() string {
	switch d {
	case CaptureDocument:
		return "capture"
	case RangePayloadDocument:
		return "range payload"
	case SummaryPayloadDocument:
		return "summary payload"
	}
	return "unknown document"
}

// ValidationError lists every schema violation found in a document.
type ValidationError struct {
	Source   string
	Document Document
	Problems []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s is invalid: %s", e.Document, e.Source, strings.Join(e.Problems, "; "))
}

var metricValueSchema = map[string]any{
	"oneOf": []any{
		map[string]any{"type": "number"},
		map[string]any{"type": "string", "enum": []any{"NaN", "Infinity", "-Infinity"}},
	},
}

var submetricsSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		dimUnitsKey: map[string]any{"type": "string"},
	},
	"additionalProperties": metricValueSchema,
}

var metricSetSchema = map[string]any{
	"type":                 "object",
	"additionalProperties": submetricsSchema,
}

var deviceSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"gpuName":            map[string]any{"type": "string"},
		"chipName":           map[string]any{"type": "string"},
		"clockLockingStatus": map[string]any{"type": "string"},
	},
}

var captureSchema = map[string]any{
	"type":     "object",
	"required": []any{"ranges"},
	"properties": map[string]any{
		"secondsSinceEpoch": map[string]any{"type": "integer", "minimum": 0},
		"device":            deviceSchema,
		"ranges": map[string]any{
			"type": "array",
			"items": map[string]any{
				"type":     "object",
				"required": []any{"fullName"},
				"properties": map[string]any{
					"fullName":    map[string]any{"type": "string", "minLength": 1},
					"counters":    metricSetSchema,
					"ratios":      metricSetSchema,
					"throughputs": metricSetSchema,
				},
			},
		},
	},
}

var rangePayloadSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"rangeName":           map[string]any{"type": "string"},
		"debug":               map[string]any{"type": "boolean"},
		"populateDummyValues": map[string]any{"type": "boolean"},
		"secondsSinceEpoch":   map[string]any{"type": "integer", "minimum": 0},
		"device":              deviceSchema,
		"counters":            metricSetSchema,
		"ratios":              metricSetSchema,
		"throughputs":         metricSetSchema,
	},
}

var perRangeSetsSchema = map[string]any{
	"type":                 "object",
	"additionalProperties": metricSetSchema,
}

var summaryPayloadSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"debug":               map[string]any{"type": "boolean"},
		"populateDummyValues": map[string]any{"type": "boolean"},
		"secondsSinceEpoch":   map[string]any{"type": "integer", "minimum": 0},
		"device":              deviceSchema,
		"ranges":              map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
		"range_file_names":    map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
		"rangesCounters":      perRangeSetsSchema,
		"rangesRatios":        perRangeSetsSchema,
		"rangesThroughputs":   perRangeSetsSchema,
	},
}

func schemaFor(doc Document) map[string]any {
	switch doc {
	case RangePayloadDocument:
		return rangePayloadSchema
	case SummaryPayloadDocument:
		return summaryPayloadSchema
	}
	return captureSchema
}

// Validate checks data against the schema of doc. Schema violations are
// returned as a *ValidationError naming source.
func Validate(doc Document, source string, data []byte) error {
	schemaLoader := gojsonschema.NewGoLoader(schemaFor(doc))
	result, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewBytesLoader(data))
	if err != nil {
		return fmt.Errorf("validate %s %s: %w", doc, source, err)
	}
	if result.Valid() {
		return nil
	}
	verr := &ValidationError{Source: source, Document: doc}
	for _, re := range result.Errors() {
		verr.Problems = append(verr.Problems, fmt.Sprintf("%s: %s", re.Field(), re.Description()))
	}
	return verr
}
