// internal/capture/load.go
package capture

import (
	"encoding/json"
	"fmt"
	"os"
)

// Load reads, validates and decodes a capture bundle.
func Load(path string) (Capture, error) {
	var c Capture
	if err := loadDocument(path, CaptureDocument, &c); err != nil {
		return Capture{}, err
	}
	return c, nil
}

// LoadRangePayload reads, validates and decodes a per-range payload.
func LoadRangePayload(path string) (RangePayload, error) {
	var p RangePayload
	if err := loadDocument(path, RangePayloadDocument, &p); err != nil {
		return RangePayload{}, err
	}
	return p, nil
}

// LoadSummaryPayload reads, validates and decodes a summary payload.
func LoadSummaryPayload(path string) (SummaryPayload, error) {
	var p SummaryPayload
	if err := loadDocument(path, SummaryPayloadDocument, &p); err != nil {
		return SummaryPayload{}, err
	}
	return p, nil
}

// Decode validates data as doc and decodes it into v.
func Decode(doc Document, source string, data []byte, v any) error {
	if err := Validate(doc, source, data); err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode %s %s: %w", doc, source, err)
	}
	return nil
}

func loadDocument(path string, doc Document, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("unable to read %s %s: %w", doc, path, err)
	}
	return Decode(doc, path, data, v)
}
