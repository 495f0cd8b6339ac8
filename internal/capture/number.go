// internal/capture/number.go
package capture

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// Number is a metric value. Non-finite values travel as the JSON strings
// "NaN", "Infinity" and "-Infinity" because JSON has no literal for them.
type Number float64

// Float returns the value as a float64.
func (n Number) Float() float64 { return float64(n) }

// MarshalJSON writes finite values with six decimals and non-finite values
// as quoted strings.
func (n Number) MarshalJSON() ([]byte, error) {
	return []byte(FormatJSDouble(float64(n))), nil
}

// UnmarshalJSON accepts plain JSON numbers and the quoted non-finite forms.
func (n *Number) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		v, err := parseNonFinite(s)
		if err != nil {
			return err
		}
		*n = Number(v)
		return nil
	}
	v, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		return fmt.Errorf("invalid metric value %s: %w", data, err)
	}
	*n = Number(v)
	return nil
}

func parseNonFinite(s string) (float64, error) {
	switch s {
	case "NaN":
		return math.NaN(), nil
	case "Infinity", "+Infinity":
		return math.Inf(1), nil
	case "-Infinity":
		return math.Inf(-1), nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid metric value %q", s)
	}
	return v, nil
}

// FormatJSDouble renders v the way the report payload expects it.
func FormatJSDouble(v float64) string {
	switch {
	case math.IsNaN(v):
		return `"NaN"`
	case math.IsInf(v, -1):
		return `"-Infinity"`
	case math.IsInf(v, 1):
		return `"Infinity"`
	}
	return strconv.FormatFloat(v, 'f', 6, 64)
}
