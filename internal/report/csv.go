// internal/report/csv.go
package report

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/mwiater/perfreport/internal/capture"
)

// formatG renders v like C's "%g": six significant digits, lowercase
// "nan" and "inf".
func formatG(v float64) string {
	switch {
	case math.IsNaN(v):
		return "nan"
	case math.IsInf(v, 1):
		return "inf"
	case math.IsInf(v, -1):
		return "-inf"
	}
	return strconv.FormatFloat(v, 'g', 6, 64)
}

// WriteCSV writes one row per range over the given columns. sep follows each
// value: ", " for the per-range file and "," for the summary file.
func WriteCSV(w io.Writer, c capture.Capture, cols []capture.Column, sep string) error {
	bw := bufio.NewWriter(w)
	fmt.Fprint(bw, `"Range Name",`)
	for _, col := range cols {
		fmt.Fprintf(bw, `"%s",`, col.Name())
	}
	fmt.Fprint(bw, "\n")
	for _, r := range c.Ranges {
		fmt.Fprintf(bw, `"%s",`, r.FullName)
		for _, col := range cols {
			fmt.Fprint(bw, formatG(r.Value(col)), sep)
		}
		fmt.Fprint(bw, "\n")
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("unable to write csv: %w", err)
	}
	return nil
}
