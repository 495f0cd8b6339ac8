// internal/capture/names.go
package capture

import (
	"fmt"
	"strings"
	"time"
)

// RangeFileName builds the per-range page name, e.g. "00003_GPU_PARTICLES.html".
// Bytes of leaf other than ASCII letters, digits, '_', '-' and '.' become '_'.
func RangeFileName(index int, leaf string) string {
	var b strings.Builder
	b.Grow(len(leaf))
	for i := 0; i < len(leaf); i++ {
		c := leaf[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
			b.WriteByte(c)
		case c == '_' || c == '-' || c == '.':
			b.WriteByte(c)
		default:
			b.WriteByte('_')
		}
	}
	return fmt.Sprintf("%05d_%s.html", index, b.String())
}

// DirectoryName formats the collection time as YYYYMMDD_HHMMSS in loc.
func DirectoryName(secondsSinceEpoch int64, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	return time.Unix(secondsSinceEpoch, 0).In(loc).Format("20060102_150405")
}
