package perfreport

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/mwiater/perfreport/internal/appconfig"
	"github.com/mwiater/perfreport/internal/capture"
	"github.com/mwiater/perfreport/internal/logging"
	"github.com/mwiater/perfreport/internal/report"
)

func runRenderRange(cfg *appconfig.Config, inputPath, outputPath string, out io.Writer) error {
	p, err := capture.LoadRangePayload(inputPath)
	if err != nil {
		return err
	}
	opts, err := renderOptions(cfg)
	if err != nil {
		return err
	}
	return writePage(outputPath, out, func(w io.Writer) error {
		return report.RenderRange(w, p, opts)
	})
}

func runRenderSummary(cfg *appconfig.Config, inputPath, outputPath string, out io.Writer) error {
	p, err := capture.LoadSummaryPayload(inputPath)
	if err != nil {
		return err
	}
	opts, err := renderOptions(cfg)
	if err != nil {
		return err
	}
	return writePage(outputPath, out, func(w io.Writer) error {
		return report.RenderSummary(w, p, opts)
	})
}

// writePage renders into memory first so a failed render leaves no partial file.
func writePage(path string, out io.Writer, render func(io.Writer) error) error {
	var buf bytes.Buffer
	if err := render(&buf); err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("unable to create directory %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("unable to write %s: %w", path, err)
	}
	logging.LogReport("write", filepath.Base(path), "", map[string]any{"path": path, "bytes": buf.Len()})
	fmt.Fprintf(out, "Report written to %s\n", path)
	return nil
}
