// internal/report/generate.go
package report

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/mwiater/perfreport/internal/capture"
	"github.com/mwiater/perfreport/internal/logging"
)

// Output file names.
const (
	ReadmeFileName     = "readme.html"
	SummaryFileName    = "summary.html"
	MetricsCSVFileName = "nvperf_metrics.csv"
	SummaryCSVFileName = "nvperf_metrics_summary.csv"
)

// Options controls Generate.
type Options struct {
	OutputDir string
	// Timestamped appends a YYYYMMDD_HHMMSS directory named after the
	// collection time.
	Timestamped         bool
	HTML                bool
	CSV                 bool
	Debug               bool
	PopulateDummyValues bool
	// Workers bounds concurrent page rendering; 0 uses GOMAXPROCS.
	Workers int
	Render  RenderOptions
}

// Result lists what Generate wrote.
type Result struct {
	Dir   string
	Files []string
}

// Generate writes the report directory for c: readme.html, one page per
// range, summary.html and the CSV files, as enabled by opts.
func Generate(ctx context.Context, c capture.Capture, opts Options, out io.Writer) (Result, error) {
	render, err := opts.Render.withDefaults()
	if err != nil {
		return Result{}, err
	}
	dir := opts.OutputDir
	if dir == "" {
		dir = "."
	}
	if opts.Timestamped {
		dir = filepath.Join(dir, capture.DirectoryName(c.SecondsSinceEpoch, render.Location))
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Result{}, fmt.Errorf("unable to create report directory %s: %w", dir, err)
	}
	res := Result{Dir: dir}

	write := func(name string, fn func(io.Writer) error) error {
		path := filepath.Join(dir, name)
		var buf bytes.Buffer
		if err := fn(&buf); err != nil {
			return err
		}
		if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
			return fmt.Errorf("unable to write %s: %w", path, err)
		}
		logging.LogReport("write", name, "", map[string]any{"path": path, "bytes": buf.Len()})
		return nil
	}

	var names []string
	if err := write(ReadmeFileName, RenderReadme); err != nil {
		return res, err
	}
	names = append(names, ReadmeFileName)

	payloadOpts := capture.PayloadOptions{Debug: opts.Debug, PopulateDummyValues: opts.PopulateDummyValues}
	if opts.HTML {
		files := c.RangeFileNames()
		g, gctx := errgroup.WithContext(ctx)
		workers := opts.Workers
		if workers <= 0 {
			workers = runtime.GOMAXPROCS(0)
		}
		g.SetLimit(workers)
		for i := range c.Ranges {
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				pageOpts := render
				if render.Seed != 0 {
					pageOpts.Seed = render.Seed + int64(i) + 1
				}
				payload := c.RangePayload(i, payloadOpts)
				return write(files[i], func(w io.Writer) error {
					return RenderRange(w, payload, pageOpts)
				})
			})
		}
		if err := g.Wait(); err != nil {
			return res, err
		}
		names = append(names, files...)

		logging.LogEvent("[SUMMARY] %d ranges rendered, writing %s", len(c.Ranges), SummaryFileName)
		summary := c.SummaryPayload(render.Catalog.SummarySelection(), payloadOpts)
		if err := write(SummaryFileName, func(w io.Writer) error {
			return RenderSummary(w, summary, render)
		}); err != nil {
			return res, err
		}
		names = append(names, SummaryFileName)
	}

	if opts.CSV {
		rangeSel := RangeSelection(render.Catalog)
		logging.LogEvent("[CSV] writing %s and %s", MetricsCSVFileName, SummaryCSVFileName)
		if err := write(MetricsCSVFileName, func(w io.Writer) error {
			return WriteCSV(w, c, c.Columns(&rangeSel), ", ")
		}); err != nil {
			return res, err
		}
		sel := render.Catalog.SummarySelection()
		if err := write(SummaryCSVFileName, func(w io.Writer) error {
			return WriteCSV(w, c, c.Columns(&sel), ",")
		}); err != nil {
			return res, err
		}
		names = append(names, MetricsCSVFileName, SummaryCSVFileName)
	}

	for _, name := range names {
		path := filepath.Join(dir, name)
		res.Files = append(res.Files, path)
		fmt.Fprintf(out, "Report written to %s\n", path)
	}
	return res, nil
}
