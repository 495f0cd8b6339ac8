package perfreport

import (
	"context"
	"fmt"
	"io"

	"github.com/mwiater/perfreport/internal/appconfig"
	"github.com/mwiater/perfreport/internal/capture"
	"github.com/mwiater/perfreport/internal/logging"
	"github.com/mwiater/perfreport/internal/report"
)

func runGenerate(ctx context.Context, cfg *appconfig.Config, inputPath string, out io.Writer) error {
	if inputPath == "" {
		return fmt.Errorf("input capture file is required (pass --input)")
	}
	c, err := capture.Load(inputPath)
	if err != nil {
		return err
	}
	render, err := renderOptions(cfg)
	if err != nil {
		return err
	}

	logging.LogReport("generate", inputPath, "", map[string]any{
		"ranges": len(c.Ranges),
		"output": cfg.OutputDirectory(),
		"html":   cfg.HTML,
		"csv":    cfg.CSV,
	})
	_, err = report.Generate(ctx, c, report.Options{
		OutputDir:           cfg.OutputDirectory(),
		Timestamped:         cfg.Timestamped,
		HTML:                cfg.HTML,
		CSV:                 cfg.CSV,
		Debug:               cfg.Debug,
		PopulateDummyValues: cfg.PopulateDummyValues,
		Workers:             cfg.WorkerCount(),
		Render:              render,
	}, out)
	return err
}
