package perfreport

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/mwiater/perfreport/internal/capture"
	"github.com/mwiater/perfreport/internal/logging"
)

var (
	passLabel = color.New(color.FgGreen, color.Bold).SprintFunc()
	failLabel = color.New(color.FgRed, color.Bold).SprintFunc()
)

func documentFor(payload string) (capture.Document, error) {
	switch payload {
	case "":
		return capture.CaptureDocument, nil
	case "range":
		return capture.RangePayloadDocument, nil
	case "summary":
		return capture.SummaryPayloadDocument, nil
	}
	return 0, fmt.Errorf("unknown payload kind %q (expected range or summary)", payload)
}

func runValidate(inputs []string, payload string, out io.Writer) error {
	if len(inputs) == 0 {
		return fmt.Errorf("at least one input file is required (pass --input)")
	}
	doc, err := documentFor(payload)
	if err != nil {
		return err
	}

	failed := 0
	for _, path := range inputs {
		data, err := os.ReadFile(path)
		if err == nil {
			err = capture.Validate(doc, path, data)
		}
		if err == nil {
			fmt.Fprintf(out, "%s %s (%s)\n", passLabel("PASS"), path, doc)
			continue
		}

		failed++
		fmt.Fprintf(out, "%s %s (%s)\n", failLabel("FAIL"), path, doc)
		var verr *capture.ValidationError
		if errors.As(err, &verr) {
			for _, problem := range verr.Problems {
				fmt.Fprintf(out, "    - %s\n", problem)
			}
		} else {
			fmt.Fprintf(out, "    - %v\n", err)
		}
		logging.LogReport("invalid", path, "", map[string]any{"document": doc.String(), "error": err.Error()})
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d files failed validation", failed, len(inputs))
	}
	return nil
}
