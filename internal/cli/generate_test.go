package perfreport

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestGenerateCommandWritesReport(t *testing.T) {
	configPath := useConfig(t, "{}")
	capturePath := writeTempFile(t, "capture.json", testCaptureJSON)
	outDir := filepath.Join(t.TempDir(), "report")

	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs([]string{
		"--config", configPath,
		"--logFile", filepath.Join(t.TempDir(), "generate.log"),
		"--timezone", "UTC",
		"--seed", "1",
		"generate", "-i", capturePath, "-o", outDir,
	})
	t.Cleanup(func() { rootCmd.SetArgs([]string{}) })
	if _, err := rootCmd.ExecuteC(); err != nil {
		t.Fatalf("generate error: %v\n%s", err, buf.String())
	}

	for _, name := range []string{
		"readme.html",
		"00000_FRAME.html",
		"00001_SCENE.html",
		"summary.html",
		"nvperf_metrics.csv",
		"nvperf_metrics_summary.csv",
	} {
		path := filepath.Join(outDir, name)
		if _, err := os.Stat(path); err != nil {
			t.Errorf("expected %s to exist: %v", path, err)
		}
		if !strings.Contains(buf.String(), "Report written to "+path) {
			t.Errorf("expected output to report %s", path)
		}
	}
}

func TestGenerateUsesConfiguredOutputDir(t *testing.T) {
	outDir := filepath.Join(t.TempDir(), "configured")
	configPath := useConfig(t, `{"outputDir": "`+filepath.ToSlash(outDir)+`", "html": false}`)
	capturePath := writeTempFile(t, "capture.json", testCaptureJSON)

	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs([]string{"--config", configPath, "--timezone", "UTC", "generate", "--input", capturePath})
	t.Cleanup(func() { rootCmd.SetArgs([]string{}) })
	if _, err := rootCmd.ExecuteC(); err != nil {
		t.Fatalf("generate error: %v\n%s", err, buf.String())
	}

	if _, err := os.Stat(filepath.Join(outDir, "nvperf_metrics.csv")); err != nil {
		t.Fatalf("expected csv in configured directory: %v", err)
	}
	if _, err := os.Stat(filepath.Join(outDir, "summary.html")); !os.IsNotExist(err) {
		t.Fatalf("html disabled in config, summary.html should not exist (err=%v)", err)
	}
}

func TestRunGenerateRequiresInput(t *testing.T) {
	var buf bytes.Buffer
	if err := runGenerate(context.Background(), GetConfig(), "", &buf); err == nil {
		t.Fatalf("expected error without input")
	}
}

func TestRunGenerateRejectsInvalidCapture(t *testing.T) {
	path := writeTempFile(t, "capture.json", `{"device": {}}`)
	var buf bytes.Buffer
	if err := runGenerate(context.Background(), GetConfig(), path, &buf); err == nil {
		t.Fatalf("expected schema error for capture without ranges")
	}
	if buf.Len() != 0 {
		t.Fatalf("nothing should be written for an invalid capture, got %q", buf.String())
	}
}
