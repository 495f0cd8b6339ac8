package perfreport

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/mwiater/perfreport/internal/logging"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const testCaptureJSON = `{
  "secondsSinceEpoch": 1700000000,
  "device": {"gpuName": "Test GPU", "chipName": "TST100"},
  "ranges": [
    {
      "fullName": "Q0 / FRAME",
      "counters": {
        "gpu__time_duration": {"sum": 1500},
        "gr__cycles_active": {"avg.pct_of_peak_sustained_elapsed": 42.5}
      },
      "throughputs": {
        "dram__throughput": {"avg.pct_of_peak_sustained_elapsed": 80},
        "sm__throughput": {"avg.pct_of_peak_sustained_elapsed": 30}
      }
    },
    {
      "fullName": "Q0 / FRAME / SCENE",
      "counters": {"gpu__time_duration": {"sum": 600}}
    }
  ]
}`

func resetFlag(cmd *cobra.Command, name string) {
	flag := cmd.Flags().Lookup(name)
	if flag == nil {
		flag = cmd.PersistentFlags().Lookup(name)
	}
	if flag == nil {
		return
	}
	_ = flag.Value.Set(flag.DefValue)
	flag.Changed = false
}

// resetFlags clears values left behind by earlier executions of the shared
// command tree.
func resetFlags() {
	for _, name := range []string{"debug", "logFile", "catalog", "locale", "timezone", "seed"} {
		resetFlag(rootCmd, name)
	}
	for _, name := range []string{"input", "output", "timestamped", "html", "csv", "populateDummyValues", "workers"} {
		resetFlag(generateCmd, name)
	}
	for _, cmd := range []*cobra.Command{renderRangeCmd, renderSummaryCmd, readmeCmd, inspectCmd} {
		for _, name := range []string{"input", "output"} {
			resetFlag(cmd, name)
		}
	}
	resetFlag(validateCmd, "payload")
	resetFlag(showConfigCmd, "verbose")
}

func writeTempConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

// useConfig points the command tree at a fresh config file and log file.
func useConfig(t *testing.T, content string) string {
	t.Helper()
	configPath := writeTempConfig(t, content)

	prevCfgFile := cfgFile
	cfgFile = configPath
	viper.SetConfigFile(configPath)
	t.Cleanup(func() {
		cfgFile = prevCfgFile
		viper.SetConfigFile(prevCfgFile)
		currentConfig = nil
		resetFlags()
	})
	t.Cleanup(func() { _ = logging.Close() })

	resetFlags()
	_ = rootCmd.PersistentFlags().Set("logFile", filepath.Join(t.TempDir(), "perfreport.log"))
	return configPath
}
