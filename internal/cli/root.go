// internal/cli/root.go
package perfreport

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/mwiater/perfreport/internal/appconfig"
	"github.com/mwiater/perfreport/internal/logging"
	"github.com/mwiater/perfreport/internal/report"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile       string
	configLoaded  bool
	currentConfig *appconfig.Config
	appVersion    = "dev"
	appCommit     = "none"
	appDate       = "unknown"
)

// Settings copied from viper into unchanged flags, grouped by flag type.
var (
	boolSettings   = []string{"debug", "timestamped", "html", "csv", "populateDummyValues"}
	stringSettings = []string{"logFile", "locale", "timezone", "catalog"}
	intSettings    = []string{"workers", "seed"}
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "perfreport",
	Short: "perfreport, static HTML and CSV reports for GPU range captures",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := ensureConfigLoaded(); err != nil {
			return err
		}

		for _, name := range boolSettings {
			if f := cmd.Flags().Lookup(name); f != nil && !f.Changed {
				_ = cmd.Flags().Set(name, strconv.FormatBool(viper.GetBool(name)))
			}
		}
		for _, name := range stringSettings {
			if f := cmd.Flags().Lookup(name); f != nil && !f.Changed {
				_ = cmd.Flags().Set(name, viper.GetString(name))
			}
		}
		for _, name := range intSettings {
			if f := cmd.Flags().Lookup(name); f != nil && !f.Changed {
				_ = cmd.Flags().Set(name, strconv.FormatInt(viper.GetInt64(name), 10))
			}
		}
		if f := cmd.Flags().Lookup("output"); f != nil && !f.Changed && cmd.Name() == "generate" {
			_ = cmd.Flags().Set("output", viper.GetString("outputDir"))
		}

		cfg := appconfig.Default()
		if err := viper.Unmarshal(&cfg); err != nil {
			return fmt.Errorf("unmarshal config: %w", err)
		}
		if configLoaded {
			cfg.ConfigPath = viper.ConfigFileUsed()
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}
		currentConfig = &cfg

		if err := logging.Init(currentConfig.LogFilePath()); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		if configLoaded {
			logging.LogEvent("[CONFIG] loaded %s", cfg.ConfigPath)
		} else {
			logging.LogEvent("[CONFIG] no config file found, using defaults")
		}
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	rootCmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", appVersion, appCommit, appDate)

	err := rootCmd.Execute()
	_ = logging.Close()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	defaults := appconfig.Default()
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", appconfig.DefaultConfigPath, "config file (e.g., config/config.json)")

	rootCmd.PersistentFlags().Bool("debug", defaults.Debug, "add required-metric debug sections to generated pages")
	rootCmd.PersistentFlags().String("logFile", "", "path to the log file")
	rootCmd.PersistentFlags().String("catalog", "", "YAML table catalog (default: embedded desktop catalog)")
	rootCmd.PersistentFlags().String("locale", "", "BCP 47 locale used for number formatting (default en-US)")
	rootCmd.PersistentFlags().String("timezone", "", "IANA timezone for collection times (default: local)")
	rootCmd.PersistentFlags().Int64("seed", 0, "seed for dummy values (0 = random)")

	for _, name := range []string{"debug", "logFile", "catalog", "locale", "timezone", "seed"} {
		_ = viper.BindPFlag(name, rootCmd.PersistentFlags().Lookup(name))
	}
}

// initConfig points viper at the selected config file.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	}
}

// ensureConfigLoaded reads the config file, falling back to the legacy path
// when the default file is missing. No file leaves flags and defaults in charge.
func ensureConfigLoaded() error {
	configLoaded = false
	path, err := appconfig.ResolvePath(cfgFile)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	viper.SetConfigFile(path)
	if err := viper.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	configLoaded = true
	return nil
}

// GetConfig returns the loaded application configuration, or the defaults
// when no command has run yet.
func GetConfig() *appconfig.Config {
	if currentConfig == nil {
		cfg := appconfig.Default()
		return &cfg
	}
	return currentConfig
}

// SetVersionInfo allows the main package to inject build-time variables.
func SetVersionInfo(version, commit, date string) {
	appVersion = version
	appCommit = commit
	appDate = date
}

// renderOptions resolves the catalog, locale, timezone and seed of cfg.
func renderOptions(cfg *appconfig.Config) (report.RenderOptions, error) {
	cat, err := report.LoadCatalog(cfg.Catalog)
	if err != nil {
		return report.RenderOptions{}, err
	}
	tag, err := cfg.LocaleTag()
	if err != nil {
		return report.RenderOptions{}, err
	}
	loc, err := cfg.Location()
	if err != nil {
		return report.RenderOptions{}, err
	}
	return report.RenderOptions{Catalog: cat, Locale: tag, Location: loc, Seed: cfg.Seed}, nil
}
