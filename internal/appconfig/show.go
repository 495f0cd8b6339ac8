package appconfig

import (
	"fmt"
	"io"
)

// ShowConfig prints the current configuration summary. A nil cfg prints the
// fallback values.
func ShowConfig(out io.Writer, file string, cfg *Config, fallback Config) {
	if file == "" {
		fmt.Fprintln(out, "No config file loaded (using defaults).")
	} else {
		fmt.Fprintf(out, "Config file: %s\n\n", file)
	}

	fmt.Fprintln(out, "Current configuration:")
	if cfg == nil {
		cfg = &fallback
	}
	fmt.Fprintf(out, "  Output Dir:            %s\n", cfg.OutputDirectory())
	fmt.Fprintf(out, "  Timestamped:           %v\n", cfg.Timestamped)
	fmt.Fprintf(out, "  HTML:                  %v\n", cfg.HTML)
	fmt.Fprintf(out, "  CSV:                   %v\n", cfg.CSV)
	fmt.Fprintf(out, "  Debug:                 %v\n", cfg.Debug)
	fmt.Fprintf(out, "  Populate Dummy Values: %v\n", cfg.PopulateDummyValues)
	fmt.Fprintf(out, "  Workers:               %d\n", cfg.WorkerCount())
	fmt.Fprintf(out, "  Log File:              %s\n", cfg.LogFilePath())

	if tag, err := cfg.LocaleTag(); err != nil {
		fmt.Fprintf(out, "  Locale:                %s (%v)\n", cfg.Locale, err)
	} else {
		fmt.Fprintf(out, "  Locale:                %s\n", tag)
	}
	if loc, err := cfg.Location(); err != nil {
		fmt.Fprintf(out, "  Timezone:              %s (%v)\n", cfg.Timezone, err)
	} else {
		fmt.Fprintf(out, "  Timezone:              %s\n", loc)
	}
	if cfg.Catalog == "" {
		fmt.Fprintln(out, "  Catalog:               (embedded desktop)")
	} else {
		fmt.Fprintf(out, "  Catalog:               %s\n", cfg.Catalog)
	}
	if cfg.Seed != 0 {
		fmt.Fprintf(out, "  Seed:                  %d\n", cfg.Seed)
	}
}
