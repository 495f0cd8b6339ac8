package perfreport

import (
	"io"

	"github.com/k0kubun/pp"
	"github.com/mwiater/perfreport/internal/appconfig"
	"github.com/spf13/viper"
)

func runShowConfig(out io.Writer, verbose bool) {
	file := ""
	if configLoaded {
		file = viper.ConfigFileUsed()
	}

	if verbose {
		_, _ = pp.Fprintln(out, GetConfig())
		return
	}

	fallback := appconfig.Default()
	fallback.Debug = viper.GetBool("debug")
	fallback.LogFile = viper.GetString("logFile")
	appconfig.ShowConfig(out, file, GetConfig(), fallback)
}
