// cmd/perfreport/main.go
package main

import (
	cmd "github.com/mwiater/perfreport/internal/cli"
)

// Set by the linker at release time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	setVersionInfo = cmd.SetVersionInfo
	executeCmd     = cmd.Execute
)

// main starts the perfreport CLI application by delegating to the
// cobra root command defined in the cli package.
func main() {
	setVersionInfo(version, commit, date)
	executeCmd()
}
