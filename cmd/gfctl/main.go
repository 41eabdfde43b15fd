// Command gfctl is a command-line client for GlusterFS volumes.
package main

import (
	"os"

	"github.com/jmgilman/go/gluster/cmd/gfctl/commands"
)

// Build-time variables injected via ldflags
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	commands.Version = version
	commands.Commit = commit
	commands.Date = date

	os.Exit(commands.Execute())
}
