// Package app provides the newton command-line application.
package app

import (
	"fmt"
	"os"
	"runtime"

	"github.com/rileylyman/newton/cli/tree"
	"github.com/urfave/cli/v2"
)

// Version is the version of the newton tool.
var Version = "0.1.0"

// New creates a newton instance of [cli.App] with all commands included.
func New() *cli.App {
	cli.VersionPrinter = versionPrinter
	ctl := cli.NewApp()
	ctl.Name = "newton"
	ctl.Version = Version
	ctl.Usage = "blockchain data structures toolkit"
	ctl.ErrWriter = os.Stdout

	ctl.Commands = append(ctl.Commands, tree.NewCommands()...)
	return ctl
}

func versionPrinter(c *cli.Context) {
	_, _ = fmt.Fprintf(c.App.Writer, "newton\nVersion: %s\nGoVersion: %s\n",
		Version,
		runtime.Version(),
	)
}
