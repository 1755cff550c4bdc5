package cmd

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/pithecene-io/adbpush/types"
)

// NewApp returns the adbpush CLI. Running it without a command opens the
// TUI.
func NewApp(commit string) *cli.App {
	ui := UICommand()
	return &cli.App{
		Name:    "adbpush",
		Usage:   "Drop files onto a terminal and copy them to an Android device",
		Version: fmt.Sprintf("%s (commit: %s)", types.Version, commit),
		Flags:   ui.Flags,
		Action:  ui.Action,
		Commands: []*cli.Command{
			ui,
			DevicesCommand(),
			PushCommand(),
			VersionCommand(commit),
		},
	}
}
