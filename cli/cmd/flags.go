// Package cmd provides CLI commands for the adbpush binary.
package cmd

import "github.com/urfave/cli/v2"

// Exit codes.
const (
	exitPrecondition = 1
	exitLaunchFailed = 2
)

var (
	// FormatFlag selects output format: json, table, yaml.
	FormatFlag = &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"f"},
		Usage:   "Output format: json, table, yaml",
	}

	// ConfigFlag points at an explicit config file.
	ConfigFlag = &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Config file (default: $XDG_CONFIG_HOME/adbpush/config.yaml)",
		EnvVars: []string{"ADBPUSH_CONFIG"},
	}

	// BridgeFlag overrides the device-bridge binary.
	BridgeFlag = &cli.StringFlag{
		Name:    "bridge",
		Usage:   "Device bridge binary (default: adb)",
		EnvVars: []string{"ADBPUSH_BRIDGE"},
	}

	// RemoteRootFlag overrides the device storage root.
	RemoteRootFlag = &cli.StringFlag{
		Name:  "remote-root",
		Usage: "Storage root on the device (default: /storage/emulated/0/)",
	}

	// TargetFlag sets the folder appended to the remote root.
	TargetFlag = &cli.StringFlag{
		Name:    "target",
		Aliases: []string{"t"},
		Usage:   "Target folder, appended verbatim to the remote root",
	}

	// ThemeFlag selects the TUI color theme.
	ThemeFlag = &cli.StringFlag{
		Name:  "theme",
		Usage: "TUI theme: dark, light",
	}

	// LogFileFlag directs logs to a file.
	LogFileFlag = &cli.StringFlag{
		Name:  "log-file",
		Usage: "Write logs to this file (the TUI discards logs otherwise)",
	}

	// LogLevelFlag sets the minimum log level.
	LogLevelFlag = &cli.StringFlag{
		Name:  "log-level",
		Usage: "Log level: debug, info, warn, error",
	}
)

// SessionFlags returns the flags shared by every command that talks to a
// device.
func SessionFlags() []cli.Flag {
	return []cli.Flag{
		ConfigFlag,
		BridgeFlag,
		RemoteRootFlag,
		TargetFlag,
		LogFileFlag,
		LogLevelFlag,
	}
}
