// Package main provides the adbpush CLI entrypoint.
//
// Usage:
//
//	adbpush [ui] [options]
//	adbpush devices [--format json|table|yaml]
//	adbpush push [--target FOLDER] FILE...
//	adbpush version
//
// Exit codes for `push`:
//   - 0: every push was launched
//   - 1: precondition unmet (no files, no device, bad config)
//   - 2: at least one push could not be launched
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/pithecene-io/adbpush/cli/cmd"
)

// Commit is set via ldflags at build time.
var commit = "unknown"

var (
	osExit           = os.Exit
	stderr io.Writer = os.Stderr
)

func main() {
	app := cmd.NewApp(commit)
	app.ExitErrHandler = exitErrHandler

	if err := app.Run(os.Args); err != nil {
		// ExitErrHandler already exited for cli.ExitCoder errors.
		osExit(1)
	}
}

// exitErrHandler preserves exit codes from cli.Exit and prints real
// messages to stderr.
func exitErrHandler(_ *cli.Context, err error) {
	if err == nil {
		return
	}

	var exitCoder cli.ExitCoder
	if errors.As(err, &exitCoder) {
		code := exitCoder.ExitCode()
		msg := exitCoder.Error()

		// cli.Exit("", N).Error() is "exit status N"; nothing to print.
		if msg != "" && msg != fmt.Sprintf("exit status %d", code) {
			fmt.Fprintln(stderr, msg)
		}
		osExit(code)
		return
	}

	fmt.Fprintf(stderr, "Error: %v\n", err)
	osExit(1)
}
