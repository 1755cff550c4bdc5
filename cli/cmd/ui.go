package cmd

import (
	"context"
	"io"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/pithecene-io/adbpush/cli/tui"
)

// UICommand returns the interactive drop-target command.
func UICommand() *cli.Command {
	return &cli.Command{
		Name:   "ui",
		Usage:  "Open the drop-target TUI (default)",
		Flags:  append(SessionFlags(), ThemeFlag),
		Action: uiAction,
	}
}

// shutdownTimeout bounds how long the TUI waits for a running batch on exit.
const shutdownTimeout = 10 * time.Second

func uiAction(c *cli.Context) error {
	// The alternate screen owns the terminal, so logs go to --log-file or
	// nowhere.
	comp, err := build(c, io.Discard)
	if err != nil {
		return err
	}
	defer comp.Close()

	ctx, cancel := signalContext(c.Context)
	defer cancel()

	err = tui.Run(ctx, tui.Options{
		Session:    comp.session,
		RemoteRoot: comp.config.RemoteRoot,
		Theme:      comp.config.Theme,
	})

	// Quitting mid-batch fails the remaining pushes fast; the batch still
	// logs and publishes before the log file and notifier are closed.
	cancel()
	waitIdle(comp, shutdownTimeout)

	if err != nil {
		comp.logger.Error("tui exited with error", map[string]any{"error": err.Error()})
		return err
	}
	return nil
}

// waitIdle waits up to timeout for the session's batch to finish.
func waitIdle(comp *components, timeout time.Duration) bool {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if comp.session.WaitIdle(ctx) {
		return true
	}
	comp.logger.Warn("batch still running at exit", map[string]any{"timeout": timeout.String()})
	return false
}
