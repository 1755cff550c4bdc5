package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/pithecene-io/adbpush/cli/render"
	"github.com/pithecene-io/adbpush/session"
	"github.com/pithecene-io/adbpush/types"
)

// PushResponse is the response for the push command.
type PushResponse struct {
	Device      types.DeviceID          `json:"device" yaml:"device"`
	Destination string                  `json:"destination" yaml:"destination"`
	Outcomes    []types.TransferOutcome `json:"outcomes" yaml:"outcomes"`
	// Rejected lists dropped paths that were not staged.
	Rejected []string `json:"rejected,omitempty" yaml:"rejected,omitempty"`
}

// Headers implements render.Tabular.
func (r PushResponse) Headers() []string {
	return []string{"SOURCE", "STATUS", "EXIT", "DESTINATION", "DETAIL"}
}

// Rows implements render.Tabular.
func (r PushResponse) Rows() [][]string {
	rows := make([][]string, 0, len(r.Outcomes))
	for _, o := range r.Outcomes {
		detail := o.Error
		if o.Sent() {
			detail = firstLine(o.Output)
		}
		rows = append(rows, []string{o.Source, string(o.Status), strconv.Itoa(o.ExitCode), o.Destination, detail})
	}
	return rows
}

// PushCommand returns the headless push command.
//
// Files go through the same rules as drops in the TUI. Exit codes:
//   - 0: every push was launched
//   - 1: a precondition was unmet (no files, no device)
//   - 2: at least one push could not be launched
func PushCommand() *cli.Command {
	return &cli.Command{
		Name:      "push",
		Usage:     "Send files to the active device",
		ArgsUsage: "FILE...",
		Flags:     append(SessionFlags(), FormatFlag),
		Action:    pushAction,
	}
}

func pushAction(c *cli.Context) error {
	r, err := render.NewRenderer(c)
	if err != nil {
		return cli.Exit(err.Error(), exitPrecondition)
	}

	comp, err := build(c, c.App.ErrWriter)
	if err != nil {
		return err
	}
	defer comp.Close()

	ctx, cancel := signalContext(c.Context)
	defer cancel()

	s := comp.session
	s.Refresh(ctx)
	s.Drop(c.Args().Slice()...)

	outcomes, ok := s.Send(ctx)

	state := s.Snapshot()
	var rejected []string
	for _, e := range state.Log {
		switch e.Kind {
		case session.KindInvalidDrop:
			rejected = append(rejected, e.Path)
			fmt.Fprintln(c.App.ErrWriter, e.Message)
		case session.KindPrecondition:
			fmt.Fprintln(c.App.ErrWriter, e.Message)
		}
	}
	if !ok {
		return cli.Exit("", exitPrecondition)
	}

	if err := r.Render(PushResponse{
		Device:      state.Device,
		Destination: state.Destination,
		Outcomes:    outcomes,
		Rejected:    rejected,
	}); err != nil {
		return err
	}

	for _, o := range outcomes {
		if !o.Sent() {
			return cli.Exit("", exitLaunchFailed)
		}
	}
	return nil
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return strings.TrimSuffix(line, "\r")
}
