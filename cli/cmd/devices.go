package cmd

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/pithecene-io/adbpush/cli/render"
	"github.com/pithecene-io/adbpush/types"
)

// DevicesResponse is the response for the devices command.
type DevicesResponse struct {
	// Active is the device files would be sent to.
	Active  types.DeviceID `json:"active" yaml:"active"`
	Devices []types.Device `json:"devices" yaml:"devices"`
}

// Headers implements render.Tabular.
func (r DevicesResponse) Headers() []string {
	return []string{"SERIAL", "STATE", "ACTIVE"}
}

// Rows implements render.Tabular.
func (r DevicesResponse) Rows() [][]string {
	rows := make([][]string, 0, len(r.Devices))
	for _, d := range r.Devices {
		active := ""
		if types.DeviceID(d.Serial) == r.Active {
			active = "*"
		}
		rows = append(rows, []string{d.Serial, d.State, active})
	}
	return rows
}

// DevicesCommand returns the devices command.
func DevicesCommand() *cli.Command {
	return &cli.Command{
		Name:   "devices",
		Usage:  "List attached devices and the active one",
		Flags:  append(SessionFlags(), FormatFlag),
		Action: devicesAction,
	}
}

func devicesAction(c *cli.Context) error {
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

	listing, err := comp.registry.List(ctx)
	if err != nil {
		return cli.Exit(fmt.Sprintf("cannot list devices: %v", err), exitLaunchFailed)
	}

	return r.Render(DevicesResponse{
		Active:  listing.Active,
		Devices: listing.Devices,
	})
}
