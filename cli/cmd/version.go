package cmd

import (
	"github.com/urfave/cli/v2"

	"github.com/pithecene-io/adbpush/cli/render"
	"github.com/pithecene-io/adbpush/types"
)

// VersionResponse is the response for the version command.
type VersionResponse struct {
	Version string `json:"version" yaml:"version"`
	Commit  string `json:"commit" yaml:"commit"`
}

// Headers implements render.Tabular.
func (v VersionResponse) Headers() []string { return []string{"VERSION", "COMMIT"} }

// Rows implements render.Tabular.
func (v VersionResponse) Rows() [][]string { return [][]string{{v.Version, v.Commit}} }

// VersionCommand returns the version command. It never invokes the bridge.
func VersionCommand(commit string) *cli.Command {
	return &cli.Command{
		Name:  "version",
		Usage: "Show version information",
		Flags: []cli.Flag{FormatFlag},
		Action: func(c *cli.Context) error {
			r, err := render.NewRenderer(c)
			if err != nil {
				return cli.Exit(err.Error(), exitPrecondition)
			}
			return r.Render(VersionResponse{Version: types.Version, Commit: commit})
		},
	}
}
