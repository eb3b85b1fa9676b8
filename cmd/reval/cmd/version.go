package cmd

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/wharflab/reval/internal/version"
)

func versionCommand() *cli.Command {
	return &cli.Command{
		Name:  "version",
		Usage: "Print version information",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output version information as JSON",
			},
		},
		Action: func(_ context.Context, cmd *cli.Command) error {
			if cmd.Bool("json") {
				enc := json.NewEncoder(stdout(cmd))
				enc.SetIndent("", "  ")
				enc.SetEscapeHTML(true)
				return enc.Encode(version.GetInfo())
			}
			_, err := fmt.Fprintf(stdout(cmd), "reval version %s\n", version.Version())
			return err
		},
	}
}
