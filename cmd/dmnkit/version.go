package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/kbukum/dmnkit/version"
)

var versionCmd = &cli.Command{
	Name:  "version",
	Usage: "Print the version information",
	Action: func(ctx context.Context, cmd *cli.Command) error {
		version.GetVersionInfo().Write(cmd.Root().Writer)
		return nil
	},
}
