package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/kbukum/dmnkit/autoconfigure"
	"github.com/kbukum/dmnkit/logger"
)

var conditionsCmd = &cli.Command{
	Name:  "conditions",
	Usage: "Print which auto-configurations would run and why",
	Action: func(ctx context.Context, cmd *cli.Command) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return cli.Exit(fmt.Errorf("failed to load config: %w", err), 1)
		}

		env := autoconfigure.NewEnvironment(cfg)
		env.Fs = resourceFs(cmd)
		env.Logger = logger.NewNop()

		report, err := autoconfigure.Default().Evaluate(ctx, env)
		if err != nil {
			return cli.Exit(err, 1)
		}
		fmt.Fprint(cmd.Root().Writer, report.String())
		return nil
	},
}
