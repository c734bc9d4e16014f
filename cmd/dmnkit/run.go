package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/kbukum/dmnkit/bootstrap"
	"github.com/kbukum/dmnkit/logger"
	"github.com/kbukum/dmnkit/observability"
	"github.com/kbukum/dmnkit/version"
)

var runCmd = &cli.Command{
	Name:  "run",
	Usage: "Bootstrap the engines and run until interrupted",
	Flags: []cli.Flag{
		&cli.BoolFlag{
			Name:  "once",
			Usage: "Deploy resources and shut down instead of waiting for a signal",
		},
	},
	Action: runAction,
}

func runAction(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return cli.Exit(fmt.Errorf("failed to load config: %w", err), 1)
	}

	shutdown, err := observability.Init(ctx, cfg.Observability, &cfg.ServiceConfig)
	if err != nil {
		return cli.Exit(fmt.Errorf("failed to init observability: %w", err), 1)
	}
	defer func() {
		if err := shutdown(context.Background()); err != nil {
			logger.Warn("Observability shutdown failed", logger.ErrorFields("shutdown", err))
		}
	}()

	metrics, err := observability.NewMetrics(observability.Meter(serviceName))
	if err != nil {
		return cli.Exit(fmt.Errorf("failed to create metrics: %w", err), 1)
	}

	app, err := bootstrap.NewApp(cfg,
		bootstrap.WithResourceFs(resourceFs(cmd)),
		bootstrap.WithMetrics(metrics),
	)
	if err != nil {
		return cli.Exit(err, 1)
	}
	app.Logger.Info("Build info", version.GetVersionInfo().Fields())

	if cmd.Bool("once") {
		return app.RunTask(ctx, func(context.Context) error { return nil })
	}
	return app.Run(ctx)
}
