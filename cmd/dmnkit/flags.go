package main

import (
	"github.com/spf13/afero"
	"github.com/urfave/cli/v3"

	"github.com/kbukum/dmnkit/autoconfigure"
	"github.com/kbukum/dmnkit/config"
	"github.com/kbukum/dmnkit/version"
)

const serviceName = "dmnkit"

func sharedFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Path to the YAML configuration file (searched for when unset)",
		},
		&cli.StringFlag{
			Name:  "env-file",
			Usage: "Path to a .env file (searched for when unset)",
		},
		&cli.StringFlag{
			Name:    "resource-root",
			Aliases: []string{"r"},
			Usage:   "Directory resource locations are resolved against",
			Value:   ".",
		},
	}
}

// loadConfig loads files and environment on top of the defaults, then
// validates the result.
func loadConfig(cmd *cli.Command) (*autoconfigure.Config, error) {
	var opts []config.LoaderOption
	if path := cmd.String("config"); path != "" {
		opts = append(opts, config.WithConfigFile(path))
	}
	if path := cmd.String("env-file"); path != "" {
		opts = append(opts, config.WithEnvFile(path))
	}

	cfg := autoconfigure.DefaultConfig()
	if err := config.LoadConfig(serviceName, cfg, opts...); err != nil {
		return nil, err
	}
	version.Stamp(&cfg.ServiceConfig)
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// resourceFs roots discovery at --resource-root.
func resourceFs(cmd *cli.Command) afero.Fs {
	root := cmd.String("resource-root")
	if root == "" || root == "." {
		return afero.NewOsFs()
	}
	return afero.NewBasePathFs(afero.NewOsFs(), root)
}
