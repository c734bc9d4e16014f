package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/kbukum/dmnkit/bpmn"
	"github.com/kbukum/dmnkit/dmn"
	"github.com/kbukum/dmnkit/resource"
)

var resourcesCmd = &cli.Command{
	Name:  "resources",
	Usage: "List the deployment resources each engine would deploy",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "engine",
			Usage: "Engine to list: dmn, process or all",
			Value: "all",
			Validator: func(s string) error {
				switch s {
				case dmn.EngineName, bpmn.EngineName, "all":
					return nil
				}
				return fmt.Errorf("unknown engine %q", s)
			},
		},
	},
	Action: resourcesAction,
}

type discovery struct {
	engine     string
	enabled    bool
	location   string
	suffixes   []string
	deploy     bool
	deployment string
}

func resourcesAction(_ context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return cli.Exit(fmt.Errorf("failed to load config: %w", err), 1)
	}

	dmnProps, procProps := cfg.Flowable.DMN, cfg.Flowable.Process
	all := []discovery{
		{dmn.EngineName, dmnProps.Enabled, dmnProps.ResourceLocation, dmnProps.ResourceSuffixes, dmnProps.DeployResources, dmnProps.DeploymentName},
		{bpmn.EngineName, procProps.Enabled, procProps.ResourceLocation, procProps.ResourceSuffixes, procProps.DeployResources, procProps.DeploymentName},
	}

	fs := resourceFs(cmd)
	w := cmd.Root().Writer
	want := cmd.String("engine")
	for _, d := range all {
		if want != "all" && want != d.engine {
			continue
		}
		if !d.enabled {
			fmt.Fprintf(w, "%s: disabled\n", d.engine)
			continue
		}
		found, err := resource.Discover(fs, d.location, d.suffixes, d.deploy)
		if err != nil {
			return cli.Exit(err, 1)
		}
		fmt.Fprintf(w, "%s: %d resource(s) in %s -> %s\n", d.engine, len(found), d.location, d.deployment)
		for _, r := range found {
			fmt.Fprintf(w, "  %s (%d bytes)\n", r.Name, r.Size)
		}
	}
	return nil
}
