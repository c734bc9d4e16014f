// Command dmnkit bootstraps the DMN and process engines from configuration
// and inspects what the bootstrap would do.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/kbukum/dmnkit/version"
)

func newApp() *cli.Command {
	return &cli.Command{
		Name:    "dmnkit",
		Version: version.GetShortVersion(),
		Usage:   "Bootstrap and inspect embedded decision engines",
		Flags:   sharedFlags(),
		Commands: []*cli.Command{
			runCmd,
			resourcesCmd,
			conditionsCmd,
			versionCmd,
		},
	}
}

func main() {
	if err := newApp().Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
