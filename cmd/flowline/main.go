package main

import (
	"context"
	"fmt"
	"os"

	cli "github.com/urfave/cli/v3"
)

func main() {
	cmd := &cli.Command{
		Name:                  "flowline",
		EnableShellCompletion: true,
		Usage:                 "Workflow automation engine",
		Commands: []*cli.Command{
			NewRunCommand(),
			NewServeCommand(),
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
