package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"monthlify/internal/shared"
)

// ConfigInit writes a starter config file for the user to edit.
func (r *Runner) ConfigInit(ctx context.Context, cmd *cli.Command) error {
	path := cmd.String("output")
	if err := shared.CreateConfigFile(path); err != nil {
		return err
	}

	r.writePlain("Wrote %s.\n", path)
	r.writePlain("Set %s and %s (or fill in [spotify]) before running sync.\n",
		shared.EnvClientID, shared.EnvClientSecret)
	return nil
}

// configCommand handles configuration file operations
func configCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Manage the configuration file",
		Commands: []*cli.Command{
			{
				Name:  "init",
				Usage: "Write a starter config.toml",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Value:   "config.toml",
						Usage:   "Path to write the config file to",
					},
				},
				Action: r.ConfigInit,
			},
		},
	}
}
