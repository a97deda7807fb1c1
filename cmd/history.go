package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"monthlify/internal/formatter"
	"monthlify/internal/repositories"
	"monthlify/internal/shared"
)

// History lists past apply runs, newest first.
func (r *Runner) History(ctx context.Context, cmd *cli.Command) error {
	path, err := r.config.HistoryPath()
	if err != nil {
		return err
	}

	db, err := shared.NewDatabase(path)
	if err != nil {
		return err
	}
	defer db.Close()

	runs, err := repositories.NewRunRepository(db)
	if err != nil {
		return err
	}

	records, err := runs.List(cmd.Int("limit"))
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(records, true)
	}

	r.writePlain("%s", formatter.RenderHistory(records))
	return nil
}

// historyCommand shows the local run log.
func historyCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "Show past sync runs",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "limit",
				Usage: "Maximum number of runs to show (0 shows all)",
				Value: 10,
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output JSON instead of styled text",
			},
		},
		Action: r.History,
	}
}
