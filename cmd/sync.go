package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"

	"monthlify/internal/formatter"
	"monthlify/internal/months"
	"monthlify/internal/repositories"
	"monthlify/internal/shared"
	"monthlify/internal/tasks"
)

// Sync plans the monthly playlist changes and, with --apply-diff, applies them.
func (r *Runner) Sync(ctx context.Context, cmd *cli.Command) error {
	selectors := cmd.Args().Slice()

	keys, err := months.ParseSelectors(selectors)
	if err != nil {
		// A typo in one selector fails the whole run before any network
		// call; partially syncing a misspelled range helps nobody.
		return err
	}

	asJSON := cmd.Bool("json")
	apply := cmd.Bool("apply-diff")

	layout := cmd.String("playlist-format")
	if layout == "" {
		layout = r.config.Sync.PlaylistFormat
	}

	public := r.config.Sync.Public
	if cmd.IsSet("public") {
		public = cmd.Bool("public")
	}

	if err := r.config.Spotify.Validate(); err != nil {
		return err
	}

	engine, err := r.ensureEngine(ctx)
	if err != nil {
		return err
	}

	if len(keys) > 0 {
		r.logger.Info("syncing selected months", "months", len(keys))
	} else {
		r.logger.Info("syncing every month with liked songs")
	}

	progressCh := make(chan tasks.ProgressUpdate, 50)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progressCh {
			if asJSON {
				continue
			}
			r.writePlain("%s\n", update.Message)
		}
	}()

	plan, err := engine.Plan(ctx, progressCh, tasks.PlanOptions{
		Months:         keys,
		PlaylistFormat: layout,
	})
	if err != nil {
		close(progressCh)
		<-done
		return err
	}

	if !apply {
		close(progressCh)
		<-done
		return r.renderPlan(plan, asJSON)
	}

	result, err := engine.Apply(ctx, progressCh, plan, tasks.ApplyOptions{Public: public})
	close(progressCh)
	<-done

	if err != nil {
		return err
	}

	r.recordRun(keys, plan, result)

	if asJSON {
		if err := r.writeJSON(formatter.NewApplyDocument(result), true); err != nil {
			return err
		}
	} else {
		r.writePlainln("%s", formatter.RenderApply(result))
	}

	if failed := result.Failed(); failed > 0 {
		return cli.Exit(fmt.Sprintf("%d months could not be fully synced", failed), 1)
	}

	return nil
}

func (r *Runner) renderPlan(plan *tasks.Plan, asJSON bool) error {
	if asJSON {
		return r.writeJSON(formatter.NewPlanDocument(plan), true)
	}

	r.writePlainln("%s", formatter.RenderPlan(plan))

	if !plan.InSync() {
		r.writePlain("Dry run only. Re-run with --apply-diff to apply these changes.\n")
	}

	return nil
}

// recordRun appends the apply outcome to the local run log. History is an
// audit convenience; a failure here never fails the sync.
func (r *Runner) recordRun(keys []months.Key, plan *tasks.Plan, result *tasks.ApplyResult) {
	path, err := r.config.HistoryPath()
	if err != nil {
		r.logger.Warn("run not recorded", "error", err)
		return
	}

	db, err := shared.NewDatabase(path)
	if err != nil {
		r.logger.Warn("run not recorded", "error", err)
		return
	}
	defer db.Close()

	runs, err := repositories.NewRunRepository(db)
	if err != nil {
		r.logger.Warn("run not recorded", "error", err)
		return
	}

	record := repositories.RunRecord{
		Months:  monthStrings(result),
		Added:   result.Added(),
		Removed: result.Removed(),
		Failed:  result.Failed(),
	}
	for _, res := range result.Results {
		if res.Created {
			record.Created++
		}
	}

	if err := runs.Create(&record); err != nil {
		r.logger.Warn("run not recorded", "error", err)
	}
}

func monthStrings(result *tasks.ApplyResult) []string {
	var out []string
	for _, res := range result.Results {
		out = append(out, res.Month.String())
	}
	return out
}

// syncCommand builds monthly playlists from liked songs.
func syncCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "sync",
		Usage:     "Compare liked songs against monthly playlists",
		ArgsUsage: `[months...] (e.g. "March 2025", 03-25, "Oct 2023 - Mar 2024")`,
		Description: strings.Join([]string{
			"Groups your liked songs by the month they were liked and compares each",
			"month against its playlist. Without flags this is a dry run; pass",
			"--apply-diff to create playlists and add or remove tracks.",
		}, "\n"),
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "apply-diff",
				Usage: "Apply the computed changes instead of only printing them",
			},
			&cli.StringFlag{
				Name:  "playlist-format",
				Usage: "strftime layout for new playlist names",
			},
			&cli.BoolFlag{
				Name:  "public",
				Usage: "Create new playlists as public",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output JSON instead of styled text",
			},
		},
		Action: r.Sync,
	}
}
