// package formatter renders sync plans, apply results, and run history for
// terminal display.
package formatter

import (
	"bytes"
	"fmt"

	"monthlify/internal/repositories"
	"monthlify/internal/services"
	"monthlify/internal/tasks"
)

// RenderPlan formats a sync plan for terminal display.
func RenderPlan(plan *tasks.Plan) []byte {
	var buf bytes.Buffer

	buf.WriteString(styles.title.Render("Sync plan"))
	buf.WriteString("\n\n")

	if plan.SkippedTracks > 0 {
		buf.WriteString(styles.warn.Render(fmt.Sprintf("! %d liked songs have no timestamp and were skipped", plan.SkippedTracks)))
		buf.WriteString("\n\n")
	}

	for _, diff := range plan.Diffs {
		writeDiff(&buf, diff)
	}

	if plan.InSync() {
		buf.WriteString(styles.ok.Render("Everything is in sync."))
		buf.WriteString("\n")
	}

	return buf.Bytes()
}

func writeDiff(buf *bytes.Buffer, diff tasks.Diff) {
	switch {
	case diff.Playlist == nil && diff.Desired == 0:
		buf.WriteString(fmt.Sprintf("%s  %s\n", diff.Month, styles.help.Render("no liked songs, nothing to do")))
		return
	case diff.InSync():
		buf.WriteString(fmt.Sprintf("%s  %s %s\n", diff.Month, diff.Name, styles.ok.Render("in sync")))
		return
	}

	status := ""
	if diff.Playlist == nil {
		status = styles.warn.Render("will be created")
	}
	buf.WriteString(fmt.Sprintf("%s  %s %s\n", diff.Month, styles.title.Render(diff.Name), status))

	for _, track := range diff.ToAdd {
		buf.WriteString(fmt.Sprintf("  %s %s\n", styles.ok.Render("+"), trackLine(track)))
	}
	for _, track := range diff.ToRemove {
		buf.WriteString(fmt.Sprintf("  %s %s\n", styles.err.Render("-"), trackLine(track)))
	}

	buf.WriteString("\n")
}

func trackLine(track services.Track) string {
	if track.Artist == "" {
		return track.Title
	}
	return fmt.Sprintf("%s - %s", track.Artist, track.Title)
}

// RenderApply formats the outcome of an applied plan.
func RenderApply(result *tasks.ApplyResult) []byte {
	var buf bytes.Buffer

	buf.WriteString(styles.title.Render("Sync results"))
	buf.WriteString("\n\n")

	for _, res := range result.Results {
		switch {
		case res.Err != nil:
			buf.WriteString(fmt.Sprintf("%s %s  %s: %v\n", styles.err.Render("✗"), res.Month, res.Name, res.Err))
		case res.Created || res.Added > 0 || res.Removed > 0:
			detail := fmt.Sprintf("+%d -%d", res.Added, res.Removed)
			if res.Created {
				detail = "created, " + detail
			}
			buf.WriteString(fmt.Sprintf("%s %s  %s (%s)\n", styles.ok.Render("✓"), res.Month, res.Name, detail))
		default:
			buf.WriteString(fmt.Sprintf("%s %s  %s\n", styles.help.Render("·"), res.Month, styles.help.Render("unchanged")))
		}
	}

	buf.WriteString("\n")
	summary := fmt.Sprintf("%d added, %d removed", result.Added(), result.Removed())
	if failed := result.Failed(); failed > 0 {
		summary += fmt.Sprintf(", %s", styles.err.Render(fmt.Sprintf("%d months failed", failed)))
	}
	buf.WriteString(summary + "\n")

	return buf.Bytes()
}

// RenderHistory formats past runs as a table, newest first.
func RenderHistory(records []repositories.RunRecord) []byte {
	var buf bytes.Buffer

	if len(records) == 0 {
		buf.WriteString(styles.help.Render("No runs recorded yet."))
		buf.WriteString("\n")
		return buf.Bytes()
	}

	buf.WriteString(styles.title.Render("Run history"))
	buf.WriteString("\n\n")

	for _, record := range records {
		line := fmt.Sprintf("%s  %d created, %d added, %d removed",
			record.RanAt.Local().Format("2006-01-02 15:04"),
			record.Created, record.Added, record.Removed)

		if record.Failed > 0 {
			line += "  " + styles.err.Render(fmt.Sprintf("%d failed", record.Failed))
		}
		if len(record.Months) > 0 {
			line += "  " + styles.help.Render(fmt.Sprintf("(%d months)", len(record.Months)))
		}

		buf.WriteString(line + "\n")
	}

	return buf.Bytes()
}
