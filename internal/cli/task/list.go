package task

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tracklite/tracklite/internal/board"
	"github.com/tracklite/tracklite/internal/cli"
	"github.com/tracklite/tracklite/internal/cli/styles"
)

// ListCmd returns the task list subcommand
func ListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks",
		Long:  "List the tasks of a project, optionally narrowed by status and priority.",
		RunE:  runList,
	}

	cmd.Flags().Int("project", 0, "Project ID (uses TRACKLITE_PROJECT env var if not specified)")
	cmd.Flags().String("status", "", "Filter by status (todo, in-progress, done)")
	cmd.Flags().String("priority", "", "Filter by priority (low, medium, high)")
	cmd.Flags().Bool("json", false, "Output in JSON format")
	cmd.Flags().Bool("quiet", false, "Minimal output (IDs only)")

	return cmd
}

func runList(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	jsonOutput, _ := cmd.Flags().GetBool("json")
	quietMode, _ := cmd.Flags().GetBool("quiet")
	formatter := &cli.OutputFormatter{JSON: jsonOutput, Quiet: quietMode}

	var patch board.FilterPatch
	if raw, _ := cmd.Flags().GetString("status"); raw != "" {
		status, err := cli.ParseStatus(raw)
		if err != nil {
			formatter.Error("INVALID_STATUS", err.Error())
			os.Exit(cli.ExitValidation)
		}
		patch.Status = &status
	}
	if raw, _ := cmd.Flags().GetString("priority"); raw != "" {
		priority, err := cli.ParsePriority(raw)
		if err != nil {
			formatter.Error("INVALID_PRIORITY", err.Error())
			os.Exit(cli.ExitValidation)
		}
		patch.Priority = &priority
	}

	ctrl := loadBoard(ctx, cmd, formatter)
	if patch.Status != nil || patch.Priority != nil {
		ctrl.SetFilter(ctx, patch)
	}

	tasks := ctrl.Tasks()
	summary := ctrl.Summary()

	if quietMode {
		for _, t := range tasks {
			fmt.Printf("%d\n", t.ID)
		}
		return nil
	}
	if jsonOutput {
		return json.NewEncoder(os.Stdout).Encode(map[string]any{
			"success": true,
			"tasks":   tasks,
			"summary": summary,
		})
	}

	if len(tasks) == 0 {
		fmt.Println("No tasks found")
		return nil
	}
	for _, t := range tasks {
		line := fmt.Sprintf("%s %s %s %s",
			styles.SubtitleStyle.Render(fmt.Sprintf("#%d", t.ID)),
			styles.StatusBadge(t.Status),
			styles.PriorityBadge(t.Priority),
			t.Title)
		if t.Assignee != nil {
			line += " " + styles.SubtitleStyle.Render("@"+t.Assignee.Name)
		}
		for _, l := range t.Labels {
			line += " " + styles.LabelChip(l.Name, l.Color)
		}
		if t.CommentCount > 0 {
			line += " " + styles.SubtitleStyle.Render(fmt.Sprintf("(%d comments)", t.CommentCount))
		}
		fmt.Println(line)
	}
	fmt.Println(styles.SubtitleStyle.Render(fmt.Sprintf(
		"%d TODO · %d IN_PROGRESS · %d DONE · %d total",
		summary.Todo, summary.InProgress, summary.Done, summary.Total)))
	return nil
}
