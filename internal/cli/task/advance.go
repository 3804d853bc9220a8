package task

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tracklite/tracklite/internal/board"
	"github.com/tracklite/tracklite/internal/cli"
	"github.com/tracklite/tracklite/internal/cli/styles"
)

// AdvanceCmd returns the task advance subcommand
func AdvanceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "advance [id]",
		Short: "Advance a task to the next status",
		Long:  "Move a task one step along TODO, IN_PROGRESS, DONE, wrapping back to TODO.",
		Args:  cobra.ExactArgs(1),
		RunE:  runAdvance,
	}

	cmd.Flags().Int("project", 0, "Project ID (uses TRACKLITE_PROJECT env var if not specified)")
	cmd.Flags().Bool("json", false, "Output in JSON format")
	cmd.Flags().Bool("quiet", false, "Minimal output")

	return cmd
}

func runAdvance(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	jsonOutput, _ := cmd.Flags().GetBool("json")
	quietMode, _ := cmd.Flags().GetBool("quiet")
	formatter := &cli.OutputFormatter{JSON: jsonOutput, Quiet: quietMode}

	taskID, err := cli.ParseIDArg(args, "task")
	if err != nil {
		formatter.Error("INVALID_TASK_ID", err.Error())
		os.Exit(cli.ExitUsage)
	}

	ctrl := loadBoard(ctx, cmd, formatter)

	if err := ctrl.AdvanceTask(ctx, taskID); err != nil {
		if errors.Is(err, board.ErrUnknownTask) {
			formatter.Error("TASK_NOT_FOUND", fmt.Sprintf("task #%d not found in this project", taskID))
			os.Exit(cli.ExitNotFound)
		}
		formatter.Error("TASK_UPDATE_ERROR", err.Error())
		os.Exit(cli.ExitCodeFor(err))
	}

	task := findTask(ctrl, taskID, formatter)
	if quietMode || jsonOutput {
		return formatter.Message("Task #%d is now %s", taskID, task.Status)
	}
	fmt.Printf("Task #%d is now %s\n", taskID, styles.StatusBadge(task.Status))
	return nil
}
