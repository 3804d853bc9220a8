package task

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tracklite/tracklite/internal/board"
	"github.com/tracklite/tracklite/internal/cli"
)

// DeleteCmd returns the task delete subcommand
func DeleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete [id]",
		Short: "Delete a task",
		Args:  cobra.ExactArgs(1),
		RunE:  runDelete,
	}

	cmd.Flags().Int("project", 0, "Project ID (uses TRACKLITE_PROJECT env var if not specified)")
	cmd.Flags().Bool("yes", false, "Skip the confirmation prompt")
	cmd.Flags().Bool("json", false, "Output in JSON format")
	cmd.Flags().Bool("quiet", false, "Minimal output")

	return cmd
}

func runDelete(cmd *cobra.Command, args []string) error {
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

	if err := ctrl.DeleteTask(ctx, taskID); err != nil {
		switch {
		case errors.Is(err, board.ErrDeclined):
			return formatter.Message("Aborted")
		case errors.Is(err, board.ErrUnknownTask):
			formatter.Error("TASK_NOT_FOUND", fmt.Sprintf("task #%d not found in this project", taskID))
			os.Exit(cli.ExitNotFound)
		default:
			formatter.Error("TASK_DELETE_ERROR", err.Error())
			os.Exit(cli.ExitCodeFor(err))
		}
	}

	return formatter.Message("Deleted task #%d", taskID)
}
