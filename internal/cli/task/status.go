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

// StatusCmd returns the task status subcommand
func StatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status [id] [status]",
		Short: "Set a task's status",
		Long:  "Set a task directly to todo, in-progress, or done.",
		Args:  cobra.ExactArgs(2),
		RunE:  runStatus,
	}

	cmd.Flags().Int("project", 0, "Project ID (uses TRACKLITE_PROJECT env var if not specified)")
	cmd.Flags().Bool("json", false, "Output in JSON format")
	cmd.Flags().Bool("quiet", false, "Minimal output")

	return cmd
}

func runStatus(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	jsonOutput, _ := cmd.Flags().GetBool("json")
	quietMode, _ := cmd.Flags().GetBool("quiet")
	formatter := &cli.OutputFormatter{JSON: jsonOutput, Quiet: quietMode}

	taskID, err := cli.ParseIDArg(args, "task")
	if err != nil {
		formatter.Error("INVALID_TASK_ID", err.Error())
		os.Exit(cli.ExitUsage)
	}
	status, err := cli.ParseStatus(args[1])
	if err != nil {
		formatter.Error("INVALID_STATUS", err.Error())
		os.Exit(cli.ExitValidation)
	}

	ctrl := loadBoard(ctx, cmd, formatter)

	if err := ctrl.SetTaskStatus(ctx, taskID, status); err != nil {
		if errors.Is(err, board.ErrUnknownTask) {
			formatter.Error("TASK_NOT_FOUND", fmt.Sprintf("task #%d not found in this project", taskID))
			os.Exit(cli.ExitNotFound)
		}
		formatter.Error("TASK_UPDATE_ERROR", err.Error())
		os.Exit(cli.ExitCodeFor(err))
	}

	if quietMode || jsonOutput {
		return formatter.Message("Task #%d is now %s", taskID, status)
	}
	fmt.Printf("Task #%d is now %s\n", taskID, styles.StatusBadge(status))
	return nil
}
