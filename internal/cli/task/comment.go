package task

import (
	"errors"
	"os"

	"github.com/spf13/cobra"

	"github.com/tracklite/tracklite/internal/cli"
	"github.com/tracklite/tracklite/internal/taskdetail"
)

// CommentCmd returns the task comment subcommand
func CommentCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "comment [id]",
		Short: "Comment on a task",
		Args:  cobra.ExactArgs(1),
		RunE:  runComment,
	}

	cmd.Flags().Int("project", 0, "Project ID (uses TRACKLITE_PROJECT env var if not specified)")
	cmd.Flags().StringP("message", "m", "", "Comment text (required)")
	cmd.Flags().Bool("json", false, "Output in JSON format")
	cmd.Flags().Bool("quiet", false, "Minimal output")
	cmd.MarkFlagRequired("message")

	return cmd
}

func runComment(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	jsonOutput, _ := cmd.Flags().GetBool("json")
	quietMode, _ := cmd.Flags().GetBool("quiet")
	formatter := &cli.OutputFormatter{JSON: jsonOutput, Quiet: quietMode}

	taskID, err := cli.ParseIDArg(args, "task")
	if err != nil {
		formatter.Error("INVALID_TASK_ID", err.Error())
		os.Exit(cli.ExitUsage)
	}
	message, _ := cmd.Flags().GetString("message")

	ctrl := loadBoard(ctx, cmd, formatter)
	bound := findTask(ctrl, taskID, formatter)

	cliInstance, _ := cli.GetCLIFromContext(ctx)
	detail := taskdetail.NewController(cliInstance.Client, ctrl.ReplaceTask, nil)
	detail.Bind(ctx, bound)

	if err := detail.AddComment(ctx, message); err != nil {
		if errors.Is(err, taskdetail.ErrEmptyComment) {
			formatter.Error("EMPTY_COMMENT", "comment text cannot be empty")
			os.Exit(cli.ExitValidation)
		}
		formatter.Error("COMMENT_ERROR", err.Error())
		os.Exit(cli.ExitCodeFor(err))
	}

	return formatter.Message("Commented on task #%d", taskID)
}
