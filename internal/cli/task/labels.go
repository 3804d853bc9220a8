package task

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/tracklite/tracklite/internal/cli"
	"github.com/tracklite/tracklite/internal/taskdetail"
)

// AttachCmd returns the task attach subcommand
func AttachCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "attach [task-id] [label-id]",
		Short: "Attach a label to a task",
		Long:  "Attach a project label to a task. Attaching an already-attached label is a no-op.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLabelOp(cmd, args, true)
		},
	}

	cmd.Flags().Int("project", 0, "Project ID (uses TRACKLITE_PROJECT env var if not specified)")
	cmd.Flags().Bool("json", false, "Output in JSON format")
	cmd.Flags().Bool("quiet", false, "Minimal output")

	return cmd
}

// DetachCmd returns the task detach subcommand
func DetachCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "detach [task-id] [label-id]",
		Short: "Detach a label from a task",
		Long:  "Detach a label from a task. Detaching an absent label is a no-op.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLabelOp(cmd, args, false)
		},
	}

	cmd.Flags().Int("project", 0, "Project ID (uses TRACKLITE_PROJECT env var if not specified)")
	cmd.Flags().Bool("json", false, "Output in JSON format")
	cmd.Flags().Bool("quiet", false, "Minimal output")

	return cmd
}

func runLabelOp(cmd *cobra.Command, args []string, attach bool) error {
	ctx := cmd.Context()

	jsonOutput, _ := cmd.Flags().GetBool("json")
	quietMode, _ := cmd.Flags().GetBool("quiet")
	formatter := &cli.OutputFormatter{JSON: jsonOutput, Quiet: quietMode}

	taskID, err := cli.ParseIDArg(args, "task")
	if err != nil {
		formatter.Error("INVALID_TASK_ID", err.Error())
		os.Exit(cli.ExitUsage)
	}
	labelID, err := cli.ParseIDArg(args[1:], "label")
	if err != nil {
		formatter.Error("INVALID_LABEL_ID", err.Error())
		os.Exit(cli.ExitUsage)
	}

	ctrl := loadBoard(ctx, cmd, formatter)
	bound := findTask(ctrl, taskID, formatter)

	cliInstance, _ := cli.GetCLIFromContext(ctx)
	detail := taskdetail.NewController(cliInstance.Client, ctrl.ReplaceTask, nil)
	detail.Bind(ctx, bound)

	op := detail.AttachLabel
	verb := "Attached label #%d to task #%d"
	if !attach {
		op = detail.DetachLabel
		verb = "Detached label #%d from task #%d"
	}

	if err := op(ctx, labelID); err != nil {
		formatter.Error("LABEL_OP_ERROR", err.Error())
		os.Exit(cli.ExitCodeFor(err))
	}

	return formatter.Message(verb, labelID, taskID)
}
