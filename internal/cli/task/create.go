package task

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tracklite/tracklite/internal/board"
	"github.com/tracklite/tracklite/internal/cli"
	"github.com/tracklite/tracklite/internal/cli/styles"
	"github.com/tracklite/tracklite/internal/models"
)

// CreateCmd returns the task create subcommand
func CreateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create [title]",
		Short: "Create a task",
		Long:  "Create a task in a project. New tasks start in TODO.",
		Args:  cobra.ExactArgs(1),
		RunE:  runCreate,
	}

	cmd.Flags().Int("project", 0, "Project ID (uses TRACKLITE_PROJECT env var if not specified)")
	cmd.Flags().String("description", "", "Task description (markdown)")
	cmd.Flags().String("priority", "", "Priority (low, medium, high; default medium)")
	cmd.Flags().String("due", "", "Due date as YYYY-MM-DD")
	cmd.Flags().Int("assign", 0, "Assignee user ID")
	cmd.Flags().Bool("json", false, "Output in JSON format")
	cmd.Flags().Bool("quiet", false, "Minimal output")

	return cmd
}

func runCreate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	jsonOutput, _ := cmd.Flags().GetBool("json")
	quietMode, _ := cmd.Flags().GetBool("quiet")
	formatter := &cli.OutputFormatter{JSON: jsonOutput, Quiet: quietMode}

	input := board.CreateTaskInput{Title: args[0]}
	input.Description, _ = cmd.Flags().GetString("description")

	if raw, _ := cmd.Flags().GetString("priority"); raw != "" {
		priority, err := cli.ParsePriority(raw)
		if err != nil {
			formatter.Error("INVALID_PRIORITY", err.Error())
			os.Exit(cli.ExitValidation)
		}
		input.Priority = priority
	}
	if raw, _ := cmd.Flags().GetString("due"); raw != "" {
		due, err := models.ParseDate(raw)
		if err != nil {
			formatter.Error("INVALID_DUE_DATE", err.Error())
			os.Exit(cli.ExitValidation)
		}
		input.DueDate = &due
	}
	if assignee, _ := cmd.Flags().GetInt("assign"); assignee > 0 {
		input.AssignedTo = &assignee
	}

	ctrl := loadBoard(ctx, cmd, formatter)

	if err := ctrl.CreateTask(ctx, input); err != nil {
		if errors.Is(err, board.ErrEmptyTitle) {
			formatter.Error("INVALID_TITLE", "task title cannot be empty")
			os.Exit(cli.ExitValidation)
		}
		formatter.Error("TASK_CREATE_ERROR", err.Error())
		os.Exit(cli.ExitCodeFor(err))
	}

	if quietMode || jsonOutput {
		return formatter.Message("Created task %q", input.Title)
	}
	fmt.Printf("%s %s\n", styles.SuccessStyle.Render("Created task"), input.Title)
	return nil
}
