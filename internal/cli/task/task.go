// Package task provides the task subcommands: list, create, show,
// advance, status, delete, comment, attach, and detach.
package task

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tracklite/tracklite/internal/board"
	"github.com/tracklite/tracklite/internal/cli"
	"github.com/tracklite/tracklite/internal/models"
)

// Cmd returns the task parent command
func Cmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Manage tasks",
		Long:  "List, create, inspect, and update the tasks of a project.",
	}

	cmd.AddCommand(ListCmd())
	cmd.AddCommand(CreateCmd())
	cmd.AddCommand(ShowCmd())
	cmd.AddCommand(AdvanceCmd())
	cmd.AddCommand(StatusCmd())
	cmd.AddCommand(DeleteCmd())
	cmd.AddCommand(CommentCmd())
	cmd.AddCommand(AttachCmd())
	cmd.AddCommand(DetachCmd())

	return cmd
}

// loadBoard resolves the project, checks the session, and returns a
// loaded board controller. It exits the process on failure, after
// printing through the formatter.
func loadBoard(ctx context.Context, cmd *cobra.Command, formatter *cli.OutputFormatter) *board.Controller {
	projectID, err := cli.GetProjectID(cmd)
	if err != nil {
		formatter.ErrorWithSuggestion("NO_PROJECT", err.Error(),
			"Pass --project <id> or set TRACKLITE_PROJECT")
		os.Exit(cli.ExitUsage)
	}

	cliInstance, err := cli.GetCLIFromContext(ctx)
	if err != nil {
		formatter.Error("INITIALIZATION_ERROR", err.Error())
		os.Exit(cli.ExitError)
	}
	user, err := cliInstance.RequireUser()
	if err != nil {
		formatter.ErrorWithSuggestion("NOT_LOGGED_IN", err.Error(),
			"Log in with: tracklite auth login")
		os.Exit(cli.ExitAuth)
	}

	ctrl := board.NewController(cliInstance.Client, user, cli.Confirm(cmd), nil)
	if err := ctrl.Load(ctx, projectID); err != nil {
		formatter.Error("PROJECT_FETCH_ERROR", err.Error())
		os.Exit(cli.ExitCodeFor(err))
	}
	return ctrl
}

// findTask locates a task on the loaded board or exits with NOT_FOUND
func findTask(ctrl *board.Controller, taskID int, formatter *cli.OutputFormatter) models.Task {
	for _, t := range ctrl.Tasks() {
		if t.ID == taskID {
			return t
		}
	}
	formatter.Error("TASK_NOT_FOUND", fmt.Sprintf("task #%d not found in this project", taskID))
	os.Exit(cli.ExitNotFound)
	return models.Task{}
}
