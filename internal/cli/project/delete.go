package project

import (
	"errors"
	"os"

	"github.com/spf13/cobra"

	"github.com/tracklite/tracklite/internal/board"
	"github.com/tracklite/tracklite/internal/cli"
)

// DeleteCmd returns the project delete subcommand
func DeleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete [id]",
		Short: "Delete a project",
		Long:  "Delete a project and everything in it. Requires ownership or the ADMIN role.",
		Args:  cobra.ExactArgs(1),
		RunE:  runDelete,
	}

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

	projectID, err := cli.ParseIDArg(args, "project")
	if err != nil {
		formatter.Error("INVALID_PROJECT_ID", err.Error())
		os.Exit(cli.ExitUsage)
	}

	cliInstance, err := cli.GetCLIFromContext(ctx)
	if err != nil {
		formatter.Error("INITIALIZATION_ERROR", err.Error())
		return err
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

	if err := ctrl.DeleteProject(ctx); err != nil {
		switch {
		case errors.Is(err, board.ErrDeclined):
			return formatter.Message("Aborted")
		case errors.Is(err, board.ErrPermissionDenied):
			formatter.Error("PERMISSION_DENIED", "only the owner or an admin can delete this project")
			os.Exit(cli.ExitAuth)
		default:
			formatter.Error("PROJECT_DELETE_ERROR", err.Error())
			os.Exit(cli.ExitCodeFor(err))
		}
	}

	return formatter.Message("Deleted project #%d", projectID)
}
