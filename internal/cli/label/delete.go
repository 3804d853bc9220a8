package label

import (
	"errors"
	"os"

	"github.com/spf13/cobra"

	"github.com/tracklite/tracklite/internal/board"
	"github.com/tracklite/tracklite/internal/cli"
)

// DeleteCmd returns the label delete subcommand
func DeleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete [id]",
		Short: "Delete a label",
		Long:  "Delete a label from its project and detach it from every task. Requires ownership or the ADMIN role.",
		Args:  cobra.ExactArgs(1),
		RunE:  runDelete,
	}

	cmd.Flags().Int("project", 0, "Project ID (uses TRACKLITE_PROJECT env var if not specified)")
	cmd.Flags().Bool("json", false, "Output in JSON format")
	cmd.Flags().Bool("quiet", false, "Minimal output")

	return cmd
}

func runDelete(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	jsonOutput, _ := cmd.Flags().GetBool("json")
	quietMode, _ := cmd.Flags().GetBool("quiet")
	formatter := &cli.OutputFormatter{JSON: jsonOutput, Quiet: quietMode}

	labelID, err := cli.ParseIDArg(args, "label")
	if err != nil {
		formatter.Error("INVALID_LABEL_ID", err.Error())
		os.Exit(cli.ExitUsage)
	}
	projectID, err := cli.GetProjectID(cmd)
	if err != nil {
		formatter.ErrorWithSuggestion("NO_PROJECT", err.Error(),
			"Pass --project <id> or set TRACKLITE_PROJECT")
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

	ctrl := board.NewController(cliInstance.Client, user, nil, nil)
	if err := ctrl.Load(ctx, projectID); err != nil {
		formatter.Error("PROJECT_FETCH_ERROR", err.Error())
		os.Exit(cli.ExitCodeFor(err))
	}

	if err := ctrl.DeleteLabel(ctx, labelID); err != nil {
		if errors.Is(err, board.ErrPermissionDenied) {
			formatter.Error("PERMISSION_DENIED", "only the owner or an admin can delete labels")
			os.Exit(cli.ExitAuth)
		}
		formatter.Error("LABEL_DELETE_ERROR", err.Error())
		os.Exit(cli.ExitCodeFor(err))
	}

	return formatter.Message("Deleted label #%d", labelID)
}
