package label

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tracklite/tracklite/internal/board"
	"github.com/tracklite/tracklite/internal/cli"
	"github.com/tracklite/tracklite/internal/cli/styles"
)

// CreateCmd returns the label create subcommand
func CreateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create [name]",
		Short: "Create a label",
		Long:  "Create a label in a project. Requires ownership or the ADMIN role.",
		Args:  cobra.ExactArgs(1),
		RunE:  runCreate,
	}

	cmd.Flags().Int("project", 0, "Project ID (uses TRACKLITE_PROJECT env var if not specified)")
	cmd.Flags().String("color", "#6b7280", "Label color as #RRGGBB")
	cmd.Flags().Bool("json", false, "Output in JSON format")
	cmd.Flags().Bool("quiet", false, "Minimal output")

	return cmd
}

func runCreate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	jsonOutput, _ := cmd.Flags().GetBool("json")
	quietMode, _ := cmd.Flags().GetBool("quiet")
	formatter := &cli.OutputFormatter{JSON: jsonOutput, Quiet: quietMode}

	name := args[0]
	color, _ := cmd.Flags().GetString("color")
	if err := cli.ValidateColorHex(color); err != nil {
		formatter.Error("INVALID_COLOR", err.Error())
		os.Exit(cli.ExitValidation)
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

	if err := ctrl.CreateLabel(ctx, name, color); err != nil {
		switch {
		case errors.Is(err, board.ErrEmptyLabelName):
			formatter.Error("INVALID_NAME", "label name cannot be empty")
			os.Exit(cli.ExitValidation)
		case errors.Is(err, board.ErrPermissionDenied):
			formatter.Error("PERMISSION_DENIED", "only the owner or an admin can create labels")
			os.Exit(cli.ExitAuth)
		default:
			formatter.Error("LABEL_CREATE_ERROR", err.Error())
			os.Exit(cli.ExitCodeFor(err))
		}
	}

	if quietMode || jsonOutput {
		return formatter.Message("Created label %s", name)
	}
	fmt.Printf("%s %s\n", styles.SuccessStyle.Render("Created label"), styles.LabelChip(name, color))
	return nil
}
