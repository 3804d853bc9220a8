package project

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tracklite/tracklite/internal/board"
	"github.com/tracklite/tracklite/internal/cli"
)

// MemberCmd returns the project member parent command
func MemberCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "member",
		Short: "Manage project members",
	}

	cmd.AddCommand(memberAddCmd())
	cmd.AddCommand(memberCandidatesCmd())

	return cmd
}

func memberAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add [user-id]",
		Short: "Add a member to a project",
		Long:  "Add a registered user to a project. Requires ownership or the ADMIN role.",
		Args:  cobra.ExactArgs(1),
		RunE:  runMemberAdd,
	}

	cmd.Flags().Int("project", 0, "Project ID (uses TRACKLITE_PROJECT env var if not specified)")
	cmd.Flags().Bool("json", false, "Output in JSON format")
	cmd.Flags().Bool("quiet", false, "Minimal output")

	return cmd
}

func runMemberAdd(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	jsonOutput, _ := cmd.Flags().GetBool("json")
	quietMode, _ := cmd.Flags().GetBool("quiet")
	formatter := &cli.OutputFormatter{JSON: jsonOutput, Quiet: quietMode}

	userID, err := cli.ParseIDArg(args, "user")
	if err != nil {
		formatter.Error("INVALID_USER_ID", err.Error())
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

	if err := ctrl.AddMember(ctx, userID); err != nil {
		switch {
		case errors.Is(err, board.ErrAlreadyMember):
			formatter.Error("ALREADY_MEMBER", "user is already a member of this project")
			os.Exit(cli.ExitValidation)
		case errors.Is(err, board.ErrPermissionDenied):
			formatter.Error("PERMISSION_DENIED", "only the owner or an admin can add members")
			os.Exit(cli.ExitAuth)
		default:
			formatter.Error("MEMBER_ADD_ERROR", err.Error())
			os.Exit(cli.ExitCodeFor(err))
		}
	}

	return formatter.Message("Added user #%d to project #%d", userID, projectID)
}

func memberCandidatesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "candidates",
		Short: "List users who can still be added",
		RunE:  runMemberCandidates,
	}

	cmd.Flags().Int("project", 0, "Project ID (uses TRACKLITE_PROJECT env var if not specified)")
	cmd.Flags().Bool("json", false, "Output in JSON format")
	cmd.Flags().Bool("quiet", false, "Minimal output (IDs only)")

	return cmd
}

func runMemberCandidates(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	jsonOutput, _ := cmd.Flags().GetBool("json")
	quietMode, _ := cmd.Flags().GetBool("quiet")
	formatter := &cli.OutputFormatter{JSON: jsonOutput, Quiet: quietMode}

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

	candidates := ctrl.MemberCandidates()

	if quietMode {
		for _, u := range candidates {
			fmt.Printf("%d\n", u.ID)
		}
		return nil
	}
	if jsonOutput {
		return json.NewEncoder(os.Stdout).Encode(map[string]any{
			"success": true,
			"users":   candidates,
		})
	}
	if len(candidates) == 0 {
		fmt.Println("Everyone is already a member")
		return nil
	}
	for _, u := range candidates {
		fmt.Printf("#%d %s <%s>\n", u.ID, u.Name, u.Email)
	}
	return nil
}
