package auth

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/tracklite/tracklite/internal/cli"
	"github.com/tracklite/tracklite/internal/cli/styles"
)

// LoginCmd returns the auth login subcommand
func LoginCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in to the tracker",
		Long:  "Authenticate with email and password and store the session token.",
		RunE:  runLogin,
	}

	cmd.Flags().String("email", "", "Account email (required)")
	cmd.Flags().String("password", "", "Account password (required)")
	cmd.Flags().Bool("json", false, "Output in JSON format")
	cmd.Flags().Bool("quiet", false, "Minimal output")
	cmd.MarkFlagRequired("email")
	cmd.MarkFlagRequired("password")

	return cmd
}

func runLogin(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	jsonOutput, _ := cmd.Flags().GetBool("json")
	quietMode, _ := cmd.Flags().GetBool("quiet")
	formatter := &cli.OutputFormatter{JSON: jsonOutput, Quiet: quietMode}

	email, _ := cmd.Flags().GetString("email")
	password, _ := cmd.Flags().GetString("password")

	cliInstance, err := cli.GetCLIFromContext(ctx)
	if err != nil {
		formatter.Error("INITIALIZATION_ERROR", err.Error())
		return err
	}

	user, err := cliInstance.Auth.Login(ctx, email, password)
	if err != nil {
		formatter.Error("LOGIN_FAILED", err.Error())
		os.Exit(cli.ExitCodeFor(err))
	}

	if err := cli.SaveToken(cliInstance.Auth.Token()); err != nil {
		slog.Error("could not persist session token", "error", err)
		formatter.ErrorWithSuggestion("TOKEN_SAVE_FAILED", err.Error(),
			"The session works for this invocation only")
	}

	if jsonOutput {
		return formatter.Success(user)
	}
	if !quietMode {
		fmt.Printf("%s %s <%s>\n", styles.SuccessStyle.Render("Logged in as"), user.Name, user.Email)
	}
	return nil
}
