package auth

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/tracklite/tracklite/internal/cli"
	"github.com/tracklite/tracklite/internal/cli/styles"
)

// RegisterCmd returns the auth register subcommand
func RegisterCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account",
		Long:  "Register a new account and log in as it.",
		RunE:  runRegister,
	}

	cmd.Flags().String("name", "", "Display name (required)")
	cmd.Flags().String("email", "", "Account email (required)")
	cmd.Flags().String("password", "", "Account password (required)")
	cmd.Flags().Bool("json", false, "Output in JSON format")
	cmd.Flags().Bool("quiet", false, "Minimal output")
	cmd.MarkFlagRequired("name")
	cmd.MarkFlagRequired("email")
	cmd.MarkFlagRequired("password")

	return cmd
}

func runRegister(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	jsonOutput, _ := cmd.Flags().GetBool("json")
	quietMode, _ := cmd.Flags().GetBool("quiet")
	formatter := &cli.OutputFormatter{JSON: jsonOutput, Quiet: quietMode}

	name, _ := cmd.Flags().GetString("name")
	email, _ := cmd.Flags().GetString("email")
	password, _ := cmd.Flags().GetString("password")

	cliInstance, err := cli.GetCLIFromContext(ctx)
	if err != nil {
		formatter.Error("INITIALIZATION_ERROR", err.Error())
		return err
	}

	user, err := cliInstance.Auth.Register(ctx, name, email, password)
	if err != nil {
		formatter.Error("REGISTRATION_FAILED", err.Error())
		os.Exit(cli.ExitCodeFor(err))
	}

	if err := cli.SaveToken(cliInstance.Auth.Token()); err != nil {
		slog.Error("could not persist session token", "error", err)
	}

	if jsonOutput {
		return formatter.Success(user)
	}
	if !quietMode {
		fmt.Printf("%s %s <%s>\n", styles.SuccessStyle.Render("Registered as"), user.Name, user.Email)
	}
	return nil
}
