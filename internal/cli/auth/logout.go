package auth

import (
	"github.com/spf13/cobra"

	"github.com/tracklite/tracklite/internal/cli"
)

// LogoutCmd returns the auth logout subcommand
func LogoutCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "logout",
		Short: "Discard the session",
		RunE:  runLogout,
	}

	cmd.Flags().Bool("json", false, "Output in JSON format")
	cmd.Flags().Bool("quiet", false, "Minimal output")

	return cmd
}

func runLogout(cmd *cobra.Command, args []string) error {
	jsonOutput, _ := cmd.Flags().GetBool("json")
	quietMode, _ := cmd.Flags().GetBool("quiet")
	formatter := &cli.OutputFormatter{JSON: jsonOutput, Quiet: quietMode}

	cliInstance, err := cli.GetCLIFromContext(cmd.Context())
	if err != nil {
		formatter.Error("INITIALIZATION_ERROR", err.Error())
		return err
	}

	cliInstance.Auth.Logout()
	if err := cli.ClearToken(); err != nil {
		formatter.Error("TOKEN_CLEAR_FAILED", err.Error())
		return err
	}

	return formatter.Message("Logged out")
}
