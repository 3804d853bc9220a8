package auth

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tracklite/tracklite/internal/cli"
)

// WhoamiCmd returns the auth whoami subcommand
func WhoamiCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		RunE:  runWhoami,
	}

	cmd.Flags().Bool("json", false, "Output in JSON format")
	cmd.Flags().Bool("quiet", false, "Minimal output (ID only)")

	return cmd
}

func runWhoami(cmd *cobra.Command, args []string) error {
	jsonOutput, _ := cmd.Flags().GetBool("json")
	quietMode, _ := cmd.Flags().GetBool("quiet")
	formatter := &cli.OutputFormatter{JSON: jsonOutput, Quiet: quietMode}

	cliInstance, err := cli.GetCLIFromContext(cmd.Context())
	if err != nil {
		formatter.Error("INITIALIZATION_ERROR", err.Error())
		return err
	}

	user, err := cliInstance.RequireUser()
	if err != nil {
		formatter.ErrorWithSuggestion("NOT_LOGGED_IN", err.Error(),
			"Log in with: tracklite auth login --email <email> --password <password>")
		os.Exit(cli.ExitAuth)
	}

	if quietMode {
		fmt.Printf("%d\n", user.ID)
		return nil
	}
	if jsonOutput {
		return formatter.Success(user)
	}
	fmt.Printf("%s <%s> (%s)\n", user.Name, user.Email, user.Role)
	return nil
}
