package label

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tracklite/tracklite/internal/cli"
	"github.com/tracklite/tracklite/internal/cli/styles"
)

// ListCmd returns the label list subcommand
func ListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List labels",
		RunE:  runList,
	}

	cmd.Flags().Int("project", 0, "Project ID (uses TRACKLITE_PROJECT env var if not specified)")
	cmd.Flags().Bool("json", false, "Output in JSON format")
	cmd.Flags().Bool("quiet", false, "Minimal output (IDs only)")

	return cmd
}

func runList(cmd *cobra.Command, args []string) error {
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
	if _, err := cliInstance.RequireUser(); err != nil {
		formatter.ErrorWithSuggestion("NOT_LOGGED_IN", err.Error(),
			"Log in with: tracklite auth login")
		os.Exit(cli.ExitAuth)
	}

	labels, err := cliInstance.Client.ListLabels(ctx, projectID)
	if err != nil {
		formatter.Error("LABEL_FETCH_ERROR", err.Error())
		os.Exit(cli.ExitCodeFor(err))
	}

	if quietMode {
		for _, l := range labels {
			fmt.Printf("%d\n", l.ID)
		}
		return nil
	}
	if jsonOutput {
		return json.NewEncoder(os.Stdout).Encode(map[string]any{
			"success": true,
			"labels":  labels,
		})
	}
	if len(labels) == 0 {
		fmt.Println("No labels found")
		return nil
	}
	for _, l := range labels {
		fmt.Printf("#%d %s %s\n", l.ID, styles.LabelChip(l.Name, l.Color), l.Color)
	}
	return nil
}
