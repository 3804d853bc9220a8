package project

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tracklite/tracklite/internal/board"
	"github.com/tracklite/tracklite/internal/cli"
	"github.com/tracklite/tracklite/internal/cli/styles"
)

// ShowCmd returns the project show subcommand
func ShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show [id]",
		Short: "Show project details",
		Long:  "Display a project's members, labels, and task summary.",
		Args:  cobra.ExactArgs(1),
		RunE:  runShow,
	}

	cmd.Flags().Bool("json", false, "Output in JSON format")
	cmd.Flags().Bool("quiet", false, "Minimal output (ID only)")

	return cmd
}

func runShow(cmd *cobra.Command, args []string) error {
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

	ctrl := board.NewController(cliInstance.Client, user, nil, nil)
	if err := ctrl.Load(ctx, projectID); err != nil {
		formatter.Error("PROJECT_FETCH_ERROR", err.Error())
		os.Exit(cli.ExitCodeFor(err))
	}

	project := ctrl.Project()
	summary := ctrl.Summary()

	if quietMode {
		fmt.Printf("%d\n", project.ID)
		return nil
	}
	if jsonOutput {
		return json.NewEncoder(os.Stdout).Encode(map[string]any{
			"success": true,
			"project": project,
			"labels":  ctrl.Labels(),
			"summary": summary,
			"role":    ctrl.DisplayRole(),
		})
	}

	var b strings.Builder
	b.WriteString(styles.TitleStyle.Render(project.Name))
	b.WriteString("  " + styles.SubtitleStyle.Render(fmt.Sprintf("#%d · %s", project.ID, ctrl.DisplayRole())))
	if project.Description != "" {
		b.WriteString("\n" + project.Description)
	}

	b.WriteString("\n\n" + styles.LabelStyle.Render("Tasks: "))
	b.WriteString(fmt.Sprintf("%d TODO · %d IN_PROGRESS · %d DONE · %d total",
		summary.Todo, summary.InProgress, summary.Done, summary.Total))

	b.WriteString("\n" + styles.LabelStyle.Render("Members: "))
	names := make([]string, 0, len(project.Members))
	for _, m := range project.Members {
		name := m.Name
		if m.ID == project.OwnerID {
			name += " (owner)"
		}
		names = append(names, name)
	}
	b.WriteString(strings.Join(names, ", "))

	if labels := ctrl.Labels(); len(labels) > 0 {
		b.WriteString("\n" + styles.LabelStyle.Render("Labels: "))
		chips := make([]string, 0, len(labels))
		for _, l := range labels {
			chips = append(chips, styles.LabelChip(l.Name, l.Color))
		}
		b.WriteString(strings.Join(chips, " "))
	}

	fmt.Println(styles.CardStyle.Render(b.String()))
	return nil
}
