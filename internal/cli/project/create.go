package project

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tracklite/tracklite/internal/cli"
	"github.com/tracklite/tracklite/internal/cli/styles"
	"github.com/tracklite/tracklite/internal/policy"
	"github.com/tracklite/tracklite/internal/remote"
)

// CreateCmd returns the project create subcommand
func CreateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a project",
		Long:  "Create a new project. Requires the ADMIN role.",
		RunE:  runCreate,
	}

	cmd.Flags().String("name", "", "Project name (required)")
	cmd.Flags().String("description", "", "Project description")
	cmd.Flags().Bool("json", false, "Output in JSON format")
	cmd.Flags().Bool("quiet", false, "Minimal output (ID only)")
	cmd.MarkFlagRequired("name")

	return cmd
}

func runCreate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	jsonOutput, _ := cmd.Flags().GetBool("json")
	quietMode, _ := cmd.Flags().GetBool("quiet")
	formatter := &cli.OutputFormatter{JSON: jsonOutput, Quiet: quietMode}

	name, _ := cmd.Flags().GetString("name")
	description, _ := cmd.Flags().GetString("description")

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

	if !policy.Effective(user, nil).CanCreateProject {
		formatter.Error("PERMISSION_DENIED", "only admins can create projects")
		os.Exit(cli.ExitAuth)
	}

	project, err := cliInstance.Client.CreateProject(ctx, remote.CreateProjectRequest{
		Name:        name,
		Description: description,
	})
	if err != nil {
		formatter.Error("PROJECT_CREATE_ERROR", err.Error())
		os.Exit(cli.ExitCodeFor(err))
	}

	if quietMode {
		fmt.Printf("%d\n", project.ID)
		return nil
	}
	if jsonOutput {
		return formatter.Success(project)
	}
	fmt.Printf("%s #%d %s\n", styles.SuccessStyle.Render("Created project"), project.ID, project.Name)
	return nil
}
