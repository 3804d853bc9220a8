package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/tracklite/tracklite/internal/cli"
	authcmd "github.com/tracklite/tracklite/internal/cli/auth"
	labelcmd "github.com/tracklite/tracklite/internal/cli/label"
	projectcmd "github.com/tracklite/tracklite/internal/cli/project"
	taskcmd "github.com/tracklite/tracklite/internal/cli/task"
)

var rootCmd = &cobra.Command{
	Use:   "tracklite",
	Short: "Tracklite - a terminal client for the team task tracker",
	Long:  `Tracklite is a terminal client for a shared task tracker: projects, tasks, labels, comments, and members, with the server as the single source of truth.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		cliInstance, err := cli.NewCLI(ctx)
		if err != nil {
			return err
		}
		cmd.SetContext(cli.WithCLI(ctx, cliInstance))
		return nil
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(authcmd.Cmd())
	rootCmd.AddCommand(projectcmd.Cmd())
	rootCmd.AddCommand(taskcmd.Cmd())
	rootCmd.AddCommand(labelcmd.Cmd())
}

func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}
