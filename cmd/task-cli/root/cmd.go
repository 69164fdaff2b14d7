// Package rootcmd wires the root cobra.Command for the task-cli binary.
package rootcmd

import (
	"github.com/spf13/cobra"

	addcmd "github.com/go-ports/task-tracker/cmd/task-cli/add"
	configcmd "github.com/go-ports/task-tracker/cmd/task-cli/config"
	deletecmd "github.com/go-ports/task-tracker/cmd/task-cli/delete"
	exportcmd "github.com/go-ports/task-tracker/cmd/task-cli/export"
	initcmd "github.com/go-ports/task-tracker/cmd/task-cli/init"
	listcmd "github.com/go-ports/task-tracker/cmd/task-cli/list"
	markcmd "github.com/go-ports/task-tracker/cmd/task-cli/mark"
	mcpcmd "github.com/go-ports/task-tracker/cmd/task-cli/mcp"
	searchcmd "github.com/go-ports/task-tracker/cmd/task-cli/search"
	"github.com/go-ports/task-tracker/cmd/task-cli/shared"
	updatecmd "github.com/go-ports/task-tracker/cmd/task-cli/update"
	"github.com/go-ports/task-tracker/internal/buildinfo"
	"github.com/go-ports/task-tracker/internal/logging"
)

// New creates and returns the root cobra.Command for the task CLI.
func New() *cobra.Command {
	ctx := &shared.Context{}

	root := &cobra.Command{
		Use:           "task-cli",
		Short:         "Track todo, in-progress and done tasks in a local JSON file",
		Version:       buildinfo.String(),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			logging.Install(cmd.ErrOrStderr(), ctx.Verbose)
		},
		RunE: func(cmd *cobra.Command, _ []string) error { return cmd.Help() },
	}

	root.PersistentFlags().StringVar(
		&ctx.TasksFile, "file", "",
		"Override the task file (default: $TASK_TRACKER_FILE env → persisted config → ./tasks.json)",
	)
	root.PersistentFlags().BoolVarP(&ctx.Verbose, "verbose", "v", false, "Enable debug logging on stderr")

	root.AddCommand(
		addcmd.New(ctx).Cmd(),
		updatecmd.New(ctx).Cmd(),
		deletecmd.New(ctx).Cmd(),
		markcmd.NewInProgress(ctx).Cmd(),
		markcmd.NewDone(ctx).Cmd(),
		listcmd.New(ctx).Cmd(),
		searchcmd.New(ctx).Cmd(),
		exportcmd.New(ctx).Cmd(),
		initcmd.New(ctx).Cmd(),
		configcmd.New(ctx).Cmd(),
		mcpcmd.New(ctx).Cmd(),
	)

	return root
}
