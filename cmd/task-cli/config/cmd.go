// Package configcmd implements the `task-cli config` command group.
package configcmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/go-ports/task-tracker/cmd/task-cli/shared"
	"github.com/go-ports/task-tracker/internal/config"
)

// Command implements `task-cli config`.
type Command struct {
	ctx *shared.Context
	cmd *cobra.Command
}

// New creates the config command group.
func New(ctx *shared.Context) *Command {
	c := &Command{ctx: ctx}
	c.cmd = &cobra.Command{
		Use:   "config",
		Short: "Show or manage configuration",
		Args:  cobra.NoArgs,
		RunE:  c.runShow,
	}
	c.cmd.AddCommand(
		newSetFile(),
		newClearFile(),
	)
	return c
}

// Cmd returns the cobra command.
func (c *Command) Cmd() *cobra.Command { return c.cmd }

func (c *Command) runShow(cmd *cobra.Command, _ []string) error {
	path, source := config.ResolveTasksFile(c.ctx.TasksFile)
	cfg, err := config.LoadGlobal()
	if err != nil {
		return err
	}
	data := map[string]any{
		"tasks_file":        path,
		"tasks_file_source": source,
		"list": map[string]any{
			"format": cfg.List.Format,
		},
		"search": map[string]any{
			"limit": cfg.Search.Limit,
		},
	}
	b, err := yaml.Marshal(data)
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), string(b))
	return nil
}

// ---------------------------------------------------------------------------
// config set-file
// ---------------------------------------------------------------------------

func newSetFile() *cobra.Command {
	return &cobra.Command{
		Use:   "set-file <path>",
		Short: "Persist the task file location (used when TASK_TRACKER_FILE is unset)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resolved, err := config.SetPersistedTasksFile(args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Persisted task file: %s\n", resolved)
			fmt.Fprintf(out, "Override anytime with %s or --file.\n", config.EnvTasksFile)
			return nil
		},
	}
}

// ---------------------------------------------------------------------------
// config clear-file
// ---------------------------------------------------------------------------

func newClearFile() *cobra.Command {
	return &cobra.Command{
		Use:   "clear-file",
		Short: "Remove the persisted task file location from global config",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			changed, err := config.ClearPersistedTasksFile()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if changed {
				fmt.Fprintln(out, "Cleared persisted task file setting.")
			} else {
				fmt.Fprintln(out, "No persisted task file setting was found.")
			}
			return nil
		},
	}
}
