// Package initcmd implements the `task-cli init` command.
package initcmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/go-ports/task-tracker/cmd/task-cli/shared"
	"github.com/go-ports/task-tracker/internal/config"
	"github.com/go-ports/task-tracker/internal/store"
)

// Command implements `task-cli init`.
type Command struct {
	ctx *shared.Context
	cmd *cobra.Command
}

// New creates the init command.
func New(ctx *shared.Context) *Command {
	c := &Command{ctx: ctx}
	c.cmd = &cobra.Command{
		Use:   "init",
		Short: "Create an empty task file if none exists",
		Args:  cobra.NoArgs,
		RunE:  c.run,
	}
	return c
}

// Cmd returns the cobra command.
func (c *Command) Cmd() *cobra.Command { return c.cmd }

func (c *Command) run(cmd *cobra.Command, _ []string) error {
	path, _ := config.ResolveTasksFile(c.ctx.TasksFile)
	created, err := store.New(path).EnsureExists()
	if err != nil {
		return fmt.Errorf("init: %w", err)
	}
	if created {
		fmt.Fprintf(cmd.OutOrStdout(), "Task file initialized at %s\n", path)
	} else {
		fmt.Fprintf(cmd.OutOrStdout(), "Task file already exists at %s\n", path)
	}
	return nil
}
