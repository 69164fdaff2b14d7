// Package addcmd implements the `task-cli add` command.
package addcmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/go-ports/task-tracker/cmd/task-cli/shared"
	"github.com/go-ports/task-tracker/internal/service"
)

// Command implements `task-cli add`.
type Command struct {
	ctx *shared.Context
	cmd *cobra.Command
}

// New creates the add command.
func New(ctx *shared.Context) *Command {
	c := &Command{ctx: ctx}
	c.cmd = &cobra.Command{
		Use:   "add <description>",
		Short: "Add a new task",
		Args:  shared.ExactArgs(1, shared.MsgDescriptionRequired),
		RunE:  c.run,
	}
	return c
}

// Cmd returns the cobra command.
func (c *Command) Cmd() *cobra.Command { return c.cmd }

func (c *Command) run(cmd *cobra.Command, args []string) error {
	svc, err := service.New(c.ctx.TasksFile)
	if err != nil {
		return err
	}

	task, err := svc.Add(args[0])
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Task added successfully (ID: %d)\n", task.ID)
	return nil
}
