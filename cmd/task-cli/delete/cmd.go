// Package deletecmd implements the `task-cli delete` command.
package deletecmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/go-ports/task-tracker/cmd/task-cli/shared"
	"github.com/go-ports/task-tracker/internal/service"
)

// Command implements `task-cli delete`.
type Command struct {
	ctx *shared.Context
	cmd *cobra.Command
}

// New creates the delete command.
func New(ctx *shared.Context) *Command {
	c := &Command{ctx: ctx}
	c.cmd = &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a task by ID",
		Args:  shared.IDArgs(1, shared.MsgDeleteIDRequired),
		RunE:  c.run,
	}
	return c
}

// Cmd returns the cobra command.
func (c *Command) Cmd() *cobra.Command { return c.cmd }

func (c *Command) run(cmd *cobra.Command, args []string) error {
	id, err := shared.ParseID(args[0])
	if err != nil {
		return err
	}

	svc, err := service.New(c.ctx.TasksFile)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	_, err = svc.Delete(id)
	if errors.Is(err, service.ErrNotFound) {
		fmt.Fprintln(out, shared.NotFoundLine(id))
		return nil
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Task ID %d deleted successfully.\n", id)
	return nil
}
