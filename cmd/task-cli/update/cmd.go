// Package updatecmd implements the `task-cli update` command.
package updatecmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/go-ports/task-tracker/cmd/task-cli/shared"
	"github.com/go-ports/task-tracker/internal/service"
)

// Command implements `task-cli update`.
type Command struct {
	ctx *shared.Context
	cmd *cobra.Command
}

// New creates the update command.
func New(ctx *shared.Context) *Command {
	c := &Command{ctx: ctx}
	c.cmd = &cobra.Command{
		Use:   "update <id> <description>",
		Short: "Replace the description of a task",
		Args:  shared.IDArgs(2, shared.MsgUpdateArgsRequired),
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
	_, err = svc.Update(id, args[1])
	switch {
	case errors.Is(err, service.ErrNotFound):
		fmt.Fprintln(out, shared.NotFoundLine(id))
	case err != nil:
		return err
	default:
		fmt.Fprintf(out, "Task ID %d updated successfully.\n", id)
	}
	return nil
}
