// Package markcmd implements the `task-cli mark-in-progress` and
// `task-cli mark-done` commands.
package markcmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/go-ports/task-tracker/cmd/task-cli/shared"
	"github.com/go-ports/task-tracker/internal/models"
	"github.com/go-ports/task-tracker/internal/service"
)

// Command implements one status transition.
type Command struct {
	ctx    *shared.Context
	cmd    *cobra.Command
	status models.Status
}

// NewInProgress creates the mark-in-progress command.
func NewInProgress(ctx *shared.Context) *Command {
	return newCommand(ctx, models.StatusInProgress, "Mark a task as in-progress")
}

// NewDone creates the mark-done command.
func NewDone(ctx *shared.Context) *Command {
	return newCommand(ctx, models.StatusDone, "Mark a task as done")
}

func newCommand(ctx *shared.Context, status models.Status, short string) *Command {
	c := &Command{ctx: ctx, status: status}
	c.cmd = &cobra.Command{
		Use:   fmt.Sprintf("mark-%s <id>", status),
		Short: short,
		Args:  shared.IDArgs(1, shared.MsgMarkIDRequired),
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
	_, err = svc.Mark(id, c.status)
	switch {
	case errors.Is(err, service.ErrAlreadyInStatus):
		fmt.Fprintf(out, "Task ID %d is already %s.\n", id, c.status)
	case errors.Is(err, service.ErrNotFound):
		fmt.Fprintln(out, shared.NotFoundLine(id))
	case err != nil:
		return err
	default:
		fmt.Fprintf(out, "Task ID %d marked as %s.\n", id, c.status)
	}
	return nil
}
