// Package listcmd implements the `task-cli list` command.
package listcmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/go-ports/task-tracker/cmd/task-cli/shared"
	"github.com/go-ports/task-tracker/internal/models"
	"github.com/go-ports/task-tracker/internal/service"
	"github.com/go-ports/task-tracker/internal/store"
)

// Command implements `task-cli list`.
type Command struct {
	ctx *shared.Context
	cmd *cobra.Command

	json bool
}

// New creates the list command.
func New(ctx *shared.Context) *Command {
	c := &Command{ctx: ctx}
	c.cmd = &cobra.Command{
		Use:       "list [todo|in-progress|done]",
		Short:     "List all tasks or the tasks with one status",
		Args:      shared.StatusArgs,
		ValidArgs: []string{string(models.StatusTodo), string(models.StatusInProgress), string(models.StatusDone)},
		RunE:      c.run,
	}
	c.cmd.Flags().BoolVar(&c.json, "json", false, "Print the tasks as a JSON array")
	return c
}

// Cmd returns the cobra command.
func (c *Command) Cmd() *cobra.Command { return c.cmd }

func (c *Command) run(cmd *cobra.Command, args []string) error {
	var status models.Status
	if len(args) == 1 {
		status = models.Status(args[0])
	}

	svc, err := service.New(c.ctx.TasksFile)
	if err != nil {
		return err
	}

	tasks, counts, err := svc.ListWithCounts(status)
	if err != nil {
		return err
	}
	slog.Debug("task summary",
		"todo", counts[models.StatusTodo],
		"in-progress", counts[models.StatusInProgress],
		"done", counts[models.StatusDone],
	)

	out := cmd.OutOrStdout()
	if c.json || svc.Config.List.Format == "json" {
		b, err := store.Encode(tasks)
		if err != nil {
			return err
		}
		_, err = out.Write(b)
		return err
	}

	if len(tasks) == 0 {
		if status != "" {
			fmt.Fprintf(out, "No tasks found with status %s.\n", status)
		} else {
			fmt.Fprintln(out, "No tasks found.")
		}
		return nil
	}
	for i := range tasks {
		fmt.Fprintln(out, shared.TaskLine(&tasks[i]))
	}
	return nil
}
