// Package exportcmd implements the `task-cli export` command.
package exportcmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/go-ports/task-tracker/cmd/task-cli/shared"
	"github.com/go-ports/task-tracker/internal/markdown"
	"github.com/go-ports/task-tracker/internal/service"
)

// Command implements `task-cli export`.
type Command struct {
	ctx *shared.Context
	cmd *cobra.Command

	output string
}

// New creates the export command.
func New(ctx *shared.Context) *Command {
	c := &Command{ctx: ctx}
	c.cmd = &cobra.Command{
		Use:   "export",
		Short: "Export the task list as a Markdown checklist",
		Args:  cobra.NoArgs,
		RunE:  c.run,
	}
	c.cmd.Flags().StringVarP(&c.output, "output", "o", "", "Write to this file instead of stdout")
	return c
}

// Cmd returns the cobra command.
func (c *Command) Cmd() *cobra.Command { return c.cmd }

func (c *Command) run(cmd *cobra.Command, _ []string) error {
	svc, err := service.New(c.ctx.TasksFile)
	if err != nil {
		return err
	}

	tasks, err := svc.List("")
	if err != nil {
		return err
	}

	now := time.Now()
	out := cmd.OutOrStdout()
	if c.output != "" {
		if err := markdown.WriteFile(c.output, tasks, svc.TasksFile, now); err != nil {
			return err
		}
		fmt.Fprintf(out, "Exported %d tasks to %s\n", len(tasks), c.output)
		return nil
	}

	doc, err := markdown.Render(tasks, svc.TasksFile, now)
	if err != nil {
		return err
	}
	fmt.Fprint(out, doc)
	return nil
}
