// Package searchcmd implements the `task-cli search` command.
package searchcmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/go-ports/task-tracker/cmd/task-cli/shared"
	"github.com/go-ports/task-tracker/internal/models"
	"github.com/go-ports/task-tracker/internal/service"
)

// Command implements `task-cli search`.
type Command struct {
	ctx *shared.Context
	cmd *cobra.Command

	limit  int
	status string
}

// New creates the search command.
func New(ctx *shared.Context) *Command {
	c := &Command{ctx: ctx}
	c.cmd = &cobra.Command{
		Use:   "search <query>",
		Short: "Find tasks whose description contains the query",
		Args:  cobra.ExactArgs(1),
		RunE:  c.run,
	}

	f := c.cmd.Flags()
	f.IntVar(&c.limit, "limit", 0, "Maximum number of results (default from config)")
	f.StringVar(&c.status, "status", "", "Only match tasks with this status")
	_ = c.cmd.RegisterFlagCompletionFunc("status", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return []string{string(models.StatusTodo), string(models.StatusInProgress), string(models.StatusDone)}, cobra.ShellCompDirectiveNoFileComp
	})

	return c
}

// Cmd returns the cobra command.
func (c *Command) Cmd() *cobra.Command { return c.cmd }

func (c *Command) run(cmd *cobra.Command, args []string) error {
	var status models.Status
	if c.status != "" {
		s, err := models.ParseStatus(c.status)
		if err != nil {
			return err
		}
		status = s
	}

	svc, err := service.New(c.ctx.TasksFile)
	if err != nil {
		return err
	}

	results, err := svc.Search(args[0], status, c.limit)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(results) == 0 {
		fmt.Fprintln(out, "No results found.")
		return nil
	}
	for i := range results {
		fmt.Fprintln(out, shared.TaskLine(&results[i]))
	}
	return nil
}
