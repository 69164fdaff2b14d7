package shared

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/go-ports/task-tracker/internal/models"
)

// Usage messages for missing positional arguments.
const (
	MsgDescriptionRequired = "Task description is required."
	MsgUpdateArgsRequired  = "Task ID and description are required for updating a task."
	MsgDeleteIDRequired    = "Task ID is required for deleting a task."
	MsgMarkIDRequired      = "Task ID is required for marking a task."
)

// ExactArgs requires n positional arguments. Missing or blank arguments are
// reported with msg instead of cobra's generic wording.
func ExactArgs(n int, msg string) cobra.PositionalArgs {
	return func(_ *cobra.Command, args []string) error {
		if len(args) > n {
			return fmt.Errorf("accepts %d arg(s), received %d", n, len(args))
		}
		if len(args) < n {
			return errors.New(msg)
		}
		for _, a := range args {
			if strings.TrimSpace(a) == "" {
				return errors.New(msg)
			}
		}
		return nil
	}
}

// IDArgs is ExactArgs whose first argument must also be a task id.
func IDArgs(n int, msg string) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := ExactArgs(n, msg)(cmd, args); err != nil {
			return err
		}
		_, err := ParseID(args[0])
		return err
	}
}

// ParseID converts a CLI argument into a task id. Any integer is accepted;
// ids that match no task are reported by the operation itself.
func ParseID(arg string) (int, error) {
	id, err := strconv.Atoi(arg)
	if err != nil {
		return 0, fmt.Errorf("invalid task ID %q", arg)
	}
	return id, nil
}

// NotFoundLine is printed when an operation references an absent id.
func NotFoundLine(id int) string {
	return fmt.Sprintf("Error: Task with ID %d not found.", id)
}

// StatusArgs accepts at most one positional argument, which must be a status.
func StatusArgs(_ *cobra.Command, args []string) error {
	if len(args) > 1 {
		return fmt.Errorf("accepts at most 1 status, received %d", len(args))
	}
	if len(args) == 1 {
		if _, err := models.ParseStatus(args[0]); err != nil {
			return err
		}
	}
	return nil
}

// TaskLine formats one task the way list and search print it.
func TaskLine(t *models.Task) string {
	return fmt.Sprintf("ID: %d, Description: %s, Status: %s, Created At: %s, Updated At: %s",
		t.ID, t.Description, t.Status, t.CreatedAt, t.UpdatedAt)
}
