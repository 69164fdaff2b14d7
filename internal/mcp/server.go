// Package mcp provides the stdio MCP server exposing task operations as tools.
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/go-ports/task-tracker/internal/buildinfo"
	"github.com/go-ports/task-tracker/internal/models"
	"github.com/go-ports/task-tracker/internal/service"
)

// markStatuses are the targets accepted by task_mark.
var markStatuses = []string{string(models.StatusInProgress), string(models.StatusDone)}

func statusNames() []string {
	out := make([]string, len(models.ValidStatuses))
	for i, s := range models.ValidStatuses {
		out[i] = string(s)
	}
	return out
}

// NewServer creates and registers all task tools on a new MCP server.
// It is separate from Serve so tests can obtain a configured server without
// the stdio transport.
func NewServer(svc *service.Service) *mcpserver.MCPServer {
	s := mcpserver.NewMCPServer("task-tracker", buildinfo.Version)
	registerTools(s, svc)
	return s
}

// Serve starts the stdio MCP server for tasksFile, blocking until stdin closes.
func Serve(_ context.Context, tasksFile string) error {
	svc, err := service.New(tasksFile)
	if err != nil {
		return fmt.Errorf("mcp: init service: %w", err)
	}
	return mcpserver.ServeStdio(NewServer(svc))
}

// registerTools wires every task tool into the server.
func registerTools(s *mcpserver.MCPServer, svc *service.Service) {
	s.AddTool(mcp.NewTool("task_add",
		mcp.WithDescription("Add a new task with status todo. Returns the created task."),
		mcp.WithString("description",
			mcp.Description("Short description of the work."),
			mcp.Required(),
		),
	), func(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleAdd(svc, req)
	})

	s.AddTool(mcp.NewTool("task_update",
		mcp.WithDescription("Replace the description of an existing task."),
		mcp.WithNumber("id", mcp.Description("Task ID."), mcp.Required()),
		mcp.WithString("description", mcp.Description("New description."), mcp.Required()),
	), func(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleUpdate(svc, req)
	})

	s.AddTool(mcp.NewTool("task_delete",
		mcp.WithDescription("Delete a task by ID."),
		mcp.WithNumber("id", mcp.Description("Task ID."), mcp.Required()),
	), func(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleDelete(svc, req)
	})

	s.AddTool(mcp.NewTool("task_mark",
		mcp.WithDescription("Move a task to in-progress or done. Marking a task with its current status changes nothing."),
		mcp.WithNumber("id", mcp.Description("Task ID."), mcp.Required()),
		mcp.WithString("status",
			mcp.Description("Target status."),
			mcp.Required(),
			mcp.Enum(markStatuses...),
		),
	), func(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleMark(svc, req)
	})

	s.AddTool(mcp.NewTool("task_list",
		mcp.WithDescription("List tasks in insertion order, optionally filtered by status."),
		mcp.WithString("status",
			mcp.Description("Only return tasks with this status."),
			mcp.Enum(statusNames()...),
		),
	), func(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleList(svc, req)
	})

	s.AddTool(mcp.NewTool("task_search",
		mcp.WithDescription("Find tasks whose description contains the query (case-insensitive)."),
		mcp.WithString("query", mcp.Description("Text to look for."), mcp.Required()),
		mcp.WithString("status",
			mcp.Description("Only return tasks with this status."),
			mcp.Enum(statusNames()...),
		),
		mcp.WithNumber("limit", mcp.Description("Max results (default from config)")),
	), func(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleSearch(svc, req)
	})
}

// ---------------------------------------------------------------------------
// Tool handlers
// ---------------------------------------------------------------------------

func handleAdd(svc *service.Service, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	task, err := svc.Add(req.GetString("description", ""))
	if err != nil {
		return outcomeError(err, 0), nil
	}
	return jsonResult(map[string]any{"action": "created", "task": task})
}

func handleUpdate(svc *service.Service, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := requireID(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	task, err := svc.Update(id, req.GetString("description", ""))
	if err != nil {
		return outcomeError(err, id), nil
	}
	return jsonResult(map[string]any{"action": "updated", "task": task})
}

func handleDelete(svc *service.Service, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := requireID(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	task, err := svc.Delete(id)
	if err != nil {
		return outcomeError(err, id), nil
	}
	return jsonResult(map[string]any{"action": "deleted", "task": task})
}

func handleMark(svc *service.Service, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := requireID(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	status := models.Status(req.GetString("status", ""))
	if !isMarkStatus(status) {
		return mcp.NewToolResultError(fmt.Sprintf("status must be one of %v", markStatuses)), nil
	}

	task, err := svc.Mark(id, status)
	if errors.Is(err, service.ErrAlreadyInStatus) {
		return jsonResult(map[string]any{
			"action":  "unchanged",
			"task":    task,
			"message": fmt.Sprintf("Task ID %d is already %s.", id, status),
		})
	}
	if err != nil {
		return outcomeError(err, id), nil
	}
	return jsonResult(map[string]any{"action": "marked", "task": task})
}

func handleList(svc *service.Service, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	status := models.Status(req.GetString("status", ""))
	tasks, counts, err := svc.ListWithCounts(status)
	if err != nil {
		return outcomeError(err, 0), nil
	}
	return jsonResult(map[string]any{
		"total":  len(tasks),
		"counts": counts,
		"tasks":  tasks,
	})
}

func handleSearch(svc *service.Service, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query := req.GetString("query", "")
	status := models.Status(req.GetString("status", ""))
	limit := req.GetInt("limit", 0)

	tasks, err := svc.Search(query, status, limit)
	if err != nil {
		return outcomeError(err, 0), nil
	}
	return jsonResult(map[string]any{
		"total": len(tasks),
		"tasks": tasks,
	})
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

// requireID reads the id argument. Numbers with a fractional part or outside
// the 32-bit range are rejected rather than truncated.
func requireID(req mcp.CallToolRequest) (int, error) {
	v, err := req.RequireFloat("id")
	if err != nil {
		return 0, err
	}
	if v != math.Trunc(v) || v < math.MinInt32 || v > math.MaxInt32 {
		return 0, fmt.Errorf("invalid task ID %v: must be an integer", v)
	}
	return int(v), nil
}

func isMarkStatus(s models.Status) bool {
	for _, v := range markStatuses {
		if v == string(s) {
			return true
		}
	}
	return false
}

// outcomeError renders a service error as a tool error with the same wording
// the CLI prints.
func outcomeError(err error, id int) *mcp.CallToolResult {
	if errors.Is(err, service.ErrNotFound) {
		return mcp.NewToolResultError(fmt.Sprintf("Task with ID %d not found.", id))
	}
	return mcp.NewToolResultError(err.Error())
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(b)), nil
}
