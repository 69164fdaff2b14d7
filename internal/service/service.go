// Package service implements the task operations on top of the JSON store.
//
// Every operation loads the whole list, computes the change in memory and
// saves the whole list back only when something changed.
package service

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-ports/task-tracker/internal/config"
	"github.com/go-ports/task-tracker/internal/index"
	"github.com/go-ports/task-tracker/internal/models"
	"github.com/go-ports/task-tracker/internal/store"
)

// Outcome errors. Callers match them with errors.Is.
var (
	// ErrNotFound means no task has the requested id. The list is unchanged.
	ErrNotFound = errors.New("task not found")
	// ErrAlreadyInStatus means the task already holds the target status.
	// Nothing was written.
	ErrAlreadyInStatus = errors.New("task already in status")
	// ErrValidation means the input was rejected before the store was touched.
	ErrValidation = errors.New("invalid input")
)

// Service runs task operations against one backing file.
type Service struct {
	TasksFile string
	Config    *config.Config

	store *store.Store
	now   func() time.Time
}

// Option customises a Service.
type Option func(*Service)

// WithClock replaces time.Now as the source of timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithConfig replaces the global config.
func WithConfig(cfg *config.Config) Option {
	return func(s *Service) { s.Config = cfg }
}

// New initialises a Service for tasksFile, creating the file with an empty
// list when it is absent. If tasksFile is empty it is resolved via
// config.ResolveTasksFile.
func New(tasksFile string, opts ...Option) (*Service, error) {
	if tasksFile == "" {
		tasksFile, _ = config.ResolveTasksFile("")
	}

	s := &Service{
		TasksFile: tasksFile,
		store:     store.New(tasksFile),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.Config == nil {
		cfg, err := config.LoadGlobal()
		if err != nil {
			slog.Warn("failed to load global config, using defaults", "err", err)
			cfg = config.Default()
		}
		s.Config = cfg
	}

	created, err := s.store.EnsureExists()
	if err != nil {
		return nil, fmt.Errorf("service.New: %w", err)
	}
	if created {
		slog.Debug("created task file", "path", tasksFile)
	}
	return s, nil
}

// ---------------------------------------------------------------------------
// Internal helpers
// ---------------------------------------------------------------------------

// mutate loads the list, applies fn and saves the result when fn reports a
// change. Errors from fn abort without writing.
func (s *Service) mutate(fn func(tasks []models.Task) ([]models.Task, bool, error)) error {
	tasks, err := s.store.Load()
	if err != nil {
		return err
	}
	updated, changed, err := fn(tasks)
	if err != nil {
		return err
	}
	if !changed {
		return nil
	}
	return s.store.Save(updated)
}

func findTask(tasks []models.Task, id int) int {
	for i := range tasks {
		if tasks[i].ID == id {
			return i
		}
	}
	return -1
}

func validateDescription(description string) error {
	if strings.TrimSpace(description) == "" {
		return fmt.Errorf("%w: task description is required", ErrValidation)
	}
	return nil
}

func notFound(id int) error {
	return fmt.Errorf("%w: id %d", ErrNotFound, id)
}

// ---------------------------------------------------------------------------
// Mutations
// ---------------------------------------------------------------------------

// Add appends a todo task with the next free id and returns it.
func (s *Service) Add(description string) (*models.Task, error) {
	if err := validateDescription(description); err != nil {
		return nil, err
	}

	var added models.Task
	err := s.mutate(func(tasks []models.Task) ([]models.Task, bool, error) {
		added = models.NewTask(models.NextID(tasks), description, s.now())
		return append(tasks, added), true, nil
	})
	if err != nil {
		return nil, fmt.Errorf("Add: %w", err)
	}

	slog.Debug("task added", "id", added.ID)
	return &added, nil
}

// Update replaces the description of task id and refreshes its updatedAt.
func (s *Service) Update(id int, description string) (*models.Task, error) {
	if err := validateDescription(description); err != nil {
		return nil, err
	}

	var updated models.Task
	err := s.mutate(func(tasks []models.Task) ([]models.Task, bool, error) {
		i := findTask(tasks, id)
		if i < 0 {
			return nil, false, notFound(id)
		}
		tasks[i].Description = description
		tasks[i].UpdatedAt = models.NewTimestamp(s.now())
		updated = tasks[i]
		return tasks, true, nil
	})
	if err != nil {
		return nil, fmt.Errorf("Update: %w", err)
	}

	slog.Debug("task updated", "id", id)
	return &updated, nil
}

// Delete removes task id and returns the removed record.
func (s *Service) Delete(id int) (*models.Task, error) {
	var deleted models.Task
	err := s.mutate(func(tasks []models.Task) ([]models.Task, bool, error) {
		i := findTask(tasks, id)
		if i < 0 {
			return nil, false, notFound(id)
		}
		deleted = tasks[i]
		return append(tasks[:i], tasks[i+1:]...), true, nil
	})
	if err != nil {
		return nil, fmt.Errorf("Delete: %w", err)
	}

	slog.Debug("task deleted", "id", id)
	return &deleted, nil
}

// MarkInProgress sets task id to in-progress.
func (s *Service) MarkInProgress(id int) (*models.Task, error) {
	return s.Mark(id, models.StatusInProgress)
}

// MarkDone sets task id to done.
func (s *Service) MarkDone(id int) (*models.Task, error) {
	return s.Mark(id, models.StatusDone)
}

// Mark sets task id to status and refreshes updatedAt. When the task already
// holds status it returns the unchanged task together with ErrAlreadyInStatus
// and does not write the file.
func (s *Service) Mark(id int, status models.Status) (*models.Task, error) {
	if _, err := models.ParseStatus(string(status)); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	var task models.Task
	err := s.mutate(func(tasks []models.Task) ([]models.Task, bool, error) {
		i := findTask(tasks, id)
		if i < 0 {
			return nil, false, notFound(id)
		}
		if tasks[i].Status == status {
			task = tasks[i]
			return nil, false, fmt.Errorf("%w: id %d is already %s", ErrAlreadyInStatus, id, status)
		}
		tasks[i].Status = status
		tasks[i].UpdatedAt = models.NewTimestamp(s.now())
		task = tasks[i]
		return tasks, true, nil
	})
	if errors.Is(err, ErrAlreadyInStatus) {
		return &task, err
	}
	if err != nil {
		return nil, fmt.Errorf("Mark: %w", err)
	}

	slog.Debug("task status changed", "id", id, "status", status)
	return &task, nil
}

// ---------------------------------------------------------------------------
// Queries
// ---------------------------------------------------------------------------

// List returns the tasks holding status, or every task when status is empty,
// in store order.
func (s *Service) List(status models.Status) ([]models.Task, error) {
	tasks, _, err := s.ListWithCounts(status)
	return tasks, err
}

// ListWithCounts is List plus the number of tasks per status across the whole
// list. Both come from a single read of the file.
func (s *Service) ListWithCounts(status models.Status) ([]models.Task, map[models.Status]int, error) {
	if status != "" {
		if _, err := models.ParseStatus(string(status)); err != nil {
			return nil, nil, fmt.Errorf("%w: %v", ErrValidation, err)
		}
	}

	tasks, err := s.store.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("List: %w", err)
	}
	return models.FilterByStatus(tasks, status), models.CountByStatus(tasks), nil
}

// Search returns tasks whose description contains query, optionally limited to
// status. limit <= 0 falls back to the configured search limit.
func (s *Service) Search(query string, status models.Status, limit int) ([]models.Task, error) {
	if status != "" {
		if _, err := models.ParseStatus(string(status)); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrValidation, err)
		}
	}
	if limit <= 0 {
		limit = s.Config.Search.Limit
	}

	var results []models.Task
	err := s.withIndex(func(x *index.Index) error {
		var err error
		results, err = x.Search(query, status, limit)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("Search: %w", err)
	}
	return results, nil
}

// withIndex loads the list into a fresh in-memory index and runs fn on it.
func (s *Service) withIndex(fn func(x *index.Index) error) error {
	tasks, err := s.store.Load()
	if err != nil {
		return err
	}
	x, err := index.Open(index.MemoryPath)
	if err != nil {
		return err
	}
	defer x.Close()

	if err := x.Sync(tasks); err != nil {
		return err
	}
	return fn(x)
}
