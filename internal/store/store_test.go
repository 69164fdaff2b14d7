package store_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	qt "github.com/frankban/quicktest"

	"github.com/go-ports/task-tracker/internal/checkers"
	"github.com/go-ports/task-tracker/internal/models"
	"github.com/go-ports/task-tracker/internal/store"
)

// newTestStore returns a Store rooted in a fresh temp directory. The backing
// file does not exist yet.
func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	return store.New(filepath.Join(t.TempDir(), store.DefaultFileName))
}

func writeFile(c *qt.C, path, content string) {
	c.Helper()
	c.Assert(os.WriteFile(path, []byte(content), 0o600), qt.IsNil)
}

func sampleTasks() []models.Task {
	base := time.Date(2024, 1, 15, 10, 0, 0, 0, time.Local)
	a := models.NewTask(1, "Buy milk", base)
	b := models.NewTask(3, "Write <report> & send", base.Add(time.Minute))
	b.Status = models.StatusDone
	b.UpdatedAt = models.NewTimestamp(base.Add(time.Hour))
	return []models.Task{a, b}
}

// ---------------------------------------------------------------------------
// EnsureExists
// ---------------------------------------------------------------------------

func TestEnsureExists_HappyPath(t *testing.T) {
	c := qt.New(t)

	c.Run("absent file is created with an empty list", func(c *qt.C) {
		s := newTestStore(t)
		created, err := s.EnsureExists()
		c.Assert(err, qt.IsNil)
		c.Assert(created, qt.IsTrue)

		data, err := os.ReadFile(s.Path())
		c.Assert(err, qt.IsNil)
		c.Assert(string(data), qt.Equals, "[]\n")
	})

	c.Run("existing file is left untouched", func(c *qt.C) {
		s := newTestStore(t)
		c.Assert(s.Save(sampleTasks()), qt.IsNil)
		before, err := os.ReadFile(s.Path())
		c.Assert(err, qt.IsNil)

		created, err := s.EnsureExists()
		c.Assert(err, qt.IsNil)
		c.Assert(created, qt.IsFalse)

		after, err := os.ReadFile(s.Path())
		c.Assert(err, qt.IsNil)
		c.Assert(string(after), qt.Equals, string(before))
	})

	c.Run("missing parent directories are created", func(c *qt.C) {
		s := store.New(filepath.Join(t.TempDir(), "nested", "dir", "tasks.json"))
		created, err := s.EnsureExists()
		c.Assert(err, qt.IsNil)
		c.Assert(created, qt.IsTrue)
	})
}

// ---------------------------------------------------------------------------
// Load
// ---------------------------------------------------------------------------

func TestLoad_HappyPath(t *testing.T) {
	c := qt.New(t)

	c.Run("zero-length file is an empty list", func(c *qt.C) {
		s := newTestStore(t)
		writeFile(c, s.Path(), "")
		tasks, err := s.Load()
		c.Assert(err, qt.IsNil)
		c.Assert(tasks, qt.HasLen, 0)
	})

	c.Run("file written by the legacy tool is readable", func(c *qt.C) {
		s := newTestStore(t)
		writeFile(c, s.Path(), `[
    {
        "id": 1,
        "description": "Buy milk",
        "status": "todo",
        "createdAt": "2024-01-15T10:00:00.123456",
        "updatedAt": "2024-01-15T10:00:00.123456"
    },
    {
        "id": 4,
        "description": "Write report",
        "status": "in-progress",
        "createdAt": "2024-01-15T11:00:00",
        "updatedAt": "2024-01-16T09:30:00.500000"
    }
]`)
		tasks, err := s.Load()
		c.Assert(err, qt.IsNil)
		c.Assert(tasks, qt.HasLen, 2)
		c.Assert(tasks[0].ID, qt.Equals, 1)
		c.Assert(tasks[0].CreatedAt.String(), qt.Equals, "2024-01-15T10:00:00.123456")
		c.Assert(tasks[1].ID, qt.Equals, 4)
		c.Assert(tasks[1].Status, qt.Equals, models.StatusInProgress)
	})
}

func TestLoad_FailurePath(t *testing.T) {
	c := qt.New(t)

	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"invalid json", `[{"id": 1,`, `.*malformed task file.*`},
		{"not a list", `{"id": 1}`, `.*malformed task file.*`},
		{"unknown status", `[{"id":1,"description":"x","status":"doing","createdAt":"2024-01-15T10:00:00","updatedAt":"2024-01-15T10:00:00"}]`, `.*\[0\]\.status.*`},
		{"missing field", `[{"id":1,"description":"x","createdAt":"2024-01-15T10:00:00","updatedAt":"2024-01-15T10:00:00"}]`, `.*\[0\].*status.*`},
		{"non-positive id", `[{"id":0,"description":"x","status":"todo","createdAt":"2024-01-15T10:00:00","updatedAt":"2024-01-15T10:00:00"}]`, `.*\[0\]\.id.*`},
		{"bad timestamp", `[{"id":1,"description":"x","status":"todo","createdAt":"soon","updatedAt":"2024-01-15T10:00:00"}]`, `.*invalid timestamp.*`},
		{"unknown field", `[{"id":1,"description":"x","status":"todo","createdAt":"2024-01-15T10:00:00","updatedAt":"2024-01-15T10:00:00","priority":"high"}]`, `.*\[0\].*priority.*`},
		{"duplicate id", `[{"id":2,"description":"x","status":"todo","createdAt":"2024-01-15T10:00:00","updatedAt":"2024-01-15T10:00:00"},{"id":2,"description":"y","status":"todo","createdAt":"2024-01-15T10:00:00","updatedAt":"2024-01-15T10:00:00"}]`, `.*duplicate id 2.*`},
	}

	for _, tt := range tests {
		c.Run(tt.name, func(c *qt.C) {
			s := newTestStore(t)
			writeFile(c, s.Path(), tt.content)
			_, err := s.Load()
			c.Assert(err, qt.ErrorIs, store.ErrParse)
			c.Assert(err, qt.ErrorMatches, tt.wantErr)
		})
	}

	c.Run("absent file is a storage error", func(c *qt.C) {
		s := newTestStore(t)
		_, err := s.Load()
		c.Assert(err, qt.IsNotNil)
		c.Assert(err, qt.Not(qt.ErrorIs), store.ErrParse)
	})
}

// ---------------------------------------------------------------------------
// Save
// ---------------------------------------------------------------------------

func TestSave_RoundTrip(t *testing.T) {
	c := qt.New(t)

	s := newTestStore(t)
	want := sampleTasks()
	c.Assert(s.Save(want), qt.IsNil)

	got, err := s.Load()
	c.Assert(err, qt.IsNil)
	c.Assert(got, qt.HasLen, len(want))
	for i := range want {
		c.Assert(got[i].ID, qt.Equals, want[i].ID)
		c.Assert(got[i].Description, qt.Equals, want[i].Description)
		c.Assert(got[i].Status, qt.Equals, want[i].Status)
		c.Assert(got[i].CreatedAt.String(), qt.Equals, want[i].CreatedAt.String())
		c.Assert(got[i].UpdatedAt.String(), qt.Equals, want[i].UpdatedAt.String())
	}

	c.Run("save of load reproduces the file byte for byte", func(c *qt.C) {
		first, err := os.ReadFile(s.Path())
		c.Assert(err, qt.IsNil)
		c.Assert(s.Save(got), qt.IsNil)
		second, err := os.ReadFile(s.Path())
		c.Assert(err, qt.IsNil)
		c.Assert(string(second), qt.Equals, string(first))
	})
}

func TestSave_UsesSpecFieldNames(t *testing.T) {
	c := qt.New(t)

	s := newTestStore(t)
	c.Assert(s.Save(sampleTasks()), qt.IsNil)
	data, err := os.ReadFile(s.Path())
	c.Assert(err, qt.IsNil)

	c.Assert(data, checkers.JSONPathEquals("$[0].id"), float64(1))
	c.Assert(data, checkers.JSONPathEquals("$[0].status"), "todo")
	c.Assert(data, checkers.JSONPathEquals("$[1].description"), "Write <report> & send")
	c.Assert(data, checkers.JSONPathEquals("$[1].status"), "done")
}

func TestSave_LeavesNoTempFiles(t *testing.T) {
	c := qt.New(t)

	dir := t.TempDir()
	s := store.New(filepath.Join(dir, "tasks.json"))
	for range 3 {
		c.Assert(s.Save(sampleTasks()), qt.IsNil)
	}

	entries, err := os.ReadDir(dir)
	c.Assert(err, qt.IsNil)
	c.Assert(entries, qt.HasLen, 1)
	c.Assert(entries[0].Name(), qt.Equals, "tasks.json")
}

func TestSave_FailurePath(t *testing.T) {
	c := qt.New(t)

	s := store.New(filepath.Join(t.TempDir(), "missing-dir", "tasks.json"))
	err := s.Save(sampleTasks())
	c.Assert(err, qt.ErrorMatches, `store.Save: create temp: .*`)
}
