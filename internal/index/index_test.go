package index_test

import (
	"testing"
	"time"

	qt "github.com/frankban/quicktest"

	"github.com/go-ports/task-tracker/internal/index"
	"github.com/go-ports/task-tracker/internal/models"
)

// openTestIndex opens a fresh in-memory index and registers t.Cleanup to close it.
func openTestIndex(t *testing.T) *index.Index {
	t.Helper()
	x, err := index.Open(index.MemoryPath)
	if err != nil {
		t.Fatalf("openTestIndex: %v", err)
	}
	t.Cleanup(func() { _ = x.Close() })
	return x
}

func fixture() []models.Task {
	now := time.Date(2024, 2, 1, 8, 0, 0, 0, time.Local)
	tasks := []models.Task{
		models.NewTask(5, "Buy milk", now),
		models.NewTask(2, "Write report for Q1", now),
		models.NewTask(9, "Review 100% of the report", now),
		models.NewTask(3, "Call plumber", now),
	}
	tasks[1].Status = models.StatusDone
	tasks[3].Status = models.StatusInProgress
	return tasks
}

func ids(tasks []models.Task) []int {
	out := make([]int, len(tasks))
	for i, t := range tasks {
		out[i] = t.ID
	}
	return out
}

func TestSearch_HappyPath(t *testing.T) {
	c := qt.New(t)
	x := openTestIndex(t)
	c.Assert(x.Sync(fixture()), qt.IsNil)

	tests := []struct {
		name   string
		query  string
		status models.Status
		limit  int
		want   []int
	}{
		{"empty query matches all in store order", "", "", 0, []int{5, 2, 9, 3}},
		{"substring is case-insensitive", "REPORT", "", 0, []int{2, 9}},
		{"status filter", "report", models.StatusTodo, 0, []int{9}},
		{"status only", "", models.StatusInProgress, 0, []int{3}},
		{"limit", "", "", 2, []int{5, 2}},
		{"percent sign is literal", "100%", "", 0, []int{9}},
		{"underscore is literal", "_", "", 0, []int{}},
		{"no match", "groceries", "", 0, []int{}},
	}

	for _, tt := range tests {
		c.Run(tt.name, func(c *qt.C) {
			got, err := x.Search(tt.query, tt.status, tt.limit)
			c.Assert(err, qt.IsNil)
			c.Assert(ids(got), qt.DeepEquals, tt.want)
		})
	}
}

func TestSearch_ReturnsFullRecords(t *testing.T) {
	c := qt.New(t)
	x := openTestIndex(t)
	want := fixture()
	c.Assert(x.Sync(want), qt.IsNil)

	got, err := x.Search("plumber", "", 0)
	c.Assert(err, qt.IsNil)
	c.Assert(got, qt.HasLen, 1)
	c.Assert(got[0].Description, qt.Equals, "Call plumber")
	c.Assert(got[0].Status, qt.Equals, models.StatusInProgress)
	c.Assert(got[0].CreatedAt.String(), qt.Equals, want[3].CreatedAt.String())
	c.Assert(got[0].UpdatedAt.String(), qt.Equals, want[3].UpdatedAt.String())
}

func TestSync_ReplacesRows(t *testing.T) {
	c := qt.New(t)
	x := openTestIndex(t)
	c.Assert(x.Sync(fixture()), qt.IsNil)
	c.Assert(x.Sync(fixture()[:1]), qt.IsNil)

	got, err := x.Search("", "", 0)
	c.Assert(err, qt.IsNil)
	c.Assert(ids(got), qt.DeepEquals, []int{5})
}
