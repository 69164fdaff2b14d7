// Package index mirrors a task list into SQLite for filtered queries.
//
// The JSON backing file stays the source of truth. An Index is rebuilt from
// the loaded list with Sync before it is queried.
package index

import (
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3" // registers the sqlite3 driver with database/sql

	"github.com/go-ports/task-tracker/internal/models"
)

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

// Index wraps a *sql.DB holding one table of tasks.
type Index struct {
	db *sql.DB
}

// Open opens (or creates) the SQLite database at path and initialises the schema.
func Open(path string) (*Index, error) {
	sqldb, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("index.Open: %w", err)
	}
	// Every connection to :memory: is a separate database.
	sqldb.SetMaxOpenConns(1)

	x := &Index{db: sqldb}
	if err := x.createSchema(); err != nil {
		_ = sqldb.Close()
		return nil, fmt.Errorf("index.Open createSchema: %w", err)
	}
	return x, nil
}

// Close closes the underlying database connection.
func (x *Index) Close() error {
	return x.db.Close()
}

func (x *Index) createSchema() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS tasks (
			id          INTEGER PRIMARY KEY,
			position    INTEGER NOT NULL,
			description TEXT NOT NULL,
			status      TEXT NOT NULL,
			created_at  TEXT NOT NULL,
			updated_at  TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS tasks_status ON tasks(status, position)`,
	}
	for _, s := range stmts {
		if _, err := x.db.Exec(s); err != nil {
			return fmt.Errorf("createSchema exec: %w\nSQL: %s", err, s)
		}
	}
	return nil
}

// Sync replaces the indexed rows with tasks, keeping their order.
func (x *Index) Sync(tasks []models.Task) error {
	tx, err := x.db.Begin()
	if err != nil {
		return fmt.Errorf("Sync: begin: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after Commit

	if _, err := tx.Exec(`DELETE FROM tasks`); err != nil {
		return fmt.Errorf("Sync: clear: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO tasks (id, position, description, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("Sync: prepare: %w", err)
	}
	defer stmt.Close()

	for i, t := range tasks {
		if _, err := stmt.Exec(
			t.ID, i, t.Description, string(t.Status),
			t.CreatedAt.String(), t.UpdatedAt.String(),
		); err != nil {
			return fmt.Errorf("Sync: insert task %d: %w", t.ID, err)
		}
	}
	return tx.Commit()
}

// Search returns tasks whose description contains query (ASCII
// case-insensitive), optionally restricted to status, in store order.
// An empty query matches every task; limit <= 0 means no limit.
func (x *Index) Search(query string, status models.Status, limit int) ([]models.Task, error) {
	var sb strings.Builder
	sb.WriteString(`SELECT id, description, status, created_at, updated_at FROM tasks
		WHERE description LIKE ? ESCAPE '\'`)
	args := []any{"%" + escapeLike(query) + "%"}

	if status != "" {
		sb.WriteString(` AND status = ?`)
		args = append(args, string(status))
	}
	sb.WriteString(` ORDER BY position`)
	if limit > 0 {
		sb.WriteString(` LIMIT ?`)
		args = append(args, limit)
	}

	rows, err := x.db.Query(sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("Search: %w", err)
	}
	defer rows.Close()

	results := make([]models.Task, 0)
	for rows.Next() {
		var (
			t                    models.Task
			st                   string
			createdAt, updatedAt string
		)
		if err := rows.Scan(&t.ID, &t.Description, &st, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("Search scan: %w", err)
		}
		t.Status = models.Status(st)
		if t.CreatedAt, err = models.ParseTimestamp(createdAt); err != nil {
			return nil, fmt.Errorf("Search: task %d: %w", t.ID, err)
		}
		if t.UpdatedAt, err = models.ParseTimestamp(updatedAt); err != nil {
			return nil, fmt.Errorf("Search: task %d: %w", t.ID, err)
		}
		results = append(results, t)
	}
	return results, rows.Err()
}

// escapeLike escapes LIKE wildcards so query matches literally.
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
