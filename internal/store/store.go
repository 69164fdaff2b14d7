// Package store persists the task list as a single JSON file.
//
// Every command reads the whole file, mutates the list in memory and writes the
// whole file back. Writes go through a temp file in the same directory followed
// by a rename, so a crash leaves either the old or the new content on disk.
package store

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/go-ports/task-tracker/internal/models"
)

// DefaultFileName is the backing file used when no path is configured.
const DefaultFileName = "tasks.json"

// ErrParse is returned when the backing file has content that is not a valid
// task list.
var ErrParse = errors.New("malformed task file")

//go:embed tasks.schema.json
var schemaJSON string

var taskSchema = jsonschema.MustCompileString("tasks.schema.json", schemaJSON)

// Store reads and writes the task list at a fixed path.
type Store struct {
	path string
}

// New returns a Store backed by the file at path.
func New(path string) *Store {
	return &Store{path: path}
}

// Path returns the backing file path.
func (s *Store) Path() string { return s.path }

// EnsureExists creates the backing file holding an empty list when it is
// absent. It reports whether the file was created.
func (s *Store) EnsureExists() (bool, error) {
	_, err := os.Stat(s.path)
	if err == nil {
		return false, nil
	}
	if !os.IsNotExist(err) {
		return false, fmt.Errorf("store.EnsureExists: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return false, fmt.Errorf("store.EnsureExists: create dir: %w", err)
	}
	if err := s.Save(nil); err != nil {
		return false, err
	}
	return true, nil
}

// Load reads the task list. A zero-length file is an empty list.
func (s *Store) Load() ([]models.Task, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("store.Load: %w", err)
	}
	if len(data) == 0 {
		return make([]models.Task, 0), nil
	}
	tasks, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("store.Load %s: %w", s.path, err)
	}
	return tasks, nil
}

// Save overwrites the backing file with tasks.
func (s *Store) Save(tasks []models.Task) error {
	data, err := Encode(tasks)
	if err != nil {
		return fmt.Errorf("store.Save: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), "."+filepath.Base(s.path)+"-*.tmp")
	if err != nil {
		return fmt.Errorf("store.Save: create temp: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("store.Save: write: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("store.Save: close: %w", err)
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil { // #nosec G302 -- task lists do not contain secrets
		os.Remove(tmpPath)
		return fmt.Errorf("store.Save: chmod: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("store.Save: rename: %w", err)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Encoding
// ---------------------------------------------------------------------------

// Encode renders tasks as an indented JSON array. A nil list encodes as [].
func Encode(tasks []models.Task) ([]byte, error) {
	if tasks == nil {
		tasks = make([]models.Task, 0)
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(tasks); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Decode validates data against the task list schema and parses it.
// All returned errors wrap ErrParse.
func Decode(data []byte) ([]models.Task, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}
	if err := taskSchema.Validate(doc); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrParse, describeSchemaError(err))
	}

	var tasks []models.Task
	if err := json.Unmarshal(data, &tasks); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}

	seen := make(map[int]bool, len(tasks))
	for i, t := range tasks {
		if seen[t.ID] {
			return nil, fmt.Errorf("%w: [%d].id: duplicate id %d", ErrParse, i, t.ID)
		}
		seen[t.ID] = true
	}
	return tasks, nil
}

// describeSchemaError flattens a schema validation error into
// "path: message" entries for its leaf causes.
func describeSchemaError(err error) string {
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return err.Error()
	}
	var msgs []string
	collectLeaves(ve, &msgs)
	if len(msgs) == 0 {
		return ve.Error()
	}
	return strings.Join(msgs, "; ")
}

func collectLeaves(ve *jsonschema.ValidationError, msgs *[]string) {
	if len(ve.Causes) == 0 {
		path := jsonPointerToPath(ve.InstanceLocation)
		if path == "" {
			*msgs = append(*msgs, ve.Message)
			return
		}
		*msgs = append(*msgs, path+": "+ve.Message)
		return
	}
	for _, cause := range ve.Causes {
		collectLeaves(cause, msgs)
	}
}

// jsonPointerToPath converts "/1/status" to "[1].status".
func jsonPointerToPath(ptr string) string {
	ptr = strings.TrimPrefix(strings.TrimPrefix(ptr, "#"), "/")
	if ptr == "" {
		return ""
	}
	var sb strings.Builder
	for _, part := range strings.Split(ptr, "/") {
		part = strings.ReplaceAll(part, "~1", "/")
		part = strings.ReplaceAll(part, "~0", "~")
		if idx, err := strconv.Atoi(part); err == nil {
			fmt.Fprintf(&sb, "[%d]", idx)
			continue
		}
		if sb.Len() > 0 {
			sb.WriteString(".")
		}
		sb.WriteString(part)
	}
	return sb.String()
}
