// Package markdown renders the task list as a Markdown checklist.
package markdown

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/go-ports/task-tracker/internal/models"
)

// frontmatter is the YAML header written above the checklist.
type frontmatter struct {
	Source    string         `yaml:"source"`
	Generated string         `yaml:"generated"`
	Total     int            `yaml:"total"`
	Counts    map[string]int `yaml:"counts"`
}

// RenderItem produces a single checklist line for a task.
func RenderItem(t *models.Task) string {
	var sb strings.Builder
	if t.Status == models.StatusDone {
		sb.WriteString("- [x] ")
	} else {
		sb.WriteString("- [ ] ")
	}
	fmt.Fprintf(&sb, "#%d %s", t.ID, escapeInline(t.Description))
	fmt.Fprintf(&sb, " _(created %s, updated %s)_", t.CreatedAt, t.UpdatedAt)
	return sb.String()
}

// Render produces the full export document: YAML front-matter followed by one
// ## section per status in lifecycle order. Statuses without tasks are
// omitted; tasks keep store order within a section.
func Render(tasks []models.Task, source string, generated time.Time) (string, error) {
	grouped := make(map[models.Status][]*models.Task, len(models.ValidStatuses))
	for i := range tasks {
		t := &tasks[i]
		grouped[t.Status] = append(grouped[t.Status], t)
	}
	counts := make(map[string]int, len(models.ValidStatuses))
	for st, n := range models.CountByStatus(tasks) {
		counts[string(st)] = n
	}

	fm, err := yaml.Marshal(frontmatter{
		Source:    source,
		Generated: generated.Format(time.RFC3339),
		Total:     len(tasks),
		Counts:    counts,
	})
	if err != nil {
		return "", fmt.Errorf("markdown.Render: %w", err)
	}

	var sb strings.Builder
	sb.WriteString("---\n")
	sb.Write(fm)
	sb.WriteString("---\n\n# Tasks\n")

	if len(tasks) == 0 {
		sb.WriteString("\n_No tasks._\n")
		return sb.String(), nil
	}

	for _, status := range models.ValidStatuses {
		items := grouped[status]
		if len(items) == 0 {
			continue
		}
		sb.WriteString("\n## ")
		sb.WriteString(models.StatusHeadings[status])
		sb.WriteString("\n\n")
		for _, t := range items {
			sb.WriteString(RenderItem(t))
			sb.WriteString("\n")
		}
	}
	return sb.String(), nil
}

// WriteFile renders tasks and writes the document to path.
func WriteFile(path string, tasks []models.Task, source string, generated time.Time) error {
	content, err := Render(tasks, source, generated)
	if err != nil {
		return err
	}
	return os.WriteFile(path, []byte(content), 0o644) // #nosec G306 -- exported checklists do not contain secrets
}

// escapeInline keeps a description on one line so it cannot break the list.
func escapeInline(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
