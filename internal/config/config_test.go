package config_test

import (
	"os"
	"path/filepath"
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/go-ports/task-tracker/internal/config"
)

// isolateHome points HOME at a temp dir so the global config is private to the
// test, and clears the env override.
func isolateHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv(config.EnvTasksFile, "")
	return home
}

func TestDefault_HappyPath(t *testing.T) {
	c := qt.New(t)
	cfg := config.Default()
	c.Assert(cfg, qt.IsNotNil)
	c.Assert(cfg.TasksFile, qt.Equals, "")
	c.Assert(cfg.List.Format, qt.Equals, "text")
	c.Assert(cfg.Search.Limit, qt.Equals, 20)
}

func TestLoad_HappyPath(t *testing.T) {
	c := qt.New(t)

	c.Run("non-existent file returns defaults without error", func(c *qt.C) {
		cfg, err := config.Load("/nonexistent/config.yaml")
		c.Assert(err, qt.IsNil)
		c.Assert(cfg.List.Format, qt.Equals, "text")
		c.Assert(cfg.Search.Limit, qt.Equals, 20)
	})

	tests := []struct {
		name          string
		yaml          string
		wantTasksFile string
		wantFormat    string
		wantLimit     int
	}{
		{
			name:          "all keys set",
			yaml:          "tasks_file: /tmp/work.json\nlist:\n  format: json\nsearch:\n  limit: 5\n",
			wantTasksFile: "/tmp/work.json",
			wantFormat:    "json",
			wantLimit:     5,
		},
		{
			name:       "unknown list format keeps default",
			yaml:       "list:\n  format: xml\n",
			wantFormat: "text",
			wantLimit:  20,
		},
		{
			name:       "non-positive limit keeps default",
			yaml:       "search:\n  limit: 0\n",
			wantFormat: "text",
			wantLimit:  20,
		},
	}

	for _, tt := range tests {
		c.Run(tt.name, func(c *qt.C) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			c.Assert(os.WriteFile(path, []byte(tt.yaml), 0o600), qt.IsNil)

			cfg, err := config.Load(path)
			c.Assert(err, qt.IsNil)
			c.Assert(cfg.TasksFile, qt.Equals, tt.wantTasksFile)
			c.Assert(cfg.List.Format, qt.Equals, tt.wantFormat)
			c.Assert(cfg.Search.Limit, qt.Equals, tt.wantLimit)
		})
	}
}

func TestLoad_FailurePath(t *testing.T) {
	c := qt.New(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	c.Assert(os.WriteFile(path, []byte("list: [unterminated\n"), 0o600), qt.IsNil)

	_, err := config.Load(path)
	c.Assert(err, qt.IsNotNil)
}

func TestResolveTasksFile(t *testing.T) {
	c := qt.New(t)

	c.Run("default is tasks.json in the working directory", func(c *qt.C) {
		isolateHome(t)
		path, source := config.ResolveTasksFile("")
		c.Assert(path, qt.Equals, "tasks.json")
		c.Assert(source, qt.Equals, "default")
	})

	c.Run("flag wins over everything", func(c *qt.C) {
		isolateHome(t)
		t.Setenv(config.EnvTasksFile, "/env/tasks.json")
		path, source := config.ResolveTasksFile("custom.json")
		c.Assert(path, qt.Equals, "custom.json")
		c.Assert(source, qt.Equals, "flag")
	})

	c.Run("env overrides persisted config", func(c *qt.C) {
		isolateHome(t)
		_, err := config.SetPersistedTasksFile(filepath.Join(t.TempDir(), "persisted.json"))
		c.Assert(err, qt.IsNil)
		envPath := filepath.Join(t.TempDir(), "env.json")
		t.Setenv(config.EnvTasksFile, envPath)

		path, source := config.ResolveTasksFile("")
		c.Assert(path, qt.Equals, envPath)
		c.Assert(source, qt.Equals, "env")
	})

	c.Run("persisted config is used when env is unset", func(c *qt.C) {
		isolateHome(t)
		want := filepath.Join(t.TempDir(), "persisted.json")
		got, err := config.SetPersistedTasksFile(want)
		c.Assert(err, qt.IsNil)
		c.Assert(got, qt.Equals, want)

		path, source := config.ResolveTasksFile("")
		c.Assert(path, qt.Equals, want)
		c.Assert(source, qt.Equals, "config")
	})
}

func TestClearPersistedTasksFile(t *testing.T) {
	c := qt.New(t)

	c.Run("nothing persisted", func(c *qt.C) {
		isolateHome(t)
		changed, err := config.ClearPersistedTasksFile()
		c.Assert(err, qt.IsNil)
		c.Assert(changed, qt.IsFalse)
	})

	c.Run("removes the key and deletes the emptied file", func(c *qt.C) {
		isolateHome(t)
		_, err := config.SetPersistedTasksFile(filepath.Join(t.TempDir(), "x.json"))
		c.Assert(err, qt.IsNil)

		changed, err := config.ClearPersistedTasksFile()
		c.Assert(err, qt.IsNil)
		c.Assert(changed, qt.IsTrue)

		cfgPath, err := config.GlobalConfigPath()
		c.Assert(err, qt.IsNil)
		_, statErr := os.Stat(cfgPath)
		c.Assert(os.IsNotExist(statErr), qt.IsTrue)
	})

	c.Run("other keys are preserved", func(c *qt.C) {
		isolateHome(t)
		cfgPath, err := config.GlobalConfigPath()
		c.Assert(err, qt.IsNil)
		c.Assert(os.MkdirAll(filepath.Dir(cfgPath), 0o755), qt.IsNil)
		c.Assert(os.WriteFile(cfgPath, []byte("tasks_file: /a.json\nlist:\n  format: json\n"), 0o600), qt.IsNil)

		changed, err := config.ClearPersistedTasksFile()
		c.Assert(err, qt.IsNil)
		c.Assert(changed, qt.IsTrue)

		cfg, err := config.Load(cfgPath)
		c.Assert(err, qt.IsNil)
		c.Assert(cfg.TasksFile, qt.Equals, "")
		c.Assert(cfg.List.Format, qt.Equals, "json")
	})
}
