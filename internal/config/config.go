// Package config handles configuration loading and backing file resolution.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/go-ports/task-tracker/internal/store"
)

// EnvTasksFile names the environment variable that overrides the backing file.
const EnvTasksFile = "TASK_TRACKER_FILE"

// ---------------------------------------------------------------------------
// Config types
// ---------------------------------------------------------------------------

// ListConfig controls `list` output.
type ListConfig struct {
	Format string `yaml:"format"` // "text" | "json"
}

// SearchConfig controls `search` results.
type SearchConfig struct {
	Limit int `yaml:"limit"`
}

// Config is the global task-tracker configuration.
type Config struct {
	TasksFile string       `yaml:"tasks_file"`
	List      ListConfig   `yaml:"list"`
	Search    SearchConfig `yaml:"search"`
}

// Default returns a Config populated with defaults.
func Default() *Config {
	return &Config{
		List:   ListConfig{Format: "text"},
		Search: SearchConfig{Limit: 20},
	}
}

// Load reads a config.yaml from path.
// If the file does not exist it returns Default() with no error.
// Missing keys retain their default values.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, err
	}

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	if v, ok := raw["tasks_file"].(string); ok {
		cfg.TasksFile = strings.TrimSpace(v)
	}
	if list, ok := raw["list"].(map[string]any); ok {
		if v, ok := list["format"].(string); ok && (v == "text" || v == "json") {
			cfg.List.Format = v
		}
	}
	if search, ok := raw["search"].(map[string]any); ok {
		if v, ok := search["limit"].(int); ok && v > 0 {
			cfg.Search.Limit = v
		}
	}

	return cfg, nil
}

// LoadGlobal loads the global config file.
func LoadGlobal() (*Config, error) {
	path, err := GlobalConfigPath()
	if err != nil {
		return Default(), nil
	}
	return Load(path)
}

// GlobalConfigPath returns the path to the global config file.
func GlobalConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "task-tracker", "config.yaml"), nil
}

// normalizePath expands ~ and makes the path absolute.
func normalizePath(path string) (string, error) {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		path = filepath.Join(home, path[2:])
	}
	return filepath.Abs(os.ExpandEnv(path))
}

// ---------------------------------------------------------------------------
// Backing file resolution
// ---------------------------------------------------------------------------

// ResolveTasksFile returns the backing file path and the source of the
// resolution. Priority: flag → TASK_TRACKER_FILE env → persisted global
// config → tasks.json in the working directory.
// source is one of "flag", "env", "config", or "default".
func ResolveTasksFile(flag string) (path, source string) {
	if flag != "" {
		return flag, "flag"
	}

	if env := os.Getenv(EnvTasksFile); env != "" {
		if p, err := normalizePath(env); err == nil {
			return p, "env"
		}
	}

	if persisted, ok, _ := GetPersistedTasksFile(); ok {
		return persisted, "config"
	}

	return store.DefaultFileName, "default"
}

// GetPersistedTasksFile reads tasks_file from the global config.
// Returns ("", false, nil) if not set.
func GetPersistedTasksFile() (string, bool, error) {
	cfgPath, err := GlobalConfigPath()
	if err != nil {
		return "", false, err
	}

	cfg, err := Load(cfgPath)
	if err != nil {
		return "", false, nil
	}
	if cfg.TasksFile == "" {
		return "", false, nil
	}

	p, err := normalizePath(cfg.TasksFile)
	if err != nil {
		return "", false, err
	}
	return p, true, nil
}

// SetPersistedTasksFile normalizes path and persists it in the global config.
// Returns the normalized path.
func SetPersistedTasksFile(path string) (string, error) {
	normalized, err := normalizePath(path)
	if err != nil {
		return "", err
	}

	cfgPath, err := GlobalConfigPath()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(cfgPath), 0o755); err != nil {
		return "", err
	}

	// Preserve any other keys already in the file.
	var raw map[string]any
	if data, err := os.ReadFile(cfgPath); err == nil {
		_ = yaml.Unmarshal(data, &raw)
	}
	if raw == nil {
		raw = make(map[string]any)
	}
	raw["tasks_file"] = normalized

	out, err := yaml.Marshal(raw)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(cfgPath, out, 0o600); err != nil {
		return "", err
	}
	return normalized, nil
}

// ClearPersistedTasksFile removes tasks_file from the global config.
// Returns true if the key was present and removed.
// If the file becomes empty after removal it is deleted.
func ClearPersistedTasksFile() (bool, error) {
	cfgPath, err := GlobalConfigPath()
	if err != nil {
		return false, err
	}

	data, err := os.ReadFile(cfgPath)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return false, nil
	}

	if _, ok := raw["tasks_file"]; !ok {
		return false, nil
	}
	delete(raw, "tasks_file")

	if len(raw) == 0 {
		_ = os.Remove(cfgPath)
		return true, nil
	}

	out, err := yaml.Marshal(raw)
	if err != nil {
		return false, err
	}
	return true, os.WriteFile(cfgPath, out, 0o600)
}
