// Package shared holds the context passed to all CLI commands.
package shared

// Context carries global CLI state (flags set on the root command).
type Context struct {
	// TasksFile overrides the backing file.
	// When empty, resolution falls through to TASK_TRACKER_FILE env var → persisted config → ./tasks.json.
	TasksFile string
	// Verbose lowers the log level to debug.
	Verbose bool
}
