// Package output provides formatters for CLI output.
package output

import (
	"fmt"
	"io"
	"strings"

	"tasksync/internal/service"
)

// FormatTask formats a task line for the list command.
// Format: "{N:>4}  [x] {NAME}\n", with "[ ]" for open tasks.
func FormatTask(w io.Writer, num int, task service.Task) {
	fmt.Fprintf(w, "%4d  %s %s\n", num, checkbox(task.Complete), normalizeName(task.Name))
}

// FormatTasks writes every task numbered from 1.
func FormatTasks(w io.Writer, tasks []service.Task) {
	for i, task := range tasks {
		FormatTask(w, i+1, task)
	}
}

// Status describes the local client state for the status command.
type Status struct {
	ConfigDir string
	Endpoint  string
	Auth      string
	State     string
	Subject   string
}

// FormatStatus writes one "key: value" line per field. Empty values print
// as "(none)".
func FormatStatus(w io.Writer, s Status) {
	rows := []struct{ key, value string }{
		{"config", s.ConfigDir},
		{"endpoint", s.Endpoint},
		{"auth", s.Auth},
		{"session", s.State},
		{"user", s.Subject},
	}
	for _, r := range rows {
		v := r.value
		if v == "" {
			v = "(none)"
		}
		fmt.Fprintf(w, "%-10s%s\n", r.key+":", v)
	}
}

func checkbox(complete bool) string {
	if complete {
		return "[x]"
	}
	return "[ ]"
}

// normalizeName normalizes a task name for display.
// - Empty or whitespace-only names become "(untitled)"
// - Newlines are replaced with spaces
func normalizeName(name string) string {
	name = strings.ReplaceAll(name, "\r", " ")
	name = strings.ReplaceAll(name, "\n", " ")

	if strings.TrimSpace(name) == "" {
		return "(untitled)"
	}
	return name
}
