// Package output provides formatters for CLI output.
package output

import (
	"fmt"
	"io"
	"strings"

	"taskcli/internal/service"
)

// FormatTask formats a task line for the list command.
// Format: "{N:>4}  [x] {TITLE}\n" (4-wide right-aligned number, two spaces,
// completion box, title)
func FormatTask(w io.Writer, num int, task service.Task) {
	box := "[ ]"
	if task.Completed {
		box = "[x]"
	}
	fmt.Fprintf(w, "%4d  %s %s\n", num, box, normalizeTitle(task.Title))
}

// FormatTasks writes tasks numbered from 1 in order.
func FormatTasks(w io.Writer, tasks []service.Task) {
	for i, t := range tasks {
		FormatTask(w, i+1, t)
	}
}

// Summary formats the count footer, e.g. "2 tasks, 1 done".
func Summary(w io.Writer, tasks []service.Task) {
	done := 0
	for _, t := range tasks {
		if t.Completed {
			done++
		}
	}
	noun := "tasks"
	if len(tasks) == 1 {
		noun = "task"
	}
	fmt.Fprintf(w, "%d %s, %d done\n", len(tasks), noun, done)
}

// normalizeTitle normalizes a task title for display.
// - Empty or whitespace-only titles become "(untitled)"
// - Newlines are replaced with spaces
func normalizeTitle(title string) string {
	title = strings.ReplaceAll(title, "\r", " ")
	title = strings.ReplaceAll(title, "\n", " ")

	if strings.TrimSpace(title) == "" {
		return "(untitled)"
	}
	return title
}
