package commands

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"tasksync/internal/service"
)

// TaskRef represents a parsed task reference: either a 1-based position in
// the listing or a task name.
type TaskRef struct {
	Num  int    // 1-based task number, 0 if Name is set
	Name string // task name, empty if Num is set
}

// ErrTaskRefRequired indicates no task reference was provided.
var ErrTaskRefRequired = errors.New("task reference required")

// ParseTaskRef parses a task reference from args.
//
// A single all-digit argument is a task number. Anything else is joined with
// spaces and used as the task name.
func ParseTaskRef(args []string) (TaskRef, error) {
	if len(args) == 0 {
		return TaskRef{}, ErrTaskRefRequired
	}

	if len(args) == 1 && isAllDigits(args[0]) {
		num, err := strconv.Atoi(args[0])
		if err != nil {
			return TaskRef{}, fmt.Errorf("invalid task reference: %s", args[0])
		}
		if num < 1 {
			return TaskRef{}, fmt.Errorf("task number out of range: %d", num)
		}
		return TaskRef{Num: num}, nil
	}

	name := strings.Join(args, " ")
	if strings.TrimSpace(name) == "" {
		return TaskRef{}, ErrTaskRefRequired
	}
	return TaskRef{Name: name}, nil
}

// Resolve returns the name of the referenced task in tasks, as numbered by
// the list command.
func (r TaskRef) Resolve(tasks []service.Task) (string, error) {
	if r.Num > 0 {
		if r.Num > len(tasks) {
			return "", fmt.Errorf("task number out of range: %d", r.Num)
		}
		return tasks[r.Num-1].Name, nil
	}
	for _, t := range tasks {
		if t.Name == r.Name {
			return t.Name, nil
		}
	}
	return "", fmt.Errorf("task not found: %s", r.Name)
}

// isAllDigits returns true if s consists only of ASCII digits and is non-empty.
func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r > unicode.MaxASCII || !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
