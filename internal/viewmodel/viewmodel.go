// Package viewmodel holds the local copy of the task list and the pending
// input, and turns user actions into store calls followed by a full refetch.
//
// Local state never changes optimistically: tasks are only replaced by the
// result of a successful list call, and the input is only cleared after a
// successful add.
package viewmodel

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"

	"tasksync/internal/service"
)

// User-visible notices.
const (
	MsgEmptyInput   = "Input cannot be empty!"
	MsgSaveFailed   = "Could not save task."
	MsgDeleteFailed = "Could not delete task."
	MsgUpdateFailed = "Could not update task."
)

// ErrEmptyInput is returned by Submit when the trimmed input is empty.
var ErrEmptyInput = errors.New("input cannot be empty")

// Notifier shows a blocking notice to the user.
type Notifier interface {
	Notify(msg string)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(msg string)

// Notify calls f(msg).
func (f NotifierFunc) Notify(msg string) { f(msg) }

// ViewModel is safe for use from multiple goroutines.
type ViewModel struct {
	svc    service.Service
	notify Notifier
	logger *slog.Logger

	mu      sync.Mutex
	tasks   []service.Task
	input   string
	issued  uint64 // last refetch token handed out
	applied uint64 // token of the list result currently shown
}

// New creates a ViewModel. A nil notifier drops notices; a nil logger
// discards diagnostics.
func New(svc service.Service, notify Notifier, logger *slog.Logger) *ViewModel {
	if notify == nil {
		notify = NotifierFunc(func(string) {})
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &ViewModel{svc: svc, notify: notify, logger: logger}
}

// Tasks returns a copy of the current task collection.
func (vm *ViewModel) Tasks() []service.Task {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	out := make([]service.Task, len(vm.tasks))
	copy(out, vm.tasks)
	return out
}

// Input returns the pending input.
func (vm *ViewModel) Input() string {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	return vm.input
}

// SetInput replaces the pending input.
func (vm *ViewModel) SetInput(s string) {
	vm.mu.Lock()
	vm.input = s
	vm.mu.Unlock()
}

// Find returns the task with the given name.
func (vm *ViewModel) Find(name string) (service.Task, bool) {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	for _, t := range vm.tasks {
		if t.Name == name {
			return t, true
		}
	}
	return service.Task{}, false
}

// Checked reports whether the task's checkbox is ticked.
func Checked(t service.Task) bool {
	return t.Complete
}

// Mount loads the collection for the first time.
func (vm *ViewModel) Mount(ctx context.Context) error {
	return vm.Refresh(ctx)
}

// Refresh fetches the full collection and replaces the local copy.
// Failures are logged, never shown as a notice, and the previous tasks stay
// in place; the error is returned for callers that report it themselves. A
// result that arrives after a newer one has been applied is discarded.
func (vm *ViewModel) Refresh(ctx context.Context) error {
	vm.mu.Lock()
	vm.issued++
	token := vm.issued
	vm.mu.Unlock()

	tasks, err := vm.svc.List(ctx)
	if err != nil {
		vm.logger.Warn("failed to fetch tasks", "error", err)
		return err
	}

	vm.mu.Lock()
	defer vm.mu.Unlock()
	if token < vm.applied {
		vm.logger.Debug("discarding stale task list", "token", token, "applied", vm.applied)
		return nil
	}
	vm.applied = token
	if tasks == nil {
		tasks = []service.Task{}
	}
	vm.tasks = tasks
	return nil
}

// Submit adds the pending input as a new task.
func (vm *ViewModel) Submit(ctx context.Context) error {
	input := vm.Input()
	if strings.TrimSpace(input) == "" {
		vm.notify.Notify(MsgEmptyInput)
		return ErrEmptyInput
	}

	if err := vm.svc.Add(ctx, input); err != nil {
		vm.logger.Error("error saving task", "task", input, "error", err)
		vm.notify.Notify(MsgSaveFailed)
		return err
	}

	vm.SetInput("")
	vm.Refresh(ctx)
	return nil
}

// Toggle flips the completion state of the named task. A task that is not in
// the local collection counts as not complete. The list is refetched whether
// or not the update succeeded.
func (vm *ViewModel) Toggle(ctx context.Context, name string) error {
	current, _ := vm.Find(name)

	err := vm.svc.SetComplete(ctx, name, !current.Complete)
	if err != nil {
		vm.logger.Error("error updating task", "task", name, "error", err)
		vm.notify.Notify(MsgUpdateFailed)
	}
	vm.Refresh(ctx)
	return err
}

// Remove deletes the named task, then refetches whether or not it succeeded.
func (vm *ViewModel) Remove(ctx context.Context, name string) error {
	err := vm.svc.Delete(ctx, name)
	if err != nil {
		vm.logger.Error("error deleting task", "task", name, "error", err)
		vm.notify.Notify(MsgDeleteFailed)
	}
	vm.Refresh(ctx)
	return err
}
