// Package testutil provides testing utilities.
package testutil

import (
	"context"
	"sync"

	"tasksync/internal/service"
)

// Call records one service invocation.
type Call struct {
	Op       string // "list", "add", "delete", "update"
	Name     string
	Complete bool
}

// FakeService is an in-memory implementation of service.Service for testing.
type FakeService struct {
	mu    sync.RWMutex
	tasks []service.Task
	calls []Call

	// Error injection for testing
	ListErr        error
	AddErr         error
	DeleteErr      error
	SetCompleteErr error
}

// NewFakeService creates an empty FakeService.
func NewFakeService() *FakeService {
	return &FakeService{}
}

// AddTask seeds a task without recording a call.
func (f *FakeService) AddTask(name string, complete bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tasks = append(f.tasks, service.Task{Name: name, Complete: complete})
}

// Calls returns the recorded calls in order.
func (f *FakeService) Calls() []Call {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make([]Call, len(f.calls))
	copy(out, f.calls)
	return out
}

// CountOp returns how many calls of the given op were made.
func (f *FakeService) CountOp(op string) int {
	n := 0
	for _, c := range f.Calls() {
		if c.Op == op {
			n++
		}
	}
	return n
}

// Snapshot returns the stored tasks without recording a call.
func (f *FakeService) Snapshot() []service.Task {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make([]service.Task, len(f.tasks))
	copy(out, f.tasks)
	return out
}

func (f *FakeService) record(c Call) {
	f.mu.Lock()
	f.calls = append(f.calls, c)
	f.mu.Unlock()
}

// List implements service.Service.
func (f *FakeService) List(ctx context.Context) ([]service.Task, error) {
	f.record(Call{Op: "list"})
	if f.ListErr != nil {
		return nil, f.ListErr
	}
	return f.Snapshot(), nil
}

// Add implements service.Service. An existing task with the same name is
// overwritten, as the store does.
func (f *FakeService) Add(ctx context.Context, name string) error {
	f.record(Call{Op: "add", Name: name})
	if f.AddErr != nil {
		return f.AddErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, t := range f.tasks {
		if t.Name == name {
			f.tasks[i].Complete = false
			return nil
		}
	}
	f.tasks = append(f.tasks, service.Task{Name: name})
	return nil
}

// Delete implements service.Service. Deleting a missing task is not an error.
func (f *FakeService) Delete(ctx context.Context, name string) error {
	f.record(Call{Op: "delete", Name: name})
	if f.DeleteErr != nil {
		return f.DeleteErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, t := range f.tasks {
		if t.Name == name {
			f.tasks = append(f.tasks[:i], f.tasks[i+1:]...)
			break
		}
	}
	return nil
}

// SetComplete implements service.Service. A missing task is created.
func (f *FakeService) SetComplete(ctx context.Context, name string, complete bool) error {
	f.record(Call{Op: "update", Name: name, Complete: complete})
	if f.SetCompleteErr != nil {
		return f.SetCompleteErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, t := range f.tasks {
		if t.Name == name {
			f.tasks[i].Complete = complete
			return nil
		}
	}
	f.tasks = append(f.tasks, service.Task{Name: name, Complete: complete})
	return nil
}

// RecordingNotifier collects notices.
type RecordingNotifier struct {
	mu       sync.Mutex
	messages []string
}

// Notify implements viewmodel.Notifier.
func (n *RecordingNotifier) Notify(msg string) {
	n.mu.Lock()
	n.messages = append(n.messages, msg)
	n.mu.Unlock()
}

// Messages returns the notices received so far.
func (n *RecordingNotifier) Messages() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]string, len(n.messages))
	copy(out, n.messages)
	return out
}
