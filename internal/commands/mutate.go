package commands

import (
	"context"
	"fmt"
	"io"

	"tasksync/internal/config"
	"tasksync/internal/exitcode"
	"tasksync/internal/service"
	"tasksync/internal/viewmodel"
)

// newViewModel returns a view-model whose notices are printed as errors.
func newViewModel(cfg *config.Config, svc service.Service, errOut io.Writer) *viewmodel.ViewModel {
	notify := viewmodel.NotifierFunc(func(msg string) {
		fmt.Fprintf(errOut, "error: %s\n", msg)
	})
	return viewmodel.New(svc, notify, cfg.Log())
}

// runOnTask loads the list, resolves the task reference in args and passes
// the task name to fn. Returns the exit code.
func runOnTask(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer,
	fn func(vm *viewmodel.ViewModel, name string) error) int {
	ref, err := ParseTaskRef(args)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	vm := newViewModel(cfg, svc, errOut)
	if err := vm.Mount(ctx); err != nil {
		return reportError(errOut, err)
	}

	name, err := ref.Resolve(vm.Tasks())
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	// fn reports failures through the view-model notifier.
	if err := fn(vm, name); err != nil {
		return exitcode.For(err)
	}

	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}

// reportError prints err with a prefix matching its exit code and returns
// the code.
func reportError(errOut io.Writer, err error) int {
	code := exitcode.For(err)
	switch code {
	case exitcode.AuthError:
		fmt.Fprintf(errOut, "error: auth error: %v\n", err)
	case exitcode.BackendError:
		fmt.Fprintf(errOut, "error: backend error: %v\n", err)
	default:
		fmt.Fprintf(errOut, "error: %v\n", err)
	}
	return code
}
