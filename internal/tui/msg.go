package tui

import (
	"tasksync/internal/session"
	"tasksync/internal/viewmodel"
)

// Msg is the interface for all TUI messages.
// All message types implement this sealed interface.
//
//sumtype:decl
type Msg interface {
	sealed()
}

// MsgSessionRestored is sent once the stored session has been checked.
type MsgSessionRestored struct {
	Err   error
	State session.State
}

func (MsgSessionRestored) sealed() {}

// MsgSignInURL carries the URL the user has to open to finish signing in.
type MsgSignInURL struct {
	URL string
}

func (MsgSignInURL) sealed() {}

// MsgSignedIn is sent when the sign-in flow ends.
type MsgSignedIn struct {
	Err error
}

func (MsgSignedIn) sealed() {}

// MsgSignedOut is sent after the session has been ended.
type MsgSignedOut struct {
	Err error
}

func (MsgSignedOut) sealed() {}

// MsgTasksChanged is sent after a store round trip; the view re-reads the
// view-model. It is dropped if vm is no longer the active view-model.
type MsgTasksChanged struct {
	vm *viewmodel.ViewModel
}

func (MsgTasksChanged) sealed() {}

// MsgSubmitted is sent when an add attempt finishes. It is dropped if vm is
// no longer the active view-model.
type MsgSubmitted struct {
	Err error
	vm  *viewmodel.ViewModel
}

func (MsgSubmitted) sealed() {}
