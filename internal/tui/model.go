// Package tui is the interactive task list: a sign-in surface while no
// session is active, and the task list with its input field afterwards.
package tui

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"tasksync/internal/service"
	"tasksync/internal/session"
	"tasksync/internal/viewmodel"
)

// ServiceFactory builds the store client for the gate's active session.
type ServiceFactory func(ctx context.Context, gate *session.Gate) (service.Service, error)

// Options configures the model.
type Options struct {
	Theme  string
	Logger *slog.Logger
}

type focus int

const (
	focusInput focus = iota
	focusList
)

// noticeQueue collects view-model notices raised off the update loop.
type noticeQueue struct {
	mu    sync.Mutex
	items []string
}

func (q *noticeQueue) push(text string) {
	q.mu.Lock()
	q.items = append(q.items, text)
	q.mu.Unlock()
}

func (q *noticeQueue) drain() []string {
	q.mu.Lock()
	defer q.mu.Unlock()
	items := q.items
	q.items = nil
	return items
}

// Model is the TUI model.
type Model struct {
	// Dependencies
	ctx        context.Context
	gate       *session.Gate
	newService ServiceFactory
	logger     *slog.Logger

	// State
	vm        *viewmodel.ViewModel
	tasks     []service.Task
	notices   []string
	pending   *noticeQueue
	signInURL string
	err       error

	// Components
	keys   KeyMap
	styles Styles
	help   help.Model
	input  textinput.Model

	// Numeric state
	cursor int
	width  int
	height int
	focus  focus

	// Boolean state
	restoring bool
	signingIn bool
	busy      bool
}

// New creates the TUI model. The session is restored by Init.
func New(ctx context.Context, gate *session.Gate, newService ServiceFactory, opts Options) *Model {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	ti := textinput.New()
	ti.Placeholder = "What needs doing?"
	ti.CharLimit = 0
	ti.Prompt = "+ "
	ti.Cursor.SetMode(cursor.CursorStatic)

	return &Model{
		ctx:        ctx,
		gate:       gate,
		newService: newService,
		logger:     logger,
		pending:    &noticeQueue{},
		keys:       DefaultKeyMap(),
		styles:     StylesFor(opts.Theme),
		help:       help.New(),
		input:      ti,
		focus:      focusInput,
		restoring:  true,
	}
}

// Init restores the stored session.
func (m *Model) Init() tea.Cmd {
	return m.restore()
}

// awaitURL delivers the sign-in URL while the sign-in flow is blocked
// waiting for the browser. It gives up once that attempt has ended.
func (m *Model) awaitURL(urls <-chan string, done <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		select {
		case url := <-urls:
			return MsgSignInURL{URL: url}
		case <-done:
			return nil
		case <-m.ctx.Done():
			return nil
		}
	}
}

func (m *Model) restore() tea.Cmd {
	return func() tea.Msg {
		state, err := m.gate.Restore(m.ctx)
		return MsgSessionRestored{State: state, Err: err}
	}
}

// startSignIn runs one sign-in attempt next to a watcher for its URL.
func (m *Model) startSignIn() tea.Cmd {
	urls := make(chan string, 1)
	done := make(chan struct{})
	return tea.Batch(m.signIn(urls, done), m.awaitURL(urls, done))
}

func (m *Model) signIn(urls chan<- string, done chan<- struct{}) tea.Cmd {
	return func() tea.Msg {
		defer close(done)
		err := m.gate.SignIn(m.ctx, func(url string) {
			select {
			case urls <- url:
			default:
			}
		})
		return MsgSignedIn{Err: err}
	}
}

func (m *Model) signOut() tea.Cmd {
	return func() tea.Msg {
		return MsgSignedOut{Err: m.gate.SignOut(m.ctx)}
	}
}

// attach builds the view-model for the active session and mounts it.
func (m *Model) attach() tea.Cmd {
	svc, err := m.newService(m.ctx, m.gate)
	if err != nil {
		m.logger.Error("failed to create store client", "error", err)
		m.err = err
		return nil
	}
	// Each view-model gets its own queue so a late notice from a previous
	// session is never shown.
	m.pending = &noticeQueue{}
	m.vm = viewmodel.New(svc, viewmodel.NotifierFunc(m.pending.push), m.logger)
	m.tasks = nil
	m.cursor = 0
	m.input.Reset()
	m.focus = focusInput
	focusCmd := m.input.Focus()

	return tea.Batch(focusCmd, m.run(func(vm *viewmodel.ViewModel) {
		_ = vm.Mount(m.ctx)
	}))
}

// run executes fn against the current view-model off the update loop and
// reports back with MsgTasksChanged.
func (m *Model) run(fn func(vm *viewmodel.ViewModel)) tea.Cmd {
	vm := m.vm
	m.busy = true
	return func() tea.Msg {
		fn(vm)
		return MsgTasksChanged{vm: vm}
	}
}

func (m *Model) submit() tea.Cmd {
	vm := m.vm
	vm.SetInput(m.input.Value())
	m.busy = true
	return func() tea.Msg {
		return MsgSubmitted{Err: vm.Submit(m.ctx), vm: vm}
	}
}

// selected returns the task under the cursor.
func (m *Model) selected() (service.Task, bool) {
	if m.cursor < 0 || m.cursor >= len(m.tasks) {
		return service.Task{}, false
	}
	return m.tasks[m.cursor], true
}

// Update handles messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.Width = max(msg.Width-12, 10)
		return m, nil

	case MsgSessionRestored:
		m.restoring = false
		if msg.Err != nil {
			m.logger.Warn("failed to restore session", "error", msg.Err)
			m.err = msg.Err
		}
		if msg.State == session.Authenticated {
			return m, m.attach()
		}
		return m, nil

	case MsgSignInURL:
		if m.signingIn {
			m.signInURL = msg.URL
		}
		return m, nil

	case MsgSignedIn:
		m.signingIn = false
		m.signInURL = ""
		if msg.Err != nil {
			m.logger.Error("sign-in failed", "error", msg.Err)
			m.err = msg.Err
			return m, nil
		}
		m.err = nil
		return m, m.attach()

	case MsgSignedOut:
		if msg.Err != nil {
			m.logger.Error("sign-out failed", "error", msg.Err)
		}
		m.vm = nil
		m.pending = &noticeQueue{}
		m.tasks = nil
		m.notices = nil
		m.cursor = 0
		m.busy = false
		m.input.Reset()
		m.input.Blur()
		return m, nil

	case MsgSubmitted:
		if msg.vm != m.vm {
			return m, nil
		}
		if msg.Err == nil {
			m.input.Reset()
		}
		m.sync()
		return m, nil

	case MsgTasksChanged:
		if msg.vm != m.vm {
			return m, nil
		}
		m.sync()
		return m, nil
	}

	return m, nil
}

// sync copies the view-model's tasks and queued notices into the model.
func (m *Model) sync() {
	m.busy = false
	m.notices = append(m.notices, m.pending.drain()...)
	if m.vm == nil {
		return
	}
	m.tasks = m.vm.Tasks()
	if m.cursor >= len(m.tasks) {
		m.cursor = max(len(m.tasks)-1, 0)
	}
}

// handleKey handles key events.
func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.ForceQuit) {
		return m, tea.Quit
	}

	// A notice blocks everything until dismissed.
	if len(m.notices) > 0 {
		if key.Matches(msg, m.keys.Dismiss) {
			m.notices = m.notices[1:]
		}
		return m, nil
	}

	if m.gate.State() != session.Authenticated || m.vm == nil {
		return m.handleLoginKey(msg)
	}

	if key.Matches(msg, m.keys.Focus) {
		return m, m.toggleFocus()
	}
	if key.Matches(msg, m.keys.SignOut) {
		return m, m.signOut()
	}

	if m.focus == focusInput {
		return m.handleInputKey(msg)
	}
	return m.handleListKey(msg)
}

func (m *Model) handleLoginKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.SignIn):
		if m.signingIn || m.restoring {
			return m, nil
		}
		m.signingIn = true
		m.err = nil
		return m, m.startSignIn()
	}
	return m, nil
}

func (m *Model) handleInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Submit) {
		return m, m.submit()
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.vm.SetInput(m.input.Value())
	return m, cmd
}

func (m *Model) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil

	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.tasks)-1 {
			m.cursor++
		}
		return m, nil

	case key.Matches(msg, m.keys.Toggle):
		task, ok := m.selected()
		if !ok {
			return m, nil
		}
		return m, m.run(func(vm *viewmodel.ViewModel) { _ = vm.Toggle(m.ctx, task.Name) })

	case key.Matches(msg, m.keys.Delete):
		task, ok := m.selected()
		if !ok {
			return m, nil
		}
		return m, m.run(func(vm *viewmodel.ViewModel) { _ = vm.Remove(m.ctx, task.Name) })

	case key.Matches(msg, m.keys.Refresh):
		return m, m.run(func(vm *viewmodel.ViewModel) { _ = vm.Refresh(m.ctx) })
	}
	return m, nil
}

func (m *Model) toggleFocus() tea.Cmd {
	if m.focus == focusInput {
		m.focus = focusList
		m.input.Blur()
		return nil
	}
	m.focus = focusInput
	return m.input.Focus()
}

// Run starts the TUI and blocks until the user quits or ctx is cancelled.
func Run(ctx context.Context, gate *session.Gate, newService ServiceFactory, opts Options) error {
	p := tea.NewProgram(New(ctx, gate, newService, opts), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}
