package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"tasksync/internal/session"
	"tasksync/internal/viewmodel"
)

const appTitle = "tasksync"

// View renders the TUI.
func (m *Model) View() string {
	if len(m.notices) > 0 {
		return m.viewNotice(m.notices[0])
	}
	return m.styles.App.Render(session.Render(m.gate, m.viewLogin, m.viewTasks))
}

// viewLogin renders the sign-in surface.
func (m *Model) viewLogin() string {
	var b strings.Builder
	b.WriteString(m.styles.Title.Render(appTitle))
	b.WriteString("\n")
	b.WriteString(m.styles.Subtitle.Render("Sign in to see your tasks"))
	b.WriteString("\n")

	switch {
	case m.restoring:
		b.WriteString(m.styles.Empty.Render("Checking stored session..."))
	case m.signingIn && m.signInURL != "":
		b.WriteString("Open this URL in your browser:\n")
		b.WriteString(m.styles.URL.Render(m.signInURL))
		b.WriteString("\n\n")
		b.WriteString(m.styles.Empty.Render("Waiting for sign-in..."))
	case m.signingIn:
		b.WriteString(m.styles.Empty.Render("Starting sign-in..."))
	default:
		b.WriteString("Press enter to sign in.")
	}

	if m.err != nil {
		b.WriteString("\n\n")
		b.WriteString(m.styles.Error.Render("Error: " + m.err.Error()))
	}

	b.WriteString("\n")
	b.WriteString(m.styles.Help.Render(m.help.ShortHelpView(
		[]key.Binding{m.keys.SignIn, m.keys.Quit},
	)))
	return b.String()
}

// viewTasks renders the authenticated surface: header, input, list, help.
func (m *Model) viewTasks(s *session.Session) string {
	var b strings.Builder

	header := m.styles.Title.Render(appTitle)
	if s.Subject != "" {
		header += m.styles.Subtitle.UnsetMarginBottom().Render("  " + s.Subject)
	}
	b.WriteString(header)
	b.WriteString("\n\n")

	if m.vm == nil && m.err != nil {
		b.WriteString(m.styles.Error.Render("Error: " + m.err.Error()))
		b.WriteString("\n")
		return b.String()
	}

	inputStyle := m.styles.InputBlur
	if m.focus == focusInput {
		inputStyle = m.styles.Input
	}
	b.WriteString(inputStyle.Render(m.input.View()))
	b.WriteString("\n\n")

	b.WriteString(m.viewList())

	status := fmt.Sprintf("%d tasks", len(m.tasks))
	if len(m.tasks) == 1 {
		status = "1 task"
	}
	if m.busy {
		status += " · syncing"
	}
	b.WriteString("\n")
	b.WriteString(m.styles.Subtitle.Render(status))

	b.WriteString(m.styles.Help.Render(m.help.View(m.keys)))
	return b.String()
}

func (m *Model) viewList() string {
	if len(m.tasks) == 0 {
		return m.styles.Empty.Render("No tasks yet.") + "\n"
	}

	var b strings.Builder
	for i, task := range m.tasks {
		cursor := "  "
		if m.focus == focusList && i == m.cursor {
			cursor = m.styles.Cursor.Render("▸ ")
		}

		box, style := "[ ]", m.styles.Task
		if viewmodel.Checked(task) {
			box, style = "[x]", m.styles.TaskDone
		}
		b.WriteString(cursor)
		b.WriteString(box)
		b.WriteString(" ")
		b.WriteString(style.Render(task.Name))
		b.WriteString("\n")
	}
	return b.String()
}

// viewNotice renders a blocking notice centered on screen.
func (m *Model) viewNotice(text string) string {
	dialog := m.styles.Dialog.Render(text + "\n\n" + m.styles.Empty.Render("press enter"))
	if m.width == 0 || m.height == 0 {
		return dialog
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, dialog)
}
