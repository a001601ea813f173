package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/aanand-mishra/student-records/internal/dashboard"
)

// View renders the screen.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(m.styles.Title.Render("Students"))
	b.WriteString("\n")
	b.WriteString(m.search.View())
	b.WriteString("\n")

	switch {
	case m.state.Loading:
		b.WriteString(m.styles.Hint.Render("Loading students..."))
	case len(m.state.Filtered) == 0:
		b.WriteString(m.emptyView())
	default:
		b.WriteString(m.table.View())
	}

	if m.state.Form.Open {
		b.WriteString("\n")
		b.WriteString(m.formView())
	}
	if m.state.Confirm.Open {
		b.WriteString("\n")
		b.WriteString(m.confirmView())
	}
	if n := m.noticeView(); n != "" {
		b.WriteString("\n")
		b.WriteString(n)
	}

	b.WriteString("\n")
	b.WriteString(m.styles.Help.Render(m.helpText()))
	return b.String()
}

func (m Model) emptyView() string {
	hint := "Start by adding a new student"
	if m.state.Search != "" {
		hint = "Try other search terms"
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		m.styles.Empty.Render("No students found"),
		m.styles.Hint.Render(hint),
	)
}

func (m Model) formView() string {
	title := "New student"
	if m.state.Form.Editing() {
		title = "Edit student"
	}

	lines := []string{m.styles.Title.Render(title)}
	for i, f := range dashboard.Fields {
		lines = append(lines, m.styles.Label.Render(f.String())+m.inputs[i].View())
	}
	if m.state.Form.Submitting {
		lines = append(lines, m.styles.Hint.Render("Saving..."))
	}
	return m.styles.Dialog.Render(strings.Join(lines, "\n"))
}

func (m Model) confirmView() string {
	text := "Delete this student? This cannot be undone. (y/n)"
	if m.state.Confirm.Deleting {
		text = "Deleting..."
	}
	return m.styles.Dialog.Render(text)
}

func (m Model) noticeView() string {
	n := m.state.Notice
	if n == nil {
		return ""
	}
	text := n.Title
	if n.Detail != "" {
		text += ": " + n.Detail
	}
	if n.Kind == dashboard.NoticeError {
		return m.styles.Error.Render(text)
	}
	return m.styles.Success.Render(text)
}

func (m Model) helpText() string {
	switch {
	case m.state.Confirm.Open:
		return "y confirm • n cancel"
	case m.state.Form.Open:
		return "tab next field • ctrl+s save • esc cancel"
	case m.searching:
		return "enter/esc done"
	default:
		return "/ search • n new • e edit • d delete • q quit"
	}
}
