// Package tui is the terminal dashboard for student records. It renders a
// dashboard.State and feeds key presses and remote results back through
// dashboard.Reduce.
package tui

import (
	"context"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/aanand-mishra/student-records/internal/dashboard"
	"github.com/aanand-mishra/student-records/internal/storage"
	"github.com/aanand-mishra/student-records/internal/types"
)

// actionMsg carries a dashboard action into Update, either from Init or
// from a finished remote call.
type actionMsg struct{ action dashboard.Action }

// Model is the bubbletea model of the records screen.
type Model struct {
	ctx   context.Context
	store storage.Store
	log   *slog.Logger

	state dashboard.State

	table     table.Model
	search    textinput.Model
	searching bool
	inputs    []textinput.Model
	focus     int

	width  int
	height int
	styles Styles
}

// New creates the screen for ownerID. Remote calls run with ctx; once it
// is cancelled their results are dropped.
func New(ctx context.Context, store storage.Store, ownerID string, log *slog.Logger) Model {
	if log == nil {
		log = slog.Default()
	}

	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "Name", Width: 26},
			{Title: "Enrollment", Width: 12},
			{Title: "E-mail", Width: 30},
			{Title: "Birth date", Width: 10},
		}),
		table.WithFocused(true),
		table.WithHeight(12),
	)

	search := newInput("Search by name or enrollment code...", 60)
	search.Prompt = "/ "

	inputs := make([]textinput.Model, len(dashboard.Fields))
	for i, f := range dashboard.Fields {
		inputs[i] = newInput(placeholder(f), 120)
	}

	return Model{
		ctx:    ctx,
		store:  store,
		log:    log.With("component", "tui"),
		state:  dashboard.Initial(ownerID),
		table:  t,
		search: search,
		inputs: inputs,
		styles: DefaultStyles(),
	}
}

func newInput(ph string, limit int) textinput.Model {
	ti := textinput.New()
	ti.Placeholder = ph
	ti.CharLimit = limit
	ti.Width = 40
	ti.Cursor.SetMode(cursor.CursorStatic)
	return ti
}

func placeholder(f dashboard.Field) string {
	switch f {
	case dashboard.FieldEmail:
		return "name@example.com"
	case dashboard.FieldBirthDate:
		return "YYYY-MM-DD"
	default:
		return f.String()
	}
}

// State returns the dashboard state currently rendered.
func (m Model) State() dashboard.State { return m.state }

// Init starts the initial list fetch.
func (m Model) Init() tea.Cmd {
	return func() tea.Msg { return actionMsg{action: dashboard.Mounted{}} }
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		if h := msg.Height - 12; h > 3 {
			m.table.SetHeight(h)
		}
		return m, nil

	case actionMsg:
		dashboard.LogOutcome(m.log, msg.action)
		return m.dispatch(msg.action)

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		switch {
		case m.state.Confirm.Open:
			return m.updateConfirm(msg)
		case m.state.Form.Open:
			return m.updateForm(msg)
		case m.searching:
			return m.updateSearch(msg)
		default:
			return m.updateList(msg)
		}
	}
	return m, nil
}

func (m Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "/":
		m.searching = true
		m.search.Focus()
		return m, nil
	case "n":
		return m.dispatch(dashboard.NewRequested{})
	case "e", "enter":
		if s, ok := m.selected(); ok {
			return m.dispatch(dashboard.EditRequested{Student: s})
		}
		return m, nil
	case "d":
		if s, ok := m.selected(); ok {
			return m.dispatch(dashboard.DeleteRequested{ID: s.ID})
		}
		return m, nil
	case "esc":
		return m.dispatch(dashboard.NoticeDismissed{})
	}

	m.table, _ = m.table.Update(msg)
	return m, nil
}

func (m Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "enter":
		m.searching = false
		m.search.Blur()
		return m, nil
	}

	before := m.search.Value()
	m.search, _ = m.search.Update(msg)
	if v := m.search.Value(); v != before {
		return m.dispatch(dashboard.SearchChanged{Term: v})
	}
	return m, nil
}

func (m Model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.state.Form.Submitting {
		return m, nil
	}

	switch msg.String() {
	case "esc":
		return m.dispatch(dashboard.FormCancelled{})
	case "ctrl+s":
		return m.dispatch(dashboard.Submitted{})
	case "tab", "down":
		m.focusField(m.focus + 1)
		return m, nil
	case "shift+tab", "up":
		m.focusField(m.focus - 1)
		return m, nil
	case "enter":
		if m.focus == len(m.inputs)-1 {
			return m.dispatch(dashboard.Submitted{})
		}
		m.focusField(m.focus + 1)
		return m, nil
	}

	before := m.inputs[m.focus].Value()
	m.inputs[m.focus], _ = m.inputs[m.focus].Update(msg)
	if v := m.inputs[m.focus].Value(); v != before {
		return m.dispatch(dashboard.FieldChanged{Field: dashboard.Fields[m.focus], Value: v})
	}
	return m, nil
}

func (m Model) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y":
		return m.dispatch(dashboard.DeleteConfirmed{})
	case "n", "esc":
		return m.dispatch(dashboard.DeleteCancelled{})
	}
	return m, nil
}

// dispatch reduces a into the state and turns a requested effect into a
// command. The record set is only ever replaced here, on the event loop.
func (m Model) dispatch(a dashboard.Action) (tea.Model, tea.Cmd) {
	wasOpen := m.state.Form.Open
	next, eff := dashboard.Reduce(m.state, a)
	m.state = next

	if !wasOpen && m.state.Form.Open {
		m.openForm()
	}
	m.syncRows()

	if eff == nil {
		return m, nil
	}
	return m, m.run(eff)
}

func (m Model) run(eff dashboard.Effect) tea.Cmd {
	ctx, st := m.ctx, m.store
	return func() tea.Msg {
		a := dashboard.Execute(ctx, st, eff)
		if ctx.Err() != nil {
			return nil
		}
		return actionMsg{action: a}
	}
}

func (m *Model) openForm() {
	for i, f := range dashboard.Fields {
		m.inputs[i].SetValue(f.Get(m.state.Form.Draft))
		m.inputs[i].CursorEnd()
	}
	m.focusField(0)
}

func (m *Model) focusField(i int) {
	n := len(m.inputs)
	m.focus = ((i % n) + n) % n
	for j := range m.inputs {
		if j == m.focus {
			m.inputs[j].Focus()
		} else {
			m.inputs[j].Blur()
		}
	}
}

func (m *Model) syncRows() {
	rows := make([]table.Row, 0, len(m.state.Filtered))
	for _, s := range m.state.Filtered {
		rows = append(rows, table.Row{s.FullName, s.EnrollmentCode, s.Email, FormatDate(s.BirthDate)})
	}
	m.table.SetRows(rows)
	if c := m.table.Cursor(); c >= len(rows) && len(rows) > 0 {
		m.table.SetCursor(len(rows) - 1)
	}
}

func (m Model) selected() (types.Student, bool) {
	c := m.table.Cursor()
	if c < 0 || c >= len(m.state.Filtered) {
		return types.Student{}, false
	}
	return m.state.Filtered[c], true
}

// FormatDate renders a stored YYYY-MM-DD date as dd/mm/yyyy. Values that
// do not parse are returned unchanged.
func FormatDate(s string) string {
	t, err := time.Parse(types.DateLayout, s)
	if err != nil {
		return s
	}
	return t.Format("02/01/2006")
}
