package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/x/ansi"

	"github.com/balkashynov/todo/internal/config"
	"github.com/balkashynov/todo/internal/logging"
	"github.com/balkashynov/todo/internal/models"
	"github.com/balkashynov/todo/internal/parser"
	"github.com/balkashynov/todo/internal/todo"
)

// cardHeight is one card plus its border
const cardHeight = 3

type taskDeletedMsg struct {
	id      string
	removed bool
	err     error
}

type aboutClosedMsg struct{ err error }

// Options configures the list screen
type Options struct {
	Keys   config.Keymap
	Logger *log.Logger
	Now    func() time.Time
}

// ListModel is the main screen: the task cards, the form and any open modal
type ListModel struct {
	ctx    context.Context
	cancel context.CancelFunc
	ctrl   *todo.Controller
	dialog *ModalDialog
	keys   keyMap
	help   help.Model
	logger *log.Logger
	now    func() time.Time

	width  int
	height int

	selectedTask int // index in the view
	currentPage  int
	tasksPerPage int

	form  *AddTaskModel
	modal *modalModel
	reply chan bool
	busy  bool // a dialog-backed operation is running

	status string
	err    error
}

// NewListModel creates the main screen over ctrl. dialog must be the same
// ModalDialog the controller was built with.
func NewListModel(ctx context.Context, ctrl *todo.Controller, dialog *ModalDialog, opts Options) ListModel {
	if opts.Logger == nil {
		opts.Logger = logging.Discard()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	ctx, cancel := context.WithCancel(ctx)
	return ListModel{
		ctx:          ctx,
		cancel:       cancel,
		ctrl:         ctrl,
		dialog:       dialog,
		keys:         newKeyMap(opts.Keys),
		help:         help.New(),
		logger:       opts.Logger,
		now:          opts.Now,
		tasksPerPage: 5,
	}
}

// Init initializes the model
func (m ListModel) Init() tea.Cmd {
	return m.dialog.wait()
}

// Update handles messages
func (m ListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width

		// header(2) + banner(2) + status(2) + help(2)
		available := m.height - 8
		m.tasksPerPage = max(available/cardHeight, 1)
		return m.clampSelection(), nil

	case dialogRequest:
		modal := newModal(msg)
		m.modal = &modal
		m.reply = msg.reply
		return m, nil

	case taskDeletedMsg:
		m.busy = false
		switch {
		case msg.err != nil:
			m.setError("delete", msg.err)
		case msg.removed:
			m.status = "Todo deleted"
		default:
			m.status = "Delete cancelled"
		}
		return m.clampSelection(), nil

	case aboutClosedMsg:
		m.busy = false
		if msg.err != nil {
			m.setError("about", msg.err)
		}
		return m, nil

	case tea.KeyMsg:
		if m.modal != nil {
			return m.handleModalKeys(msg)
		}
		if m.form != nil {
			return m.handleFormKeys(msg)
		}
		return m.handleListKeys(msg)
	}

	if m.form != nil {
		form, _, cmd := m.form.update(msg)
		m.form = &form
		return m, cmd
	}
	return m, nil
}

func (m ListModel) handleModalKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	modal, closed, answer := m.modal.update(msg)
	if !closed {
		m.modal = &modal
		return m, nil
	}
	m.reply <- answer
	m.modal = nil
	m.reply = nil
	return m, m.dialog.wait()
}

func (m ListModel) handleFormKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	form, action, cmd := m.form.update(msg)
	m.form = &form

	switch action {
	case formCancel:
		m.ctrl.CancelEdit()
		m.form = nil
		m.status = ""
	case formSubmit, formSaveAsNew:
		return m.submitForm(action), nil
	}
	return m, cmd
}

func (m ListModel) submitForm(action formAction) ListModel {
	f, err := m.form.form()
	if err != nil {
		m.form.validationErr = err.Error()
		return m
	}
	m.ctrl.SetForm(f)

	_, editing := m.ctrl.Editing()
	update := editing && action == formSubmit
	if update {
		err = m.ctrl.ValidateForm()
	} else {
		err = f.Validate(m.now(), models.Date{})
	}
	if err != nil {
		m.form.validationErr = strings.ReplaceAll(err.Error(), "\n", "; ")
		return m
	}

	if update {
		ok, err := m.ctrl.CommitEdit(m.ctx)
		if err != nil {
			m.form.validationErr = err.Error()
			m.logger.Error("update failed", "err", err)
			return m
		}
		if ok {
			m.status = "Todo updated"
		} else {
			m.ctrl.CancelEdit()
			m.status = "That todo no longer exists"
		}
	} else {
		task, err := m.ctrl.CreateFromForm(m.ctx)
		if err != nil {
			m.form.validationErr = err.Error()
			m.logger.Error("create failed", "err", err)
			return m
		}
		m.status = fmt.Sprintf("Added %q", task.Task)
	}
	m.form = nil
	m.err = nil
	return m.clampSelection()
}

func (m ListModel) handleListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.cancel()
		return m, tea.Quit

	case key.Matches(msg, m.keys.Up):
		return m.moveSelectionUp(), nil

	case key.Matches(msg, m.keys.Down):
		return m.moveSelectionDown(), nil

	case key.Matches(msg, m.keys.PrevPage):
		return m.prevPage(), nil

	case key.Matches(msg, m.keys.NextPage):
		return m.nextPage(), nil

	case key.Matches(msg, m.keys.New):
		m.ctrl.ResetForm()
		form := NewAddTaskModel(m.ctrl.Form(), false, m.now)
		m.form = &form
		return m, form.Init()

	case key.Matches(msg, m.keys.Edit):
		task, ok := m.selected()
		if !ok {
			return m, nil
		}
		if !task.Editable() {
			m.status = "Completed todos can't be edited. Mark it as not done first."
			return m, nil
		}
		if m.ctrl.StartEdit(task.TaskID) {
			form := NewAddTaskModel(m.ctrl.Form(), true, m.now)
			m.form = &form
			return m, form.Init()
		}
		return m, nil

	case key.Matches(msg, m.keys.Toggle):
		task, ok := m.selected()
		if !ok {
			return m, nil
		}
		if _, err := m.ctrl.SetCompletion(m.ctx, task.TaskID, !task.Completed); err != nil {
			m.setError("update", err)
		}
		return m, nil

	case key.Matches(msg, m.keys.Delete):
		task, ok := m.selected()
		if !ok || m.busy {
			return m, nil
		}
		m.busy = true
		ctx, ctrl, id := m.ctx, m.ctrl, task.TaskID
		return m, func() tea.Msg {
			removed, err := ctrl.Delete(ctx, id)
			return taskDeletedMsg{id: id, removed: removed, err: err}
		}

	case key.Matches(msg, m.keys.HideLow):
		return m.togglePriority(models.PriorityLow), nil
	case key.Matches(msg, m.keys.HideNormal):
		return m.togglePriority(models.PriorityNormal), nil
	case key.Matches(msg, m.keys.HideHigh):
		return m.togglePriority(models.PriorityHigh), nil

	case key.Matches(msg, m.keys.SortPriority):
		return m.sortBy(todo.SortPriority), nil
	case key.Matches(msg, m.keys.SortDue):
		return m.sortBy(todo.SortDueDate), nil
	case key.Matches(msg, m.keys.SortAlpha):
		return m.sortBy(todo.SortAlpha), nil

	case key.Matches(msg, m.keys.SortDirection):
		k, dir := m.ctrl.SortState()
		m.ctrl.Sort(k, dir.Toggle())
		return m, nil

	case key.Matches(msg, m.keys.About):
		if m.busy {
			return m, nil
		}
		m.busy = true
		ctx, ctrl := m.ctx, m.ctrl
		return m, func() tea.Msg {
			return aboutClosedMsg{err: ctrl.About(ctx)}
		}
	}
	return m, nil
}

func (m ListModel) togglePriority(p models.Priority) ListModel {
	m.ctrl.TogglePriority(p)
	return m.clampSelection()
}

func (m ListModel) sortBy(k todo.SortKey) ListModel {
	_, dir := m.ctrl.SortState()
	m.ctrl.Sort(k, dir)
	return m
}

func (m *ListModel) setError(op string, err error) {
	m.err = fmt.Errorf("%s: %w", op, err)
	m.logger.Error("operation failed", "op", op, "err", err)
}

func (m ListModel) selected() (models.Task, bool) {
	view := m.ctrl.View()
	if m.selectedTask < 0 || m.selectedTask >= len(view) {
		return models.Task{}, false
	}
	return view[m.selectedTask], true
}

// clampSelection keeps the selection and page inside the current view
func (m ListModel) clampSelection() ListModel {
	n := len(m.ctrl.View())
	if m.selectedTask >= n {
		m.selectedTask = n - 1
	}
	if m.selectedTask < 0 {
		m.selectedTask = 0
	}
	m.currentPage = m.selectedTask / m.tasksPerPage
	return m
}

func (m ListModel) moveSelectionUp() ListModel {
	if m.selectedTask > 0 {
		m.selectedTask--
		if m.selectedTask < m.currentPage*m.tasksPerPage && m.currentPage > 0 {
			m.currentPage--
		}
	}
	return m
}

func (m ListModel) moveSelectionDown() ListModel {
	n := len(m.ctrl.View())
	if m.selectedTask < n-1 {
		m.selectedTask++
		if m.selectedTask >= (m.currentPage+1)*m.tasksPerPage {
			m.currentPage++
		}
	}
	return m
}

func (m ListModel) pageCount() int {
	return (len(m.ctrl.View()) + m.tasksPerPage - 1) / m.tasksPerPage
}

func (m ListModel) prevPage() ListModel {
	if m.currentPage > 0 {
		m.currentPage--
		m.selectedTask = m.currentPage * m.tasksPerPage
	}
	return m
}

func (m ListModel) nextPage() ListModel {
	if m.currentPage < m.pageCount()-1 {
		m.currentPage++
		m.selectedTask = m.currentPage * m.tasksPerPage
	}
	return m
}

// View renders the TUI
func (m ListModel) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	if m.modal != nil {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, m.modal.view())
	}
	if m.form != nil {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, m.form.View())
	}

	sections := []string{m.renderHeader()}
	if banner := m.renderBanner(); banner != "" {
		sections = append(sections, banner)
	}
	sections = append(sections, m.renderCards(), m.renderStatus(), m.help.View(m.keys))
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m ListModel) renderHeader() string {
	total, visible, done := m.ctrl.Counts()
	title := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(ColorAccentBright)).Render("Todo list")

	info := fmt.Sprintf("%d todos · %d done", total, done)
	if hidden := total - visible; hidden > 0 {
		info += fmt.Sprintf(" · %d hidden", hidden)
	}
	if k, dir := m.ctrl.SortState(); k != todo.SortNone {
		arrow := "↑"
		if dir == todo.Desc {
			arrow = "↓"
		}
		info += fmt.Sprintf(" · sorted by %s %s", sortLabel(k), arrow)
	}
	return title + "  " + lipgloss.NewStyle().Foreground(lipgloss.Color(ColorSecondaryText)).Render(info) + "\n"
}

func sortLabel(k todo.SortKey) string {
	switch k {
	case todo.SortDueDate:
		return "due date"
	case todo.SortAlpha:
		return "name"
	default:
		return string(k)
	}
}

// renderBanner warns when the priority filter hides tasks
func (m ListModel) renderBanner() string {
	style := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorWarning)).Bold(true)
	switch {
	case m.ctrl.HasAllHidden():
		return style.Render("⚠ All todos are hidden by the priority filter. Press 1, 2 or 3 to show them.")
	case m.ctrl.HasSomeHidden():
		var parts []string
		for _, p := range m.ctrl.PrioritiesWithHidden() {
			parts = append(parts, fmt.Sprintf("%s (%d)", p, len(m.ctrl.QueryHiddenByPriority(p))))
		}
		return style.Render("⚠ Hidden: " + strings.Join(parts, ", "))
	}
	return ""
}

func (m ListModel) renderCards() string {
	view := m.ctrl.View()
	if len(view) == 0 {
		if m.ctrl.HasAllHidden() {
			return ""
		}
		return lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorSecondaryText)).
			Italic(true).
			Render("No todos yet. Press " + m.keys.New.Help().Key + " to add one.")
	}

	start := m.currentPage * m.tasksPerPage
	end := min(start+m.tasksPerPage, len(view))
	now := m.now()
	width := max(m.width-2, 40)

	var b strings.Builder
	for i := start; i < end; i++ {
		b.WriteString(renderCard(view[i], i == m.selectedTask, width, now))
		b.WriteString("\n")
	}

	if pages := m.pageCount(); pages > 1 {
		b.WriteString(lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorHelpText)).
			Render(fmt.Sprintf("Page %d/%d", m.currentPage+1, pages)))
		b.WriteString("\n")
	}
	return b.String()
}

func renderCard(t models.Task, selected bool, width int, now time.Time) string {
	color := cardColor(t)

	check := "○"
	textStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorPrimaryText))
	if t.Completed {
		check = "✓"
		textStyle = lipgloss.NewStyle().Foreground(color).Strikethrough(true)
	}

	dueStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorSecondaryText))
	switch {
	case t.Completed:
		dueStyle = dueStyle.Foreground(lipgloss.Color(ColorDisabledText))
	case parser.DaysUntil(t.DueDate, now) < 0:
		dueStyle = dueStyle.Foreground(lipgloss.Color(ColorError))
	}

	badge := lipgloss.NewStyle().Foreground(color).Bold(true).Render(strings.ToUpper(t.Priority.String()))
	due := dueStyle.Render(parser.FormatDueDate(t.DueDate, now))
	right := badge + "  " + due

	textWidth := max(width-lipgloss.Width(right)-10, 10)
	// cut by cell width, wide runes take two cells
	text := ansi.Truncate(t.Task, textWidth, "...")
	left := lipgloss.NewStyle().Foreground(color).Render(check) + " " + textStyle.Render(text)
	gap := max(width-4-lipgloss.Width(left)-lipgloss.Width(right), 1)

	border := lipgloss.RoundedBorder()
	borderColor := color
	if selected {
		border = lipgloss.ThickBorder()
		borderColor = lipgloss.Color(ColorAccentMain)
	}
	return lipgloss.NewStyle().
		Border(border).
		BorderForeground(borderColor).
		Padding(0, 1).
		Width(width - 2).
		Render(left + strings.Repeat(" ", gap) + right)
}

func (m ListModel) renderStatus() string {
	if m.err != nil {
		return lipgloss.NewStyle().Foreground(lipgloss.Color(ColorError)).Render("✗ " + m.err.Error())
	}
	if m.status != "" {
		return lipgloss.NewStyle().Foreground(lipgloss.Color(ColorSuccess)).Render(m.status)
	}
	return ""
}
