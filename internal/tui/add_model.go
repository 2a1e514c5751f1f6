package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/balkashynov/todo/internal/models"
	"github.com/balkashynov/todo/internal/parser"
	"github.com/balkashynov/todo/internal/todo"
)

// Field represents the focused form field
type Field int

const (
	FieldTask Field = iota
	FieldPriority
	FieldDue
	fieldCount
)

// formAction is what the form asks its parent to do after a key press
type formAction int

const (
	formNone formAction = iota
	formSubmit
	formSaveAsNew
	formCancel
)

// AddTaskModel is the add/edit form shown over the list
type AddTaskModel struct {
	focus    Field
	text     textinput.Model
	due      textinput.Model
	priority models.Priority
	editing  bool
	now      func() time.Time

	validationErr string
}

// NewAddTaskModel creates the form pre-filled from f
func NewAddTaskModel(f todo.Form, editing bool, now func() time.Time) AddTaskModel {
	newInput := func(placeholder string, limit int) textinput.Model {
		in := textinput.New()
		in.Width = 60
		in.CharLimit = limit
		in.Placeholder = placeholder
		in.TextStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorPrimaryText))
		in.PlaceholderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorPlaceholder))
		in.Cursor.Style = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorAccentBright))
		return in
	}

	m := AddTaskModel{
		text:     newInput("What needs doing? (+high due:3d work too)", 200),
		due:      newInput("yyyy-mm-dd, dd/mm/yyyy, tomorrow, 3 days, 2 weeks", 30),
		priority: f.Priority,
		editing:  editing,
		now:      now,
	}
	if !m.priority.Valid() {
		m.priority = models.PriorityNormal
	}
	m.text.SetValue(f.Task)
	if !f.DueDate.IsZero() {
		m.due.SetValue(f.DueDate.Format(models.DateLayout))
	}
	m.text.Focus()
	return m
}

// Init initializes the model
func (m AddTaskModel) Init() tea.Cmd {
	return textinput.Blink
}

// update handles a key press and reports what the parent should do next
func (m AddTaskModel) update(msg tea.Msg) (AddTaskModel, formAction, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "esc":
			return m, formCancel, nil
		case "enter":
			return m, formSubmit, nil
		case "ctrl+n":
			if m.editing {
				return m, formSaveAsNew, nil
			}
			return m, formSubmit, nil
		case "tab", "down":
			return m.setFocus((m.focus + 1) % fieldCount), formNone, nil
		case "shift+tab", "up":
			return m.setFocus((m.focus + fieldCount - 1) % fieldCount), formNone, nil
		}

		if m.focus == FieldPriority {
			switch msg.String() {
			case "right", " ", "l":
				m.priority = m.priority.Next()
			case "left", "h":
				m.priority = m.priority.Next().Next()
			case "1":
				m.priority = models.PriorityLow
			case "2":
				m.priority = models.PriorityNormal
			case "3":
				m.priority = models.PriorityHigh
			}
			return m, formNone, nil
		}
	}

	var cmd tea.Cmd
	switch m.focus {
	case FieldTask:
		m.text, cmd = m.text.Update(msg)
	case FieldDue:
		m.due, cmd = m.due.Update(msg)
	}
	return m, formNone, cmd
}

func (m AddTaskModel) setFocus(f Field) AddTaskModel {
	m.focus = f
	m.text.Blur()
	m.due.Blur()
	switch f {
	case FieldTask:
		m.text.Focus()
	case FieldDue:
		m.due.Focus()
	}
	return m
}

// form converts the inputs into a todo.Form. Inline "+priority" and
// "due:" tokens in the text override the other fields.
func (m AddTaskModel) form() (todo.Form, error) {
	now := m.now()
	parsed := parser.ParseTitle(m.text.Value(), now)
	if len(parsed.Errors) > 0 {
		return todo.Form{}, fmt.Errorf("%s", strings.Join(parsed.Errors, "; "))
	}

	f := todo.Form{Task: parsed.Task, Priority: m.priority, DueDate: parsed.DueDate}
	if parsed.Priority != "" {
		f.Priority = parsed.Priority
	}
	if f.DueDate.IsZero() {
		due, err := parser.ParseDueDate(m.due.Value(), now)
		if err != nil {
			return todo.Form{}, err
		}
		f.DueDate = due
	}
	return f, nil
}

// View renders the form
func (m AddTaskModel) View() string {
	var b strings.Builder

	heading := "New todo"
	if m.editing {
		heading = "Edit todo"
	}
	b.WriteString(lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(ColorAccentBright)).Render(heading))
	b.WriteString("\n\n")

	label := func(f Field, s string) string {
		style := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorSecondaryText))
		if m.focus == f {
			style = style.Foreground(lipgloss.Color(ColorAccentBright)).Bold(true)
		}
		return style.Render(s)
	}

	b.WriteString(label(FieldTask, "Task"))
	b.WriteString("\n")
	b.WriteString(m.text.View())
	b.WriteString("\n\n")

	b.WriteString(label(FieldPriority, "Priority"))
	b.WriteString("\n")
	var opts []string
	for _, p := range models.Priorities() {
		style := lipgloss.NewStyle().Padding(0, 1).Foreground(PriorityColor(p))
		if p == m.priority {
			style = style.Reverse(true).Bold(true)
		}
		opts = append(opts, style.Render(p.String()))
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Center, opts...))
	b.WriteString("\n\n")

	b.WriteString(label(FieldDue, "Due date"))
	b.WriteString("\n")
	b.WriteString(m.due.View())
	b.WriteString("\n")

	if m.validationErr != "" {
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(ColorError)).Render("✗ " + m.validationErr))
		b.WriteString("\n")
	}

	hint := "tab next field · ←/→ priority · enter save · esc cancel"
	if m.editing {
		hint = "tab next field · ←/→ priority · enter update · ctrl+n save as new · esc cancel"
	}
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(ColorHelpText)).Italic(true).Render(hint))

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(ColorAccentMain)).
		Padding(1, 2).
		Render(b.String())
}
