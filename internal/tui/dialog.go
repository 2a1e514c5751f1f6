package tui

import (
	"context"
	"errors"
	"io"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// dialogRequest asks the running program to show a modal. The answer goes
// back on reply, which is buffered so the model never blocks on it.
type dialogRequest struct {
	title   string
	content string
	inform  bool
	reply   chan bool
}

// ModalDialog shows confirmations inside a running full-screen program.
// Confirm and Inform block the calling goroutine until the modal closes,
// so they must be called from a tea.Cmd, never from Update.
type ModalDialog struct {
	requests chan dialogRequest
}

func NewModalDialog() *ModalDialog {
	return &ModalDialog{requests: make(chan dialogRequest)}
}

func (d *ModalDialog) Confirm(ctx context.Context, title, content string) (bool, error) {
	return d.ask(ctx, dialogRequest{title: title, content: content, reply: make(chan bool, 1)})
}

func (d *ModalDialog) Inform(ctx context.Context, title, content string) error {
	_, err := d.ask(ctx, dialogRequest{title: title, content: content, inform: true, reply: make(chan bool, 1)})
	return err
}

func (d *ModalDialog) ask(ctx context.Context, req dialogRequest) (bool, error) {
	select {
	case d.requests <- req:
	case <-ctx.Done():
		return false, nil
	}
	select {
	case answer := <-req.reply:
		return answer, nil
	case <-ctx.Done():
		return false, nil
	}
}

// wait delivers the next request to the program as a message
func (d *ModalDialog) wait() tea.Cmd {
	return func() tea.Msg {
		return <-d.requests
	}
}

// modalModel is a yes/no (or OK-only) box drawn over the screen
type modalModel struct {
	title   string
	content string
	inform  bool
	choice  bool // true for Yes
}

func newModal(req dialogRequest) modalModel {
	return modalModel{title: req.title, content: req.content, inform: req.inform}
}

// update handles a key press. closed is true once the user has answered.
func (m modalModel) update(msg tea.KeyMsg) (next modalModel, closed, answer bool) {
	if m.inform {
		switch msg.String() {
		case "enter", "esc", "q", " ", "ctrl+c":
			return m, true, true
		}
		return m, false, false
	}
	switch msg.String() {
	case "left", "right", "tab", "h", "l":
		m.choice = !m.choice
	case "y", "Y":
		return m, true, true
	case "n", "N", "esc", "ctrl+c":
		return m, true, false
	case "enter":
		return m, true, m.choice
	}
	return m, false, false
}

func (m modalModel) view() string {
	var b strings.Builder

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(ColorPrimaryText))
	b.WriteString(titleStyle.Render(m.title))
	b.WriteString("\n\n")
	b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(ColorSecondaryText)).Render(m.content))
	b.WriteString("\n\n")

	hintStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorHelpText))
	if m.inform {
		okStyle := lipgloss.NewStyle().
			Padding(0, 2).
			Background(lipgloss.Color(ColorAccentBright)).
			Foreground(lipgloss.Color("#000000")).
			Bold(true)
		b.WriteString(okStyle.Render("OK"))
		b.WriteString("\n\n")
		b.WriteString(hintStyle.Render("Enter or Esc to close"))
	} else {
		yesStyle := lipgloss.NewStyle().Padding(0, 2)
		noStyle := lipgloss.NewStyle().Padding(0, 2)
		if m.choice {
			yesStyle = yesStyle.
				Background(lipgloss.Color(ColorError)).
				Foreground(lipgloss.Color("#FFFFFF")).
				Bold(true)
		} else {
			noStyle = noStyle.
				Background(lipgloss.Color(ColorAccentBright)).
				Foreground(lipgloss.Color("#000000")).
				Bold(true)
		}
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Center,
			yesStyle.Render("Confirm"), "   ", noStyle.Render("Cancel")))
		b.WriteString("\n\n")
		b.WriteString(hintStyle.Render("← → or Y/N to choose, Enter to confirm, Esc to cancel"))
	}

	return lipgloss.NewStyle().
		Width(56).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(ColorAccentBright)).
		Padding(1).
		Align(lipgloss.Center).
		Render(b.String())
}

// PromptDialog runs a small stand-alone program for each question. Used by
// commands that are not already inside the full-screen UI.
type PromptDialog struct {
	In  io.Reader
	Out io.Writer
}

func (d PromptDialog) Confirm(ctx context.Context, title, content string) (bool, error) {
	return d.run(ctx, modalModel{title: title, content: content})
}

func (d PromptDialog) Inform(ctx context.Context, title, content string) error {
	_, err := d.run(ctx, modalModel{title: title, content: content, inform: true})
	return err
}

func (d PromptDialog) run(ctx context.Context, modal modalModel) (bool, error) {
	opts := []tea.ProgramOption{tea.WithContext(ctx)}
	if d.In != nil {
		opts = append(opts, tea.WithInput(d.In))
	}
	if d.Out != nil {
		opts = append(opts, tea.WithOutput(d.Out))
	}

	final, err := tea.NewProgram(promptModel{modal: modal}, opts...).Run()
	if err != nil {
		if ctx.Err() != nil || errors.Is(err, tea.ErrProgramKilled) {
			return false, nil
		}
		return false, err
	}
	m, ok := final.(promptModel)
	return ok && m.answer, nil
}

type promptModel struct {
	modal  modalModel
	answer bool
	closed bool
}

func (m promptModel) Init() tea.Cmd { return nil }

func (m promptModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		var closed bool
		m.modal, closed, m.answer = m.modal.update(msg)
		if closed {
			m.closed = true
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m promptModel) View() string {
	if m.closed {
		return ""
	}
	return m.modal.view() + "\n"
}
