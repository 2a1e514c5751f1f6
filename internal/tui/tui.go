package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/balkashynov/todo/internal/todo"
)

// Run starts the full-screen list UI and blocks until the user quits.
// dialog must be the ModalDialog ctrl was created with.
func Run(ctx context.Context, ctrl *todo.Controller, dialog *ModalDialog, opts Options) error {
	model := NewListModel(ctx, ctrl, dialog, opts)

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	if err != nil && ctx.Err() != nil {
		return nil
	}
	return err
}
