package commands

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/balkashynov/todo/internal/parser"
	"github.com/balkashynov/todo/internal/todo"
)

func newEditCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit <task_id>",
		Short: "Edit an existing todo",
		Long: `Change the text, priority or due date of a todo.

The id can be shortened to any unique prefix. Completed todos can't be
edited until they are marked undone. A new due date must be tomorrow or
later; leaving the due date alone keeps it even if it has passed.

Usage:
  todo edit 3f2a --priority high --due 2w`,
		Args: cobra.ExactArgs(1),
		RunE: runEdit,
	}
	cmd.Flags().StringP("task", "t", "", "New task text")
	cmd.Flags().StringP("priority", "p", "", "Priority: low, normal, high, or 1-3")
	cmd.Flags().StringP("due", "d", "", "Due date: yyyy-mm-dd, dd/mm/yyyy, tomorrow, X days, X weeks")
	return cmd
}

func runEdit(cmd *cobra.Command, args []string) error {
	if !cmd.Flags().Changed("task") && !cmd.Flags().Changed("priority") && !cmd.Flags().Changed("due") {
		return errors.New("nothing to change: pass --task, --priority or --due")
	}

	a, err := openApp(cmd, todo.AutoConfirm(false), false)
	if err != nil {
		return err
	}
	defer a.Close()

	task, err := a.ctrl.Resolve(args[0])
	if err != nil {
		return err
	}
	if !task.Editable() {
		return fmt.Errorf("todo %s is completed; run 'todo undone %s' first", shortID(task.TaskID), shortID(task.TaskID))
	}
	if !a.ctrl.StartEdit(task.TaskID) {
		return fmt.Errorf("%w: %s", todo.ErrTaskNotFound, args[0])
	}

	now := time.Now()
	form := a.ctrl.Form()
	if err := applyFormFlags(cmd, &form, now); err != nil {
		return err
	}
	a.ctrl.SetForm(form)
	if err := a.ctrl.ValidateForm(); err != nil {
		return err
	}

	ok, err := a.ctrl.CommitEdit(contextOf(cmd))
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: %s", todo.ErrTaskNotFound, args[0])
	}

	updated, _ := a.ctrl.Find(task.TaskID)
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "✏️  Updated todo %s: %s\n", shortID(updated.TaskID), updated.Task)
	fmt.Fprintf(out, "  Priority: %s\n", updated.Priority)
	fmt.Fprintf(out, "  %s\n", parser.FormatDueDate(updated.DueDate, now))
	return nil
}
