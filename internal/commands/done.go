package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/balkashynov/todo/internal/todo"
)

func newDoneCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "done <task_id>",
		Short: "Mark a todo as completed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return setCompletion(cmd, args[0], true)
		},
	}
}

func newUndoneCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "undone <task_id>",
		Short: "Mark a completed todo back to todo status",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return setCompletion(cmd, args[0], false)
		},
	}
}

func setCompletion(cmd *cobra.Command, id string, completed bool) error {
	a, err := openApp(cmd, todo.AutoConfirm(false), false)
	if err != nil {
		return err
	}
	defer a.Close()

	task, err := a.ctrl.Resolve(id)
	if err != nil {
		return err
	}
	ok, err := a.ctrl.SetCompletion(contextOf(cmd), task.TaskID, completed)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: %s", todo.ErrTaskNotFound, id)
	}

	if completed {
		fmt.Fprintf(cmd.OutOrStdout(), "✅ Marked todo %s as done: %s\n", shortID(task.TaskID), task.Task)
	} else {
		fmt.Fprintf(cmd.OutOrStdout(), "↩️  Marked todo %s back to todo: %s\n", shortID(task.TaskID), task.Task)
	}
	return nil
}
