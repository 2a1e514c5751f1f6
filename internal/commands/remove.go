package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/balkashynov/todo/internal/todo"
	"github.com/balkashynov/todo/internal/tui"
)

func newRemoveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "rm <task_id>",
		Aliases: []string{"delete"},
		Short:   "Delete a todo",
		Long: `Delete a todo after asking for confirmation.

Use --yes to skip the question, for scripts.`,
		Args: cobra.ExactArgs(1),
		RunE: runRemove,
	}
	cmd.Flags().BoolP("yes", "y", false, "Delete without asking")
	return cmd
}

func runRemove(cmd *cobra.Command, args []string) error {
	var dialog todo.Dialog = tui.PromptDialog{In: cmd.InOrStdin(), Out: cmd.OutOrStdout()}
	if yes, _ := cmd.Flags().GetBool("yes"); yes {
		dialog = todo.AutoConfirm(true)
	}

	a, err := openApp(cmd, dialog, false)
	if err != nil {
		return err
	}
	defer a.Close()

	task, err := a.ctrl.Resolve(args[0])
	if err != nil {
		return err
	}
	removed, err := a.ctrl.Delete(contextOf(cmd), task.TaskID)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if !removed {
		fmt.Fprintln(out, "❌ Delete cancelled.")
		return nil
	}
	fmt.Fprintf(out, "🗑️  Deleted todo %s: %s\n", shortID(task.TaskID), task.Task)
	return nil
}
