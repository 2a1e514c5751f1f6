package commands

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/balkashynov/todo/internal/models"
	"github.com/balkashynov/todo/internal/parser"
	"github.com/balkashynov/todo/internal/todo"
)

func newAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <task description>",
		Short: "Add a new todo",
		Long: `Add a new todo. Priority defaults to normal and the due date to tomorrow.

Smart parsing syntax:
  +priority   - Priority (low/normal/high or 1/2/3)
  due:date    - Due date (yyyy-mm-dd, dd/mm/yyyy, tomorrow, X days, X weeks)

Flags take precedence over the smart syntax. The due date must be tomorrow or later.

Example:
  todo add "Renew passport +high due:2w"`,
		Args: cobra.MinimumNArgs(1),
		RunE: runAdd,
	}
	cmd.Flags().StringP("priority", "p", "", "Priority: low, normal, high, or 1-3")
	cmd.Flags().StringP("due", "d", "", "Due date: yyyy-mm-dd, dd/mm/yyyy, tomorrow, X days, X weeks")
	return cmd
}

func runAdd(cmd *cobra.Command, args []string) error {
	now := time.Now()
	parsed := parser.ParseTitle(strings.Join(args, " "), now)
	if len(parsed.Errors) > 0 {
		return fmt.Errorf("%s", strings.Join(parsed.Errors, "; "))
	}

	form := todo.Form{
		Task:     parsed.Task,
		Priority: parsed.Priority,
		DueDate:  parsed.DueDate,
	}
	if form.Priority == "" {
		form.Priority = models.PriorityNormal
	}
	if form.DueDate.IsZero() {
		form.DueDate = parser.Tomorrow(now)
	}
	if err := applyFormFlags(cmd, &form, now); err != nil {
		return err
	}
	if err := form.Validate(now, models.Date{}); err != nil {
		return err
	}

	a, err := openApp(cmd, todo.AutoConfirm(false), false)
	if err != nil {
		return err
	}
	defer a.Close()

	task, err := a.ctrl.Create(contextOf(cmd), form.Task, form.Priority, form.DueDate)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "✅ Added todo %s: %s\n", shortID(task.TaskID), task.Task)
	fmt.Fprintf(out, "  Priority: %s\n", task.Priority)
	fmt.Fprintf(out, "  %s\n", parser.FormatDueDate(task.DueDate, now))
	return nil
}

// applyFormFlags overrides form fields with --task, --priority and --due
// when they were given.
func applyFormFlags(cmd *cobra.Command, form *todo.Form, now time.Time) error {
	flags := cmd.Flags()
	if flags.Lookup("task") != nil && flags.Changed("task") {
		text, _ := flags.GetString("task")
		form.Task = strings.TrimSpace(text)
	}
	if flags.Changed("priority") {
		raw, _ := flags.GetString("priority")
		p, err := models.ParsePriority(raw)
		if err != nil {
			return err
		}
		form.Priority = p
	}
	if flags.Changed("due") {
		raw, _ := flags.GetString("due")
		due, err := parser.ParseDueDate(raw, now)
		if err != nil {
			return fmt.Errorf("error parsing due date: %w", err)
		}
		form.DueDate = due
	}
	return nil
}

// shortID is the id prefix shown to users; any unique prefix is accepted back
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
