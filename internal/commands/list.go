package commands

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/balkashynov/todo/internal/models"
	"github.com/balkashynov/todo/internal/parser"
	"github.com/balkashynov/todo/internal/todo"
)

func newListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List todos",
		Long: `List todos, optionally sorted and with some priorities hidden.

Without --sort the order from the config file (default_sort) is used.`,
		Args: cobra.NoArgs,
		RunE: runList,
	}
	cmd.Flags().StringP("sort", "s", "", "Sort by: priority, due, alpha")
	cmd.Flags().Bool("desc", false, "Sort descending")
	cmd.Flags().StringSlice("hide", nil, "Hide priorities (comma-separated): low, normal, high")
	cmd.Flags().Bool("json", false, "JSON output")
	return cmd
}

func runList(cmd *cobra.Command, _ []string) error {
	hideRaw, _ := cmd.Flags().GetStringSlice("hide")
	var hidden []models.Priority
	for _, raw := range hideRaw {
		p, err := models.ParsePriority(raw)
		if err != nil {
			return err
		}
		hidden = append(hidden, p)
	}

	a, err := openApp(cmd, todo.AutoConfirm(false), false)
	if err != nil {
		return err
	}
	defer a.Close()

	if cmd.Flags().Changed("sort") || cmd.Flags().Changed("desc") {
		raw, _ := cmd.Flags().GetString("sort")
		key, err := todo.ParseSortKey(raw)
		if err != nil {
			return err
		}
		if key == todo.SortNone {
			key, _ = a.ctrl.SortState()
		}
		dir := todo.Asc
		if desc, _ := cmd.Flags().GetBool("desc"); desc {
			dir = todo.Desc
		}
		a.ctrl.Sort(key, dir)
	}
	a.ctrl.ApplyPriorityFilter(hidden...)

	tasks := a.ctrl.View()
	out := cmd.OutOrStdout()

	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		data, err := json.MarshalIndent(tasks, "", "  ")
		if err != nil {
			return fmt.Errorf("encode tasks: %w", err)
		}
		fmt.Fprintln(out, string(data))
		return nil
	}

	if skipped := a.store.Skipped(); len(skipped) > 0 {
		fmt.Fprintf(out, "⚠️  %d stored todo(s) could not be read and were skipped.\n", len(skipped))
	}

	switch {
	case a.ctrl.HasAllHidden():
		fmt.Fprintln(out, "⚠️  All todos are hidden by --hide.")
		return nil
	case a.ctrl.HasSomeHidden():
		var parts []string
		for _, p := range a.ctrl.PrioritiesWithHidden() {
			parts = append(parts, fmt.Sprintf("%d %s", len(a.ctrl.QueryHiddenByPriority(p)), p))
		}
		fmt.Fprintf(out, "⚠️  Hidden: %s\n", strings.Join(parts, ", "))
	}

	if len(tasks) == 0 {
		fmt.Fprintln(out, "No todos found. Use 'todo add \"task description\"' to create your first one.")
		return nil
	}

	now := time.Now()
	fmt.Fprintf(out, "%-8s  %-6s  %-8s  %-30s  %s\n", "ID", "STATUS", "PRIORITY", "DUE", "TASK")
	fmt.Fprintln(out, strings.Repeat("-", 80))
	for _, t := range tasks {
		fmt.Fprintf(out, "%-8s  %-6s  %-8s  %-30s  %s\n",
			shortID(t.TaskID),
			t.Status(),
			t.Priority,
			parser.FormatDueDate(t.DueDate, now),
			t.Task)
	}
	return nil
}
