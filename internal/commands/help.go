package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/balkashynov/todo/internal/todo"
)

func newHelpCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "help [command]",
		Short: "Show comprehensive help for todo",
		Long:  `Display an overview of every command, or the help of a single command.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				target, _, err := cmd.Root().Find(args)
				if err != nil || target == nil {
					return fmt.Errorf("unknown help topic %q", args)
				}
				return target.Help()
			}
			showCustomHelp(cmd)
			return nil
		},
	}
}

func newAboutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "about",
		Short: "About this app",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s\n\n%s\n", todo.AboutTitle, todo.AboutContent)
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "todo %s (commit %s, built %s)\n", version, commit, date)
		},
	}
}

func showCustomHelp(cmd *cobra.Command) {
	fmt.Fprint(cmd.OutOrStdout(), `
todo - a local to-do list

COMMANDS:

  (no command), ui        Open the full-screen list

  add <task>              Create a new todo
    -p, --priority        Priority: low|normal|high (default normal)
    -d, --due             Due date (yyyy-mm-dd, dd/mm/yyyy, tomorrow, 3d, 2w)

    Smart syntax:
      +priority     Set priority (low/normal/high)
      due:3d        Set due date (3 days from now)

    Example:
      todo add "Renew passport +high due:2w"

  ls                      List todos
    -s, --sort            Sort by priority|due|alpha
    --desc                Sort descending
    --hide                Hide priorities (comma-separated)
    --json                JSON output

  edit <id>               Edit a todo
    -t, --task            New text
    -p, --priority        New priority
    -d, --due             New due date (tomorrow or later)

  done <id>               Mark todo as completed
  undone <id>             Mark todo as not completed
  rm <id>                 Delete a todo (asks first)
    -y, --yes             Don't ask

  about                   About this app
  version                 Print version information
  help [command]          Show this help

GLOBAL FLAGS:

  --config <file>         Config file (default ~/.todo/config.toml)
  --log-level <level>     debug|info|warn|error

Ids can be shortened to any unique prefix.

FULL-SCREEN KEYS (defaults, configurable under [keys]):

  j/k ↑/↓       Navigate          ←/→     Page
  n             New todo          e       Edit selected
  space         Done/undone       x       Delete selected
  1 / 2 / 3     Hide low/normal/high
  p / d / a     Sort by priority/due date/name
  r             Flip sort direction
  ?             About             q       Quit

`)
}
