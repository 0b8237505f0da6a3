package cli

import (
	"fmt"
	"os"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"github.com/kk-code-lab/rview/internal/shellsetup"
)

func newShellInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "shell-init [shell]",
		Short: "Print a shell function that follows rview's last directory",
		Long: heredoc.Doc(`
			Prints a wrapper function named rview. When rview quits, the wrapper
			changes the shell's working directory to the directory rview was
			showing. The shell is detected from $SHELL when not given.
		`),
		Example: heredoc.Doc(`
			eval "$(rview shell-init)"
			rview shell-init fish | source
		`),
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{"bash", "zsh", "sh", "fish", "pwsh"},
		RunE: func(cmd *cobra.Command, args []string) error {
			shell := ""
			if len(args) == 1 {
				shell = args[0]
			}
			exe, err := os.Executable()
			if err != nil {
				exe = "rview"
			}
			script, err := shellsetup.Script(shell, exe)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), script)
			return nil
		},
	}
}
