package cmd

import (
	"github.com/spf13/cobra"
)

// Version is injected at build time via -ldflags
var Version = "dev"

// NewRootCommand creates the mdtask command. Running it mines tasks; the
// config subcommand inspects the configuration.
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mdtask [path]...",
		Short: "Print the open checklist items of markdown notes",
		Long: `mdtask searches markdown documents for open checklist items ("- [ ]" or "* [ ]")
and prints each one under the headings that enclose it, followed by the more
deeply indented lines that belong to it.

Paths may be files or directories and default to the current directory.
Directories are walked for .md files, skipping hidden entries and anything
listed in .gitignore or .ignore files. Files named explicitly are always read.

Configuration is loaded from --config, $MDTASK_CONFIG, or
<user config dir>/mdtask/config.yaml. CLI flags override configuration settings.

Examples:
  mdtask                              # mine the current directory
  mdtask ~/notes work/todo.txt        # mine a directory and a single file
  mdtask --color always ~/notes | less -R
  mdtask --output tasks.txt ~/notes   # replace tasks.txt atomically`,
		Version: Version,
		Args:    cobra.ArbitraryArgs,
		RunE:    runMine,
		// main prints the error; usage would only repeat the help text
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	addMineFlags(cmd)

	cmd.AddCommand(NewConfigCommand())

	return cmd
}
