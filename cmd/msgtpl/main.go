package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "0.1.0"

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	app := &app{}
	var rootCmd = &cobra.Command{
		Use:   "msgtpl",
		Short: "msgtpl - conditional message template editor",
		Long: `msgtpl edits message templates made of text runs and IF-THEN-ELSE blocks,
stores them in a SQLite database and compiles them into messages by
substituting {variable} tokens.`,
		Version:           version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: app.open,
		PersistentPostRunE: func(*cobra.Command, []string) error {
			return app.close()
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&app.configPath, "config", "c", "", "YAML config file")
	flags.StringVar(&app.dbPath, "db", "", "SQLite database path (overrides config)")
	flags.StringVarP(&app.name, "name", "n", "", "template name (overrides config)")
	flags.BoolVarP(&app.verbose, "verbose", "v", false, "log storage events")

	rootCmd.AddCommand(newShowCommand(app))
	rootCmd.AddCommand(newDivideCommand(app))
	rootCmd.AddCommand(newCollapseCommand(app))
	rootCmd.AddCommand(newSetCommand(app))
	rootCmd.AddCommand(newInsertVarCommand(app))
	rootCmd.AddCommand(newCompileCommand(app))
	rootCmd.AddCommand(newVarsCommand(app))
	rootCmd.AddCommand(newExportCommand(app))
	rootCmd.AddCommand(newImportCommand(app))
	rootCmd.AddCommand(newResetCommand(app))
	rootCmd.AddCommand(newListCommand(app))
	rootCmd.AddCommand(newDeleteCommand(app))

	return rootCmd
}
