package commands

import (
	"github.com/spf13/cobra"

	"github.com/username/ubextract/src/config"
)

// NewRootCommand creates the root CLI command with all subcommands registered.
// Without a subcommand it starts the web server.
func NewRootCommand() *cobra.Command {
	serveCmd := newServeCommand()

	rootCmd := &cobra.Command{
		Use:   "ubextract",
		Short: "Extract transactions from Union Bank PDF statements",
		Args:  cobra.NoArgs,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if config.Cfg == nil {
				config.LoadConfig()
			}
		},
		RunE: serveCmd.RunE,
	}

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(newConvertCommand())

	return rootCmd
}
