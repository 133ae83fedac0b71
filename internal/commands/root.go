// Package commands wires the CLI around the client library. Token
// persistence lives here, on the caller's side of the library boundary.
package commands

import (
	"github.com/spf13/cobra"
)

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "zenapi",
		Short: "Client for the ZenMoney personal finance sync API",
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.AddCommand(newLoginCommand())
	rootCmd.AddCommand(newSyncCommand())
	rootCmd.AddCommand(newSuggestCommand())

	return rootCmd
}
