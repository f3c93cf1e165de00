package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// exitFunc ends the process with a comparison's exit status
var exitFunc = os.Exit

// NewRootCommand builds the foldercompare command tree
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "foldercompare",
		Short: "Compare folders by content hash",
		Long: `foldercompare hashes every file in a directory tree and compares two
such trees, two saved listings, or a tree against a listing. It reports
every path whose content differs or that exists on one side only.`,
		Version:       fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	AddGlobalFlags(rootCmd)

	rootCmd.AddCommand(NewCompareCommand())
	rootCmd.AddCommand(NewHashCommand())
	rootCmd.AddCommand(NewAlgorithmsCommand())
	rootCmd.AddCommand(NewConfigCommand())
	rootCmd.AddCommand(NewVersionCommand())

	return rootCmd
}
