package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/scolby33/foldercompare/pkg/digest"
)

// NewAlgorithmsCommand creates the algorithms command
func NewAlgorithmsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "algorithms",
		Short: "List supported hash algorithms",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			for _, name := range digest.Names() {
				if name == digest.Default {
					fmt.Fprintf(cmd.OutOrStdout(), "%s (default)\n", name)
					continue
				}
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
		},
	}
}
