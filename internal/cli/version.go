package cli

import (
	"encoding/json"
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/scolby33/foldercompare/pkg/digest"
)

// Build information - set via ldflags
var (
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"
)

type versionInfo struct {
	Version          string `json:"version"`
	Commit           string `json:"commit"`
	BuildDate        string `json:"build_date"`
	GoVersion        string `json:"go_version"`
	Platform         string `json:"platform"`
	DefaultAlgorithm string `json:"default_algorithm"`
}

// NewVersionCommand creates the version command
func NewVersionCommand() *cobra.Command {
	var short, asJSON bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			if short {
				fmt.Fprintln(w, Version)
				return nil
			}

			info := versionInfo{
				Version:          Version,
				Commit:           Commit,
				BuildDate:        BuildDate,
				GoVersion:        runtime.Version(),
				Platform:         runtime.GOOS + "/" + runtime.GOARCH,
				DefaultAlgorithm: digest.Default,
			}
			if asJSON {
				enc := json.NewEncoder(w)
				enc.SetIndent("", "  ")
				return enc.Encode(info)
			}

			fmt.Fprintf(w, "foldercompare %s\n", info.Version)
			fmt.Fprintf(w, "  Commit:     %s\n", info.Commit)
			fmt.Fprintf(w, "  Built:      %s\n", info.BuildDate)
			fmt.Fprintf(w, "  Go version: %s\n", info.GoVersion)
			fmt.Fprintf(w, "  OS/Arch:    %s\n", info.Platform)
			fmt.Fprintf(w, "  Default:    %s\n", info.DefaultAlgorithm)
			return nil
		},
	}

	cmd.Flags().BoolVar(&short, "short", false, "print only the version number")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print version information as JSON")

	return cmd
}
