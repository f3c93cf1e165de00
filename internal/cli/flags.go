package cli

import (
	"github.com/spf13/cobra"
)

// GlobalFlags holds global flag values
type GlobalFlags struct {
	ConfigFile string
	Verbose    bool
	Quiet      bool
	LogFile    string
	LogFormat  string
	LogLevel   string
}

var globalFlags GlobalFlags

// AddGlobalFlags adds global flags to the root command
func AddGlobalFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVar(
		&globalFlags.ConfigFile,
		"config",
		"",
		"config file (default is $HOME/.config/foldercompare/config.yaml)",
	)
	cmd.PersistentFlags().BoolVarP(
		&globalFlags.Verbose,
		"verbose",
		"v",
		false,
		"log debug messages to stderr",
	)
	cmd.PersistentFlags().BoolVarP(
		&globalFlags.Quiet,
		"quiet",
		"q",
		false,
		"suppress non-error output",
	)
	cmd.PersistentFlags().StringVar(&globalFlags.LogFile, "log-file", "", "write logs to file (enables logging)")
	cmd.PersistentFlags().StringVar(&globalFlags.LogFormat, "log-format", "text", "log format: text, json")
	cmd.PersistentFlags().StringVar(&globalFlags.LogLevel, "log-level", "info", "log level: debug, info, warn, error")
}

// hashingFlags are shared by the commands that hash trees
type hashingFlags struct {
	Algorithm string
	Workers   int
	Exclude   []string
	Symlinks  string
	Bandwidth string
	Progress  bool
}

func addHashingFlags(cmd *cobra.Command, f *hashingFlags) {
	cmd.Flags().StringVarP(&f.Algorithm, "algorithm", "s", "", "hash algorithm (see 'foldercompare algorithms'; default sha3_256)")
	cmd.Flags().IntVarP(&f.Workers, "workers", "j", 0, "number of files hashed in parallel (default 1)")
	cmd.Flags().StringSliceVar(&f.Exclude, "exclude", []string{}, "glob patterns to exclude")
	cmd.Flags().StringVar(&f.Symlinks, "symlinks", "", "symbolic links: skip, files (default skip)")
	cmd.Flags().StringVar(&f.Bandwidth, "bandwidth", "", "read bandwidth limit (e.g., \"10M\", \"1G\")")
	cmd.Flags().BoolVar(&f.Progress, "progress", false, "show hashing progress on stderr when it is a terminal")
}
