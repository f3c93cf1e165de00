package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/scolby33/foldercompare/pkg/config"
	"github.com/scolby33/foldercompare/pkg/engine"
	"github.com/scolby33/foldercompare/pkg/logging"
	"github.com/scolby33/foldercompare/pkg/models"
	"github.com/scolby33/foldercompare/pkg/output"
	"github.com/scolby33/foldercompare/pkg/ratelimit"
	"github.com/scolby33/foldercompare/pkg/s3store"
)

// NewConfigCommand creates the config command
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration",
		Long:  `View or create the foldercompare configuration file.`,
	}

	cmd.AddCommand(newConfigShowCommand())
	cmd.AddCommand(newConfigInitCommand())

	return cmd
}

func newConfigShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "Algorithm: %s\n", cfg.Hash.Algorithm)
			fmt.Fprintf(w, "Workers: %d\n", cfg.Hash.Workers)
			fmt.Fprintf(w, "Exclude: %s\n", strings.Join(cfg.Scan.Exclude, ", "))
			fmt.Fprintf(w, "Symlinks: %s\n", cfg.Scan.Symlinks)
			fmt.Fprintf(w, "Bandwidth Limit: %s\n", orDefault(cfg.Performance.BandwidthLimit, "unlimited"))
			fmt.Fprintf(w, "Output Format: %s\n", cfg.Output.Format)
			fmt.Fprintf(w, "Log Format: %s\n", cfg.Logging.Format)
			fmt.Fprintf(w, "Log Level: %s\n", cfg.Logging.Level)
			fmt.Fprintf(w, "S3 Region: %s\n", orDefault(cfg.S3.Region, "(from environment)"))

			return nil
		},
	}
}

func newConfigInitCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create default configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := globalFlags.ConfigFile
			if path == "" {
				var err error
				if path, err = config.DefaultConfigPath(); err != nil {
					return err
				}
			}

			if err := config.SaveToFile(config.Default(), path); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Configuration file created at: %s\n", path)
			return nil
		},
	}
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

// loadConfig loads configuration from file or returns default
func loadConfig() (*config.Config, error) {
	if globalFlags.ConfigFile != "" {
		return config.LoadFromFile(globalFlags.ConfigFile)
	}
	return config.LoadDefault()
}

// applyHashingFlags overrides config values with the flags set on cmd
func applyHashingFlags(cmd *cobra.Command, cfg *config.Config, f *hashingFlags) {
	flags := cmd.Flags()

	if flags.Changed("algorithm") {
		cfg.Hash.Algorithm = f.Algorithm
	}
	if flags.Changed("workers") {
		cfg.Hash.Workers = f.Workers
	}
	if flags.Changed("exclude") {
		cfg.Scan.Exclude = f.Exclude
	}
	if flags.Changed("symlinks") {
		cfg.Scan.Symlinks = models.SymlinkMode(f.Symlinks)
	}
	if flags.Changed("bandwidth") {
		cfg.Performance.BandwidthLimit = f.Bandwidth
	}
	if flags.Changed("progress") {
		cfg.Output.Progress = f.Progress
	}

	applyGlobalFlags(cmd, cfg)
}

// applyGlobalFlags overrides logging and verbosity settings
func applyGlobalFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()

	if flags.Changed("log-file") {
		cfg.Logging.File = globalFlags.LogFile
		cfg.Logging.Enabled = true
	}
	if flags.Changed("log-format") {
		cfg.Logging.Format = globalFlags.LogFormat
	}
	if flags.Changed("log-level") {
		cfg.Logging.Level = globalFlags.LogLevel
	}

	// Verbose logs everything, to stderr unless a log file is set
	if globalFlags.Verbose {
		cfg.Logging.Enabled = true
		cfg.Logging.Level = "debug"
	}

	// Disable progress in quiet mode
	if globalFlags.Quiet {
		cfg.Output.Progress = false
		cfg.Output.Quiet = true
	}
}

// createOperation creates a comparison operation from configuration
func createOperation(cfg *config.Config) (*models.Operation, error) {
	rate, err := ratelimit.ParseRate(cfg.Performance.BandwidthLimit)
	if err != nil {
		return nil, err
	}

	operation := &models.Operation{
		ID:              uuid.New().String(),
		Algorithm:       cfg.Hash.Algorithm,
		ExcludePatterns: cfg.Scan.Exclude,
		Symlinks:        cfg.Scan.Symlinks,
		MaxWorkers:      cfg.Hash.Workers,
		BandwidthLimit:  rate,
		CreatedAt:       time.Now(),
	}

	if err := operation.Validate(); err != nil {
		return nil, err
	}

	return operation, nil
}

// createLogger creates a logger based on configuration
func createLogger(cfg *config.Config, stderr io.Writer) (logging.Logger, error) {
	if !cfg.Logging.Enabled {
		return logging.NewNullLogger(), nil
	}

	var format logging.Format
	switch cfg.Logging.Format {
	case "json":
		format = logging.FormatJSON
	default:
		format = logging.FormatText
	}

	return logging.NewFileLogger(logging.FileLoggerConfig{
		Path:       cfg.Logging.File,
		Writer:     stderr,
		Format:     format,
		Level:      logging.ParseLevel(cfg.Logging.Level),
		MaxSize:    10 * 1024 * 1024, // 10 MB
		MaxBackups: 5,
	})
}

// progressFactory returns the engine's progress constructor, or nil when
// progress is off or w is not a terminal
func progressFactory(cfg *config.Config, w io.Writer) func(label string) engine.Progress {
	if !cfg.Output.Progress || cfg.Output.Quiet || !output.IsTerminal(w) {
		return nil
	}
	return func(label string) engine.Progress {
		return output.NewProgressBar(w, label, 0)
	}
}

// lazyRemote connects to S3 on first use so runs without s3:// locations
// never load AWS configuration
type lazyRemote struct {
	opts  s3store.Options
	once  sync.Once
	store *s3store.Store
	err   error
}

func newLazyRemote(cfg config.S3Config) *lazyRemote {
	return &lazyRemote{opts: s3store.Options{
		Region:   cfg.Region,
		Profile:  cfg.Profile,
		Endpoint: cfg.Endpoint,
	}}
}

func (r *lazyRemote) get(ctx context.Context) (*s3store.Store, error) {
	r.once.Do(func() {
		r.store, r.err = s3store.New(ctx, r.opts)
	})
	return r.store, r.err
}

func (r *lazyRemote) Open(ctx context.Context, uri string) (io.ReadCloser, error) {
	store, err := r.get(ctx)
	if err != nil {
		return nil, err
	}
	return store.Open(ctx, uri)
}

func (r *lazyRemote) Put(ctx context.Context, uri string, body io.Reader) error {
	store, err := r.get(ctx)
	if err != nil {
		return err
	}
	return store.Put(ctx, uri, body)
}
