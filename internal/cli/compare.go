package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/scolby33/foldercompare/internal/platform"
	"github.com/scolby33/foldercompare/pkg/engine"
	"github.com/scolby33/foldercompare/pkg/models"
	"github.com/scolby33/foldercompare/pkg/output"
)

// CompareFlags holds compare command flags
type CompareFlags struct {
	hashingFlags
	LeftListing    string
	RightListing   string
	LeftRoot       string
	RightRoot      string
	Output         string
	IncludeMatches bool
	DiffReport     string
	DiffFormat     string
}

var compareFlags CompareFlags

// NewCompareCommand creates the compare command
func NewCompareCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare [LEFT_DIR] [RIGHT_DIR]",
		Short: "Compare two folders or listings",
		Long: `Compare two sides by content hash. Each side is a directory or a listing
written by 'foldercompare hash'. Directories given as arguments fill the
sides not set by --left-listing/--right-listing, left first.

Exit status is 0 when both sides are identical, 1 when differences were
found and 2 on error.`,
		Args: cobra.MaximumNArgs(2),
		RunE: runCompare,
	}

	addHashingFlags(cmd, &compareFlags.hashingFlags)
	cmd.Flags().StringVarP(&compareFlags.LeftListing, "left-listing", "a", "", "left side listing (file, - for stdin, or s3://bucket/key)")
	cmd.Flags().StringVarP(&compareFlags.RightListing, "right-listing", "b", "", "right side listing (file, - for stdin, or s3://bucket/key)")
	cmd.Flags().StringVar(&compareFlags.LeftRoot, "left-root", "", "root directory of the paths in the left listing")
	cmd.Flags().StringVar(&compareFlags.RightRoot, "right-root", "", "root directory of the paths in the right listing")
	cmd.Flags().StringVarP(&compareFlags.Output, "output", "o", "", "output format: human, json")
	cmd.Flags().BoolVar(&compareFlags.IncludeMatches, "include-matches", false, "include matching paths in JSON output")
	cmd.Flags().StringVar(&compareFlags.DiffReport, "diff-report", "", "write differences report to file")
	cmd.Flags().StringVar(&compareFlags.DiffFormat, "diff-format", "human", "differences report format: human, json")

	return cmd
}

func runCompare(cmd *cobra.Command, args []string) error {
	report, err := executeCompare(cmd, args)
	if err != nil {
		return err
	}

	// Exit with appropriate code
	exitFunc(report.Status.ExitCode())
	return nil
}

// executeCompare runs the comparison and writes its report
func executeCompare(cmd *cobra.Command, args []string) (*models.ComparisonReport, error) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	left, right, err := resolveSides(args, compareFlags)
	if err != nil {
		return nil, err
	}

	cfg, err := loadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	applyHashingFlags(cmd, cfg, &compareFlags.hashingFlags)
	if cmd.Flags().Changed("output") {
		cfg.Output.Format = compareFlags.Output
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if compareFlags.DiffReport != "" {
		if err := output.CheckDifferencesFormat(compareFlags.DiffFormat); err != nil {
			return nil, err
		}
	}

	formatter, err := output.NewFormatter(cfg.Output.Format)
	if err != nil {
		return nil, err
	}
	switch f := formatter.(type) {
	case *output.HumanFormatter:
		if !cfg.Output.Quiet {
			f.SetSummaryWriter(cmd.ErrOrStderr())
		}
	case *output.JSONFormatter:
		f.IncludeMatches = compareFlags.IncludeMatches
	}

	operation, err := createOperation(cfg)
	if err != nil {
		return nil, err
	}

	logger, err := createLogger(cfg, cmd.ErrOrStderr())
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	defer logger.Close()

	eng, err := engine.New(operation, engine.Options{
		Remote:      newLazyRemote(cfg.S3),
		Logger:      logger,
		NewProgress: progressFactory(cfg, cmd.ErrOrStderr()),
	})
	if err != nil {
		return nil, err
	}

	report, err := eng.Compare(ctx, left, right)
	if err != nil {
		return nil, fmt.Errorf("comparison failed: %w", err)
	}

	printSideNotes(cmd.ErrOrStderr(), report)

	if err := formatter.Complete(cmd.OutOrStdout(), report); err != nil {
		return nil, err
	}

	if compareFlags.DiffReport != "" {
		if err := output.WriteDifferencesReport(report, compareFlags.DiffReport, compareFlags.DiffFormat); err != nil {
			return nil, fmt.Errorf("failed to write differences report: %w", err)
		}
	}

	return report, nil
}

// printSideNotes warns about listing sides whose result may not be what the
// user meant: an inferred root or no entries at all
func printSideNotes(w io.Writer, report *models.ComparisonReport) {
	for _, side := range []struct {
		name string
		side models.Side
	}{{"left", report.Left}, {"right", report.Right}} {
		if side.side.Kind != models.SideListing {
			continue
		}
		if side.side.RootInferred {
			fmt.Fprintf(w, "Note: %s listing root inferred as %s (set --%s-root to override)\n",
				side.name, side.side.Root, side.name)
		}
		if side.side.Files == 0 {
			fmt.Fprintf(w, "Warning: %s listing %s has no entries\n", side.name, side.side.Location)
		}
	}
}

// resolveSides assigns listings and directory arguments to the two sides.
// Directories fill the sides without a listing, left first.
func resolveSides(args []string, flags CompareFlags) (engine.Source, engine.Source, error) {
	left := engine.Source{Listing: flags.LeftListing, Root: flags.LeftRoot}
	right := engine.Source{Listing: flags.RightListing, Root: flags.RightRoot}

	for _, dir := range args {
		if err := platform.ValidatePath(dir); err != nil {
			return left, right, err
		}
	}
	for _, root := range []string{flags.LeftRoot, flags.RightRoot} {
		if root == "" {
			continue
		}
		if err := platform.ValidatePath(root); err != nil {
			return left, right, err
		}
	}

	dirs := args
	for _, side := range []*engine.Source{&left, &right} {
		if side.Listing != "" {
			continue
		}
		if len(dirs) == 0 {
			return left, right, fmt.Errorf("two sides are required: give two directories, two listings (-a, -b), or one of each")
		}
		side.Tree, dirs = dirs[0], dirs[1:]
	}
	if len(dirs) > 0 {
		return left, right, fmt.Errorf("too many directories: both sides are already set (unexpected %q)", dirs[0])
	}

	if left.Listing == "-" && right.Listing == "-" {
		return left, right, fmt.Errorf("only one side can be read from stdin")
	}
	if err := left.Validate(); err != nil {
		return left, right, fmt.Errorf("left: %w", err)
	}
	if err := right.Validate(); err != nil {
		return left, right, fmt.Errorf("right: %w", err)
	}
	return left, right, nil
}
