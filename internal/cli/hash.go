package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/scolby33/foldercompare/internal/platform"
	"github.com/scolby33/foldercompare/pkg/engine"
	"github.com/scolby33/foldercompare/pkg/hashset"
	"github.com/scolby33/foldercompare/pkg/listing"
)

// HashFlags holds hash command flags
type HashFlags struct {
	hashingFlags
	OutputFile string
}

var hashFlags HashFlags

// NewHashCommand creates the hash command
func NewHashCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hash DIR",
		Short: "Write a listing of a folder's file hashes",
		Long: `Hash every file under DIR and write one "<digest> <path>" line per file.
The listing can later be compared with 'foldercompare compare -a/-b'.`,
		Args: cobra.ExactArgs(1),
		RunE: runHash,
	}

	addHashingFlags(cmd, &hashFlags.hashingFlags)
	cmd.Flags().StringVar(&hashFlags.OutputFile, "output-file", listing.Stdio, "listing destination: file, - for stdout, or s3://bucket/key")

	return cmd
}

func runHash(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if err := platform.ValidatePath(args[0]); err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyHashingFlags(cmd, cfg, &hashFlags.hashingFlags)
	if err := cfg.Validate(); err != nil {
		return err
	}

	operation, err := createOperation(cfg)
	if err != nil {
		return err
	}

	logger, err := createLogger(cfg, cmd.ErrOrStderr())
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer logger.Close()

	eng, err := engine.New(operation, engine.Options{
		Remote:      newLazyRemote(cfg.S3),
		Logger:      logger,
		NewProgress: progressFactory(cfg, cmd.ErrOrStderr()),
	})
	if err != nil {
		return err
	}

	location := hashFlags.OutputFile
	if location == listing.Stdio {
		set, err := eng.HashTree(ctx, args[0])
		if err != nil {
			return fmt.Errorf("hashing failed: %w", err)
		}
		return hashset.WriteListing(cmd.OutOrStdout(), set)
	}

	set, err := eng.Hash(ctx, args[0], location)
	if err != nil {
		return fmt.Errorf("hashing failed: %w", err)
	}

	if !cfg.Output.Quiet {
		fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %d entries to %s\n", set.Len(), location)
	}
	return nil
}
