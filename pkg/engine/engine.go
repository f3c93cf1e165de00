// Package engine runs a comparison end to end: it turns each side into a
// hash set, reconciles the two and produces a report.
package engine

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/scolby33/foldercompare/pkg/digest"
	"github.com/scolby33/foldercompare/pkg/hashset"
	"github.com/scolby33/foldercompare/pkg/listing"
	"github.com/scolby33/foldercompare/pkg/logging"
	"github.com/scolby33/foldercompare/pkg/models"
	"github.com/scolby33/foldercompare/pkg/ratelimit"
	"github.com/scolby33/foldercompare/pkg/reconcile"
	"github.com/scolby33/foldercompare/pkg/scan"
	"github.com/scolby33/foldercompare/pkg/storage"
)

// Progress receives hashing events for one side
type Progress interface {
	hashset.Progress
	SetTotal(total int)
	HashProgress(path string, current, total int64)
	Finish()
}

// Options holds the collaborators of an Engine. All fields are optional.
type Options struct {
	// Remote serves s3:// listing locations
	Remote listing.Remote
	Logger logging.Logger
	// NewProgress creates the progress display for a side ("left", "right"
	// or the hashed directory). Nil disables progress.
	NewProgress func(label string) Progress
	// OpenTree opens a directory side; storage.NewLocal when nil
	OpenTree func(dir string) (storage.Backend, error)
}

// Engine orchestrates hash set construction and reconciliation
type Engine struct {
	operation *models.Operation
	algorithm digest.Algorithm
	limiter   *ratelimit.Limiter
	remote    listing.Remote
	logger    logging.Logger
	progress  func(label string) Progress
	openTree  func(dir string) (storage.Backend, error)
}

// New validates the operation and its algorithm. No file is touched, so an
// unknown algorithm is reported before any I/O.
func New(operation *models.Operation, opts Options) (*Engine, error) {
	if err := operation.Validate(); err != nil {
		return nil, err
	}

	alg, err := digest.Lookup(operation.Algorithm)
	if err != nil {
		return nil, err
	}

	if operation.ID == "" {
		operation.ID = uuid.New().String()
	}

	logger := logging.OrNull(opts.Logger)

	openTree := opts.OpenTree
	if openTree == nil {
		openTree = func(dir string) (storage.Backend, error) {
			return storage.NewLocal(dir)
		}
	}

	return &Engine{
		operation: operation,
		algorithm: alg,
		limiter:   ratelimit.NewLimiter(operation.BandwidthLimit),
		remote:    opts.Remote,
		logger:    logger.WithFields(logging.Fields{"operation_id": operation.ID}),
		progress:  opts.NewProgress,
		openTree:  openTree,
	}, nil
}

// Algorithm returns the digest algorithm used for trees
func (e *Engine) Algorithm() digest.Algorithm {
	return e.algorithm
}

// Compare builds both sides and reconciles them. Both sources are opened
// before either is hashed, so a bad root fails without hashing anything.
func (e *Engine) Compare(ctx context.Context, left, right Source) (*models.ComparisonReport, error) {
	startTime := time.Now()

	e.logger.Info(ctx, "Starting comparison", logging.Fields{
		"algorithm": e.algorithm.Name,
		"left":      left.Location(),
		"right":     right.Location(),
		"workers":   e.operation.MaxWorkers,
	})

	leftPrep, err := e.prepare(ctx, left)
	if err != nil {
		return nil, fmt.Errorf("left: %w", err)
	}
	defer leftPrep.close()

	rightPrep, err := e.prepare(ctx, right)
	if err != nil {
		return nil, fmt.Errorf("right: %w", err)
	}
	defer rightPrep.close()

	// A listing compared with a tree maps its paths onto that tree
	leftPrep.defaultRoot = rightPrep.treeRoot()
	rightPrep.defaultRoot = leftPrep.treeRoot()

	leftSet, err := e.build(ctx, "left", leftPrep)
	if err != nil {
		return nil, fmt.Errorf("left: %w", err)
	}

	rightSet, err := e.build(ctx, "right", rightPrep)
	if err != nil {
		return nil, fmt.Errorf("right: %w", err)
	}

	if l, r := leftSet.DigestLen(), rightSet.DigestLen(); l > 0 && r > 0 && l != r {
		e.logger.Warn(ctx, "digest lengths differ between sides; every shared path will mismatch", logging.Fields{
			"left_length":  l,
			"right_length": r,
		})
	}

	records := reconcile.Reconcile(leftSet, rightSet)
	summary := reconcile.Summarize(records)

	report := &models.ComparisonReport{
		OperationID: e.operation.ID,
		Algorithm:   e.algorithm.Name,
		Left:        leftPrep.side(leftSet),
		Right:       rightPrep.side(rightSet),
		StartTime:   startTime,
		Records:     records,
		Summary:     summary,
		Status:      models.RunIdentical,
	}
	if summary.Differences() > 0 {
		report.Status = models.RunDifferent
	}
	report.EndTime = time.Now()
	report.Duration = report.EndTime.Sub(startTime)

	e.logger.Info(ctx, "Comparison completed", logging.Fields{
		"status":      string(report.Status),
		"matched":     summary.Matched,
		"mismatched":  summary.Mismatched,
		"left_only":   summary.LeftOnly,
		"right_only":  summary.RightOnly,
		"duration_ms": report.Duration.Milliseconds(),
	})

	return report, nil
}

// HashTree hashes dir into a set
func (e *Engine) HashTree(ctx context.Context, dir string) (*hashset.HashSet, error) {
	prep, err := e.prepare(ctx, Source{Tree: dir})
	if err != nil {
		return nil, err
	}
	defer prep.close()

	return e.build(ctx, filepath.Base(prep.backend.Root()), prep)
}

// Hash hashes dir and writes it as a listing to location ("-", a file or
// an s3:// URI). The listing is only created once hashing succeeded.
func (e *Engine) Hash(ctx context.Context, dir, location string) (*hashset.HashSet, error) {
	set, err := e.HashTree(ctx, dir)
	if err != nil {
		return nil, err
	}

	w, err := listing.Create(ctx, location, e.remote)
	if err != nil {
		return nil, err
	}
	if err := hashset.WriteListing(w, set); err != nil {
		w.Close()
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("failed to save listing %s: %w", location, err)
	}

	e.logger.Info(ctx, "Listing written", logging.Fields{
		"location": location,
		"files":    set.Len(),
	})
	return set, nil
}

// prepared is a source whose root or listing has been opened
type prepared struct {
	source  Source
	backend storage.Backend
	scanner *scan.Scanner
	reader  io.ReadCloser
	root    string
	// defaultRoot is the root of the opposite tree, if any
	defaultRoot string
}

func (p *prepared) treeRoot() string {
	if p.backend == nil {
		return ""
	}
	return p.backend.Root()
}

func (p *prepared) close() {
	if p.backend != nil {
		p.backend.Close()
	}
	if p.reader != nil {
		p.reader.Close()
	}
}

func (p *prepared) side(set *hashset.HashSet) models.Side {
	return models.Side{
		Kind:         p.source.Kind(),
		Root:         set.Root,
		Location:     p.source.Location(),
		Files:        set.Len(),
		RootInferred: p.source.Kind() == models.SideListing && p.root == "" && p.defaultRoot == "" && set.Root != "",
	}
}

func (e *Engine) prepare(ctx context.Context, src Source) (*prepared, error) {
	if err := src.Validate(); err != nil {
		return nil, err
	}

	if src.Kind() == models.SideTree {
		backend, err := e.openTree(src.Tree)
		if err != nil {
			return nil, err
		}
		scanner, err := scan.New(backend, scan.Options{
			Exclude:  e.operation.ExcludePatterns,
			Symlinks: e.operation.Symlinks,
		})
		if err != nil {
			backend.Close()
			return nil, err
		}
		return &prepared{source: src, backend: backend, scanner: scanner}, nil
	}

	root := ""
	if src.Root != "" {
		abs, err := filepath.Abs(src.Root)
		if err != nil {
			return nil, &models.InvalidRootError{Path: src.Root, Err: err}
		}
		root = abs
	}

	rc, err := listing.Open(ctx, src.Listing, e.remote)
	if err != nil {
		return nil, err
	}
	return &prepared{source: src, reader: rc, root: root}, nil
}

func (e *Engine) build(ctx context.Context, label string, p *prepared) (*hashset.HashSet, error) {
	logger := e.logger.WithFields(logging.Fields{"side": label})
	start := time.Now()

	if p.source.Kind() == models.SideListing {
		set, err := hashset.FromListing(ctx, p.reader, hashset.ListingOptions{
			Root:        p.root,
			DefaultRoot: p.defaultRoot,
			Source:      p.source.Listing,
			Logger:      logger,
		})
		if err != nil {
			return nil, err
		}
		if set.Len() == 0 {
			logger.Warn(ctx, "Listing has no entries", logging.Fields{"location": p.source.Listing})
		}
		logger.Info(ctx, "Listing loaded", logging.Fields{
			"location": p.source.Listing,
			"root":     set.Root,
			"files":    set.Len(),
		})
		return set, nil
	}

	hasher, err := digest.New(e.algorithm.Name)
	if err != nil {
		return nil, err
	}
	hasher.SetReaderWrapper(ratelimit.Wrapper(ctx, e.limiter))

	var progress Progress
	if e.progress != nil {
		progress = e.progress(label)
		defer progress.Finish()

		// A counting pass sizes the bar; the scanner is restartable.
		files, err := p.scanner.Files(ctx)
		if err != nil {
			return nil, err
		}
		progress.SetTotal(len(files))
		hasher.SetProgressCallback(progress.HashProgress)
	}

	opts := hashset.TreeOptions{
		Workers: e.operation.MaxWorkers,
		Logger:  logger,
	}
	if progress != nil {
		opts.Progress = progress
	}

	set, err := hashset.FromTree(ctx, p.scanner, hasher, opts)
	if err != nil {
		logger.Error(ctx, "Hashing failed", err, logging.Fields{"root": p.backend.Root()})
		return nil, err
	}

	logger.Info(ctx, "Tree hashed", logging.Fields{
		"root":        set.Root,
		"files":       set.Len(),
		"duration_ms": time.Since(start).Milliseconds(),
	})
	return set, nil
}
