package hashset

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/scolby33/foldercompare/pkg/digest"
	"github.com/scolby33/foldercompare/pkg/logging"
	"github.com/scolby33/foldercompare/pkg/scan"
)

// Progress receives file-level hashing events
type Progress interface {
	// FileStart is called before a file is hashed; index is its 1-based scan position
	FileStart(path string, index int)
	// FileDone is called after a file has been hashed successfully
	FileDone(path string, index int)
}

// TreeOptions configures FromTree
type TreeOptions struct {
	// Workers bounds concurrent hashing; values below 2 hash sequentially
	Workers  int
	Progress Progress
	Logger   logging.Logger
}

// FromTree hashes every file the scanner yields. The first failure aborts
// the build and no partial set is returned.
func FromTree(ctx context.Context, scanner *scan.Scanner, hasher *digest.Hasher, opts TreeOptions) (*HashSet, error) {
	logger := logging.OrNull(opts.Logger)

	if opts.Workers > 1 {
		return buildParallel(ctx, scanner, hasher, opts, logger)
	}
	return buildSequential(ctx, scanner, hasher, opts, logger)
}

func buildSequential(ctx context.Context, scanner *scan.Scanner, hasher *digest.Hasher, opts TreeOptions, logger logging.Logger) (*HashSet, error) {
	backend := scanner.Backend()
	set := newSet(backend.Root(), hasher.Algorithm().Name, 0)

	index := 0
	for rel, err := range scanner.Scan(ctx) {
		if err != nil {
			return nil, err
		}
		index++

		sum, err := hashOne(ctx, hasher, scanner, rel, index, opts.Progress, logger)
		if err != nil {
			return nil, err
		}
		set.put(rel, sum)
	}

	return set, nil
}

// buildParallel collects the whole path list first, then hashes into
// pre-sized slots so the set keeps scan order. A failure cancels only the
// files after it in scan order, so the error returned is the one a
// sequential build would have hit first.
func buildParallel(ctx context.Context, scanner *scan.Scanner, hasher *digest.Hasher, opts TreeOptions, logger logging.Logger) (*HashSet, error) {
	paths, err := scanner.Files(ctx)
	if err != nil {
		return nil, err
	}

	sums := make([]string, len(paths))
	errs := make([]error, len(paths))
	cancels := make([]context.CancelFunc, len(paths))
	semaphore := make(chan struct{}, opts.Workers)
	var wg sync.WaitGroup

	// failed is the lowest scan index that failed so far
	var mu sync.Mutex
	failed := len(paths)

	fail := func(i int) {
		mu.Lock()
		defer mu.Unlock()
		if i >= failed {
			return
		}
		failed = i
		for j := i + 1; j < len(cancels); j++ {
			if cancels[j] != nil {
				cancels[j]()
			}
		}
	}

dispatch:
	for i, rel := range paths {
		// Acquire semaphore slot
		select {
		case semaphore <- struct{}{}:
		case <-ctx.Done():
			break dispatch
		}

		mu.Lock()
		if i > failed {
			mu.Unlock()
			<-semaphore
			break
		}
		fileCtx, fileCancel := context.WithCancel(ctx)
		cancels[i] = fileCancel
		mu.Unlock()

		wg.Add(1)
		go func(i int, rel string) {
			defer wg.Done()
			defer func() { <-semaphore }()
			defer fileCancel()

			sum, err := hashOne(fileCtx, hasher, scanner, rel, i+1, opts.Progress, logger)
			if err != nil {
				errs[i] = err
				if !errors.Is(err, context.Canceled) {
					fail(i)
				}
				return
			}
			sums[i] = sum
		}(i, rel)
	}

	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if failed < len(paths) {
		return nil, errs[failed]
	}

	set := newSet(scanner.Backend().Root(), hasher.Algorithm().Name, len(paths))
	for i, rel := range paths {
		set.put(rel, sums[i])
	}
	return set, nil
}

func hashOne(ctx context.Context, hasher *digest.Hasher, scanner *scan.Scanner, rel string, index int, progress Progress, logger logging.Logger) (string, error) {
	if progress != nil {
		progress.FileStart(rel, index)
	}

	start := time.Now()
	sum, err := hasher.HashFile(ctx, scanner.Backend(), rel)
	if err != nil {
		return "", fmt.Errorf("failed to hash %s: %w", rel, err)
	}

	logger.Debug(ctx, "hashed file", logging.Fields{
		"path":     rel,
		"duration": time.Since(start).String(),
	})

	if progress != nil {
		progress.FileDone(rel, index)
	}
	return sum, nil
}
