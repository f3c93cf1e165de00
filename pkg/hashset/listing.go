package hashset

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/scolby33/foldercompare/internal/platform"
	"github.com/scolby33/foldercompare/pkg/listing"
	"github.com/scolby33/foldercompare/pkg/logging"
	"github.com/scolby33/foldercompare/pkg/models"
)

// ListingOptions configures FromListing
type ListingOptions struct {
	// Root maps absolute listing paths to relative ones
	Root string
	// DefaultRoot is used when Root is empty. Every absolute path must lie
	// under it. When both are empty the deepest common directory of the
	// listed files is used.
	DefaultRoot string
	// Source names the listing in error messages
	Source    string
	Algorithm string
	Logger    logging.Logger
}

// FromListing parses a listing into a set. Duplicate paths keep the
// digest of their last line and the position of their first.
func FromListing(ctx context.Context, r io.Reader, opts ListingOptions) (*HashSet, error) {
	logger := logging.OrNull(opts.Logger)

	lines, err := listing.Parse(r, opts.Source)
	if err != nil {
		return nil, err
	}

	root := opts.Root
	switch {
	case root != "":
		root = platform.NormalizePath(root)
	case opts.DefaultRoot != "":
		root = platform.NormalizePath(opts.DefaultRoot)
		if err := checkUnder(root, lines, opts.Source); err != nil {
			return nil, err
		}
	default:
		root, err = inferRoot(lines, opts.Source)
		if err != nil {
			return nil, err
		}
		if root != "" {
			logger.Warn(ctx, "listing root inferred from common directory", logging.Fields{
				"source": opts.Source,
				"root":   root,
			})
		}
	}

	set := newSet(root, opts.Algorithm, len(lines))
	for _, line := range lines {
		rel, err := relativePath(root, line)
		if err != nil {
			return nil, &models.MalformedListingError{Source: opts.Source, Line: line.Number, Reason: err.Error()}
		}
		set.put(rel, line.Digest)
	}

	logger.Debug(ctx, "listing loaded", logging.Fields{
		"source": opts.Source,
		"lines":  len(lines),
		"files":  set.Len(),
	})
	return set, nil
}

// inferRoot returns the common directory of absolute listing paths, or ""
// when every path is relative
func inferRoot(lines []listing.Line, source string) (string, error) {
	var absolute []string
	relative := 0
	for _, line := range lines {
		if platform.IsAbsolute(line.Path) {
			absolute = append(absolute, line.Path)
		} else {
			relative++
		}

		if len(absolute) > 0 && relative > 0 {
			return "", &models.MalformedListingError{
				Source: source,
				Line:   line.Number,
				Reason: "listing mixes absolute and relative paths; pass an explicit root",
			}
		}
	}
	return platform.CommonRoot(absolute), nil
}

// checkUnder rejects a default root that does not contain every absolute
// listing path
func checkUnder(root string, lines []listing.Line, source string) error {
	for _, line := range lines {
		if !platform.IsAbsolute(line.Path) {
			continue
		}
		if _, ok := platform.RelativeTo(root, line.Path); !ok {
			if source == "" {
				source = "listing"
			}
			return &models.ValidationError{
				Field: "root",
				Message: fmt.Sprintf("%s:%d: %s is not under %s; give the listing root explicitly",
					source, line.Number, line.Path, root),
			}
		}
	}
	return nil
}

func relativePath(root string, line listing.Line) (string, error) {
	if !platform.IsAbsolute(line.Path) {
		rel := platform.ToRelative(line.Path)
		if rel == "" || rel == ".." || strings.HasPrefix(rel, "../") {
			return "", fmt.Errorf("path %q escapes the listing root", line.Path)
		}
		return rel, nil
	}

	rel, ok := platform.RelativeTo(root, line.Path)
	if !ok {
		return "", fmt.Errorf("path %q is outside root %s", line.Path, root)
	}
	return rel, nil
}

// WriteListing writes one "<digest> <root/path>" line per entry in set order
func WriteListing(w io.Writer, set *HashSet) error {
	lw := listing.NewWriter(w)
	for _, p := range set.order {
		if err := lw.Write(set.digests[p], set.DisplayPath(p)); err != nil {
			return fmt.Errorf("failed to write listing: %w", err)
		}
	}
	if err := lw.Flush(); err != nil {
		return fmt.Errorf("failed to write listing: %w", err)
	}
	return nil
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
