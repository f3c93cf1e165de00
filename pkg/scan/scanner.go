package scan

import (
	"context"
	"iter"
	"path"

	"github.com/scolby33/foldercompare/pkg/models"
	"github.com/scolby33/foldercompare/pkg/storage"
)

// Options configures a Scanner
type Options struct {
	Exclude  []string
	Symlinks models.SymlinkMode
}

// Scanner enumerates the regular files under a backend's root.
// Entries are visited depth-first in lexicographic name order and
// subdirectories are descended in place. Directory symlinks are never
// followed, so a scan always terminates.
type Scanner struct {
	backend  storage.Backend
	symlinks models.SymlinkMode
	exclude  *Matcher
}

// New creates a scanner over backend
func New(backend storage.Backend, opts Options) (*Scanner, error) {
	exclude, err := NewMatcher(opts.Exclude)
	if err != nil {
		return nil, err
	}

	symlinks := opts.Symlinks
	if symlinks == "" {
		symlinks = models.SymlinksSkip
	}

	return &Scanner{
		backend:  backend,
		symlinks: symlinks,
		exclude:  exclude,
	}, nil
}

// Backend returns the backend being scanned
func (s *Scanner) Backend() storage.Backend {
	return s.backend
}

// Scan yields the relative path of every regular file. Each range over the
// returned sequence walks the tree again from the root.
// A directory that cannot be read ends the sequence with a *models.ScanError.
func (s *Scanner) Scan(ctx context.Context) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		if err := s.walk(ctx, "", yield); err != nil && err != errStopped {
			yield("", err)
		}
	}
}

// Files collects the whole scan into a slice
func (s *Scanner) Files(ctx context.Context) ([]string, error) {
	var files []string
	for p, err := range s.Scan(ctx) {
		if err != nil {
			return nil, err
		}
		files = append(files, p)
	}
	return files, nil
}

type stopError struct{}

func (stopError) Error() string { return "scan stopped" }

var errStopped error = stopError{}

func (s *Scanner) walk(ctx context.Context, dir string, yield func(string, error) bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	entries, err := s.backend.ReadDir(ctx, dir)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		display := dir
		if display == "" {
			display = "."
		}
		return &models.ScanError{Path: display, Err: err}
	}

	for _, entry := range entries {
		rel := path.Join(dir, entry.Name)

		switch entry.Kind {
		case storage.KindDir:
			if s.exclude.Match(rel, true) {
				continue
			}
			if err := s.walk(ctx, rel, yield); err != nil {
				return err
			}

		case storage.KindRegular:
			if s.exclude.Match(rel, false) {
				continue
			}
			if !yield(rel, nil) {
				return errStopped
			}

		case storage.KindSymlink:
			if s.symlinks != models.SymlinksFiles || s.exclude.Match(rel, false) {
				continue
			}
			// Broken links and links to directories are skipped
			info, err := s.backend.Stat(ctx, rel)
			if err != nil || info.Kind != storage.KindRegular {
				continue
			}
			if !yield(rel, nil) {
				return errStopped
			}
		}
	}
	return nil
}
