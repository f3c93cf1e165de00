package storage

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"sort"

	"github.com/go-git/go-billy/v5"

	"github.com/scolby33/foldercompare/pkg/models"
)

// Billy is a storage backend over any go-billy filesystem, such as memfs
// for in-memory trees or osfs for a chrooted view of the disk.
type Billy struct {
	fs   billy.Filesystem
	root string
}

// NewBilly creates a backend rooted at dir inside fs.
// It fails with *models.InvalidRootError when dir is missing or not a directory.
func NewBilly(fs billy.Filesystem, dir string) (*Billy, error) {
	if dir == "" {
		dir = "/"
	}

	info, err := fs.Stat(dir)
	if err != nil {
		return nil, &models.InvalidRootError{Path: dir, Err: err}
	}
	if !info.IsDir() {
		return nil, &models.InvalidRootError{Path: dir}
	}

	chrooted, err := fs.Chroot(dir)
	if err != nil {
		return nil, &models.InvalidRootError{Path: dir, Err: err}
	}

	return &Billy{
		fs:   chrooted,
		root: filepath.Join(fs.Root(), filepath.FromSlash(dir)),
	}, nil
}

// Root returns the display root of the chrooted filesystem
func (b *Billy) Root() string {
	return b.root
}

// ReadDir lists a directory sorted by name
func (b *Billy) ReadDir(ctx context.Context, path string) ([]Entry, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	infos, err := b.fs.ReadDir(b.path(path))
	if err != nil {
		return nil, fmt.Errorf("billy: readdir %q: %w", path, err)
	}

	sort.Slice(infos, func(i, j int) bool {
		return infos[i].Name() < infos[j].Name()
	})

	entries := make([]Entry, 0, len(infos))
	for _, info := range infos {
		entries = append(entries, Entry{
			Name: info.Name(),
			Kind: kindOf(info.Mode()),
		})
	}
	return entries, nil
}

// Open opens a file for reading
func (b *Billy) Open(ctx context.Context, path string) (io.ReadCloser, error) {
	f, err := b.fs.Open(b.path(path))
	if err != nil {
		return nil, fmt.Errorf("billy: open %q: %w", path, err)
	}
	return f, nil
}

// Stat returns file metadata, following symlinks
func (b *Billy) Stat(ctx context.Context, path string) (*FileInfo, error) {
	info, err := b.fs.Stat(b.path(path))
	if err != nil {
		return nil, fmt.Errorf("billy: stat %q: %w", path, err)
	}

	return &FileInfo{
		Path:         filepath.Join(b.root, filepath.FromSlash(path)),
		RelativePath: path,
		Size:         info.Size(),
		ModTime:      info.ModTime(),
		Kind:         kindOf(info.Mode()),
	}, nil
}

// Close is a no-op; the underlying filesystem is owned by the caller
func (b *Billy) Close() error {
	return nil
}

func (b *Billy) path(path string) string {
	if path == "" {
		return "."
	}
	return filepath.FromSlash(path)
}
