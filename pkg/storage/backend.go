package storage

import (
	"context"
	"io"
	"io/fs"
	"time"
)

// EntryKind classifies a directory entry without following symlinks
type EntryKind string

const (
	KindRegular EntryKind = "regular"
	KindDir     EntryKind = "dir"
	KindSymlink EntryKind = "symlink"
	// KindOther covers devices, sockets, named pipes and the like
	KindOther EntryKind = "other"
)

// Entry is one child of a directory, as returned by ReadDir
type Entry struct {
	Name string
	Kind EntryKind
}

// FileInfo represents metadata about a file
type FileInfo struct {
	Path         string
	RelativePath string
	Size         int64
	ModTime      time.Time
	Kind         EntryKind
}

// Backend defines the read-only view of a tree that gets hashed.
// Paths are slash-separated and relative to Root; "" is the root itself.
// Implementations include the local filesystem and go-billy filesystems.
type Backend interface {
	// Root returns the absolute root used when displaying full paths
	Root() string

	// ReadDir lists the children of a directory sorted by name.
	// Symlinks are reported as KindSymlink and never resolved.
	ReadDir(ctx context.Context, path string) ([]Entry, error)

	// Open opens a file for reading
	Open(ctx context.Context, path string) (io.ReadCloser, error)

	// Stat returns file metadata, following symlinks
	Stat(ctx context.Context, path string) (*FileInfo, error)

	// Close releases any resources held by the backend
	Close() error
}

// kindOf classifies mode bits as returned by Lstat or DirEntry.Type
func kindOf(mode fs.FileMode) EntryKind {
	switch {
	case mode&fs.ModeSymlink != 0:
		return KindSymlink
	case mode.IsDir():
		return KindDir
	case mode.IsRegular():
		return KindRegular
	default:
		return KindOther
	}
}
