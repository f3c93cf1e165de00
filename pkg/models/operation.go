package models

import (
	"time"
)

// SymlinkMode defines how symbolic links found while scanning are treated
type SymlinkMode string

const (
	// SymlinksSkip ignores every symbolic link
	SymlinksSkip SymlinkMode = "skip"
	// SymlinksFiles hashes links that resolve to regular files; directory
	// links and broken links are still skipped
	SymlinksFiles SymlinkMode = "files"
)

// Operation represents a comparison run configuration
type Operation struct {
	ID              string
	Algorithm       string
	ExcludePatterns []string
	Symlinks        SymlinkMode
	MaxWorkers      int
	BandwidthLimit  int64 // bytes per second, 0 = unlimited
	CreatedAt       time.Time
}

// Validate checks if the operation configuration is valid
func (op *Operation) Validate() error {
	if op.Algorithm == "" {
		return &ValidationError{Field: "Algorithm", Message: "hash algorithm is required"}
	}
	if op.MaxWorkers < 1 {
		return &ValidationError{Field: "MaxWorkers", Message: "max workers must be at least 1"}
	}
	if op.BandwidthLimit < 0 {
		return &ValidationError{Field: "BandwidthLimit", Message: "bandwidth limit cannot be negative"}
	}
	switch op.Symlinks {
	case SymlinksSkip, SymlinksFiles:
	default:
		return &ValidationError{Field: "Symlinks", Message: "must be 'skip' or 'files'"}
	}
	return nil
}
