package models

import (
	"time"
)

// SideKind tells where a side's hashes came from
type SideKind string

const (
	// SideTree indicates the side was hashed from a live directory
	SideTree SideKind = "tree"
	// SideListing indicates the side was loaded from a saved listing
	SideListing SideKind = "listing"
)

// Side describes one input of a comparison
type Side struct {
	// Kind is tree or listing
	Kind SideKind `json:"kind"`

	// Root is the absolute root used to display full paths
	Root string `json:"root"`

	// Location is the directory or listing location as given by the user
	Location string `json:"location"`

	// Files is the number of paths in the side's hash set
	Files int `json:"files"`

	// RootInferred is set when a listing root was derived from its paths
	RootInferred bool `json:"root_inferred,omitempty"`
}

// ComparisonReport represents the results of a comparison run
type ComparisonReport struct {
	// Operation details
	OperationID string
	Algorithm   string
	Left        Side
	Right       Side

	// Timing
	StartTime time.Time
	EndTime   time.Time
	Duration  time.Duration

	// Records holds one entry per distinct path, matches included
	Records []ComparisonRecord

	// Summary counts records per status
	Summary Summary

	// Overall status
	Status RunStatus
}

// Differences returns the records that are not matches, in record order
func (r *ComparisonReport) Differences() []ComparisonRecord {
	diffs := make([]ComparisonRecord, 0, len(r.Records))
	for _, rec := range r.Records {
		if rec.IsDifference() {
			diffs = append(diffs, rec)
		}
	}
	return diffs
}

// Summary holds per-status record counts
type Summary struct {
	Matched    int `json:"matched"`
	Mismatched int `json:"mismatched"`
	LeftOnly   int `json:"left_only"`
	RightOnly  int `json:"right_only"`
}

// Total returns the number of distinct paths
func (s Summary) Total() int {
	return s.Matched + s.Mismatched + s.LeftOnly + s.RightOnly
}

// Differences returns the number of non-matching paths
func (s Summary) Differences() int {
	return s.Mismatched + s.LeftOnly + s.RightOnly
}

// RunStatus represents the overall result
type RunStatus string

const (
	// RunIdentical indicates every path matched
	RunIdentical RunStatus = "identical"
	// RunDifferent indicates at least one difference was found
	RunDifferent RunStatus = "different"
	// RunFailed indicates the comparison could not complete
	RunFailed RunStatus = "failed"
)

// ExitCode returns the appropriate exit code for the run status
func (s RunStatus) ExitCode() int {
	switch s {
	case RunIdentical:
		return 0
	case RunDifferent:
		return 1
	case RunFailed:
		return 2
	default:
		return 2
	}
}
