package models

// RecordStatus classifies a ComparisonRecord. It is derived from the
// digests on each side and never stored separately.
type RecordStatus string

const (
	// StatusMatch indicates both sides hold the same digest
	StatusMatch RecordStatus = "match"
	// StatusMismatch indicates both sides exist with different digests
	StatusMismatch RecordStatus = "mismatch"
	// StatusLeftOnly indicates the path exists only on the left side
	StatusLeftOnly RecordStatus = "left_only"
	// StatusRightOnly indicates the path exists only on the right side
	StatusRightOnly RecordStatus = "right_only"
)

// Absent is the text rendered in place of a digest for a missing side
const Absent = "ABSENT"

// ComparisonRecord is the outcome of reconciling one relative path.
// An empty digest means the path is absent on that side; at least one
// side is always present.
type ComparisonRecord struct {
	// Path is the slash-separated path relative to each side's root
	Path string `json:"path"`

	// Left is the left-side digest, empty when absent
	Left string `json:"left_digest,omitempty"`

	// Right is the right-side digest, empty when absent
	Right string `json:"right_digest,omitempty"`
}

// HasLeft reports whether the path exists on the left side
func (r ComparisonRecord) HasLeft() bool {
	return r.Left != ""
}

// HasRight reports whether the path exists on the right side
func (r ComparisonRecord) HasRight() bool {
	return r.Right != ""
}

// Status derives the classification of the record
func (r ComparisonRecord) Status() RecordStatus {
	switch {
	case r.HasLeft() && r.HasRight():
		if r.Left == r.Right {
			return StatusMatch
		}
		return StatusMismatch
	case r.HasLeft():
		return StatusLeftOnly
	default:
		return StatusRightOnly
	}
}

// IsDifference reports whether the record is anything other than a match
func (r ComparisonRecord) IsDifference() bool {
	return r.Status() != StatusMatch
}

// Swap returns the record with left and right exchanged
func (r ComparisonRecord) Swap() ComparisonRecord {
	return ComparisonRecord{Path: r.Path, Left: r.Right, Right: r.Left}
}

// LeftText returns the left digest or Absent
func (r ComparisonRecord) LeftText() string {
	if r.HasLeft() {
		return r.Left
	}
	return Absent
}

// RightText returns the right digest or Absent
func (r ComparisonRecord) RightText() string {
	if r.HasRight() {
		return r.Right
	}
	return Absent
}
