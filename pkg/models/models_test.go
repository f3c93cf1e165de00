package models

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"testing"
)

// ============== ComparisonRecord Tests ==============

func TestComparisonRecordStatus(t *testing.T) {
	tests := []struct {
		name   string
		record ComparisonRecord
		want   RecordStatus
	}{
		{"Match", ComparisonRecord{Path: "a", Left: "aa", Right: "aa"}, StatusMatch},
		{"Mismatch", ComparisonRecord{Path: "b", Left: "aa", Right: "bb"}, StatusMismatch},
		{"LeftOnly", ComparisonRecord{Path: "c", Left: "aa"}, StatusLeftOnly},
		{"RightOnly", ComparisonRecord{Path: "d", Right: "bb"}, StatusRightOnly},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.record.Status(); got != tt.want {
				t.Errorf("Status() = %s, want %s", got, tt.want)
			}
			if got := tt.record.IsDifference(); got != (tt.want != StatusMatch) {
				t.Errorf("IsDifference() = %v for %s", got, tt.want)
			}
		})
	}
}

func TestComparisonRecordText(t *testing.T) {
	rec := ComparisonRecord{Path: "c", Left: "aa"}

	if rec.LeftText() != "aa" {
		t.Errorf("LeftText() = %s, want aa", rec.LeftText())
	}
	if rec.RightText() != Absent {
		t.Errorf("RightText() = %s, want %s", rec.RightText(), Absent)
	}

	swapped := rec.Swap()
	if swapped.Status() != StatusRightOnly {
		t.Errorf("Swap().Status() = %s, want %s", swapped.Status(), StatusRightOnly)
	}
	if swapped.Path != rec.Path {
		t.Errorf("Swap() changed path to %s", swapped.Path)
	}
}

// ============== Report Tests ==============

func TestRunStatusExitCode(t *testing.T) {
	tests := []struct {
		status RunStatus
		want   int
	}{
		{RunIdentical, 0},
		{RunDifferent, 1},
		{RunFailed, 2},
		{RunStatus("unknown"), 2},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			if got := tt.status.ExitCode(); got != tt.want {
				t.Errorf("ExitCode() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestReportDifferences(t *testing.T) {
	report := &ComparisonReport{
		Records: []ComparisonRecord{
			{Path: "a", Left: "11", Right: "11"},
			{Path: "b", Left: "11", Right: "22"},
			{Path: "c", Left: "33"},
		},
	}

	diffs := report.Differences()
	if len(diffs) != 2 {
		t.Fatalf("Differences() returned %d records, want 2", len(diffs))
	}
	if diffs[0].Path != "b" || diffs[1].Path != "c" {
		t.Errorf("Differences() order = %s,%s, want b,c", diffs[0].Path, diffs[1].Path)
	}
}

func TestSummary(t *testing.T) {
	s := Summary{Matched: 3, Mismatched: 1, LeftOnly: 2, RightOnly: 4}
	if s.Total() != 10 {
		t.Errorf("Total() = %d, want 10", s.Total())
	}
	if s.Differences() != 7 {
		t.Errorf("Differences() = %d, want 7", s.Differences())
	}
}

// ============== Operation Tests ==============

func TestOperationValidate(t *testing.T) {
	valid := func() *Operation {
		return &Operation{Algorithm: "sha3_256", MaxWorkers: 1, Symlinks: SymlinksSkip}
	}

	t.Run("Valid", func(t *testing.T) {
		if err := valid().Validate(); err != nil {
			t.Errorf("Validate() error = %v", err)
		}
	})

	t.Run("MissingAlgorithm", func(t *testing.T) {
		op := valid()
		op.Algorithm = ""
		assertValidationField(t, op.Validate(), "Algorithm")
	})

	t.Run("ZeroWorkers", func(t *testing.T) {
		op := valid()
		op.MaxWorkers = 0
		assertValidationField(t, op.Validate(), "MaxWorkers")
	})

	t.Run("NegativeBandwidth", func(t *testing.T) {
		op := valid()
		op.BandwidthLimit = -1
		assertValidationField(t, op.Validate(), "BandwidthLimit")
	})

	t.Run("UnknownSymlinkMode", func(t *testing.T) {
		op := valid()
		op.Symlinks = "follow"
		assertValidationField(t, op.Validate(), "Symlinks")
	})
}

func assertValidationField(t *testing.T, err error, field string) {
	t.Helper()
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *ValidationError, got %v", err)
	}
	if verr.Field != field {
		t.Errorf("Field = %s, want %s", verr.Field, field)
	}
}

// ============== Error Tests ==============

func TestErrorSentinels(t *testing.T) {
	cause := os.ErrPermission
	tests := []struct {
		name     string
		err      error
		sentinel error
		contains string
	}{
		{"InvalidRoot", &InvalidRootError{Path: "/nope", Err: os.ErrNotExist}, ErrInvalidRoot, "/nope"},
		{"Scan", &ScanError{Path: "sub", Err: cause}, ErrScan, "sub"},
		{"IO", &IOError{Path: "f.txt", Err: cause}, ErrIO, "f.txt"},
		{"Algorithm", &UnsupportedAlgorithmError{Name: "sha4", Supported: []string{"md5"}}, ErrUnsupportedAlgorithm, "sha4"},
		{"Listing", &MalformedListingError{Source: "a.txt", Line: 7, Reason: "missing separator"}, ErrMalformedListing, "a.txt:7"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrapped := fmt.Errorf("outer: %w", tt.err)
			if !errors.Is(wrapped, tt.sentinel) {
				t.Errorf("errors.Is(%v, sentinel) = false", wrapped)
			}
			if !strings.Contains(tt.err.Error(), tt.contains) {
				t.Errorf("Error() = %q, want it to contain %q", tt.err.Error(), tt.contains)
			}
		})
	}

	t.Run("UnwrapCause", func(t *testing.T) {
		err := fmt.Errorf("outer: %w", &IOError{Path: "f", Err: cause})
		if !errors.Is(err, os.ErrPermission) {
			t.Error("IOError should unwrap to its cause")
		}
	})
}
