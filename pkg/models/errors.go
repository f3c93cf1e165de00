package models

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinels for errors.Is checks against the typed errors below
var (
	ErrInvalidRoot          = errors.New("invalid root")
	ErrScan                 = errors.New("scan failed")
	ErrIO                   = errors.New("read failed")
	ErrUnsupportedAlgorithm = errors.New("unsupported hash algorithm")
	ErrMalformedListing     = errors.New("malformed listing")
)

// ValidationError represents a validation error. Err, when set, is the
// typed cause and stays reachable through errors.Is and errors.As.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

func (e *ValidationError) Unwrap() error { return e.Err }

// InvalidRootError reports a comparison root that is missing or not a directory
type InvalidRootError struct {
	Path string
	Err  error
}

func (e *InvalidRootError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid root %s: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("invalid root %s: not a directory", e.Path)
}

func (e *InvalidRootError) Unwrap() error { return e.Err }

func (e *InvalidRootError) Is(target error) bool { return target == ErrInvalidRoot }

// ScanError reports a failure while walking a tree
type ScanError struct {
	Path string
	Err  error
}

func (e *ScanError) Error() string {
	return fmt.Sprintf("scan %s: %v", e.Path, e.Err)
}

func (e *ScanError) Unwrap() error { return e.Err }

func (e *ScanError) Is(target error) bool { return target == ErrScan }

// IOError reports a failure reading a file while hashing it
type IOError struct {
	Path string
	Err  error
}

func (e *IOError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("read: %v", e.Err)
	}
	return fmt.Sprintf("read %s: %v", e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

func (e *IOError) Is(target error) bool { return target == ErrIO }

// UnsupportedAlgorithmError reports an unknown digest algorithm name
type UnsupportedAlgorithmError struct {
	Name      string
	Supported []string
}

func (e *UnsupportedAlgorithmError) Error() string {
	if len(e.Supported) == 0 {
		return fmt.Sprintf("unsupported hash algorithm: %q", e.Name)
	}
	return fmt.Sprintf("unsupported hash algorithm: %q (valid: %s)", e.Name, strings.Join(e.Supported, ", "))
}

func (e *UnsupportedAlgorithmError) Is(target error) bool { return target == ErrUnsupportedAlgorithm }

// MalformedListingError reports an unparsable listing line.
// Line is 1-based.
type MalformedListingError struct {
	Source string
	Line   int
	Reason string
}

func (e *MalformedListingError) Error() string {
	source := e.Source
	if source == "" {
		source = "listing"
	}
	return fmt.Sprintf("%s:%d: malformed listing line: %s", source, e.Line, e.Reason)
}

func (e *MalformedListingError) Is(target error) bool { return target == ErrMalformedListing }
