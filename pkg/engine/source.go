package engine

import (
	"github.com/scolby33/foldercompare/pkg/models"
)

// Source is one side of a comparison: a directory tree or a saved listing
type Source struct {
	// Tree is a directory to scan and hash
	Tree string
	// Listing is a listing location ("-", a file or an s3:// URI)
	Listing string
	// Root maps absolute listing paths to relative ones; listings only
	Root string
}

// Kind reports whether the source is a tree or a listing
func (s Source) Kind() models.SideKind {
	if s.Listing != "" {
		return models.SideListing
	}
	return models.SideTree
}

// Location returns the directory or listing location as given
func (s Source) Location() string {
	if s.Listing != "" {
		return s.Listing
	}
	return s.Tree
}

// Validate checks that exactly one of Tree and Listing is set
func (s Source) Validate() error {
	switch {
	case s.Tree == "" && s.Listing == "":
		return &models.ValidationError{Field: "source", Message: "a directory or a listing is required"}
	case s.Tree != "" && s.Listing != "":
		return &models.ValidationError{Field: "source", Message: "a side cannot be both a directory and a listing"}
	case s.Tree != "" && s.Root != "":
		return &models.ValidationError{Field: "root", Message: "a root only applies to listings"}
	}
	return nil
}
