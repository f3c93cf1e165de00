package output

import (
	"fmt"
	"io"

	"github.com/scolby33/foldercompare/pkg/models"
)

// Formatter defines the interface for rendering a comparison report.
// Implementations include human-readable and JSON formatters.
type Formatter interface {
	// Complete renders the finished report to the writer
	Complete(w io.Writer, report *models.ComparisonReport) error

	// Name returns the formatter name
	Name() string
}

// NewFormatter returns the formatter registered under name
func NewFormatter(name string) (Formatter, error) {
	switch name {
	case "", "human":
		return NewHumanFormatter(), nil
	case "json":
		return NewJSONFormatter(), nil
	default:
		return nil, fmt.Errorf("unknown output format %q (valid: human, json)", name)
	}
}
