package output

import (
	"fmt"
	"io"
	"time"

	"github.com/scolby33/foldercompare/internal/platform"
	"github.com/scolby33/foldercompare/pkg/models"
)

// HumanFormatter prints one block per difference:
//
//	<left digest|ABSENT> <left root/path>
//	<right digest|ABSENT> <right root/path>
//	<blank line>
//
// Matching paths are not printed.
type HumanFormatter struct {
	summary io.Writer
}

// NewHumanFormatter creates a new human-readable formatter
func NewHumanFormatter() *HumanFormatter {
	return &HumanFormatter{}
}

// SetSummaryWriter sets where the closing summary goes; nil disables it
func (f *HumanFormatter) SetSummaryWriter(w io.Writer) {
	f.summary = w
}

// Complete writes the difference blocks
func (f *HumanFormatter) Complete(w io.Writer, report *models.ComparisonReport) error {
	if err := writeBlocks(w, report); err != nil {
		return err
	}
	if f.summary != nil {
		writeSummary(f.summary, report)
	}
	return nil
}

func writeBlocks(w io.Writer, report *models.ComparisonReport) error {
	for _, rec := range report.Records {
		if !rec.IsDifference() {
			continue
		}
		_, err := fmt.Fprintf(w, "%s %s\n%s %s\n\n",
			rec.LeftText(), platform.DisplayPath(report.Left.Root, rec.Path),
			rec.RightText(), platform.DisplayPath(report.Right.Root, rec.Path))
		if err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
	}
	return nil
}

func writeSummary(w io.Writer, report *models.ComparisonReport) {
	s := report.Summary
	fmt.Fprintf(w, "Compared %d paths (%s) in %s\n", s.Total(), report.Algorithm, report.Duration.Round(time.Millisecond))
	fmt.Fprintf(w, "  Left:        %s (%s, %d files)\n", report.Left.Location, report.Left.Kind, report.Left.Files)
	fmt.Fprintf(w, "  Right:       %s (%s, %d files)\n", report.Right.Location, report.Right.Kind, report.Right.Files)
	fmt.Fprintf(w, "  Matched:     %d\n", s.Matched)
	fmt.Fprintf(w, "  Mismatched:  %d\n", s.Mismatched)
	fmt.Fprintf(w, "  Left only:   %d\n", s.LeftOnly)
	fmt.Fprintf(w, "  Right only:  %d\n", s.RightOnly)
	fmt.Fprintf(w, "Status: %s\n", report.Status)
}

// Name returns the formatter name
func (f *HumanFormatter) Name() string {
	return "human"
}

// formatBytes formats bytes in human-readable format
func formatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(bytes)/float64(div), "KMGTPE"[exp])
}
