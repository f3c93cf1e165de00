package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/scolby33/foldercompare/internal/platform"
	"github.com/scolby33/foldercompare/pkg/models"
)

// CheckDifferencesFormat rejects a differences report format other than
// "human" or "json"
func CheckDifferencesFormat(format string) error {
	switch format {
	case "human", "json":
		return nil
	}
	return &models.ValidationError{
		Field:   "diff-format",
		Message: fmt.Sprintf("unknown format %q (valid: human, json)", format),
	}
}

// WriteDifferencesReport writes the differences report to a file.
// Format can be "human" or "json".
func WriteDifferencesReport(report *models.ComparisonReport, filepath string, format string) error {
	if err := CheckDifferencesFormat(format); err != nil {
		return err
	}
	if report.Summary.Differences() == 0 {
		// No differences - don't create empty file
		return nil
	}

	file, err := os.Create(filepath)
	if err != nil {
		return fmt.Errorf("failed to create differences file: %w", err)
	}
	defer file.Close()

	if format == "json" {
		err = writeDifferencesJSON(report, file)
	} else {
		err = writeDifferencesHuman(report, file)
	}
	if err != nil {
		return err
	}
	return file.Close()
}

// writeDifferencesHuman writes differences grouped by status
func writeDifferencesHuman(report *models.ComparisonReport, w io.Writer) error {
	fmt.Fprintf(w, "Differences Report\n")
	fmt.Fprintf(w, "==================\n\n")
	fmt.Fprintf(w, "Generated: %s\n", time.Now().Format(time.RFC3339))
	fmt.Fprintf(w, "Operation: %s\n", report.OperationID)
	fmt.Fprintf(w, "Algorithm: %s\n", report.Algorithm)
	fmt.Fprintf(w, "Left: %s\n", report.Left.Location)
	fmt.Fprintf(w, "Right: %s\n\n", report.Right.Location)

	fmt.Fprintf(w, "Total Differences: %d\n\n", report.Summary.Differences())

	byStatus := make(map[models.RecordStatus][]models.ComparisonRecord)
	for _, rec := range report.Differences() {
		byStatus[rec.Status()] = append(byStatus[rec.Status()], rec)
	}

	statusOrder := []models.RecordStatus{
		models.StatusMismatch,
		models.StatusLeftOnly,
		models.StatusRightOnly,
	}

	statusLabels := map[models.RecordStatus]string{
		models.StatusMismatch:  "Hash Mismatches",
		models.StatusLeftOnly:  "Only in Left",
		models.StatusRightOnly: "Only in Right",
	}

	for _, status := range statusOrder {
		recs := byStatus[status]
		if len(recs) == 0 {
			continue
		}

		label := fmt.Sprintf("%s (%d files)", statusLabels[status], len(recs))
		fmt.Fprintf(w, "%s\n", label)
		fmt.Fprintf(w, "%s\n", strings.Repeat("-", len(label)))

		for _, rec := range recs {
			fmt.Fprintf(w, "  %s\n", rec.Path)
			fmt.Fprintf(w, "    Left:   %s  %s\n", rec.LeftText(), platform.DisplayPath(report.Left.Root, rec.Path))
			fmt.Fprintf(w, "    Right:  %s  %s\n", rec.RightText(), platform.DisplayPath(report.Right.Root, rec.Path))
		}

		if _, err := fmt.Fprintf(w, "\n"); err != nil {
			return fmt.Errorf("failed to write differences: %w", err)
		}
	}

	return nil
}

// writeDifferencesJSON writes differences in JSON format
func writeDifferencesJSON(report *models.ComparisonReport, w io.Writer) error {
	data := buildReportData(report, false)
	output := struct {
		Generated   string           `json:"generated"`
		OperationID string           `json:"operation_id"`
		Left        string           `json:"left"`
		Right       string           `json:"right"`
		TotalCount  int              `json:"total_count"`
		Differences []JSONRecordData `json:"differences"`
	}{
		Generated:   time.Now().Format(time.RFC3339),
		OperationID: report.OperationID,
		Left:        report.Left.Location,
		Right:       report.Right.Location,
		TotalCount:  len(data.Records),
		Differences: data.Records,
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(output)
}
