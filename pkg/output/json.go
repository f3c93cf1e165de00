package output

import (
	"encoding/json"
	"io"
	"time"

	"github.com/scolby33/foldercompare/internal/platform"
	"github.com/scolby33/foldercompare/pkg/models"
)

// JSONFormatter formats the report as JSON for automation and scripting
type JSONFormatter struct {
	// IncludeMatches adds matching paths to the record list
	IncludeMatches bool
}

// JSONReportData represents the final report data
type JSONReportData struct {
	OperationID string           `json:"operation_id"`
	Algorithm   string           `json:"algorithm"`
	Status      string           `json:"status"`
	StartTime   string           `json:"start_time"`
	Duration    string           `json:"duration"`
	DurationMs  int64            `json:"duration_ms"`
	Left        models.Side      `json:"left"`
	Right       models.Side      `json:"right"`
	Summary     models.Summary   `json:"summary"`
	Records     []JSONRecordData `json:"records"`
}

// JSONRecordData represents one compared path
type JSONRecordData struct {
	Path        string `json:"path"`
	Status      string `json:"status"`
	LeftDigest  string `json:"left_digest,omitempty"`
	RightDigest string `json:"right_digest,omitempty"`
	LeftPath    string `json:"left_path,omitempty"`
	RightPath   string `json:"right_path,omitempty"`
}

// NewJSONFormatter creates a new JSON formatter
func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{}
}

// Complete writes the report as a single indented JSON document
func (f *JSONFormatter) Complete(w io.Writer, report *models.ComparisonReport) error {
	data := buildReportData(report, f.IncludeMatches)

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

func buildReportData(report *models.ComparisonReport, includeMatches bool) JSONReportData {
	records := make([]JSONRecordData, 0, report.Summary.Differences())
	for _, rec := range report.Records {
		if !includeMatches && !rec.IsDifference() {
			continue
		}
		data := JSONRecordData{
			Path:        rec.Path,
			Status:      string(rec.Status()),
			LeftDigest:  rec.Left,
			RightDigest: rec.Right,
		}
		if rec.HasLeft() {
			data.LeftPath = platform.DisplayPath(report.Left.Root, rec.Path)
		}
		if rec.HasRight() {
			data.RightPath = platform.DisplayPath(report.Right.Root, rec.Path)
		}
		records = append(records, data)
	}

	return JSONReportData{
		OperationID: report.OperationID,
		Algorithm:   report.Algorithm,
		Status:      string(report.Status),
		StartTime:   report.StartTime.Format(time.RFC3339),
		Duration:    report.Duration.Round(time.Millisecond).String(),
		DurationMs:  report.Duration.Milliseconds(),
		Left:        report.Left,
		Right:       report.Right,
		Summary:     report.Summary,
		Records:     records,
	}
}

// Name returns the formatter name
func (f *JSONFormatter) Name() string {
	return "json"
}
