// Package reconcile merges two hash sets into per-path comparison records.
package reconcile

import (
	"sort"

	"github.com/scolby33/foldercompare/pkg/hashset"
	"github.com/scolby33/foldercompare/pkg/models"
)

// Reconcile returns one record for every path in either set. Records for
// paths present on both sides come first, then left-only paths, then
// right-only paths, each group sorted by path.
func Reconcile(left, right *hashset.HashSet) []models.ComparisonRecord {
	var both, leftOnly, rightOnly []models.ComparisonRecord

	for _, p := range left.Paths() {
		l, _ := left.Get(p)
		if r, ok := right.Get(p); ok {
			both = append(both, models.ComparisonRecord{Path: p, Left: l, Right: r})
		} else {
			leftOnly = append(leftOnly, models.ComparisonRecord{Path: p, Left: l})
		}
	}
	for _, p := range right.Paths() {
		if _, ok := left.Get(p); ok {
			continue
		}
		r, _ := right.Get(p)
		rightOnly = append(rightOnly, models.ComparisonRecord{Path: p, Right: r})
	}

	sortByPath(both)
	sortByPath(leftOnly)
	sortByPath(rightOnly)

	records := make([]models.ComparisonRecord, 0, len(both)+len(leftOnly)+len(rightOnly))
	records = append(records, both...)
	records = append(records, leftOnly...)
	records = append(records, rightOnly...)
	return records
}

func sortByPath(records []models.ComparisonRecord) {
	sort.Slice(records, func(i, j int) bool {
		return records[i].Path < records[j].Path
	})
}

// Summarize counts records by status
func Summarize(records []models.ComparisonRecord) models.Summary {
	var s models.Summary
	for _, rec := range records {
		switch rec.Status() {
		case models.StatusMatch:
			s.Matched++
		case models.StatusMismatch:
			s.Mismatched++
		case models.StatusLeftOnly:
			s.LeftOnly++
		case models.StatusRightOnly:
			s.RightOnly++
		}
	}
	return s
}
