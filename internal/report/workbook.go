// Package report renders learner progress as an XLSX workbook.
package report

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/vytor/studystream/internal/content"
	"github.com/vytor/studystream/internal/progress"
)

const (
	ProgressSheet = "Progress"
	SummarySheet  = "Summary"
)

var progressHeader = []any{"Topic ID", "Title", "Subject", "Difficulty", "Best %", "Completed"}

// WriteProgressWorkbook writes a workbook with one Progress row per topic, in
// dataset order, and a Summary sheet with the stats and achievements.
func WriteProgressWorkbook(w io.Writer, cat *content.Catalog, snap progress.Snapshot) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", ProgressSheet); err != nil {
		return fmt.Errorf("renaming sheet: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("creating style: %w", err)
	}

	if err := writeProgressSheet(f, cat, snap, bold); err != nil {
		return err
	}
	if err := writeSummarySheet(f, cat, snap, bold); err != nil {
		return err
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}

func writeProgressSheet(f *excelize.File, cat *content.Catalog, snap progress.Snapshot, bold int) error {
	if err := f.SetSheetRow(ProgressSheet, "A1", &progressHeader); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	if err := f.SetCellStyle(ProgressSheet, "A1", "F1", bold); err != nil {
		return fmt.Errorf("styling header: %w", err)
	}

	for i, t := range cat.Topics() {
		pct := snap.Records[t.ID]
		completed := "no"
		if pct >= progress.CompletionThreshold {
			completed = "yes"
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []any{t.ID, t.Title, t.Subject, t.Difficulty.Label(), pct, completed}
		if err := f.SetSheetRow(ProgressSheet, cell, &row); err != nil {
			return fmt.Errorf("writing row for %s: %w", t.ID, err)
		}
	}

	if err := f.SetColWidth(ProgressSheet, "A", "C", 24); err != nil {
		return err
	}
	return f.SetPanes(ProgressSheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}

func writeSummarySheet(f *excelize.File, cat *content.Catalog, snap progress.Snapshot, bold int) error {
	if _, err := f.NewSheet(SummarySheet); err != nil {
		return fmt.Errorf("creating summary sheet: %w", err)
	}

	stats := snap.Stats(cat.Len())
	rows := [][]any{
		{"Metric", "Value"},
		{"Completed topics", stats.CompletedTopics},
		{"Total topics", stats.TotalTopics},
		{"Correct answers", stats.TotalCorrectAnswers},
		{"Streak days", stats.StreakDays},
		{"XP", stats.XP},
		{},
		{"Achievement", "Unlocked"},
	}
	for _, a := range snap.Achievements() {
		unlocked := "no"
		if a.Unlocked {
			unlocked = "yes"
		}
		rows = append(rows, []any{a.Title, unlocked})
	}

	for i, row := range rows {
		if len(row) == 0 {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(SummarySheet, cell, &row); err != nil {
			return fmt.Errorf("writing summary row %d: %w", i+1, err)
		}
	}

	for _, header := range []string{"A1", "A8"} {
		if err := f.SetCellStyle(SummarySheet, header, "B"+header[1:], bold); err != nil {
			return err
		}
	}
	return f.SetColWidth(SummarySheet, "A", "A", 20)
}
