// Package export writes a study report workbook (.xlsx).
//
// The workbook has one sheet per view: History, Items, Quizzes, Tags and
// Due. Every sheet starts with a bold header row; times are RFC 3339 UTC.
package export

import (
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/KUROROSUKE/english-learning/internal/analytics"
	"github.com/KUROROSUKE/english-learning/internal/clock"
	"github.com/KUROROSUKE/english-learning/internal/domain"
	"github.com/KUROROSUKE/english-learning/internal/due"
)

// Sheet names, in workbook order.
const (
	SheetHistory = "History"
	SheetItems   = "Items"
	SheetQuizzes = "Quizzes"
	SheetTags    = "Tags"
	SheetDue     = "Due"
)

// Report is everything a workbook shows.
type Report struct {
	Attempts []domain.Attempt
	Weakness analytics.Report
	Due      []due.Entry
}

// Workbook renders r. The caller must Close the returned file.
func Workbook(r Report) (*excelize.File, error) {
	f := excelize.NewFile()

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("create header style: %w", err)
	}

	if err := f.SetSheetName("Sheet1", SheetHistory); err != nil {
		f.Close()
		return nil, fmt.Errorf("rename default sheet: %w", err)
	}

	sheets := []struct {
		name   string
		header []any
		rows   [][]any
	}{
		{SheetHistory, []any{"ID", "Time", "Quiz ID", "Title", "Correct", "Total", "Accuracy", "Score Sum", "Score Items"}, historyRows(r.Attempts)},
		{SheetItems, []any{"Key", "Attempts", "Correct", "Accuracy"}, itemRows(r.Weakness.WorstItems)},
		{SheetQuizzes, []any{"Quiz ID", "Total", "Correct", "Accuracy"}, quizRows(r.Weakness.Quizzes)},
		{SheetTags, []any{"Tag", "Attempts", "Correct", "Accuracy"}, tagRows(r.Weakness.WorstTags)},
		{SheetDue, []any{"Key", "Quiz ID", "Item ID", "Tag", "Reps", "Interval Days", "Ease", "Due At", "Label"}, dueRows(r.Due)},
	}

	for i, s := range sheets {
		if i > 0 {
			if _, err := f.NewSheet(s.name); err != nil {
				f.Close()
				return nil, fmt.Errorf("create sheet %s: %w", s.name, err)
			}
		}
		if err := writeSheet(f, s.name, bold, s.header, s.rows); err != nil {
			f.Close()
			return nil, err
		}
	}

	f.SetActiveSheet(0)
	return f, nil
}

// WriteFile renders r to path.
func WriteFile(path string, r Report) error {
	f, err := Workbook(r)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook %s: %w", path, err)
	}
	return nil
}

// Write renders r to w.
func Write(w io.Writer, r Report) error {
	f, err := Workbook(r)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func writeSheet(f *excelize.File, sheet string, headerStyle int, header []any, rows [][]any) error {
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("write %s header: %w", sheet, err)
	}
	if err := f.SetRowStyle(sheet, 1, 1, headerStyle); err != nil {
		return fmt.Errorf("style %s header: %w", sheet, err)
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("write %s row %d: %w", sheet, i+2, err)
		}
	}
	return nil
}

func formatTime(ms int64) string {
	return clock.ToTime(ms).Format(time.RFC3339)
}

func historyRows(attempts []domain.Attempt) [][]any {
	rows := make([][]any, 0, len(attempts))
	for _, a := range attempts {
		rows = append(rows, []any{
			a.ID, formatTime(a.Timestamp), a.QuizID, a.QuizTitle,
			a.Correct, a.Total, a.Accuracy(), a.ScoreSum, a.ScoreItems,
		})
	}
	return rows
}

func itemRows(stats []analytics.ItemStat) [][]any {
	rows := make([][]any, 0, len(stats))
	for _, s := range stats {
		rows = append(rows, []any{s.Key, s.Attempts, s.Correct, s.Accuracy})
	}
	return rows
}

func quizRows(stats []analytics.QuizStat) [][]any {
	rows := make([][]any, 0, len(stats))
	for _, s := range stats {
		rows = append(rows, []any{s.QuizID, s.Total, s.Correct, s.Accuracy})
	}
	return rows
}

func tagRows(stats []analytics.TagStat) [][]any {
	rows := make([][]any, 0, len(stats))
	for _, s := range stats {
		rows = append(rows, []any{s.Tag, s.Attempts, s.Correct, s.Accuracy})
	}
	return rows
}

func dueRows(entries []due.Entry) [][]any {
	rows := make([][]any, 0, len(entries))
	for _, e := range entries {
		c := e.Card
		rows = append(rows, []any{
			c.Key, c.QuizID, c.ItemID, c.Tag, c.Reps, c.IntervalDays, c.Ease,
			formatTime(c.DueTs), e.Label,
		})
	}
	return rows
}
