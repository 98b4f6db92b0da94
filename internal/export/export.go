// Package export writes an exercise's set history as CSV or XLSX.
package export

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/claude/logbook/internal/models"
)

// HistoryWindow is how many of the newest history rows an export covers.
const HistoryWindow = 2000

// Header is the column order of both formats.
var Header = []string{"date", "type", "exercise", "setType", "load", "reps", "rir", "notes"}

const sheet = "History"

// CSVFilename returns "history_<exercise>.csv" with spaces as underscores.
func CSVFilename(exercise string) string {
	return "history_" + strings.ReplaceAll(exercise, " ", "_") + ".csv"
}

// XLSXFilename is CSVFilename with an .xlsx extension.
func XLSXFilename(exercise string) string {
	return "history_" + strings.ReplaceAll(exercise, " ", "_") + ".xlsx"
}

// Fields returns the row of s in Header order. Absent reps and RIR are empty.
func Fields(s models.Set) []string {
	reps, rir := "", ""
	if s.Reps != nil {
		reps = strconv.FormatInt(*s.Reps, 10)
	}
	if s.RIR != nil {
		rir = strconv.FormatFloat(*s.RIR, 'f', -1, 64)
	}
	return []string{s.Date, s.Type, s.Exercise, s.SetType, s.Load, reps, rir, s.Notes}
}

// WriteCSV writes the header and one line per set. Every field is quoted with
// inner quotes doubled, and lines are joined by "\n" with no trailing newline.
func WriteCSV(w io.Writer, rows []models.Set) error {
	lines := make([]string, 0, len(rows)+1)
	lines = append(lines, strings.Join(Header, ","))
	for _, r := range rows {
		fields := Fields(r)
		for i, f := range fields {
			fields[i] = `"` + strings.ReplaceAll(f, `"`, `""`) + `"`
		}
		lines = append(lines, strings.Join(fields, ","))
	}
	if _, err := io.WriteString(w, strings.Join(lines, "\n")); err != nil {
		return fmt.Errorf("writing csv: %w", err)
	}
	return nil
}

// WriteXLSX writes a one-sheet workbook with the same columns as WriteCSV.
// Reps and RIR are numeric cells.
func WriteXLSX(w io.Writer, rows []models.Set) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("naming sheet: %w", err)
	}

	for i, h := range Header {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return err
		}
	}

	for r, s := range rows {
		values := []any{s.Date, s.Type, s.Exercise, s.SetType, s.Load, nil, nil, s.Notes}
		if s.Reps != nil {
			values[5] = *s.Reps
		}
		if s.RIR != nil {
			values[6] = *s.RIR
		}
		for c, v := range values {
			if v == nil {
				continue
			}
			cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return err
			}
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("writing xlsx: %w", err)
	}
	return nil
}
