// Package report writes an .xlsx workbook describing every rename decision
// of a run.
package report

import (
	"fmt"
	"sort"
	"sync"

	"github.com/xuri/excelize/v2"
)

const (
	decisionsSheet = "Renames"
	summarySheet   = "Summary"
)

// Row is one file's outcome.
type Row struct {
	Dir         string
	Original    string
	New         string
	Status      string
	YearSource  string
	MonthSource string
	Error       string
}

var headers = []string{"Directory", "Original", "New", "Status", "Year from", "Month from", "Error"}

// Report accumulates rows. Add is goroutine-safe.
type Report struct {
	mu   sync.Mutex
	rows []Row
}

// New returns an empty report.
func New() *Report { return &Report{} }

// Add appends a row.
func (r *Report) Add(row Row) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows = append(r.rows, row)
}

// Len returns the number of rows.
func (r *Report) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.rows)
}

// Write saves the workbook to path.
func (r *Report) Write(path string) error {
	r.mu.Lock()
	rows := append([]Row(nil), r.rows...)
	r.mu.Unlock()

	f, err := build(rows)
	if err != nil {
		return err
	}
	if err := f.SaveAs(path); err != nil {
		f.Close()
		return fmt.Errorf("failed to save report: %w", err)
	}
	return f.Close()
}

// sheetWriter keeps the first error of a series of workbook edits and skips
// every edit after it.
type sheetWriter struct {
	f   *excelize.File
	err error
}

func (w *sheetWriter) check(what string, err error) {
	if w.err == nil && err != nil {
		w.err = fmt.Errorf("failed to %s: %w", what, err)
	}
}

// row writes values into sheet starting at column A of row n.
func (w *sheetWriter) row(sheet string, n int, values []interface{}) {
	if w.err != nil {
		return
	}
	cell, err := excelize.CoordinatesToCellName(1, n)
	if err != nil {
		w.check("address row", err)
		return
	}
	w.check(fmt.Sprintf("write %s row %d", sheet, n), w.f.SetSheetRow(sheet, cell, &values))
}

func build(rows []Row) (*excelize.File, error) {
	f := excelize.NewFile()
	w := &sheetWriter{f: f}

	w.check("name sheet", f.SetSheetName("Sheet1", decisionsSheet))
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#E2E8F0"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	w.check("create header style", err)

	header := make([]interface{}, len(headers))
	for i, h := range headers {
		header[i] = h
	}
	w.row(decisionsSheet, 1, header)
	if w.err == nil {
		w.check("style header", f.SetRowStyle(decisionsSheet, 1, 1, headerStyle))
	}

	counts := make(map[string]int)
	for i, row := range rows {
		w.row(decisionsSheet, i+2, []interface{}{
			row.Dir, row.Original, row.New, row.Status, row.YearSource, row.MonthSource, row.Error,
		})
		counts[row.Status]++
	}
	for _, c := range []struct {
		from, to string
		width    float64
	}{{"A", "A", 40}, {"B", "C", 50}, {"D", "F", 14}, {"G", "G", 40}} {
		if w.err == nil {
			w.check("size columns", f.SetColWidth(decisionsSheet, c.from, c.to, c.width))
		}
	}

	if w.err == nil {
		_, err := f.NewSheet(summarySheet)
		w.check("create summary sheet", err)
	}
	w.row(summarySheet, 1, []interface{}{"Status", "Files"})
	if w.err == nil {
		w.check("style summary header", f.SetRowStyle(summarySheet, 1, 1, headerStyle))
	}

	statuses := make([]string, 0, len(counts))
	for s := range counts {
		statuses = append(statuses, s)
	}
	sort.Strings(statuses)
	for i, s := range statuses {
		w.row(summarySheet, i+2, []interface{}{s, counts[s]})
	}
	w.row(summarySheet, len(statuses)+2, []interface{}{"total", len(rows)})

	if w.err != nil {
		f.Close()
		return nil, w.err
	}
	return f, nil
}
