// Package batch rates every ingredient list of a spreadsheet column and
// writes the results as a new table.
package batch

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/csheth/nutriscout/internal/flow"
	"github.com/xuri/excelize/v2"
)

// Header is the first row of every output table.
var Header = []string{"ingredients", "rating", "level", "color", "description", "dash_offset", "error"}

// Row is the outcome for one input list. Exactly one of Level or Error is
// set.
type Row struct {
	Ingredients string
	Rating      string
	Level       string
	Color       string
	Description string
	DashOffset  float64
	Error       string
}

// record is the row as CSV text; the offset keeps two decimals.
func (r Row) record() []string {
	offset := ""
	if r.Error == "" {
		offset = fmt.Sprintf("%.2f", r.DashOffset)
	}
	return []string{r.Ingredients, r.Rating, r.Level, r.Color, r.Description, offset, r.Error}
}

// cells is the row for a worksheet. Rating and offset are numbers so they
// can be sorted and charted; failed rows leave both cells empty.
func (r Row) cells() []interface{} {
	var rating, offset interface{}
	if r.Error == "" {
		offset = r.DashOffset
		if v, err := strconv.ParseFloat(r.Rating, 64); err == nil {
			rating = v
		} else if r.Rating != "" {
			rating = r.Rating
		}
	}
	return []interface{}{r.Ingredients, rating, r.Level, r.Color, r.Description, offset, r.Error}
}

// ReadColumn returns the non-blank cells of column (letters, e.g. "A") in
// the first sheet of the workbook at path. The first row is a header and is
// skipped.
func ReadColumn(path, column string) ([]string, error) {
	col, err := excelize.ColumnNameToNumber(strings.ToUpper(strings.TrimSpace(column)))
	if err != nil {
		return nil, fmt.Errorf("invalid column %q: %w", column, err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheets[0], err)
	}

	var out []string
	for i, row := range rows {
		if i == 0 || len(row) < col {
			continue
		}
		if cell := strings.TrimSpace(row[col-1]); cell != "" {
			out = append(out, cell)
		}
	}
	return out, nil
}

// Rate analyses each list in order, one request at a time. Failures are
// recorded on their row and do not stop the run. A cancelled ctx stops
// before the next list.
func Rate(ctx context.Context, orch *flow.Orchestrator, lists []string) ([]Row, error) {
	rows := make([]Row, 0, len(lists))
	for _, list := range lists {
		if err := ctx.Err(); err != nil {
			return rows, err
		}
		state := orch.Analyze(ctx, flow.Initial(), list)
		rows = append(rows, rowFromState(list, state))
	}
	return rows, nil
}

func rowFromState(list string, s flow.State) Row {
	if s.Panel != flow.PanelResults {
		return Row{Ingredients: list, Error: s.Message}
	}
	return Row{
		Ingredients: list,
		Rating:      s.View.Rating,
		Level:       s.View.Level,
		Color:       s.View.Color,
		Description: s.View.Description,
		DashOffset:  s.View.Gauge.DashOffset,
	}
}

// Write stores rows at path as .xlsx or .csv, chosen by extension.
func Write(path string, rows []Row) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		return writeXLSX(path, rows)
	case ".csv":
		return writeCSV(path, rows)
	default:
		return fmt.Errorf("unsupported output %q: want .xlsx or .csv", path)
	}
}

func writeXLSX(path string, rows []Row) error {
	f := excelize.NewFile()
	defer f.Close()
	const sheet = "Sheet1"
	sw, err := f.NewStreamWriter(sheet)
	if err != nil {
		return err
	}
	header := make([]interface{}, len(Header))
	for i, h := range Header {
		header[i] = h
	}
	if err := sw.SetRow("A1", header); err != nil {
		return err
	}
	for i, r := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := sw.SetRow(cell, r.cells()); err != nil {
			return err
		}
	}
	if err := sw.Flush(); err != nil {
		return err
	}
	return f.SaveAs(path)
}

func writeCSV(path string, rows []Row) error {
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	defer out.Close()

	w := csv.NewWriter(out)
	if err := w.Write(Header); err != nil {
		return err
	}
	for _, r := range rows {
		if err := w.Write(r.record()); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// Summary counts rated and failed rows.
func Summary(rows []Row) (rated, failed int) {
	for _, r := range rows {
		if r.Error != "" {
			failed++
			continue
		}
		rated++
	}
	return rated, failed
}
