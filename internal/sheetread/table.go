package sheetread

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/gyeh/billclaims/internal/model"
	"github.com/gyeh/billclaims/internal/normalize"
)

// table is one sheet's rows with its header resolved to column indexes.
type table struct {
	sheet     string
	cols      map[string]int // normalized header -> index
	rows      [][]string
	headerRow int // 1-based
}

// table loads the sheet described by spec and checks its required columns.
// An absent optional sheet yields an empty table.
func (w *Workbook) table(spec model.SheetSpec) (*table, error) {
	name, ok := w.sheetName(spec.Name)
	if !ok {
		if spec.Optional {
			return &table{sheet: spec.Name}, nil
		}
		return nil, &model.SchemaError{Sheet: spec.Name}
	}

	rows, err := w.file.GetRows(name)
	if err != nil {
		var notExist excelize.ErrSheetNotExist
		if errors.As(err, &notExist) {
			return nil, &model.SchemaError{Sheet: spec.Name}
		}
		return nil, fmt.Errorf("read sheet %s: %w", spec.Name, err)
	}

	t := &table{sheet: spec.Name, cols: make(map[string]int)}
	for i, r := range rows {
		if blank(r) {
			continue
		}
		t.headerRow = i + 1
		for j, h := range r {
			key := normalize.HeaderKey(h)
			if _, dup := t.cols[key]; key != "" && !dup {
				t.cols[key] = j
			}
		}
		t.rows = rows[i+1:]
		break
	}

	if err := ValidateColumns(spec, t.cols); err != nil {
		return nil, err
	}
	return t, nil
}

// sheetName finds a sheet by trimmed, case-insensitive name.
func (w *Workbook) sheetName(want string) (string, bool) {
	key := normalize.HeaderKey(want)
	for _, name := range w.file.GetSheetList() {
		if normalize.HeaderKey(name) == key {
			return name, true
		}
	}
	return "", false
}

// ValidateColumns checks that every required column of spec is present in
// cols, which is keyed by normalize.HeaderKey.
func ValidateColumns(spec model.SheetSpec, cols map[string]int) error {
	var missing []string
	for _, c := range spec.Required {
		if _, ok := cols[normalize.HeaderKey(c)]; !ok {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return &model.SchemaError{Sheet: spec.Name, Missing: missing}
	}
	return nil
}

// row is one data row bound to its table.
type row struct {
	t     *table
	cells []string
	num   int // 1-based sheet row
	id    string
}

// each calls fn for every non-blank row with an identifier. Errors returned
// by fn become RowErrors on d; the row is skipped.
func (t *table) each(d *Data, fn func(row) error) {
	for i, cells := range t.rows {
		if blank(cells) {
			continue
		}
		r := row{t: t, cells: cells, num: t.headerRow + i + 1}
		r.id = normalize.Identifier(r.text(model.ColUHID))
		if r.id == "" {
			continue
		}
		d.RowsRead++
		if err := fn(r); err != nil {
			d.RowErrors = append(d.RowErrors, &model.RowError{
				Sheet:      t.sheet,
				Row:        r.num,
				Identifier: r.id,
				Err:        err,
			})
		}
	}
}

// text returns the trimmed cell under col, or "" when the column is absent
// or the row is short.
func (r row) text(col string) string {
	j, ok := r.t.cols[normalize.HeaderKey(col)]
	if !ok || j >= len(r.cells) {
		return ""
	}
	return normalize.Text(r.cells[j])
}

// amount parses the cell under col as money. Blank and absent cells are 0.
func (r row) amount(col string) (decimal.Decimal, error) {
	v, err := normalize.ParseAmount(r.text(col))
	if err != nil {
		return decimal.Zero, fmt.Errorf("column %s: %w", col, err)
	}
	return v, nil
}

func blank(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
