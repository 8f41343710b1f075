// Package fixture builds synthetic billing and claims workbooks. It backs
// cmd/mkfixture and the reader and pipeline tests.
package fixture

import (
	"archive/zip"
	"bytes"
	"fmt"
	"os"

	"github.com/xuri/excelize/v2"
)

// Sheet is one worksheet: a header row followed by data rows.
type Sheet struct {
	Name   string
	Header []string
	Rows   [][]any
}

// Workbook is an ordered set of sheets.
type Workbook struct {
	Sheets []Sheet
}

// Sheet returns a pointer to the named sheet, or nil.
func (w *Workbook) Sheet(name string) *Sheet {
	for i := range w.Sheets {
		if w.Sheets[i].Name == name {
			return &w.Sheets[i]
		}
	}
	return nil
}

// DropColumn removes the named column from the header and every row.
func (s *Sheet) DropColumn(name string) {
	for j, h := range s.Header {
		if h != name {
			continue
		}
		s.Header = append(s.Header[:j:j], s.Header[j+1:]...)
		for i, row := range s.Rows {
			if j < len(row) {
				s.Rows[i] = append(row[:j:j], row[j+1:]...)
			}
		}
		return
	}
}

// Without returns a copy of w lacking the named sheet.
func (w Workbook) Without(name string) Workbook {
	out := Workbook{}
	for _, s := range w.Sheets {
		if s.Name != name {
			out.Sheets = append(out.Sheets, s)
		}
	}
	return out
}

func (w Workbook) build() (*excelize.File, error) {
	if len(w.Sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	f := excelize.NewFile()
	for i, s := range w.Sheets {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", s.Name); err != nil {
				f.Close()
				return nil, fmt.Errorf("rename sheet: %w", err)
			}
		} else if _, err := f.NewSheet(s.Name); err != nil {
			f.Close()
			return nil, fmt.Errorf("new sheet %q: %w", s.Name, err)
		}

		header := make([]any, len(s.Header))
		for j, h := range s.Header {
			header[j] = h
		}
		if err := f.SetSheetRow(s.Name, "A1", &header); err != nil {
			f.Close()
			return nil, fmt.Errorf("sheet %q header: %w", s.Name, err)
		}
		for r, row := range s.Rows {
			cell, err := excelize.CoordinatesToCellName(1, r+2)
			if err != nil {
				f.Close()
				return nil, err
			}
			if err := f.SetSheetRow(s.Name, cell, &row); err != nil {
				f.Close()
				return nil, fmt.Errorf("sheet %q row %d: %w", s.Name, r+2, err)
			}
		}
	}
	return f, nil
}

// Bytes renders the workbook as .xlsx content.
func (w Workbook) Bytes() ([]byte, error) {
	f, err := w.build()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// Save writes the workbook to path.
func (w Workbook) Save(path string) error {
	f, err := w.build()
	if err != nil {
		return err
	}
	defer f.Close()
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}

// Member is one file inside a ZIP archive.
type Member struct {
	Name string
	Data []byte
}

// Zip packs members, in order, into a ZIP archive.
func Zip(members []Member) ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, m := range members {
		w, err := zw.Create(m.Name)
		if err != nil {
			return nil, fmt.Errorf("zip member %q: %w", m.Name, err)
		}
		if _, err := w.Write(m.Data); err != nil {
			return nil, fmt.Errorf("zip member %q: %w", m.Name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("close zip: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteFile writes data to path, creating or truncating it.
func WriteFile(path string, data []byte) error {
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
