package model

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound is matched by NotFoundError via errors.Is.
var ErrNotFound = errors.New("not found")

// SchemaError reports required columns missing from a sheet. It is fatal for
// the workbook it was found in.
type SchemaError struct {
	Sheet   string
	Missing []string
}

func (e *SchemaError) Error() string {
	if len(e.Missing) == 0 {
		return fmt.Sprintf("sheet %q: missing", e.Sheet)
	}
	return fmt.Sprintf("sheet %q: missing required columns: %s", e.Sheet, strings.Join(e.Missing, ", "))
}

// NotFoundError means no patient-info record exists for Identifier in the
// current batch.
type NotFoundError struct {
	Identifier string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("patient %q not found in batch", e.Identifier)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// RowError is a cell-level parse failure. It poisons only the identifier the
// row belongs to.
type RowError struct {
	Sheet      string
	Row        int
	Identifier string
	Err        error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("sheet %q row %d (uhid %q): %s", e.Sheet, e.Row, e.Identifier, e.Err)
}

func (e *RowError) Unwrap() error {
	return e.Err
}
