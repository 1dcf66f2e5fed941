// Copyright 2020, 2023, 2026 Tamás Gulácsi.
//
// SPDX-License-Identifier: Apache-2.0

package xlsx

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/UNO-SOFT/cellbind"
	"github.com/xuri/excelize/v2"
)

// MaxRowCount is the number of maximum rows.
const MaxRowCount = 1_048_576

var _ = (cellbind.Appender)((*Appender)(nil))

// Appender appends rows to a sheet.
type Appender struct {
	sheet cellbind.Sheet
	row   atomic.Int64
	mu    sync.Mutex
}

// NewSheet creates the named sheet, with a header row for the named columns.
func (wb *Workbook) NewSheet(name string, columns []cellbind.Column) (cellbind.Appender, error) {
	return wb.NewAppender(name, columns)
}

// NewAppender is NewSheet returning the concrete type.
func (wb *Workbook) NewAppender(name string, columns []cellbind.Column) (*Appender, error) {
	sh, err := wb.CreateSheet(name)
	if err != nil {
		return nil, err
	}
	header, err := cellbind.NewRowOf(sh, 0).Resolve()
	if err != nil {
		return nil, err
	}
	var hasHeader bool
	for i, c := range columns {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return nil, err
		}
		if !c.Column.IsZero() {
			s, err := wb.getStyle(c.Column)
			if err != nil {
				return nil, err
			}
			if err = wb.xl.SetColStyle(name, col, s.ID); err != nil {
				return nil, err
			}
		}
		// the column style covers the header cell, too
		if !c.Header.IsZero() {
			cell, err := header.CreateCell(i)
			if err != nil {
				return nil, err
			}
			if err = cellbind.FromSpec(c.Header).Apply(sh, cell); err != nil {
				return nil, err
			}
		}
		if c.Name != "" {
			hasHeader = true
			if err = cellbind.CellAt(i, c.Name).Materialize(header); err != nil {
				return nil, err
			}
		}
	}
	a := &Appender{sheet: sh}
	if hasHeader {
		a.row.Add(1)
	}
	return a, nil
}

func (a *Appender) Close() error { return nil }

// AppendRow writes values into the next row, starting at the first column.
//
// nil values (and invalid sql.Null* values) leave their cell empty.
func (a *Appender) AppendRow(values ...any) error {
	return a.AppendRange(cellbind.RangeAt(0, values...))
}

// AppendRange writes the range into the next row.
func (a *Appender) AppendRange(r cellbind.Range) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.row.Load() >= MaxRowCount {
		return cellbind.ErrTooManyRows
	}
	if err := cellbind.RowCounter(a.sheet, &a.row).Apply(r); err != nil {
		return fmt.Errorf("%s[%d]: %w", a.sheet.Name(), a.row.Load()+1, err)
	}
	a.row.Add(1)
	return nil
}

// Rows returns the number of rows written, including the header.
func (a *Appender) Rows() int { return int(a.row.Load()) }
