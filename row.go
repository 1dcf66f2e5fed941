// Copyright 2026 Tamás Gulácsi.
//
// SPDX-License-Identifier: Apache-2.0

package cellbind

import (
	"fmt"
	"sync/atomic"
)

// RowOf is the gateway for changing a row of a sheet.
type RowOf struct {
	sheet Sheet
	index func() int
}

// NewRowOf returns the row of sheet at the zero-based index.
func NewRowOf(sheet Sheet, index int) RowOf {
	return RowOf{sheet: sheet, index: func() int { return index }}
}

// RowFunc returns the row of sheet at the index returned by index, on each use.
func RowFunc(sheet Sheet, index func() int) RowOf {
	return RowOf{sheet: sheet, index: index}
}

// RowCounter returns the row at counter's current value, read on each use.
func RowCounter(sheet Sheet, counter *atomic.Int64) RowOf {
	return RowOf{sheet: sheet, index: func() int { return int(counter.Load()) }}
}

// Resolve fetches the row, creating it if it does not exist.
//
// The row is looked up again on every call.
func (r RowOf) Resolve() (Row, error) {
	idx := r.index()
	row, err := r.sheet.Row(idx)
	if err != nil {
		return nil, fmt.Errorf("%s: row %d: %w", r.sheet.Name(), idx, err)
	}
	if row != nil {
		return row, nil
	}
	if row, err = r.sheet.CreateRow(idx); err != nil {
		return nil, fmt.Errorf("%s: create row %d: %w", r.sheet.Name(), idx, err)
	}
	return row, nil
}

// Apply materializes b onto the row.
func (r RowOf) Apply(b Binding) error {
	row, err := r.Resolve()
	if err != nil {
		return err
	}
	return b.Materialize(row)
}

func (r RowOf) String() string {
	return fmt.Sprintf("Row %d, sheet '%s'.", r.index(), r.sheet.Name())
}
