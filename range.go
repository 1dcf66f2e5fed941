// Copyright 2026 Tamás Gulácsi.
//
// SPDX-License-Identifier: Apache-2.0

package cellbind

import (
	"fmt"
	"strings"
	"sync"
)

// Range binds values to consecutive columns, starting at a given column.
type Range struct {
	start  func() (int, error)
	values []any
	style  StylePolicy
}

// RangeAt binds values to the columns start, start+1, ...
func RangeAt(start int, values ...any) Range {
	return Range{start: func() (int, error) { return start, nil }, values: values}
}

// RangeNamed binds values to the columns starting at the label.
func RangeNamed(label string, values ...any) Range {
	return Range{start: sync.OnceValues(func() (int, error) { return ColumnIndex(label) }), values: values}
}

// Start returns the index of the first column.
func (r Range) Start() (int, error) { return r.start() }

// WithStyle returns a copy of r whose newly created cells get style.
func (r Range) WithStyle(style StylePolicy) Range {
	r.style = style
	return r
}

// Values returns the bound values.
func (r Range) Values() []any { return r.values }

// Cells expands the range into one CellBinding per value.
// Values without a value (nil, invalid sql.Null*) are left out, but still take their column.
func (r Range) Cells() ([]*CellBinding, error) {
	start, err := r.Start()
	if err != nil {
		return nil, err
	}
	cells := make([]*CellBinding, 0, len(r.values))
	for i, v := range r.values {
		cv, err := ValueOf(v)
		if err != nil {
			return cells, fmt.Errorf("cell %d: %w", start+i, err)
		}
		if cv == nil {
			continue
		}
		cells = append(cells, CellAt(start+i, cv).WithStyle(r.style))
	}
	return cells, nil
}

// Materialize writes the values into the row. A nil row is a no-op.
func (r Range) Materialize(row Row) error {
	if row == nil {
		return nil
	}
	cells, err := r.Cells()
	if err != nil {
		return err
	}
	for _, c := range cells {
		if err := c.Materialize(row); err != nil {
			return err
		}
	}
	return nil
}

func (r Range) String() string {
	start := "?"
	if i, err := r.Start(); err == nil {
		start = fmt.Sprintf("%d", i)
	}
	ss := make([]string, len(r.values))
	for i, v := range r.values {
		ss[i] = fmt.Sprint(v)
	}
	return fmt.Sprintf("Cell(s) starting from %s, %s.", start, strings.Join(ss, ","))
}
