// Copyright 2026 Tamás Gulácsi.
//
// SPDX-License-Identifier: Apache-2.0

package cellbind

import (
	"fmt"
	"sync"
)

// Binding is something that can be written onto a row: a single cell, or a range of them.
type Binding interface {
	Materialize(Row) error
}

var (
	_ Binding = (*CellBinding)(nil)
	_ Binding = Range{}
)

// CellBinding pairs a column index with a value and a StylePolicy.
//
// Both the index and the value are resolved on first use and kept afterwards,
// so a binding always describes the same cell. A CellBinding is not safe for
// concurrent use.
type CellBinding struct {
	index func() (int, error)
	value func() (Value, error)
	style StylePolicy
}

// CellAt binds v to the zero-based column index.
func CellAt(index int, v any) *CellBinding {
	return CellFunc(func() (int, error) { return index, nil }, func() (any, error) { return v, nil })
}

// CellNamed binds v to the column label ("A", "AZ").
func CellNamed(label string, v any) *CellBinding {
	return CellFunc(func() (int, error) { return ColumnIndex(label) }, func() (any, error) { return v, nil })
}

// CellFunc binds the deferred value to the deferred column index.
// Both functions are called at most once.
func CellFunc(index func() (int, error), value func() (any, error)) *CellBinding {
	return &CellBinding{
		index: sync.OnceValues(index),
		value: sync.OnceValues(func() (Value, error) {
			v, err := value()
			if err != nil {
				return nil, err
			}
			cv, err := ValueOf(v)
			if err != nil {
				return nil, err
			}
			if cv == nil {
				return nil, fmt.Errorf("no value (%v): %w", v, ErrUnsupportedCellValueType)
			}
			return cv, nil
		}),
	}
}

// WithStyle returns a copy of c which applies style to the cell when creating it.
func (c *CellBinding) WithStyle(style StylePolicy) *CellBinding {
	d := *c
	d.style = style
	return &d
}

// Index returns the zero-based column index.
func (c *CellBinding) Index() (int, error) { return c.index() }

// Value returns the cell's value.
func (c *CellBinding) Value() (Value, error) { return c.value() }

// Style returns the policy applied on cell creation.
func (c *CellBinding) Style() StylePolicy { return c.style }

// Equal reports whether both bindings resolve to the same index and value.
// The style does not matter.
func (c *CellBinding) Equal(other *CellBinding) bool {
	if c == other {
		return true
	}
	if c == nil || other == nil {
		return false
	}
	i, err := c.Index()
	if err != nil {
		return false
	}
	j, err := other.Index()
	if err != nil || i != j {
		return false
	}
	v, err := c.Value()
	if err != nil {
		return false
	}
	w, err := other.Value()
	return err == nil && v == w
}

func (c *CellBinding) String() string {
	idx, v := "?", "?"
	if i, err := c.Index(); err == nil {
		idx = fmt.Sprintf("%d", i)
	}
	if x, err := c.Value(); err == nil {
		v = x.String()
	}
	return fmt.Sprintf("Cell %s, %s.", idx, v)
}

// Materialize writes the value into the row's cell at the index.
//
// A missing cell is created, and only then is the StylePolicy applied:
// the formatting of an existing cell is kept.
// A nil row is a no-op.
func (c *CellBinding) Materialize(row Row) error {
	if row == nil {
		return nil
	}
	idx, err := c.Index()
	if err != nil {
		return err
	}
	v, err := c.Value()
	if err != nil {
		return fmt.Errorf("cell %d: %w", idx, err)
	}
	cell, err := row.Cell(idx)
	if err != nil {
		return fmt.Errorf("cell %d: %w", idx, err)
	}
	if cell == nil {
		if cell, err = row.CreateCell(idx); err != nil {
			return fmt.Errorf("create cell %d: %w", idx, err)
		}
		if err = c.style.Apply(row.Sheet(), cell); err != nil {
			return fmt.Errorf("cell %d: %w", idx, err)
		}
	}
	if err = writeValue(cell, v); err != nil {
		return fmt.Errorf("cell %d: %w", idx, err)
	}
	return nil
}
