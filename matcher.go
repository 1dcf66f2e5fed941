// Copyright 2026 Tamás Gulácsi.
//
// SPDX-License-Identifier: Apache-2.0

package cellbind

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"cloud.google.com/go/civil"
	"github.com/valyala/quicktemplate"
)

// Result of a Matcher: whether the row matched, with descriptions of the
// expected and the actual cells for the failure message.
//
// Descriptions look like `cell(s) 0:"Name" 1:null 2:<2024-01-31>`:
// missing cells are null, date cells are in angle brackets.
type Result struct {
	Expected, Actual string
	// Cells describes each expected cell, in column order.
	Cells            []CellDescription
	Matched          bool
}

// CellDescription is the expected and actual value of a single cell.
type CellDescription struct {
	Expected, Actual string
	Index            int
}

// Err returns nil for a match, and an error describing the difference otherwise.
func (r Result) Err() error {
	if r.Matched {
		return nil
	}
	return fmt.Errorf("expected %s, but was %s", r.Expected, r.Actual)
}

// Matcher checks that a row holds the expected cells.
type Matcher struct {
	cells []*CellBinding
}

// HasCells returns a Matcher for the expected cells.
func HasCells(cells ...*CellBinding) Matcher {
	return Matcher{cells: cells}
}

// HasRange returns a Matcher for the cells of the range.
func HasRange(r Range) (Matcher, error) {
	cells, err := r.Cells()
	return Matcher{cells: cells}, err
}

type expectedCell struct {
	value Value
	index int
}

func (m Matcher) expected() ([]expectedCell, error) {
	ee := make([]expectedCell, 0, len(m.cells))
	for _, c := range m.cells {
		idx, err := c.Index()
		if err != nil {
			return nil, err
		}
		v, err := c.Value()
		if err != nil {
			return nil, fmt.Errorf("cell %d: %w", idx, err)
		}
		ee = append(ee, expectedCell{index: idx, value: v})
	}
	slices.SortStableFunc(ee, func(a, b expectedCell) int { return a.index - b.index })
	return ee, nil
}

// Match the row against the expected cells, in ascending column order.
//
// A nil row matches nothing. A mismatch is not an error: errors are
// returned only for failing reads.
func (m Matcher) Match(row Row) (Result, error) {
	ee, err := m.expected()
	if err != nil {
		return Result{}, err
	}
	res := Result{Matched: true}
	for _, e := range ee {
		var cell Cell
		if row != nil {
			if cell, err = row.Cell(e.index); err != nil {
				return res, fmt.Errorf("cell %d: %w", e.index, err)
			}
		}
		ok, err := matchCell(e.value, cell)
		if err != nil {
			return res, fmt.Errorf("cell %d: %w", e.index, err)
		}
		if !ok {
			res.Matched = false
			break
		}
	}
	err = describe(&res, ee, row)
	return res, err
}

func matchCell(want Value, cell Cell) (bool, error) {
	if cell == nil {
		return false, nil
	}
	kind, err := cell.Kind()
	if err != nil {
		return false, err
	}
	if kind != KindNumeric {
		s, err := cell.Text()
		return err == nil && s == want.String(), err
	}
	isDate, err := cell.DateFormatted()
	if err != nil {
		return false, err
	}
	if !isDate {
		s, err := cell.Raw()
		return err == nil && s == want.String(), err
	}
	t, err := cell.Time()
	if err != nil {
		return false, err
	}
	switch w := want.(type) {
	case Date:
		return w.Date == civil.DateOf(t), nil
	case DateTime:
		return w.Rounded() == civil.DateTimeOf(t.Round(time.Millisecond)), nil
	}
	return want.String() == civil.DateOf(t).String(), nil
}

// describe fills the Cells, Expected and Actual fields of res.
func describe(res *Result, ee []expectedCell, row Row) error {
	res.Cells = make([]CellDescription, len(ee))
	var expected, actual strings.Builder
	expected.WriteString("cell(s)")
	actual.WriteString("cell(s)")
	defer func() { res.Expected, res.Actual = expected.String(), actual.String() }()
	for i, e := range ee {
		d := CellDescription{Index: e.index, Expected: quoted(e.value.String()), Actual: "null"}
		var cell Cell
		if row != nil {
			var err error
			if cell, err = row.Cell(e.index); err != nil {
				return fmt.Errorf("cell %d: %w", e.index, err)
			}
		}
		if cell != nil {
			s, isDate, err := actualValue(cell, e.value)
			if err != nil {
				return fmt.Errorf("cell %d: %w", e.index, err)
			}
			if isDate {
				d.Actual = "<" + s + ">"
			} else {
				d.Actual = quoted(s)
			}
		}
		res.Cells[i] = d
		fmt.Fprintf(&expected, " %d:%s", d.Index, d.Expected)
		fmt.Fprintf(&actual, " %d:%s", d.Index, d.Actual)
	}
	return nil
}

// quoted returns s as a double-quoted, escaped string.
func quoted(s string) string {
	var buf strings.Builder
	qw := quicktemplate.AcquireWriter(&buf)
	qw.N().Q(s)
	quicktemplate.ReleaseWriter(qw)
	return buf.String()
}

// actualValue returns the representation the matcher compares for cell.
// Date cells show the time of day only when a DateTime is expected.
func actualValue(cell Cell, want Value) (string, bool, error) {
	kind, err := cell.Kind()
	if err != nil {
		return "", false, err
	}
	if kind != KindNumeric {
		s, err := cell.Text()
		return s, false, err
	}
	isDate, err := cell.DateFormatted()
	if err != nil {
		return "", false, err
	}
	if !isDate {
		s, err := cell.Raw()
		return s, false, err
	}
	t, err := cell.Time()
	if err != nil {
		return "", true, err
	}
	if _, ok := want.(DateTime); ok {
		return civil.DateTimeOf(t.Round(time.Millisecond)).String(), true, nil
	}
	return civil.DateOf(t).String(), true, nil
}
