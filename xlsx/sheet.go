// Copyright 2026 Tamás Gulácsi.
//
// SPDX-License-Identifier: Apache-2.0

package xlsx

import (
	"fmt"
	"math"
	"strconv"
	"sync"
	"time"

	"github.com/UNO-SOFT/cellbind"
	"github.com/xuri/excelize/v2"
)

var (
	_ cellbind.Sheet = (*Sheet)(nil)
	_ cellbind.Row   = (*Row)(nil)
	_ cellbind.Cell  = (*Cell)(nil)
)

// Sheet is a worksheet of a Workbook.
type Sheet struct {
	wb     *Workbook
	rows   map[int]*Row
	// stored rows with cells, read on first lookup
	stored map[int]struct{}
	name   string
	mu     sync.Mutex
}

func newSheet(wb *Workbook, name string) *Sheet {
	return &Sheet{wb: wb, name: name, rows: make(map[int]*Row)}
}

func (sh *Sheet) Name() string                { return sh.name }
func (sh *Sheet) Workbook() cellbind.Workbook { return sh.wb }

// Row returns the row at the zero-based index, or nil if it has no cells yet.
func (sh *Sheet) Row(index int) (cellbind.Row, error) {
	if index < 0 || index >= MaxRowCount {
		return nil, fmt.Errorf("%s: row %d: %w", sh.name, index, cellbind.ErrTooManyRows)
	}
	sh.mu.Lock()
	defer sh.mu.Unlock()
	if r, ok := sh.rows[index]; ok {
		return r, nil
	}
	if sh.stored == nil {
		rows, err := sh.wb.xl.GetRows(sh.name, excelize.Options{RawCellValue: true})
		if err != nil {
			return nil, fmt.Errorf("%s: %w", sh.name, err)
		}
		sh.stored = make(map[int]struct{}, len(rows))
		for i, r := range rows {
			if len(r) != 0 {
				sh.stored[i] = struct{}{}
			}
		}
	}
	if _, ok := sh.stored[index]; !ok {
		return nil, nil
	}
	r := newRow(sh, index)
	sh.rows[index] = r
	return r, nil
}

// CreateRow returns the row at the zero-based index.
func (sh *Sheet) CreateRow(index int) (cellbind.Row, error) {
	if index < 0 || index >= MaxRowCount {
		return nil, fmt.Errorf("%s: row %d: %w", sh.name, index, cellbind.ErrTooManyRows)
	}
	sh.mu.Lock()
	defer sh.mu.Unlock()
	if r, ok := sh.rows[index]; ok {
		return r, nil
	}
	sh.wb.logger.Debug("create row", "sheet", sh.name, "row", index)
	r := newRow(sh, index)
	sh.rows[index] = r
	return r, nil
}

// Row is a row of a Sheet.
type Row struct {
	sheet *Sheet
	cells map[int]*Cell
	index int
}

func newRow(sh *Sheet, index int) *Row {
	return &Row{sheet: sh, index: index, cells: make(map[int]*Cell)}
}

func (r *Row) Index() int            { return r.index }
func (r *Row) Sheet() cellbind.Sheet { return r.sheet }

// Cell returns the cell at the zero-based column, or nil if it has neither value nor style.
func (r *Row) Cell(col int) (cellbind.Cell, error) {
	if c, ok := r.cells[col]; ok {
		return c, nil
	}
	c, err := r.newCell(col)
	if err != nil {
		return nil, err
	}
	xl, name := r.sheet.wb.xl, r.sheet.name
	typ, err := xl.GetCellType(name, c.axis)
	if err != nil {
		return nil, fmt.Errorf("%s[%s]: %w", name, c.axis, err)
	}
	if typ == excelize.CellTypeUnset {
		raw, err := c.Raw()
		if err != nil {
			return nil, err
		}
		if raw == "" {
			if id, err := xl.GetCellStyle(name, c.axis); err != nil {
				return nil, fmt.Errorf("%s[%s]: %w", name, c.axis, err)
			} else if id == 0 {
				return nil, nil
			}
		}
	}
	r.cells[col] = c
	return c, nil
}

// CreateCell returns the cell at the zero-based column.
func (r *Row) CreateCell(col int) (cellbind.Cell, error) {
	if c, ok := r.cells[col]; ok {
		return c, nil
	}
	c, err := r.newCell(col)
	if err != nil {
		return nil, err
	}
	r.sheet.wb.logger.Debug("create cell", "sheet", r.sheet.name, "cell", c.axis)
	r.cells[col] = c
	return c, nil
}

func (r *Row) newCell(col int) (*Cell, error) {
	axis, err := excelize.CoordinatesToCellName(col+1, r.index+1)
	if err != nil {
		return nil, fmt.Errorf("%d/%d: %w", col, r.index, err)
	}
	return &Cell{row: r, axis: axis, index: col}, nil
}

// Cell is a single cell of a Row.
type Cell struct {
	row   *Row
	axis  string
	index int
}

func (c *Cell) Index() int { return c.index }

// Axis returns the cell's name, such as "B3".
func (c *Cell) Axis() string { return c.axis }

func (c *Cell) xl() (*excelize.File, string) { return c.row.sheet.wb.xl, c.row.sheet.name }

func (c *Cell) wrap(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s[%s]: %w", c.row.sheet.name, c.axis, err)
}

func (c *Cell) Style() (cellbind.Style, error) {
	xl, name := c.xl()
	id, err := xl.GetCellStyle(name, c.axis)
	if err != nil {
		return nil, c.wrap(err)
	}
	st, _, err := c.row.sheet.wb.styleOf(id)
	return st, c.wrap(err)
}

func (c *Cell) SetStyle(style cellbind.Style) error {
	st, ok := style.(Style)
	if !ok {
		return c.wrap(fmt.Errorf("style %T is not an xlsx.Style", style))
	}
	xl, name := c.xl()
	return c.wrap(xl.SetCellStyle(name, c.axis, c.axis, st.ID))
}

func (c *Cell) SetInt(v int32) error {
	xl, name := c.xl()
	return c.wrap(xl.SetCellValue(name, c.axis, v))
}

func (c *Cell) SetInt64(v int64) error {
	xl, name := c.xl()
	return c.wrap(xl.SetCellValue(name, c.axis, v))
}

func (c *Cell) SetFloat(v float64) error {
	xl, name := c.xl()
	return c.wrap(xl.SetCellFloat(name, c.axis, v, -1, 64))
}

func (c *Cell) SetString(s string) error {
	xl, name := c.xl()
	return c.wrap(xl.SetCellStr(name, c.axis, s))
}

// SetTime stores t's wall clock as an Excel serial number.
// Cells without a style get the built-in "m/d/yy hh:mm" number format,
// styled cells are left as they are.
func (c *Cell) SetTime(t time.Time) error {
	xl, name := c.xl()
	if err := xl.SetCellFloat(name, c.axis, timeToSerial(t, c.row.sheet.wb.is1904()), -1, 64); err != nil {
		return c.wrap(err)
	}
	id, err := xl.GetCellStyle(name, c.axis)
	if err != nil {
		return c.wrap(err)
	}
	d, err := c.row.sheet.wb.dateStyle(id)
	if err != nil || d == id {
		return c.wrap(err)
	}
	return c.wrap(xl.SetCellStyle(name, c.axis, c.axis, d))
}

var (
	epoch1900 = time.Date(1899, 12, 30, 0, 0, 0, 0, time.UTC)
	epoch1904 = time.Date(1904, 1, 1, 0, 0, 0, 0, time.UTC)
	leapBug   = time.Date(1900, 3, 1, 0, 0, 0, 0, time.UTC)
)

// timeToSerial returns the Excel serial number of t's wall clock.
func timeToSerial(t time.Time, date1904 bool) float64 {
	wall := time.Date(t.Year(), t.Month(), t.Day(),
		t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)
	epoch := epoch1900
	if date1904 {
		epoch = epoch1904
	}
	days := float64(wall.Sub(epoch)) / float64(24*time.Hour)
	if !date1904 && wall.Before(leapBug) {
		// 1900-02-29 exists in Excel
		days--
	}
	return days
}

func (c *Cell) Kind() (cellbind.CellKind, error) {
	xl, name := c.xl()
	typ, err := xl.GetCellType(name, c.axis)
	if err != nil {
		return cellbind.KindBlank, c.wrap(err)
	}
	switch typ {
	case excelize.CellTypeNumber:
		return cellbind.KindNumeric, nil
	case excelize.CellTypeBool:
		return cellbind.KindBool, nil
	case excelize.CellTypeUnset:
		// numbers are stored without a type attribute
		raw, err := c.Raw()
		if err != nil {
			return cellbind.KindBlank, err
		}
		if raw == "" {
			return cellbind.KindBlank, nil
		}
		if _, err := strconv.ParseFloat(raw, 64); err == nil {
			return cellbind.KindNumeric, nil
		}
	}
	return cellbind.KindText, nil
}

func (c *Cell) DateFormatted() (bool, error) {
	xl, name := c.xl()
	id, err := xl.GetCellStyle(name, c.axis)
	if err != nil {
		return false, c.wrap(err)
	}
	st, numFmt, err := c.row.sheet.wb.styleOf(id)
	if err != nil {
		return false, c.wrap(err)
	}
	return isDateFormat(numFmt, st.Format), nil
}

func (c *Cell) Raw() (string, error) {
	xl, name := c.xl()
	s, err := xl.GetCellValue(name, c.axis, excelize.Options{RawCellValue: true})
	return s, c.wrap(err)
}

func (c *Cell) Text() (string, error) {
	xl, name := c.xl()
	s, err := xl.GetCellValue(name, c.axis)
	return s, c.wrap(err)
}

// Time returns the serial number of the cell as a time in the local time zone.
func (c *Cell) Time() (time.Time, error) {
	raw, err := c.Raw()
	if err != nil {
		return time.Time{}, err
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return time.Time{}, c.wrap(err)
	}
	t, err := serialToTime(f, c.row.sheet.wb.is1904())
	if err != nil {
		return time.Time{}, c.wrap(err)
	}
	return time.Date(t.Year(), t.Month(), t.Day(),
		t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.Local), nil
}

// serialToTime is the inverse of timeToSerial, to the millisecond.
// Serial 60 (the nonexistent 1900-02-29) reads as 1900-03-01.
func serialToTime(serial float64, date1904 bool) (time.Time, error) {
	if serial < 0 || math.IsNaN(serial) || math.IsInf(serial, 0) {
		return time.Time{}, fmt.Errorf("%v: invalid Excel date", serial)
	}
	epoch := epoch1900
	if date1904 {
		epoch = epoch1904
	} else if serial < 61 {
		serial++
	}
	days := math.Floor(serial)
	ms := math.Round((serial - days) * float64(24*time.Hour/time.Millisecond))
	return epoch.AddDate(0, 0, int(days)).Add(time.Duration(ms) * time.Millisecond), nil
}
