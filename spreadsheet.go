// Copyright 2020, 2026 Tamás Gulácsi.
//
// SPDX-License-Identifier: Apache-2.0

// Package cellbind binds typed values to spreadsheet cells and rows,
// and verifies them afterwards.
//
// The spreadsheet itself is reached through the Workbook, Sheet, Row and Cell
// interfaces; package xlsx implements them on top of excelize.
package cellbind

import (
	"errors"
	"io"
	"time"
)

// Writer writes the spreadsheet consisting of the sheets created
// with NewSheet. The write finishes when Close is called.
//
// The writer SHOULD allow writing to separate sheets concurrently,
// and document if it does not provide this functionality.
type Writer interface {
	io.Closer
	NewSheet(name string, cols []Column) (Appender, error)
}

// Appender appends rows to a sheet. It should be Closed when finished.
type Appender interface {
	io.Closer
	AppendRow(values ...any) error
}

// StyleSpec describes a style for a column/row/cell.
type StyleSpec struct {
	// Format is the number format
	Format string
	// FontBold is true if the font is bold
	FontBold bool
}

// IsZero reports whether the spec asks for no formatting at all.
func (s StyleSpec) IsZero() bool { return !s.FontBold && s.Format == "" }

// Column contains the Name of the column and header's style and column's style.
type Column struct {
	Name           string
	Header, Column StyleSpec
}

var (
	ErrTooManyRows = errors.New("too many rows")
	ErrNoSuchSheet = errors.New("no such sheet")
)

// Workbook is the document owning sheets and styles.
type Workbook interface {
	// Sheet returns the named sheet, or nil if there is no such sheet.
	Sheet(name string) (Sheet, error)
	CreateSheet(name string) (Sheet, error)
	// NewStyle builds a style (with the number format registered) in the workbook.
	NewStyle(StyleSpec) (Style, error)
}

// Sheet is a single worksheet.
type Sheet interface {
	Name() string
	Workbook() Workbook
	// Row returns the row at the zero-based index, or nil if it does not exist.
	Row(index int) (Row, error)
	CreateRow(index int) (Row, error)
}

// Row is a row of a Sheet.
type Row interface {
	// Index is zero-based.
	Index() int
	Sheet() Sheet
	// Cell returns the cell at the zero-based column index, or nil if it does not exist.
	Cell(col int) (Cell, error)
	CreateCell(col int) (Cell, error)
}

// Style is an opaque, comparable style handle created by Workbook.NewStyle.
type Style interface {
	NumberFormat() string
}

// CellKind is the stored type of a cell.
type CellKind uint8

const (
	KindBlank CellKind = iota
	KindNumeric
	KindText
	KindBool
)

func (k CellKind) String() string {
	switch k {
	case KindNumeric:
		return "numeric"
	case KindText:
		return "text"
	case KindBool:
		return "bool"
	default:
		return "blank"
	}
}

// Cell is a single addressable cell.
type Cell interface {
	// Index is the zero-based column index.
	Index() int
	Style() (Style, error)
	SetStyle(Style) error

	SetInt(int32) error
	SetInt64(int64) error
	SetFloat(float64) error
	SetString(string) error
	SetTime(time.Time) error

	Kind() (CellKind, error)
	// DateFormatted reports whether the cell's number format renders a date.
	DateFormatted() (bool, error)
	// Raw is the stored textual representation ("4", "45123.5", "Name").
	Raw() (string, error)
	// Text is the string value of a text cell.
	Text() (string, error)
	// Time converts a numeric cell to a time, with the wall clock in the local zone.
	Time() (time.Time, error)
}
