// Copyright 2020, 2023, 2026 Tamás Gulácsi.
//
// SPDX-License-Identifier: Apache-2.0

// Package xlsx implements the cellbind spreadsheet engine on top of excelize.
package xlsx

import (
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/UNO-SOFT/cellbind"
	"github.com/xuri/excelize/v2"
)

var (
	_ = (cellbind.Writer)((*Workbook)(nil))
	_ = (cellbind.Workbook)((*Workbook)(nil))
)

// Workbook is an xlsx document.
//
// Its methods may be called concurrently, but rows and cells must not be
// changed from multiple goroutines at once.
type Workbook struct {
	w          io.Writer
	xl         *excelize.File
	logger     *slog.Logger
	styles     map[cellbind.StyleSpec]Style
	sheets     map[string]*Sheet
	date1904   *bool
	created    []string
	dateStyles map[int]int
	fresh      bool
	mu         sync.Mutex
}

// Option configures a Workbook.
type Option func(*Workbook)

// WithLogger logs sheet, row, cell and style creation at debug level.
func WithLogger(logger *slog.Logger) Option {
	return func(wb *Workbook) { wb.logger = logger }
}

// New returns a new, empty workbook.
func New(opts ...Option) *Workbook {
	wb := Wrap(excelize.NewFile(), opts...)
	wb.fresh = true
	return wb
}

// NewWriter returns a new workbook which is written to w on Close.
//
// This writer allows concurrent writes to separate sheets.
//
// This writer collects everything in memory, so big sheets may impose problems.
func NewWriter(w io.Writer, opts ...Option) *Workbook {
	wb := New(opts...)
	wb.w = w
	return wb
}

// Open the xlsx file at path.
func Open(path string, opts ...Option) (*Workbook, error) {
	xl, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open %q: %w", path, err)
	}
	return Wrap(xl, opts...), nil
}

// OpenReader reads the xlsx document from r.
func OpenReader(r io.Reader, opts ...Option) (*Workbook, error) {
	xl, err := excelize.OpenReader(r)
	if err != nil {
		return nil, err
	}
	return Wrap(xl, opts...), nil
}

// Wrap the excelize file.
func Wrap(xl *excelize.File, opts ...Option) *Workbook {
	wb := &Workbook{xl: xl, sheets: make(map[string]*Sheet)}
	for _, o := range opts {
		o(wb)
	}
	if wb.logger == nil {
		wb.logger = slog.New(slog.DiscardHandler)
	}
	return wb
}

// File returns the underlying excelize file.
func (wb *Workbook) File() *excelize.File { return wb.xl }

// Close writes the workbook to the writer given to NewWriter (if any),
// and releases the underlying file.
func (wb *Workbook) Close() error {
	if wb == nil {
		return nil
	}
	wb.mu.Lock()
	defer wb.mu.Unlock()
	xl, w := wb.xl, wb.w
	wb.xl, wb.w = nil, nil
	if xl == nil {
		return nil
	}
	var err error
	if w != nil {
		_, err = xl.WriteTo(w)
	}
	if closeErr := xl.Close(); closeErr != nil && err == nil {
		err = closeErr
	}
	return err
}

// SaveAs writes the workbook to path.
func (wb *Workbook) SaveAs(path string) error {
	wb.mu.Lock()
	defer wb.mu.Unlock()
	return wb.xl.SaveAs(path)
}

// WriteTo writes the workbook to w.
func (wb *Workbook) WriteTo(w io.Writer) (int64, error) {
	wb.mu.Lock()
	defer wb.mu.Unlock()
	return wb.xl.WriteTo(w)
}

// Sheet returns the named sheet, or nil if the workbook has no such sheet.
func (wb *Workbook) Sheet(name string) (cellbind.Sheet, error) {
	sh, err := wb.sheet(name)
	if sh == nil || err != nil {
		return nil, err
	}
	return sh, nil
}

func (wb *Workbook) sheet(name string) (*Sheet, error) {
	wb.mu.Lock()
	defer wb.mu.Unlock()
	if sh, ok := wb.sheets[name]; ok {
		return sh, nil
	}
	idx, err := wb.xl.GetSheetIndex(name)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	if idx < 0 {
		return nil, nil
	}
	sh := newSheet(wb, name)
	wb.sheets[name] = sh
	return sh, nil
}

// CreateSheet returns the named sheet, creating it when needed.
//
// The first sheet created in a new workbook takes the place of the default "Sheet1".
func (wb *Workbook) CreateSheet(name string) (cellbind.Sheet, error) {
	if sh, err := wb.sheet(name); err != nil {
		return nil, err
	} else if sh != nil {
		return sh, nil
	}
	wb.mu.Lock()
	defer wb.mu.Unlock()
	wb.created = append(wb.created, name)
	if wb.fresh && len(wb.created) == 1 { // first
		if err := wb.xl.SetSheetName("Sheet1", name); err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
	} else if _, err := wb.xl.NewSheet(name); err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	wb.logger.Debug("create sheet", "sheet", name)
	sh := newSheet(wb, name)
	sh.stored = make(map[int]struct{})
	wb.sheets[name] = sh
	return sh, nil
}

// NewStyle returns the style for spec, creating it in the workbook only once.
func (wb *Workbook) NewStyle(spec cellbind.StyleSpec) (cellbind.Style, error) {
	return wb.getStyle(spec)
}

func (wb *Workbook) getStyle(spec cellbind.StyleSpec) (Style, error) {
	wb.mu.Lock()
	defer wb.mu.Unlock()
	if s, ok := wb.styles[spec]; ok {
		return s, nil
	}
	var st excelize.Style
	if spec.FontBold {
		st.Font = &excelize.Font{Bold: true}
	}
	if spec.Format != "" {
		format := spec.Format
		st.CustomNumFmt = &format
	}
	id, err := wb.xl.NewStyle(&st)
	if err != nil {
		return Style{}, fmt.Errorf("%+v: %w", spec, err)
	}
	wb.logger.Debug("new style", "id", id, "format", spec.Format, "bold", spec.FontBold)
	s := Style{ID: id, Format: spec.Format}
	if wb.styles == nil {
		wb.styles = make(map[cellbind.StyleSpec]Style)
	}
	wb.styles[spec] = s
	return s, nil
}

// dateStyle returns the style id to use for a date written over style id.
// A style that already formats dates is returned as is; any other style gets
// the built-in "m/d/yy hh:mm" number format, keeping its font, fill and borders.
func (wb *Workbook) dateStyle(id int) (int, error) {
	wb.mu.Lock()
	defer wb.mu.Unlock()
	if d, ok := wb.dateStyles[id]; ok {
		return d, nil
	}
	xs := &excelize.Style{NumFmt: 22}
	if id != 0 {
		st, err := wb.xl.GetStyle(id)
		if err != nil {
			return 0, fmt.Errorf("style %d: %w", id, err)
		}
		format := builtInNumFmt[st.NumFmt]
		if st.CustomNumFmt != nil && *st.CustomNumFmt != "" {
			format = *st.CustomNumFmt
		}
		if isDateFormat(st.NumFmt, format) {
			xs = nil
		} else {
			xs = st
			xs.NumFmt, xs.CustomNumFmt = 22, nil
		}
	}
	d := id
	if xs != nil {
		var err error
		if d, err = wb.xl.NewStyle(xs); err != nil {
			return 0, err
		}
	}
	if wb.dateStyles == nil {
		wb.dateStyles = make(map[int]int)
	}
	wb.dateStyles[id] = d
	return d, nil
}

func (wb *Workbook) styleOf(id int) (Style, int, error) {
	if id == 0 {
		return Style{}, 0, nil
	}
	st, err := wb.xl.GetStyle(id)
	if err != nil {
		return Style{}, 0, fmt.Errorf("style %d: %w", id, err)
	}
	s := Style{ID: id, Format: builtInNumFmt[st.NumFmt]}
	if st.CustomNumFmt != nil && *st.CustomNumFmt != "" {
		s.Format = *st.CustomNumFmt
	}
	return s, st.NumFmt, nil
}

func (wb *Workbook) is1904() bool {
	wb.mu.Lock()
	defer wb.mu.Unlock()
	if wb.date1904 == nil {
		var b bool
		if props, err := wb.xl.GetWorkbookProps(); err == nil && props.Date1904 != nil {
			b = *props.Date1904
		}
		wb.date1904 = &b
	}
	return *wb.date1904
}

// Style is an excelize style id with its number format.
type Style struct {
	Format string
	ID     int
}

// NumberFormat returns the number format code.
func (s Style) NumberFormat() string { return s.Format }
