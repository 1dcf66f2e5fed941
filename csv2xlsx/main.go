// Copyright 2020, 2026 Tamás Gulácsi.
//
// SPDX-License-Identifier: Apache-2.0

// Command csv2xlsx loads CSV files into the sheets of an xlsx file.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"syscall"

	"cloud.google.com/go/civil"
	"github.com/UNO-SOFT/zlog/v2"
	"github.com/peterbourgon/ff/v3"
	"github.com/peterbourgon/ff/v3/ffcli"

	"github.com/UNO-SOFT/cellbind"
	"github.com/UNO-SOFT/cellbind/xlsx"
)

var verbose zlog.VerboseVar
var logger = zlog.NewLogger(zlog.MaybeConsoleHandler(&verbose, os.Stderr)).SLog()

func main() {
	if err := Main(); err != nil {
		slog.Error("MAIN", "error", err)
		os.Exit(1)
	}
}

func Main() error {
	fs := flag.NewFlagSet("csv2xlsx", flag.ContinueOnError)
	fs.Var(&verbose, "v", "logging verbosity")
	flagEnc := fs.String("charset", cellbind.EncName, "csv charset name")
	flagStart := fs.String("start", "A", "first column of the data")
	flagDateFormat := fs.String("date-format", cellbind.DefaultDatePattern, "number format of date cells")

	app := ffcli.Command{Name: "csv2xlsx", FlagSet: fs,
		ShortUsage: "csv2xlsx [flags] out.xlsx [sheet:]in.csv[.gz]...",
		Options:    []ff.Option{ff.WithEnvVarPrefix("CELLBIND")},
		Exec: func(ctx context.Context, args []string) error {
			if len(args) == 0 {
				return flag.ErrHelp
			}
			start, err := cellbind.ColumnIndex(strings.ToUpper(*flagStart))
			if err != nil {
				return err
			}
			fn := args[0]
			fh := os.Stdout
			if !(fn == "" || fn == "-") {
				if fh, err = os.Create(fn); err != nil {
					return err
				}
			}
			defer fh.Close()
			wb := xlsx.NewWriter(fh, xlsx.WithLogger(logger))
			conv := converter{Start: start, DateStyle: cellbind.FormatPattern(*flagDateFormat)}

			inputs := args[1:]
			if len(inputs) == 0 {
				inputs = []string{"-"}
			}
			for i, fn := range inputs {
				if err := ctx.Err(); err != nil {
					return err
				}
				sheetName := fmt.Sprintf("Sheet%d", i+1)
				if i := strings.IndexByte(fn, ':'); i >= 0 {
					sheetName, fn = fn[:i], fn[i+1:]
				} else if fn != "" && fn != "-" {
					sheetName = strings.TrimSuffix(strings.TrimSuffix(filepath.Base(fn), ".gz"), ".csv")
				}
				logger.Info("copy", "file", fn, "sheet", sheetName)
				if err := conv.copyFile(ctx, wb, sheetName, *flagEnc, fn); err != nil {
					return fmt.Errorf("%q: %w", fn, err)
				}
			}

			if err := wb.Close(); err != nil {
				return err
			}
			return fh.Close()
		},
	}

	ctx, cancel := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer cancel()
	return app.ParseAndRun(ctx, os.Args[1:])
}

type converter struct {
	DateStyle cellbind.StylePolicy
	Start     int
}

// ctxCheckRows is how often copyFile checks for cancellation.
const ctxCheckRows = 1024

func (conv converter) copyFile(ctx context.Context, wb *xlsx.Workbook, sheetName, encName, fn string) error {
	cr, err := cellbind.OpenCsv(fn, encName)
	if err != nil {
		return err
	}
	defer cr.Close()

	row, err := cr.Read()
	if err != nil {
		return err
	}
	sh, err := wb.CreateSheet(sheetName)
	if err != nil {
		return err
	}
	header := make([]any, len(row))
	for i, s := range row {
		header[i] = s
	}
	bold := cellbind.FromSpec(cellbind.StyleSpec{FontBold: true})
	if err = cellbind.NewRowOf(sh, 0).Apply(cellbind.RangeAt(conv.Start, header...).WithStyle(bold)); err != nil {
		return err
	}

	for n := 1; ; n++ {
		if n%ctxCheckRows == 1 {
			if err := ctx.Err(); err != nil {
				return fmt.Errorf("%s row %d: %w", fn, n+1, err)
			}
		}
		if row, err = cr.Read(); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return err
		}
		if n >= xlsx.MaxRowCount {
			return cellbind.ErrTooManyRows
		}
		if err = cellbind.NewRowOf(sh, n).Apply(conv.bindings(row)); err != nil {
			return fmt.Errorf("row %d: %w", n+1, err)
		}
	}
	return nil
}

// bindings returns the typed cells of the CSV record.
func (conv converter) bindings(record []string) cellBindings {
	cells := make(cellBindings, 0, len(record))
	for i, s := range record {
		if s == "" {
			continue
		}
		idx := conv.Start + i
		if d, ok := parseDate(s); ok {
			cells = append(cells, cellbind.DateOf(idx, d, conv.DateStyle))
		} else if n, err := strconv.ParseInt(s, 10, 64); err == nil {
			cells = append(cells, cellbind.CellAt(idx, n))
		} else {
			cells = append(cells, cellbind.CellAt(idx, s))
		}
	}
	return cells
}

var rDate = regexp.MustCompile(`^[0-9]{4}-[0-9]{2}-[0-9]{2}$`)

func parseDate(s string) (civil.Date, bool) {
	if !rDate.MatchString(s) {
		return civil.Date{}, false
	}
	d, err := civil.ParseDate(s)
	return d, err == nil && d.IsValid()
}

type cellBindings []*cellbind.CellBinding

func (cc cellBindings) Materialize(row cellbind.Row) error {
	for _, c := range cc {
		if err := c.Materialize(row); err != nil {
			return err
		}
	}
	return nil
}
