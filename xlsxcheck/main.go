// Copyright 2021, 2026 Tamás Gulácsi.
//
// SPDX-License-Identifier: Apache-2.0

// Command xlsxcheck checks that a row of an xlsx sheet holds the given cells.
package main

import (
	"context"
	"encoding/hex"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/UNO-SOFT/zlog/v2"
	"github.com/peterbourgon/ff/v3"
	"github.com/peterbourgon/ff/v3/ffcli"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/orientation"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/UNO-SOFT/cellbind"
	"github.com/UNO-SOFT/cellbind/xlsx"
)

var verbose zlog.VerboseVar
var logger = zlog.NewLogger(zlog.MaybeConsoleHandler(&verbose, os.Stderr)).SLog()

// ErrMismatch is returned when the row does not hold the expected cells.
var ErrMismatch = errors.New("mismatch")

func main() {
	if err := Main(); err != nil {
		slog.Error("MAIN", "error", err)
		os.Exit(1)
	}
}

func Main() error {
	alternateColor := Color{Color: props.Color{Red: 230, Green: 230, Blue: 230}}

	fs := flag.NewFlagSet("xlsxcheck", flag.ContinueOnError)
	fs.Var(&verbose, "v", "logging verbosity")
	flagSheet := fs.String("sheet", "", "sheet name (default: the first sheet)")
	flagRow := fs.Int("row", 1, "row number (1-based)")
	flagPDF := fs.String("pdf", "", "write a PDF report to this file")
	flagColor := fs.String("alternate-color", alternateColor.String(), "alternate color of the PDF report")
	flagLandscape := fs.Bool("L", false, "landscape orientation (default: portrait)")
	flagFontSize := fs.Float64("f", 8, "font size")

	app := ffcli.Command{Name: "xlsxcheck", FlagSet: fs,
		ShortUsage: "xlsxcheck [flags] file.xlsx COL=value...",
		Options:    []ff.Option{ff.WithEnvVarPrefix("CELLBIND")},
		Exec: func(ctx context.Context, args []string) error {
			if len(args) < 2 {
				return flag.ErrHelp
			}
			if *flagRow < 1 {
				return fmt.Errorf("row %d: %w", *flagRow, cellbind.ErrTooManyRows)
			}
			cells, err := parseCells(args[1:])
			if err != nil {
				return err
			}
			if err := alternateColor.Parse(*flagColor); err != nil {
				return fmt.Errorf("alternate-color %q: %w", *flagColor, err)
			}

			wb, err := xlsx.Open(args[0], xlsx.WithLogger(logger))
			if err != nil {
				return err
			}
			defer wb.Close()
			sheetName := *flagSheet
			if sheetName == "" {
				sheetName = wb.File().GetSheetName(0)
			}
			sh, err := wb.Sheet(sheetName)
			if err != nil {
				return err
			}
			if sh == nil {
				return fmt.Errorf("%q: %w", sheetName, cellbind.ErrNoSuchSheet)
			}
			row, err := sh.Row(*flagRow - 1)
			if err != nil {
				return err
			}
			logger.Debug("match", "sheet", sheetName, "row", *flagRow, "exists", row != nil, "cells", len(cells))
			res, err := cellbind.HasCells(cells...).Match(row)
			if err != nil {
				return err
			}

			if *flagPDF != "" {
				rep := report{
					Title:     fmt.Sprintf("%s: %s, row %d", args[0], sheetName, *flagRow),
					FontSize:  *flagFontSize,
					Landscape: *flagLandscape,
					Alternate: alternateColor.Color,
				}
				if err := rep.Save(*flagPDF, res); err != nil {
					return fmt.Errorf("%q: %w", *flagPDF, err)
				}
			}
			if res.Matched {
				logger.Info("match", "cells", res.Expected)
				return nil
			}
			fmt.Printf("Expected: %s\nActual:   %s\n", res.Expected, res.Actual)
			return ErrMismatch
		},
	}

	ctx, cancel := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer cancel()
	return app.ParseAndRun(ctx, os.Args[1:])
}

// parseCells parses COL=value arguments, where COL is a column label (A, B, ..., AA)
// or a zero-based column number.
func parseCells(args []string) ([]*cellbind.CellBinding, error) {
	cells := make([]*cellbind.CellBinding, 0, len(args))
	for _, a := range args {
		col, value, ok := strings.Cut(a, "=")
		if !ok {
			return nil, fmt.Errorf("%q: want COL=value", a)
		}
		if i, err := strconv.Atoi(col); err == nil {
			if i < 0 {
				return nil, fmt.Errorf("%q: %w", col, cellbind.ErrInvalidColumnLabel)
			}
			cells = append(cells, cellbind.CellAt(i, value))
			continue
		}
		if _, err := cellbind.ColumnIndex(strings.ToUpper(col)); err != nil {
			return nil, err
		}
		cells = append(cells, cellbind.CellNamed(strings.ToUpper(col), value))
	}
	return cells, nil
}

type report struct {
	Title     string
	Alternate props.Color
	FontSize  float64
	Landscape bool
}

// Save writes the PDF report of res to path.
func (rep report) Save(path string, res cellbind.Result) error {
	orient := orientation.Vertical
	if rep.Landscape {
		orient = orientation.Horizontal
	}
	cfg := config.NewBuilder().
		WithOrientation(orient).
		WithDefaultFont(&props.Font{Size: rep.FontSize}).
		Build()
	m := maroto.New(cfg)

	verdict := "MATCH"
	if !res.Matched {
		verdict = "MISMATCH"
	}
	header := props.Text{Style: fontstyle.Bold, Size: rep.FontSize * 1.375}
	m.AddRow(rep.FontSize*1.5,
		text.NewCol(9, rep.Title, header),
		text.NewCol(3, verdict, header),
	)
	bold := props.Text{Style: fontstyle.Bold}
	m.AddRow(rep.FontSize,
		text.NewCol(2, "Column", bold),
		text.NewCol(5, "Expected", bold),
		text.NewCol(5, "Actual", bold),
	)
	for i, c := range res.Cells {
		r := m.AddRow(rep.FontSize,
			text.NewCol(2, cellbind.ColumnLabel(c.Index)),
			text.NewCol(5, c.Expected),
			text.NewCol(5, c.Actual),
		)
		if i%2 == 1 {
			r.WithStyle(&props.Cell{BackgroundColor: &rep.Alternate})
		}
	}

	doc, err := m.Generate()
	if err != nil {
		return err
	}
	return doc.Save(path)
}

type Color struct {
	props.Color
}

func (c *Color) String() string {
	return fmt.Sprintf("%02x%02x%02x", c.Red, c.Green, c.Blue)
}
func (c *Color) Parse(s string) error {
	b, err := hex.DecodeString(s)
	if err != nil {
		return err
	}
	if len(b) != 3 {
		return fmt.Errorf("%q: want 6 hex digits", s)
	}
	c.Red, c.Green, c.Blue = int(b[0]), int(b[1]), int(b[2])
	return nil
}
