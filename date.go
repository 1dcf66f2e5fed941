// Copyright 2026 Tamás Gulácsi.
//
// SPDX-License-Identifier: Apache-2.0

package cellbind

import (
	"fmt"
	"time"

	"cloud.google.com/go/civil"
)

// DefaultDatePattern is the number format of date cells created by DateOf.
const DefaultDatePattern = "yyyy-mm-dd"

// DateOf binds the calendar date to the column index.
// New cells get a DefaultDatePattern style unless a policy is given.
func DateOf(index int, d civil.Date, style ...StylePolicy) *CellBinding {
	return CellAt(index, Date{d}).WithStyle(firstStyle(style, FormatPattern(DefaultDatePattern)))
}

// DateNamed is DateOf with a column label.
func DateNamed(label string, d civil.Date, style ...StylePolicy) *CellBinding {
	return CellNamed(label, Date{d}).WithStyle(firstStyle(style, FormatPattern(DefaultDatePattern)))
}

// DateOfCell reads a date cell back into a binding: its column, its calendar date
// in the local time zone, and its style.
func DateOfCell(cell Cell) (*CellBinding, error) {
	t, err := cell.Time()
	if err != nil {
		return nil, fmt.Errorf("cell %d: %w", cell.Index(), err)
	}
	st, err := cell.Style()
	if err != nil {
		return nil, fmt.Errorf("cell %d: %w", cell.Index(), err)
	}
	return CellAt(cell.Index(), Date{civil.DateOf(t)}).WithStyle(FixedStyle(st)), nil
}

// MonthOf binds the short English name of the month ("Jan") to the column index.
func MonthOf(index int, month time.Month, style ...StylePolicy) *CellBinding {
	return CellAt(index, Text(month.String()[:3])).WithStyle(firstStyle(style, NoStyle()))
}

func firstStyle(style []StylePolicy, def StylePolicy) StylePolicy {
	if len(style) != 0 {
		return style[0]
	}
	return def
}
