// Copyright 2026 Tamás Gulácsi.
//
// SPDX-License-Identifier: Apache-2.0

package xlsx

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/UNO-SOFT/cellbind"
)

func TestTimeToSerial(t *testing.T) {
	for _, tc := range []struct {
		t        time.Time
		want     float64
		date1904 bool
	}{
		{t: time.Date(1900, 1, 1, 0, 0, 0, 0, time.UTC), want: 1},
		{t: time.Date(1900, 2, 28, 0, 0, 0, 0, time.UTC), want: 59},
		{t: time.Date(1900, 3, 1, 0, 0, 0, 0, time.UTC), want: 61},
		{t: time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC), want: 45322},
		{t: time.Date(2024, 1, 31, 12, 0, 0, 0, time.UTC), want: 45322.5},
		{t: time.Date(2024, 1, 31, 6, 0, 0, 0, time.FixedZone("X", 5*3600)), want: 45322.25},
		{t: time.Date(1904, 1, 2, 0, 0, 0, 0, time.UTC), want: 1, date1904: true},
	} {
		got := timeToSerial(tc.t, tc.date1904)
		assert.InDelta(t, tc.want, got, 1e-9, "%s", tc.t)
	}
}

func TestSerialRoundTrip(t *testing.T) {
	for _, want := range []time.Time{
		time.Date(1985, 3, 14, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 2, 29, 23, 59, 59, 0, time.UTC),
		time.Date(2100, 12, 31, 8, 15, 0, 0, time.UTC),
	} {
		for _, date1904 := range []bool{false, true} {
			got, err := excelize.ExcelDateToTime(timeToSerial(want, date1904), date1904)
			require.NoError(t, err)
			assert.Equal(t, want, got, "1904=%t", date1904)
		}
	}
}

func TestSerialToTime(t *testing.T) {
	for _, want := range []time.Time{
		time.Date(1900, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(1900, 2, 28, 18, 0, 0, 0, time.UTC),
		time.Date(1900, 3, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 31, 9, 30, 0, 500_000_000, time.UTC),
		time.Date(2024, 1, 31, 23, 59, 59, 999_000_000, time.UTC),
		time.Date(2100, 12, 31, 8, 15, 0, 1_000_000, time.UTC),
	} {
		for _, date1904 := range []bool{false, true} {
			if date1904 && want.Year() < 1904 {
				continue
			}
			got, err := serialToTime(timeToSerial(want, date1904), date1904)
			require.NoError(t, err)
			assert.Equal(t, want, got, "1904=%t", date1904)
		}
	}
	for _, f := range []float64{-1, math.NaN(), math.Inf(1)} {
		_, err := serialToTime(f, false)
		assert.Error(t, err, "%v", f)
	}
}

func TestSheetRow(t *testing.T) {
	wb := New()
	defer wb.Close()
	sh, err := wb.CreateSheet("first")
	require.NoError(t, err)
	assert.Equal(t, []string{"first"}, wb.File().GetSheetList())

	for _, i := range []int{-1, MaxRowCount} {
		_, err = sh.Row(i)
		assert.ErrorIs(t, err, cellbind.ErrTooManyRows)
		_, err = sh.CreateRow(i)
		assert.ErrorIs(t, err, cellbind.ErrTooManyRows)
	}

	r, err := sh.CreateRow(2)
	require.NoError(t, err)
	c, err := r.CreateCell(27)
	require.NoError(t, err)
	assert.Equal(t, "AB3", c.(*Cell).Axis())
	require.NoError(t, c.SetString("x"))

	same, err := sh.Row(2)
	require.NoError(t, err)
	assert.Equal(t, r, same)

	other, err := wb.Sheet("nonexistent")
	require.NoError(t, err)
	assert.Nil(t, other)
}

func TestCellKinds(t *testing.T) {
	wb := New()
	defer wb.Close()
	_, err := wb.CreateSheet("kinds")
	require.NoError(t, err)
	xl := wb.File()
	require.NoError(t, xl.SetCellValue("kinds", "A1", "text"))
	require.NoError(t, xl.SetCellValue("kinds", "B1", 12.5))
	require.NoError(t, xl.SetCellValue("kinds", "C1", true))
	require.NoError(t, xl.SetCellValue("kinds", "D1", math.MaxInt32))

	// a fresh session sees the values written behind its back
	wb2 := Wrap(xl)
	sh2, err := wb2.Sheet("kinds")
	require.NoError(t, err)
	require.NotNil(t, sh2)
	row, err := sh2.Row(0)
	require.NoError(t, err)
	require.NotNil(t, row)
	for col, want := range []cellbind.CellKind{
		cellbind.KindText, cellbind.KindNumeric, cellbind.KindBool, cellbind.KindNumeric,
	} {
		c, err := row.Cell(col)
		require.NoError(t, err)
		require.NotNil(t, c, "col %d", col)
		got, err := c.Kind()
		require.NoError(t, err)
		assert.Equal(t, want, got, "col %d", col)
	}
	c, err := row.Cell(4)
	require.NoError(t, err)
	assert.Nil(t, c)
}

func TestSetTimeKeepsStyle(t *testing.T) {
	wb := New()
	defer wb.Close()
	sh, err := wb.CreateSheet("t")
	require.NoError(t, err)
	r, err := sh.CreateRow(0)
	require.NoError(t, err)

	plain, err := r.CreateCell(0)
	require.NoError(t, err)
	require.NoError(t, plain.SetTime(time.Date(2024, 1, 31, 10, 0, 0, 0, time.Local)))
	st, err := plain.Style()
	require.NoError(t, err)
	assert.Equal(t, "m/d/yy hh:mm", st.NumberFormat())

	styled, err := r.CreateCell(1)
	require.NoError(t, err)
	custom, err := wb.NewStyle(cellbind.StyleSpec{Format: "yyyy"})
	require.NoError(t, err)
	require.NoError(t, styled.SetStyle(custom))
	require.NoError(t, styled.SetTime(time.Date(2024, 1, 31, 10, 0, 0, 0, time.Local)))
	st, err = styled.Style()
	require.NoError(t, err)
	assert.Equal(t, custom, st)
	ok, err := styled.DateFormatted()
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestSetStyleForeign(t *testing.T) {
	wb := New()
	defer wb.Close()
	sh, err := wb.CreateSheet("t")
	require.NoError(t, err)
	r, err := sh.CreateRow(0)
	require.NoError(t, err)
	c, err := r.CreateCell(0)
	require.NoError(t, err)
	assert.Error(t, c.SetStyle(foreignStyle{}))
}

type foreignStyle struct{}

func (foreignStyle) NumberFormat() string { return "" }
