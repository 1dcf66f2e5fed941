// Copyright 2026 Tamás Gulácsi.
//
// SPDX-License-Identifier: Apache-2.0

package cellbind_test

import (
	"bytes"
	"errors"
	"math"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/UNO-SOFT/cellbind"
	"github.com/UNO-SOFT/cellbind/xlsx"
)

func newSheet(t *testing.T) cellbind.Sheet {
	t.Helper()
	wb := xlsx.New()
	t.Cleanup(func() { wb.Close() })
	sh, err := wb.CreateSheet("test")
	require.NoError(t, err)
	return sh
}

// reopen writes the workbook of sh into memory, and reads it back.
func reopen(t *testing.T, sh cellbind.Sheet) *xlsx.Workbook {
	t.Helper()
	var buf bytes.Buffer
	_, err := sh.Workbook().(*xlsx.Workbook).WriteTo(&buf)
	require.NoError(t, err)
	wb, err := xlsx.OpenReader(&buf)
	require.NoError(t, err)
	t.Cleanup(func() { wb.Close() })
	return wb
}

func cellOf(t *testing.T, sh cellbind.Sheet, row, col int) cellbind.Cell {
	t.Helper()
	r, err := sh.Row(row)
	require.NoError(t, err)
	require.NotNil(t, r, "row %d", row)
	c, err := r.Cell(col)
	require.NoError(t, err)
	require.NotNil(t, c, "cell %d/%d", row, col)
	return c
}

func TestTextRoundTrip(t *testing.T) {
	sh := newSheet(t)
	require.NoError(t, cellbind.NewRowOf(sh, 0).Apply(cellbind.CellNamed("C", "árvíztűrő tükörfúrógép")))

	c := cellOf(t, sh, 0, 2)
	kind, err := c.Kind()
	require.NoError(t, err)
	assert.Equal(t, cellbind.KindText, kind)
	s, err := c.Text()
	require.NoError(t, err)
	assert.Equal(t, "árvíztűrő tükörfúrógép", s)
}

func TestDateRoundTrip(t *testing.T) {
	sh := newSheet(t)
	d := civil.Date{Year: 2024, Month: time.February, Day: 29}
	require.NoError(t, cellbind.NewRowOf(sh, 1).Apply(cellbind.DateOf(0, d)))

	c := cellOf(t, sh, 1, 0)
	kind, err := c.Kind()
	require.NoError(t, err)
	assert.Equal(t, cellbind.KindNumeric, kind)
	isDate, err := c.DateFormatted()
	require.NoError(t, err)
	assert.True(t, isDate)
	st, err := c.Style()
	require.NoError(t, err)
	assert.Equal(t, cellbind.DefaultDatePattern, st.NumberFormat())

	got, err := c.Time()
	require.NoError(t, err)
	assert.Equal(t, d, civil.DateOf(got))

	b, err := cellbind.DateOfCell(c)
	require.NoError(t, err)
	assert.True(t, b.Equal(cellbind.DateOf(0, d)))
}

func TestDateTimeRoundTrip(t *testing.T) {
	sh := newSheet(t)
	want := time.Date(2023, 7, 14, 13, 14, 15, 0, time.Local)
	require.NoError(t, cellbind.NewRowOf(sh, 0).Apply(cellbind.CellAt(1, want)))

	c := cellOf(t, sh, 0, 1)
	isDate, err := c.DateFormatted()
	require.NoError(t, err)
	assert.True(t, isDate)
	got, err := c.Time()
	require.NoError(t, err)
	assert.Equal(t, want, got.Round(time.Second))
}

func TestNumbers(t *testing.T) {
	sh := newSheet(t)
	require.NoError(t, cellbind.NewRowOf(sh, 0).Apply(cellbind.RangeAt(0,
		int32(-7), int64(1)<<40, 3.7, 2.5)))
	for i, want := range []string{"-7", "1099511627776", "4", "3"} {
		c := cellOf(t, sh, 0, i)
		kind, err := c.Kind()
		require.NoError(t, err)
		assert.Equal(t, cellbind.KindNumeric, kind, "cell %d", i)
		isDate, err := c.DateFormatted()
		require.NoError(t, err)
		assert.False(t, isDate, "cell %d", i)
		raw, err := c.Raw()
		require.NoError(t, err)
		assert.Equal(t, want, raw, "cell %d", i)
	}
}

func TestIdempotentStyleOnce(t *testing.T) {
	sh := newSheet(t)
	row := cellbind.NewRowOf(sh, 0)
	b := cellbind.CellAt(0, 12).WithStyle(cellbind.FormatPattern("0.00"))
	require.NoError(t, row.Apply(b))
	c := cellOf(t, sh, 0, 0)
	first, err := c.Style()
	require.NoError(t, err)
	assert.Equal(t, "0.00", first.NumberFormat())

	// a different policy does not restyle an existing cell
	require.NoError(t, row.Apply(b.WithStyle(cellbind.FormatPattern("yyyy"))))
	require.NoError(t, row.Apply(b))
	c = cellOf(t, sh, 0, 0)
	second, err := c.Style()
	require.NoError(t, err)
	assert.Equal(t, first, second)
	raw, err := c.Raw()
	require.NoError(t, err)
	assert.Equal(t, "12", raw)
}

func TestExistingFormatKept(t *testing.T) {
	sh := newSheet(t)
	row := cellbind.NewRowOf(sh, 0)
	require.NoError(t, row.Apply(cellbind.CellAt(0, "placeholder").WithStyle(cellbind.FormatPattern("dd.mm.yyyy"))))
	require.NoError(t, row.Apply(cellbind.DateOf(0, civil.Date{Year: 2020, Month: 5, Day: 6})))

	st, err := cellOf(t, sh, 0, 0).Style()
	require.NoError(t, err)
	assert.Equal(t, "dd.mm.yyyy", st.NumberFormat())
}

func TestMaterializeNilRow(t *testing.T) {
	assert.NoError(t, cellbind.CellAt(0, "x").Materialize(nil))
	assert.NoError(t, cellbind.RangeAt(0, 1, 2).Materialize(nil))
}

func TestUnsupportedValue(t *testing.T) {
	sh := newSheet(t)
	err := cellbind.NewRowOf(sh, 0).Apply(cellbind.CellAt(0, true))
	assert.ErrorIs(t, err, cellbind.ErrUnsupportedCellValueType)
	err = cellbind.NewRowOf(sh, 0).Apply(cellbind.CellAt(1, nil))
	assert.ErrorIs(t, err, cellbind.ErrUnsupportedCellValueType)
}

func TestUnrepresentableFloat(t *testing.T) {
	sh := newSheet(t)
	row := cellbind.NewRowOf(sh, 0)
	for i, f := range []float64{math.NaN(), math.Inf(1), math.Inf(-1), 1e300, -1e19} {
		err := row.Apply(cellbind.CellAt(i, f))
		assert.ErrorIs(t, err, cellbind.ErrUnsupportedCellValueType, "%v", f)
		err = row.Apply(cellbind.CellAt(i, cellbind.Float(f)))
		assert.ErrorIs(t, err, cellbind.ErrUnsupportedCellValueType, "%v", f)
		r, err := sh.Row(0)
		require.NoError(t, err)
		c, err := r.Cell(i)
		require.NoError(t, err)
		if c != nil {
			raw, err := c.Raw()
			require.NoError(t, err)
			assert.Equal(t, "", raw, "%v", f)
		}
	}
}

func TestInvalidLabel(t *testing.T) {
	sh := newSheet(t)
	err := cellbind.NewRowOf(sh, 0).Apply(cellbind.CellNamed("a1", "x"))
	assert.ErrorIs(t, err, cellbind.ErrInvalidColumnLabel)
}

func TestCellFuncOnce(t *testing.T) {
	var indexCalls, valueCalls int
	b := cellbind.CellFunc(
		func() (int, error) { indexCalls++; return indexCalls, nil },
		func() (any, error) { valueCalls++; return valueCalls, nil },
	)
	for range 3 {
		idx, err := b.Index()
		require.NoError(t, err)
		assert.Equal(t, 1, idx)
		v, err := b.Value()
		require.NoError(t, err)
		assert.Equal(t, cellbind.Int64(1), v)
	}
	assert.Equal(t, 1, indexCalls)
	assert.Equal(t, 1, valueCalls)

	errBoom := errors.New("boom")
	_, err := cellbind.CellFunc(
		func() (int, error) { return 0, nil },
		func() (any, error) { return nil, errBoom },
	).Value()
	assert.ErrorIs(t, err, errBoom)
}

func TestCellEqual(t *testing.T) {
	a := cellbind.CellNamed("B", "x")
	assert.True(t, a.Equal(cellbind.CellAt(1, "x")))
	assert.True(t, a.Equal(cellbind.CellAt(1, cellbind.Text("x")).WithStyle(cellbind.FormatPattern("@"))))
	assert.False(t, a.Equal(cellbind.CellAt(2, "x")))
	assert.False(t, a.Equal(cellbind.CellAt(1, "y")))
	assert.False(t, a.Equal(cellbind.CellAt(1, 1)))
	assert.False(t, a.Equal(nil))
	assert.True(t, cellbind.CellAt(0, 3).Equal(cellbind.CellAt(0, int64(3))))
}

func TestCellString(t *testing.T) {
	assert.Equal(t, "Cell 1, x.", cellbind.CellNamed("B", "x").String())
	assert.Equal(t, "Cell 0, 4.", cellbind.CellAt(0, 3.7).String())
	assert.Equal(t, "Cell ?, x.", cellbind.CellNamed("?", "x").String())
}

func TestMonthOf(t *testing.T) {
	sh := newSheet(t)
	require.NoError(t, cellbind.NewRowOf(sh, 0).Apply(cellbind.MonthOf(0, time.September)))
	s, err := cellOf(t, sh, 0, 0).Text()
	require.NoError(t, err)
	assert.Equal(t, "Sep", s)
}
