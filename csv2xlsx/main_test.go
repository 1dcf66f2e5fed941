// Copyright 2026 Tamás Gulácsi.
//
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"cloud.google.com/go/civil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/UNO-SOFT/cellbind"
	"github.com/UNO-SOFT/cellbind/xlsx"
)

func TestParseDate(t *testing.T) {
	d, ok := parseDate("2024-02-29")
	assert.True(t, ok)
	assert.Equal(t, civil.Date{Year: 2024, Month: 2, Day: 29}, d)
	for _, s := range []string{"2023-02-29", "2024-2-29", "20240229", "x2024-02-29", ""} {
		_, ok := parseDate(s)
		assert.False(t, ok, s)
	}
}

func TestBindings(t *testing.T) {
	conv := converter{Start: 1, DateStyle: cellbind.FormatPattern("yyyy.mm.dd")}
	cc := conv.bindings([]string{"Jane", "", "1985-03-14", "42", "4.2"})
	require.Len(t, cc, 4)
	for i, want := range []*cellbind.CellBinding{
		cellbind.CellAt(1, "Jane"),
		cellbind.DateOf(3, civil.Date{Year: 1985, Month: 3, Day: 14}),
		cellbind.CellAt(4, int64(42)),
		cellbind.CellAt(5, "4.2"),
	} {
		assert.True(t, want.Equal(cc[i]), "%s != %s", want, cc[i])
	}
	assert.Equal(t, conv.DateStyle, cc[1].Style())
}

func TestCopyFile(t *testing.T) {
	dir := t.TempDir()
	fn := filepath.Join(dir, "people.csv")
	require.NoError(t, os.WriteFile(fn, []byte("Name;Birth;Phone\nJane;1985-03-14;5551234\n"), 0o644))

	var buf bytes.Buffer
	wb := xlsx.NewWriter(&buf)
	conv := converter{Start: 0, DateStyle: cellbind.FormatPattern(cellbind.DefaultDatePattern)}
	require.NoError(t, conv.copyFile(context.Background(), wb, "people", "utf-8", fn))
	require.NoError(t, wb.Close())

	rd, err := xlsx.OpenReader(&buf)
	require.NoError(t, err)
	defer rd.Close()
	sh, err := rd.Sheet("people")
	require.NoError(t, err)
	require.NotNil(t, sh)
	for i, m := range []cellbind.Matcher{
		cellbind.HasCells(cellbind.CellAt(0, "Name"), cellbind.CellAt(1, "Birth"), cellbind.CellAt(2, "Phone")),
		cellbind.HasCells(cellbind.CellAt(0, "Jane"),
			cellbind.DateOf(1, civil.Date{Year: 1985, Month: 3, Day: 14}),
			cellbind.CellAt(2, 5551234)),
	} {
		row, err := sh.Row(i)
		require.NoError(t, err)
		res, err := m.Match(row)
		require.NoError(t, err)
		assert.True(t, res.Matched, "row %d: %s", i, res.Err())
	}
}

func TestCopyFileCancel(t *testing.T) {
	dir := t.TempDir()
	fn := filepath.Join(dir, "numbers.csv")
	var sb strings.Builder
	sb.WriteString("N;Square\n")
	for i := range 3 * ctxCheckRows {
		fmt.Fprintf(&sb, "%d;%d\n", i, i*i)
	}
	require.NoError(t, os.WriteFile(fn, []byte(sb.String()), 0o644))
	conv := converter{DateStyle: cellbind.FormatPattern(cellbind.DefaultDatePattern)}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	wb := xlsx.NewWriter(&bytes.Buffer{})
	err := conv.copyFile(ctx, wb, "numbers", "utf-8", fn)
	assert.ErrorIs(t, err, context.Canceled)

	wb = xlsx.NewWriter(&bytes.Buffer{})
	require.NoError(t, conv.copyFile(context.Background(), wb, "numbers", "utf-8", fn))
	sh, err := wb.Sheet("numbers")
	require.NoError(t, err)
	row, err := sh.Row(3 * ctxCheckRows)
	require.NoError(t, err)
	res, err := cellbind.HasCells(cellbind.CellAt(0, 3*ctxCheckRows-1)).Match(row)
	require.NoError(t, err)
	assert.True(t, res.Matched, "%s", res.Err())
}
