// Copyright 2026 Tamás Gulácsi.
//
// SPDX-License-Identifier: Apache-2.0

package cellbind

import (
	"errors"
	"fmt"
)

var ErrInvalidColumnLabel = errors.New("invalid column label")

// ColumnIndex returns the zero-based index of the column label ("A" is 0, "AA" is 26).
//
// The label is a base-26 numeral with digits A=1 .. Z=26.
func ColumnIndex(label string) (int, error) {
	if label == "" {
		return 0, fmt.Errorf("%q: %w", label, ErrInvalidColumnLabel)
	}
	var n int
	for i := 0; i < len(label); i++ {
		c := label[i]
		if c < 'A' || 'Z' < c {
			return 0, fmt.Errorf("%q: %w", label, ErrInvalidColumnLabel)
		}
		n = n*26 + int(c-'A'+1)
		if n < 0 {
			return 0, fmt.Errorf("%q: too long: %w", label, ErrInvalidColumnLabel)
		}
	}
	return n - 1, nil
}

// ColumnLabel is the inverse of ColumnIndex.
func ColumnLabel(index int) string {
	if index < 0 {
		return ""
	}
	var buf [16]byte
	i := len(buf)
	for n := index + 1; n > 0; n = (n - 1) / 26 {
		i--
		buf[i] = byte('A' + (n-1)%26)
	}
	return string(buf[i:])
}
