// Copyright 2026 Tamás Gulácsi.
//
// SPDX-License-Identifier: Apache-2.0

package xlsx

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsDateFormat(t *testing.T) {
	for _, tc := range []struct {
		format string
		id     int
		want   bool
	}{
		{id: 0},
		{id: 1, format: "0"},
		{id: 14, format: "mm-dd-yy", want: true},
		{id: 22, format: "m/d/yy hh:mm", want: true},
		{id: 46, format: "[h]:mm:ss", want: true},
		{id: 49, format: "@"},
		{id: 57, want: true},
		{id: 164, format: "yyyy-mm-dd", want: true},
		{id: 165, format: "dd.mm.yyyy hh:mm", want: true},
		{id: 166, format: "[h]:mm", want: true},
		{id: 167, format: "#,##0.00"},
		{id: 168, format: "0.0%"},
		{id: 169, format: "General"},
		{id: 170, format: `"yyyy"0`},
	} {
		assert.Equal(t, tc.want, isDateFormat(tc.id, tc.format), "%d %q", tc.id, tc.format)
	}
}
