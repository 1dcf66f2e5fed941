// Copyright 2026 Tamás Gulácsi.
//
// SPDX-License-Identifier: Apache-2.0

package xlsx

import (
	"strings"

	"github.com/xuri/nfp"
)

// builtInNumFmt maps the built-in numFmtId values to their format codes (ECMA-376 §18.8.30).
// General (0) is left out, so unformatted styles have an empty format.
var builtInNumFmt = map[int]string{
	1:  "0",
	2:  "0.00",
	3:  "#,##0",
	4:  "#,##0.00",
	9:  "0%",
	10: "0.00%",
	11: "0.00E+00",
	12: "# ?/?",
	13: "# ??/??",
	14: "mm-dd-yy",
	15: "d-mmm-yy",
	16: "d-mmm",
	17: "mmm-yy",
	18: "h:mm AM/PM",
	19: "h:mm:ss AM/PM",
	20: "hh:mm",
	21: "hh:mm:ss",
	22: "m/d/yy hh:mm",
	37: "#,##0 ;(#,##0)",
	38: "#,##0 ;[Red](#,##0)",
	39: "#,##0.00 ;(#,##0.00)",
	40: "#,##0.00 ;[Red](#,##0.00)",
	45: "mm:ss",
	46: "[h]:mm:ss",
	47: "mm:ss.0",
	48: "##0.0E+0",
	49: "@",
}

// isBuiltInDateID reports whether id is a built-in date, time or datetime numFmtId.
//
//	14-22   date and time formats
//	27-36   locale-specific CJK date formats
//	45-47   elapsed-time formats
//	50-58   locale-specific CJK date formats (variant set)
func isBuiltInDateID(id int) bool {
	switch {
	case id >= 14 && id <= 22,
		id >= 27 && id <= 36,
		id >= 45 && id <= 47,
		id >= 50 && id <= 58:
		return true
	}
	return false
}

// isDateFormat reports whether a number rendered with the numFmtId / format code is a date.
// Custom codes are parsed with nfp and looked for date-time tokens.
func isDateFormat(id int, format string) bool {
	if id < 164 && isBuiltInDateID(id) {
		return true
	}
	if format == "" || strings.EqualFold(format, "General") {
		return false
	}
	ps := nfp.NumberFormatParser()
	for _, sec := range ps.Parse(format) {
		for _, tok := range sec.Items {
			switch tok.TType {
			case nfp.TokenTypeDateTimes, nfp.TokenTypeElapsedDateTimes:
				return true
			}
		}
	}
	return false
}
