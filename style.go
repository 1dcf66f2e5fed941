// Copyright 2026 Tamás Gulácsi.
//
// SPDX-License-Identifier: Apache-2.0

package cellbind

import "fmt"

type styleKind uint8

const (
	styleNone styleKind = iota
	styleFixed
	styleBuilt
)

// StylePolicy assigns a style to a newly created cell.
//
// The zero value is NoStyle. Applying a policy replaces the cell's style, never merges.
type StylePolicy struct {
	style Style
	cache *builtStyle
	spec  StyleSpec
	kind  styleKind
}

type builtStyle struct {
	wb    Workbook
	style Style
}

// NoStyle leaves the cell's style alone.
func NoStyle() StylePolicy { return StylePolicy{} }

// FixedStyle assigns the given, already built style.
func FixedStyle(style Style) StylePolicy {
	if style == nil {
		return NoStyle()
	}
	return StylePolicy{kind: styleFixed, style: style}
}

// FormatPattern builds a style with the number format pattern (such as "yyyy-mm-dd")
// in the sheet's workbook on first use, and assigns it.
func FormatPattern(pattern string) StylePolicy {
	return FromSpec(StyleSpec{Format: pattern})
}

// FromSpec builds a style from spec on first use, and assigns it.
func FromSpec(spec StyleSpec) StylePolicy {
	if spec.IsZero() {
		return NoStyle()
	}
	return StylePolicy{kind: styleBuilt, spec: spec, cache: new(builtStyle)}
}

// Apply the policy to cell, which is on sheet.
func (p StylePolicy) Apply(sheet Sheet, cell Cell) error {
	switch p.kind {
	case styleNone:
		return nil
	case styleFixed:
		return cell.SetStyle(p.style)
	case styleBuilt:
		wb := sheet.Workbook()
		if p.cache.style == nil || p.cache.wb != wb {
			st, err := wb.NewStyle(p.spec)
			if err != nil {
				return fmt.Errorf("new style %+v: %w", p.spec, err)
			}
			p.cache.wb, p.cache.style = wb, st
		}
		return cell.SetStyle(p.cache.style)
	}
	return nil
}

func (p StylePolicy) String() string {
	switch p.kind {
	case styleFixed:
		return fmt.Sprintf("style %q", p.style.NumberFormat())
	case styleBuilt:
		return fmt.Sprintf("style %+v", p.spec)
	default:
		return "no style"
	}
}
