// Copyright 2026 Tamás Gulácsi.
//
// SPDX-License-Identifier: Apache-2.0

package cellbind

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"

	"cloud.google.com/go/civil"
	"google.golang.org/genproto/googleapis/type/date"
)

var ErrUnsupportedCellValueType = errors.New("unsupported cell value type")

// Value is a typed cell value: one of Int, Int64, Float, Text, Date or DateTime.
//
// Values are comparable with ==.
type Value interface {
	fmt.Stringer
	cellValue()
}

type (
	// Int is written as an integer.
	Int int32
	// Int64 is written as an integer.
	Int64 int64
	// Float is written rounded to the nearest integer, halves rounded up.
	Float float64
	// Text is written as a string.
	Text string
	// Date is written as local midnight of the day.
	Date struct{ civil.Date }
	// DateTime is written as the wall clock in the local time zone.
	DateTime struct{ civil.DateTime }
)

func (Int) cellValue()      {}
func (Int64) cellValue()    {}
func (Float) cellValue()    {}
func (Text) cellValue()     {}
func (Date) cellValue()     {}
func (DateTime) cellValue() {}

func (v Int) String() string   { return strconv.FormatInt(int64(v), 10) }
func (v Int64) String() string { return strconv.FormatInt(int64(v), 10) }
func (v Text) String() string  { return string(v) }

// String returns the written (rounded) number.
func (v Float) String() string { return strconv.FormatInt(v.Rounded(), 10) }

// Rounded returns the integer stored for v: the nearest one, halves rounded up.
// The result is meaningless for values Check rejects.
func (v Float) Rounded() int64 {
	x := float64(v)
	f := math.Floor(x)
	if x-f >= 0.5 {
		f++
	}
	return int64(f)
}

// Check returns an error for NaN, the infinities, and values out of the int64 range.
func (v Float) Check() error {
	x := float64(v)
	if math.IsNaN(x) || math.IsInf(x, 0) || x < -(1<<63) || x >= 1<<63 {
		return fmt.Errorf("%v is not an int64: %w", x, ErrUnsupportedCellValueType)
	}
	return nil
}

// Time returns local midnight of the date.
func (v Date) Time() time.Time { return v.Date.In(time.Local) }

// Time returns the date-time in the local time zone.
func (v DateTime) Time() time.Time { return v.DateTime.In(time.Local) }

// Rounded returns the date-time to the millisecond, the precision a cell keeps.
func (v DateTime) Rounded() civil.DateTime {
	return civil.DateTimeOf(v.Time().Round(time.Millisecond))
}

// DateValue returns the Date of the given day.
func DateValue(year int, month time.Month, day int) Date {
	return Date{civil.Date{Year: year, Month: month, Day: day}}
}

// DateTimeOf returns the DateTime of t's wall clock in the local time zone.
func DateTimeOf(t time.Time) DateTime {
	return DateTime{civil.DateTimeOf(t.In(time.Local))}
}

// ValueOf converts v to a Value.
//
// Besides the Value kinds it accepts the Go integer and float types, string, []byte,
// time.Time, civil.Date, civil.DateTime, *date.Date, driver.Valuer (sql.Null*)
// and fmt.Stringer.
// nil, invalid sql.Null* values and the zero time.Time return (nil, nil): no value.
// Anything else returns ErrUnsupportedCellValueType.
func ValueOf(v any) (Value, error) {
	if v == nil {
		return nil, nil
	}
	if x, ok := v.(Value); ok {
		return x, nil
	}
	if vr, ok := v.(driver.Valuer); ok {
		vv, err := vr.Value()
		if err != nil {
			return nil, fmt.Errorf("%T: %w", v, err)
		}
		if vv == nil {
			return nil, nil
		}
		v = vv
	}
	switch x := v.(type) {
	case int:
		return Int64(x), nil
	case int8:
		return Int(x), nil
	case int16:
		return Int(x), nil
	case int32:
		return Int(x), nil
	case int64:
		return Int64(x), nil
	case uint8:
		return Int(x), nil
	case uint16:
		return Int(x), nil
	case uint32:
		return Int64(x), nil
	case uint:
		if uint64(x) > math.MaxInt64 {
			return nil, fmt.Errorf("%d overflows int64: %w", x, ErrUnsupportedCellValueType)
		}
		return Int64(x), nil
	case uint64:
		if x > math.MaxInt64 {
			return nil, fmt.Errorf("%d overflows int64: %w", x, ErrUnsupportedCellValueType)
		}
		return Int64(x), nil
	case float32:
		return checkedFloat(Float(x))
	case float64:
		return checkedFloat(Float(x))
	case string:
		return Text(x), nil
	case []byte:
		return Text(x), nil
	case time.Time:
		if x.IsZero() {
			return nil, nil
		}
		return DateTimeOf(x), nil
	case civil.Date:
		return Date{x}, nil
	case civil.DateTime:
		return DateTime{x}, nil
	case *date.Date:
		if x == nil {
			return nil, nil
		}
		return DateValue(int(x.GetYear()), time.Month(x.GetMonth()), int(x.GetDay())), nil
	case fmt.Stringer:
		return Text(x.String()), nil
	}
	return nil, fmt.Errorf("%T: %w", v, ErrUnsupportedCellValueType)
}

func checkedFloat(v Float) (Value, error) {
	if err := v.Check(); err != nil {
		return nil, err
	}
	return v, nil
}

// writeValue writes v into c with the matching engine call.
func writeValue(c Cell, v Value) error {
	switch x := v.(type) {
	case Int:
		return c.SetInt(int32(x))
	case Int64:
		return c.SetInt64(int64(x))
	case Float:
		if err := x.Check(); err != nil {
			return err
		}
		return c.SetInt64(x.Rounded())
	case Text:
		return c.SetString(string(x))
	case Date:
		return c.SetTime(x.Time())
	case DateTime:
		return c.SetTime(x.Time())
	}
	return fmt.Errorf("%T: %w", v, ErrUnsupportedCellValueType)
}
