package domain

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"
)

// Kind identifies the dynamic type held by a Value.
type Kind uint8

const (
	KindMissing Kind = iota
	KindInt
	KindFloat
	KindDate
	KindString
)

func (k Kind) String() string {
	switch k {
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindDate:
		return "date"
	case KindString:
		return "string"
	default:
		return "missing"
	}
}

// dateLayout is the canonical rendering of date values.
const dateLayout = "2006-01-02"

// Value is a single typed cell. The zero Value is the missing marker.
type Value struct {
	kind Kind
	i    int64
	f    float64
	s    string
	t    time.Time
}

// Missing returns the explicit missing marker.
func Missing() Value { return Value{} }

// String wraps s as a string value.
func String(s string) Value { return Value{kind: KindString, s: s} }

// Int wraps i as an integer value.
func Int(i int64) Value { return Value{kind: KindInt, i: i} }

// Float wraps f as a float value. NaN is stored as missing.
func Float(f float64) Value {
	if math.IsNaN(f) {
		return Value{}
	}
	return Value{kind: KindFloat, f: f}
}

// Date wraps t as a date value, truncated to the UTC calendar day.
func Date(t time.Time) Value {
	y, m, d := t.Date()
	return Value{kind: KindDate, t: time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

func (v Value) Kind() Kind { return v.kind }

func (v Value) IsMissing() bool { return v.kind == KindMissing }

// IsNumeric reports whether v holds an int or a float.
func (v Value) IsNumeric() bool { return v.kind == KindInt || v.kind == KindFloat }

// Float returns the numeric view of v. ok is false for non-numeric values.
func (v Value) Float() (f float64, ok bool) {
	switch v.kind {
	case KindInt:
		return float64(v.i), true
	case KindFloat:
		return v.f, true
	default:
		return 0, false
	}
}

// Int returns the integral view of v. Floats convert only when whole.
func (v Value) Int() (int64, bool) {
	switch v.kind {
	case KindInt:
		return v.i, true
	case KindFloat:
		if v.f == math.Trunc(v.f) && !math.IsInf(v.f, 0) {
			return int64(v.f), true
		}
	}
	return 0, false
}

// Time returns the date held by v.
func (v Value) Time() (time.Time, bool) {
	if v.kind != KindDate {
		return time.Time{}, false
	}
	return v.t, true
}

// Text returns the raw string of a string value.
func (v Value) Text() (string, bool) {
	if v.kind != KindString {
		return "", false
	}
	return v.s, true
}

func (v Value) String() string {
	switch v.kind {
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindFloat:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case KindDate:
		return v.t.Format(dateLayout)
	case KindString:
		return v.s
	default:
		return ""
	}
}

// Equal reports whether two values are the same. Ints and floats compare
// numerically; missing equals nothing, including another missing value.
func (v Value) Equal(o Value) bool {
	if v.IsMissing() || o.IsMissing() {
		return false
	}
	c, ok := v.Compare(o)
	return ok && c == 0
}

// Compare orders v against o. ok is false when the kinds are not comparable
// (for example a string against a number) or either side is missing.
func (v Value) Compare(o Value) (c int, ok bool) {
	if v.IsMissing() || o.IsMissing() {
		return 0, false
	}
	if v.IsNumeric() && o.IsNumeric() {
		a, _ := v.Float()
		b, _ := o.Float()
		return cmpFloat(a, b), true
	}
	if v.kind != o.kind {
		return 0, false
	}
	switch v.kind {
	case KindDate:
		return v.t.Compare(o.t), true
	case KindString:
		return strings.Compare(v.s, o.s), true
	}
	return 0, false
}

// order is a total order over all values used for deterministic sorting:
// missing < numbers < dates < strings, then by value within a class.
func order(a, b Value) int {
	ra, rb := rank(a), rank(b)
	if ra != rb {
		return ra - rb
	}
	c, _ := a.Compare(b)
	return c
}

func rank(v Value) int {
	switch v.kind {
	case KindMissing:
		return 0
	case KindInt, KindFloat:
		return 1
	case KindDate:
		return 2
	default:
		return 3
	}
}

func cmpFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// groupKey encodes v so that numerically equal ints and floats collide.
func (v Value) groupKey() string {
	switch v.kind {
	case KindInt, KindFloat:
		f, _ := v.Float()
		return "n:" + strconv.FormatFloat(f, 'g', -1, 64)
	case KindDate:
		return "d:" + v.t.Format(dateLayout)
	case KindString:
		return "s:" + v.s
	default:
		return "m:"
	}
}

// MarshalJSON renders missing as null, numbers as JSON numbers, dates as
// "2006-01-02" and strings verbatim.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindInt:
		return []byte(strconv.FormatInt(v.i, 10)), nil
	case KindFloat:
		if math.IsInf(v.f, 0) {
			return []byte("null"), nil
		}
		return []byte(strconv.FormatFloat(v.f, 'g', -1, 64)), nil
	case KindDate:
		return json.Marshal(v.t.Format(dateLayout))
	case KindString:
		return json.Marshal(v.s)
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON accepts null, numbers and strings. Whole numbers decode as
// ints; strings stay strings.
func (v *Value) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch x := raw.(type) {
	case nil:
		*v = Missing()
	case float64:
		if x == math.Trunc(x) && math.Abs(x) < 1<<53 {
			*v = Int(int64(x))
		} else {
			*v = Float(x)
		}
	case string:
		*v = String(x)
	case bool:
		*v = String(strconv.FormatBool(x))
	default:
		*v = String(string(data))
	}
	return nil
}
