package domain

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// ColumnType is the declared type of a dataset column.
type ColumnType uint8

const (
	// TypeAuto infers each cell: int, then float, then string.
	TypeAuto ColumnType = iota
	TypeString
	TypeInt
	TypeFloat
	TypeDate
)

// ColumnSpec declares one column a dataset kind knows about.
type ColumnSpec struct {
	Name     string
	Type     ColumnType
	Required bool

	// DerivedFrom lists source columns, in preference order, used to
	// synthesise this column with Derive when the CSV does not carry it.
	DerivedFrom []string
	Derive      func(Value) Value
}

// Schema is the declared column contract of a dataset kind.
type Schema struct {
	Kind    string
	Columns []ColumnSpec
}

// Require returns a copy of s with the named columns marked required.
// Columns unknown to s are appended as TypeAuto.
func (s Schema) Require(names ...string) Schema {
	out := Schema{Kind: s.Kind, Columns: make([]ColumnSpec, len(s.Columns))}
	copy(out.Columns, s.Columns)
	for _, n := range names {
		found := false
		for i := range out.Columns {
			if out.Columns[i].Name == n {
				out.Columns[i].Required = true
				found = true
				break
			}
		}
		if !found {
			out.Columns = append(out.Columns, ColumnSpec{Name: n, Required: true})
		}
	}
	return out
}

// RequiredColumns lists the names marked required, in declaration order.
func (s Schema) RequiredColumns() []string {
	var out []string
	for _, c := range s.Columns {
		if c.Required {
			out = append(out, c.Name)
		}
	}
	return out
}

func (s Schema) lookup(name string) (ColumnSpec, bool) {
	for _, c := range s.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return ColumnSpec{}, false
}

// missingTokens are cell contents treated as absent.
var missingTokens = map[string]bool{
	"":      true,
	"NA":    true,
	"N/A":   true,
	"NaN":   true,
	"nan":   true,
	"null":  true,
	"NULL":  true,
	"<nil>": true,
}

var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"01/02/2006",
	"1/2/2006",
	"01/02/2006 15:04",
	"1/2/2006 15:04",
	"2006/01/02",
}

// ParseCell converts raw CSV text into a Value of the declared type. Text
// that does not parse as the declared type is kept as a string Value so that
// numeric reductions skip it instead of failing the load.
func ParseCell(raw string, typ ColumnType) Value {
	s := strings.TrimSpace(raw)
	if missingTokens[s] {
		return Missing()
	}
	switch typ {
	case TypeString:
		return String(s)
	case TypeInt:
		if v, ok := parseInt(s); ok {
			return v
		}
	case TypeFloat:
		if f, err := strconv.ParseFloat(s, 64); err == nil && isFinite(f) {
			return Float(f)
		}
	case TypeDate:
		if t, ok := parseDate(s); ok {
			return Date(t)
		}
	default:
		if v, ok := parseInt(s); ok {
			return v
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil && isFinite(f) {
			return Float(f)
		}
	}
	return String(s)
}

// isFinite rejects NaN and the infinities strconv accepts ("inf",
// "Infinity"), so such cells stay non-numeric.
func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// parseInt accepts plain integers and whole floats such as "2000.0", which
// spreadsheet exports commonly produce for integer columns.
func parseInt(s string) (Value, bool) {
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return Int(i), true
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && f == math.Trunc(f) && math.Abs(f) < 1<<53 {
		return Int(int64(f)), true
	}
	return Value{}, false
}

func parseDate(s string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
