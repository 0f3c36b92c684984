package domain

import (
	"encoding/json"
	"math"
	"slices"

	"gonum.org/v1/gonum/stat"
)

var nan = math.NaN()

// minObservations is the fewest paired observations a correlation needs.
const minObservations = 2

// CorrelationMatrix is a square, symmetric matrix of Pearson coefficients
// over named columns. Undefined cells hold NaN.
type CorrelationMatrix struct {
	Columns []string
	Values  [][]float64
}

// At returns the coefficient of columns i and j.
func (m *CorrelationMatrix) At(i, j int) float64 { return m.Values[i][j] }

// Get returns the coefficient of the named columns.
func (m *CorrelationMatrix) Get(a, b string) (float64, bool) {
	i, j := slices.Index(m.Columns, a), slices.Index(m.Columns, b)
	if i < 0 || j < 0 {
		return nan, false
	}
	return m.Values[i][j], true
}

// MarshalJSON renders NaN cells as null.
func (m *CorrelationMatrix) MarshalJSON() ([]byte, error) {
	values := make([][]*float64, len(m.Values))
	for i, row := range m.Values {
		values[i] = make([]*float64, len(row))
		for j, v := range row {
			if !math.IsNaN(v) {
				values[i][j] = &v
			}
		}
	}
	return json.Marshal(struct {
		Columns []string     `json:"columns"`
		Values  [][]*float64 `json:"values"`
	}{Columns: m.Columns, Values: values})
}

// Correlate computes the Pearson correlation of every pair of numeric
// columns of t, skipping the exclude columns (typically the join key).
//
// A column is numeric when none of its present values is a string or date.
// Each pair uses only rows where both cells are present. A pair with fewer
// than two such rows, or with zero variance on either side, is NaN; one
// degenerate pair never aborts the rest of the matrix.
func Correlate(t *Table, exclude ...string) (*CorrelationMatrix, error) {
	var absent []string
	for _, c := range exclude {
		if t.ColumnIndex(c) < 0 {
			absent = append(absent, c)
		}
	}
	if len(absent) > 0 {
		return nil, &SchemaError{Source: t.label(), Missing: absent}
	}

	var cols []string
	var data [][]float64
	for j, c := range t.Columns {
		if slices.Contains(exclude, c) {
			continue
		}
		xs, ok := numericColumn(t, j)
		if !ok {
			continue
		}
		cols = append(cols, c)
		data = append(data, xs)
	}

	n := len(cols)
	values := make([][]float64, n)
	for i := range values {
		values[i] = make([]float64, n)
	}
	for i := 0; i < n; i++ {
		values[i][i] = selfCorrelation(data[i])
		for j := i + 1; j < n; j++ {
			r := pearson(data[i], data[j])
			values[i][j] = r
			values[j][i] = r
		}
	}
	return &CorrelationMatrix{Columns: cols, Values: values}, nil
}

func numericColumn(t *Table, j int) ([]float64, bool) {
	xs := make([]float64, len(t.Rows))
	for i, r := range t.Rows {
		v := r[j]
		if v.IsMissing() {
			xs[i] = nan
			continue
		}
		f, ok := v.Float()
		if !ok {
			return nil, false
		}
		xs[i] = f
	}
	return xs, true
}

// selfCorrelation is 1 for a column with enough varying observations and
// NaN otherwise.
func selfCorrelation(x []float64) float64 {
	if math.IsNaN(pearson(x, x)) {
		return nan
	}
	return 1
}

func pearson(x, y []float64) float64 {
	px := make([]float64, 0, len(x))
	py := make([]float64, 0, len(y))
	for i := range x {
		if math.IsNaN(x[i]) || math.IsNaN(y[i]) {
			continue
		}
		px = append(px, x[i])
		py = append(py, y[i])
	}
	if len(px) < minObservations {
		return nan
	}
	if stat.Variance(px, nil) == 0 || stat.Variance(py, nil) == 0 {
		return nan
	}
	r := stat.Correlation(px, py, nil)
	return math.Max(-1, math.Min(1, r))
}
