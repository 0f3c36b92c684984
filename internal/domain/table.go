package domain

import (
	"fmt"
	"slices"
)

// Table is the result of aggregation or join: named columns, key columns
// first, one row per distinct key. Operations never modify a Table in place.
type Table struct {
	Name       string    `json:"name,omitempty"`
	KeyColumns []string  `json:"keyColumns"`
	Columns    []string  `json:"columns"`
	Rows       [][]Value `json:"rows"`
}

// AggregatedTable is the result of Aggregate.
type AggregatedTable = Table

// JoinedTable is the result of Join.
type JoinedTable = Table

// Len is the number of rows.
func (t *Table) Len() int { return len(t.Rows) }

// IsEmpty reports a zero-row table.
func (t *Table) IsEmpty() bool { return len(t.Rows) == 0 }

// ColumnIndex returns the position of col, or -1.
func (t *Table) ColumnIndex(col string) int {
	return slices.Index(t.Columns, col)
}

// Column returns a copy of the values of col.
func (t *Table) Column(col string) ([]Value, error) {
	j := t.ColumnIndex(col)
	if j < 0 {
		return nil, &SchemaError{Source: t.label(), Missing: []string{col}}
	}
	out := make([]Value, len(t.Rows))
	for i, r := range t.Rows {
		out[i] = r[j]
	}
	return out, nil
}

// Floats returns the numeric view of col; missing and non-numeric cells
// become NaN.
func (t *Table) Floats(col string) ([]float64, error) {
	vals, err := t.Column(col)
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(vals))
	for i, v := range vals {
		out[i] = nan
		if f, ok := v.Float(); ok {
			out[i] = f
		}
	}
	return out, nil
}

// Rename returns a copy of t with column from renamed to to.
func (t *Table) Rename(from, to string) (*Table, error) {
	j := t.ColumnIndex(from)
	if j < 0 {
		return nil, &SchemaError{Source: t.label(), Missing: []string{from}}
	}
	if from != to && t.ColumnIndex(to) >= 0 {
		return nil, fmt.Errorf("rename %s: column %q already exists", t.label(), to)
	}
	out := t.clone()
	out.Columns[j] = to
	for i, k := range out.KeyColumns {
		if k == from {
			out.KeyColumns[i] = to
		}
	}
	return out, nil
}

// WithName returns a copy of t labelled name. Join uses the label to
// disambiguate colliding columns.
func (t *Table) WithName(name string) *Table {
	out := t.clone()
	out.Name = name
	return out
}

func (t *Table) clone() *Table {
	rows := make([][]Value, len(t.Rows))
	for i, r := range t.Rows {
		rows[i] = slices.Clone(r)
	}
	return &Table{
		Name:       t.Name,
		KeyColumns: slices.Clone(t.KeyColumns),
		Columns:    slices.Clone(t.Columns),
		Rows:       rows,
	}
}

func (t *Table) label() string {
	if t.Name == "" {
		return "table"
	}
	return t.Name
}

// Project copies the named columns of every record of ds into a Table with
// no key columns. It feeds scatter plots and raw-row displays.
func Project(ds *Dataset, cols ...string) (*Table, error) {
	idx, err := ds.columnIndexes(cols)
	if err != nil {
		return nil, err
	}
	rows := make([][]Value, ds.Len())
	for i := range rows {
		src := ds.frame.cells[ds.rowIndex(i)]
		row := make([]Value, len(idx))
		for k, j := range idx {
			row[k] = src[j]
		}
		rows[i] = row
	}
	return &Table{
		Name:       ds.name,
		KeyColumns: []string{},
		Columns:    slices.Clone(cols),
		Rows:       rows,
	}, nil
}
