package domain

// Dataset is an immutable, ordered sequence of records sharing a column
// schema. Filtered datasets are views over the rows of their parent.
type Dataset struct {
	name  string
	frame *frame
	rows  []int // nil selects every row of frame
}

type frame struct {
	columns []string
	index   map[string]int
	cells   [][]Value // row-major
}

// NewDataset builds a Dataset from already-typed rows. Each row must have
// one Value per column; short rows are padded with missing values.
func NewDataset(name string, columns []string, rows [][]Value) *Dataset {
	f := &frame{
		columns: append([]string(nil), columns...),
		index:   make(map[string]int, len(columns)),
		cells:   make([][]Value, len(rows)),
	}
	for i, c := range f.columns {
		f.index[c] = i
	}
	for i, r := range rows {
		row := make([]Value, len(columns))
		copy(row, r)
		f.cells[i] = row
	}
	return &Dataset{name: name, frame: f}
}

// Name is the source the dataset was loaded from.
func (d *Dataset) Name() string { return d.name }

// Columns returns the column names in source order.
func (d *Dataset) Columns() []string {
	return append([]string(nil), d.frame.columns...)
}

// Has reports whether the dataset carries column col.
func (d *Dataset) Has(col string) bool {
	_, ok := d.frame.index[col]
	return ok
}

// Len is the number of records visible through this dataset.
func (d *Dataset) Len() int {
	if d.rows == nil {
		return len(d.frame.cells)
	}
	return len(d.rows)
}

// IsEmpty reports a zero-row dataset. An empty dataset is a valid result.
func (d *Dataset) IsEmpty() bool { return d.Len() == 0 }

// Value returns the cell at record i, column col. Unknown columns and
// out-of-range records yield the missing marker.
func (d *Dataset) Value(i int, col string) Value {
	c, ok := d.frame.index[col]
	if !ok || i < 0 || i >= d.Len() {
		return Missing()
	}
	return d.frame.cells[d.rowIndex(i)][c]
}

// Column returns a copy of every value in col.
func (d *Dataset) Column(col string) ([]Value, error) {
	c, ok := d.frame.index[col]
	if !ok {
		return nil, &SchemaError{Source: d.name, Missing: []string{col}}
	}
	out := make([]Value, d.Len())
	for i := range out {
		out[i] = d.frame.cells[d.rowIndex(i)][c]
	}
	return out, nil
}

// Require fails with a SchemaError naming every listed column the dataset
// lacks. Callers declare their dependencies here before using the data.
func (d *Dataset) Require(cols ...string) error {
	var missing []string
	for _, c := range cols {
		if !d.Has(c) {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return &SchemaError{Source: d.name, Missing: missing}
	}
	return nil
}

func (d *Dataset) rowIndex(i int) int {
	if d.rows == nil {
		return i
	}
	return d.rows[i]
}

// view returns a dataset sharing d's frame restricted to the given record
// positions (relative to d).
func (d *Dataset) view(positions []int) *Dataset {
	rows := make([]int, len(positions))
	for i, p := range positions {
		rows[i] = d.rowIndex(p)
	}
	return &Dataset{name: d.name, frame: d.frame, rows: rows}
}

func (d *Dataset) columnIndexes(cols []string) ([]int, error) {
	idx := make([]int, len(cols))
	var missing []string
	for i, c := range cols {
		j, ok := d.frame.index[c]
		if !ok {
			missing = append(missing, c)
			continue
		}
		idx[i] = j
	}
	if len(missing) > 0 {
		return nil, &SchemaError{Source: d.name, Missing: missing}
	}
	return idx, nil
}
