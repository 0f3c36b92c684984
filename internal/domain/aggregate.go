package domain

import (
	"fmt"
	"slices"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Reducer names a per-group reduction.
type Reducer string

const (
	Mean   Reducer = "mean"
	Sum    Reducer = "sum"
	Count  Reducer = "count"
	Min    Reducer = "min"
	Max    Reducer = "max"
	First  Reducer = "first"
	Last   Reducer = "last"
	Median Reducer = "median"
	Q1     Reducer = "q1"
	Q3     Reducer = "q3"
)

// Valid reports whether r is a known reducer.
func (r Reducer) Valid() bool {
	switch r {
	case Mean, Sum, Count, Min, Max, First, Last, Median, Q1, Q3:
		return true
	}
	return false
}

// Aggregation reduces Column within each group. As names the output column;
// it defaults to Column, or "count" for a column-less Count.
type Aggregation struct {
	Column  string  `json:"column"`
	Reducer Reducer `json:"reducer"`
	As      string  `json:"as,omitempty"`
}

// Name is the output column name.
func (a Aggregation) Name() string {
	switch {
	case a.As != "":
		return a.As
	case a.Column != "":
		return a.Column
	default:
		return string(Count)
	}
}

// AggregateOption configures Aggregate.
type AggregateOption func(*aggregateConfig)

type aggregateConfig struct {
	firstSeen bool
}

// InFirstSeenOrder emits groups in the order their key first appears.
// Without it groups are sorted ascending by key.
func InFirstSeenOrder() AggregateOption {
	return func(c *aggregateConfig) { c.firstSeen = true }
}

type group struct {
	key  []Value
	rows []int // record positions within the dataset
}

// Aggregate partitions ds by the tuple of values at key and reduces each
// aggregation's column within every group.
//
// Records with a missing key value belong to no group. Numeric reducers skip
// non-numeric and missing cells of their column only; a group with no
// usable cell yields the missing marker. Count counts records regardless of
// column validity. An empty key reduces the whole dataset to one row.
func Aggregate(ds *Dataset, key []string, aggs []Aggregation, opts ...AggregateOption) (*AggregatedTable, error) {
	cfg := aggregateConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}

	keyIdx, err := ds.columnIndexes(key)
	if err != nil {
		return nil, err
	}
	aggIdx, err := aggregationIndexes(ds, key, aggs)
	if err != nil {
		return nil, err
	}

	groups := partition(ds, keyIdx, len(key) == 0)
	if !cfg.firstSeen {
		sort.SliceStable(groups, func(i, j int) bool {
			return compareTuples(groups[i].key, groups[j].key) < 0
		})
	}

	columns := append([]string{}, key...)
	for _, a := range aggs {
		columns = append(columns, a.Name())
	}

	rows := make([][]Value, len(groups))
	for gi, g := range groups {
		row := make([]Value, 0, len(columns))
		row = append(row, g.key...)
		for ai, a := range aggs {
			row = append(row, reduce(ds, g.rows, aggIdx[ai], a.Reducer))
		}
		rows[gi] = row
	}

	return &AggregatedTable{
		Name:       ds.name,
		KeyColumns: append([]string{}, key...),
		Columns:    columns,
		Rows:       rows,
	}, nil
}

func aggregationIndexes(ds *Dataset, key []string, aggs []Aggregation) ([]int, error) {
	seen := make(map[string]bool, len(key)+len(aggs))
	for _, k := range key {
		seen[k] = true
	}
	idx := make([]int, len(aggs))
	var missing []string
	for i, a := range aggs {
		if !a.Reducer.Valid() {
			return nil, fmt.Errorf("aggregate %s: unknown reducer %q", ds.name, a.Reducer)
		}
		name := a.Name()
		if seen[name] {
			return nil, fmt.Errorf("aggregate %s: duplicate output column %q", ds.name, name)
		}
		seen[name] = true

		idx[i] = -1
		if a.Column == "" {
			if a.Reducer != Count {
				return nil, fmt.Errorf("aggregate %s: reducer %q needs a column", ds.name, a.Reducer)
			}
			continue
		}
		j, ok := ds.frame.index[a.Column]
		if !ok {
			missing = append(missing, a.Column)
			continue
		}
		idx[i] = j
	}
	if len(missing) > 0 {
		return nil, &SchemaError{Source: ds.name, Missing: missing}
	}
	return idx, nil
}

func partition(ds *Dataset, keyIdx []int, whole bool) []group {
	n := ds.Len()
	if whole {
		if n == 0 {
			return nil
		}
		all := make([]int, n)
		for i := range all {
			all[i] = i
		}
		return []group{{key: []Value{}, rows: all}}
	}

	byKey := make(map[string]int)
	var groups []group
	encoded := make([]byte, 0, 64)
rows:
	for i := 0; i < n; i++ {
		row := ds.frame.cells[ds.rowIndex(i)]
		encoded = encoded[:0]
		for _, j := range keyIdx {
			if row[j].IsMissing() {
				continue rows
			}
			encoded = append(encoded, row[j].groupKey()...)
			encoded = append(encoded, 0)
		}
		k := string(encoded)
		gi, ok := byKey[k]
		if !ok {
			key := make([]Value, len(keyIdx))
			for p, j := range keyIdx {
				key[p] = row[j]
			}
			gi = len(groups)
			byKey[k] = gi
			groups = append(groups, group{key: key})
		}
		groups[gi].rows = append(groups[gi].rows, i)
	}
	return groups
}

func reduce(ds *Dataset, positions []int, col int, r Reducer) Value {
	if r == Count {
		return Int(int64(len(positions)))
	}

	cell := func(p int) Value { return ds.frame.cells[ds.rowIndex(p)][col] }

	switch r {
	case First:
		for _, p := range positions {
			if v := cell(p); !v.IsMissing() {
				return v
			}
		}
		return Missing()
	case Last:
		for i := len(positions) - 1; i >= 0; i-- {
			if v := cell(positions[i]); !v.IsMissing() {
				return v
			}
		}
		return Missing()
	}

	xs := make([]float64, 0, len(positions))
	for _, p := range positions {
		if f, ok := cell(p).Float(); ok {
			xs = append(xs, f)
		}
	}
	if len(xs) == 0 {
		return Missing()
	}

	switch r {
	case Mean:
		return Float(stat.Mean(xs, nil))
	case Sum:
		return Float(floats.Sum(xs))
	case Min:
		return Float(floats.Min(xs))
	case Max:
		return Float(floats.Max(xs))
	case Median:
		return Float(quantile(xs, 0.5))
	case Q1:
		return Float(quantile(xs, 0.25))
	case Q3:
		return Float(quantile(xs, 0.75))
	}
	return Missing()
}

// quantile returns the p-quantile of xs using linear interpolation between
// closest ranks (rank = p*(n-1)), the convention of most dataframe tools.
func quantile(xs []float64, p float64) float64 {
	sorted := slices.Clone(xs)
	slices.Sort(sorted)
	n := len(sorted)
	rank := p * float64(n-1)
	lower := int(rank)
	if lower+1 >= n {
		return sorted[n-1]
	}
	w := rank - float64(lower)
	return sorted[lower]*(1-w) + sorted[lower+1]*w
}

func compareTuples(a, b []Value) int {
	for i := range a {
		if c := order(a[i], b[i]); c != 0 {
			return c
		}
	}
	return 0
}

func sortValues(vs []Value) {
	sort.SliceStable(vs, func(i, j int) bool { return order(vs[i], vs[j]) < 0 })
}
