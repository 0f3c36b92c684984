package domain

import "fmt"

// Condition is a single constraint over one column.
type Condition interface {
	Column() string
	Match(v Value) bool
}

// Predicate is a conjunction of conditions. The empty predicate matches
// every record.
type Predicate []Condition

type eqCond struct {
	col string
	val Value
}

// Eq matches records whose col equals v.
func Eq(col string, v Value) Condition { return eqCond{col: col, val: v} }

func (c eqCond) Column() string     { return c.col }
func (c eqCond) Match(v Value) bool { return v.Equal(c.val) }
func (c eqCond) String() string     { return fmt.Sprintf("%s = %s", c.col, c.val) }

type inCond struct {
	col  string
	vals []Value
}

// In matches records whose col equals any of vals.
func In(col string, vals ...Value) Condition { return inCond{col: col, vals: vals} }

func (c inCond) Column() string { return c.col }

func (c inCond) Match(v Value) bool {
	for _, want := range c.vals {
		if v.Equal(want) {
			return true
		}
	}
	return false
}

type rangeCond struct {
	col    string
	lo, hi Value
}

// Between matches records with lo <= col <= hi. A missing bound is open.
func Between(col string, lo, hi Value) Condition { return rangeCond{col: col, lo: lo, hi: hi} }

// AtLeast matches records with col >= lo.
func AtLeast(col string, lo Value) Condition { return rangeCond{col: col, lo: lo} }

// AtMost matches records with col <= hi.
func AtMost(col string, hi Value) Condition { return rangeCond{col: col, hi: hi} }

func (c rangeCond) Column() string { return c.col }

func (c rangeCond) Match(v Value) bool {
	if v.IsMissing() {
		return false
	}
	if !c.lo.IsMissing() {
		if cmp, ok := v.Compare(c.lo); !ok || cmp < 0 {
			return false
		}
	}
	if !c.hi.IsMissing() {
		if cmp, ok := v.Compare(c.hi); !ok || cmp > 0 {
			return false
		}
	}
	return true
}

// Filter returns the records of ds satisfying pred as a view over ds. The
// input is never modified. A predicate naming a column ds lacks fails with
// a SchemaError.
func Filter(ds *Dataset, pred Predicate) (*Dataset, error) {
	cols := make([]string, len(pred))
	for i, c := range pred {
		cols[i] = c.Column()
	}
	idx, err := ds.columnIndexes(cols)
	if err != nil {
		return nil, err
	}

	n := ds.Len()
	positions := make([]int, 0, n)
	for i := 0; i < n; i++ {
		row := ds.frame.cells[ds.rowIndex(i)]
		pass := true
		for k, c := range pred {
			if !c.Match(row[idx[k]]) {
				pass = false
				break
			}
		}
		if pass {
			positions = append(positions, i)
		}
	}
	return ds.view(positions), nil
}

// Distinct returns the distinct non-missing values of col in ascending order.
func Distinct(ds *Dataset, col string) ([]Value, error) {
	vals, err := ds.Column(col)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool, len(vals))
	var out []Value
	for _, v := range vals {
		if v.IsMissing() {
			continue
		}
		k := v.groupKey()
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, v)
	}
	sortValues(out)
	return out, nil
}
